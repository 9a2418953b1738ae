package service

import "strings"

// satisfactionKeywords flags messages where the user sounds happy with the
// shown cars and may be ready to compare them. English plus French.
var satisfactionKeywords = []string{
	"perfect", "great", "thanks", "thank you", "looks good",
	"i'll think", "i will think", "let me think", "appreciate",
	"parfait", "merci", "super", "génial", "je vais réfléchir",
}

// IsSatisfied reports whether the message contains a satisfaction keyword,
// matched case-insensitively. Pure, no external calls.
func IsSatisfied(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range satisfactionKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
