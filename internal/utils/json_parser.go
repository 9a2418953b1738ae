package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ParseModelJSON parses a JSON object out of completion-service output.
// Models asked for JSON still occasionally wrap it in markdown fences or
// surrounding prose, so plain decoding is tried first and progressively
// looser extraction after that.
func ParseModelJSON(input string, target interface{}) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if fenced := extractFenced(input); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err == nil {
			return nil
		}
	}

	if obj := extractObject(input); obj != "" {
		if err := json.Unmarshal([]byte(obj), target); err == nil {
			return nil
		}
		// last attempt: drop trailing commas, a common model slip
		cleaned := trailingCommaRe.ReplaceAllString(obj, "$1")
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON object in input: %s", truncate(input, 100))
}

// extractFenced pulls the body out of a markdown code fence
func extractFenced(input string) string {
	if matches := fencedJSONRe.FindStringSubmatch(input); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

// extractObject finds the first balanced {...} span, honoring strings and
// escapes so braces inside values do not terminate the scan early
func extractObject(input string) string {
	start := strings.IndexByte(input, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(input); i++ {
		ch := input[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			escaped = true
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return input[start : i+1]
				}
			}
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
