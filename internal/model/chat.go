package model

// Chat message roles as used in conversation history
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single message in the conversation history, oldest first.
// The caller supplies the whole history on every request; nothing is kept
// between calls.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents an incoming chat turn
type ChatRequest struct {
	Message             string      `json:"message" binding:"required"`
	ActiveFilters       *CarFilters `json:"active_filters,omitempty"`
	ConversationHistory []ChatTurn  `json:"conversation_history,omitempty"`
}

// ChatResponse is the per-turn result bundle
type ChatResponse struct {
	Message           string      `json:"message"`
	ActiveFilters     *CarFilters `json:"active_filters"`
	ExtractedFilters  *CarFilters `json:"extracted_filters"`
	FiltersApplied    *CarFilters `json:"filters_applied"`
	CarsFound         int         `json:"cars_found"`
	Cars              []Car       `json:"cars"`
	SuggestComparison bool        `json:"suggest_comparison"`
	PriorityColumns   []string    `json:"priority_columns"`
}

// CompareRequest asks for a side-by-side view of 2 to 5 cars
type CompareRequest struct {
	CarIDs          []string `json:"car_ids" binding:"required"`
	PriorityColumns []string `json:"priority_columns,omitempty"`
}

// CompareResponse returns the selected cars with the columns to foreground
type CompareResponse struct {
	Cars            []Car    `json:"cars"`
	PriorityColumns []string `json:"priority_columns"`
	ComparisonCount int      `json:"comparison_count"`
}
