package service

import (
	"context"
	"fmt"
	"strings"

	"caradvisor/internal/model"
	"caradvisor/internal/utils"

	"go.uber.org/zap"
)

const extractionPrompt = `You are a car advisor assistant. Extract search filters from the user's latest message.
Return ONLY a JSON object with these possible keys (all optional):
- min_price (number)
- max_price (number)
- fuel_type (string: "petrol", "diesel", "electric", "hybrid", "plug_in_hybrid")
- transmission (string: "manual", "automatic")
- min_seats (number: 2-9)
- color (string)
- brand (string)

Rules:
- Only extract filters when the user is asking for cars matching some criteria. If the user is just asking a follow-up question about cars already shown, return {}.
- When the user refers to "these cars", "the first one" or "which one", keep the filters implied by the earlier conversation.
- If the user doesn't mention a filter, don't include it in the JSON.

Examples:
User: "I want an electric car under 35000"
Response: {"fuel_type": "electric", "max_price": 35000}

User: "Show me automatic cars with at least 5 seats"
Response: {"transmission": "automatic", "min_seats": 5}

User: "I need a family car"
Response: {"min_seats": 5}

User: "Hello, I'm looking for a car"
Response: {}`

// FilterExtractor turns a user message plus recent history into structured
// search filters using the completion service
type FilterExtractor struct {
	client        CompletionClient
	log           *zap.Logger
	temperature   float64
	historyWindow int
}

// NewFilterExtractor creates a new filter extractor
func NewFilterExtractor(client CompletionClient, log *zap.Logger, temperature float64, historyWindow int) *FilterExtractor {
	return &FilterExtractor{
		client:        client,
		log:           log,
		temperature:   temperature,
		historyWindow: historyWindow,
	}
}

// Extract infers filters from the message. It never fails: on any upstream
// error, unparseable output or value out of range it returns an empty
// filter set so the turn proceeds on manual filters alone.
func (e *FilterExtractor) Extract(ctx context.Context, message string, history []model.ChatTurn) *model.CarFilters {
	message = strings.TrimSpace(message)
	if message == "" {
		return &model.CarFilters{}
	}

	if e.client == nil || !e.client.IsEnabled() {
		e.log.Warn("completion service not enabled, skipping filter extraction")
		return &model.CarFilters{}
	}

	messages := make([]ChatMessage, 0, e.historyWindow+2)
	messages = append(messages, ChatMessage{Role: "system", Content: extractionPrompt})
	for _, turn := range lastTurns(history, e.historyWindow) {
		if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
			continue
		}
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: model.RoleUser, Content: message})

	content, err := e.client.Complete(ctx, messages, CompletionOptions{
		Temperature: e.temperature,
		Structured:  true,
	})
	if err != nil {
		e.log.Warn("filter extraction call failed", zap.Error(err))
		return &model.CarFilters{}
	}

	var filters model.CarFilters
	if err := utils.ParseModelJSON(content, &filters); err != nil {
		e.log.Warn("filter extraction returned unparseable output",
			zap.Error(err), zap.String("content", content))
		return &model.CarFilters{}
	}

	filters.Normalize()
	if err := validateFilters(&filters); err != nil {
		e.log.Warn("extracted filters failed validation",
			zap.Error(err), zap.String("content", content))
		return &model.CarFilters{}
	}

	return &filters
}

// lastTurns returns up to n trailing turns of the history
func lastTurns(history []model.ChatTurn, n int) []model.ChatTurn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// validateFilters checks enum membership and numeric ranges
func validateFilters(f *model.CarFilters) error {
	if f.FuelType != nil && !model.ValidFuelType(*f.FuelType) {
		return fmt.Errorf("invalid fuel_type: %s", *f.FuelType)
	}
	if f.Transmission != nil && !model.ValidTransmissionType(*f.Transmission) {
		return fmt.Errorf("invalid transmission: %s", *f.Transmission)
	}
	if f.MinSeats != nil && (*f.MinSeats < 2 || *f.MinSeats > 9) {
		return fmt.Errorf("min_seats must be between 2 and 9, got %d", *f.MinSeats)
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("min_price must be non-negative, got %f", *f.MinPrice)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return fmt.Errorf("max_price must be non-negative, got %f", *f.MaxPrice)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("min_price (%f) cannot be greater than max_price (%f)", *f.MinPrice, *f.MaxPrice)
	}
	return nil
}
