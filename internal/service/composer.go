package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"caradvisor/internal/model"

	"go.uber.org/zap"
)

// apologyReply is returned when the completion service is unavailable
const apologyReply = "I'm sorry, I encountered an error. Please try again."

// carContextHeader opens the rendered car block in the user prompt. It is
// also the truncation point when cleaning history: a caller that echoes a
// previous prompt back as history must not leak stale car data into the
// model's view of the conversation.
const carContextHeader = "Matching cars:"

const composerPersona = `You are a friendly and knowledgeable car advisor assistant.
Your job is to help users find the perfect car based on their needs.

Based on the cars found in the database, provide a helpful, natural response to the user.
- Be conversational and friendly
- Highlight the best matches first
- Mention key features that match their criteria
- If no cars match, suggest adjusting their criteria
- Keep responses concise but informative
- The car data in the latest message is the current state of the search; when the conversation history mentions different cars or counts, the latest data wins`

const comparisonInstruction = `

IMPORTANT: End your response by asking if the user would like to compare these models in a detailed comparison table.`

// ResponseComposer generates the assistant reply from the retrieved cars,
// the applied filters and the conversation history
type ResponseComposer struct {
	client      CompletionClient
	log         *zap.Logger
	temperature float64
	maxTokens   int
	maxCars     int
}

// NewResponseComposer creates a new response composer
func NewResponseComposer(client CompletionClient, log *zap.Logger, temperature float64, maxTokens, maxCars int) *ResponseComposer {
	return &ResponseComposer{
		client:      client,
		log:         log,
		temperature: temperature,
		maxTokens:   maxTokens,
		maxCars:     maxCars,
	}
}

// Compose builds the prompt and asks the completion service for a reply.
// On any failure it returns a fixed apology instead of an error, so a chat
// turn always carries a well-formed reply.
func (c *ResponseComposer) Compose(ctx context.Context, message string, cars []model.Car, filters *model.CarFilters, suggestComparison bool, history []model.ChatTurn) string {
	if c.client == nil || !c.client.IsEnabled() {
		c.log.Warn("completion service not enabled, returning fallback reply")
		return apologyReply
	}

	systemPrompt := composerPersona
	if suggestComparison && len(cars) >= 2 {
		systemPrompt += comparisonInstruction
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range CleanHistory(history) {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, ChatMessage{Role: model.RoleUser, Content: c.buildUserPrompt(message, cars, filters)})

	reply, err := c.client.Complete(ctx, messages, CompletionOptions{
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		c.log.Error("reply generation failed", zap.Error(err))
		return apologyReply
	}
	return reply
}

// buildUserPrompt renders the retrieved cars, the applied filters and the
// original message into the final user-role message
func (c *ResponseComposer) buildUserPrompt(message string, cars []model.Car, filters *model.CarFilters) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User's message: %s\n\n", message)
	fmt.Fprintf(&b, "Applied filters: %s\n\n", renderFilters(filters))
	b.WriteString(renderCars(cars, c.maxCars))
	b.WriteString("\nProvide a helpful response to the user.")

	return b.String()
}

// renderFilters produces a compact JSON rendering of the applied filters
func renderFilters(filters *model.CarFilters) string {
	if filters == nil {
		return "{}"
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// renderCars produces the human-readable car block, capped at maxCars
func renderCars(cars []model.Car, maxCars int) string {
	if len(cars) == 0 {
		return "No cars found matching the criteria.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %d car(s) found.\n\n", carContextHeader, len(cars))
	for i, car := range cars {
		if i >= maxCars {
			break
		}
		fmt.Fprintf(&b, "%d. %s %s (%d)\n", i+1, car.Brand, car.Model, car.Year)
		fmt.Fprintf(&b, "   - Price: €%.0f\n", car.Price)
		fmt.Fprintf(&b, "   - Fuel: %s, Transmission: %s\n", car.FuelType, car.Transmission)
		fmt.Fprintf(&b, "   - Seats: %d, Doors: %d\n", car.Seats, car.Doors)
		fmt.Fprintf(&b, "   - Color: %s\n\n", car.Color)
	}
	return b.String()
}

// CleanHistory keeps only user and assistant turns and strips any embedded
// car context from earlier prompts, so stale record data cannot contradict
// the cars attached to the current turn.
func CleanHistory(history []model.ChatTurn) []model.ChatTurn {
	cleaned := make([]model.ChatTurn, 0, len(history))
	for _, turn := range history {
		if turn.Role != model.RoleUser && turn.Role != model.RoleAssistant {
			continue
		}
		content := turn.Content
		if idx := strings.Index(content, carContextHeader); idx >= 0 {
			content = strings.TrimSpace(content[:idx])
		}
		if content == "" {
			continue
		}
		cleaned = append(cleaned, model.ChatTurn{Role: turn.Role, Content: content})
	}
	return cleaned
}
