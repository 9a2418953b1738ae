package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"caradvisor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestComposer(client CompletionClient) *ResponseComposer {
	return NewResponseComposer(client, zap.NewNop(), 0.7, 500, 5)
}

func TestCompose_IncludesCarsAndFilters(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"Here are some great options!"}}
	composer := newTestComposer(client)

	cars := []model.Car{testCar("a", "Tesla", "Model 3", 39000)}
	filters := &model.CarFilters{FuelType: ptr("electric")}

	reply := composer.Compose(context.Background(), "electric car?", cars, filters, false, nil)

	assert.Equal(t, "Here are some great options!", reply)
	require.NotEmpty(t, client.lastMessages)

	userPrompt := client.lastMessages[len(client.lastMessages)-1]
	assert.Equal(t, model.RoleUser, userPrompt.Role)
	assert.Contains(t, userPrompt.Content, "Tesla Model 3 (2023)")
	assert.Contains(t, userPrompt.Content, "Price: €39000")
	assert.Contains(t, userPrompt.Content, `"fuel_type":"electric"`)
	assert.Contains(t, userPrompt.Content, "electric car?")
	assert.Equal(t, 500, client.lastOpts.MaxTokens)
	assert.False(t, client.lastOpts.Structured)
}

func TestCompose_NoCars(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"Try widening your search."}}
	composer := newTestComposer(client)

	composer.Compose(context.Background(), "pink limousine", nil, &model.CarFilters{}, false, nil)

	userPrompt := client.lastMessages[len(client.lastMessages)-1]
	assert.Contains(t, userPrompt.Content, "No cars found matching the criteria.")
}

func TestCompose_CapsRenderedCars(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"ok"}}
	composer := newTestComposer(client)

	cars := make([]model.Car, 0, 7)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		cars = append(cars, testCar(id, "Brand"+id, "M", 10000))
	}

	composer.Compose(context.Background(), "cars", cars, nil, false, nil)

	userPrompt := client.lastMessages[len(client.lastMessages)-1].Content
	assert.Contains(t, userPrompt, "Branda")
	assert.Contains(t, userPrompt, "Brande")
	assert.NotContains(t, userPrompt, "Brandf")
}

func TestCompose_ComparisonInstruction(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"ok"}}
	composer := newTestComposer(client)

	cars := []model.Car{testCar("a", "A", "1", 1), testCar("b", "B", "2", 2)}
	composer.Compose(context.Background(), "perfect", cars, nil, true, nil)

	system := client.lastMessages[0]
	assert.Equal(t, "system", system.Role)
	assert.Contains(t, system.Content, "comparison table")
}

func TestCompose_NoComparisonInstructionWithOneCar(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"ok"}}
	composer := newTestComposer(client)

	cars := []model.Car{testCar("a", "A", "1", 1)}
	composer.Compose(context.Background(), "perfect", cars, nil, true, nil)

	assert.NotContains(t, client.lastMessages[0].Content, "comparison table")
}

func TestCompose_ApologyOnFailure(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("timeout")}
	composer := newTestComposer(client)

	reply := composer.Compose(context.Background(), "hi", nil, nil, false, nil)

	assert.Equal(t, apologyReply, reply)
}

func TestCompose_ApologyWhenDisabled(t *testing.T) {
	client := &fakeCompletionClient{disabled: true}
	composer := newTestComposer(client)

	reply := composer.Compose(context.Background(), "hi", nil, nil, false, nil)

	assert.Equal(t, apologyReply, reply)
	assert.Zero(t, client.calls)
}

func TestCompose_HistoryIncluded(t *testing.T) {
	client := &fakeCompletionClient{replies: []string{"ok"}}
	composer := newTestComposer(client)

	history := []model.ChatTurn{
		{Role: model.RoleUser, Content: "I want a family car"},
		{Role: model.RoleAssistant, Content: "Sure, any budget in mind?"},
	}

	composer.Compose(context.Background(), "under 30000", nil, nil, false, history)

	require.Len(t, client.lastMessages, 4)
	assert.Equal(t, "I want a family car", client.lastMessages[1].Content)
	assert.Equal(t, "Sure, any budget in mind?", client.lastMessages[2].Content)
}

func TestCleanHistory_StripsEmbeddedCarContext(t *testing.T) {
	history := []model.ChatTurn{
		{Role: model.RoleUser, Content: "electric cars\n\n" + carContextHeader + " 3 car(s) found.\n\n1. Old Data"},
		{Role: model.RoleAssistant, Content: "Here you go"},
		{Role: "system", Content: "should disappear"},
	}

	cleaned := CleanHistory(history)

	require.Len(t, cleaned, 2)
	assert.Equal(t, "electric cars", cleaned[0].Content)
	assert.NotContains(t, cleaned[0].Content, "Old Data")
	assert.Equal(t, "Here you go", cleaned[1].Content)
}

func TestCleanHistory_DropsTurnsThatWereOnlyContext(t *testing.T) {
	history := []model.ChatTurn{
		{Role: model.RoleUser, Content: carContextHeader + " 2 car(s) found."},
	}
	assert.Empty(t, CleanHistory(history))
}

func TestRenderCars_Format(t *testing.T) {
	out := renderCars([]model.Car{testCar("a", "Renault", "Zoe", 21500)}, 5)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Contains(t, lines[0], "1 car(s) found")
	assert.Contains(t, out, "1. Renault Zoe (2023)")
	assert.Contains(t, out, "- Fuel: electric, Transmission: automatic")
	assert.Contains(t, out, "- Seats: 5, Doors: 5")
	assert.Contains(t, out, "- Color: blue")
}
