package service

import (
	"context"
	"time"

	"caradvisor/internal/model"
)

// fakeCompletionClient scripts completion replies for tests. Each call
// consumes the next queued reply; err short-circuits every call.
type fakeCompletionClient struct {
	replies  []string
	err      error
	disabled bool

	calls        int
	lastMessages []ChatMessage
	lastOpts     CompletionOptions
}

func (f *fakeCompletionClient) Complete(_ context.Context, messages []ChatMessage, opts CompletionOptions) (string, error) {
	f.calls++
	f.lastMessages = messages
	f.lastOpts = opts
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	reply := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return reply, nil
}

func (f *fakeCompletionClient) IsEnabled() bool {
	return !f.disabled
}

// fakeCarStore returns canned search results
type fakeCarStore struct {
	cars []model.Car
	err  error

	lastFilters *model.CarFilters
}

func (f *fakeCarStore) SearchCars(_ context.Context, filters *model.CarFilters) ([]model.Car, error) {
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.cars, nil
}

func ptr[T any](v T) *T {
	return &v
}

func testCar(id, brand, carModel string, price float64) model.Car {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return model.Car{
		ID:           id,
		Brand:        brand,
		Model:        carModel,
		Year:         2023,
		Price:        price,
		FuelType:     "electric",
		Transmission: "automatic",
		Seats:        5,
		Doors:        5,
		Color:        "blue",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
