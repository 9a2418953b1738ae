package service

import (
	"context"

	"caradvisor/internal/model"

	"go.uber.org/zap"
)

// CarStore is the slice of the record store the chat pipeline needs
type CarStore interface {
	SearchCars(ctx context.Context, filters *model.CarFilters) ([]model.Car, error)
}

// ChatService sequences one chat turn: extract filters, merge with the
// manual ones, retrieve matching cars, compose the reply and derive the
// comparison metadata. Stateless; the caller supplies the full history on
// every call.
type ChatService struct {
	store     CarStore
	extractor *FilterExtractor
	composer  *ResponseComposer
	log       *zap.Logger
	maxCars   int
}

// NewChatService creates a new chat service
func NewChatService(store CarStore, extractor *FilterExtractor, composer *ResponseComposer, log *zap.Logger, maxCars int) *ChatService {
	return &ChatService{
		store:     store,
		extractor: extractor,
		composer:  composer,
		log:       log,
		maxCars:   maxCars,
	}
}

// Chat processes a single turn. It has no failure mode of its own: each
// stage degrades to its documented default, so the result is always
// complete even under total backend failure.
func (s *ChatService) Chat(ctx context.Context, req *model.ChatRequest) *model.ChatResponse {
	manual := req.ActiveFilters
	if manual == nil {
		manual = &model.CarFilters{}
	}
	manual.Normalize()

	extracted := s.extractor.Extract(ctx, req.Message, req.ConversationHistory)
	applied := MergeFilters(manual, extracted)

	cars, err := s.store.SearchCars(ctx, applied)
	if err != nil {
		s.log.Error("car search failed, continuing with empty result set", zap.Error(err))
		cars = nil
	}

	satisfied := IsSatisfied(req.Message)
	suggestComparison := satisfied && len(cars) >= 2

	capped := cars
	if len(capped) > s.maxCars {
		capped = capped[:s.maxCars]
	}
	if capped == nil {
		capped = []model.Car{}
	}

	reply := s.composer.Compose(ctx, req.Message, capped, applied, suggestComparison, req.ConversationHistory)

	return &model.ChatResponse{
		Message:           reply,
		ActiveFilters:     manual,
		ExtractedFilters:  extracted,
		FiltersApplied:    applied,
		CarsFound:         len(cars),
		Cars:              capped,
		SuggestComparison: suggestComparison,
		PriorityColumns:   PriorityColumns(applied),
	}
}
