package service

import (
	"context"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/queue"
	"go-ticket-dispatch/internal/repository"
	"go-ticket-dispatch/pkg/logger"

	"go.uber.org/zap"
)

// CounterService 櫃台與服務人員的綁定登記。
// 綁定與票券狀態彼此獨立，但叫號前 Dispatcher 會查核綁定。
type CounterService interface {
	Bind(ctx context.Context, counterID, attendantID string) (*model.Counter, error)
	Release(ctx context.Context, counterID, attendantID string, force bool) (*model.Counter, error)
	GetCounter(ctx context.Context, counterID string) (*model.Counter, error)
	CounterOf(ctx context.Context, attendantID string) (*model.Counter, error)
}

type CounterServiceImpl struct {
	repository repository.CounterRepository
	eventQueue queue.EventQueue
}

func NewCounterService(counterRepository repository.CounterRepository, eventQueue queue.EventQueue) CounterService {
	return &CounterServiceImpl{
		repository: counterRepository,
		eventQueue: eventQueue,
	}
}

func (s *CounterServiceImpl) publishEvent(ctx context.Context, event model.QueueEvent) {
	if err := s.eventQueue.PublishEvent(ctx, &event); err != nil {
		logger.WithComponent("service").Warn("publish event failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *CounterServiceImpl) Bind(ctx context.Context, counterID, attendantID string) (*model.Counter, error) {
	counter, err := s.repository.Bind(ctx, counterID, attendantID)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.NewCounterEvent(model.EventCounterAssigned, counter))
	return counter, nil
}

func (s *CounterServiceImpl) Release(ctx context.Context, counterID, attendantID string, force bool) (*model.Counter, error) {
	counter, err := s.repository.Release(ctx, counterID, attendantID, force)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.NewCounterEvent(model.EventCounterReleased, counter))
	return counter, nil
}

func (s *CounterServiceImpl) GetCounter(ctx context.Context, counterID string) (*model.Counter, error) {
	return s.repository.FindByID(ctx, counterID)
}

func (s *CounterServiceImpl) CounterOf(ctx context.Context, attendantID string) (*model.Counter, error) {
	return s.repository.CounterOf(ctx, attendantID)
}
