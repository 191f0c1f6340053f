package mocks

import (
	"context"

	"go-ticket-dispatch/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockCounterService struct {
	mock.Mock
}

func NewMockCounterService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCounterService {
	m := &MockCounterService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCounterService) Bind(ctx context.Context, counterID, attendantID string) (*model.Counter, error) {
	args := m.Called(ctx, counterID, attendantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterService) Release(ctx context.Context, counterID, attendantID string, force bool) (*model.Counter, error) {
	args := m.Called(ctx, counterID, attendantID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterService) GetCounter(ctx context.Context, counterID string) (*model.Counter, error) {
	args := m.Called(ctx, counterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterService) CounterOf(ctx context.Context, attendantID string) (*model.Counter, error) {
	args := m.Called(ctx, attendantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}
