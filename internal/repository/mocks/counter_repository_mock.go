package mocks

import (
	"context"

	"go-ticket-dispatch/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockCounterRepository struct {
	mock.Mock
}

func NewMockCounterRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCounterRepository {
	m := &MockCounterRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCounterRepository) FindByID(ctx context.Context, id string) (*model.Counter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterRepository) Bind(ctx context.Context, id string, attendantID string) (*model.Counter, error) {
	args := m.Called(ctx, id, attendantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterRepository) Release(ctx context.Context, id string, attendantID string, force bool) (*model.Counter, error) {
	args := m.Called(ctx, id, attendantID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterRepository) OwnerOf(ctx context.Context, id string) (*string, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockCounterRepository) CounterOf(ctx context.Context, attendantID string) (*model.Counter, error) {
	args := m.Called(ctx, attendantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}

func (m *MockCounterRepository) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id string) (*model.Counter, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Counter), args.Error(1)
}
