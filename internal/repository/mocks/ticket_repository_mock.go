package mocks

import (
	"context"
	"time"

	"go-ticket-dispatch/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockTicketRepository struct {
	mock.Mock
}

func NewMockTicketRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTicketRepository {
	m := &MockTicketRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ListByStatus(ctx context.Context, servicePointID string, day time.Time, statuses []model.TicketStatus) ([]*model.Ticket, error) {
	args := m.Called(ctx, servicePointID, day, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindCurrentByCounter(ctx context.Context, counterID string) (*model.Ticket, error) {
	args := m.Called(ctx, counterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, tx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) ClaimNext(ctx context.Context, tx pgx.Tx, servicePointID, counterID, attendantID string, day time.Time, calledAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, tx, servicePointID, counterID, attendantID, day, calledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) CountActiveAtCounter(ctx context.Context, tx pgx.Tx, counterID string) (int, error) {
	args := m.Called(ctx, tx, counterID)
	return args.Int(0), args.Error(1)
}

func (m *MockTicketRepository) MarkRepeated(ctx context.Context, tx pgx.Tx, id uuid.UUID, calledAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, calledAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) MarkInService(ctx context.Context, tx pgx.Tx, id uuid.UUID, servedAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, servedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, completedAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, completedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) MarkSkipped(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
