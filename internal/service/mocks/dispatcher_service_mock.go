package mocks

import (
	"context"

	"go-ticket-dispatch/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockDispatcherService struct {
	mock.Mock
}

func NewMockDispatcherService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDispatcherService {
	m := &MockDispatcherService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDispatcherService) CreateTicket(ctx context.Context, servicePointID string, req model.CreateTicketRequest) (*model.Ticket, error) {
	args := m.Called(ctx, servicePointID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) CallNext(ctx context.Context, servicePointID, counterID, attendantID string) (*model.Ticket, error) {
	args := m.Called(ctx, servicePointID, counterID, attendantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) Repeat(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) StartService(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) Complete(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) Skip(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) Cancel(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) GetTicket(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) ListTickets(ctx context.Context, servicePointID string, statuses []model.TicketStatus) ([]*model.Ticket, error) {
	args := m.Called(ctx, servicePointID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *MockDispatcherService) CurrentAtCounter(ctx context.Context, counterID string) (*model.Ticket, error) {
	args := m.Called(ctx, counterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
