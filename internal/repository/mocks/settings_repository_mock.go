package mocks

import (
	"context"
	"time"

	"go-ticket-dispatch/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type MockSettingsRepository struct {
	mock.Mock
}

func NewMockSettingsRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSettingsRepository {
	m := &MockSettingsRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSettingsRepository) GetClassSetting(ctx context.Context, servicePointID string, class model.TicketClass) (*model.ClassSetting, error) {
	args := m.Called(ctx, servicePointID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClassSetting), args.Error(1)
}

func (m *MockSettingsRepository) ListClassSettings(ctx context.Context, servicePointID string) ([]*model.ClassSetting, error) {
	args := m.Called(ctx, servicePointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ClassSetting), args.Error(1)
}

type MockSequenceRepository struct {
	mock.Mock
}

func NewMockSequenceRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSequenceRepository {
	m := &MockSequenceRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSequenceRepository) Next(ctx context.Context, tx pgx.Tx, servicePointID string, class model.TicketClass, day time.Time, startNumber int64) (int64, error) {
	args := m.Called(ctx, tx, servicePointID, class, day, startNumber)
	return args.Get(0).(int64), args.Error(1)
}
