package model_test

import (
	"testing"

	"go-ticket-dispatch/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    model.TicketStatus
		to      model.TicketStatus
		allowed bool
	}{
		{"waiting -> called", model.StatusWaiting, model.StatusCalled, true},
		{"waiting -> cancelled", model.StatusWaiting, model.StatusCancelled, true},
		{"waiting -> in_service", model.StatusWaiting, model.StatusInService, false},
		{"waiting -> completed", model.StatusWaiting, model.StatusCompleted, false},
		{"waiting -> skipped", model.StatusWaiting, model.StatusSkipped, false},
		{"called -> in_service", model.StatusCalled, model.StatusInService, true},
		{"called -> skipped", model.StatusCalled, model.StatusSkipped, true},
		{"called -> cancelled", model.StatusCalled, model.StatusCancelled, true},
		{"called -> completed", model.StatusCalled, model.StatusCompleted, false},
		{"in_service -> completed", model.StatusInService, model.StatusCompleted, true},
		{"in_service -> skipped", model.StatusInService, model.StatusSkipped, true},
		{"in_service -> cancelled", model.StatusInService, model.StatusCancelled, false},
		{"completed is terminal", model.StatusCompleted, model.StatusCalled, false},
		{"skipped is terminal", model.StatusSkipped, model.StatusWaiting, false},
		{"cancelled is terminal", model.StatusCancelled, model.StatusWaiting, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTicketStatus_IsTerminal(t *testing.T) {
	assert.False(t, model.StatusWaiting.IsTerminal())
	assert.False(t, model.StatusCalled.IsTerminal())
	assert.False(t, model.StatusInService.IsTerminal())
	assert.True(t, model.StatusCompleted.IsTerminal())
	assert.True(t, model.StatusSkipped.IsTerminal())
	assert.True(t, model.StatusCancelled.IsTerminal())
}

func TestTicketClass_IsValid(t *testing.T) {
	assert.True(t, model.ClassNormal.IsValid())
	assert.True(t, model.ClassPriority.IsValid())
	assert.False(t, model.TicketClass("vip").IsValid())
	assert.False(t, model.TicketClass("").IsValid())
}

func TestFormatDisplayCode(t *testing.T) {
	assert.Equal(t, "N-001", model.FormatDisplayCode("N", 1))
	assert.Equal(t, "P-042", model.FormatDisplayCode("P", 42))
	assert.Equal(t, "N-1234", model.FormatDisplayCode("N", 1234))
}
