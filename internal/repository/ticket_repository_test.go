package repository_test

import (
	"context"
	"testing"
	"time"

	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/repository"
	apperrors "go-ticket-dispatch/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_ClaimNext(t *testing.T) {
	pool := requireTestDB(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	t.Run("PriorityBeforeFIFO", func(t *testing.T) {
		truncateAll(t)

		// 一般票先到，優先票後到：優先票仍應先被叫
		createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now.Add(-2*time.Minute))
		priorityID := createWaitingTicket(t, "sp1", model.ClassPriority, 1, 10, now.Add(-1*time.Minute))

		withTx(t, func(tx pgx.Tx) {
			claimed, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			require.NoError(t, err)
			assert.Equal(t, priorityID, claimed.ID)
			assert.Equal(t, model.StatusCalled, claimed.Status)
			require.NotNil(t, claimed.CounterID)
			assert.Equal(t, "C1", *claimed.CounterID)
		})
	})

	t.Run("SameWeightIsFIFO", func(t *testing.T) {
		truncateAll(t)

		firstID := createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now.Add(-2*time.Minute))
		createWaitingTicket(t, "sp1", model.ClassNormal, 2, 0, now.Add(-1*time.Minute))

		withTx(t, func(tx pgx.Tx) {
			claimed, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			require.NoError(t, err)
			assert.Equal(t, firstID, claimed.ID)
		})
	})

	t.Run("EmptyQueue", func(t *testing.T) {
		truncateAll(t)

		withTx(t, func(tx pgx.Tx) {
			_, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)
		})
	})

	t.Run("OtherServicePointInvisible", func(t *testing.T) {
		truncateAll(t)

		createWaitingTicket(t, "sp2", model.ClassNormal, 1, 0, now)

		withTx(t, func(tx pgx.Tx) {
			_, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)
		})
	})
}

func TestTicketRepository_GuardedTransitions(t *testing.T) {
	pool := requireTestDB(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	claim := func(t *testing.T) uuid.UUID {
		var id uuid.UUID
		withTx(t, func(tx pgx.Tx) {
			claimed, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			require.NoError(t, err)
			id = claimed.ID
		})
		return id
	}

	t.Run("CalledToInService", func(t *testing.T) {
		truncateAll(t)
		createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now)
		id := claim(t)

		withTx(t, func(tx pgx.Tx) {
			updated, err := repo.MarkInService(ctx, tx, id, now)
			require.NoError(t, err)
			assert.Equal(t, model.StatusInService, updated.Status)
			assert.NotNil(t, updated.ServedAt)
		})
	})

	t.Run("WaitingCannotStartService", func(t *testing.T) {
		truncateAll(t)
		id := createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now)

		withTx(t, func(tx pgx.Tx) {
			_, err := repo.MarkInService(ctx, tx, id, now)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		})
	})

	t.Run("SkipClearsCounterBinding", func(t *testing.T) {
		truncateAll(t)
		createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now)
		id := claim(t)

		withTx(t, func(tx pgx.Tx) {
			updated, err := repo.MarkSkipped(ctx, tx, id, "no show")
			require.NoError(t, err)
			assert.Equal(t, model.StatusSkipped, updated.Status)
			assert.Nil(t, updated.CounterID)
			assert.Nil(t, updated.AttendantID)
			require.NotNil(t, updated.Reason)
			assert.Equal(t, "no show", *updated.Reason)
		})
	})

	t.Run("CompletedIsTerminal", func(t *testing.T) {
		truncateAll(t)
		createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now)
		id := claim(t)

		withTx(t, func(tx pgx.Tx) {
			_, err := repo.MarkInService(ctx, tx, id, now)
			require.NoError(t, err)
		})
		withTx(t, func(tx pgx.Tx) {
			_, err := repo.MarkCompleted(ctx, tx, id, now)
			require.NoError(t, err)
		})

		withTx(t, func(tx pgx.Tx) {
			_, err := repo.MarkCancelled(ctx, tx, id, "too late")
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		})
	})
}

func TestTicketRepository_FindCurrentByCounter(t *testing.T) {
	pool := requireTestDB(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	t.Run("ReturnsCalledTicket", func(t *testing.T) {
		truncateAll(t)
		createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now)

		var claimedID uuid.UUID
		withTx(t, func(tx pgx.Tx) {
			claimed, err := repo.ClaimNext(ctx, tx, "sp1", "C1", "att-1", day, now)
			require.NoError(t, err)
			claimedID = claimed.ID
		})

		current, err := repo.FindCurrentByCounter(ctx, "C1")
		require.NoError(t, err)
		assert.Equal(t, claimedID, current.ID)
	})

	t.Run("IdleCounter", func(t *testing.T) {
		truncateAll(t)

		_, err := repo.FindCurrentByCounter(ctx, "C1")
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}

func TestTicketRepository_ListByStatus(t *testing.T) {
	pool := requireTestDB(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	truncateAll(t)
	createWaitingTicket(t, "sp1", model.ClassNormal, 1, 0, now.Add(-3*time.Minute))
	createWaitingTicket(t, "sp1", model.ClassPriority, 1, 10, now.Add(-2*time.Minute))
	createWaitingTicket(t, "sp1", model.ClassNormal, 2, 0, now.Add(-1*time.Minute))

	tickets, err := repo.ListByStatus(ctx, "sp1", day, []model.TicketStatus{model.StatusWaiting})
	require.NoError(t, err)
	require.Len(t, tickets, 3)

	// 權重優先，同權重依建立時間
	assert.Equal(t, model.ClassPriority, tickets[0].Class)
	assert.Equal(t, int64(1), tickets[1].Number)
	assert.Equal(t, int64(2), tickets[2].Number)
}
