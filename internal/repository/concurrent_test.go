package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/repository"
	apperrors "go-ticket-dispatch/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 模擬尖峰取號：50 個併發請求，每人一張，號碼不得重複
func TestSequenceRepository_ConcurrentNext_NoDuplicates(t *testing.T) {
	requireTestDB(t)
	truncateAll(t)

	repo := repository.NewSequenceRepository()
	ctx := context.Background()
	day := time.Now().UTC().Truncate(24 * time.Hour)

	concurrentTakers := 50

	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make([]int64, 0, concurrentTakers)
	var failures []error

	for i := 0; i < concurrentTakers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := testDB.Begin(ctx)
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			defer tx.Rollback(ctx)

			number, err := repo.Next(ctx, tx, "sp1", model.ClassNormal, day, 1)
			if err == nil {
				err = tx.Commit(ctx)
			}

			mu.Lock()
			if err != nil {
				failures = append(failures, err)
			} else {
				numbers = append(numbers, number)
			}
			mu.Unlock()
		}()
	}

	wg.Wait()

	require.Empty(t, failures, "no taker should fail: %v", failures)
	require.Len(t, numbers, concurrentTakers)

	// 50 個號碼必須剛好是 1..50，各出現一次
	seen := make(map[int64]bool, concurrentTakers)
	for _, number := range numbers {
		assert.False(t, seen[number], "number %d issued twice", number)
		seen[number] = true
		assert.GreaterOrEqual(t, number, int64(1))
		assert.LessOrEqual(t, number, int64(concurrentTakers))
	}
}

// 模擬多櫃台同時叫號：20 個櫃台搶 10 張票，每張票只能被一個櫃台認領
func TestTicketRepository_ConcurrentClaimNext_NoDoubleClaim(t *testing.T) {
	requireTestDB(t)
	truncateAll(t)

	repo := repository.NewTicketRepository(testDB)
	ctx := context.Background()
	now := time.Now().UTC()
	day := now.Truncate(24 * time.Hour)

	waitingTickets := 10
	concurrentCounters := 20

	for i := 0; i < waitingTickets; i++ {
		createWaitingTicket(t, "sp1", model.ClassNormal, int64(i+1), 0, now.Add(time.Duration(i)*time.Millisecond))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := make([]uuid.UUID, 0, waitingTickets)
	emptyCount := 0
	var failures []error

	for i := 0; i < concurrentCounters; i++ {
		wg.Add(1)
		go func(index int) {
			defer wg.Done()

			counterID := fmt.Sprintf("C%d", index)
			tx, err := testDB.Begin(ctx)
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			defer tx.Rollback(ctx)

			ticket, err := repo.ClaimNext(ctx, tx, "sp1", counterID, fmt.Sprintf("att-%d", index), day, now)
			if err == nil {
				err = tx.Commit(ctx)
			}

			mu.Lock()
			switch {
			case err == nil:
				claimed = append(claimed, ticket.ID)
			case errors.Is(err, apperrors.ErrQueueEmpty):
				emptyCount++
			default:
				failures = append(failures, err)
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	require.Empty(t, failures, "no counter should hit an unexpected error: %v", failures)
	assert.Len(t, claimed, waitingTickets, "claims should equal waiting tickets")
	assert.Equal(t, concurrentCounters-waitingTickets, emptyCount, "losers should see an empty queue")

	// 每張票只被認領一次
	seen := make(map[uuid.UUID]bool, waitingTickets)
	for _, id := range claimed {
		assert.False(t, seen[id], "ticket %s claimed twice", id)
		seen[id] = true
	}

	// 資料庫裡不再有 waiting 票，且每張 called 票對應唯一櫃台
	var remaining int
	err := testDB.QueryRow(ctx,
		"SELECT COUNT(*) FROM tickets WHERE service_point_id = 'sp1' AND status = 'waiting'").Scan(&remaining)
	require.NoError(t, err)
	assert.Zero(t, remaining)

	var distinctCounters int
	err = testDB.QueryRow(ctx,
		"SELECT COUNT(DISTINCT counter_id) FROM tickets WHERE service_point_id = 'sp1' AND status = 'called'").Scan(&distinctCounters)
	require.NoError(t, err)
	assert.Equal(t, waitingTickets, distinctCounters, "each claimed ticket must sit at its own counter")
}
