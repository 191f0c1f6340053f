package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type quotaEntry struct {
	count     int
	expiresAt time.Time
}

// MemoryAnnounceQuotaImpl 單機部署用的配額計數器，與 Redis 版行為一致：
// 每筆紀錄帶到期時間，過期視同不存在，並定期清掉整批過期項目。
type MemoryAnnounceQuotaImpl struct {
	mu        sync.Mutex
	counts    map[string]quotaEntry
	maxCalls  int
	ttl       time.Duration
	lastSweep time.Time
}

func NewMemoryAnnounceQuota(maxCalls int) AnnounceQuota {
	return NewMemoryAnnounceQuotaWithTTL(maxCalls, quotaTTL)
}

func NewMemoryAnnounceQuotaWithTTL(maxCalls int, ttl time.Duration) AnnounceQuota {
	if maxCalls <= 0 {
		maxCalls = 3
	}
	if ttl <= 0 {
		ttl = quotaTTL
	}
	return &MemoryAnnounceQuotaImpl{
		counts:    make(map[string]quotaEntry),
		maxCalls:  maxCalls,
		ttl:       ttl,
		lastSweep: time.Now(),
	}
}

func (q *MemoryAnnounceQuotaImpl) key(ticketID uuid.UUID, counterID string) string {
	return fmt.Sprintf("%s:%s", ticketID, counterID)
}

// sweepLocked 清掉所有過期紀錄，caller 需持有鎖
func (q *MemoryAnnounceQuotaImpl) sweepLocked(now time.Time) {
	if now.Sub(q.lastSweep) < q.ttl {
		return
	}
	for key, entry := range q.counts {
		if now.After(entry.expiresAt) {
			delete(q.counts, key)
		}
	}
	q.lastSweep = now
}

// currentLocked 取出未過期的紀錄，過期的順手刪除
func (q *MemoryAnnounceQuotaImpl) currentLocked(key string, now time.Time) int {
	entry, ok := q.counts[key]
	if !ok {
		return 0
	}
	if now.After(entry.expiresAt) {
		delete(q.counts, key)
		return 0
	}
	return entry.count
}

func (q *MemoryAnnounceQuotaImpl) Take(ctx context.Context, ticketID uuid.UUID, counterID string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	q.sweepLocked(now)

	key := q.key(ticketID, counterID)
	count := q.currentLocked(key, now)
	if count >= q.maxCalls {
		return false, nil
	}
	q.counts[key] = quotaEntry{count: count + 1, expiresAt: now.Add(q.ttl)}
	return true, nil
}

func (q *MemoryAnnounceQuotaImpl) Count(ctx context.Context, ticketID uuid.UUID, counterID string) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.currentLocked(q.key(ticketID, counterID), time.Now()), nil
}

func (q *MemoryAnnounceQuotaImpl) Reset(ctx context.Context, ticketID uuid.UUID, counterID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.counts, q.key(ticketID, counterID))
	return nil
}
