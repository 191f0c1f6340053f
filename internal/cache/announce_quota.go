package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// quota key 的存活時間：叫號紀錄只在當日有意義
const quotaTTL = 24 * time.Hour

// AnnounceQuota 追蹤每組 (ticket, counter) 已播報的次數。
// 同一張票在同一櫃台最多播報 maxCalls 次，跨 CALLED/REPEATED 事件累計。
type AnnounceQuota interface {
	// 嘗試取得一次播報額度 (使用Lua腳本確保原子性)。
	// 回傳 false 表示額度已滿，這次播報應靜默略過。
	Take(ctx context.Context, ticketID uuid.UUID, counterID string) (bool, error)
	// 查詢已播報次數
	Count(ctx context.Context, ticketID uuid.UUID, counterID string) (int, error)
	// 清除某組配額（管理端重置當日資料時使用）
	Reset(ctx context.Context, ticketID uuid.UUID, counterID string) error
}

type RedisAnnounceQuotaImpl struct {
	client   *redis.Client
	maxCalls int
}

func NewRedisAnnounceQuota(client *redis.Client, maxCalls int) AnnounceQuota {
	if maxCalls <= 0 {
		maxCalls = 3
	}
	return &RedisAnnounceQuotaImpl{
		client:   client,
		maxCalls: maxCalls,
	}
}

func (q *RedisAnnounceQuotaImpl) getQuotaKey(ticketID uuid.UUID, counterID string) string {
	return fmt.Sprintf("announce:%s:%s:calls", ticketID, counterID)
}

func (q *RedisAnnounceQuotaImpl) Take(ctx context.Context, ticketID uuid.UUID, counterID string) (bool, error) {
	key := q.getQuotaKey(ticketID, counterID)

	script := `
		-- 1. 取得參數
		local key = KEYS[1]
		local max_calls = tonumber(ARGV[1])
		local ttl = tonumber(ARGV[2])

		-- 2. 檢查已播報次數
		local count = tonumber(redis.call('GET', key) or '0')
		if count >= max_calls then
			return 0
		end

		-- 3. 執行累計並保留 TTL
		redis.call('INCR', key)
		redis.call('EXPIRE', key, ttl)
		return 1
	`

	result, err := q.client.Eval(ctx, script, []string{key}, q.maxCalls, int(quotaTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("announce quota eval: %w", err)
	}

	return result == 1, nil
}

func (q *RedisAnnounceQuotaImpl) Count(ctx context.Context, ticketID uuid.UUID, counterID string) (int, error) {
	key := q.getQuotaKey(ticketID, counterID)
	count, err := q.client.Get(ctx, key).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (q *RedisAnnounceQuotaImpl) Reset(ctx context.Context, ticketID uuid.UUID, counterID string) error {
	return q.client.Del(ctx, q.getQuotaKey(ticketID, counterID)).Err()
}
