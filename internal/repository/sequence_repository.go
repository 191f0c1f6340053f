package repository

import (
	"context"
	"errors"
	"go-ticket-dispatch/internal/model"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// 原子遞增失敗(序列化衝突)時的重試上限，超過即回報 ErrSequenceConflict
const sequenceMaxRetries = 3

type SequenceRepository interface {
	// Next 對 (service_point, class, day) 取下一個號碼。
	// 該日第一張票時以 startNumber 初始化，之後每次 +1。
	// 整個操作是單一 upsert，兩個並發呼叫絕不會拿到同號。
	Next(ctx context.Context, tx pgx.Tx, servicePointID string, class model.TicketClass, day time.Time, startNumber int64) (int64, error)
}

type SequenceRepositoryImpl struct{}

func NewSequenceRepository() SequenceRepository {
	return &SequenceRepositoryImpl{}
}

func (r *SequenceRepositoryImpl) Next(ctx context.Context, tx pgx.Tx, servicePointID string, class model.TicketClass, day time.Time, startNumber int64) (int64, error) {
	query := `
		INSERT INTO daily_sequences (service_point_id, class, day, last_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (service_point_id, class, day)
		DO UPDATE SET last_number = daily_sequences.last_number + 1
		RETURNING last_number
	`

	var lastErr error
	for attempt := 0; attempt < sequenceMaxRetries; attempt++ {
		var number int64
		err := tx.QueryRow(ctx, query, servicePointID, class, day, startNumber).Scan(&number)
		if err == nil {
			return number, nil
		}
		if !isSerializationError(err) {
			return 0, err
		}
		lastErr = err
	}

	// 不回退到讀取後寫入：寧可讓呼叫端重試整個操作
	return 0, errors.Join(apperrors.ErrSequenceConflict, lastErr)
}

func isSerializationError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 40001: serialization_failure, 40P01: deadlock_detected
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
