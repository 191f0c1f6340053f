package repository

import (
	"context"
	"go-ticket-dispatch/internal/model"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const counterColumns = `id, service_point_id, number, active, attendant_id, created_at, updated_at, bound_at`

type CounterRepository interface {
	FindByID(ctx context.Context, id string) (*model.Counter, error)
	// Bind 綁定服務人員。同一人重複綁定視為冪等；被他人佔用回報 ErrCounterOccupied。
	Bind(ctx context.Context, id string, attendantID string) (*model.Counter, error)
	// Release 只有綁定者本人可解除，force 供管理端強制解除
	Release(ctx context.Context, id string, attendantID string, force bool) (*model.Counter, error)
	OwnerOf(ctx context.Context, id string) (*string, error)
	CounterOf(ctx context.Context, attendantID string) (*model.Counter, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id string) (*model.Counter, error)
}

type CounterRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &CounterRepositoryImpl{
		pool: pool,
	}
}

func scanCounter(row rowScanner) (*model.Counter, error) {
	var counter model.Counter
	err := row.Scan(
		&counter.ID,
		&counter.ServicePointID,
		&counter.Number,
		&counter.Active,
		&counter.AttendantID,
		&counter.CreatedAt,
		&counter.UpdatedAt,
		&counter.BoundAt,
	)
	if err != nil {
		return nil, err
	}
	return &counter, nil
}

func (r *CounterRepositoryImpl) FindByID(ctx context.Context, id string) (*model.Counter, error) {
	query := `
		SELECT ` + counterColumns + `
		FROM counters
		WHERE id = $1
	`

	counter, err := scanCounter(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCounterNotFound
		}
		return nil, err
	}

	return counter, nil
}

func (r *CounterRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id string) (*model.Counter, error) {
	query := `
		SELECT ` + counterColumns + `
		FROM counters
		WHERE id = $1
		FOR UPDATE
	`

	counter, err := scanCounter(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCounterNotFound
		}
		return nil, err
	}

	return counter, nil
}

func (r *CounterRepositoryImpl) Bind(ctx context.Context, id string, attendantID string) (*model.Counter, error) {
	now := time.Now().UTC()
	query := `
		UPDATE counters
		SET attendant_id = $2, bound_at = $3, updated_at = $3
		WHERE id = $1 AND active
			AND (attendant_id IS NULL OR attendant_id = $2)
		RETURNING ` + counterColumns

	counter, err := scanCounter(r.pool.QueryRow(ctx, query, id, attendantID, now))
	if err == nil {
		return counter, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	// 條件式更新失敗：查明是不存在、停用還是被他人佔用
	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !existing.Active {
		return nil, apperrors.ErrCounterInactive
	}
	return nil, apperrors.ErrCounterOccupied
}

func (r *CounterRepositoryImpl) Release(ctx context.Context, id string, attendantID string, force bool) (*model.Counter, error) {
	now := time.Now().UTC()

	query := `
		UPDATE counters
		SET attendant_id = NULL, bound_at = NULL, updated_at = $2
		WHERE id = $1 AND attendant_id = $3
		RETURNING ` + counterColumns
	args := []interface{}{id, now, attendantID}

	if force {
		query = `
			UPDATE counters
			SET attendant_id = NULL, bound_at = NULL, updated_at = $2
			WHERE id = $1
			RETURNING ` + counterColumns
		args = []interface{}{id, now}
	}

	counter, err := scanCounter(r.pool.QueryRow(ctx, query, args...))
	if err == nil {
		return counter, nil
	}
	if err != pgx.ErrNoRows {
		return nil, err
	}

	existing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsBound() {
		return nil, apperrors.ErrNotCounterOwner
	}
	// 已是解除狀態，視為冪等成功
	return existing, nil
}

func (r *CounterRepositoryImpl) OwnerOf(ctx context.Context, id string) (*string, error) {
	counter, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return counter.AttendantID, nil
}

func (r *CounterRepositoryImpl) CounterOf(ctx context.Context, attendantID string) (*model.Counter, error) {
	query := `
		SELECT ` + counterColumns + `
		FROM counters
		WHERE attendant_id = $1
	`

	counter, err := scanCounter(r.pool.QueryRow(ctx, query, attendantID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrCounterNotFound
		}
		return nil, err
	}

	return counter, nil
}
