package repository

import (
	"context"
	"go-ticket-dispatch/internal/model"
	apperrors "go-ticket-dispatch/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingsRepository interface {
	GetClassSetting(ctx context.Context, servicePointID string, class model.TicketClass) (*model.ClassSetting, error)
	ListClassSettings(ctx context.Context, servicePointID string) ([]*model.ClassSetting, error)
}

type SettingsRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &SettingsRepositoryImpl{
		pool: pool,
	}
}

func (r *SettingsRepositoryImpl) GetClassSetting(ctx context.Context, servicePointID string, class model.TicketClass) (*model.ClassSetting, error) {
	query := `
		SELECT service_point_id, class, prefix, start_number, priority_weight
		FROM class_settings
		WHERE service_point_id = $1 AND class = $2
	`

	var setting model.ClassSetting
	err := r.pool.QueryRow(ctx, query, servicePointID, class).Scan(
		&setting.ServicePointID,
		&setting.Class,
		&setting.Prefix,
		&setting.StartNumber,
		&setting.PriorityWeight,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrClassNotConfigured
		}
		return nil, err
	}

	return &setting, nil
}

func (r *SettingsRepositoryImpl) ListClassSettings(ctx context.Context, servicePointID string) ([]*model.ClassSetting, error) {
	query := `
		SELECT service_point_id, class, prefix, start_number, priority_weight
		FROM class_settings
		WHERE service_point_id = $1
		ORDER BY class
	`

	rows, err := r.pool.Query(ctx, query, servicePointID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]*model.ClassSetting, 0)

	for rows.Next() {
		var setting model.ClassSetting
		err := rows.Scan(
			&setting.ServicePointID,
			&setting.Class,
			&setting.Prefix,
			&setting.StartNumber,
			&setting.PriorityWeight,
		)
		if err != nil {
			return nil, err
		}
		settings = append(settings, &setting)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}
