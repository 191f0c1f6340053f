package repository

import (
	"context"
	"fmt"
	"go-ticket-dispatch/internal/model"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketColumns = `id, service_point_id, class, day, number, display_code, status,
		priority_weight, client_info, counter_id, attendant_id, reason,
		created_at, called_at, served_at, completed_at`

type TicketRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error)
	ListByStatus(ctx context.Context, servicePointID string, day time.Time, statuses []model.TicketStatus) ([]*model.Ticket, error)
	FindCurrentByCounter(ctx context.Context, counterID string) (*model.Ticket, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error)
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Ticket, error)
	// ClaimNext 在單一語句內挑出最高優先的 waiting 票並轉為 called：
	// dequeue 與 claim 是同一個原子步驟，兩個櫃台同時叫號不會拿到同一張票。
	ClaimNext(ctx context.Context, tx pgx.Tx, servicePointID, counterID, attendantID string, day time.Time, calledAt time.Time) (*model.Ticket, error)
	CountActiveAtCounter(ctx context.Context, tx pgx.Tx, counterID string) (int, error)

	// 守衛式狀態更新：WHERE 條款限定合法前態，搶輸的一方拿到 0 rows
	MarkRepeated(ctx context.Context, tx pgx.Tx, id uuid.UUID, calledAt time.Time) (*model.Ticket, error)
	MarkInService(ctx context.Context, tx pgx.Tx, id uuid.UUID, servedAt time.Time) (*model.Ticket, error)
	MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, completedAt time.Time) (*model.Ticket, error)
	MarkSkipped(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error)
	MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.ServicePointID,
		&ticket.Class,
		&ticket.Day,
		&ticket.Number,
		&ticket.DisplayCode,
		&ticket.Status,
		&ticket.PriorityWeight,
		&ticket.ClientInfo,
		&ticket.CounterID,
		&ticket.AttendantID,
		&ticket.Reason,
		&ticket.CreatedAt,
		&ticket.CalledAt,
		&ticket.ServedAt,
		&ticket.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (
			id, service_point_id, class, day, number, display_code,
			status, priority_weight, client_info, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + ticketColumns

	created, err := scanTicket(tx.QueryRow(ctx, query,
		ticket.ID, ticket.ServicePointID, ticket.Class, ticket.Day,
		ticket.Number, ticket.DisplayCode, ticket.Status,
		ticket.PriorityWeight, ticket.ClientInfo, ticket.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return created, nil
}

func (r *TicketRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByStatus(ctx context.Context, servicePointID string, day time.Time, statuses []model.TicketStatus) ([]*model.Ticket, error) {
	if len(statuses) == 0 {
		return []*model.Ticket{}, nil
	}

	placeholders := make([]string, 0, len(statuses))
	args := []interface{}{servicePointID, day}
	for i, status := range statuses {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+3))
		args = append(args, status)
	}

	query := fmt.Sprintf(`
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE service_point_id = $1 AND day = $2 AND status IN (%s)
		ORDER BY priority_weight DESC, created_at ASC, id ASC
	`, strings.Join(placeholders, ", "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)

	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

func (r *TicketRepositoryImpl) FindCurrentByCounter(ctx context.Context, counterID string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE counter_id = $1 AND status IN ('called', 'in_service')
		ORDER BY called_at DESC
		LIMIT 1
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, counterID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) ClaimNext(ctx context.Context, tx pgx.Tx, servicePointID, counterID, attendantID string, day time.Time, calledAt time.Time) (*model.Ticket, error) {
	// 排序規則：權重大者先，同權重嚴格 FIFO，再以 id 打破平手保持決定性。
	// SKIP LOCKED 讓並發叫號互不阻塞也不重複取票。
	query := `
		WITH next_ticket AS (
			SELECT id
			FROM tickets
			WHERE service_point_id = $1 AND day = $2 AND status = 'waiting'
			ORDER BY priority_weight DESC, created_at ASC, id ASC
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		UPDATE tickets
		SET status = 'called',
			counter_id = $3,
			attendant_id = $4,
			called_at = $5
		FROM next_ticket
		WHERE tickets.id = next_ticket.id
		RETURNING tickets.id, tickets.service_point_id, tickets.class, tickets.day,
			tickets.number, tickets.display_code, tickets.status, tickets.priority_weight,
			tickets.client_info, tickets.counter_id, tickets.attendant_id, tickets.reason,
			tickets.created_at, tickets.called_at, tickets.served_at, tickets.completed_at
	`

	ticket, err := scanTicket(tx.QueryRow(ctx, query, servicePointID, day, counterID, attendantID, calledAt))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrQueueEmpty
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) CountActiveAtCounter(ctx context.Context, tx pgx.Tx, counterID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE counter_id = $1 AND status IN ('called', 'in_service')
	`

	var count int
	err := tx.QueryRow(ctx, query, counterID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *TicketRepositoryImpl) MarkRepeated(ctx context.Context, tx pgx.Tx, id uuid.UUID, calledAt time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET called_at = $2
		WHERE id = $1 AND status = 'called'
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, calledAt))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) MarkInService(ctx context.Context, tx pgx.Tx, id uuid.UUID, servedAt time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = 'in_service', served_at = $2
		WHERE id = $1 AND status = 'called'
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, servedAt))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) MarkCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, completedAt time.Time) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = 'completed', completed_at = $2
		WHERE id = $1 AND status = 'in_service'
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, completedAt))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) MarkSkipped(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = 'skipped', reason = $2, counter_id = NULL, attendant_id = NULL
		WHERE id = $1 AND status IN ('called', 'in_service')
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, reason))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}

	return ticket, nil
}

func (r *TicketRepositoryImpl) MarkCancelled(ctx context.Context, tx pgx.Tx, id uuid.UUID, reason string) (*model.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = 'cancelled', reason = $2, counter_id = NULL, attendant_id = NULL
		WHERE id = $1 AND status IN ('waiting', 'called')
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(tx.QueryRow(ctx, query, id, reason))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrInvalidTransition
		}
		return nil, err
	}

	return ticket, nil
}
