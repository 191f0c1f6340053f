package service

import (
	"context"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/internal/queue"
	"go-ticket-dispatch/internal/repository"
	apperrors "go-ticket-dispatch/pkg/app_errors"
	"go-ticket-dispatch/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DispatcherService 票券狀態機的唯一入口。
// 每個操作各自是一筆交易，成功的轉換在 commit 後發出一筆事件。
type DispatcherService interface {
	// 取號：配號 + 權重 + waiting，一個交易內完成
	CreateTicket(ctx context.Context, servicePointID string, req model.CreateTicketRequest) (*model.Ticket, error)
	// 叫號：原子認領最高優先的 waiting 票並綁定櫃台
	CallNext(ctx context.Context, servicePointID, counterID, attendantID string) (*model.Ticket, error)
	Repeat(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	StartService(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	Complete(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	Skip(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error)
	Cancel(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error)

	GetTicket(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error)
	ListTickets(ctx context.Context, servicePointID string, statuses []model.TicketStatus) ([]*model.Ticket, error)
	CurrentAtCounter(ctx context.Context, counterID string) (*model.Ticket, error)
}

type DispatcherServiceImpl struct {
	pool               *pgxpool.Pool
	ticketRepository   repository.TicketRepository
	sequenceRepository repository.SequenceRepository
	counterRepository  repository.CounterRepository
	settingsRepository repository.SettingsRepository
	eventQueue         queue.EventQueue
}

func NewDispatcherService(
	pool *pgxpool.Pool,
	ticketRepository repository.TicketRepository,
	sequenceRepository repository.SequenceRepository,
	counterRepository repository.CounterRepository,
	settingsRepository repository.SettingsRepository,
	eventQueue queue.EventQueue,
) DispatcherService {
	return &DispatcherServiceImpl{
		pool:               pool,
		ticketRepository:   ticketRepository,
		sequenceRepository: sequenceRepository,
		counterRepository:  counterRepository,
		settingsRepository: settingsRepository,
		eventQueue:         eventQueue,
	}
}

// today 佇列一律以 UTC 日為範圍
func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// publishEvent 在交易 commit 後呼叫。資料庫才是唯一事實來源，
// 投遞失敗只記錄，不回滾已完成的轉換。
func (s *DispatcherServiceImpl) publishEvent(ctx context.Context, event model.QueueEvent) {
	if err := s.eventQueue.PublishEvent(ctx, &event); err != nil {
		logger.WithComponent("service").Warn("publish event failed",
			zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *DispatcherServiceImpl) CreateTicket(ctx context.Context, servicePointID string, req model.CreateTicketRequest) (*model.Ticket, error) {
	if !req.Class.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	setting, err := s.settingsRepository.GetClassSetting(ctx, servicePointID, req.Class)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	day := today()
	number, err := s.sequenceRepository.Next(ctx, tx, servicePointID, req.Class, day, setting.StartNumber)
	if err != nil {
		return nil, err
	}

	ticket := &model.Ticket{
		ID:             uuid.New(),
		ServicePointID: servicePointID,
		Class:          req.Class,
		Day:            day,
		Number:         number,
		DisplayCode:    model.FormatDisplayCode(setting.Prefix, number),
		Status:         model.StatusWaiting,
		PriorityWeight: setting.PriorityWeight,
		ClientInfo:     req.ClientInfo,
		CreatedAt:      time.Now().UTC(),
	}

	// 配號成功但寫入失敗時整個操作失敗：號碼出現空洞沒關係，唯一性才是不變量
	created, err := s.ticketRepository.Create(ctx, tx, ticket)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.NewTicketEvent(model.EventCreated, created))
	return created, nil
}

func (s *DispatcherServiceImpl) CallNext(ctx context.Context, servicePointID, counterID, attendantID string) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 鎖住櫃台列，讓同櫃台的並發叫號序列化
	counter, err := s.counterRepository.FindByIDWithLock(ctx, tx, counterID)
	if err != nil {
		return nil, err
	}
	if !counter.Active {
		return nil, apperrors.ErrCounterInactive
	}
	if !counter.IsBound() {
		return nil, apperrors.ErrCounterUnbound
	}
	if *counter.AttendantID != attendantID {
		return nil, apperrors.ErrNotCounterOwner
	}

	active, err := s.ticketRepository.CountActiveAtCounter(ctx, tx, counterID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, apperrors.ErrCounterOccupied
	}

	ticket, err := s.ticketRepository.ClaimNext(ctx, tx, servicePointID, counterID, attendantID, today(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.NewTicketEvent(model.EventCalled, ticket))
	return ticket, nil
}

func (s *DispatcherServiceImpl) Repeat(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, ticketID, model.EventRepeated, func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error) {
		if current.Status != model.StatusCalled {
			return nil, apperrors.ErrInvalidTransition
		}
		return s.ticketRepository.MarkRepeated(ctx, tx, ticketID, time.Now().UTC())
	})
}

func (s *DispatcherServiceImpl) StartService(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, ticketID, model.EventStarted, func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error) {
		if !current.Status.CanTransitionTo(model.StatusInService) {
			return nil, apperrors.ErrInvalidTransition
		}
		return s.ticketRepository.MarkInService(ctx, tx, ticketID, time.Now().UTC())
	})
}

func (s *DispatcherServiceImpl) Complete(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.transition(ctx, ticketID, model.EventCompleted, func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error) {
		if !current.Status.CanTransitionTo(model.StatusCompleted) {
			return nil, apperrors.ErrInvalidTransition
		}
		return s.ticketRepository.MarkCompleted(ctx, tx, ticketID, time.Now().UTC())
	})
}

func (s *DispatcherServiceImpl) Skip(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error) {
	if reason == "" {
		return nil, apperrors.ErrReasonRequired
	}
	return s.transition(ctx, ticketID, model.EventSkipped, func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error) {
		if !current.Status.CanTransitionTo(model.StatusSkipped) {
			return nil, apperrors.ErrInvalidTransition
		}
		return s.ticketRepository.MarkSkipped(ctx, tx, ticketID, reason)
	})
}

func (s *DispatcherServiceImpl) Cancel(ctx context.Context, ticketID uuid.UUID, reason string) (*model.Ticket, error) {
	if reason == "" {
		return nil, apperrors.ErrReasonRequired
	}
	return s.transition(ctx, ticketID, model.EventCancelled, func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error) {
		if !current.Status.CanTransitionTo(model.StatusCancelled) {
			return nil, apperrors.ErrInvalidTransition
		}
		return s.ticketRepository.MarkCancelled(ctx, tx, ticketID, reason)
	})
}

// transition 共用骨架：鎖票、驗證、守衛式更新、commit 後發事件。
// 轉換全有或全無，失敗時票停留在原狀態。
func (s *DispatcherServiceImpl) transition(
	ctx context.Context,
	ticketID uuid.UUID,
	eventType model.EventType,
	apply func(ctx context.Context, tx pgx.Tx, current *model.Ticket) (*model.Ticket, error),
) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := s.ticketRepository.FindByIDWithLock(ctx, tx, ticketID)
	if err != nil {
		return nil, err
	}

	updated, err := apply(ctx, tx, current)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, model.NewTicketEvent(eventType, updated))
	return updated, nil
}

func (s *DispatcherServiceImpl) GetTicket(ctx context.Context, ticketID uuid.UUID) (*model.Ticket, error) {
	return s.ticketRepository.FindByID(ctx, ticketID)
}

func (s *DispatcherServiceImpl) ListTickets(ctx context.Context, servicePointID string, statuses []model.TicketStatus) ([]*model.Ticket, error) {
	if len(statuses) == 0 {
		statuses = []model.TicketStatus{model.StatusWaiting, model.StatusCalled, model.StatusInService}
	}
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, apperrors.ErrInvalidInput
		}
	}
	return s.ticketRepository.ListByStatus(ctx, servicePointID, today(), statuses)
}

func (s *DispatcherServiceImpl) CurrentAtCounter(ctx context.Context, counterID string) (*model.Ticket, error) {
	return s.ticketRepository.FindCurrentByCounter(ctx, counterID)
}
