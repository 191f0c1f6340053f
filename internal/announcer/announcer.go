package announcer

import (
	"context"
	"fmt"
	"go-ticket-dispatch/internal/cache"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Announcement 一次對外播報：語音合成與看板高亮由 Renderer 端處理
type Announcement struct {
	Ticket    model.Ticket
	CounterID string
}

// Renderer 播報的外部協作者（TTS、顯示看板）
type Renderer interface {
	Render(ctx context.Context, announcement Announcement) error
}

// ZapRenderer 預設實作：只記錄日誌，實際部署時替換成語音/看板渲染
type ZapRenderer struct{}

func (r *ZapRenderer) Render(ctx context.Context, announcement Announcement) error {
	logger.WithComponent("announcer").Info("announce call",
		zap.String("display_code", announcement.Ticket.DisplayCode),
		zap.String("counter_id", announcement.CounterID))
	return nil
}

// schedule 每個 service point 同一時間只有一份現役播報排程。
// cancel 就是它的取消權杖：換票時整份替換，不會有舊計時器晚到蓋掉新票。
type schedule struct {
	ticketID  uuid.UUID
	counterID string
	cancel    context.CancelFunc
	done      chan struct{}
}

// Announcer 消費 CALLED/REPEATED 事件，對每組 (ticket, counter)
// 排定最多 maxCalls 次播報，彼此間隔不小於 spacing。
type Announcer struct {
	quota    cache.AnnounceQuota
	renderer Renderer
	spacing  time.Duration

	mu       sync.Mutex
	live     map[string]*schedule // service point -> 現役排程
	lastCall map[string]time.Time // (ticket, counter) -> 最後播報時間
}

func NewAnnouncer(quota cache.AnnounceQuota, renderer Renderer, spacing time.Duration) *Announcer {
	if spacing <= 0 {
		spacing = 10 * time.Second
	}
	return &Announcer{
		quota:    quota,
		renderer: renderer,
		spacing:  spacing,
		live:     make(map[string]*schedule),
		lastCall: make(map[string]time.Time),
	}
}

func pairKey(ticketID uuid.UUID, counterID string) string {
	return fmt.Sprintf("%s:%s", ticketID, counterID)
}

// HandleEvent 處理一筆狀態變更事件。
// CALLED/REPEATED 啟動（或重排）播報；該票的其他後續事件取消現役排程。
func (a *Announcer) HandleEvent(ctx context.Context, event *model.QueueEvent) error {
	if event.Ticket == nil {
		return nil
	}

	switch event.Type {
	case model.EventCalled, model.EventRepeated:
		if event.Ticket.CounterID == nil {
			return nil
		}
		a.startSchedule(ctx, event.ServicePointID, *event.Ticket, *event.Ticket.CounterID)
	case model.EventStarted, model.EventCompleted, model.EventSkipped, model.EventCancelled:
		a.cancelIfLive(event.ServicePointID, event.Ticket.ID)
	}
	return nil
}

func (a *Announcer) startSchedule(ctx context.Context, servicePointID string, ticket model.Ticket, counterID string) {
	a.mu.Lock()

	prev := a.live[servicePointID]
	if prev != nil {
		// 不論同票重叫還是換票，先撤掉舊排程；換票時順手清掉舊票的間隔紀錄
		prev.cancel()
		if prev.ticketID != ticket.ID {
			delete(a.lastCall, pairKey(prev.ticketID, prev.counterID))
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sched := &schedule{
		ticketID:  ticket.ID,
		counterID: counterID,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	a.live[servicePointID] = sched
	a.mu.Unlock()

	go func() {
		// 等舊排程完全收尾再開播，被撤掉的播報不會晚到蓋過新票
		if prev != nil {
			<-prev.done
		}
		a.runSchedule(runCtx, servicePointID, sched, ticket)
	}()
}

// runSchedule 依序發出剩餘的播報，直到配額用盡或被取消
func (a *Announcer) runSchedule(ctx context.Context, servicePointID string, sched *schedule, ticket model.Ticket) {
	defer close(sched.done)
	key := pairKey(sched.ticketID, sched.counterID)

	for {
		wait := a.delayUntilNext(key)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		ok, err := a.quota.Take(ctx, sched.ticketID, sched.counterID)
		if err != nil {
			logger.WithComponent("announcer").Error("take quota failed",
				zap.String("ticket_id", sched.ticketID.String()), zap.Error(err))
			return
		}
		if !ok {
			// 額度已滿：同一組合的後續事件靜默結束
			a.finishSchedule(servicePointID, sched)
			return
		}

		// Take 和 Render 之間可能被換票，撤掉的排程不得再發聲
		select {
		case <-ctx.Done():
			return
		default:
		}

		// Render 收到排程自己的 context，慢速渲染在換票時可中止
		err = a.renderer.Render(ctx, Announcement{Ticket: ticket, CounterID: sched.counterID})
		if ctx.Err() != nil {
			// 渲染途中被換票：這次播報作廢，不留間隔紀錄
			return
		}
		if err != nil {
			logger.WithComponent("announcer").Error("render failed",
				zap.String("display_code", ticket.DisplayCode), zap.Error(err))
		}

		a.mu.Lock()
		a.lastCall[key] = time.Now()
		a.mu.Unlock()
	}
}

// delayUntilNext 距離上次播報不足 spacing 時回傳尚需等待的時間
func (a *Announcer) delayUntilNext(key string) time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	last, ok := a.lastCall[key]
	if !ok {
		return 0
	}
	elapsed := time.Since(last)
	if elapsed >= a.spacing {
		return 0
	}
	return a.spacing - elapsed
}

func (a *Announcer) cancelIfLive(servicePointID string, ticketID uuid.UUID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur, ok := a.live[servicePointID]
	if !ok || cur.ticketID != ticketID {
		return
	}
	cur.cancel()
	delete(a.live, servicePointID)
	delete(a.lastCall, pairKey(cur.ticketID, cur.counterID))
}

// finishSchedule 排程自然結束時移除自己（若仍是現役），
// 間隔紀錄一併清掉，長時間運行不累積已結束組合的狀態
func (a *Announcer) finishSchedule(servicePointID string, sched *schedule) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.lastCall, pairKey(sched.ticketID, sched.counterID))
	if cur, ok := a.live[servicePointID]; ok && cur == sched {
		delete(a.live, servicePointID)
	}
}

// Stop 關閉所有現役排程，服務收攤時呼叫
func (a *Announcer) Stop() {
	a.mu.Lock()
	scheds := make([]*schedule, 0, len(a.live))
	for sp, sched := range a.live {
		sched.cancel()
		scheds = append(scheds, sched)
		delete(a.live, sp)
	}
	a.mu.Unlock()

	for _, sched := range scheds {
		<-sched.done
	}
}
