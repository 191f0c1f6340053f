package worker

import (
	"context"
	"go-ticket-dispatch/internal/announcer"
	"go-ticket-dispatch/internal/broadcast"
	"go-ticket-dispatch/internal/queue"
)

// EventWorker 把隊列裡的狀態變更事件搬給訂閱端：
// 先交給 hub 扇出，再交給 announcer 排播報。
type EventWorker interface {
	Start(ctx context.Context) error
}

type EventWorkerImpl struct {
	queue     queue.EventQueue
	hub       *broadcast.Hub
	announcer *announcer.Announcer
}

func NewEventWorker(eventQueue queue.EventQueue, hub *broadcast.Hub, announcer *announcer.Announcer) EventWorker {
	return &EventWorkerImpl{
		queue:     eventQueue,
		hub:       hub,
		announcer: announcer,
	}
}

func (w *EventWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// hub 投遞永不阻塞也不回報錯誤，announcer 失敗才需要重試
			w.hub.Publish(*msg.Data)

			if err := w.announcer.HandleEvent(ctx, msg.Data); err != nil {
				msg.Nack(true)
			} else {
				msg.Ack()
			}
		}
	}()
	return nil
}
