package queue

import (
	"context"
	"go-ticket-dispatch/internal/model"
	"go-ticket-dispatch/pkg/logger"

	"go.uber.org/zap"
)

type Delivery struct {
	Data *model.QueueEvent
	Ack  func()
	Nack func(requeue bool)
}

// EventQueue 承載 Dispatcher 發出的狀態變更事件，
// 由 worker 消費後轉交 hub 與 announcer。
type EventQueue interface {
	// 發送事件到隊列
	PublishEvent(ctx context.Context, event *model.QueueEvent) error
	// 訂閱事件隊列
	SubscribeEvents(ctx context.Context) (<-chan Delivery, error)
}

// EventQueueImpl 單機部署用的 channel 版本，免除對 Redis 的依賴
type EventQueueImpl struct {
	ch chan *model.QueueEvent
}

func NewEventQueue(bufferSize int) EventQueue {
	return &EventQueueImpl{
		ch: make(chan *model.QueueEvent, bufferSize),
	}
}

func (q *EventQueueImpl) PublishEvent(ctx context.Context, event *model.QueueEvent) error {
	q.ch <- event
	return nil
}

func (q *EventQueueImpl) SubscribeEvents(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Data: event,
					Ack:  func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if !requeue {
							return
						}
						// 消費端呼叫 Nack，不可反向阻塞在自己的隊列上；滿了就丟
						select {
						case q.ch <- event:
						default:
							logger.WithComponent("mq").Warn("drop nacked event, queue full",
								zap.String("event_type", string(event.Type)))
						}
					},
				}
			}
		}
	}()

	return out, nil
}
