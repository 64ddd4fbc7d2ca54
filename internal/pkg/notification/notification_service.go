package notification

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/utils/worker"
	"loanflow/internal/service/interfaces"
)

const defaultBatchSize = 100

// DispatcherService drains the notification outbox to the Pub/Sub topic the
// delivery service consumes. Events are fanned out over the worker pool and
// marked sent only after the publish is acknowledged, so a crashed dispatch
// is retried on the next tick.
type DispatcherService struct {
	queue     interfaces.NotificationQueueRepositoryInterface
	publisher interfaces.PubSubPublisherInterface
	topic     string
	pool      *worker.WorkerPool
	batchSize int64
	now       func() time.Time
}

func NewDispatcherService(
	queue interfaces.NotificationQueueRepositoryInterface,
	publisher interfaces.PubSubPublisherInterface,
	topic string,
	pool *worker.WorkerPool,
) *DispatcherService {
	return &DispatcherService{
		queue:     queue,
		publisher: publisher,
		topic:     topic,
		pool:      pool,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
}

// Start drains the outbox on the given interval until the context is cancelled.
func (ds *DispatcherService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := ds.Dispatch(ctx); err != nil {
				logger.CtxError(ctx, log_messages.NotificationPublishFailure, err)
			}
		}
	}
}

// Dispatch publishes one batch of queued events and reports how many went out.
func (ds *DispatcherService) Dispatch(ctx context.Context) (int, error) {
	events, err := ds.queue.ListQueued(ctx, ds.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	var published atomic.Int64
	var wg sync.WaitGroup
	for i := range events {
		event := events[i]
		wg.Add(1)
		ds.pool.Submit(func() {
			defer wg.Done()
			if ds.publishEvent(ctx, event) {
				published.Add(1)
			}
		})
	}
	wg.Wait()

	return int(published.Load()), nil
}

func (ds *DispatcherService) publishEvent(ctx context.Context, event models.NotificationEvent) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxError(ctx, log_messages.NotificationPublishFailure, err,
			slog.String("event_id", event.ID.Hex()))
		return false
	}

	attributes := map[string]string{
		"event_kind":     string(event.EventKind),
		"application_id": event.ApplicationID.Hex(),
	}
	messageID, err := ds.publisher.Publish(ctx, ds.topic, payload, attributes)
	if err != nil {
		logger.CtxError(ctx, log_messages.NotificationPublishFailure, err,
			slog.String("event_id", event.ID.Hex()),
			slog.String("event_kind", string(event.EventKind)))
		return false
	}

	if err := ds.queue.MarkSent(ctx, event.ID, ds.now().UTC()); err != nil {
		// The event went out; a failed mark means one possible duplicate on
		// the next tick, which the consumer tolerates.
		logger.CtxWarn(ctx, "Published event not marked sent",
			slog.String("event_id", event.ID.Hex()))
	}

	logger.CtxDebug(ctx, log_messages.NotificationPublished,
		slog.String("event_id", event.ID.Hex()),
		slog.String("event_kind", string(event.EventKind)),
		slog.String("message_id", messageID))
	return true
}
