package notification_queue

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"loanflow/internal/pkg/consts"
	mongodb "loanflow/internal/pkg/db/mongo"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/store/repository"
)

type Store interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}) ([]models.NotificationEvent, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type NotificationQueueRepository struct {
	repo Store
}

func NewNotificationQueueRepository(client *mongodb.MongoClient) *NotificationQueueRepository {
	collection := client.Database.Collection(consts.NotificationQueueCollection)
	return &NotificationQueueRepository{repo: repository.NewMongoRepository[models.NotificationEvent](collection)}
}

func NewNotificationQueueRepositoryWithStore(store Store) *NotificationQueueRepository {
	return &NotificationQueueRepository{repo: store}
}

func (nr *NotificationQueueRepository) Enqueue(ctx context.Context, event models.NotificationEvent) error {
	if _, err := nr.repo.Create(ctx, event); err != nil {
		logger.CtxError(ctx, "Error enqueueing notification event", err,
			slog.String("application_id", event.ApplicationID.Hex()),
			slog.String("event_kind", string(event.EventKind)))
		return err
	}
	return nil
}

// ListQueued returns pending outbox entries for the dispatcher. The limit
// bounds one drain pass; remaining entries are picked up on the next tick.
func (nr *NotificationQueueRepository) ListQueued(ctx context.Context, limit int64) ([]models.NotificationEvent, error) {
	events, err := nr.repo.Find(ctx, bson.M{"status": consts.NotificationQueued})
	if err != nil {
		logger.CtxError(ctx, "Error listing queued notifications", err)
		return nil, err
	}
	if limit > 0 && int64(len(events)) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (nr *NotificationQueueRepository) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error {
	update := bson.M{
		"status":  consts.NotificationSent,
		"sent_at": sentAt,
	}
	matched, err := nr.repo.UpdateOne(ctx, bson.M{"_id": id, "status": consts.NotificationQueued}, update)
	if err != nil {
		logger.CtxError(ctx, "Error marking notification sent", err, slog.String("event_id", id.Hex()))
		return err
	}
	if matched == 0 {
		logger.CtxWarn(ctx, "Notification already marked sent", slog.String("event_id", id.Hex()))
	}
	return nil
}

func (nr *NotificationQueueRepository) HasRecentEvent(
	ctx context.Context,
	applicationID primitive.ObjectID,
	kind consts.EventKind,
	since time.Time,
) (bool, error) {
	filter := bson.M{
		"application_id": applicationID,
		"event_kind":     kind,
		"created_at":     bson.M{"$gte": since},
	}
	count, err := nr.repo.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
