package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type NotificationQueueRepositoryInterface interface {
	Enqueue(ctx context.Context, event models.NotificationEvent) error
	ListQueued(ctx context.Context, limit int64) ([]models.NotificationEvent, error)
	MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error
	// HasRecentEvent reports whether an event of the given kind was enqueued
	// for the application after the given instant. Used to deduplicate sweep
	// reminders.
	HasRecentEvent(ctx context.Context, applicationID primitive.ObjectID, kind consts.EventKind, since time.Time) (bool, error)
}
