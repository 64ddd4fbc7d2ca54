package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/utils/worker"
)

type MockNotificationQueueRepo struct {
	mock.Mock
}

func (m *MockNotificationQueueRepo) Enqueue(ctx context.Context, event models.NotificationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockNotificationQueueRepo) ListQueued(ctx context.Context, limit int64) ([]models.NotificationEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) != nil {
		return args.Get(0).([]models.NotificationEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNotificationQueueRepo) MarkSent(ctx context.Context, id primitive.ObjectID, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockNotificationQueueRepo) HasRecentEvent(ctx context.Context, applicationID primitive.ObjectID, kind consts.EventKind, since time.Time) (bool, error) {
	args := m.Called(ctx, applicationID, kind, since)
	return args.Bool(0), args.Error(1)
}

type MockPubSubPublisher struct {
	mock.Mock
}

func (m *MockPubSubPublisher) Publish(ctx context.Context, topic string, data []byte, attributes map[string]string) (string, error) {
	args := m.Called(ctx, topic, data, attributes)
	return args.String(0), args.Error(1)
}

func (m *MockPubSubPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var dispatchNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newDispatcher(t *testing.T) (*DispatcherService, *MockNotificationQueueRepo, *MockPubSubPublisher) {
	t.Helper()
	queue := new(MockNotificationQueueRepo)
	publisher := new(MockPubSubPublisher)
	pool := worker.NewWorkerPool(2)
	t.Cleanup(pool.Stop)

	svc := NewDispatcherService(queue, publisher, "loan-notifications", pool)
	svc.now = func() time.Time { return dispatchNow }
	return svc, queue, publisher
}

func queuedEvent(kind consts.EventKind) models.NotificationEvent {
	return models.NotificationEvent{
		ID:            primitive.NewObjectID(),
		ApplicationID: primitive.NewObjectID(),
		UserID:        primitive.NewObjectID(),
		EventKind:     kind,
		Context:       map[string]string{"reference_number": "LF-2026-000123"},
		Status:        consts.NotificationQueued,
		CreatedAt:     dispatchNow.Add(-time.Minute),
	}
}

func TestDispatchPublishesAndMarksSent(t *testing.T) {
	svc, queue, publisher := newDispatcher(t)

	event := queuedEvent(consts.EventDocumentReminder)
	payload, _ := json.Marshal(event)
	queue.On("ListQueued", mock.Anything, int64(100)).
		Return([]models.NotificationEvent{event}, nil)
	publisher.On("Publish", mock.Anything, "loan-notifications", payload, map[string]string{
		"event_kind":     string(consts.EventDocumentReminder),
		"application_id": event.ApplicationID.Hex(),
	}).Return("msg-1", nil)
	queue.On("MarkSent", mock.Anything, event.ID, dispatchNow).Return(nil)

	published, err := svc.Dispatch(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, published)
	queue.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDispatchEmptyQueue(t *testing.T) {
	svc, queue, publisher := newDispatcher(t)

	queue.On("ListQueued", mock.Anything, int64(100)).
		Return([]models.NotificationEvent{}, nil)

	published, err := svc.Dispatch(context.Background())

	assert.NoError(t, err)
	assert.Zero(t, published)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatchListFailure(t *testing.T) {
	svc, queue, _ := newDispatcher(t)

	queue.On("ListQueued", mock.Anything, int64(100)).
		Return(nil, errors.New("mongo unreachable"))

	published, err := svc.Dispatch(context.Background())

	assert.Error(t, err)
	assert.Zero(t, published)
}

// A failed publish leaves the event queued so the next tick retries it.
func TestDispatchPublishFailureLeavesEventQueued(t *testing.T) {
	svc, queue, publisher := newDispatcher(t)

	failing := queuedEvent(consts.EventDocumentReminder)
	ok := queuedEvent(consts.EventFundingReminder)
	queue.On("ListQueued", mock.Anything, int64(100)).
		Return([]models.NotificationEvent{failing, ok}, nil)

	failingPayload, _ := json.Marshal(failing)
	publisher.On("Publish", mock.Anything, "loan-notifications", failingPayload, mock.Anything).
		Return("", errors.New("pubsub unavailable"))
	publisher.On("Publish", mock.Anything, "loan-notifications", mock.Anything, mock.Anything).
		Return("msg-2", nil)
	queue.On("MarkSent", mock.Anything, ok.ID, dispatchNow).Return(nil)

	published, err := svc.Dispatch(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, published)
	queue.AssertNotCalled(t, "MarkSent", mock.Anything, failing.ID, mock.Anything)
}

// MarkSent failing after an acknowledged publish still counts the event as
// published; the duplicate on the next tick is tolerated downstream.
func TestDispatchMarkSentFailureStillCounts(t *testing.T) {
	svc, queue, publisher := newDispatcher(t)

	event := queuedEvent(consts.EventAgreementReminder)
	queue.On("ListQueued", mock.Anything, int64(100)).
		Return([]models.NotificationEvent{event}, nil)
	publisher.On("Publish", mock.Anything, "loan-notifications", mock.Anything, mock.Anything).
		Return("msg-3", nil)
	queue.On("MarkSent", mock.Anything, event.ID, dispatchNow).
		Return(errors.New("write failed"))

	published, err := svc.Dispatch(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, published)
}
