package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/notification"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]*model.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return nil
}

func (f *fakeNotificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	var out []*model.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	n, ok := f.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.Read = true
	return nil
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range f.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, e := range f.events {
		if e.Status == model.OutboxStatusPending {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	for _, e := range f.events {
		if e.ID == id {
			e.Status = status
			e.ErrorMessage = errorMessage
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newService(repo *fakeNotificationRepo, outbox *fakeOutboxRepo) notification.Service {
	return notification.NewService(repo, outbox, logger.NewLogger(nil), nil)
}

func TestCreateRequiresRecipientAndContent(t *testing.T) {
	svc := newService(newFakeNotificationRepo(), &fakeOutboxRepo{})

	_, err := svc.Create(context.Background(), uuid.Nil, "title", "msg", model.NotificationTypeWelcome, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(context.Background(), uuid.New(), "", "msg", model.NotificationTypeWelcome, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.Create(context.Background(), uuid.New(), "title", "", model.NotificationTypeWelcome, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestCreateQueuesPushEvent(t *testing.T) {
	outbox := &fakeOutboxRepo{}
	svc := newService(newFakeNotificationRepo(), outbox)

	n, err := svc.Create(context.Background(), uuid.New(), "Welcome", "Hello", model.NotificationTypeWelcome, "")
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.Equal(t, model.NotificationPriorityNormal, n.Priority)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, model.EventTypeNotificationCreated, outbox.events[0].EventType)
	assert.Equal(t, model.OutboxStatusPending, outbox.events[0].Status)
}

func TestListForUserCountsUnread(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	userID := uuid.New()
	first, err := svc.Create(context.Background(), userID, "one", "m", model.NotificationTypeWelcome, "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), userID, "two", "m", model.NotificationTypeNewMessage, "")
	require.NoError(t, err)
	// somebody else's notification never shows up
	_, err = svc.Create(context.Background(), uuid.New(), "other", "m", model.NotificationTypeWelcome, "")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), first.ID, userID))

	list, err := svc.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 2)
	assert.Equal(t, 1, list.UnreadCount)

	count, err := svc.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkReadRejectsForeignNotification(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	owner := uuid.New()
	n, err := svc.Create(context.Background(), owner, "title", "m", model.NotificationTypeWelcome, "")
	require.NoError(t, err)

	// reported as not found, not forbidden, to avoid existence probing
	err = svc.MarkRead(context.Background(), n.ID, uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.False(t, repo.notifications[n.ID].Read)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	svc := newService(newFakeNotificationRepo(), &fakeOutboxRepo{})

	err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newFakeNotificationRepo()
	svc := newService(repo, &fakeOutboxRepo{})

	userID := uuid.New()
	n, err := svc.Create(context.Background(), userID, "title", "m", model.NotificationTypeWelcome, "")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, userID))
	require.NoError(t, svc.MarkRead(context.Background(), n.ID, userID))
	assert.True(t, repo.notifications[n.ID].Read)
}
