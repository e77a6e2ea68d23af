package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
	"github.com/voluntr/volunteer-api/pkg/metrics"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, title, message, ntype, priority string) (*model.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) (*model.NotificationList, error)
	MarkRead(ctx context.Context, notificationID, requestingUserID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type service struct {
	repo       repository.NotificationRepository
	outboxRepo repository.OutboxRepository
	logger     *logger.Logger
	metrics    *metrics.Metrics
}

func NewService(repo repository.NotificationRepository, outboxRepo repository.OutboxRepository, logger *logger.Logger, metrics *metrics.Metrics) Service {
	return &service{
		repo:       repo,
		outboxRepo: outboxRepo,
		logger:     logger,
		metrics:    metrics,
	}
}

// Create persists an unread notification and queues a push event for the
// real-time transport. A failed queue write never fails the notification.
func (s *service) Create(ctx context.Context, userID uuid.UUID, title, message, ntype, priority string) (*model.Notification, error) {
	if userID == uuid.Nil {
		return nil, apperrors.Validation("recipient is required", nil)
	}
	if title == "" || message == "" {
		return nil, apperrors.Validation("title and message are required", nil)
	}
	if priority == "" {
		priority = model.NotificationPriorityNormal
	}

	n := &model.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     ntype,
		Priority: priority,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if s.metrics != nil {
		s.metrics.NotificationsCreated.WithLabelValues(ntype).Inc()
	}

	s.queuePushEvent(ctx, n)

	return n, nil
}

func (s *service) queuePushEvent(ctx context.Context, n *model.Notification) {
	if s.outboxRepo == nil {
		return
	}

	payload, err := json.Marshal(model.NotificationCreatedEvent{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
	})
	if err != nil {
		s.logger.Error(err, "failed to marshal notification event")
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventTypeNotificationCreated,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to queue notification push event")
	}
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) (*model.NotificationList, error) {
	notifications, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}

	return &model.NotificationList{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// MarkRead verifies ownership before mutating. A notification belonging
// to someone else reports not found, so callers cannot probe for
// existence. Marking an already-read notification is a no-op.
func (s *service) MarkRead(ctx context.Context, notificationID, requestingUserID uuid.UUID) error {
	n, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("notification", err)
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if n.UserID != requestingUserID {
		return apperrors.NotFound("notification", nil)
	}

	if n.Read {
		return nil
	}

	if err := s.repo.MarkRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
