package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/notification"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

type Service interface {
	Send(ctx context.Context, senderID uuid.UUID, recipientID uuid.UUID, content, mtype string) (*model.Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) (*model.ConversationList, error)
	GetConversation(ctx context.Context, userID, otherUserID uuid.UUID) ([]*model.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherUserID uuid.UUID) error
}

type service struct {
	repo            repository.MessageRepository
	userRepo        repository.UserRepository
	notificationSvc notification.Service
	logger          *logger.Logger
}

func NewService(repo repository.MessageRepository, userRepo repository.UserRepository, notificationSvc notification.Service, logger *logger.Logger) Service {
	return &service{
		repo:            repo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		logger:          logger,
	}
}

func (s *service) Send(ctx context.Context, senderID, recipientID uuid.UUID, content, mtype string) (*model.Message, error) {
	if senderID == recipientID {
		return nil, apperrors.Validation("cannot send a message to yourself", nil)
	}
	if content == "" {
		return nil, apperrors.Validation("content is required", nil)
	}
	if mtype == "" {
		mtype = model.MessageTypeText
	}

	sender, err := s.userRepo.Get(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sender: %w", err)
	}

	if _, err := s.userRepo.Get(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("recipient", err)
		}
		return nil, fmt.Errorf("failed to load recipient: %w", err)
	}

	m := &model.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Type:        mtype,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if s.notificationSvc != nil {
		_, err := s.notificationSvc.Create(ctx, recipientID,
			"New message from "+sender.Name,
			content,
			model.NotificationTypeNewMessage,
			model.NotificationPriorityLow,
		)
		if err != nil {
			s.logger.Error(err, "failed to create message notification")
		}
	}

	return m, nil
}

// ListConversations groups the user's messages by counterpart. Each
// summary carries the most recent message and the count of messages the
// user has not read; TotalUnread sums those counts.
func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) (*model.ConversationList, error) {
	messages, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	byOther := make(map[uuid.UUID]*model.Conversation)
	order := make([]uuid.UUID, 0)
	totalUnread := 0

	for _, m := range messages {
		other := m.SenderID
		if other == userID {
			other = m.RecipientID
		}

		conv, ok := byOther[other]
		if !ok {
			conv = &model.Conversation{
				ID:          model.ConversationID(userID, other),
				OtherUserID: other,
				// messages arrive newest first, so the first one seen
				// per counterpart is the latest
				LastMessage: m,
			}
			byOther[other] = conv
			order = append(order, other)
		}

		if m.RecipientID == userID && !m.Read {
			conv.UnreadCount++
			totalUnread++
		}
	}

	conversations := make([]*model.Conversation, 0, len(order))
	for _, other := range order {
		conv := byOther[other]
		if u, err := s.userRepo.Get(ctx, other); err == nil {
			conv.OtherName = u.Name
		}
		conversations = append(conversations, conv)
	}

	return &model.ConversationList{
		Conversations: conversations,
		TotalUnread:   totalUnread,
	}, nil
}

func (s *service) GetConversation(ctx context.Context, userID, otherUserID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.repo.ListBetween(ctx, userID, otherUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	return messages, nil
}

// MarkConversationRead flips every unread message addressed to the user
// in this conversation. Idempotent: a second call affects nothing.
func (s *service) MarkConversationRead(ctx context.Context, userID, otherUserID uuid.UUID) error {
	if _, err := s.repo.MarkConversationRead(ctx, userID, otherUserID); err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return nil
}
