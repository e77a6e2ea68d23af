package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
)

// Sentinel errors shared by all repository implementations. Services map
// these onto the API error taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	Get(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
}

type OpportunityRepository interface {
	Create(ctx context.Context, opp *model.Opportunity) error
	Get(ctx context.Context, id uuid.UUID) (*model.Opportunity, error)
	List(ctx context.Context, filters *model.OpportunityFilters) ([]*model.Opportunity, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	// IncrementEnrolled adds one enrolled volunteer iff capacity remains.
	// Returns ErrNotFound when the opportunity is absent, closed, or full.
	IncrementEnrolled(ctx context.Context, id uuid.UUID) error
}

type ApplicationRepository interface {
	// Create returns ErrDuplicate when the (user, opportunity) pair
	// already has an application.
	Create(ctx context.Context, app *model.Application) error
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Application, error)
	ListForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, notes string) error
	CountCompletedForUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	// ListBetween returns every message exchanged by the pair, oldest first.
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]*model.Message, error)
	// ListForUser returns every message the user sent or received, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Message, error)
	// MarkConversationRead flips read on unread messages sent by otherUserID
	// to userID. Returns the number of messages affected.
	MarkConversationRead(ctx context.Context, userID, otherUserID uuid.UUID) (int64, error)
}

type BadgeRepository interface {
	List(ctx context.Context) ([]*model.Badge, error)
	ListActive(ctx context.Context) ([]*model.Badge, error)
	ListEarned(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error)
	// Award inserts the earned-badge record, ignoring duplicates. The
	// returned bool reports whether a row was actually inserted.
	Award(ctx context.Context, ub *model.UserBadge) (bool, error)
	Stats(ctx context.Context, userID uuid.UUID) (*model.BadgeStats, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
