package model

import (
	"github.com/google/uuid"
)

// Notification type constants
const (
	NotificationTypeWelcome           = "WELCOME"
	NotificationTypeApplicationStatus = "APPLICATION_STATUS"
	NotificationTypeBadgeAwarded      = "BADGE_AWARDED"
	NotificationTypeNewMessage        = "NEW_MESSAGE"
)

// Notification priority constants
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification informs exactly one recipient about a server-side event.
// Immutable after creation except for the read flag, which only ever
// transitions false to true.
type Notification struct {
	Base
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	Title    string    `json:"title" db:"title"`
	Message  string    `json:"message" db:"message"`
	Type     string    `json:"type" db:"type"`
	Priority string    `json:"priority" db:"priority"`
	Read     bool      `json:"read" db:"read"`
}

// NotificationList is the list payload returned to a recipient
type NotificationList struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unread_count"`
}

// NotificationCreatedEvent is published to the broker so the real-time
// transport can push to connected clients.
type NotificationCreatedEvent struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
}

// EventTypeNotificationCreated is the outbox event type for push delivery
const EventTypeNotificationCreated = "notification.created"
