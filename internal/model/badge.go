package model

import (
	"time"

	"github.com/google/uuid"
)

// Badge type constants
const (
	BadgeTypeActivity = "activity"
)

// Badge is static catalog data. Inactive badges are never awarded.
type Badge struct {
	Base
	Name          string `json:"name" db:"name"`
	Description   string `json:"description" db:"description"`
	Type          string `json:"type" db:"type"`
	RequiredCount int    `json:"required_count" db:"required_count"`
	Active        bool   `json:"active" db:"active"`
}

// UserBadge records a single award. At most one per (user, badge),
// enforced by a unique index so concurrent evaluations are safe.
type UserBadge struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	BadgeID  uuid.UUID `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// UserBadgeView is a catalog badge together with the caller's earned state
type UserBadgeView struct {
	Badge
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// BadgeStats aggregates a user's earned badges
type BadgeStats struct {
	TotalEarned    int `json:"total_earned" db:"total_earned"`
	ActivityBadges int `json:"activity_badges" db:"activity_badges"`
}
