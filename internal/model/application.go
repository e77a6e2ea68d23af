package model

import (
	"github.com/google/uuid"
)

// ApplicationStatus is the linear application workflow:
// pending -> approved/rejected, approved -> completed. No back-transitions.
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusCompleted ApplicationStatus = "completed"
)

// ParseApplicationStatus converts a raw status value to a known status
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case ApplicationStatusPending, ApplicationStatusApproved,
		ApplicationStatusRejected, ApplicationStatusCompleted:
		return ApplicationStatus(s), true
	}
	return "", false
}

// CanTransitionTo reports whether the workflow permits moving to next
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending:
		return next == ApplicationStatusApproved || next == ApplicationStatusRejected
	case ApplicationStatusApproved:
		return next == ApplicationStatusCompleted
	}
	return false
}

// Application links a volunteer to an opportunity. At most one per
// (user, opportunity) pair, enforced by a unique index. Never deleted.
type Application struct {
	Base
	UserID        uuid.UUID         `json:"user_id" db:"user_id"`
	OpportunityID uuid.UUID         `json:"opportunity_id" db:"opportunity_id"`
	Status        ApplicationStatus `json:"status" db:"status"`
	Message       string            `json:"message" db:"message"`
	Notes         string            `json:"notes" db:"notes"`
}

// ApplyRequest represents a volunteer's application parameters
type ApplyRequest struct {
	Message string `json:"message"`
}

// UpdateApplicationStatusRequest represents status transition parameters
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected completed"`
	Notes  string `json:"notes"`
}
