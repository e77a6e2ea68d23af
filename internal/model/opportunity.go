package model

import (
	"time"

	"github.com/google/uuid"
)

// Opportunity status constants
const (
	OpportunityStatusActive = "active"
	OpportunityStatusClosed = "closed"
)

// Opportunity is a volunteer engagement posted by an organization.
// Enrolled never exceeds Required; the check runs at application-approval
// time, not at the storage layer.
type Opportunity struct {
	Base
	OrganizationID uuid.UUID  `json:"organization_id" db:"organization_id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Location       string     `json:"location" db:"location"`
	Required       int        `json:"required_volunteers" db:"required_volunteers"`
	Enrolled       int        `json:"enrolled_volunteers" db:"enrolled_volunteers"`
	Status         string     `json:"status" db:"status"`
	StartsAt       *time.Time `json:"starts_at" db:"starts_at"`
}

// CreateOpportunityRequest represents opportunity creation parameters
type CreateOpportunityRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location"`
	Required    int    `json:"required_volunteers" binding:"required,min=1"`
}

// OpportunityFilters represents opportunity search parameters
type OpportunityFilters struct {
	Pagination
	OrganizationID uuid.UUID `json:"organization_id" form:"organization_id"`
	Status         string    `json:"status" form:"status"`
}
