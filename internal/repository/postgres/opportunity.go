package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
)

type opportunityRepository struct {
	BaseRepository
}

func NewOpportunityRepository(base BaseRepository) repository.OpportunityRepository {
	return &opportunityRepository{base}
}

func (r *opportunityRepository) Create(ctx context.Context, opp *model.Opportunity) error {
	query := `
		INSERT INTO opportunities (
			id, organization_id, title, description, location,
			required_volunteers, enrolled_volunteers, status, starts_at,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	opp.ID = uuid.New()
	opp.CreatedAt = time.Now()
	opp.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		opp.ID,
		opp.OrganizationID,
		opp.Title,
		opp.Description,
		opp.Location,
		opp.Required,
		opp.Enrolled,
		opp.Status,
		opp.StartsAt,
		opp.CreatedAt,
		opp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create opportunity: %w", err)
	}
	return nil
}

func (r *opportunityRepository) Get(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	query := `SELECT * FROM opportunities WHERE id = $1`

	var opp model.Opportunity
	if err := r.db.GetContext(ctx, &opp, query, id); err != nil {
		return nil, mapError(err)
	}
	return &opp, nil
}

func (r *opportunityRepository) List(ctx context.Context, filters *model.OpportunityFilters) ([]*model.Opportunity, error) {
	query := `SELECT * FROM opportunities WHERE 1=1`
	args := []interface{}{}

	if filters.OrganizationID != uuid.Nil {
		query += fmt.Sprintf(" AND organization_id = $%d", len(args)+1)
		args = append(args, filters.OrganizationID)
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, filters.Status)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit(), filters.Offset())

	var opps []*model.Opportunity
	if err := r.db.SelectContext(ctx, &opps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}

func (r *opportunityRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `
		UPDATE opportunities
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update opportunity status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IncrementEnrolled is capacity-guarded in SQL so concurrent approvals
// cannot overfill an opportunity.
func (r *opportunityRepository) IncrementEnrolled(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE opportunities
		SET enrolled_volunteers = enrolled_volunteers + 1, updated_at = NOW()
		WHERE id = $1
		  AND status = $2
		  AND enrolled_volunteers < required_volunteers
	`

	result, err := r.db.ExecContext(ctx, query, id, model.OpportunityStatusActive)
	if err != nil {
		return fmt.Errorf("failed to increment enrolled count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
