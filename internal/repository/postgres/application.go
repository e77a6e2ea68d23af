package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
)

type applicationRepository struct {
	BaseRepository
}

func NewApplicationRepository(base BaseRepository) repository.ApplicationRepository {
	return &applicationRepository{base}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	query := `
		INSERT INTO applications (
			id, user_id, opportunity_id, status, message, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	app.ID = uuid.New()
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.UserID,
		app.OpportunityID,
		app.Status,
		app.Message,
		app.Notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *applicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	query := `SELECT * FROM applications WHERE id = $1`

	var app model.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, mapError(err)
	}
	return &app, nil
}

func (r *applicationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	query := `
		SELECT * FROM applications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var apps []*model.Application
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) ListForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*model.Application, error) {
	query := `
		SELECT * FROM applications
		WHERE opportunity_id = $1
		ORDER BY created_at ASC
	`

	var apps []*model.Application
	if err := r.db.SelectContext(ctx, &apps, query, opportunityID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, notes string) error {
	query := `
		UPDATE applications
		SET status = $1, notes = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
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

func (r *applicationRepository) CountCompletedForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM applications
		WHERE user_id = $1 AND status = $2
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, model.ApplicationStatusCompleted); err != nil {
		return 0, fmt.Errorf("failed to count completed applications: %w", err)
	}
	return count, nil
}
