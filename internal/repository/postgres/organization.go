package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
)

type organizationRepository struct {
	BaseRepository
}

func NewOrganizationRepository(base BaseRepository) repository.OrganizationRepository {
	return &organizationRepository{base}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	query := `
		INSERT INTO organizations (
			id, user_id, name, description, website, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	org.ID = uuid.New()
	org.CreatedAt = time.Now()
	org.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		org.ID,
		org.UserID,
		org.Name,
		org.Description,
		org.Website,
		org.CreatedAt,
		org.UpdatedAt,
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

func (r *organizationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	query := `SELECT * FROM organizations WHERE id = $1`

	var org model.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, mapError(err)
	}
	return &org, nil
}

func (r *organizationRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Organization, error) {
	query := `SELECT * FROM organizations WHERE user_id = $1`

	var org model.Organization
	if err := r.db.GetContext(ctx, &org, query, userID); err != nil {
		return nil, mapError(err)
	}
	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	query := `
		UPDATE organizations SET
			name = $1,
			description = $2,
			website = $3,
			updated_at = $4
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		org.Name,
		org.Description,
		org.Website,
		time.Now(),
		org.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
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
