package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
)

type Service struct {
	repo repository.OrganizationRepository
}

func NewService(repo repository.OrganizationRepository) *Service {
	return &Service{repo: repo}
}

// Upsert creates the caller's organization profile, or updates it if one
// exists. Exactly one profile per organization user.
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req *model.UpsertOrganizationRequest) (*model.Organization, error) {
	org, err := s.repo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	if org == nil {
		org = &model.Organization{UserID: userID}
	}

	org.Name = req.Name
	org.Description = req.Description
	if req.Website != "" {
		org.Website = &req.Website
	} else {
		org.Website = nil
	}

	if org.ID == uuid.Nil {
		if err := s.repo.Create(ctx, org); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, apperrors.Conflict("organization profile already exists", err)
			}
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
		return org, nil
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("organization", err)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Organization, error) {
	org, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("organization", err)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return org, nil
}
