package opportunity

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
	repo    repository.OpportunityRepository
	orgRepo repository.OrganizationRepository
}

func NewService(repo repository.OpportunityRepository, orgRepo repository.OrganizationRepository) *Service {
	return &Service{repo: repo, orgRepo: orgRepo}
}

// Create posts an opportunity on behalf of the caller's organization
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req *model.CreateOpportunityRequest) (*model.Opportunity, error) {
	org, err := s.orgRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Validation("create an organization profile first", err)
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	opp := &model.Opportunity{
		OrganizationID: org.ID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		Required:       req.Required,
		Status:         model.OpportunityStatusActive,
	}

	if err := s.repo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}
	return opp, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Opportunity, error) {
	opp, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("opportunity", err)
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}
	return opp, nil
}

func (s *Service) List(ctx context.Context, filters *model.OpportunityFilters) ([]*model.Opportunity, error) {
	opps, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	return opps, nil
}

// Close marks an opportunity closed. Organizations may only close their
// own postings; admins may close any.
func (s *Service) Close(ctx context.Context, id uuid.UUID, claims *model.TokenClaims) error {
	opp, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("opportunity", err)
		}
		return fmt.Errorf("failed to get opportunity: %w", err)
	}

	if claims.Role != model.RoleAdmin {
		org, err := s.orgRepo.GetByUserID(ctx, claims.UserID)
		if err != nil || org.ID != opp.OrganizationID {
			return apperrors.Forbidden("not your opportunity")
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, model.OpportunityStatusClosed); err != nil {
		return fmt.Errorf("failed to close opportunity: %w", err)
	}
	return nil
}
