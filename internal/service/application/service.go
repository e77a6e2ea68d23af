package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/email"
	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/badge"
	"github.com/voluntr/volunteer-api/internal/service/notification"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/logger"
)

type Service interface {
	Apply(ctx context.Context, userID, opportunityID uuid.UUID, message string) (*model.Application, error)
	UpdateStatus(ctx context.Context, applicationID uuid.UUID, status model.ApplicationStatus, notes string) (*model.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Application, error)
	ListForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*model.Application, error)
}

type service struct {
	repo            repository.ApplicationRepository
	opportunityRepo repository.OpportunityRepository
	userRepo        repository.UserRepository
	badgeSvc        badge.Service
	notificationSvc notification.Service
	emailSvc        email.Service
	logger          *logger.Logger
}

func NewService(
	repo repository.ApplicationRepository,
	opportunityRepo repository.OpportunityRepository,
	userRepo repository.UserRepository,
	badgeSvc badge.Service,
	notificationSvc notification.Service,
	emailSvc email.Service,
	logger *logger.Logger,
) Service {
	return &service{
		repo:            repo,
		opportunityRepo: opportunityRepo,
		userRepo:        userRepo,
		badgeSvc:        badgeSvc,
		notificationSvc: notificationSvc,
		emailSvc:        emailSvc,
		logger:          logger,
	}
}

// Apply creates a pending application. The unique (user, opportunity)
// index surfaces a second attempt as a domain conflict.
func (s *service) Apply(ctx context.Context, userID, opportunityID uuid.UUID, message string) (*model.Application, error) {
	opp, err := s.opportunityRepo.Get(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("opportunity", err)
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	if opp.Status != model.OpportunityStatusActive {
		return nil, apperrors.Validation("opportunity is not accepting applications", nil)
	}

	app := &model.Application{
		UserID:        userID,
		OpportunityID: opportunityID,
		Status:        model.ApplicationStatusPending,
		Message:       message,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("you have already applied to this opportunity", err)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return app, nil
}

// UpdateStatus performs a workflow transition. A transition to completed
// triggers badge evaluation for the applicant; evaluation is idempotent,
// so a retried call after a partial failure is safe. Evaluation errors
// are logged, never propagated: the status change is the primary effect.
func (s *service) UpdateStatus(ctx context.Context, applicationID uuid.UUID, status model.ApplicationStatus, notes string) (*model.Application, error) {
	app, err := s.repo.Get(ctx, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("application", err)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	if !app.Status.CanTransitionTo(status) {
		return nil, apperrors.Validation(
			fmt.Sprintf("cannot transition application from %s to %s", app.Status, status), nil)
	}

	if status == model.ApplicationStatusApproved {
		if err := s.opportunityRepo.IncrementEnrolled(ctx, app.OpportunityID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.Conflict("opportunity is closed or full", err)
			}
			return nil, fmt.Errorf("failed to enroll volunteer: %w", err)
		}
	}

	if err := s.repo.UpdateStatus(ctx, applicationID, status, notes); err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	app.Status = status
	app.Notes = notes

	s.notifyStatusChange(ctx, app)

	if status == model.ApplicationStatusCompleted && s.badgeSvc != nil {
		if _, err := s.badgeSvc.EvaluateForUser(ctx, app.UserID); err != nil {
			s.logger.Error(err, "badge evaluation failed")
		}
	}

	return app, nil
}

// notifyStatusChange fans the transition out to the volunteer's
// notification feed and inbox. Both are best-effort: a delivery failure
// never rolls back the status change.
func (s *service) notifyStatusChange(ctx context.Context, app *model.Application) {
	if s.notificationSvc != nil {
		_, err := s.notificationSvc.Create(ctx, app.UserID,
			"Application "+string(app.Status),
			fmt.Sprintf("Your application status changed to %s", app.Status),
			model.NotificationTypeApplicationStatus,
			model.NotificationPriorityNormal,
		)
		if err != nil {
			s.logger.Error(err, "failed to create status notification")
		}
	}

	if s.emailSvc == nil || s.userRepo == nil {
		return
	}
	user, err := s.userRepo.Get(ctx, app.UserID)
	if err != nil {
		s.logger.Error(err, "failed to load applicant for status email")
		return
	}
	subject := fmt.Sprintf("Your application is %s", app.Status)
	body := fmt.Sprintf("Hi %s,\n\nYour application status changed to %s.\n", user.Name, app.Status)
	if err := s.emailSvc.SendCustom(ctx, user.Email, subject, body); err != nil {
		s.logger.Error(err, "failed to send status email")
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	app, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("application", err)
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return app, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Application, error) {
	apps, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

func (s *service) ListForOpportunity(ctx context.Context, opportunityID uuid.UUID) ([]*model.Application, error) {
	apps, err := s.repo.ListForOpportunity(ctx, opportunityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}
