package badge

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
	"github.com/voluntr/volunteer-api/internal/service/notification"
	"github.com/voluntr/volunteer-api/pkg/logger"
	"github.com/voluntr/volunteer-api/pkg/metrics"
)

const (
	catalogCacheKey = "badge_catalog_active"
	catalogCacheTTL = 5 * time.Minute
)

type Service interface {
	// EvaluateForUser awards every active activity badge whose threshold
	// the user's completed-application count now meets. Idempotent:
	// already-earned badges are skipped, and re-running after no new
	// completions awards nothing. Returns the newly awarded badges.
	EvaluateForUser(ctx context.Context, userID uuid.UUID) ([]*model.Badge, error)
	MyBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadgeView, error)
	Stats(ctx context.Context, userID uuid.UUID) (*model.BadgeStats, error)
}

type service struct {
	repo            repository.BadgeRepository
	applicationRepo repository.ApplicationRepository
	notificationSvc notification.Service
	catalog         *cache.Cache
	logger          *logger.Logger
	metrics         *metrics.Metrics
}

func NewService(
	repo repository.BadgeRepository,
	applicationRepo repository.ApplicationRepository,
	notificationSvc notification.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) Service {
	return &service{
		repo:            repo,
		applicationRepo: applicationRepo,
		notificationSvc: notificationSvc,
		catalog:         cache.New(catalogCacheTTL, 2*catalogCacheTTL),
		logger:          logger,
		metrics:         metrics,
	}
}

// activeBadges serves the static catalog from cache. Catalog rows change
// rarely; a stale read only delays awards until the next evaluation.
func (s *service) activeBadges(ctx context.Context) ([]*model.Badge, error) {
	if cached, ok := s.catalog.Get(catalogCacheKey); ok {
		return cached.([]*model.Badge), nil
	}

	badges, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog.Set(catalogCacheKey, badges, cache.DefaultExpiration)
	return badges, nil
}

func (s *service) EvaluateForUser(ctx context.Context, userID uuid.UUID) ([]*model.Badge, error) {
	completed, err := s.applicationRepo.CountCompletedForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed applications: %w", err)
	}

	badges, err := s.activeBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	var awarded []*model.Badge
	for _, b := range badges {
		if b.Type != model.BadgeTypeActivity || b.RequiredCount > completed {
			continue
		}

		inserted, err := s.repo.Award(ctx, &model.UserBadge{
			UserID:   userID,
			BadgeID:  b.ID,
			EarnedAt: time.Now(),
		})
		if err != nil {
			return awarded, fmt.Errorf("failed to award badge %s: %w", b.Name, err)
		}
		if !inserted {
			continue
		}

		awarded = append(awarded, b)
		if s.metrics != nil {
			s.metrics.BadgesAwarded.Inc()
		}
		s.notifyAwarded(ctx, userID, b)
	}

	return awarded, nil
}

func (s *service) notifyAwarded(ctx context.Context, userID uuid.UUID, b *model.Badge) {
	if s.notificationSvc == nil {
		return
	}
	_, err := s.notificationSvc.Create(ctx, userID,
		"Badge earned: "+b.Name,
		b.Description,
		model.NotificationTypeBadgeAwarded,
		model.NotificationPriorityNormal,
	)
	if err != nil {
		s.logger.Error(err, "failed to create badge notification")
	}
}

func (s *service) MyBadges(ctx context.Context, userID uuid.UUID) ([]*model.UserBadgeView, error) {
	badges, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	earned, err := s.repo.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list earned badges: %w", err)
	}

	earnedAt := make(map[uuid.UUID]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	views := make([]*model.UserBadgeView, 0, len(badges))
	for _, b := range badges {
		view := &model.UserBadgeView{Badge: *b}
		if at, ok := earnedAt[b.ID]; ok {
			view.Earned = true
			t := at
			view.EarnedAt = &t
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *service) Stats(ctx context.Context, userID uuid.UUID) (*model.BadgeStats, error) {
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate badge stats: %w", err)
	}
	return stats, nil
}
