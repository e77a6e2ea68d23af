package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
)

type badgeRepository struct {
	BaseRepository
}

func NewBadgeRepository(base BaseRepository) repository.BadgeRepository {
	return &badgeRepository{base}
}

func (r *badgeRepository) List(ctx context.Context) ([]*model.Badge, error) {
	query := `SELECT * FROM badges ORDER BY required_count ASC`

	var badges []*model.Badge
	if err := r.db.SelectContext(ctx, &badges, query); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

func (r *badgeRepository) ListActive(ctx context.Context) ([]*model.Badge, error) {
	query := `
		SELECT * FROM badges
		WHERE active = TRUE
		ORDER BY required_count ASC
	`

	var badges []*model.Badge
	if err := r.db.SelectContext(ctx, &badges, query); err != nil {
		return nil, fmt.Errorf("failed to list active badges: %w", err)
	}
	return badges, nil
}

func (r *badgeRepository) ListEarned(ctx context.Context, userID uuid.UUID) ([]*model.UserBadge, error) {
	query := `
		SELECT * FROM user_badges
		WHERE user_id = $1
		ORDER BY earned_at ASC
	`

	var earned []*model.UserBadge
	if err := r.db.SelectContext(ctx, &earned, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list earned badges: %w", err)
	}
	return earned, nil
}

// Award relies on the unique (user_id, badge_id) index: concurrent award
// attempts resolve to exactly one surviving row.
func (r *badgeRepository) Award(ctx context.Context, ub *model.UserBadge) (bool, error) {
	query := `
		INSERT INTO user_badges (id, user_id, badge_id, earned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`

	ub.ID = uuid.New()
	if ub.EarnedAt.IsZero() {
		ub.EarnedAt = time.Now()
	}

	result, err := r.db.ExecContext(ctx, query, ub.ID, ub.UserID, ub.BadgeID, ub.EarnedAt)
	if err != nil {
		return false, fmt.Errorf("failed to award badge: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *badgeRepository) Stats(ctx context.Context, userID uuid.UUID) (*model.BadgeStats, error) {
	query := `
		SELECT
			COUNT(*) AS total_earned,
			COUNT(*) FILTER (WHERE b.type = $2) AS activity_badges
		FROM user_badges ub
		JOIN badges b ON b.id = ub.badge_id
		WHERE ub.user_id = $1
	`

	var stats model.BadgeStats
	if err := r.db.GetContext(ctx, &stats, query, userID, model.BadgeTypeActivity); err != nil {
		return nil, fmt.Errorf("failed to aggregate badge stats: %w", err)
	}
	return &stats, nil
}
