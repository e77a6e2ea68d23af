package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/voluntr/volunteer-api/internal/model"
	"github.com/voluntr/volunteer-api/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (
			id, sender_id, recipient_id, content, type, read,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	m.ID = uuid.New()
	m.Read = false
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.SenderID,
		m.RecipientID,
		m.Content,
		m.Type,
		m.Read,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) ListBetween(ctx context.Context, a, b uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2)
		   OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at ASC
	`

	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, a, b); err != nil {
		return nil, fmt.Errorf("failed to list conversation messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT * FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
	`

	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list user messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, otherUserID uuid.UUID) (int64, error) {
	query := `
		UPDATE messages
		SET read = TRUE, updated_at = NOW()
		WHERE recipient_id = $1 AND sender_id = $2 AND read = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, userID, otherUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark conversation read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
