package data

import (
	"context"

	"benefitsportal/internal/models"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
)

// ChatRepositoryInterface defines the chat message log operations
type ChatRepositoryInterface interface {
	ListByUser(ctx context.Context, companyID, userID uuid.UUID, limit int) ([]*models.ChatMessage, error)
	Create(ctx context.Context, message *models.ChatMessage) error
}

// ChatRepository handles database operations for the append-only chat log
type ChatRepository struct {
	db *pg.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pg.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// ListByUser retrieves a user's chat log in commit order
func (r *ChatRepository) ListByUser(ctx context.Context, companyID, userID uuid.UUID, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	q := r.db.ModelContext(ctx, &messages).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Order("timestamp ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Select()
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create appends a message to the log
func (r *ChatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	_, err := r.db.ModelContext(ctx, message).Insert()
	return err
}
