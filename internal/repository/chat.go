package repository

import (
	"context"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines the interface for chat message data operations
type ChatRepository interface {
	Append(ctx context.Context, message *models.ChatMessage) error
	GetByID(ctx context.Context, id string) (*models.ChatMessage, error)
	History(ctx context.Context, limit int) ([]*models.ChatMessage, error)
	Count(ctx context.Context) (int64, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	PruneExpired(ctx context.Context, cutoff int64) (int64, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Append(ctx context.Context, message *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *chatRepository) GetByID(ctx context.Context, id string) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := r.db.WithContext(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// History returns the most recent messages in chronological order.
func (r *chatRepository) History(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse into oldest-first order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *chatRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).Count(&count).Error
	return count, err
}

func (r *chatRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", id).
		Update("pinned", pinned)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PruneExpired hard-deletes unpinned messages created at or before the
// cutoff. Returns the number of messages removed.
func (r *chatRepository) PruneExpired(ctx context.Context, cutoff int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("pinned = ? AND created_at <= ?", false, cutoff).
		Delete(&models.ChatMessage{})
	return result.RowsAffected, result.Error
}
