package repository

import (
	"context"
	"errors"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Create(ctx context.Context, reaction *models.Reaction) error
	FindByVoter(ctx context.Context, targetType, targetID, emoji, voterID string) (*models.Reaction, error)
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, targetType, targetID string) (models.ReactionSummary, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// FindByVoter returns the voter's existing reaction with the emoji on the
// target, or (nil, nil) when none exists. Anonymous reactions are never
// matched.
func (r *reactionRepository) FindByVoter(ctx context.Context, targetType, targetID, emoji, voterID string) (*models.Reaction, error) {
	if voterID == "" {
		return nil, nil
	}
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND emoji = ? AND voter_id = ?", targetType, targetID, emoji, voterID).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *reactionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, "id = ?", id).Error
}

// Summary recomputes the per-emoji aggregate from the raw reaction rows.
// Emojis whose count dropped to zero do not appear in the result.
func (r *reactionRepository) Summary(ctx context.Context, targetType, targetID string) (models.ReactionSummary, error) {
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}

	summary := make(models.ReactionSummary)
	for _, reaction := range reactions {
		entry := summary[reaction.Emoji]
		entry.Count++
		if reaction.VoterID != "" {
			entry.Voters = append(entry.Voters, reaction.VoterID)
		}
		summary[reaction.Emoji] = entry
	}
	return summary, nil
}
