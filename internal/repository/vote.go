package repository

import (
	"context"
	"errors"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// VoteTally is the raw vote aggregate for one target.
type VoteTally struct {
	Upvotes   int
	Downvotes int
}

// Score returns upvotes minus downvotes.
func (t VoteTally) Score() int {
	return t.Upvotes - t.Downvotes
}

// VoteRepository defines the interface for vote data operations
type VoteRepository interface {
	Create(ctx context.Context, vote *models.Vote) error
	FindByVoter(ctx context.Context, targetType, targetID, voterID string) (*models.Vote, error)
	Update(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, id string) error
	Tally(ctx context.Context, targetType, targetID string) (VoteTally, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

// FindByVoter returns the existing ballot for the voter on the target, or
// (nil, nil) when none exists. Anonymous ballots (empty voterID) are never
// matched.
func (r *voteRepository) FindByVoter(ctx context.Context, targetType, targetID, voterID string) (*models.Vote, error) {
	if voterID == "" {
		return nil, nil
	}
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ? AND voter_id = ?", targetType, targetID, voterID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) Update(ctx context.Context, vote *models.Vote) error {
	return r.db.WithContext(ctx).Save(vote).Error
}

func (r *voteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Vote{}, "id = ?", id).Error
}

// Tally recomputes the aggregate from the raw ballots.
func (r *voteRepository) Tally(ctx context.Context, targetType, targetID string) (VoteTally, error) {
	var tally VoteTally

	var up int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote = ?", targetType, targetID, models.VoteUp).
		Count(&up).Error; err != nil {
		return tally, err
	}

	var down int64
	if err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("target_type = ? AND target_id = ? AND vote = ?", targetType, targetID, models.VoteDown).
		Count(&down).Error; err != nil {
		return tally, err
	}

	tally.Upvotes = int(up)
	tally.Downvotes = int(down)
	return tally, nil
}
