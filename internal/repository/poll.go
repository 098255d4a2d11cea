package repository

import (
	"context"
	"errors"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	Create(ctx context.Context, poll *models.Poll) error
	GetByID(ctx context.Context, id string) (*models.Poll, error)
	GetByThread(ctx context.Context, threadID string) (*models.Poll, error)
	FindVote(ctx context.Context, pollID, voterID string) (*models.PollVote, error)
	CreateVote(ctx context.Context, vote *models.PollVote) error
	UpdateVote(ctx context.Context, vote *models.PollVote) error
	Tally(ctx context.Context, pollID string) (map[string]int, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Create(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&poll, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

func (r *pollRepository) GetByThread(ctx context.Context, threadID string) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&poll, "thread_id = ?", threadID).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// FindVote returns the voter's existing ballot in the poll, or (nil, nil)
// when none exists. Anonymous ballots are never matched.
func (r *pollRepository) FindVote(ctx context.Context, pollID, voterID string) (*models.PollVote, error) {
	if voterID == "" {
		return nil, nil
	}
	var vote models.PollVote
	err := r.db.WithContext(ctx).
		Where("poll_id = ? AND voter_id = ?", pollID, voterID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *pollRepository) CreateVote(ctx context.Context, vote *models.PollVote) error {
	return r.db.WithContext(ctx).Create(vote).Error
}

func (r *pollRepository) UpdateVote(ctx context.Context, vote *models.PollVote) error {
	return r.db.WithContext(ctx).Save(vote).Error
}

// Tally recomputes per-option vote counts from the raw ballots. Options with
// no ballots are absent from the map.
func (r *pollRepository) Tally(ctx context.Context, pollID string) (map[string]int, error) {
	type row struct {
		OptionID string
		N        int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.PollVote{}).
		Select("option_id, COUNT(*) as n").
		Where("poll_id = ?", pollID).
		Group("option_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, rr := range rows {
		counts[rr.OptionID] = rr.N
	}
	return counts, nil
}
