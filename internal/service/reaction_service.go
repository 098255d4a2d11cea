package service

import (
	"context"
	"errors"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

// ToggleReactionInput is the payload for toggling one emoji reaction.
type ToggleReactionInput struct {
	TargetType string
	TargetID   string
	Emoji      string
	VoterID    string
}

// ReactionOutcome is the recomputed per-emoji aggregate after a toggle.
type ReactionOutcome struct {
	// Action is "added" or "removed".
	Action   string                 `json:"action"`
	Target   string                 `json:"target_type"`
	TargetID string                 `json:"target_id"`
	Summary  models.ReactionSummary `json:"reactions"`
}

// ReactionService implements the reaction toggle engine. A voter repeating
// the same emoji on the same target removes the earlier reaction; the
// summary is recomputed from the raw rows afterward, so an emoji whose count
// drops to zero disappears from it.
type ReactionService struct {
	ledger       *Ledger
	reactionRepo repository.ReactionRepository
	threadRepo   repository.ThreadRepository
	commentRepo  repository.CommentRepository
}

// NewReactionService returns a new ReactionService.
func NewReactionService(
	ledger *Ledger,
	reactionRepo repository.ReactionRepository,
	threadRepo repository.ThreadRepository,
	commentRepo repository.CommentRepository,
) *ReactionService {
	return &ReactionService{
		ledger:       ledger,
		reactionRepo: reactionRepo,
		threadRepo:   threadRepo,
		commentRepo:  commentRepo,
	}
}

// ToggleReaction adds or removes the reaction and returns the fresh summary.
func (s *ReactionService) ToggleReaction(ctx context.Context, in ToggleReactionInput) (*ReactionOutcome, error) {
	if in.Emoji == "" {
		return nil, models.NewValidationError("emoji is required")
	}
	if in.TargetType != models.TargetThread && in.TargetType != models.TargetComment {
		return nil, models.NewValidationError("target_type must be thread or comment")
	}
	if in.TargetID == "" {
		return nil, models.NewValidationError("target_id is required")
	}

	s.ledger.Lock()
	defer s.ledger.Unlock()

	var err error
	switch in.TargetType {
	case models.TargetThread:
		_, err = s.threadRepo.GetByID(ctx, in.TargetID)
	case models.TargetComment:
		_, err = s.commentRepo.GetByID(ctx, in.TargetID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(in.TargetType, in.TargetID)
	}
	if err != nil {
		return nil, models.NewStorageError("load reaction target", err)
	}

	outcome := &ReactionOutcome{Target: in.TargetType, TargetID: in.TargetID}

	existing, err := s.reactionRepo.FindByVoter(ctx, in.TargetType, in.TargetID, in.Emoji, in.VoterID)
	if err != nil {
		return nil, models.NewStorageError("find existing reaction", err)
	}

	if existing != nil {
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return nil, models.NewStorageError("remove reaction", err)
		}
		outcome.Action = "removed"
	} else {
		reaction := &models.Reaction{
			ID:         newID(),
			TargetType: in.TargetType,
			TargetID:   in.TargetID,
			Emoji:      in.Emoji,
			VoterID:    in.VoterID,
			CreatedAt:  nowUnix(),
		}
		if err := s.reactionRepo.Create(ctx, reaction); err != nil {
			return nil, models.NewStorageError("create reaction", err)
		}
		outcome.Action = "added"
	}

	summary, err := s.reactionRepo.Summary(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return nil, models.NewStorageError("summarize reactions", err)
	}
	outcome.Summary = summary

	return outcome, nil
}

// Summary returns the current per-emoji aggregate for the target.
func (s *ReactionService) Summary(ctx context.Context, targetType, targetID string) (models.ReactionSummary, error) {
	summary, err := s.reactionRepo.Summary(ctx, targetType, targetID)
	if err != nil {
		return nil, models.NewStorageError("summarize reactions", err)
	}
	return summary, nil
}
