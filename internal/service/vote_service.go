package service

import (
	"context"
	"errors"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

// CastVoteInput is the payload for casting one ballot.
type CastVoteInput struct {
	TargetType string
	TargetID   string
	Direction  int
	VoterID    string
}

// VoteOutcome describes what the ballot did to the target.
type VoteOutcome struct {
	// Action is "created", "removed" (toggle off) or "flipped".
	Action    string        `json:"action"`
	Target    string        `json:"target_type"`
	TargetID  string        `json:"target_id"`
	Upvotes   int           `json:"upvotes"`
	Downvotes int           `json:"downvotes"`
	Score     int           `json:"score"`
	Thread    *models.Thread `json:"thread,omitempty"`
	Comment   *models.Comment `json:"comment,omitempty"`
}

// VoteService implements the vote toggle engine. A repeated identical ballot
// from the same voter removes the earlier one; an opposite ballot flips it in
// place. The target's aggregates are always recomputed from the raw ballots
// afterward, never hand-adjusted.
type VoteService struct {
	ledger      *Ledger
	voteRepo    repository.VoteRepository
	threadRepo  repository.ThreadRepository
	commentRepo repository.CommentRepository
}

// NewVoteService returns a new VoteService.
func NewVoteService(
	ledger *Ledger,
	voteRepo repository.VoteRepository,
	threadRepo repository.ThreadRepository,
	commentRepo repository.CommentRepository,
) *VoteService {
	return &VoteService{
		ledger:      ledger,
		voteRepo:    voteRepo,
		threadRepo:  threadRepo,
		commentRepo: commentRepo,
	}
}

// CastVote applies one ballot and returns the target's recomputed aggregates.
func (s *VoteService) CastVote(ctx context.Context, in CastVoteInput) (*VoteOutcome, error) {
	if in.Direction != models.VoteUp && in.Direction != models.VoteDown {
		return nil, models.NewValidationError("vote must be 1 or -1")
	}
	if in.TargetType != models.TargetThread && in.TargetType != models.TargetComment {
		return nil, models.NewValidationError("target_type must be thread or comment")
	}
	if in.TargetID == "" {
		return nil, models.NewValidationError("target_id is required")
	}

	s.ledger.Lock()
	defer s.ledger.Unlock()

	outcome := &VoteOutcome{Target: in.TargetType, TargetID: in.TargetID}

	// The target must exist before any ballot is recorded.
	var thread *models.Thread
	var comment *models.Comment
	var err error
	switch in.TargetType {
	case models.TargetThread:
		thread, err = s.threadRepo.GetByID(ctx, in.TargetID)
	case models.TargetComment:
		comment, err = s.commentRepo.GetByID(ctx, in.TargetID)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(in.TargetType, in.TargetID)
	}
	if err != nil {
		return nil, models.NewStorageError("load vote target", err)
	}

	existing, err := s.voteRepo.FindByVoter(ctx, in.TargetType, in.TargetID, in.VoterID)
	if err != nil {
		return nil, models.NewStorageError("find existing vote", err)
	}

	switch {
	case existing == nil:
		vote := &models.Vote{
			ID:         newID(),
			TargetType: in.TargetType,
			TargetID:   in.TargetID,
			Vote:       in.Direction,
			VoterID:    in.VoterID,
			CreatedAt:  nowUnix(),
		}
		if err := s.voteRepo.Create(ctx, vote); err != nil {
			return nil, models.NewStorageError("create vote", err)
		}
		outcome.Action = "created"
	case existing.Vote == in.Direction:
		// Same direction again toggles the ballot off.
		if err := s.voteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, models.NewStorageError("remove vote", err)
		}
		outcome.Action = "removed"
	default:
		existing.Vote = in.Direction
		if err := s.voteRepo.Update(ctx, existing); err != nil {
			return nil, models.NewStorageError("flip vote", err)
		}
		outcome.Action = "flipped"
	}

	tally, err := s.voteRepo.Tally(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return nil, models.NewStorageError("tally votes", err)
	}
	outcome.Upvotes = tally.Upvotes
	outcome.Downvotes = tally.Downvotes
	outcome.Score = tally.Score()

	switch in.TargetType {
	case models.TargetThread:
		thread.Upvotes = tally.Upvotes
		thread.Downvotes = tally.Downvotes
		thread.Score = tally.Score()
		if err := s.threadRepo.Update(ctx, thread); err != nil {
			return nil, models.NewStorageError("persist thread score", err)
		}
		outcome.Thread = thread
	case models.TargetComment:
		comment.Score = tally.Score()
		if err := s.commentRepo.Update(ctx, comment); err != nil {
			return nil, models.NewStorageError("persist comment score", err)
		}
		outcome.Comment = comment
	}

	return outcome, nil
}
