package service

import (
	"context"
	"errors"
	"strings"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

// CreatePollInput is the payload for attaching a poll to a thread.
type CreatePollInput struct {
	ThreadID string
	Question string
	Options  []string
	EndsAt   *int64
}

// VotePollInput is the payload for casting one poll ballot.
type VotePollInput struct {
	PollID   string
	OptionID string
	VoterID  string
}

// PollService implements the poll engine. A voter has at most one ballot per
// poll; revoting moves the ballot to the new option. Option counts are always
// re-tallied from the raw ballots, so their sum equals the ballot count.
type PollService struct {
	ledger     *Ledger
	pollRepo   repository.PollRepository
	threadRepo repository.ThreadRepository
}

// NewPollService returns a new PollService.
func NewPollService(ledger *Ledger, pollRepo repository.PollRepository, threadRepo repository.ThreadRepository) *PollService {
	return &PollService{ledger: ledger, pollRepo: pollRepo, threadRepo: threadRepo}
}

// CreatePoll validates and stores a poll with between two and six options.
func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.Poll, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, models.NewValidationError("poll question is required")
	}

	options := make([]string, 0, len(in.Options))
	for _, label := range in.Options {
		label = strings.TrimSpace(label)
		if label != "" {
			options = append(options, label)
		}
	}
	if len(options) < models.PollMinOptions || len(options) > models.PollMaxOptions {
		return nil, models.NewValidationError("poll needs between 2 and 6 options")
	}

	if _, err := s.threadRepo.GetByID(ctx, in.ThreadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.TargetThread, in.ThreadID)
		}
		return nil, models.NewStorageError("load poll thread", err)
	}

	poll := &models.Poll{
		ID:        newID(),
		ThreadID:  in.ThreadID,
		Question:  strings.TrimSpace(in.Question),
		CreatedAt: nowUnix(),
		EndsAt:    in.EndsAt,
	}
	for i, label := range options {
		poll.Options = append(poll.Options, models.PollOption{
			ID:       newID(),
			PollID:   poll.ID,
			Label:    label,
			Position: i,
		})
	}

	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, models.NewStorageError("create poll", err)
	}
	return poll, nil
}

// VotePoll records or moves the voter's ballot and returns the poll with
// re-tallied option counts.
func (s *PollService) VotePoll(ctx context.Context, in VotePollInput) (*models.Poll, error) {
	s.ledger.Lock()
	defer s.ledger.Unlock()

	poll, err := s.pollRepo.GetByID(ctx, in.PollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("poll", in.PollID)
		}
		return nil, models.NewStorageError("load poll", err)
	}

	valid := false
	for _, opt := range poll.Options {
		if opt.ID == in.OptionID {
			valid = true
			break
		}
	}
	if !valid {
		return nil, models.NewValidationError("option does not belong to this poll")
	}

	existing, err := s.pollRepo.FindVote(ctx, in.PollID, in.VoterID)
	if err != nil {
		return nil, models.NewStorageError("find existing poll vote", err)
	}

	if existing != nil {
		// Revoting moves the ballot, it never stacks.
		existing.OptionID = in.OptionID
		if err := s.pollRepo.UpdateVote(ctx, existing); err != nil {
			return nil, models.NewStorageError("move poll vote", err)
		}
	} else {
		vote := &models.PollVote{
			ID:        newID(),
			PollID:    in.PollID,
			OptionID:  in.OptionID,
			VoterID:   in.VoterID,
			CreatedAt: nowUnix(),
		}
		if err := s.pollRepo.CreateVote(ctx, vote); err != nil {
			return nil, models.NewStorageError("create poll vote", err)
		}
	}

	return s.withTally(ctx, poll)
}

// GetPoll returns the poll for the thread with re-tallied counts, or
// (nil, nil) when the thread has no poll.
func (s *PollService) GetPoll(ctx context.Context, threadID string) (*models.Poll, error) {
	poll, err := s.pollRepo.GetByThread(ctx, threadID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("load poll", err)
	}
	return s.withTally(ctx, poll)
}

func (s *PollService) withTally(ctx context.Context, poll *models.Poll) (*models.Poll, error) {
	counts, err := s.pollRepo.Tally(ctx, poll.ID)
	if err != nil {
		return nil, models.NewStorageError("tally poll", err)
	}
	for i := range poll.Options {
		poll.Options[i].Votes = counts[poll.Options[i].ID]
	}
	return poll, nil
}
