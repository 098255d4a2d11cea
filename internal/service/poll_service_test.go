package service

import (
	"context"
	"testing"

	"parlor/internal/models"
	"parlor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPollFixture(t *testing.T) (*PollService, context.Context) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewPollService(NewLedger(), repository.NewPollRepository(db), repository.NewThreadRepository(db))
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Thread{ID: "t1", Title: "hello", CreatedAt: 1}).Error)
	return svc, ctx
}

func TestPollService_CreatePollValidatesOptionCount(t *testing.T) {
	t.Parallel()

	svc, ctx := newPollFixture(t)

	_, err := svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"only"}})
	assertValidationError(t, err)

	_, err = svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"a", "b", "c", "d", "e", "f", "g"}})
	assertValidationError(t, err)

	// Blank options are dropped before the count check.
	_, err = svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"a", "  ", ""}})
	assertValidationError(t, err)

	poll, err := svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Len(t, poll.Options, 2)
}

func TestPollService_RevoteMovesBallot(t *testing.T) {
	t.Parallel()

	svc, ctx := newPollFixture(t)

	poll, err := svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"red", "blue"}})
	require.NoError(t, err)
	red, blue := poll.Options[0].ID, poll.Options[1].ID

	after, err := svc.VotePoll(ctx, VotePollInput{PollID: poll.ID, OptionID: red, VoterID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 1, optionVotes(after, red))

	after, err = svc.VotePoll(ctx, VotePollInput{PollID: poll.ID, OptionID: blue, VoterID: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 0, optionVotes(after, red), "the old ballot moved, it did not stack")
	assert.Equal(t, 1, optionVotes(after, blue))
}

func TestPollService_TallySumEqualsBallotCount(t *testing.T) {
	t.Parallel()

	svc, ctx := newPollFixture(t)

	poll, err := svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"a", "b", "c"}})
	require.NoError(t, err)

	voters := []string{"alice", "bob", "carol", "", ""}
	for i, voter := range voters {
		opt := poll.Options[i%len(poll.Options)].ID
		_, err := svc.VotePoll(ctx, VotePollInput{PollID: poll.ID, OptionID: opt, VoterID: voter})
		require.NoError(t, err)
	}

	after, err := svc.GetPoll(ctx, "t1")
	require.NoError(t, err)
	total := 0
	for _, opt := range after.Options {
		total += opt.Votes
	}
	assert.Equal(t, len(voters), total)
}

func TestPollService_RejectsForeignOption(t *testing.T) {
	t.Parallel()

	svc, ctx := newPollFixture(t)

	poll, err := svc.CreatePoll(ctx, CreatePollInput{ThreadID: "t1", Question: "q", Options: []string{"a", "b"}})
	require.NoError(t, err)

	_, err = svc.VotePoll(ctx, VotePollInput{PollID: poll.ID, OptionID: "not-an-option", VoterID: "alice"})
	assertValidationError(t, err)
}

func TestPollService_GetPollNilWhenThreadHasNone(t *testing.T) {
	t.Parallel()

	svc, ctx := newPollFixture(t)

	poll, err := svc.GetPoll(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, poll)
}

func optionVotes(poll *models.Poll, optionID string) int {
	for _, opt := range poll.Options {
		if opt.ID == optionID {
			return opt.Votes
		}
	}
	return -1
}
