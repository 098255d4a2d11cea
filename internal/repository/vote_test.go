package repository

import (
	"context"
	"testing"

	"parlor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteRepository_TallyRecomputesFromRawVotes(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	votes := []models.Vote{
		{ID: "v1", TargetType: models.TargetThread, TargetID: "t1", Vote: models.VoteUp, VoterID: "alice", CreatedAt: 1},
		{ID: "v2", TargetType: models.TargetThread, TargetID: "t1", Vote: models.VoteUp, VoterID: "", CreatedAt: 2},
		{ID: "v3", TargetType: models.TargetThread, TargetID: "t1", Vote: models.VoteDown, VoterID: "bob", CreatedAt: 3},
		{ID: "v4", TargetType: models.TargetComment, TargetID: "t1", Vote: models.VoteUp, VoterID: "carol", CreatedAt: 4},
	}
	for i := range votes {
		require.NoError(t, repo.Create(ctx, &votes[i]))
	}

	tally, err := repo.Tally(ctx, models.TargetThread, "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Upvotes)
	assert.Equal(t, 1, tally.Downvotes)
	assert.Equal(t, 1, tally.Score())
}

func TestVoteRepository_FindByVoter(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewVoteRepository(db)
	ctx := context.Background()

	vote := models.Vote{ID: "v1", TargetType: models.TargetComment, TargetID: "c1", Vote: models.VoteDown, VoterID: "alice", CreatedAt: 1}
	require.NoError(t, repo.Create(ctx, &vote))

	found, err := repo.FindByVoter(ctx, models.TargetComment, "c1", "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.VoteDown, found.Vote)

	missing, err := repo.FindByVoter(ctx, models.TargetComment, "c1", "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// Anonymous ballots are never matched even when rows with an empty
	// voter id exist.
	anon := models.Vote{ID: "v2", TargetType: models.TargetComment, TargetID: "c1", Vote: models.VoteUp, VoterID: "", CreatedAt: 2}
	require.NoError(t, repo.Create(ctx, &anon))

	none, err := repo.FindByVoter(ctx, models.TargetComment, "c1", "")
	require.NoError(t, err)
	assert.Nil(t, none)
}
