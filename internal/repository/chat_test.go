package repository

import (
	"context"
	"fmt"
	"testing"

	"parlor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_HistoryIsChronological(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		msg := models.ChatMessage{
			ID:        fmt.Sprintf("m%d", i),
			Author:    "anon",
			Text:      fmt.Sprintf("msg %d", i),
			CreatedAt: int64(100 + i),
		}
		require.NoError(t, repo.Append(ctx, &msg))
	}

	history, err := repo.History(ctx, 3)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "m2", history[0].ID, "oldest of the retained window first")
	assert.Equal(t, "m4", history[2].ID)
}

func TestChatRepository_PruneExpiredKeepsPinned(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &models.ChatMessage{ID: "old", Author: "a", Text: "old", CreatedAt: 100}))
	require.NoError(t, repo.Append(ctx, &models.ChatMessage{ID: "pinned", Author: "a", Text: "keep", CreatedAt: 100, Pinned: true}))
	require.NoError(t, repo.Append(ctx, &models.ChatMessage{ID: "fresh", Author: "a", Text: "new", CreatedAt: 500}))

	removed, err := repo.PruneExpired(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = repo.GetByID(ctx, "pinned")
	assert.NoError(t, err, "pinned message survives the sweep")
}

func TestChatRepository_SetPinned(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewChatRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &models.ChatMessage{ID: "m1", Author: "a", Text: "hi", CreatedAt: 1}))

	require.NoError(t, repo.SetPinned(ctx, "m1", true))
	msg, err := repo.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, msg.Pinned)

	err = repo.SetPinned(ctx, "missing", true)
	assert.Error(t, err)
}
