package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"parlor/internal/models"
	"parlor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newChatFixture(t *testing.T) (*ChatService, *gorm.DB, context.Context) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewChatService(
		repository.NewChatRepository(db),
		NewFilterService(repository.NewBulletinRepository(db)),
	)
	return svc, db, context.Background()
}

func TestChatService_AppendValidation(t *testing.T) {
	t.Parallel()

	svc, _, ctx := newChatFixture(t)

	_, err := svc.AppendMessage(ctx, AppendChatInput{Author: "a"})
	assertValidationError(t, err)

	_, err = svc.AppendMessage(ctx, AppendChatInput{Author: "a", Text: strings.Repeat("x", 501)})
	assertValidationError(t, err)

	msg, err := svc.AppendMessage(ctx, AppendChatInput{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "anon", msg.Author, "missing author defaults to anon")
}

func TestChatService_AppendScreensBlocklist(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newChatFixture(t)
	require.NoError(t, repository.NewBulletinRepository(db).SetBlocklist(ctx, []string{"slur"}))

	_, err := svc.AppendMessage(ctx, AppendChatInput{Author: "a", Text: "that slur again"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeBlocked, appErr.Code)
}

func TestChatService_HistoryWindowIsBounded(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newChatFixture(t)

	for i := 0; i < chatHistorySize+20; i++ {
		msg := models.ChatMessage{ID: fmt.Sprintf("m%d", i), Author: "a", Text: "x", CreatedAt: int64(i)}
		require.NoError(t, db.Create(&msg).Error)
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, chatHistorySize)
	assert.Equal(t, "m20", history[0].ID, "window keeps the newest messages")
}

func TestChatService_PinRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, ctx := newChatFixture(t)

	msg, err := svc.AppendMessage(ctx, AppendChatInput{Author: "a", Text: "pin me"})
	require.NoError(t, err)

	pinned, err := svc.SetPinned(ctx, msg.ID, true)
	require.NoError(t, err)
	assert.True(t, pinned.Pinned)

	unpinned, err := svc.SetPinned(ctx, msg.ID, false)
	require.NoError(t, err)
	assert.False(t, unpinned.Pinned)

	_, err = svc.SetPinned(ctx, "missing", true)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
