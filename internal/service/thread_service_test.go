package service

import (
	"context"
	"strings"
	"testing"

	"parlor/internal/models"
	"parlor/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newThreadFixture(t *testing.T) (*ThreadService, *gorm.DB, context.Context) {
	t.Helper()
	db := setupServiceTestDB(t)
	ledger := NewLedger()
	threadRepo := repository.NewThreadRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	bulletinRepo := repository.NewBulletinRepository(db)
	pollSvc := NewPollService(ledger, repository.NewPollRepository(db), threadRepo)
	filter := NewFilterService(bulletinRepo)
	svc := NewThreadService(ledger, threadRepo, commentRepo, pollSvc, filter)
	return svc, db, context.Background()
}

func TestThreadService_CreateThreadValidation(t *testing.T) {
	t.Parallel()

	svc, _, ctx := newThreadFixture(t)

	_, err := svc.CreateThread(ctx, CreateThreadInput{Body: "no title"})
	assertValidationError(t, err)

	_, err = svc.CreateThread(ctx, CreateThreadInput{Title: strings.Repeat("x", 201)})
	assertValidationError(t, err)

	_, err = svc.CreateThread(ctx, CreateThreadInput{Title: "ok", Body: strings.Repeat("x", 2001)})
	assertValidationError(t, err)

	tags := make([]string, 11)
	for i := range tags {
		tags[i] = "tag"
	}
	_, err = svc.CreateThread(ctx, CreateThreadInput{Title: "ok", Tags: tags})
	assertValidationError(t, err)
}

func TestThreadService_CreateThreadScreensBlocklist(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newThreadFixture(t)
	require.NoError(t, repository.NewBulletinRepository(db).SetBlocklist(ctx, []string{"forbidden"}))

	_, err := svc.CreateThread(ctx, CreateThreadInput{Title: "a Forbidden topic"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeBlocked, appErr.Code)

	// The body is screened too.
	_, err = svc.CreateThread(ctx, CreateThreadInput{Title: "fine", Body: "quite forbidden content"})
	require.Error(t, err)
}

func TestThreadService_CreateThreadWithPoll(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newThreadFixture(t)

	thread, err := svc.CreateThread(ctx, CreateThreadInput{
		Title: "vote here",
		Poll:  &CreatePollInput{Question: "which?", Options: []string{"a", "b"}},
	})
	require.NoError(t, err)

	var poll models.Poll
	require.NoError(t, db.First(&poll, "thread_id = ?", thread.ID).Error)
	assert.Equal(t, "which?", poll.Question)
}

func TestThreadService_GetThreadEnrichment(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newThreadFixture(t)

	thread, err := svc.CreateThread(ctx, CreateThreadInput{Title: "discuss"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Comment{ID: "c1", ThreadID: thread.ID, Body: "low", CreatedAt: 1, Score: 1}).Error)
	require.NoError(t, db.Create(&models.Comment{ID: "c2", ThreadID: thread.ID, Body: "high", CreatedAt: 2, Score: 5}).Error)
	require.NoError(t, db.Create(&models.Comment{ID: "c3", ThreadID: thread.ID, Body: "tied late", CreatedAt: 3, Score: 5}).Error)

	got, err := svc.GetThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CommentCount)
	require.NotNil(t, got.TopComment)
	assert.Equal(t, "c2", got.TopComment.ID, "earliest wins the tie")
}

func TestThreadService_ListThreadsPagination(t *testing.T) {
	t.Parallel()

	svc, _, ctx := newThreadFixture(t)

	for i := 0; i < 25; i++ {
		_, err := svc.CreateThread(ctx, CreateThreadInput{Title: "thread"})
		require.NoError(t, err)
	}

	page, err := svc.ListThreads(ctx, ListThreadsInput{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
}

func TestThreadService_DeleteThreadCascades(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newThreadFixture(t)

	thread, err := svc.CreateThread(ctx, CreateThreadInput{Title: "doomed"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Comment{ID: "c1", ThreadID: thread.ID, Body: "reply", CreatedAt: 1}).Error)
	require.NoError(t, db.Create(&models.Vote{ID: "v1", TargetType: models.TargetComment, TargetID: "c1", Vote: 1, CreatedAt: 1}).Error)

	require.NoError(t, svc.DeleteThread(ctx, thread.ID))

	var count int64
	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Vote{}).Count(&count)
	assert.Zero(t, count)

	err = svc.DeleteThread(ctx, thread.ID)
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
