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

func newCommentFixture(t *testing.T) (*CommentService, *gorm.DB, context.Context) {
	t.Helper()
	db := setupServiceTestDB(t)
	svc := NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewThreadRepository(db),
		NewFilterService(repository.NewBulletinRepository(db)),
	)
	ctx := context.Background()
	require.NoError(t, db.Create(&models.Thread{ID: "t1", Title: "hello", CreatedAt: 1}).Error)
	return svc, db, ctx
}

func TestCommentService_CreateCommentValidation(t *testing.T) {
	t.Parallel()

	svc, _, ctx := newCommentFixture(t)

	_, err := svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t1"})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t1", Body: strings.Repeat("x", 1001)})
	assertValidationError(t, err)

	_, err = svc.CreateComment(ctx, CreateCommentInput{ThreadID: "missing", Body: "hi"})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentService_NestedReplies(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newCommentFixture(t)

	parent, err := svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t1", Body: "root"})
	require.NoError(t, err)

	child, err := svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t1", ParentID: &parent.ID, Body: "reply"})
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// A parent from another thread is rejected.
	require.NoError(t, db.Create(&models.Thread{ID: "t2", Title: "other", CreatedAt: 1}).Error)
	_, err = svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t2", ParentID: &parent.ID, Body: "cross"})
	assertValidationError(t, err)
}

func TestCommentService_DeleteRemovesDependents(t *testing.T) {
	t.Parallel()

	svc, db, ctx := newCommentFixture(t)

	comment, err := svc.CreateComment(ctx, CreateCommentInput{ThreadID: "t1", Body: "doomed"})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Vote{ID: "v1", TargetType: models.TargetComment, TargetID: comment.ID, Vote: 1, CreatedAt: 1}).Error)
	require.NoError(t, db.Create(&models.Report{ID: "r1", TargetType: models.TargetComment, TargetID: comment.ID, CreatedAt: 1}).Error)

	require.NoError(t, svc.DeleteComment(ctx, comment.ID))

	var count int64
	db.Model(&models.Vote{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.Report{}).Count(&count)
	assert.Zero(t, count)
}
