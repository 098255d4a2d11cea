package service

import (
	"context"
	"errors"
	"strings"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

const maxCommentBodyLen = 1000

// CreateCommentInput is the payload for replying on a thread.
type CreateCommentInput struct {
	ThreadID string
	ParentID *string
	Body     string
}

// CommentService provides comment creation and listing with blocklist
// screening on every submission.
type CommentService struct {
	commentRepo repository.CommentRepository
	threadRepo  repository.ThreadRepository
	filter      *FilterService
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	threadRepo repository.ThreadRepository,
	filter *FilterService,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		threadRepo:  threadRepo,
		filter:      filter,
	}
}

// CreateComment validates, screens and stores a reply.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("body is required")
	}
	if len(body) > maxCommentBodyLen {
		return nil, models.NewValidationError("body too long (max 1000 characters)")
	}

	if _, err := s.threadRepo.GetByID(ctx, in.ThreadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.TargetThread, in.ThreadID)
		}
		return nil, models.NewStorageError("load thread", err)
	}

	if in.ParentID != nil && *in.ParentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError(models.TargetComment, *in.ParentID)
			}
			return nil, models.NewStorageError("load parent comment", err)
		}
		if parent.ThreadID != in.ThreadID {
			return nil, models.NewValidationError("parent comment belongs to a different thread")
		}
	}

	if err := s.filter.Check(ctx, body, "comment"); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:        newID(),
		ThreadID:  in.ThreadID,
		ParentID:  in.ParentID,
		Body:      body,
		CreatedAt: nowUnix(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewStorageError("create comment", err)
	}
	return comment, nil
}

// ListComments returns the thread's comments in chronological order.
func (s *CommentService) ListComments(ctx context.Context, threadID string) ([]*models.Comment, error) {
	if _, err := s.threadRepo.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError(models.TargetThread, threadID)
		}
		return nil, models.NewStorageError("load thread", err)
	}
	comments, err := s.commentRepo.ListByThread(ctx, threadID)
	if err != nil {
		return nil, models.NewStorageError("list comments", err)
	}
	return comments, nil
}

// DeleteComment removes the comment together with its votes, reactions and
// reports.
func (s *CommentService) DeleteComment(ctx context.Context, id string) error {
	if _, err := s.commentRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(models.TargetComment, id)
		}
		return models.NewStorageError("load comment", err)
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return models.NewStorageError("delete comment", err)
	}
	return nil
}
