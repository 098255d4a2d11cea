package service

import (
	"context"
	"errors"
	"strings"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

const (
	maxThreadTitleLen = 200
	maxThreadBodyLen  = 2000
	maxThreadTags     = 10
)

// CreateThreadInput is the payload for posting a new thread.
type CreateThreadInput struct {
	Title    string
	Body     string
	ImageURL string
	ThumbURL string
	Tags     []string
	Poll     *CreatePollInput
}

// ListThreadsInput selects a page of the thread index.
type ListThreadsInput struct {
	Page    int
	PerPage int
	Sort    string
}

// ThreadService provides thread CRUD with blocklist screening on every
// submission and full cascade on delete.
type ThreadService struct {
	ledger      *Ledger
	threadRepo  repository.ThreadRepository
	commentRepo repository.CommentRepository
	pollSvc     *PollService
	filter      *FilterService
}

// NewThreadService returns a new ThreadService.
func NewThreadService(
	ledger *Ledger,
	threadRepo repository.ThreadRepository,
	commentRepo repository.CommentRepository,
	pollSvc *PollService,
	filter *FilterService,
) *ThreadService {
	return &ThreadService{
		ledger:      ledger,
		threadRepo:  threadRepo,
		commentRepo: commentRepo,
		pollSvc:     pollSvc,
		filter:      filter,
	}
}

// CreateThread validates, screens and stores a new thread, with its poll when
// one is attached.
func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if len(title) > maxThreadTitleLen {
		return nil, models.NewValidationError("title too long (max 200 characters)")
	}
	if len(in.Body) > maxThreadBodyLen {
		return nil, models.NewValidationError("body too long (max 2000 characters)")
	}
	if len(in.Tags) > maxThreadTags {
		return nil, models.NewValidationError("too many tags (max 10)")
	}

	if err := s.filter.Check(ctx, title+"\n"+in.Body, "thread"); err != nil {
		return nil, err
	}

	thread := &models.Thread{
		ID:        newID(),
		Title:     title,
		Body:      in.Body,
		ImageURL:  in.ImageURL,
		ThumbURL:  in.ThumbURL,
		Tags:      models.StringList(in.Tags),
		CreatedAt: nowUnix(),
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, models.NewStorageError("create thread", err)
	}

	if in.Poll != nil {
		pollIn := *in.Poll
		pollIn.ThreadID = thread.ID
		if _, err := s.pollSvc.CreatePoll(ctx, pollIn); err != nil {
			return nil, err
		}
	}

	return thread, nil
}

// GetThread returns the thread enriched with its comment count and
// highest-scored comment preview.
func (s *ThreadService) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError(models.TargetThread, id)
	}
	if err != nil {
		return nil, models.NewStorageError("load thread", err)
	}
	if err := s.enrich(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// ListThreads returns one page of the thread index, newest first unless
// sort=top is requested.
func (s *ThreadService) ListThreads(ctx context.Context, in ListThreadsInput) (*models.ThreadPage, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	threads, err := s.threadRepo.List(ctx, perPage, (page-1)*perPage, in.Sort)
	if err != nil {
		return nil, models.NewStorageError("list threads", err)
	}
	total, err := s.threadRepo.Count(ctx)
	if err != nil {
		return nil, models.NewStorageError("count threads", err)
	}
	if err := s.enrichAll(ctx, threads); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &models.ThreadPage{
		Items:      threads,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// SearchThreads matches the query against titles and bodies, optionally
// narrowed to one tag.
func (s *ThreadService) SearchThreads(ctx context.Context, query, tag string, limit, offset int) ([]*models.Thread, error) {
	if query == "" && tag == "" {
		return nil, models.NewValidationError("search query or tag is required")
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	threads, err := s.threadRepo.Search(ctx, query, tag, limit, offset)
	if err != nil {
		return nil, models.NewStorageError("search threads", err)
	}
	if err := s.enrichAll(ctx, threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// DeleteThread removes the thread and everything referencing it: comments,
// votes and reactions on the thread or its comments, its poll with every
// ballot, and all reports against any of them.
func (s *ThreadService) DeleteThread(ctx context.Context, id string) error {
	s.ledger.Lock()
	defer s.ledger.Unlock()

	if _, err := s.threadRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError(models.TargetThread, id)
		}
		return models.NewStorageError("load thread", err)
	}
	if err := s.threadRepo.DeleteCascade(ctx, id); err != nil {
		return models.NewStorageError("delete thread", err)
	}
	return nil
}

func (s *ThreadService) enrich(ctx context.Context, thread *models.Thread) error {
	counts, err := s.threadRepo.CommentCounts(ctx, []string{thread.ID})
	if err != nil {
		return models.NewStorageError("count comments", err)
	}
	thread.CommentCount = counts[thread.ID]

	top, err := s.commentRepo.TopByThread(ctx, thread.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewStorageError("load top comment", err)
	}
	thread.TopComment = top
	return nil
}

func (s *ThreadService) enrichAll(ctx context.Context, threads []*models.Thread) error {
	if len(threads) == 0 {
		return nil
	}
	ids := make([]string, 0, len(threads))
	for _, t := range threads {
		ids = append(ids, t.ID)
	}
	counts, err := s.threadRepo.CommentCounts(ctx, ids)
	if err != nil {
		return models.NewStorageError("count comments", err)
	}
	for _, t := range threads {
		t.CommentCount = counts[t.ID]
	}
	return nil
}
