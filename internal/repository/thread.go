// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"parlor/internal/cache"
	"parlor/internal/models"

	"gorm.io/gorm"
)

// ThreadRepository defines the interface for thread data operations
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id string) (*models.Thread, error)
	List(ctx context.Context, limit, offset int, sort string) ([]*models.Thread, error)
	Search(ctx context.Context, query, tag string, limit, offset int) ([]*models.Thread, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, thread *models.Thread) error
	DeleteCascade(ctx context.Context, id string) error
	CommentCounts(ctx context.Context, threadIDs []string) (map[string]int, error)
}

// threadRepository implements ThreadRepository
type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	err := r.db.WithContext(ctx).Create(thread).Error
	if err == nil {
		cache.InvalidateThreadLists(ctx)
	}
	return err
}

func (r *threadRepository) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	err := cache.Aside(ctx, cache.ThreadKey(id), &thread, cache.ThreadTTL, func() error {
		return r.db.WithContext(ctx).First(&thread, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) List(ctx context.Context, limit, offset int, sort string) ([]*models.Thread, error) {
	var threads []*models.Thread
	err := r.applySort(r.db.WithContext(ctx), sort).
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
func (r *threadRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("score DESC, created_at DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *threadRepository) Search(ctx context.Context, query, tag string, limit, offset int) ([]*models.Thread, error) {
	var threads []*models.Thread
	db := r.db.WithContext(ctx)
	if query != "" {
		like := "%" + query + "%"
		db = db.Where("id LIKE ? OR title LIKE ? OR body LIKE ?", like, like, like)
	}
	if tag != "" {
		// Tags are stored as a JSON text column; match the quoted element.
		db = db.Where("tags LIKE ?", "%\""+tag+"\"%")
	}
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *threadRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Thread{}).Count(&count).Error
	return count, err
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Save(thread).Error; err != nil {
		return err
	}
	cache.InvalidateThread(ctx, thread.ID)
	return nil
}

// DeleteCascade removes the thread together with its comments, every vote and
// reaction referencing the thread or one of its comments, its polls with their
// ballots, and every report against the thread or its comments, all in one
// transaction.
func (r *threadRepository) DeleteCascade(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []string
		if err := tx.Model(&models.Comment{}).
			Where("thread_id = ?", id).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetThread, id).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetThread, id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_type = ? AND target_id = ?", models.TargetThread, id).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Reaction{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_type = ? AND target_id IN ?", models.TargetComment, commentIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
		}

		var pollIDs []string
		if err := tx.Model(&models.Poll{}).
			Where("thread_id = ?", id).
			Pluck("id", &pollIDs).Error; err != nil {
			return err
		}
		if len(pollIDs) > 0 {
			if err := tx.Where("poll_id IN ?", pollIDs).Delete(&models.PollVote{}).Error; err != nil {
				return err
			}
			if err := tx.Where("poll_id IN ?", pollIDs).Delete(&models.PollOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", pollIDs).Delete(&models.Poll{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("thread_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Thread{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateThread(ctx, id)
	return nil
}

func (r *threadRepository) CommentCounts(ctx context.Context, threadIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(threadIDs))
	if len(threadIDs) == 0 {
		return counts, nil
	}

	type row struct {
		ThreadID string
		N        int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("thread_id, COUNT(*) as n").
		Where("thread_id IN ?", threadIDs).
		Group("thread_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rr := range rows {
		counts[rr.ThreadID] = rr.N
	}
	return counts, nil
}
