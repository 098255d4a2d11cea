package repository

import (
	"context"
	"errors"

	"parlor/internal/cache"
	"parlor/internal/models"

	"gorm.io/gorm"
)

// BulletinRepository defines the interface for bulletin and blocklist
// data operations
type BulletinRepository interface {
	GetBulletin(ctx context.Context, key string) (*models.Bulletin, error)
	SetBulletin(ctx context.Context, key, text string, createdAt int64) error
	GetBlocklist(ctx context.Context) ([]string, error)
	SetBlocklist(ctx context.Context, terms []string) error
}

type bulletinRepository struct {
	db *gorm.DB
}

// NewBulletinRepository creates a new bulletin repository
func NewBulletinRepository(db *gorm.DB) BulletinRepository {
	return &bulletinRepository{db: db}
}

// GetBulletin returns the bulletin for the key, or (nil, nil) when unset.
func (r *bulletinRepository) GetBulletin(ctx context.Context, key string) (*models.Bulletin, error) {
	var bulletin models.Bulletin
	err := cache.Aside(ctx, cache.BulletinKey(key), &bulletin, cache.BulletinTTL, func() error {
		return r.db.WithContext(ctx).First(&bulletin, "key = ?", key).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bulletin, nil
}

// SetBulletin replaces the bulletin text; empty text deletes the row.
func (r *bulletinRepository) SetBulletin(ctx context.Context, key, text string, createdAt int64) error {
	var err error
	if text == "" {
		err = r.db.WithContext(ctx).Delete(&models.Bulletin{}, "key = ?", key).Error
	} else {
		bulletin := models.Bulletin{Key: key, Text: text, CreatedAt: createdAt}
		err = r.db.WithContext(ctx).Save(&bulletin).Error
	}
	if err == nil {
		cache.InvalidateBulletin(ctx, key)
	}
	return err
}

func (r *bulletinRepository) GetBlocklist(ctx context.Context) ([]string, error) {
	var rows []models.BlocklistTerm
	err := r.db.WithContext(ctx).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	terms := make([]string, 0, len(rows))
	for _, row := range rows {
		terms = append(terms, row.Term)
	}
	return terms, nil
}

// SetBlocklist replaces the whole list; updates are not merged.
func (r *bulletinRepository) SetBlocklist(ctx context.Context, terms []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.BlocklistTerm{}).Error; err != nil {
			return err
		}
		for i, term := range terms {
			row := models.BlocklistTerm{Term: term, Position: i}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
