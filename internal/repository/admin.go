package repository

import (
	"context"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// AdminRepository defines the interface for admin token and audit log
// data operations
type AdminRepository interface {
	SaveToken(ctx context.Context, token *models.AdminToken) error
	HasToken(ctx context.Context, token string) (bool, error)
	AppendAudit(ctx context.Context, entry *models.AuditEntry) error
	ListAudit(ctx context.Context, limit, offset int) ([]*models.AuditEntry, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) SaveToken(ctx context.Context, token *models.AdminToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *adminRepository) HasToken(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdminToken{}).
		Where("token = ?", token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *adminRepository) AppendAudit(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *adminRepository) ListAudit(ctx context.Context, limit, offset int) ([]*models.AuditEntry, error) {
	var entries []*models.AuditEntry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
