package repository

import (
	"context"

	"parlor/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, includeResolved bool) ([]*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
	Delete(ctx context.Context, id string) error
	CollapseTarget(ctx context.Context, targetType, targetID, keepID string) ([]string, error)
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, includeResolved bool) ([]*models.Report, error) {
	var reports []*models.Report
	db := r.db.WithContext(ctx)
	if !includeResolved {
		db = db.Where("resolved = ?", false)
	}
	err := db.Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Report{}, "id = ?", id).Error
}

// CollapseTarget deletes every report against the target except keepID,
// resolved or not, and returns the ids it removed. The kept report is the
// only record that survives for the target.
func (r *reportRepository) CollapseTarget(ctx context.Context, targetType, targetID, keepID string) ([]string, error) {
	db := r.db.WithContext(ctx)

	var ids []string
	err := db.Model(&models.Report{}).
		Where("target_type = ? AND target_id = ? AND id <> ?", targetType, targetID, keepID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	if err := db.Delete(&models.Report{}, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
