package service

import (
	"context"
	"errors"
	"strings"

	"parlor/internal/models"
	"parlor/internal/repository"

	"gorm.io/gorm"
)

// CreateReportInput is the payload for filing an abuse report.
type CreateReportInput struct {
	TargetType string
	TargetID   string
	Reason     string
}

// ResolveOutcome describes a resolution: the kept (now resolved) report and
// the ids of the same-target duplicates deleted with it.
type ResolveOutcome struct {
	Report       *models.Report `json:"report"`
	Collapsed    int64          `json:"collapsed"`
	CollapsedIDs []string       `json:"collapsed_ids,omitempty"`
}

// ReportService implements the abuse report engine. Resolution is by target:
// resolving one report deletes every other report against the same target,
// so at most one record per target survives.
type ReportService struct {
	ledger     *Ledger
	reportRepo repository.ReportRepository
}

// NewReportService returns a new ReportService.
func NewReportService(ledger *Ledger, reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{ledger: ledger, reportRepo: reportRepo}
}

// CreateReport files a new open report.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if in.TargetType != models.TargetThread && in.TargetType != models.TargetComment {
		return nil, models.NewValidationError("target_type must be thread or comment")
	}
	if in.TargetID == "" {
		return nil, models.NewValidationError("target_id is required")
	}

	report := &models.Report{
		ID:         newID(),
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Reason:     strings.TrimSpace(in.Reason),
		CreatedAt:  nowUnix(),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, models.NewStorageError("create report", err)
	}
	return report, nil
}

// ListReports returns reports, open only by default.
func (s *ReportService) ListReports(ctx context.Context, includeResolved bool) ([]*models.Report, error) {
	reports, err := s.reportRepo.List(ctx, includeResolved)
	if err != nil {
		return nil, models.NewStorageError("list reports", err)
	}
	return reports, nil
}

// ResolveReport marks the report resolved and deletes every other report
// against the same target, resolved or not.
func (s *ReportService) ResolveReport(ctx context.Context, id string) (*ResolveOutcome, error) {
	s.ledger.Lock()
	defer s.ledger.Unlock()

	report, err := s.reportRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("report", id)
	}
	if err != nil {
		return nil, models.NewStorageError("load report", err)
	}

	resolvedAt := nowUnix()
	report.Resolved = true
	report.ResolvedAt = &resolvedAt
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, models.NewStorageError("resolve report", err)
	}

	collapsedIDs, err := s.reportRepo.CollapseTarget(ctx, report.TargetType, report.TargetID, report.ID)
	if err != nil {
		return nil, models.NewStorageError("collapse reports", err)
	}

	return &ResolveOutcome{
		Report:       report,
		Collapsed:    int64(len(collapsedIDs)),
		CollapsedIDs: collapsedIDs,
	}, nil
}

// DeleteReport removes a single report without touching its duplicates.
func (s *ReportService) DeleteReport(ctx context.Context, id string) error {
	s.ledger.Lock()
	defer s.ledger.Unlock()

	if _, err := s.reportRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("report", id)
		}
		return models.NewStorageError("load report", err)
	}
	if err := s.reportRepo.Delete(ctx, id); err != nil {
		return models.NewStorageError("delete report", err)
	}
	return nil
}
