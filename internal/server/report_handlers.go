package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/report
// @Summary File a report
// @Description Flag a thread or comment for moderator attention
// @Tags reports
// @Accept json
// @Produce json
// @Param request body object{target_type=string,target_id=string,reason=string} true "Report"
// @Success 201 {object} models.Report
// @Failure 400 {object} models.ErrorResponse
// @Router /api/report [post]
func (s *Server) CreateReport(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Reason     string `json:"reason,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.CreateReport(ctx, service.CreateReportInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventReport, report)

	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports (admin).
func (s *Server) GetReports(c *fiber.Ctx) error {
	ctx := c.Context()
	includeResolved := c.QueryBool("include_resolved", false)

	reports, err := s.reportService.ListReports(ctx, includeResolved)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(reports)
}

// ResolveReport handles POST /api/admin/reports/:id/resolve (admin).
// Resolving one report deletes every other report against the same target,
// so the queue keeps a single record per actioned target.
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	outcome, err := s.reportService.ResolveReport(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), "resolve_report", fiber.Map{
		"report_id":   id,
		"target_type": outcome.Report.TargetType,
		"target_id":   outcome.Report.TargetID,
		"collapsed":   outcome.Collapsed,
	})
	s.publishEvent(EventReportResolved, outcome.Report)
	for _, collapsedID := range outcome.CollapsedIDs {
		s.publishEvent(EventReportDeleted, fiber.Map{"id": collapsedID})
	}

	return c.JSON(outcome)
}

// DeleteReport handles DELETE /api/admin/reports/:id (admin).
func (s *Server) DeleteReport(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reportService.DeleteReport(ctx, id); err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), "delete_report",
		fiber.Map{"report_id": id})
	s.publishEvent(EventReportDeleted, fiber.Map{"id": id})

	return c.JSON(fiber.Map{"deleted": true})
}
