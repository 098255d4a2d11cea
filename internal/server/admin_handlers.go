package server

import (
	"parlor/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AdminLogin handles POST /api/admin/login
// @Summary Admin login
// @Description Verify the admin password and mint a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body object{password=string} true "Admin credentials"
// @Success 200 {object} object{token=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /api/admin/login [post]
func (s *Server) AdminLogin(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, err := s.moderationService.Login(ctx, req.Password)
	if err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, token, "admin_login", nil)

	return c.JSON(fiber.Map{"token": token})
}

// GetAnnouncement handles GET /api/announcement
func (s *Server) GetAnnouncement(c *fiber.Ctx) error {
	return s.getBulletin(c, models.BulletinAnnouncement)
}

// GetRules handles GET /api/rules
func (s *Server) GetRules(c *fiber.Ctx) error {
	return s.getBulletin(c, models.BulletinRules)
}

func (s *Server) getBulletin(c *fiber.Ctx, key string) error {
	bulletin, err := s.moderationService.GetBulletin(c.Context(), key)
	if err != nil {
		return respondAppError(c, err)
	}
	if bulletin == nil {
		return c.JSON(fiber.Map{"text": ""})
	}
	return c.JSON(bulletin)
}

// SetAnnouncement handles POST /api/admin/announce (admin).
// Empty text clears the announcement.
func (s *Server) SetAnnouncement(c *fiber.Ctx) error {
	return s.setBulletin(c, models.BulletinAnnouncement, EventAnnouncement, "set_announcement")
}

// SetRules handles POST /api/admin/rules (admin).
func (s *Server) SetRules(c *fiber.Ctx) error {
	return s.setBulletin(c, models.BulletinRules, EventRules, "set_rules")
}

func (s *Server) setBulletin(c *fiber.Ctx, key, eventType, auditAction string) error {
	ctx := c.Context()

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	bulletin, err := s.moderationService.SetBulletin(ctx, key, req.Text)
	if err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), auditAction,
		fiber.Map{"text": req.Text})

	if bulletin == nil {
		// Cleared. Broadcast the empty text so clients drop the banner.
		s.publishEvent(eventType, fiber.Map{"text": ""})
		return c.JSON(fiber.Map{"text": ""})
	}

	s.publishEvent(eventType, bulletin)
	return c.JSON(bulletin)
}

// GetBlocklist handles GET /api/admin/blocklist (admin).
func (s *Server) GetBlocklist(c *fiber.Ctx) error {
	terms, err := s.moderationService.GetBlocklist(c.Context())
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"terms": terms})
}

// SetBlocklist handles PUT /api/admin/blocklist (admin).
// Replaces the whole list; the filter picks the change up on the next check.
func (s *Server) SetBlocklist(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Terms []string `json:"terms"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.moderationService.SetBlocklist(ctx, req.Terms); err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), "set_blocklist",
		fiber.Map{"count": len(req.Terms)})

	terms, err := s.moderationService.GetBlocklist(ctx)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(fiber.Map{"terms": terms})
}

// GetAuditLog handles GET /api/admin/audit (admin).
func (s *Server) GetAuditLog(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	entries, err := s.moderationService.ListAudit(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(entries)
}
