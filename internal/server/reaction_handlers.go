package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleReaction handles POST /api/react
// @Summary Toggle a reaction
// @Description Add or remove one emoji reaction on a thread or comment and return the recomputed summary
// @Tags reactions
// @Accept json
// @Produce json
// @Param request body object{target_type=string,target_id=string,emoji=string,voter_id=string} true "Reaction"
// @Success 200 {object} service.ReactionOutcome
// @Failure 400 {object} models.ErrorResponse
// @Router /api/react [post]
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Emoji      string `json:"emoji"`
		VoterID    string `json:"voter_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	outcome, err := s.reactionService.ToggleReaction(ctx, service.ToggleReactionInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Emoji:      req.Emoji,
		VoterID:    voterID(c, req.VoterID),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventReaction, outcome)

	return c.JSON(outcome)
}

// GetReactions handles GET /api/reactions?target_type=...&target_id=...
func (s *Server) GetReactions(c *fiber.Ctx) error {
	ctx := c.Context()
	targetType := c.Query("target_type")
	targetID := c.Query("target_id")
	if targetType == "" || targetID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("target_type and target_id are required"))
	}

	summary, err := s.reactionService.Summary(ctx, targetType, targetID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(summary)
}
