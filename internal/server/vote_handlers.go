package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CastVote handles POST /api/vote
// @Summary Cast a vote
// @Description Toggle one up/down ballot on a thread or comment; repeating the same ballot removes it, the opposite ballot flips it
// @Tags votes
// @Accept json
// @Produce json
// @Param request body object{target_type=string,target_id=string,dir=int,voter_id=string} true "Ballot"
// @Success 200 {object} service.VoteOutcome
// @Failure 400 {object} models.ErrorResponse
// @Router /api/vote [post]
func (s *Server) CastVote(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Direction  int    `json:"dir"`
		VoterID    string `json:"voter_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	outcome, err := s.voteService.CastVote(ctx, service.CastVoteInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Direction:  req.Direction,
		VoterID:    voterID(c, req.VoterID),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventVote, outcome)

	return c.JSON(outcome)
}
