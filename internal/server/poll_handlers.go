package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreadPoll handles GET /api/threads/:id/poll
func (s *Server) GetThreadPoll(c *fiber.Ctx) error {
	ctx := c.Context()
	threadID, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	poll, err := s.pollService.GetPoll(ctx, threadID)
	if err != nil {
		return respondAppError(c, err)
	}
	if poll == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Poll for thread", threadID))
	}

	return c.JSON(poll)
}

// CreatePoll handles POST /api/threads/:id/poll
// @Summary Attach a poll
// @Description Create a poll (2-6 options) on an existing thread
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param request body object{question=string,options=[]string,ends_at=int} true "Poll definition"
// @Success 201 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Router /api/threads/{id}/poll [post]
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	ctx := c.Context()
	threadID, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		EndsAt   *int64   `json:"ends_at,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(ctx, service.CreatePollInput{
		ThreadID: threadID,
		Question: req.Question,
		Options:  req.Options,
		EndsAt:   req.EndsAt,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventPollCreated, poll)

	return c.Status(fiber.StatusCreated).JSON(poll)
}

// VotePoll handles POST /api/polls/:id/vote
// @Summary Vote on a poll
// @Description Cast one ballot per voter; revoting moves the ballot to the new option
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param request body object{option_id=string,voter_id=string} true "Ballot"
// @Success 200 {object} models.Poll
// @Failure 400 {object} models.ErrorResponse
// @Router /api/polls/{id}/vote [post]
func (s *Server) VotePoll(c *fiber.Ctx) error {
	ctx := c.Context()
	pollID, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		OptionID string `json:"option_id"`
		VoterID  string `json:"voter_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.VotePoll(ctx, service.VotePollInput{
		PollID:   pollID,
		OptionID: req.OptionID,
		VoterID:  voterID(c, req.VoterID),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventPollVote, poll)

	return c.JSON(poll)
}
