package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreads handles GET /api/threads
// @Summary List threads
// @Description Returns a page of the thread index, newest first, with comment counts and top-comment previews
// @Tags threads
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param per_page query int false "Page size (max 100)"
// @Param sort query string false "Sort order: new or top"
// @Success 200 {object} models.ThreadPage
// @Router /api/threads [get]
func (s *Server) GetThreads(c *fiber.Ctx) error {
	ctx := c.Context()

	page, err := s.threadService.ListThreads(ctx, service.ListThreadsInput{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 20),
		Sort:    c.Query("sort"),
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(page)
}

// SearchThreads handles GET /api/threads/search?q=...&tag=...
func (s *Server) SearchThreads(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	tag := c.Query("tag")
	if q == "" && tag == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query or tag is required"))
	}

	page := parsePagination(c, 20)
	threads, err := s.threadService.SearchThreads(ctx, q, tag, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(threads)
}

// CreateThread handles POST /api/threads
// @Summary Create a thread
// @Description Post a new anonymous thread, optionally with tags and an attached poll
// @Tags threads
// @Accept json
// @Produce json
// @Param request body object{title=string,body=string,tags=[]string} true "Thread content"
// @Success 201 {object} models.Thread
// @Failure 400 {object} models.ErrorResponse
// @Router /api/threads [post]
func (s *Server) CreateThread(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Title    string   `json:"title"`
		Body     string   `json:"body"`
		ImageURL string   `json:"image,omitempty"`
		ThumbURL string   `json:"thumb,omitempty"`
		Tags     []string `json:"tags,omitempty"`
		Poll     *struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
			EndsAt   *int64   `json:"ends_at,omitempty"`
		} `json:"poll,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateThreadInput{
		Title:    req.Title,
		Body:     req.Body,
		ImageURL: req.ImageURL,
		ThumbURL: req.ThumbURL,
		Tags:     req.Tags,
	}
	if req.Poll != nil {
		in.Poll = &service.CreatePollInput{
			Question: req.Poll.Question,
			Options:  req.Poll.Options,
			EndsAt:   req.Poll.EndsAt,
		}
	}

	thread, err := s.threadService.CreateThread(ctx, in)
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventThread, thread)

	return c.Status(fiber.StatusCreated).JSON(thread)
}

// GetThread handles GET /api/threads/:id
func (s *Server) GetThread(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.GetThread(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(thread)
}

// DeleteThread handles DELETE /api/threads/:id (admin).
// Removes the thread and everything referencing it: comments, votes,
// reactions, reports and the poll with its ballots.
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.threadService.DeleteThread(ctx, id); err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), "delete_thread",
		fiber.Map{"thread_id": id})
	s.publishEvent(EventDeleteThread, fiber.Map{"id": id})

	return c.JSON(fiber.Map{"deleted": true})
}
