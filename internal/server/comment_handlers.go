package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/threads/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	threadID, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, threadID)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/threads/:id/comments
// @Summary Post a comment
// @Description Add an anonymous comment to a thread, optionally as a reply to another comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Thread ID"
// @Param request body object{body=string,parent_id=string} true "Comment content"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Router /api/threads/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	threadID, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body     string `json:"body"`
		ParentID string `json:"parent_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	in := service.CreateCommentInput{
		ThreadID: threadID,
		Body:     req.Body,
	}
	if req.ParentID != "" {
		in.ParentID = &req.ParentID
	}

	comment, err := s.commentService.CreateComment(ctx, in)
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventComment, comment)

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id (admin).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, id); err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), "delete_comment",
		fiber.Map{"comment_id": id})

	return c.JSON(fiber.Map{"deleted": true})
}
