package server

import (
	"parlor/internal/models"
	"parlor/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetChatHistory handles GET /api/chat
// @Summary Chat history
// @Description Returns the current chat window (last 200 messages, oldest first)
// @Tags chat
// @Produce json
// @Success 200 {array} models.ChatMessage
// @Router /api/chat [get]
func (s *Server) GetChatHistory(c *fiber.Ctx) error {
	ctx := c.Context()

	history, err := s.chatService.History(ctx)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(history)
}

// SendChatMessage handles POST /api/chat. The WebSocket path is the primary
// one; this endpoint exists for clients that cannot hold a socket open.
func (s *Server) SendChatMessage(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Author   string `json:"author,omitempty"`
		Text     string `json:"text"`
		ImageURL string `json:"image,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.chatService.AppendMessage(ctx, service.AppendChatInput{
		Author:   req.Author,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishEvent(EventMessage, message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// PinChatMessage handles POST /api/admin/chat/:id/pin (admin).
// Pinned messages are exempt from retention sweeps.
func (s *Server) PinChatMessage(c *fiber.Ctx) error {
	return s.setChatPin(c, true, "pin_chat_message")
}

// UnpinChatMessage handles POST /api/admin/chat/:id/unpin (admin).
func (s *Server) UnpinChatMessage(c *fiber.Ctx) error {
	return s.setChatPin(c, false, "unpin_chat_message")
}

func (s *Server) setChatPin(c *fiber.Ctx, pinned bool, auditAction string) error {
	ctx := c.Context()
	id, err := s.parseStringID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.chatService.SetPinned(ctx, id, pinned)
	if err != nil {
		return respondAppError(c, err)
	}

	s.moderationService.RecordAudit(ctx, s.adminToken(c), auditAction,
		fiber.Map{"message_id": id})
	s.publishEvent(EventChatPin, message)

	return c.JSON(message)
}
