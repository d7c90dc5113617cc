package server

import (
	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendMessage handles POST /api/messages
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		ReceiverID uint   `json:"receiver_id"`
		Content    string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ReceiverID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("receiver_id is required"))
	}

	message, err := s.messageService.SendMessage(c.Context(), service.SendMessageInput{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OK(message))
}

// GetConversations handles GET /api/messages/conversations
func (s *Server) GetConversations(c *fiber.Ctx) error {
	summaries, err := s.messageService.ListConversations(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(summaries))
}

// GetThread handles GET /api/messages/:userId. Reading a thread marks the
// counterpart's messages as read.
func (s *Server) GetThread(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	messages, total, serr := s.messageService.GetThread(
		c.Context(), currentUserID(c), otherID, page.Page, page.Limit)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKPage(messages, models.NewPagination(page.Page, page.Limit, total)))
}

// MarkMessageRead handles PUT /api/messages/:id/read. Only the recipient
// may mark a message read.
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.messageService.MarkMessageRead(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Message marked as read", nil))
}

// DeleteMessage handles DELETE /api/messages/:id. Only the sender may
// delete a message.
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.messageService.DeleteMessage(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Message deleted", nil))
}

// GetUnreadMessageCount handles GET /api/messages/unread
func (s *Server) GetUnreadMessageCount(c *fiber.Ctx) error {
	count, err := s.messageService.CountUnread(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(fiber.Map{"count": count}))
}
