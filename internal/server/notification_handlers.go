package server

import (
	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications?unread=true
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	unreadOnly := c.QueryBool("unread", false)

	notifs, total, err := s.notificationService.List(
		c.Context(), currentUserID(c), unreadOnly, page.Page, page.Limit)
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKPage(notifs, models.NewPagination(page.Page, page.Limit, total)))
}

// GetUnreadNotificationCount handles GET /api/notifications/unread
func (s *Server) GetUnreadNotificationCount(c *fiber.Ctx) error {
	count, err := s.notificationService.CountUnread(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(fiber.Map{"count": count}))
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.notificationService.MarkRead(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Notification marked as read", nil))
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c)); err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKMessage("All notifications marked as read", nil))
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.notificationService.Delete(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Notification deleted", nil))
}
