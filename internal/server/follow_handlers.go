package server

import (
	"projecthub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/users/:id/follow
func (s *Server) Follow(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.userService.Follow(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OKMessage("Now following", nil))
}

// Unfollow handles DELETE /api/users/:id/follow
func (s *Server) Unfollow(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.userService.Unfollow(c.Context(), currentUserID(c), id); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Unfollowed", nil))
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	users, total, serr := s.userService.Followers(c.Context(), id, page.Page, page.Limit)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKPage(users, models.NewPagination(page.Page, page.Limit, total)))
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	users, total, serr := s.userService.Following(c.Context(), id, page.Page, page.Limit)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKPage(users, models.NewPagination(page.Page, page.Limit, total)))
}
