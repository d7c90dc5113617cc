package server

import (
	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(user))
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Position     string `json:"position"`
		Organization string `json:"organization"`
		GithubURL    string `json:"github_url"`
		LinkedinURL  string `json:"linkedin_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:       currentUserID(c),
		Name:         req.Name,
		Phone:        req.Phone,
		Position:     req.Position,
		Organization: req.Organization,
		GithubURL:    req.GithubURL,
		LinkedinURL:  req.LinkedinURL,
	})
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKMessage("Profile updated", user))
}

// DeleteMyAccount handles DELETE /api/users/me. Removes the account and
// everything it owns.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKMessage("Account deleted", nil))
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, serr := s.userService.GetByID(c.Context(), id)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OK(user))
}

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	user, err := s.userService.GetProfile(c.Context(), username)
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(user))
}

// GetOrgMembers handles GET /api/users/organization?q=...
func (s *Server) GetOrgMembers(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	users, total, err := s.userService.OrgMembers(
		c.Context(), currentUserID(c), c.Query("q"), page.Page, page.Limit)
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKPage(users, models.NewPagination(page.Page, page.Limit, total)))
}
