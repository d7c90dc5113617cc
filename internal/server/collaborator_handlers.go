package server

import (
	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCollaborators handles GET /api/projects/:id/collaborators
func (s *Server) GetCollaborators(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	collaborators, serr := s.collaboratorService.List(c.Context(), projectID, viewerID)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OK(collaborators))
}

// AddCollaborator handles POST /api/projects/:id/collaborators
func (s *Server) AddCollaborator(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		UserID uint `json:"user_id"`
	}
	if berr := c.BodyParser(&req); berr != nil || req.UserID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	serr := s.collaboratorService.Add(c.Context(), service.AddCollaboratorInput{
		RequesterID: currentUserID(c),
		ProjectID:   projectID,
		UserID:      req.UserID,
	})
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OKMessage("Collaborator added", nil))
}

// RemoveCollaborator handles DELETE /api/projects/:id/collaborators/:userId
func (s *Server) RemoveCollaborator(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if serr := s.collaboratorService.Remove(c.Context(), currentUserID(c), projectID, userID); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Collaborator removed", nil))
}

// GetMyCollaborations handles GET /api/collaborations
func (s *Server) GetMyCollaborations(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	projects, total, err := s.collaboratorService.MyCollaborations(
		c.Context(), currentUserID(c), page.Page, page.Limit)
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKPage(projects, models.NewPagination(page.Page, page.Limit, total)))
}
