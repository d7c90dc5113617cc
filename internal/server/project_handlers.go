package server

import (
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProjects handles GET /api/projects?q=...&username=...&page=...&limit=...
// It serves the public feed, search results, and per-user listings; all three
// respect the viewer's visibility.
func (s *Server) GetProjects(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	query := c.Query("q")
	if query != "" && strings.TrimSpace(query) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query cannot be blank"))
	}

	projects, total, err := s.projectService.ListProjects(c.Context(), service.ListProjectsInput{
		ViewerID: viewerID,
		Search:   query,
		Username: c.Query("username"),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OKPage(projects, models.NewPagination(page.Page, page.Limit, total)))
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	project, serr := s.projectService.GetProject(c.Context(), id, viewerID)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OK(project))
}

// CreateProject handles POST /api/projects
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Tags        string `json:"tags"`
		RepoURL     string `json:"repo_url"`
		DemoURL     string `json:"demo_url"`
		ImageURL    string `json:"image_url"`
		Privacy     string `json:"privacy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, err := s.projectService.CreateProject(c.Context(), service.CreateProjectInput{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Privacy:     req.Privacy,
	})
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OK(project))
}

// UpdateProject handles PUT /api/projects/:id
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Tags        string `json:"tags"`
		RepoURL     string `json:"repo_url"`
		DemoURL     string `json:"demo_url"`
		ImageURL    string `json:"image_url"`
		Privacy     string `json:"privacy"`
	}
	if berr := c.BodyParser(&req); berr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	project, serr := s.projectService.UpdateProject(c.Context(), service.UpdateProjectInput{
		UserID:      currentUserID(c),
		ProjectID:   id,
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Privacy:     req.Privacy,
	})
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Project updated", project))
}

// DeleteProject handles DELETE /api/projects/:id
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.projectService.DeleteProject(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Project deleted", nil))
}

// LikeProject handles POST /api/projects/:id/like
func (s *Server) LikeProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.projectService.LikeProject(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OKMessage("Project liked", nil))
}

// UnlikeProject handles DELETE /api/projects/:id/like
func (s *Server) UnlikeProject(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.projectService.UnlikeProject(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Like removed", nil))
}
