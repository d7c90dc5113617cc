package server

import (
	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/projects/:id/comments. Top-level comments are
// paginated newest first; each carries its replies oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	comments, total, serr := s.commentService.ListComments(c.Context(), projectID, viewerID, page.Page, page.Limit)
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKPage(comments, models.NewPagination(page.Page, page.Limit, total)))
}

// CreateComment handles POST /api/projects/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	projectID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if berr := c.BodyParser(&req); berr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, serr := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    currentUserID(c),
		ProjectID: projectID,
		ParentID:  req.ParentID,
		Content:   req.Content,
	})
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OK(comment))
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if berr := c.BodyParser(&req); berr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, serr := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: id,
		Content:   req.Content,
	})
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Comment updated", comment))
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.commentService.DeleteComment(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Comment deleted", nil))
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.commentService.LikeComment(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OKMessage("Comment liked", nil))
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.commentService.UnlikeComment(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("Like removed", nil))
}
