package server

import (
	"projecthub/internal/models"
	"projecthub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateTodo handles POST /api/todos
func (s *Server) CreateTodo(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, err := s.todoService.Create(c.Context(), currentUserID(c), req.Content)
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.OK(item))
}

// GetTodos handles GET /api/todos
func (s *Server) GetTodos(c *fiber.Ctx) error {
	items, err := s.todoService.List(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondServiceError(c, err)
	}
	return c.JSON(models.OK(items))
}

// UpdateTodo handles PUT /api/todos/:id. Content and done are both optional;
// omitted fields keep their current value.
func (s *Server) UpdateTodo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content *string `json:"content"`
		Done    *bool   `json:"done"`
	}
	if berr := c.BodyParser(&req); berr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	item, serr := s.todoService.Update(c.Context(), service.UpdateTodoInput{
		UserID:  currentUserID(c),
		TodoID:  id,
		Content: req.Content,
		Done:    req.Done,
	})
	if serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("To-do updated", item))
}

// DeleteTodo handles DELETE /api/todos/:id
func (s *Server) DeleteTodo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if serr := s.todoService.Delete(c.Context(), id, currentUserID(c)); serr != nil {
		return models.RespondServiceError(c, serr)
	}
	return c.JSON(models.OKMessage("To-do deleted", nil))
}
