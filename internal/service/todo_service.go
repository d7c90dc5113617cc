package service

import (
	"context"
	"errors"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

const maxTodoLen = 1000

// TodoService manages private per-user tasks.
type TodoService struct {
	todoRepo repository.TodoRepository
}

type UpdateTodoInput struct {
	UserID  uint
	TodoID  uint
	Content *string
	Done    *bool
}

func NewTodoService(todoRepo repository.TodoRepository) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

func (s *TodoService) Create(ctx context.Context, userID uint, content string) (*models.TodoItem, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("To-do content is required")
	}
	if len(content) > maxTodoLen {
		return nil, models.NewValidationError("To-do too long (max 1000 characters)")
	}

	item := &models.TodoItem{UserID: userID, Content: content}
	if err := s.todoRepo.Create(ctx, item); err != nil {
		return nil, models.NewInternalError(err)
	}
	return item, nil
}

func (s *TodoService) List(ctx context.Context, userID uint) ([]*models.TodoItem, error) {
	items, err := s.todoRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

// owned fetches the item and enforces ownership; to-dos are never visible
// to other users.
func (s *TodoService) owned(ctx context.Context, todoID, userID uint) (*models.TodoItem, error) {
	item, err := s.todoRepo.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("To-do", todoID)
		}
		return nil, models.NewInternalError(err)
	}
	if item.UserID != userID {
		return nil, models.NewNotFoundError("To-do", todoID)
	}
	return item, nil
}

func (s *TodoService) Update(ctx context.Context, in UpdateTodoInput) (*models.TodoItem, error) {
	item, err := s.owned(ctx, in.TodoID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Content != nil {
		if strings.TrimSpace(*in.Content) == "" {
			return nil, models.NewValidationError("To-do content is required")
		}
		if len(*in.Content) > maxTodoLen {
			return nil, models.NewValidationError("To-do too long (max 1000 characters)")
		}
		item.Content = *in.Content
	}
	if in.Done != nil {
		item.Done = *in.Done
	}

	if err := s.todoRepo.Update(ctx, item); err != nil {
		return nil, models.NewInternalError(err)
	}
	return item, nil
}

func (s *TodoService) Delete(ctx context.Context, todoID, userID uint) error {
	item, err := s.owned(ctx, todoID, userID)
	if err != nil {
		return err
	}
	if err := s.todoRepo.Delete(ctx, item.ID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
