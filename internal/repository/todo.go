package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// TodoRepository defines the interface for to-do item operations
type TodoRepository interface {
	Create(ctx context.Context, item *models.TodoItem) error
	GetByID(ctx context.Context, id uint) (*models.TodoItem, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.TodoItem, error)
	Update(ctx context.Context, item *models.TodoItem) error
	Delete(ctx context.Context, id uint) error
}

type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new to-do repository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, item *models.TodoItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *todoRepository) GetByID(ctx context.Context, id uint) (*models.TodoItem, error) {
	var item models.TodoItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *todoRepository) ListByUser(ctx context.Context, userID uint) ([]*models.TodoItem, error) {
	var items []*models.TodoItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *todoRepository) Update(ctx context.Context, item *models.TodoItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *todoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.TodoItem{}, id).Error
}
