package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// CollaboratorRepository defines the interface for project collaborator operations
type CollaboratorRepository interface {
	Add(ctx context.Context, collaborator *models.Collaborator) error
	Remove(ctx context.Context, projectID, userID uint) (bool, error)
	ListByProject(ctx context.Context, projectID uint) ([]*models.Collaborator, error)
	IsCollaborator(ctx context.Context, projectID, userID uint) (bool, error)
	ListProjectsForUser(ctx context.Context, userID uint, page, limit int) ([]*models.Project, int64, error)
}

type collaboratorRepository struct {
	db *gorm.DB
}

// NewCollaboratorRepository creates a new collaborator repository
func NewCollaboratorRepository(db *gorm.DB) CollaboratorRepository {
	return &collaboratorRepository{db: db}
}

// Add inserts a collaborator row. A duplicate surfaces as
// gorm.ErrDuplicatedKey.
func (r *collaboratorRepository) Add(ctx context.Context, collaborator *models.Collaborator) error {
	return r.db.WithContext(ctx).Create(collaborator).Error
}

func (r *collaboratorRepository) Remove(ctx context.Context, projectID, userID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.Collaborator{})
	return res.RowsAffected > 0, res.Error
}

func (r *collaboratorRepository) ListByProject(ctx context.Context, projectID uint) ([]*models.Collaborator, error) {
	var collaborators []*models.Collaborator
	err := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Select("collaborators.*, users.username as username, users.name as name, users.position as position").
		Joins("JOIN users ON users.id = collaborators.user_id").
		Where("collaborators.project_id = ?", projectID).
		Order("collaborators.created_at ASC").
		Find(&collaborators).Error
	return collaborators, err
}

func (r *collaboratorRepository) IsCollaborator(ctx context.Context, projectID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Collaborator{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *collaboratorRepository) ListProjectsForUser(ctx context.Context, userID uint, page, limit int) ([]*models.Project, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN collaborators ON collaborators.project_id = projects.id").
		Where("collaborators.user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var projects []*models.Project
	err := base.Session(&gorm.Session{}).
		Select("projects.*, users.username as author_username, users.name as author_name").
		Joins("JOIN users ON users.id = projects.user_id").
		Order("projects.created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&projects).Error
	return projects, total, err
}
