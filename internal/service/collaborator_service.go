package service

import (
	"context"
	"errors"

	"projecthub/internal/models"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

// CollaboratorService manages project collaborators. Only the project owner
// may add or remove, and collaborators must share the owner's organization.
type CollaboratorService struct {
	collaboratorRepo repository.CollaboratorRepository
	projectRepo      repository.ProjectRepository
	userRepo         repository.UserRepository
	projects         *ProjectService
}

type AddCollaboratorInput struct {
	RequesterID uint
	ProjectID   uint
	UserID      uint
}

func NewCollaboratorService(
	collaboratorRepo repository.CollaboratorRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	projects *ProjectService,
) *CollaboratorService {
	return &CollaboratorService{
		collaboratorRepo: collaboratorRepo,
		projectRepo:      projectRepo,
		userRepo:         userRepo,
		projects:         projects,
	}
}

func (s *CollaboratorService) ownedProject(ctx context.Context, projectID, requesterID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, requesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", projectID)
		}
		return nil, models.NewInternalError(err)
	}
	if project.UserID != requesterID {
		return nil, models.NewForbiddenError("Only the project owner can manage collaborators")
	}
	return project, nil
}

func (s *CollaboratorService) Add(ctx context.Context, in AddCollaboratorInput) error {
	if in.UserID == in.RequesterID {
		return models.NewValidationError("Cannot add yourself as a collaborator")
	}

	if _, err := s.ownedProject(ctx, in.ProjectID, in.RequesterID); err != nil {
		return err
	}

	owner, err := s.userRepo.GetByID(ctx, in.RequesterID)
	if err != nil {
		return models.NewInternalError(err)
	}
	collaborator, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", in.UserID)
		}
		return models.NewInternalError(err)
	}
	if !owner.SameOrganization(collaborator) {
		return models.NewForbiddenError("Collaborators must be in the same organization")
	}

	if err := s.collaboratorRepo.Add(ctx, &models.Collaborator{ProjectID: in.ProjectID, UserID: in.UserID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("User is already a collaborator")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *CollaboratorService) Remove(ctx context.Context, requesterID, projectID, userID uint) error {
	if _, err := s.ownedProject(ctx, projectID, requesterID); err != nil {
		return err
	}

	removed, err := s.collaboratorRepo.Remove(ctx, projectID, userID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !removed {
		return models.NewNotFoundError("Collaborator", userID)
	}
	return nil
}

// List returns a project's collaborators, visible to anyone who can view
// the project.
func (s *CollaboratorService) List(ctx context.Context, projectID, viewerID uint) ([]*models.Collaborator, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", projectID)
		}
		return nil, models.NewInternalError(err)
	}

	visible, err := s.projects.canView(ctx, project, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Project", projectID)
	}

	collaborators, err := s.collaboratorRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return collaborators, nil
}

// MyCollaborations lists the projects the user collaborates on.
func (s *CollaboratorService) MyCollaborations(ctx context.Context, userID uint, page, limit int) ([]*models.Project, int64, error) {
	projects, total, err := s.collaboratorRepo.ListProjectsForUser(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return projects, total, nil
}
