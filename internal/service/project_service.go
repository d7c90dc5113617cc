package service

import (
	"context"
	"errors"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

const (
	maxProjectNameLen = 120
	maxDescriptionLen = 10000
	maxTagsLen        = 500
)

// FeedViewerStats modes. In auto mode the per-viewer stats subqueries only
// run for authenticated requests; always computes them for anonymous feeds
// too.
const (
	FeedStatsAuto   = "auto"
	FeedStatsAlways = "always"
)

type ProjectService struct {
	projectRepo      repository.ProjectRepository
	userRepo         repository.UserRepository
	collaboratorRepo repository.CollaboratorRepository
	notifications    *NotificationService
	feedViewerStats  string
}

type CreateProjectInput struct {
	UserID      uint
	Name        string
	Description string
	Tags        string
	RepoURL     string
	DemoURL     string
	ImageURL    string
	Privacy     string
}

type UpdateProjectInput struct {
	UserID      uint
	ProjectID   uint
	Name        string
	Description string
	Tags        string
	RepoURL     string
	DemoURL     string
	ImageURL    string
	Privacy     string
}

type ListProjectsInput struct {
	ViewerID uint
	Search   string
	Username string
	Page     int
	Limit    int
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	collaboratorRepo repository.CollaboratorRepository,
	notifications *NotificationService,
	feedViewerStats string,
) *ProjectService {
	if feedViewerStats == "" {
		feedViewerStats = FeedStatsAuto
	}
	return &ProjectService{
		projectRepo:      projectRepo,
		userRepo:         userRepo,
		collaboratorRepo: collaboratorRepo,
		notifications:    notifications,
		feedViewerStats:  feedViewerStats,
	}
}

func validateProjectFields(name, description, tags, privacy string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Project name is required")
	}
	if len(name) > maxProjectNameLen {
		return models.NewValidationError("Project name too long (max 120 characters)")
	}
	if len(description) > maxDescriptionLen {
		return models.NewValidationError("Description too long (max 10000 characters)")
	}
	if len(tags) > maxTagsLen {
		return models.NewValidationError("Tags too long (max 500 characters)")
	}
	if privacy != "" && !models.ValidPrivacy(privacy) {
		return models.NewValidationError("Privacy must be one of: public, organization, private")
	}
	return nil
}

func (s *ProjectService) CreateProject(ctx context.Context, in CreateProjectInput) (*models.Project, error) {
	if err := validateProjectFields(in.Name, in.Description, in.Tags, in.Privacy); err != nil {
		return nil, err
	}

	privacy := in.Privacy
	if privacy == "" {
		privacy = models.PrivacyPublic
	}

	owner, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if privacy == models.PrivacyOrganization && !owner.HasOrganization() {
		return nil, models.NewValidationError("Organization privacy requires an organization")
	}

	project := &models.Project{
		UserID:       in.UserID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Tags:         in.Tags,
		RepoURL:      in.RepoURL,
		DemoURL:      in.DemoURL,
		ImageURL:     in.ImageURL,
		Organization: owner.Organization,
		Privacy:      privacy,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, models.NewInternalError(err)
	}

	// Best effort; delivery failures never fail the create.
	s.notifications.FanoutOrgProject(ctx, project, in.UserID)

	return project, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID, viewerID uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", projectID)
		}
		return nil, models.NewInternalError(err)
	}

	visible, err := s.canView(ctx, project, viewerID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Project", projectID)
	}
	return project, nil
}

// canView applies the privacy rules, letting collaborators see private
// projects.
func (s *ProjectService) canView(ctx context.Context, project *models.Project, viewerID uint) (bool, error) {
	switch project.Privacy {
	case models.PrivacyPublic:
		return true, nil
	case models.PrivacyOrganization:
		if viewerID == 0 {
			return false, nil
		}
		if viewerID == project.UserID {
			return true, nil
		}
		viewer, err := s.userRepo.GetByID(ctx, viewerID)
		if err != nil {
			return false, models.NewInternalError(err)
		}
		return viewer.HasOrganization() && viewer.Organization == project.Organization, nil
	case models.PrivacyPrivate:
		if viewerID == 0 {
			return false, nil
		}
		if viewerID == project.UserID {
			return true, nil
		}
		isCollab, err := s.collaboratorRepo.IsCollaborator(ctx, project.ID, viewerID)
		if err != nil {
			return false, models.NewInternalError(err)
		}
		return isCollab, nil
	}
	return false, nil
}

// ListProjects serves the feed, search and per-user project listings.
func (s *ProjectService) ListProjects(ctx context.Context, in ListProjectsInput) ([]*models.Project, int64, error) {
	q := repository.ProjectQuery{
		ViewerID: in.ViewerID,
		Search:   strings.TrimSpace(in.Search),
		Page:     in.Page,
		Limit:    in.Limit,
	}

	if in.ViewerID != 0 {
		viewer, err := s.userRepo.GetByID(ctx, in.ViewerID)
		if err != nil {
			return nil, 0, models.NewInternalError(err)
		}
		q.ViewerOrg = viewer.Organization
	}

	if in.Username != "" {
		owner, err := s.userRepo.GetByUsername(ctx, in.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, models.NewNotFoundError("User", in.Username)
			}
			return nil, 0, models.NewInternalError(err)
		}
		q.OwnerID = owner.ID
	}

	switch s.feedViewerStats {
	case FeedStatsAlways:
		q.WithViewerStats = true
	default:
		q.WithViewerStats = in.ViewerID != 0
	}

	if q.Search != "" {
		observability.SearchQueries.Inc()
	}

	projects, total, err := s.projectRepo.List(ctx, q)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return projects, total, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, in UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", in.ProjectID)
		}
		return nil, models.NewInternalError(err)
	}
	if project.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the project owner can update it")
	}

	if err := validateProjectFields(in.Name, in.Description, in.Tags, in.Privacy); err != nil {
		return nil, err
	}

	if in.Privacy != "" && in.Privacy == models.PrivacyOrganization && project.Organization == "" {
		return nil, models.NewValidationError("Organization privacy requires an organization")
	}

	project.Name = strings.TrimSpace(in.Name)
	project.Description = in.Description
	project.Tags = in.Tags
	project.RepoURL = in.RepoURL
	project.DemoURL = in.DemoURL
	project.ImageURL = in.ImageURL
	if in.Privacy != "" {
		project.Privacy = in.Privacy
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, models.NewInternalError(err)
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID, userID uint) error {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Project", projectID)
		}
		return models.NewInternalError(err)
	}
	if project.UserID != userID {
		return models.NewForbiddenError("Only the project owner can delete it")
	}

	if err := s.projectRepo.Delete(ctx, project); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// LikeProject records a like and notifies the owner. Liking twice is a
// conflict.
func (s *ProjectService) LikeProject(ctx context.Context, projectID, userID uint) error {
	project, err := s.projectRepo.GetByID(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Project", projectID)
		}
		return models.NewInternalError(err)
	}

	visible, err := s.canView(ctx, project, userID)
	if err != nil {
		return err
	}
	if !visible {
		return models.NewNotFoundError("Project", projectID)
	}

	if err := s.projectRepo.Like(ctx, userID, projectID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Project already liked")
		}
		return models.NewInternalError(err)
	}

	s.notifications.FanoutLike(ctx, project, userID)
	return nil
}

func (s *ProjectService) UnlikeProject(ctx context.Context, projectID, userID uint) error {
	removed, err := s.projectRepo.Unlike(ctx, userID, projectID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !removed {
		return models.NewNotFoundError("Like for project", projectID)
	}
	return nil
}
