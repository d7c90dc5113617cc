package service

import (
	"context"
	"errors"
	"strings"

	"projecthub/internal/models"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 5000

type CommentService struct {
	commentRepo   repository.CommentRepository
	projectRepo   repository.ProjectRepository
	notifications *NotificationService
	projects      *ProjectService
}

type CreateCommentInput struct {
	UserID    uint
	ProjectID uint
	ParentID  *uint
	Content   string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	projectRepo repository.ProjectRepository,
	notifications *NotificationService,
	projects *ProjectService,
) *CommentService {
	return &CommentService{
		commentRepo:   commentRepo,
		projectRepo:   projectRepo,
		notifications: notifications,
		projects:      projects,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return models.NewValidationError("Comment too long (max 5000 characters)")
	}
	return nil
}

// CreateComment posts a top-level comment or a reply. Replies are single
// level: the parent must be a top-level comment on the same project.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, in.ProjectID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Project", in.ProjectID)
		}
		return nil, models.NewInternalError(err)
	}

	visible, err := s.projects.canView(ctx, project, in.UserID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, models.NewNotFoundError("Project", in.ProjectID)
	}

	var parent *models.Comment
	if in.ParentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *in.ParentID)
			}
			return nil, models.NewInternalError(err)
		}
		if parent.ProjectID != in.ProjectID {
			return nil, models.NewValidationError("Parent comment belongs to a different project")
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Replies to replies are not allowed")
		}
	}

	comment := &models.Comment{
		ProjectID: in.ProjectID,
		UserID:    in.UserID,
		ParentID:  in.ParentID,
		Content:   in.Content,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}

	// Best effort; delivery failures never fail the comment. A reply still
	// fans out to the owner and prior commenters, with the parent author
	// excluded there because they get the reply notification instead.
	if parent != nil {
		s.notifications.FanoutComment(ctx, project, in.UserID, comment.ID, parent.UserID)
		s.notifications.FanoutReply(ctx, project, parent, in.UserID, comment.ID)
	} else {
		s.notifications.FanoutComment(ctx, project, in.UserID, comment.ID)
	}

	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, projectID, viewerID uint, page, limit int) ([]*models.Comment, int64, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewNotFoundError("Project", projectID)
		}
		return nil, 0, models.NewInternalError(err)
	}

	visible, err := s.projects.canView(ctx, project, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if !visible {
		return nil, 0, models.NewNotFoundError("Project", projectID)
	}

	comments, total, err := s.commentRepo.ListByProject(ctx, projectID, viewerID, page, limit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return comments, total, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.CommentID)
		}
		return nil, models.NewInternalError(err)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("Only the comment author can edit it")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// DeleteComment removes a comment. The comment author and the project owner
// may delete it.
func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}

	if comment.UserID != userID {
		project, err := s.projectRepo.GetByID(ctx, comment.ProjectID, userID)
		if err != nil {
			return models.NewInternalError(err)
		}
		if project.UserID != userID {
			return models.NewForbiddenError("Only the comment author or project owner can delete it")
		}
	}

	if err := s.commentRepo.Delete(ctx, comment); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// LikeComment records a like on a comment. Liking twice is a conflict.
func (s *CommentService) LikeComment(ctx context.Context, commentID, userID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}

	if err := s.commentRepo.Like(ctx, userID, commentID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Comment already liked")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *CommentService) UnlikeComment(ctx context.Context, commentID, userID uint) error {
	removed, err := s.commentRepo.Unlike(ctx, userID, commentID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !removed {
		return models.NewNotFoundError("Like for comment", commentID)
	}
	return nil
}
