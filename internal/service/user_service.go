package service

import (
	"context"
	"errors"

	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/validation"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	notifications *NotificationService
}

type UpdateProfileInput struct {
	UserID       uint
	Name         string
	Phone        string
	Position     string
	Organization string
	GithubURL    string
	LinkedinURL  string
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	notifications *NotificationService,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		followRepo:    followRepo,
		notifications: notifications,
	}
}

func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", username)
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if in.Position != "" {
		if err := validation.ValidatePosition(in.Position); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.Name = in.Name
	user.Phone = in.Phone
	if in.Position != "" {
		user.Position = in.Position
	}
	user.Organization = in.Organization
	user.GithubURL = in.GithubURL
	user.LinkedinURL = in.LinkedinURL

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// DeleteAccount removes the user together with everything they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", userID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// OrgMembers lists (or searches) the requester's organization members,
// annotated with whether the requester follows each of them.
func (s *UserService) OrgMembers(ctx context.Context, userID uint, search string, page, limit int) ([]*models.User, int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if !user.HasOrganization() {
		return nil, 0, models.NewForbiddenError("You are not part of an organization")
	}

	var (
		users []*models.User
		total int64
	)
	if search != "" {
		users, total, err = s.userRepo.SearchByOrganization(ctx, user.Organization, search, userID, page, limit)
	} else {
		users, total, err = s.userRepo.ListByOrganization(ctx, user.Organization, userID, page, limit)
	}
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

// Follow creates a follow edge. Both users must share an organization, and
// following twice is a conflict.
func (s *UserService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID {
		return models.NewValidationError("Cannot follow yourself")
	}

	follower, err := s.userRepo.GetByID(ctx, followerID)
	if err != nil {
		return models.NewInternalError(err)
	}
	followed, err := s.userRepo.GetByID(ctx, followedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", followedID)
		}
		return models.NewInternalError(err)
	}
	if !follower.SameOrganization(followed) {
		return models.NewForbiddenError("Following requires both users to be in the same organization")
	}

	if err := s.followRepo.Create(ctx, &models.Follow{FollowerID: followerID, FollowedID: followedID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Already following this user")
		}
		return models.NewInternalError(err)
	}

	// Best effort; delivery failures never fail the follow.
	s.notifications.FanoutFollow(ctx, followedID, followerID)
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	removed, err := s.followRepo.Delete(ctx, followerID, followedID)
	if err != nil {
		return models.NewInternalError(err)
	}
	if !removed {
		return models.NewNotFoundError("Follow for user", followedID)
	}
	return nil
}

func (s *UserService) Followers(ctx context.Context, userID uint, page, limit int) ([]*models.User, int64, error) {
	users, total, err := s.followRepo.ListFollowers(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}

func (s *UserService) Following(ctx context.Context, userID uint, page, limit int) ([]*models.User, int64, error) {
	users, total, err := s.followRepo.ListFollowing(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return users, total, nil
}
