package repository

import (
	"context"

	"projecthub/internal/cache"
	"projecthub/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user and everything they own: projects (with the
	// comments, likes and collaborator rows attached to them), their own
	// comments and likes, messages, follows, notifications and to-dos. The
	// whole cascade runs in one transaction.
	Delete(ctx context.Context, id uint) error
	ListByOrganization(ctx context.Context, org string, currentUserID uint, page, limit int) ([]*models.User, int64, error)
	// OrgMemberIDs returns the IDs of every member of org except exclude.
	OrgMemberIDs(ctx context.Context, org string, exclude uint) ([]uint, error)
	SearchByOrganization(ctx context.Context, org, query string, currentUserID uint, page, limit int) ([]*models.User, int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	cache.InvalidateOrgMembers(ctx, user.Organization)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.ProfileKey(username), &user, cache.ProfileTTL, func() error {
		return r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmailOrUsername resolves a login identifier that may be either field.
func (r *userRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	var prev models.User
	prevErr := r.db.WithContext(ctx).Select("organization").First(&prev, user.ID).Error

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	cache.InvalidateProfile(ctx, user.Username)
	cache.InvalidateOrgMembers(ctx, user.Organization)
	if prevErr == nil && prev.Organization != user.Organization {
		cache.InvalidateOrgMembers(ctx, prev.Organization)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedProjects := tx.Model(&models.Project{}).Select("id").Where("user_id = ?", id)
		ownComments := tx.Model(&models.Comment{}).Select("id").Where("user_id = ?", id)

		// Rows hanging off the user's projects, regardless of who wrote them.
		steps := []func() *gorm.DB{
			func() *gorm.DB {
				return tx.Where("comment_id IN (?)",
					tx.Model(&models.Comment{}).Select("id").Where("project_id IN (?)", ownedProjects)).
					Delete(&models.CommentLike{})
			},
			func() *gorm.DB { return tx.Where("comment_id IN (?)", ownComments).Delete(&models.CommentLike{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.CommentLike{}) },
			func() *gorm.DB { return tx.Where("parent_id IN (?)", ownComments).Delete(&models.Comment{}) },
			func() *gorm.DB { return tx.Where("project_id IN (?)", ownedProjects).Delete(&models.Comment{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.Comment{}) },
			func() *gorm.DB { return tx.Where("project_id IN (?)", ownedProjects).Delete(&models.ProjectLike{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.ProjectLike{}) },
			func() *gorm.DB { return tx.Where("project_id IN (?)", ownedProjects).Delete(&models.Collaborator{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.Collaborator{}) },
			func() *gorm.DB { return tx.Where("project_id IN (?)", ownedProjects).Delete(&models.Notification{}) },
			func() *gorm.DB { return tx.Where("user_id = ? OR actor_id = ?", id, id).Delete(&models.Notification{}) },
			func() *gorm.DB { return tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&models.Message{}) },
			func() *gorm.DB {
				return tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{})
			},
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.TodoItem{}) },
			func() *gorm.DB { return tx.Where("user_id = ?", id).Delete(&models.Project{}) },
			func() *gorm.DB { return tx.Delete(&models.User{}, id) },
		}
		for _, step := range steps {
			if res := step(); res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateUser(ctx, id)
	cache.InvalidateProfile(ctx, user.Username)
	if user.Organization != "" {
		cache.InvalidateOrgMembers(ctx, user.Organization)
	}
	return nil
}

// applyFollowFlag annotates each row with whether currentUserID follows it.
func applyFollowFlag(db *gorm.DB, currentUserID uint) *gorm.DB {
	if currentUserID == 0 {
		return db.Select("users.*, FALSE as is_following")
	}
	return db.Select(
		"users.*, EXISTS(SELECT 1 FROM follows WHERE follows.follower_id = ? AND follows.followed_id = users.id) as is_following",
		currentUserID,
	)
}

func (r *userRepository) ListByOrganization(ctx context.Context, org string, currentUserID uint, page, limit int) ([]*models.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("organization = ? AND id <> ?", org, currentUserID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := applyFollowFlag(r.db.WithContext(ctx).Model(&models.User{}), currentUserID).
		Where("organization = ? AND id <> ?", org, currentUserID).
		Order("name ASC").
		Scopes(paginate(page, limit)).
		Find(&users).Error
	return users, total, err
}

// OrgMemberIDs caches the full member list per organization; the exclusion
// is applied after the cache read so every caller shares one entry.
func (r *userRepository) OrgMemberIDs(ctx context.Context, org string, exclude uint) ([]uint, error) {
	var ids []uint
	err := cache.Aside(ctx, cache.OrgMembersKey(org), &ids, cache.OrgMembersTTL, func() error {
		return r.db.WithContext(ctx).Model(&models.User{}).
			Where("organization = ?", org).
			Order("id ASC").
			Pluck("id", &ids).Error
	})
	if err != nil {
		return nil, err
	}

	members := ids[:0]
	for _, id := range ids {
		if id != exclude {
			members = append(members, id)
		}
	}
	return members, nil
}

func (r *userRepository) SearchByOrganization(ctx context.Context, org, query string, currentUserID uint, page, limit int) ([]*models.User, int64, error) {
	like := "%" + query + "%"
	base := r.db.WithContext(ctx).Model(&models.User{}).
		Where("organization = ? AND id <> ?", org, currentUserID).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)", like, like)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*models.User
	err := applyFollowFlag(base.Session(&gorm.Session{}), currentUserID).
		Order("name ASC").
		Scopes(paginate(page, limit)).
		Find(&users).Error
	return users, total, err
}
