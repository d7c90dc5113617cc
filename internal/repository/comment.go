package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByProject(ctx context.Context, projectID uint, viewerID uint, page, limit int) ([]*models.Comment, int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, comment *models.Comment) error
	Like(ctx context.Context, userID, commentID uint) error
	Unlike(ctx context.Context, userID, commentID uint) (bool, error)
	// PriorCommenters returns the distinct user IDs that have commented on
	// the project, excluding the given IDs. Used for comment fan-out.
	PriorCommenters(ctx context.Context, projectID uint, exclude []uint) ([]uint, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// applyCommentDetails joins author identity and the viewer's liked flag.
func applyCommentDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "comments.*, users.username as username, users.name as user_name"
	db = db.Joins("JOIN users ON users.id = comments.user_id")
	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) as user_liked",
			viewerID)
	}
	return db.Select(selectQuery + ", FALSE as user_liked")
}

// ListByProject returns top-level comments newest first, each with its
// replies oldest first. Pagination applies to top-level comments only; total
// counts every comment on the project including replies.
func (r *commentRepository) ListByProject(ctx context.Context, projectID uint, viewerID uint, page, limit int) ([]*models.Comment, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*models.Comment
	err := applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), viewerID).
		Where("comments.project_id = ? AND comments.parent_id IS NULL", projectID).
		Order("comments.created_at DESC").
		Scopes(paginate(page, limit)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	if len(comments) == 0 {
		return comments, total, nil
	}

	parentIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		parentIDs = append(parentIDs, c.ID)
	}

	var replies []models.Comment
	err = applyCommentDetails(r.db.WithContext(ctx).Model(&models.Comment{}), viewerID).
		Where("comments.parent_id IN ?", parentIDs).
		Order("comments.created_at ASC").
		Find(&replies).Error
	if err != nil {
		return nil, 0, err
	}

	byParent := make(map[uint][]models.Comment, len(comments))
	for _, reply := range replies {
		byParent[*reply.ParentID] = append(byParent[*reply.ParentID], reply)
	}
	for _, c := range comments {
		c.Replies = byParent[c.ID]
	}

	return comments, total, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete removes the comment together with its replies and their likes.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ? OR comment_id IN (SELECT id FROM comments WHERE parent_id = ?)",
			comment.ID, comment.ID).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
}

// Like inserts the like row and bumps the comment's total_likes in one
// transaction. A duplicate like surfaces as gorm.ErrDuplicatedKey.
func (r *commentRepository) Like(ctx context.Context, userID, commentID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.CommentLike{CommentID: commentID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
	})
}

// Unlike removes the like row and decrements total_likes, clamping at zero.
// Returns false when there was no like to remove.
func (r *commentRepository) Unlike(ctx context.Context, userID, commentID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&models.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Comment{}).
			Where("id = ?", commentID).
			UpdateColumn("total_likes", gorm.Expr("CASE WHEN total_likes > 0 THEN total_likes - 1 ELSE 0 END")).Error
	})
	return removed, err
}

func (r *commentRepository) PriorCommenters(ctx context.Context, projectID uint, exclude []uint) ([]uint, error) {
	var ids []uint
	db := r.db.WithContext(ctx).Model(&models.Comment{}).
		Distinct("user_id").
		Where("project_id = ?", projectID)
	if len(exclude) > 0 {
		db = db.Where("user_id NOT IN ?", exclude)
	}
	err := db.Pluck("user_id", &ids).Error
	return ids, err
}
