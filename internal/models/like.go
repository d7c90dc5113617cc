package models

import "time"

// ProjectLike records a user liking a project. The composite unique index
// makes duplicate likes a constraint violation, surfaced as a conflict.
type ProjectLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_user_like" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectLike) TableName() string { return "project_likes" }

// CommentLike records a user liking a comment.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"comment_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string { return "comment_likes" }
