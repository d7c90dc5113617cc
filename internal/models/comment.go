package models

import "time"

// Comment is a comment on a project. A nil ParentID marks a top-level
// comment; a non-nil ParentID marks a reply. Replies are single-level: the
// parent must itself be a top-level comment on the same project.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProjectID  uint      `gorm:"not null;index" json:"project_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	ParentID   *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	TotalLikes int       `gorm:"default:0" json:"total_likes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User    *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentID" json:"replies,omitempty"`

	// Read-side fields populated by comment listing queries.
	Username  string `gorm:"->;-:migration" json:"username,omitempty"`
	UserName  string `gorm:"->;-:migration" json:"user_name,omitempty"`
	UserLiked bool   `gorm:"->;-:migration" json:"user_liked"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
