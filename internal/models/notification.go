package models

import "time"

// Notification event types. Replies to comments are persisted as
// NotificationComment; the title and message distinguish them.
const (
	NotificationLike       = "like"
	NotificationComment    = "comment"
	NotificationFollow     = "follow"
	NotificationMessage    = "message"
	NotificationOrgProject = "organization_project"
)

// Notification is a persisted notification row. ActorID is the user whose
// action produced it; ProjectID and CommentID are optional references to the
// subject of the event.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ActorID   uint      `gorm:"not null" json:"actor_id"`
	Type      string    `gorm:"type:varchar(30);not null" json:"type"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	ProjectID *uint     `json:"project_id,omitempty"`
	CommentID *uint     `json:"comment_id,omitempty"`
	Read      bool      `gorm:"default:false" json:"read"`
	CreatedAt time.Time `json:"created_at"`

	Actor   *User    `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	// Read-side fields joined in notification listings.
	ActorUsername string `gorm:"->;-:migration" json:"actor_username,omitempty"`
	ActorName     string `gorm:"->;-:migration" json:"actor_name,omitempty"`
	ProjectName   string `gorm:"->;-:migration" json:"project_name,omitempty"`
}

// ValidNotificationType reports whether t is a recognized event type.
func ValidNotificationType(t string) bool {
	switch t {
	case NotificationLike, NotificationComment,
		NotificationFollow, NotificationMessage, NotificationOrgProject:
		return true
	}
	return false
}
