package models

import "time"

// Collaborator links a user to a project they contribute to. Only the
// project owner may add or remove collaborators, and the collaborator must
// share the owner's organization.
type Collaborator struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_project_collaborator" json:"project_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_project_collaborator" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`

	// Read-side fields for collaborator listings.
	Username string `gorm:"->;-:migration" json:"username,omitempty"`
	Name     string `gorm:"->;-:migration" json:"name,omitempty"`
	Position string `gorm:"->;-:migration" json:"position,omitempty"`
}
