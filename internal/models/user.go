// Package models contains data structures for the application's domain models.
package models

import "time"

// UserPosition enumerates the allowed values for a user's position field.
const (
	PositionStudent = "student"
	PositionTeacher = "teacher"
	PositionOther   = "other"
)

// User represents a registered member of ProjectHub.
//
// Organization is a free-form grouping key; a NULL/empty value means the user
// belongs to no organization and is excluded from all organization-gated
// social actions. TotalProjects is a denormalized counter maintained
// transactionally alongside project creation/deletion.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Username      string    `gorm:"unique;not null" json:"username"`
	Email         string    `gorm:"unique;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Name          string    `gorm:"not null" json:"name"`
	Phone         string    `json:"phone,omitempty"`
	Position      string    `gorm:"type:varchar(20);not null" json:"position"`
	Organization  string    `gorm:"index" json:"organization,omitempty"`
	GithubURL     string    `json:"github_url,omitempty"`
	LinkedinURL   string    `json:"linkedin_url,omitempty"`
	TotalProjects int       `gorm:"default:0" json:"total_projects"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:UserID" json:"projects,omitempty"`

	// IsFollowing indicates whether the requesting user follows this user.
	// Computed at query time for organization member listings.
	IsFollowing bool `gorm:"->;-:migration" json:"is_following,omitempty"`
}

// HasOrganization reports whether the user belongs to a non-empty organization.
func (u *User) HasOrganization() bool {
	return u.Organization != ""
}

// SameOrganization reports whether both users share the same non-empty
// organization value. This is the gate for follow/message/collaborator actions.
func (u *User) SameOrganization(other *User) bool {
	return u.HasOrganization() && u.Organization == other.Organization
}
