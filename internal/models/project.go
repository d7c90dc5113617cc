package models

import "time"

// Project privacy levels. "organization" projects are visible to members of
// the owner's organization; "private" projects only to the owner and
// collaborators.
const (
	PrivacyPublic       = "public"
	PrivacyOrganization = "organization"
	PrivacyPrivate      = "private"
)

// Project is a shared project posting. TotalLikes and TotalComments are
// denormalized counters maintained in the same transaction as the
// corresponding like/comment row changes.
type Project struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Tags         string    `json:"tags,omitempty"`
	RepoURL      string    `json:"repo_url,omitempty"`
	DemoURL      string    `json:"demo_url,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Organization string    `gorm:"index" json:"organization,omitempty"`
	Privacy      string    `gorm:"type:varchar(20);not null;default:public" json:"privacy"`
	TotalLikes   int       `gorm:"default:0" json:"total_likes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User          *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Comments      []Comment      `gorm:"foreignKey:ProjectID" json:"comments,omitempty"`
	Collaborators []Collaborator `gorm:"foreignKey:ProjectID" json:"collaborators,omitempty"`

	// Read-side fields populated by feed and search queries.
	AuthorUsername string `gorm:"->;-:migration" json:"author_username,omitempty"`
	AuthorName     string `gorm:"->;-:migration" json:"author_name,omitempty"`
	TotalComments  int64  `gorm:"->;-:migration" json:"total_comments"`
	UserLiked      bool   `gorm:"->;-:migration" json:"user_liked"`
	RelevanceScore int    `gorm:"->;-:migration" json:"-"`
}

// VisibleTo reports whether the project is visible to the given viewer.
// A nil viewer sees only public projects.
func (p *Project) VisibleTo(viewer *User) bool {
	switch p.Privacy {
	case PrivacyPublic:
		return true
	case PrivacyOrganization:
		return viewer != nil && viewer.Organization != "" && viewer.Organization == p.Organization
	case PrivacyPrivate:
		return viewer != nil && viewer.ID == p.UserID
	}
	return false
}

// ValidPrivacy reports whether s is one of the recognized privacy levels.
func ValidPrivacy(s string) bool {
	return s == PrivacyPublic || s == PrivacyOrganization || s == PrivacyPrivate
}
