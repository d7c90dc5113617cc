package repository

import (
	"context"

	"projecthub/internal/cache"
	"projecthub/internal/models"

	"gorm.io/gorm"
)

// ProjectQuery carries the knobs a feed or search query can combine.
// Predicates are applied as an AND list; zero values are skipped.
type ProjectQuery struct {
	// ViewerID is the authenticated user, 0 for anonymous.
	ViewerID uint
	// ViewerOrg is the viewer's organization, used for visibility.
	ViewerOrg string
	// OwnerID restricts results to a single author's projects.
	OwnerID uint
	// Search is a free-text term matched against name, tags, organization,
	// description and author name. Non-empty Search orders by relevance.
	Search string
	// WithViewerStats controls whether total_comments / user_liked are
	// computed. Feed handlers set this from the FEED_VIEWER_STATS mode.
	WithViewerStats bool

	Page  int
	Limit int
}

// ProjectRepository defines the interface for project data operations
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Project, error)
	List(ctx context.Context, q ProjectQuery) ([]*models.Project, int64, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, project *models.Project) error
	Like(ctx context.Context, userID, projectID uint) error
	Unlike(ctx context.Context, userID, projectID uint) (bool, error)
	IsLiked(ctx context.Context, userID, projectID uint) (bool, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts the project and bumps the author's total_projects counter
// in one transaction.
func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", project.UserID).
			UpdateColumn("total_projects", gorm.Expr("total_projects + 1")).Error
	})
	if err == nil {
		cache.InvalidatePublicFeed(ctx)
		cache.InvalidateUser(ctx, project.UserID)
	}
	return err
}

// applyProjectDetails adds subqueries computing read-side stats in a single
// query. user_liked is only meaningful for an authenticated viewer.
func applyProjectDetails(db *gorm.DB, viewerID uint, withStats bool) *gorm.DB {
	if !withStats {
		return db.Select("projects.*")
	}
	selectQuery := "projects.*, " +
		"users.username as author_username, users.name as author_name, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) as total_comments"
	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM project_likes WHERE project_likes.project_id = projects.id AND project_likes.user_id = ?) as user_liked",
			viewerID)
	}
	return db.Select(selectQuery + ", FALSE as user_liked")
}

// applyVisibility restricts rows to what the viewer may see: public
// projects, organization projects within the viewer's org, and the viewer's
// own projects regardless of privacy.
func applyVisibility(db *gorm.DB, viewerID uint, viewerOrg string) *gorm.DB {
	if viewerID == 0 {
		return db.Where("projects.privacy = ?", models.PrivacyPublic)
	}
	if viewerOrg == "" {
		return db.Where("projects.privacy = ? OR projects.user_id = ?", models.PrivacyPublic, viewerID)
	}
	return db.Where(
		"projects.privacy = ? OR (projects.privacy = ? AND projects.organization = ?) OR projects.user_id = ?",
		models.PrivacyPublic, models.PrivacyOrganization, viewerOrg, viewerID,
	)
}

// relevanceExpr scores a text match: name hits rank highest, then tags,
// organization, description and finally author name.
const relevanceExpr = "CASE " +
	"WHEN LOWER(projects.name) LIKE LOWER(?) THEN 5 " +
	"WHEN LOWER(projects.tags) LIKE LOWER(?) THEN 4 " +
	"WHEN LOWER(projects.organization) LIKE LOWER(?) THEN 3 " +
	"WHEN LOWER(projects.description) LIKE LOWER(?) THEN 2 " +
	"WHEN LOWER(users.name) LIKE LOWER(?) THEN 1 " +
	"ELSE 0 END"

func (r *projectRepository) baseQuery(ctx context.Context, q ProjectQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Project{}).
		Joins("JOIN users ON users.id = projects.user_id")
	db = applyVisibility(db, q.ViewerID, q.ViewerOrg)
	if q.OwnerID != 0 {
		db = db.Where("projects.user_id = ?", q.OwnerID)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where(
			"LOWER(projects.name) LIKE LOWER(?) OR LOWER(projects.tags) LIKE LOWER(?) OR "+
				"LOWER(projects.organization) LIKE LOWER(?) OR LOWER(projects.description) LIKE LOWER(?) OR "+
				"LOWER(users.name) LIKE LOWER(?)",
			like, like, like, like, like,
		)
	}
	return db
}

// selectColumns builds the SELECT list for a feed or search query.
func selectColumns(q ProjectQuery) (string, []interface{}) {
	cols := "projects.*, users.username as author_username, users.name as author_name"
	var args []interface{}

	if q.WithViewerStats {
		cols += ", (SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id) as total_comments"
		if q.ViewerID != 0 {
			cols += ", EXISTS(SELECT 1 FROM project_likes WHERE project_likes.project_id = projects.id AND project_likes.user_id = ?) as user_liked"
			args = append(args, q.ViewerID)
		} else {
			cols += ", FALSE as user_liked"
		}
	}

	if q.Search != "" {
		like := "%" + q.Search + "%"
		cols += ", " + relevanceExpr + " as relevance_score"
		args = append(args, like, like, like, like, like)
	}

	return cols, args
}

// feedPage is the cached shape of one anonymous feed page.
type feedPage struct {
	Projects []*models.Project `json:"projects"`
	Total    int64             `json:"total"`
}

func (r *projectRepository) List(ctx context.Context, q ProjectQuery) ([]*models.Project, int64, error) {
	// Only the plain anonymous feed is cached; anything viewer- or
	// query-specific goes straight to the database.
	if q.ViewerID == 0 && q.OwnerID == 0 && q.Search == "" {
		var page feedPage
		err := cache.Aside(ctx, cache.ProjectFeedKey(q.Page, q.Limit), &page, cache.ProjectFeedTTL, func() error {
			var fetchErr error
			page.Projects, page.Total, fetchErr = r.list(ctx, q)
			return fetchErr
		})
		if err != nil {
			return nil, 0, err
		}
		return page.Projects, page.Total, nil
	}
	return r.list(ctx, q)
}

func (r *projectRepository) list(ctx context.Context, q ProjectQuery) ([]*models.Project, int64, error) {
	var total int64
	if err := r.baseQuery(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	cols, args := selectColumns(q)
	db := r.baseQuery(ctx, q).Select(cols, args...)
	if q.Search != "" {
		db = db.Order("relevance_score DESC, projects.created_at DESC")
	} else {
		db = db.Order("projects.created_at DESC")
	}

	var projects []*models.Project
	err := db.Scopes(paginate(q.Page, q.Limit)).Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Project, error) {
	var project models.Project
	err := applyProjectDetails(
		r.db.WithContext(ctx).Model(&models.Project{}).
			Joins("JOIN users ON users.id = projects.user_id"),
		viewerID, true,
	).
		Preload("User").
		Where("projects.id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Save(project).Error; err != nil {
		return err
	}
	cache.InvalidateProject(ctx, project.ID)
	cache.InvalidatePublicFeed(ctx)
	return nil
}

// Delete removes the project with its likes, comments, comment likes and
// collaborator rows, and decrements the author's total_projects counter,
// all in one transaction.
func (r *projectRepository) Delete(ctx context.Context, project *models.Project) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN (SELECT id FROM comments WHERE project_id = ?)", project.ID).
			Delete(&models.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Collaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Project{}, project.ID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", project.UserID).
			UpdateColumn("total_projects", gorm.Expr("CASE WHEN total_projects > 0 THEN total_projects - 1 ELSE 0 END")).Error
	})
	if err == nil {
		cache.InvalidateProject(ctx, project.ID)
		cache.InvalidatePublicFeed(ctx)
		cache.InvalidateUser(ctx, project.UserID)
	}
	return err
}

// Like inserts the like row and bumps total_likes in one transaction.
// A duplicate like surfaces as gorm.ErrDuplicatedKey.
func (r *projectRepository) Like(ctx context.Context, userID, projectID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.ProjectLike{ProjectID: projectID, UserID: userID}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
	})
	if err == nil {
		cache.InvalidateProject(ctx, projectID)
	}
	return err
}

// Unlike removes the like row and decrements total_likes, clamping at zero.
// Returns false when there was no like to remove.
func (r *projectRepository) Unlike(ctx context.Context, userID, projectID uint) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND project_id = ?", userID, projectID).
			Delete(&models.ProjectLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Model(&models.Project{}).
			Where("id = ?", projectID).
			UpdateColumn("total_likes", gorm.Expr("CASE WHEN total_likes > 0 THEN total_likes - 1 ELSE 0 END")).Error
	})
	if err == nil && removed {
		cache.InvalidateProject(ctx, projectID)
	}
	return removed, err
}

func (r *projectRepository) IsLiked(ctx context.Context, userID, projectID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProjectLike{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
