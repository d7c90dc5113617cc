// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"projecthub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how the seeder behaves.
type Options struct {
	NumUsers    int
	NumProjects int
	ShouldClean bool
	// SkipBcrypt stores plaintext passwords instead of hashing. Much faster
	// for large seeds; never use outside local development.
	SkipBcrypt bool
	// DryRun builds entities without writing them.
	DryRun bool
	// MaxDays spreads created_at timestamps over the past N days.
	MaxDays int
}

// DefaultOptions are the values used by the seeder CLI when no flags are set.
func DefaultOptions() Options {
	return Options{NumUsers: 40, NumProjects: 120, ShouldClean: true, MaxDays: 90}
}

var (
	organizations = []string{
		"acme-labs", "northwind", "initech", "hooli", "globex",
	}

	positions = []string{
		models.PositionStudent, models.PositionTeacher, models.PositionOther,
	}

	projectTopics = []string{
		"Compiler", "Scheduler", "Dashboard", "Crawler", "Sandbox",
		"Notebook", "Pipeline", "Playground", "Tracker", "Visualizer",
		"Simulator", "Benchmark", "Archive", "Planner", "Gateway",
	}

	projectQualifiers = []string{
		"Tiny", "Realtime", "Distributed", "Offline-first", "Self-hosted",
		"Minimal", "Modular", "Experimental", "Collaborative", "Open",
	}

	tagPool = []string{
		"go", "rust", "python", "typescript", "react", "postgres", "redis",
		"ml", "compilers", "networking", "cli", "webdev", "gamedev", "data",
	}

	commentOpeners = []string{
		"Really like the approach here.",
		"Have you considered caching the intermediate results?",
		"This is exactly what our team needed.",
		"Nice work, the demo is impressive.",
		"How does this handle concurrent writes?",
		"Starred. Would love to contribute.",
		"The tag choices are spot on.",
		"Clean architecture, easy to follow.",
	}

	replyOpeners = []string{
		"Thanks! That's on the roadmap.",
		"Good question, I'll write it up in the README.",
		"Agreed, PRs welcome.",
		"It uses optimistic locking under the hood.",
		"Appreciate the feedback.",
	}

	messageLines = []string{
		"Hey, do you have a minute to look at my project?",
		"The build is green again, thanks for the fix.",
		"Want to pair on the search ranking tomorrow?",
		"I added you as a collaborator on the tracker.",
		"Can you review my latest changes?",
		"Meeting moved to 3pm.",
	}

	todoLines = []string{
		"Write README for the new project",
		"Fix flaky pagination test",
		"Reply to comments on the dashboard project",
		"Prepare demo for Friday",
		"Clean up stale branches",
		"Add screenshots to the project page",
	}
)

// Factory builds domain entities and persists them. It is a thin helper
// used by the seeder and by tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter for DryRun mode
	nextID uint
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{db: db, opts: opts, nextID: 1000}
}

func (f *Factory) backdated() time.Time {
	daysBack := rand.Intn(f.opts.MaxDays)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(rand.Intn(24)) * time.Hour).
		Add(-time.Duration(rand.Intn(60)) * time.Minute)
}

// CreateUser constructs and persists a sample user. Roughly a third of the
// generated users have no organization so the org-gated paths stay exercised.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username: strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(10, 99)),
		Email:    gofakeit.Email(),
		Name:     gofakeit.Name(),
		Position: positions[rand.Intn(len(positions))],
	}
	if rand.Intn(3) != 0 {
		user.Organization = organizations[rand.Intn(len(organizations))]
	}
	if rand.Intn(2) == 0 {
		user.GithubURL = "https://github.com/" + user.Username
	}
	user.CreatedAt = f.backdated()

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s (%s)", user.Username, user.Organization)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildProject constructs a project for the given owner without persisting
// it. Privacy is weighted toward public; organization and private projects
// are only generated when the owner can actually hold them.
func (f *Factory) BuildProject(owner *models.User, overrides ...func(*models.Project)) *models.Project {
	name := fmt.Sprintf("%s %s",
		projectQualifiers[rand.Intn(len(projectQualifiers))],
		projectTopics[rand.Intn(len(projectTopics))])

	tags := make([]string, 0, 3)
	for _, t := range rand.Perm(len(tagPool))[:1+rand.Intn(3)] {
		tags = append(tags, tagPool[t])
	}

	project := &models.Project{
		UserID:      owner.ID,
		Name:        name,
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Tags:        strings.Join(tags, ","),
		Privacy:     models.PrivacyPublic,
		CreatedAt:   f.backdated(),
	}
	if rand.Intn(2) == 0 {
		project.RepoURL = "https://github.com/" + owner.Username + "/" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	}

	switch r := rand.Intn(10); {
	case r < 2 && owner.HasOrganization():
		project.Privacy = models.PrivacyOrganization
	case r < 3:
		project.Privacy = models.PrivacyPrivate
	}
	if owner.HasOrganization() {
		project.Organization = owner.Organization
	}

	for _, override := range overrides {
		override(project)
	}
	return project
}

// CreateProjectsBatch persists multiple projects in a single call and bumps
// each owner's denormalized project counter.
func (f *Factory) CreateProjectsBatch(projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range projects {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreateProjectsBatch: %d projects (no DB write)", len(projects))
		return nil
	}
	return f.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&projects).Error; err != nil {
			return err
		}
		counts := map[uint]int{}
		for _, p := range projects {
			counts[p.UserID]++
		}
		for userID, n := range counts {
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				UpdateColumn("total_projects", gorm.Expr("total_projects + ?", n)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateComment persists a comment, or a reply when parent is non-nil.
func (f *Factory) CreateComment(author *models.User, project *models.Project, parent *models.Comment) (*models.Comment, error) {
	comment := &models.Comment{
		ProjectID: project.ID,
		UserID:    author.ID,
		Content:   commentOpeners[rand.Intn(len(commentOpeners))],
		CreatedAt: f.backdated(),
	}
	if parent != nil {
		comment.ParentID = &parent.ID
		comment.Content = replyOpeners[rand.Intn(len(replyOpeners))]
	}
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
