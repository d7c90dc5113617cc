package seed

import (
	"fmt"
	"log"
	"math/rand"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// Seeder populates the database with a realistic mesh of users, projects and
// social activity. All generated users share the password "password123".
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes every seeded row. Tables are truncated child-first so
// foreign keys never dangle mid-way.
func (s *Seeder) ClearAll() error {
	tables := []interface{}{
		&models.Notification{},
		&models.Message{},
		&models.CommentLike{},
		&models.ProjectLike{},
		&models.Comment{},
		&models.Collaborator{},
		&models.Follow{},
		&models.TodoItem{},
		&models.Project{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("Database cleared")
	return nil
}

// SeedCommunity creates the user base: a spread of positions and
// organizations, plus follow edges between members of the same organization.
func (s *Seeder) SeedCommunity() ([]*models.User, error) {
	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	byOrg := map[string][]*models.User{}
	for _, u := range users {
		if u.HasOrganization() {
			byOrg[u.Organization] = append(byOrg[u.Organization], u)
		}
	}

	follows := 0
	for _, members := range byOrg {
		for _, follower := range members {
			for _, followed := range members {
				if follower.ID == followed.ID || rand.Intn(3) != 0 {
					continue
				}
				edge := &models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}
				if s.opts.DryRun {
					follows++
					continue
				}
				if err := s.db.Create(edge).Error; err != nil {
					return nil, fmt.Errorf("creating follow: %w", err)
				}
				follows++
			}
		}
	}
	log.Printf("Created %d follow edges", follows)
	return users, nil
}

// SeedActivity creates projects for the community and layers engagement on
// top of them: comments with replies, likes with counter updates,
// collaborators on organization projects, messages between colleagues and a
// handful of private to-dos per user.
func (s *Seeder) SeedActivity(users []*models.User) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to seed activity for")
	}

	projects := make([]*models.Project, 0, s.opts.NumProjects)
	for i := 0; i < s.opts.NumProjects; i++ {
		owner := users[rand.Intn(len(users))]
		projects = append(projects, s.factory.BuildProject(owner))
	}
	if err := s.factory.CreateProjectsBatch(projects); err != nil {
		return fmt.Errorf("creating projects: %w", err)
	}
	log.Printf("Created %d projects", len(projects))

	if err := s.seedComments(users, projects); err != nil {
		return err
	}
	if err := s.seedLikes(users, projects); err != nil {
		return err
	}
	if err := s.seedCollaborators(users, projects); err != nil {
		return err
	}
	if err := s.seedMessages(users); err != nil {
		return err
	}
	return s.seedTodos(users)
}

func (s *Seeder) seedComments(users []*models.User, projects []*models.Project) error {
	total := 0
	for _, project := range projects {
		if project.Privacy != models.PrivacyPublic {
			continue
		}
		for i := 0; i < rand.Intn(4); i++ {
			author := users[rand.Intn(len(users))]
			comment, err := s.factory.CreateComment(author, project, nil)
			if err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			total++
			if rand.Intn(3) == 0 {
				replier := users[rand.Intn(len(users))]
				if _, err := s.factory.CreateComment(replier, project, comment); err != nil {
					return fmt.Errorf("creating reply: %w", err)
				}
				total++
			}
		}
	}
	log.Printf("Created %d comments", total)
	return nil
}

func (s *Seeder) seedLikes(users []*models.User, projects []*models.Project) error {
	if s.opts.DryRun {
		return nil
	}
	total := 0
	for _, project := range projects {
		if project.Privacy != models.PrivacyPublic {
			continue
		}
		liked := rand.Perm(len(users))[:rand.Intn(len(users)/2+1)]
		for _, idx := range liked {
			like := &models.ProjectLike{ProjectID: project.ID, UserID: users[idx].ID}
			err := s.db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(like).Error; err != nil {
					return err
				}
				return tx.Model(&models.Project{}).Where("id = ?", project.ID).
					UpdateColumn("total_likes", gorm.Expr("total_likes + 1")).Error
			})
			if err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
			total++
		}
	}
	log.Printf("Created %d likes", total)
	return nil
}

func (s *Seeder) seedCollaborators(users []*models.User, projects []*models.Project) error {
	if s.opts.DryRun {
		return nil
	}
	byID := map[uint]*models.User{}
	for _, u := range users {
		byID[u.ID] = u
	}
	total := 0
	for _, project := range projects {
		owner := byID[project.UserID]
		if owner == nil || !owner.HasOrganization() || rand.Intn(3) != 0 {
			continue
		}
		for _, candidate := range users {
			if candidate.ID == owner.ID || !candidate.SameOrganization(owner) || rand.Intn(4) != 0 {
				continue
			}
			collab := &models.Collaborator{ProjectID: project.ID, UserID: candidate.ID}
			if err := s.db.Create(collab).Error; err != nil {
				return fmt.Errorf("creating collaborator: %w", err)
			}
			total++
		}
	}
	log.Printf("Created %d collaborators", total)
	return nil
}

func (s *Seeder) seedMessages(users []*models.User) error {
	if s.opts.DryRun {
		return nil
	}
	total := 0
	for _, sender := range users {
		if !sender.HasOrganization() {
			continue
		}
		for _, receiver := range users {
			if receiver.ID == sender.ID || !receiver.SameOrganization(sender) || rand.Intn(5) != 0 {
				continue
			}
			for i := 0; i < 1+rand.Intn(3); i++ {
				msg := &models.Message{
					SenderID:   sender.ID,
					ReceiverID: receiver.ID,
					Content:    messageLines[rand.Intn(len(messageLines))],
					Read:       rand.Intn(2) == 0,
				}
				if err := s.db.Create(msg).Error; err != nil {
					return fmt.Errorf("creating message: %w", err)
				}
				total++
			}
		}
	}
	log.Printf("Created %d messages", total)
	return nil
}

func (s *Seeder) seedTodos(users []*models.User) error {
	if s.opts.DryRun {
		return nil
	}
	total := 0
	for _, user := range users {
		for i := 0; i < rand.Intn(4); i++ {
			todo := &models.TodoItem{
				UserID:  user.ID,
				Content: todoLines[rand.Intn(len(todoLines))],
				Done:    rand.Intn(3) == 0,
			}
			if err := s.db.Create(todo).Error; err != nil {
				return fmt.Errorf("creating todo: %w", err)
			}
			total++
		}
	}
	log.Printf("Created %d todos", total)
	return nil
}
