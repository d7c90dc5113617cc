package service

import (
	"context"

	"gorm.io/gorm"

	"projecthub/internal/models"
	"projecthub/internal/repository"
)

var errNotFound = gorm.ErrRecordNotFound

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByIdentFn    func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listByOrgFn     func(context.Context, string, uint, int, int) ([]*models.User, int64, error)
	orgMemberIDsFn  func(context.Context, string, uint) ([]uint, error)
	searchByOrgFn   func(context.Context, string, string, uint, int, int) ([]*models.User, int64, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	return s.getByIdentFn(ctx, identifier)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return errNotFound
	}
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) ListByOrganization(ctx context.Context, org string, currentUserID uint, page, limit int) ([]*models.User, int64, error) {
	return s.listByOrgFn(ctx, org, currentUserID, page, limit)
}
func (s *userRepoStub) OrgMemberIDs(ctx context.Context, org string, exclude uint) ([]uint, error) {
	return s.orgMemberIDsFn(ctx, org, exclude)
}
func (s *userRepoStub) SearchByOrganization(ctx context.Context, org, query string, currentUserID uint, page, limit int) ([]*models.User, int64, error) {
	return s.searchByOrgFn(ctx, org, query, currentUserID, page, limit)
}

// usersByID seeds a stub resolving users from a fixed map.
func usersByID(users ...*models.User) *userRepoStub {
	byID := make(map[uint]*models.User, len(users))
	byName := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
		byName[u.Username] = u
	}
	lookupByID := func(_ context.Context, id uint) (*models.User, error) {
		if u, ok := byID[id]; ok {
			return u, nil
		}
		return nil, errNotFound
	}
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: lookupByID,
		getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			if u, ok := byName[name]; ok {
				return u, nil
			}
			return nil, errNotFound
		},
		getByIdentFn: func(_ context.Context, ident string) (*models.User, error) {
			if u, ok := byName[ident]; ok {
				return u, nil
			}
			return nil, errNotFound
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		listByOrgFn: func(_ context.Context, _ string, _ uint, _, _ int) ([]*models.User, int64, error) {
			return nil, 0, nil
		},
		orgMemberIDsFn: func(_ context.Context, org string, exclude uint) ([]uint, error) {
			var ids []uint
			for _, u := range users {
				if u.Organization == org && u.ID != exclude {
					ids = append(ids, u.ID)
				}
			}
			return ids, nil
		},
		searchByOrgFn: func(_ context.Context, _, _ string, _ uint, _, _ int) ([]*models.User, int64, error) {
			return nil, 0, nil
		},
	}
}

// projectRepoStub is a stub for repository.ProjectRepository.
type projectRepoStub struct {
	createFn  func(context.Context, *models.Project) error
	getByIDFn func(context.Context, uint, uint) (*models.Project, error)
	listFn    func(context.Context, repository.ProjectQuery) ([]*models.Project, int64, error)
	updateFn  func(context.Context, *models.Project) error
	deleteFn  func(context.Context, *models.Project) error
	likeFn    func(context.Context, uint, uint) error
	unlikeFn  func(context.Context, uint, uint) (bool, error)
	isLikedFn func(context.Context, uint, uint) (bool, error)
}

func (s *projectRepoStub) Create(ctx context.Context, project *models.Project) error {
	return s.createFn(ctx, project)
}
func (s *projectRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Project, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *projectRepoStub) List(ctx context.Context, q repository.ProjectQuery) ([]*models.Project, int64, error) {
	return s.listFn(ctx, q)
}
func (s *projectRepoStub) Update(ctx context.Context, project *models.Project) error {
	return s.updateFn(ctx, project)
}
func (s *projectRepoStub) Delete(ctx context.Context, project *models.Project) error {
	return s.deleteFn(ctx, project)
}
func (s *projectRepoStub) Like(ctx context.Context, userID, projectID uint) error {
	return s.likeFn(ctx, userID, projectID)
}
func (s *projectRepoStub) Unlike(ctx context.Context, userID, projectID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, projectID)
}
func (s *projectRepoStub) IsLiked(ctx context.Context, userID, projectID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, projectID)
}

func noopProjectRepo() *projectRepoStub {
	return &projectRepoStub{
		createFn:  func(_ context.Context, _ *models.Project) error { return nil },
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Project, error) { return &models.Project{}, nil },
		listFn: func(_ context.Context, _ repository.ProjectQuery) ([]*models.Project, int64, error) {
			return nil, 0, nil
		},
		updateFn:  func(_ context.Context, _ *models.Project) error { return nil },
		deleteFn:  func(_ context.Context, _ *models.Project) error { return nil },
		likeFn:    func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:  func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isLikedFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn          func(context.Context, *models.Comment) error
	getByIDFn         func(context.Context, uint) (*models.Comment, error)
	listByProjectFn   func(context.Context, uint, uint, int, int) ([]*models.Comment, int64, error)
	updateFn          func(context.Context, *models.Comment) error
	deleteFn          func(context.Context, *models.Comment) error
	likeFn            func(context.Context, uint, uint) error
	unlikeFn          func(context.Context, uint, uint) (bool, error)
	priorCommentersFn func(context.Context, uint, []uint) ([]uint, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByProject(ctx context.Context, projectID, viewerID uint, page, limit int) ([]*models.Comment, int64, error) {
	return s.listByProjectFn(ctx, projectID, viewerID, page, limit)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}
func (s *commentRepoStub) Like(ctx context.Context, userID, commentID uint) error {
	return s.likeFn(ctx, userID, commentID)
}
func (s *commentRepoStub) Unlike(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, commentID)
}
func (s *commentRepoStub) PriorCommenters(ctx context.Context, projectID uint, exclude []uint) ([]uint, error) {
	return s.priorCommentersFn(ctx, projectID, exclude)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByProjectFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		updateFn:          func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:          func(_ context.Context, _ *models.Comment) error { return nil },
		likeFn:            func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:          func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		priorCommentersFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
	}
}

// notificationRepoStub records created notifications in memory.
type notificationRepoStub struct {
	created      []*models.Notification
	createFn     func(context.Context, *models.Notification) error
	listByUserFn func(context.Context, uint, bool, int, int) ([]*models.Notification, int64, error)
	markReadFn   func(context.Context, uint, uint) (bool, error)
	markAllFn    func(context.Context, uint) error
	countFn      func(context.Context, uint) (int64, error)
	deleteFn     func(context.Context, uint, uint) (bool, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	if s.createFn != nil {
		if err := s.createFn(ctx, n); err != nil {
			return err
		}
	}
	s.created = append(s.created, n)
	return nil
}
func (s *notificationRepoStub) ListByUser(ctx context.Context, userID uint, unreadOnly bool, page, limit int) ([]*models.Notification, int64, error) {
	if s.listByUserFn != nil {
		return s.listByUserFn(ctx, userID, unreadOnly, page, limit)
	}
	return nil, 0, nil
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, userID, notificationID uint) (bool, error) {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return true, nil
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, userID uint) error {
	if s.markAllFn != nil {
		return s.markAllFn(ctx, userID)
	}
	return nil
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	if s.countFn != nil {
		return s.countFn(ctx, userID)
	}
	return 0, nil
}
func (s *notificationRepoStub) Delete(ctx context.Context, userID, notificationID uint) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, notificationID)
	}
	return true, nil
}

// recipients extracts the recipient IDs of all recorded notifications.
func (s *notificationRepoStub) recipients() []uint {
	out := make([]uint, 0, len(s.created))
	for _, n := range s.created {
		out = append(out, n.UserID)
	}
	return out
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn      func(context.Context, *models.Follow) error
	deleteFn      func(context.Context, uint, uint) (bool, error)
	isFollowingFn func(context.Context, uint, uint) (bool, error)
	followersFn   func(context.Context, uint, int, int) ([]*models.User, int64, error)
	followingFn   func(context.Context, uint, int, int) ([]*models.User, int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, follow *models.Follow) error {
	return s.createFn(ctx, follow)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint, page, limit int) ([]*models.User, int64, error) {
	return s.followersFn(ctx, userID, page, limit)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint, page, limit int) ([]*models.User, int64, error) {
	return s.followingFn(ctx, userID, page, limit)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:      func(_ context.Context, _ *models.Follow) error { return nil },
		deleteFn:      func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		isFollowingFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		followersFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.User, int64, error) { return nil, 0, nil },
		followingFn:   func(_ context.Context, _ uint, _, _ int) ([]*models.User, int64, error) { return nil, 0, nil },
	}
}

// collaboratorRepoStub is a stub for repository.CollaboratorRepository.
type collaboratorRepoStub struct {
	addFn            func(context.Context, *models.Collaborator) error
	removeFn         func(context.Context, uint, uint) (bool, error)
	listByProjectFn  func(context.Context, uint) ([]*models.Collaborator, error)
	isCollaboratorFn func(context.Context, uint, uint) (bool, error)
	projectsForFn    func(context.Context, uint, int, int) ([]*models.Project, int64, error)
}

func (s *collaboratorRepoStub) Add(ctx context.Context, c *models.Collaborator) error {
	return s.addFn(ctx, c)
}
func (s *collaboratorRepoStub) Remove(ctx context.Context, projectID, userID uint) (bool, error) {
	return s.removeFn(ctx, projectID, userID)
}
func (s *collaboratorRepoStub) ListByProject(ctx context.Context, projectID uint) ([]*models.Collaborator, error) {
	return s.listByProjectFn(ctx, projectID)
}
func (s *collaboratorRepoStub) IsCollaborator(ctx context.Context, projectID, userID uint) (bool, error) {
	return s.isCollaboratorFn(ctx, projectID, userID)
}
func (s *collaboratorRepoStub) ListProjectsForUser(ctx context.Context, userID uint, page, limit int) ([]*models.Project, int64, error) {
	return s.projectsForFn(ctx, userID, page, limit)
}

func noopCollaboratorRepo() *collaboratorRepoStub {
	return &collaboratorRepoStub{
		addFn:            func(_ context.Context, _ *models.Collaborator) error { return nil },
		removeFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listByProjectFn:  func(_ context.Context, _ uint) ([]*models.Collaborator, error) { return nil, nil },
		isCollaboratorFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		projectsForFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Project, int64, error) {
			return nil, 0, nil
		},
	}
}

// messageRepoStub is a stub for repository.MessageRepository.
type messageRepoStub struct {
	createFn        func(context.Context, *models.Message) error
	conversationsFn func(context.Context, uint) ([]models.ConversationSummary, error)
	threadFn        func(context.Context, uint, uint, int, int) ([]*models.Message, int64, error)
	markReadFn      func(context.Context, uint, uint) error
	markOneReadFn   func(context.Context, uint, uint) error
	deleteFn        func(context.Context, uint, uint) error
	countUnreadFn   func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, m *models.Message) error {
	return s.createFn(ctx, m)
}
func (s *messageRepoStub) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	return s.conversationsFn(ctx, userID)
}
func (s *messageRepoStub) Thread(ctx context.Context, userID, otherID uint, page, limit int) ([]*models.Message, int64, error) {
	return s.threadFn(ctx, userID, otherID, page, limit)
}
func (s *messageRepoStub) MarkThreadRead(ctx context.Context, userID, otherID uint) error {
	return s.markReadFn(ctx, userID, otherID)
}
func (s *messageRepoStub) MarkRead(ctx context.Context, messageID, recipientID uint) error {
	if s.markOneReadFn == nil {
		return errNotFound
	}
	return s.markOneReadFn(ctx, messageID, recipientID)
}
func (s *messageRepoStub) Delete(ctx context.Context, messageID, senderID uint) error {
	if s.deleteFn == nil {
		return errNotFound
	}
	return s.deleteFn(ctx, messageID, senderID)
}
func (s *messageRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn: func(_ context.Context, _ *models.Message) error { return nil },
		conversationsFn: func(_ context.Context, _ uint) ([]models.ConversationSummary, error) {
			return nil, nil
		},
		threadFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Message, int64, error) {
			return nil, 0, nil
		},
		markReadFn:    func(_ context.Context, _, _ uint) error { return nil },
		countUnreadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// todoRepoStub is a stub for repository.TodoRepository.
type todoRepoStub struct {
	createFn     func(context.Context, *models.TodoItem) error
	getByIDFn    func(context.Context, uint) (*models.TodoItem, error)
	listByUserFn func(context.Context, uint) ([]*models.TodoItem, error)
	updateFn     func(context.Context, *models.TodoItem) error
	deleteFn     func(context.Context, uint) error
}

func (s *todoRepoStub) Create(ctx context.Context, item *models.TodoItem) error {
	return s.createFn(ctx, item)
}
func (s *todoRepoStub) GetByID(ctx context.Context, id uint) (*models.TodoItem, error) {
	return s.getByIDFn(ctx, id)
}
func (s *todoRepoStub) ListByUser(ctx context.Context, userID uint) ([]*models.TodoItem, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *todoRepoStub) Update(ctx context.Context, item *models.TodoItem) error {
	return s.updateFn(ctx, item)
}
func (s *todoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
