package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/internal/featureflags"
	"projecthub/internal/models"
	"projecthub/internal/notifications"
)

func newNotificationService(repo *notificationRepoStub, comments *commentRepoStub, users *userRepoStub, flags string) *NotificationService {
	if comments == nil {
		comments = noopCommentRepo()
	}
	if users == nil {
		users = usersByID()
	}
	return NewNotificationService(repo, comments, users, notifications.NewNotifier(nil), featureflags.NewManager(flags))
}

func TestNotify_SuppressesSelf(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := newNotificationService(repo, nil, nil, "")

	d := svc.Notify(context.Background(), 7, 7, models.NotificationLike, "", "", nil, nil)

	assert.NoError(t, d.Err)
	assert.Equal(t, uint(7), d.RecipientID)
	assert.Empty(t, repo.created, "self-notifications must not be persisted")
}

func TestNotify_PersistFailureReturnedNotRaised(t *testing.T) {
	boom := errors.New("insert failed")
	repo := &notificationRepoStub{
		createFn: func(_ context.Context, _ *models.Notification) error { return boom },
	}
	svc := newNotificationService(repo, nil, nil, "")

	d := svc.Notify(context.Background(), 2, 1, models.NotificationFollow, "", "", nil, nil)

	assert.Equal(t, uint(2), d.RecipientID)
	assert.ErrorIs(t, d.Err, boom)
}

func TestFanoutComment_OwnerAndPriorCommenters(t *testing.T) {
	repo := &notificationRepoStub{}
	comments := noopCommentRepo()
	comments.priorCommentersFn = func(_ context.Context, projectID uint, exclude []uint) ([]uint, error) {
		assert.Equal(t, uint(10), projectID)
		assert.ElementsMatch(t, []uint{3, 1}, exclude) // actor and owner
		return []uint{4, 5}, nil
	}
	svc := newNotificationService(repo, comments, nil, "")

	project := &models.Project{UserID: 1}
	project.ID = 10
	deliveries := svc.FanoutComment(context.Background(), project, 3, 77)

	require.Len(t, deliveries, 3)
	assert.ElementsMatch(t, []uint{1, 4, 5}, repo.recipients())
	for _, n := range repo.created {
		assert.Equal(t, models.NotificationComment, n.Type)
		require.NotNil(t, n.CommentID)
		assert.Equal(t, uint(77), *n.CommentID)
		if n.UserID == 1 {
			assert.Equal(t, "New comment on your project", n.Title)
		} else {
			assert.Equal(t, "New comment on a project you commented on", n.Title)
		}
	}
}

// Extra excluded IDs are forwarded to the prior-commenter lookup.
func TestFanoutComment_ExtraExclusions(t *testing.T) {
	repo := &notificationRepoStub{}
	comments := noopCommentRepo()
	comments.priorCommentersFn = func(_ context.Context, _ uint, exclude []uint) ([]uint, error) {
		assert.ElementsMatch(t, []uint{3, 1, 9}, exclude)
		return nil, nil
	}
	svc := newNotificationService(repo, comments, nil, "")

	project := &models.Project{UserID: 1}
	project.ID = 10
	svc.FanoutComment(context.Background(), project, 3, 77, 9)

	assert.Equal(t, []uint{1}, repo.recipients())
}

func TestFanoutComment_ActorIsOwner(t *testing.T) {
	repo := &notificationRepoStub{}
	comments := noopCommentRepo()
	comments.priorCommentersFn = func(_ context.Context, _ uint, _ []uint) ([]uint, error) {
		return []uint{4}, nil
	}
	svc := newNotificationService(repo, comments, nil, "")

	project := &models.Project{UserID: 1}
	project.ID = 10
	svc.FanoutComment(context.Background(), project, 1, 78)

	// Only the prior commenter is notified; the owner commented on their
	// own project and gets nothing.
	assert.Equal(t, []uint{4}, repo.recipients())
}

func TestFanoutComment_RecipientLookupError(t *testing.T) {
	boom := errors.New("query failed")
	repo := &notificationRepoStub{}
	comments := noopCommentRepo()
	comments.priorCommentersFn = func(_ context.Context, _ uint, _ []uint) ([]uint, error) {
		return nil, boom
	}
	svc := newNotificationService(repo, comments, nil, "")

	project := &models.Project{UserID: 1}
	project.ID = 10
	deliveries := svc.FanoutComment(context.Background(), project, 3, 79)

	// Owner notification still lands, the lookup failure is reported.
	assert.Equal(t, []uint{1}, repo.recipients())
	require.Len(t, deliveries, 2)
	assert.ErrorIs(t, deliveries[1].Err, boom)
}

func TestFanoutReply_SelfReplySuppressed(t *testing.T) {
	repo := &notificationRepoStub{}
	svc := newNotificationService(repo, nil, nil, "")

	project := &models.Project{UserID: 1}
	project.ID = 10
	parent := &models.Comment{UserID: 3}

	deliveries := svc.FanoutReply(context.Background(), project, parent, 3, 80)

	require.Len(t, deliveries, 1)
	assert.NoError(t, deliveries[0].Err)
	assert.Empty(t, repo.created)
}

func TestFanoutOrgProject_NotifiesMembers(t *testing.T) {
	repo := &notificationRepoStub{}
	users := usersByID(
		&models.User{ID: 1, Username: "ada", Name: "Ada", Organization: "acme"},
		&models.User{ID: 2, Username: "bob", Name: "Bob", Organization: "acme"},
		&models.User{ID: 3, Username: "cat", Name: "Cat", Organization: "acme"},
		&models.User{ID: 4, Username: "dan", Name: "Dan", Organization: "other"},
	)
	svc := newNotificationService(repo, nil, users, "")

	project := &models.Project{UserID: 1, Name: "Tracer", Organization: "acme", Privacy: models.PrivacyPublic}
	project.ID = 10
	deliveries := svc.FanoutOrgProject(context.Background(), project, 1)

	require.Len(t, deliveries, 2)
	assert.ElementsMatch(t, []uint{2, 3}, repo.recipients())
	for _, n := range repo.created {
		assert.Equal(t, models.NotificationOrgProject, n.Type)
		assert.Equal(t, "New project in your organization", n.Title)
		assert.Equal(t, `Ada created a new project "Tracer" in acme`, n.Message)
	}
}

func TestFanoutOrgProject_SkipsPrivateAndOrgless(t *testing.T) {
	repo := &notificationRepoStub{}
	users := usersByID(
		&models.User{ID: 1, Username: "ada", Organization: "acme"},
		&models.User{ID: 2, Username: "bob", Organization: "acme"},
	)
	svc := newNotificationService(repo, nil, users, "")

	private := &models.Project{UserID: 1, Organization: "acme", Privacy: models.PrivacyPrivate}
	private.ID = 10
	assert.Nil(t, svc.FanoutOrgProject(context.Background(), private, 1))

	orgless := &models.Project{UserID: 1, Privacy: models.PrivacyPublic}
	orgless.ID = 11
	assert.Nil(t, svc.FanoutOrgProject(context.Background(), orgless, 1))

	assert.Empty(t, repo.created)
}

func TestFanoutOrgProject_FlagDisables(t *testing.T) {
	repo := &notificationRepoStub{}
	users := usersByID(
		&models.User{ID: 1, Username: "ada", Organization: "acme"},
		&models.User{ID: 2, Username: "bob", Organization: "acme"},
	)
	svc := newNotificationService(repo, nil, users, featureflags.FlagOrgProjectFanout+"=off")

	project := &models.Project{UserID: 1, Organization: "acme", Privacy: models.PrivacyPublic}
	project.ID = 10
	assert.Nil(t, svc.FanoutOrgProject(context.Background(), project, 1))
	assert.Empty(t, repo.created)
}

func TestFanoutLike_SingleDeliveryToOwner(t *testing.T) {
	repo := &notificationRepoStub{}
	users := usersByID(&models.User{ID: 5, Username: "eve", Name: "Eve", Organization: "acme"})
	svc := newNotificationService(repo, nil, users, "")

	project := &models.Project{UserID: 9, Name: "Tracer"}
	project.ID = 42
	deliveries := svc.FanoutLike(context.Background(), project, 5)

	require.Len(t, deliveries, 1)
	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, uint(9), n.UserID)
	assert.Equal(t, uint(5), n.ActorID)
	assert.Equal(t, models.NotificationLike, n.Type)
	assert.Equal(t, "New like on your project", n.Title)
	assert.Equal(t, `Eve liked your project "Tracer"`, n.Message)
	require.NotNil(t, n.ProjectID)
	assert.Equal(t, uint(42), *n.ProjectID)
}

func TestMarkRead_NotOwnedIsNotFound(t *testing.T) {
	repo := &notificationRepoStub{
		markReadFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
	svc := newNotificationService(repo, nil, nil, "")

	err := svc.MarkRead(context.Background(), 1, 99)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))
}

func TestDelete_NotOwnedIsNotFound(t *testing.T) {
	repo := &notificationRepoStub{
		deleteFn: func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
	}
	svc := newNotificationService(repo, nil, nil, "")

	err := svc.Delete(context.Background(), 1, 99)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))
}
