package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projecthub/internal/featureflags"
	"projecthub/internal/models"
	"projecthub/internal/notifications"
)

func newMessageService(messages *messageRepoStub, users *userRepoStub, flags string) (*MessageService, *notificationRepoStub) {
	if messages == nil {
		messages = noopMessageRepo()
	}
	if users == nil {
		users = usersByID()
	}
	notifRepo := &notificationRepoStub{}
	notifSvc := NewNotificationService(notifRepo, noopCommentRepo(), users, notifications.NewNotifier(nil), featureflags.NewManager(""))
	return NewMessageService(messages, users, notifSvc, featureflags.NewManager(flags)), notifRepo
}

func orgPair() *userRepoStub {
	return usersByID(
		&models.User{ID: 1, Username: "ada", Organization: "acme"},
		&models.User{ID: 2, Username: "bob", Organization: "acme"},
		&models.User{ID: 3, Username: "cat", Organization: "other"},
		&models.User{ID: 4, Username: "dan"},
	)
}

func TestSendMessage_Validation(t *testing.T) {
	svc, _ := newMessageService(nil, orgPair(), "")

	_, err := svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 2, Content: "  "})
	assert.Equal(t, 400, models.StatusFor(err))

	_, err = svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 1, Content: "hi"})
	assert.Equal(t, 400, models.StatusFor(err))
}

func TestSendMessage_OrgGate(t *testing.T) {
	svc, _ := newMessageService(nil, orgPair(), "")

	_, err := svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 3, Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, 403, models.StatusFor(err), "cross-org messaging blocked")

	_, err = svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 4, Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, 403, models.StatusFor(err), "org-less receiver blocked")

	_, err = svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 42, Content: "hi"})
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err), "unknown receiver")
}

func TestSendMessage_PersistsAndNotifies(t *testing.T) {
	var saved *models.Message
	messages := noopMessageRepo()
	messages.createFn = func(_ context.Context, m *models.Message) error {
		saved = m
		return nil
	}
	svc, notifRepo := newMessageService(messages, orgPair(), "")

	out, err := svc.SendMessage(context.Background(), SendMessageInput{SenderID: 1, ReceiverID: 2, Content: "lunch?"})
	require.NoError(t, err)
	assert.Equal(t, saved, out)
	assert.Equal(t, uint(1), out.SenderID)
	assert.Equal(t, uint(2), out.ReceiverID)

	require.Len(t, notifRepo.created, 1)
	assert.Equal(t, uint(2), notifRepo.created[0].UserID)
	assert.Equal(t, models.NotificationMessage, notifRepo.created[0].Type)
}

func TestGetThread_OrgGateAndMarkRead(t *testing.T) {
	marked := false
	messages := noopMessageRepo()
	messages.markReadFn = func(_ context.Context, userID, otherID uint) error {
		marked = true
		assert.Equal(t, uint(1), userID)
		assert.Equal(t, uint(2), otherID)
		return nil
	}
	svc, _ := newMessageService(messages, orgPair(), "")

	_, _, err := svc.GetThread(context.Background(), 1, 3, 1, 20)
	require.Error(t, err)
	assert.Equal(t, 403, models.StatusFor(err))
	assert.False(t, marked)

	_, _, err = svc.GetThread(context.Background(), 1, 2, 1, 20)
	require.NoError(t, err)
	assert.True(t, marked, "reading a thread marks the counterpart's messages read")
}

func TestListConversations_FlagOffHitsRepoEveryTime(t *testing.T) {
	calls := 0
	messages := noopMessageRepo()
	messages.conversationsFn = func(_ context.Context, _ uint) ([]models.ConversationSummary, error) {
		calls++
		return []models.ConversationSummary{{CounterpartID: 2}}, nil
	}
	svc, _ := newMessageService(messages, orgPair(), "")

	for i := 0; i < 2; i++ {
		out, err := svc.ListConversations(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, out, 1)
	}
	assert.Equal(t, 2, calls)
}

func TestListConversations_FlagOnStillServesWithoutRedis(t *testing.T) {
	// With the cache flag on but no Redis configured, the cache-aside path
	// degrades to a direct repository read.
	messages := noopMessageRepo()
	messages.conversationsFn = func(_ context.Context, _ uint) ([]models.ConversationSummary, error) {
		return []models.ConversationSummary{{CounterpartID: 2, UnreadCount: 3}}, nil
	}
	svc, _ := newMessageService(messages, orgPair(), featureflags.FlagConversationCache+"=on")

	out, err := svc.ListConversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), out[0].UnreadCount)
}

func TestMarkMessageRead_NotRecipientIsNotFound(t *testing.T) {
	repo := noopMessageRepo()
	repo.markOneReadFn = func(_ context.Context, messageID, recipientID uint) error {
		if recipientID != 2 {
			return errNotFound
		}
		return nil
	}
	svc, _ := newMessageService(repo, nil, "")

	err := svc.MarkMessageRead(context.Background(), 9, 10)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))

	assert.NoError(t, svc.MarkMessageRead(context.Background(), 2, 10))
}

func TestDeleteMessage_NotSenderIsNotFound(t *testing.T) {
	repo := noopMessageRepo()
	repo.deleteFn = func(_ context.Context, messageID, senderID uint) error {
		if senderID != 1 {
			return errNotFound
		}
		return nil
	}
	svc, _ := newMessageService(repo, nil, "")

	err := svc.DeleteMessage(context.Background(), 3, 10)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusFor(err))

	assert.NoError(t, svc.DeleteMessage(context.Background(), 1, 10))
}
