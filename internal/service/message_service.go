package service

import (
	"context"
	"errors"
	"strings"

	"projecthub/internal/cache"
	"projecthub/internal/featureflags"
	"projecthub/internal/models"
	"projecthub/internal/observability"
	"projecthub/internal/repository"

	"gorm.io/gorm"
)

const maxMessageLen = 5000

// MessageService handles direct messaging. Messaging is organization-gated:
// both users must belong to the same non-empty organization.
type MessageService struct {
	messageRepo   repository.MessageRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
	flags         *featureflags.Manager
}

type SendMessageInput struct {
	SenderID   uint
	ReceiverID uint
	Content    string
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	flags *featureflags.Manager,
) *MessageService {
	return &MessageService{
		messageRepo:   messageRepo,
		userRepo:      userRepo,
		notifications: notifications,
		flags:         flags,
	}
}

// requireSameOrg loads both users and enforces the organization gate.
func (s *MessageService) requireSameOrg(ctx context.Context, userID, otherID uint) (*models.User, *models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("User", otherID)
		}
		return nil, nil, models.NewInternalError(err)
	}
	if !user.SameOrganization(other) {
		return nil, nil, models.NewForbiddenError("Messaging requires both users to be in the same organization")
	}
	return user, other, nil
}

func (s *MessageService) SendMessage(ctx context.Context, in SendMessageInput) (*models.Message, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Message content is required")
	}
	if len(in.Content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 5000 characters)")
	}
	if in.SenderID == in.ReceiverID {
		return nil, models.NewValidationError("Cannot message yourself")
	}

	if _, _, err := s.requireSameOrg(ctx, in.SenderID, in.ReceiverID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Content:    in.Content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, models.NewInternalError(err)
	}

	observability.MessagesSent.Inc()
	cache.InvalidateConversations(ctx, in.SenderID)
	cache.InvalidateConversations(ctx, in.ReceiverID)

	// Best effort; delivery failures never fail the send.
	s.notifications.FanoutMessage(ctx, in.ReceiverID, in.SenderID, message.Content)

	return message, nil
}

// ListConversations returns the user's conversation list, optionally served
// from cache when the conversation_cache flag is on.
func (s *MessageService) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary

	if s.flags.EnabledOr(featureflags.FlagConversationCache, userID, false) {
		err := cache.Aside(ctx, cache.ConversationsKey(userID), &summaries, cache.ConversationsTTL, func() error {
			var err error
			summaries, err = s.messageRepo.ListConversations(ctx, userID)
			return err
		})
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		return summaries, nil
	}

	summaries, err := s.messageRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}

// GetThread returns the message history with another same-org user and marks
// that counterpart's messages as read.
func (s *MessageService) GetThread(ctx context.Context, userID, otherID uint, page, limit int) ([]*models.Message, int64, error) {
	if _, _, err := s.requireSameOrg(ctx, userID, otherID); err != nil {
		return nil, 0, err
	}

	messages, total, err := s.messageRepo.Thread(ctx, userID, otherID, page, limit)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := s.messageRepo.MarkThreadRead(ctx, userID, otherID); err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	cache.InvalidateConversations(ctx, userID)

	return messages, total, nil
}

// MarkMessageRead marks a single message read. Only the recipient may do
// so; anyone else sees 404.
func (s *MessageService) MarkMessageRead(ctx context.Context, userID, messageID uint) error {
	if err := s.messageRepo.MarkRead(ctx, messageID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Message", messageID)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateConversations(ctx, userID)
	return nil
}

// DeleteMessage removes a sent message. Only the sender may delete; anyone
// else sees 404.
func (s *MessageService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	if err := s.messageRepo.Delete(ctx, messageID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Message", messageID)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateConversations(ctx, userID)
	return nil
}

// CountUnread returns the number of unread messages across all conversations.
func (s *MessageService) CountUnread(ctx context.Context, userID uint) (int64, error) {
	count, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
