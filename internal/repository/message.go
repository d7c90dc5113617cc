package repository

import (
	"context"

	"projecthub/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct message operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	// ListConversations returns one row per counterpart the user has
	// exchanged messages with, carrying the latest message and the number
	// of unread messages from that counterpart, newest conversation first.
	ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error)
	// Thread returns the messages between user and other, oldest first
	// within the returned page, paging backwards from the newest.
	Thread(ctx context.Context, userID, otherID uint, page, limit int) ([]*models.Message, int64, error)
	// MarkThreadRead marks every message from other to user as read.
	MarkThreadRead(ctx context.Context, userID, otherID uint) error
	// MarkRead marks a single message read; only the recipient may do so.
	// Returns gorm.ErrRecordNotFound when no matching row exists.
	MarkRead(ctx context.Context, messageID, recipientID uint) error
	// Delete removes a message; only the sender may do so.
	// Returns gorm.ErrRecordNotFound when no matching row exists.
	Delete(ctx context.Context, messageID, senderID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// conversationsSQL picks the latest message per counterpart with a window
// function and attaches the unread count via a correlated subquery.
const conversationsSQL = `
SELECT
	ranked.counterpart_id,
	users.username AS counterpart_username,
	users.name AS counterpart_name,
	ranked.id AS last_message_id,
	ranked.content AS last_content,
	ranked.sender_id AS last_sender_id,
	ranked.created_at AS last_created_at,
	(SELECT COUNT(*) FROM messages m
	 WHERE m.sender_id = ranked.counterpart_id
	   AND m.receiver_id = ?
	   AND m.read = ?) AS unread_count
FROM (
	SELECT
		messages.*,
		CASE WHEN messages.sender_id = ? THEN messages.receiver_id ELSE messages.sender_id END AS counterpart_id,
		ROW_NUMBER() OVER (
			PARTITION BY CASE WHEN messages.sender_id = ? THEN messages.receiver_id ELSE messages.sender_id END
			ORDER BY messages.created_at DESC, messages.id DESC
		) AS rn
	FROM messages
	WHERE messages.sender_id = ? OR messages.receiver_id = ?
) ranked
JOIN users ON users.id = ranked.counterpart_id
WHERE ranked.rn = 1
ORDER BY ranked.created_at DESC`

func (r *messageRepository) ListConversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	err := r.db.WithContext(ctx).
		Raw(conversationsSQL, userID, false, userID, userID, userID, userID).
		Scan(&summaries).Error
	return summaries, err
}

func (r *messageRepository) Thread(ctx context.Context, userID, otherID uint, page, limit int) ([]*models.Message, int64, error) {
	between := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID)

	var total int64
	if err := between.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*models.Message
	err := between.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Scopes(paginate(page, limit)).
		Find(&messages).Error
	if err != nil {
		return nil, 0, err
	}

	// Reverse so each page reads oldest to newest.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, total, nil
}

func (r *messageRepository) MarkThreadRead(ctx context.Context, userID, otherID uint) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", otherID, userID, false).
		UpdateColumn("read", true).Error
}

func (r *messageRepository) MarkRead(ctx context.Context, messageID, recipientID uint) error {
	res := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", messageID, recipientID).
		UpdateColumn("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, messageID, senderID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND sender_id = ?", messageID, senderID).
		Delete(&models.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *messageRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("receiver_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}
