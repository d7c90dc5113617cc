package models

import "time"

// Message is a direct message between two users in the same organization.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// ConversationSummary is one row of a user's conversation list: the latest
// message exchanged with a counterpart plus that counterpart's identity and
// the number of unread messages they have sent.
type ConversationSummary struct {
	CounterpartID       uint      `json:"counterpart_id"`
	CounterpartUsername string    `json:"counterpart_username"`
	CounterpartName     string    `json:"counterpart_name"`
	LastMessageID       uint      `json:"last_message_id"`
	LastContent         string    `json:"last_content"`
	LastSenderID        uint      `json:"last_sender_id"`
	LastCreatedAt       time.Time `json:"last_created_at"`
	UnreadCount         int64     `json:"unread_count"`
}
