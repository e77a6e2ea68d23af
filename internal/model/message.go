package model

import (
	"strings"

	"github.com/google/uuid"
)

// Message type constants
const (
	MessageTypeText = "text"
)

// Message is a direct message between two users. A conversation is not a
// stored entity; it is the set of messages whose {sender,recipient} pair
// is equal as an unordered pair.
type Message struct {
	Base
	SenderID    uuid.UUID `json:"sender_id" db:"sender_id"`
	RecipientID uuid.UUID `json:"recipient_id" db:"recipient_id"`
	Content     string    `json:"content" db:"content"`
	Type        string    `json:"type" db:"type"`
	Read        bool      `json:"read" db:"read"`
}

// conversationNamespace seeds deterministic conversation ids
var conversationNamespace = uuid.MustParse("8b1f7a52-3c1d-4e61-9f6a-2d5b8c9e0a47")

// ConversationID derives the stable conversation id for a user pair. Both
// participants get the same id regardless of argument order.
func ConversationID(a, b uuid.UUID) uuid.UUID {
	lo, hi := a.String(), b.String()
	if strings.Compare(lo, hi) > 0 {
		lo, hi = hi, lo
	}
	return uuid.NewSHA1(conversationNamespace, []byte(lo+":"+hi))
}

// Conversation is the derived per-counterpart summary for a user
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	OtherUserID uuid.UUID `json:"other_user_id"`
	OtherName   string    `json:"other_name"`
	LastMessage *Message  `json:"last_message"`
	UnreadCount int       `json:"unread_count"`
}

// ConversationList is the payload for a user's conversation overview
type ConversationList struct {
	Conversations []*Conversation `json:"conversations"`
	TotalUnread   int             `json:"total_unread"`
}

// SendMessageRequest represents message send parameters
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Content     string `json:"content" binding:"required"`
	Type        string `json:"type" binding:"omitempty,oneof=text"`
}
