package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn in the assistant conversation. The full ordered
// slice is persisted after every mutation, keyed by user id.
type ChatMessage struct {
	ID        string    `json:"id" bson:"id"`
	Role      ChatRole  `json:"role" bson:"role"`
	Text      string    `json:"text" bson:"text"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// NewChatMessage creates a message with a fresh id and timestamp.
func NewChatMessage(role ChatRole, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Validate checks the message fields.
func (m ChatMessage) Validate() error {
	if m.Role != ChatRoleUser && m.Role != ChatRoleModel {
		return errors.New("invalid chat role")
	}
	if m.Text == "" {
		return errors.New("text is required")
	}
	return nil
}
