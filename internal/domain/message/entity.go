package message

import (
	"time"

	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
)

// Message represents the messages table. Messages are immutable once
// written; conversation activity is tracked by bumping the parent
// conversation's updated_at.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation,sort:desc" json:"created_at"`

	// Relations
	Sender user.User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
