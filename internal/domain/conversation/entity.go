package conversation

import (
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/adoption"
	"adopte-server/internal/domain/offer"
	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
)

// Conversation represents the conversations table.
//
// Broadcast conversations store only the admin creator as a participant;
// the audience is resolved from BroadcastTarget against the viewer's role
// at read time. A broadcast is always read-only for its audience.
// At most one of AdoptionRequestID / ApplicationID is populated, governed
// by Context.
type Conversation struct {
	ID              uuid.UUID                  `gorm:"type:uuid;primaryKey" json:"id"`
	Topic           string                     `gorm:"type:text;not null" json:"topic"`
	Context         domain.ConversationContext `gorm:"type:varchar(32);not null;index" json:"context"`
	Status          domain.ConversationStatus  `gorm:"type:varchar(16);not null;index" json:"status"`
	IsReadOnly      bool                       `gorm:"not null" json:"is_read_only"`
	IsBroadcast     bool                       `gorm:"not null;index" json:"is_broadcast"`
	BroadcastTarget *domain.BroadcastTarget    `gorm:"type:varchar(16)" json:"broadcast_target,omitempty"`

	AdoptionRequestID *uuid.UUID `gorm:"type:uuid" json:"adoption_request_id,omitempty"`
	ApplicationID     *uuid.UUID `gorm:"type:uuid" json:"application_id,omitempty"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `gorm:"index:idx_conversations_updated,sort:desc" json:"updated_at"`

	// Relations
	Participants    []Participant             `gorm:"foreignKey:ConversationID" json:"participants,omitempty"`
	AdoptionRequest *adoption.AdoptionRequest `gorm:"foreignKey:AdoptionRequestID" json:"adoption_request,omitempty"`
	Application     *offer.Application        `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// Participant represents the conversation_participants table.
type Participant struct {
	ConversationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"conversation_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_participants_user" json:"user_id"`
	JoinedAt       time.Time `json:"joined_at"`

	// Relations
	User user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasParticipant reports whether userID holds a stored participant row.
func (c Conversation) HasParticipant(userID uuid.UUID) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Expired reports whether the conversation's expiry, if any, has passed.
func (c Conversation) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
