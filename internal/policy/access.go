package policy

import (
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/user"
)

// Denial reasons. Denial is an expected outcome, never an error: every
// decision function answers with a Decision instead of failing the call.
const (
	ReasonConversationNotFound = "Conversation not found"
	ReasonUserNotFound         = "User not found"
	ReasonNotParticipant       = "Not a participant"
	ReasonWrongAudience        = "Broadcast not intended for your role"
	ReasonReadOnly             = "Conversation is read-only"
	ReasonNotActive            = "Conversation is not active"
	ReasonExpired              = "Conversation has expired"
)

// Decision is the structured answer of an access check.
type Decision struct {
	Accessible bool   `json:"accessible"`
	Reason     string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Accessible: true}
}

func deny(reason string) Decision {
	return Decision{Accessible: false, Reason: reason}
}

// IsListedFor reports whether the conversation belongs in the user's
// conversation list.
//
// Direct conversations are listed iff the user holds a participant row.
// Broadcasts are listed for their creator (the only stored participant)
// and for the role-matched audience; the audience is computed, not stored,
// so one broadcast never fans out participant rows per recipient.
func IsListedFor(c conversation.Conversation, u user.User) bool {
	if !c.IsBroadcast {
		return c.HasParticipant(u.ID)
	}
	if c.HasParticipant(u.ID) {
		return true
	}
	return matchesAudience(c, u.Role)
}

// CheckAccess decides whether the user may view the conversation.
//
// A creator-admin keeps access to its own broadcasts regardless of status
// or expiry. Status and expiry never block viewing for anyone; only
// CanSendMessage cares about them.
func CheckAccess(c conversation.Conversation, u user.User) Decision {
	if c.IsBroadcast {
		if u.Role == domain.RoleAdmin && c.HasParticipant(u.ID) {
			return allow()
		}
		if matchesAudience(c, u.Role) {
			return allow()
		}
		return deny(ReasonWrongAudience)
	}
	if c.HasParticipant(u.ID) {
		return allow()
	}
	return deny(ReasonNotParticipant)
}

// CanSendMessage decides whether the user may write into the conversation.
// The write side is stricter than the view side: membership, an ACTIVE
// status, a writable conversation and an unexpired one are all required.
func CanSendMessage(c conversation.Conversation, u user.User, now time.Time) Decision {
	if !c.HasParticipant(u.ID) {
		return deny(ReasonNotParticipant)
	}
	if c.IsReadOnly {
		return deny(ReasonReadOnly)
	}
	if c.Status != domain.ConversationActive {
		return deny(ReasonNotActive)
	}
	if c.Expired(now) {
		return deny(ReasonExpired)
	}
	return allow()
}

func matchesAudience(c conversation.Conversation, role domain.Role) bool {
	if c.BroadcastTarget == nil {
		return false
	}
	if *c.BroadcastTarget == domain.TargetAll {
		return true
	}
	target, ok := domain.TargetForRole(role)
	return ok && target == *c.BroadcastTarget
}
