package policy

import (
	"testing"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func makeUser(role domain.Role) user.User {
	return user.User{ID: uuid.New(), Role: role, IsActive: true}
}

func direct(participants ...user.User) conversation.Conversation {
	c := conversation.Conversation{
		ID:      uuid.New(),
		Topic:   "direct",
		Context: domain.ContextOffer,
		Status:  domain.ConversationActive,
	}
	for _, u := range participants {
		c.Participants = append(c.Participants, conversation.Participant{
			ConversationID: c.ID,
			UserID:         u.ID,
			JoinedAt:       time.Now(),
		})
	}
	return c
}

func broadcast(creator user.User, target domain.BroadcastTarget) conversation.Conversation {
	return conversation.Conversation{
		ID:              uuid.New(),
		Topic:           "announcement",
		Context:         domain.ContextBroadcast,
		Status:          domain.ConversationActive,
		IsBroadcast:     true,
		IsReadOnly:      true,
		BroadcastTarget: &target,
		Participants: []conversation.Participant{
			{UserID: creator.ID, JoinedAt: time.Now()},
		},
	}
}

func TestIsListedForDirectConversation(t *testing.T) {
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)
	outsider := makeUser(domain.RoleStudent)

	c := direct(student, company)

	assert.True(t, IsListedFor(c, student))
	assert.True(t, IsListedFor(c, company))
	assert.False(t, IsListedFor(c, outsider))
}

func TestIsListedForBroadcastAudience(t *testing.T) {
	admin := makeUser(domain.RoleAdmin)
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)

	cases := []struct {
		name    string
		target  domain.BroadcastTarget
		student bool
		company bool
	}{
		{"all reaches everyone", domain.TargetAll, true, true},
		{"students only", domain.TargetStudents, true, false},
		{"companies only", domain.TargetCompanies, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := broadcast(admin, tc.target)
			assert.Equal(t, tc.student, IsListedFor(c, student))
			assert.Equal(t, tc.company, IsListedFor(c, company))
			// the creator always sees its own broadcast
			assert.True(t, IsListedFor(c, admin))
		})
	}
}

func TestIsListedForBroadcastOtherAdmin(t *testing.T) {
	creator := makeUser(domain.RoleAdmin)
	otherAdmin := makeUser(domain.RoleAdmin)

	targeted := broadcast(creator, domain.TargetStudents)
	assert.False(t, IsListedFor(targeted, otherAdmin))

	toAll := broadcast(creator, domain.TargetAll)
	assert.True(t, IsListedFor(toAll, otherAdmin))
}

func TestCheckAccessDirect(t *testing.T) {
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)
	outsider := makeUser(domain.RoleCompany)

	c := direct(student, company)

	assert.Equal(t, Decision{Accessible: true}, CheckAccess(c, student))

	d := CheckAccess(c, outsider)
	assert.False(t, d.Accessible)
	assert.Equal(t, "Not a participant", d.Reason)
}

func TestCheckAccessBroadcast(t *testing.T) {
	admin := makeUser(domain.RoleAdmin)
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)

	c := broadcast(admin, domain.TargetStudents)

	assert.True(t, CheckAccess(c, student).Accessible)
	assert.True(t, CheckAccess(c, admin).Accessible)

	d := CheckAccess(c, company)
	assert.False(t, d.Accessible)
	assert.Equal(t, "Broadcast not intended for your role", d.Reason)
}

func TestCheckAccessIgnoresStatusAndExpiry(t *testing.T) {
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)

	c := direct(student, company)
	c.Status = domain.ConversationExpired
	past := time.Now().Add(-time.Hour)
	c.ExpiresAt = &past

	assert.True(t, CheckAccess(c, student).Accessible)
}

func TestCanSendMessage(t *testing.T) {
	student := makeUser(domain.RoleStudent)
	company := makeUser(domain.RoleCompany)
	outsider := makeUser(domain.RoleStudent)
	now := time.Now()

	t.Run("participant in active conversation", func(t *testing.T) {
		c := direct(student, company)
		assert.True(t, CanSendMessage(c, student, now).Accessible)
	})

	t.Run("non participant", func(t *testing.T) {
		c := direct(student, company)
		d := CanSendMessage(c, outsider, now)
		assert.False(t, d.Accessible)
		assert.Equal(t, "Not a participant", d.Reason)
	})

	t.Run("read only", func(t *testing.T) {
		c := direct(student, company)
		c.IsReadOnly = true
		d := CanSendMessage(c, student, now)
		assert.False(t, d.Accessible)
		assert.Equal(t, "Conversation is read-only", d.Reason)
	})

	t.Run("archived", func(t *testing.T) {
		c := direct(student, company)
		c.Status = domain.ConversationArchived
		d := CanSendMessage(c, student, now)
		assert.False(t, d.Accessible)
		assert.Equal(t, "Conversation is not active", d.Reason)
	})

	t.Run("expired deadline", func(t *testing.T) {
		c := direct(student, company)
		past := now.Add(-time.Minute)
		c.ExpiresAt = &past
		d := CanSendMessage(c, student, now)
		assert.False(t, d.Accessible)
		assert.Equal(t, "Conversation has expired", d.Reason)
	})

	t.Run("admin creator cannot write into own broadcast", func(t *testing.T) {
		admin := makeUser(domain.RoleAdmin)
		c := broadcast(admin, domain.TargetAll)
		d := CanSendMessage(c, admin, now)
		assert.False(t, d.Accessible)
		assert.Equal(t, "Conversation is read-only", d.Reason)
	})
}
