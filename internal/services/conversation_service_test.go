package services

import (
	"context"
	"testing"
	"time"

	"adopte-server/internal/domain"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserConversationsUnknownUser(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.convSvc.GetUserConversations(context.Background(), uuid.New(), ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, adopte_errors.ErrUserNotFound)
	assert.Equal(t, "User not found", err.Error())
}

func TestGetUserConversationsVisibility(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	otherStudent := e.createStudent(t, "bob@example.com", "Bob", "Durand")
	company := e.createCompany(t, "hr@acme.fr", "ACME")
	admin := e.createAdmin(t, "admin@example.com")

	mine := e.createDirectConversation(t, "mine", student, company)
	foreign := e.createDirectConversation(t, "not mine", otherStudent, company)

	toStudents, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "students only", Content: "salut", Target: domain.TargetStudents,
	})
	require.NoError(t, err)
	toCompanies, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "companies only", Content: "bonjour", Target: domain.TargetCompanies,
	})
	require.NoError(t, err)
	toAll, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "for everyone", Content: "hello", Target: domain.TargetAll,
	})
	require.NoError(t, err)

	listIDs := func(userID uuid.UUID) map[uuid.UUID]bool {
		res, err := e.convSvc.GetUserConversations(ctx, userID, ListOptions{})
		require.NoError(t, err)
		ids := make(map[uuid.UUID]bool, len(res.Conversations))
		for _, v := range res.Conversations {
			ids[v.ID] = true
		}
		return ids
	}

	studentFeed := listIDs(student.ID)
	assert.True(t, studentFeed[mine.ID])
	assert.True(t, studentFeed[toStudents.ID])
	assert.True(t, studentFeed[toAll.ID])
	assert.False(t, studentFeed[foreign.ID])
	assert.False(t, studentFeed[toCompanies.ID])

	companyFeed := listIDs(company.ID)
	assert.True(t, companyFeed[mine.ID])
	assert.True(t, companyFeed[foreign.ID])
	assert.True(t, companyFeed[toCompanies.ID])
	assert.True(t, companyFeed[toAll.ID])
	assert.False(t, companyFeed[toStudents.ID])

	// the creator sees every broadcast it dispatched, whatever the target
	adminFeed := listIDs(admin.ID)
	assert.True(t, adminFeed[toStudents.ID])
	assert.True(t, adminFeed[toCompanies.ID])
	assert.True(t, adminFeed[toAll.ID])
	assert.False(t, adminFeed[mine.ID])
}

func TestGetUserConversationsOrdering(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	first := e.createDirectConversation(t, "first", student, company)
	second := e.createDirectConversation(t, "second", student, company)
	third := e.createDirectConversation(t, "third", student, company)

	base := time.Now()
	require.NoError(t, e.convRepo.Touch(ctx, second.ID, base.Add(1*time.Second)))
	require.NoError(t, e.convRepo.Touch(ctx, third.ID, base.Add(2*time.Second)))
	// new activity in the oldest conversation moves it to the top
	require.NoError(t, e.convRepo.Touch(ctx, first.ID, base.Add(3*time.Second)))

	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 3)
	assert.Equal(t, first.ID, res.Conversations[0].ID)
	assert.Equal(t, third.ID, res.Conversations[1].ID)
	assert.Equal(t, second.ID, res.Conversations[2].ID)
}

func TestGetUserConversationsPagination(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	for i := 0; i < 15; i++ {
		e.createDirectConversation(t, "conv", student, company)
	}

	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, res.Conversations, 5)
	assert.Equal(t, Pagination{Page: 1, Limit: 5, Total: 15, TotalPages: 3}, res.Pagination)

	res, err = e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, res.Conversations, 5)

	// out-of-range pages are empty but still answered
	res, err = e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Page: 4, Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, res.Conversations)
	assert.Equal(t, int64(15), res.Pagination.Total)

	// zero values fall back to the defaults
	res, err = e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, res.Pagination.Page)
	assert.Equal(t, DefaultLimit, res.Pagination.Limit)
	assert.Len(t, res.Conversations, 15)
}

func TestGetUserConversationsFilters(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")
	admin := e.createAdmin(t, "admin@example.com")

	e.createDirectConversation(t, "direct", student, company)
	broadcast, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "news", Content: "hello", Target: domain.TargetAll,
	})
	require.NoError(t, err)

	broadcastCtx := domain.ContextBroadcast
	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Context: &broadcastCtx})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)
	assert.Equal(t, broadcast.ID, res.Conversations[0].ID)

	archived := domain.ConversationArchived
	res, err = e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Status: &archived})
	require.NoError(t, err)
	assert.Empty(t, res.Conversations)

	active := domain.ConversationActive
	res, err = e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{Status: &active})
	require.NoError(t, err)
	assert.Len(t, res.Conversations, 2)
}

func TestBroadcastAnonymization(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	admin := e.createAdmin(t, "real-admin@example.com")

	_, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "bienvenue", Content: "Bonne rentrée à tous !", Target: domain.TargetStudents,
	})
	require.NoError(t, err)

	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)

	v := res.Conversations[0]
	require.Len(t, v.Participants, 1)
	assert.Equal(t, AnonymousBroadcastSender, v.Participants[0])
	assert.Equal(t, "Administration", v.Participants[0].DisplayName)
	assert.NotEqual(t, admin.Email, v.Participants[0].Email)

	require.NotNil(t, v.LastMessage)
	assert.Equal(t, "Bonne rentrée à tous !", v.LastMessage.Content)

	require.NotNil(t, v.ContextDetails)
	assert.Equal(t, "broadcast", v.ContextDetails.Type)
	assert.Equal(t, domain.TargetStudents, v.ContextDetails.Target)

	// the admin creator sees the real participant row
	res, err = e.convSvc.GetUserConversations(ctx, admin.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)
	require.Len(t, res.Conversations[0].Participants, 1)
	assert.Equal(t, admin.Email, res.Conversations[0].Participants[0].Email)
}

func TestGetBroadcastConversationsForUser(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	admin := e.createAdmin(t, "admin@example.com")

	toStudents, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "students", Content: "a", Target: domain.TargetStudents,
	})
	require.NoError(t, err)
	toCompanies, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "companies", Content: "b", Target: domain.TargetCompanies,
	})
	require.NoError(t, err)
	toAll, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "all", Content: "c", Target: domain.TargetAll,
	})
	require.NoError(t, err)

	res, err := e.convSvc.GetBroadcastConversationsForUser(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	ids := make(map[uuid.UUID]bool)
	for _, v := range res.Conversations {
		ids[v.ID] = true
		require.NotNil(t, v.ContextDetails)
		assert.Equal(t, "broadcast", v.ContextDetails.Type)
	}
	assert.True(t, ids[toStudents.ID])
	assert.True(t, ids[toAll.ID])
	assert.False(t, ids[toCompanies.ID])

	// the broadcast inbox is audience-based: the creator's own targeted
	// broadcasts do not appear, only the ALL ones reaching every role
	res, err = e.convSvc.GetBroadcastConversationsForUser(ctx, admin.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)
	assert.Equal(t, toAll.ID, res.Conversations[0].ID)
}

func TestIsConversationAccessible(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	outsider := e.createStudent(t, "bob@example.com", "Bob", "Durand")
	company := e.createCompany(t, "hr@acme.fr", "ACME")
	admin := e.createAdmin(t, "admin@example.com")

	direct := e.createDirectConversation(t, "direct", student, company)
	toCompanies, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
		Topic: "companies", Content: "b", Target: domain.TargetCompanies,
	})
	require.NoError(t, err)

	t.Run("unknown user", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, direct.ID, uuid.New())
		require.NoError(t, err)
		assert.False(t, res.Accessible)
		assert.Equal(t, "User not found", res.Reason)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, uuid.New(), student.ID)
		require.NoError(t, err)
		assert.False(t, res.Accessible)
		assert.Equal(t, "Conversation not found", res.Reason)
	})

	t.Run("not a participant", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, direct.ID, outsider.ID)
		require.NoError(t, err)
		assert.False(t, res.Accessible)
		assert.Equal(t, "Not a participant", res.Reason)
	})

	t.Run("wrong audience", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, toCompanies.ID, student.ID)
		require.NoError(t, err)
		assert.False(t, res.Accessible)
		assert.Equal(t, "Broadcast not intended for your role", res.Reason)
	})

	t.Run("participant", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, direct.ID, student.ID)
		require.NoError(t, err)
		assert.True(t, res.Accessible)
		assert.Empty(t, res.Reason)
		require.NotNil(t, res.Conversation)
		assert.Equal(t, direct.ID, res.Conversation.ID)
	})

	t.Run("matching audience", func(t *testing.T) {
		res, err := e.convSvc.IsConversationAccessible(ctx, toCompanies.ID, company.ID)
		require.NoError(t, err)
		assert.True(t, res.Accessible)
	})
}

func TestCleanupExpiredConversations(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	overdue, err := e.convSvc.Create(ctx, CreateConversationInput{
		Topic:          "overdue",
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{student.ID, company.ID},
		ExpiresAt:      &past,
	})
	require.NoError(t, err)

	upcoming, err := e.convSvc.Create(ctx, CreateConversationInput{
		Topic:          "upcoming",
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{student.ID, company.ID},
		ExpiresAt:      &future,
	})
	require.NoError(t, err)

	open := e.createDirectConversation(t, "no deadline", student, company)

	// an overdue conversation that is already archived must stay archived
	archived, err := e.convSvc.Create(ctx, CreateConversationInput{
		Topic:          "archived",
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{student.ID, company.ID},
		ExpiresAt:      &past,
	})
	require.NoError(t, err)
	archived.Status = domain.ConversationArchived
	require.NoError(t, e.convRepo.Update(ctx, archived))

	count, err := e.convSvc.CleanupExpiredConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	check := func(id uuid.UUID, want domain.ConversationStatus) {
		c, err := e.convRepo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, c.Status)
	}
	check(overdue.ID, domain.ConversationExpired)
	check(upcoming.ID, domain.ConversationActive)
	check(open.ID, domain.ConversationActive)
	check(archived.ID, domain.ConversationArchived)

	// a second sweep finds nothing left to flip
	count, err = e.convSvc.CleanupExpiredConversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestExpiredConversationStaysVisible(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	past := time.Now().Add(-time.Hour)
	c, err := e.convSvc.Create(ctx, CreateConversationInput{
		Topic:          "over",
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{student.ID, company.ID},
		ExpiresAt:      &past,
	})
	require.NoError(t, err)

	_, err = e.convSvc.CleanupExpiredConversations(ctx)
	require.NoError(t, err)

	// history remains readable
	res, err := e.convSvc.IsConversationAccessible(ctx, c.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, res.Accessible)

	// but the conversation rejects new messages
	_, err = e.msgSvc.SendMessage(ctx, student.ID, c.ID, "trop tard")
	assert.ErrorIs(t, err, adopte_errors.ErrForbidden)
}
