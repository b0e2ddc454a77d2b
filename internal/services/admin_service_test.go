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

func TestSendAdminMessage(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.createAdmin(t, "admin@example.com")
	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")

	c, err := e.adminSvc.SendAdminMessage(ctx, admin.ID, student.ID, "Vérification de profil", "Merci de compléter votre profil.")
	require.NoError(t, err)
	assert.Equal(t, domain.ContextAdminMessage, c.Context)
	assert.False(t, c.IsBroadcast)

	// the student can answer, it is a regular two-way conversation
	_, err = e.msgSvc.SendMessage(ctx, student.ID, c.ID, "C'est fait !")
	require.NoError(t, err)

	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)
	assert.Equal(t, "C'est fait !", res.Conversations[0].LastMessage.Content)

	_, err = e.adminSvc.SendAdminMessage(ctx, admin.ID, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, adopte_errors.ErrUserNotFound)

	_, err = e.adminSvc.SendAdminMessage(ctx, admin.ID, student.ID, "x", "")
	assert.ErrorIs(t, err, adopte_errors.ErrInvalidInput)
}

func TestDispatchBroadcastValidation(t *testing.T) {
	e := newTestEnv(t)
	admin := e.createAdmin(t, "admin@example.com")

	_, err := e.adminSvc.DispatchBroadcast(context.Background(), admin.ID, DispatchBroadcastInput{
		Topic: "vide", Target: domain.TargetAll,
	})
	assert.ErrorIs(t, err, adopte_errors.ErrInvalidInput)
}

func TestGetStats(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	e.createStudent(t, "bob@example.com", "Bob", "Durand")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	o, err := e.offerSvc.Create(ctx, company.ID, CreateOfferInput{
		Title: "Stage", Type: domain.OfferInternship,
	})
	require.NoError(t, err)
	_, err = e.offerSvc.Apply(ctx, student.ID, o.ID, "")
	require.NoError(t, err)

	_, err = e.adoptionSvc.Request(ctx, company.ID, student.ID, "hello")
	require.NoError(t, err)

	e.createDirectConversation(t, "chat", student, company)

	past := time.Now().Add(-time.Hour)
	_, err = e.convSvc.Create(ctx, CreateConversationInput{
		Topic:          "overdue",
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{student.ID, company.ID},
		ExpiresAt:      &past,
	})
	require.NoError(t, err)

	expired, err := e.adminSvc.RunCleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	stats, err := e.adminSvc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{
		Students:             2,
		Companies:            1,
		Offers:               1,
		Applications:         1,
		AdoptionRequests:     1,
		ActiveConversations:  1,
		ExpiredConversations: 1,
	}, stats)
}
