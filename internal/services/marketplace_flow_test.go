package services

import (
	"context"
	"testing"

	"adopte-server/internal/domain"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfferApplicationAcceptedOpensConversation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	o, err := e.offerSvc.Create(ctx, company.ID, CreateOfferInput{
		Title: "Stage backend Go",
		Type:  domain.OfferInternship,
	})
	require.NoError(t, err)

	app, err := e.offerSvc.Apply(ctx, student.ID, o.ID, "Très motivée")
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, app.Status)

	decided, err := e.offerSvc.Decide(ctx, company.ID, app.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, decided.Status)

	for _, userID := range []uuid.UUID{student.ID, company.ID} {
		res, err := e.convSvc.GetUserConversations(ctx, userID, ListOptions{})
		require.NoError(t, err)
		require.Len(t, res.Conversations, 1)

		v := res.Conversations[0]
		assert.Equal(t, domain.ContextOffer, v.Context)
		assert.False(t, v.IsReadOnly)
		require.NotNil(t, v.LastMessage)
		assert.Equal(t, "Votre candidature a été acceptée, discutons-en !", v.LastMessage.Content)

		require.NotNil(t, v.ContextDetails)
		assert.Equal(t, "offer", v.ContextDetails.Type)
		assert.Equal(t, domain.RequestAccepted, v.ContextDetails.Status)
		assert.Equal(t, "Stage backend Go", v.ContextDetails.OfferTitle)
		assert.Equal(t, "ACME", v.ContextDetails.CompanyName)
	}

	// both sides can talk, outsiders cannot
	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	convID := res.Conversations[0].ID

	_, err = e.msgSvc.SendMessage(ctx, student.ID, convID, "Quand puis-je commencer ?")
	require.NoError(t, err)

	outsider := e.createStudent(t, "bob@example.com", "Bob", "Durand")
	_, err = e.msgSvc.SendMessage(ctx, outsider.ID, convID, "coucou")
	assert.ErrorIs(t, err, adopte_errors.ErrForbidden)
}

func TestOfferApplicationGuards(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")
	rival := e.createCompany(t, "hr@rival.fr", "Rival")

	o, err := e.offerSvc.Create(ctx, company.ID, CreateOfferInput{
		Title: "Alternance data", Type: domain.OfferApprenticeship,
	})
	require.NoError(t, err)

	app, err := e.offerSvc.Apply(ctx, student.ID, o.ID, "")
	require.NoError(t, err)

	_, err = e.offerSvc.Apply(ctx, student.ID, o.ID, "encore")
	assert.ErrorIs(t, err, adopte_errors.ErrAlreadyExists)

	_, err = e.offerSvc.Decide(ctx, rival.ID, app.ID, true)
	assert.ErrorIs(t, err, adopte_errors.ErrForbidden)

	_, err = e.offerSvc.Decide(ctx, company.ID, app.ID, false)
	require.NoError(t, err)
	_, err = e.offerSvc.Decide(ctx, company.ID, app.ID, true)
	assert.ErrorIs(t, err, adopte_errors.ErrInvalidTransition)

	// rejection opens no conversation
	res, err := e.convSvc.GetUserConversations(ctx, student.ID, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Conversations)

	// a closed offer no longer takes applications
	_, err = e.offerSvc.Update(ctx, company.ID, o.ID, UpdateOfferInput{Status: domain.OfferClosed})
	require.NoError(t, err)
	late := e.createStudent(t, "carol@example.com", "Carol", "Petit")
	_, err = e.offerSvc.Apply(ctx, late.ID, o.ID, "")
	assert.ErrorIs(t, err, adopte_errors.ErrConflict)
}

func TestAdoptionAcceptedOpensConversation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	req, err := e.adoptionSvc.Request(ctx, company.ID, student.ID, "Rejoignez-nous !")
	require.NoError(t, err)

	_, err = e.adoptionSvc.Request(ctx, company.ID, student.ID, "again")
	assert.ErrorIs(t, err, adopte_errors.ErrAlreadyExists)

	// only the targeted student decides
	other := e.createStudent(t, "bob@example.com", "Bob", "Durand")
	_, err = e.adoptionSvc.Decide(ctx, other.ID, req.ID, true)
	assert.ErrorIs(t, err, adopte_errors.ErrForbidden)

	decided, err := e.adoptionSvc.Decide(ctx, student.ID, req.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, decided.Status)

	res, err := e.convSvc.GetUserConversations(ctx, company.ID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Conversations, 1)

	v := res.Conversations[0]
	assert.Equal(t, domain.ContextAdoptionRequest, v.Context)
	require.NotNil(t, v.LastMessage)
	assert.Equal(t, "J'ai accepté votre demande d'adoption.", v.LastMessage.Content)
	require.NotNil(t, v.ContextDetails)
	assert.Equal(t, "adoption_request", v.ContextDetails.Type)
	assert.Equal(t, domain.RequestAccepted, v.ContextDetails.Status)
}

func TestAdoptionRequestUnknownStudent(t *testing.T) {
	e := newTestEnv(t)
	company := e.createCompany(t, "hr@acme.fr", "ACME")

	_, err := e.adoptionSvc.Request(context.Background(), company.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, adopte_errors.ErrUserNotFound)

	// adopting another company makes no sense
	other := e.createCompany(t, "hr@other.fr", "Other")
	_, err = e.adoptionSvc.Request(context.Background(), company.ID, other.ID, "hello")
	assert.ErrorIs(t, err, adopte_errors.ErrInvalidInput)
}

func TestSendMessageGuards(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	student := e.createStudent(t, "alice@example.com", "Alice", "Martin")
	company := e.createCompany(t, "hr@acme.fr", "ACME")
	admin := e.createAdmin(t, "admin@example.com")

	t.Run("empty content", func(t *testing.T) {
		c := e.createDirectConversation(t, "chat", student, company)
		_, err := e.msgSvc.SendMessage(ctx, student.ID, c.ID, "   ")
		assert.ErrorIs(t, err, adopte_errors.ErrInvalidInput)
	})

	t.Run("broadcast is read-only", func(t *testing.T) {
		b, err := e.adminSvc.DispatchBroadcast(ctx, admin.ID, DispatchBroadcastInput{
			Topic: "news", Content: "hello", Target: domain.TargetAll,
		})
		require.NoError(t, err)

		_, err = e.msgSvc.SendMessage(ctx, student.ID, b.ID, "réponse")
		assert.ErrorIs(t, err, adopte_errors.ErrForbidden)

		// even the creator cannot write after dispatch
		_, err = e.msgSvc.SendMessage(ctx, admin.ID, b.ID, "suite")
		assert.ErrorIs(t, err, adopte_errors.ErrForbidden)
	})

	t.Run("archived conversation", func(t *testing.T) {
		c := e.createDirectConversation(t, "old", student, company)
		c.Status = domain.ConversationArchived
		require.NoError(t, e.convRepo.Update(ctx, c))

		_, err := e.msgSvc.SendMessage(ctx, student.ID, c.ID, "toujours là ?")
		assert.ErrorIs(t, err, adopte_errors.ErrForbidden)
	})

	t.Run("reading requires access", func(t *testing.T) {
		c := e.createDirectConversation(t, "private", student, company)
		outsider := e.createStudent(t, "eve@example.com", "Eve", "Leroy")
		_, err := e.msgSvc.ListMessages(ctx, c.ID, outsider.ID, 1, 20)
		assert.ErrorIs(t, err, adopte_errors.ErrForbidden)

		_, err = e.msgSvc.SendMessage(ctx, student.ID, c.ID, "salut")
		require.NoError(t, err)
		list, err := e.msgSvc.ListMessages(ctx, c.ID, company.ID, 1, 20)
		require.NoError(t, err)
		require.Len(t, list.Messages, 1)
		assert.Equal(t, "salut", list.Messages[0].Content)
	})
}
