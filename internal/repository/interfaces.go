package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/adoption"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/message"
	"adopte-server/internal/domain/offer"
	"adopte-server/internal/domain/user"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, u user.User) error
	List(ctx context.Context, role *domain.Role, page, limit int) ([]user.User, int64, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)

	UpdateStudentProfile(ctx context.Context, p user.StudentProfile) error
	UpdateCompanyProfile(ctx context.Context, p user.CompanyProfile) error
}

// ConversationFilter narrows the general conversation listing. Nil fields
// mean "no filter".
type ConversationFilter struct {
	Page    int
	Limit   int
	Context *domain.ConversationContext
	Status  *domain.ConversationStatus
}

type ConversationRepository interface {
	// Create persists the conversation together with its composed
	// participant rows in one transaction.
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	Update(ctx context.Context, c conversation.Conversation) error
	Touch(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListForUser applies the listing visibility predicate as a query
	// filter: participant rows for direct conversations, creator row or
	// role-matched target for broadcasts.
	ListForUser(ctx context.Context, u user.User, f ConversationFilter) ([]conversation.Conversation, int64, error)
	// ListBroadcastsForRole is the role-matched broadcast inbox; it never
	// folds in conversations the user only sees as creator.
	ListBroadcastsForRole(ctx context.Context, role domain.Role, page, limit int) ([]conversation.Conversation, int64, error)

	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	FindExpired(ctx context.Context, now time.Time) ([]conversation.Conversation, error)
	// MarkExpired flips ACTIVE to EXPIRED and reports whether this call won
	// the transition. The status guard makes concurrent sweeps idempotent.
	MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	CountByStatus(ctx context.Context, status domain.ConversationStatus) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	LastByConversation(ctx context.Context, conversationID uuid.UUID) (message.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID, page, limit int) ([]message.Message, int64, error)
}

type OfferRepository interface {
	Create(ctx context.Context, o *offer.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (offer.Offer, error)
	Update(ctx context.Context, o offer.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListOpen(ctx context.Context, search string, page, limit int) ([]offer.Offer, int64, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]offer.Offer, int64, error)
	Count(ctx context.Context) (int64, error)

	CreateApplication(ctx context.Context, a *offer.Application) error
	GetApplicationByID(ctx context.Context, id uuid.UUID) (offer.Application, error)
	GetApplicationByOfferAndStudent(ctx context.Context, offerID, studentID uuid.UUID) (offer.Application, error)
	UpdateApplication(ctx context.Context, a offer.Application) error
	ListApplicationsByOffer(ctx context.Context, offerID uuid.UUID, page, limit int) ([]offer.Application, int64, error)
	ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]offer.Application, int64, error)
	CountApplications(ctx context.Context) (int64, error)
}

type AdoptionRepository interface {
	Create(ctx context.Context, a *adoption.AdoptionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (adoption.AdoptionRequest, error)
	GetByCompanyAndStudent(ctx context.Context, companyID, studentID uuid.UUID) (adoption.AdoptionRequest, error)
	Update(ctx context.Context, a adoption.AdoptionRequest) error
	ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error)
	Count(ctx context.Context) (int64, error)
}
