package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/offer"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

type OfferService struct {
	repo    repository.OfferRepository
	convSvc *ConversationService
	msgSvc  *MessageService
	logger  *logger.Logger
}

func NewOfferService(repo repository.OfferRepository, convSvc *ConversationService, msgSvc *MessageService, l *logger.Logger) *OfferService {
	if l == nil {
		l = logger.NewNop()
	}
	return &OfferService{repo: repo, convSvc: convSvc, msgSvc: msgSvc, logger: l}
}

type CreateOfferInput struct {
	Title       string
	Description string
	Type        domain.OfferType
	Skills      string
}

func (s *OfferService) Create(ctx context.Context, companyID uuid.UUID, in CreateOfferInput) (offer.Offer, error) {
	if in.Title == "" {
		return offer.Offer{}, adopte_errors.ErrInvalidInput
	}
	switch in.Type {
	case domain.OfferInternship, domain.OfferApprenticeship, domain.OfferJob:
	default:
		return offer.Offer{}, adopte_errors.ErrInvalidInput
	}

	now := time.Now()
	o := offer.Offer{
		ID:          uuid.New(),
		CompanyID:   companyID,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Status:      domain.OfferOpen,
		Skills:      in.Skills,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		return offer.Offer{}, err
	}
	return o, nil
}

func (s *OfferService) GetByID(ctx context.Context, id uuid.UUID) (offer.Offer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *OfferService) ListOpen(ctx context.Context, search string, page, limit int) ([]offer.Offer, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListOpen(ctx, search, page, limit)
}

func (s *OfferService) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]offer.Offer, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListByCompany(ctx, companyID, page, limit)
}

type UpdateOfferInput struct {
	Title       string
	Description string
	Skills      string
	Status      domain.OfferStatus
}

func (s *OfferService) Update(ctx context.Context, companyID, offerID uuid.UUID, in UpdateOfferInput) (offer.Offer, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return offer.Offer{}, err
	}
	if o.CompanyID != companyID {
		return offer.Offer{}, adopte_errors.ErrForbidden
	}

	if in.Title != "" {
		o.Title = in.Title
	}
	if in.Description != "" {
		o.Description = in.Description
	}
	if in.Skills != "" {
		o.Skills = in.Skills
	}
	if in.Status == domain.OfferOpen || in.Status == domain.OfferClosed {
		o.Status = in.Status
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, o); err != nil {
		return offer.Offer{}, err
	}
	return o, nil
}

func (s *OfferService) Delete(ctx context.Context, companyID, offerID uuid.UUID) error {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}
	if o.CompanyID != companyID {
		return adopte_errors.ErrForbidden
	}
	return s.repo.Delete(ctx, offerID)
}

// Apply records a student's application to an open offer. One application
// per (offer, student).
func (s *OfferService) Apply(ctx context.Context, studentID, offerID uuid.UUID, motivation string) (offer.Application, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return offer.Application{}, err
	}
	if o.Status != domain.OfferOpen {
		return offer.Application{}, adopte_errors.ErrConflict
	}
	if _, err := s.repo.GetApplicationByOfferAndStudent(ctx, offerID, studentID); err == nil {
		return offer.Application{}, adopte_errors.ErrAlreadyExists
	} else if !errors.Is(err, adopte_errors.ErrNotFound) {
		return offer.Application{}, err
	}

	now := time.Now()
	a := offer.Application{
		ID:         uuid.New(),
		OfferID:    offerID,
		StudentID:  studentID,
		Status:     domain.RequestPending,
		Motivation: motivation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateApplication(ctx, &a); err != nil {
		return offer.Application{}, err
	}
	return a, nil
}

func (s *OfferService) ListApplicationsByOffer(ctx context.Context, companyID, offerID uuid.UUID, page, limit int) ([]offer.Application, int64, error) {
	o, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		return nil, 0, err
	}
	if o.CompanyID != companyID {
		return nil, 0, adopte_errors.ErrForbidden
	}
	page, limit = normalizePage(page, limit)
	return s.repo.ListApplicationsByOffer(ctx, offerID, page, limit)
}

func (s *OfferService) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]offer.Application, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListApplicationsByStudent(ctx, studentID, page, limit)
}

// Decide accepts or rejects a pending application. Acceptance opens the
// OFFER-context conversation between the company and the student, seeded
// with a system-visible first message from the company.
func (s *OfferService) Decide(ctx context.Context, companyID, applicationID uuid.UUID, accept bool) (offer.Application, error) {
	a, err := s.repo.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return offer.Application{}, err
	}
	if a.Offer.CompanyID != companyID {
		return offer.Application{}, adopte_errors.ErrForbidden
	}
	if a.Status != domain.RequestPending {
		return offer.Application{}, adopte_errors.ErrInvalidTransition
	}

	if accept {
		a.Status = domain.RequestAccepted
	} else {
		a.Status = domain.RequestRejected
	}
	a.UpdatedAt = time.Now()
	if err := s.repo.UpdateApplication(ctx, a); err != nil {
		return offer.Application{}, err
	}

	if accept {
		appID := a.ID
		c, err := s.convSvc.Create(ctx, CreateConversationInput{
			Topic:          fmt.Sprintf("Candidature : %s", a.Offer.Title),
			Context:        domain.ContextOffer,
			ParticipantIDs: []uuid.UUID{companyID, a.StudentID},
			ApplicationID:  &appID,
		})
		if err != nil {
			return offer.Application{}, err
		}
		if _, err := s.msgSvc.Append(ctx, c, companyID, "Votre candidature a été acceptée, discutons-en !"); err != nil {
			s.logger.Errorf("seed message for conversation %s: %v", c.ID, err)
		}
	}
	return a, nil
}
