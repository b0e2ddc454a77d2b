package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/adoption"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

type AdoptionService struct {
	repo     repository.AdoptionRepository
	userRepo repository.UserRepository
	convSvc  *ConversationService
	msgSvc   *MessageService
	logger   *logger.Logger
}

func NewAdoptionService(repo repository.AdoptionRepository, userRepo repository.UserRepository, convSvc *ConversationService, msgSvc *MessageService, l *logger.Logger) *AdoptionService {
	if l == nil {
		l = logger.NewNop()
	}
	return &AdoptionService{repo: repo, userRepo: userRepo, convSvc: convSvc, msgSvc: msgSvc, logger: l}
}

// Request records a company's adoption request toward a student. One
// request per (company, student).
func (s *AdoptionService) Request(ctx context.Context, companyID, studentID uuid.UUID, message string) (adoption.AdoptionRequest, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return adoption.AdoptionRequest{}, adopte_errors.ErrUserNotFound
		}
		return adoption.AdoptionRequest{}, err
	}
	if student.Role != domain.RoleStudent {
		return adoption.AdoptionRequest{}, adopte_errors.ErrInvalidInput
	}

	if _, err := s.repo.GetByCompanyAndStudent(ctx, companyID, studentID); err == nil {
		return adoption.AdoptionRequest{}, adopte_errors.ErrAlreadyExists
	} else if !errors.Is(err, adopte_errors.ErrNotFound) {
		return adoption.AdoptionRequest{}, err
	}

	now := time.Now()
	a := adoption.AdoptionRequest{
		ID:        uuid.New(),
		CompanyID: companyID,
		StudentID: studentID,
		Status:    domain.RequestPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, &a); err != nil {
		return adoption.AdoptionRequest{}, err
	}
	return a, nil
}

func (s *AdoptionService) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListByCompany(ctx, companyID, page, limit)
}

func (s *AdoptionService) ListByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.ListByStudent(ctx, studentID, page, limit)
}

// Decide lets the student accept or reject a pending adoption request.
// Acceptance opens the ADOPTION_REQUEST-context conversation.
func (s *AdoptionService) Decide(ctx context.Context, studentID, requestID uuid.UUID, accept bool) (adoption.AdoptionRequest, error) {
	a, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return adoption.AdoptionRequest{}, err
	}
	if a.StudentID != studentID {
		return adoption.AdoptionRequest{}, adopte_errors.ErrForbidden
	}
	if a.Status != domain.RequestPending {
		return adoption.AdoptionRequest{}, adopte_errors.ErrInvalidTransition
	}

	if accept {
		a.Status = domain.RequestAccepted
	} else {
		a.Status = domain.RequestRejected
	}
	a.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, a); err != nil {
		return adoption.AdoptionRequest{}, err
	}

	if accept {
		reqID := a.ID
		c, err := s.convSvc.Create(ctx, CreateConversationInput{
			Topic:             fmt.Sprintf("Adoption : %s", a.Company.CompanyName()),
			Context:           domain.ContextAdoptionRequest,
			ParticipantIDs:    []uuid.UUID{a.CompanyID, studentID},
			AdoptionRequestID: &reqID,
		})
		if err != nil {
			return adoption.AdoptionRequest{}, err
		}
		if _, err := s.msgSvc.Append(ctx, c, studentID, "J'ai accepté votre demande d'adoption."); err != nil {
			s.logger.Errorf("seed message for conversation %s: %v", c.ID, err)
		}
	}
	return a, nil
}
