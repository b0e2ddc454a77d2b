package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

type AdminService struct {
	userRepo     repository.UserRepository
	offerRepo    repository.OfferRepository
	adoptionRepo repository.AdoptionRepository
	convRepo     repository.ConversationRepository
	convSvc      *ConversationService
	msgSvc       *MessageService
	cache        *redis.CacheStore
	logger       *logger.Logger
}

func NewAdminService(userRepo repository.UserRepository, offerRepo repository.OfferRepository, adoptionRepo repository.AdoptionRepository, convRepo repository.ConversationRepository, convSvc *ConversationService, msgSvc *MessageService, cache *redis.CacheStore, l *logger.Logger) *AdminService {
	if l == nil {
		l = logger.NewNop()
	}
	return &AdminService{
		userRepo:     userRepo,
		offerRepo:    offerRepo,
		adoptionRepo: adoptionRepo,
		convRepo:     convRepo,
		convSvc:      convSvc,
		msgSvc:       msgSvc,
		cache:        cache,
		logger:       l,
	}
}

type DispatchBroadcastInput struct {
	Topic     string
	Content   string
	Target    domain.BroadcastTarget
	ExpiresAt *time.Time
}

// DispatchBroadcast creates the read-only broadcast conversation and its
// first message in one go. The admin creator is the only stored
// participant; recipients are resolved from their role at read time.
func (s *AdminService) DispatchBroadcast(ctx context.Context, adminID uuid.UUID, in DispatchBroadcastInput) (conversation.Conversation, error) {
	if in.Content == "" {
		return conversation.Conversation{}, adopte_errors.ErrInvalidInput
	}

	c, err := s.convSvc.CreateBroadcast(ctx, adminID, in.Topic, in.Target, in.ExpiresAt)
	if err != nil {
		return conversation.Conversation{}, err
	}
	if _, err := s.msgSvc.Append(ctx, c, adminID, in.Content); err != nil {
		return conversation.Conversation{}, err
	}
	s.logger.Infof("broadcast %s dispatched to %s", c.ID, in.Target)
	return c, nil
}

// SendAdminMessage opens (or reuses nothing: each dispatch is its own
// thread) an ADMIN_MESSAGE conversation with one user and posts into it.
func (s *AdminService) SendAdminMessage(ctx context.Context, adminID, userID uuid.UUID, topic, content string) (conversation.Conversation, error) {
	if content == "" {
		return conversation.Conversation{}, adopte_errors.ErrInvalidInput
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return conversation.Conversation{}, adopte_errors.ErrUserNotFound
		}
		return conversation.Conversation{}, err
	}

	c, err := s.convSvc.Create(ctx, CreateConversationInput{
		Topic:          topic,
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: []uuid.UUID{adminID, userID},
	})
	if err != nil {
		return conversation.Conversation{}, err
	}
	if _, err := s.msgSvc.Append(ctx, c, adminID, content); err != nil {
		return conversation.Conversation{}, err
	}
	return c, nil
}

type Stats struct {
	Students              int64 `json:"students"`
	Companies             int64 `json:"companies"`
	Offers                int64 `json:"offers"`
	Applications          int64 `json:"applications"`
	AdoptionRequests      int64 `json:"adoption_requests"`
	ActiveConversations   int64 `json:"active_conversations"`
	ArchivedConversations int64 `json:"archived_conversations"`
	ExpiredConversations  int64 `json:"expired_conversations"`
}

// GetStats serves the dashboard counters, cached briefly since they feed
// a refresh-happy admin UI.
func (s *AdminService) GetStats(ctx context.Context) (Stats, error) {
	if data, err := s.cache.GetStats(ctx); err == nil && data != nil {
		var cached Stats
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	var stats Stats
	var err error
	if stats.Students, err = s.userRepo.CountByRole(ctx, domain.RoleStudent); err != nil {
		return Stats{}, err
	}
	if stats.Companies, err = s.userRepo.CountByRole(ctx, domain.RoleCompany); err != nil {
		return Stats{}, err
	}
	if stats.Offers, err = s.offerRepo.Count(ctx); err != nil {
		return Stats{}, err
	}
	if stats.Applications, err = s.offerRepo.CountApplications(ctx); err != nil {
		return Stats{}, err
	}
	if stats.AdoptionRequests, err = s.adoptionRepo.Count(ctx); err != nil {
		return Stats{}, err
	}
	if stats.ActiveConversations, err = s.convRepo.CountByStatus(ctx, domain.ConversationActive); err != nil {
		return Stats{}, err
	}
	if stats.ArchivedConversations, err = s.convRepo.CountByStatus(ctx, domain.ConversationArchived); err != nil {
		return Stats{}, err
	}
	if stats.ExpiredConversations, err = s.convRepo.CountByStatus(ctx, domain.ConversationExpired); err != nil {
		return Stats{}, err
	}

	if data, err := json.Marshal(stats); err == nil {
		_ = s.cache.SetStats(ctx, data)
	}
	return stats, nil
}

// RunCleanup triggers the expiry sweep on demand.
func (s *AdminService) RunCleanup(ctx context.Context) (int, error) {
	return s.convSvc.CleanupExpiredConversations(ctx)
}
