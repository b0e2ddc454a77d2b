package services

import (
	"context"
	"errors"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/user"
	"adopte-server/internal/metrics"
	"adopte-server/internal/policy"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Broadcast recipients never learn which admin account sent a broadcast;
// the participant list is replaced with this sentinel identity. Admin
// viewers always see the real rows.
var AnonymousBroadcastSender = ParticipantView{
	ID:          uuid.Nil,
	Email:       "admin@system",
	Role:        domain.RoleAdmin,
	DisplayName: "Administration",
}

type ConversationService struct {
	userRepo repository.UserRepository
	repo     repository.ConversationRepository
	msgRepo  repository.MessageRepository
	cache    *redis.CacheStore
	logger   *logger.Logger
}

func NewConversationService(userRepo repository.UserRepository, repo repository.ConversationRepository, msgRepo repository.MessageRepository, cache *redis.CacheStore, l *logger.Logger) *ConversationService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ConversationService{userRepo: userRepo, repo: repo, msgRepo: msgRepo, cache: cache, logger: l}
}

// ListOptions mirrors the query-string filter of the listing endpoints.
type ListOptions struct {
	Page    int
	Limit   int
	Context *domain.ConversationContext
	Status  *domain.ConversationStatus
}

type ParticipantView struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	JoinedAt    time.Time   `json:"joined_at,omitempty"`
}

type MessageView struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// ContextDetails carries the context-specific metadata attached to each
// listed conversation.
type ContextDetails struct {
	Type        string                 `json:"type"`
	Status      domain.RequestStatus   `json:"status,omitempty"`
	CompanyName string                 `json:"company_name,omitempty"`
	OfferTitle  string                 `json:"offer_title,omitempty"`
	Target      domain.BroadcastTarget `json:"target,omitempty"`
}

type ConversationView struct {
	ID              uuid.UUID                  `json:"id"`
	Topic           string                     `json:"topic"`
	Context         domain.ConversationContext `json:"context"`
	Status          domain.ConversationStatus  `json:"status"`
	IsReadOnly      bool                       `json:"is_read_only"`
	IsBroadcast     bool                       `json:"is_broadcast"`
	BroadcastTarget *domain.BroadcastTarget    `json:"broadcast_target,omitempty"`
	ExpiresAt       *time.Time                 `json:"expires_at,omitempty"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
	Participants    []ParticipantView          `json:"participants"`
	LastMessage     *MessageView               `json:"last_message"`
	ContextDetails  *ContextDetails            `json:"context_details"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

type ConversationList struct {
	Conversations []ConversationView `json:"conversations"`
	Pagination    Pagination         `json:"pagination"`
}

// AccessResult is the always-answered verdict of the access check. Denial
// is not an error; only store failures surface as errors.
type AccessResult struct {
	Accessible   bool              `json:"accessible"`
	Reason       string            `json:"reason,omitempty"`
	Conversation *ConversationView `json:"conversation,omitempty"`
}

// GetUserConversations serves the paginated "my conversations" feed:
// direct conversations the user participates in plus broadcasts aimed at
// their role, most recently active first.
func (s *ConversationService) GetUserConversations(ctx context.Context, userID uuid.UUID, opts ListOptions) (ConversationList, error) {
	u, err := s.resolveUser(ctx, userID)
	if err != nil {
		return ConversationList{}, err
	}

	page, limit := normalizePage(opts.Page, opts.Limit)
	items, total, err := s.repo.ListForUser(ctx, u, repository.ConversationFilter{
		Page:    page,
		Limit:   limit,
		Context: opts.Context,
		Status:  opts.Status,
	})
	if err != nil {
		return ConversationList{}, err
	}

	views := make([]ConversationView, 0, len(items))
	for _, c := range items {
		views = append(views, s.shape(ctx, c, u))
	}

	return ConversationList{
		Conversations: views,
		Pagination:    paginate(page, limit, total),
	}, nil
}

// GetBroadcastConversationsForUser serves the role-matched broadcast
// inbox. Unlike the general feed it never folds in broadcasts the user
// only sees as creator.
func (s *ConversationService) GetBroadcastConversationsForUser(ctx context.Context, userID uuid.UUID, opts ListOptions) (ConversationList, error) {
	u, err := s.resolveUser(ctx, userID)
	if err != nil {
		return ConversationList{}, err
	}

	page, limit := normalizePage(opts.Page, opts.Limit)
	items, total, err := s.repo.ListBroadcastsForRole(ctx, u.Role, page, limit)
	if err != nil {
		return ConversationList{}, err
	}

	views := make([]ConversationView, 0, len(items))
	for _, c := range items {
		v := s.shape(ctx, c, u)
		target := domain.TargetAll
		if c.BroadcastTarget != nil {
			target = *c.BroadcastTarget
		}
		v.ContextDetails = &ContextDetails{Type: "broadcast", Target: target}
		views = append(views, v)
	}

	return ConversationList{
		Conversations: views,
		Pagination:    paginate(page, limit, total),
	}, nil
}

// IsConversationAccessible answers whether the user may view the
// conversation. It never fails on denial; the caller inspects the verdict.
func (s *ConversationService) IsConversationAccessible(ctx context.Context, conversationID, userID uuid.UUID) (AccessResult, error) {
	u, err := s.resolveUser(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrUserNotFound) {
			return AccessResult{Accessible: false, Reason: policy.ReasonUserNotFound}, nil
		}
		return AccessResult{}, err
	}

	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return AccessResult{Accessible: false, Reason: policy.ReasonConversationNotFound}, nil
		}
		return AccessResult{}, err
	}

	decision := policy.CheckAccess(c, u)
	if !decision.Accessible {
		return AccessResult{Accessible: false, Reason: decision.Reason}, nil
	}

	view := s.shape(ctx, c, u)
	return AccessResult{Accessible: true, Conversation: &view}, nil
}

// GetByID returns the raw conversation with its relations loaded.
func (s *ConversationService) GetByID(ctx context.Context, conversationID uuid.UUID) (conversation.Conversation, error) {
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return conversation.Conversation{}, adopte_errors.ErrConversationNotFound
		}
		return conversation.Conversation{}, err
	}
	return c, nil
}

// CreateConversationInput composes a conversation with its participant
// rows; they are persisted together in one transaction.
type CreateConversationInput struct {
	Topic             string
	Context           domain.ConversationContext
	ParticipantIDs    []uuid.UUID
	AdoptionRequestID *uuid.UUID
	ApplicationID     *uuid.UUID
	ReadOnly          bool
	ExpiresAt         *time.Time
}

func (s *ConversationService) Create(ctx context.Context, in CreateConversationInput) (conversation.Conversation, error) {
	if in.Topic == "" || len(in.ParticipantIDs) == 0 {
		return conversation.Conversation{}, adopte_errors.ErrInvalidInput
	}

	now := time.Now()
	c := conversation.Conversation{
		ID:                uuid.New(),
		Topic:             in.Topic,
		Context:           in.Context,
		Status:            domain.ConversationActive,
		IsReadOnly:        in.ReadOnly,
		IsBroadcast:       false,
		AdoptionRequestID: in.AdoptionRequestID,
		ApplicationID:     in.ApplicationID,
		ExpiresAt:         in.ExpiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, id := range in.ParticipantIDs {
		c.Participants = append(c.Participants, conversation.Participant{
			ConversationID: c.ID,
			UserID:         id,
			JoinedAt:       now,
		})
	}

	if err := s.repo.Create(ctx, &c); err != nil {
		return conversation.Conversation{}, err
	}
	metrics.ConversationsCreated.WithLabelValues(string(in.Context)).Inc()
	return c, nil
}

// CreateBroadcast stores one conversation with a single creator row; the
// audience stays computed so a broadcast costs O(1) writes however large
// the user base is.
func (s *ConversationService) CreateBroadcast(ctx context.Context, creatorID uuid.UUID, topic string, target domain.BroadcastTarget, expiresAt *time.Time) (conversation.Conversation, error) {
	if topic == "" {
		return conversation.Conversation{}, adopte_errors.ErrInvalidInput
	}
	switch target {
	case domain.TargetAll, domain.TargetStudents, domain.TargetCompanies:
	default:
		return conversation.Conversation{}, adopte_errors.ErrInvalidInput
	}

	now := time.Now()
	c := conversation.Conversation{
		ID:              uuid.New(),
		Topic:           topic,
		Context:         domain.ContextBroadcast,
		Status:          domain.ConversationActive,
		IsReadOnly:      true,
		IsBroadcast:     true,
		BroadcastTarget: &target,
		ExpiresAt:       expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
		Participants: []conversation.Participant{{
			UserID:   creatorID,
			JoinedAt: now,
		}},
	}
	c.Participants[0].ConversationID = c.ID

	if err := s.repo.Create(ctx, &c); err != nil {
		return conversation.Conversation{}, err
	}
	metrics.ConversationsCreated.WithLabelValues(string(domain.ContextBroadcast)).Inc()
	metrics.BroadcastsDispatched.WithLabelValues(string(target)).Inc()
	return c, nil
}

// CleanupExpiredConversations flips every ACTIVE conversation whose expiry
// has passed to EXPIRED and returns how many rows transitioned. One row's
// failure never aborts the rest, and the conditional update makes
// concurrent sweeps safe: a row a competing sweep already flipped simply
// does not match.
func (s *ConversationService) CleanupExpiredConversations(ctx context.Context) (int, error) {
	now := time.Now()
	expired, err := s.repo.FindExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, c := range expired {
		flipped, err := s.repo.MarkExpired(ctx, c.ID, now)
		if err != nil {
			s.logger.Errorf("expiry sweep: conversation %s: %v", c.ID, err)
			continue
		}
		if flipped {
			count++
		}
	}
	if count > 0 {
		metrics.ConversationsExpired.Add(float64(count))
		s.logger.Infof("expiry sweep: %d conversations expired", count)
	}
	return count, nil
}

func (s *ConversationService) resolveUser(ctx context.Context, userID uuid.UUID) (user.User, error) {
	if cached, err := s.cache.GetUser(ctx, userID); err == nil && cached != nil {
		return *cached, nil
	}
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return user.User{}, adopte_errors.ErrUserNotFound
		}
		return user.User{}, err
	}
	_ = s.cache.SetUser(ctx, u)
	return u, nil
}

// shape builds the viewer-specific payload for one conversation: the last
// message, the (possibly anonymized) participant projection and the
// context metadata.
func (s *ConversationService) shape(ctx context.Context, c conversation.Conversation, viewer user.User) ConversationView {
	v := ConversationView{
		ID:              c.ID,
		Topic:           c.Topic,
		Context:         c.Context,
		Status:          c.Status,
		IsReadOnly:      c.IsReadOnly,
		IsBroadcast:     c.IsBroadcast,
		BroadcastTarget: c.BroadcastTarget,
		ExpiresAt:       c.ExpiresAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Participants:    shapeParticipants(c, viewer),
		ContextDetails:  shapeContextDetails(c),
	}

	if last, err := s.msgRepo.LastByConversation(ctx, c.ID); err == nil {
		v.LastMessage = &MessageView{
			ID:             last.ID,
			ConversationID: last.ConversationID,
			SenderID:       last.SenderID,
			Content:        last.Content,
			CreatedAt:      last.CreatedAt,
		}
	} else if !errors.Is(err, adopte_errors.ErrNotFound) {
		s.logger.Errorf("last message lookup for conversation %s: %v", c.ID, err)
	}

	return v
}

func shapeParticipants(c conversation.Conversation, viewer user.User) []ParticipantView {
	if c.IsBroadcast && viewer.Role != domain.RoleAdmin {
		return []ParticipantView{AnonymousBroadcastSender}
	}
	views := make([]ParticipantView, 0, len(c.Participants))
	for _, p := range c.Participants {
		views = append(views, ParticipantView{
			ID:          p.UserID,
			Email:       p.User.Email,
			Role:        p.User.Role,
			DisplayName: p.User.DisplayName(),
			JoinedAt:    p.JoinedAt,
		})
	}
	return views
}

func shapeContextDetails(c conversation.Conversation) *ContextDetails {
	switch c.Context {
	case domain.ContextAdoptionRequest:
		if c.AdoptionRequest == nil {
			return nil
		}
		return &ContextDetails{
			Type:        "adoption_request",
			Status:      c.AdoptionRequest.Status,
			CompanyName: c.AdoptionRequest.Company.CompanyName(),
		}
	case domain.ContextOffer:
		if c.Application == nil {
			return nil
		}
		return &ContextDetails{
			Type:        "offer",
			Status:      c.Application.Status,
			OfferTitle:  c.Application.Offer.Title,
			CompanyName: c.Application.Offer.Company.CompanyName(),
		}
	case domain.ContextBroadcast:
		target := domain.TargetAll
		if c.BroadcastTarget != nil {
			target = *c.BroadcastTarget
		}
		return &ContextDetails{Type: "broadcast", Target: target}
	default:
		return nil
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

func paginate(page, limit int, total int64) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
