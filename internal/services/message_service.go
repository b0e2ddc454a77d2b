package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/message"
	"adopte-server/internal/metrics"
	"adopte-server/internal/policy"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/events"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

type MessageService struct {
	userRepo  repository.UserRepository
	convRepo  repository.ConversationRepository
	repo      repository.MessageRepository
	publisher events.Publisher
	logger    *logger.Logger
}

func NewMessageService(userRepo repository.UserRepository, convRepo repository.ConversationRepository, repo repository.MessageRepository, publisher events.Publisher, l *logger.Logger) *MessageService {
	if l == nil {
		l = logger.NewNop()
	}
	return &MessageService{
		userRepo:  userRepo,
		convRepo:  convRepo,
		repo:      repo,
		publisher: publisher,
		logger:    l,
	}
}

type MessageList struct {
	Messages   []MessageView `json:"messages"`
	Pagination Pagination    `json:"pagination"`
}

// SendMessage appends a message to a conversation the sender may write
// into, bumps the conversation's activity timestamp and notifies the
// other participants.
func (s *MessageService) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, content string) (MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return MessageView{}, adopte_errors.ErrInvalidInput
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return MessageView{}, adopte_errors.ErrUserNotFound
		}
		return MessageView{}, err
	}

	c, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return MessageView{}, adopte_errors.ErrConversationNotFound
		}
		return MessageView{}, err
	}

	if decision := policy.CanSendMessage(c, sender, time.Now()); !decision.Accessible {
		s.logger.Infof("message rejected in conversation %s: %s", c.ID, decision.Reason)
		return MessageView{}, adopte_errors.ErrForbidden
	}

	view, err := s.append(ctx, c, senderID, content)
	if err != nil {
		return MessageView{}, err
	}
	return view, nil
}

// ListMessages returns a page of the conversation's history, newest first.
// Viewing is guarded by the same access decision as the conversation
// itself; status or expiry never block reading.
func (s *MessageService) ListMessages(ctx context.Context, conversationID, userID uuid.UUID, page, limit int) (MessageList, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return MessageList{}, adopte_errors.ErrUserNotFound
		}
		return MessageList{}, err
	}

	c, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return MessageList{}, adopte_errors.ErrConversationNotFound
		}
		return MessageList{}, err
	}

	if decision := policy.CheckAccess(c, u); !decision.Accessible {
		return MessageList{}, adopte_errors.ErrForbidden
	}

	page, limit = normalizePage(page, limit)
	items, total, err := s.repo.ListByConversation(ctx, conversationID, page, limit)
	if err != nil {
		return MessageList{}, err
	}

	views := make([]MessageView, 0, len(items))
	for _, m := range items {
		views = append(views, MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
		})
	}

	return MessageList{Messages: views, Pagination: paginate(page, limit, total)}, nil
}

// Append writes a message without the send-permission guard. Reserved for
// system senders: the first message of an admin broadcast goes into a
// conversation that is already read-only for everyone else.
func (s *MessageService) Append(ctx context.Context, c conversation.Conversation, senderID uuid.UUID, content string) (MessageView, error) {
	return s.append(ctx, c, senderID, content)
}

func (s *MessageService) append(ctx context.Context, c conversation.Conversation, senderID uuid.UUID, content string) (MessageView, error) {
	m := message.Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, &m); err != nil {
		return MessageView{}, err
	}

	if err := s.convRepo.Touch(ctx, c.ID, m.CreatedAt); err != nil {
		s.logger.Errorf("touch conversation %s: %v", c.ID, err)
	}
	metrics.MessagesSent.Inc()

	view := MessageView{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
	s.notify(ctx, c, view)
	return view, nil
}

// notify publishes the new message on the per-user channels of the stored
// participants, or on the audience channel for a broadcast.
func (s *MessageService) notify(ctx context.Context, c conversation.Conversation, view MessageView) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Type:      events.TypeMessageCreated,
		Payload:   view,
		Timestamp: view.CreatedAt.Unix(),
	}

	if c.IsBroadcast && c.BroadcastTarget != nil {
		channel := events.AudienceChannelPrefix + string(*c.BroadcastTarget)
		if err := s.publisher.Publish(ctx, channel, event); err != nil {
			s.logger.Errorf("publish %s: %v", channel, err)
		}
		return
	}
	for _, p := range c.Participants {
		if p.UserID == view.SenderID {
			continue
		}
		channel := events.UserChannelPrefix + p.UserID.String()
		if err := s.publisher.Publish(ctx, channel, event); err != nil {
			s.logger.Errorf("publish %s: %v", channel, err)
		}
	}
}
