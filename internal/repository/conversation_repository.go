package repository

import (
	"context"
	"errors"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/user"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &PostgresConversationRepository{db: db}
}

func (r *PostgresConversationRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	res := r.db.WithContext(ctx).Create(c)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return adopte_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error) {
	var c conversation.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants.User.Student").
		Preload("Participants.User.Company").
		Preload("AdoptionRequest.Company.Company").
		Preload("Application.Offer.Company.Company").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return conversation.Conversation{}, adopte_errors.ErrNotFound
		}
		return conversation.Conversation{}, err
	}
	return c, nil
}

func (r *PostgresConversationRepository) Update(ctx context.Context, c conversation.Conversation) error {
	res := r.db.WithContext(ctx).Save(&c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresConversationRepository) Touch(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", at).Error
}

// ListForUser translates the listing visibility predicate into a single
// filter: (participant) OR (broadcast targeted at ALL or the user's role).
// The creator of a broadcast is covered by the participant branch.
func (r *PostgresConversationRepository) ListForUser(ctx context.Context, u user.User, f ConversationFilter) ([]conversation.Conversation, int64, error) {
	var conversations []conversation.Conversation
	var total int64

	subQuery := r.db.Model(&conversation.Participant{}).
		Select("conversation_id").
		Where("user_id = ?", u.ID)

	targets := []domain.BroadcastTarget{domain.TargetAll}
	if target, ok := domain.TargetForRole(u.Role); ok {
		targets = append(targets, target)
	}

	visible := r.db.
		Where("id IN (?)", subQuery).
		Or("is_broadcast = ? AND broadcast_target IN ?", true, targets)

	q := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where(visible)

	if f.Context != nil {
		q = q.Where("context = ?", *f.Context)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	if err := q.
		Preload("Participants.User.Student").
		Preload("Participants.User.Company").
		Preload("AdoptionRequest.Company.Company").
		Preload("Application.Offer.Company.Company").
		Order("updated_at DESC").
		Offset(offset).
		Limit(f.Limit).
		Find(&conversations).Error; err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

func (r *PostgresConversationRepository) ListBroadcastsForRole(ctx context.Context, role domain.Role, page, limit int) ([]conversation.Conversation, int64, error) {
	var conversations []conversation.Conversation
	var total int64

	targets := []domain.BroadcastTarget{domain.TargetAll}
	if target, ok := domain.TargetForRole(role); ok {
		targets = append(targets, target)
	}

	q := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("is_broadcast = ? AND broadcast_target IN ?", true, targets)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Participants.User.Student").
		Preload("Participants.User.Company").
		Order("updated_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

func (r *PostgresConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&conversation.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresConversationRepository) FindExpired(ctx context.Context, now time.Time) ([]conversation.Conversation, error) {
	var conversations []conversation.Conversation
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", domain.ConversationActive, now).
		Find(&conversations).Error
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *PostgresConversationRepository) MarkExpired(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("id = ? AND status = ?", id, domain.ConversationActive).
		Updates(map[string]interface{}{
			"status":     domain.ConversationExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresConversationRepository) CountByStatus(ctx context.Context, status domain.ConversationStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&conversation.Conversation{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}
