package repository

import (
	"context"
	"errors"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/offer"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresOfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &PostgresOfferRepository{db: db}
}

func (r *PostgresOfferRepository) Create(ctx context.Context, o *offer.Offer) error {
	res := r.db.WithContext(ctx).Create(o)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return adopte_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (offer.Offer, error) {
	var o offer.Offer
	err := r.db.WithContext(ctx).
		Preload("Company.Company").
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return offer.Offer{}, adopte_errors.ErrNotFound
		}
		return offer.Offer{}, err
	}
	return o, nil
}

func (r *PostgresOfferRepository) Update(ctx context.Context, o offer.Offer) error {
	res := r.db.WithContext(ctx).Save(&o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&offer.Offer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresOfferRepository) ListOpen(ctx context.Context, search string, page, limit int) ([]offer.Offer, int64, error) {
	var offers []offer.Offer
	var total int64

	q := r.db.WithContext(ctx).
		Model(&offer.Offer{}).
		Where("status = ?", domain.OfferOpen)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("title LIKE ? OR skills LIKE ?", pattern, pattern)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Company.Company").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

func (r *PostgresOfferRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]offer.Offer, int64, error) {
	var offers []offer.Offer
	var total int64

	q := r.db.WithContext(ctx).
		Model(&offer.Offer{}).
		Where("company_id = ?", companyID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&offers).Error; err != nil {
		return nil, 0, err
	}

	return offers, total, nil
}

func (r *PostgresOfferRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&offer.Offer{}).Count(&total).Error
	return total, err
}

func (r *PostgresOfferRepository) CreateApplication(ctx context.Context, a *offer.Application) error {
	res := r.db.WithContext(ctx).Create(a)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return adopte_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresOfferRepository) GetApplicationByID(ctx context.Context, id uuid.UUID) (offer.Application, error) {
	var a offer.Application
	err := r.db.WithContext(ctx).
		Preload("Offer.Company.Company").
		Preload("Student.Student").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return offer.Application{}, adopte_errors.ErrNotFound
		}
		return offer.Application{}, err
	}
	return a, nil
}

func (r *PostgresOfferRepository) GetApplicationByOfferAndStudent(ctx context.Context, offerID, studentID uuid.UUID) (offer.Application, error) {
	var a offer.Application
	err := r.db.WithContext(ctx).
		Where("offer_id = ? AND student_id = ?", offerID, studentID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return offer.Application{}, adopte_errors.ErrNotFound
		}
		return offer.Application{}, err
	}
	return a, nil
}

func (r *PostgresOfferRepository) UpdateApplication(ctx context.Context, a offer.Application) error {
	res := r.db.WithContext(ctx).Save(&a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresOfferRepository) ListApplicationsByOffer(ctx context.Context, offerID uuid.UUID, page, limit int) ([]offer.Application, int64, error) {
	var applications []offer.Application
	var total int64

	q := r.db.WithContext(ctx).
		Model(&offer.Application{}).
		Where("offer_id = ?", offerID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Student.Student").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *PostgresOfferRepository) ListApplicationsByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]offer.Application, int64, error) {
	var applications []offer.Application
	var total int64

	q := r.db.WithContext(ctx).
		Model(&offer.Application{}).
		Where("student_id = ?", studentID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Offer.Company.Company").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

func (r *PostgresOfferRepository) CountApplications(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&offer.Application{}).Count(&total).Error
	return total, err
}
