package repository

import (
	"context"
	"errors"

	"adopte-server/internal/domain/adoption"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresAdoptionRepository struct {
	db *gorm.DB
}

func NewAdoptionRepository(db *gorm.DB) AdoptionRepository {
	return &PostgresAdoptionRepository{db: db}
}

func (r *PostgresAdoptionRepository) Create(ctx context.Context, a *adoption.AdoptionRequest) error {
	res := r.db.WithContext(ctx).Create(a)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return adopte_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresAdoptionRepository) GetByID(ctx context.Context, id uuid.UUID) (adoption.AdoptionRequest, error) {
	var a adoption.AdoptionRequest
	err := r.db.WithContext(ctx).
		Preload("Company.Company").
		Preload("Student.Student").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adoption.AdoptionRequest{}, adopte_errors.ErrNotFound
		}
		return adoption.AdoptionRequest{}, err
	}
	return a, nil
}

func (r *PostgresAdoptionRepository) GetByCompanyAndStudent(ctx context.Context, companyID, studentID uuid.UUID) (adoption.AdoptionRequest, error) {
	var a adoption.AdoptionRequest
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND student_id = ?", companyID, studentID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adoption.AdoptionRequest{}, adopte_errors.ErrNotFound
		}
		return adoption.AdoptionRequest{}, err
	}
	return a, nil
}

func (r *PostgresAdoptionRepository) Update(ctx context.Context, a adoption.AdoptionRequest) error {
	res := r.db.WithContext(ctx).Save(&a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresAdoptionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error) {
	var requests []adoption.AdoptionRequest
	var total int64

	q := r.db.WithContext(ctx).
		Model(&adoption.AdoptionRequest{}).
		Where("company_id = ?", companyID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Student.Student").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *PostgresAdoptionRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, page, limit int) ([]adoption.AdoptionRequest, int64, error) {
	var requests []adoption.AdoptionRequest
	var total int64

	q := r.db.WithContext(ctx).
		Model(&adoption.AdoptionRequest{}).
		Where("student_id = ?", studentID)

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Company.Company").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *PostgresAdoptionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&adoption.AdoptionRequest{}).Count(&total).Error
	return total, err
}
