package repository

import (
	"context"
	"errors"
	"strings"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/user"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	res := r.db.WithContext(ctx).Create(u)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return adopte_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Company").
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, adopte_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Company").
		Where("email = ?", strings.ToLower(email)).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, adopte_errors.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	res := r.db.WithContext(ctx).Save(&u)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) List(ctx context.Context, role *domain.Role, page, limit int) ([]user.User, int64, error) {
	var users []user.User
	var total int64

	q := r.db.WithContext(ctx).Model(&user.User{}).Where("is_active = ?", true)
	if role != nil {
		q = q.Where("role = ?", *role)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := q.
		Preload("Student").
		Preload("Company").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *PostgresUserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("role = ?", role).
		Count(&total).Error
	return total, err
}

func (r *PostgresUserRepository) UpdateStudentProfile(ctx context.Context, p user.StudentProfile) error {
	res := r.db.WithContext(ctx).Save(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) UpdateCompanyProfile(ctx context.Context, p user.CompanyProfile) error {
	res := r.db.WithContext(ctx).Save(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return adopte_errors.ErrNotFound
	}
	return nil
}
