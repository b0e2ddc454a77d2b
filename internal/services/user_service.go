package services

import (
	"context"
	"errors"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/user"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	adopte_errors "adopte-server/pkg/errors"

	"github.com/google/uuid"
)

type UserService struct {
	repo  repository.UserRepository
	cache *redis.CacheStore
}

func NewUserService(repo repository.UserRepository, cache *redis.CacheStore) *UserService {
	return &UserService{repo: repo, cache: cache}
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (user.User, error) {
	if cached, err := s.cache.GetUser(ctx, userID); err == nil && cached != nil {
		return *cached, nil
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return user.User{}, adopte_errors.ErrUserNotFound
		}
		return user.User{}, err
	}
	_ = s.cache.SetUser(ctx, u)
	return u, nil
}

// ListStudents serves the company-facing student directory.
func (s *UserService) ListStudents(ctx context.Context, page, limit int) ([]user.User, int64, error) {
	page, limit = normalizePage(page, limit)
	role := domain.RoleStudent
	return s.repo.List(ctx, &role, page, limit)
}

// List is the admin user listing, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role *domain.Role, page, limit int) ([]user.User, int64, error) {
	page, limit = normalizePage(page, limit)
	return s.repo.List(ctx, role, page, limit)
}

type UpdateStudentProfileInput struct {
	FirstName string
	LastName  string
	School    string
	Skills    string
}

func (s *UserService) UpdateStudentProfile(ctx context.Context, userID uuid.UUID, in UpdateStudentProfileInput) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return user.User{}, adopte_errors.ErrUserNotFound
		}
		return user.User{}, err
	}
	if u.Role != domain.RoleStudent || u.Student == nil {
		return user.User{}, adopte_errors.ErrForbidden
	}

	p := *u.Student
	if in.FirstName != "" {
		p.FirstName = in.FirstName
	}
	if in.LastName != "" {
		p.LastName = in.LastName
	}
	if in.School != "" {
		p.School = in.School
	}
	if in.Skills != "" {
		p.Skills = in.Skills
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateStudentProfile(ctx, p); err != nil {
		return user.User{}, err
	}
	_ = s.cache.InvalidateUser(ctx, userID)
	u.Student = &p
	return u, nil
}

type UpdateCompanyProfileInput struct {
	Name        string
	Sector      string
	Website     string
	Description string
}

func (s *UserService) UpdateCompanyProfile(ctx context.Context, userID uuid.UUID, in UpdateCompanyProfileInput) (user.User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return user.User{}, adopte_errors.ErrUserNotFound
		}
		return user.User{}, err
	}
	if u.Role != domain.RoleCompany || u.Company == nil {
		return user.User{}, adopte_errors.ErrForbidden
	}

	p := *u.Company
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Sector != "" {
		p.Sector = in.Sector
	}
	if in.Website != "" {
		p.Website = in.Website
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateCompanyProfile(ctx, p); err != nil {
		return user.User{}, err
	}
	_ = s.cache.InvalidateUser(ctx, userID)
	u.Company = &p
	return u, nil
}

// Deactivate soft-disables an account; admin tooling only.
func (s *UserService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return adopte_errors.ErrUserNotFound
		}
		return err
	}
	u.IsActive = false
	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}
	return s.cache.InvalidateUser(ctx, userID)
}
