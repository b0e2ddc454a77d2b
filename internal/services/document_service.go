package services

import (
	"context"
	"errors"

	"adopte-server/internal/domain"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	"adopte-server/internal/storage"
	adopte_errors "adopte-server/pkg/errors"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
)

// DocumentService hands out presigned URLs for student CV documents.
// The API never touches the bytes; clients upload and download against
// the bucket directly.
type DocumentService struct {
	userRepo repository.UserRepository
	store    *storage.Client
	cache    *redis.CacheStore
	logger   *logger.Logger
}

func NewDocumentService(userRepo repository.UserRepository, store *storage.Client, cache *redis.CacheStore, l *logger.Logger) *DocumentService {
	if l == nil {
		l = logger.NewNop()
	}
	return &DocumentService{userRepo: userRepo, store: store, cache: cache, logger: l}
}

type UploadTicket struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Key     string            `json:"key"`
}

// RequestCVUpload validates the document and returns a presigned PUT
// URL. The new key is recorded on the student profile immediately; a
// client that never completes the upload just leaves a dangling key
// behind, which the next upload replaces.
func (s *DocumentService) RequestCVUpload(ctx context.Context, studentID uuid.UUID, contentType string, sizeBytes int64) (UploadTicket, error) {
	if s.store == nil {
		return UploadTicket{}, adopte_errors.ErrUnavailable
	}
	if err := storage.ValidateDocument(contentType, sizeBytes); err != nil {
		return UploadTicket{}, adopte_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return UploadTicket{}, adopte_errors.ErrUserNotFound
		}
		return UploadTicket{}, err
	}
	if u.Role != domain.RoleStudent || u.Student == nil {
		return UploadTicket{}, adopte_errors.ErrForbidden
	}

	key := storage.DocumentKey(studentID)
	url, headers, err := s.store.PresignPut(ctx, key, contentType, sizeBytes)
	if err != nil {
		return UploadTicket{}, err
	}

	profile := *u.Student
	profile.CVKey = key
	if err := s.userRepo.UpdateStudentProfile(ctx, profile); err != nil {
		return UploadTicket{}, err
	}
	s.cache.InvalidateUser(ctx, studentID)

	s.logger.Infof("cv upload ticket issued for student %s", studentID)
	return UploadTicket{URL: url, Headers: headers, Key: key}, nil
}

// CVDownloadURL returns a presigned GET URL for a student's CV. Students
// can fetch their own; companies and admins can fetch any.
func (s *DocumentService) CVDownloadURL(ctx context.Context, viewer Principal, studentID uuid.UUID) (string, error) {
	if s.store == nil {
		return "", adopte_errors.ErrUnavailable
	}
	if viewer.Role == domain.RoleStudent && viewer.UserID != studentID {
		return "", adopte_errors.ErrForbidden
	}

	u, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, adopte_errors.ErrNotFound) {
			return "", adopte_errors.ErrUserNotFound
		}
		return "", err
	}
	if u.Student == nil || u.Student.CVKey == "" {
		return "", adopte_errors.ErrNotFound
	}

	return s.store.PresignGet(ctx, u.Student.CVKey)
}
