package services

import (
	"context"
	"testing"
	"time"

	"adopte-server/internal/domain"
	"adopte-server/internal/domain/adoption"
	"adopte-server/internal/domain/conversation"
	"adopte-server/internal/domain/message"
	"adopte-server/internal/domain/offer"
	"adopte-server/internal/domain/user"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	"adopte-server/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&user.StudentProfile{},
		&user.CompanyProfile{},
		&offer.Offer{},
		&offer.Application{},
		&adoption.AdoptionRequest{},
		&conversation.Conversation{},
		&conversation.Participant{},
		&message.Message{},
	))
	return db
}

type testEnv struct {
	db *gorm.DB

	userRepo     repository.UserRepository
	convRepo     repository.ConversationRepository
	msgRepo      repository.MessageRepository
	offerRepo    repository.OfferRepository
	adoptionRepo repository.AdoptionRepository

	convSvc     *ConversationService
	msgSvc      *MessageService
	offerSvc    *OfferService
	adoptionSvc *AdoptionService
	adminSvc    *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	adoptionRepo := repository.NewAdoptionRepository(db)

	cache := redis.NewCacheStore(nil, redis.DefaultCacheConfig())
	nop := logger.NewNop()

	convSvc := NewConversationService(userRepo, convRepo, msgRepo, cache, nop)
	msgSvc := NewMessageService(userRepo, convRepo, msgRepo, nil, nop)
	offerSvc := NewOfferService(offerRepo, convSvc, msgSvc, nop)
	adoptionSvc := NewAdoptionService(adoptionRepo, userRepo, convSvc, msgSvc, nop)
	adminSvc := NewAdminService(userRepo, offerRepo, adoptionRepo, convRepo, convSvc, msgSvc, cache, nop)

	return &testEnv{
		db:           db,
		userRepo:     userRepo,
		convRepo:     convRepo,
		msgRepo:      msgRepo,
		offerRepo:    offerRepo,
		adoptionRepo: adoptionRepo,
		convSvc:      convSvc,
		msgSvc:       msgSvc,
		offerSvc:     offerSvc,
		adoptionSvc:  adoptionSvc,
		adminSvc:     adminSvc,
	}
}

func (e *testEnv) createStudent(t *testing.T, email, first, last string) user.User {
	t.Helper()
	now := time.Now()
	u := user.User{
		ID:       uuid.New(),
		Email:    email,
		Role:     domain.RoleStudent,
		IsActive: true,
		Student: &user.StudentProfile{
			FirstName: first,
			LastName:  last,
			UpdatedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.Student.UserID = u.ID
	require.NoError(t, e.userRepo.Create(context.Background(), &u))
	return u
}

func (e *testEnv) createCompany(t *testing.T, email, name string) user.User {
	t.Helper()
	now := time.Now()
	u := user.User{
		ID:       uuid.New(),
		Email:    email,
		Role:     domain.RoleCompany,
		IsActive: true,
		Company: &user.CompanyProfile{
			Name:      name,
			UpdatedAt: now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.Company.UserID = u.ID
	require.NoError(t, e.userRepo.Create(context.Background(), &u))
	return u
}

func (e *testEnv) createAdmin(t *testing.T, email string) user.User {
	t.Helper()
	now := time.Now()
	u := user.User{
		ID:        uuid.New(),
		Email:     email,
		Role:      domain.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), &u))
	return u
}

func (e *testEnv) createDirectConversation(t *testing.T, topic string, participants ...user.User) conversation.Conversation {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(participants))
	for _, u := range participants {
		ids = append(ids, u.ID)
	}
	c, err := e.convSvc.Create(context.Background(), CreateConversationInput{
		Topic:          topic,
		Context:        domain.ContextAdminMessage,
		ParticipantIDs: ids,
	})
	require.NoError(t, err)
	return c
}
