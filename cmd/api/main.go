package main

import (
	"context"
	"log"
	"time"

	"adopte-server/internal/config"
	"adopte-server/internal/handler"
	"adopte-server/internal/redis"
	"adopte-server/internal/repository"
	"adopte-server/internal/server"
	"adopte-server/internal/services"
	"adopte-server/internal/storage"
	"adopte-server/internal/sweeper"
	"adopte-server/internal/websocket"
	"adopte-server/pkg/database"
	"adopte-server/pkg/events"
	"adopte-server/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(cfg)
	cache := redis.NewCacheStore(redisClient, redis.DefaultCacheConfig())
	limiter := redis.NewRateLimiter(redisClient, redis.DefaultRateLimitConfig())
	broker := events.NewRedisBroker(redisClient)

	var store *storage.Client
	if cfg.S3Bucket != "" {
		var err error
		store, err = storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3Region,
			Bucket:     cfg.S3Bucket,
			AccessKey:  cfg.S3AccessKey,
			SecretKey:  cfg.S3SecretKey,
			Endpoint:   cfg.S3Endpoint,
			PresignTTL: 15 * time.Minute,
		})
		if err != nil {
			log.Fatalf("Failed to init s3 client: %v", err)
		}
	}

	userRepo := repository.NewUserRepository(database.DB)
	convRepo := repository.NewConversationRepository(database.DB)
	msgRepo := repository.NewMessageRepository(database.DB)
	offerRepo := repository.NewOfferRepository(database.DB)
	adoptionRepo := repository.NewAdoptionRepository(database.DB)

	authSvc := services.NewAuthService(userRepo, cfg)
	userSvc := services.NewUserService(userRepo, cache)
	convSvc := services.NewConversationService(userRepo, convRepo, msgRepo, cache, l)
	msgSvc := services.NewMessageService(userRepo, convRepo, msgRepo, broker, l)
	offerSvc := services.NewOfferService(offerRepo, convSvc, msgSvc, l)
	adoptionSvc := services.NewAdoptionService(adoptionRepo, userRepo, convSvc, msgSvc, l)
	adminSvc := services.NewAdminService(userRepo, offerRepo, adoptionRepo, convRepo, convSvc, msgSvc, cache, l)
	docSvc := services.NewDocumentService(userRepo, store, cache, l)

	hub := websocket.NewHub()
	go hub.Run(ctx)

	bridge := websocket.NewRedisBridge(broker, hub)
	if err := bridge.Run(ctx, []string{"user:*", "audience:*"}); err != nil {
		l.Errorf("websocket bridge: %v", err)
	}

	sweeper.NewRunner(convSvc, time.Duration(cfg.ExpirySweepMinutes)*time.Minute, l).Start(ctx)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		User:         handler.NewUserHandler(userSvc),
		Offer:        handler.NewOfferHandler(offerSvc),
		Adoption:     handler.NewAdoptionHandler(adoptionSvc),
		Conversation: handler.NewConversationHandler(convSvc),
		Message:      handler.NewMessageHandler(msgSvc),
		Admin:        handler.NewAdminHandler(adminSvc),
		Document:     handler.NewDocumentHandler(docSvc),
		Websocket:    websocket.NewHandler(authSvc, hub, websocket.NewChannelAuthorizer()),
	}, authSvc, limiter)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
