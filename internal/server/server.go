package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adopte-server/internal/config"
	"adopte-server/internal/domain"
	"adopte-server/internal/handler"
	"adopte-server/internal/middleware"
	"adopte-server/internal/redis"
	"adopte-server/internal/services"
	"adopte-server/internal/transport/httpdto"
	"adopte-server/internal/websocket"
	"adopte-server/pkg/database"
	"adopte-server/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Offer        *handler.OfferHandler
	Adoption     *handler.AdoptionHandler
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Admin        *handler.AdminHandler
	Document     *handler.DocumentHandler
	Websocket    *websocket.Handler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

func (s *Server) SetupRoutes(handlers *Handlers, authService *services.AuthService, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.MetricsMiddleware())
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := middleware.AuthMiddleware(authService)
	studentOnly := middleware.RequireRole(domain.RoleStudent)
	companyOnly := middleware.RequireRole(domain.RoleCompany)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	auth := s.engine.Group("/v1/auth")
	auth.Use(middleware.AuthRateLimitMiddleware(limiter))
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/refresh", handlers.Auth.Refresh)
	}

	users := s.engine.Group("/v1/users", authed)
	{
		users.GET("/me", handlers.User.Me)
		users.PUT("/me/student", studentOnly, handlers.User.UpdateStudentProfile)
		users.PUT("/me/company", companyOnly, handlers.User.UpdateCompanyProfile)
		users.GET("/students", handlers.User.ListStudents)
		users.GET("/:id", handlers.User.GetByID)
		users.GET("/:id/cv", handlers.Document.DownloadCV)
	}

	documents := s.engine.Group("/v1/documents", authed)
	{
		documents.POST("/cv", studentOnly, handlers.Document.RequestCVUpload)
	}

	offers := s.engine.Group("/v1/offers", authed)
	{
		offers.GET("", handlers.Offer.ListOpen)
		offers.POST("", companyOnly, handlers.Offer.Create)
		offers.GET("/mine", companyOnly, handlers.Offer.ListMine)
		offers.GET("/:id", handlers.Offer.GetByID)
		offers.PUT("/:id", companyOnly, handlers.Offer.Update)
		offers.DELETE("/:id", companyOnly, handlers.Offer.Delete)
		offers.POST("/:id/apply", studentOnly, handlers.Offer.Apply)
		offers.GET("/:id/applications", companyOnly, handlers.Offer.ListApplications)
	}

	applications := s.engine.Group("/v1/applications", authed)
	{
		applications.GET("/mine", studentOnly, handlers.Offer.ListMyApplications)
		applications.POST("/:id/decision", companyOnly, handlers.Offer.DecideApplication)
	}

	adoptions := s.engine.Group("/v1/adoptions", authed)
	{
		adoptions.POST("", companyOnly, handlers.Adoption.Request)
		adoptions.GET("/sent", companyOnly, handlers.Adoption.ListMine)
		adoptions.GET("/received", studentOnly, handlers.Adoption.ListReceived)
		adoptions.POST("/:id/decision", studentOnly, handlers.Adoption.Decide)
	}

	conversations := s.engine.Group("/v1/conversations", authed)
	{
		conversations.GET("", handlers.Conversation.List)
		conversations.GET("/broadcasts", handlers.Conversation.ListBroadcasts)
		conversations.GET("/:id", handlers.Conversation.Get)
		conversations.GET("/:id/access", handlers.Conversation.CheckAccess)
		conversations.GET("/:id/messages", handlers.Message.List)
		conversations.POST("/:id/messages", middleware.MessageRateLimitMiddleware(limiter), handlers.Message.Send)
	}

	admin := s.engine.Group("/v1/admin", authed, adminOnly)
	{
		admin.POST("/broadcasts", handlers.Admin.DispatchBroadcast)
		admin.POST("/messages", handlers.Admin.SendMessage)
		admin.GET("/stats", handlers.Admin.Stats)
		admin.POST("/conversations/cleanup", handlers.Admin.Cleanup)
		admin.GET("/users", handlers.User.List)
		admin.DELETE("/users/:id", handlers.User.Deactivate)
	}

	s.engine.GET("/v1/ws", handlers.Websocket.Connect)
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
