package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"safeguard/internal/handler"
	"safeguard/internal/middleware"
	"safeguard/internal/pipeline"
	"safeguard/internal/repository"
	"safeguard/internal/service"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	log      *logrus.Logger
}

func NewServer(db *sqlx.DB, p *pipeline.Pipeline, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		pipeline: p,
		logger:   logger,
		log:      log,
	}

	// Setup routes
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	// Initialize Auth components
	authRepo := repository.NewAuthRepository(s.db, s.log)
	authService := service.NewAuthService(authRepo, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)

	// Data-facing components
	childRepo := repository.NewChildRepository(s.db, s.logger)
	alertRepo := repository.NewAlertRepository(s.db, s.logger)

	contentHandler := handler.NewContentHandler(s.pipeline, s.logger)
	alertHandler := handler.NewAlertHandler(alertRepo, s.logger)
	childHandler := handler.NewChildHandler(childRepo, s.logger)
	dashboardHandler := handler.NewDashboardHandler(childRepo, alertRepo, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.RegisterParent)
	authGroup.POST("/login", authHandler.Login)

	// Content submission comes from device agents, not authenticated parents
	contentGroup := s.router.Group("/api/content")
	contentGroup.POST("/message", contentHandler.SubmitMessage)

	// Authenticated parent-facing routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)

		authRequired.GET("/alerts", alertHandler.GetAlerts)
		authRequired.GET("/alerts/:id", alertHandler.GetAlertByID)
		authRequired.PUT("/alerts/:id/status", alertHandler.UpdateAlertStatus)

		authRequired.POST("/children", childHandler.CreateChild)
		authRequired.GET("/children", childHandler.GetChildren)
		authRequired.GET("/children/:id", childHandler.GetChildByID)

		authRequired.GET("/dashboard", dashboardHandler.GetDashboard)
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
