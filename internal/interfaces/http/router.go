// Package http wires handlers, middleware, and routes into the gin engine.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"sentra/internal/application/issue/usecases"
	"sentra/internal/infrastructure/auth"
	"sentra/internal/infrastructure/config"
	"sentra/internal/infrastructure/email"
	"sentra/internal/infrastructure/pubsub"
	"sentra/internal/infrastructure/repository"
	"sentra/internal/infrastructure/services"
	issuehandlers "sentra/internal/interfaces/http/handlers/issue"
	"sentra/internal/interfaces/http/middleware"
	"sentra/internal/interfaces/http/routes"
	"sentra/internal/shared/db"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/markdown"

	_ "sentra/docs"
)

// Router represents the HTTP router configuration
type Router struct {
	engine         *gin.Engine
	issueHandler   *issuehandlers.IssueHandler
	hubHandler     *issuehandlers.HubHandler
	authMiddleware *middleware.AuthMiddleware
	threadPush     *services.ThreadPushService
	logger         logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(gormDB *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	issueRepo := repository.NewIssueRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	txMgr := db.NewTransactionManager(gormDB)
	renderer := markdown.NewRenderer()

	hub := services.NewIssueHub(log.Named("issue_hub"))
	bus := pubsub.NewRedisThreadEventBus(redisClient, log.Named("thread_bus"))
	threadPush := services.NewThreadPushService(hub, bus, log.Named("thread_push"))

	emailService := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	})
	mailer := services.NewEmailNotificationService(emailService, cfg.Email.NotifyAddress, cfg.Email.Enabled, log.Named("notification"))

	createIssueUC := usecases.NewCreateIssueUseCase(issueRepo, log)
	getIssueUC := usecases.NewGetIssueUseCase(issueRepo, log)
	listIssuesUC := usecases.NewListIssuesUseCase(issueRepo, log)
	addCommentUC := usecases.NewAddCommentUseCase(issueRepo, commentRepo, txMgr, renderer, threadPush, log)
	listCommentsUC := usecases.NewListCommentsUseCase(issueRepo, commentRepo, renderer, log)
	updateStatusUC := usecases.NewUpdateStatusUseCase(issueRepo, addCommentUC, txMgr, threadPush, mailer, log)

	issueHandler := issuehandlers.NewIssueHandler(
		createIssueUC,
		getIssueUC,
		listIssuesUC,
		addCommentUC,
		listCommentsUC,
		updateStatusUC,
	)
	hubHandler := issuehandlers.NewHubHandler(hub, getIssueUC, log.Named("thread_ws"))

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc, log)

	return &Router{
		engine:         engine,
		issueHandler:   issueHandler,
		hubHandler:     hubHandler,
		authMiddleware: authMiddleware,
		threadPush:     threadPush,
		logger:         log,
	}
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes(cfg *config.Config) {
	r.engine.Use(middleware.Logger(r.logger.Named("http")))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.ErrorHandler())
	r.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupIssueRoutes(r.engine, &routes.IssueRouteConfig{
		IssueHandler:   r.issueHandler,
		HubHandler:     r.hubHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// ThreadPush returns the push service so the server can start its
// cross-instance subscription loop.
func (r *Router) ThreadPush() *services.ThreadPushService {
	return r.threadPush
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
