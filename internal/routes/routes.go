package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/auth"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	"github.com/BruksfildServices01/repair-desk/internal/config"
	"github.com/BruksfildServices01/repair-desk/internal/handlers"
	infraRepo "github.com/BruksfildServices01/repair-desk/internal/infra/repository"
	"github.com/BruksfildServices01/repair-desk/internal/middleware"
	"github.com/BruksfildServices01/repair-desk/internal/storage"
	ucExecutor "github.com/BruksfildServices01/repair-desk/internal/usecase/executor"
	ucTicket "github.com/BruksfildServices01/repair-desk/internal/usecase/ticket"
)

// Deps are the collaborators built once at startup.
type Deps struct {
	Log       zerolog.Logger
	Clock     clock.Clock
	Store     storage.ObjectStore
	Revoker   auth.Revoker
	Audit     audit.Recorder
	AuditLogs *audit.Logger
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, deps Deps) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.RequestLogger(deps.Log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// INFRA
	// ======================================================
	ticketRepo := infraRepo.NewTicketGormRepository(db)
	executorRepo := infraRepo.NewExecutorGormRepository(db)
	userRepo := infraRepo.NewUserGormRepository(db)

	authSvc := auth.NewService(
		userRepo,
		auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL, deps.Clock),
		deps.Revoker,
		cfg.CheckEmailDomain,
	)

	// ======================================================
	// USE CASES
	// ======================================================
	createRequestUC := ucTicket.NewCreateRequest(ticketRepo, deps.Clock, deps.Audit)
	getRequestUC := ucTicket.NewGetRequest(ticketRepo)
	listRequestsUC := ucTicket.NewListRequests(ticketRepo)
	listForClientUC := ucTicket.NewListForClient(ticketRepo)
	updateRequestUC := ucTicket.NewUpdateRequest(ticketRepo, deps.Clock, deps.Audit)
	deleteRequestUC := ucTicket.NewDeleteRequest(ticketRepo, deps.Store, deps.Audit, deps.Log)
	addCommentUC := ucTicket.NewAddComment(ticketRepo, deps.Clock, deps.Audit)
	statisticsUC := ucTicket.NewGetStatistics(ticketRepo)
	uploadUC := ucTicket.NewUploadAttachment(ticketRepo, deps.Store, deps.Audit, deps.Log)

	createExecutorUC := ucExecutor.NewCreateExecutor(executorRepo, deps.Audit)
	listExecutorsUC := ucExecutor.NewListExecutors(executorRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(authSvc, !cfg.IsDev())
	healthHandler := handlers.NewHealthHandler(db)

	requestHandler := handlers.NewRequestHandler(
		createRequestUC,
		getRequestUC,
		listRequestsUC,
		updateRequestUC,
		deleteRequestUC,
		addCommentUC,
		uploadUC,
		cfg.MaxUploadBytes,
	)
	dashboardHandler := handlers.NewDashboardHandler(statisticsUC, listForClientUC, listExecutorsUC)
	executorHandler := handlers.NewExecutorHandler(createExecutorUC, listExecutorsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.AuditLogs)

	adminOnly := middleware.RequireRole(authz.RoleAdmin)
	userOnly := middleware.RequireRole(authz.RoleUser)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/health", healthHandler.Health)

	// credential endpoints get a tighter budget than the API as a whole
	credentials := r.Group("/")
	credentials.Use(rateLimit(10))
	{
		credentials.POST("/register", authHandler.Register)
		credentials.POST("/login", authHandler.Login)
	}

	// ======================================================
	// SECURED
	// ======================================================
	secured := r.Group("/")
	secured.Use(middleware.AuthMiddleware(authSvc))
	{
		secured.POST("/logout", authHandler.Logout)
		secured.GET("/me", authHandler.Me)

		secured.GET("/", dashboardHandler.Home)
		secured.GET("/client", userOnly, dashboardHandler.Client)
		secured.GET("/statistics", dashboardHandler.Statistics)

		// ------------------------------
		// EXECUTORS
		// ------------------------------
		secured.GET("/add-executor", adminOnly, executorHandler.List)
		secured.POST("/add-executor", adminOnly, executorHandler.Create)
		secured.GET("/executors", executorHandler.List)

		// ------------------------------
		// REQUESTS
		// ------------------------------
		secured.GET("/requests", requestHandler.List)
		secured.POST("/requests", adminOnly, requestHandler.Create)
		secured.GET("/requests/:id", requestHandler.Get)
		secured.PUT("/requests/:id", adminOnly, requestHandler.Update)
		secured.DELETE("/requests/:id", adminOnly, requestHandler.Delete)
		secured.POST("/requests/:id/comments", requestHandler.AddComment)
		secured.POST("/requests/:id/attachments", requestHandler.UploadAttachment)

		secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
	}
}

// rateLimit adapts httprate's per-IP limiter to a gin handler.
func rateLimit(perMinute int) gin.HandlerFunc {
	limiter := httprate.LimitByIP(perMinute, time.Minute)
	return func(c *gin.Context) {
		passed := false
		limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}
