package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/skillswap/skillswap-api/docs"
	"github.com/skillswap/skillswap-api/internal/api/handler"
	"github.com/skillswap/skillswap-api/internal/api/middleware"
	"github.com/skillswap/skillswap-api/internal/core/domain"
	"github.com/skillswap/skillswap-api/internal/core/service"
	"github.com/skillswap/skillswap-api/internal/infrastructure/config"
	mongorepo "github.com/skillswap/skillswap-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/skillswap/skillswap-api/internal/infrastructure/db/redis"
	healthhandlers "github.com/skillswap/skillswap-api/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The audit sink is optional; passing nil disables the swap audit trail.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit service.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("skillswap"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	swapRepo := mongorepo.NewSwapRepository(db)
	cache := redisrepo.NewCandidateCache(rdb)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, 7*24*time.Hour, service.RatingDefaults{
		InitialMin: cfg.Rating.InitialMin,
		InitialMax: cfg.Rating.InitialMax,
	})
	userService := service.NewUserService(userRepo, cache, log)
	matchService := service.NewMatchService(userRepo, cache, cfg.Browse.DefaultPageSize, log)
	swapService := service.NewSwapService(swapRepo, userRepo, audit, log)

	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService)
	browseHandler := handler.NewBrowseHandler(matchService)
	swapHandler := handler.NewSwapHandler(swapService)

	requireAuth := middleware.Auth(cfg.JWTSecret)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, requireAuth)

	// --- Browse (works anonymously, richer when authenticated) ---
	e.GET("/v1/users/browse", browseHandler.Browse, optionalAuth)

	// --- Profiles and skills ---
	users := e.Group("/v1/users")
	users.GET("/:id", userHandler.Get, optionalAuth)
	users.PUT("/profile", userHandler.UpdateProfile, requireAuth)
	users.POST("/skills-offered", userHandler.AddSkillOffered, requireAuth)
	users.DELETE("/skills-offered/:skill", userHandler.RemoveSkillOffered, requireAuth)
	users.POST("/skills-wanted", userHandler.AddSkillWanted, requireAuth)
	users.DELETE("/skills-wanted/:skill", userHandler.RemoveSkillWanted, requireAuth)
	users.POST("/skills-offered/:skill/description", userHandler.SetSkillDescription, requireAuth)

	// --- Swap lifecycle ---
	swaps := e.Group("/v1/swaps", requireAuth)
	swaps.POST("", swapHandler.Create)
	swaps.GET("", swapHandler.List)
	swaps.PUT("/:id/accept", swapHandler.Accept)
	swaps.PUT("/:id/reject", swapHandler.Reject)
	swaps.PUT("/:id/cancel", swapHandler.Cancel)
	swaps.PUT("/:id/complete", swapHandler.Complete)
	swaps.POST("/:id/rate", swapHandler.Rate)

	// --- Admin ---
	admin := e.Group("/v1/admin", requireAuth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/skill-descriptions", userHandler.ListSkillDescriptions)
	admin.DELETE("/users/:id/skills/:skill/description", userHandler.RemoveSkillDescription)
	admin.PUT("/users/:id/ban", userHandler.SetBanned)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
