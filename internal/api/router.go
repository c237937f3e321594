package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/ericrr237-labz/IVY/internal/api/handler"
	"github.com/ericrr237-labz/IVY/internal/api/middleware"
	"github.com/ericrr237-labz/IVY/internal/core/service"
	"github.com/ericrr237-labz/IVY/internal/infrastructure/config"
	mongodb "github.com/ericrr237-labz/IVY/internal/infrastructure/db/mongo"
	redisdb "github.com/ericrr237-labz/IVY/internal/infrastructure/db/redis"
)

// authRateLimit caps credential-guessing traffic on the public auth routes.
const authRateLimit = rate.Limit(10)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("ivy"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	orgRepo := mongodb.NewOrgRepository(db)
	recordRepo := mongodb.NewRecordRepository(db)
	revocations := redisdb.NewRevocationList(rdb)

	tokenService := service.NewTokenService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL(),
		cfg.Auth.RefreshTTL(),
	)
	authService := service.NewAuthService(
		userRepo, orgRepo, tokenService, revocations, cfg.Auth.AllowPublicSignup, log,
	)
	recordService := service.NewRecordService(recordRepo, log)
	analyticsService := service.NewAnalyticsService(recordRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	recordHandler := handler.NewRecordHandler(recordService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)

	authMW := middleware.Auth(tokenService, userRepo, orgRepo)
	rateLimitMW := echomiddleware.RateLimiter(
		echomiddleware.NewRateLimiterMemoryStore(authRateLimit),
	)

	// --- Auth routes ---
	auth := e.Group("/auth", rateLimitMW)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/switch-org", authHandler.SwitchOrg, authMW)

	// --- Record routes (all org-scoped, behind auth) ---
	records := e.Group("/records", authMW)
	records.GET("", recordHandler.List)
	records.POST("", recordHandler.Create)
	records.PATCH("/:id", recordHandler.Update)
	records.DELETE("/:id", recordHandler.Delete)

	// --- Analytics routes (aggregations over the active org's records) ---
	analytics := e.Group("/analytics", authMW)
	analytics.GET("/gross-margin", analyticsHandler.GrossMargin)
	analytics.GET("/cltv", analyticsHandler.CLTV)
	analytics.GET("/cac", analyticsHandler.CAC)

	// --- Admin routes ---
	admin := e.Group("/admin", authMW, middleware.SuperAdmin())
	admin.POST("/users", authHandler.ProvisionUser)

	// --- Health probes and observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
