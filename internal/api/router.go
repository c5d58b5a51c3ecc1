package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/communityzine/magazine-system/internal/api/handler"
	"github.com/communityzine/magazine-system/internal/api/middleware"
	"github.com/communityzine/magazine-system/internal/core/ports"
	healthhandlers "github.com/communityzine/magazine-system/internal/infrastructure/http/handlers"
)

// Services bundles the core services the router wires into handlers.
type Services struct {
	Auth        ports.AuthService
	Tokens      ports.TokenService
	Submissions ports.SubmissionService
	Magazines   ports.MagazineService
}

// NewRouter builds the Echo instance with all routes registered.
// secureCookies should be true in production deployments (HTTPS only).
func NewRouter(svc Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger, secureCookies bool) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("magazine"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Tokens, secureCookies)
	submissionHandler := handler.NewSubmissionHandler(svc.Submissions)
	magazineHandler := handler.NewMagazineHandler(svc.Magazines)

	authed := middleware.Auth(svc.Tokens)
	moderator := middleware.RequireModerator()
	admin := middleware.RequireAdmin()

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Member routes ---
	v1 := e.Group("/v1")
	v1.POST("/submissions", submissionHandler.Submit, authed)
	v1.GET("/submissions/mine", submissionHandler.ListMine, authed)

	// --- Public reading surface (no auth, published issues only) ---
	v1.GET("/magazines", magazineHandler.ListPublic)
	v1.GET("/magazines/latest", magazineHandler.Latest)

	// --- Editorial routes (moderator and up) ---
	v1.GET("/moderation/queue", submissionHandler.Queue, authed, moderator)
	v1.POST("/moderation/submissions/:id", submissionHandler.Moderate, authed, moderator)
	v1.GET("/magazines/drafts", magazineHandler.ListDrafts, authed, moderator)
	v1.POST("/magazines", magazineHandler.Assemble, authed, moderator)
	v1.POST("/magazines/:id/publish", magazineHandler.Publish, authed, moderator)
	v1.GET("/dashboard", magazineHandler.Dashboard, authed, moderator)

	// --- Admin routes ---
	v1.POST("/admin/users/:id/role", authHandler.SetRole, authed, admin)
	v1.POST("/admin/users/:id/disable", authHandler.Disable, authed, admin)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := healthhandlers.NewHealthHandler()
	healthDepsHandler := healthhandlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
