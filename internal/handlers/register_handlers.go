package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/site_workflow_app/cmd/docs"
	portsrepo "github.com/SscSPs/site_workflow_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/site_workflow_app/internal/core/ports/services"
	"github.com/SscSPs/site_workflow_app/internal/middleware"
	"github.com/SscSPs/site_workflow_app/internal/platform/config"
	"github.com/SscSPs/site_workflow_app/internal/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// Dependencies are the collaborators the HTTP layer needs besides services.
type Dependencies struct {
	Services *portssvc.ServiceContainer
	Users    portsrepo.UserReader
	Health   portsrepo.HealthChecker
	Limiter  *limiter.Limiter // nil disables rate limiting
	Posthog  *utils.PosthogClientWrapper
}

// NewRouter builds the engine with global middleware and every route.
func NewRouter(cfg *config.Config, logger *slog.Logger, deps Dependencies) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.InstrumentationMiddleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	RegisterRoutes(r, cfg, deps)
	return r, nil
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	r.GET("/", getHome)
	r.GET("/health", healthHandler(deps.Health, cfg.EnableDBCheck, cfg.StoreTimeout))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupSwaggerRoutes(r, cfg)
	setupAPIV1Routes(r, cfg, deps)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, deps Dependencies) {
	chain := []gin.HandlerFunc{}
	if deps.Limiter != nil {
		chain = append(chain, middleware.RateLimit(deps.Limiter))
	}
	chain = append(chain,
		middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		middleware.ActorMiddleware(deps.Users),
		middleware.PosthogMiddleware(deps.Posthog),
	)
	v1 := r.Group("/api/v1", chain...)

	services := deps.Services
	registerProjectRoutes(v1, services.Project)
	registerTaskRoutes(v1, services.Task)
	registerLedgerRoutes(v1, services.Ledger)
	registerTransactionRoutes(v1, services.Transaction)
	registerAccessRoutes(v1, services.Access)

	admin := v1.Group("/admin", middleware.RequireAdmin())
	registerReconcileRoutes(admin, services.Task)
}
