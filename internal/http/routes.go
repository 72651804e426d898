package http

import (
	"time"

	"bank_transactions/internal/http/handlers"
	"bank_transactions/internal/http/middleware"
	"bank_transactions/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps is everything the router needs; nil fields switch the matching feature off
type Deps struct {
	Transactions handlers.TransactionManager
	Health       *handlers.HealthHandler
	Hub          *ws.Hub

	// Audit enables GET /transactions/:id/audit
	Audit handlers.AuditReader

	// Redis backs the rate limiter when set; otherwise limits are per process
	Redis *redis.Client

	// Auth guards POST/PUT/DELETE when set
	Auth middleware.TokenParser

	AllowedOrigin   string
	DefaultPageSize int
	RateLimit       int
	RateWindow      time.Duration
}

// NewRouter builds a gin engine with the global middleware chain and all routes
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(deps.AllowedOrigin))

	RegisterRoutes(r, deps)
	return r
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	h := handlers.NewHandler(deps.Transactions, handlers.HandlerConfig{
		DefaultPageSize: deps.DefaultPageSize,
	})
	h.Audit = deps.Audit

	// Health checks (no rate limiting)
	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler("", nil)
	}
	r.GET("/health", health.Health)
	r.GET("/healthz", health.Liveness)
	r.GET("/readyz", health.Readiness)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if deps.Hub != nil {
		r.GET("/ws/transactions", handlers.TransactionFeed(deps.Hub, deps.AllowedOrigin))
	}

	// /api/v1 is the versioned surface, /api stays for existing clients
	rl := rateLimiter(deps)
	for _, prefix := range []string{"/api/v1", "/api"} {
		api := r.Group(prefix)
		if rl != nil {
			api.Use(rl)
		}
		registerAPIRoutes(api, h, deps.Auth)
	}
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, auth middleware.TokenParser) {
	write := []gin.HandlerFunc{}
	if auth != nil {
		write = append(write, middleware.JWT(auth))
	}

	api.GET("/transactions", h.ListTransactions)
	api.GET("/transactions/:id", h.GetTransaction)
	api.POST("/transactions", append(write, h.CreateTransaction)...)
	api.PUT("/transactions/:id", append(write, h.UpdateTransaction)...)
	api.DELETE("/transactions/:id", append(write, h.DeleteTransaction)...)

	if h.Audit != nil {
		api.GET("/transactions/:id/audit", h.ListAudit)
	}
}

func rateLimiter(deps Deps) gin.HandlerFunc {
	if deps.RateLimit <= 0 {
		return nil
	}
	window := deps.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	if deps.Redis != nil {
		return middleware.RedisRateLimit(deps.Redis, deps.RateLimit, window)
	}
	return middleware.SimpleRateLimit(deps.RateLimit, window)
}
