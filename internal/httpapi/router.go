// Package httpapi monta o engine gin com middlewares, rotas da API e o cliente SPA.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/matheusmosca/growth-storefront/internal/auth"
	"github.com/matheusmosca/growth-storefront/internal/catalog"
	"github.com/matheusmosca/growth-storefront/internal/goals"
	"github.com/matheusmosca/growth-storefront/internal/identity"
	"github.com/matheusmosca/growth-storefront/internal/metrics"
	"github.com/matheusmosca/growth-storefront/internal/orders"
	"github.com/matheusmosca/growth-storefront/internal/wallet"
)

// HealthChecker confirma que as dependências respondem (pgxpool.Pool implementa)
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers reúne os handlers de cada módulo
type Handlers struct {
	Auth    *auth.Handler
	Catalog *catalog.Handler
	Wallet  *wallet.Handler
	Orders  *orders.Handler
	Goals   *goals.Handler
}

// Options configura o router
type Options struct {
	ServiceName    string
	TracingEnabled bool
	AllowedOrigins []string
	WebDistDir     string

	Tokens      *auth.TokenIssuer
	AuthLimiter *RateLimiter
	Metrics     *metrics.Metrics
	Health      HealthChecker
	Logger      logrus.FieldLogger
}

// NewRouter cria o engine gin com todas as rotas
func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		opts.Logger.WithField("panic", recovered).Error("❌ panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))
	r.Use(RequestLogger(opts.Logger))
	if opts.TracingEnabled {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	r.Use(SecurityHeaders(), CORS(opts.AllowedOrigins))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.GET("/health", healthHandler(opts.Health))

	authenticate := auth.Authenticate(opts.Tokens)
	api := r.Group("/api/v1")

	h.Catalog.Register(api)

	authGroup := api.Group("/auth")
	if opts.AuthLimiter != nil {
		authGroup.Use(opts.AuthLimiter.Middleware())
	}
	h.Auth.Register(authGroup, authenticate)

	protected := api.Group("", authenticate)
	h.Wallet.Register(protected)
	h.Goals.Register(protected)
	h.Orders.Register(protected, auth.RequireRole(identity.RoleAdmin, identity.RoleSuperAdmin))

	if hasSPA(opts.WebDistDir) {
		r.NoRoute(spaHandler(opts.WebDistDir))
	} else {
		r.NoRoute(notFound)
	}

	return r
}

func healthHandler(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := checker.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
