package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"

	"github.com/voluntr/volunteer-api/internal/handler"
	applicationHandler "github.com/voluntr/volunteer-api/internal/handler/application"
	authHandler "github.com/voluntr/volunteer-api/internal/handler/auth"
	badgeHandler "github.com/voluntr/volunteer-api/internal/handler/badge"
	messageHandler "github.com/voluntr/volunteer-api/internal/handler/message"
	notificationHandler "github.com/voluntr/volunteer-api/internal/handler/notification"
	opportunityHandler "github.com/voluntr/volunteer-api/internal/handler/opportunity"
	organizationHandler "github.com/voluntr/volunteer-api/internal/handler/organization"
	userHandler "github.com/voluntr/volunteer-api/internal/handler/user"
	"github.com/voluntr/volunteer-api/internal/middleware"
)

type Handlers struct {
	Base         *handler.Handler
	Auth         *authHandler.Handler
	User         *userHandler.Handler
	Organization *organizationHandler.Handler
	Opportunity  *opportunityHandler.Handler
	Application  *applicationHandler.Handler
	Notification *notificationHandler.Handler
	Message      *messageHandler.Handler
	Badge        *badgeHandler.Handler
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	CORSConfig     middleware.CORSConfig
	MetricsPrefix  string
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	errorTotal      *prometheus.CounterVec
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  initRouterMetrics(config.MetricsPrefix),
	}

	engine.Use(
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		r.metricsMiddleware(),
		middleware.RequestID(),
		middleware.Validation(middleware.DefaultValidationConfig()),
	)

	engine.Use(middleware.CORS(config.CORSConfig))

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(config.RateLimitRPS),
		Burst: config.RateLimitBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealthCheck(api)

	// Public routes
	r.handlers.Auth.RegisterRoutes(api)

	// Everything below requires a valid bearer token. Per-route role
	// checks live in each handler's RegisterRoutes.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.handlers.User.RegisterRoutes(protected, r.auth)
	r.handlers.Organization.RegisterRoutes(protected, r.auth)
	r.handlers.Opportunity.RegisterRoutes(protected, r.auth)
	r.handlers.Application.RegisterRoutes(protected, r.auth)
	r.handlers.Notification.RegisterRoutes(protected)
	r.handlers.Message.RegisterRoutes(protected)
	r.handlers.Badge.RegisterRoutes(protected)
}

func (r *Router) setupHealthCheck(rg *gin.RouterGroup) {
	health := rg.Group("/health")
	{
		health.GET("/live", r.handlers.Base.LivenessCheck)
		health.GET("/ready", r.handlers.Base.ReadinessCheck)
		health.GET("/metrics", r.handlers.Base.MetricsHandler)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"method", "path", "type"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		duration := time.Since(start).Seconds()

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(duration)
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()

		if c.Writer.Status() >= 400 {
			r.metrics.errorTotal.WithLabelValues(c.Request.Method, path, "http").Inc()
		}
	}
}
