package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/medvault/consent-api/internal/handler"
	"github.com/medvault/consent-api/internal/middleware"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine  *gin.Engine
	auth    *middleware.AuthMiddleware
	metrics *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

func NewRouter(auth *middleware.AuthMiddleware, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:  engine,
		auth:    auth,
		metrics: initRouterMetrics(),
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.NewRateLimiter(config.RateLimit, config.RateBurst).RateLimit())
	engine.Use(r.observe())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handler.NewHealthHandler().RegisterRoutes(engine)
	handler.RegisterValidations()

	return r
}

// Mount registers handlers under the authenticated API group.
func (r *Router) Mount(handlers ...Handler) {
	api := r.engine.Group("/api/v1")
	api.Use(r.auth.Authenticate())
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
}

// MountPublic registers handlers that skip authentication, e.g. token
// issuance.
func (r *Router) MountPublic(handlers ...Handler) {
	api := r.engine.Group("/api/v1")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func initRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}
