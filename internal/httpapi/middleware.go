package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const (
	HeaderUser  = "X-Bugtrail-User"
	HeaderGroup = "X-Bugtrail-Group"
)

// ActorMiddleware attaches the acting user to the request context. Headers
// override the fallback user field by field.
func ActorMiddleware(fallback domain.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := fallback
		if v := strings.TrimSpace(c.GetHeader(HeaderUser)); v != "" {
			actor.ID = v
		}
		if v := strings.TrimSpace(c.GetHeader(HeaderGroup)); v != "" {
			actor.GroupID = v
		}
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("http request", fields...)
	}
}

// HTTPMetrics records request latency by route template.
type HTTPMetrics struct {
	Duration *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	return &HTTPMetrics{
		Duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bugtrail_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.Duration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
