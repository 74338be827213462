// Package httpapi serves milestone summaries over HTTP.
package httpapi

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/bugtrail/internal/domain"
	"github.com/alexanderramin/bugtrail/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	DB         *sql.DB
	Projects   service.ProjectService
	Milestones service.MilestoneService
	Actor      domain.User
	Logger     *zap.Logger
	// Registry backs /metrics and the HTTP latency histogram. Nil disables both.
	Registry *prometheus.Registry
	Version  string
	Now      func() time.Time
}

func NewRouter(dep RouterDeps) *gin.Engine {
	logger := dep.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(logger))
	if dep.Registry != nil {
		r.Use(NewHTTPMetrics(dep.Registry).Middleware())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}

	NewHealthHandler("bugtrail", dep.Version, dep.DB).RegisterRoutes(r)

	api := r.Group("")
	api.Use(ActorMiddleware(dep.Actor))
	NewMilestoneHandler(dep.Projects, dep.Milestones, logger, dep.Now).RegisterRoutes(api)

	return r
}
