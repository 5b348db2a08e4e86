// Package adminapi exposes the process's handlers over HTTP using
// github.com/gin-gonic/gin (spec §10: admin surface), grounded on
// nabbar-golib's prometheus.ExposeGin pattern for serving exposition text
// through a gin.Context, adapted here to fan out across every registered
// handler instead of a single global registry.
package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cuemby/netvisor/pkg/handler"
	"github.com/cuemby/netvisor/pkg/health"
	"github.com/cuemby/netvisor/pkg/log"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/cuemby/netvisor/pkg/selfmetrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Server is the admin HTTP surface: /metrics, /healthz, and per-handler
// JSON window endpoints under /windows/:schema.
type Server struct {
	engine       *gin.Engine
	handlers     map[string]handler.Handler
	checkers     []health.Checker
	staticLabels metric.LabelMap
	logger       zerolog.Logger
}

// New builds a Server for the given set of handlers. staticLabels are
// appended to every Prometheus sample (spec §3: process-wide labels).
func New(handlers []handler.Handler, staticLabels map[string]string) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:       gin.New(),
		handlers:     make(map[string]handler.Handler, len(handlers)),
		staticLabels: metric.LabelMap(staticLabels),
		logger:       log.WithComponent("adminapi"),
	}
	metric.SetStaticLabels(s.staticLabels)

	for _, h := range handlers {
		s.handlers[h.SchemaKey()] = h
		mgr := h
		s.checkers = append(s.checkers, health.RunningFunc{
			CheckerName: h.SchemaKey(),
			Fn:          func() bool { return isRunning(mgr) },
		})
	}

	s.engine.Use(gin.Recovery())
	s.engine.GET("/metrics", s.handleMetrics)
	s.engine.GET("/selfmetrics", gin.WrapH(selfmetrics.Handler()))
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/windows/:schema", s.handleWindow)

	return s
}

// Engine exposes the underlying gin.Engine for http.Serve/ListenAndServe.
func (s *Server) Engine() http.Handler {
	return s.engine
}

func isRunning(h handler.Handler) bool {
	type runningChecker interface{ Running() bool }
	if rc, ok := h.(runningChecker); ok {
		return rc.Running()
	}
	return true
}

func (s *Server) handleMetrics(c *gin.Context) {
	var body strings.Builder
	for _, h := range s.handlers {
		if err := h.WindowPrometheus(&body, 0, false); err != nil {
			s.logger.Warn().Err(err).Str("schema", h.SchemaKey()).Msg("window prometheus render failed")
		}
	}
	c.Data(http.StatusOK, "text/plain; version=0.0.4", []byte(body.String()))
}

func (s *Server) handleHealthz(c *gin.Context) {
	healthy, results := health.Aggregate(c.Request.Context(), s.checkers)
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	body := gin.H{"healthy": healthy, "checks": results}
	c.JSON(status, body)
}

func (s *Server) handleWindow(c *gin.Context) {
	schema := c.Param("schema")
	h, ok := s.handlers[schema]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown schema " + schema})
		return
	}

	period := 0
	if v := c.Query("period"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period"})
			return
		}
		period = p
	}
	merged := c.Query("merged") == "true"

	tree, err := h.WindowJSON(period, merged)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tree)
}
