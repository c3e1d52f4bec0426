package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/domain/catalog"
	"github.com/GriffinCanCode/retrodesk/internal/domain/desktop"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Deps are the services the handlers read and mutate
type Deps struct {
	Desktops     *desktop.Manager
	Catalog      *catalog.Catalog
	Hub          *paint.Hub
	Metrics      *monitoring.Metrics
	Logger       *zap.Logger
	ResetMonthly bool
	Now          func() time.Time
}

// Handlers contains all HTTP handlers
type Handlers struct {
	desktops     *desktop.Manager
	catalog      *catalog.Catalog
	hub          *paint.Hub
	metrics      *monitoring.Metrics
	logger       *zap.Logger
	sanitizer    *bluemonday.Policy
	resetMonthly bool
	now          func() time.Time
	started      time.Time
}

// NewHandlers creates a new handler set
func NewHandlers(deps Deps) *Handlers {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Handlers{
		desktops:     deps.Desktops,
		catalog:      deps.Catalog,
		hub:          deps.Hub,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		sanitizer:    bluemonday.StrictPolicy(),
		resetMonthly: deps.ResetMonthly,
		now:          deps.Now,
		started:      deps.Now(),
	}
}

// Root identifies the service
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "retrodesk",
		"version": Version,
	})
}

// Health reports liveness with a summary of each subsystem
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"uptime":   h.now().Sub(h.started).Round(time.Second).String(),
		"desktops": h.desktops.Stats(),
		"paint":    h.hub.Stats(),
		"catalog":  gin.H{"apps": h.catalog.Len()},
	})
}

// respondError maps domain errors onto HTTP status codes
func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, desktop.ErrDesktopNotFound), errors.Is(err, catalog.ErrUnknownApp):
		status = http.StatusNotFound
	case errors.Is(err, desktop.ErrTooManyDesktops):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
