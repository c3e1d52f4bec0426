package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/retrodesk/internal/domain/desktop"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
)

// MetricsSnapshot is a JSON view of the service counters for dashboards
// that do not scrape Prometheus
type MetricsSnapshot struct {
	Timestamp time.Time           `json:"timestamp"`
	Service   monitoring.Snapshot `json:"service"`
	Desktops  desktop.Stats       `json:"desktops"`
	Paint     paint.Stats         `json:"paint"`
	Summary   MetricsSummary      `json:"summary"`
}

// MetricsSummary provides high-level ratios
type MetricsSummary struct {
	ErrorRate      float64 `json:"error_rate"`
	RejectRate     float64 `json:"reject_rate"`
	HistoryFillPct float64 `json:"history_fill_pct"`
}

// MetricsJSON returns the aggregated snapshot
func (h *Handlers) MetricsJSON(c *gin.Context) {
	snap := MetricsSnapshot{
		Timestamp: h.now(),
		Service:   h.metrics.Snapshot(),
		Desktops:  h.desktops.Stats(),
		Paint:     h.hub.Stats(),
	}
	snap.Summary = summarize(snap)
	c.JSON(http.StatusOK, snap)
}

func summarize(s MetricsSnapshot) MetricsSummary {
	var sum MetricsSummary
	if s.Service.TotalRequests > 0 {
		sum.ErrorRate = float64(s.Service.TotalErrors) / float64(s.Service.TotalRequests)
	}
	if total := s.Service.SegmentsAccepted + s.Service.SegmentsRejected; total > 0 {
		sum.RejectRate = float64(s.Service.SegmentsRejected) / float64(total)
	}
	if s.Paint.HistoryCap > 0 {
		sum.HistoryFillPct = 100 * float64(s.Paint.HistoryLen) / float64(s.Paint.HistoryCap)
	}
	return sum
}
