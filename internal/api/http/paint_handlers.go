package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

// PaintStats is the body of GET /paint/stats
type PaintStats struct {
	paint.Stats
	ResetMonthly bool       `json:"reset_monthly"`
	NextReset    *time.Time `json:"next_reset,omitempty"`
}

// PaintHistory returns the retained segments, oldest first, gzipped when
// the client accepts it
func (h *Handlers) PaintHistory(c *gin.Context) {
	body, err := paint.MarshalHistory(h.hub.History())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Header("Vary", "Accept-Encoding")
	if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
		c.Data(http.StatusOK, "application/json", body)
		return
	}

	c.Header("Content-Encoding", "gzip")
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)

	zw, err := gzip.NewWriterLevel(c.Writer, gzip.BestSpeed)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, err := zw.Write(body); err != nil {
		_ = c.Error(err)
	}
	if err := zw.Close(); err != nil {
		_ = c.Error(err)
	}
}

// GetPaintStats reports relay figures and the next scheduled reset
func (h *Handlers) GetPaintStats(c *gin.Context) {
	stats := PaintStats{
		Stats:        h.hub.Stats(),
		ResetMonthly: h.resetMonthly,
	}
	if h.resetMonthly {
		next := paint.NextReset(h.now())
		stats.NextReset = &next
	}
	c.JSON(http.StatusOK, stats)
}
