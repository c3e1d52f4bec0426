package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Segment outcomes recorded by RecordSegment
const (
	SegmentAccepted    = "accepted"
	SegmentRejected    = "rejected"
	SegmentRateLimited = "rate_limited"
)

// Metrics holds all Prometheus metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Desktop metrics
	DesktopsActive prometheus.Gauge
	DesktopsTotal  prometheus.Counter
	WindowOps      *prometheus.CounterVec

	// Paint relay metrics
	PaintConnections   prometheus.Gauge
	PaintSegments      *prometheus.CounterVec
	PaintFramesDropped prometheus.Counter
	PaintHistorySize   prometheus.Gauge
	PaintResets        prometheus.Counter

	// WebSocket metrics
	WSMessages *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON health endpoint
type Snapshot struct {
	TotalRequests    int64   `json:"total_requests"`
	TotalErrors      int64   `json:"total_errors"`
	PaintConnections int64   `json:"paint_connections"`
	SegmentsAccepted int64   `json:"segments_accepted"`
	SegmentsRejected int64   `json:"segments_rejected"`
	FramesDropped    int64   `json:"frames_dropped"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector registered with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrodesk_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrodesk_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrodesk_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "retrodesk_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// Desktop metrics
		DesktopsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "retrodesk_desktops_active",
				Help: "Number of live desktop sessions",
			},
		),
		DesktopsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "retrodesk_desktops_total",
				Help: "Total number of desktop sessions created",
			},
		),
		WindowOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrodesk_window_operations_total",
				Help: "Window manager operations by kind",
			},
			[]string{"op"},
		),

		// Paint relay metrics
		PaintConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "retrodesk_paint_connections",
				Help: "Number of connected paint clients",
			},
		),
		PaintSegments: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrodesk_paint_segments_total",
				Help: "Draw segments received by outcome",
			},
			[]string{"result"},
		),
		PaintFramesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "retrodesk_paint_frames_dropped_total",
				Help: "Outbound frames dropped because a client queue was full",
			},
		),
		PaintHistorySize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "retrodesk_paint_history_segments",
				Help: "Segments currently retained for replay",
			},
		),
		PaintResets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "retrodesk_paint_resets_total",
				Help: "Number of canvas resets",
			},
		),

		// WebSocket metrics
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "retrodesk_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "retrodesk_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordWindowOp counts a window manager operation
func (m *Metrics) RecordWindowOp(op string) {
	if m == nil {
		return
	}
	m.WindowOps.WithLabelValues(op).Inc()
}

// DesktopCreated records a new desktop session
func (m *Metrics) DesktopCreated() {
	if m == nil {
		return
	}
	m.DesktopsTotal.Inc()
	m.DesktopsActive.Inc()
}

// DesktopsRemoved records sessions that were deleted or reaped
func (m *Metrics) DesktopsRemoved(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DesktopsActive.Sub(float64(n))
}

// PaintConnected records a new relay connection
func (m *Metrics) PaintConnected() {
	if m == nil {
		return
	}
	m.PaintConnections.Inc()
	m.mu.Lock()
	m.snapshot.PaintConnections++
	m.mu.Unlock()
}

// PaintDisconnected records a closed relay connection
func (m *Metrics) PaintDisconnected() {
	if m == nil {
		return
	}
	m.PaintConnections.Dec()
	m.mu.Lock()
	m.snapshot.PaintConnections--
	m.mu.Unlock()
}

// RecordSegment counts a received segment by outcome
func (m *Metrics) RecordSegment(result string) {
	if m == nil {
		return
	}
	m.PaintSegments.WithLabelValues(result).Inc()
	m.mu.Lock()
	switch result {
	case SegmentAccepted:
		m.snapshot.SegmentsAccepted++
	default:
		m.snapshot.SegmentsRejected++
	}
	m.mu.Unlock()
}

// RecordDroppedFrame counts a frame that a slow client never received
func (m *Metrics) RecordDroppedFrame() {
	if m == nil {
		return
	}
	m.PaintFramesDropped.Inc()
	m.mu.Lock()
	m.snapshot.FramesDropped++
	m.mu.Unlock()
}

// SetHistorySize publishes the retained segment count
func (m *Metrics) SetHistorySize(n int) {
	if m == nil {
		return
	}
	m.PaintHistorySize.Set(float64(n))
}

// RecordReset counts a canvas reset
func (m *Metrics) RecordReset() {
	if m == nil {
		return
	}
	m.PaintResets.Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// Snapshot returns current values for JSON consumers
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
