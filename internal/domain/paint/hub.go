package paint

import (
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
)

// Conn is one registered relay participant.
// Send must not block; it reports false when the frame could not be queued.
type Conn interface {
	ID() string
	Send(frame []byte) bool
	Close()
}

// Options configures a Hub
type Options struct {
	HistoryCap int
	MaxBrush   float64
}

// Stats describes the relay at a point in time
type Stats struct {
	Connections   int    `json:"connections"`
	HistoryLen    int    `json:"history_len"`
	HistoryCap    int    `json:"history_cap"`
	TotalSegments uint64 `json:"total_segments"`
}

// Hub owns the shared history and fans segments out to every other connection.
// A single mutex covers append and broadcast so all clients observe one order.
type Hub struct {
	mu       sync.Mutex
	history  *History
	conns    map[string]Conn
	maxBrush float64
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewHub creates a hub with an empty history
func NewHub(opts Options, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		history:  NewHistory(opts.HistoryCap),
		conns:    make(map[string]Conn),
		maxBrush: opts.MaxBrush,
		logger:   logger,
	}
}

// WithMetrics attaches a metrics collector
func (h *Hub) WithMetrics(m *monitoring.Metrics) *Hub {
	h.metrics = m
	return h
}

// Connect registers conn and sends it the full history
func (h *Hub) Connect(conn Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	frame, err := EncodeHistory(h.history.Snapshot())
	if err != nil {
		return err
	}

	h.conns[conn.ID()] = conn
	h.metrics.PaintConnected()
	h.logger.Debug("Paint client connected",
		zap.String("conn_id", conn.ID()),
		zap.Int("history", h.history.Len()),
		zap.Int("connections", len(h.conns)))

	h.deliver(conn, frame)
	return nil
}

// Draw validates seg, appends it to the history and broadcasts it to every
// connection except origin. Invalid segments leave the history untouched.
func (h *Hub) Draw(origin string, seg Segment) error {
	if err := seg.Validate(h.maxBrush); err != nil {
		h.metrics.RecordSegment(monitoring.SegmentRejected)
		return err
	}

	frame, err := EncodeDrawRemote(seg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.history.Append(seg)
	h.metrics.RecordSegment(monitoring.SegmentAccepted)
	h.metrics.SetHistorySize(h.history.Len())
	h.broadcastExcept(origin, frame)
	return nil
}

// Disconnect forgets conn. The history is unaffected.
func (h *Hub) Disconnect(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(conn.ID())
}

// Reset clears the history and tells every client to start from a blank canvas
func (h *Hub) Reset() {
	frame, err := EncodeHistory(nil)
	if err != nil {
		h.logger.Error("Failed to encode reset frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.history.Reset()
	h.metrics.RecordReset()
	h.metrics.SetHistorySize(0)
	h.broadcastExcept("", frame)
	h.logger.Info("Canvas reset", zap.Int("connections", len(h.conns)))
}

// History returns a copy of the retained segments, oldest first
func (h *Hub) History() []Segment {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.history.Snapshot()
}

// Stats returns current relay figures
func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Connections:   len(h.conns),
		HistoryLen:    h.history.Len(),
		HistoryCap:    h.history.Cap(),
		TotalSegments: h.history.Total(),
	}
}

// broadcastExcept sends frame to all registered connections but origin.
// Caller must hold h.mu.
func (h *Hub) broadcastExcept(origin string, frame []byte) {
	for id, conn := range h.conns {
		if id == origin {
			continue
		}
		h.deliver(conn, frame)
	}
}

// deliver queues frame for conn, dropping the connection if its queue is full.
// Caller must hold h.mu.
func (h *Hub) deliver(conn Conn, frame []byte) {
	if conn.Send(frame) {
		return
	}
	h.metrics.RecordDroppedFrame()
	h.logger.Warn("Dropping slow paint client", zap.String("conn_id", conn.ID()))
	h.remove(conn.ID())
	conn.Close()
}

// remove unregisters id. Caller must hold h.mu.
func (h *Hub) remove(id string) {
	if _, ok := h.conns[id]; !ok {
		return
	}
	delete(h.conns, id)
	h.metrics.PaintDisconnected()
	h.logger.Debug("Paint client disconnected",
		zap.String("conn_id", id),
		zap.Int("connections", len(h.conns)))
}
