package ws

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/retrodesk/internal/api/middleware"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/retrodesk/internal/shared/id"
)

const (
	writeWait = 10 * time.Second
)

// Options configures the relay transport
type Options struct {
	AllowedOrigins []string
	SendBuffer     int
	DrawRPS        float64
	DrawBurst      int
	MaxMessageSize int64
	PingInterval   time.Duration
}

// DefaultOptions matches the service defaults
func DefaultOptions() Options {
	return Options{
		AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		SendBuffer:     256,
		DrawRPS:        240,
		DrawBurst:      480,
		MaxMessageSize: 4096,
		PingInterval:   30 * time.Second,
	}
}

// Handler upgrades requests and relays paint traffic through a hub
type Handler struct {
	hub      *paint.Hub
	opts     Options
	upgrader websocket.Upgrader
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	tracer   *tracing.Tracer

	// mu orders wg.Add against Shutdown's wg.Wait
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	quit   chan struct{}
}

// NewHandler creates a relay handler
func NewHandler(hub *paint.Hub, opts Options, logger *zap.Logger) *Handler {
	defaults := DefaultOptions()
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = defaults.SendBuffer
	}
	if opts.DrawRPS <= 0 {
		opts.DrawRPS = defaults.DrawRPS
	}
	if opts.DrawBurst <= 0 {
		opts.DrawBurst = defaults.DrawBurst
	}
	if opts.MaxMessageSize <= 0 {
		opts.MaxMessageSize = defaults.MaxMessageSize
	}
	if opts.PingInterval <= 0 {
		opts.PingInterval = defaults.PingInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		hub:  hub,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     middleware.OriginChecker(opts.AllowedOrigins),
		},
		logger: logger,
		quit:   make(chan struct{}),
	}
}

// WithMetrics adds metrics tracking to the handler
func (h *Handler) WithMetrics(m *monitoring.Metrics) *Handler {
	h.metrics = m
	return h
}

// WithTracer records one span per connection
func (h *Handler) WithTracer(t *tracing.Tracer) *Handler {
	h.tracer = t
	return h
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Debug("WebSocket upgrade failed",
			zap.String("origin", c.GetHeader("Origin")),
			zap.Error(err))
		return
	}

	if !h.track() {
		h.logger.Debug("Refusing paint connection during shutdown")
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	defer h.wg.Done()

	cl := newClient(id.NewConnID().String(), conn, h.opts.SendBuffer)

	var span *tracing.Span
	if h.tracer != nil {
		span, _ = h.tracer.StartSpan(c.Request.Context(), "paint.connection")
		span.SetTag("conn_id", cl.id)
		span.SetTag("remote", c.ClientIP())
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(cl)
	}()

	var connErr error
	if err := h.hub.Connect(cl); err != nil {
		h.logger.Error("Failed to register paint client", zap.String("conn_id", cl.id), zap.Error(err))
		connErr = err
	} else {
		connErr = h.readPump(c.Request.Context(), cl)
		h.hub.Disconnect(cl)
	}
	cl.Close()
	<-writerDone

	if span != nil {
		if connErr != nil {
			span.SetError(connErr)
		}
		span.Finish()
		h.tracer.Submit(span)
	}
}

// Shutdown closes every open connection and waits for their handlers
func (h *Handler) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	if !h.closed {
		h.closed = true
		close(h.quit)
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track registers a connection with the shutdown wait group. It fails once
// Shutdown has begun.
func (h *Handler) track() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.wg.Add(1)
	return true
}

// readPump decodes frames until the connection fails. A normal close
// returns nil.
func (h *Handler) readPump(ctx context.Context, cl *client) error {
	pongWait := h.opts.PingInterval * 2
	cl.conn.SetReadLimit(h.opts.MaxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(rate.Limit(h.opts.DrawRPS), h.opts.DrawBurst)

	for {
		msgType, frame, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !isClosing(cl) {
				h.logger.Debug("Paint connection lost", zap.String("conn_id", cl.id), zap.Error(err))
				return err
			}
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if msgType != websocket.TextMessage {
			continue
		}

		_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		h.handleMessage(cl, limiter, frame)
	}
}

func (h *Handler) handleMessage(cl *client, limiter *rate.Limiter, frame []byte) {
	env, err := paint.DecodeEnvelope(frame)
	if err != nil {
		h.metrics.RecordWSMessage("in", "invalid")
		h.logger.Debug("Dropping malformed frame", zap.String("conn_id", cl.id), zap.Error(err))
		return
	}
	h.metrics.RecordWSMessage("in", env.Type)

	switch env.Type {
	case paint.TypeDraw:
		if !limiter.Allow() {
			h.metrics.RecordSegment(monitoring.SegmentRateLimited)
			return
		}
		seg, err := paint.DecodeSegment(env.Data)
		if err != nil {
			h.metrics.RecordSegment(monitoring.SegmentRejected)
			h.logger.Debug("Dropping invalid draw", zap.String("conn_id", cl.id), zap.Error(err))
			return
		}
		if err := h.hub.Draw(cl.id, seg); err != nil {
			h.logger.Debug("Dropping invalid draw", zap.String("conn_id", cl.id), zap.Error(err))
		}

	case paint.TypePing:
		pong, err := paint.EncodePong()
		if err == nil {
			cl.Send(pong)
		}

	default:
		h.logger.Debug("Ignoring unknown message type",
			zap.String("conn_id", cl.id),
			zap.String("type", env.Type))
	}
}

// writePump is the only goroutine that writes to the socket
func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(h.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case frame := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.logger.Debug("Paint write failed", zap.String("conn_id", cl.id), zap.Error(err))
				cl.Close()
				return
			}
			h.metrics.RecordWSMessage("out", "frame")

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.Close()
				return
			}

		case <-cl.done:
			h.writeClose(cl, websocket.CloseNormalClosure, "")
			return

		case <-h.quit:
			cl.Close()
			h.writeClose(cl, websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}

func (h *Handler) writeClose(cl *client, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	err := cl.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		h.logger.Debug("Close frame not sent", zap.String("conn_id", cl.id), zap.Error(err))
	}
}

func isClosing(cl *client) bool {
	select {
	case <-cl.done:
		return true
	default:
		return false
	}
}
