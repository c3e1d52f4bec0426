package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint/canvas"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/resilience"
)

// HeaderInstance carries the client instance id on the upgrade request
const HeaderInstance = "X-Client-Instance"

const (
	writeWait = 10 * time.Second
	// stableAfter is how long a session must last before its drop resets the backoff
	stableAfter = 30 * time.Second
)

// ErrNotConnected is returned by Send while no session is open
var ErrNotConnected = errors.New("relay: not connected")

// Options configures a Client
type Options struct {
	URL              string
	Origin           string
	HandshakeTimeout time.Duration
	MaxMessageSize   int64
	Backoff          resilience.Backoff
	Breaker          resilience.Settings
}

// Client keeps a replica in sync with the relay
type Client struct {
	opts     Options
	instance string
	replica  *canvas.Replica
	logger   *zap.Logger
	dialer   *websocket.Dialer
	breaker  *resilience.Breaker

	mu   sync.Mutex
	conn *websocket.Conn

	syncs atomic.Int64
}

// New creates a client feeding replica
func New(replica *canvas.Replica, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.MaxMessageSize <= 0 {
		// load_history for a full log is far larger than a draw frame
		opts.MaxMessageSize = 64 << 20
	}

	instance := uuid.NewString()
	return &Client{
		opts:     opts,
		instance: instance,
		replica:  replica,
		logger:   logger.With(zap.String("instance", instance)),
		dialer: &websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  opts.HandshakeTimeout,
			EnableCompression: true,
		},
		breaker: resilience.New("paint-relay", opts.Breaker),
	}
}

// Instance returns the id sent with every connection attempt
func (c *Client) Instance() string {
	return c.instance
}

// Connected reports whether a session is open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Syncs returns how many load_history frames have been applied
func (c *Client) Syncs() int64 {
	return c.syncs.Load()
}

// Send transmits a locally drawn segment. Delivery is at most once: a
// segment sent while disconnected is lost, and the next load_history
// shows whatever the server kept.
func (c *Client) Send(seg paint.Segment) error {
	frame, err := paint.EncodeDraw(seg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("send draw: %w", err)
	}
	return nil
}

// Emitter adapts Send for a canvas.Stroke. Failed sends are logged and dropped.
func (c *Client) Emitter() canvas.Emitter {
	return canvas.EmitterFunc(func(seg paint.Segment) {
		if err := c.Send(seg); err != nil {
			c.logger.Debug("Dropped local segment", zap.Error(err))
		}
	})
}

// Stroke returns a tracker that paints onto the replica and sends each
// segment to the relay
func (c *Client) Stroke() *canvas.Stroke {
	return c.replica.Stroke(c.Emitter())
}

// Run keeps a session open until ctx is done, redialing with exponential
// backoff. Repeated dial failures trip the breaker, which holds further
// attempts off until it half-opens.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.opts.Backoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var conn *websocket.Conn
		err := c.breaker.Execute(func() error {
			var dialErr error
			conn, dialErr = c.dial(ctx)
			return dialErr
		})
		if err != nil {
			delay := backoff.Next()
			if errors.Is(err, resilience.ErrCircuitOpen) {
				delay = max(delay, c.breaker.RetryAfter())
			}
			c.logger.Warn("Relay dial failed",
				zap.Error(err),
				zap.Duration("retry_in", delay),
				zap.String("breaker", c.breaker.State().String()))
			if !sleep(ctx, delay) {
				return ctx.Err()
			}
			continue
		}

		started := time.Now()
		err = c.serve(ctx, conn)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Debug("Relay session ended", zap.Error(err), zap.Duration("lasted", time.Since(started)))

		if time.Since(started) >= stableAfter {
			backoff.Reset()
		}
		if !sleep(ctx, backoff.Next()) {
			return ctx.Err()
		}
	}
}

// Sync opens one session, applies its load_history and disconnects
func (c *Client) Sync(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read history: %w", err)
		}
		env, err := paint.DecodeEnvelope(frame)
		if err != nil || env.Type != paint.TypeLoadHistory {
			continue
		}
		if err := c.applyHistory(env.Data); err != nil {
			return err
		}
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set(HeaderInstance, c.instance)
	if c.opts.Origin != "" {
		header.Set("Origin", c.opts.Origin)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", c.opts.URL, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", c.opts.URL, err)
	}
	conn.SetReadLimit(c.opts.MaxMessageSize)
	return conn, nil
}

// serve reads frames until the connection drops or ctx is done
func (c *Client) serve(ctx context.Context, conn *websocket.Conn) error {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		c.mu.Unlock()
		_ = conn.Close()
	})

	defer func() {
		stop()
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		_ = conn.Close()
	}()

	c.logger.Info("Connected to paint relay", zap.String("url", c.opts.URL))
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame []byte) {
	env, err := paint.DecodeEnvelope(frame)
	if err != nil {
		c.logger.Debug("Dropping malformed frame", zap.Error(err))
		return
	}

	switch env.Type {
	case paint.TypeLoadHistory:
		if err := c.applyHistory(env.Data); err != nil {
			c.logger.Warn("Dropping history", zap.Error(err))
		}

	case paint.TypeDrawRemote:
		seg, err := paint.DecodeSegment(env.Data)
		if err != nil {
			c.logger.Debug("Dropping remote segment", zap.Error(err))
			return
		}
		c.replica.ApplyRemote(seg)

	case paint.TypePong:

	default:
		c.logger.Debug("Ignoring unknown message type", zap.String("type", env.Type))
	}
}

func (c *Client) applyHistory(data []byte) error {
	segs, err := paint.DecodeHistory(data)
	if err != nil {
		return fmt.Errorf("decode history: %w", err)
	}
	c.replica.ApplyHistory(segs)
	c.syncs.Add(1)
	c.logger.Debug("Canvas synchronized", zap.Int("segments", len(segs)))
	return nil
}

// sleep waits d or until ctx is done, reporting whether the full wait elapsed
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
