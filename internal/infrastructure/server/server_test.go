package server

import (
	"context"
	"io"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/retrodesk/internal/client/api"
	"github.com/GriffinCanCode/retrodesk/internal/client/relay"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint/canvas"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/resilience"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Logging.Development = true
	cfg.RateLimit.Enabled = false
	return cfg
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Paint.HistoryCap = 0
	_, err := NewServer(cfg, nil)
	assert.ErrorContains(t, err, "PAINT_HISTORY_CAP")
}

func TestRoutes(t *testing.T) {
	s, err := NewServer(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	for _, path := range []string{"/", "/health", "/catalog", "/paint/history", "/paint/stats", "/metrics/json"} {
		resp, err := nethttp.Get(srv.URL + path)
		require.NoError(t, err, path)
		resp.Body.Close()
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode, path)
	}

	resp, err := nethttp.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "retrodesk_http_requests_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	s, err := NewServer(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	req := httptest.NewRequest(nethttp.MethodOptions, "/desktops", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", nethttp.MethodPost)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServeEndToEnd(t *testing.T) {
	s, err := NewServer(testConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	opts := relay.Options{
		URL:     "ws://" + ln.Addr().String() + "/paint/ws",
		Backoff: resilience.Backoff{Initial: 10 * time.Millisecond, Max: 50 * time.Millisecond},
	}
	a := relay.New(canvas.NewReplica(), opts, nil)
	rb := canvas.NewReplica()
	b := relay.New(rb, opts, nil)

	runCtx, stopClients := context.WithCancel(context.Background())
	defer stopClients()
	go func() { _ = a.Run(runCtx) }()
	go func() { _ = b.Run(runCtx) }()
	require.Eventually(t, func() bool {
		return a.Connected() && b.Connected() && s.Hub().Stats().Connections == 2
	}, 3*time.Second, 10*time.Millisecond)

	seg := paint.Segment{X: 20, Y: 30, PrevX: 10, PrevY: 10, Color: "#ff00ff", Size: 2}
	require.NoError(t, a.Send(seg))
	require.Eventually(t, func() bool { return rb.Applied() == 1 }, 2*time.Second, 10*time.Millisecond)

	history, err := api.New(base, time.Second).History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []paint.Segment{seg}, history)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestSweepInterval(t *testing.T) {
	assert.Equal(t, maxSweepInterval, sweepInterval(2*time.Hour))
	assert.Equal(t, maxSweepInterval, sweepInterval(0))
	assert.Equal(t, 5*time.Second, sweepInterval(20*time.Second))
}
