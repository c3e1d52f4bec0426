package paint

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
)

type fakeConn struct {
	id     string
	limit  int // 0 means unbounded
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || (c.limit > 0 && len(c.frames) >= c.limit) {
		return false
	}
	c.frames = append(c.frames, frame)
	return true
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) envelopes(t *testing.T) []Envelope {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Envelope, 0, len(c.frames))
	for _, f := range c.frames {
		env, err := DecodeEnvelope(f)
		require.NoError(t, err)
		out = append(out, env)
	}
	return out
}

func newTestHub(capacity int) *Hub {
	return NewHub(Options{HistoryCap: capacity, MaxBrush: 64}, nil)
}

func TestHubConnectSendsHistory(t *testing.T) {
	hub := newTestHub(100)
	a := newFakeConn("a")

	require.NoError(t, hub.Connect(a))

	envs := a.envelopes(t)
	require.Len(t, envs, 1)
	assert.Equal(t, TypeLoadHistory, envs[0].Type)
	assert.JSONEq(t, `[]`, string(envs[0].Data))
}

func TestHubDrawExcludesOrigin(t *testing.T) {
	hub := newTestHub(100)
	a, b, c := newFakeConn("a"), newFakeConn("b"), newFakeConn("c")
	for _, conn := range []*fakeConn{a, b, c} {
		require.NoError(t, hub.Connect(conn))
	}

	s := seg(1)
	require.NoError(t, hub.Draw("a", s))

	assert.Len(t, a.envelopes(t), 1, "origin only has its load_history")
	for _, conn := range []*fakeConn{b, c} {
		envs := conn.envelopes(t)
		require.Len(t, envs, 2)
		assert.Equal(t, TypeDrawRemote, envs[1].Type)
		got, err := DecodeSegment(envs[1].Data)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestHubEndToEndScenario(t *testing.T) {
	hub := newTestHub(100)
	a, b := newFakeConn("a"), newFakeConn("b")
	require.NoError(t, hub.Connect(a))
	require.NoError(t, hub.Connect(b))

	s1 := Segment{X: 10, Y: 10, PrevX: 5, PrevY: 5, Color: "#ff0000", Size: 3}
	s2 := Segment{X: 20, Y: 20, PrevX: 10, PrevY: 10, Color: "#00ff00", Size: 5}
	require.NoError(t, hub.Draw("a", s1))
	require.NoError(t, hub.Draw("b", s2))

	aEnvs := a.envelopes(t)
	require.Len(t, aEnvs, 2)
	got, err := DecodeSegment(aEnvs[1].Data)
	require.NoError(t, err)
	assert.Equal(t, s2, got)

	bEnvs := b.envelopes(t)
	require.Len(t, bEnvs, 2)
	got, err = DecodeSegment(bEnvs[1].Data)
	require.NoError(t, err)
	assert.Equal(t, s1, got)

	late := newFakeConn("late")
	require.NoError(t, hub.Connect(late))
	envs := late.envelopes(t)
	require.Len(t, envs, 1)
	history, err := DecodeHistory(envs[0].Data)
	require.NoError(t, err)
	assert.Equal(t, []Segment{s1, s2}, history)
}

func TestHubHistoryIsBounded(t *testing.T) {
	const k = 8
	hub := newTestHub(k)
	for i := 1; i <= k+5; i++ {
		require.NoError(t, hub.Draw("writer", seg(i)))
	}

	history := hub.History()
	require.Len(t, history, k)
	for i, s := range history {
		assert.Equal(t, seg(6+i), s)
	}

	stats := hub.Stats()
	assert.Equal(t, k, stats.HistoryLen)
	assert.Equal(t, k, stats.HistoryCap)
	assert.Equal(t, uint64(k+5), stats.TotalSegments)
}

func TestHubRejectsInvalidSegments(t *testing.T) {
	hub := newTestHub(100)
	a, b := newFakeConn("a"), newFakeConn("b")
	require.NoError(t, hub.Connect(a))
	require.NoError(t, hub.Connect(b))

	tests := []struct {
		name string
		seg  Segment
	}{
		{"nan coordinate", Segment{X: math.NaN(), Color: "#000", Size: 1}},
		{"infinite coordinate", Segment{PrevY: math.Inf(1), Color: "#000", Size: 1}},
		{"zero size", Segment{Color: "#000", Size: 0}},
		{"oversized brush", Segment{Color: "#000", Size: 65}},
		{"empty color", Segment{Size: 1}},
		{"long color", Segment{Color: "#0123456789abcdef0123456789abcdef0", Size: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hub.Draw("a", tt.seg)
			assert.ErrorIs(t, err, ErrInvalidSegment)
		})
	}

	assert.Empty(t, hub.History())
	assert.Len(t, b.envelopes(t), 1)

	require.NoError(t, hub.Draw("a", seg(1)))
	assert.Len(t, b.envelopes(t), 2, "connection survives bad input")
}

func TestHubDropsSlowClient(t *testing.T) {
	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	hub := newTestHub(100).WithMetrics(metrics)

	slow := newFakeConn("slow")
	slow.limit = 2
	fast := newFakeConn("fast")
	require.NoError(t, hub.Connect(slow))
	require.NoError(t, hub.Connect(fast))

	for i := 1; i <= 3; i++ {
		require.NoError(t, hub.Draw("writer", seg(i)))
	}

	assert.True(t, slow.closed)
	assert.Len(t, slow.envelopes(t), 2)
	assert.Len(t, fast.envelopes(t), 4)
	assert.Equal(t, 1, hub.Stats().Connections)
	assert.Equal(t, int64(1), metrics.Snapshot().FramesDropped)
	assert.Equal(t, int64(1), metrics.Snapshot().PaintConnections)
}

func TestHubDisconnectKeepsHistory(t *testing.T) {
	hub := newTestHub(100)
	a := newFakeConn("a")
	require.NoError(t, hub.Connect(a))
	require.NoError(t, hub.Draw("a", seg(1)))

	hub.Disconnect(a)
	hub.Disconnect(a)

	assert.Equal(t, 0, hub.Stats().Connections)
	assert.Equal(t, []Segment{seg(1)}, hub.History())
}

func TestHubReset(t *testing.T) {
	hub := newTestHub(100)
	a := newFakeConn("a")
	require.NoError(t, hub.Connect(a))
	require.NoError(t, hub.Draw("b", seg(1)))

	hub.Reset()

	assert.Empty(t, hub.History())
	envs := a.envelopes(t)
	require.Len(t, envs, 3)
	assert.Equal(t, TypeLoadHistory, envs[2].Type)
	assert.JSONEq(t, `[]`, string(envs[2].Data))
}

func TestNextReset(t *testing.T) {
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NextReset(tt.now))
	}
}
