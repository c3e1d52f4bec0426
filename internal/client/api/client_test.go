package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	resthttp "github.com/GriffinCanCode/retrodesk/internal/api/http"
	"github.com/GriffinCanCode/retrodesk/internal/domain/catalog"
	"github.com/GriffinCanCode/retrodesk/internal/domain/desktop"
	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

func newServer(t *testing.T) (*paint.Hub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat := catalog.New()
	hub := paint.NewHub(paint.Options{HistoryCap: 100, MaxBrush: 64}, nil)
	handlers := resthttp.NewHandlers(resthttp.Deps{
		Desktops:     desktop.NewManager(cat, desktop.Options{}, nil),
		Catalog:      cat,
		Hub:          hub,
		ResetMonthly: true,
	})

	router := gin.New()
	handlers.Register(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func TestHistoryEmpty(t *testing.T) {
	_, srv := newServer(t)

	segs, err := New(srv.URL, time.Second).History(context.Background())
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestHistory(t *testing.T) {
	hub, srv := newServer(t)
	want := []paint.Segment{
		{X: 1, Y: 2, PrevX: 0, PrevY: 0, Color: "#ff00ff", Size: 2},
		{X: 5, Y: 6, PrevX: 1, PrevY: 2, Color: "#0000ff", Size: 4},
	}
	for _, seg := range want {
		require.NoError(t, hub.Draw("conn_a", seg))
	}

	segs, err := New(srv.URL, time.Second).History(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, segs)
}

func TestStats(t *testing.T) {
	hub, srv := newServer(t)
	require.NoError(t, hub.Draw("conn_a", paint.Segment{X: 1, Y: 1, Color: "#000", Size: 1}))

	stats, err := New(srv.URL, time.Second).Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Connections)
	assert.Equal(t, 1, stats.HistoryLen)
	assert.Equal(t, 100, stats.HistoryCap)
	assert.Equal(t, uint64(1), stats.TotalSegments)
	assert.True(t, stats.ResetMonthly)
	require.NotNil(t, stats.NextReset)
	assert.Equal(t, 1, stats.NextReset.Day())
}

func TestNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	_, err := New(srv.URL, time.Second).History(context.Background())
	assert.ErrorContains(t, err, "404")
}
