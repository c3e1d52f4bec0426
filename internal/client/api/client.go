// Package api is a REST client for the desktop server's paint endpoints.
package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/GriffinCanCode/retrodesk/internal/domain/paint"
)

// UserAgent is sent with every request
const UserAgent = "retrodesk-client/1.0"

// Stats mirrors GET /paint/stats
type Stats struct {
	Connections   int        `json:"connections"`
	HistoryLen    int        `json:"history_len"`
	HistoryCap    int        `json:"history_cap"`
	TotalSegments uint64     `json:"total_segments"`
	ResetMonthly  bool       `json:"reset_monthly"`
	NextReset     *time.Time `json:"next_reset,omitempty"`
}

// Client talks to one server
type Client struct {
	resty *resty.Client
}

// New creates a client for baseURL, e.g. http://localhost:3001
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")
	return &Client{resty: r}
}

// History fetches the retained segments, oldest first. The transport
// negotiates gzip and decompresses transparently.
func (c *Client) History(ctx context.Context) ([]paint.Segment, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		Get("/paint/history")
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch history: %s", resp.Status())
	}

	segs, err := paint.DecodeHistory(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return segs, nil
}

// Stats fetches relay figures
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	resp, err := c.resty.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/paint/stats")
	if err != nil {
		return Stats{}, fmt.Errorf("fetch stats: %w", err)
	}
	if resp.IsError() {
		return Stats{}, fmt.Errorf("fetch stats: %s", resp.Status())
	}
	return stats, nil
}
