package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Paint     PaintConfig
	CORS      CORSConfig
	Desktop   DesktopConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"3001"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// PaintConfig holds relay configuration.
type PaintConfig struct {
	HistoryCap   int     `envconfig:"PAINT_HISTORY_CAP" default:"10000"`
	SendBuffer   int     `envconfig:"PAINT_SEND_BUFFER" default:"256"`
	MaxBrush     float64 `envconfig:"PAINT_MAX_BRUSH" default:"64"`
	DrawRPS      float64 `envconfig:"PAINT_DRAW_RPS" default:"240"`
	DrawBurst    int     `envconfig:"PAINT_DRAW_BURST" default:"480"`
	ResetMonthly bool    `envconfig:"PAINT_RESET_MONTHLY" default:"false"`
}

// CORSConfig holds the browser origin allow-list shared by REST and WebSocket.
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`
}

// DesktopConfig holds desktop session configuration.
type DesktopConfig struct {
	IdleTTL    time.Duration `envconfig:"DESKTOP_IDLE_TTL" default:"2h"`
	MaxDesktop int           `envconfig:"DESKTOP_MAX" default:"1000"`
	CatalogDir string        `envconfig:"CATALOG_DIR"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds HTTP rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3001",
			Host:            "0.0.0.0",
			ShutdownTimeout: 10 * time.Second,
		},
		Paint: PaintConfig{
			HistoryCap: 10000,
			SendBuffer: 256,
			MaxBrush:   64,
			DrawRPS:    240,
			DrawBurst:  480,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		},
		Desktop: DesktopConfig{
			IdleTTL:    2 * time.Hour,
			MaxDesktop: 1000,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate rejects settings the relay cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Paint.HistoryCap <= 0 {
		errs = append(errs, fmt.Errorf("PAINT_HISTORY_CAP must be positive, got %d", c.Paint.HistoryCap))
	}
	if c.Paint.SendBuffer <= 0 {
		errs = append(errs, fmt.Errorf("PAINT_SEND_BUFFER must be positive, got %d", c.Paint.SendBuffer))
	}
	if c.Paint.MaxBrush <= 0 {
		errs = append(errs, fmt.Errorf("PAINT_MAX_BRUSH must be positive, got %v", c.Paint.MaxBrush))
	}
	if c.Desktop.MaxDesktop <= 0 {
		errs = append(errs, fmt.Errorf("DESKTOP_MAX must be positive, got %d", c.Desktop.MaxDesktop))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
