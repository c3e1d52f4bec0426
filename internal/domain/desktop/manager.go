package desktop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/domain/catalog"
	"github.com/GriffinCanCode/retrodesk/internal/domain/window"
	"github.com/GriffinCanCode/retrodesk/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/retrodesk/internal/shared/id"
)

var (
	ErrDesktopNotFound = errors.New("desktop not found")
	ErrTooManyDesktops = errors.New("too many desktops")
)

// Session is one desktop and its windows
type Session struct {
	mu       sync.Mutex
	id       string
	mobile   bool
	windows  *window.Manager
	created  time.Time
	lastSeen time.Time
}

// Info describes a session without exposing its lock
type Info struct {
	ID       string          `json:"id"`
	Mobile   bool            `json:"mobile"`
	Created  time.Time       `json:"created"`
	LastSeen time.Time       `json:"last_seen"`
	Windows  window.Snapshot `json:"windows"`
}

// Stats summarizes the store
type Stats struct {
	Active int           `json:"active"`
	Max    int           `json:"max"`
	TTL    time.Duration `json:"ttl"`
}

// Options configures a Manager
type Options struct {
	MaxSessions int
	IdleTTL     time.Duration
	Now         func() time.Time
}

// Manager owns all desktop sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *catalog.Catalog
	opts     Options
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// NewManager creates an empty session store launching apps from cat
func NewManager(cat *catalog.Catalog, opts Options, logger *zap.Logger) *Manager {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 1000
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 2 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		catalog:  cat,
		opts:     opts,
		logger:   logger,
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Create starts a desktop and opens the catalog's autostart apps
func (m *Manager) Create(mobile bool) (Info, error) {
	now := m.opts.Now()
	s := &Session{
		id:       id.NewDesktopID().String(),
		mobile:   mobile,
		windows:  window.NewManager(),
		created:  now,
		lastSeen: now,
	}
	for _, app := range m.catalog.Autostart(mobile) {
		openApp(s.windows, app)
	}

	m.mu.Lock()
	if len(m.sessions) >= m.opts.MaxSessions {
		m.mu.Unlock()
		return Info{}, fmt.Errorf("%w: limit is %d", ErrTooManyDesktops, m.opts.MaxSessions)
	}
	m.sessions[s.id] = s
	active := len(m.sessions)
	m.mu.Unlock()

	m.metrics.DesktopCreated()
	m.logger.Debug("Desktop created",
		zap.String("desktop_id", s.id),
		zap.Bool("mobile", mobile),
		zap.Int("active", active))

	return s.info(), nil
}

// Get returns a session's current state
func (m *Manager) Get(desktopID string) (Info, error) {
	s, err := m.lookup(desktopID)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = m.opts.Now()
	return s.infoLocked(), nil
}

// Snapshot returns a session's window state
func (m *Manager) Snapshot(desktopID string) (window.Snapshot, error) {
	info, err := m.Get(desktopID)
	if err != nil {
		return window.Snapshot{}, err
	}
	return info.Windows, nil
}

// Delete shuts a desktop down
func (m *Manager) Delete(desktopID string) error {
	m.mu.Lock()
	_, ok := m.sessions[desktopID]
	delete(m.sessions, desktopID)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDesktopNotFound, desktopID)
	}
	m.metrics.DesktopsRemoved(1)
	m.logger.Debug("Desktop deleted", zap.String("desktop_id", desktopID))
	return nil
}

// Do runs fn against the session's window manager while holding its lock
// and returns the resulting snapshot
func (m *Manager) Do(desktopID string, fn func(*window.Manager)) (window.Snapshot, error) {
	s, err := m.lookup(desktopID)
	if err != nil {
		return window.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.windows)
	s.lastSeen = m.opts.Now()
	return s.windows.Snapshot(), nil
}

// Launch opens a catalog app with its default title and geometry.
// Launching an app that is already open raises it.
func (m *Manager) Launch(desktopID, appID string) (window.Snapshot, error) {
	app, err := m.catalog.Lookup(appID)
	if err != nil {
		return window.Snapshot{}, err
	}
	return m.Do(desktopID, func(w *window.Manager) {
		openApp(w, app)
	})
}

// Stats returns store figures
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Stats{
		Active: len(m.sessions),
		Max:    m.opts.MaxSessions,
		TTL:    m.opts.IdleTTL,
	}
}

// Sweep removes sessions idle since before now minus the TTL and
// returns how many were removed
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.opts.IdleTTL)

	m.mu.Lock()
	var removed int
	for desktopID, s := range m.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(m.sessions, desktopID)
			removed++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.DesktopsRemoved(removed)
		m.logger.Info("Swept idle desktops",
			zap.Int("removed", removed),
			zap.Int("remaining", remaining))
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.opts.Now())
		}
	}
}

func (m *Manager) lookup(desktopID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[desktopID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDesktopNotFound, desktopID)
	}
	return s, nil
}

func (s *Session) info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() Info {
	return Info{
		ID:       s.id,
		Mobile:   s.mobile,
		Created:  s.created,
		LastSeen: s.lastSeen,
		Windows:  s.windows.Snapshot(),
	}
}

func openApp(w *window.Manager, app catalog.App) {
	pos, size := app.Position, app.Size
	w.Open(app.ID, app.Title, window.ContentRef(app.ID), &pos, &size)
}
