// Package catalog lists the apps a desktop can launch, with the title and
// geometry each window opens with.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/GriffinCanCode/retrodesk/internal/domain/window"
	"github.com/GriffinCanCode/retrodesk/internal/shared/utils"
)

// ErrUnknownApp is returned when an app id is not in the catalog
var ErrUnknownApp = errors.New("unknown app")

// App describes one launchable window
type App struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Label       string          `json:"label"`
	Position    window.Position `json:"position"`
	Size        window.Size     `json:"size"`
	DesktopOnly bool            `json:"desktop_only"`
	Autostart   bool            `json:"autostart"`
}

// Validate checks that an entry can be opened as a window
func (a App) Validate() error {
	if err := utils.ValidateID(a.ID); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if a.Title == "" {
		return fmt.Errorf("app %s: title is required", a.ID)
	}
	if a.Size.Width <= 0 || a.Size.Height <= 0 {
		return fmt.Errorf("app %s: size must be positive", a.ID)
	}
	return nil
}

// Builtins mirrors the stock desktop
func Builtins() []App {
	return []App{
		{ID: "bio", Title: "Bio.txt", Label: "My Computer", Position: window.Position{X: 100, Y: 50}, Size: window.Size{Width: 500, Height: 400}},
		{ID: "projects", Title: "My Projects", Label: "Projects", Position: window.Position{X: 150, Y: 80}, Size: window.Size{Width: 600, Height: 500}},
		{ID: "music", Title: "WinAmp 98", Label: "Music", Position: window.Position{X: 200, Y: 110}, Size: window.Size{Width: 480, Height: 320}, Autostart: true},
		{ID: "blog", Title: "Netscape Blog", Label: "Internet Blog", Position: window.Position{X: 250, Y: 140}, Size: window.Size{Width: 600, Height: 500}},
		{ID: "settings", Title: "Control Panel", Label: "Settings", Position: window.Position{X: 300, Y: 170}, Size: window.Size{Width: 500, Height: 550}},
		{ID: "sysinfo", Title: ":: SYSTEM INFO ::", Label: "System Info", Position: window.Position{X: 150, Y: 150}, Size: window.Size{Width: 400, Height: 500}},
		{ID: "paint", Title: ":: COMMUNITY PAINT ::", Label: "Community Paint", Position: window.Position{X: 50, Y: 50}, Size: window.Size{Width: 820, Height: 700}},
		{ID: "capynotez", Title: "CapyNotezzZ", Label: "CapyNotezzZ", Position: window.Position{X: 350, Y: 200}, Size: window.Size{Width: 450, Height: 400}, DesktopOnly: true},
	}
}

// Catalog is a concurrency-safe set of apps in registration order
type Catalog struct {
	mu    sync.RWMutex
	apps  map[string]App
	order []string
}

// New creates a catalog holding the builtin apps
func New() *Catalog {
	c := &Catalog{apps: make(map[string]App)}
	for _, app := range Builtins() {
		c.put(app)
	}
	return c
}

// Register adds app, replacing any entry with the same id
func (c *Catalog) Register(app App) error {
	if err := app.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(app)
	return nil
}

// Lookup returns the app with the given id
func (c *Catalog) Lookup(id string) (App, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	app, ok := c.apps[id]
	if !ok {
		return App{}, fmt.Errorf("%w: %s", ErrUnknownApp, id)
	}
	return app, nil
}

// List returns all apps in registration order
func (c *Catalog) List() []App {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]App, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.apps[id])
	}
	return out
}

// ForMobile returns the apps available on the given form factor
func (c *Catalog) ForMobile(mobile bool) []App {
	all := c.List()
	if !mobile {
		return all
	}
	out := all[:0]
	for _, app := range all {
		if !app.DesktopOnly {
			out = append(out, app)
		}
	}
	return out
}

// Autostart returns the apps opened on a fresh desktop, sorted by id.
// Mobile desktops start empty.
func (c *Catalog) Autostart(mobile bool) []App {
	if mobile {
		return nil
	}
	var out []App
	for _, app := range c.List() {
		if app.Autostart {
			out = append(out, app)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of apps
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.apps)
}

// put stores app. Caller must hold c.mu or own c exclusively.
func (c *Catalog) put(app App) {
	if _, exists := c.apps[app.ID]; !exists {
		c.order = append(c.order, app.ID)
	}
	c.apps[app.ID] = app
}
