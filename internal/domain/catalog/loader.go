package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/retrodesk/internal/domain/window"
)

// ManifestPattern matches manifest files below a catalog directory
const ManifestPattern = "**/*.{yaml,yml,toml}"

type manifest struct {
	Apps []manifestApp `yaml:"apps" toml:"apps"`
}

type manifestApp struct {
	ID          string `yaml:"id" toml:"id"`
	Title       string `yaml:"title" toml:"title"`
	Label       string `yaml:"label" toml:"label"`
	X           int    `yaml:"x" toml:"x"`
	Y           int    `yaml:"y" toml:"y"`
	Width       int    `yaml:"width" toml:"width"`
	Height      int    `yaml:"height" toml:"height"`
	DesktopOnly bool   `yaml:"desktop_only" toml:"desktop_only"`
	Autostart   bool   `yaml:"autostart" toml:"autostart"`
}

func (m manifestApp) app() App {
	label := m.Label
	if label == "" {
		label = m.Title
	}
	return App{
		ID:          m.ID,
		Title:       m.Title,
		Label:       label,
		Position:    window.Position{X: m.X, Y: m.Y},
		Size:        window.Size{Width: m.Width, Height: m.Height},
		DesktopOnly: m.DesktopOnly,
		Autostart:   m.Autostart,
	}
}

// LoadStats summarizes a directory load
type LoadStats struct {
	Files   int
	Loaded  int
	Skipped int
}

// LoadDir registers every app found in manifests under dir. A missing
// directory loads nothing. Unreadable files and invalid entries are logged
// and skipped; later files override earlier ones with the same id.
func (c *Catalog) LoadDir(dir string, logger *zap.Logger) (LoadStats, error) {
	var stats LoadStats
	if dir == "" {
		return stats, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Warn("Catalog directory not found", zap.String("dir", dir))
		return stats, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(dir, ManifestPattern))
	if err != nil {
		return stats, fmt.Errorf("failed to glob catalog dir %s: %w", dir, err)
	}
	sort.Strings(matches)

	for _, path := range matches {
		stats.Files++

		apps, err := ParseManifest(path)
		if err != nil {
			logger.Warn("Failed to parse manifest", zap.String("path", path), zap.Error(err))
			stats.Skipped++
			continue
		}

		for _, app := range apps {
			if err := c.Register(app); err != nil {
				logger.Warn("Skipping invalid app", zap.String("path", path), zap.Error(err))
				stats.Skipped++
				continue
			}
			stats.Loaded++
		}
	}

	logger.Info("Catalog loaded",
		zap.String("dir", dir),
		zap.Int("files", stats.Files),
		zap.Int("loaded", stats.Loaded),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// ParseManifest reads a YAML or TOML manifest, chosen by file extension
func ParseManifest(path string) ([]App, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unsupported manifest type %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	apps := make([]App, 0, len(m.Apps))
	for _, entry := range m.Apps {
		apps = append(apps, entry.app())
	}
	return apps, nil
}
