package udaxgui

import (
	"log/slog"
	"time"

	"github.com/eringen/udaxgui/storage"
)

// SiteConfig holds all configuration for a udaxgui site.
type SiteConfig struct {
	Name        string // Site name (default "Удахгүй")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags

	Addr    string         // Listen address (default ":3000")
	Storage storage.Config // Backend selection; Backend "" means file

	UploadDir string // Upload directory, served at /uploads (default "public/uploads")

	SessionSecret string // Required: cookie signing secret for admin flash messages
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Post snapshot TTL (default 1min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Удахгүй"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = storage.BackendFile
	}
	if c.Storage.DataFile == "" {
		c.Storage.DataFile = storage.DefaultDataFile
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = storage.DefaultDatabasePath
	}
	if c.UploadDir == "" {
		c.UploadDir = "public/uploads"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger sets the application logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithAdapter uses an already opened backend instead of opening
// Config.Storage in Setup. The App takes ownership and closes it.
func WithAdapter(ad storage.Adapter) Option {
	return func(a *App) {
		a.adapter = ad
	}
}
