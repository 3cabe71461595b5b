// Package udaxgui is a small Mongolian blog built with Go, Echo, and templ.
// It serves the public site, an admin panel, a JSON API, and an RSS feed
// over a pluggable post storage backend.
//
// Pages are rendered through the ViewFuncs struct, so a site can swap any
// default view for its own templ components while udaxgui keeps all the
// handler logic, middleware, and storage wiring.
package udaxgui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/udaxgui/media"
	"github.com/eringen/udaxgui/storage"
	"github.com/eringen/udaxgui/views"
)

// ViewFuncs holds the components the handlers render. Nil fields fall
// back to the defaults from the views package.
type ViewFuncs struct {
	Home           func(p views.HomePage) templ.Component
	Articles       func(p views.ListPage) templ.Component
	Category       func(p views.ListPage) templ.Component
	Post           func(p views.PostPage) templ.Component
	AdminDashboard func(p views.AdminPage) templ.Component
	AdminForm      func(p views.FormPage) templ.Component
	AdminImages    func(p views.ImagesPage) templ.Component
	NotFound       func(p views.Page) templ.Component
	ServerError    func(p views.Page) templ.Component
}

// DefaultViews returns the built-in components.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		Articles:       views.Articles,
		Category:       views.Articles,
		Post:           views.Post,
		AdminDashboard: views.AdminDashboard,
		AdminForm:      views.AdminForm,
		AdminImages:    views.AdminImages,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v *ViewFuncs) fill(d ViewFuncs) {
	if v.Home == nil {
		v.Home = d.Home
	}
	if v.Articles == nil {
		v.Articles = d.Articles
	}
	if v.Category == nil {
		v.Category = d.Category
	}
	if v.Post == nil {
		v.Post = d.Post
	}
	if v.AdminDashboard == nil {
		v.AdminDashboard = d.AdminDashboard
	}
	if v.AdminForm == nil {
		v.AdminForm = d.AdminForm
	}
	if v.AdminImages == nil {
		v.AdminImages = d.AdminImages
	}
	if v.NotFound == nil {
		v.NotFound = d.NotFound
	}
	if v.ServerError == nil {
		v.ServerError = d.ServerError
	}
}

// App is the central udaxgui application. It wires together storage,
// the post cache, handlers, middleware, and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Posts  *storage.Posts
	Cache  *PostCache
	Media  *media.Store
	Views  ViewFuncs

	adapter       storage.Adapter
	uploadLimiter *RateLimiter
	logger        *slog.Logger
	customRoutes  []func(*App)
	staticDir     string
	ready         bool
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, v ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()
	v.fill(DefaultViews())

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     v,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}

	return a
}

// Setup opens storage and registers middleware and routes. Start calls
// it; tests call it directly and drive a.Echo with httptest.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("udaxgui: SessionSecret is required")
	}

	if a.adapter == nil {
		ad, err := storage.Open(a.Config.Storage)
		if err != nil {
			return fmt.Errorf("udaxgui: init storage: %w", err)
		}
		a.adapter = ad
	}
	a.Posts = storage.NewPosts(a.adapter, a.logger)
	a.Cache = NewPostCache(a.Posts, a.Config.PostCacheTTL, a.logger)
	a.Media = media.NewStore(a.Config.UploadDir, "/uploads")
	a.uploadLimiter = NewRateLimiter(20, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	a.logger.Info("app ready", "storage", a.Config.Storage.Backend, "uploads", a.Config.UploadDir)
	return nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", a.Config.Addr)
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("udaxgui: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets (site.css, placeholder.svg) are served under /public/
	// ahead of the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/site.css", embeddedHandler)
	e.GET("/public/placeholder.svg", embeddedHandler)

	e.Static("/public", a.staticDir)
	e.Static("/uploads", a.Config.UploadDir)

	// Public routes
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/articles/", a.handleArticles)
	e.GET("/category/:slug/", a.handleCategory)
	e.GET("/post/:slug/", a.handlePost)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.GET("/admin/new/", a.handleAdminNew)
	e.GET("/admin/post/:id/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/post/:id/toggle/:field/", a.handleAdminToggle)
	e.DELETE("/admin/post/:id/", a.handleAdminDelete)
	e.POST("/admin/post/:id/delete/", a.handleAdminDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)
	e.POST("/admin/images/:filename/delete/", a.handleImageDelete)

	// JSON API
	api := e.Group("/api")
	api.GET("/posts", a.apiListPosts)
	api.PUT("/posts", a.apiReplacePosts)
	api.POST("/posts", a.apiCreatePost)
	api.GET("/posts/:slug", a.apiGetPost)
	api.PATCH("/posts/:id", a.apiUpdatePost)
	api.DELETE("/posts/:id", a.apiDeletePost)
	api.GET("/categories", a.apiCategories)
	api.GET("/featured", a.apiFeatured)
	api.GET("/upload", a.apiUploadInfo)
	api.POST("/upload", a.apiUpload)
	api.GET("/images", a.apiImages)
}

// Close releases storage and background workers. Call it when the app is
// shutting down.
func (a *App) Close() error {
	if a.uploadLimiter != nil {
		a.uploadLimiter.Stop()
	}
	if a.adapter != nil {
		return a.adapter.Close()
	}
	return nil
}
