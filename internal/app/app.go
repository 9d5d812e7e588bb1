// Package app is the application factory. Create assembles settings, the
// instance directory and the router into a ready-to-serve App; nothing is
// shared between Apps built in the same process.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	infragin "github.com/ybathula707/flaskr/internal/infra/gin"
	"github.com/ybathula707/flaskr/internal/infra/logger"
	"github.com/ybathula707/flaskr/internal/infra/metrics"
	"github.com/ybathula707/flaskr/internal/instance"
	"github.com/ybathula707/flaskr/internal/settings"
)

// Setting names with built-in defaults.
const (
	SecretKey = "SECRET_KEY"
	Database  = "DATABASE"
)

const (
	// DefaultSecretKey is a development placeholder. Deployments override
	// it from the instance settings file.
	DefaultSecretKey = "dev"

	// DatabaseFileName is the SQLite file placed in the instance directory.
	DatabaseFileName = "flaskr.sqlite"
)

// App is a configured application.
type App struct {
	settings *settings.Settings
	instance instance.Dir
	router   *gin.Engine
	log      logger.Logger
}

type options struct {
	overrides    settings.Mapping
	instancePath string
	loader       settings.Loader
	log          logger.Logger
	metrics      *metrics.Metrics
}

// Option customises Create.
type Option func(*options)

// WithOverrides supplies settings that replace the settings file. A non-nil
// mapping, even an empty one, means the loader is not consulted; nil is the
// same as not passing the option.
func WithOverrides(m settings.Mapping) Option {
	return func(o *options) {
		if m != nil {
			o.overrides = m
		}
	}
}

// WithInstancePath sets the instance directory.
func WithInstancePath(path string) Option {
	return func(o *options) { o.instancePath = path }
}

// WithLoader replaces the settings file loader.
func WithLoader(l settings.Loader) Option {
	return func(o *options) { o.loader = l }
}

// WithLogger sets the logger used by the middleware chain.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Create builds an App.
func Create(ctx context.Context, opts ...Option) (*App, error) {
	o := options{
		loader: settings.NewFileLoader(),
		log:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	dir, err := instance.Resolve(o.instancePath)
	if err != nil {
		return nil, err
	}

	s := settings.New()
	s.SetDefaults(settings.Mapping{
		SecretKey: DefaultSecretKey,
		Database:  dir.Join(DatabaseFileName),
	})

	if o.overrides == nil {
		if loadErr := o.loader.Load(ctx, dir.Path(), s); loadErr != nil {
			return nil, fmt.Errorf("load instance settings: %w", loadErr)
		}
	} else {
		s.Apply(o.overrides)
	}

	if ensureErr := dir.Ensure(); ensureErr != nil {
		return nil, ensureErr
	}

	a := &App{
		settings: s,
		instance: dir,
		log:      o.log,
	}
	a.router = a.newRouter(o.metrics)

	o.log.Debug("Application created",
		logger.String("instance_path", dir.Path()),
		logger.String("settings_file", s.Source()),
		logger.Bool("overridden", o.overrides != nil),
	)

	return a, nil
}

func (a *App) newRouter(m *metrics.Metrics) *gin.Engine {
	var extra []gin.HandlerFunc
	if m != nil {
		extra = append(extra, m.Middleware())
	}

	router := infragin.NewEngine(a.log, extra...)
	registerRoutes(router)
	return router
}

// Settings returns the App's settings.
func (a *App) Settings() *settings.Settings {
	return a.settings
}

// InstancePath returns the absolute instance directory.
func (a *App) InstancePath() string {
	return a.instance.Path()
}

// Router returns the underlying gin engine.
func (a *App) Router() *gin.Engine {
	return a.router
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
