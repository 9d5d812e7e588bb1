package cmd

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ybathula707/flaskr/internal/app"
	"github.com/ybathula707/flaskr/internal/config"
	"github.com/ybathula707/flaskr/internal/database"
	infraconfig "github.com/ybathula707/flaskr/internal/infra/config"
	infragin "github.com/ybathula707/flaskr/internal/infra/gin"
	"github.com/ybathula707/flaskr/internal/infra/logger"
	"github.com/ybathula707/flaskr/internal/infra/metrics"
)

const defaultConfigPath = "config.yml"

func newServeCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

// loadConfig reads the service config and applies command-line flags on top.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		path = infraconfig.GetConfigPath(defaultConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if flags.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
	}
	if flags.instancePath != "" {
		cfg.Service.InstancePath = flags.instancePath
	}

	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// runServe binds the service address and serves until ctx is cancelled or
// a shutdown signal arrives.
func runServe(ctx context.Context, cfg *config.Config) error {
	addr := net.JoinHostPort(cfg.Service.Host, strconv.Itoa(cfg.Service.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serveOn(ctx, cfg, l)
}

// serveOn builds the application, opens its database and serves on l.
func serveOn(ctx context.Context, cfg *config.Config, l net.Listener) error {
	defer func() { _ = l.Close() }()

	log, err := createLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !cfg.Service.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []app.Option{
		app.WithInstancePath(cfg.Service.InstancePath),
		app.WithLogger(log),
	}

	if cfg.Metrics.Enabled {
		ml, listenErr := metrics.Listen(cfg.Service.Host, cfg.Metrics.Port)
		if listenErr != nil {
			return listenErr
		}

		m := metrics.New()
		opts = append(opts, app.WithMetrics(m))
		go func() {
			if serveErr := m.Serve(ctx, ml, log); serveErr != nil {
				log.Error("Metrics server failed, shutting down", logger.Error(serveErr))
				cancel()
			}
		}()
	}

	a, err := app.Create(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	dbPath := a.Settings().GetString(app.Database)
	db, err := database.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	log.Info("Database opened", logger.String("path", dbPath))

	server := infragin.NewServer(&infragin.Config{
		Host:           cfg.Service.Host,
		Port:           cfg.Service.Port,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
	}, log, a)

	return server.RunOn(ctx, l)
}
