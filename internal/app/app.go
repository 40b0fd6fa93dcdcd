package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lcalzada-xor/apcaps/internal/adapters/storage"
	webserver "github.com/lcalzada-xor/apcaps/internal/adapters/web/server"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/lcalzada-xor/apcaps/internal/core/services/analysis"
	"github.com/lcalzada-xor/apcaps/internal/telemetry"
)

// Options selects which infrastructure New brings up.
type Options struct {
	// Storage opens the report database.
	Storage bool
	// Version is reported in traces and PDF footers.
	Version string
}

// Application holds the core components of the application.
type Application struct {
	Config  *config.Config
	Store   *storage.SQLiteAdapter
	Service *analysis.Service

	version string
	closers []func(context.Context) error
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config, opts Options) (*Application, error) {
	app := &Application{
		Config:  cfg,
		version: opts.Version,
	}

	if err := app.bootstrap(opts); err != nil {
		_ = app.Close(context.Background())
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

func (app *Application) bootstrap(opts Options) error {
	telemetry.InitMetrics()

	if err := app.initTracing(); err != nil {
		return err
	}

	if opts.Storage {
		if err := app.initStorage(); err != nil {
			return err
		}
		app.Service = analysis.NewService(app.Store)
	} else {
		app.Service = analysis.NewService(nil)
	}
	return nil
}

func (app *Application) initTracing() error {
	if app.Config.TraceFile == "" {
		return nil
	}
	f, err := os.Create(app.Config.TraceFile)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	shutdown, err := telemetry.InitTracer(f, app.version)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to init tracer: %w", err)
	}
	// closers run in reverse, so the file closes after the final flush
	app.closers = append(app.closers,
		func(context.Context) error { return f.Close() },
		shutdown,
	)
	return nil
}

func (app *Application) initStorage() error {
	if err := app.Config.EnsureDBDir(); err != nil {
		return err
	}

	store, err := storage.NewSQLiteAdapter(app.Config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to init report storage: %w", err)
	}
	app.Store = store
	app.closers = append(app.closers, func(context.Context) error { return store.Close() })
	return nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (app *Application) Serve(ctx context.Context) error {
	srv := webserver.NewServer(app.Config.Addr, app.Service, Exporters(app.generatedBy()), webserver.Options{
		RateLimit:    app.Config.RateLimit,
		RateBurst:    app.Config.RateBurst,
		MaxBodyBytes: app.Config.MaxBodyBytes,
	})
	return srv.Run(ctx)
}

// Exporter returns the renderer for the configured output format.
func (app *Application) Exporter(format string) (ports.Exporter, error) {
	return ForFormat(format, app.generatedBy())
}

func (app *Application) generatedBy() string {
	if app.version == "" {
		return telemetry.ServiceName
	}
	return telemetry.ServiceName + " " + app.version
}

// Close dumps metrics when configured and releases resources in reverse
// order of acquisition.
func (app *Application) Close(ctx context.Context) error {
	slog.Debug("Cleaning up resources")

	var errs []error
	if app.Config.MetricsFile != "" {
		if err := telemetry.WriteTextfile(app.Config.MetricsFile); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	app.closers = nil
	return errors.Join(errs...)
}
