// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/scistudy/internal/api"
	"github.com/starford/scistudy/internal/app"
	"github.com/starford/scistudy/internal/assets"
	"github.com/starford/scistudy/internal/catalog"
	"github.com/starford/scistudy/internal/clock"
	"github.com/starford/scistudy/internal/eventloop"
	"github.com/starford/scistudy/internal/mcpserver"
	"github.com/starford/scistudy/internal/sse"
	"github.com/starford/scistudy/internal/storage"
	"github.com/starford/scistudy/internal/view"
)

// core is the study core shared by every adapter.
type core struct {
	store storage.Provider
	loop  *eventloop.Loop
	app   *app.App
}

func newApplication(opts []Option) (*application, error) {
	a := &application{version: "dev", logOutput: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return a, nil
}

func (a *application) buildCore(logger *slog.Logger, renderer view.Renderer) (*core, error) {
	cfg := a.config

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("init catalog: %w", err)
	}

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	loop := eventloop.New()
	study := app.New(app.Config{
		Store:         store,
		Catalog:       cat,
		Clock:         clock.System{},
		Scheduler:     loop,
		Runner:        loop,
		Renderer:      renderer,
		Logger:        logger,
		TimerDefaults: cfg.Timer.Settings(),
	})

	logger.Info("Study core ready",
		slog.Int("terms", cat.Len()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("storage_path", cfg.Storage.Path))

	return &core{store: store, loop: loop, app: study}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}

// watch reloads components on external edits when the provider supports it.
func (c *core) watch(ctx context.Context, logger *slog.Logger) error {
	w, ok := c.store.(storage.Watcher)
	if !ok {
		return nil
	}
	if err := w.Watch(ctx, logger, c.app.HandleStoreChange); err != nil {
		logger.Warn("watcher stopped", slog.String("error", err.Error()))
	}
	return nil
}

// Run starts the HTTP adapter with the given options.
func Run(ctx context.Context, opts ...Option) error {
	a, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := a.config

	// Initialize structured JSON logger.
	logger := a.logger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("version", a.version),
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("storage_driver", cfg.Storage.Driver),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker renders component state to connected browsers.
	broker := sse.NewBroker(logger)
	defer broker.Close()

	c, err := a.buildCore(logger, broker)
	if err != nil {
		return err
	}
	defer c.store.Close()

	static, err := assets.New(logger)
	if err != nil {
		return fmt.Errorf("init assets: %w", err)
	}

	apiRouter := api.NewRouter(c.app, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := c.loop.Do(r.Context(), func() {}); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api; the web client is served from /.
	r.Mount("/api", apiRouter)
	r.Handle("/*", static)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Every component mutation runs on the loop goroutine.
	g.Go(func() error {
		return c.loop.Run(gCtx)
	})

	// Push the initial state once the loop is accepting work.
	g.Go(func() error {
		if err := c.app.RenderAll(gCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("initial render failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Reload components when another process edits the data directory.
	g.Go(func() error {
		return c.watch(gCtx, logger)
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		select {
		case sig := <-shutdownSignal(gCtx):
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Ends open event streams so Shutdown does not wait on them.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the study tools over stdio. Logs go to stderr unless
// redirected with WithLogOutput.
func RunMCP(ctx context.Context, opts ...Option) error {
	a, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}

	logger := a.logger()
	slog.SetDefault(logger)

	c, err := a.buildCore(logger, view.Discard{})
	if err != nil {
		return err
	}
	defer c.store.Close()

	srv := mcpserver.New(c.app, a.version)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.loop.Run(gCtx)
	})
	g.Go(func() error {
		return c.watch(gCtx, logger)
	})
	g.Go(func() error {
		logger.Info("MCP server starting on stdio", slog.String("version", a.version))
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("MCP server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// errShutdown cancels the group when one member finishes normally.
var errShutdown = errors.New("shutdown")

func shutdownSignal(ctx context.Context) <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		signal.Stop(quit)
	}()
	return quit
}
