package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/api"
	"github.com/kalambet/careermentor/internal/config"
	"github.com/kalambet/careermentor/internal/render"
	"github.com/kalambet/careermentor/internal/session"
	"github.com/kalambet/careermentor/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server and analysis service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "careermentor version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	renderer, err := render.New()
	if err != nil {
		return err
	}

	remote := analysis.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	handler := api.NewHandler(api.Deps{
		Sessions:   session.NewManager(store, cfg.Form.PrefillDemo),
		Remote:     remote,
		Renderer:   renderer,
		Stagger:    cfg.Render.Stagger,
		CookieName: cfg.Session.Cookie,
		Logger:     logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return gctx
		},
	}

	g.Go(func() error {
		logger.Info("careermentor listening", "addr", srv.Addr, "api", remote.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return session.NewSweeper(store, cfg.Session.TTL, 0).Run(gctx)
	})

	g.Go(func() error {
		analysis.Probe(gctx, remote, logger)
		return nil
	})

	return g.Wait()
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := newAPIClient(cfg)
	if err := client.health(ctx); err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "running on %s", cfg.Server.Addr())
	}

	remote := analysis.NewClient(cfg.API.BaseURL, 10*time.Second)
	if err := remote.Health(ctx); err != nil {
		printStatus("Analysis service", "unreachable at %s (%v)", cfg.API.BaseURL, err)
	} else {
		printStatus("Analysis service", "reachable at %s", cfg.API.BaseURL)
	}

	printStatus("Storage", "%s", cfg.Storage.DSN)
	printStatus("Session TTL", "%s", cfg.Session.TTL)
	return nil
}
