package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.AutoMigrate {
		if err := a.migrate(); err != nil {
			return err
		}
	}

	events := a.connectKafka(ctx)
	if err := a.connectSearch(ctx); err != nil {
		a.log.Error("search_unavailable", "error", err)
	}

	r := repo.New(a.db)
	e := httpserver.New(a.log, a.cfg.CORSOrigins)
	httpserver.Register(e, &httpserver.Deps{
		DB:         a.db,
		Auth:       &service.AuthService{Repo: r, TokenTTL: a.cfg.TokenTTL},
		Catalog:    a.catalog(events),
		Cart:       &service.CartService{Repo: r, Events: events},
		Reviews:    &service.ReviewService{Repo: r, Events: events},
		Promotions: &service.PromotionService{Repo: r, Events: events},
	})

	srv := &http.Server{
		Addr:              a.cfg.ServerAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("http_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info("http_stopped")
	return nil
}
