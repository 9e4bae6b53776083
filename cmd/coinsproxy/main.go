// Package main запускает CORS-прокси между панелью администратора и сервером монет.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/coins-admin/internal/config"
	"github.com/mmeshcher/coins-admin/internal/handler"
	"github.com/mmeshcher/coins-admin/internal/middleware"
	"github.com/mmeshcher/coins-admin/internal/session"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	if err := config.LoadDotEnv(); err != nil {
		sugar.Fatalw("dotenv error", "error", err.Error())
	}

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var source middleware.CredentialSource
	if cfg.SessionFile != "" {
		store, err := session.OpenBoltStore(cfg.SessionFile)
		if err != nil {
			sugar.Fatalw("session store error", "error", err.Error(), "path", cfg.SessionFile)
		}
		defer store.Close()
		source = session.New(store, logger)
	}

	transport := cleanhttp.DefaultPooledTransport()
	transport.ResponseHeaderTimeout = cfg.Timeout

	h, err := handler.NewHandler(handler.Options{
		APIURL:        cfg.APIURL,
		AllowedOrigin: cfg.AllowedOrigin,
		Transport:     transport,
	}, logger, middleware.NewAuthMiddleware(source, logger))
	if err != nil {
		sugar.Fatalw("proxy initialization error", "error", err.Error())
	}

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting coins proxy",
			"addr", cfg.RunAddress,
			"target", cfg.APIURL,
			"origin", cfg.AllowedOrigin,
			"inject_credentials", source != nil,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Остановка по сигналу или при ошибке сервера.
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down proxy...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("proxy stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
