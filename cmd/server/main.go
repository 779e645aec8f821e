// The server command runs the deadline engine as an HTTP service backed
// by PostgreSQL, with a background sweeper for server-side expiry.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nakeddeadlines/deadline"
	"github.com/nakeddeadlines/deadline/adapters/brevo"
	fiberadapter "github.com/nakeddeadlines/deadline/adapters/fiber"
	pgxadapter "github.com/nakeddeadlines/deadline/adapters/pgx"
	"github.com/nakeddeadlines/deadline/adapters/stripe"
	"github.com/nakeddeadlines/deadline/adapters/xapi"
	"github.com/nakeddeadlines/deadline/pkg/config"
	"github.com/nakeddeadlines/deadline/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()
	log := logging.NewDefault()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pgxadapter.Migrate(ctx, cfg.DatabaseDSN); err != nil {
		return err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	app := fiber.New()

	var notifier deadline.Notifier
	if cfg.BrevoAPIKey != "" {
		notifier = brevo.New(brevo.Config{APIKey: cfg.BrevoAPIKey})
	}

	var payments deadline.PaymentProvider
	if cfg.StripeAPIKey != "" {
		payments = stripe.New(stripe.Config{
			APIKey:     cfg.StripeAPIKey,
			AppBaseURL: cfg.BaseURL,
		})
	}

	engine, err := deadline.New(deadline.Config{
		Secret:        cfg.Secret,
		BaseURL:       cfg.BaseURL,
		Database:      pgxadapter.New(pool),
		HTTP:          fiberadapter.New(app),
		Publisher:     xapi.New(cfg.PublisherBaseURL, 0),
		Notifier:      notifier,
		Payments:      payments,
		SessionConfig: &deadline.SessionConfig{MaxAge: cfg.SessionTTL},
		Logger:        log,
	})
	if err != nil {
		return err
	}

	sweeper := deadline.NewSweeper(engine, cfg.SweepInterval)
	go func() {
		if err := sweeper.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error(ctx, "sweeper stopped", "error", err)
		}
	}()

	// Expired sessions accumulate otherwise; the interval is not
	// latency sensitive.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := engine.Sessions.DeleteExpired(ctx); err != nil {
					log.Warn(ctx, "session cleanup failed", "error", err)
				} else if n > 0 {
					log.Info(ctx, "expired sessions removed", "count", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "server listening", "addr", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
