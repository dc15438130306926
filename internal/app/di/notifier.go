// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"account_backend/internal/feature/auth/usecase"
	"account_backend/internal/platform/config"
	"account_backend/internal/platform/notify"
	platformredis "account_backend/internal/platform/redis"
)

// NewNotifier creates the Notifier used to deliver activation codes.
// SMTP is used when an SMTP host is configured. Otherwise, if Redis is
// reachable, messages are queued there. It falls back to logging.
// The returned cleanup must be called on shutdown.
func NewNotifier(ctx context.Context, cfg *config.Config) (usecase.Notifier, func()) {
	noop := func() {}

	if cfg.SMTP.Host != "" {
		n, err := notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
			TLS:      cfg.SMTP.TLS,
		})
		if err == nil {
			slog.Info("activation codes are sent by email", "smtp_host", cfg.SMTP.Host)
			return n, noop
		}
		slog.Warn("SMTP notifier disabled", "error", err)
	}

	if cfg.Redis.Addr != "" {
		rdb, err := platformredis.NewRedisClient(ctx, platformredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err == nil {
			slog.Info("activation codes are queued in Redis", "key", cfg.Redis.QueueKey)
			return notify.NewRedisNotifier(rdb, notify.WithQueueKey(cfg.Redis.QueueKey)), func() { _ = rdb.Close() }
		}
		slog.Warn("Redis notifier disabled; falling back to log", "error", err)
	}

	slog.Info("activation codes are written to the log")
	return notify.NewLogNotifier(nil), noop
}
