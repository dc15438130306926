// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続設定です。
type Config struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout は接続確認のタイムアウトです。0の場合は3秒です。
	PingTimeout time.Duration
}

// NewRedisClient はRedisクライアントを生成し、Pingで接続を確認します。
// 接続できない場合はクライアントを閉じてエラーを返します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// 接続確認
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr)
	return rdb, nil
}
