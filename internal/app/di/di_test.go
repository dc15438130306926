package di

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"account_backend/internal/platform/config"
	"account_backend/internal/platform/notify"
)

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestNewNotifier(t *testing.T) {
	t.Run("log by default", func(t *testing.T) {
		n, cleanup := NewNotifier(context.Background(), &config.Config{})
		defer cleanup()
		assert.IsType(t, &notify.LogNotifier{}, n)
	})

	t.Run("smtp when host is set", func(t *testing.T) {
		cfg := &config.Config{SMTP: config.SMTPConfig{Host: "smtp.example.com", From: "noreply@example.com"}}
		n, cleanup := NewNotifier(context.Background(), cfg)
		defer cleanup()
		assert.IsType(t, &notify.SMTPNotifier{}, n)
	})

	t.Run("invalid smtp falls back", func(t *testing.T) {
		cfg := &config.Config{SMTP: config.SMTPConfig{Host: "smtp.example.com"}}
		n, cleanup := NewNotifier(context.Background(), cfg)
		defer cleanup()
		assert.IsType(t, &notify.LogNotifier{}, n)
	})

	t.Run("unreachable redis falls back to log", func(t *testing.T) {
		cfg := &config.Config{Redis: config.RedisConfig{Addr: closedAddr(t)}}
		n, cleanup := NewNotifier(context.Background(), cfg)
		defer cleanup()
		assert.IsType(t, &notify.LogNotifier{}, n)
	})
}

func TestNewAuth(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	auth, err := NewAuth(db, &config.Config{Auth: config.AuthConfig{SecretKey: "k", Algorithm: "HS384"}}, notify.NewLogNotifier(nil))
	require.NoError(t, err)
	assert.NotNil(t, auth.Handler)
	assert.Equal(t, "HS384", auth.Tokens.Algorithm())

	_, err = NewAuth(db, &config.Config{Auth: config.AuthConfig{SecretKey: "k", Algorithm: "RS256"}}, nil)
	assert.Error(t, err)
}
