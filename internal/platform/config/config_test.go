package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

// parse runs a command with Flags and returns the resulting Config.
func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	var cfg *Config
	app := &cli.Command{
		Name:  "test",
		Flags: Flags(),
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg = NewFromCLI(cmd)
			return nil
		},
	}
	require.NoError(t, app.Run(context.Background(), append([]string{"test"}, args...)))
	require.NotNil(t, cfg)
	return cfg
}

func TestFlags(t *testing.T) {
	flagNames := make(map[string]bool)
	for _, f := range Flags() {
		for _, name := range f.Names() {
			flagNames[name] = true
		}
	}

	for _, name := range []string{"port", "db-host", "db-port", "db-name", "db-username", "db-password", "secret-key", "algorithm", "run-migrations", "dev"} {
		assert.True(t, flagNames[name], "should have %s flag", name)
	}
}

func TestNewFromCLI_Defaults(t *testing.T) {
	cfg := parse(t)

	assert.Equal(t, 43122, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:43122", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 60*time.Second, cfg.Database.ConnectTimeout)
	assert.True(t, cfg.Database.RunMigrations)
	assert.Equal(t, "HS256", cfg.Auth.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 60*time.Second, cfg.Auth.ActivationTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "notify:activation", cfg.Redis.QueueKey)
	assert.True(t, cfg.SMTP.TLS)
	assert.False(t, cfg.Dev)
	assert.Empty(t, cfg.Auth.SecretKey)
}

func TestNewFromCLI_Env(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "prod")
	t.Setenv("DB_USERNAME", "svc")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("SECRET_KEY", "signing-key")
	t.Setenv("ALGORITHM", "HS512")

	cfg := parse(t)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "6543", cfg.Database.Port)
	assert.Equal(t, "prod", cfg.Database.Name)
	assert.Equal(t, "svc", cfg.Database.Username)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "signing-key", cfg.Auth.SecretKey)
	assert.Equal(t, "HS512", cfg.Auth.Algorithm)
	assert.NoError(t, cfg.Validate())
}

func TestNewFromCLI_ArgsOverrideEnv(t *testing.T) {
	t.Setenv("PORT", "9000")

	cfg := parse(t, "--port", "9100", "--run-migrations=false", "--activation-ttl", "2m")

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.False(t, cfg.Database.RunMigrations)
	assert.Equal(t, 2*time.Minute, cfg.Auth.ActivationTTL)
}

func TestNewFromCLI_DevSecret(t *testing.T) {
	cfg := parse(t, "--dev")

	assert.True(t, cfg.Dev)
	assert.Equal(t, DevSecretKey, cfg.Auth.SecretKey)
	assert.NoError(t, cfg.Validate())

	cfg = parse(t, "--dev", "--secret-key", "explicit")
	assert.Equal(t, "explicit", cfg.Auth.SecretKey)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Host: "0.0.0.0", Port: 43122},
			Log:      LogConfig{Level: "info", Format: "text"},
			Database: DatabaseConfig{Driver: "postgres"},
			Auth:     AuthConfig{SecretKey: "k", Algorithm: "HS256"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing secret", func(c *Config) { c.Auth.SecretKey = "" }, "secret-key is required"},
		{"asymmetric algorithm", func(c *Config) { c.Auth.Algorithm = "RS256" }, "algorithm must be"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "db-driver must be"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log-format must be"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "port out of range"},
		{"smtp without from", func(c *Config) { c.SMTP.Host = "smtp.example.com" }, "smtp-from is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
