// Package config builds the immutable server configuration from CLI flags,
// environment variables and an optional config.toml.
package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

// DevSecretKey signs tokens in --dev mode when no secret key is configured.
const DevSecretKey = "dev-insecure-secret-key"

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Dev      bool
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Driver         string // postgres, sqlite
	Host           string
	Port           string
	Name           string
	Username       string
	Password       string
	SSLMode        string
	Path           string // sqlite file
	ConnectTimeout time.Duration
	RunMigrations  bool
}

type AuthConfig struct {
	SecretKey      string
	Algorithm      string // HS256, HS384, HS512
	AccessTokenTTL time.Duration
	ActivationTTL  time.Duration
	BcryptCost     int
}

type RedisConfig struct {
	Addr     string // empty disables Redis
	Password string
	DB       int
	QueueKey string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string // empty disables SMTP
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// NewFromCLI reads every flag of Flags into a Config.
func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: cmd.String("host"),
			Port: int(cmd.Int("port")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			Driver:         cmd.String("db-driver"),
			Host:           cmd.String("db-host"),
			Port:           cmd.String("db-port"),
			Name:           cmd.String("db-name"),
			Username:       cmd.String("db-username"),
			Password:       cmd.String("db-password"),
			SSLMode:        cmd.String("db-sslmode"),
			Path:           cmd.String("db-path"),
			ConnectTimeout: cmd.Duration("db-connect-timeout"),
			RunMigrations:  cmd.Bool("run-migrations"),
		},
		Auth: AuthConfig{
			SecretKey:      cmd.String("secret-key"),
			Algorithm:      cmd.String("algorithm"),
			AccessTokenTTL: cmd.Duration("access-token-ttl"),
			ActivationTTL:  cmd.Duration("activation-ttl"),
			BcryptCost:     int(cmd.Int("bcrypt-cost")),
		},
		Redis: RedisConfig{
			Addr:     cmd.String("redis-addr"),
			Password: cmd.String("redis-password"),
			DB:       int(cmd.Int("redis-db")),
			QueueKey: cmd.String("notify-queue"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Dev: cmd.Bool("dev"),
	}

	if cfg.Dev && cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = DevSecretKey
	}
	return cfg
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.SecretKey == "" {
		errs = append(errs, errors.New("secret-key is required (set SECRET_KEY or use --dev)"))
	}
	if !slices.Contains([]string{"HS256", "HS384", "HS512"}, c.Auth.Algorithm) {
		errs = append(errs, fmt.Errorf("algorithm must be HS256, HS384 or HS512, got %q", c.Auth.Algorithm))
	}
	if !slices.Contains([]string{"postgres", "sqlite"}, c.Database.Driver) {
		errs = append(errs, fmt.Errorf("db-driver must be postgres or sqlite, got %q", c.Database.Driver))
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log-format must be text or json, got %q", c.Log.Format))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Server.Port))
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		errs = append(errs, errors.New("smtp-from is required when smtp-host is set"))
	}
	return errors.Join(errs...)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "dev",
			Usage:   "Development mode (debug router, fallback secret key)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DEV"), toml.TOML("dev", configFile)),
		},
		&cli.StringFlag{
			Name:    "host",
			Value:   "0.0.0.0",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   43122,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		// Database flags
		&cli.StringFlag{
			Name:    "db-driver",
			Value:   "postgres",
			Usage:   "Database driver (postgres, sqlite)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_DRIVER"), toml.TOML("database.driver", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-host",
			Value:   "localhost",
			Usage:   "Database host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_HOST"), toml.TOML("database.host", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-port",
			Value:   "5432",
			Usage:   "Database port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_PORT"), toml.TOML("database.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-name",
			Value:   "accounts",
			Usage:   "Database name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_NAME"), toml.TOML("database.name", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-username",
			Value:   "postgres",
			Usage:   "Database user",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_USERNAME"), toml.TOML("database.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-password",
			Usage:   "Database password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_PASSWORD"), toml.TOML("database.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-sslmode",
			Value:   "disable",
			Usage:   "PostgreSQL sslmode",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_SSLMODE"), toml.TOML("database.sslmode", configFile)),
		},
		&cli.StringFlag{
			Name:    "db-path",
			Value:   "./data/app.db",
			Usage:   "SQLite database path",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_PATH"), toml.TOML("database.path", configFile)),
		},
		&cli.DurationFlag{
			Name:    "db-connect-timeout",
			Value:   60 * time.Second,
			Usage:   "How long to retry the initial database connection",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DB_CONNECT_TIMEOUT"), toml.TOML("database.connect_timeout", configFile)),
		},
		&cli.BoolFlag{
			Name:    "run-migrations",
			Value:   true,
			Usage:   "Create missing tables on startup",
			Sources: cli.NewValueSourceChain(cli.EnvVar("RUN_MIGRATIONS"), toml.TOML("database.run_migrations", configFile)),
		},
		// Auth flags
		&cli.StringFlag{
			Name:    "secret-key",
			Usage:   "Key used to sign access tokens",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SECRET_KEY"), toml.TOML("auth.secret_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "algorithm",
			Value:   "HS256",
			Usage:   "Token signing algorithm (HS256, HS384, HS512)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ALGORITHM"), toml.TOML("auth.algorithm", configFile)),
		},
		&cli.DurationFlag{
			Name:    "access-token-ttl",
			Value:   30 * time.Minute,
			Usage:   "Lifetime of access tokens issued at login",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ACCESS_TOKEN_TTL"), toml.TOML("auth.access_token_ttl", configFile)),
		},
		&cli.DurationFlag{
			Name:    "activation-ttl",
			Value:   60 * time.Second,
			Usage:   "Lifetime of activation codes",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ACTIVATION_TTL"), toml.TOML("auth.activation_ttl", configFile)),
		},
		&cli.IntFlag{
			Name:    "bcrypt-cost",
			Value:   10,
			Usage:   "bcrypt cost factor",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BCRYPT_COST"), toml.TOML("auth.bcrypt_cost", configFile)),
		},
		// Notification flags
		&cli.StringFlag{
			Name:    "redis-addr",
			Usage:   "Redis address (host:port) for the activation message queue",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_ADDR"), toml.TOML("redis.addr", configFile)),
		},
		&cli.StringFlag{
			Name:    "redis-password",
			Usage:   "Redis password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_PASSWORD"), toml.TOML("redis.password", configFile)),
		},
		&cli.IntFlag{
			Name:    "redis-db",
			Usage:   "Redis database number",
			Sources: cli.NewValueSourceChain(cli.EnvVar("REDIS_DB"), toml.TOML("redis.db", configFile)),
		},
		&cli.StringFlag{
			Name:    "notify-queue",
			Value:   "notify:activation",
			Usage:   "Redis list activation messages are pushed to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("NOTIFY_QUEUE"), toml.TOML("redis.queue_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host; enables email delivery",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "Sender address of activation emails",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Usage:   "Sender display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS for SMTP",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
	}
}
