package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"account_backend/internal/app/di"
	"account_backend/internal/app/router"
	authadapters "account_backend/internal/feature/auth/adapters"
	"account_backend/internal/platform/config"
	"account_backend/internal/platform/db"
	platformhandler "account_backend/internal/platform/http/handler"
	"account_backend/internal/platform/logging"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	cmd := &cli.Command{
		Name:   "server",
		Usage:  "Account registration and activation API",
		Flags:  config.Flags(),
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)
	if cfg.Dev {
		gin.SetMode(gin.DebugMode)
		slog.Warn("running in development mode; do not use in production")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	gdb, err := db.Open(db.Config{
		Driver:         cfg.Database.Driver,
		Host:           cfg.Database.Host,
		Port:           cfg.Database.Port,
		User:           cfg.Database.Username,
		Password:       cfg.Database.Password,
		Name:           cfg.Database.Name,
		SSLMode:        cfg.Database.SSLMode,
		Path:           cfg.Database.Path,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		Debug:          cfg.Dev,
	})
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// テーブル作成（users, user_activations）
	if cfg.Database.RunMigrations {
		if err := db.Migrate(gdb, authadapters.Models()...); err != nil {
			return err
		}
	}

	notifier, closeNotifier := di.NewNotifier(ctx, cfg)
	defer closeNotifier()

	auth, err := di.NewAuth(gdb, cfg, notifier)
	if err != nil {
		return err
	}

	// ルータ生成
	r := router.NewRouter(auth.Handler, platformhandler.NewHealthHandler(sqlDB), auth.Tokens)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", srv.Addr, "algorithm", auth.Tokens.Algorithm())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
