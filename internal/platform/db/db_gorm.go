// Package db はGORMによるデータベース接続とテーブル作成を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DriverPostgres は本番用のPostgreSQLドライバー名です。
	DriverPostgres = "postgres"
	// DriverSQLite は開発・テスト用のSQLiteドライバー名です。
	DriverSQLite = "sqlite"
)

// retryInterval は接続リトライの間隔です（テストで短縮できるよう変数にしています）。
var retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver   string // "postgres" または "sqlite"
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Path はSQLiteのファイルパスです。":memory:"も指定できます。
	Path string
	// ConnectTimeout は起動時の接続リトライを諦めるまでの時間です。
	ConnectTimeout time.Duration
	// Debug がtrueの場合、実行したSQLをログに出力します。
	Debug bool
}

// Opener はDSNからgorm.DBを開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はConfigから接続文字列を組み立てます。
// SQLiteの場合はファイルパスをそのまま返します。タイムゾーンは常にUTCです。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		return cfg.Path
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, sslMode)
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("DB connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(retryInterval)
	}
}

// Open はcfgのドライバーでデータベースに接続します。
func Open(cfg Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
	if cfg.Debug {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gcfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	var opener Opener
	switch cfg.Driver {
	case DriverPostgres, "":
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, errors.New("sqlite path must not be empty")
		}
		opener = func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == DriverSQLite {
		// SQLiteは書き込みが直列化されるため接続を1本に絞る（:memory:はこれがないと接続ごとに別DBになる）
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	slog.Info("DB connection successful", "driver", db.Dialector.Name())
	return db, nil
}

// Migrate はmodelsのテーブルを作成・更新します。
// 起動時のテーブル作成用で、バージョン管理されたマイグレーションではありません。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
