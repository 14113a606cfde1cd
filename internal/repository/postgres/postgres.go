package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lasttime-service/internal/config"
	"go.uber.org/zap"
)

const (
	connectTimeout = 5 * time.Second
	migrationLock  = 0x6c617374 // pg_advisory_xact_lock: одна миграция на кластер
)

// migrations применяются по порядку; номер версии = индекс + 1.
// Уже применённые миграции не меняются, новые дописываются в конец.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS geocode_cache (
		cell_x       BIGINT      NOT NULL,
		cell_y       BIGINT      NOT NULL,
		address_type TEXT        NOT NULL,
		city_do      TEXT        NOT NULL,
		gu_gun       TEXT        NOT NULL DEFAULT '',
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (cell_x, cell_y, address_type)
	)`,
	`CREATE INDEX IF NOT EXISTS geocode_cache_address_type_idx ON geocode_cache (address_type)`,
}

// DB - пул соединений PostgreSQL для кеша геокодирования
type DB struct {
	*sqlx.DB
	logger *zap.Logger
}

func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	conn, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres %s:%d/%s: %w", cfg.Host, cfg.Port, cfg.DBName, err)
	}

	conn.SetMaxOpenConns(cfg.MaxConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	conn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("PostgreSQL connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.String("database", cfg.DBName),
		zap.Int("max_conns", cfg.MaxConns))

	return Wrap(conn, logger), nil
}

// Wrap оборачивает уже открытое подключение (тесты, внешние пулы)
func Wrap(conn *sqlx.DB, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{DB: conn, logger: logger}
}

// Migrate доводит схему до последней версии в одной транзакции
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT         PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, migrationLock); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}

	var current int
	if err := tx.GetContext(ctx, &current, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		version := i + 1
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
		db.logger.Info("Applied migration", zap.Int("version", version))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	db.logger.Debug("Schema is up to date", zap.Int("version", len(migrations)))
	return nil
}

func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) Close() error {
	db.logger.Debug("Closing PostgreSQL pool")
	return db.DB.Close()
}
