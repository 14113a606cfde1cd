package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lasttime-service/internal/repository/postgres"
)

const connectAttempts = 3

// dsnFromEnv собирает строку подключения из TEST_DB_* с локальными значениями по умолчанию
func dsnFromEnv() string {
	params := []struct{ key, env, def string }{
		{"host", "TEST_DB_HOST", "localhost"},
		{"port", "TEST_DB_PORT", "5433"},
		{"user", "TEST_DB_USER", "postgres"},
		{"password", "TEST_DB_PASSWORD", "postgres"},
		{"dbname", "TEST_DB_NAME", "lasttime_test"},
		{"sslmode", "TEST_DB_SSLMODE", "disable"},
	}

	parts := make([]string, 0, len(params))
	for _, p := range params {
		v := os.Getenv(p.env)
		if v == "" {
			v = p.def
		}
		parts = append(parts, fmt.Sprintf("%s=%s", p.key, v))
	}
	return strings.Join(parts, " ")
}

// SetupTestDB возвращает мигрированную пустую базу; без PostgreSQL тест пропускается.
// Подключение закрывается через t.Cleanup.
func SetupTestDB(t *testing.T) *postgres.DB {
	t.Helper()

	var (
		conn *sqlx.DB
		err  error
	)
	delay := 200 * time.Millisecond
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		if conn, err = sqlx.Connect("postgres", dsnFromEnv()); err == nil {
			break
		}
		if attempt < connectAttempts {
			t.Logf("postgres not ready (attempt %d/%d): %v", attempt, connectAttempts, err)
			time.Sleep(delay)
			delay *= 2
		}
	}
	if err != nil {
		t.Skipf("postgres not available for integration tests: %v", err)
	}

	db := postgres.Wrap(conn, zap.NewNop())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE TABLE geocode_cache`); err != nil {
		t.Fatalf("truncate geocode_cache: %v", err)
	}
	return db
}
