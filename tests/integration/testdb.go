//go:build integration

// Package integration runs the ledger against a real PostgreSQL started
// with testcontainers. Run with: go test -tags integration ./tests/integration/...
package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/smallerp/backend/internal/infrastructure/config"
	"github.com/smallerp/backend/internal/infrastructure/logger"
	"github.com/smallerp/backend/internal/infrastructure/migration"
	"github.com/smallerp/backend/internal/infrastructure/persistence"
	"github.com/smallerp/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const (
	testDBName = "ledger_test"
	testDBUser = "ledger"
	testDBPass = "ledger"
)

// TestDB is a migrated database in a throwaway container. The embedded
// Database is what the server would use against the same config.
type TestDB struct {
	*persistence.Database
}

// NewTestDB starts PostgreSQL, connects through persistence.NewDatabase
// and applies the embedded migrations. Everything is torn down when t ends.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase(testDBName),
		tcpostgres.WithUsername(testDBUser),
		tcpostgres.WithPassword(testDBPass),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	gormLog := logger.NewGormLogger(zap.NewNop(), gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = logger.NewGormLogger(zap.NewExample(), gormlogger.Info)
	}
	db, err := persistence.NewDatabase(ctx, &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            testDBUser,
		Password:        testDBPass,
		DBName:          testDBName,
		SSLMode:         "disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
	}, gormLog)
	require.NoError(t, err, "connect to postgres")
	t.Cleanup(func() { _ = db.Close() })

	migrator, err := migration.New(db.SQL(), migrations.FS, zap.NewNop())
	require.NoError(t, err, "create migrator")
	require.NoError(t, migrator.Up(), "apply migrations")

	return &TestDB{Database: db}
}
