package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natovichat/rent-management-app/api/internal/config"
	"github.com/natovichat/rent-management-app/api/internal/database"
	"github.com/natovichat/rent-management-app/api/internal/testutil"
)

func TestDSN(t *testing.T) {
	dsn := database.DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", Name: "rentals", User: "u", Password: "p",
	})
	assert.Equal(t, "postgres://u:p@db:5432/rentals?sslmode=disable", dsn)

	dsn = database.DSN(config.DatabaseConfig{
		Host: "db", Port: "5432", Name: "rentals", User: "u", Password: "p", SSLMode: "require",
	})
	assert.Equal(t, "postgres://u:p@db:5432/rentals?sslmode=require", dsn)
}

func TestNewPostgresPool_Success(t *testing.T) {
	db := testutil.NewDatabase(t)

	require.NotNil(t, db.Pool)
	assert.NotNil(t, db.Stats())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestNewPostgresPool_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.DatabaseConfig{
		Host: "invalid-host-that-does-not-exist", Port: "5432", Name: "rentals",
		User: "postgres", Password: "postgres", PoolMin: 1, PoolMax: 2,
	}

	db, err := database.NewPostgresPool(ctx, cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.NewDatabase(t)

	ctx := context.Background()

	applied, err := db.Migrate(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied, "second run should apply nothing")

	version, err := db.MigrationVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var tables int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_name IN ('properties', 'expenses', 'valuations')`,
	).Scan(&tables))
	assert.Equal(t, 3, tables)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS tx_scratch (v INT)`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `TRUNCATE tx_scratch`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.WithTx(ctx, func(ctx context.Context) error {
		assert.True(t, database.InTx(ctx))
		if _, err := db.Conn(ctx).Exec(ctx, `INSERT INTO tx_scratch (v) VALUES (1)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tx_scratch`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTx_NestedJoinsOuter(t *testing.T) {
	db := testutil.NewDatabase(t)
	ctx := context.Background()

	_, err := db.Pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS tx_scratch_nested (v INT)`)
	require.NoError(t, err)
	_, err = db.Pool.Exec(ctx, `TRUNCATE tx_scratch_nested`)
	require.NoError(t, err)

	err = db.WithTx(ctx, func(ctx context.Context) error {
		return db.WithTx(ctx, func(ctx context.Context) error {
			_, err := db.Conn(ctx).Exec(ctx, `INSERT INTO tx_scratch_nested (v) VALUES (1)`)
			return err
		})
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM tx_scratch_nested`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestInTx_PlainContext(t *testing.T) {
	assert.False(t, database.InTx(context.Background()))
}
