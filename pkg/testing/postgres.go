package testing

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/shoileazeez/portfolio/internal/db"
	"github.com/shoileazeez/portfolio/internal/db/migrate"
)

// GetMigratedDBPool connects to the postgres named by POSTGRES_HOST / POSTGRES_PORT /
// POSTGRES_DB / POSTGRES_USER / POSTGRES_PASSWORD and applies all migrations.
func GetMigratedDBPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	params := db.NewDBPoolParams{
		DBHost:     envOr("POSTGRES_HOST", "localhost"),
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBName:     envOr("POSTGRES_DB", "portfolio_test"),
		DBUser:     envOr("POSTGRES_USER", "postgres"),
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	}
	t.Logf("using postgres host: %s", params.DBHost)

	require.NoError(t, migrate.Run(params.DSN(), migrate.DirectionUp))

	dbPool, err := db.NewDBPool(ctx, params)
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, dbPool.Ping(ctx))
	return ctx, dbPool
}
