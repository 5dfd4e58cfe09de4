package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmogest/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBEngine:   config.EngineSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	store, err := Open(testConfig(t))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	for _, table := range []string{"loteos", "terrenos", "edificaciones", "edificacion_terreno", "reservas", "usuarios"} {
		var n int
		err := store.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, 0, n)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	store, err := Open(cfg)
	require.NoError(t, err)

	var antes int
	require.NoError(t, store.QueryRow(ctx, `SELECT COUNT(*) FROM migrations`).Scan(&antes))
	assert.Equal(t, len(migrations), antes)

	_, err = store.Exec(ctx, `
		INSERT INTO terrenos (manzana, numero_lote, superficie, estado) VALUES (?, ?, ?, ?)`,
		"A", "1", 300.0, "DISPONIBLE")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run anything or touch existing data.
	store, err = Open(cfg)
	require.NoError(t, err)
	defer store.Close()

	var despues, terrenos int
	require.NoError(t, store.QueryRow(ctx, `SELECT COUNT(*) FROM migrations`).Scan(&despues))
	require.NoError(t, store.QueryRow(ctx, `SELECT COUNT(*) FROM terrenos`).Scan(&terrenos))
	assert.Equal(t, antes, despues)
	assert.Equal(t, 1, terrenos)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store, err := Open(testConfig(t))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	boom := assert.AnError
	err = store.WithTx(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `
			INSERT INTO terrenos (manzana, numero_lote, superficie, estado) VALUES (?, ?, ?, ?)`,
			"A", "1", 300.0, "DISPONIBLE"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, store.QueryRow(ctx, `SELECT COUNT(*) FROM terrenos`).Scan(&n))
	assert.Equal(t, 0, n, "failed transaction leaves no rows")
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = ?`

	assert.Equal(t, q, rebind(config.EngineSQLite, q))
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2`, rebind(config.EnginePostgres, q))
	assert.Equal(t, `SELECT 1`, rebind(config.EnginePostgres, `SELECT 1`))
}
