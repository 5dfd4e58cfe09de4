package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"inmogest/config"
	"inmogest/models"
	"inmogest/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	cfg := &config.Config{
		DBEngine:   config.EngineSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func crearTerreno(t *testing.T, repo *TerrenoRepository, manzana, lote string) int64 {
	t.Helper()
	id, err := repo.Create(context.Background(), &models.Terreno{
		Manzana:    manzana,
		NumeroLote: lote,
		Superficie: 300,
		Estado:     models.TerrenoDisponible,
	})
	require.NoError(t, err)
	return id
}
