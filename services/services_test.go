package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"inmogest/config"
	"inmogest/models"
	"inmogest/repositories"
	"inmogest/storage"
)

// testEnv wires every service over one throwaway SQLite file.
type testEnv struct {
	terrenos      *TerrenoService
	edificaciones *EdificacionService
	loteos        *LoteoService
	reservas      *ReservaService
	auth          *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		DBEngine:   config.EngineSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	}
	store, err := storage.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	trepo := repositories.NewTerrenoRepository(store)
	erepo := repositories.NewEdificacionRepository(store)
	links := repositories.NewEdificacionTerrenoRepository(store)
	lrepo := repositories.NewLoteoRepository(store)
	rrepo := repositories.NewReservaRepository(store)
	urepo := repositories.NewUsuarioRepository(store)

	return &testEnv{
		terrenos:      NewTerrenoService(trepo),
		edificaciones: NewEdificacionService(erepo, trepo, links),
		loteos:        NewLoteoService(lrepo, trepo),
		reservas:      NewReservaService(rrepo, trepo, erepo),
		auth:          NewAuthService(urepo, bcrypt.MinCost),
	}
}

func (env *testEnv) crearTerreno(t *testing.T, manzana, lote string) int64 {
	t.Helper()
	id, err := env.terrenos.Crear(context.Background(), models.Terreno{
		Manzana:    manzana,
		NumeroLote: lote,
		Superficie: 300,
	})
	require.NoError(t, err)
	return id
}

func (env *testEnv) crearEdificacion(t *testing.T, terrenosIDs ...int64) int64 {
	t.Helper()
	id, err := env.edificaciones.Crear(context.Background(), models.Edificacion{
		Tipo:        models.TipoCasa,
		TerrenosIDs: terrenosIDs,
	})
	require.NoError(t, err)
	return id
}
