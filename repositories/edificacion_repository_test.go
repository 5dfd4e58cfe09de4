package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmogest/models"
)

func TestEdificacionCreateWithLinks(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	t2 := crearTerreno(t, terrenos, "A", "2")

	sup := 120.0
	id, err := repo.Create(ctx, &models.Edificacion{
		Tipo:               models.TipoCasa,
		SuperficieCubierta: &sup,
		Estado:             models.EdificacionDisponible,
		TerrenosIDs:        []int64{t2, t1},
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.TipoCasa, got.Tipo)
	assert.Equal(t, []int64{t1, t2}, got.TerrenosIDs, "links come back ordered by terreno id")
}

func TestEdificacionUpdateReconcilesLinks(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	t2 := crearTerreno(t, terrenos, "A", "2")
	t3 := crearTerreno(t, terrenos, "A", "3")

	id, err := repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoDuplex, Estado: models.EdificacionDisponible,
		TerrenosIDs: []int64{t1, t2},
	})
	require.NoError(t, err)

	e, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	e.TerrenosIDs = []int64{t2, t3}
	require.NoError(t, repo.Update(ctx, e))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{t2, t3}, got.TerrenosIDs)

	// t1 itself is untouched, only its link went away
	sobrevive, err := terrenos.FindByID(ctx, t1)
	require.NoError(t, err)
	assert.NotNil(t, sobrevive)
}

func TestEdificacionDeleteRemovesLinks(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	links := NewEdificacionTerrenoRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	id, err := repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoCasa, Estado: models.EdificacionDisponible,
		TerrenosIDs: []int64{t1},
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))

	borrada, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, borrada)

	ids, err := links.TerrenosIDsDeEdificacion(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, ids)

	sobrevive, err := terrenos.FindByID(ctx, t1)
	require.NoError(t, err)
	assert.NotNil(t, sobrevive, "terrenos outlive their edificaciones")
}

func TestEdificacionListByTerreno(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	t2 := crearTerreno(t, terrenos, "A", "2")

	e1, err := repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoCasa, Estado: models.EdificacionDisponible, TerrenosIDs: []int64{t1},
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoGalpon, Estado: models.EdificacionDisponible, TerrenosIDs: []int64{t2},
	})
	require.NoError(t, err)

	enT1, err := repo.ListByTerreno(ctx, t1)
	require.NoError(t, err)
	require.Len(t, enT1, 1)
	assert.Equal(t, e1, enT1[0].ID)
	assert.Equal(t, []int64{t1}, enT1[0].TerrenosIDs)

	enOtro, err := repo.ListByTerreno(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, enOtro)
}

func TestVincularIdempotente(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	links := NewEdificacionTerrenoRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	id, err := repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoCasa, Estado: models.EdificacionDisponible,
	})
	require.NoError(t, err)

	require.NoError(t, links.Vincular(ctx, id, t1))
	require.NoError(t, links.Vincular(ctx, id, t1))

	ids, err := links.TerrenosIDsDeEdificacion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{t1}, ids)

	require.NoError(t, links.Desvincular(ctx, id, t1))
	ids, err = links.TerrenosIDsDeEdificacion(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReemplazarTerrenosIdempotente(t *testing.T) {
	store := newTestStore(t)
	terrenos := NewTerrenoRepository(store)
	repo := NewEdificacionRepository(store)
	links := NewEdificacionTerrenoRepository(store)
	ctx := context.Background()

	t1 := crearTerreno(t, terrenos, "A", "1")
	t2 := crearTerreno(t, terrenos, "A", "2")
	id, err := repo.Create(ctx, &models.Edificacion{
		Tipo: models.TipoCasa, Estado: models.EdificacionDisponible, TerrenosIDs: []int64{t1},
	})
	require.NoError(t, err)

	require.NoError(t, links.ReemplazarTerrenos(ctx, id, []int64{t1, t2}))
	require.NoError(t, links.ReemplazarTerrenos(ctx, id, []int64{t1, t2}))

	ids, err := links.TerrenosIDsDeEdificacion(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int64{t1, t2}, ids)

	require.NoError(t, links.ReemplazarTerrenos(ctx, id, nil))
	ids, err = links.TerrenosIDsDeEdificacion(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
