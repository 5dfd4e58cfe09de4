package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmogest/models"
)

func TestTerrenoCRUD(t *testing.T) {
	repo := NewTerrenoRepository(newTestStore(t))
	ctx := context.Background()

	ubicacion := "frente a la plaza"
	nomenclatura := "06-01-001-014"
	id, err := repo.Create(ctx, &models.Terreno{
		Manzana:      "A",
		NumeroLote:   "14",
		Superficie:   312.5,
		Ubicacion:    &ubicacion,
		Nomenclatura: &nomenclatura,
		Estado:       models.TerrenoDisponible,
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Manzana)
	assert.Equal(t, "14", got.NumeroLote)
	assert.Equal(t, 312.5, got.Superficie)
	require.NotNil(t, got.Ubicacion)
	assert.Equal(t, "frente a la plaza", *got.Ubicacion)
	require.NotNil(t, got.Nomenclatura)
	assert.Equal(t, "06-01-001-014", *got.Nomenclatura)
	assert.Equal(t, models.TerrenoDisponible, got.Estado)
	assert.Nil(t, got.LoteoID)

	got.Superficie = 320
	got.Estado = models.TerrenoReservado
	got.Ubicacion = nil
	require.NoError(t, repo.Update(ctx, got))

	actualizado, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 320.0, actualizado.Superficie)
	assert.Equal(t, models.TerrenoReservado, actualizado.Estado)
	assert.Nil(t, actualizado.Ubicacion)

	require.NoError(t, repo.Delete(ctx, id))
	borrado, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, borrado, "missing rows come back as nil, not an error")
}

func TestTerrenoFindByNomenclatura(t *testing.T) {
	repo := NewTerrenoRepository(newTestStore(t))
	ctx := context.Background()

	nom := "06-01-002-001"
	_, err := repo.Create(ctx, &models.Terreno{
		Manzana: "B", NumeroLote: "1", Superficie: 250,
		Nomenclatura: &nom, Estado: models.TerrenoDisponible,
	})
	require.NoError(t, err)

	got, err := repo.FindByNomenclatura(ctx, nom)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Manzana)

	ninguno, err := repo.FindByNomenclatura(ctx, "99-99-999-999")
	require.NoError(t, err)
	assert.Nil(t, ninguno)

	vacio, err := repo.FindByNomenclatura(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, vacio, "blank nomenclatura never matches NULL rows")
}

func TestTerrenoExisteDuplicado(t *testing.T) {
	repo := NewTerrenoRepository(newTestStore(t))
	ctx := context.Background()

	id := crearTerreno(t, repo, "A", "1")

	dup, err := repo.ExisteDuplicado(ctx, "A", "1", 0)
	require.NoError(t, err)
	assert.True(t, dup)

	propio, err := repo.ExisteDuplicado(ctx, "A", "1", id)
	require.NoError(t, err)
	assert.False(t, propio, "a row never collides with itself")

	libre, err := repo.ExisteDuplicado(ctx, "A", "2", 0)
	require.NoError(t, err)
	assert.False(t, libre)
}

func TestTerrenoListDisponibles(t *testing.T) {
	repo := NewTerrenoRepository(newTestStore(t))
	ctx := context.Background()

	crearTerreno(t, repo, "A", "1")
	vendidoID := crearTerreno(t, repo, "A", "2")

	vendido, err := repo.FindByID(ctx, vendidoID)
	require.NoError(t, err)
	vendido.Estado = models.TerrenoVendido
	require.NoError(t, repo.Update(ctx, vendido))

	todos, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	disponibles, err := repo.ListDisponibles(ctx)
	require.NoError(t, err)
	require.Len(t, disponibles, 1)
	assert.Equal(t, "1", disponibles[0].NumeroLote)
}
