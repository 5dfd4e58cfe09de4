package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inmogest/models"
)

func TestCrearTerrenoDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.terrenos.Crear(ctx, models.Terreno{Manzana: "A", NumeroLote: "1", Superficie: 300})
	require.NoError(t, err)

	got, err := env.terrenos.Obtener(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TerrenoDisponible, got.Estado, "estado defaults to DISPONIBLE")
}

func TestCrearTerrenoDuplicado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.crearTerreno(t, "A", "1")

	_, err := env.terrenos.Crear(ctx, models.Terreno{Manzana: "A", NumeroLote: "1", Superficie: 200})
	require.Error(t, err)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.EqualError(t, err, "ya existe un terreno con esa manzana y número de lote")

	// same manzana, different lote is fine
	_, err = env.terrenos.Crear(ctx, models.Terreno{Manzana: "A", NumeroLote: "2", Superficie: 200})
	require.NoError(t, err)
}

func TestActualizarTerrenoDuplicado(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id1 := env.crearTerreno(t, "A", "1")
	id2 := env.crearTerreno(t, "A", "2")

	lote := "1"
	err := env.terrenos.Actualizar(ctx, id2, models.TerrenoCambios{NumeroLote: &lote})
	require.Error(t, err)
	assert.EqualError(t, err, "otro terreno con la misma manzana y número de lote ya existe")

	// re-saving a row with its own pair never collides with itself
	sup := 450.0
	require.NoError(t, env.terrenos.Actualizar(ctx, id1, models.TerrenoCambios{Superficie: &sup}))

	got, err := env.terrenos.Obtener(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, 450.0, got.Superficie)
}

func TestActualizarTerrenoInexistente(t *testing.T) {
	env := newTestEnv(t)

	sup := 100.0
	err := env.terrenos.Actualizar(context.Background(), 999, models.TerrenoCambios{Superficie: &sup})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.EqualError(t, err, "terreno no encontrado")
}

func TestCambiarEstadoTerreno(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.crearTerreno(t, "A", "1")

	require.NoError(t, env.terrenos.CambiarEstado(ctx, id, models.TerrenoReservado))

	// RESERVADO only comes from DISPONIBLE, so reserving again fails
	err := env.terrenos.CambiarEstado(ctx, id, models.TerrenoReservado)
	assert.EqualError(t, err, "sólo se puede reservar un terreno DISPONIBLE")

	require.NoError(t, env.terrenos.CambiarEstado(ctx, id, models.TerrenoVendido))

	// VENDIDO is terminal
	err = env.terrenos.CambiarEstado(ctx, id, models.TerrenoDisponible)
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.EqualError(t, err, "no se puede revertir un terreno VENDIDO")

	err = env.terrenos.CambiarEstado(ctx, id, models.TerrenoReservado)
	assert.EqualError(t, err, "no se puede revertir un terreno VENDIDO")

	// VENDIDO -> VENDIDO is a tolerated no-op
	require.NoError(t, env.terrenos.CambiarEstado(ctx, id, models.TerrenoVendido))

	got, err := env.terrenos.Obtener(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TerrenoVendido, got.Estado)
}

func TestCambiarEstadoTerrenoInvalido(t *testing.T) {
	env := newTestEnv(t)
	id := env.crearTerreno(t, "A", "1")

	err := env.terrenos.CambiarEstado(context.Background(), id, "OCUPADO")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)

	err = env.terrenos.CambiarEstado(context.Background(), 999, models.TerrenoVendido)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCrearConNomenclatura(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.terrenos.CrearConNomenclatura(ctx, models.Terreno{
		Manzana: "A", NumeroLote: "1", Superficie: 300,
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.EqualError(t, err, "la nomenclatura es obligatoria")

	nom := " 06-01-001-014 "
	id, err := env.terrenos.CrearConNomenclatura(ctx, models.Terreno{
		Manzana: "A", NumeroLote: "1", Superficie: 300, Nomenclatura: &nom,
	})
	require.NoError(t, err)

	got, err := env.terrenos.BuscarPorNomenclatura(ctx, "06-01-001-014")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, models.TerrenoDisponible, got.Estado)

	nom2 := "06-01-001-014"
	_, err = env.terrenos.CrearConNomenclatura(ctx, models.Terreno{
		Manzana: "B", NumeroLote: "9", Superficie: 300, Nomenclatura: &nom2,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "ya existe un terreno con esa nomenclatura")
}

func TestEliminarTerrenoInexistente(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.terrenos.Eliminar(context.Background(), 999), "deleting an absent id is a no-op")
}

func TestListarDisponibles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.crearTerreno(t, "A", "1")
	vendido := env.crearTerreno(t, "A", "2")
	require.NoError(t, env.terrenos.CambiarEstado(ctx, vendido, models.TerrenoVendido))

	disponibles, err := env.terrenos.ListarDisponibles(ctx)
	require.NoError(t, err)
	require.Len(t, disponibles, 1)
	assert.Equal(t, "1", disponibles[0].NumeroLote)
}
