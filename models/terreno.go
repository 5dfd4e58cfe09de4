package models

import (
	"fmt"
	"strings"
	"time"
)

type EstadoTerreno string

const (
	TerrenoDisponible EstadoTerreno = "DISPONIBLE"
	TerrenoReservado  EstadoTerreno = "RESERVADO"
	TerrenoVendido    EstadoTerreno = "VENDIDO"
)

// Terreno is a land lot, standalone or inside a loteo.
// Mirrors the 'terrenos' table; LoteoID is owned by LoteoRepository.
type Terreno struct {
	ID            int64
	Manzana       string  `validate:"required"`
	NumeroLote    string  `validate:"required"`
	Superficie    float64 `validate:"gt=0"`
	Ubicacion     *string
	Nomenclatura  *string
	Estado        EstadoTerreno `validate:"oneof=DISPONIBLE RESERVADO VENDIDO"`
	Observaciones *string
	LoteoID       *int64
	CreatedAt     time.Time
}

var mensajesTerreno = map[string]*ValidationError{
	"Manzana":    {Campo: "manzana", Mensaje: "el campo 'manzana' es obligatorio"},
	"NumeroLote": {Campo: "numero_lote", Mensaje: "el campo 'numero_lote' es obligatorio"},
	"Superficie": {Campo: "superficie", Mensaje: "la 'superficie' debe ser > 0"},
	"Estado":     {Campo: "estado", Mensaje: "estado inválido para terreno"},
}

func (t *Terreno) Validar() error {
	if strings.TrimSpace(t.Manzana) == "" {
		return mensajesTerreno["Manzana"]
	}
	if strings.TrimSpace(t.NumeroLote) == "" {
		return mensajesTerreno["NumeroLote"]
	}
	if err := validate.Struct(t); err != nil {
		return traducir(err, mensajesTerreno)
	}
	return nil
}

func (t *Terreno) DisplayName() string {
	return fmt.Sprintf("Mz %s · Lote %s", t.Manzana, t.NumeroLote)
}

// TerrenoCambios is a whitelisted partial update. Nil leaves the field
// untouched; for optional text fields an empty string clears the value.
// Identity and relation fields (ID, LoteoID, CreatedAt) are not here on
// purpose: the loteo relation only moves through LoteoService.
type TerrenoCambios struct {
	Manzana       *string
	NumeroLote    *string
	Superficie    *float64
	Ubicacion     *string
	Nomenclatura  *string
	Estado        *EstadoTerreno
	Observaciones *string
}

// Aplicar returns a copy of t with the changes applied. The caller must
// re-validate before persisting.
func (t Terreno) Aplicar(c TerrenoCambios) Terreno {
	if c.Manzana != nil {
		t.Manzana = *c.Manzana
	}
	if c.NumeroLote != nil {
		t.NumeroLote = *c.NumeroLote
	}
	if c.Superficie != nil {
		t.Superficie = *c.Superficie
	}
	if c.Ubicacion != nil {
		t.Ubicacion = TextoOpcional(*c.Ubicacion)
	}
	if c.Nomenclatura != nil {
		t.Nomenclatura = TextoOpcional(*c.Nomenclatura)
	}
	if c.Estado != nil {
		t.Estado = *c.Estado
	}
	if c.Observaciones != nil {
		t.Observaciones = TextoOpcional(*c.Observaciones)
	}
	return t
}
