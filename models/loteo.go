package models

import "strings"

type EstadoLoteo string

const (
	LoteoActivo  EstadoLoteo = "ACTIVO"
	LoteoPausado EstadoLoteo = "PAUSADO"
	LoteoCerrado EstadoLoteo = "CERRADO"
)

// Loteo is a subdivision grouping Terrenos. The relation lives in the
// terrenos.loteo_id column: one loteo owns many terrenos, a terreno
// belongs to at most one loteo.
type Loteo struct {
	ID            int64
	Nombre        string `validate:"required"`
	Ubicacion     *string
	Municipio     *string
	Provincia     *string
	FechaInicio   *string // yyyy-mm-dd
	FechaFin      *string
	Estado        EstadoLoteo `validate:"oneof=ACTIVO PAUSADO CERRADO"`
	Observaciones *string

	// Owned by the terrenos.loteo_id column; filled on read.
	TerrenosIDs []int64 `validate:"-"`
}

var mensajesLoteo = map[string]*ValidationError{
	"Nombre": {Campo: "nombre", Mensaje: "el nombre de loteo es obligatorio (>=3)"},
	"Estado": {Campo: "estado", Mensaje: "estado de loteo inválido"},
}

func (l *Loteo) Validar() error {
	if len(strings.TrimSpace(l.Nombre)) < 3 {
		return mensajesLoteo["Nombre"]
	}
	if err := validate.Struct(l); err != nil {
		return traducir(err, mensajesLoteo)
	}
	return nil
}

// LoteoCambios is the whitelisted partial update; a non-nil TerrenosIDs
// replaces the member set.
type LoteoCambios struct {
	Nombre        *string
	Ubicacion     *string
	Municipio     *string
	Provincia     *string
	FechaInicio   *string
	FechaFin      *string
	Estado        *EstadoLoteo
	Observaciones *string
	TerrenosIDs   *[]int64
}

func (l Loteo) Aplicar(c LoteoCambios) Loteo {
	if c.Nombre != nil {
		l.Nombre = *c.Nombre
	}
	if c.Ubicacion != nil {
		l.Ubicacion = TextoOpcional(*c.Ubicacion)
	}
	if c.Municipio != nil {
		l.Municipio = TextoOpcional(*c.Municipio)
	}
	if c.Provincia != nil {
		l.Provincia = TextoOpcional(*c.Provincia)
	}
	if c.FechaInicio != nil {
		l.FechaInicio = TextoOpcional(*c.FechaInicio)
	}
	if c.FechaFin != nil {
		l.FechaFin = TextoOpcional(*c.FechaFin)
	}
	if c.Estado != nil {
		l.Estado = *c.Estado
	}
	if c.Observaciones != nil {
		l.Observaciones = TextoOpcional(*c.Observaciones)
	}
	if c.TerrenosIDs != nil {
		l.TerrenosIDs = append([]int64(nil), (*c.TerrenosIDs)...)
	}
	return l
}
