package models

import (
	"fmt"
	"math"
	"time"
)

type TipoEdificacion string

const (
	TipoCasa         TipoEdificacion = "CASA"
	TipoDuplex       TipoEdificacion = "DUPLEX"
	TipoDepartamento TipoEdificacion = "DEPARTAMENTO"
	TipoLocal        TipoEdificacion = "LOCAL"
	TipoGalpon       TipoEdificacion = "GALPON"
)

type EstadoEdificacion string

const (
	EdificacionDisponible EstadoEdificacion = "DISPONIBLE"
	EdificacionReservada  EstadoEdificacion = "RESERVADO"
	EdificacionVendida    EstadoEdificacion = "VENDIDO"
)

// Edificacion is a built property. It links to one or more Terrenos via
// the 'edificacion_terreno' join table.
type Edificacion struct {
	ID                 int64
	Nombre             *string
	Tipo               TipoEdificacion `validate:"oneof=CASA DUPLEX DEPARTAMENTO LOCAL GALPON"`
	SuperficieCubierta *float64        `validate:"omitempty,gt=0"`
	Ambientes          *int            `validate:"omitempty,gte=0"`
	Habitaciones       *int            `validate:"omitempty,gte=0"`
	Banios             *int            `validate:"omitempty,gte=0"`
	Cochera            bool
	Patio              bool
	Pileta             bool
	Estado             EstadoEdificacion `validate:"oneof=DISPONIBLE RESERVADO VENDIDO"`
	Observaciones      *string
	CreatedAt          time.Time

	// Owned by the join table; repositories fill it on read and it is
	// never authoritative in memory.
	TerrenosIDs []int64 `validate:"-"`
}

var mensajesEdificacion = map[string]*ValidationError{
	"Tipo":               {Campo: "tipo", Mensaje: "tipo de edificación inválido"},
	"Estado":             {Campo: "estado", Mensaje: "estado de edificación inválido"},
	"SuperficieCubierta": {Campo: "superficie_cubierta", Mensaje: "superficie_cubierta debe ser > 0 si se informa"},
	"Ambientes":          {Campo: "ambientes", Mensaje: "los contadores no pueden ser negativos"},
	"Habitaciones":       {Campo: "habitaciones", Mensaje: "los contadores no pueden ser negativos"},
	"Banios":             {Campo: "banios", Mensaje: "los contadores no pueden ser negativos"},
}

func (e *Edificacion) Validar() error {
	if err := validate.Struct(e); err != nil {
		return traducir(err, mensajesEdificacion)
	}
	return nil
}

// DisplayName renders a listing label like "CASA – 120 m²".
func (e *Edificacion) DisplayName() string {
	base := string(e.Tipo)
	if e.SuperficieCubierta != nil && *e.SuperficieCubierta > 0 {
		sc := *e.SuperficieCubierta
		if sc == math.Trunc(sc) {
			base += fmt.Sprintf(" – %d m²", int64(sc))
		} else {
			base += fmt.Sprintf(" – %v m²", sc)
		}
	}
	return base
}

// EdificacionCambios is the whitelisted partial update. A non-nil
// TerrenosIDs replaces the whole linked set; nil leaves links alone.
// Numeric optionals can be changed but not cleared here.
type EdificacionCambios struct {
	Nombre             *string
	Tipo               *TipoEdificacion
	SuperficieCubierta *float64
	Ambientes          *int
	Habitaciones       *int
	Banios             *int
	Cochera            *bool
	Patio              *bool
	Pileta             *bool
	Estado             *EstadoEdificacion
	Observaciones      *string
	TerrenosIDs        *[]int64
}

func (e Edificacion) Aplicar(c EdificacionCambios) Edificacion {
	if c.Nombre != nil {
		e.Nombre = TextoOpcional(*c.Nombre)
	}
	if c.Tipo != nil {
		e.Tipo = *c.Tipo
	}
	if c.SuperficieCubierta != nil {
		e.SuperficieCubierta = c.SuperficieCubierta
	}
	if c.Ambientes != nil {
		e.Ambientes = c.Ambientes
	}
	if c.Habitaciones != nil {
		e.Habitaciones = c.Habitaciones
	}
	if c.Banios != nil {
		e.Banios = c.Banios
	}
	if c.Cochera != nil {
		e.Cochera = *c.Cochera
	}
	if c.Patio != nil {
		e.Patio = *c.Patio
	}
	if c.Pileta != nil {
		e.Pileta = *c.Pileta
	}
	if c.Estado != nil {
		e.Estado = *c.Estado
	}
	if c.Observaciones != nil {
		e.Observaciones = TextoOpcional(*c.Observaciones)
	}
	if c.TerrenosIDs != nil {
		e.TerrenosIDs = append([]int64(nil), (*c.TerrenosIDs)...)
	}
	return e
}
