package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TipoPropiedad string

const (
	PropiedadTerreno     TipoPropiedad = "TERRENO"
	PropiedadEdificacion TipoPropiedad = "EDIFICACION"
)

type EstadoReserva string

const (
	ReservaActiva     EstadoReserva = "ACTIVA"
	ReservaCancelada  EstadoReserva = "CANCELADA"
	ReservaConfirmada EstadoReserva = "CONFIRMADA"
)

// Reserva is a client hold against a Terreno or an Edificacion.
// Codigo is a generated reference handed to the client.
type Reserva struct {
	ID            int64
	Codigo        string
	TipoPropiedad TipoPropiedad `validate:"oneof=TERRENO EDIFICACION"`
	PropiedadID   int64         `validate:"gt=0"`
	Cliente       string        `validate:"required"`
	FechaReserva  string
	MontoReserva  decimal.Decimal `validate:"-"`
	Estado        EstadoReserva   `validate:"oneof=ACTIVA CANCELADA CONFIRMADA"`
	Observaciones *string
	CreatedAt     time.Time
}

var mensajesReserva = map[string]*ValidationError{
	"TipoPropiedad": {Campo: "tipo_propiedad", Mensaje: "tipo de propiedad inválido"},
	"PropiedadID":   {Campo: "propiedad_id", Mensaje: "debe indicar la propiedad reservada"},
	"Cliente":       {Campo: "cliente", Mensaje: "debe indicar el cliente"},
	"Estado":        {Campo: "estado", Mensaje: "estado de reserva inválido"},
}

func (r *Reserva) Validar() error {
	if strings.TrimSpace(r.Cliente) == "" {
		return mensajesReserva["Cliente"]
	}
	if !r.MontoReserva.IsPositive() {
		return invalido("monto_reserva", "el monto de reserva debe ser positivo")
	}
	if err := validate.Struct(r); err != nil {
		return traducir(err, mensajesReserva)
	}
	return nil
}

// ReservaCambios is the whitelisted partial update; Codigo and
// CreatedAt are immutable.
type ReservaCambios struct {
	TipoPropiedad *TipoPropiedad
	PropiedadID   *int64
	Cliente       *string
	FechaReserva  *string
	MontoReserva  *decimal.Decimal
	Estado        *EstadoReserva
	Observaciones *string
}

func (r Reserva) Aplicar(c ReservaCambios) Reserva {
	if c.TipoPropiedad != nil {
		r.TipoPropiedad = *c.TipoPropiedad
	}
	if c.PropiedadID != nil {
		r.PropiedadID = *c.PropiedadID
	}
	if c.Cliente != nil {
		r.Cliente = *c.Cliente
	}
	if c.FechaReserva != nil {
		r.FechaReserva = *c.FechaReserva
	}
	if c.MontoReserva != nil {
		r.MontoReserva = *c.MontoReserva
	}
	if c.Estado != nil {
		r.Estado = *c.Estado
	}
	if c.Observaciones != nil {
		r.Observaciones = TextoOpcional(*c.Observaciones)
	}
	return r
}
