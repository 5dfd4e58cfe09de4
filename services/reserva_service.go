package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inmogest/logging"
	"inmogest/models"
	"inmogest/repositories"
)

// ReservaService manages client holds. A reserva may point at a terreno
// or an edificacion; the reference is checked on every create and
// update, but the reserva machine itself is unrestricted between its
// three states.
type ReservaService struct {
	repo          *repositories.ReservaRepository
	terrenos      *repositories.TerrenoRepository
	edificaciones *repositories.EdificacionRepository
	log           *logrus.Entry
}

func NewReservaService(
	repo *repositories.ReservaRepository,
	terrenos *repositories.TerrenoRepository,
	edificaciones *repositories.EdificacionRepository,
) *ReservaService {
	return &ReservaService{
		repo:          repo,
		terrenos:      terrenos,
		edificaciones: edificaciones,
		log:           logging.L().WithField("service", "reservas"),
	}
}

func (s *ReservaService) validarReferencia(ctx context.Context, r *models.Reserva) error {
	switch r.TipoPropiedad {
	case models.PropiedadTerreno:
		t, err := s.terrenos.FindByID(ctx, r.PropiedadID)
		if err != nil {
			return err
		}
		if t == nil {
			return reglaf("terreno %d inexistente", r.PropiedadID)
		}
	case models.PropiedadEdificacion:
		e, err := s.edificaciones.FindByID(ctx, r.PropiedadID)
		if err != nil {
			return err
		}
		if e == nil {
			return reglaf("edificación %d inexistente", r.PropiedadID)
		}
	}
	return nil
}

func (s *ReservaService) Crear(ctx context.Context, r models.Reserva) (int64, error) {
	if r.TipoPropiedad == "" {
		r.TipoPropiedad = models.PropiedadTerreno
	}
	if r.Estado == "" {
		r.Estado = models.ReservaActiva
	}
	if r.Codigo == "" {
		r.Codigo = uuid.NewString()
	}
	if r.FechaReserva == "" {
		r.FechaReserva = time.Now().Format("2006-01-02")
	}
	if err := r.Validar(); err != nil {
		return 0, err
	}
	if err := s.validarReferencia(ctx, &r); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, &r)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{
		"id": id, "codigo": r.Codigo, "tipo": r.TipoPropiedad, "propiedad_id": r.PropiedadID,
	}).Info("Reserva creada")
	return id, nil
}

func (s *ReservaService) Obtener(ctx context.Context, id int64) (*models.Reserva, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ReservaService) Listar(ctx context.Context) ([]models.Reserva, error) {
	return s.repo.FindAll(ctx)
}

func (s *ReservaService) Actualizar(ctx context.Context, id int64, cambios models.ReservaCambios) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actual == nil {
		return noEncontrado("reserva no encontrada")
	}
	nueva := actual.Aplicar(cambios)
	if err := nueva.Validar(); err != nil {
		return err
	}
	if err := s.validarReferencia(ctx, &nueva); err != nil {
		return err
	}
	return s.repo.Update(ctx, &nueva)
}

func (s *ReservaService) CambiarEstado(ctx context.Context, id int64, nuevo models.EstadoReserva) error {
	switch nuevo {
	case models.ReservaActiva, models.ReservaCancelada, models.ReservaConfirmada:
	default:
		return &models.ValidationError{Campo: "estado", Mensaje: "estado de reserva inválido"}
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return noEncontrado("reserva no encontrada")
	}
	anterior := r.Estado
	r.Estado = nuevo
	if err := s.repo.Update(ctx, r); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"id": id, "de": anterior, "a": nuevo}).Info("Estado de reserva actualizado")
	return nil
}

func (s *ReservaService) Cancelar(ctx context.Context, id int64) error {
	return s.CambiarEstado(ctx, id, models.ReservaCancelada)
}

func (s *ReservaService) Confirmar(ctx context.Context, id int64) error {
	return s.CambiarEstado(ctx, id, models.ReservaConfirmada)
}

func (s *ReservaService) Eliminar(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
