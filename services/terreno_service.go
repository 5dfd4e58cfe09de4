package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"inmogest/logging"
	"inmogest/models"
	"inmogest/repositories"
)

// TerrenoService owns the terreno lifecycle. The state machine is the
// strict one: VENDIDO never reverts and RESERVADO is only reachable
// from DISPONIBLE.
type TerrenoService struct {
	repo *repositories.TerrenoRepository
	log  *logrus.Entry
}

func NewTerrenoService(repo *repositories.TerrenoRepository) *TerrenoService {
	return &TerrenoService{
		repo: repo,
		log:  logging.L().WithField("service", "terrenos"),
	}
}

func (s *TerrenoService) Crear(ctx context.Context, t models.Terreno) (int64, error) {
	if t.Estado == "" {
		t.Estado = models.TerrenoDisponible
	}
	if err := t.Validar(); err != nil {
		return 0, err
	}
	dup, err := s.repo.ExisteDuplicado(ctx, t.Manzana, t.NumeroLote, 0)
	if err != nil {
		return 0, err
	}
	if dup {
		return 0, regla("ya existe un terreno con esa manzana y número de lote")
	}
	id, err := s.repo.Create(ctx, &t)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"id": id, "manzana": t.Manzana, "numero_lote": t.NumeroLote}).
		Info("Terreno creado")
	return id, nil
}

// CrearConNomenclatura creates a terreno keyed by its catastral id,
// rejecting the call when that id is already taken. State always starts
// at DISPONIBLE here.
func (s *TerrenoService) CrearConNomenclatura(ctx context.Context, datos models.Terreno) (int64, error) {
	nom := ""
	if datos.Nomenclatura != nil {
		nom = strings.TrimSpace(*datos.Nomenclatura)
	}
	if nom == "" {
		return 0, &models.ValidationError{Campo: "nomenclatura", Mensaje: "la nomenclatura es obligatoria"}
	}
	existente, err := s.repo.FindByNomenclatura(ctx, nom)
	if err != nil {
		return 0, err
	}
	if existente != nil {
		return 0, regla("ya existe un terreno con esa nomenclatura")
	}
	datos.Nomenclatura = &nom
	datos.Estado = models.TerrenoDisponible
	return s.Crear(ctx, datos)
}

func (s *TerrenoService) Obtener(ctx context.Context, id int64) (*models.Terreno, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *TerrenoService) BuscarPorNomenclatura(ctx context.Context, nomenclatura string) (*models.Terreno, error) {
	return s.repo.FindByNomenclatura(ctx, strings.TrimSpace(nomenclatura))
}

func (s *TerrenoService) Listar(ctx context.Context) ([]models.Terreno, error) {
	return s.repo.FindAll(ctx)
}

func (s *TerrenoService) ListarDisponibles(ctx context.Context) ([]models.Terreno, error) {
	return s.repo.ListDisponibles(ctx)
}

func (s *TerrenoService) Actualizar(ctx context.Context, id int64, cambios models.TerrenoCambios) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actual == nil {
		return noEncontrado("terreno no encontrado")
	}
	nuevo := actual.Aplicar(cambios)
	if err := nuevo.Validar(); err != nil {
		return err
	}
	dup, err := s.repo.ExisteDuplicado(ctx, nuevo.Manzana, nuevo.NumeroLote, id)
	if err != nil {
		return err
	}
	if dup {
		return regla("otro terreno con la misma manzana y número de lote ya existe")
	}
	return s.repo.Update(ctx, &nuevo)
}

func (s *TerrenoService) CambiarEstado(ctx context.Context, id int64, nuevo models.EstadoTerreno) error {
	switch nuevo {
	case models.TerrenoDisponible, models.TerrenoReservado, models.TerrenoVendido:
	default:
		return &models.ValidationError{Campo: "estado", Mensaje: "estado de terreno inválido"}
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return noEncontrado("terreno no encontrado")
	}
	if t.Estado == models.TerrenoVendido && nuevo != models.TerrenoVendido {
		return regla("no se puede revertir un terreno VENDIDO")
	}
	if nuevo == models.TerrenoReservado && t.Estado != models.TerrenoDisponible {
		return regla("sólo se puede reservar un terreno DISPONIBLE")
	}

	anterior := t.Estado
	t.Estado = nuevo
	if err := s.repo.Update(ctx, t); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"id": id, "de": anterior, "a": nuevo}).Info("Estado de terreno actualizado")
	return nil
}

// Eliminar is a safe no-op when the id does not exist.
func (s *TerrenoService) Eliminar(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
