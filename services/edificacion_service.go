package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"inmogest/logging"
	"inmogest/models"
	"inmogest/repositories"
)

// EdificacionService enforces the building rules: every referenced
// terreno must exist, and a VENDIDA edificacion always keeps at least
// one linked terreno.
type EdificacionService struct {
	repo     *repositories.EdificacionRepository
	terrenos *repositories.TerrenoRepository
	links    *repositories.EdificacionTerrenoRepository
	log      *logrus.Entry
}

func NewEdificacionService(
	repo *repositories.EdificacionRepository,
	terrenos *repositories.TerrenoRepository,
	links *repositories.EdificacionTerrenoRepository,
) *EdificacionService {
	return &EdificacionService{
		repo:     repo,
		terrenos: terrenos,
		links:    links,
		log:      logging.L().WithField("service", "edificaciones"),
	}
}

// transicionesEdificacion is laxer than the terreno machine: RESERVADA
// can fall back to DISPONIBLE, but VENDIDA stays terminal.
var transicionesEdificacion = map[models.EstadoEdificacion][]models.EstadoEdificacion{
	models.EdificacionDisponible: {models.EdificacionDisponible, models.EdificacionReservada, models.EdificacionVendida},
	models.EdificacionReservada:  {models.EdificacionReservada, models.EdificacionDisponible, models.EdificacionVendida},
	models.EdificacionVendida:    {models.EdificacionVendida},
}

func puedeTransicionar(de, a models.EstadoEdificacion) bool {
	for _, permitido := range transicionesEdificacion[de] {
		if permitido == a {
			return true
		}
	}
	return false
}

// dedupeIDs drops repeats while keeping first-seen order.
func dedupeIDs(ids []int64) []int64 {
	vistos := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if vistos[id] {
			continue
		}
		vistos[id] = true
		out = append(out, id)
	}
	return out
}

func (s *EdificacionService) validarTerrenos(ctx context.Context, ids []int64) error {
	for _, tid := range ids {
		t, err := s.terrenos.FindByID(ctx, tid)
		if err != nil {
			return err
		}
		if t == nil {
			return reglaf("terreno inexistente (id=%d)", tid)
		}
	}
	return nil
}

func (s *EdificacionService) Crear(ctx context.Context, e models.Edificacion) (int64, error) {
	if e.Tipo == "" {
		e.Tipo = models.TipoCasa
	}
	if e.Estado == "" {
		e.Estado = models.EdificacionDisponible
	}
	e.TerrenosIDs = dedupeIDs(e.TerrenosIDs)
	if err := e.Validar(); err != nil {
		return 0, err
	}
	if err := s.validarTerrenos(ctx, e.TerrenosIDs); err != nil {
		return 0, err
	}
	if e.Estado == models.EdificacionVendida && len(e.TerrenosIDs) == 0 {
		return 0, regla("no se puede vender una edificación sin terrenos asociados")
	}
	id, err := s.repo.Create(ctx, &e)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"id": id, "tipo": e.Tipo, "terrenos": len(e.TerrenosIDs)}).
		Info("Edificación creada")
	return id, nil
}

func (s *EdificacionService) Obtener(ctx context.Context, id int64) (*models.Edificacion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EdificacionService) Listar(ctx context.Context) ([]models.Edificacion, error) {
	return s.repo.FindAll(ctx)
}

func (s *EdificacionService) ListarDisponibles(ctx context.Context) ([]models.Edificacion, error) {
	return s.repo.ListDisponibles(ctx)
}

func (s *EdificacionService) ListarPorTerreno(ctx context.Context, terrenoID int64) ([]models.Edificacion, error) {
	return s.repo.ListByTerreno(ctx, terrenoID)
}

func (s *EdificacionService) Actualizar(ctx context.Context, id int64, cambios models.EdificacionCambios) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actual == nil {
		return noEncontrado("edificación no encontrada")
	}
	nueva := actual.Aplicar(cambios)
	nueva.TerrenosIDs = dedupeIDs(nueva.TerrenosIDs)
	if err := nueva.Validar(); err != nil {
		return err
	}
	if err := s.validarTerrenos(ctx, nueva.TerrenosIDs); err != nil {
		return err
	}
	if nueva.Estado == models.EdificacionVendida && len(nueva.TerrenosIDs) == 0 {
		return regla("una edificación VENDIDA debe mantener al menos un terreno vinculado")
	}
	return s.repo.Update(ctx, &nueva)
}

// ReemplazarTerrenos swaps the full linked set in one shot.
func (s *EdificacionService) ReemplazarTerrenos(ctx context.Context, id int64, terrenosIDs []int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return noEncontrado("edificación no encontrada")
	}
	nuevos := dedupeIDs(terrenosIDs)
	if err := s.validarTerrenos(ctx, nuevos); err != nil {
		return err
	}
	if e.Estado == models.EdificacionVendida && len(nuevos) == 0 {
		return regla("no se puede dejar sin terrenos una edificación VENDIDA")
	}
	return s.links.ReemplazarTerrenos(ctx, id, nuevos)
}

// AgregarTerreno links one terreno; re-linking one already present is a
// no-op.
func (s *EdificacionService) AgregarTerreno(ctx context.Context, id, terrenoID int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return noEncontrado("edificación no encontrada")
	}
	t, err := s.terrenos.FindByID(ctx, terrenoID)
	if err != nil {
		return err
	}
	if t == nil {
		return reglaf("terreno inexistente (id=%d)", terrenoID)
	}
	return s.links.Vincular(ctx, id, terrenoID)
}

func (s *EdificacionService) QuitarTerreno(ctx context.Context, id, terrenoID int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return noEncontrado("edificación no encontrada")
	}
	vinculado := false
	for _, tid := range e.TerrenosIDs {
		if tid == terrenoID {
			vinculado = true
			break
		}
	}
	if !vinculado {
		return nil
	}
	if e.Estado == models.EdificacionVendida && len(e.TerrenosIDs) <= 1 {
		return regla("no se puede quitar el último terreno de una edificación VENDIDA")
	}
	return s.links.Desvincular(ctx, id, terrenoID)
}

func (s *EdificacionService) CambiarEstado(ctx context.Context, id int64, nuevo models.EstadoEdificacion) error {
	switch nuevo {
	case models.EdificacionDisponible, models.EdificacionReservada, models.EdificacionVendida:
	default:
		return &models.ValidationError{Campo: "estado", Mensaje: "estado de edificación inválido"}
	}

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return noEncontrado("edificación no encontrada")
	}
	if !puedeTransicionar(e.Estado, nuevo) {
		return reglaf("transición de estado inválida: %s -> %s", e.Estado, nuevo)
	}
	if nuevo == models.EdificacionVendida && len(e.TerrenosIDs) == 0 {
		return regla("para marcar como VENDIDA debe haber al menos un terreno vinculado")
	}

	anterior := e.Estado
	e.Estado = nuevo
	if err := s.repo.Update(ctx, e); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"id": id, "de": anterior, "a": nuevo}).
		Info("Estado de edificación actualizado")
	return nil
}

// Eliminar rejects VENDIDA rows; anything else goes, links included.
// An absent id is a no-op.
func (s *EdificacionService) Eliminar(ctx context.Context, id int64) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return nil
	}
	if e.Estado == models.EdificacionVendida {
		return regla("no se puede eliminar una edificación VENDIDA")
	}
	return s.repo.Delete(ctx, id)
}
