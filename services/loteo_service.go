package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"inmogest/logging"
	"inmogest/models"
	"inmogest/repositories"
)

// LoteoService manages subdivisions. Membership lives on the terreno
// side (loteo_id), so assigning a terreno here silently pulls it out of
// whatever loteo held it before.
type LoteoService struct {
	repo     *repositories.LoteoRepository
	terrenos *repositories.TerrenoRepository
	log      *logrus.Entry
}

func NewLoteoService(repo *repositories.LoteoRepository, terrenos *repositories.TerrenoRepository) *LoteoService {
	return &LoteoService{
		repo:     repo,
		terrenos: terrenos,
		log:      logging.L().WithField("service", "loteos"),
	}
}

func (s *LoteoService) validarTerrenos(ctx context.Context, ids []int64) error {
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

func (s *LoteoService) Crear(ctx context.Context, l models.Loteo) (int64, error) {
	if l.Estado == "" {
		l.Estado = models.LoteoActivo
	}
	l.TerrenosIDs = dedupeIDs(l.TerrenosIDs)
	if err := l.Validar(); err != nil {
		return 0, err
	}
	if err := s.validarTerrenos(ctx, l.TerrenosIDs); err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, &l)
	if err != nil {
		return 0, err
	}
	s.log.WithFields(logrus.Fields{"id": id, "nombre": l.Nombre, "terrenos": len(l.TerrenosIDs)}).
		Info("Loteo creado")
	return id, nil
}

func (s *LoteoService) Obtener(ctx context.Context, id int64) (*models.Loteo, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *LoteoService) Listar(ctx context.Context) ([]models.Loteo, error) {
	return s.repo.FindAll(ctx)
}

func (s *LoteoService) Actualizar(ctx context.Context, id int64, cambios models.LoteoCambios) error {
	actual, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if actual == nil {
		return noEncontrado("loteo no encontrado")
	}
	nuevo := actual.Aplicar(cambios)
	nuevo.TerrenosIDs = dedupeIDs(nuevo.TerrenosIDs)
	if err := nuevo.Validar(); err != nil {
		return err
	}
	if err := s.validarTerrenos(ctx, nuevo.TerrenosIDs); err != nil {
		return err
	}
	return s.repo.Update(ctx, &nuevo)
}

// ReemplazarTerrenos reassigns the whole member set.
func (s *LoteoService) ReemplazarTerrenos(ctx context.Context, id int64, terrenosIDs []int64) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return noEncontrado("loteo no encontrado")
	}
	nuevos := dedupeIDs(terrenosIDs)
	if err := s.validarTerrenos(ctx, nuevos); err != nil {
		return err
	}
	return s.repo.ReemplazarTerrenos(ctx, id, nuevos)
}

// Eliminar unassigns members first, then removes the loteo. Terrenos
// survive with loteo_id cleared. Absent ids are a no-op.
func (s *LoteoService) Eliminar(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
