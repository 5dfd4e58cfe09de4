package repositories

import (
	"context"

	"inmogest/storage"
)

// EdificacionTerrenoRepository owns the 'edificacion_terreno' join
// table: idempotent link/unlink plus full-set replacement by set
// difference.
type EdificacionTerrenoRepository struct {
	store *storage.Store
}

func NewEdificacionTerrenoRepository(store *storage.Store) *EdificacionTerrenoRepository {
	return &EdificacionTerrenoRepository{store: store}
}

func (r *EdificacionTerrenoRepository) TerrenosIDsDeEdificacion(ctx context.Context, edificacionID int64) ([]int64, error) {
	return terrenosIDsDeEdificacion(ctx, r.store, edificacionID)
}

func (r *EdificacionTerrenoRepository) EdificacionesIDsDeTerreno(ctx context.Context, terrenoID int64) ([]int64, error) {
	rows, err := r.store.Query(ctx, `
		SELECT edificacion_id FROM edificacion_terreno WHERE terreno_id = ? ORDER BY edificacion_id`, terrenoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Vincular creates the link if absent; linking twice is a no-op.
func (r *EdificacionTerrenoRepository) Vincular(ctx context.Context, edificacionID, terrenoID int64) error {
	_, err := r.store.Exec(ctx, `
		INSERT INTO edificacion_terreno (edificacion_id, terreno_id)
		VALUES (?, ?)
		ON CONFLICT DO NOTHING`, edificacionID, terrenoID)
	return err
}

func (r *EdificacionTerrenoRepository) Desvincular(ctx context.Context, edificacionID, terrenoID int64) error {
	_, err := r.store.Exec(ctx, `
		DELETE FROM edificacion_terreno WHERE edificacion_id = ? AND terreno_id = ?`,
		edificacionID, terrenoID)
	return err
}

// ReemplazarTerrenos swaps the whole linked set atomically.
func (r *EdificacionTerrenoRepository) ReemplazarTerrenos(ctx context.Context, edificacionID int64, terrenosIDs []int64) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		return reemplazarTerrenosLinks(ctx, q, edificacionID, terrenosIDs)
	})
}

func terrenosIDsDeEdificacion(ctx context.Context, q storage.Querier, edificacionID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `
		SELECT terreno_id FROM edificacion_terreno WHERE edificacion_id = ? ORDER BY terreno_id`, edificacionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// reemplazarTerrenosLinks reconciles the join table against the target
// set: delete existing-target, insert target-existing. Runs on the
// caller's transaction so a failure rolls everything back.
func reemplazarTerrenosLinks(ctx context.Context, q storage.Querier, edificacionID int64, terrenosIDs []int64) error {
	existentes, err := terrenosIDsDeEdificacion(ctx, q, edificacionID)
	if err != nil {
		return err
	}

	actual := make(map[int64]bool, len(existentes))
	for _, id := range existentes {
		actual[id] = true
	}
	objetivo := make(map[int64]bool, len(terrenosIDs))
	for _, id := range terrenosIDs {
		objetivo[id] = true
	}

	for _, id := range existentes {
		if objetivo[id] {
			continue
		}
		if _, err := q.Exec(ctx, `
			DELETE FROM edificacion_terreno WHERE edificacion_id = ? AND terreno_id = ?`,
			edificacionID, id); err != nil {
			return err
		}
	}
	for _, id := range terrenosIDs {
		if actual[id] {
			continue
		}
		if _, err := q.Exec(ctx, `
			INSERT INTO edificacion_terreno (edificacion_id, terreno_id)
			VALUES (?, ?)
			ON CONFLICT DO NOTHING`, edificacionID, id); err != nil {
			return err
		}
		actual[id] = true
	}
	return nil
}
