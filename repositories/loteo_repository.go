package repositories

import (
	"context"
	"database/sql"
	"errors"

	"inmogest/models"
	"inmogest/storage"
)

// LoteoRepository persists loteos and reconciles membership through the
// terrenos.loteo_id foreign key.
type LoteoRepository struct {
	store *storage.Store
}

func NewLoteoRepository(store *storage.Store) *LoteoRepository {
	return &LoteoRepository{store: store}
}

const loteoColumns = `id, nombre, ubicacion, municipio, provincia, fecha_inicio, fecha_fin, estado, observaciones`

func scanLoteo(row rowScanner) (*models.Loteo, error) {
	var (
		l                               models.Loteo
		estado                          string
		ubicacion, municipio, provincia sql.NullString
		fechaInicio, fechaFin, observ   sql.NullString
	)
	err := row.Scan(&l.ID, &l.Nombre, &ubicacion, &municipio, &provincia,
		&fechaInicio, &fechaFin, &estado, &observ)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	l.Estado = models.EstadoLoteo(estado)
	l.Ubicacion = texto(ubicacion)
	l.Municipio = texto(municipio)
	l.Provincia = texto(provincia)
	l.FechaInicio = texto(fechaInicio)
	l.FechaFin = texto(fechaFin)
	l.Observaciones = texto(observ)
	return &l, nil
}

func (r *LoteoRepository) Create(ctx context.Context, l *models.Loteo) (int64, error) {
	var id int64
	err := r.store.WithTx(ctx, func(q storage.Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO loteos (nombre, ubicacion, municipio, provincia, fecha_inicio, fecha_fin, estado, observaciones)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			l.Nombre, l.Ubicacion, l.Municipio, l.Provincia, l.FechaInicio, l.FechaFin,
			string(l.Estado), l.Observaciones).Scan(&id)
		if err != nil {
			return err
		}
		if len(l.TerrenosIDs) > 0 {
			return reemplazarTerrenosDeLoteo(ctx, q, id, l.TerrenosIDs)
		}
		return nil
	})
	return id, err
}

func (r *LoteoRepository) FindByID(ctx context.Context, id int64) (*models.Loteo, error) {
	row := r.store.QueryRow(ctx, `SELECT `+loteoColumns+` FROM loteos WHERE id = ?`, id)
	l, err := scanLoteo(row)
	if err != nil || l == nil {
		return l, err
	}
	l.TerrenosIDs, err = terrenosIDsDeLoteo(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LoteoRepository) FindAll(ctx context.Context) ([]models.Loteo, error) {
	rows, err := r.store.Query(ctx, `SELECT `+loteoColumns+` FROM loteos ORDER BY id`)
	if err != nil {
		return nil, err
	}

	var out []models.Loteo
	for rows.Next() {
		l, err := scanLoteo(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range out {
		ids, err := terrenosIDsDeLoteo(ctx, r.store, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TerrenosIDs = ids
	}
	return out, nil
}

func (r *LoteoRepository) Update(ctx context.Context, l *models.Loteo) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE loteos
			SET nombre = ?, ubicacion = ?, municipio = ?, provincia = ?,
			    fecha_inicio = ?, fecha_fin = ?, estado = ?, observaciones = ?
			WHERE id = ?`,
			l.Nombre, l.Ubicacion, l.Municipio, l.Provincia, l.FechaInicio, l.FechaFin,
			string(l.Estado), l.Observaciones, l.ID)
		if err != nil {
			return err
		}
		return reemplazarTerrenosDeLoteo(ctx, q, l.ID, l.TerrenosIDs)
	})
}

// Delete unassigns every member terreno before removing the row, so no
// dangling loteo_id survives even on engines without the FK action.
func (r *LoteoRepository) Delete(ctx context.Context, id int64) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		if _, err := q.Exec(ctx, `UPDATE terrenos SET loteo_id = NULL WHERE loteo_id = ?`, id); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `DELETE FROM loteos WHERE id = ?`, id)
		return err
	})
}

// ReemplazarTerrenos swaps the member set atomically.
func (r *LoteoRepository) ReemplazarTerrenos(ctx context.Context, loteoID int64, terrenosIDs []int64) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		return reemplazarTerrenosDeLoteo(ctx, q, loteoID, terrenosIDs)
	})
}

func terrenosIDsDeLoteo(ctx context.Context, q storage.Querier, loteoID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT id FROM terrenos WHERE loteo_id = ? ORDER BY id`, loteoID)
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

// reemplazarTerrenosDeLoteo reconciles the FK column: clear it on
// removed members, set it on added ones.
func reemplazarTerrenosDeLoteo(ctx context.Context, q storage.Querier, loteoID int64, terrenosIDs []int64) error {
	existentes, err := terrenosIDsDeLoteo(ctx, q, loteoID)
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
			UPDATE terrenos SET loteo_id = NULL WHERE id = ? AND loteo_id = ?`, id, loteoID); err != nil {
			return err
		}
	}
	for _, id := range terrenosIDs {
		if actual[id] {
			continue
		}
		if _, err := q.Exec(ctx, `UPDATE terrenos SET loteo_id = ? WHERE id = ?`, loteoID, id); err != nil {
			return err
		}
		actual[id] = true
	}
	return nil
}
