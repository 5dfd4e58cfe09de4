package repositories

import (
	"context"
	"database/sql"
	"errors"

	"inmogest/models"
	"inmogest/storage"
)

// EdificacionRepository persists edificaciones and keeps their N:M
// links in sync on every create and update. Row write plus link
// reconciliation always share one transaction.
type EdificacionRepository struct {
	store *storage.Store
}

func NewEdificacionRepository(store *storage.Store) *EdificacionRepository {
	return &EdificacionRepository{store: store}
}

const edificacionColumns = `id, nombre, tipo, superficie_cubierta, ambientes, habitaciones, banios, cochera, patio, pileta, estado, observaciones, created_at`

func scanEdificacion(row rowScanner) (*models.Edificacion, error) {
	var (
		e              models.Edificacion
		nombre, observ sql.NullString
		tipo, estado   string
		superficie     sql.NullFloat64
		ambientes      sql.NullInt64
		habitaciones   sql.NullInt64
		banios         sql.NullInt64
		created        sql.NullTime
	)
	err := row.Scan(&e.ID, &nombre, &tipo, &superficie, &ambientes, &habitaciones,
		&banios, &e.Cochera, &e.Patio, &e.Pileta, &estado, &observ, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.Nombre = texto(nombre)
	e.Tipo = models.TipoEdificacion(tipo)
	e.Estado = models.EstadoEdificacion(estado)
	e.Observaciones = texto(observ)
	if superficie.Valid {
		v := superficie.Float64
		e.SuperficieCubierta = &v
	}
	if ambientes.Valid {
		v := int(ambientes.Int64)
		e.Ambientes = &v
	}
	if habitaciones.Valid {
		v := int(habitaciones.Int64)
		e.Habitaciones = &v
	}
	if banios.Valid {
		v := int(banios.Int64)
		e.Banios = &v
	}
	if created.Valid {
		e.CreatedAt = created.Time
	}
	return &e, nil
}

func (r *EdificacionRepository) Create(ctx context.Context, e *models.Edificacion) (int64, error) {
	var id int64
	err := r.store.WithTx(ctx, func(q storage.Querier) error {
		err := q.QueryRow(ctx, `
			INSERT INTO edificaciones
				(nombre, tipo, superficie_cubierta, ambientes, habitaciones, banios,
				 cochera, patio, pileta, estado, observaciones)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
			e.Nombre, string(e.Tipo), e.SuperficieCubierta, e.Ambientes, e.Habitaciones,
			e.Banios, e.Cochera, e.Patio, e.Pileta, string(e.Estado), e.Observaciones).Scan(&id)
		if err != nil {
			return err
		}
		if len(e.TerrenosIDs) > 0 {
			return reemplazarTerrenosLinks(ctx, q, id, e.TerrenosIDs)
		}
		return nil
	})
	return id, err
}

func (r *EdificacionRepository) FindByID(ctx context.Context, id int64) (*models.Edificacion, error) {
	row := r.store.QueryRow(ctx, `SELECT `+edificacionColumns+` FROM edificaciones WHERE id = ?`, id)
	e, err := scanEdificacion(row)
	if err != nil || e == nil {
		return e, err
	}
	e.TerrenosIDs, err = terrenosIDsDeEdificacion(ctx, r.store, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *EdificacionRepository) FindAll(ctx context.Context) ([]models.Edificacion, error) {
	rows, err := r.store.Query(ctx, `SELECT `+edificacionColumns+` FROM edificaciones ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.scanConTerrenos(ctx, rows)
}

func (r *EdificacionRepository) ListDisponibles(ctx context.Context) ([]models.Edificacion, error) {
	rows, err := r.store.Query(ctx, `SELECT `+edificacionColumns+` FROM edificaciones WHERE estado = 'DISPONIBLE' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return r.scanConTerrenos(ctx, rows)
}

// ListByTerreno returns every edificacion linked to the given terreno.
func (r *EdificacionRepository) ListByTerreno(ctx context.Context, terrenoID int64) ([]models.Edificacion, error) {
	rows, err := r.store.Query(ctx, `
		SELECT e.id, e.nombre, e.tipo, e.superficie_cubierta, e.ambientes, e.habitaciones,
		       e.banios, e.cochera, e.patio, e.pileta, e.estado, e.observaciones, e.created_at
		FROM edificaciones e
		JOIN edificacion_terreno et ON et.edificacion_id = e.id
		WHERE et.terreno_id = ?
		ORDER BY e.id`, terrenoID)
	if err != nil {
		return nil, err
	}
	return r.scanConTerrenos(ctx, rows)
}

func (r *EdificacionRepository) scanConTerrenos(ctx context.Context, rows *sql.Rows) ([]models.Edificacion, error) {
	var out []models.Edificacion
	for rows.Next() {
		e, err := scanEdificacion(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for i := range out {
		ids, err := terrenosIDsDeEdificacion(ctx, r.store, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TerrenosIDs = ids
	}
	return out, nil
}

func (r *EdificacionRepository) Update(ctx context.Context, e *models.Edificacion) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE edificaciones
			SET nombre = ?, tipo = ?, superficie_cubierta = ?, ambientes = ?, habitaciones = ?,
			    banios = ?, cochera = ?, patio = ?, pileta = ?, estado = ?, observaciones = ?
			WHERE id = ?`,
			e.Nombre, string(e.Tipo), e.SuperficieCubierta, e.Ambientes, e.Habitaciones,
			e.Banios, e.Cochera, e.Patio, e.Pileta, string(e.Estado), e.Observaciones, e.ID)
		if err != nil {
			return err
		}
		return reemplazarTerrenosLinks(ctx, q, e.ID, e.TerrenosIDs)
	})
}

// Delete removes the row and its join rows in one transaction. The FK
// cascade would clean the links anyway; the explicit delete keeps the
// behavior engine-independent.
func (r *EdificacionRepository) Delete(ctx context.Context, id int64) error {
	return r.store.WithTx(ctx, func(q storage.Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM edificacion_terreno WHERE edificacion_id = ?`, id); err != nil {
			return err
		}
		_, err := q.Exec(ctx, `DELETE FROM edificaciones WHERE id = ?`, id)
		return err
	})
}
