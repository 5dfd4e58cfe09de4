package repositories

import (
	"context"
	"database/sql"
	"errors"

	"inmogest/models"
	"inmogest/storage"
)

type TerrenoRepository struct {
	store *storage.Store
}

func NewTerrenoRepository(store *storage.Store) *TerrenoRepository {
	return &TerrenoRepository{store: store}
}

const terrenoColumns = `id, manzana, numero_lote, superficie, ubicacion, nomenclatura, estado, observaciones, loteo_id, created_at`

func scanTerreno(row rowScanner) (*models.Terreno, error) {
	var (
		t                               models.Terreno
		estado                          string
		ubicacion, nomenclatura, observ sql.NullString
		loteoID                         sql.NullInt64
		created                         sql.NullTime
	)
	err := row.Scan(&t.ID, &t.Manzana, &t.NumeroLote, &t.Superficie,
		&ubicacion, &nomenclatura, &estado, &observ, &loteoID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t.Estado = models.EstadoTerreno(estado)
	t.Ubicacion = texto(ubicacion)
	t.Nomenclatura = texto(nomenclatura)
	t.Observaciones = texto(observ)
	if loteoID.Valid {
		v := loteoID.Int64
		t.LoteoID = &v
	}
	if created.Valid {
		t.CreatedAt = created.Time
	}
	return &t, nil
}

func scanTerrenos(rows *sql.Rows) ([]models.Terreno, error) {
	defer rows.Close()
	var out []models.Terreno
	for rows.Next() {
		t, err := scanTerreno(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TerrenoRepository) Create(ctx context.Context, t *models.Terreno) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, `
		INSERT INTO terrenos (manzana, numero_lote, superficie, ubicacion, nomenclatura, estado, observaciones)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.Manzana, t.NumeroLote, t.Superficie, t.Ubicacion, t.Nomenclatura,
		string(t.Estado), t.Observaciones).Scan(&id)
	return id, err
}

func (r *TerrenoRepository) FindByID(ctx context.Context, id int64) (*models.Terreno, error) {
	row := r.store.QueryRow(ctx, `SELECT `+terrenoColumns+` FROM terrenos WHERE id = ?`, id)
	return scanTerreno(row)
}

func (r *TerrenoRepository) FindByNomenclatura(ctx context.Context, nomenclatura string) (*models.Terreno, error) {
	if nomenclatura == "" {
		return nil, nil
	}
	row := r.store.QueryRow(ctx, `SELECT `+terrenoColumns+` FROM terrenos WHERE nomenclatura = ?`, nomenclatura)
	return scanTerreno(row)
}

func (r *TerrenoRepository) FindAll(ctx context.Context) ([]models.Terreno, error) {
	rows, err := r.store.Query(ctx, `SELECT `+terrenoColumns+` FROM terrenos ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanTerrenos(rows)
}

func (r *TerrenoRepository) ListDisponibles(ctx context.Context) ([]models.Terreno, error) {
	rows, err := r.store.Query(ctx, `SELECT `+terrenoColumns+` FROM terrenos WHERE estado = 'DISPONIBLE' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return scanTerrenos(rows)
}

// ExisteDuplicado reports whether another terreno already uses the
// (manzana, numero_lote) pair. excludeID skips the row being updated.
func (r *TerrenoRepository) ExisteDuplicado(ctx context.Context, manzana, numeroLote string, excludeID int64) (bool, error) {
	var n int
	err := r.store.QueryRow(ctx, `
		SELECT COUNT(*) FROM terrenos WHERE manzana = ? AND numero_lote = ? AND id != ?`,
		manzana, numeroLote, excludeID).Scan(&n)
	return n > 0, err
}

// Update writes the base columns. loteo_id is owned by LoteoRepository
// and deliberately left out.
func (r *TerrenoRepository) Update(ctx context.Context, t *models.Terreno) error {
	_, err := r.store.Exec(ctx, `
		UPDATE terrenos
		SET manzana = ?, numero_lote = ?, superficie = ?,
		    ubicacion = ?, nomenclatura = ?, estado = ?, observaciones = ?
		WHERE id = ?`,
		t.Manzana, t.NumeroLote, t.Superficie, t.Ubicacion, t.Nomenclatura,
		string(t.Estado), t.Observaciones, t.ID)
	return err
}

func (r *TerrenoRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Exec(ctx, `DELETE FROM terrenos WHERE id = ?`, id)
	return err
}
