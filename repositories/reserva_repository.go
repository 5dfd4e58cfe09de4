package repositories

import (
	"context"
	"database/sql"
	"errors"

	"inmogest/models"
	"inmogest/storage"
)

type ReservaRepository struct {
	store *storage.Store
}

func NewReservaRepository(store *storage.Store) *ReservaRepository {
	return &ReservaRepository{store: store}
}

const reservaColumns = `id, codigo, tipo_propiedad, propiedad_id, cliente, fecha_reserva, monto_reserva, estado, observaciones, created_at`

func scanReserva(row rowScanner) (*models.Reserva, error) {
	var (
		r             models.Reserva
		tipo, estado  string
		fecha, observ sql.NullString
		created       sql.NullTime
	)
	err := row.Scan(&r.ID, &r.Codigo, &tipo, &r.PropiedadID, &r.Cliente,
		&fecha, &r.MontoReserva, &estado, &observ, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.TipoPropiedad = models.TipoPropiedad(tipo)
	r.Estado = models.EstadoReserva(estado)
	if fecha.Valid {
		r.FechaReserva = fecha.String
	}
	r.Observaciones = texto(observ)
	if created.Valid {
		r.CreatedAt = created.Time
	}
	return &r, nil
}

func (rp *ReservaRepository) Create(ctx context.Context, r *models.Reserva) (int64, error) {
	var id int64
	err := rp.store.QueryRow(ctx, `
		INSERT INTO reservas (codigo, tipo_propiedad, propiedad_id, cliente, fecha_reserva, monto_reserva, estado, observaciones)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		r.Codigo, string(r.TipoPropiedad), r.PropiedadID, r.Cliente, r.FechaReserva,
		r.MontoReserva, string(r.Estado), r.Observaciones).Scan(&id)
	return id, err
}

func (rp *ReservaRepository) FindByID(ctx context.Context, id int64) (*models.Reserva, error) {
	row := rp.store.QueryRow(ctx, `SELECT `+reservaColumns+` FROM reservas WHERE id = ?`, id)
	return scanReserva(row)
}

// FindAll lists newest first, matching how the front desk reads them.
func (rp *ReservaRepository) FindAll(ctx context.Context) ([]models.Reserva, error) {
	rows, err := rp.store.Query(ctx, `SELECT `+reservaColumns+` FROM reservas ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Reserva
	for rows.Next() {
		r, err := scanReserva(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (rp *ReservaRepository) Update(ctx context.Context, r *models.Reserva) error {
	_, err := rp.store.Exec(ctx, `
		UPDATE reservas
		SET tipo_propiedad = ?, propiedad_id = ?, cliente = ?, fecha_reserva = ?,
		    monto_reserva = ?, estado = ?, observaciones = ?
		WHERE id = ?`,
		string(r.TipoPropiedad), r.PropiedadID, r.Cliente, r.FechaReserva,
		r.MontoReserva, string(r.Estado), r.Observaciones, r.ID)
	return err
}

func (rp *ReservaRepository) Delete(ctx context.Context, id int64) error {
	_, err := rp.store.Exec(ctx, `DELETE FROM reservas WHERE id = ?`, id)
	return err
}
