package repositories

import (
	"context"
	"database/sql"
	"errors"

	"inmogest/models"
	"inmogest/storage"
)

type UsuarioRepository struct {
	store *storage.Store
}

func NewUsuarioRepository(store *storage.Store) *UsuarioRepository {
	return &UsuarioRepository{store: store}
}

const usuarioColumns = `id, username, password_hash, rol, activo, created_at`

func scanUsuario(row rowScanner) (*models.Usuario, error) {
	var (
		u       models.Usuario
		created sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Rol, &u.Activo, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if created.Valid {
		u.CreatedAt = created.Time
	}
	return &u, nil
}

func (r *UsuarioRepository) Create(ctx context.Context, u *models.Usuario) (int64, error) {
	var id int64
	err := r.store.QueryRow(ctx, `
		INSERT INTO usuarios (username, password_hash, rol, activo)
		VALUES (?, ?, ?, ?)
		RETURNING id`,
		u.Username, u.PasswordHash, u.Rol, u.Activo).Scan(&id)
	return id, err
}

func (r *UsuarioRepository) FindByID(ctx context.Context, id int64) (*models.Usuario, error) {
	row := r.store.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE id = ?`, id)
	return scanUsuario(row)
}

func (r *UsuarioRepository) FindByUsername(ctx context.Context, username string) (*models.Usuario, error) {
	row := r.store.QueryRow(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE username = ?`, username)
	return scanUsuario(row)
}

// FindAll returns active accounts only; deactivated users stay out of
// every listing.
func (r *UsuarioRepository) FindAll(ctx context.Context) ([]models.Usuario, error) {
	rows, err := r.store.Query(ctx, `SELECT `+usuarioColumns+` FROM usuarios WHERE activo ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UsuarioRepository) Update(ctx context.Context, u *models.Usuario) error {
	_, err := r.store.Exec(ctx, `
		UPDATE usuarios
		SET username = ?, password_hash = ?, rol = ?, activo = ?
		WHERE id = ?`,
		u.Username, u.PasswordHash, u.Rol, u.Activo, u.ID)
	return err
}

// Delete deactivates instead of removing; credentials history stays.
func (r *UsuarioRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.store.Exec(ctx, `UPDATE usuarios SET activo = ? WHERE id = ?`, false, id)
	return err
}
