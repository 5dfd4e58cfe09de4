package models

import (
	"strings"
	"time"
)

// Usuario is a system account. Activo works as a soft-delete marker;
// the password is only ever stored as a bcrypt hash.
type Usuario struct {
	ID           int64
	Username     string `validate:"required,min=3"`
	PasswordHash string `validate:"required"`
	Rol          string
	Activo       bool
	CreatedAt    time.Time
}

var mensajesUsuario = map[string]*ValidationError{
	"Username":     {Campo: "username", Mensaje: "el username es obligatorio (>=3)"},
	"PasswordHash": {Campo: "password_hash", Mensaje: "el password_hash no puede ser vacío"},
}

func (u *Usuario) Validar() error {
	if len(strings.TrimSpace(u.Username)) < 3 {
		return mensajesUsuario["Username"]
	}
	if err := validate.Struct(u); err != nil {
		return traducir(err, mensajesUsuario)
	}
	return nil
}
