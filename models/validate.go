package models

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes a single invalid field. The message is
// meant to be surfaced verbatim, so it is written for humans.
type ValidationError struct {
	Campo   string
	Mensaje string
}

func (e *ValidationError) Error() string { return e.Mensaje }

func invalido(campo, mensaje string) error {
	return &ValidationError{Campo: campo, Mensaje: mensaje}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// traducir maps the first tag failure to the entity's own message table.
func traducir(err error, mensajes map[string]*ValidationError) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if ve, ok := mensajes[verrs[0].StructField()]; ok {
			return ve
		}
		return invalido(strings.ToLower(verrs[0].StructField()),
			"campo inválido: "+verrs[0].StructField())
	}
	return err
}

// TextoOpcional normalizes optional text: blank becomes NULL.
func TextoOpcional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
