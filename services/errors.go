// Package services is the business-rule layer: state machines,
// uniqueness checks and cross-entity references are all enforced here,
// before any repository write runs.
package services

import "fmt"

// RuleError is a business-rule violation (illegal transition, missing
// link, duplicate key, dangling reference). The message is surfaced
// verbatim.
type RuleError struct {
	Mensaje string
}

func (e *RuleError) Error() string { return e.Mensaje }

func regla(mensaje string) error {
	return &RuleError{Mensaje: mensaje}
}

func reglaf(format string, args ...any) error {
	return &RuleError{Mensaje: fmt.Sprintf(format, args...)}
}

// NotFoundError marks operations on ids that do not exist. Eliminar on
// an absent id is the one exception: a safe no-op.
type NotFoundError struct {
	Mensaje string
}

func (e *NotFoundError) Error() string { return e.Mensaje }

func noEncontrado(mensaje string) error {
	return &NotFoundError{Mensaje: mensaje}
}
