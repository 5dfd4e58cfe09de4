// Package repositories translates entities to and from storage rows.
// Rows become typed structs right at this boundary; raw rows never
// reach the service layer. Multi-statement writes run inside a single
// transaction via storage.WithTx.
package repositories

import "database/sql"

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func texto(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
