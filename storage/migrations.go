package storage

import (
	"context"
	"fmt"

	"inmogest/config"
	"inmogest/logging"
)

// Applied migrations are recorded by name in the 'migrations' ledger;
// each pending one runs inside its own transaction.
type migration struct {
	name     string
	sqlite   []string
	postgres []string // set only when the DDL differs
}

var migrations = []migration{
	{
		name: "001_loteos",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS loteos (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				nombre TEXT NOT NULL,
				ubicacion TEXT,
				municipio TEXT,
				provincia TEXT,
				fecha_inicio TEXT,
				fecha_fin TEXT,
				estado TEXT NOT NULL DEFAULT 'ACTIVO',
				observaciones TEXT
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS loteos (
				id BIGSERIAL PRIMARY KEY,
				nombre TEXT NOT NULL,
				ubicacion TEXT,
				municipio TEXT,
				provincia TEXT,
				fecha_inicio TEXT,
				fecha_fin TEXT,
				estado TEXT NOT NULL DEFAULT 'ACTIVO',
				observaciones TEXT
			)`},
	},
	{
		name: "002_terrenos",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS terrenos (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				manzana TEXT NOT NULL,
				numero_lote TEXT NOT NULL,
				superficie REAL NOT NULL,
				ubicacion TEXT,
				nomenclatura TEXT UNIQUE,
				estado TEXT NOT NULL DEFAULT 'DISPONIBLE',
				observaciones TEXT,
				loteo_id INTEGER REFERENCES loteos(id) ON DELETE SET NULL,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS terrenos (
				id BIGSERIAL PRIMARY KEY,
				manzana TEXT NOT NULL,
				numero_lote TEXT NOT NULL,
				superficie DOUBLE PRECISION NOT NULL,
				ubicacion TEXT,
				nomenclatura TEXT UNIQUE,
				estado TEXT NOT NULL DEFAULT 'DISPONIBLE',
				observaciones TEXT,
				loteo_id BIGINT REFERENCES loteos(id) ON DELETE SET NULL,
				created_at TIMESTAMPTZ DEFAULT now()
			)`},
	},
	{
		name: "003_edificaciones",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS edificaciones (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				nombre TEXT,
				tipo TEXT NOT NULL DEFAULT 'CASA',
				superficie_cubierta REAL,
				ambientes INTEGER,
				habitaciones INTEGER,
				banios INTEGER,
				cochera INTEGER NOT NULL DEFAULT 0,
				patio INTEGER NOT NULL DEFAULT 0,
				pileta INTEGER NOT NULL DEFAULT 0,
				estado TEXT NOT NULL DEFAULT 'DISPONIBLE',
				observaciones TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS edificaciones (
				id BIGSERIAL PRIMARY KEY,
				nombre TEXT,
				tipo TEXT NOT NULL DEFAULT 'CASA',
				superficie_cubierta DOUBLE PRECISION,
				ambientes INTEGER,
				habitaciones INTEGER,
				banios INTEGER,
				cochera BOOLEAN NOT NULL DEFAULT FALSE,
				patio BOOLEAN NOT NULL DEFAULT FALSE,
				pileta BOOLEAN NOT NULL DEFAULT FALSE,
				estado TEXT NOT NULL DEFAULT 'DISPONIBLE',
				observaciones TEXT,
				created_at TIMESTAMPTZ DEFAULT now()
			)`},
	},
	{
		name: "004_edificacion_terreno",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS edificacion_terreno (
				edificacion_id INTEGER NOT NULL REFERENCES edificaciones(id) ON DELETE CASCADE,
				terreno_id INTEGER NOT NULL REFERENCES terrenos(id) ON DELETE CASCADE,
				UNIQUE (edificacion_id, terreno_id)
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS edificacion_terreno (
				edificacion_id BIGINT NOT NULL REFERENCES edificaciones(id) ON DELETE CASCADE,
				terreno_id BIGINT NOT NULL REFERENCES terrenos(id) ON DELETE CASCADE,
				UNIQUE (edificacion_id, terreno_id)
			)`},
	},
	{
		name: "005_reservas",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS reservas (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				codigo TEXT NOT NULL UNIQUE,
				tipo_propiedad TEXT NOT NULL,
				propiedad_id INTEGER NOT NULL,
				cliente TEXT NOT NULL,
				fecha_reserva TEXT,
				monto_reserva DECIMAL(12,2) NOT NULL,
				estado TEXT NOT NULL DEFAULT 'ACTIVA',
				observaciones TEXT,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS reservas (
				id BIGSERIAL PRIMARY KEY,
				codigo TEXT NOT NULL UNIQUE,
				tipo_propiedad TEXT NOT NULL,
				propiedad_id BIGINT NOT NULL,
				cliente TEXT NOT NULL,
				fecha_reserva TEXT,
				monto_reserva DECIMAL(12,2) NOT NULL,
				estado TEXT NOT NULL DEFAULT 'ACTIVA',
				observaciones TEXT,
				created_at TIMESTAMPTZ DEFAULT now()
			)`},
	},
	{
		name: "006_usuarios",
		sqlite: []string{`
			CREATE TABLE IF NOT EXISTS usuarios (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				username TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				rol TEXT NOT NULL DEFAULT 'USER',
				activo INTEGER NOT NULL DEFAULT 1,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		postgres: []string{`
			CREATE TABLE IF NOT EXISTS usuarios (
				id BIGSERIAL PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				rol TEXT NOT NULL DEFAULT 'USER',
				activo BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ DEFAULT now()
			)`},
	},
	{
		name: "007_indices",
		sqlite: []string{
			`CREATE INDEX IF NOT EXISTS idx_terrenos_loteo ON terrenos(loteo_id)`,
			`CREATE INDEX IF NOT EXISTS idx_terrenos_estado ON terrenos(estado)`,
			`CREATE INDEX IF NOT EXISTS idx_reservas_estado ON reservas(estado)`,
			`CREATE INDEX IF NOT EXISTS idx_et_terreno ON edificacion_terreno(terreno_id)`,
		},
	},
}

const ledgerSQLite = `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT UNIQUE NOT NULL,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`

const ledgerPostgres = `
	CREATE TABLE IF NOT EXISTS migrations (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		applied_at TIMESTAMPTZ DEFAULT now()
	)`

func (s *Store) migrate(ctx context.Context) error {
	ledger := ledgerSQLite
	if s.engine == config.EnginePostgres {
		ledger = ledgerPostgres
	}
	if _, err := s.Exec(ctx, ledger); err != nil {
		return fmt.Errorf("crear tabla migrations: %w", err)
	}

	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.name] {
			continue
		}
		stmts := m.sqlite
		if s.engine == config.EnginePostgres && m.postgres != nil {
			stmts = m.postgres
		}
		err := s.WithTx(ctx, func(q Querier) error {
			for _, stmt := range stmts {
				if _, err := q.Exec(ctx, stmt); err != nil {
					return fmt.Errorf("migración %s: %w", m.name, err)
				}
			}
			_, err := q.Exec(ctx, `INSERT INTO migrations (name) VALUES (?)`, m.name)
			return err
		})
		if err != nil {
			return err
		}
		logging.L().Infof("Migración %s aplicada", m.name)
	}
	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := s.Query(ctx, `SELECT name FROM migrations ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
