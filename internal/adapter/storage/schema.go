package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are kept per driver because autoincrement DDL differs; all
// runtime SQL elsewhere is portable across both.
var schemaStatements = map[string][]string{
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS orders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			client_name TEXT NOT NULL,
			garment_type TEXT NOT NULL,
			fabric_type TEXT,
			quantity REAL NOT NULL,
			unit TEXT NOT NULL,
			intake_at TEXT NOT NULL,
			due_date TEXT NOT NULL,
			status TEXT NOT NULL,
			materials_needed TEXT,
			priority_score INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			material TEXT PRIMARY KEY,
			quantity REAL NOT NULL,
			unit TEXT NOT NULL
		)`,
	},
	"mysql": {
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			client_name VARCHAR(255) NOT NULL,
			garment_type VARCHAR(255) NOT NULL,
			fabric_type VARCHAR(255),
			quantity DOUBLE NOT NULL,
			unit VARCHAR(32) NOT NULL,
			intake_at VARCHAR(19) NOT NULL,
			due_date VARCHAR(10) NOT NULL,
			status VARCHAR(32) NOT NULL,
			materials_needed VARCHAR(255),
			priority_score INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS inventory (
			material VARCHAR(255) PRIMARY KEY,
			quantity DOUBLE NOT NULL,
			unit VARCHAR(32) NOT NULL
		)`,
	},
}

// Migrate creates the orders and inventory tables when missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	stmts, ok := schemaStatements[driver]
	if !ok {
		return fmt.Errorf("unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
