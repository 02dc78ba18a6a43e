package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the snapshot tables. The DDL is accepted by both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS graph_nodes (
		seq BIGINT PRIMARY KEY,
		node_id TEXT NOT NULL UNIQUE,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		kind TEXT NOT NULL
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS graph_edges (
		seq BIGINT PRIMARY KEY,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		length_meters DOUBLE PRECISION NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		highway TEXT NOT NULL DEFAULT ''
	);
	`

	createPOIsQuery := `
	CREATE TABLE IF NOT EXISTS graph_pois (
		seq BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		node_id TEXT NOT NULL,
		attached_to TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		attachment_meters DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_graph_edges_from
	ON graph_edges(from_id);
	`

	statements := []string{
		createNodesQuery,
		createEdgesQuery,
		createPOIsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
