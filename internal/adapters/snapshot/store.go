package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"poi-route-service/internal/domain"
)

// queries holds the dialect-specific insert statements. Column order is fixed:
// nodes (seq, node_id, lat, lon, kind), edges (seq, from_id, to_id,
// length_meters, name, highway), pois (seq, name, node_id, attached_to, lat,
// lon, attachment_meters).
type queries struct {
	insertNode string
	insertEdge string
	insertPOI  string
}

// save replaces the stored snapshot inside one transaction.
func save(ctx context.Context, db *sql.DB, q queries, s domain.Snapshot) error {
	if db == nil {
		return errors.New("save snapshot: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save snapshot: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"graph_pois", "graph_edges", "graph_nodes"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("save snapshot: clear %s: %w", table, err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, q.insertNode)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range s.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, i, string(n.ID), n.Lat, n.Lon, n.Kind.String()); err != nil {
			return fmt.Errorf("save snapshot: insert node %q: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, q.insertEdge)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range s.Edges {
		if _, err := edgeStmt.ExecContext(ctx, i, string(e.From), string(e.To), e.Length, e.Name, e.Highway); err != nil {
			return fmt.Errorf("save snapshot: insert edge %q->%q: %w", e.From, e.To, err)
		}
	}

	poiStmt, err := tx.PrepareContext(ctx, q.insertPOI)
	if err != nil {
		return fmt.Errorf("save snapshot: prepare poi insert: %w", err)
	}
	defer poiStmt.Close()

	for i, p := range s.POIs {
		if _, err := poiStmt.ExecContext(ctx, i, p.Name, string(p.NodeID), string(p.AttachedTo), p.Lat, p.Lon, p.AttachmentMeters); err != nil {
			return fmt.Errorf("save snapshot: insert poi %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save snapshot: commit tx: %w", err)
	}
	return nil
}

// load reads the snapshot back in saved order. The selects take no
// parameters, so both dialects share them.
func load(ctx context.Context, db *sql.DB) (domain.Snapshot, error) {
	if db == nil {
		return domain.Snapshot{}, errors.New("load snapshot: DB is nil")
	}

	var (
		s   domain.Snapshot
		err error
	)
	if s.Nodes, err = loadNodes(ctx, db); err != nil {
		return domain.Snapshot{}, err
	}
	if s.Edges, err = loadEdges(ctx, db); err != nil {
		return domain.Snapshot{}, err
	}
	if s.POIs, err = loadPOIs(ctx, db); err != nil {
		return domain.Snapshot{}, err
	}
	return s, nil
}

func loadNodes(ctx context.Context, db *sql.DB) ([]domain.Node, error) {
	rows, err := db.QueryContext(ctx, `SELECT node_id, lat, lon, kind FROM graph_nodes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query graph_nodes: %w", err)
	}
	defer rows.Close()

	var out []domain.Node
	for rows.Next() {
		var (
			id, kind string
			n        domain.Node
		)
		if err := rows.Scan(&id, &n.Lat, &n.Lon, &kind); err != nil {
			return nil, fmt.Errorf("load snapshot: scan node: %w", err)
		}
		k, ok := domain.ParseNodeKind(kind)
		if !ok {
			return nil, fmt.Errorf("load snapshot: node %q has unknown kind %q", id, kind)
		}
		n.ID, n.Kind = domain.NodeID(id), k
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: iterate nodes: %w", err)
	}
	return out, nil
}

func loadEdges(ctx context.Context, db *sql.DB) ([]domain.EdgeRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT from_id, to_id, length_meters, name, highway FROM graph_edges ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query graph_edges: %w", err)
	}
	defer rows.Close()

	var out []domain.EdgeRecord
	for rows.Next() {
		var (
			from, to string
			e        domain.EdgeRecord
		)
		if err := rows.Scan(&from, &to, &e.Length, &e.Name, &e.Highway); err != nil {
			return nil, fmt.Errorf("load snapshot: scan edge: %w", err)
		}
		e.From, e.To = domain.NodeID(from), domain.NodeID(to)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: iterate edges: %w", err)
	}
	return out, nil
}

func loadPOIs(ctx context.Context, db *sql.DB) ([]domain.POI, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, node_id, attached_to, lat, lon, attachment_meters FROM graph_pois ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: query graph_pois: %w", err)
	}
	defer rows.Close()

	var out []domain.POI
	for rows.Next() {
		var (
			nodeID, attachedTo string
			p                  domain.POI
		)
		if err := rows.Scan(&p.Name, &nodeID, &attachedTo, &p.Lat, &p.Lon, &p.AttachmentMeters); err != nil {
			return nil, fmt.Errorf("load snapshot: scan poi: %w", err)
		}
		p.NodeID, p.AttachedTo = domain.NodeID(nodeID), domain.NodeID(attachedTo)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: iterate pois: %w", err)
	}
	return out, nil
}
