package snapshot

import (
	"context"
	"database/sql"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
)

// SQLSnapshotStore persists graph snapshots in Postgres (pgx stdlib driver).
type SQLSnapshotStore struct {
	DB *sql.DB
}

func NewSQLSnapshotStore(db *sql.DB) *SQLSnapshotStore {
	return &SQLSnapshotStore{DB: db}
}

var postgresQueries = queries{
	insertNode: `
	INSERT INTO graph_nodes (seq, node_id, lat, lon, kind)
	VALUES ($1, $2, $3, $4, $5);
	`,
	insertEdge: `
	INSERT INTO graph_edges (seq, from_id, to_id, length_meters, name, highway)
	VALUES ($1, $2, $3, $4, $5, $6);
	`,
	insertPOI: `
	INSERT INTO graph_pois (seq, name, node_id, attached_to, lat, lon, attachment_meters)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`,
}

func (s *SQLSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) (err error) {
	defer obs.Time(ctx, "snapshot.sql.Save")(&err)
	return save(ctx, s.DB, postgresQueries, snap)
}

func (s *SQLSnapshotStore) Load(ctx context.Context) (_ domain.Snapshot, err error) {
	defer obs.Time(ctx, "snapshot.sql.Load")(&err)
	return load(ctx, s.DB)
}
