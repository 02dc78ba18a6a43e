package snapshot

import (
	"context"
	"database/sql"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
)

// SqliteSnapshotStore persists graph snapshots in SQLite (modernc.org/sqlite).
type SqliteSnapshotStore struct {
	DB *sql.DB
}

func NewSqliteSnapshotStore(db *sql.DB) *SqliteSnapshotStore {
	return &SqliteSnapshotStore{DB: db}
}

var sqliteQueries = queries{
	insertNode: `
	INSERT INTO graph_nodes (seq, node_id, lat, lon, kind)
	VALUES (?, ?, ?, ?, ?);
	`,
	insertEdge: `
	INSERT INTO graph_edges (seq, from_id, to_id, length_meters, name, highway)
	VALUES (?, ?, ?, ?, ?, ?);
	`,
	insertPOI: `
	INSERT INTO graph_pois (seq, name, node_id, attached_to, lat, lon, attachment_meters)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`,
}

func (s *SqliteSnapshotStore) Save(ctx context.Context, snap domain.Snapshot) (err error) {
	defer obs.Time(ctx, "snapshot.sqlite.Save")(&err)
	return save(ctx, s.DB, sqliteQueries, snap)
}

func (s *SqliteSnapshotStore) Load(ctx context.Context) (_ domain.Snapshot, err error) {
	defer obs.Time(ctx, "snapshot.sqlite.Load")(&err)
	return load(ctx, s.DB)
}
