package ports

import (
	"context"
	"poi-route-service/internal/domain"
)

// Port: persistence for a built graph, POI attachments included.
type SnapshotStore interface {
	// Replace the stored snapshot.
	Save(ctx context.Context, s domain.Snapshot) error
	// Read back the stored snapshot in the order it was saved.
	Load(ctx context.Context) (domain.Snapshot, error)
}
