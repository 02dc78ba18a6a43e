package ports

import (
	"context"
	"poi-route-service/internal/domain"
)

// Port: a source of street network data.
type NetworkSource interface {
	// Read street nodes and directed edges. The snapshot carries no POIs.
	Load(ctx context.Context) (domain.Snapshot, error)
}
