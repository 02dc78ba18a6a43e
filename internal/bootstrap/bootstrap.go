// Package bootstrap assembles a ready-to-serve graph from the configured source.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"poi-route-service/internal/adapters/network"
	"poi-route-service/internal/adapters/snapshot"
	"poi-route-service/internal/config"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/graph"
	"poi-route-service/internal/platform/db"
	"poi-route-service/internal/ports"

	"go.uber.org/zap"
)

// LoadCatalog reads the POI catalogue. A missing file yields an empty catalogue.
func LoadCatalog(path string) (network.POICatalog, error) {
	if path == "" {
		return network.POICatalog{}, nil
	}
	c, err := network.LoadPOICatalog(path)
	if errors.Is(err, os.ErrNotExist) {
		return network.POICatalog{}, nil
	}
	return c, err
}

// NetworkSource returns the ingestion adapter for file-based graph sources.
func NetworkSource(cfg config.Config, catalog network.POICatalog) (ports.NetworkSource, error) {
	switch cfg.GraphSource {
	case config.SourceOSM:
		return network.OSMSource{Path: cfg.GraphPath, Boundary: catalog.BoundaryPolygon()}, nil
	case config.SourceNodeLink:
		return network.NodeLinkSource{Path: cfg.GraphPath}, nil
	default:
		return nil, fmt.Errorf("network source: %w: %q is not a file source", domain.ErrInvalidParameter, cfg.GraphSource)
	}
}

// LoadGraph builds the street graph and attaches the catalogue POIs that are
// not already present. The returned store is still in its build phase.
func LoadGraph(ctx context.Context, cfg config.Config, logger *zap.Logger) (*graph.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := LoadCatalog(cfg.POICatalog)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	snap, err := loadSnapshot(ctx, cfg, catalog)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	g, err := graph.FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	var pending []domain.POISeed
	for _, s := range catalog.POIs {
		if _, ok := g.POI(s.Name); ok {
			continue
		}
		if !g.NodeExists(domain.POINodeID(s.Name)) {
			pending = append(pending, s)
			continue
		}
		poi, err := graph.AdoptPOI(g, s.Name)
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		logger.Info("poi adopted from network",
			zap.String("poi", poi.Name),
			zap.String("node", string(poi.AttachedTo)),
			zap.Float64("meters", poi.AttachmentMeters),
		)
	}
	if _, err := graph.AttachAll(ctx, g, pending, logger); err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	logger.Info("graph loaded",
		zap.String("source", cfg.GraphSource),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()),
		zap.Int("pois", len(g.POIs())),
		zap.String("fingerprint", g.Fingerprint()),
	)
	return g, nil
}

func loadSnapshot(ctx context.Context, cfg config.Config, catalog network.POICatalog) (domain.Snapshot, error) {
	switch cfg.GraphSource {
	case config.SourceSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return domain.Snapshot{}, err
		}
		defer conn.Close()
		return snapshot.NewSqliteSnapshotStore(conn).Load(ctx)

	case config.SourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return domain.Snapshot{}, err
		}
		defer conn.Close()
		return snapshot.NewSQLSnapshotStore(conn).Load(ctx)

	default:
		src, err := NetworkSource(cfg, catalog)
		if err != nil {
			return domain.Snapshot{}, err
		}
		return src.Load(ctx)
	}
}
