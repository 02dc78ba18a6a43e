package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"poi-route-service/internal/adapters/snapshot"
	"poi-route-service/internal/bootstrap"
	"poi-route-service/internal/config"
	"poi-route-service/internal/platform/db"
	"poi-route-service/internal/platform/obs"
	"poi-route-service/internal/ports"

	"go.uber.org/zap"
)

// dbtool ingests a street network file, attaches the POI catalogue and saves
// the result as a snapshot in SQLite or Postgres.
func main() {
	if found, err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	} else if !found {
		log.Println("No .env file found (using environment variables)")
	}

	source := flag.String("source", config.SourceOSM, "network source: osm or nodelink")
	input := flag.String("in", config.Get("GRAPH_PATH", ""), "network file to ingest")
	catalog := flag.String("pois", config.Get("POI_CATALOG", "data/pois.yaml"), "POI catalogue (YAML)")
	target := flag.String("to", "sqlite", "snapshot target: sqlite or postgres")
	sqlitePath := flag.String("sqlite", config.Get("SQLITE_PATH", "data/graph.db"), "SQLite database path")
	schemaOnly := flag.Bool("schema-only", false, "create tables and exit")
	flag.Parse()

	logger, err := obs.NewLogger(config.Get("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	conn, err := openTarget(ctx, *target, *sqlitePath)
	if err != nil {
		logger.Fatal("open target", zap.Error(err))
	}
	defer conn.Close()

	logger.Info("initializing database schema")
	if err := snapshot.InitSchema(ctx, conn); err != nil {
		logger.Fatal("schema initialization failed", zap.Error(err))
	}
	logger.Info("schema ready")
	if *schemaOnly {
		return
	}

	cfg := config.Config{
		GraphSource: *source,
		GraphPath:   *input,
		POICatalog:  *catalog,
	}
	if cfg.GraphPath == "" {
		logger.Fatal("missing network file", zap.String("flag", "-in"))
	}

	g, err := bootstrap.LoadGraph(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("ingest failed", zap.Error(err))
	}

	var store ports.SnapshotStore
	if *target == "postgres" {
		store = snapshot.NewSQLSnapshotStore(conn)
	} else {
		store = snapshot.NewSqliteSnapshotStore(conn)
	}

	if err := store.Save(ctx, g.Snapshot()); err != nil {
		logger.Fatal("save failed", zap.Error(err))
	}
	logger.Info("snapshot saved",
		zap.String("target", *target),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", g.EdgeCount()),
		zap.String("fingerprint", g.Fingerprint()),
	)
}

func openTarget(ctx context.Context, target, sqlitePath string) (*sql.DB, error) {
	if target == "postgres" {
		return db.Open(ctx, config.Get("DATABASE_URL", ""))
	}
	return db.OpenSQLite(ctx, sqlitePath)
}
