package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"poi-route-service/internal/bootstrap"
	"poi-route-service/internal/config"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/platform/obs"
	"poi-route-service/internal/routing"
	"poi-route-service/internal/services"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	graphSource string
	graphPath   string
	catalogPath string
	sqlitePath  string
	logLevel    string
	maxExpanded int
	outputJSON  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "routectl",
	Short: "Query the POI route graph from the command line",
	Long: `routectl loads the street graph the same way the server does and answers
route, matrix and tour queries against it without starting an HTTP listener.

Nodes may be given as node ids or as POI names.`,
	SilenceUsage: true,
}

func init() {
	if _, err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&graphSource, "source", config.Get("GRAPH_SOURCE", config.SourceSQLite), "graph source: osm, nodelink, sqlite or postgres")
	pf.StringVar(&graphPath, "graph", config.Get("GRAPH_PATH", ""), "network file for osm and nodelink sources")
	pf.StringVar(&catalogPath, "pois", config.Get("POI_CATALOG", "data/pois.yaml"), "POI catalogue (YAML)")
	pf.StringVar(&sqlitePath, "sqlite", config.Get("SQLITE_PATH", "data/graph.db"), "SQLite snapshot path")
	pf.StringVar(&logLevel, "log-level", config.Get("LOG_LEVEL", "warn"), "log level")
	pf.IntVar(&maxExpanded, "max-expanded", 0, "abort a search after this many settled nodes (0 = unlimited)")
	pf.BoolVar(&outputJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(RouteRootCmd())
	rootCmd.AddCommand(POIsCmd())
	rootCmd.AddCommand(MatrixCmd())
	rootCmd.AddCommand(TourCmd())
	rootCmd.AddCommand(VerifyCmd())
	rootCmd.AddCommand(ExportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadService builds a RouteService from the persistent flags.
func loadService(ctx context.Context) (*services.RouteService, error) {
	logger, err := obs.NewLogger(logLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	cfg := config.Config{
		GraphSource:       strings.ToLower(graphSource),
		GraphPath:         graphPath,
		POICatalog:        catalogPath,
		SQLitePath:        sqlitePath,
		DatabaseURL:       config.Get("DATABASE_URL", ""),
		SearchMaxExpanded: maxExpanded,
		MatrixConcurrency: services.DefaultConcurrency,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := bootstrap.LoadGraph(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return services.NewRouteService(g, logger, routing.WithMaxExpanded(cfg.SearchMaxExpanded)), nil
}

func resolveAll(svc *services.RouteService, refs []string) ([]domain.NodeID, error) {
	out := make([]domain.NodeID, 0, len(refs))
	for _, ref := range refs {
		id, err := svc.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPath(p domain.Path) {
	ids := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = string(n)
	}
	fmt.Println(strings.Join(ids, " -> "))
	fmt.Printf("hops: %d  cost: %.2f  length: %.2f m\n", max(len(p.Nodes)-1, 0), p.Cost, p.LengthMeters)
}
