package main

import (
	"fmt"
	"os"
	"poi-route-service/internal/adapters/render"
	"poi-route-service/internal/services"

	"github.com/spf13/cobra"
)

var (
	exportOut     string
	exportNetwork bool
	exportVia     string
)

// ExportCmd writes a direct or waypoint route as GeoJSON.
func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <source> <target>",
		Short: "Write a route, the POIs and optionally the network as GeoJSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			req := services.RouteRequest{Mode: services.ModeDirect}
			if req.Source, err = svc.Resolve(args[0]); err != nil {
				return err
			}
			if req.Target, err = svc.Resolve(args[1]); err != nil {
				return err
			}
			if exportVia != "" {
				req.Mode = services.ModeWaypoint
				if req.Via, err = svc.Resolve(exportVia); err != nil {
					return err
				}
			}

			p, err := svc.Route(ctx, req)
			if err != nil {
				return err
			}
			fc, err := render.RenderGeoJSON(svc.Graph(), p, exportNetwork)
			if err != nil {
				return err
			}
			raw, err := fc.MarshalJSON()
			if err != nil {
				return err
			}

			if exportOut == "" || exportOut == "-" {
				_, err = os.Stdout.Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(exportOut, raw, 0o644); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s (%d features)\n", exportOut, len(fc.Features))
			return nil
		},
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&exportNetwork, "network", false, "include every street edge")
	cmd.Flags().StringVar(&exportVia, "via", "", "route through this node")
	return cmd
}
