package main

import (
	"fmt"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/services"

	"github.com/spf13/cobra"
)

var trafficHour int

// RouteRootCmd groups the four routing modes.
func RouteRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Compute a shortest route",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "direct <source> <target>",
		Short: "Shortest route by street length",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, services.ModeDirect, args[0], args[1], "", "")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "waypoint <source> <via> <target>",
		Short: "Shortest route forced through an intermediate node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, services.ModeWaypoint, args[0], args[2], args[1], "")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "avoid <source> <target> <avoid>",
		Short: "Shortest route that never enters a given node",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, services.ModeAvoid, args[0], args[1], "", args[2])
		},
	})

	traffic := &cobra.Command{
		Use:   "traffic <source> <target>",
		Short: "Shortest route under the hour-of-day congestion model",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(cmd, services.ModeTraffic, args[0], args[1], "", "")
		},
	}
	traffic.Flags().IntVar(&trafficHour, "hour", 8, "hour of day (0-23)")
	cmd.AddCommand(traffic)

	return cmd
}

func runRoute(cmd *cobra.Command, mode, source, target, via, avoid string) error {
	ctx := cmd.Context()
	svc, err := loadService(ctx)
	if err != nil {
		return err
	}

	req := services.RouteRequest{Mode: mode}
	if req.Source, err = svc.Resolve(source); err != nil {
		return err
	}
	if req.Target, err = svc.Resolve(target); err != nil {
		return err
	}
	if via != "" {
		if req.Via, err = svc.Resolve(via); err != nil {
			return err
		}
	}
	if avoid != "" {
		if req.Avoid, err = svc.Resolve(avoid); err != nil {
			return err
		}
	}
	if mode == services.ModeTraffic {
		h := trafficHour
		req.Hour = &h
	}

	p, err := svc.Route(ctx, req)
	if err != nil {
		return fmt.Errorf("%s route: %w", mode, err)
	}

	if outputJSON {
		return printJSON(dto.NewRouteResponse(mode, p))
	}
	printPath(p)
	return nil
}

// POIsCmd lists the attached POIs.
func POIsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pois",
		Short: "List attached POIs and their street attachment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := loadService(cmd.Context())
			if err != nil {
				return err
			}
			pois := svc.Graph().POIs()
			if outputJSON {
				return printJSON(dto.NewListPOIsResponse(pois))
			}
			for _, p := range pois {
				fmt.Printf("%-28s %-32s -> %-14s %7.1f m\n", p.Name, p.NodeID, p.AttachedTo, p.AttachmentMeters)
			}
			return nil
		},
	}
}
