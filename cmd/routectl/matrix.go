package main

import (
	"fmt"
	"os"
	"poi-route-service/internal/api/dto"
	"poi-route-service/internal/services"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	matrixConcurrency int
	tourConcurrency   int
	returnToStart     bool
)

// MatrixCmd prints direct route costs between every ordered pair of nodes.
func MatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix <node> <node> [node...]",
		Short: "Direct route costs between every ordered pair",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := loadService(ctx)
			if err != nil {
				return err
			}
			ids, err := resolveAll(svc, args)
			if err != nil {
				return err
			}

			m, err := services.CostMatrix(ctx, svc, ids, matrixConcurrency)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(dto.NewMatrixResponse(m))
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprint(tw, "\t")
			for _, id := range m.IDs {
				fmt.Fprintf(tw, "%s\t", id)
			}
			fmt.Fprintln(tw)
			for i, row := range m.Cells {
				fmt.Fprintf(tw, "%s\t", m.IDs[i])
				for _, c := range row {
					if !c.Reachable {
						fmt.Fprint(tw, "-\t")
						continue
					}
					fmt.Fprintf(tw, "%.1f\t", c.Path.Cost)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&matrixConcurrency, "concurrency", services.DefaultConcurrency, "searches in flight")
	return cmd
}

// TourCmd orders stops with the nearest-neighbor heuristic.
func TourCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tour <start> <stop> [stop...]",
		Short: "Visit every stop, always moving to the closest unvisited one",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := loadService(ctx)
			if err != nil {
				return err
			}
			ids, err := resolveAll(svc, args)
			if err != nil {
				return err
			}

			plan, err := services.PlanTour(ctx, svc, ids[0], ids[1:], returnToStart, tourConcurrency)
			if err != nil {
				return err
			}
			if outputJSON {
				return printJSON(dto.NewTourResponse(plan))
			}

			for i, leg := range plan.Legs {
				fmt.Printf("leg %d:\n", i+1)
				printPath(leg)
			}
			fmt.Printf("total cost: %.2f  total length: %.2f m\n", plan.TotalCost, plan.TotalLengthMeters)
			return nil
		},
	}
	cmd.Flags().BoolVar(&returnToStart, "return", false, "finish with a leg back to the start")
	cmd.Flags().IntVar(&tourConcurrency, "concurrency", services.DefaultConcurrency, "searches in flight")
	return cmd
}
