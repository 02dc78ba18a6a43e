package main

import (
	"errors"
	"fmt"
	"poi-route-service/internal/domain"
	"poi-route-service/internal/services"

	"github.com/spf13/cobra"
)

var errMismatch = errors.New("contraction hierarchy disagrees with direct search")

// VerifyCmd cross-checks direct routes against a contraction hierarchy.
// With no arguments every ordered pair of attached POIs is checked.
func VerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [node...]",
		Short: "Cross-check direct routes against a contraction hierarchy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := loadService(ctx)
			if err != nil {
				return err
			}

			var ids []domain.NodeID
			if len(args) > 0 {
				if ids, err = resolveAll(svc, args); err != nil {
					return err
				}
			} else {
				for _, p := range svc.Graph().POIs() {
					ids = append(ids, p.NodeID)
				}
			}

			var pairs []services.NodePair
			for _, a := range ids {
				for _, b := range ids {
					if a != b {
						pairs = append(pairs, services.NodePair{Source: a, Target: b})
					}
				}
			}

			results, err := services.CrossCheck(ctx, svc, pairs)
			if err != nil {
				return err
			}
			if outputJSON {
				if err := printJSON(results); err != nil {
					return err
				}
			}

			bad := 0
			for _, r := range results {
				if r.Match {
					continue
				}
				bad++
				if !outputJSON {
					fmt.Printf("MISMATCH %s -> %s: direct=%.3f ch=%.3f\n", r.Source, r.Target, r.DirectCost, r.CHCost)
				}
			}
			if !outputJSON {
				fmt.Printf("%d pairs checked, %d mismatches\n", len(results), bad)
			}
			if bad > 0 {
				return fmt.Errorf("verify: %d of %d pairs: %w", bad, len(results), errMismatch)
			}
			return nil
		},
	}
}
