package main

import (
	"encoding/json"
	"io"

	"github.com/couchcryptid/order-fulfillment-engine/internal/config"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	"github.com/couchcryptid/order-fulfillment-engine/internal/observability"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var (
		snapshotFile string
		byDistance   bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Compute one fulfillment plan and print it as JSON",
		Long: `Runs a single pass and writes the plan to stdout.

$ fulfillment plan --snapshot orders.json --sort-distance`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLoggerTo(cmd.ErrOrStderr(), cfg)

			a, err := newApp(cmd.Context(), cfg, logger, observability.NewMetrics(), snapshotFile)
			if err != nil {
				return err
			}
			defer a.Close()

			plan, err := a.pipeline.Run(cmd.Context())
			if err != nil {
				return err
			}
			return writePlan(cmd.OutOrStdout(), plan, byDistance)
		},
	}
	cmd.Flags().StringVar(&snapshotFile, "snapshot", "", "read orders from a JSON snapshot file instead of the database")
	cmd.Flags().BoolVar(&byDistance, "sort-distance", false, "list candidates nearest first")
	return cmd
}

func writePlan(w io.Writer, plan domain.Plan, byDistance bool) error {
	if byDistance {
		for i := range plan.Orders {
			plan.Orders[i].Candidates = domain.SortByDistance(plan.Orders[i].Candidates)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(plan)
}
