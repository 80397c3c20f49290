// Command neoctl runs the impact and deflection calculators and the NEO feed
// fetcher from the command line, printing JSON.
//
// Usage:
//
//	neoctl impact --diameter 100 --velocity 20
//	neoctl deflect --miss-distance 10000 --velocity 15 --delta-v 0.01
//	NEO_API_KEY=... neoctl asteroids
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/neo-impact-service/internal/adapter/neows"
	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "neoctl",
		Short:         "Near-Earth object impact and deflection calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImpactCmd(), newDeflectCmd(), newAsteroidsCmd())
	return root
}

func newImpactCmd() *cobra.Command {
	var in domain.ImpactInput
	cmd := &cobra.Command{
		Use:   "impact",
		Short: "Estimate impact energy, crater diameter, and seismic magnitude",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := domain.CalculateImpact(in.DiameterM, in.VelocityKmS)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Float64Var(&in.DiameterM, "diameter", 0, "body diameter in meters")
	cmd.Flags().Float64Var(&in.VelocityKmS, "velocity", 0, "impact velocity in km/s")
	_ = cmd.MarkFlagRequired("diameter")
	_ = cmd.MarkFlagRequired("velocity")
	return cmd
}

func newDeflectCmd() *cobra.Command {
	var in domain.DeflectionInput
	cmd := &cobra.Command{
		Use:   "deflect",
		Short: "Estimate the miss distance after a kinetic-impactor push",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := domain.CalculateDeflection(in.MissDistanceKm, in.VelocityKmS, in.DeltaVMS)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().Float64Var(&in.MissDistanceKm, "miss-distance", 0, "current miss distance in km")
	cmd.Flags().Float64Var(&in.VelocityKmS, "velocity", 0, "approach velocity in km/s")
	cmd.Flags().Float64Var(&in.DeltaVMS, "delta-v", 0, "velocity change from the push in m/s")
	_ = cmd.MarkFlagRequired("miss-distance")
	_ = cmd.MarkFlagRequired("velocity")
	_ = cmd.MarkFlagRequired("delta-v")
	return cmd
}

func newAsteroidsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asteroids",
		Short: "List near-Earth objects in the feed window (configured via NEO_* env vars)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Stdout carries the JSON result; the feed client only logs below error level.
			logger := sharedobs.NewLogger("error", "text")
			client := neows.NewClient(cfg, observability.NewUnregisteredMetrics(), logger)

			records, err := client.FetchAsteroids(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), records)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
