package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/servctl/internal/health"
)

func newCheckCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sample host health once and print the CHECK report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			sampler := health.NewSampler(health.DefaultConfig(), health.NewSystemSource(), nil, nil)
			snap := sampler.Refresh(ctx)

			fmt.Fprintln(cmd.OutOrStdout(), snap.String())
			if snap.Unhealthy() {
				return fmt.Errorf("host is over threshold")
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "max time to read host counters")
	return cmd
}
