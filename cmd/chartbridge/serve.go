package main

import (
	"github.com/spf13/cobra"

	"chartbridge/internal/engine"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over gRPC and HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine.Bootstrap(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			return e.Run(cmd.Context())
		},
	}
}
