package main

import (
	"github.com/spf13/cobra"

	"chartbridge/internal/engine"
	"chartbridge/internal/logging"
	"chartbridge/internal/pipeline"
	"chartbridge/internal/telemetry"
	"chartbridge/source/kafka"
)

func init() {
	kafka.Register("sarama", func() kafka.Adapter { return &kafka.SaramaDriver{} })
}

func (a *app) workerCmd() *cobra.Command {
	var pipelineYml string
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Answer conversion requests read from Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conv, _, err := engine.NewConverter(a.cfg)
			if err != nil {
				return err
			}
			defer conv.Close()

			runner, err := pipeline.Compile(pipelineYml, conv)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := telemetry.Expose(a.cfg.Server.MetricsPort)
			defer metrics.Close()

			logging.L().Info("worker: started", "pipeline", pipelineYml)
			return runner.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&pipelineYml, "pipeline", "pipeline.yml", "worker pipeline file")
	return cmd
}
