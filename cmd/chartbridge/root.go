package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"chartbridge/internal/config"
	"chartbridge/internal/logging"
	"chartbridge/jsrt"
)

// app carries state shared by every subcommand once the root has parsed
// its flags.
type app struct {
	cfgFile  string
	logLevel string
	cfg      config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "chartbridge",
		Short: "Convert chart specs with the bundled transformation programs",
		Long: `chartbridge runs two bundled JavaScript programs:

  templates/dist/dsl-to-workflow.umd.js   chart DSL  -> workflow
  templates/dist/vega-to-dsl.umd.js       Vega-Lite  -> chart DSL

They are resolved under runtime.root and loaded on first use.

Examples:
  chartbridge dsl2wf chart.json
  chartbridge vega2dsl --fields fields.yml spec.json
  chartbridge serve --config chartbridge.yml
  chartbridge worker --pipeline pipeline.yml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			logging.Configure(logging.Options{
				Level:  cfg.Log.Level,
				JSON:   cfg.Log.JSON,
				Output: cmd.ErrOrStderr(),
			})
			if cmd.Flags().Changed("log-level") {
				logging.SetLevel(a.logLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (YAML); CHARTBRIDGE_* env vars override it")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.dslToWorkflowCmd())
	root.AddCommand(a.vegaToDSLCmd())
	root.AddCommand(a.workerCmd())
	root.AddCommand(backendsCmd())
	return root
}

func backendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List the JavaScript engines linked into this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names := jsrt.Backends()
			if len(names) == 0 {
				cmd.PrintErrln(jsrt.InstallMessage)
				return &jsrt.UnavailableError{Backend: jsrt.DefaultBackend}
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

// exitCode gives each error kind its own status so scripts can tell a
// missing runtime from a rejected chart.
func exitCode(err error) int {
	switch {
	case errors.Is(err, jsrt.ErrRuntimeUnavailable):
		return 3
	case errors.Is(err, jsrt.ErrFileAccess):
		return 4
	case errors.Is(err, jsrt.ErrMarshal):
		return 5
	case errors.Is(err, jsrt.ErrTransformation):
		return 6
	default:
		return 1
	}
}
