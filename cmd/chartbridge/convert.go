package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chartbridge/internal/engine"
)

func (a *app) dslToWorkflowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dsl2wf <file|->",
		Short: "Convert a chart DSL document into a workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			dsl, err := decodeDocument(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			conv, _, err := engine.NewConverter(a.cfg)
			if err != nil {
				return err
			}
			defer conv.Close()

			out, err := conv.DSLToWorkflow(cmd.Context(), dsl)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), out)
		},
	}
}

func (a *app) vegaToDSLCmd() *cobra.Command {
	var fieldsFile string
	cmd := &cobra.Command{
		Use:   "vega2dsl --fields <file> <file|->",
		Short: "Convert a Vega-Lite spec into a chart DSL document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			vl, err := decodeDocument(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			raw, err = readInput(fieldsFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			fields, err := decodeFields(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", fieldsFile, err)
			}

			conv, _, err := engine.NewConverter(a.cfg)
			if err != nil {
				return err
			}
			defer conv.Close()

			out, err := conv.VegaToDSL(cmd.Context(), vl, fields)
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&fieldsFile, "fields", "", "field catalog (JSON or YAML list)")
	_ = cmd.MarkFlagRequired("fields")
	return cmd
}
