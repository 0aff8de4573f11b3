package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	metalava "github.com/goliatone/go-metalava"
	"github.com/goliatone/go-metalava/schema/openapi"
)

func newResolveCommand(flags *globalFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the effective settings of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := flags.scope(cmd)
			if err != nil {
				return err
			}
			snapshot := scope.Snapshot()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snapshot)
			}
			keys := make([]string, 0, len(snapshot))
			for key := range snapshot {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, snapshot[key])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func newTraceCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "trace <key>",
		Short: "Show which scope supplies a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok := metalava.ParseKey(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", metalava.ErrUnknownSetting, args[0])
			}
			scope, err := flags.scope(cmd)
			if err != nil {
				return err
			}
			_, trace, err := scope.ResolveWithTrace(key)
			if err != nil {
				return err
			}
			payload, err := trace.ToJSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}
}

func newSchemaCommand(flags *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the setting catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := flags.scope(cmd)
			if err != nil {
				return err
			}
			var doc metalava.SchemaDocument
			switch metalava.SchemaFormat(format) {
			case metalava.SchemaFormatOpenAPI:
				doc, err = openapi.NewGenerator().Generate(scope.Fields())
			case metalava.SchemaFormatDescriptors:
				doc, err = metalava.DefaultSchemaGenerator().Generate(scope.Fields())
			default:
				return fmt.Errorf("unknown schema format %q", format)
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc.Document)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(metalava.SchemaFormatOpenAPI), "openapi or descriptors")
	return cmd
}

func newEvalCommand(flags *globalFlags) *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate a rule against the effective settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var evaluator metalava.Evaluator
			switch engine {
			case "expr":
				evaluator = metalava.NewExprEvaluator()
			case "cel":
				evaluator = metalava.NewCELEvaluator()
			case "js":
				evaluator = metalava.NewJSEvaluator()
			default:
				return fmt.Errorf("unknown engine %q", engine)
			}
			if evaluator == nil {
				return fmt.Errorf("%w: %s support not built in", metalava.ErrNoEvaluator, engine)
			}
			scope, err := flags.scope(cmd, metalava.WithEvaluator(evaluator))
			if err != nil {
				return err
			}
			result, err := scope.Evaluate(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result.Value)
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "expr", "expr, cel or js")
	return cmd
}
