// Package cli implements the metalava-settings command.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	metalava "github.com/goliatone/go-metalava"
	"github.com/goliatone/go-metalava/pkg/loader"
	"github.com/goliatone/go-metalava/pkg/logging"
	"github.com/goliatone/go-metalava/pkg/state"
)

type globalFlags struct {
	file     string
	project  string
	noEnv    bool
	logLevel string
	logJSON  bool
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns a fresh tree so
// tests can run it in isolation.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "metalava-settings",
		Short: "Inspect scoped Metalava settings",
		Long: `Reads a settings file plus METALAVA_* environment overrides, builds the
project scope tree and prints the effective settings of one project.`,
		Example: `  metalava-settings resolve -f settings.yml -p :app
  metalava-settings trace documentation -f settings.yml -p :app:core
  metalava-settings schema`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.file, "file", "f", "", "settings file (YAML or JSON)")
	root.PersistentFlags().StringVarP(&flags.project, "project", "p", state.RootPath, "project path, e.g. :app")
	root.PersistentFlags().BoolVar(&flags.noEnv, "no-env", false, "ignore METALAVA_* environment variables")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		newResolveCommand(flags),
		newTraceCommand(flags),
		newSchemaCommand(flags),
		newEvalCommand(flags),
	)
	return root
}

func (f *globalFlags) scope(cmd *cobra.Command, extra ...metalava.ScopeOption) (*metalava.Scope, error) {
	logger := logging.New(logging.Config{
		Level:  logging.Level(f.logLevel),
		Output: cmd.ErrOrStderr(),
		JSON:   f.logJSON,
	})
	normalized, err := state.NormalizePath(f.project)
	if err != nil {
		return nil, err
	}
	opts := []loader.Option{
		loader.WithScopeOptions(logger.Options()...),
		loader.WithScopeOptions(extra...),
		loader.WithProjects(state.Project{Path: normalized}),
	}
	if f.noEnv {
		opts = append(opts, loader.WithoutEnv())
	}

	tree, err := loader.Load(cmd.Context(), f.file, opts...)
	if err != nil {
		return nil, err
	}
	scope, ok := tree.Scope(normalized)
	if !ok {
		return nil, fmt.Errorf("project %q not found", normalized)
	}
	return scope, nil
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
