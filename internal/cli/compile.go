package cli

import (
	"github.com/spf13/cobra"

	"github.com/vfxkit/shadergraph/pkg/pipeline"
)

// compileOpts holds the command-line flags for the compile command.
type compileOpts struct {
	props  string // property table path (optional)
	output string // output file path (stdout if empty)
}

// newCompileCmd creates the compile command. It runs the full pipeline on
// a graph file and writes the generated WGSL statement block.
func newCompileCmd() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile <graph.hcl>",
		Short: "Compile a graph file into a WGSL code fragment",
		Long: `Compile a graph file into a WGSL code fragment.

The graph is evaluated in dependency order and the declared outputs are
emitted as "let out_<name> = ...;" statements. A property table can
override the default values of the graph's properties.

Examples:
  shadergraph compile effect.hcl
  shadergraph compile effect.hcl --props tuning.toml -o effect.wgsl`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(loggerFromContext(c.Context()))
			result, err := runner.Execute(c.Context(), pipeline.Options{
				GraphPath: args[0],
				PropsPath: opts.props,
			})
			if err != nil {
				return err
			}
			code := result.Shader.Code
			if code != "" {
				code += "\n"
			}
			return writeOutput(opts.output, []byte(code))
		},
	}

	cmd.Flags().StringVar(&opts.props, "props", "", "property table (TOML) overriding graph defaults")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
