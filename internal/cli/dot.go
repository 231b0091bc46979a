package cli

import (
	"github.com/spf13/cobra"

	"github.com/vfxkit/shadergraph/pkg/graphfile"
	"github.com/vfxkit/shadergraph/pkg/render"
)

// dotOpts holds the command-line flags for the dot command.
type dotOpts struct {
	svg      bool   // rasterize to SVG instead of emitting DOT
	detailed bool   // include slot names and types
	output   string // output file path (stdout if empty)
}

// newDotCmd creates the dot command, which renders a graph file as a
// node-link diagram.
func newDotCmd() *cobra.Command {
	var opts dotOpts

	cmd := &cobra.Command{
		Use:   "dot <graph.hcl>",
		Short: "Render a graph file as a Graphviz DOT or SVG diagram",
		Long: `Render a graph file as a Graphviz DOT or SVG diagram.

Examples:
  shadergraph dot effect.hcl
  shadergraph dot effect.hcl --detailed
  shadergraph dot effect.hcl --svg -o effect.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			def, err := graphfile.Load(args[0])
			if err != nil {
				return err
			}
			dot := render.ToDOT(def, render.Options{Detailed: opts.detailed})
			if !opts.svg {
				return writeOutput(opts.output, []byte(dot))
			}
			svg, err := render.RenderSVG(dot)
			if err != nil {
				return err
			}
			return writeOutput(opts.output, svg)
		},
	}

	cmd.Flags().BoolVar(&opts.svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with slot names and nodes with slot types")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}
