package cli

import (
	"fmt"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

// nodeKinds describes the node kinds accepted in graph files, with the
// slots each kind declares.
var nodeKinds = []struct {
	kind  string
	slots string
	desc  string
}{
	{"add", "lhs, rhs -> result", "add two values"},
	{"sub", "lhs, rhs -> result", "subtract two values"},
	{"mul", "lhs, rhs -> result", "multiply two values"},
	{"div", "lhs, rhs -> result", "divide two values"},
	{"normalize", "in -> out", "rescale a vector to unit length"},
	{"time", "-> time, delta_time", "simulation clock"},
	{"attribute", "-> <attr>", "read a particle attribute"},
	{"lit", "-> value", "constant value"},
	{"property", "-> <name>", "read an effect property"},
}

// newNodesCmd creates the nodes command, which lists the node kinds and
// particle attributes available to graph files.
func newNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List the available node kinds and particle attributes",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			var buf strings.Builder
			tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

			fmt.Fprintln(tw, "KIND\tSLOTS\tDESCRIPTION")
			for _, nk := range nodeKinds {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", nk.kind, nk.slots, nk.desc)
			}
			fmt.Fprintln(tw)

			fmt.Fprintln(tw, "ATTRIBUTE\tTYPE")
			for _, name := range slices.Sorted(slices.Values(expr.AttributeNames())) {
				attr, _ := expr.LookupAttribute(name)
				fmt.Fprintf(tw, "%s\t%s\n", name, attr.ValueType())
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			_, err := fmt.Fprint(c.OutOrStdout(), buf.String())
			return err
		},
	}
}
