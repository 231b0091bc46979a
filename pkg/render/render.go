// Package render visualizes shader graphs as node-link diagrams.
//
// [ToDOT] converts a loaded graph definition to Graphviz DOT; [RenderSVG]
// rasterizes DOT to SVG for inspection in a browser or editor.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/vfxkit/shadergraph/pkg/graph"
	"github.com/vfxkit/shadergraph/pkg/graphfile"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed labels every edge with the slot names it connects and
	// includes slot types in node labels. When false, nodes show only
	// their name and kind.
	Detailed bool
}

// ToDOT converts a graph definition to Graphviz DOT format. The resulting
// DOT string can be rendered with [RenderSVG].
//
// Nodes are labeled "name\nkind"; declared outputs are rendered as
// doubly-circled terminal nodes fed by the slot they read.
func ToDOT(def *graphfile.GraphDef, opts Options) string {
	names := nodeNames(def)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, id := range def.Graph.NodeIDs() {
		label := fmtLabel(def.Graph, id, names[id], opts.Detailed)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", names[id], label)
	}
	for _, out := range def.Outputs {
		fmt.Fprintf(&buf, "  %q [shape=doublecircle, fontsize=10];\n", "out:"+out.Name)
	}

	buf.WriteString("\n")
	for _, id := range def.Graph.NodeIDs() {
		for _, sid := range def.Graph.OutputSlots(id) {
			s := def.Graph.Slot(sid)
			for _, remote := range s.Links() {
				r := def.Graph.Slot(remote)
				if opts.Detailed {
					fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
						names[id], names[r.NodeID()],
						s.Def().Name()+" -> "+r.Def().Name())
				} else {
					fmt.Fprintf(&buf, "  %q -> %q;\n", names[id], names[r.NodeID()])
				}
			}
		}
	}
	for _, out := range def.Outputs {
		src := def.Graph.Slot(out.Slot)
		fmt.Fprintf(&buf, "  %q -> %q;\n", names[src.NodeID()], "out:"+out.Name)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeNames inverts the definition's name registry; nodes without a name
// (added programmatically after loading) fall back to "kind#id".
func nodeNames(def *graphfile.GraphDef) map[graph.NodeID]string {
	names := make(map[graph.NodeID]string, def.Graph.NodeCount())
	for name, id := range def.Nodes {
		names[id] = name
	}
	for _, id := range def.Graph.NodeIDs() {
		if _, ok := names[id]; !ok {
			names[id] = fmt.Sprintf("%s#%d", def.Graph.Node(id).Kind(), id)
		}
	}
	return names
}

func fmtLabel(g *graph.Graph, id graph.NodeID, name string, detailed bool) string {
	label := name + "\n" + g.Node(id).Kind()
	if !detailed {
		return label
	}

	var parts []string
	for _, sid := range g.Slots(id) {
		def := g.Slot(sid).Def()
		part := fmt.Sprintf("%s %s", def.Dir(), def.Name())
		if vt, ok := def.ValueType(); ok {
			part += ": " + vt.String()
		}
		parts = append(parts, part)
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element to a zero-origin viewBox
// with explicit pixel dimensions, which renders consistently across
// browsers and image viewers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
