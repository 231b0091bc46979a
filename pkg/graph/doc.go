// Package graph provides the editable node-graph structure of the shader
// graph compiler: typed, directional slots, polymorphic operation nodes,
// and the graph that owns both and arbitrates linking.
//
// # Overview
//
// A [Graph] owns its nodes and slots in two flat, append-only arenas and
// hands out dense one-based IDs ([NodeID], [SlotID]). All cross-references
// are by ID, never by pointer, so the link topology is free to contain
// arbitrary wiring — including cycles — without ownership cycles in the
// data structure.
//
// Linking is directional and cardinality-checked: an output slot fans out
// to any number of inputs, an input accepts a single source (relinking
// replaces it). Both sides of every link are kept consistent by
// [Graph.Link], [Graph.Unlink] and [Graph.UnlinkAll].
//
// # Nodes
//
// A [Node] declares its slots and knows how to map input expression
// handles to output handles ([Node.Eval]) without computing anything:
// evaluation builds expression trees in an [expr.Module], it never folds
// arithmetic. The package ships the primitive node set — [BinaryNode]
// (add/sub/mul/div), [AttributeNode], [TimeNode], [NormalizeNode],
// [LitNode] and [PropertyNode] — and consumers can implement Node for
// custom operations.
//
// # Basic usage
//
//	g := graph.New()
//	m := expr.NewModule()
//	pos := g.AddNode(graph.NewAttributeNode(expr.AttrPosition))
//	norm := g.AddNode(graph.NewNormalizeNode())
//	g.Link(g.OutputSlots(pos)[0], g.InputSlots(norm)[0])
//
// Evaluating a graph in dependency order (and rejecting link cycles) is
// the job of the pipeline package; this package only maintains structure.
//
// # Failure model
//
// Structural misuse — unknown IDs, linking in the wrong direction — is a
// bug in the calling code and panics. Evaluation-time mismatches between
// declared and supplied inputs are data conditions of authored graphs and
// are reported as [*ArityError] values from [Node.Eval].
package graph
