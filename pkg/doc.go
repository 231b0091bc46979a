// Package pkg provides the core libraries of the shadergraph compiler.
//
// # Overview
//
// shadergraph compiles editable node graphs describing particle effect
// behavior into WGSL code fragments. The pkg directory is organized along
// the data flow:
//
//	Graph file (HCL) + property table (TOML)
//	         ↓
//	    [graphfile] / [props] (load the declarative definition)
//	         ↓
//	    [graph] package (nodes, slots, links)
//	         ↓
//	    [expr] package (expression arena + WGSL rendering)
//	         ↓
//	    [pipeline] package (dependency-ordered evaluation + assembly)
//	         ↓
//	    WGSL statement block / [render] diagrams
//
// # Main Packages
//
// [expr] - Expression arena and code generation. A Module owns immutable
// expression trees referenced by handles; an EvalContext renders handles to
// WGSL text with per-handle caching, so shared sub-expressions are emitted
// once.
//
// [graph] - The editable graph structure: typed directional slots,
// polymorphic operation nodes, and cardinality-checked linking.
//
// [graphfile] - Declarative HCL graph definitions (nodes, links, outputs).
//
// [props] - TOML property tables assigning default values to effect
// properties.
//
// [pipeline] - The load → evaluate → assemble pipeline shared by the CLI
// and embedding consumers.
//
// [render] - Graphviz DOT and SVG visualization of loaded graphs.
//
// [buildinfo] - Build-time version information.
//
// # Quick Start
//
// Compile a graph file to a WGSL fragment:
//
//	def, err := graphfile.Load("effect.hcl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shader, err := pipeline.Compile(def)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(shader.Code)
//
// Build a graph programmatically:
//
//	g := graph.New()
//	m := expr.NewModule()
//	pos := g.AddNode(graph.NewAttributeNode(expr.AttrPosition))
//	norm := g.AddNode(graph.NewNormalizeNode())
//	g.Link(g.OutputSlots(pos)[0], g.InputSlots(norm)[0])
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/expr/...   # Specific package
//	go test -run Example     # Examples only
//
// [expr]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/expr
// [graph]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/graph
// [graphfile]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/graphfile
// [props]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/props
// [pipeline]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/render
// [buildinfo]: https://pkg.go.dev/github.com/vfxkit/shadergraph/pkg/buildinfo
package pkg
