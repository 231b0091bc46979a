// Package pipeline compiles shader graphs into WGSL code fragments.
//
// This package implements the complete load → evaluate → assemble pipeline
// shared by the CLI and by library consumers embedding the compiler.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse the graph file (and optional property table) into a
//     graph and expression module
//  2. Evaluate: Visit nodes in dependency order, building expression
//     trees for every output slot
//  3. Assemble: Render the expressions of the declared outputs into WGSL
//     statements, hoisting shared values into local variables
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    GraphPath: "effect.hcl",
//	    PropsPath: "props.toml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Shader.Code)
//
// Run individual stages:
//
//	def, err := graphfile.Load("effect.hcl")
//	handles, err := pipeline.Evaluate(def.Graph, def.Module)
//	shader, err := pipeline.Assemble(def, handles)
package pipeline

import (
	"errors"
	"fmt"

	"github.com/vfxkit/shadergraph/pkg/expr"
	"github.com/vfxkit/shadergraph/pkg/graph"
	"github.com/vfxkit/shadergraph/pkg/graphfile"
)

var (
	// ErrCycle is returned when the link topology contains a cycle, which
	// makes dependency-ordered evaluation impossible.
	ErrCycle = errors.New("graph contains a cycle")

	// ErrUnconnectedInput is returned when a node's input slot has no
	// source. Evaluation needs one expression per declared input.
	ErrUnconnectedInput = errors.New("unconnected input slot")

	// ErrPropertyType is returned when a property table entry does not
	// match the type of the graph property it overrides.
	ErrPropertyType = errors.New("property type mismatch")
)

// Shader is an assembled WGSL code fragment: the emitted statements plus
// the local variable holding each declared output.
type Shader struct {
	// Code is the generated statement block, one statement per line.
	Code string

	// Outputs maps each declared output name to the WGSL local variable
	// carrying its value within Code.
	Outputs map[string]string
}

// Evaluate visits every node of g in dependency order and builds its
// output expressions in m. The result maps each output slot to the handle
// of the expression it produces.
//
// Returns [ErrCycle] if the link topology is not a DAG, and
// [ErrUnconnectedInput] if any input slot of any node has no source.
// Node evaluation failures (such as [*graph.ArityError]) are passed
// through with node context.
func Evaluate(g *graph.Graph, m *expr.Module) (map[graph.SlotID]expr.Handle, error) {
	order, err := topoOrder(g)
	if err != nil {
		return nil, err
	}

	handles := make(map[graph.SlotID]expr.Handle, g.SlotCount())
	for _, id := range order {
		node := g.Node(id)

		inSlots := g.InputSlots(id)
		inputs := make([]expr.Handle, 0, len(inSlots))
		for _, sid := range inSlots {
			src := g.Slot(sid).Source()
			if !src.IsValid() {
				return nil, fmt.Errorf("node %d (%s): input %q: %w",
					id, node.Kind(), g.Slot(sid).Def().Name(), ErrUnconnectedInput)
			}
			// Sources precede their consumers in topological order, so the
			// handle is always present by now.
			inputs = append(inputs, handles[src])
		}

		outs, err := node.Eval(m, inputs)
		if err != nil {
			return nil, fmt.Errorf("node %d (%s): %w", id, node.Kind(), err)
		}
		outSlots := g.OutputSlots(id)
		if len(outs) != len(outSlots) {
			return nil, fmt.Errorf("node %d (%s): produced %d output(s) for %d slot(s)",
				id, node.Kind(), len(outs), len(outSlots))
		}
		for i, sid := range outSlots {
			handles[sid] = outs[i]
		}
	}
	return handles, nil
}

// topoOrder returns the graph's nodes in dependency order: every node
// appears after the nodes feeding its inputs. Returns [ErrCycle] when no
// such order exists. The order is deterministic for a given graph.
func topoOrder(g *graph.Graph) ([]graph.NodeID, error) {
	const (
		white = iota
		gray
		black
	)

	ids := g.NodeIDs()
	color := make(map[graph.NodeID]int, len(ids))
	order := make([]graph.NodeID, 0, len(ids))
	var hasCycle bool

	var dfs func(id graph.NodeID)
	dfs = func(id graph.NodeID) {
		color[id] = gray
		for _, sid := range g.InputSlots(id) {
			src := g.Slot(sid).Source()
			if !src.IsValid() {
				continue
			}
			dep := g.Slot(src).NodeID()
			switch color[dep] {
			case white:
				dfs(dep)
				if hasCycle {
					return
				}
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
		order = append(order, id)
	}

	for _, id := range ids {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return nil, ErrCycle
			}
		}
	}
	return order, nil
}

// Assemble renders the declared outputs of an evaluated graph into a WGSL
// statement block.
//
// Output slots feeding more than one input are hoisted into local
// variables first, in slot order, so their text is emitted once no matter
// how many consumers reference it. Each declared output then becomes a
// "let out_<name> = ...;" statement, in declaration order.
func Assemble(def *graphfile.GraphDef, handles map[graph.SlotID]expr.Handle) (*Shader, error) {
	ctx := expr.NewEvalContext(def.Module)

	for _, id := range def.Graph.NodeIDs() {
		for _, sid := range def.Graph.OutputSlots(id) {
			if len(def.Graph.Slot(sid).Links()) < 2 {
				continue
			}
			if h, ok := handles[sid]; ok {
				if _, err := ctx.EmitLocal(h); err != nil {
					return nil, fmt.Errorf("hoist slot %d: %w", sid, err)
				}
			}
		}
	}

	outputs := make(map[string]string, len(def.Outputs))
	for _, out := range def.Outputs {
		h, ok := handles[out.Slot]
		if !ok {
			return nil, fmt.Errorf("output %q: slot %d was not evaluated", out.Name, out.Slot)
		}
		text, err := ctx.Eval(h)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", out.Name, err)
		}
		name := "out_" + out.Name
		ctx.PushStmt(fmt.Sprintf("let %s = %s;", name, text))
		outputs[out.Name] = name
	}

	return &Shader{Code: ctx.Statements(), Outputs: outputs}, nil
}

// Compile evaluates and assembles a loaded graph definition in one step.
func Compile(def *graphfile.GraphDef) (*Shader, error) {
	handles, err := Evaluate(def.Graph, def.Module)
	if err != nil {
		return nil, err
	}
	return Assemble(def, handles)
}
