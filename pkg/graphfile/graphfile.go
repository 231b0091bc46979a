// Package graphfile loads shader graph definitions from declarative HCL
// files.
//
// A graph file declares nodes, links between their slots, and the named
// outputs of the effect:
//
//	node "attribute" "pos" {
//	  attr = "position"
//	}
//
//	node "normalize" "norm" {}
//
//	link {
//	  from = "pos.position"
//	  to   = "norm.in"
//	}
//
//	output "direction" {
//	  from = "norm.out"
//	}
//
// Slot references use the "node.slot" form, where node is the block label
// and slot is the declared slot name. [Load] and [Parse] build the graph
// and the expression module together and return both in a [GraphDef].
package graphfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vfxkit/shadergraph/pkg/expr"
	"github.com/vfxkit/shadergraph/pkg/graph"
)

var (
	// ErrUnknownKind is returned for a node block with an unrecognized kind
	// label.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrDuplicateNode is returned when two node blocks share a name.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrBadSlotRef is returned for a slot reference not of the form
	// "node.slot", or one naming an unknown node or slot.
	ErrBadSlotRef = errors.New("bad slot reference")

	// ErrUnknownAttribute is returned for an attribute node naming an
	// attribute outside the built-in set.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrBadValue is returned when a literal or property default cannot be
	// represented as a shader value.
	ErrBadValue = errors.New("bad value")
)

// Output is one named output of a loaded graph: the effect quantity a
// consumer reads after evaluation.
type Output struct {
	Name string
	Slot graph.SlotID
}

// GraphDef is the result of loading a graph file: the graph, the
// expression module its property nodes were declared on, the node blocks
// by name, and the declared outputs in file order.
type GraphDef struct {
	Graph   *graph.Graph
	Module  *expr.Module
	Nodes   map[string]graph.NodeID
	Outputs []Output
}

// fileBody is the top-level structure of a graph file.
type fileBody struct {
	Nodes   []*nodeBlock   `hcl:"node,block"`
	Links   []*linkBlock   `hcl:"link,block"`
	Outputs []*outputBlock `hcl:"output,block"`
}

// nodeBlock is a `node "kind" "name" {}` block; the body is kept raw and
// decoded per kind.
type nodeBlock struct {
	Kind string   `hcl:"kind,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type linkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

type outputBlock struct {
	Name string `hcl:"name,label"`
	From string `hcl:"from"`
}

type attributeBody struct {
	Attr string `hcl:"attr"`
}

type litBody struct {
	Value cty.Value `hcl:"value"`
	Type  *string   `hcl:"type,optional"`
}

type propertyBody struct {
	Default cty.Value `hcl:"default"`
	Type    *string   `hcl:"type,optional"`
}

type emptyBody struct{}

// Load reads and builds the graph file at path.
func Load(path string) (*GraphDef, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", path, diags)
	}
	return build(file.Body)
}

// Parse builds a graph definition from in-memory HCL source. The filename
// is used in diagnostics only.
func Parse(filename string, src []byte) (*GraphDef, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	return build(file.Body)
}

func build(body hcl.Body) (*GraphDef, error) {
	var parsed fileBody
	if diags := gohcl.DecodeBody(body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode graph file: %w", diags)
	}

	def := &GraphDef{
		Graph:  graph.New(),
		Module: expr.NewModule(),
		Nodes:  make(map[string]graph.NodeID, len(parsed.Nodes)),
	}

	for _, nb := range parsed.Nodes {
		if _, exists := def.Nodes[nb.Name]; exists {
			return nil, fmt.Errorf("node %q: %w", nb.Name, ErrDuplicateNode)
		}
		node, err := buildNode(def.Module, nb)
		if err != nil {
			return nil, err
		}
		def.Nodes[nb.Name] = def.Graph.AddNode(node)
	}

	for _, lb := range parsed.Links {
		from, err := def.resolveSlot(lb.From, graph.DirOutput)
		if err != nil {
			return nil, err
		}
		to, err := def.resolveSlot(lb.To, graph.DirInput)
		if err != nil {
			return nil, err
		}
		def.Graph.Link(from, to)
	}

	for _, ob := range parsed.Outputs {
		slot, err := def.resolveSlot(ob.From, graph.DirOutput)
		if err != nil {
			return nil, err
		}
		def.Outputs = append(def.Outputs, Output{Name: ob.Name, Slot: slot})
	}

	return def, nil
}

// buildNode decodes the kind-specific body of a node block and constructs
// the corresponding graph node. Property nodes declare their property on m.
func buildNode(m *expr.Module, nb *nodeBlock) (graph.Node, error) {
	switch nb.Kind {
	case "add", "sub", "mul", "div":
		if err := decodeEmpty(nb); err != nil {
			return nil, err
		}
		op, _ := lookupBinaryOp(nb.Kind)
		return graph.NewBinaryNode(op), nil

	case "normalize":
		if err := decodeEmpty(nb); err != nil {
			return nil, err
		}
		return graph.NewNormalizeNode(), nil

	case "time":
		if err := decodeEmpty(nb); err != nil {
			return nil, err
		}
		return graph.NewTimeNode(), nil

	case "attribute":
		var body attributeBody
		if diags := gohcl.DecodeBody(nb.Body, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("node %q: %w", nb.Name, diags)
		}
		attr, ok := expr.LookupAttribute(body.Attr)
		if !ok {
			return nil, fmt.Errorf("node %q: attr %q: %w", nb.Name, body.Attr, ErrUnknownAttribute)
		}
		return graph.NewAttributeNode(attr), nil

	case "lit":
		var body litBody
		if diags := gohcl.DecodeBody(nb.Body, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("node %q: %w", nb.Name, diags)
		}
		v, err := valueFromCty(body.Value, body.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nb.Name, err)
		}
		return graph.NewLitNode(v), nil

	case "property":
		var body propertyBody
		if diags := gohcl.DecodeBody(nb.Body, nil, &body); diags.HasErrors() {
			return nil, fmt.Errorf("node %q: %w", nb.Name, diags)
		}
		def, err := valueFromCty(body.Default, body.Type)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nb.Name, err)
		}
		ph := m.AddProperty(nb.Name, def)
		return graph.NewPropertyNode(m, ph), nil
	}
	return nil, fmt.Errorf("node %q: kind %q: %w", nb.Name, nb.Kind, ErrUnknownKind)
}

// decodeEmpty rejects stray attributes in a body declared without any.
func decodeEmpty(nb *nodeBlock) error {
	var body emptyBody
	if diags := gohcl.DecodeBody(nb.Body, nil, &body); diags.HasErrors() {
		return fmt.Errorf("node %q: %w", nb.Name, diags)
	}
	return nil
}

func lookupBinaryOp(kind string) (expr.BinaryOperator, bool) {
	switch kind {
	case "add":
		return expr.OpAdd, true
	case "sub":
		return expr.OpSub, true
	case "mul":
		return expr.OpMul, true
	case "div":
		return expr.OpDiv, true
	}
	return 0, false
}

// resolveSlot resolves a "node.slot" reference to a slot ID and checks its
// direction against the referencing context.
func (def *GraphDef) resolveSlot(ref string, want graph.SlotDir) (graph.SlotID, error) {
	nodeName, slotName, ok := strings.Cut(ref, ".")
	if !ok || nodeName == "" || slotName == "" {
		return 0, fmt.Errorf("%q: want \"node.slot\": %w", ref, ErrBadSlotRef)
	}
	id, ok := def.Nodes[nodeName]
	if !ok {
		return 0, fmt.Errorf("%q: no node %q: %w", ref, nodeName, ErrBadSlotRef)
	}
	for _, sid := range def.Graph.Slots(id) {
		s := def.Graph.Slot(sid)
		if s.Def().Name() != slotName {
			continue
		}
		if s.Dir() != want {
			return 0, fmt.Errorf("%q: slot is an %s, want %s: %w", ref, s.Dir(), want, ErrBadSlotRef)
		}
		return sid, nil
	}
	return 0, fmt.Errorf("%q: node %q has no slot %q: %w", ref, nodeName, slotName, ErrBadSlotRef)
}

// valueFromCty converts a decoded HCL value to a shader value. Numbers
// decode as f32 by default; a literal or property block may force the
// scalar type with `type = "int"`, `"uint"`, `"float"` or `"bool"`.
// Tuples of two to four numbers decode as the matching vector type.
func valueFromCty(v cty.Value, typeName *string) (expr.Value, error) {
	t := v.Type()
	switch {
	case t == cty.Bool:
		if typeName != nil && *typeName != "bool" {
			return expr.Value{}, fmt.Errorf("type %q does not fit a bool: %w", *typeName, ErrBadValue)
		}
		return expr.Bool(v.True()), nil

	case t == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		if typeName == nil {
			return expr.Float(float32(f)), nil
		}
		switch *typeName {
		case "float":
			return expr.Float(float32(f)), nil
		case "int":
			i, _ := v.AsBigFloat().Int64()
			return expr.Int(int32(i)), nil
		case "uint":
			u, _ := v.AsBigFloat().Uint64()
			return expr.Uint(uint32(u)), nil
		}
		return expr.Value{}, fmt.Errorf("type %q does not fit a number: %w", *typeName, ErrBadValue)

	case t.IsTupleType() || t.IsListType():
		if typeName != nil {
			return expr.Value{}, fmt.Errorf("type %q on a vector: %w", *typeName, ErrBadValue)
		}
		var comps []float32
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			if ev.Type() != cty.Number {
				return expr.Value{}, fmt.Errorf("vector component is not a number: %w", ErrBadValue)
			}
			f, _ := ev.AsBigFloat().Float64()
			comps = append(comps, float32(f))
		}
		switch len(comps) {
		case 2:
			return expr.Vec2(comps[0], comps[1]), nil
		case 3:
			return expr.Vec3(comps[0], comps[1], comps[2]), nil
		case 4:
			return expr.Vec4(comps[0], comps[1], comps[2], comps[3]), nil
		}
		return expr.Value{}, fmt.Errorf("vector needs 2 to 4 components, got %d: %w", len(comps), ErrBadValue)
	}
	return expr.Value{}, fmt.Errorf("unsupported value type %s: %w", t.FriendlyName(), ErrBadValue)
}
