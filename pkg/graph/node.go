package graph

import (
	"fmt"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

// ArityError is returned by [Node.Eval] when the number of supplied input
// expressions does not match the node's declared input slots. This is a
// recoverable, user-facing condition — typically an unconnected input in
// an authored graph — so it is reported as an error rather than a panic.
type ArityError struct {
	Node string // node kind, e.g. "add"
	Want int    // declared input count
	Got  int    // supplied input count
}

// Error implements the error interface.
func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d input(s), got %d", e.Node, e.Want, e.Got)
}

// Node is one evaluable unit of a graph.
//
// Slots returns the node's fixed slot declarations; their order defines
// the positional meaning of Eval's inputs and outputs. Eval consumes
// exactly one expression handle per declared input slot, in declaration
// order, and produces exactly one handle per declared output slot. It
// builds expression tree nodes in m without evaluating them — "3 + 2" is
// never reduced to "5".
//
// Eval either fully succeeds or fully fails; on an input-count mismatch
// it returns an [*ArityError] and no handles.
type Node interface {
	// Kind returns the lowercase node kind (e.g. "add", "attribute").
	Kind() string
	// Slots returns the node's slot declarations.
	Slots() []SlotDef
	// Eval maps input expressions to output expressions, allocating new
	// expressions in m.
	Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error)
}

// BinaryNode applies an infix arithmetic operator to two inputs.
// Its slots are the untyped inputs "lhs" and "rhs" and the untyped
// output "result".
type BinaryNode struct {
	op    expr.BinaryOperator
	slots []SlotDef
}

// NewBinaryNode creates an arithmetic node for the given operator.
func NewBinaryNode(op expr.BinaryOperator) *BinaryNode {
	return &BinaryNode{
		op: op,
		slots: []SlotDef{
			Input("lhs"),
			Input("rhs"),
			Output("result"),
		},
	}
}

// NewAddNode creates a node adding two values.
func NewAddNode() *BinaryNode { return NewBinaryNode(expr.OpAdd) }

// NewSubNode creates a node subtracting two values.
func NewSubNode() *BinaryNode { return NewBinaryNode(expr.OpSub) }

// NewMulNode creates a node multiplying two values.
func NewMulNode() *BinaryNode { return NewBinaryNode(expr.OpMul) }

// NewDivNode creates a node dividing two values.
func NewDivNode() *BinaryNode { return NewBinaryNode(expr.OpDiv) }

// Op returns the node's operator.
func (n *BinaryNode) Op() expr.BinaryOperator { return n.op }

// Kind returns the operator name ("add", "sub", "mul", "div").
func (n *BinaryNode) Kind() string { return n.op.Name() }

// Slots returns the node's slot declarations.
func (n *BinaryNode) Slots() []SlotDef { return n.slots }

// Eval wraps the two inputs in a binary operator expression.
func (n *BinaryNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 2 {
		return nil, &ArityError{Node: n.Kind(), Want: 2, Got: len(inputs)}
	}
	return []expr.Handle{m.Binary(n.op, inputs[0], inputs[1])}, nil
}

// AttributeNode reads a single particle attribute. It has no inputs and
// one output named and typed after the attribute.
type AttributeNode struct {
	attr  expr.Attribute
	slots []SlotDef
}

// NewAttributeNode creates a node reading the given attribute.
func NewAttributeNode(attr expr.Attribute) *AttributeNode {
	return &AttributeNode{
		attr:  attr,
		slots: []SlotDef{TypedOutput(attr.Name(), attr.ValueType())},
	}
}

// Attr returns the attribute this node reads.
func (n *AttributeNode) Attr() expr.Attribute { return n.attr }

// SetAttr changes the attribute this node reads. The slot declaration
// follows the new attribute; slots already allocated in a graph keep
// their original declaration.
func (n *AttributeNode) SetAttr(attr expr.Attribute) {
	n.attr = attr
	n.slots[0] = TypedOutput(attr.Name(), attr.ValueType())
}

// Kind returns "attribute".
func (n *AttributeNode) Kind() string { return "attribute" }

// Slots returns the node's slot declarations.
func (n *AttributeNode) Slots() []SlotDef { return n.slots }

// Eval produces one attribute-read expression. It accepts no inputs.
func (n *AttributeNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 0 {
		return nil, &ArityError{Node: n.Kind(), Want: 0, Got: len(inputs)}
	}
	return []expr.Handle{m.Attr(n.attr)}, nil
}

// timeOutputs is the fixed order of the TimeNode outputs.
var timeOutputs = [2]expr.BuiltInOperator{expr.BuiltInTime, expr.BuiltInDeltaTime}

// TimeNode exposes the simulation clock. It has no inputs and two
// outputs, in fixed order: elapsed time, then frame delta time.
type TimeNode struct {
	slots []SlotDef
}

// NewTimeNode creates a time node.
func NewTimeNode() *TimeNode {
	slots := make([]SlotDef, len(timeOutputs))
	for i, op := range timeOutputs {
		slots[i] = TypedOutput(op.Name(), op.ValueType())
	}
	return &TimeNode{slots: slots}
}

// Kind returns "time".
func (n *TimeNode) Kind() string { return "time" }

// Slots returns the node's slot declarations.
func (n *TimeNode) Slots() []SlotDef { return n.slots }

// Eval produces the built-in time and delta-time expressions, in that
// order. It accepts no inputs.
func (n *TimeNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 0 {
		return nil, &ArityError{Node: n.Kind(), Want: 0, Got: len(inputs)}
	}
	outs := make([]expr.Handle, len(timeOutputs))
	for i, op := range timeOutputs {
		outs[i] = m.BuiltIn(op)
	}
	return outs, nil
}

// NormalizeNode rescales a vector to unit length. It has one untyped
// input "in" and one untyped output "out".
type NormalizeNode struct {
	slots []SlotDef
}

// NewNormalizeNode creates a normalize node.
func NewNormalizeNode() *NormalizeNode {
	return &NormalizeNode{
		slots: []SlotDef{Input("in"), Output("out")},
	}
}

// Kind returns "normalize".
func (n *NormalizeNode) Kind() string { return "normalize" }

// Slots returns the node's slot declarations.
func (n *NormalizeNode) Slots() []SlotDef { return n.slots }

// Eval wraps the single input in a normalize expression.
func (n *NormalizeNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 1 {
		return nil, &ArityError{Node: n.Kind(), Want: 1, Got: len(inputs)}
	}
	return []expr.Handle{m.Normalize(inputs[0])}, nil
}

// LitNode produces a constant value. It has no inputs and one typed
// output "value".
type LitNode struct {
	value expr.Value
	slots []SlotDef
}

// NewLitNode creates a literal node holding the given constant.
func NewLitNode(v expr.Value) *LitNode {
	return &LitNode{
		value: v,
		slots: []SlotDef{TypedOutput("value", v.Type())},
	}
}

// Value returns the node's constant.
func (n *LitNode) Value() expr.Value { return n.value }

// Kind returns "lit".
func (n *LitNode) Kind() string { return "lit" }

// Slots returns the node's slot declarations.
func (n *LitNode) Slots() []SlotDef { return n.slots }

// Eval produces one literal expression. It accepts no inputs.
func (n *LitNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 0 {
		return nil, &ArityError{Node: n.Kind(), Want: 0, Got: len(inputs)}
	}
	return []expr.Handle{m.Lit(n.value)}, nil
}

// PropertyNode reads an effect property resolved from external storage
// at render time. It has no inputs and one typed output named after the
// property.
type PropertyNode struct {
	prop  expr.PropertyHandle
	slots []SlotDef
}

// NewPropertyNode creates a node reading the property referenced by ph,
// which must have been declared on m with [expr.Module.AddProperty].
// It panics on a foreign handle, like [expr.Module.Prop].
func NewPropertyNode(m *expr.Module, ph expr.PropertyHandle) *PropertyNode {
	p, ok := m.Property(ph)
	if !ok {
		panic(fmt.Sprintf("graph: NewPropertyNode with unknown property handle %d", ph))
	}
	return &PropertyNode{
		prop:  ph,
		slots: []SlotDef{TypedOutput(p.Name(), p.ValueType())},
	}
}

// Property returns the handle of the property this node reads.
func (n *PropertyNode) Property() expr.PropertyHandle { return n.prop }

// Kind returns "property".
func (n *PropertyNode) Kind() string { return "property" }

// Slots returns the node's slot declarations.
func (n *PropertyNode) Slots() []SlotDef { return n.slots }

// Eval produces one property-read expression. It accepts no inputs.
func (n *PropertyNode) Eval(m *expr.Module, inputs []expr.Handle) ([]expr.Handle, error) {
	if len(inputs) != 0 {
		return nil, &ArityError{Node: n.Kind(), Want: 0, Got: len(inputs)}
	}
	return []expr.Handle{m.Prop(n.prop)}, nil
}
