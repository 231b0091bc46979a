package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle is returned when an expression handle does not
	// reference an entry of the module it is evaluated against. This
	// usually means a handle from one module was used with another.
	ErrInvalidHandle = errors.New("invalid expression handle")

	// ErrInvalidProperty is returned when a property expression references
	// a property handle unknown to the module.
	ErrInvalidProperty = errors.New("invalid property handle")
)

// Handle is an opaque reference to an expression owned by a [Module].
// Handles are cheap to copy and compare, and stay valid for the lifetime
// of their module: modules only ever append, never mutate or remove.
//
// The zero Handle references nothing and is never returned by a module.
type Handle uint32

// IsValid reports whether the handle references an expression at all.
// A valid handle may still belong to a different module; [Module.Get]
// performs the authoritative check.
func (h Handle) IsValid() bool { return h != 0 }

func (h Handle) index() int { return int(h) - 1 }

// PropertyHandle is an opaque reference to a property declared on a
// [Module] with [Module.AddProperty].
//
// The zero PropertyHandle references nothing.
type PropertyHandle uint32

// IsValid reports whether the handle references a property at all.
func (ph PropertyHandle) IsValid() bool { return ph != 0 }

func (ph PropertyHandle) index() int { return int(ph) - 1 }

// Property is a named parameter resolved from external storage when the
// generated shader runs. A property expression renders as a read of
// "properties.<name>"; the default value documents the property's type
// and serves as its initial storage content.
type Property struct {
	name string
	def  Value
}

// NewProperty creates a property with the given name and default value.
func NewProperty(name string, def Value) Property {
	return Property{name: name, def: def}
}

// Name returns the property name.
func (p Property) Name() string { return p.name }

// Default returns the property's default value.
func (p Property) Default() Value { return p.def }

// ValueType returns the type of the property's values, taken from its
// default value.
func (p Property) ValueType() ValueType { return p.def.Type() }

// Kind discriminates the expression variants stored in a [Module].
type Kind int

const (
	// KindLiteral is a constant value.
	KindLiteral Kind = iota
	// KindAttribute is a read of a per-particle attribute.
	KindAttribute
	// KindBuiltIn is a read of a system-provided quantity.
	KindBuiltIn
	// KindProperty is a read of an externally stored property.
	KindProperty
	// KindBinary is an infix arithmetic operation on two sub-expressions.
	KindBinary
	// KindUnary is a numeric function applied to one sub-expression.
	KindUnary
)

// Expr is a single node of an expression tree. Expressions are immutable
// once created and reference their children by [Handle], so a child shared
// between several parents is stored once (the tree is really a DAG).
//
// Expressions are created through a [Module]; the zero Expr is a literal
// boolean false.
type Expr struct {
	kind Kind

	value   Value           // KindLiteral
	attr    Attribute       // KindAttribute
	builtin BuiltInOperator // KindBuiltIn
	prop    PropertyHandle  // KindProperty
	binOp   BinaryOperator  // KindBinary
	unOp    UnaryOperator   // KindUnary

	// Child handles: binary uses both, unary uses left only.
	left, right Handle
}

// Kind returns the expression variant.
func (e Expr) Kind() Kind { return e.kind }

// Literal returns the constant of a [KindLiteral] expression.
func (e Expr) Literal() Value { return e.value }

// Attribute returns the attribute of a [KindAttribute] expression.
func (e Expr) Attribute() Attribute { return e.attr }

// BuiltIn returns the operator of a [KindBuiltIn] expression.
func (e Expr) BuiltIn() BuiltInOperator { return e.builtin }

// Property returns the property handle of a [KindProperty] expression.
func (e Expr) Property() PropertyHandle { return e.prop }

// BinaryOp returns the operator of a [KindBinary] expression.
func (e Expr) BinaryOp() BinaryOperator { return e.binOp }

// UnaryOp returns the operator of a [KindUnary] expression.
func (e Expr) UnaryOp() UnaryOperator { return e.unOp }

// Children returns the child handles of the expression: two for binary
// operations, one for unary operations, none for leaves.
func (e Expr) Children() []Handle {
	switch e.kind {
	case KindBinary:
		return []Handle{e.left, e.right}
	case KindUnary:
		return []Handle{e.left}
	}
	return nil
}

// Module is the append-only arena owning every expression ever built for
// one effect, plus the properties those expressions may reference.
//
// All constructors return a [Handle] into the arena. Handles may be reused
// freely as children of later expressions; sharing a handle is what allows
// the evaluation context to render a common sub-expression only once.
//
// The zero value is an empty module ready for use. A Module is not safe
// for concurrent use without external synchronization.
type Module struct {
	exprs []Expr
	props []Property
}

// NewModule creates an empty module.
func NewModule() *Module { return &Module{} }

// Len returns the number of expressions in the module.
func (m *Module) Len() int { return len(m.exprs) }

func (m *Module) push(e Expr) Handle {
	m.exprs = append(m.exprs, e)
	return Handle(len(m.exprs))
}

// Get returns the expression referenced by h.
// The second return value reports whether h belongs to this module.
func (m *Module) Get(h Handle) (Expr, bool) {
	if !h.IsValid() || h.index() >= len(m.exprs) {
		return Expr{}, false
	}
	return m.exprs[h.index()], true
}

// Lit creates a literal expression holding the given constant.
func (m *Module) Lit(v Value) Handle {
	return m.push(Expr{kind: KindLiteral, value: v})
}

// Attr creates an expression reading the given particle attribute.
func (m *Module) Attr(a Attribute) Handle {
	return m.push(Expr{kind: KindAttribute, attr: a})
}

// BuiltIn creates an expression reading the given built-in quantity.
func (m *Module) BuiltIn(op BuiltInOperator) Handle {
	return m.push(Expr{kind: KindBuiltIn, builtin: op})
}

// AddProperty declares a property on the module and returns its handle.
// Property names are not required to be unique; the declarative layers
// built on top of the module enforce uniqueness where it matters.
func (m *Module) AddProperty(name string, def Value) PropertyHandle {
	m.props = append(m.props, NewProperty(name, def))
	return PropertyHandle(len(m.props))
}

// Property returns the property referenced by ph.
// The second return value reports whether ph belongs to this module.
func (m *Module) Property(ph PropertyHandle) (Property, bool) {
	if !ph.IsValid() || ph.index() >= len(m.props) {
		return Property{}, false
	}
	return m.props[ph.index()], true
}

// Properties returns all properties declared on the module, in
// declaration order. The returned slice must not be modified.
func (m *Module) Properties() []Property { return m.props }

// PropertyHandleByName returns the handle of the first property with the
// given name, in declaration order. The second return value reports
// whether any property matched.
func (m *Module) PropertyHandleByName(name string) (PropertyHandle, bool) {
	for i := range m.props {
		if m.props[i].name == name {
			return PropertyHandle(i + 1), true
		}
	}
	return 0, false
}

// SetPropertyDefault replaces the default value of the property referenced
// by ph, keeping its name. Expressions reading the property are unaffected;
// they reference the property by handle, not by value. It panics on a
// foreign handle, like [Module.Prop].
func (m *Module) SetPropertyDefault(ph PropertyHandle, def Value) {
	if _, ok := m.Property(ph); !ok {
		panic(fmt.Sprintf("expr: SetPropertyDefault with unknown property handle %d", ph))
	}
	m.props[ph.index()].def = def
}

// Prop creates an expression reading the property referenced by ph.
// It panics if ph was not returned by this module's AddProperty; passing
// a foreign handle is a bug in the caller, not a data condition.
func (m *Module) Prop(ph PropertyHandle) Handle {
	if _, ok := m.Property(ph); !ok {
		panic(fmt.Sprintf("expr: Prop with unknown property handle %d", ph))
	}
	return m.push(Expr{kind: KindProperty, prop: ph})
}

// Binary creates an expression applying op to the lhs and rhs
// sub-expressions. The operands are not evaluated or folded; "3 + 2"
// stays "3 + 2". It panics if either handle is not from this module.
func (m *Module) Binary(op BinaryOperator, lhs, rhs Handle) Handle {
	m.mustOwn(lhs)
	m.mustOwn(rhs)
	return m.push(Expr{kind: KindBinary, binOp: op, left: lhs, right: rhs})
}

// Add creates an addition expression. See [Module.Binary].
func (m *Module) Add(lhs, rhs Handle) Handle { return m.Binary(OpAdd, lhs, rhs) }

// Sub creates a subtraction expression. See [Module.Binary].
func (m *Module) Sub(lhs, rhs Handle) Handle { return m.Binary(OpSub, lhs, rhs) }

// Mul creates a multiplication expression. See [Module.Binary].
func (m *Module) Mul(lhs, rhs Handle) Handle { return m.Binary(OpMul, lhs, rhs) }

// Div creates a division expression. See [Module.Binary].
func (m *Module) Div(lhs, rhs Handle) Handle { return m.Binary(OpDiv, lhs, rhs) }

// Unary creates an expression applying op to the given sub-expression.
// It panics if the handle is not from this module.
func (m *Module) Unary(op UnaryOperator, x Handle) Handle {
	m.mustOwn(x)
	return m.push(Expr{kind: KindUnary, unOp: op, left: x})
}

// Normalize creates a vector normalization expression. See [Module.Unary].
func (m *Module) Normalize(x Handle) Handle { return m.Unary(OpNormalize, x) }

// mustOwn panics if h does not reference an expression of this module.
// Child handles are validated at construction so that every expression
// stored in the arena is structurally sound by the time it is rendered.
func (m *Module) mustOwn(h Handle) {
	if _, ok := m.Get(h); !ok {
		panic(fmt.Sprintf("expr: handle %d does not belong to this module", h))
	}
}
