package expr

import "fmt"

// BinaryOperator identifies an infix arithmetic operator applied to two
// sub-expressions.
type BinaryOperator int

const (
	// OpAdd is the addition operator.
	OpAdd BinaryOperator = iota
	// OpSub is the subtraction operator.
	OpSub
	// OpMul is the multiplication operator.
	OpMul
	// OpDiv is the division operator.
	OpDiv
)

// Name returns the lowercase operator name (e.g. "add").
func (op BinaryOperator) Name() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	}
	return fmt.Sprintf("BinaryOperator(%d)", int(op))
}

// Symbol returns the WGSL infix symbol of the operator (e.g. "+").
func (op BinaryOperator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// UnaryOperator identifies a numeric function applied to one sub-expression.
type UnaryOperator int

const (
	// OpNormalize rescales a vector to unit length.
	OpNormalize UnaryOperator = iota
)

// Name returns the lowercase operator name, which is also the WGSL function
// name the operator renders to (e.g. "normalize").
func (op UnaryOperator) Name() string {
	switch op {
	case OpNormalize:
		return "normalize"
	}
	return fmt.Sprintf("UnaryOperator(%d)", int(op))
}
