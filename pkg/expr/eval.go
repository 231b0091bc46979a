package expr

import (
	"fmt"
	"strings"
)

// EvalContext renders expression handles into WGSL text for one code
// generation pass.
//
// The context caches the rendered text per handle: within a single pass,
// any two occurrences of the same handle produce identical text and the
// variant-specific rendering work happens at most once. This is the
// common-subexpression-elimination guarantee for the generated code —
// nothing is ever folded numerically.
//
// Besides returning expression fragments, rendering can append whole
// statements (local variable assignments) to the context's statement
// buffer; callers splice [EvalContext.Statements] into the shader ahead
// of the fragments they received.
//
// A context is scoped to exactly one pass over one module. Reusing it for
// an unrelated pass would merge unrelated emissions through the stale
// cache; create a fresh context instead.
type EvalContext struct {
	module  *Module
	cache   map[Handle]string
	hoisted map[Handle]string
	stmts   []string
	locals  int
}

// NewEvalContext creates an evaluation context rendering expressions of m.
func NewEvalContext(m *Module) *EvalContext {
	return &EvalContext{
		module:  m,
		cache:   make(map[Handle]string),
		hoisted: make(map[Handle]string),
	}
}

// Module returns the module this context renders from.
func (c *EvalContext) Module() *Module { return c.module }

// Eval renders the expression referenced by h to WGSL text.
//
// The first evaluation of a handle renders it recursively; subsequent
// evaluations return the cached result (which may be a local variable
// name if the handle was hoisted with [EvalContext.EmitLocal]).
//
// Returns [ErrInvalidHandle] if h does not belong to the context's module,
// or [ErrInvalidProperty] if a property expression references an unknown
// property. No text is cached for a failed evaluation.
func (c *EvalContext) Eval(h Handle) (string, error) {
	if text, ok := c.cache[h]; ok {
		return text, nil
	}

	e, ok := c.module.Get(h)
	if !ok {
		return "", fmt.Errorf("eval %d: %w", h, ErrInvalidHandle)
	}

	var text string
	switch e.Kind() {
	case KindLiteral:
		text = e.Literal().WGSL()
	case KindAttribute:
		text = "particle." + e.Attribute().Name()
	case KindBuiltIn:
		text = e.BuiltIn().WGSL()
	case KindProperty:
		prop, ok := c.module.Property(e.Property())
		if !ok {
			return "", fmt.Errorf("eval %d: %w", h, ErrInvalidProperty)
		}
		text = "properties." + prop.Name()
	case KindBinary:
		lhs, err := c.Eval(e.Children()[0])
		if err != nil {
			return "", err
		}
		rhs, err := c.Eval(e.Children()[1])
		if err != nil {
			return "", err
		}
		text = fmt.Sprintf("(%s) %s (%s)", lhs, e.BinaryOp().Symbol(), rhs)
	case KindUnary:
		arg, err := c.Eval(e.Children()[0])
		if err != nil {
			return "", err
		}
		text = fmt.Sprintf("%s(%s)", e.UnaryOp().Name(), arg)
	default:
		return "", fmt.Errorf("eval %d: unknown expression kind %d", h, e.Kind())
	}

	c.cache[h] = text
	return text, nil
}

// EmitLocal renders h, assigns the result to a fresh local variable in the
// statement buffer, and rebinds the handle's cached text to the variable
// name. Every later occurrence of h in this pass renders as the variable.
//
// Calling EmitLocal twice for the same handle returns the same variable
// without emitting a second assignment.
func (c *EvalContext) EmitLocal(h Handle) (string, error) {
	if name, ok := c.hoisted[h]; ok {
		return name, nil
	}
	text, err := c.Eval(h)
	if err != nil {
		return "", err
	}
	name := c.MakeLocalVar()
	c.PushStmt(fmt.Sprintf("let %s = %s;", name, text))
	c.cache[h] = name
	c.hoisted[h] = name
	return name, nil
}

// localPrefix is the name prefix of generated local variables.
const localPrefix = "var"

// MakeLocalVar reserves and returns a fresh local variable name.
// Names are dense within a pass: "var0", "var1", ...
func (c *EvalContext) MakeLocalVar() string {
	name := fmt.Sprintf("%s%d", localPrefix, c.locals)
	c.locals++
	return name
}

// PushStmt appends a complete statement to the statement buffer.
func (c *EvalContext) PushStmt(stmt string) {
	c.stmts = append(c.stmts, stmt)
}

// Statements returns the accumulated statement buffer, one statement per
// line. The result is empty when no statements were emitted.
func (c *EvalContext) Statements() string {
	return strings.Join(c.stmts, "\n")
}
