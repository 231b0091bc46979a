// Package expr provides the expression arena and WGSL code generation
// layer of the shader graph compiler.
//
// # Overview
//
// Expressions describe the arithmetic a particle-update shader performs,
// without ever computing it: "3 + 2" is kept as an addition of two
// literals and rendered as the text "(3) + (2)". All expressions live in
// a [Module], an append-only arena addressed by copyable [Handle] values.
// Because parents reference children by handle, a sub-expression shared
// between several parents is stored (and later rendered) exactly once.
//
// # Building expressions
//
// Create a module and compose expressions through its constructors:
//
//	m := expr.NewModule()
//	pos := m.Attr(expr.AttrPosition)
//	vel := m.Attr(expr.AttrVelocity)
//	dt := m.BuiltIn(expr.BuiltInDeltaTime)
//	next := m.Add(pos, m.Mul(vel, dt))
//
// # Rendering
//
// An [EvalContext] renders handles to WGSL text, caching per handle so
// that repeated occurrences of a shared sub-expression reuse the first
// rendering (common-subexpression elimination at the text level):
//
//	ctx := expr.NewEvalContext(m)
//	text, err := ctx.Eval(next) // "(particle.position) + ((particle.velocity) * (sim_params.delta_time))"
//
// A context is valid for a single code generation pass; create a new one
// per pass.
//
// # Value model
//
// [Value] covers the WGSL scalar and float-vector types used by particle
// effects. [Attribute], [BuiltInOperator] and [Property] name the three
// external data surfaces of the generated code: the particle buffer, the
// simulation uniforms, and the effect's property storage.
package expr
