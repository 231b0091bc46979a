package expr

import "fmt"

// BuiltInOperator identifies a system-provided quantity available to the
// generated code without any per-particle storage, such as the simulation
// clock. Built-ins render as reads of the "sim_params" uniform.
type BuiltInOperator int

const (
	// BuiltInTime is the elapsed simulation time in seconds.
	BuiltInTime BuiltInOperator = iota
	// BuiltInDeltaTime is the simulation time step of the current frame,
	// in seconds.
	BuiltInDeltaTime
)

// Name returns the canonical name of the built-in (e.g. "time").
func (op BuiltInOperator) Name() string {
	switch op {
	case BuiltInTime:
		return "time"
	case BuiltInDeltaTime:
		return "delta_time"
	}
	return fmt.Sprintf("BuiltInOperator(%d)", int(op))
}

// ValueType returns the type of the built-in's values.
func (op BuiltInOperator) ValueType() ValueType {
	switch op {
	case BuiltInTime, BuiltInDeltaTime:
		return TypeFloat
	}
	return TypeFloat
}

// WGSL returns the WGSL expression reading the built-in.
func (op BuiltInOperator) WGSL() string {
	return "sim_params." + op.Name()
}

// LookupBuiltIn returns the built-in operator with the given canonical name.
// The second return value reports whether the name is known.
func LookupBuiltIn(name string) (BuiltInOperator, bool) {
	switch name {
	case "time":
		return BuiltInTime, true
	case "delta_time":
		return BuiltInDeltaTime, true
	}
	return 0, false
}
