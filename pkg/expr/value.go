package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueType identifies the type of a value flowing through an expression,
// mirroring the WGSL types the generated code operates on.
type ValueType int

const (
	// TypeBool is a boolean scalar.
	TypeBool ValueType = iota
	// TypeInt is a 32-bit signed integer scalar.
	TypeInt
	// TypeUint is a 32-bit unsigned integer scalar.
	TypeUint
	// TypeFloat is a 32-bit floating point scalar.
	TypeFloat
	// TypeVec2 is a vector of two 32-bit floats.
	TypeVec2
	// TypeVec3 is a vector of three 32-bit floats.
	TypeVec3
	// TypeVec4 is a vector of four 32-bit floats.
	TypeVec4
)

// String returns the lowercase name of the type (e.g. "vec3").
func (t ValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeVec2:
		return "vec2"
	case TypeVec3:
		return "vec3"
	case TypeVec4:
		return "vec4"
	}
	return fmt.Sprintf("ValueType(%d)", int(t))
}

// WGSL returns the WGSL spelling of the type (e.g. "vec3<f32>").
func (t ValueType) WGSL() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "i32"
	case TypeUint:
		return "u32"
	case TypeFloat:
		return "f32"
	case TypeVec2:
		return "vec2<f32>"
	case TypeVec3:
		return "vec3<f32>"
	case TypeVec4:
		return "vec4<f32>"
	}
	return ""
}

// IsVector reports whether the type is one of the vector types.
func (t ValueType) IsVector() bool {
	return t == TypeVec2 || t == TypeVec3 || t == TypeVec4
}

// Value is an immutable constant embedded in a literal expression.
// The zero value is the boolean false; use the typed constructors
// ([Float], [Int], [Uint], [Bool], [Vec2], [Vec3], [Vec4]) to build values.
type Value struct {
	vtype ValueType
	b     bool
	i     int32
	u     uint32
	v     [4]float32 // scalar float in v[0], vectors in v[:n]
}

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{vtype: TypeBool, b: b} }

// Int creates a 32-bit signed integer value.
func Int(i int32) Value { return Value{vtype: TypeInt, i: i} }

// Uint creates a 32-bit unsigned integer value.
func Uint(u uint32) Value { return Value{vtype: TypeUint, u: u} }

// Float creates a 32-bit floating point value.
func Float(f float32) Value { return Value{vtype: TypeFloat, v: [4]float32{f}} }

// Vec2 creates a two-component vector value.
func Vec2(x, y float32) Value { return Value{vtype: TypeVec2, v: [4]float32{x, y}} }

// Vec3 creates a three-component vector value.
func Vec3(x, y, z float32) Value { return Value{vtype: TypeVec3, v: [4]float32{x, y, z}} }

// Vec4 creates a four-component vector value.
func Vec4(x, y, z, w float32) Value { return Value{vtype: TypeVec4, v: [4]float32{x, y, z, w}} }

// Type returns the value's type.
func (v Value) Type() ValueType { return v.vtype }

// Components returns the float components of a vector value.
// It panics if the value is not a vector.
func (v Value) Components() []float32 {
	switch v.vtype {
	case TypeVec2:
		return v.v[:2]
	case TypeVec3:
		return v.v[:3]
	case TypeVec4:
		return v.v[:4]
	}
	panic(fmt.Sprintf("expr: Components on non-vector value of type %s", v.vtype))
}

// WGSL renders the value as a WGSL literal.
//
// Floats always carry a decimal point ("1." rather than "1"), matching the
// WGSL abstract-float disambiguation used throughout the generated code.
// Vectors render as constructor calls, e.g. "vec3<f32>(1.,1.,1.)".
func (v Value) WGSL() string {
	switch v.vtype {
	case TypeBool:
		return strconv.FormatBool(v.b)
	case TypeInt:
		return strconv.FormatInt(int64(v.i), 10)
	case TypeUint:
		return strconv.FormatUint(uint64(v.u), 10) + "u"
	case TypeFloat:
		return wgslFloat(v.v[0])
	case TypeVec2, TypeVec3, TypeVec4:
		comps := v.Components()
		parts := make([]string, len(comps))
		for i, c := range comps {
			parts[i] = wgslFloat(c)
		}
		return fmt.Sprintf("%s(%s)", v.vtype.WGSL(), strings.Join(parts, ","))
	}
	return ""
}

// wgslFloat formats f as a WGSL float literal. The shortest representation
// is used, with a trailing "." appended when the result would otherwise
// parse as an integer literal (1 -> "1.", 1.5 -> "1.5").
func wgslFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".e") {
		s += "."
	}
	return s
}
