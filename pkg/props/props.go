// Package props loads effect property tables from TOML files.
//
// A property table assigns default values to the named properties a shader
// graph references:
//
//	[properties]
//	speed   = 1.5
//	gravity = [0.0, -9.81, 0.0]
//	seed    = { value = 42, type = "uint" }
//
// Scalars follow their TOML type (integers become i32, floats f32); an
// inline table with a "type" key forces the scalar type. Arrays of two to
// four numbers become vectors. [Table.Register] declares the table's
// properties on an expression module in file order.
package props

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

// ErrBadProperty is returned when a table entry cannot be represented as a
// shader value.
var ErrBadProperty = errors.New("bad property value")

// Table is an ordered set of named property defaults.
type Table struct {
	names  []string
	values map[string]expr.Value
}

type tableFile struct {
	Properties map[string]any `toml:"properties"`
}

// Load reads and parses the property table at path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a property table from TOML source. Entries keep their file
// order.
func Parse(data []byte) (*Table, error) {
	var raw tableFile
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	t := &Table{values: make(map[string]expr.Value, len(raw.Properties))}
	for _, key := range md.Keys() {
		// Property entries sit exactly one level below [properties]; the
		// table header itself and inline-table sub-keys are skipped.
		if len(key) != 2 || key[0] != "properties" {
			continue
		}
		name := key[1]
		v, err := valueFromTOML(raw.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		t.names = append(t.names, name)
		t.values[name] = v
	}
	return t, nil
}

// Len returns the number of properties in the table.
func (t *Table) Len() int { return len(t.names) }

// Names returns the property names in file order.
// The returned slice must not be modified.
func (t *Table) Names() []string { return t.names }

// Value returns the default value of the named property.
// The second return value reports whether the property exists.
func (t *Table) Value(name string) (expr.Value, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Register declares every property of the table on m, in file order, and
// returns the handles by property name.
func (t *Table) Register(m *expr.Module) map[string]expr.PropertyHandle {
	handles := make(map[string]expr.PropertyHandle, len(t.names))
	for _, name := range t.names {
		handles[name] = m.AddProperty(name, t.values[name])
	}
	return handles
}

// valueFromTOML converts a decoded TOML value to a shader value.
func valueFromTOML(v any) (expr.Value, error) {
	switch x := v.(type) {
	case bool:
		return expr.Bool(x), nil
	case int64:
		return expr.Int(int32(x)), nil
	case float64:
		return expr.Float(float32(x)), nil
	case []any:
		comps := make([]float32, 0, len(x))
		for _, e := range x {
			f, ok := tomlFloat(e)
			if !ok {
				return expr.Value{}, fmt.Errorf("vector component %v is not a number: %w", e, ErrBadProperty)
			}
			comps = append(comps, f)
		}
		switch len(comps) {
		case 2:
			return expr.Vec2(comps[0], comps[1]), nil
		case 3:
			return expr.Vec3(comps[0], comps[1], comps[2]), nil
		case 4:
			return expr.Vec4(comps[0], comps[1], comps[2], comps[3]), nil
		}
		return expr.Value{}, fmt.Errorf("vector needs 2 to 4 components, got %d: %w", len(comps), ErrBadProperty)
	case map[string]any:
		return typedValue(x)
	}
	return expr.Value{}, fmt.Errorf("unsupported value %v (%T): %w", v, v, ErrBadProperty)
}

// typedValue converts an inline table of the form {value = ..., type = "..."}.
func typedValue(entry map[string]any) (expr.Value, error) {
	inner, ok := entry["value"]
	if !ok {
		return expr.Value{}, fmt.Errorf(`inline table needs a "value" key: %w`, ErrBadProperty)
	}
	typeName, _ := entry["type"].(string)
	if typeName == "" {
		return valueFromTOML(inner)
	}
	for key := range entry {
		if key != "value" && key != "type" {
			return expr.Value{}, fmt.Errorf("unknown key %q: %w", key, ErrBadProperty)
		}
	}

	switch typeName {
	case "bool":
		if b, ok := inner.(bool); ok {
			return expr.Bool(b), nil
		}
	case "int":
		if i, ok := inner.(int64); ok {
			return expr.Int(int32(i)), nil
		}
	case "uint":
		if i, ok := inner.(int64); ok && i >= 0 {
			return expr.Uint(uint32(i)), nil
		}
	case "float":
		if f, ok := tomlFloat(inner); ok {
			return expr.Float(f), nil
		}
	default:
		return expr.Value{}, fmt.Errorf("unknown type %q: %w", typeName, ErrBadProperty)
	}
	return expr.Value{}, fmt.Errorf("value %v does not fit type %q: %w", inner, typeName, ErrBadProperty)
}

// tomlFloat widens TOML integers to floats where a float is expected.
func tomlFloat(v any) (float32, bool) {
	switch x := v.(type) {
	case int64:
		return float32(x), true
	case float64:
		return float32(x), true
	}
	return 0, false
}
