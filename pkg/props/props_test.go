package props

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

func TestParse(t *testing.T) {
	const src = `
[properties]
speed   = 1.5
count   = 3
gravity = [0.0, -9.81, 0.0]
spin    = true
seed    = { value = 42, type = "uint" }
`
	table, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	wantNames := []string{"speed", "count", "gravity", "spin", "seed"}
	if diff := cmp.Diff(wantNames, table.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if table.Len() != len(wantNames) {
		t.Errorf("Len() = %d, want %d", table.Len(), len(wantNames))
	}

	tests := []struct {
		name  string
		vtype expr.ValueType
		wgsl  string
	}{
		{"speed", expr.TypeFloat, "1.5"},
		{"count", expr.TypeInt, "3"},
		{"gravity", expr.TypeVec3, "vec3<f32>(0.,-9.81,0.)"},
		{"spin", expr.TypeBool, "true"},
		{"seed", expr.TypeUint, "42u"},
	}
	for _, tt := range tests {
		v, ok := table.Value(tt.name)
		if !ok {
			t.Errorf("Value(%q) not found", tt.name)
			continue
		}
		if v.Type() != tt.vtype {
			t.Errorf("%s type = %v, want %v", tt.name, v.Type(), tt.vtype)
		}
		if got := v.WGSL(); got != tt.wgsl {
			t.Errorf("%s = %q, want %q", tt.name, got, tt.wgsl)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"VectorTooShort", "[properties]\nv = [1.0]"},
		{"VectorTooLong", "[properties]\nv = [1, 2, 3, 4, 5]"},
		{"VectorOfStrings", `[properties]` + "\n" + `v = ["a", "b"]`},
		{"StringValue", `[properties]` + "\n" + `v = "fast"`},
		{"UnknownType", `[properties]` + "\n" + `v = { value = 1, type = "quaternion" }`},
		{"NegativeUint", `[properties]` + "\n" + `v = { value = -1, type = "uint" }`},
		{"MissingValueKey", `[properties]` + "\n" + `v = { type = "int" }`},
		{"StrayInlineKey", `[properties]` + "\n" + `v = { value = 1, type = "int", unit = "m" }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); !errors.Is(err, ErrBadProperty) {
				t.Errorf("Parse() error = %v, want ErrBadProperty", err)
			}
		})
	}
}

func TestParseMalformedTOML(t *testing.T) {
	if _, err := Parse([]byte("[properties\nspeed = 1.5")); err == nil {
		t.Error("Parse() succeeded on malformed TOML")
	}
}

func TestParseEmpty(t *testing.T) {
	table, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("Len() = %d, want 0", table.Len())
	}
}

func TestRegister(t *testing.T) {
	const src = `
[properties]
speed   = 1.5
gravity = [0.0, -9.81, 0.0]
`
	table, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	m := expr.NewModule()
	handles := table.Register(m)

	// Declaration order on the module follows file order.
	props := m.Properties()
	if len(props) != 2 || props[0].Name() != "speed" || props[1].Name() != "gravity" {
		t.Fatalf("Properties() = %+v, want [speed gravity]", props)
	}

	for name, ph := range handles {
		p, ok := m.Property(ph)
		if !ok {
			t.Errorf("handle for %q not resolvable", name)
			continue
		}
		if p.Name() != name {
			t.Errorf("handle for %q resolves to %q", name, p.Name())
		}
	}

	// Registered properties are usable as expressions.
	text, err := expr.NewEvalContext(m).Eval(m.Prop(handles["speed"]))
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if text != "properties.speed" {
		t.Errorf("rendered = %q, want %q", text, "properties.speed")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.toml")
	if err := os.WriteFile(path, []byte("[properties]\nspeed = 1.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := table.Value("speed"); !ok {
		t.Error("speed missing from loaded table")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() succeeded on a missing file")
	}
}
