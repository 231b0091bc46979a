package expr

import (
	"errors"
	"strings"
	"testing"
)

func TestEvalLeaves(t *testing.T) {
	m := NewModule()
	ph := m.AddProperty("speed", Float(1.5))

	tests := []struct {
		name string
		h    Handle
		want string
	}{
		{"LiteralInt", m.Lit(Int(3)), "3"},
		{"LiteralVec", m.Lit(Vec3(1, 1, 1)), "vec3<f32>(1.,1.,1.)"},
		{"Attribute", m.Attr(AttrPosition), "particle.position"},
		{"Time", m.BuiltIn(BuiltInTime), "sim_params.time"},
		{"DeltaTime", m.BuiltIn(BuiltInDeltaTime), "sim_params.delta_time"},
		{"Property", m.Prop(ph), "properties.speed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewEvalContext(m)
			got, err := ctx.Eval(tt.h)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalOperators(t *testing.T) {
	m := NewModule()
	three := m.Lit(Int(3))
	two := m.Lit(Int(2))

	tests := []struct {
		name string
		h    Handle
		want string
	}{
		{"Add", m.Add(three, two), "(3) + (2)"},
		{"Sub", m.Sub(three, two), "(3) - (2)"},
		{"Mul", m.Mul(three, two), "(3) * (2)"},
		{"Div", m.Div(three, two), "(3) / (2)"},
		{"Normalize", m.Normalize(m.Lit(Vec3(1, 1, 1))), "normalize(vec3<f32>(1.,1.,1.))"},
		{"Nested", m.Mul(m.Add(three, two), two), "((3) + (2)) * (2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewEvalContext(m)
			got, err := ctx.Eval(tt.h)
			if err != nil {
				t.Fatalf("Eval() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalCachesSharedHandles(t *testing.T) {
	m := NewModule()
	shared := m.Add(m.Attr(AttrPosition), m.Attr(AttrVelocity))
	top := m.Mul(shared, shared)

	ctx := NewEvalContext(m)
	got, err := ctx.Eval(top)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	const sub = "(particle.position) + (particle.velocity)"
	want := "(" + sub + ") * (" + sub + ")"
	if got != want {
		t.Errorf("Eval() = %q, want %q", got, want)
	}

	// Both occurrences must come from one rendering: the cached text for
	// the shared handle is the single source of both fragments.
	cached, err := ctx.Eval(shared)
	if err != nil {
		t.Fatalf("Eval(shared) error = %v", err)
	}
	if cached != sub {
		t.Errorf("cached text = %q, want %q", cached, sub)
	}
}

func TestEvalInvalidHandle(t *testing.T) {
	m := NewModule()
	ctx := NewEvalContext(m)

	if _, err := ctx.Eval(7); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Eval(7) error = %v, want ErrInvalidHandle", err)
	}
	if _, err := ctx.Eval(0); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("Eval(0) error = %v, want ErrInvalidHandle", err)
	}
}

func TestEmitLocal(t *testing.T) {
	m := NewModule()
	shared := m.Mul(m.Attr(AttrVelocity), m.BuiltIn(BuiltInDeltaTime))
	ctx := NewEvalContext(m)

	name, err := ctx.EmitLocal(shared)
	if err != nil {
		t.Fatalf("EmitLocal() error = %v", err)
	}
	if name != "var0" {
		t.Errorf("EmitLocal() = %q, want %q", name, "var0")
	}

	// Later evaluations must reference the local, not re-render.
	text, err := ctx.Eval(shared)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if text != "var0" {
		t.Errorf("Eval() after hoist = %q, want %q", text, "var0")
	}

	// Hoisting twice must not emit a second assignment.
	again, err := ctx.EmitLocal(shared)
	if err != nil {
		t.Fatalf("EmitLocal() error = %v", err)
	}
	if again != "var0" {
		t.Errorf("second EmitLocal() = %q, want %q", again, "var0")
	}

	stmts := ctx.Statements()
	want := "let var0 = (particle.velocity) * (sim_params.delta_time);"
	if stmts != want {
		t.Errorf("Statements() = %q, want %q", stmts, want)
	}
	if strings.Count(stmts, "let ") != 1 {
		t.Errorf("Statements() has %d assignments, want 1", strings.Count(stmts, "let "))
	}
}

func TestPushStmtOrder(t *testing.T) {
	ctx := NewEvalContext(NewModule())
	ctx.PushStmt("let a = 1;")
	ctx.PushStmt("let b = a;")

	want := "let a = 1;\nlet b = a;"
	if got := ctx.Statements(); got != want {
		t.Errorf("Statements() = %q, want %q", got, want)
	}
}

func TestMakeLocalVarDense(t *testing.T) {
	ctx := NewEvalContext(NewModule())
	for i, want := range []string{"var0", "var1", "var2"} {
		if got := ctx.MakeLocalVar(); got != want {
			t.Errorf("MakeLocalVar() #%d = %q, want %q", i, got, want)
		}
	}
}
