package graph

import (
	"slices"
	"testing"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

// buildPair adds an attribute node and a normalize node and returns the
// attribute's output slot and the normalize's input slot.
func buildPair(t *testing.T) (g *Graph, out, in SlotID) {
	t.Helper()
	g = New()
	src := g.AddNode(NewAttributeNode(expr.AttrPosition))
	dst := g.AddNode(NewNormalizeNode())
	return g, g.OutputSlots(src)[0], g.InputSlots(dst)[0]
}

func TestAddNodeAllocatesSlots(t *testing.T) {
	g := New()

	id1 := g.AddNode(NewAddNode())      // 2 in, 1 out
	id2 := g.AddNode(NewTimeNode())     // 2 out
	id3 := g.AddNode(NewNormalizeNode()) // 1 in, 1 out

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.SlotCount() != 6 {
		t.Errorf("SlotCount() = %d, want 6", g.SlotCount())
	}

	tests := []struct {
		id          NodeID
		slots       int
		ins, outs   int
	}{
		{id1, 3, 2, 1},
		{id2, 2, 0, 2},
		{id3, 2, 1, 1},
	}
	for _, tt := range tests {
		if got := len(g.Slots(tt.id)); got != tt.slots {
			t.Errorf("Slots(%d) has %d entries, want %d", tt.id, got, tt.slots)
		}
		if got := len(g.InputSlots(tt.id)); got != tt.ins {
			t.Errorf("InputSlots(%d) has %d entries, want %d", tt.id, got, tt.ins)
		}
		if got := len(g.OutputSlots(tt.id)); got != tt.outs {
			t.Errorf("OutputSlots(%d) has %d entries, want %d", tt.id, got, tt.outs)
		}
	}
}

func TestSlotsDeclarationOrder(t *testing.T) {
	g := New()
	id := g.AddNode(NewAddNode())

	var names []string
	for _, sid := range g.Slots(id) {
		names = append(names, g.Slot(sid).Def().Name())
	}
	want := []string{"lhs", "rhs", "result"}
	if !slices.Equal(names, want) {
		t.Errorf("slot names = %v, want %v", names, want)
	}

	// Partition by direction preserves declaration order.
	var ins []string
	for _, sid := range g.InputSlots(id) {
		ins = append(ins, g.Slot(sid).Def().Name())
	}
	if !slices.Equal(ins, []string{"lhs", "rhs"}) {
		t.Errorf("input slot names = %v, want [lhs rhs]", ins)
	}
}

func TestSlotOwnership(t *testing.T) {
	g := New()
	id := g.AddNode(NewTimeNode())

	for _, sid := range g.Slots(id) {
		s := g.Slot(sid)
		if s.NodeID() != id {
			t.Errorf("slot %d owner = %d, want %d", sid, s.NodeID(), id)
		}
		if s.ID() != sid {
			t.Errorf("slot %d reports ID %d", sid, s.ID())
		}
	}
}

func TestLink(t *testing.T) {
	g, out, in := buildPair(t)
	g.Link(out, in)

	if got := g.Slot(in).Source(); got != out {
		t.Errorf("input source = %d, want %d", got, out)
	}
	if got := g.Slot(out).Links(); !slices.Contains(got, in) {
		t.Errorf("output fan-out %v does not contain %d", got, in)
	}
}

func TestLinkIdempotent(t *testing.T) {
	g, out, in := buildPair(t)
	g.Link(out, in)
	g.Link(out, in)

	if got := g.Slot(out).Links(); len(got) != 1 {
		t.Errorf("fan-out after duplicate Link = %v, want one entry", got)
	}
	if got := g.Slot(in).Links(); len(got) != 1 {
		t.Errorf("input links after duplicate Link = %v, want one entry", got)
	}
}

func TestLinkReplacesSource(t *testing.T) {
	g := New()
	a := g.AddNode(NewAttributeNode(expr.AttrPosition))
	b := g.AddNode(NewAttributeNode(expr.AttrVelocity))
	n := g.AddNode(NewNormalizeNode())

	outA := g.OutputSlots(a)[0]
	outB := g.OutputSlots(b)[0]
	in := g.InputSlots(n)[0]

	g.Link(outA, in)
	g.Link(outB, in)

	// Last writer wins on the input side.
	if got := g.Slot(in).Source(); got != outB {
		t.Errorf("input source = %d, want %d", got, outB)
	}
	if got := g.Slot(in).Links(); len(got) != 1 {
		t.Errorf("input links = %v, want exactly one", got)
	}
	// The replaced output must no longer list the input.
	if got := g.Slot(outA).Links(); slices.Contains(got, in) {
		t.Errorf("replaced output still fans out to %d: %v", in, got)
	}
	if got := g.Slot(outB).Links(); !slices.Contains(got, in) {
		t.Errorf("new output fan-out %v does not contain %d", got, in)
	}
}

func TestLinkFanOut(t *testing.T) {
	g := New()
	src := g.AddNode(NewTimeNode())
	n1 := g.AddNode(NewNormalizeNode())
	n2 := g.AddNode(NewNormalizeNode())

	out := g.OutputSlots(src)[0]
	in1 := g.InputSlots(n1)[0]
	in2 := g.InputSlots(n2)[0]

	g.Link(out, in1)
	g.Link(out, in2)

	got := g.Slot(out).Links()
	if len(got) != 2 || !slices.Contains(got, in1) || !slices.Contains(got, in2) {
		t.Errorf("fan-out = %v, want both %d and %d", got, in1, in2)
	}
}

func TestLinkDirectionPanics(t *testing.T) {
	tests := []struct {
		name string
		link func(g *Graph, out, in SlotID)
	}{
		{"InputAsSource", func(g *Graph, out, in SlotID) { g.Link(in, in) }},
		{"OutputAsTarget", func(g *Graph, out, in SlotID) { g.Link(out, out) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, out, in := buildPair(t)
			defer func() {
				if recover() == nil {
					t.Error("misdirected Link did not panic")
				}
			}()
			tt.link(g, out, in)
		})
	}
}

func TestLinkUnknownSlotPanics(t *testing.T) {
	g := New()
	g.AddNode(NewNormalizeNode())
	defer func() {
		if recover() == nil {
			t.Error("Link with unknown slot ID did not panic")
		}
	}()
	g.Link(99, 1)
}

func TestUnlink(t *testing.T) {
	g, out, in := buildPair(t)
	g.Link(out, in)
	g.Unlink(out, in)

	if got := g.Slot(in).Links(); len(got) != 0 {
		t.Errorf("input links after Unlink = %v, want none", got)
	}
	if got := g.Slot(out).Links(); len(got) != 0 {
		t.Errorf("output fan-out after Unlink = %v, want none", got)
	}
}

func TestUnlinkNotLinkedIsNoop(t *testing.T) {
	g, out, in := buildPair(t)

	// Never linked: nothing to do, nothing to panic about.
	g.Unlink(out, in)

	if got := g.Slot(in).Links(); len(got) != 0 {
		t.Errorf("input links = %v, want none", got)
	}
}

func TestUnlinkKeepsOtherLinks(t *testing.T) {
	g := New()
	src := g.AddNode(NewTimeNode())
	n1 := g.AddNode(NewNormalizeNode())
	n2 := g.AddNode(NewNormalizeNode())

	out := g.OutputSlots(src)[0]
	in1 := g.InputSlots(n1)[0]
	in2 := g.InputSlots(n2)[0]
	g.Link(out, in1)
	g.Link(out, in2)

	g.Unlink(out, in1)

	if got := g.Slot(out).Links(); !slices.Equal(got, []SlotID{in2}) {
		t.Errorf("fan-out = %v, want [%d]", got, in2)
	}
	if got := g.Slot(in2).Source(); got != out {
		t.Errorf("surviving input source = %d, want %d", got, out)
	}
}

func TestUnlinkAllFromOutput(t *testing.T) {
	g := New()
	src := g.AddNode(NewTimeNode())
	n1 := g.AddNode(NewNormalizeNode())
	n2 := g.AddNode(NewNormalizeNode())

	out := g.OutputSlots(src)[0]
	in1 := g.InputSlots(n1)[0]
	in2 := g.InputSlots(n2)[0]
	g.Link(out, in1)
	g.Link(out, in2)

	g.UnlinkAll(out)

	if got := g.Slot(out).Links(); len(got) != 0 {
		t.Errorf("fan-out after UnlinkAll = %v, want none", got)
	}
	for _, in := range []SlotID{in1, in2} {
		if got := g.Slot(in).Links(); len(got) != 0 {
			t.Errorf("remote input %d still linked: %v", in, got)
		}
	}
}

func TestUnlinkAllFromInput(t *testing.T) {
	g, out, in := buildPair(t)
	g.Link(out, in)

	g.UnlinkAll(in)

	if got := g.Slot(in).Links(); len(got) != 0 {
		t.Errorf("input links after UnlinkAll = %v, want none", got)
	}
	if got := g.Slot(out).Links(); len(got) != 0 {
		t.Errorf("remote output still fans out: %v", got)
	}
}

func TestSlotIDByName(t *testing.T) {
	g := New()
	g.AddNode(NewAddNode())      // lhs, rhs, result
	g.AddNode(NewNormalizeNode()) // in, out

	if id, ok := g.SlotIDByName("rhs"); !ok || g.Slot(id).Def().Name() != "rhs" {
		t.Errorf("SlotIDByName(rhs) = %d/%v", id, ok)
	}
	if _, ok := g.SlotIDByName("missing"); ok {
		t.Error("SlotIDByName(missing) found, want not found")
	}

	// Ambiguous names resolve to the earliest inserted slot.
	g.AddNode(NewAddNode())
	id, ok := g.SlotIDByName("lhs")
	if !ok || id != 1 {
		t.Errorf("SlotIDByName(lhs) = %d/%v, want first arena entry", id, ok)
	}
}

func TestNodeAccess(t *testing.T) {
	g := New()
	id := g.AddNode(NewAttributeNode(expr.AttrAge))

	n, ok := g.Node(id).(*AttributeNode)
	if !ok {
		t.Fatalf("Node(%d) has type %T, want *AttributeNode", id, g.Node(id))
	}
	if n.Attr() != expr.AttrAge {
		t.Errorf("Attr() = %v, want age", n.Attr())
	}

	if got := g.NodeIDs(); !slices.Equal(got, []NodeID{id}) {
		t.Errorf("NodeIDs() = %v, want [%d]", got, id)
	}
}

func TestNodeUnknownIDPanics(t *testing.T) {
	g := New()
	defer func() {
		if recover() == nil {
			t.Error("Node with unknown ID did not panic")
		}
	}()
	g.Node(1)
}
