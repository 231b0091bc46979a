package graph

import (
	"fmt"
	"slices"

	"github.com/vfxkit/shadergraph/pkg/expr"
)

// NodeID identifies a node in a [Graph]. IDs are dense and one-based;
// the zero NodeID references nothing. IDs are assigned by [Graph.AddNode]
// and stay valid for the lifetime of the graph (nodes are never removed).
type NodeID uint32

// IsValid reports whether the ID references a node at all.
func (id NodeID) IsValid() bool { return id != 0 }

// Index returns the zero-based index of the node in the graph's node arena.
func (id NodeID) Index() int { return int(id) - 1 }

// SlotID identifies a slot in a [Graph]. Slot IDs index a single flat
// arena shared by all nodes; they are dense, one-based, and assigned in
// declaration order as nodes are added. The zero SlotID references nothing.
type SlotID uint32

// IsValid reports whether the ID references a slot at all.
func (id SlotID) IsValid() bool { return id != 0 }

// Index returns the zero-based index of the slot in the graph's slot arena.
func (id SlotID) Index() int { return int(id) - 1 }

// SlotDir is the direction of a slot: input slots receive values produced
// outside the node, output slots expose values the node produces.
type SlotDir int

const (
	// DirInput marks a slot receiving data from outside the node.
	DirInput SlotDir = iota
	// DirOutput marks a slot providing data generated by the node.
	DirOutput
)

// String returns "input" or "output".
func (d SlotDir) String() string {
	if d == DirInput {
		return "input"
	}
	return "output"
}

// SlotDef is the immutable declaration of one slot of a node: its name,
// direction, and optionally the type of values it accepts. Untyped
// ("variant") slots take their type from whatever is connected at
// evaluation time.
type SlotDef struct {
	name  string
	dir   SlotDir
	vtype expr.ValueType
	typed bool
}

// Input declares an untyped input slot.
func Input(name string) SlotDef {
	return SlotDef{name: name, dir: DirInput}
}

// TypedInput declares an input slot accepting values of the given type.
func TypedInput(name string, vtype expr.ValueType) SlotDef {
	return SlotDef{name: name, dir: DirInput, vtype: vtype, typed: true}
}

// Output declares an untyped output slot.
func Output(name string) SlotDef {
	return SlotDef{name: name, dir: DirOutput}
}

// TypedOutput declares an output slot producing values of the given type.
func TypedOutput(name string, vtype expr.ValueType) SlotDef {
	return SlotDef{name: name, dir: DirOutput, vtype: vtype, typed: true}
}

// Name returns the slot name. Names are unique within a node by
// convention; the graph does not enforce uniqueness.
func (d SlotDef) Name() string { return d.name }

// Dir returns the slot direction.
func (d SlotDef) Dir() SlotDir { return d.dir }

// ValueType returns the declared value type of the slot. The second
// return value is false for variant slots, whose type is determined
// dynamically from the connected input during evaluation.
func (d SlotDef) ValueType() (expr.ValueType, bool) {
	return d.vtype, d.typed
}

// Slot is a single connection point owned by a node, wrapping its
// declaration with the owning node, its own ID, and the mutable link
// state. Slots reference their remote ends by [SlotID] only; all link
// mutation goes through the owning [Graph].
type Slot struct {
	node  NodeID
	id    SlotID
	def   SlotDef
	links []SlotID
}

// NodeID returns the ID of the node owning this slot.
func (s *Slot) NodeID() NodeID { return s.node }

// ID returns the slot's own ID.
func (s *Slot) ID() SlotID { return s.id }

// Def returns the slot declaration.
func (s *Slot) Def() SlotDef { return s.def }

// Dir returns the slot direction.
func (s *Slot) Dir() SlotDir { return s.def.Dir() }

// IsInput reports whether the slot is an input slot.
func (s *Slot) IsInput() bool { return s.Dir() == DirInput }

// IsOutput reports whether the slot is an output slot.
func (s *Slot) IsOutput() bool { return s.Dir() == DirOutput }

// Links returns the IDs of the slots this slot is linked to: at most one
// for an input slot, any number for an output slot. The returned slice is
// a copy and safe to retain.
func (s *Slot) Links() []SlotID { return slices.Clone(s.links) }

// Source returns the output slot feeding this input slot, or the zero
// SlotID if the input is unconnected. It panics on output slots.
func (s *Slot) Source() SlotID {
	if !s.IsInput() {
		panic(fmt.Sprintf("graph: Source on output slot %d", s.id))
	}
	if len(s.links) == 0 {
		return 0
	}
	return s.links[0]
}

// linkTo records input as a fan-out target of this output slot.
// Duplicate links are idempotent. Panics if the slot is an input.
func (s *Slot) linkTo(input SlotID) {
	if !s.IsOutput() {
		panic(fmt.Sprintf("graph: link from input slot %d", s.id))
	}
	if !slices.Contains(s.links, input) {
		s.links = append(s.links, input)
	}
}

// unlinkFrom removes input from this output slot's fan-out list and
// reports whether the pair was linked. Panics if the slot is an input.
func (s *Slot) unlinkFrom(input SlotID) bool {
	if !s.IsOutput() {
		panic(fmt.Sprintf("graph: unlink from input slot %d", s.id))
	}
	i := slices.Index(s.links, input)
	if i < 0 {
		return false
	}
	s.links = slices.Delete(s.links, i, i+1)
	return true
}

// linkInput sets output as the single source of this input slot,
// replacing any previous source. Panics if the slot is an output.
func (s *Slot) linkInput(output SlotID) {
	if !s.IsInput() {
		panic(fmt.Sprintf("graph: link into output slot %d", s.id))
	}
	if len(s.links) == 0 {
		s.links = append(s.links, output)
	} else {
		s.links[0] = output
	}
}

// unlinkInput clears the source of this input slot.
// Panics if the slot is an output.
func (s *Slot) unlinkInput() {
	if !s.IsInput() {
		panic(fmt.Sprintf("graph: unlink into output slot %d", s.id))
	}
	s.links = s.links[:0]
}

// Graph owns a set of nodes and their slots in two flat, append-only
// arenas, and arbitrates all linking between slots.
//
// Structural invariants maintained by the linking API:
//
//   - An output slot fans out to zero or more input slots, without
//     duplicates.
//   - An input slot has at most one source; linking a new source
//     replaces the previous one.
//   - Both sides of a link always agree ([Graph.Link] and the unlink
//     operations update output and input together).
//
// The graph is append-only: nodes and slots are never removed, so IDs
// stay valid and arena order is stable. The link topology may contain
// cycles; rejecting them is the business of consumers that evaluate the
// graph as a DAG (see the pipeline package).
//
// Out-of-range IDs passed to any method are a bug in the caller and
// panic. The zero value is an empty graph ready for use. A Graph is not
// safe for concurrent use without external synchronization.
type Graph struct {
	nodes []Node
	slots []Slot
}

// New creates an empty graph.
func New() *Graph { return &Graph{} }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// SlotCount returns the number of slots in the graph.
func (g *Graph) SlotCount() int { return len(g.slots) }

// AddNode appends a node to the graph, allocating one slot per declared
// [SlotDef] in declaration order, and returns the new node's ID.
func (g *Graph) AddNode(n Node) NodeID {
	id := NodeID(len(g.nodes) + 1)
	for _, def := range n.Slots() {
		sid := SlotID(len(g.slots) + 1)
		g.slots = append(g.slots, Slot{node: id, id: sid, def: def})
	}
	g.nodes = append(g.nodes, n)
	return id
}

// Node returns the node with the given ID.
func (g *Graph) Node(id NodeID) Node {
	if !id.IsValid() || id.Index() >= len(g.nodes) {
		panic(fmt.Sprintf("graph: unknown node ID %d", id))
	}
	return g.nodes[id.Index()]
}

// Slot returns a view of the slot with the given ID. The returned pointer
// stays valid for the lifetime of the graph; link state is only mutable
// through the graph's Link/Unlink methods.
func (g *Graph) Slot(id SlotID) *Slot {
	return g.slot(id)
}

func (g *Graph) slot(id SlotID) *Slot {
	if !id.IsValid() || id.Index() >= len(g.slots) {
		panic(fmt.Sprintf("graph: unknown slot ID %d", id))
	}
	return &g.slots[id.Index()]
}

// Link connects an output slot to an input slot.
//
// The input's previous source, if any, is replaced (and removed from the
// old source's fan-out list); linking the same pair twice is a no-op.
// Panics if output is not an output slot or input is not an input slot —
// direction confusion is a graph-construction bug, not a data condition.
func (g *Graph) Link(output, input SlotID) {
	in := g.slot(input)
	if !in.IsInput() {
		panic(fmt.Sprintf("graph: Link target %d is not an input slot", input))
	}
	out := g.slot(output)
	if !out.IsOutput() {
		panic(fmt.Sprintf("graph: Link source %d is not an output slot", output))
	}

	// Rewiring: detach the input from its previous source first so the
	// old output's fan-out list stays consistent.
	if prev := in.Source(); prev.IsValid() && prev != output {
		g.slot(prev).unlinkFrom(input)
	}

	out.linkTo(input)
	in.linkInput(output)
}

// Unlink disconnects an output slot from an input slot. It is a no-op if
// the pair is not linked. Panics on direction confusion like [Graph.Link].
func (g *Graph) Unlink(output, input SlotID) {
	out := g.slot(output)
	if !out.IsOutput() {
		panic(fmt.Sprintf("graph: Unlink source %d is not an output slot", output))
	}
	in := g.slot(input)
	if !in.IsInput() {
		panic(fmt.Sprintf("graph: Unlink target %d is not an input slot", input))
	}
	if out.unlinkFrom(input) {
		in.unlinkInput()
	}
}

// UnlinkAll severs every link the slot participates in, on both sides:
// each formerly linked remote slot no longer references the slot, and
// the slot itself ends up with zero links.
func (g *Graph) UnlinkAll(id SlotID) {
	s := g.slot(id)
	links := s.links
	s.links = nil
	for _, remote := range links {
		r := g.slot(remote)
		if r.IsInput() {
			r.unlinkInput()
		} else {
			r.unlinkFrom(id)
		}
	}
}

// Slots returns the IDs of all slots of a node, in declaration order.
func (g *Graph) Slots(id NodeID) []SlotID {
	return g.filterSlots(id, func(*Slot) bool { return true })
}

// InputSlots returns the IDs of the node's input slots, in declaration order.
func (g *Graph) InputSlots(id NodeID) []SlotID {
	return g.filterSlots(id, (*Slot).IsInput)
}

// OutputSlots returns the IDs of the node's output slots, in declaration order.
func (g *Graph) OutputSlots(id NodeID) []SlotID {
	return g.filterSlots(id, (*Slot).IsOutput)
}

func (g *Graph) filterSlots(id NodeID, keep func(*Slot) bool) []SlotID {
	var ids []SlotID
	for i := range g.slots {
		if s := &g.slots[i]; s.node == id && keep(s) {
			ids = append(ids, s.id)
		}
	}
	return ids
}

// SlotIDByName returns the ID of the first slot (in arena order) with the
// given name, across all nodes. Slot names are not globally unique;
// ambiguous names resolve to the earliest inserted slot. The second
// return value reports whether any slot matched.
func (g *Graph) SlotIDByName(name string) (SlotID, bool) {
	for i := range g.slots {
		if g.slots[i].def.Name() == name {
			return g.slots[i].id, true
		}
	}
	return 0, false
}

// NodeIDs returns the IDs of all nodes, in insertion order.
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i + 1)
	}
	return ids
}
