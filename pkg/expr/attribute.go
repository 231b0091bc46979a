package expr

// Attribute identifies a single per-particle attribute stored in the
// particle buffer, along with the type of its values.
//
// Attributes are the inbound data surface of the generated code: an
// attribute expression renders as a read of "particle.<name>". The
// well-known attributes are predefined (e.g. [AttrPosition]); consumers
// with custom particle layouts can construct their own with [NewAttribute].
type Attribute struct {
	name  string
	vtype ValueType
}

// NewAttribute creates an attribute with the given name and value type.
func NewAttribute(name string, vtype ValueType) Attribute {
	return Attribute{name: name, vtype: vtype}
}

// Name returns the attribute name as spelled in the particle struct.
func (a Attribute) Name() string { return a.name }

// ValueType returns the type of the attribute's values.
func (a Attribute) ValueType() ValueType { return a.vtype }

// The built-in particle attributes.
var (
	// AttrPosition is the particle position, in simulation space.
	AttrPosition = NewAttribute("position", TypeVec3)
	// AttrVelocity is the particle velocity, in simulation space.
	AttrVelocity = NewAttribute("velocity", TypeVec3)
	// AttrAge is the particle age in seconds since spawn.
	AttrAge = NewAttribute("age", TypeFloat)
	// AttrLifetime is the total lifetime of the particle in seconds.
	AttrLifetime = NewAttribute("lifetime", TypeFloat)
	// AttrColor is the packed RGBA particle color.
	AttrColor = NewAttribute("color", TypeUint)
	// AttrHDRColor is the unpacked high-dynamic-range particle color.
	AttrHDRColor = NewAttribute("hdr_color", TypeVec4)
	// AttrAlpha is the particle opacity.
	AttrAlpha = NewAttribute("alpha", TypeFloat)
	// AttrSize is the uniform particle size.
	AttrSize = NewAttribute("size", TypeFloat)
	// AttrSize2 is the non-uniform (per-axis) particle size.
	AttrSize2 = NewAttribute("size2", TypeVec2)
)

// attributes indexes the built-in attributes by name for LookupAttribute.
var attributes = func() map[string]Attribute {
	all := []Attribute{
		AttrPosition, AttrVelocity, AttrAge, AttrLifetime,
		AttrColor, AttrHDRColor, AttrAlpha, AttrSize, AttrSize2,
	}
	m := make(map[string]Attribute, len(all))
	for _, a := range all {
		m[a.Name()] = a
	}
	return m
}()

// LookupAttribute returns the built-in attribute with the given name.
// The second return value reports whether the name is known.
func LookupAttribute(name string) (Attribute, bool) {
	a, ok := attributes[name]
	return a, ok
}

// AttributeNames returns the names of all built-in attributes.
// The order is unspecified.
func AttributeNames() []string {
	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	return names
}
