package model

import (
	"errors"
	"fmt"

	"github.com/Faultbox/rwxforge/pkg/math"
)

var (
	// ErrMaterialRange is returned for a material id outside the table.
	ErrMaterialRange = errors.New("material id out of range")
	// ErrUnknownPrototype is returned when an instance names no prototype.
	ErrUnknownPrototype = errors.New("unknown prototype")
	// ErrInvalidPrimitive is returned for malformed persisted primitives.
	ErrInvalidPrimitive = errors.New("invalid primitive")
	// ErrVertexRange is returned for a face or triangle index outside the
	// vertex list.
	ErrVertexRange = errors.New("vertex index out of range")
)

// AxisAlignment selects how a model orients itself toward the viewer.
type AxisAlignment int

// Axis alignment modes.
const (
	AxisAlignmentNone AxisAlignment = iota
	AxisAlignmentZOrientX
	AxisAlignmentZOrientY
	AxisAlignmentXYZ
)

var axisAlignmentNames = []string{"none", "zorientx", "zorienty", "xyz"}

func (a AxisAlignment) String() string { return enumName(axisAlignmentNames, int(a)) }

// MarshalText implements encoding.TextMarshaler.
func (a AxisAlignment) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AxisAlignment) UnmarshalText(text []byte) error {
	v, err := parseEnum("axis alignment", axisAlignmentNames, string(text))
	*a = AxisAlignment(v)
	return err
}

// Model is a complete scene: a deduplicated material table, at most one root
// clump and any number of named prototypes.
type Model struct {
	Clump      *Clump
	Prototypes []*Prototype

	AxisAlignment AxisAlignment
	OpacityFix    bool
	RandomUVs     bool
	Seamless      bool

	materials []Material
	hashes    []uint64
}

// New returns an empty model.
func New() *Model {
	return &Model{}
}

// AddMaterial returns the id of a material equal to m, adding m to the table
// if none exists.
func (m *Model) AddMaterial(mat Material) int {
	h := mat.Hash()
	for i, existing := range m.hashes {
		if existing == h && m.materials[i].Equal(mat) {
			return i
		}
	}
	m.materials = append(m.materials, mat)
	m.hashes = append(m.hashes, h)
	return len(m.materials) - 1
}

// GetMaterial returns the material with the given id.
func (m *Model) GetMaterial(id int) (Material, error) {
	if !m.HasMaterial(id) {
		return Material{}, fmt.Errorf("%w: %d (have %d)", ErrMaterialRange, id, len(m.materials))
	}
	return m.materials[id], nil
}

// TryGetMaterial returns the material with the given id and whether it exists.
func (m *Model) TryGetMaterial(id int) (Material, bool) {
	if !m.HasMaterial(id) {
		return Material{}, false
	}
	return m.materials[id], true
}

// HasMaterial reports whether id is a valid material id.
func (m *Model) HasMaterial(id int) bool {
	return id >= 0 && id < len(m.materials)
}

// Materials returns a copy of the material table in id order.
func (m *Model) Materials() []Material {
	out := make([]Material, len(m.materials))
	copy(out, m.materials)
	return out
}

// MaterialCount returns the number of distinct materials.
func (m *Model) MaterialCount() int {
	return len(m.materials)
}

// Prototype returns the prototype with the given name.
func (m *Model) Prototype(name string) (*Prototype, bool) {
	for _, p := range m.Prototypes {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// ResolveInstances checks that every prototype instance in the model names
// an existing prototype. All unresolved names are reported together.
func (m *Model) ResolveInstances() error {
	var errs []error
	m.Walk(func(node Node, _ math.Mat4) bool {
		mesh := meshOf(node)
		if mesh == nil {
			return true
		}
		for _, inst := range mesh.Instances {
			if _, ok := m.Prototype(inst.Name); !ok {
				errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownPrototype, inst.Name))
			}
		}
		return true
	})
	return errors.Join(errs...)
}

// Walk visits the root clump subtree depth first, then every prototype.
// fn receives each node with its accumulated world transform; returning false
// skips the node's children. Primitives are visited as leaves.
func (m *Model) Walk(fn func(node Node, world math.Mat4) bool) {
	if m.Clump != nil {
		walkClump(m.Clump, math.Identity(), fn)
	}
	for _, p := range m.Prototypes {
		if fn(p, math.Identity()) {
			walkMesh(&p.Mesh, math.Identity(), fn)
		}
	}
}

func walkClump(c *Clump, parent math.Mat4, fn func(Node, math.Mat4) bool) {
	world := parent.Mul(c.Transform)
	if !fn(c, world) {
		return
	}
	walkMesh(&c.Mesh, world, fn)
}

func walkMesh(mesh *Mesh, world math.Mat4, fn func(Node, math.Mat4) bool) {
	for _, p := range mesh.Primitives {
		fn(p, world.Mul(p.Transform))
	}
	for _, child := range mesh.Children {
		walkClump(child, world, fn)
	}
}

func meshOf(node Node) *Mesh {
	switch n := node.(type) {
	case *Clump:
		return &n.Mesh
	case *Prototype:
		return &n.Mesh
	}
	return nil
}

// Stats summarizes a model's size.
type Stats struct {
	Materials  int
	Clumps     int
	Prototypes int
	Primitives int
	Instances  int
	Vertices   int
	Faces      int
	Triangles  int
}

// Stats counts nodes and geometry across the model. Primitives are
// materialized to count their faces.
func (m *Model) Stats() Stats {
	st := Stats{Materials: len(m.materials), Prototypes: len(m.Prototypes)}
	m.Walk(func(node Node, _ math.Mat4) bool {
		switch node.Kind() {
		case KindClump:
			st.Clumps++
		case KindPrototype:
		default:
			st.Primitives++
		}
		if mesh := meshOf(node); mesh != nil {
			st.Instances += len(mesh.Instances)
		}
		g := node.Geometry()
		st.Vertices += len(g.Vertices)
		st.Faces += len(g.Faces)
		st.Triangles += g.TriangleCount()
		return true
	})
	return st
}
