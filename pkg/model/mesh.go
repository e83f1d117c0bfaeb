package model

import (
	"github.com/Faultbox/rwxforge/pkg/math"
)

// Kind identifies a node variant in the scene tree.
type Kind int

// Node kinds.
const (
	KindClump Kind = iota
	KindPrototype
	KindBlock
	KindCone
	KindCylinder
	KindDisc
	KindHemisphere
	KindSphere
)

var kindNames = []string{"clump", "prototype", "block", "cone", "cylinder", "disc", "hemisphere", "sphere"}

func (k Kind) String() string { return enumName(kindNames, int(k)) }

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	*k = v
	return err
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	v, err := parseEnum("kind", kindNames, s)
	return Kind(v), err
}

// Node is any element of the scene tree that carries geometry.
type Node interface {
	Kind() Kind
	// Geometry returns the node's own vertices and faces, realizing them
	// first when the node is a primitive.
	Geometry() *Surface
	LocalTransform() math.Mat4
}

// Vertex is a model-space vertex.
type Vertex struct {
	Position math.Vec3 `yaml:"position,flow"`
	UV       *UV       `yaml:"uv,omitempty,flow"`
	Prelight Color     `yaml:"prelight,flow"`
	Normal   math.Vec3 `yaml:"normal,flow"`
}

// Triangle is one piece of a triangulated face.
type Triangle struct {
	Indices [3]int    `yaml:"indices,flow"`
	Normal  math.Vec3 `yaml:"normal,flow"`
}

// Face is a polygon over a surface's vertex array.
type Face struct {
	Indices    []int      `yaml:"indices,flow"`
	MaterialID int        `yaml:"material"`
	Tag        *int       `yaml:"tag,omitempty"`
	Triangles  []Triangle `yaml:"triangles"`
}

// NewTriangleFace returns a face made of one triangle.
func NewTriangleFace(a, b, c, materialID int) Face {
	return Face{
		Indices:    []int{a, b, c},
		MaterialID: materialID,
		Triangles:  []Triangle{{Indices: [3]int{a, b, c}}},
	}
}

// Surface is an indexed vertex/face set.
type Surface struct {
	Vertices []Vertex `yaml:"vertices,omitempty"`
	Faces    []Face   `yaml:"faces,omitempty"`
}

// TriangleCount returns the number of triangles across all faces.
func (s *Surface) TriangleCount() int {
	n := 0
	for i := range s.Faces {
		n += len(s.Faces[i].Triangles)
	}
	return n
}

// Mesh is the content shared by clumps and prototypes.
type Mesh struct {
	Surface    `yaml:",inline"`
	Children   []*Clump            `yaml:"children,omitempty"`
	Primitives []*Primitive        `yaml:"primitives,omitempty"`
	Instances  []PrototypeInstance `yaml:"instances,omitempty"`
	IsPrelit   bool                `yaml:"prelit,omitempty"`
}

// Geometry returns the mesh's own surface.
func (m *Mesh) Geometry() *Surface { return &m.Surface }

// Clump is a scene node with its own local transform.
type Clump struct {
	Mesh       `yaml:",inline"`
	Transform  math.Mat4 `yaml:"transform,flow"`
	Tag        *int      `yaml:"tag,omitempty"`
	Collidable *bool     `yaml:"collidable,omitempty"`
}

// NewClump returns an empty clump placed at transform.
func NewClump(transform math.Mat4) *Clump {
	return &Clump{Transform: transform}
}

// Kind implements Node.
func (c *Clump) Kind() Kind { return KindClump }

// LocalTransform implements Node.
func (c *Clump) LocalTransform() math.Mat4 { return c.Transform }

// Prototype is a named reusable mesh.
type Prototype struct {
	Name string `yaml:"name"`
	Mesh `yaml:",inline"`
}

// Kind implements Node.
func (p *Prototype) Kind() Kind { return KindPrototype }

// LocalTransform implements Node. Prototypes are placed by their instances.
func (p *Prototype) LocalTransform() math.Mat4 { return math.Identity() }

// PrototypeInstance places a prototype by name.
type PrototypeInstance struct {
	Name       string    `yaml:"name"`
	Transform  math.Mat4 `yaml:"transform,flow"`
	MaterialID *int      `yaml:"material,omitempty"`
}
