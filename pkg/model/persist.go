package model

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/rwxforge/pkg/math"
)

type modelDoc struct {
	Materials  []Material   `yaml:"materials"`
	Clump      *Clump       `yaml:"clump,omitempty"`
	Prototypes []*Prototype `yaml:"prototypes,omitempty"`
	Flags      flagsDoc     `yaml:"flags"`
}

type flagsDoc struct {
	AxisAlignment AxisAlignment `yaml:"axis_alignment"`
	OpacityFix    bool          `yaml:"opacity_fix"`
	RandomUVs     bool          `yaml:"random_uvs"`
	Seamless      bool          `yaml:"seamless"`
}

// primitiveDoc is the persisted form of a primitive. Generated geometry is
// not stored.
type primitiveDoc struct {
	Kind         Kind      `yaml:"kind"`
	Material     int       `yaml:"material"`
	Transform    math.Mat4 `yaml:"transform,flow"`
	Width        float64   `yaml:"width,omitempty"`
	Height       float64   `yaml:"height,omitempty"`
	Depth        float64   `yaml:"depth,omitempty"`
	Radius       float64   `yaml:"radius,omitempty"`
	BottomRadius float64   `yaml:"bottom_radius,omitempty"`
	TopRadius    float64   `yaml:"top_radius,omitempty"`
	Offset       float64   `yaml:"offset,omitempty"`
	Sides        int       `yaml:"sides,omitempty"`
	Density      int       `yaml:"density,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (p *Primitive) MarshalYAML() (interface{}, error) {
	doc := primitiveDoc{
		Kind:      p.Kind(),
		Material:  p.materialID,
		Transform: p.Transform,
	}
	switch s := p.Shape.(type) {
	case Block:
		doc.Width, doc.Height, doc.Depth = s.Width, s.Height, s.Depth
	case Cone:
		doc.Radius, doc.Height, doc.Sides = s.Radius, s.Height, s.Sides
	case Cylinder:
		doc.Height, doc.BottomRadius, doc.TopRadius, doc.Sides = s.Height, s.BottomRadius, s.TopRadius, s.Sides
	case Disc:
		doc.Offset, doc.Radius, doc.Sides = s.Offset, s.Radius, s.Sides
	case Hemisphere:
		doc.Radius, doc.Density = s.Radius, s.Density
	case Sphere:
		doc.Radius, doc.Density = s.Radius, s.Density
	default:
		return nil, fmt.Errorf("%w: unsupported shape %T", ErrInvalidPrimitive, p.Shape)
	}
	return doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Primitive) UnmarshalYAML(value *yaml.Node) error {
	var doc primitiveDoc
	if err := value.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPrimitive, err)
	}
	var shape Shape
	switch doc.Kind {
	case KindBlock:
		shape = Block{Width: doc.Width, Height: doc.Height, Depth: doc.Depth}
	case KindCone:
		shape = Cone{Radius: doc.Radius, Height: doc.Height, Sides: doc.Sides}
	case KindCylinder:
		shape = Cylinder{Height: doc.Height, BottomRadius: doc.BottomRadius, TopRadius: doc.TopRadius, Sides: doc.Sides}
	case KindDisc:
		shape = Disc{Offset: doc.Offset, Radius: doc.Radius, Sides: doc.Sides}
	case KindHemisphere:
		shape = Hemisphere{Radius: doc.Radius, Density: doc.Density}
	case KindSphere:
		shape = Sphere{Radius: doc.Radius, Density: doc.Density}
	default:
		return fmt.Errorf("%w: kind %s at line %d", ErrInvalidPrimitive, doc.Kind, value.Line)
	}
	*p = Primitive{
		Shape:      shape,
		Transform:  fixTransform(doc.Transform),
		materialID: doc.Material,
	}
	return nil
}

// Save writes the model as YAML.
func (m *Model) Save(w io.Writer) error {
	doc := modelDoc{
		Materials:  m.materials,
		Clump:      m.Clump,
		Prototypes: m.Prototypes,
		Flags: flagsDoc{
			AxisAlignment: m.AxisAlignment,
			OpacityFix:    m.OpacityFix,
			RandomUVs:     m.RandomUVs,
			Seamless:      m.Seamless,
		},
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	return enc.Close()
}

// SaveFile writes the model to path, creating parent directories.
func (m *Model) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads a model written by Save. Material ids are checked against the
// material table and transforms are forced affine.
func Load(r io.Reader) (*Model, error) {
	var doc modelDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}

	m := &Model{
		Clump:         doc.Clump,
		Prototypes:    doc.Prototypes,
		AxisAlignment: doc.Flags.AxisAlignment,
		OpacityFix:    doc.Flags.OpacityFix,
		RandomUVs:     doc.Flags.RandomUVs,
		Seamless:      doc.Flags.Seamless,
	}
	for _, mat := range doc.Materials {
		m.materials = append(m.materials, mat)
		m.hashes = append(m.hashes, mat.Hash())
	}

	if m.Clump != nil {
		if err := m.fixClump(m.Clump); err != nil {
			return nil, err
		}
	}
	for _, p := range m.Prototypes {
		if err := m.fixMesh(&p.Mesh); err != nil {
			return nil, fmt.Errorf("prototype %q: %w", p.Name, err)
		}
	}
	return m, nil
}

// LoadFile reads a model from path.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (m *Model) fixClump(c *Clump) error {
	c.Transform = fixTransform(c.Transform)
	return m.fixMesh(&c.Mesh)
}

func (m *Model) fixMesh(mesh *Mesh) error {
	for i := range mesh.Faces {
		f := &mesh.Faces[i]
		if !m.HasMaterial(f.MaterialID) {
			return fmt.Errorf("face %d: %w: %d", i, ErrMaterialRange, f.MaterialID)
		}
		if err := checkVertexIndices(f.Indices, len(mesh.Vertices)); err != nil {
			return fmt.Errorf("face %d: %w", i, err)
		}
		for j, tri := range f.Triangles {
			if err := checkVertexIndices(tri.Indices[:], len(mesh.Vertices)); err != nil {
				return fmt.Errorf("face %d triangle %d: %w", i, j, err)
			}
		}
	}
	for i, p := range mesh.Primitives {
		if !m.HasMaterial(p.materialID) {
			return fmt.Errorf("primitive %d: %w: %d", i, ErrMaterialRange, p.materialID)
		}
	}
	for i := range mesh.Instances {
		inst := &mesh.Instances[i]
		inst.Transform = fixTransform(inst.Transform)
		if inst.MaterialID != nil && !m.HasMaterial(*inst.MaterialID) {
			return fmt.Errorf("instance %q: %w: %d", inst.Name, ErrMaterialRange, *inst.MaterialID)
		}
	}
	for _, child := range mesh.Children {
		if err := m.fixClump(child); err != nil {
			return err
		}
	}
	return nil
}

func checkVertexIndices(indices []int, count int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= count {
			return fmt.Errorf("%w: %d (have %d vertices)", ErrVertexRange, idx, count)
		}
	}
	return nil
}

// fixTransform treats a missing matrix as identity and forces the affine row.
func fixTransform(t math.Mat4) math.Mat4 {
	if t == (math.Mat4{}) {
		return math.Identity()
	}
	return t.Affine()
}
