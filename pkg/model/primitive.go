package model

import (
	"github.com/Faultbox/rwxforge/pkg/math"
)

// Shape is the parameter set of a procedural primitive.
type Shape interface {
	Kind() Kind
	generate(materialID int) Surface
}

// Primitive is a procedural shape placed in a mesh. Its surface is realized
// on the first call to Materialize and kept for the primitive's lifetime.
type Primitive struct {
	Shape      Shape
	Transform  math.Mat4
	materialID int
	surface    *Surface
}

// NewPrimitive returns an unrealized primitive.
func NewPrimitive(shape Shape, materialID int, transform math.Mat4) *Primitive {
	return &Primitive{
		Shape:      shape,
		Transform:  transform,
		materialID: materialID,
	}
}

// Kind implements Node.
func (p *Primitive) Kind() Kind { return p.Shape.Kind() }

// LocalTransform implements Node.
func (p *Primitive) LocalTransform() math.Mat4 { return p.Transform }

// Geometry implements Node.
func (p *Primitive) Geometry() *Surface { return p.Materialize() }

// MaterialID returns the material every face of the primitive uses.
func (p *Primitive) MaterialID() int { return p.materialID }

// SetMaterialID changes the material. Faces already realized are patched in
// place; the geometry is not regenerated.
func (p *Primitive) SetMaterialID(id int) {
	p.materialID = id
	if p.surface == nil {
		return
	}
	for i := range p.surface.Faces {
		p.surface.Faces[i].MaterialID = id
	}
}

// IsMaterialized reports whether the surface has been generated.
func (p *Primitive) IsMaterialized() bool { return p.surface != nil }

// Materialize generates the surface with normals on first use and returns
// the cached surface afterwards.
func (p *Primitive) Materialize() *Surface {
	if p.surface == nil {
		s := p.Shape.generate(p.materialID)
		s.ComputeNormals()
		p.surface = &s
	}
	return p.surface
}
