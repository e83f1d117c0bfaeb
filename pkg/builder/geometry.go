package builder

import (
	"fmt"

	"github.com/Faultbox/rwxforge/pkg/geometry"
	"github.com/Faultbox/rwxforge/pkg/math"
	"github.com/Faultbox/rwxforge/pkg/model"
)

// AddVertex appends a vertex transformed by the active transform. A prelight
// color, once given, applies to every following vertex of the same clump or
// prototype that does not carry its own.
func (b *Builder) AddVertex(position math.Vec3, uv *model.UV, prelight *model.Color) error {
	if err := b.requireTarget("vertex"); err != nil {
		return err
	}

	v := model.Vertex{
		Position: b.transform.TransformPoint(position).Round(vertexPrecision),
	}
	if uv != nil {
		coord := *uv
		if b.flipV {
			coord.V = 1 - coord.V
		}
		v.UV = &coord
	}
	if prelight != nil {
		b.target.IsPrelit = true
		b.prelight = *prelight
	}
	v.Prelight = b.prelight

	b.target.Vertices = append(b.target.Vertices, v)
	return nil
}

// VertexCount returns the number of vertices in the open clump or prototype.
func (b *Builder) VertexCount() int {
	if b.target == nil {
		return 0
	}
	return len(b.target.Vertices)
}

// AddTriangle appends a triangular face. With a double-sided material a
// second face with the same indices is appended. The duplicate is not
// reversed, unlike AddQuad and AddPolygon; the double-sided material flag
// carries the back side.
func (b *Builder) AddTriangle(i0, i1, i2 int, tag *int) error {
	if err := b.requireTarget("triangle"); err != nil {
		return err
	}
	indices := []int{i0, i1, i2}
	if err := b.checkIndices(indices); err != nil {
		return err
	}

	materialID := b.model.AddMaterial(b.material)
	face := model.NewTriangleFace(i0, i1, i2, materialID)
	face.Tag = copyTag(tag)
	b.target.Faces = append(b.target.Faces, face)

	if b.material.IsDoubleSided() {
		back := model.NewTriangleFace(i0, i1, i2, materialID)
		back.Tag = copyTag(tag)
		b.target.Faces = append(b.target.Faces, back)
	}
	return nil
}

// AddQuad appends a four-sided face split along its 0-2 diagonal. With a
// double-sided material a reversed back face is appended.
func (b *Builder) AddQuad(i0, i1, i2, i3 int, tag *int) error {
	if err := b.requireTarget("quad"); err != nil {
		return err
	}
	if err := b.checkIndices([]int{i0, i1, i2, i3}); err != nil {
		return err
	}

	materialID := b.model.AddMaterial(b.material)
	b.target.Faces = append(b.target.Faces, model.Face{
		Indices:    []int{i0, i1, i2, i3},
		MaterialID: materialID,
		Tag:        copyTag(tag),
		Triangles: []model.Triangle{
			{Indices: [3]int{i0, i1, i2}},
			{Indices: [3]int{i0, i2, i3}},
		},
	})

	if b.material.IsDoubleSided() {
		b.target.Faces = append(b.target.Faces, model.Face{
			Indices:    []int{i3, i2, i1, i0},
			MaterialID: materialID,
			Tag:        copyTag(tag),
			Triangles: []model.Triangle{
				{Indices: [3]int{i2, i1, i0}},
				{Indices: [3]int{i3, i2, i0}},
			},
		})
	}
	return nil
}

// AddPolygon appends an n-sided face triangulated by ear clipping. count must
// equal len(indices). With a double-sided material the reversed polygon is
// triangulated and appended as a back face.
func (b *Builder) AddPolygon(count int, indices []int, tag *int) error {
	if err := b.requireTarget("polygon"); err != nil {
		return err
	}
	if count != len(indices) {
		return contractError("polygon declares %d vertices but lists %d", count, len(indices))
	}
	if err := b.checkIndices(indices); err != nil {
		return err
	}

	front := append([]int(nil), indices...)
	triangles, err := b.triangulate(front)
	if err != nil {
		return err
	}

	var back []int
	var backTriangles []model.Triangle
	if b.material.IsDoubleSided() {
		back = make([]int, len(indices))
		for i, idx := range indices {
			back[len(indices)-1-i] = idx
		}
		if backTriangles, err = b.triangulate(back); err != nil {
			return err
		}
	}

	materialID := b.model.AddMaterial(b.material)
	b.target.Faces = append(b.target.Faces, model.Face{
		Indices:    front,
		MaterialID: materialID,
		Tag:        copyTag(tag),
		Triangles:  triangles,
	})
	if back != nil {
		b.target.Faces = append(b.target.Faces, model.Face{
			Indices:    back,
			MaterialID: materialID,
			Tag:        copyTag(tag),
			Triangles:  backTriangles,
		})
	}
	return nil
}

// triangulate runs the ear clipper over the polygon's vertex positions and
// maps its local indices back to vertex indices.
func (b *Builder) triangulate(indices []int) ([]model.Triangle, error) {
	points := make([]math.Vec3, len(indices))
	for i, idx := range indices {
		points[i] = b.target.Vertices[idx].Position
	}

	local, err := geometry.Triangulate(points)
	if err != nil {
		return nil, fmt.Errorf("polygon %v: %w", indices, err)
	}

	out := make([]model.Triangle, len(local))
	for i, tri := range local {
		out[i] = model.Triangle{Indices: [3]int{indices[tri[0]], indices[tri[1]], indices[tri[2]]}}
	}
	return out, nil
}

func (b *Builder) checkIndices(indices []int) error {
	n := len(b.target.Vertices)
	for _, idx := range indices {
		if idx < 0 || idx >= n {
			return contractError("vertex index %d out of range [0, %d)", idx, n)
		}
	}
	return nil
}

func copyTag(tag *int) *int {
	if tag == nil {
		return nil
	}
	t := *tag
	return &t
}

// AddBlock adds a box primitive.
func (b *Builder) AddBlock(width, height, depth float64) error {
	return b.addPrimitive("block", model.Block{Width: width, Height: height, Depth: depth})
}

// AddCone adds an open cone primitive.
func (b *Builder) AddCone(height, radius float64, sides int) error {
	return b.addPrimitive("cone", model.Cone{Radius: radius, Height: height, Sides: sides})
}

// AddCylinder adds an open cylinder primitive.
func (b *Builder) AddCylinder(height, bottomRadius, topRadius float64, sides int) error {
	return b.addPrimitive("cylinder", model.Cylinder{
		Height:       height,
		BottomRadius: bottomRadius,
		TopRadius:    topRadius,
		Sides:        sides,
	})
}

// AddDisc adds a disc primitive.
func (b *Builder) AddDisc(offset, radius float64, sides int) error {
	return b.addPrimitive("disc", model.Disc{Offset: offset, Radius: radius, Sides: sides})
}

// AddHemisphere adds a hemisphere primitive.
func (b *Builder) AddHemisphere(radius float64, density int) error {
	return b.addPrimitive("hemisphere", model.Hemisphere{Radius: radius, Density: density})
}

// AddSphere adds a sphere primitive.
func (b *Builder) AddSphere(radius float64, density int) error {
	return b.addPrimitive("sphere", model.Sphere{Radius: radius, Density: density})
}

func (b *Builder) addPrimitive(directive string, shape model.Shape) error {
	if err := b.requireTarget(directive); err != nil {
		return err
	}
	p := model.NewPrimitive(shape, b.model.AddMaterial(b.material), b.transform)
	b.target.Primitives = append(b.target.Primitives, p)
	return nil
}
