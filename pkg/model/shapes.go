package model

import (
	gomath "math"

	"github.com/Faultbox/rwxforge/pkg/math"
)

const (
	minSides   = 3
	minDensity = 2
)

// Block is an axis-aligned box centered on the origin.
type Block struct {
	Width  float64
	Height float64
	Depth  float64
}

// Kind implements Shape.
func (Block) Kind() Kind { return KindBlock }

func (b Block) generate(materialID int) Surface {
	x, y, z := b.Width/2, b.Height/2, b.Depth/2
	s := Surface{
		Vertices: []Vertex{
			{Position: math.Vec3{X: -x, Y: -y, Z: z}},
			{Position: math.Vec3{X: -x, Y: y, Z: z}},
			{Position: math.Vec3{X: x, Y: y, Z: z}},
			{Position: math.Vec3{X: x, Y: -y, Z: z}},
			{Position: math.Vec3{X: -x, Y: -y, Z: -z}},
			{Position: math.Vec3{X: -x, Y: y, Z: -z}},
			{Position: math.Vec3{X: x, Y: y, Z: -z}},
			{Position: math.Vec3{X: x, Y: -y, Z: -z}},
		},
	}
	quads := []struct {
		indices   []int
		triangles [2][3]int
	}{
		{[]int{3, 2, 1, 0}, [2][3]int{{2, 1, 0}, {3, 2, 0}}},
		{[]int{4, 5, 6, 7}, [2][3]int{{4, 5, 6}, {4, 6, 7}}},
		{[]int{0, 1, 5, 4}, [2][3]int{{0, 1, 4}, {5, 4, 1}}},
		{[]int{2, 3, 7, 6}, [2][3]int{{2, 3, 6}, {7, 6, 3}}},
		{[]int{0, 4, 7, 3}, [2][3]int{{0, 4, 3}, {3, 4, 7}}},
		{[]int{1, 2, 6, 5}, [2][3]int{{1, 2, 5}, {6, 5, 2}}},
	}
	for _, q := range quads {
		s.Faces = append(s.Faces, Face{
			Indices:    q.indices,
			MaterialID: materialID,
			Triangles:  []Triangle{{Indices: q.triangles[0]}, {Indices: q.triangles[1]}},
		})
	}
	return s
}

// Cone is an open cone with its apex at (0, Height, 0) and its base ring on
// the XZ plane. A negative radius turns the faces inward.
type Cone struct {
	Radius float64
	Height float64
	Sides  int
}

// Kind implements Shape.
func (Cone) Kind() Kind { return KindCone }

func (c Cone) generate(materialID int) Surface {
	sides := max(c.Sides, minSides)
	s := Surface{Vertices: make([]Vertex, 0, sides+1)}
	s.Vertices = append(s.Vertices, Vertex{Position: math.Vec3{Y: c.Height}})
	s.Vertices = append(s.Vertices, ring(sides, c.Radius, 0)...)

	count := len(s.Vertices)
	inward := c.Radius < 0
	for i := 0; i < count-2; i++ {
		if inward {
			s.Faces = append(s.Faces, NewTriangleFace(0, i+1, i+2, materialID))
		} else {
			s.Faces = append(s.Faces, NewTriangleFace(i+2, i+1, 0, materialID))
		}
	}
	if inward {
		s.Faces = append(s.Faces, NewTriangleFace(0, count-1, 1, materialID))
	} else {
		s.Faces = append(s.Faces, NewTriangleFace(0, 1, count-1, materialID))
	}
	return s
}

// Cylinder is an open tube from the XZ plane up to Height. A negative radius
// turns the faces inward.
type Cylinder struct {
	Height       float64
	BottomRadius float64
	TopRadius    float64
	Sides        int
}

// Kind implements Shape.
func (Cylinder) Kind() Kind { return KindCylinder }

func (c Cylinder) generate(materialID int) Surface {
	sides := max(c.Sides, minSides)
	top := ring(sides, c.TopRadius, c.Height)
	bottom := ring(sides, c.BottomRadius, 0)

	s := Surface{Vertices: make([]Vertex, 0, 2*sides)}
	for i := 0; i < sides; i++ {
		s.Vertices = append(s.Vertices, top[i], bottom[i])
	}

	count := len(s.Vertices)
	inward := c.TopRadius < 0 || c.BottomRadius < 0
	for i := 0; i < count; i += 2 {
		topCur, bottomCur := i, i+1
		topNext, bottomNext := (i+2)%count, (i+3)%count

		face := Face{
			Indices:    []int{bottomNext, bottomCur, topCur, topNext},
			MaterialID: materialID,
		}
		if inward {
			face.Triangles = []Triangle{
				{Indices: [3]int{bottomNext, topNext, bottomCur}},
				{Indices: [3]int{topCur, bottomCur, topNext}},
			}
		} else {
			face.Triangles = []Triangle{
				{Indices: [3]int{bottomCur, topNext, bottomNext}},
				{Indices: [3]int{topNext, bottomCur, topCur}},
			}
		}
		s.Faces = append(s.Faces, face)
	}
	return s
}

// Disc is a flat fan at height Offset facing +Y. A negative radius faces it
// toward -Y.
type Disc struct {
	Offset float64
	Radius float64
	Sides  int
}

// Kind implements Shape.
func (Disc) Kind() Kind { return KindDisc }

func (d Disc) generate(materialID int) Surface {
	sides := max(d.Sides, minSides)
	s := Surface{Vertices: make([]Vertex, 0, sides+1)}
	s.Vertices = append(s.Vertices, Vertex{Position: math.Vec3{Y: d.Offset}})
	s.Vertices = append(s.Vertices, ring(sides, d.Radius, d.Offset)...)

	for i := 0; i < sides; i++ {
		cur := i + 1
		next := (i+1)%sides + 1
		if d.Radius < 0 {
			s.Faces = append(s.Faces, NewTriangleFace(0, cur, next, materialID))
		} else {
			s.Faces = append(s.Faces, NewTriangleFace(0, next, cur, materialID))
		}
	}
	return s
}

// Sphere is a closed latitude/longitude sphere centered on the origin.
type Sphere struct {
	Radius  float64
	Density int
}

// Kind implements Shape.
func (Sphere) Kind() Kind { return KindSphere }

func (sp Sphere) generate(materialID int) Surface {
	density := max(sp.Density, minDensity)
	perRing := 2 * density
	rings := 2*density - 1

	s := latitudeRings(sp.Radius, density, rings)
	s.Vertices = append(s.Vertices,
		Vertex{Position: math.Vec3{Y: sp.Radius}},
		Vertex{Position: math.Vec3{Y: -sp.Radius}},
	)
	topPole := len(s.Vertices) - 2
	bottomPole := len(s.Vertices) - 1

	s.Faces = ringBands(rings, perRing, materialID)
	s.Faces = append(s.Faces, topCap(perRing, topPole, materialID)...)
	last := (rings - 1) * perRing
	for i := 0; i < perRing; i++ {
		cur := last + i
		next := last + (i+1)%perRing
		s.Faces = append(s.Faces, NewTriangleFace(cur, next, bottomPole, materialID))
	}
	return s
}

// Hemisphere is the upper half of a sphere, open at the equator.
type Hemisphere struct {
	Radius  float64
	Density int
}

// Kind implements Shape.
func (Hemisphere) Kind() Kind { return KindHemisphere }

func (h Hemisphere) generate(materialID int) Surface {
	density := max(h.Density, minDensity)
	perRing := 2 * density

	s := latitudeRings(h.Radius, density, density)
	s.Vertices = append(s.Vertices, Vertex{Position: math.Vec3{Y: h.Radius}})
	pole := len(s.Vertices) - 1

	s.Faces = ringBands(density, perRing, materialID)
	s.Faces = append(s.Faces, topCap(perRing, pole, materialID)...)
	return s
}

// ring returns sides vertices on a circle of the given radius at height y.
func ring(sides int, radius, y float64) []Vertex {
	step := 2 * gomath.Pi / float64(sides)
	out := make([]Vertex, sides)
	for i := range out {
		angle := float64(i) * step
		out[i] = Vertex{Position: math.Vec3{
			X: radius * gomath.Cos(angle),
			Y: y,
			Z: radius * gomath.Sin(angle),
		}}
	}
	return out
}

// latitudeRings returns count rings of 2*density vertices each, starting one
// latitude step below the north pole.
func latitudeRings(radius float64, density, count int) Surface {
	latStep := gomath.Pi / float64(2*density)
	lonStep := gomath.Pi / float64(density)
	perRing := 2 * density

	s := Surface{Vertices: make([]Vertex, 0, count*perRing+2)}
	for r := 1; r <= count; r++ {
		phi := float64(r) * latStep
		for t := 0; t < perRing; t++ {
			theta := float64(t) * lonStep
			s.Vertices = append(s.Vertices, Vertex{Position: math.Vec3{
				X: radius * gomath.Sin(phi) * gomath.Cos(theta),
				Y: radius * gomath.Cos(phi),
				Z: radius * gomath.Sin(phi) * gomath.Sin(theta),
			}})
		}
	}
	return s
}

// ringBands joins each pair of neighboring rings with two triangles per
// segment.
func ringBands(rings, perRing, materialID int) []Face {
	var faces []Face
	for r := 0; r < rings-1; r++ {
		upper := r * perRing
		lower := (r + 1) * perRing
		for i := 0; i < perRing; i++ {
			j := (i + 1) % perRing
			faces = append(faces,
				NewTriangleFace(upper+i, upper+j, lower+i, materialID),
				NewTriangleFace(upper+j, lower+j, lower+i, materialID),
			)
		}
	}
	return faces
}

func topCap(perRing, pole, materialID int) []Face {
	faces := make([]Face, 0, perRing)
	for i := 0; i < perRing; i++ {
		faces = append(faces, NewTriangleFace(i, pole, (i+1)%perRing, materialID))
	}
	return faces
}
