package model

import (
	gomath "math"

	"github.com/Faultbox/rwxforge/pkg/math"
)

// ComputeNormals fills every triangle normal and then every referenced vertex
// normal as the angle-weighted average of its incident triangle normals.
// Degenerate triangles yield NaN normals; they are left as is.
func (s *Surface) ComputeNormals() {
	type accum struct {
		sum    math.Vec3
		weight float64
		used   bool
	}
	acc := make([]accum, len(s.Vertices))

	for fi := range s.Faces {
		face := &s.Faces[fi]
		for ti := range face.Triangles {
			tri := &face.Triangles[ti]
			p0 := s.Vertices[tri.Indices[0]].Position
			p1 := s.Vertices[tri.Indices[1]].Position
			p2 := s.Vertices[tri.Indices[2]].Position
			tri.Normal = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()

			for k := 0; k < 3; k++ {
				cur := tri.Indices[k]
				prev := tri.Indices[(k+2)%3]
				next := tri.Indices[(k+1)%3]
				angle := cornerAngle(s.Vertices[cur].Position, s.Vertices[prev].Position, s.Vertices[next].Position)
				a := &acc[cur]
				a.sum = a.sum.Add(tri.Normal.Scale(angle))
				a.weight += angle
				a.used = true
			}
		}
	}

	for i := range s.Vertices {
		if !acc[i].used {
			continue
		}
		s.Vertices[i].Normal = acc[i].sum.Div(acc[i].weight).Normalize()
	}
}

// cornerAngle is the angle at p between the edges to a and b.
func cornerAngle(p, a, b math.Vec3) float64 {
	e1 := a.Sub(p).Normalize()
	e2 := b.Sub(p).Normalize()
	d := gomath.Max(-1, gomath.Min(1, e1.Dot(e2)))
	return gomath.Acos(d)
}
