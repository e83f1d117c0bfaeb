package geometry

import (
	"fmt"
	"iter"

	"github.com/Faultbox/rwxforge/pkg/math"
)

const (
	// lineEpsilon bounds the side-of-line determinant below which a point is
	// considered on the line.
	lineEpsilon = 0.00025
	// lineScale is applied to both edge vectors before the determinant.
	lineScale = 10
)

// Triangulator splits a simple planar polygon into triangles by ear clipping.
// Triangles are reported as index triples into the input points and keep the
// winding of the input boundary.
type Triangulator struct {
	points    []math.Vec3
	projected []math.Vec2
	clockwise bool

	// order holds input indices of the vertices still on the working
	// boundary, always counterclockwise in 2D.
	order  []int
	convex []int
	reflex []int
}

// NewTriangulator prepares points for triangulation.
func NewTriangulator(points []math.Vec3) *Triangulator {
	t := &Triangulator{
		points:    points,
		projected: ProjectTo2D(points),
	}
	t.clockwise = IsClockwise(t.projected)
	t.order = make([]int, len(points))
	for i := range points {
		if t.clockwise {
			t.order[i] = len(points) - 1 - i
		} else {
			t.order[i] = i
		}
	}
	return t
}

// Triangulate returns all triangles for points.
func Triangulate(points []math.Vec3) ([][3]int, error) {
	var out [][3]int
	for tri, err := range NewTriangulator(points).All() {
		if err != nil {
			return nil, err
		}
		out = append(out, tri)
	}
	return out, nil
}

// All yields triangles lazily. On failure it yields a single error and
// stops. The sequence can only be consumed once.
func (t *Triangulator) All() iter.Seq2[[3]int, error] {
	return func(yield func([3]int, error) bool) {
		if len(t.order) < 3 {
			yield([3]int{}, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(t.order)))
			return
		}
		if len(t.order) == 3 {
			yield(t.emit(0, 1, 2), nil)
			return
		}

		previousCount := 0
		for len(t.order) > 4 {
			t.classify()
			if len(t.order) == previousCount {
				yield([3]int{}, fmt.Errorf("%w: no ear among %d remaining vertices",
					ErrNotTriangulable, len(t.order)))
				return
			}
			previousCount = len(t.order)

			for _, i := range t.convex {
				if !t.isEar(i) {
					continue
				}
				if !yield(t.emit(t.prev(i), i, t.next(i)), nil) {
					return
				}
				t.order = append(t.order[:i], t.order[i+1:]...)
				break
			}
		}

		// Split the remaining quad directly, through its reflex vertex if
		// it has one.
		if t.toLine(t.point2(1), 0, 2) < 0 || t.toLine(t.point2(3), 2, 0) < 0 {
			if !yield(t.emit(1, 2, 3), nil) {
				return
			}
			yield(t.emit(1, 3, 0), nil)
			return
		}
		if !yield(t.emit(0, 1, 2), nil) {
			return
		}
		yield(t.emit(0, 2, 3), nil)
	}
}

// emit maps working positions to input indices, restoring the input winding.
func (t *Triangulator) emit(a, b, c int) [3]int {
	if t.clockwise {
		return [3]int{t.order[c], t.order[b], t.order[a]}
	}
	return [3]int{t.order[a], t.order[b], t.order[c]}
}

func (t *Triangulator) classify() {
	t.convex = t.convex[:0]
	t.reflex = t.reflex[:0]
	for i := range t.order {
		if t.isConvex(i) {
			t.convex = append(t.convex, i)
		} else {
			t.reflex = append(t.reflex, i)
		}
	}
}

// isConvex reports whether working vertex i is strictly convex. Collinear
// and near-collinear vertices count as reflex.
func (t *Triangulator) isConvex(i int) bool {
	if t.isLine(i) {
		return false
	}
	return t.toLine(t.point2(i), t.prev(i), t.next(i)) > 0
}

// isLine reports whether vertex i is collinear with its neighbours in 3D.
func (t *Triangulator) isLine(i int) bool {
	p := t.point3(i)
	u := p.Sub(t.point3(t.prev(i)))
	v := p.Sub(t.point3(t.next(i)))
	return u.Cross(v).Normalize().IsNaN()
}

// isEar reports whether every reflex vertex lies strictly outside the
// triangle formed by i and its neighbours. A reflex vertex touching the
// triangle would pinch the remaining boundary.
func (t *Triangulator) isEar(i int) bool {
	prev, next := t.prev(i), t.next(i)
	for _, r := range t.reflex {
		if r == prev || r == i || r == next {
			continue
		}
		if t.toTriangle(t.point2(r), prev, i, next) <= 0 {
			return false
		}
	}
	return true
}

// toLine returns +1 when test lies right of the directed line v0->v1, -1 when
// left and 0 when within lineEpsilon of it. The endpoints are visited in
// ascending order so both orientations of an edge round identically.
func (t *Triangulator) toLine(test math.Vec2, v0, v1 int) int {
	positive := v0 < v1
	if !positive {
		v0, v1 = v1, v0
	}
	a := test.Sub(t.point2(v0)).Scale(lineScale)
	b := t.point2(v1).Sub(test).Scale(lineScale)
	det := a.Determinant(b)
	if !positive {
		det = -det
	}
	switch {
	case det > lineEpsilon:
		return 1
	case det < -lineEpsilon:
		return -1
	default:
		return 0
	}
}

// toTriangle returns +1 when test is outside the triangle, -1 when strictly
// inside and 0 when on its boundary.
func (t *Triangulator) toTriangle(test math.Vec2, v0, v1, v2 int) int {
	sign0 := t.toLine(test, v1, v2)
	if sign0 > 0 {
		return 1
	}
	sign1 := t.toLine(test, v0, v2)
	if sign1 < 0 {
		return 1
	}
	sign2 := t.toLine(test, v0, v1)
	if sign2 > 0 {
		return 1
	}
	if sign0 != 0 && sign1 != 0 && sign2 != 0 {
		return -1
	}
	return 0
}

func (t *Triangulator) prev(i int) int {
	if i == 0 {
		return len(t.order) - 1
	}
	return i - 1
}

func (t *Triangulator) next(i int) int {
	return (i + 1) % len(t.order)
}

func (t *Triangulator) point2(i int) math.Vec2 {
	return t.projected[t.order[i]]
}

func (t *Triangulator) point3(i int) math.Vec3 {
	return t.points[t.order[i]]
}
