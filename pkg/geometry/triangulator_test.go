package geometry

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/rwxforge/pkg/math"
)

func regularPolygon(n int, radius float64) []math.Vec3 {
	pts := make([]math.Vec3, n)
	for i := range pts {
		a := 2 * gomath.Pi * float64(i) / float64(n)
		pts[i] = math.Vec3{X: radius * gomath.Cos(a), Y: radius * gomath.Sin(a)}
	}
	return pts
}

func reversed(pts []math.Vec3) []math.Vec3 {
	out := make([]math.Vec3, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// triangleArea sums projected triangle areas and checks that each triangle
// winds like the polygon.
func triangleArea(t *testing.T, pts []math.Vec3, tris [][3]int) float64 {
	t.Helper()
	polyCW := IsClockwise(ProjectTo2D(pts))
	major, minor := ProjectionAxes(pts)

	var total float64
	for _, tri := range tris {
		flat := make([]math.Vec2, 3)
		for k, idx := range tri {
			flat[k] = math.Vec2{X: pts[idx].Component(major), Y: pts[idx].Component(minor)}
		}
		signed := SignedArea(flat)
		if signed != 0 {
			assert.Equal(t, polyCW, signed < 0, "triangle %v winds against the polygon", tri)
		}
		total += gomath.Abs(signed)
	}
	return total
}

func TestTriangulateConvex(t *testing.T) {
	for _, n := range []int{3, 4, 5, 6, 8, 12, 31} {
		for _, flip := range []bool{false, true} {
			pts := regularPolygon(n, 2)
			if flip {
				pts = reversed(pts)
			}
			tris, err := Triangulate(pts)
			require.NoError(t, err, "n=%d flip=%v", n, flip)
			assert.Len(t, tris, n-2, "n=%d flip=%v", n, flip)
			assert.InDelta(t, Area3(pts), triangleArea(t, pts, tris), 1e-9, "n=%d flip=%v", n, flip)
		}
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L shape in the XZ plane.
	pts := []math.Vec3{
		{X: 0, Z: 0},
		{X: 2, Z: 0},
		{X: 2, Z: 1},
		{X: 1, Z: 1},
		{X: 1, Z: 2},
		{X: 0, Z: 2},
	}
	for _, p := range [][]math.Vec3{pts, reversed(pts)} {
		tris, err := Triangulate(p)
		require.NoError(t, err)
		assert.Len(t, tris, 4)
		assert.InDelta(t, 3.0, triangleArea(t, p, tris), 1e-9)
	}
}

func TestTriangulateStar(t *testing.T) {
	var pts []math.Vec3
	for i := 0; i < 10; i++ {
		r := 2.0
		if i%2 == 1 {
			r = 0.8
		}
		a := gomath.Pi * float64(i) / 5
		pts = append(pts, math.Vec3{X: r * gomath.Cos(a), Y: 1, Z: r * gomath.Sin(a)})
	}
	tris, err := Triangulate(pts)
	require.NoError(t, err)
	assert.Len(t, tris, 8)
	assert.InDelta(t, Area3(pts), triangleArea(t, pts, tris), 1e-9)
}

func TestTriangulateIndicesCoverInput(t *testing.T) {
	pts := regularPolygon(7, 1)
	tris, err := Triangulate(pts)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, tri := range tris {
		for _, idx := range tri {
			require.True(t, idx >= 0 && idx < len(pts))
			seen[idx] = true
		}
	}
	assert.Len(t, seen, len(pts))
}

func TestTriangulateIdempotent(t *testing.T) {
	// A cube face with a duplicated edge midpoint.
	pts := []math.Vec3{
		{X: 0, Y: 0, Z: 1},
		{X: 0.5, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
	first, err := Triangulate(pts)
	require.NoError(t, err)
	second, err := Triangulate(pts)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	assert.InDelta(t, triangleArea(t, pts, first), triangleArea(t, pts, second), 1e-12)
	assert.InDelta(t, 1.0, triangleArea(t, pts, first), 1e-9)
}

func TestTriangulateSingleTriangleKeepsOrder(t *testing.T) {
	pts := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}}
	tris, err := Triangulate(pts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{0, 1, 2}}, tris)
}

func TestTriangulateErrors(t *testing.T) {
	_, err := Triangulate([]math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}})
	assert.ErrorIs(t, err, ErrDegeneratePolygon)

	// Five collinear points leave no ear.
	line := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 4, Y: 0, Z: 0}}
	_, err = Triangulate(line)
	assert.ErrorIs(t, err, ErrNotTriangulable)
}

func TestTriangulatorStopsEarly(t *testing.T) {
	tri := NewTriangulator(regularPolygon(9, 1))
	count := 0
	for _, err := range tri.All() {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
