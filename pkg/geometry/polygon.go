// Package geometry provides planar polygon utilities and ear-clipping
// triangulation for 3D polygons that are coplanar or nearly so.
package geometry

import (
	"errors"
	gomath "math"
	"sort"

	"github.com/Faultbox/rwxforge/pkg/math"
)

// Geometry errors.
var (
	ErrDegeneratePolygon = errors.New("polygon needs at least 3 points")
	ErrNotTriangulable   = errors.New("polygon cannot be triangulated")
)

// BoundingBox3 is an axis-aligned bounding box.
type BoundingBox3 struct {
	Min math.Vec3
	Max math.Vec3
}

// ComputeBounds returns the bounding box of points. An empty slice yields a
// zero box.
func ComputeBounds(points []math.Vec3) BoundingBox3 {
	if len(points) == 0 {
		return BoundingBox3{}
	}
	b := BoundingBox3{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X = gomath.Min(b.Min.X, p.X)
		b.Min.Y = gomath.Min(b.Min.Y, p.Y)
		b.Min.Z = gomath.Min(b.Min.Z, p.Z)
		b.Max.X = gomath.Max(b.Max.X, p.X)
		b.Max.Y = gomath.Max(b.Max.Y, p.Y)
		b.Max.Z = gomath.Max(b.Max.Z, p.Z)
	}
	return b
}

// Size returns the extent along each axis.
func (b BoundingBox3) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// ProjectionAxes returns the two axes with the largest extent over points,
// largest first. Ties keep X, Y, Z order.
func ProjectionAxes(points []math.Vec3) (major, minor math.Axis) {
	size := ComputeBounds(points).Size()
	axes := []math.Axis{math.AxisX, math.AxisY, math.AxisZ}
	sort.SliceStable(axes, func(i, j int) bool {
		return size.Component(axes[i]) > size.Component(axes[j])
	})
	return axes[0], axes[1]
}

// ProjectTo2D drops the axis with the smallest extent and returns the points
// expressed on the remaining two.
func ProjectTo2D(points []math.Vec3) []math.Vec2 {
	major, minor := ProjectionAxes(points)
	out := make([]math.Vec2, len(points))
	for i, p := range points {
		out[i] = math.Vec2{X: p.Component(major), Y: p.Component(minor)}
	}
	return out
}

// SignedArea returns the shoelace area of a 2D polygon; negative when the
// boundary runs clockwise.
func SignedArea(points []math.Vec2) float64 {
	var area float64
	n := len(points)
	for i := 0; i < n; i++ {
		next := points[(i+1)%n]
		area += points[i].X*next.Y - points[i].Y*next.X
	}
	return area / 2
}

// IsClockwise reports whether a 2D polygon boundary runs clockwise.
func IsClockwise(points []math.Vec2) bool {
	return SignedArea(points) < 0
}

// Area returns the unsigned area of a 2D polygon.
func Area(points []math.Vec2) float64 {
	return gomath.Abs(SignedArea(points))
}

// Area3 returns the area of a planar 3D polygon measured in its 2D projection.
func Area3(points []math.Vec3) float64 {
	return Area(ProjectTo2D(points))
}
