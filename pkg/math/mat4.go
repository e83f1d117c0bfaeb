package math

import "math"

// Mat4 is a 4x4 affine transform in column-major order, applied to column
// vectors (p' = M * p).
// Layout: [m0 m4 m8  m12]
//
//	[m1 m5 m9  m13]
//	[m2 m6 m10 m14]
//	[m3 m7 m11 m15]
//
// The homogeneous row (m3, m7, m11, m15) is always 0, 0, 0, 1.
type Mat4 [16]float64

// Identity returns an identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromArray builds a matrix from 16 column-major values. The homogeneous
// row is overwritten with 0, 0, 0, 1.
func FromArray(values [16]float64) Mat4 {
	return Mat4(values).Affine()
}

// Affine returns m with its homogeneous row reset to 0, 0, 0, 1.
func (m Mat4) Affine() Mat4 {
	m[3], m[7], m[11], m[15] = 0, 0, 0, 1
	return m
}

// Translation returns a translation matrix.
func Translation(x, y, z float64) Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		x, y, z, 1,
	}
}

// Scaling returns a non-uniform scale matrix.
func Scaling(x, y, z float64) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// Rotation returns a rotation of degrees around an arbitrary axis.
// The axis is normalized first; a zero axis yields the identity.
func Rotation(axis Vec3, degrees float64) Mat4 {
	l := axis.Length()
	if l == 0 {
		return Identity()
	}
	x, y, z := axis.X/l, axis.Y/l, axis.Z/l

	rad := degrees * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	t := 1 - c

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// At returns the element at the given row and column.
func (m Mat4) At(row, col int) float64 {
	return m[col*4+row]
}

// Mul multiplies this matrix by another (m * other).
func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			result[col*4+row] =
				m[0*4+row]*other[col*4+0] +
					m[1*4+row]*other[col*4+1] +
					m[2*4+row]*other[col*4+2] +
					m[3*4+row]*other[col*4+3]
		}
	}
	return result
}

// Translate returns m composed with a translation applied before m.
func (m Mat4) Translate(x, y, z float64) Mat4 {
	return m.Mul(Translation(x, y, z))
}

// Rotate returns m composed with a rotation applied before m.
func (m Mat4) Rotate(axis Vec3, degrees float64) Mat4 {
	return m.Mul(Rotation(axis, degrees))
}

// Scale returns m composed with a scale applied before m.
func (m Mat4) Scale(x, y, z float64) Mat4 {
	return m.Mul(Scaling(x, y, z))
}

// TransformPoint transforms a point (w=1).
func (m Mat4) TransformPoint(p Vec3) Vec3 {
	return Vec3{
		m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12],
		m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13],
		m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14],
	}
}

// TransformDirection transforms a direction vector (ignores translation).
func (m Mat4) TransformDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}

// Determinant3 returns the determinant of the upper-left 3x3 block.
// A negative value means the transform mirrors geometry.
func (m Mat4) Determinant3() float64 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

// IsIdentity reports whether m is exactly the identity.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}
