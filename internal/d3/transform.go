package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is an affine map v -> M*v + T.
// The zero value of Transform is the identity transform.
type Transform struct {
	// The identity is subtracted from the diagonal so that
	//  if T == (Transform{})
	// checks for identity.
	d00, x01, x02, x03 float64
	x10, d11, x12, x13 float64
	x20, x21, d22, x23 float64
}

// Transform applies the Transform to the argument vector
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: (t.d00+1)*v.X + t.x01*v.Y + t.x02*v.Z + t.x03,
		Y: t.x10*v.X + (t.d11+1)*v.Y + t.x12*v.Z + t.x13,
		Z: t.x20*v.X + t.x21*v.Y + (t.d22+1)*v.Z + t.x23,
	}
}

// Translate returns a transform that moves points by v.
func Translate(v r3.Vec) Transform {
	return Transform{x03: v.X, x13: v.Y, x23: v.Z}
}

// Scale returns a transform that scales points component-wise by f.
func Scale(f r3.Vec) Transform {
	return Transform{d00: f.X - 1, d11: f.Y - 1, d22: f.Z - 1}
}

// Rotate returns a transform that rotates points by deg degrees
// counter-clockwise about axis, like OpenSCAD's rotate(a, v).
func Rotate(deg float64, axis r3.Vec) Transform {
	q := r3.NewRotation(deg*math.Pi/180, axis)
	x := q.Rotate(r3.Vec{X: 1})
	y := q.Rotate(r3.Vec{Y: 1})
	z := q.Rotate(r3.Vec{Z: 1})
	return Transform{
		d00: x.X - 1, x01: y.X, x02: z.X,
		x10: x.Y, d11: y.Y - 1, x12: z.Y,
		x20: x.Z, x21: y.Z, d22: z.Z - 1,
	}
}

// Mul returns a*b, the transform that applies b and then a.
func (a Transform) Mul(b Transform) Transform {
	am, bm := a.rows(), b.rows()
	var m [3][4]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 3; k++ {
				m[i][j] += am[i][k] * bm[k][j]
			}
		}
		m[i][3] += am[i][3]
	}
	return Transform{
		d00: m[0][0] - 1, x01: m[0][1], x02: m[0][2], x03: m[0][3],
		x10: m[1][0], d11: m[1][1] - 1, x12: m[1][2], x13: m[1][3],
		x20: m[2][0], x21: m[2][1], d22: m[2][2] - 1, x23: m[2][3],
	}
}

// Det returns the determinant of the linear part of the transform.
// A negative determinant mirrors space and reverses triangle winding.
func (t Transform) Det() float64 {
	m := t.rows()
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Equals tests the equality of the Transforms to within a tolerance.
func (a Transform) Equals(b Transform, tolerance float64) bool {
	am, bm := a.rows(), b.rows()
	for i := range am {
		for j := range am[i] {
			if math.Abs(am[i][j]-bm[i][j]) > tolerance {
				return false
			}
		}
	}
	return true
}

func (t Transform) rows() [3][4]float64 {
	return [3][4]float64{
		{t.d00 + 1, t.x01, t.x02, t.x03},
		{t.x10, t.d11 + 1, t.x12, t.x13},
		{t.x20, t.x21, t.d22 + 1, t.x23},
	}
}
