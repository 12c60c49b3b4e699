package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle. Vertices are ordered counter-clockwise when
// viewed from outside the solid.
type Triangle3 [3]r3.Vec

// Renderer streams triangles into a buffer. ReadTriangles returns io.EOF
// once every triangle has been read.
type Renderer interface {
	ReadTriangles(t []Triangle3) (int, error)
}

// Cross returns the unnormalized normal (V1-V0)×(V2-V0).
func (t Triangle3) Cross() r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// Normal returns the unit normal following the right hand rule.
// The result is NaN for degenerate triangles.
func (t Triangle3) Normal() r3.Vec {
	return r3.Unit(t.Cross())
}

// Area returns the area of the triangle.
func (t Triangle3) Area() float64 {
	return r3.Norm(t.Cross()) / 2
}

// Degenerate returns true if two vertices of the triangle are equal within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return equalWithin(t[0], t[1], tol) ||
		equalWithin(t[1], t[2], tol) ||
		equalWithin(t[2], t[0], tol)
}

func equalWithin(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}
