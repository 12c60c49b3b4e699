package oscad

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the length below which a vector is considered zero by IsZero.
const Epsilon = 1e-7

// Point is an immutable point or vector in an arbitrary number of dimensions.
// The zero value is a zero-dimensional point. All operations return new values.
type Point struct {
	c []float64
}

// NewPoint returns a point with a copy of coords.
func NewPoint(coords ...float64) Point {
	c := make([]float64, len(coords))
	copy(c, coords)
	return Point{c: c}
}

// P3 returns a 3D point.
func P3(x, y, z float64) Point { return Point{c: []float64{x, y, z}} }

// P2 returns a 2D point.
func P2(x, y float64) Point { return Point{c: []float64{x, y}} }

// FromR3 converts a gonum 3D vector to a Point.
func FromR3(v r3.Vec) Point { return P3(v.X, v.Y, v.Z) }

// Dim returns the number of dimensions.
func (p Point) Dim() int { return len(p.c) }

// At returns the i'th coordinate.
func (p Point) At(i int) float64 { return p.c[i] }

// Coords returns a copy of the coordinates.
func (p Point) Coords() []float64 {
	c := make([]float64, len(p.c))
	copy(c, p.c)
	return c
}

// R3 converts a 3D point to a gonum vector.
func (p Point) R3() (r3.Vec, error) {
	if err := p.want3D("R3"); err != nil {
		return r3.Vec{}, err
	}
	return r3.Vec{X: p.c[0], Y: p.c[1], Z: p.c[2]}, nil
}

func (p Point) want3D(op string) error {
	if len(p.c) != 3 {
		return DomainErrorf("%s requires 3 dimensions, got %d", op, len(p.c))
	}
	return nil
}

func (p Point) sameDim(op string, q Point) error {
	if len(p.c) != len(q.c) {
		return DomainErrorf("%s dimension mismatch %d != %d", op, len(p.c), len(q.c))
	}
	return nil
}

// Add returns p+q.
func (p Point) Add(q Point) (Point, error) {
	if err := p.sameDim("add", q); err != nil {
		return Point{}, err
	}
	return Point{c: floats.AddTo(make([]float64, len(p.c)), p.c, q.c)}, nil
}

// Sub returns p-q.
func (p Point) Sub(q Point) (Point, error) {
	if err := p.sameDim("sub", q); err != nil {
		return Point{}, err
	}
	return Point{c: floats.SubTo(make([]float64, len(p.c)), p.c, q.c)}, nil
}

// Scale returns p scaled by f.
func (p Point) Scale(f float64) Point {
	return Point{c: floats.ScaleTo(make([]float64, len(p.c)), f, p.c)}
}

// Neg returns -p.
func (p Point) Neg() Point { return p.Scale(-1) }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) (float64, error) {
	if err := p.sameDim("dot", q); err != nil {
		return 0, err
	}
	return floats.Dot(p.c, q.c), nil
}

// Cross returns the cross product p×q. Both points must be 3D.
func (p Point) Cross(q Point) (Point, error) {
	if err := p.want3D("cross"); err != nil {
		return Point{}, err
	}
	if err := q.want3D("cross"); err != nil {
		return Point{}, err
	}
	a := r3.Vec{X: p.c[0], Y: p.c[1], Z: p.c[2]}
	b := r3.Vec{X: q.c[0], Y: q.c[1], Z: q.c[2]}
	return FromR3(r3.Cross(a, b)), nil
}

// Length returns the euclidean length of the vector.
func (p Point) Length() float64 {
	if len(p.c) == 0 {
		return 0
	}
	return floats.Norm(p.c, 2)
}

// IsZero reports whether the length of the vector is below Epsilon.
func (p Point) IsZero() bool { return p.Length() < Epsilon }

// Norm returns the unit vector in the direction of p.
// It fails for a vector of exactly zero length.
func (p Point) Norm() (Point, error) {
	l := p.Length()
	if l == 0 {
		return Point{}, DomainErrorf("normalizing zero vector")
	}
	return p.Scale(1 / l), nil
}

// Angle returns the angle between p and q in the given unit.
func (p Point) Angle(q Point, unit AngleUnit) (float64, error) {
	d, err := p.Dot(q)
	if err != nil {
		return 0, err
	}
	lp, lq := p.Length(), q.Length()
	if lp == 0 || lq == 0 {
		return 0, DomainErrorf("angle with zero length vector")
	}
	cos := math.Max(-1, math.Min(1, d/lp/lq))
	return unit.fromRadians(math.Acos(cos))
}

// ZSlope returns the elevation of the 3D vector above the XY plane.
func (p Point) ZSlope(unit AngleUnit) (float64, error) {
	if err := p.want3D("z slope"); err != nil {
		return 0, err
	}
	l := p.Length()
	if l == 0 {
		return 0, DomainErrorf("z slope of zero length vector")
	}
	sin := math.Max(-1, math.Min(1, p.c[2]/l))
	return unit.fromRadians(math.Asin(sin))
}

// Rotate rotates p by degrees within the plane formed by coordinate
// indices ca and cb.
func (p Point) Rotate(ca, cb int, degrees float64) (Point, error) {
	n := len(p.c)
	if ca < 0 || cb < 0 || ca >= n || cb >= n || ca == cb {
		return Point{}, DomainErrorf("invalid rotation plane (%d,%d) for %d dimensions", ca, cb, n)
	}
	s, c := math.Sincos(DtoR(degrees))
	r := p.Coords()
	r[ca] = c*p.c[ca] + s*p.c[cb]
	r[cb] = -s*p.c[ca] + c*p.c[cb]
	return Point{c: r}, nil
}

// Equal reports whether p and q have identical coordinates.
func (p Point) Equal(q Point) bool {
	return len(p.c) == len(q.c) && floats.Equal(p.c, q.c)
}

// AllClose reports whether p and q have the same dimension and every
// coordinate satisfies |p-q| <= 1e-8 + 1e-5*|q|.
func (p Point) AllClose(q Point) bool {
	if len(p.c) != len(q.c) {
		return false
	}
	const atol, rtol = 1e-8, 1e-5
	for i, v := range p.c {
		if math.Abs(v-q.c[i]) > atol+rtol*math.Abs(q.c[i]) {
			return false
		}
	}
	return true
}

// Less reports whether every coordinate of p is less than q's.
func (p Point) Less(q Point) bool {
	return p.all(q, func(a, b float64) bool { return a < b })
}

// LessEqual reports whether every coordinate of p is less than or equal to q's.
func (p Point) LessEqual(q Point) bool {
	return p.all(q, func(a, b float64) bool { return a <= b })
}

// Greater reports whether every coordinate of p is greater than q's.
func (p Point) Greater(q Point) bool {
	return p.all(q, func(a, b float64) bool { return a > b })
}

// GreaterEqual reports whether every coordinate of p is greater than or equal to q's.
func (p Point) GreaterEqual(q Point) bool {
	return p.all(q, func(a, b float64) bool { return a >= b })
}

func (p Point) all(q Point, cmp func(a, b float64) bool) bool {
	if len(p.c) != len(q.c) {
		return false
	}
	for i, v := range p.c {
		if !cmp(v, q.c[i]) {
			return false
		}
	}
	return true
}

// AppendSCAD appends the OpenSCAD vector literal of p, i.e. [x,y,z].
func (p Point) AppendSCAD(b []byte) []byte {
	b = append(b, '[')
	b = AppendFloats(b, p.c, ',')
	return append(b, ']')
}

// AppendSTL appends the coordinates separated by spaces.
func (p Point) AppendSTL(b []byte) []byte {
	return AppendFloats(b, p.c, ' ')
}

// String returns the OpenSCAD form of p.
func (p Point) String() string {
	return string(p.AppendSCAD(nil))
}
