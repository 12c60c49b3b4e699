package scad

import (
	"math"
	"strconv"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/mesh"
	"github.com/soypat/oscad/pathtube"
)

type cube struct {
	size   oscad.Point
	center bool
}

// Cube returns a cube in the first octant, or centered on the origin when
// center is set.
func Cube(size oscad.Point, center bool) (Node, error) {
	if size.Dim() != 3 {
		return nil, oscad.DomainErrorf("cube size needs 3 dimensions, got %d", size.Dim())
	}
	return &cube{size: size, center: center}, nil
}

func (c *cube) ForEachChild(fn func(Node) error) error { return nil }

func (c *cube) AppendSCAD(b []byte) []byte {
	b = append(b, "cube(size="...)
	b = c.size.AppendSCAD(b)
	b = append(b, ", center="...)
	b = oscad.AppendBool(b, c.center)
	return append(b, ");"...)
}

type sphere struct {
	r float64
}

// Sphere returns a sphere of radius r at the origin.
func Sphere(r float64) Node {
	return &sphere{r: r}
}

func (s *sphere) ForEachChild(fn func(Node) error) error { return nil }

func (s *sphere) AppendSCAD(b []byte) []byte {
	b = append(b, "sphere(r="...)
	b = oscad.AppendFloat(b, s.r)
	return append(b, ");"...)
}

type cylinder struct {
	h, r1, r2 float64
	center    bool
}

// Cylinder returns a cylinder or cone along the z axis with bottom radius r1
// and top radius r2.
func Cylinder(h, r1, r2 float64, center bool) Node {
	return &cylinder{h: h, r1: r1, r2: r2, center: center}
}

func (c *cylinder) ForEachChild(fn func(Node) error) error { return nil }

func (c *cylinder) AppendSCAD(b []byte) []byte {
	b = append(b, "cylinder(h="...)
	b = oscad.AppendFloat(b, c.h)
	b = append(b, ", r1="...)
	b = oscad.AppendFloat(b, c.r1)
	b = append(b, ", r2="...)
	b = oscad.AppendFloat(b, c.r2)
	b = append(b, ", center="...)
	b = oscad.AppendBool(b, c.center)
	return append(b, ");"...)
}

// CylinderFromEnds returns a cylinder of radius r running from p1 to p2.
func CylinderFromEnds(r float64, p1, p2 oscad.Point) (Node, error) {
	v, err := p2.Sub(p1)
	if err != nil {
		return nil, err
	}
	length := v.Length()
	if length == 0 {
		return nil, oscad.DomainErrorf("cylinder ends %v and %v coincide", p1, p2)
	}
	z := oscad.P3(0, 0, 1)
	axis, err := z.Cross(v)
	if err != nil {
		return nil, err
	}
	a, err := v.Angle(z, oscad.Degrees)
	if err != nil {
		return nil, err
	}
	if axis.Length() == 0 {
		// Along Z. Pointing down, start from the other end instead.
		if math.Abs(a-180) < 0.1 {
			p1 = p2
		}
		a = 0
		axis = z
	} else {
		axis, err = axis.Norm()
		if err != nil {
			return nil, err
		}
	}
	return Translate(Rotate(Cylinder(length, r, r, false), a, axis), p1), nil
}

type circle struct {
	r  float64
	fn int
}

// Circle returns a circle of radius r at the origin. A positive fn sets
// OpenSCAD's $fn, turning the circle into a regular polygon.
func Circle(r float64, fn int) Node {
	return &circle{r: r, fn: fn}
}

// Triangle returns a regular triangle with circumradius r.
func Triangle(r float64) Node { return Circle(r, 3) }

// RegularPolygon returns a regular polygon with circumradius r.
func RegularPolygon(r float64, sides int) Node { return Circle(r, sides) }

func (c *circle) ForEachChild(fn func(Node) error) error { return nil }

func (c *circle) AppendSCAD(b []byte) []byte {
	b = append(b, "circle(r="...)
	b = oscad.AppendFloat(b, c.r)
	if c.fn > 0 {
		b = append(b, ", $fn="...)
		b = strconv.AppendInt(b, int64(c.fn), 10)
	}
	return append(b, ");"...)
}

type polygon struct {
	points    []oscad.Point
	convexity int
}

// Polygon returns a 2D polygon. A convexity of 0 selects
// mesh.DefaultConvexity.
func Polygon(points []oscad.Point, convexity int) (Node, error) {
	if len(points) < 3 {
		return nil, oscad.StructuralErrorf("polygon needs at least 3 points, got %d", len(points))
	}
	for i, p := range points {
		if p.Dim() != 2 {
			return nil, oscad.DomainErrorf("polygon point %d has %d dimensions, want 2", i, p.Dim())
		}
	}
	if convexity <= 0 {
		convexity = mesh.DefaultConvexity
	}
	return &polygon{points: append([]oscad.Point(nil), points...), convexity: convexity}, nil
}

func (p *polygon) ForEachChild(fn func(Node) error) error { return nil }

func (p *polygon) AppendSCAD(b []byte) []byte {
	b = append(b, "polygon(points=["...)
	for i, pt := range p.points {
		if i > 0 {
			b = append(b, ',')
		}
		b = pt.AppendSCAD(b)
	}
	b = append(b, "], convexity="...)
	b = strconv.AppendInt(b, int64(p.convexity), 10)
	return append(b, ");"...)
}

// PolyhedronNode renders an indexed mesh as an OpenSCAD polyhedron.
type PolyhedronNode struct {
	mesh *mesh.Polyhedron
}

// Polyhedron returns a node rendering p.
func Polyhedron(p *mesh.Polyhedron) *PolyhedronNode {
	return &PolyhedronNode{mesh: p}
}

// PathTube sweeps t and returns the resulting polyhedron node.
func PathTube(t pathtube.Tube) (*PolyhedronNode, error) {
	p, err := t.Polyhedron()
	if err != nil {
		return nil, err
	}
	return Polyhedron(p), nil
}

// Mesh returns the polyhedron rendered by the node.
func (p *PolyhedronNode) Mesh() *mesh.Polyhedron { return p.mesh }

func (p *PolyhedronNode) ForEachChild(fn func(Node) error) error { return nil }

func (p *PolyhedronNode) AppendSCAD(b []byte) []byte {
	b = append(b, "polyhedron(points=["...)
	for i, v := range p.mesh.Points {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '[')
		b = oscad.AppendFloats(b, []float64{v.X, v.Y, v.Z}, ',')
		b = append(b, ']')
	}
	b = append(b, "], faces=["...)
	for i, face := range p.mesh.Faces {
		if i > 0 {
			b = append(b, ',')
		}
		b = append(b, '[')
		b = oscad.AppendInts(b, face, ',')
		b = append(b, ']')
	}
	b = append(b, "], convexity="...)
	convexity := p.mesh.Convexity
	if convexity <= 0 {
		convexity = mesh.DefaultConvexity
	}
	b = strconv.AppendInt(b, int64(convexity), 10)
	return append(b, ");"...)
}
