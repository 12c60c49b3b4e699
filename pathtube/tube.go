// Package pathtube sweeps a polygonal cross section along a 3D polyline,
// producing an open pipe with end caps or a closed torus.
//
// A seam direction is carried from ring to ring so that consecutive cross
// sections line up without twisting. At an elbow the cross section is the
// miter cut of the two cylinders meeting there, an ellipse whose long axis
// bisects the turn.
package pathtube

import (
	"log/slog"
	"math"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// Tube describes a sweep. Points must contain at least 2 distinct
// consecutive points (3 for a torus) and Sides must be at least 3.
type Tube struct {
	Points []oscad.Point
	// Sides is the number of points in each ring.
	Sides  int
	Radius RadiusFunc
	// Torus joins the last ring back to the first instead of capping the ends.
	Torus bool
	// SeamAngle rotates the initial seam, in degrees.
	SeamAngle float64
	// TorusConnectOffset shifts the ring indices joined when closing a torus.
	TorusConnectOffset int
	// Convexity is passed through to OpenSCAD. 0 selects mesh.DefaultConvexity.
	Convexity int
}

// Polyhedron sweeps the tube and builds its mesh.
func (t Tube) Polyhedron() (*mesh.Polyhedron, error) {
	rows, err := t.Rings()
	if err != nil {
		return nil, err
	}
	p, err := mesh.Tube(rows, t.Torus, t.TorusConnectOffset, t.Convexity)
	if err != nil {
		return nil, err
	}
	oscad.Logger().Info("swept path tube",
		slog.Int("rings", len(rows)),
		slog.Int("sides", t.Sides),
		slog.Bool("torus", t.Torus),
		slog.Int("faces", len(p.Faces)),
	)
	return p, nil
}

// Rings returns one ring of Sides points per path point, in path order.
func (t Tube) Rings() ([][]r3.Vec, error) {
	s, err := t.newSweep()
	if err != nil {
		return nil, err
	}
	rows := make([][]r3.Vec, len(s.path))
	for ix := range s.path {
		last := len(s.path) - 1
		switch {
		case !t.Torus && ix == 0:
			rows[ix], err = s.start()
		case !t.Torus && ix == last:
			rows[ix], err = s.end()
		default:
			rows[ix], err = s.elbow(ix)
		}
		if err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func (t Tube) newSweep() (*sweep, error) {
	minPoints := 2
	if t.Torus {
		minPoints = 3
	}
	if len(t.Points) < minPoints {
		return nil, oscad.DomainErrorf("path tube needs at least %d points, got %d", minPoints, len(t.Points))
	}
	if t.Sides < 3 {
		return nil, oscad.DomainErrorf("path tube needs at least 3 sides, got %d", t.Sides)
	}
	if t.Radius == nil {
		return nil, oscad.DomainErrorf("path tube has no radius")
	}
	path := make([]r3.Vec, len(t.Points))
	for i, p := range t.Points {
		v, err := p.R3()
		if err != nil {
			return nil, err
		}
		path[i] = v
	}
	return &sweep{Tube: t, path: path, log: oscad.Logger()}, nil
}

// sweep holds the state carried from one ring to the next.
type sweep struct {
	Tube
	path []r3.Vec
	seam r3.Vec
	log  *slog.Logger
}

// segment returns the unit direction from path point i to j.
func (s *sweep) segment(i, j int) (r3.Vec, error) {
	v, err := oscad.FromR3(r3.Sub(s.path[j], s.path[i])).Norm()
	if err != nil {
		return r3.Vec{}, oscad.DomainErrorf("zero length path segment between points %d and %d", i, j)
	}
	return r3.Vec{X: v.At(0), Y: v.At(1), Z: v.At(2)}, nil
}

// initialSeam picks a seam perpendicular to direction v and rotates it by
// SeamAngle. It returns the seam and the second ring axis v×seam.
func (s *sweep) initialSeam(v r3.Vec) (seam, seam2 r3.Vec) {
	seam = r3.Cross(v, r3.Vec{Z: 1})
	if oscad.FromR3(seam).IsZero() {
		// v is along Z.
		seam = r3.Vec{X: 1}
	}
	seam = r3.Unit(seam)
	seam2 = r3.Unit(r3.Cross(v, seam))
	if s.SeamAngle != 0 {
		sin, cos := math.Sincos(oscad.DtoR(s.SeamAngle))
		seam, seam2 = r3.Add(r3.Scale(cos, seam), r3.Scale(sin, seam2)),
			r3.Add(r3.Scale(-sin, seam), r3.Scale(cos, seam2))
	}
	return seam, seam2
}

func (s *sweep) start() ([]r3.Vec, error) {
	v, err := s.segment(0, 1)
	if err != nil {
		return nil, err
	}
	var seam2 r3.Vec
	s.seam, seam2 = s.initialSeam(v)
	s.log.Debug("ring start", slog.Any("v", v), slog.Any("seam", s.seam), slog.Any("seam2", seam2))
	return s.ring(0, s.seam, seam2, 0)
}

func (s *sweep) end() ([]r3.Vec, error) {
	last := len(s.path) - 1
	v, err := s.segment(last-1, last)
	if err != nil {
		return nil, err
	}
	seam2 := r3.Unit(r3.Cross(v, s.seam))
	s.log.Debug("ring end", slog.Any("v", v), slog.Any("seam", s.seam), slog.Any("seam2", seam2))
	return s.ring(last, s.seam, seam2, 0)
}

// elbow returns the ring at an interior path point, wrapping around the
// path for a torus.
func (s *sweep) elbow(ix int) ([]r3.Vec, error) {
	n := len(s.path)
	iprev, inext := (ix-1+n)%n, (ix+1)%n
	va, err := s.segment(iprev, ix)
	if err != nil {
		return nil, err
	}
	vb, err := s.segment(ix, inext)
	if err != nil {
		return nil, err
	}
	// The component of vb perpendicular to va points to the inside of the turn.
	vdot := r3.Dot(va, vb)
	vbPerp := r3.Sub(vb, r3.Scale(vdot, va))
	if oscad.FromR3(vbPerp).IsZero() {
		if vdot < 0 {
			return nil, oscad.DomainErrorf("path doubles back on itself at point %d", ix)
		}
		return s.straight(ix, va)
	}
	vaInner := r3.Unit(vbPerp)
	vbInner := r3.Unit(r3.Scale(-1, r3.Sub(va, r3.Scale(vdot, vb))))

	// The seam keeps its angle to the inner direction across the elbow.
	var seamAngle float64
	if ix == 0 {
		// Only reached for a torus, nothing to propagate yet.
		seamAngle = oscad.DtoR(s.SeamAngle)
	} else {
		seamAngle, err = angle(s.seam, vaInner)
		if err != nil {
			return nil, err
		}
		if seamAngle != 0 && r3.Dot(r3.Cross(vaInner, s.seam), va) < 0 {
			seamAngle = -seamAngle
		}
	}
	vbInner2 := r3.Unit(r3.Cross(vb, vbInner))
	sin, cos := math.Sincos(seamAngle)
	seamB := r3.Add(r3.Scale(cos, vbInner), r3.Scale(sin, vbInner2))

	// Axes of the ellipse where the cylinders around va and vb intersect.
	turn, err := angle(r3.Scale(-1, va), vb)
	if err != nil {
		return nil, err
	}
	long := r3.Scale(1/math.Sin(turn/2), r3.Unit(r3.Sub(vb, va)))
	short := r3.Unit(r3.Cross(va, long))
	s.log.Debug("ring elbow",
		slog.Int("index", ix),
		slog.Any("va", va),
		slog.Any("vb", vb),
		slog.Float64("turn", oscad.RtoD(turn)),
		slog.Float64("seamAngle", oscad.RtoD(seamAngle)),
	)
	ring, err := s.ring(ix, long, short, seamAngle)
	if err != nil {
		return nil, err
	}
	s.seam = seamB
	return ring, nil
}

// straight returns a circular ring at a path point where the path does not
// turn. The seam is carried through unchanged.
func (s *sweep) straight(ix int, v r3.Vec) ([]r3.Vec, error) {
	var seam2 r3.Vec
	if ix == 0 {
		s.seam, seam2 = s.initialSeam(v)
	} else {
		seam2 = r3.Unit(r3.Cross(v, s.seam))
	}
	s.log.Debug("ring straight", slog.Int("index", ix), slog.Any("v", v), slog.Any("seam", s.seam))
	return s.ring(ix, s.seam, seam2, 0)
}

// ring samples Sides points around the path point ix on the ellipse with
// axes u and v.
func (s *sweep) ring(ix int, u, v r3.Vec, offset float64) ([]r3.Vec, error) {
	center := s.path[ix]
	ring := make([]r3.Vec, s.Sides)
	for i := range ring {
		rad := s.Radius(ix, i)
		if math.IsNaN(rad.R) || math.IsInf(rad.R, 0) {
			return nil, oscad.DomainErrorf("radius at path point %d ring point %d is %g", ix, i, rad.R)
		}
		a := 2 * math.Pi * float64(i) / float64(s.Sides)
		if rad.HasAngle {
			a = oscad.DtoR(rad.Angle)
		}
		sin, cos := math.Sincos(a + offset)
		dir := r3.Add(r3.Scale(cos, u), r3.Scale(sin, v))
		ring[i] = r3.Add(center, r3.Scale(rad.R, dir))
	}
	return ring, nil
}

// angle returns the angle between a and b in radians.
func angle(a, b r3.Vec) (float64, error) {
	return oscad.FromR3(a).Angle(oscad.FromR3(b), oscad.Radians)
}
