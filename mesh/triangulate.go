package mesh

import (
	"io"
	"log/slog"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangles splits every face into triangles for mesh export.
//
// Triangles are emitted directly. Quads are split along their shorter
// diagonal. Faces with 5 or more points are fanned around their centroid,
// which is only correct for convex (or star shaped) faces.
// Triangles with a near zero area normal are dropped.
func (p *Polyhedron) Triangles() ([]render.Triangle3, error) {
	tris := make([]render.Triangle3, 0, 2*len(p.Faces))
	var err error
	for i := range p.Faces {
		tris, err = p.appendFaceTriangles(tris, i)
		if err != nil {
			return nil, err
		}
	}
	return tris, nil
}

func (p *Polyhedron) appendFaceTriangles(dst []render.Triangle3, iface int) ([]render.Triangle3, error) {
	face := p.Faces[iface]
	pts := make(d3.Set, len(face))
	for i, idx := range face {
		if idx < 0 || idx >= len(p.Points) {
			return dst, oscad.StructuralErrorf("face %d index %d out of range [0,%d)", iface, idx, len(p.Points))
		}
		pts[i] = p.Points[idx]
	}
	switch len(pts) {
	case 0, 1, 2:
		return dst, oscad.StructuralErrorf("face %d has %d points, need at least 3", iface, len(pts))
	case 3:
		dst = appendTriangle(dst, iface, pts[0], pts[1], pts[2])
	case 4:
		d1 := r3.Norm(r3.Sub(pts[0], pts[2]))
		d2 := r3.Norm(r3.Sub(pts[1], pts[3]))
		if d1 < d2 {
			dst = appendTriangle(dst, iface, pts[0], pts[1], pts[2])
			dst = appendTriangle(dst, iface, pts[0], pts[2], pts[3])
		} else {
			dst = appendTriangle(dst, iface, pts[0], pts[1], pts[3])
			dst = appendTriangle(dst, iface, pts[1], pts[2], pts[3])
		}
	default:
		center := pts.Centroid()
		for i := range pts {
			dst = appendTriangle(dst, iface, pts[i], pts[(i+1)%len(pts)], center)
		}
	}
	return dst, nil
}

func appendTriangle(dst []render.Triangle3, iface int, a, b, c r3.Vec) []render.Triangle3 {
	t := render.Triangle3{a, b, c}
	if r3.Norm(t.Cross()) < oscad.Epsilon {
		oscad.Logger().Debug("dropping degenerate triangle", slog.Int("face", iface))
		return dst
	}
	return append(dst, t)
}

// Renderer streams the triangles of a polyhedron face by face.
// It implements render.Renderer.
type Renderer struct {
	p       *Polyhedron
	next    int
	pending []render.Triangle3
}

// NewRenderer returns a Renderer over the faces of p.
func NewRenderer(p *Polyhedron) *Renderer {
	return &Renderer{p: p}
}

// ReadTriangles fills t with triangles and returns io.EOF once every face
// has been triangulated.
func (r *Renderer) ReadTriangles(t []render.Triangle3) (n int, err error) {
	for n < len(t) {
		if len(r.pending) == 0 {
			if r.next >= len(r.p.Faces) {
				return n, io.EOF
			}
			r.pending, err = r.p.appendFaceTriangles(r.pending[:0], r.next)
			if err != nil {
				return n, err
			}
			r.next++
			continue
		}
		copied := copy(t[n:], r.pending)
		n += copied
		r.pending = r.pending[copied:]
	}
	return n, nil
}
