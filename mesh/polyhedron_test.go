package mesh_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ringRows returns nrows regular rings of fn points stacked along z,
// oriented clockwise when looking along +z.
func ringRows(nrows, fn int) [][]r3.Vec {
	rows := make([][]r3.Vec, nrows)
	for i := range rows {
		rows[i] = make([]r3.Vec, fn)
		for j := range rows[i] {
			s, c := math.Sincos(2 * math.Pi * float64(j) / float64(fn))
			rows[i][j] = r3.Vec{X: c, Y: s, Z: float64(i)}
		}
	}
	return rows
}

// torusRows returns rings swept around the z axis so the last ring is
// adjacent to the first.
func torusRows(nrows, fn int) [][]r3.Vec {
	const R, r = 5, 1
	rows := make([][]r3.Vec, nrows)
	for i := range rows {
		sa, ca := math.Sincos(2 * math.Pi * float64(i) / float64(nrows))
		radial := r3.Vec{X: ca, Y: sa}
		rows[i] = make([]r3.Vec, fn)
		for j := range rows[i] {
			sb, cb := math.Sincos(2 * math.Pi * float64(j) / float64(fn))
			rows[i][j] = r3.Add(r3.Scale(R+r*cb, radial), r3.Vec{Z: r * sb})
		}
	}
	return rows
}

func TestTubeOpen(t *testing.T) {
	for _, test := range []struct{ rows, fn int }{
		{2, 3}, {3, 4}, {10, 8}, {5, 17},
	} {
		p, err := mesh.Tube(ringRows(test.rows, test.fn), false, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(p.Points) != test.rows*test.fn {
			t.Errorf("rows=%d fn=%d: got %d points", test.rows, test.fn, len(p.Points))
		}
		want := (test.rows-1)*test.fn + 2
		if len(p.Faces) != want {
			t.Errorf("rows=%d fn=%d: got %d faces, want %d", test.rows, test.fn, len(p.Faces), want)
		}
		start := p.Faces[len(p.Faces)-2]
		end := p.Faces[len(p.Faces)-1]
		for i := 1; i < test.fn; i++ {
			if start[i] <= start[i-1] {
				t.Errorf("start cap not in ascending order: %v", start)
				break
			}
			if end[i] >= end[i-1] {
				t.Errorf("end cap not in descending order: %v", end)
				break
			}
		}
		if !p.Closed() {
			t.Errorf("rows=%d fn=%d: open tube mesh is not closed", test.rows, test.fn)
		}
		if p.Convexity != mesh.DefaultConvexity {
			t.Errorf("got convexity %d", p.Convexity)
		}
	}
}

func TestTorus(t *testing.T) {
	for _, test := range []struct{ rows, fn, offset int }{
		{3, 3, 0}, {12, 6, 0}, {12, 6, 2}, {7, 5, -1},
	} {
		p, err := mesh.Torus(torusRows(test.rows, test.fn), test.offset, 3)
		if err != nil {
			t.Fatal(err)
		}
		want := test.rows * test.fn
		if len(p.Faces) != want {
			t.Errorf("rows=%d fn=%d: got %d faces, want %d", test.rows, test.fn, len(p.Faces), want)
		}
		uses := make([]int, len(p.Points))
		for _, face := range p.Faces {
			for _, idx := range face {
				uses[idx]++
			}
		}
		for idx, n := range uses {
			if n < 3 {
				t.Errorf("point %d used by %d faces", idx, n)
			}
		}
		if !p.Closed() {
			t.Errorf("rows=%d fn=%d offset=%d: torus mesh is not closed", test.rows, test.fn, test.offset)
		}
		if p.Convexity != 3 {
			t.Errorf("got convexity %d, want 3", p.Convexity)
		}
	}
}

func TestTubeBadRows(t *testing.T) {
	for name, rows := range map[string][][]r3.Vec{
		"one row":    ringRows(1, 4),
		"two points": ringRows(3, 2),
		"ragged":     append(ringRows(2, 4), ringRows(1, 5)...),
	} {
		_, err := mesh.Tube(rows, false, 0, 0)
		if !errors.Is(err, oscad.ErrStructural) {
			t.Errorf("%s: expected structural error, got %v", name, err)
		}
	}
}

func TestFromHeightmap(t *testing.T) {
	heights := [][]float64{
		{1, 2, 3, 2},
		{2, 3, 4, 3},
		{1, 1, 2, 1},
	}
	p, err := mesh.FromHeightmap(heights, -1, 0.5, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	const rows, cols = 3, 4
	if len(p.Points) != 2*rows*cols {
		t.Errorf("got %d points, want %d", len(p.Points), 2*rows*cols)
	}
	wantFaces := 2*(rows-1)*(cols-1) + 2*(rows-1) + 2*(cols-1)
	if len(p.Faces) != wantFaces {
		t.Errorf("got %d faces, want %d", len(p.Faces), wantFaces)
	}
	if !p.Closed() {
		t.Error("heightmap mesh is not closed")
	}
	bb := p.Bounds()
	want := d3.Box{Min: r3.Vec{X: 0, Y: 0, Z: -1}, Max: r3.Vec{X: 1, Y: 6, Z: 4}}
	if !bb.Equals(want, 1e-12) {
		t.Errorf("got bounds %+v, want %+v", bb, want)
	}
	// Faces wind clockwise from outside so top surface normals point down.
	tris, err := p.Triangles()
	if err != nil {
		t.Fatal(err)
	}
	for _, tri := range tris[:2*(rows-1)*(cols-1)] {
		if tri.Normal().Z >= 0 {
			t.Fatalf("top triangle normal points up: %v", tri.Normal())
		}
	}
	// Flip gives the counter-clockwise order other tools expect.
	tris, err = p.Flip().Triangles()
	if err != nil {
		t.Fatal(err)
	}
	for _, tri := range tris[:2*(rows-1)*(cols-1)] {
		if tri.Normal().Z <= 0 {
			t.Fatalf("flipped top triangle normal points down: %v", tri.Normal())
		}
	}
}

func TestFromHeightmapBad(t *testing.T) {
	_, err := mesh.FromHeightmap([][]float64{{1, 2}}, 0, 1, 1, 0)
	if !errors.Is(err, oscad.ErrStructural) {
		t.Errorf("expected structural error, got %v", err)
	}
	_, err = mesh.FromHeightmap([][]float64{{1, 2}, {1}}, 0, 1, 1, 0)
	if !errors.Is(err, oscad.ErrStructural) {
		t.Errorf("expected structural error for ragged heights, got %v", err)
	}
}

func TestNew(t *testing.T) {
	pts := []oscad.Point{oscad.P3(0, 0, 0), oscad.P3(1, 0, 0), oscad.P3(0, 1, 0)}
	p, err := mesh.New(pts, [][]int{{0, 1, 2}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Points) != 3 || p.Points[1] != (r3.Vec{X: 1}) {
		t.Errorf("unexpected points %v", p.Points)
	}
	_, err = mesh.New(pts, [][]int{{0, 1, 3}}, 0)
	if !errors.Is(err, oscad.ErrStructural) {
		t.Errorf("expected structural error for out of range index, got %v", err)
	}
	_, err = mesh.New(pts, [][]int{{0, 1}}, 0)
	if !errors.Is(err, oscad.ErrStructural) {
		t.Errorf("expected structural error for 2 point face, got %v", err)
	}
	_, err = mesh.New([]oscad.Point{oscad.P2(0, 0)}, nil, 0)
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for 2D point, got %v", err)
	}
}

func TestFlip(t *testing.T) {
	p, err := mesh.Tube(ringRows(3, 5), false, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	f := p.Flip()
	if !f.Closed() {
		t.Error("flipped mesh not closed")
	}
	for i, face := range p.Faces {
		for j, idx := range face {
			if f.Faces[i][len(face)-1-j] != idx {
				t.Fatalf("face %d not reversed: %v vs %v", i, face, f.Faces[i])
			}
		}
	}
}

func TestClosedOpenMesh(t *testing.T) {
	p := &mesh.Polyhedron{
		Points: []r3.Vec{{}, {X: 1}, {Y: 1}},
		Faces:  [][]int{{0, 1, 2}},
	}
	if p.Closed() {
		t.Error("single triangle reported closed")
	}
}
