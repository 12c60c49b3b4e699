// Package mesh builds indexed polyhedra: a shared point list plus faces
// given as ordered indices into it.
//
// Tube, Torus and FromHeightmap wind faces clockwise seen from outside, the
// OpenSCAD polyhedron convention. Triangulation keeps the face order, so the
// right hand rule normal of an exported triangle follows the order the face
// lists its points in. Use Flip to reverse every face.
package mesh

import (
	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultConvexity is the OpenSCAD convexity hint used when none is given.
const DefaultConvexity = 10

// Polyhedron is an indexed mesh.
type Polyhedron struct {
	Points []r3.Vec
	Faces  [][]int
	// Convexity is passed through to OpenSCAD and not used here.
	Convexity int
}

// New returns a polyhedron from 3D points and faces indexing into them.
// A convexity of 0 selects DefaultConvexity.
func New(points []oscad.Point, faces [][]int, convexity int) (*Polyhedron, error) {
	pts := make([]r3.Vec, len(points))
	for i, p := range points {
		v, err := p.R3()
		if err != nil {
			return nil, err
		}
		pts[i] = v
	}
	p := &Polyhedron{Points: pts, Faces: faces, Convexity: convexityOrDefault(convexity)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks every face has at least 3 indices within range.
func (p *Polyhedron) Validate() error {
	for i, face := range p.Faces {
		if len(face) < 3 {
			return oscad.StructuralErrorf("face %d has %d points, need at least 3", i, len(face))
		}
		for _, idx := range face {
			if idx < 0 || idx >= len(p.Points) {
				return oscad.StructuralErrorf("face %d index %d out of range [0,%d)", i, idx, len(p.Points))
			}
		}
	}
	return nil
}

// Bounds returns the bounding box of the points. It panics on an empty mesh.
func (p *Polyhedron) Bounds() d3.Box {
	return d3.BoxOf(p.Points)
}

// Closed reports whether every edge is shared by exactly two faces
// traversing it in opposite directions, i.e. the mesh is a closed and
// consistently oriented manifold surface.
func (p *Polyhedron) Closed() bool {
	type edge [2]int
	directed := make(map[edge]int)
	for _, face := range p.Faces {
		for i := range face {
			e := edge{face[i], face[(i+1)%len(face)]}
			directed[e]++
		}
	}
	for e, n := range directed {
		if n != 1 || directed[edge{e[1], e[0]}] != 1 {
			return false
		}
	}
	return len(directed) > 0
}

// Flip returns a copy of p with the order of every face reversed.
func (p *Polyhedron) Flip() *Polyhedron {
	faces := make([][]int, len(p.Faces))
	for i, face := range p.Faces {
		f := make([]int, len(face))
		for j, idx := range face {
			f[len(face)-1-j] = idx
		}
		faces[i] = f
	}
	points := make([]r3.Vec, len(p.Points))
	copy(points, p.Points)
	return &Polyhedron{Points: points, Faces: faces, Convexity: p.Convexity}
}

func convexityOrDefault(c int) int {
	if c <= 0 {
		return DefaultConvexity
	}
	return c
}

// grid resolves (row, col) pairs to indices into a flat point arena.
type grid struct {
	rowLen int
	index  []int
}

func (g *grid) at(row, col int) int {
	return g.index[row*g.rowLen+col]
}

// arena appends points to a flat list and records each (row, col) index.
type arena struct {
	points []r3.Vec
}

func (a *arena) add(g *grid, row, col int, v r3.Vec) {
	g.index[row*g.rowLen+col] = len(a.points)
	a.points = append(a.points, v)
}

// mod returns x modulo n in [0, n).
func mod(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}

// Tube builds a tube shaped polyhedron from rows of points. Each row is a
// loop, oriented clockwise when looking from the first row toward the next.
// Adjacent rows are joined by quads. Without torus the first and last rows
// are closed by cap faces; with torus the last row is joined back to the
// first, shifted by torusConnectOffset positions to undo seam twist.
func Tube(rows [][]r3.Vec, torus bool, torusConnectOffset, convexity int) (*Polyhedron, error) {
	nrows := len(rows)
	if nrows < 2 {
		return nil, oscad.StructuralErrorf("tube needs at least 2 rows, got %d", nrows)
	}
	rowLen := len(rows[0])
	if rowLen < 3 {
		return nil, oscad.StructuralErrorf("tube rows need at least 3 points, got %d", rowLen)
	}
	g := grid{rowLen: rowLen, index: make([]int, nrows*rowLen)}
	a := arena{points: make([]r3.Vec, 0, nrows*rowLen)}
	for irow, row := range rows {
		if len(row) != rowLen {
			return nil, oscad.StructuralErrorf("tube row %d has %d points, want %d", irow, len(row), rowLen)
		}
		for icol, v := range row {
			a.add(&g, irow, icol, v)
		}
	}

	nfaces := (nrows - 1) * rowLen
	if torus {
		nfaces += rowLen
	} else {
		nfaces += 2
	}
	faces := make([][]int, 0, nfaces)
	// Side faces.
	for irow := 1; irow < nrows; irow++ {
		for icol := 1; icol < rowLen; icol++ {
			faces = append(faces, []int{
				g.at(irow, icol-1),
				g.at(irow, icol),
				g.at(irow-1, icol),
				g.at(irow-1, icol-1),
			})
		}
		faces = append(faces, []int{
			g.at(irow, rowLen-1),
			g.at(irow, 0),
			g.at(irow-1, 0),
			g.at(irow-1, rowLen-1),
		})
	}

	last := nrows - 1
	if !torus {
		start := make([]int, rowLen)
		end := make([]int, rowLen)
		for icol := 0; icol < rowLen; icol++ {
			start[icol] = g.at(0, icol)
			end[icol] = g.at(last, rowLen-1-icol)
		}
		faces = append(faces, start, end)
	} else {
		// Connect the end to the start.
		for icol := 0; icol < rowLen; icol++ {
			faces = append(faces, []int{
				g.at(0, mod(icol-1+torusConnectOffset, rowLen)),
				g.at(0, mod(icol+torusConnectOffset, rowLen)),
				g.at(last, icol),
				g.at(last, mod(icol-1, rowLen)),
			})
		}
	}
	return &Polyhedron{Points: a.points, Faces: faces, Convexity: convexityOrDefault(convexity)}, nil
}

// Torus builds a closed torus shaped polyhedron from rows of points.
// See Tube.
func Torus(rows [][]r3.Vec, torusConnectOffset, convexity int) (*Polyhedron, error) {
	return Tube(rows, true, torusConnectOffset, convexity)
}

// FromHeightmap builds a terrain solid from a matrix of heights. The height
// at heights[i][j] maps to the point (i*stepX, j*stepY, heights[i][j]).
// The solid's bottom lies at z=base and its sides are closed by skirts.
// Faces are wound clockwise seen from outside, as with Tube and OpenSCAD's
// polyhedron. This is the reverse of the counter-clockwise order many
// heightmap and STL tools emit; call Flip on the result to get that order.
func FromHeightmap(heights [][]float64, base, stepX, stepY float64, convexity int) (*Polyhedron, error) {
	nrows := len(heights)
	if nrows < 2 {
		return nil, oscad.StructuralErrorf("heightmap needs at least 2 rows, got %d", nrows)
	}
	rowLen := len(heights[0])
	if rowLen < 2 {
		return nil, oscad.StructuralErrorf("heightmap rows need at least 2 heights, got %d", rowLen)
	}
	top := grid{rowLen: rowLen, index: make([]int, nrows*rowLen)}
	bottom := grid{rowLen: rowLen, index: make([]int, nrows*rowLen)}
	a := arena{points: make([]r3.Vec, 0, 2*nrows*rowLen)}
	for irow, row := range heights {
		if len(row) != rowLen {
			return nil, oscad.StructuralErrorf("heightmap row %d has %d heights, want %d", irow, len(row), rowLen)
		}
		for icol, h := range row {
			x, y := float64(irow)*stepX, float64(icol)*stepY
			a.add(&top, irow, icol, r3.Vec{X: x, Y: y, Z: h})
			a.add(&bottom, irow, icol, r3.Vec{X: x, Y: y, Z: base})
		}
	}

	faces := make([][]int, 0, 2*(nrows-1)*(rowLen-1)+2*(nrows-1)+2*(rowLen-1))
	// Top surface.
	for irow := 1; irow < nrows; irow++ {
		for icol := 1; icol < rowLen; icol++ {
			faces = append(faces, []int{
				top.at(irow-1, icol),
				top.at(irow, icol),
				top.at(irow, icol-1),
				top.at(irow-1, icol-1),
			})
		}
	}
	// Bottom surface, wound the opposite way.
	for irow := 1; irow < nrows; irow++ {
		for icol := 1; icol < rowLen; icol++ {
			faces = append(faces, []int{
				bottom.at(irow, icol-1),
				bottom.at(irow, icol),
				bottom.at(irow-1, icol),
				bottom.at(irow-1, icol-1),
			})
		}
	}
	// Skirts along the first and last columns.
	m := rowLen - 1
	for irow := 1; irow < nrows; irow++ {
		faces = append(faces, []int{
			bottom.at(irow-1, m),
			bottom.at(irow, m),
			top.at(irow, m),
			top.at(irow-1, m),
		}, []int{
			bottom.at(irow, 0),
			bottom.at(irow-1, 0),
			top.at(irow-1, 0),
			top.at(irow, 0),
		})
	}
	// Skirts along the first and last rows.
	m = nrows - 1
	for icol := 1; icol < rowLen; icol++ {
		faces = append(faces, []int{
			bottom.at(m, icol),
			bottom.at(m, icol-1),
			top.at(m, icol-1),
			top.at(m, icol),
		}, []int{
			bottom.at(0, icol-1),
			bottom.at(0, icol),
			top.at(0, icol),
			top.at(0, icol-1),
		})
	}
	return &Polyhedron{Points: a.points, Faces: faces, Convexity: convexityOrDefault(convexity)}, nil
}
