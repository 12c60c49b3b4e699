package mesh

import (
	"log/slog"
	"math"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromTriangles builds a polyhedron from a triangle soup such as the contents
// of an STL file. Vertices closer than vertexTol are welded into one point.
// vertexTol should be of the order of 1/1000th of the size of the smallest
// triangle in the model. If set to 0 then it is inferred automatically.
// Faces keep the vertex order of their triangles and triangles that collapse
// after welding are dropped.
func FromTriangles(model []render.Triangle3, vertexTol float64, convexity int) (*Polyhedron, error) {
	if len(model) == 0 {
		return nil, oscad.DomainErrorf("no triangles to import")
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	minDist2 := math.MaxFloat64
	maxDist2 := 0.0
	for i := range model {
		for j, vert := range model[i] {
			if d3.Bad(vert) {
				return nil, oscad.DomainErrorf("triangle %d has non-finite vertex", i)
			}
			bb = bb.Include(vert)
			side2 := r3.Norm2(r3.Sub(model[i][(j+1)%3], vert))
			if side2 > 0 {
				minDist2 = math.Min(minDist2, side2)
			}
			maxDist2 = math.Max(maxDist2, side2)
		}
	}
	if maxDist2 == 0 {
		return nil, oscad.DomainErrorf("all triangles are degenerate")
	}
	suggested := math.Sqrt(minDist2) / 256
	if vertexTol > math.Sqrt(maxDist2)/2 {
		return nil, oscad.DomainErrorf("vertex tolerance %g too large, suggested tolerance: %g", vertexTol, suggested)
	}
	if vertexTol == 0 {
		vertexTol = suggested
	}
	if vertexTol < 0 {
		return nil, oscad.DomainErrorf("negative vertex tolerance %g", vertexTol)
	}
	size := bb.Size()
	if d3.Max(size)/vertexTol > math.MaxInt64/2 {
		return nil, oscad.DomainErrorf("vertex tolerance %g too small for model size", vertexTol)
	}

	// Vertices are keyed by their cell in a grid of vertexTol spacing.
	cache := make(map[[3]int64]int)
	ri := 1 / vertexTol
	var points []r3.Vec
	faces := make([][]int, 0, len(model))
	for _, tri := range model {
		var face [3]int
		for j, vert := range tri {
			v := r3.Scale(ri, vert)
			key := [3]int64{int64(math.Round(v.X)), int64(math.Round(v.Y)), int64(math.Round(v.Z))}
			idx, ok := cache[key]
			if !ok {
				idx = len(points)
				cache[key] = idx
				points = append(points, vert)
			}
			face[j] = idx
		}
		if face[0] == face[1] || face[1] == face[2] || face[2] == face[0] {
			continue
		}
		faces = append(faces, face[:])
	}
	if len(faces) == 0 {
		return nil, oscad.DomainErrorf("every triangle collapsed at vertex tolerance %g", vertexTol)
	}
	p := &Polyhedron{Points: points, Faces: faces, Convexity: convexityOrDefault(convexity)}
	log := oscad.Logger()
	log.Debug("imported triangles",
		slog.Int("triangles", len(model)),
		slog.Int("points", len(points)),
		slog.Float64("tol", vertexTol),
	)
	if len(faces) != len(model) {
		log.Warn("dropped collapsed triangles", slog.Int("n", len(model)-len(faces)))
	}
	return p, nil
}
