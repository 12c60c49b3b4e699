// Package preview renders triangle meshes to shaded PNG images.
package preview

import (
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera and image of a preview. The mesh is fitted
// into a bi-unit cube centered at the origin before rendering so Eye and
// Center are given in that normalized space.
type View struct {
	Width, Height int
	// Supersample renders at this multiple of the image size and downsamples
	// for antialiasing. Values below 1 are treated as 1.
	Supersample int
	Eye         r3.Vec
	Center      r3.Vec
	Up          r3.Vec
	// Fovy is the vertical field of view in degrees.
	Fovy       float64
	Near, Far  float64
	Color      string // Hex object color.
	Background string // Hex background color.
}

// DefaultView is an isometric view from the first octant.
var DefaultView = View{
	Width:       800,
	Height:      600,
	Supersample: 2,
	Eye:         d3.Elem(2.4),
	Up:          r3.Vec{Z: 1},
	Fovy:        30,
	Near:        1,
	Far:         10,
	Color:       "#468966",
	Background:  "#FFF8E3",
}

// Image renders the triangles with a Phong shader.
//
// Faces are expected to be consistently wound. When their winding encloses
// a negative volume, as with OpenSCAD ordered polyhedra, every triangle is
// flipped so normals face outward.
func Image(model []render.Triangle3, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("zero or negative preview size")
	}
	scale := max(view.Supersample, 1)
	flip := SignedVolume(model) < 0
	if flip {
		oscad.Logger().Debug("flipping inward wound mesh for preview", slog.Int("triangles", len(model)))
	}
	triangles := make([]*fauxgl.Triangle, 0, len(model))
	for _, t := range model {
		a, b, c := vec(t[0]), vec(t[1]), vec(t[2])
		if flip {
			b, c = c, b
		}
		triangles = append(triangles, fauxgl.NewTriangleForPoints(a, b, c))
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	// Fit mesh in a bi-unit cube centered at the origin.
	mesh.BiUnitCube()

	var (
		eye    = vec(view.Eye)
		center = vec(view.Center)
		up     = vec(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(view.Fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PNG renders the triangles and writes a PNG image to w.
func PNG(w io.Writer, model []render.Triangle3, view View) error {
	img, err := Image(model, view)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// SavePNG renders the triangles to a PNG file at path.
func SavePNG(path string, model []render.Triangle3, view View) error {
	img, err := Image(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

// SignedVolume returns the volume enclosed by a closed mesh. It is negative
// when the triangles are wound clockwise seen from outside.
func SignedVolume(model []render.Triangle3) float64 {
	var v float64
	for _, t := range model {
		v += r3.Dot(t[0], r3.Cross(t[1], t[2]))
	}
	return v / 6
}

func vec(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
