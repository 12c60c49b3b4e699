package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/oscad"
	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/mesh"
	"github.com/soypat/oscad/pathtube"
	"github.com/soypat/oscad/preview"
	"github.com/soypat/oscad/render"
	"github.com/soypat/oscad/scad"
)

// defaultSides is used by tubes that do not set sides.
const defaultSides = 16

// Config is a scene file.
type Config struct {
	// Quality is one of draft, mid or best.
	Quality string `toml:"quality"`
	// Name is the STL solid name.
	Name       string            `toml:"name"`
	Tubes      []TubeConfig      `toml:"tube"`
	Heightmaps []HeightmapConfig `toml:"heightmap"`
	Imports    []ImportConfig    `toml:"import"`
	// Dir resolves relative import paths.
	Dir string `toml:"-"`
}

// TubeConfig describes a path tube. Exactly one of radius, radii and
// profile selects the cross section.
type TubeConfig struct {
	Points [][]float64 `toml:"points"`
	Sides  int         `toml:"sides"`
	Radius float64     `toml:"radius"`
	// Radii gives one radius per path point.
	Radii []float64 `toml:"radii"`
	// Profile is the [width, height] of a rectangular cross section.
	Profile            []float64 `toml:"profile"`
	Torus              bool      `toml:"torus"`
	SeamAngle          float64   `toml:"seam_angle"`
	TorusConnectOffset int       `toml:"torus_connect_offset"`
	Convexity          int       `toml:"convexity"`
	Placement
}

// HeightmapConfig describes a terrain solid. Steps default to 1.
type HeightmapConfig struct {
	Heights   [][]float64 `toml:"heights"`
	Base      float64     `toml:"base"`
	StepX     float64     `toml:"step_x"`
	StepY     float64     `toml:"step_y"`
	Convexity int         `toml:"convexity"`
	Placement
}

// ImportConfig reads a binary STL file as a polyhedron.
type ImportConfig struct {
	Path string `toml:"path"`
	// Tolerance welds vertices closer than it. Zero infers it from the model.
	Tolerance float64 `toml:"tolerance"`
	Convexity int     `toml:"convexity"`
	Placement
}

// Placement positions and paints a part. Scale applies first, then
// rotate, then translate, as in translate(rotate(scale(part))).
type Placement struct {
	Translate []float64 `toml:"translate"`
	// Rotate is [degrees, x, y, z]: a rotation about the axis.
	Rotate []float64 `toml:"rotate"`
	// Scale is a single uniform factor or [x, y, z].
	Scale []float64 `toml:"scale"`
	// Color is [r,g,b] or [r,g,b,a] with components in [0,1].
	Color []float64 `toml:"color"`
}

// Part is a generated mesh and where it sits in the scene.
type Part struct {
	Mesh      *mesh.Polyhedron
	Transform d3.Transform
}

// Scene is a built config.
type Scene struct {
	Header scad.Header
	Name   string
	Root   scad.Node
	Parts  []Part
}

// ParseConfig decodes a TOML scene file. Unknown keys are an error.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	err := dec.Decode(&cfg)
	if err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("config %d:%d: %w", row, col, err)
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("config: %s", serr.String())
		}
		return nil, err
	}
	return &cfg, nil
}

// Build sweeps every tube and builds every heightmap of the config.
func (c *Config) Build() (*Scene, error) {
	q, err := scad.ParseQuality(c.Quality)
	if err != nil {
		return nil, fmt.Errorf("quality: %w", err)
	}
	if len(c.Tubes)+len(c.Heightmaps)+len(c.Imports) == 0 {
		return nil, errors.New("config has no tube, heightmap or import")
	}
	scene := &Scene{Header: scad.Header{Quality: q}, Name: c.Name}
	var nodes []scad.Node
	for i, tc := range c.Tubes {
		key := fmt.Sprintf("tube[%d]", i)
		tube, err := tc.tube()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		p, err := tube.Polyhedron()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		node, part, err := tc.Placement.place(key, p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		scene.Parts = append(scene.Parts, part)
	}
	for i, hc := range c.Heightmaps {
		key := fmt.Sprintf("heightmap[%d]", i)
		stepX, stepY := hc.StepX, hc.StepY
		if stepX == 0 {
			stepX = 1
		}
		if stepY == 0 {
			stepY = 1
		}
		p, err := mesh.FromHeightmap(hc.Heights, hc.Base, stepX, stepY, hc.Convexity)
		if err != nil {
			return nil, fmt.Errorf("%s.heights: %w", key, err)
		}
		node, part, err := hc.Placement.place(key, p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		scene.Parts = append(scene.Parts, part)
	}
	for i, ic := range c.Imports {
		key := fmt.Sprintf("import[%d]", i)
		p, err := ic.polyhedron(c.Dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		node, part, err := ic.Placement.place(key, p)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
		scene.Parts = append(scene.Parts, part)
	}
	if len(nodes) == 1 {
		scene.Root = nodes[0]
	} else {
		scene.Root = scad.Collection(nodes...)
	}
	return scene, nil
}

func (tc *TubeConfig) tube() (pathtube.Tube, error) {
	t := pathtube.Tube{
		Points:             make([]oscad.Point, len(tc.Points)),
		Sides:              tc.Sides,
		Torus:              tc.Torus,
		SeamAngle:          tc.SeamAngle,
		TorusConnectOffset: tc.TorusConnectOffset,
		Convexity:          tc.Convexity,
	}
	for i, p := range tc.Points {
		if len(p) != 3 {
			return t, fmt.Errorf("points[%d]: want 3 coordinates, got %d", i, len(p))
		}
		t.Points[i] = oscad.NewPoint(p...)
	}
	set := 0
	if tc.Radius != 0 {
		set++
		t.Radius = pathtube.Uniform(tc.Radius)
	}
	if len(tc.Radii) > 0 {
		set++
		if len(tc.Radii) != len(tc.Points) {
			return t, fmt.Errorf("radii: got %d radii for %d points", len(tc.Radii), len(tc.Points))
		}
		t.Radius = pathtube.PerPoint(tc.Radii)
	}
	if len(tc.Profile) > 0 {
		set++
		if len(tc.Profile) != 2 {
			return t, fmt.Errorf("profile: want [width, height], got %d values", len(tc.Profile))
		}
		if t.Sides != 0 && t.Sides != 4 {
			return t, fmt.Errorf("sides: rectangular profile needs 4 sides, got %d", t.Sides)
		}
		t.Sides = 4
		t.Radius = pathtube.Rectangle(tc.Profile[0], tc.Profile[1])
	}
	if set != 1 {
		return t, errors.New("radius: set exactly one of radius, radii and profile")
	}
	if t.Sides == 0 {
		t.Sides = defaultSides
	}
	return t, nil
}

func (ic *ImportConfig) polyhedron(dir string) (*mesh.Polyhedron, error) {
	if ic.Path == "" {
		return nil, errors.New("path: missing STL file")
	}
	path := ic.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	if errors.Is(err, render.ErrNormalMismatch) {
		// Facet normals are recomputed from the vertices on export.
		oscad.Logger().Warn("ignoring STL facet normals", slog.String("path", path), slog.String("err", err.Error()))
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mesh.FromTriangles(model, ic.Tolerance, ic.Convexity)
}

func (pl Placement) place(key string, p *mesh.Polyhedron) (scad.Node, Part, error) {
	var node scad.Node = scad.Polyhedron(p)
	part := Part{Mesh: p}
	if len(pl.Color) > 0 {
		c := pl.Color
		switch len(c) {
		case 3:
			node = scad.Color(node, c[0], c[1], c[2], 1)
		case 4:
			node = scad.Color(node, c[0], c[1], c[2], c[3])
		default:
			return nil, part, fmt.Errorf("%s.color: want 3 or 4 components, got %d", key, len(c))
		}
	}
	switch len(pl.Scale) {
	case 0:
	case 1:
		f := pl.Scale[0]
		node = scad.ScaleUniform(node, f)
		part.Transform = d3.Scale(d3.Elem(f))
	case 3:
		v := oscad.NewPoint(pl.Scale...)
		f, _ := v.R3()
		node = scad.Scale(node, v)
		part.Transform = d3.Scale(f)
	default:
		return nil, part, fmt.Errorf("%s.scale: want 1 or 3 factors, got %d", key, len(pl.Scale))
	}
	if len(pl.Rotate) > 0 {
		if len(pl.Rotate) != 4 {
			return nil, part, fmt.Errorf("%s.rotate: want [degrees, x, y, z], got %d values", key, len(pl.Rotate))
		}
		axis := oscad.NewPoint(pl.Rotate[1:]...)
		if axis.IsZero() {
			return nil, part, fmt.Errorf("%s.rotate: %w", key, oscad.DomainErrorf("zero rotation axis"))
		}
		a, _ := axis.R3()
		node = scad.Rotate(node, pl.Rotate[0], axis)
		part.Transform = d3.Rotate(pl.Rotate[0], a).Mul(part.Transform)
	}
	if len(pl.Translate) > 0 {
		v := oscad.NewPoint(pl.Translate...)
		off, err := v.R3()
		if err != nil {
			return nil, part, fmt.Errorf("%s.translate: %w", key, err)
		}
		node = scad.Translate(node, v)
		part.Transform = d3.Translate(off).Mul(part.Transform)
	}
	oscad.Logger().Info("built part",
		slog.String("key", key),
		slog.Int("points", len(p.Points)),
		slog.Int("faces", len(p.Faces)),
		slog.Bool("closed", p.Closed()),
	)
	return node, part, nil
}

// Triangles returns the triangles of every part placed in the scene,
// wound the way the part's faces are.
func (s *Scene) Triangles() ([]render.Triangle3, error) {
	return s.triangles(false)
}

// OutwardTriangles is like Triangles but flips every part whose triangles
// enclose a negative volume so all normals point out of the solid.
func (s *Scene) OutwardTriangles() ([]render.Triangle3, error) {
	return s.triangles(true)
}

func (s *Scene) triangles(outward bool) ([]render.Triangle3, error) {
	var all []render.Triangle3
	for _, part := range s.Parts {
		tris, err := part.Mesh.Triangles()
		if err != nil {
			return nil, err
		}
		for j := range tris {
			for i := range tris[j] {
				tris[j][i] = part.Transform.Transform(tris[j][i])
			}
		}
		// Mirroring placements would turn the mesh inside out.
		flip := part.Transform.Det() < 0
		if outward {
			flip = preview.SignedVolume(tris) < 0
		}
		for _, t := range tris {
			if flip {
				t[1], t[2] = t[2], t[1]
			}
			all = append(all, t)
		}
	}
	return all, nil
}
