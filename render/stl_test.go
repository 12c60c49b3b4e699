package render_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/oscad/internal/d3"
	"github.com/soypat/oscad/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// tetrahedron returns a closed, outward wound tetrahedron.
func tetrahedron() []render.Triangle3 {
	o := r3.Vec{}
	x := r3.Vec{X: 1}
	y := r3.Vec{Y: 1}
	z := r3.Vec{Z: 1}
	return []render.Triangle3{
		{o, y, x},
		{o, x, z},
		{o, z, y},
		{x, y, z},
	}
}

func TestWriteASCIISTLSingleFacet(t *testing.T) {
	model := []render.Triangle3{{{}, {X: 1}, {Y: 1}}}
	var b bytes.Buffer
	err := render.WriteASCIISTL(&b, "", model)
	if err != nil {
		t.Fatal(err)
	}
	const want = `solid oscad
facet normal 0 0 1
outer loop
vertex 0 0 0
vertex 1 0 0
vertex 0 1 0
endloop
endfacet
endsolid oscad
`
	if got := b.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestWriteASCIISTLName(t *testing.T) {
	var b bytes.Buffer
	err := render.WriteASCIISTL(&b, "pipe", tetrahedron())
	if err != nil {
		t.Fatal(err)
	}
	s := b.String()
	if !bytes.HasPrefix(b.Bytes(), []byte("solid pipe\n")) {
		t.Errorf("missing solid header: %q", s[:20])
	}
	if !bytes.HasSuffix(b.Bytes(), []byte("endsolid pipe\n")) {
		t.Error("missing endsolid footer")
	}
	if got := bytes.Count(b.Bytes(), []byte("facet normal")); got != 4 {
		t.Errorf("got %d facets, want 4", got)
	}
}

func TestSTLCreateWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetra.stl")
	model := tetrahedron()
	err := render.CreateSTL(path, render.NewSliceRenderer(model))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatalf("WriteSTL and CreateSTL output length mismatch %d != %d", b.Len(), len(bfile))
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-6
	input := tetrahedron()
	var b bytes.Buffer
	err := render.WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	output, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	for iface, expect := range input {
		got := output[iface]
		if got.Degenerate(1e-12) {
			t.Fatalf("triangle degenerate: %+v", got)
		}
		for i := range expect {
			if !d3.EqualWithin(got[i], expect[i], tol) {
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got[i], expect[i])
			}
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	err := render.WriteSTL(io.Discard, nil)
	if err == nil {
		t.Error("expected error writing empty model")
	}
}

func TestReadSTLTruncated(t *testing.T) {
	var b bytes.Buffer
	err := render.WriteSTL(&b, tetrahedron())
	if err != nil {
		t.Fatal(err)
	}
	truncated := b.Bytes()[:b.Len()-10]
	_, err = render.ReadSTL(bytes.NewReader(truncated))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
}

func TestRenderAll(t *testing.T) {
	model := make([]render.Triangle3, 3000)
	for i := range model {
		model[i] = tetrahedron()[i%4]
	}
	got, err := render.RenderAll(render.NewSliceRenderer(model))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(model) {
		t.Errorf("got %d triangles, want %d", len(got), len(model))
	}
}

func TestTriangleNormal(t *testing.T) {
	tri := render.Triangle3{{}, {X: 2}, {Y: 2}}
	if n := tri.Normal(); !d3.EqualWithin(n, r3.Vec{Z: 1}, 1e-12) {
		t.Errorf("got normal %v, want +Z", n)
	}
	if a := tri.Area(); a != 2 {
		t.Errorf("got area %g, want 2", a)
	}
	flipped := render.Triangle3{tri[0], tri[2], tri[1]}
	if n := flipped.Normal(); !d3.EqualWithin(n, r3.Vec{Z: -1}, 1e-12) {
		t.Errorf("got flipped normal %v, want -Z", n)
	}
}

// rawSTL encodes model as binary STL with every stored normal set to zero.
func rawSTL(model []render.Triangle3) []byte {
	b := make([]byte, 84, 84+50*len(model))
	binary.LittleEndian.PutUint32(b[80:], uint32(len(model)))
	for _, t := range model {
		var tri [50]byte
		for i, v := range t {
			off := 12 * (i + 1)
			binary.LittleEndian.PutUint32(tri[off:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(tri[off+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(tri[off+8:], math.Float32bits(float32(v.Z)))
		}
		b = append(b, tri[:]...)
	}
	return b
}

func TestReadSTLZeroNormals(t *testing.T) {
	input := tetrahedron()
	output, err := render.ReadSTL(bytes.NewReader(rawSTL(input)))
	if !errors.Is(err, render.ErrNormalMismatch) {
		t.Errorf("expected normal mismatch error, got %v", err)
	}
	if len(output) != len(input) {
		t.Fatalf("got %d triangles, want %d", len(output), len(input))
	}
	for i := range input {
		if !d3.EqualWithin(output[i][2], input[i][2], 1e-6) {
			t.Errorf("triangle %d: got %v, want %v", i, output[i], input[i])
		}
	}
}

func TestReadSTLSkipsDegenerate(t *testing.T) {
	input := tetrahedron()
	model := append([]render.Triangle3{{{X: 1}, {X: 1}, {Y: 2}}}, input...)
	var b bytes.Buffer
	err := render.WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	output, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatalf("got %d triangles, want %d", len(output), len(input))
	}
}
