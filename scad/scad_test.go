package scad_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/soypat/oscad"
	"github.com/soypat/oscad/mesh"
	"github.com/soypat/oscad/pathtube"
	"github.com/soypat/oscad/scad"
)

func TestRender(t *testing.T) {
	unitCube := scad.Must(scad.Cube(oscad.P3(1, 1, 1), false))
	ball := scad.Sphere(1)
	tri, err := mesh.New([]oscad.Point{oscad.P3(0, 0, 0), oscad.P3(1, 0, 0), oscad.P3(0, 1, 0)}, [][]int{{0, 1, 2}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		node scad.Node
		want string
	}{
		{unitCube, "cube(size=[1,1,1], center=false);"},
		{scad.Must(scad.Cube(oscad.P3(2, 0.5, 3), true)), "cube(size=[2,0.5,3], center=true);"},
		{scad.Sphere(0.1), "sphere(r=0.1);"},
		{scad.Cylinder(5, 2, 2, false), "cylinder(h=5, r1=2, r2=2, center=false);"},
		{scad.Circle(1, 0), "circle(r=1);"},
		{scad.Triangle(2), "circle(r=2, $fn=3);"},
		{scad.RegularPolygon(2, 6), "circle(r=2, $fn=6);"},
		{
			scad.Must(scad.Polygon([]oscad.Point{oscad.P2(0, 0), oscad.P2(1, 0), oscad.P2(0, 1)}, 0)),
			"polygon(points=[[0,0],[1,0],[0,1]], convexity=10);",
		},
		{
			scad.Polyhedron(tri),
			"polyhedron(points=[[0,0,0],[1,0,0],[0,1,0]], faces=[[0,1,2]], convexity=10);",
		},
		{scad.Translate(ball, oscad.P3(1, 2, 3)), "translate(v=[1,2,3]){\nsphere(r=1);\n}"},
		{scad.Rotate(ball, 45, oscad.P3(0, 0, 1)), "rotate(a=45, v=[0,0,1]){\nsphere(r=1);\n}"},
		{scad.ScaleUniform(ball, 2), "scale(v=[2,2,2]){\nsphere(r=1);\n}"},
		{scad.Scale(ball, oscad.P3(1, 2, -1)), "scale(v=[1,2,-1]){\nsphere(r=1);\n}"},
		{scad.Color(ball, 1, 0, 0, 1), "color(c=[1,0,0,1]){ sphere(r=1); }"},
		{
			scad.LinearExtrude(scad.Circle(1, 0), 2, 0, false),
			"linear_extrude(height=2, center=false, convexity=10){\ncircle(r=1);\n}",
		},
		{
			scad.RotateExtrude(scad.Circle(1, 0), 360, 4),
			"rotate_extrude(angle=360, convexity=4) {\ncircle(r=1);\n}",
		},
		{scad.RadialOffset(scad.Circle(1, 0), -0.5), "offset(r=-0.5){\ncircle(r=1);\n}"},
		{scad.DeltaOffset(scad.Circle(1, 0), 0.5, true), "offset(delta=0.5, chamfer=true){\ncircle(r=1);\n}"},
		{scad.Union(ball, unitCube), "union(){ sphere(r=1);\ncube(size=[1,1,1], center=false); }"},
		{scad.Union(scad.Collection(ball, unitCube)), "union(){ sphere(r=1);\ncube(size=[1,1,1], center=false); }"},
		{scad.Intersection(ball, unitCube), "intersection(){ sphere(r=1);\ncube(size=[1,1,1], center=false); }"},
		{scad.Hull(ball), "hull(){ sphere(r=1); }"},
		{
			scad.Difference(unitCube, ball, scad.Sphere(2)),
			"difference(){ cube(size=[1,1,1], center=false);\nsphere(r=1);\nsphere(r=2); }",
		},
		{scad.Collection(ball, ball), "sphere(r=1);\nsphere(r=1);"},
	} {
		got := scad.Render(test.node)
		if got != test.want {
			t.Errorf("got\n%s\nwant\n%s", got, test.want)
		}
	}
}

func TestCylinderFromEnds(t *testing.T) {
	n, err := scad.CylinderFromEnds(2, oscad.P3(0, 0, 0), oscad.P3(0, 0, -3))
	if err != nil {
		t.Fatal(err)
	}
	const want = "translate(v=[0,0,-3]){\nrotate(a=0, v=[0,0,1]){\ncylinder(h=3, r1=2, r2=2, center=false);\n}\n}"
	if got := scad.Render(n); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	n, err = scad.CylinderFromEnds(1, oscad.P3(1, 1, 1), oscad.P3(4, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	got := scad.Render(n)
	if !strings.HasPrefix(got, "translate(v=[1,1,1]){\nrotate(a=") || !strings.Contains(got, "v=[0,1,0]") {
		t.Errorf("unexpected cylinder placement:\n%s", got)
	}

	_, err = scad.CylinderFromEnds(1, oscad.P3(1, 1, 1), oscad.P3(1, 1, 1))
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for coincident ends, got %v", err)
	}
}

func TestConstructorErrors(t *testing.T) {
	_, err := scad.Cube(oscad.P2(1, 1), false)
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for 2D cube, got %v", err)
	}
	_, err = scad.Polygon([]oscad.Point{oscad.P3(0, 0, 0), oscad.P3(1, 0, 0), oscad.P3(0, 1, 0)}, 0)
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for 3D polygon, got %v", err)
	}
	_, err = scad.Polygon([]oscad.Point{oscad.P2(0, 0), oscad.P2(1, 0)}, 0)
	if !errors.Is(err, oscad.ErrStructural) {
		t.Errorf("expected structural error for 2 point polygon, got %v", err)
	}
	_, err = scad.PathTube(pathtube.Tube{Sides: 3, Radius: pathtube.Uniform(1)})
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for empty path, got %v", err)
	}
}

func TestPathTubeNode(t *testing.T) {
	n, err := scad.PathTube(pathtube.Tube{
		Points: []oscad.Point{oscad.P3(0, 0, 0), oscad.P3(0, 0, 1), oscad.P3(1, 0, 2)},
		Sides:  5,
		Radius: pathtube.Uniform(0.25),
	})
	if err != nil {
		t.Fatal(err)
	}
	p := n.Mesh()
	if len(p.Points) != 15 || len(p.Faces) != 2*5+2 {
		t.Fatalf("got %d points and %d faces", len(p.Points), len(p.Faces))
	}
	got := scad.Render(n)
	if !strings.HasPrefix(got, "polyhedron(points=[[") || !strings.HasSuffix(got, "]], convexity=10);") {
		t.Errorf("unexpected polyhedron source: %s", got)
	}
	if c := strings.Count(got, "],["); c != 15-1+12-1 {
		t.Errorf("got %d list separators", c)
	}
}

func TestWrite(t *testing.T) {
	for _, test := range []struct {
		quality string
		want    string
	}{
		{"draft", "sphere(r=1);\n"},
		{"mid", "$fa=12;$fs=0.2;\nsphere(r=1);\n"},
		{"best", "$fa=6;$fs=0.1;\nsphere(r=1);\n"},
	} {
		q, err := scad.ParseQuality(test.quality)
		if err != nil {
			t.Fatal(err)
		}
		if q.String() != test.quality {
			t.Errorf("got quality %s, want %s", q, test.quality)
		}
		var b bytes.Buffer
		err = scad.Write(&b, scad.Header{Quality: q}, scad.Sphere(1))
		if err != nil {
			t.Fatal(err)
		}
		if b.String() != test.want {
			t.Errorf("%s: got %q, want %q", test.quality, b.String(), test.want)
		}
	}
	_, err := scad.ParseQuality("ultra")
	if !errors.Is(err, oscad.ErrDomain) {
		t.Errorf("expected domain error for unknown quality, got %v", err)
	}
	err = scad.Write(&bytes.Buffer{}, scad.Header{}, nil)
	if err == nil {
		t.Error("expected error writing nil node")
	}
}

func TestWalk(t *testing.T) {
	root := scad.Union(scad.Translate(scad.Sphere(1), oscad.P3(1, 0, 0)), scad.Sphere(2))
	var count int
	err := scad.Walk(root, func(n scad.Node) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// union, collection, translate, sphere, sphere.
	if count != 5 {
		t.Errorf("walked %d nodes, want 5", count)
	}

	count = 0
	err = scad.Walk(root, func(n scad.Node) error {
		count++
		if strings.HasPrefix(scad.Render(n), "translate") {
			return scad.ErrSkipChildren
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 4 {
		t.Errorf("walked %d nodes skipping translate children, want 4", count)
	}

	errStop := errors.New("stop")
	err = scad.Walk(root, func(n scad.Node) error { return errStop })
	if !errors.Is(err, errStop) {
		t.Errorf("expected callback error, got %v", err)
	}

	err = scad.Walk(scad.Translate(nil, oscad.P3(0, 0, 0)), func(n scad.Node) error { return nil })
	if err == nil {
		t.Error("expected error walking nil child")
	}
}
