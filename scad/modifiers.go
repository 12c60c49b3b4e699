package scad

import (
	"github.com/soypat/oscad"
	"github.com/soypat/oscad/mesh"
)

// modifier is a node with a single child rendered inside braces after an
// OpenSCAD call such as translate(v=[1,2,3]).
type modifier struct {
	child Node
	// args appends the call up to and including the closing parenthesis.
	args func(b []byte) []byte
	// inline renders the child on the same line as the braces.
	inline bool
}

func (m *modifier) ForEachChild(fn func(Node) error) error {
	return fn(m.child)
}

func (m *modifier) AppendSCAD(b []byte) []byte {
	b = m.args(b)
	if m.inline {
		b = append(b, "{ "...)
		b = m.child.AppendSCAD(b)
		return append(b, " }"...)
	}
	b = append(b, "{\n"...)
	b = m.child.AppendSCAD(b)
	return append(b, "\n}"...)
}

// Translate moves child by v.
func Translate(child Node, v oscad.Point) Node {
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "translate(v="...)
		b = v.AppendSCAD(b)
		return append(b, ')')
	}}
}

// Rotate rotates child by a degrees around the axis v.
func Rotate(child Node, a float64, v oscad.Point) Node {
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "rotate(a="...)
		b = oscad.AppendFloat(b, a)
		b = append(b, ", v="...)
		b = v.AppendSCAD(b)
		return append(b, ')')
	}}
}

// Scale scales child by the factors in v.
func Scale(child Node, v oscad.Point) Node {
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "scale(v="...)
		b = v.AppendSCAD(b)
		return append(b, ')')
	}}
}

// ScaleUniform scales child by f along every axis.
func ScaleUniform(child Node, f float64) Node {
	return Scale(child, oscad.P3(f, f, f))
}

// Color paints child with the RGBA color, components in [0,1].
func Color(child Node, r, g, b, a float64) Node {
	return &modifier{child: child, inline: true, args: func(buf []byte) []byte {
		buf = append(buf, "color(c=["...)
		buf = oscad.AppendFloats(buf, []float64{r, g, b, a}, ',')
		return append(buf, "])"...)
	}}
}

// LinearExtrude extrudes a 2D child along z. The z range is [0,height], or
// [-height/2,height/2] when center is set.
func LinearExtrude(child Node, height float64, convexity int, center bool) Node {
	if convexity <= 0 {
		convexity = mesh.DefaultConvexity
	}
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "linear_extrude(height="...)
		b = oscad.AppendFloat(b, height)
		b = append(b, ", center="...)
		b = oscad.AppendBool(b, center)
		b = append(b, ", convexity="...)
		b = oscad.AppendInts(b, []int{convexity}, 0)
		return append(b, ')')
	}}
}

// RotateExtrude sweeps a 2D child around the z axis by angle degrees.
// Every point of the child must have x >= 0.
func RotateExtrude(child Node, angle float64, convexity int) Node {
	if convexity <= 0 {
		convexity = mesh.DefaultConvexity
	}
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "rotate_extrude(angle="...)
		b = oscad.AppendFloat(b, angle)
		b = append(b, ", convexity="...)
		b = oscad.AppendInts(b, []int{convexity}, 0)
		return append(b, ") "...)
	}}
}

// RadialOffset grows (r > 0) or shrinks a 2D outline with rounded corners.
func RadialOffset(child Node, r float64) Node {
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "offset(r="...)
		b = oscad.AppendFloat(b, r)
		return append(b, ')')
	}}
}

// DeltaOffset grows (delta > 0) or shrinks a 2D outline keeping sharp or,
// with chamfer, cut corners.
func DeltaOffset(child Node, delta float64, chamfer bool) Node {
	return &modifier{child: child, args: func(b []byte) []byte {
		b = append(b, "offset(delta="...)
		b = oscad.AppendFloat(b, delta)
		b = append(b, ", chamfer="...)
		b = oscad.AppendBool(b, chamfer)
		return append(b, ')')
	}}
}
