package scad

// CollectionNode is a plain list of nodes rendered one per line.
type CollectionNode struct {
	nodes []Node
}

// Collection returns a collection of nodes.
func Collection(nodes ...Node) *CollectionNode {
	return &CollectionNode{nodes: append([]Node(nil), nodes...)}
}

// Add returns a new collection with n appended.
func (c *CollectionNode) Add(n ...Node) *CollectionNode {
	nodes := make([]Node, 0, len(c.nodes)+len(n))
	nodes = append(nodes, c.nodes...)
	return &CollectionNode{nodes: append(nodes, n...)}
}

// Len returns the number of nodes in the collection.
func (c *CollectionNode) Len() int { return len(c.nodes) }

func (c *CollectionNode) ForEachChild(fn func(Node) error) error {
	for _, n := range c.nodes {
		if err := fn(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *CollectionNode) AppendSCAD(b []byte) []byte {
	for i, n := range c.nodes {
		if i > 0 {
			b = append(b, '\n')
		}
		b = n.AppendSCAD(b)
	}
	return b
}

// asCollection returns nodes as a collection. A single collection is
// used as is instead of being nested.
func asCollection(nodes []Node) *CollectionNode {
	if len(nodes) == 1 {
		if c, ok := nodes[0].(*CollectionNode); ok {
			return c
		}
	}
	return Collection(nodes...)
}

// group renders a boolean operation over a collection.
type group struct {
	op    string
	child *CollectionNode
}

func (g *group) ForEachChild(fn func(Node) error) error {
	return fn(g.child)
}

func (g *group) AppendSCAD(b []byte) []byte {
	b = append(b, g.op...)
	b = append(b, "(){ "...)
	b = g.child.AppendSCAD(b)
	return append(b, " }"...)
}

// Union returns the union of nodes.
func Union(nodes ...Node) Node {
	return &group{op: "union", child: asCollection(nodes)}
}

// Intersection returns the intersection of nodes.
func Intersection(nodes ...Node) Node {
	return &group{op: "intersection", child: asCollection(nodes)}
}

// Hull returns the convex hull of nodes.
func Hull(nodes ...Node) Node {
	return &group{op: "hull", child: asCollection(nodes)}
}

type difference struct {
	subject Node
	tools   *CollectionNode
}

// Difference returns subject with tools removed from it.
func Difference(subject Node, tools ...Node) Node {
	return &difference{subject: subject, tools: asCollection(tools)}
}

func (d *difference) ForEachChild(fn func(Node) error) error {
	if err := fn(d.subject); err != nil {
		return err
	}
	return fn(d.tools)
}

func (d *difference) AppendSCAD(b []byte) []byte {
	b = append(b, "difference(){ "...)
	b = d.subject.AppendSCAD(b)
	b = append(b, '\n')
	b = d.tools.AppendSCAD(b)
	return append(b, " }"...)
}
