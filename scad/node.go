// Package scad builds a scene graph of OpenSCAD primitives, transformations
// and boolean groups and renders it to OpenSCAD source.
//
// Boolean operations are not evaluated here. They are emitted as groupings
// for OpenSCAD to compute.
package scad

import (
	"errors"
	"io"
	"strings"

	"github.com/soypat/oscad"
)

// Node is an element of the scene graph.
type Node interface {
	// AppendSCAD appends the OpenSCAD source of the node and its
	// descendants to b and returns the result.
	AppendSCAD(b []byte) []byte
	// ForEachChild calls fn for each direct child of the node in order,
	// stopping at the first error.
	ForEachChild(fn func(child Node) error) error
}

// ErrSkipChildren may be returned by a Walk callback to skip the children
// of the current node.
var ErrSkipChildren = errors.New("skip children")

// Walk calls fn for root and each of its descendants in depth first
// pre-order.
func Walk(root Node, fn func(n Node) error) error {
	if root == nil {
		return errors.New("nil scad node")
	}
	err := fn(root)
	if errors.Is(err, ErrSkipChildren) {
		return nil
	} else if err != nil {
		return err
	}
	return root.ForEachChild(func(child Node) error {
		return Walk(child, fn)
	})
}

// Render returns the OpenSCAD source of n.
func Render(n Node) string {
	return string(n.AppendSCAD(nil))
}

// Write writes the header followed by the source of root to w.
func Write(w io.Writer, h Header, root Node) error {
	if root == nil {
		return errors.New("nil scad node")
	}
	b := h.AppendSCAD(make([]byte, 0, 4096))
	if len(b) > 0 {
		b = append(b, '\n')
	}
	b = root.AppendSCAD(b)
	b = append(b, '\n')
	_, err := w.Write(b)
	return err
}

// Quality selects OpenSCAD's global circle resolution.
type Quality uint8

const (
	Draft Quality = iota
	Mid
	Best
)

// ParseQuality parses "draft", "mid" or "best".
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(s) {
	case "draft", "":
		return Draft, nil
	case "mid":
		return Mid, nil
	case "best":
		return Best, nil
	}
	return 0, oscad.DomainErrorf("unknown quality %q", s)
}

func (q Quality) String() string {
	switch q {
	case Draft:
		return "draft"
	case Mid:
		return "mid"
	case Best:
		return "best"
	}
	return "Quality(?)"
}

// Header holds global settings written at the top of an OpenSCAD file.
type Header struct {
	Quality Quality
}

// AppendSCAD appends the $fa and $fs assignments for the quality.
// Draft quality keeps OpenSCAD's defaults and appends nothing.
func (h Header) AppendSCAD(b []byte) []byte {
	switch h.Quality {
	case Mid:
		b = append(b, "$fa=12;$fs=0.2;"...)
	case Best:
		b = append(b, "$fa=6;$fs=0.1;"...)
	}
	return b
}

// Must panics if err is not nil and returns n otherwise.
func Must(n Node, err error) Node {
	if err != nil {
		panic(err)
	}
	return n
}
