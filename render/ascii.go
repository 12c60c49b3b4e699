package render

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/soypat/oscad"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultSolidName is the solid name used when an empty name is given.
const DefaultSolidName = "oscad"

// WriteASCIISTL writes model to w as a named ASCII STL solid.
func WriteASCIISTL(w io.Writer, name string, model []Triangle3) error {
	return writeASCIISTL(w, name, NewSliceRenderer(model))
}

// CreateASCIISTL streams the triangles of r into an ASCII STL file at path.
func CreateASCIISTL(path, name string, r Renderer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	err = writeASCIISTL(fp, name, r)
	if err != nil {
		return err
	}
	return fp.Close()
}

func writeASCIISTL(w io.Writer, name string, r Renderer) error {
	if name == "" {
		name = DefaultSolidName
	}
	bw := bufio.NewWriter(w)
	scratch := make([]byte, 0, 512)
	scratch = append(scratch, "solid "...)
	scratch = append(scratch, name...)
	scratch = append(scratch, '\n')
	if _, err := bw.Write(scratch); err != nil {
		return err
	}
	buf := make([]Triangle3, trianglesInBuffer)
	for {
		nt, err := r.ReadTriangles(buf)
		for _, t := range buf[:nt] {
			scratch = AppendASCIIFacet(scratch[:0], t)
			if _, werr := bw.Write(scratch); werr != nil {
				return werr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
	}
	scratch = append(scratch[:0], "endsolid "...)
	scratch = append(scratch, name...)
	scratch = append(scratch, '\n')
	if _, err := bw.Write(scratch); err != nil {
		return err
	}
	return bw.Flush()
}

// AppendASCIIFacet appends the ASCII STL facet record of t to b.
func AppendASCIIFacet(b []byte, t Triangle3) []byte {
	b = append(b, "facet normal "...)
	b = appendVec(b, t.Normal())
	b = append(b, "\nouter loop\n"...)
	for _, v := range t {
		b = append(b, "vertex "...)
		b = appendVec(b, v)
		b = append(b, '\n')
	}
	b = append(b, "endloop\nendfacet\n"...)
	return b
}

func appendVec(b []byte, v r3.Vec) []byte {
	b = oscad.AppendFloat(b, v.X)
	b = append(b, ' ')
	b = oscad.AppendFloat(b, v.Y)
	b = append(b, ' ')
	return oscad.AppendFloat(b, v.Z)
}
