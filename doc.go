/*
Package oscad generates OpenSCAD scripts and STL meshes from Go.

The root package holds the N-dimensional [Point] used across the module,
the error taxonomy ([ErrDomain], [ErrStructural]) and the package logger.
Geometry is built in the sub-packages:

  - mesh: indexed polyhedra, tube/torus and heightmap factories, triangulation.
  - pathtube: sweeps an n-gon cross-section along a 3D polyline.
  - scad: scene graph nodes serialized to OpenSCAD.
  - render: ASCII and binary STL export.
  - preview: PNG previews of generated meshes.
*/
package oscad
