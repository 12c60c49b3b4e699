package pathtube

import (
	"math"

	"github.com/soypat/oscad"
)

// Radius is the distance of one ring vertex from the path. When HasAngle
// is set, Angle (degrees) replaces the evenly spaced sample angle of the
// vertex, which allows sweeping non regular profiles.
type Radius struct {
	R        float64
	Angle    float64
	HasAngle bool
}

// RadiusFunc returns the radius of ring vertex ringIdx at path point
// pathIdx. It is evaluated once per generated vertex. A non finite R
// aborts the sweep with a domain error.
type RadiusFunc func(pathIdx, ringIdx int) Radius

// Uniform returns a RadiusFunc with the same radius everywhere.
func Uniform(r float64) RadiusFunc {
	return func(_, _ int) Radius { return Radius{R: r} }
}

// PerPoint returns a RadiusFunc taking the radius of each path point from rs.
// Path points past the end of rs get a NaN radius.
func PerPoint(rs []float64) RadiusFunc {
	rs = append([]float64(nil), rs...)
	return func(pathIdx, _ int) Radius {
		if pathIdx >= len(rs) {
			return Radius{R: math.NaN()}
		}
		return Radius{R: rs[pathIdx]}
	}
}

// Func adapts a scalar radius function.
func Func(f func(pathIdx, ringIdx int) float64) RadiusFunc {
	return func(pathIdx, ringIdx int) Radius {
		return Radius{R: f(pathIdx, ringIdx)}
	}
}

// Polygon returns a RadiusFunc sweeping the same profile at every path
// point. Ring vertex i uses profile[i] so the tube's Sides must equal
// len(profile).
func Polygon(profile []Radius) RadiusFunc {
	profile = append([]Radius(nil), profile...)
	return func(_, ringIdx int) Radius {
		if ringIdx >= len(profile) {
			return Radius{R: math.NaN()}
		}
		return profile[ringIdx]
	}
}

// RectangleProfile returns the four corners of a w by h rectangle centered
// on the path, in increasing angle order. The width is measured along the
// seam direction.
func RectangleProfile(w, h float64) []Radius {
	r := math.Hypot(w, h) / 2
	a := oscad.RtoD(math.Atan2(h, w))
	return []Radius{
		{R: r, Angle: a, HasAngle: true},
		{R: r, Angle: 180 - a, HasAngle: true},
		{R: r, Angle: 180 + a, HasAngle: true},
		{R: r, Angle: 360 - a, HasAngle: true},
	}
}

// Rectangle returns a RadiusFunc sweeping a w by h rectangular profile.
// Use it with Sides set to 4.
func Rectangle(w, h float64) RadiusFunc {
	return Polygon(RectangleProfile(w, h))
}
