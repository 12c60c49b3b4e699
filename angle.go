package oscad

import "math"

// AngleUnit selects the unit angles are returned in.
type AngleUnit uint8

const (
	Degrees AngleUnit = iota
	Radians
)

// ParseAngleUnit parses "deg" or "rad".
func ParseAngleUnit(s string) (AngleUnit, error) {
	switch s {
	case "deg":
		return Degrees, nil
	case "rad":
		return Radians, nil
	}
	return 0, DomainErrorf("unknown angle unit %q", s)
}

func (u AngleUnit) String() string {
	switch u {
	case Degrees:
		return "deg"
	case Radians:
		return "rad"
	}
	return "AngleUnit(?)"
}

// fromRadians converts an angle in radians to the unit.
func (u AngleUnit) fromRadians(rad float64) (float64, error) {
	switch u {
	case Radians:
		return rad, nil
	case Degrees:
		return RtoD(rad), nil
	}
	return 0, DomainErrorf("unknown angle unit %d", u)
}

// DtoR converts degrees to radians
func DtoR(degrees float64) float64 {
	return (math.Pi / 180) * degrees
}

// RtoD converts radians to degrees
func RtoD(radians float64) float64 {
	return (180 / math.Pi) * radians
}
