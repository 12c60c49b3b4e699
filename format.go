package oscad

import "strconv"

// AppendFloat appends the shortest decimal representation of v that
// parses back to exactly v. Generated geometry keeps full precision.
func AppendFloat(b []byte, v float64) []byte {
	if v == 0 {
		// Avoid emitting "-0".
		return append(b, '0')
	}
	return strconv.AppendFloat(b, v, 'g', -1, 64)
}

// AppendFloats appends s separated by sep. A zero sep appends no separator.
func AppendFloats(b []byte, s []float64, sep byte) []byte {
	for i, v := range s {
		b = AppendFloat(b, v)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

// AppendInts appends s separated by sep.
func AppendInts(b []byte, s []int, sep byte) []byte {
	for i, v := range s {
		b = strconv.AppendInt(b, int64(v), 10)
		if sep != 0 && i != len(s)-1 {
			b = append(b, sep)
		}
	}
	return b
}

// AppendBool appends the OpenSCAD boolean literal.
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, "true"...)
	}
	return append(b, "false"...)
}
