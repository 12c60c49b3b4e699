package oscad

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is returned when an operation is mathematically undefined
	// for its input: normalizing a zero vector, 3D-only operations on other
	// dimensions, mismatched dimensions, degenerate sweep paths or an unknown
	// unit or quality name.
	ErrDomain = errors.New("domain error")
	// ErrStructural is returned for malformed mesh input such as faces with
	// fewer than 3 vertices or vertex indices out of range.
	ErrStructural = errors.New("structural error")
)

// DomainErrorf returns an error wrapping ErrDomain with a formatted message.
func DomainErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

// StructuralErrorf returns an error wrapping ErrStructural with a formatted message.
func StructuralErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructural, fmt.Sprintf(format, args...))
}
