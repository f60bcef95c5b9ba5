package coin

import (
	"fmt"
	"slices"
)

// Denominations is a fixed, strictly descending set of coin face values in the
// minor currency unit. All ledgers are indexed positionally against it.
//
// Greedy decomposition (FromValue) is only guaranteed to be valid for
// canonical sets such as DefaultDenominations. This is a precondition on the
// set, it is not checked at runtime.
type Denominations struct {
	faces []int
}

// DefaultDenominations is the canonical set used when no configuration overrides it
var DefaultDenominations = MustDenominations(50, 20, 10, 5, 2, 1)

// NewDenominations validates and builds a denomination set
func NewDenominations(faces ...int) (Denominations, error) {
	if len(faces) == 0 {
		return Denominations{}, fmt.Errorf("%w: no face values", ErrInvalidDenominations)
	}
	for i, face := range faces {
		if face <= 0 {
			return Denominations{}, fmt.Errorf("%w: face value %d is not positive", ErrInvalidDenominations, face)
		}
		if i > 0 && face >= faces[i-1] {
			return Denominations{}, fmt.Errorf("%w: %d does not descend from %d", ErrInvalidDenominations, face, faces[i-1])
		}
	}
	return Denominations{faces: slices.Clone(faces)}, nil
}

// MustDenominations is like NewDenominations but panics on an invalid set
func MustDenominations(faces ...int) Denominations {
	d, err := NewDenominations(faces...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of denominations
func (d Denominations) Len() int {
	return len(d.faces)
}

// Face returns the face value at index i
func (d Denominations) Face(i int) int {
	return d.faces[i]
}

// Faces returns a copy of the face values, largest first
func (d Denominations) Faces() []int {
	return slices.Clone(d.faces)
}

// Index returns the position of a face value in the set
func (d Denominations) Index(face int) (int, bool) {
	i := slices.Index(d.faces, face)
	return i, i >= 0
}

// Equal reports whether both sets hold the same face values in the same order
func (d Denominations) Equal(other Denominations) bool {
	return slices.Equal(d.faces, other.faces)
}

// String returns the set as a bracketed list, e.g. [50 20 10 5 2 1]
func (d Denominations) String() string {
	return fmt.Sprint(d.faces)
}
