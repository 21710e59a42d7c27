package spatialmath

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Precision holds the numeric thresholds of one floating point width. Predicates take it as an
// explicit argument so single and double precision geometry classify degenerate inputs with
// thresholds appropriate to their rounding error.
type Precision struct {
	Name string
	// Epsilon is the machine epsilon, used to decide whether two unit normals are parallel.
	Epsilon float64
	// Tolerance gates the "is this direction (anti)aligned or perpendicular" branches.
	Tolerance float64
	// Max stands in for an unbounded penetration depth.
	Max float64
}

var (
	// Float32 is the single precision policy.
	Float32 = Precision{Name: "float32", Epsilon: 0x1p-23, Tolerance: 1e-4, Max: math.MaxFloat32}
	// Float64 is the double precision policy.
	Float64 = Precision{Name: "float64", Epsilon: 0x1p-52, Tolerance: 1e-7, Max: math.MaxFloat64}
)

// PrecisionOf returns the policy matching the float type S.
func PrecisionOf[S constraints.Float]() Precision {
	one, tiny := S(1), S(0x1p-30)
	if one+tiny == one {
		return Float32
	}
	return Float64
}

