// Package bv contains the bounding volumes a bounding volume hierarchy can be built over,
// together with the fitters that enclose point sets in them.
package bv

import (
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// BoundingVolume is the capability a traversal needs from a bound. B is the concrete bound type,
// so that overlap and distance tests are between bounds of the same family.
type BoundingVolume[B any] interface {
	// Overlap reports whether the two bounds may intersect. It must never return false for
	// bounds whose contents intersect.
	Overlap(other B) bool
	// Distance returns a lower bound on the distance between the contents of the two bounds.
	Distance(other B) float64
	// Size is a cost proxy used to decide which of two nodes to descend into.
	Size() float64
	// Merge returns a bound enclosing both bounds.
	Merge(other B) B
	Center() r3.Vector
	Contains(pt r3.Vector) bool
	// Support returns the maximum of dir·x over the bound.
	Support(dir r3.Vector) float64
	// Transform returns the bound moved by the pose.
	Transform(pose spatialmath.Pose) B
}

// Fitter encloses a non-empty set of points in a bound.
type Fitter[B any] func(pts []r3.Vector) B
