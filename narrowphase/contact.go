package narrowphase

import "github.com/golang/geo/r3"

// ContactPoint describes one point of contact between two shapes. Normal is a unit vector
// pointing from the first shape toward the second. A nonnegative PenetrationDepth means the
// shapes interpenetrate by that amount.
type ContactPoint struct {
	Normal           r3.Vector
	Point            r3.Vector
	PenetrationDepth float64
}

func appendContact(contacts *[]ContactPoint, normal, point r3.Vector, depth float64) {
	if contacts == nil {
		return
	}
	*contacts = append(*contacts, ContactPoint{Normal: normal, Point: point, PenetrationDepth: depth})
}
