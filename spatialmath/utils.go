package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/utils"
)

// R3VectorAlmostEqual compares two r3.Vector objects and returns if the all elementwise differences are less than epsilon.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// PlaneNormal returns the plane normal of the triangle defined by p0, p1 and p2, by the right hand rule.
// A degenerate triangle has a zero normal.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// ClosestPointSegmentPoint takes a line segment defined by two points and a third point,
// and returns the point on the segment closest to the third point.
func ClosestPointSegmentPoint(segStart, segEnd, pt r3.Vector) r3.Vector {
	segVec := segEnd.Sub(segStart)
	denom := segVec.Norm2()
	if denom == 0 {
		return segStart
	}
	t := utils.Clamp(pt.Sub(segStart).Dot(segVec)/denom, 0, 1)
	return segStart.Add(segVec.Mul(t))
}

// DistToLineSegment takes a line segment defined by two points and a third point,
// and returns the distance between the point and the segment.
func DistToLineSegment(segStart, segEnd, pt r3.Vector) float64 {
	return pt.Sub(ClosestPointSegmentPoint(segStart, segEnd, pt)).Norm()
}

// ClosestPointsSegmentSegment returns the pair of closest points between segments [p1, q1] and
// [p2, q2], the first on segment 1 and the second on segment 2. Degenerate segments are handled
// as points.
// Reference: Ericson, "Real-Time Collision Detection", 5.1.9.
func ClosestPointsSegmentSegment(p1, q1, p2, q2 r3.Vector) (r3.Vector, r3.Vector) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Norm2()
	e := d2.Norm2()
	f := d2.Dot(r)

	const eps = 1e-18
	var s, t float64
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = utils.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= eps {
			s = utils.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > eps {
				s = utils.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = utils.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = utils.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// SegmentDistanceToSegment returns the minimum distance between two line segments.
func SegmentDistanceToSegment(ap1, ap2, bp1, bp2 r3.Vector) float64 {
	c1, c2 := ClosestPointsSegmentSegment(ap1, ap2, bp1, bp2)
	return c1.Sub(c2).Norm()
}

// GenerateCoordinateSystem completes the unit vector w into a right handed orthonormal frame
// (w, u, v).
func GenerateCoordinateSystem(w r3.Vector) (r3.Vector, r3.Vector) {
	var u r3.Vector
	if math.Abs(w.X) >= math.Abs(w.Y) {
		inv := 1 / math.Sqrt(w.X*w.X+w.Z*w.Z)
		u = r3.Vector{X: -w.Z * inv, Y: 0, Z: w.X * inv}
	} else {
		inv := 1 / math.Sqrt(w.Y*w.Y+w.Z*w.Z)
		u = r3.Vector{X: 0, Y: w.Z * inv, Z: -w.Y * inv}
	}
	return u, w.Cross(u)
}
