package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// PlaneHalfspaceResult classifies a plane against a half-space.
//
//	Code 1: parallel, same direction, the plane lies inside the half-space.
//	Code 2: parallel, opposite direction, the plane lies inside the half-space.
//	Code 3: the plane crosses the half-space boundary along the line Point + t*Direction.
type PlaneHalfspaceResult struct {
	Code             int
	Plane            Plane
	Point            r3.Vector
	Direction        r3.Vector
	PenetrationDepth float64
}

// PlaneHalfspaceIntersect classifies a plane placed at tf1 against a half-space placed at tf2.
func PlaneHalfspaceIntersect(
	s1 *Plane, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
) (PlaneHalfspaceResult, bool) {
	p := s1.Transform(tf1)
	hs := s2.Transform(tf2)

	dir := p.N.Cross(hs.N)
	dir2 := dir.Norm2()
	if dir2 < prec.Epsilon {
		if p.N.Dot(hs.N) > 0 {
			if p.D < hs.D {
				return PlaneHalfspaceResult{Code: 1, Plane: *p, PenetrationDepth: hs.D - p.D}, true
			}
			return PlaneHalfspaceResult{}, false
		}
		if p.D+hs.D < 0 {
			return PlaneHalfspaceResult{}, false
		}
		return PlaneHalfspaceResult{Code: 2, Plane: *p, PenetrationDepth: p.D + hs.D}, true
	}
	origin := intersectionLineOrigin(p.N, p.D, hs.N, hs.D, dir, dir2)
	return PlaneHalfspaceResult{Code: 3, Point: origin, Direction: dir, PenetrationDepth: prec.Max}, true
}

// HalfspaceResult classifies two half-spaces.
//
//	Code 1: parallel, same direction, the first is inside the second; Halfspace is the first.
//	Code 2: parallel, same direction, the second is inside the first; Halfspace is the second.
//	Code 3: parallel, opposite direction, the intersection is a slab of thickness PenetrationDepth.
//	Code 4: the boundaries cross along the line Point + t*Direction.
type HalfspaceResult struct {
	Code             int
	Halfspace        Halfspace
	Point            r3.Vector
	Direction        r3.Vector
	PenetrationDepth float64
}

// HalfspaceIntersect classifies two half-spaces.
func HalfspaceIntersect(
	s1 *Halfspace, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
) (HalfspaceResult, bool) {
	h1 := s1.Transform(tf1)
	h2 := s2.Transform(tf2)

	dir := h1.N.Cross(h2.N)
	dir2 := dir.Norm2()
	if dir2 < prec.Epsilon {
		if h1.N.Dot(h2.N) > 0 {
			if h1.D < h2.D {
				return HalfspaceResult{Code: 1, Halfspace: *h1, PenetrationDepth: prec.Max}, true
			}
			return HalfspaceResult{Code: 2, Halfspace: *h2, PenetrationDepth: prec.Max}, true
		}
		if h1.D+h2.D < 0 {
			return HalfspaceResult{}, false
		}
		return HalfspaceResult{Code: 3, PenetrationDepth: h1.D + h2.D}, true
	}
	origin := intersectionLineOrigin(h1.N, h1.D, h2.N, h2.D, dir, dir2)
	return HalfspaceResult{Code: 4, Point: origin, Direction: dir, PenetrationDepth: prec.Max}, true
}

// PlaneResult classifies two planes.
//
//	Code 1: parallel and coincident within tolerance.
//	Code 2: the planes cross along the line Point + t*Direction.
type PlaneResult struct {
	Code      int
	Point     r3.Vector
	Direction r3.Vector
}

// PlaneIntersect classifies two planes.
func PlaneIntersect(
	s1 *Plane, tf1 spatialmath.Pose,
	s2 *Plane, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
) (PlaneResult, bool) {
	p1 := s1.Transform(tf1)
	p2 := s2.Transform(tf2)

	dir := p1.N.Cross(p2.N)
	dir2 := dir.Norm2()
	if dir2 < prec.Epsilon {
		gap := p1.D - p2.D
		if p1.N.Dot(p2.N) < 0 {
			gap = p1.D + p2.D
		}
		if math.Abs(gap) < prec.Tolerance {
			return PlaneResult{Code: 1, Point: p1.N.Mul(p1.D)}, true
		}
		return PlaneResult{}, false
	}
	origin := intersectionLineOrigin(p1.N, p1.D, p2.N, p2.D, dir, dir2)
	return PlaneResult{Code: 2, Point: origin, Direction: dir}, true
}

// intersectionLineOrigin returns the point of the line n1·x = d1, n2·x = d2 closest to the origin.
func intersectionLineOrigin(n1 r3.Vector, d1 float64, n2 r3.Vector, d2 float64, dir r3.Vector, dir2 float64) r3.Vector {
	return n2.Mul(d1).Sub(n1.Mul(d2)).Cross(dir).Mul(1 / dir2)
}

// ConvexPlaneIntersect tests any convex shape against a plane using the extent of the shape along
// the plane normal. The contact normal points from the shape toward the side of the plane it
// penetrates least.
func ConvexPlaneIntersect(
	s1 ConvexShape, tf1 spatialmath.Pose,
	s2 *Plane, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	p := s2.Transform(tf2)
	body := newConvexBody(s1, tf1)
	low := body.support(p.N.Mul(-1))
	high := body.support(p.N)
	minD, maxD := p.N.Dot(low), p.N.Dot(high)
	if minD > p.D || maxD < p.D {
		return false
	}
	below, above := p.D-minD, maxD-p.D
	if below < above {
		appendContact(contacts, p.N.Mul(-1), low.Add(p.N.Mul(0.5*below)), below)
	} else {
		appendContact(contacts, p.N, high.Sub(p.N.Mul(0.5*above)), above)
	}
	return true
}

// SphereSphereIntersect tests two spheres.
func SphereSphereIntersect(
	s1 *Sphere, tf1 spatialmath.Pose,
	s2 *Sphere, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	c1, c2 := tf1.Point(), tf2.Point()
	diff := c2.Sub(c1)
	dist := diff.Norm()
	depth := s1.Radius + s2.Radius - dist
	if depth < 0 {
		return false
	}
	normal := r3.Vector{Z: 1}
	if dist > prec.Tolerance {
		normal = diff.Mul(1 / dist)
	}
	appendContact(contacts, normal, c1.Add(normal.Mul(s1.Radius-0.5*depth)), depth)
	return true
}
