package narrowphase

import (
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// ConvexIntersect tests any two convex shapes with GJK and, when contacts are requested, reports
// the EPA penetration depth and direction.
func ConvexIntersect(
	s1 ConvexShape, tf1 spatialmath.Pose,
	s2 ConvexShape, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	a, b := newConvexBody(s1, tf1), newConvexBody(s2, tf2)
	res := gjk(a, b)
	if !res.intersect {
		return false
	}
	if contacts != nil {
		pen := epa(a, b, res.simplex)
		appendContact(contacts, pen.normal, pen.pointA.Add(pen.pointB).Mul(0.5), pen.depth)
	}
	return true
}

// ConvexDistance returns the distance between two convex shapes and the closest point on each.
// Intersecting shapes are at distance zero and share the contact point as both closest points.
func ConvexDistance(s1 ConvexShape, tf1 spatialmath.Pose, s2 ConvexShape, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	a, b := newConvexBody(s1, tf1), newConvexBody(s2, tf2)
	res := gjk(a, b)
	if res.intersect {
		pen := epa(a, b, res.simplex)
		mid := pen.pointA.Add(pen.pointB).Mul(0.5)
		return 0, [2]r3.Vector{mid, mid}
	}
	return res.distance, [2]r3.Vector{res.pointA, res.pointB}
}

// ConvexHalfspaceDistance returns how far a convex shape lies outside a half-space.
func ConvexHalfspaceDistance(s1 ConvexShape, tf1 spatialmath.Pose, s2 *Halfspace, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	hs := s2.Transform(tf2)
	p := newConvexBody(s1, tf1).support(hs.N.Mul(-1))
	d := hs.SignedDistance(p)
	if d <= 0 {
		return 0, [2]r3.Vector{p, p}
	}
	return d, [2]r3.Vector{p, p.Sub(hs.N.Mul(d))}
}

// ConvexPlaneDistance returns the distance between a convex shape and a plane.
func ConvexPlaneDistance(s1 ConvexShape, tf1 spatialmath.Pose, s2 *Plane, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	p := s2.Transform(tf2)
	body := newConvexBody(s1, tf1)
	low, high := body.support(p.N.Mul(-1)), body.support(p.N)
	minD, maxD := p.N.Dot(low), p.N.Dot(high)
	switch {
	case minD > p.D:
		return minD - p.D, [2]r3.Vector{low, low.Sub(p.N.Mul(minD - p.D))}
	case maxD < p.D:
		return p.D - maxD, [2]r3.Vector{high, high.Add(p.N.Mul(p.D - maxD))}
	}
	q := low
	if maxD > minD {
		q = low.Add(high.Sub(low).Mul((p.D - minD) / (maxD - minD)))
	}
	return 0, [2]r3.Vector{q, q}
}

// HalfspaceDistance returns the gap between two half-spaces, nonzero only for disjoint
// opposite-facing pairs.
func HalfspaceDistance(s1 *Halfspace, tf1 spatialmath.Pose, s2 *Halfspace, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	h1, h2 := s1.Transform(tf1), s2.Transform(tf2)
	dir := h1.N.Cross(h2.N)
	if dir2 := dir.Norm2(); dir2 >= spatialmath.Float64.Epsilon {
		q := intersectionLineOrigin(h1.N, h1.D, h2.N, h2.D, dir, dir2)
		return 0, [2]r3.Vector{q, q}
	}
	if h1.N.Dot(h2.N) > 0 {
		q := h1.N.Mul(min(h1.D, h2.D))
		return 0, [2]r3.Vector{q, q}
	}
	p := h1.N.Mul(h1.D)
	d := h2.Distance(p)
	return d, [2]r3.Vector{p, p.Sub(h2.N.Mul(d))}
}

// PlaneHalfspaceDistance returns the gap between a plane and a half-space.
func PlaneHalfspaceDistance(s1 *Plane, tf1 spatialmath.Pose, s2 *Halfspace, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	p, hs := s1.Transform(tf1), s2.Transform(tf2)
	dir := p.N.Cross(hs.N)
	if dir2 := dir.Norm2(); dir2 >= spatialmath.Float64.Epsilon {
		q := intersectionLineOrigin(p.N, p.D, hs.N, hs.D, dir, dir2)
		return 0, [2]r3.Vector{q, q}
	}
	q := p.N.Mul(p.D)
	d := hs.Distance(q)
	return d, [2]r3.Vector{q, q.Sub(hs.N.Mul(d))}
}

// PlaneDistance returns the gap between two planes, nonzero only for parallel planes.
func PlaneDistance(s1 *Plane, tf1 spatialmath.Pose, s2 *Plane, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
	p1, p2 := s1.Transform(tf1), s2.Transform(tf2)
	dir := p1.N.Cross(p2.N)
	if dir2 := dir.Norm2(); dir2 >= spatialmath.Float64.Epsilon {
		q := intersectionLineOrigin(p1.N, p1.D, p2.N, p2.D, dir, dir2)
		return 0, [2]r3.Vector{q, q}
	}
	q := p1.N.Mul(p1.D)
	sd := p2.SignedDistance(q)
	return p2.Distance(q), [2]r3.Vector{q, q.Sub(p2.N.Mul(sd))}
}
