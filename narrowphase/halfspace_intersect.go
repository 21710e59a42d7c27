package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// SphereHalfspaceIntersect tests a sphere placed at tf1 against a half-space placed at tf2.
func SphereHalfspaceIntersect(
	s1 *Sphere, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	center := tf1.Point()
	depth := s1.Radius - hs.SignedDistance(center)
	if depth < 0 {
		return false
	}
	point := center.Sub(hs.N.Mul(s1.Radius)).Add(hs.N.Mul(depth * 0.5))
	appendContact(contacts, hs.N.Mul(-1), point, depth)
	return true
}

// EllipsoidHalfspaceIntersect tests an ellipsoid against a half-space. The half-space is
// expressed in the ellipsoid's frame, where the support function is closed form.
func EllipsoidHalfspaceIntersect(
	s1 *Ellipsoid, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(spatialmath.PoseBetween(tf1, tf2))
	n := hs.N
	r := s1.Radii
	scaled := r3.Vector{X: n.X * r.X, Y: n.Y * r.Y, Z: n.Z * r.Z}
	centerToPlane := scaled.Norm()
	depth := centerToPlane + hs.D
	if depth < 0 {
		return false
	}
	support := r3.Vector{X: r.X * r.X * n.X, Y: r.Y * r.Y * n.Y, Z: r.Z * r.Z * n.Z}.Mul(1 / centerToPlane)
	local := support.Mul(0.5*depth/n.Dot(support) - 1)
	normal := spatialmath.RotateVector(tf1, n.Mul(-1))
	appendContact(contacts, normal, spatialmath.TransformPoint(tf1, local), depth)
	return true
}

// BoxHalfspaceIntersect tests a box against a half-space. When the normal is within tolerance of
// one box axis the contact is the center of the deepest face, axes tested in x, y, z order.
func BoxHalfspaceIntersect(
	s1 *Box, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	rm := spatialmath.PoseRotationMatrix(tf1)
	center := tf1.Point()

	q := rm.TransposeMul(hs.N)
	qs := [3]float64{q.X, q.Y, q.Z}
	side := [3]float64{s1.Side.X, s1.Side.Y, s1.Side.Z}
	var a [3]float64
	sum := 0.
	for i := range a {
		a[i] = qs[i] * side[i]
		sum += math.Abs(a[i])
	}
	depth := 0.5*sum - hs.SignedDistance(center)
	if depth < 0 {
		return false
	}
	if contacts == nil {
		return true
	}

	towardHalfspace := func(i int) float64 {
		if a[i] > 0 {
			return -1
		}
		return 1
	}
	p := center
	aligned := false
	for i := range qs {
		if math.Abs(qs[i]-1) < prec.Tolerance || math.Abs(qs[i]+1) < prec.Tolerance {
			p = p.Add(rm.Col(i).Mul(0.5 * side[i] * towardHalfspace(i)))
			aligned = true
			break
		}
	}
	if !aligned {
		for i := range qs {
			p = p.Add(rm.Col(i).Mul(0.5 * side[i] * towardHalfspace(i)))
		}
	}
	appendContact(contacts, hs.N.Mul(-1), p.Add(hs.N.Mul(depth*0.5)), depth)
	return true
}

// CapsuleHalfspaceIntersect tests a capsule against a half-space.
func CapsuleHalfspaceIntersect(
	s1 *Capsule, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	center := tf1.Point()
	zAxis := spatialmath.PoseRotationMatrix(tf1).Col(2)
	cosa := zAxis.Dot(hs.N)

	if math.Abs(cosa) < prec.Tolerance {
		depth := s1.Radius - hs.SignedDistance(center)
		if depth < 0 {
			return false
		}
		appendContact(contacts, hs.N.Mul(-1), center.Add(hs.N.Mul(0.5*depth-s1.Radius)), depth)
		return true
	}

	p := center.Add(zAxis.Mul(0.5 * s1.Lz * endCapSign(cosa)))
	depth := s1.Radius - hs.SignedDistance(p)
	if depth < 0 {
		return false
	}
	point := p.Sub(hs.N.Mul(s1.Radius)).Add(hs.N.Mul(0.5 * depth))
	appendContact(contacts, hs.N.Mul(-1), point, depth)
	return true
}

// CylinderHalfspaceIntersect tests a cylinder against a half-space.
func CylinderHalfspaceIntersect(
	s1 *Cylinder, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	center := tf1.Point()
	zAxis := spatialmath.PoseRotationMatrix(tf1).Col(2)
	cosa := zAxis.Dot(hs.N)

	if math.Abs(cosa) < prec.Tolerance {
		depth := s1.Radius - hs.SignedDistance(center)
		if depth < 0 {
			return false
		}
		appendContact(contacts, hs.N.Mul(-1), center.Add(hs.N.Mul(0.5*depth-s1.Radius)), depth)
		return true
	}

	rim := rimOffset(zAxis, hs.N, cosa, s1.Radius, prec)
	p := center.Add(zAxis.Mul(0.5 * s1.Lz * endCapSign(cosa))).Add(rim)
	depth := -hs.SignedDistance(p)
	if depth < 0 {
		return false
	}
	appendContact(contacts, hs.N.Mul(-1), p.Add(hs.N.Mul(0.5*depth)), depth)
	return true
}

// ConeHalfspaceIntersect tests a cone against a half-space. The deepest point is either the apex
// or the point of the base rim farthest into the half-space.
func ConeHalfspaceIntersect(
	s1 *Cone, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	center := tf1.Point()
	zAxis := spatialmath.PoseRotationMatrix(tf1).Col(2)
	cosa := zAxis.Dot(hs.N)

	if math.Abs(cosa) < prec.Tolerance {
		depth := s1.Radius - hs.SignedDistance(center)
		if depth < 0 {
			return false
		}
		point := center.Sub(zAxis.Mul(0.5 * s1.Lz)).Add(hs.N.Mul(0.5*depth - s1.Radius))
		appendContact(contacts, hs.N.Mul(-1), point, depth)
		return true
	}

	rim := rimOffset(zAxis, hs.N, cosa, s1.Radius, prec)
	apex := center.Add(zAxis.Mul(0.5 * s1.Lz))
	base := center.Sub(zAxis.Mul(0.5 * s1.Lz)).Add(rim)
	d1, d2 := hs.SignedDistance(apex), hs.SignedDistance(base)
	if d1 > 0 && d2 > 0 {
		return false
	}
	deepest, depth := base, -d2
	if d1 < d2 {
		deepest, depth = apex, -d1
	}
	appendContact(contacts, hs.N.Mul(-1), deepest.Add(hs.N.Mul(0.5*depth)), depth)
	return true
}

// ConvexHalfspaceIntersect tests a convex polytope against a half-space by scanning its vertices.
func ConvexHalfspaceIntersect(
	s1 *Convex, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s2.Transform(tf2)
	v, minDist, ok := deepestVertex(s1.Vertices, tf1, hs)
	if !ok || minDist > 0 {
		return false
	}
	appendContact(contacts, hs.N.Mul(-1), v.Sub(hs.N.Mul(0.5*minDist)), -minDist)
	return true
}

// HalfspaceTriangleIntersect tests a half-space against a triangle. The half-space comes first,
// so the reported normal is the half-space normal.
func HalfspaceTriangleIntersect(
	s1 *Halfspace, tf1 spatialmath.Pose,
	s2 *Triangle, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	hs := s1.Transform(tf1)
	verts := s2.Vertices()
	v, minDist, _ := deepestVertex(verts[:], tf2, hs)
	if minDist > 0 {
		return false
	}
	appendContact(contacts, hs.N, v.Sub(hs.N.Mul(0.5*minDist)), -minDist)
	return true
}

// deepestVertex returns the first vertex, in world frame, with the smallest signed distance to hs.
func deepestVertex(vertices []r3.Vector, tf spatialmath.Pose, hs *Halfspace) (r3.Vector, float64, bool) {
	if len(vertices) == 0 {
		return r3.Vector{}, 0, false
	}
	best := spatialmath.TransformPoint(tf, vertices[0])
	bestDist := hs.SignedDistance(best)
	for _, v := range vertices[1:] {
		p := spatialmath.TransformPoint(tf, v)
		if d := hs.SignedDistance(p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, bestDist, true
}

// endCapSign selects the end cap of an axis that points into the half-space.
func endCapSign(cosa float64) float64 {
	if cosa > 0 {
		return -1
	}
	return 1
}

// rimOffset is the radial offset, perpendicular to the shape axis, to the rim point deepest in the
// half-space. It is zero when the axis is (anti)parallel to the normal.
func rimOffset(zAxis, n r3.Vector, cosa, radius float64, prec spatialmath.Precision) r3.Vector {
	if math.Abs(cosa+1) < prec.Tolerance || math.Abs(cosa-1) < prec.Tolerance {
		return r3.Vector{}
	}
	c := zAxis.Mul(cosa).Sub(n)
	return c.Mul(radius / c.Norm())
}
