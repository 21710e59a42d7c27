package narrowphase

import (
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

type intersectFunc func(
	s1 Shape, tf1 spatialmath.Pose,
	s2 Shape, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool

type distanceFunc func(s1 Shape, tf1 spatialmath.Pose, s2 Shape, tf2 spatialmath.Pose) (float64, [2]r3.Vector)

func intersectAs[S1, S2 Shape](
	fn func(S1, spatialmath.Pose, S2, spatialmath.Pose, spatialmath.Precision, *[]ContactPoint) bool,
) intersectFunc {
	return func(s1 Shape, tf1 spatialmath.Pose, s2 Shape, tf2 spatialmath.Pose, prec spatialmath.Precision, contacts *[]ContactPoint) bool {
		return fn(s1.(S1), tf1, s2.(S2), tf2, prec, contacts)
	}
}

func distanceAs[S1, S2 Shape](fn func(S1, spatialmath.Pose, S2, spatialmath.Pose) (float64, [2]r3.Vector)) distanceFunc {
	return func(s1 Shape, tf1 spatialmath.Pose, s2 Shape, tf2 spatialmath.Pose) (float64, [2]r3.Vector) {
		return fn(s1.(S1), tf1, s2.(S2), tf2)
	}
}

var convexKinds = []Kind{
	KindSphere, KindEllipsoid, KindBox, KindCapsule, KindCylinder, KindCone, KindConvex, KindTriangle,
}

// intersectTable holds one entry per unordered kind pair; ShapeIntersect swaps the arguments of
// pairs only registered the other way around.
var intersectTable = func() map[[2]Kind]intersectFunc {
	table := map[[2]Kind]intersectFunc{
		{KindSphere, KindHalfspace}:    intersectAs(SphereHalfspaceIntersect),
		{KindEllipsoid, KindHalfspace}: intersectAs(EllipsoidHalfspaceIntersect),
		{KindBox, KindHalfspace}:       intersectAs(BoxHalfspaceIntersect),
		{KindCapsule, KindHalfspace}:   intersectAs(CapsuleHalfspaceIntersect),
		{KindCylinder, KindHalfspace}:  intersectAs(CylinderHalfspaceIntersect),
		{KindCone, KindHalfspace}:      intersectAs(ConeHalfspaceIntersect),
		{KindConvex, KindHalfspace}:    intersectAs(ConvexHalfspaceIntersect),
		{KindHalfspace, KindTriangle}:  intersectAs(HalfspaceTriangleIntersect),
		{KindSphere, KindSphere}:       intersectAs(SphereSphereIntersect),
		{KindPlane, KindHalfspace}:     intersectAs(planeHalfspaceContact),
		{KindHalfspace, KindHalfspace}: intersectAs(halfspaceContact),
		{KindPlane, KindPlane}:         intersectAs(planeContact),
	}
	for i, k1 := range convexKinds {
		table[[2]Kind{k1, KindPlane}] = intersectAs(ConvexPlaneIntersect)
		for _, k2 := range convexKinds[i:] {
			if _, ok := table[[2]Kind{k1, k2}]; !ok {
				table[[2]Kind{k1, k2}] = intersectAs(ConvexIntersect)
			}
		}
	}
	return table
}()

var distanceTable = func() map[[2]Kind]distanceFunc {
	table := map[[2]Kind]distanceFunc{
		{KindPlane, KindHalfspace}:     distanceAs(PlaneHalfspaceDistance),
		{KindHalfspace, KindHalfspace}: distanceAs(HalfspaceDistance),
		{KindPlane, KindPlane}:         distanceAs(PlaneDistance),
	}
	for i, k1 := range convexKinds {
		table[[2]Kind{k1, KindHalfspace}] = distanceAs(ConvexHalfspaceDistance)
		table[[2]Kind{k1, KindPlane}] = distanceAs(ConvexPlaneDistance)
		for _, k2 := range convexKinds[i:] {
			table[[2]Kind{k1, k2}] = distanceAs(ConvexDistance)
		}
	}
	return table
}()

// ShapeIntersect tests two shapes for intersection, appending a contact to contacts when they
// intersect and contacts is not nil. Contact normals point from s1 toward s2.
func ShapeIntersect(
	s1 Shape, tf1 spatialmath.Pose,
	s2 Shape, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) (bool, error) {
	if fn, ok := intersectTable[[2]Kind{s1.Kind(), s2.Kind()}]; ok {
		return fn(s1, tf1, s2, tf2, prec, contacts), nil
	}
	fn, ok := intersectTable[[2]Kind{s2.Kind(), s1.Kind()}]
	if !ok {
		return false, newCollisionTypeUnsupportedError(s1, s2)
	}
	if contacts == nil {
		return fn(s2, tf2, s1, tf1, prec, nil), nil
	}
	var swapped []ContactPoint
	hit := fn(s2, tf2, s1, tf1, prec, &swapped)
	for _, c := range swapped {
		c.Normal = c.Normal.Mul(-1)
		*contacts = append(*contacts, c)
	}
	return hit, nil
}

// ShapeDistance returns the distance between two shapes and the closest point on each, in the
// order of the arguments. Intersecting shapes are at distance zero.
func ShapeDistance(s1 Shape, tf1 spatialmath.Pose, s2 Shape, tf2 spatialmath.Pose) (float64, [2]r3.Vector, error) {
	if fn, ok := distanceTable[[2]Kind{s1.Kind(), s2.Kind()}]; ok {
		d, pts := fn(s1, tf1, s2, tf2)
		return d, pts, nil
	}
	fn, ok := distanceTable[[2]Kind{s2.Kind(), s1.Kind()}]
	if !ok {
		return 0, [2]r3.Vector{}, newDistanceTypeUnsupportedError(s1, s2)
	}
	d, pts := fn(s2, tf2, s1, tf1)
	return d, [2]r3.Vector{pts[1], pts[0]}, nil
}

// planeHalfspaceContact reports the classification as a contact whose normal points into the
// half-space.
func planeHalfspaceContact(
	s1 *Plane, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	res, ok := PlaneHalfspaceIntersect(s1, tf1, s2, tf2, prec)
	if !ok {
		return false
	}
	point := res.Point
	if res.Code != 3 {
		point = res.Plane.N.Mul(res.Plane.D)
	}
	appendContact(contacts, spatialmath.RotateVector(tf2, s2.N).Mul(-1), point, res.PenetrationDepth)
	return true
}

func halfspaceContact(
	s1 *Halfspace, tf1 spatialmath.Pose,
	s2 *Halfspace, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	res, ok := HalfspaceIntersect(s1, tf1, s2, tf2, prec)
	if !ok {
		return false
	}
	var point r3.Vector
	switch res.Code {
	case 1, 2:
		point = res.Halfspace.N.Mul(res.Halfspace.D)
	case 3:
		h1 := s1.Transform(tf1)
		point = h1.N.Mul(h1.D - 0.5*res.PenetrationDepth)
	default:
		point = res.Point
	}
	appendContact(contacts, spatialmath.RotateVector(tf2, s2.N).Mul(-1), point, res.PenetrationDepth)
	return true
}

func planeContact(
	s1 *Plane, tf1 spatialmath.Pose,
	s2 *Plane, tf2 spatialmath.Pose,
	prec spatialmath.Precision,
	contacts *[]ContactPoint,
) bool {
	res, ok := PlaneIntersect(s1, tf1, s2, tf2, prec)
	if !ok {
		return false
	}
	depth := 0.
	if res.Code == 2 {
		depth = prec.Max
	}
	appendContact(contacts, spatialmath.RotateVector(tf2, s2.N).Mul(-1), res.Point, depth)
	return true
}
