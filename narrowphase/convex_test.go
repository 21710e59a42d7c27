package narrowphase

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/proximity/spatialmath"
)

func TestConvexIntersect(t *testing.T) {
	b, _ := NewBox(r3.Vector{X: 2, Y: 2, Z: 2})
	origin := spatialmath.NewZeroPose()

	t.Run("overlapping boxes", func(t *testing.T) {
		var contacts []ContactPoint
		tf := spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5, Y: 0.2, Z: 0.1})
		test.That(t, ConvexIntersect(b, origin, b, tf, spatialmath.Float64, &contacts), test.ShouldBeTrue)
		test.That(t, len(contacts), test.ShouldEqual, 1)
		test.That(t, contacts[0].PenetrationDepth, test.ShouldAlmostEqual, 0.5, 1e-6)
		test.That(t, spatialmath.R3VectorAlmostEqual(contacts[0].Normal, r3.Vector{X: 1}, 1e-6), test.ShouldBeTrue)
		test.That(t, contacts[0].Point.X, test.ShouldAlmostEqual, 0.75, 1e-6)
	})

	t.Run("separated boxes", func(t *testing.T) {
		var contacts []ContactPoint
		tf := spatialmath.NewPoseFromPoint(r3.Vector{X: 3})
		test.That(t, ConvexIntersect(b, origin, b, tf, spatialmath.Float64, &contacts), test.ShouldBeFalse)
		test.That(t, contacts, test.ShouldBeEmpty)

		d, pts := ConvexDistance(b, origin, b, tf)
		test.That(t, d, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, pts[0].X, test.ShouldAlmostEqual, 1, 1e-9)
		test.That(t, pts[1].X, test.ShouldAlmostEqual, 2, 1e-9)
	})

	t.Run("rotated boxes", func(t *testing.T) {
		tf := rotatedAbout(r3.Vector{Z: 1}, math.Pi/4, r3.Vector{X: 1 + math.Sqrt2 + 0.5})
		d, _ := ConvexDistance(b, origin, b, tf)
		test.That(t, d, test.ShouldAlmostEqual, 0.5, 1e-9)
	})

	t.Run("overlapping spheres", func(t *testing.T) {
		s, _ := NewSphere(1)
		var contacts []ContactPoint
		tf := spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5})
		test.That(t, ConvexIntersect(s, origin, s, tf, spatialmath.Float64, &contacts), test.ShouldBeTrue)
		test.That(t, contacts[0].PenetrationDepth, test.ShouldAlmostEqual, 0.5, 0.05)
		test.That(t, contacts[0].Normal.X, test.ShouldBeGreaterThan, 0.99)

		var exact []ContactPoint
		test.That(t, SphereSphereIntersect(s, origin, s, tf, spatialmath.Float64, &exact), test.ShouldBeTrue)
		checkContact(t, exact[0], r3.Vector{X: 1}, r3.Vector{X: 0.75}, 0.5)
	})

	t.Run("sphere to box distance", func(t *testing.T) {
		s, _ := NewSphere(1)
		d, pts := ConvexDistance(s, origin, b, spatialmath.NewPoseFromPoint(r3.Vector{X: 4}))
		test.That(t, d, test.ShouldAlmostEqual, 2, 1e-4)
		test.That(t, spatialmath.R3VectorAlmostEqual(pts[0], r3.Vector{X: 1}, 1e-4), test.ShouldBeTrue)
		test.That(t, spatialmath.R3VectorAlmostEqual(pts[1], r3.Vector{X: 3}, 1e-4), test.ShouldBeTrue)
	})

	t.Run("intersecting shapes are at distance zero", func(t *testing.T) {
		c, _ := NewCapsule(0.5, 2)
		d, pts := ConvexDistance(c, origin, b, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.2}))
		test.That(t, d, test.ShouldEqual, 0.)
		test.That(t, pts[0], test.ShouldResemble, pts[1])
	})
}

func TestGJKSimplexReduction(t *testing.T) {
	sp := func(x, y, z float64) supportPoint {
		return supportPoint{w: r3.Vector{X: x, Y: y, Z: z}, a: r3.Vector{X: x, Y: y, Z: z}}
	}

	v, s, w := gjkClosestOnSegment(sp(-1, 1, 0), sp(1, 1, 0))
	test.That(t, v, test.ShouldResemble, r3.Vector{Y: 1})
	test.That(t, len(s), test.ShouldEqual, 2)
	test.That(t, w, test.ShouldResemble, []float64{0.5, 0.5})

	v, s, w = gjkClosestOnTriangle(sp(-1, -1, 1), sp(2, -1, 1), sp(-1, 2, 1))
	test.That(t, spatialmath.R3VectorAlmostEqual(v, r3.Vector{Z: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, len(s), test.ShouldEqual, 3)
	test.That(t, w[0]+w[1]+w[2], test.ShouldAlmostEqual, 1)

	v, s, _ = gjkClosestOnTriangle(sp(1, 1, 0), sp(2, 1, 0), sp(1, 2, 0))
	test.That(t, v, test.ShouldResemble, r3.Vector{X: 1, Y: 1})
	test.That(t, len(s), test.ShouldEqual, 1)

	tetra := []supportPoint{sp(1, 0, -1), sp(-1, 1, -1), sp(-1, -1, -1), sp(0, 0, 1)}
	test.That(t, gjkOriginInTetrahedron(tetra), test.ShouldBeTrue)
	_, _, w = gjkClosestOnTetrahedron(tetra)
	test.That(t, w, test.ShouldBeNil)

	shifted := []supportPoint{sp(1, 0, 1), sp(-1, 1, 1), sp(-1, -1, 1), sp(0, 0, 3)}
	test.That(t, gjkOriginInTetrahedron(shifted), test.ShouldBeFalse)
	v, _, _ = gjkClosestOnTetrahedron(shifted)
	test.That(t, spatialmath.R3VectorAlmostEqual(v, r3.Vector{Z: 1}, 1e-12), test.ShouldBeTrue)
}
