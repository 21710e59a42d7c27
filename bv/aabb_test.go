package bv

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/proximity/spatialmath"
)

func TestAABBOverlap(t *testing.T) {
	unit := AABB{Min: r3.Vector{}, Max: r3.Vector{1, 1, 1}}

	t.Run("identical boxes overlap", func(t *testing.T) {
		test.That(t, unit.Overlap(unit), test.ShouldBeTrue)
		test.That(t, unit.Distance(unit), test.ShouldEqual, 0.)
	})

	t.Run("adjacent boxes overlap (touching faces)", func(t *testing.T) {
		other := AABB{Min: r3.Vector{1, 0, 0}, Max: r3.Vector{2, 1, 1}}
		test.That(t, unit.Overlap(other), test.ShouldBeTrue)
		test.That(t, other.Overlap(unit), test.ShouldBeTrue)
	})

	t.Run("separated boxes", func(t *testing.T) {
		other := AABB{Min: r3.Vector{4, 5, 0}, Max: r3.Vector{5, 6, 1}}
		test.That(t, unit.Overlap(other), test.ShouldBeFalse)
		test.That(t, unit.Distance(other), test.ShouldAlmostEqual, 5.)
		test.That(t, other.Distance(unit), test.ShouldAlmostEqual, 5.)
	})
}

func TestAABBMeasures(t *testing.T) {
	box := FitAABB([]r3.Vector{{-2, -3, -1}, {6, 6, 5}, {0, 0, 0}})
	test.That(t, box.Min, test.ShouldResemble, r3.Vector{-2, -3, -1})
	test.That(t, box.Max, test.ShouldResemble, r3.Vector{6, 6, 5})
	test.That(t, box.Center(), test.ShouldResemble, r3.Vector{2, 1.5, 2})
	test.That(t, box.Volume(), test.ShouldEqual, 8.*9.*6.)
	test.That(t, box.Size(), test.ShouldEqual, 64.+81.+36.)
	test.That(t, box.Support(r3.Vector{1, -1, 0}), test.ShouldEqual, 6.+3.)

	merged := box.Merge(AABB{Min: r3.Vector{10, 10, 10}, Max: r3.Vector{11, 11, 11}})
	test.That(t, merged.Max, test.ShouldResemble, r3.Vector{11, 11, 11})
	test.That(t, merged.Min, test.ShouldResemble, box.Min)

	inter, ok := box.Intersection(AABB{Min: r3.Vector{5, 5, 4}, Max: r3.Vector{9, 9, 9}})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, inter, test.ShouldResemble, AABB{Min: r3.Vector{5, 5, 4}, Max: r3.Vector{6, 6, 5}})
	_, ok = box.Intersection(AABB{Min: r3.Vector{7, 7, 7}, Max: r3.Vector{9, 9, 9}})
	test.That(t, ok, test.ShouldBeFalse)

	for _, c := range box.Corners() {
		test.That(t, box.Contains(c), test.ShouldBeTrue)
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: r3.Vector{-1, -2, -3}, Max: r3.Vector{1, 2, 3}}
	pose := spatialmath.NewPose(r3.Vector{5, 0, 0}, &spatialmath.R4AA{Theta: math.Pi / 3, RX: 1, RY: 1})
	moved := box.Transform(pose)
	for _, c := range box.Corners() {
		pt := spatialmath.TransformPoint(pose, c)
		test.That(t, moved.Contains(pt.Mul(1-1e-12).Add(moved.Center().Mul(1e-12))), test.ShouldBeTrue)
	}
	test.That(t, spatialmath.R3VectorAlmostEqual(moved.Center(), r3.Vector{5, 0, 0}, 1e-12), test.ShouldBeTrue)
}
