package collision

import (
	"context"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

func TestShapeBatch(t *testing.T) {
	m := boxModel[bv.OBB](t, bv.FitOBB, r3.Vector{X: 2, Y: 2, Z: 2})
	origin := spatialmath.NewZeroPose()
	sphere, err := narrowphase.NewSphere(0.5)
	test.That(t, err, test.ShouldBeNil)

	shapes := make([]PlacedShape, 0, 8)
	for i := 0; i < 8; i++ {
		shapes = append(shapes, PlacedShape{Shape: sphere, Pose: spatialmath.NewPoseFromPoint(r3.Vector{X: 1.2 + float64(i)*0.5})})
	}

	t.Run("results keep the order of the shapes", func(t *testing.T) {
		results, err := CollideShapeBatch(context.Background(), m, origin, shapes, nil, 3)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(results), test.ShouldEqual, len(shapes))
		for i, result := range results {
			// sphere i reaches down to x = 0.7 + 0.5i
			test.That(t, result.IsCollision(), test.ShouldEqual, i == 0)
		}

		distances, err := DistanceToShapeBatch(context.Background(), m, origin, shapes, nil, 0)
		test.That(t, err, test.ShouldBeNil)
		for i, result := range distances {
			test.That(t, result.MinDistance, test.ShouldAlmostEqual, max(0, 0.5*float64(i)-0.3), 1e-6)
		}
	})

	t.Run("an unsupported shape fails the batch", func(t *testing.T) {
		bad := append(append([]PlacedShape{}, shapes...), PlacedShape{Shape: oddShape{}, Pose: origin})
		_, err := CollideShapeBatch(context.Background(), m, origin, bad, nil, 2)
		test.That(t, err, test.ShouldNotBeNil)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := DistanceToShapeBatch(ctx, m, origin, shapes, nil, 1)
		test.That(t, err, test.ShouldEqual, context.Canceled)
	})
}
