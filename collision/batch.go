package collision

import (
	"context"

	"golang.org/x/sync/errgroup"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/bvh"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

// PlacedShape is a shape together with its pose in the world.
type PlacedShape struct {
	Shape narrowphase.Shape
	Pose  spatialmath.Pose
}

// CollideShapeBatch runs CollideShape of one hierarchy against every shape, at most parallelism
// queries at a time (unbounded when parallelism <= 0). Results are in the order of shapes. The
// first failing query cancels those not yet started and its error is returned.
func CollideShapeBatch[B bv.BoundingVolume[B]](
	ctx context.Context,
	m *bvh.Model[B], tf spatialmath.Pose,
	shapes []PlacedShape,
	req *CollisionRequest,
	parallelism int,
) ([]*CollisionResult, error) {
	results := make([]*CollisionResult, len(shapes))
	err := runBatch(ctx, len(shapes), parallelism, func(i int) error {
		result, _, err := CollideShape(m, tf, shapes[i].Shape, shapes[i].Pose, req)
		results[i] = result
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DistanceToShapeBatch is CollideShapeBatch for DistanceToShape.
func DistanceToShapeBatch[B bv.BoundingVolume[B]](
	ctx context.Context,
	m *bvh.Model[B], tf spatialmath.Pose,
	shapes []PlacedShape,
	req *DistanceRequest,
	parallelism int,
) ([]*DistanceResult, error) {
	results := make([]*DistanceResult, len(shapes))
	err := runBatch(ctx, len(shapes), parallelism, func(i int) error {
		result, _, err := DistanceToShape(m, tf, shapes[i].Shape, shapes[i].Pose, req)
		results[i] = result
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func runBatch(ctx context.Context, n, parallelism int, query func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return query(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
