// Package collision answers collision and distance queries between bounding volume hierarchies and
// primitive shapes placed in the world.
package collision

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/bvh"
	"go.viam.com/proximity/logging"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

// Collide tests two hierarchies placed at tf1 and tf2 for contact. A nil request uses the
// defaults of NewCollisionRequest.
func Collide[B bv.BoundingVolume[B]](
	m1 *bvh.Model[B], tf1 spatialmath.Pose,
	m2 *bvh.Model[B], tf2 spatialmath.Pose,
	req *CollisionRequest,
) (*CollisionResult, Statistics) {
	if req == nil {
		req = NewCollisionRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	result := &CollisionResult{}
	node := &meshCollisionNode[B]{
		modelPair: newModelPair(m1, tf1, m2, tf2, req.EnableStatistics),
		req:       req,
		result:    result,
	}
	collisionRecurse(node, bvh.Root, bvh.Root)

	stats := finishStatistics(node.stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "collision query", stats,
		"collision", result.IsCollision(), "contacts", result.NumContacts(), "cost_sources", result.NumCostSources())
	return result, stats
}

// Distance returns the minimum distance between two hierarchies placed at tf1 and tf2. With a
// nonzero RelErr or AbsErr the answer may exceed the true minimum by that much. A nil request uses
// the defaults of NewDistanceRequest.
func Distance[B bv.BoundingVolume[B]](
	m1 *bvh.Model[B], tf1 spatialmath.Pose,
	m2 *bvh.Model[B], tf2 spatialmath.Pose,
	req *DistanceRequest,
) (*DistanceResult, Statistics) {
	if req == nil {
		req = NewDistanceRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	result := NewDistanceResult()
	node := &meshDistanceNode[B]{
		modelPair: newModelPair(m1, tf1, m2, tf2, req.EnableStatistics),
		req:       req,
		result:    result,
	}
	node.primitiveDistance(0, 0)
	distanceRecurse(node, bvh.Root, bvh.Root)

	stats := finishStatistics(node.stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "distance query", stats, "min_distance", result.MinDistance)
	return result, stats
}

// CollideShape tests a hierarchy placed at tf against a shape placed at shapePose. Contacts name
// the triangle of the hierarchy in B1 and -1 in B2. It fails when the shape cannot be tested
// against triangles.
func CollideShape[B bv.BoundingVolume[B]](
	m *bvh.Model[B], tf spatialmath.Pose,
	shape narrowphase.Shape, shapePose spatialmath.Pose,
	req *CollisionRequest,
) (*CollisionResult, Statistics, error) {
	if req == nil {
		req = NewCollisionRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	base, err := newModelShape(m, tf, shape, shapePose, req.EnableStatistics)
	if err != nil {
		return nil, Statistics{}, err
	}
	result := &CollisionResult{}
	node := &meshShapeCollisionNode[B]{
		modelShape: base,
		req:        req,
		prec:       req.precision(),
		result:     result,
		shapeBox:   worldAABB(shape, shapePose),
	}
	collisionRecurse(node, bvh.Root, shapeNode)
	if node.err != nil {
		return nil, Statistics{}, node.err
	}

	stats := finishStatistics(node.stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "shape collision query", stats,
		"shape", shape.Kind(), "collision", result.IsCollision(), "contacts", result.NumContacts())
	return result, stats, nil
}

// DistanceToShape returns the minimum distance between a hierarchy placed at tf and a shape placed
// at shapePose. B2 of the result is -1.
func DistanceToShape[B bv.BoundingVolume[B]](
	m *bvh.Model[B], tf spatialmath.Pose,
	shape narrowphase.Shape, shapePose spatialmath.Pose,
	req *DistanceRequest,
) (*DistanceResult, Statistics, error) {
	if req == nil {
		req = NewDistanceRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	base, err := newModelShape(m, tf, shape, shapePose, req.EnableStatistics)
	if err != nil {
		return nil, Statistics{}, err
	}
	result := NewDistanceResult()
	node := &meshShapeDistanceNode[B]{modelShape: base, req: req, result: result}
	node.primitiveDistance(0)
	distanceRecurse(node, bvh.Root, shapeNode)
	if node.err != nil {
		return nil, Statistics{}, node.err
	}

	stats := finishStatistics(node.stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "shape distance query", stats, "shape", shape.Kind(), "min_distance", result.MinDistance)
	return result, stats, nil
}

// CollideShapes tests two shapes directly. Contacts name -1 on both sides.
func CollideShapes(
	s1 narrowphase.Shape, tf1 spatialmath.Pose,
	s2 narrowphase.Shape, tf2 spatialmath.Pose,
	req *CollisionRequest,
) (*CollisionResult, Statistics, error) {
	if req == nil {
		req = NewCollisionRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	var contacts []narrowphase.ContactPoint
	var out *[]narrowphase.ContactPoint
	if req.EnableContact {
		out = &contacts
	}
	hit, err := narrowphase.ShapeIntersect(s1, tf1, s2, tf2, req.precision(), out)
	if err != nil {
		return nil, Statistics{}, err
	}
	result := &CollisionResult{}
	if hit {
		c := Contact{B1: -1, B2: -1}
		if len(contacts) > 0 {
			c.ContactPoint = contacts[0]
		}
		result.AddContact(c)
		if req.EnableCost && (isBounded(s1) || isBounded(s2)) {
			if box, ok := worldAABB(s1, tf1).Intersection(worldAABB(s2, tf2)); ok {
				result.AddCostSource(NewCostSource(box.Min, box.Max, 1), req.NumMaxCostSources)
			}
		}
	}

	var stats Statistics
	if req.EnableStatistics {
		stats.NumLeafTests = 1
	}
	stats = finishStatistics(stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "shape pair collision query", stats,
		"shape1", s1.Kind(), "shape2", s2.Kind(), "collision", hit)
	return result, stats, nil
}

// DistanceShapes returns the distance between two shapes and, when requested, the closest points.
func DistanceShapes(
	s1 narrowphase.Shape, tf1 spatialmath.Pose,
	s2 narrowphase.Shape, tf2 spatialmath.Pose,
	req *DistanceRequest,
) (*DistanceResult, Statistics, error) {
	if req == nil {
		req = NewDistanceRequest()
	}
	clk := clockOrDefault(req.Clock)
	start := clk.Now()

	dist, pts, err := narrowphase.ShapeDistance(s1, tf1, s2, tf2)
	if err != nil {
		return nil, Statistics{}, err
	}
	if !req.EnableNearestPoints {
		pts = [2]r3.Vector{}
	}
	result := NewDistanceResult()
	result.Update(dist, -1, -1, pts[0], pts[1])

	var stats Statistics
	if req.EnableStatistics {
		stats.NumLeafTests = 1
	}
	stats = finishStatistics(stats, req.EnableStatistics, clk, start)
	logQuery(req.Logger, "shape pair distance query", stats,
		"shape1", s1.Kind(), "shape2", s2.Kind(), "min_distance", result.MinDistance)
	return result, stats, nil
}

func finishStatistics(stats Statistics, enabled bool, clk clock.Clock, start time.Time) Statistics {
	if !enabled {
		return Statistics{}
	}
	stats.QueryTime = clk.Since(start)
	return stats
}

func logQuery(logger logging.Logger, msg string, stats Statistics, keysAndValues ...interface{}) {
	if logger == nil {
		return
	}
	keysAndValues = append(keysAndValues,
		"bv_tests", stats.NumBVTests,
		"leaf_tests", stats.NumLeafTests,
		"query_time", stats.QueryTime,
	)
	logger.Debugw(msg, keysAndValues...)
}
