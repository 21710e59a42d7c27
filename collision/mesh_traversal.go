package collision

import (
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/bvh"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

// triangleContactTolerance is the distance under which two triangles are considered touching.
const triangleContactTolerance = 1e-9

// modelPair holds what traversals over two hierarchies share. Bounds of the second model are
// moved into the frame of the first before they are compared.
type modelPair[B bv.BoundingVolume[B]] struct {
	model1, model2 *bvh.Model[B]
	tf1, tf2       spatialmath.Pose
	// pose of model2 in the frame of model1
	rel spatialmath.Pose

	enableStatistics bool
	stats            Statistics
}

func newModelPair[B bv.BoundingVolume[B]](
	m1 *bvh.Model[B], tf1 spatialmath.Pose,
	m2 *bvh.Model[B], tf2 spatialmath.Pose,
	enableStatistics bool,
) modelPair[B] {
	return modelPair[B]{
		model1:           m1,
		model2:           m2,
		tf1:              tf1,
		tf2:              tf2,
		rel:              spatialmath.PoseBetween(tf1, tf2),
		enableStatistics: enableStatistics,
	}
}

func (p *modelPair[B]) isFirstNodeLeaf(b int) bool  { return p.model1.IsLeaf(b) }
func (p *modelPair[B]) isSecondNodeLeaf(b int) bool { return p.model2.IsLeaf(b) }

func (p *modelPair[B]) firstChildren(b int) (int, int) {
	return p.model1.Left(b), p.model1.Right(b)
}

func (p *modelPair[B]) secondChildren(b int) (int, int) {
	return p.model2.Left(b), p.model2.Right(b)
}

// firstOverSecond prefers to split the larger of two internal nodes, and never splits a leaf.
func (p *modelPair[B]) firstOverSecond(b1, b2 int) bool {
	if p.model2.IsLeaf(b2) {
		return true
	}
	return !p.model1.IsLeaf(b1) && p.model1.Bound(b1).Size() > p.model2.Bound(b2).Size()
}

func (p *modelPair[B]) countBVTest() {
	if p.enableStatistics {
		p.stats.NumBVTests++
	}
}

func (p *modelPair[B]) countLeafTest() {
	if p.enableStatistics {
		p.stats.NumLeafTests++
	}
}

func (p *modelPair[B]) worldTriangles(p1, p2 int) (*spatialmath.Triangle, *spatialmath.Triangle) {
	return p.model1.Triangle(p1).Transform(p.tf1), p.model2.Triangle(p2).Transform(p.tf2)
}

type meshCollisionNode[B bv.BoundingVolume[B]] struct {
	modelPair[B]
	req    *CollisionRequest
	result *CollisionResult
}

func (n *meshCollisionNode[B]) bvTesting(b1, b2 int) bool {
	n.countBVTest()
	return !n.model1.Bound(b1).Overlap(n.model2.Bound(b2).Transform(n.rel))
}

func (n *meshCollisionNode[B]) leafTesting(b1, b2 int) {
	n.countLeafTest()
	for _, p1 := range n.model1.Primitives(b1) {
		for _, p2 := range n.model2.Primitives(b2) {
			if n.canStop() {
				return
			}
			n.primitiveTesting(p1, p2)
		}
	}
}

func (n *meshCollisionNode[B]) primitiveTesting(p1, p2 int) {
	t1, t2 := n.worldTriangles(p1, p2)
	on1, on2, dist := t1.ClosestPointsToTriangle(t2)
	if dist > triangleContactTolerance {
		return
	}
	if n.result.NumContacts() < n.req.maxContacts() {
		c := Contact{B1: p1, B2: p2}
		if n.req.EnableContact {
			c.ContactPoint = triangleContact(t1, t2, on1, on2)
		}
		n.result.AddContact(c)
	}
	if n.req.EnableCost {
		if box, ok := bv.FitAABB(t1.Points()).Intersection(bv.FitAABB(t2.Points())); ok {
			density := n.model1.CostDensity() * n.model2.CostDensity()
			n.result.AddCostSource(NewCostSource(box.Min, box.Max, density), n.req.NumMaxCostSources)
		}
	}
}

func (n *meshCollisionNode[B]) canStop() bool {
	return n.result.IsCollision() && !n.req.EnableCost && n.result.NumContacts() >= n.req.maxContacts()
}

// triangleContact describes the contact between two touching triangles. The normal is the first
// triangle's normal facing the second triangle, and the depth is how far the first triangle
// reaches through the plane of the second on its shallower side.
func triangleContact(t1, t2 *spatialmath.Triangle, on1, on2 r3.Vector) narrowphase.ContactPoint {
	normal := t1.Normal()
	if t2.Centroid().Sub(t1.Centroid()).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}
	n2 := t2.Normal()
	lowest, highest := 0., 0.
	for i, v := range t1.Points() {
		s := n2.Dot(v.Sub(t2.Vertices()[0]))
		if i == 0 || s < lowest {
			lowest = s
		}
		if i == 0 || s > highest {
			highest = s
		}
	}
	return narrowphase.ContactPoint{
		Normal:           normal,
		Point:            on1.Add(on2).Mul(0.5),
		PenetrationDepth: max(0, min(highest, -lowest)),
	}
}

type meshDistanceNode[B bv.BoundingVolume[B]] struct {
	modelPair[B]
	req    *DistanceRequest
	result *DistanceResult
}

func (n *meshDistanceNode[B]) bvTesting(b1, b2 int) float64 {
	n.countBVTest()
	return n.model1.Bound(b1).Distance(n.model2.Bound(b2).Transform(n.rel))
}

func (n *meshDistanceNode[B]) leafTesting(b1, b2 int) {
	n.countLeafTest()
	for _, p1 := range n.model1.Primitives(b1) {
		for _, p2 := range n.model2.Primitives(b2) {
			n.primitiveDistance(p1, p2)
		}
	}
}

func (n *meshDistanceNode[B]) primitiveDistance(p1, p2 int) {
	t1, t2 := n.worldTriangles(p1, p2)
	on1, on2, dist := t1.ClosestPointsToTriangle(t2)
	if !n.req.EnableNearestPoints {
		on1, on2 = r3.Vector{}, r3.Vector{}
	}
	n.result.Update(dist, p1, p2, on1, on2)
}

func (n *meshDistanceNode[B]) canStop(bound float64) bool {
	return canStopDistance(bound, n.result.MinDistance, n.req)
}

func canStopDistance(bound, best float64, req *DistanceRequest) bool {
	return bound >= best-req.AbsErr && bound*(1+req.RelErr) >= best
}
