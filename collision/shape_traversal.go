package collision

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/bvh"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

// shapeNode is the only index a shape has on its side of a traversal.
const shapeNode = 0

// shapeBound bounds a shape in the frame of the hierarchy it is tested against. Convex shapes get a
// bounding volume of the hierarchy's type, half-spaces and planes are kept exact.
type shapeBound[B bv.BoundingVolume[B]] struct {
	bounded bool
	bound   B

	// unbounded shapes: N·x <= D, or N·x = D when twoSided
	n        r3.Vector
	d        float64
	twoSided bool
}

func newShapeBound[B bv.BoundingVolume[B]](
	m *bvh.Model[B],
	shape narrowphase.Shape,
	shapeInModel spatialmath.Pose,
) (shapeBound[B], error) {
	switch s := shape.(type) {
	case *narrowphase.Halfspace:
		h := s.Transform(shapeInModel)
		return shapeBound[B]{n: h.N, d: h.D}, nil
	case *narrowphase.Plane:
		p := s.Transform(shapeInModel)
		return shapeBound[B]{n: p.N, d: p.D, twoSided: true}, nil
	case narrowphase.ConvexShape:
		corners := convexAABB(s, shapeInModel).Corners()
		return shapeBound[B]{bounded: true, bound: m.Fit(corners[:])}, nil
	default:
		return shapeBound[B]{}, errors.Errorf("cannot bound shape of kind %s", shape.Kind())
	}
}

// extent returns the range of N·x over b.
func (s shapeBound[B]) extent(b B) (float64, float64) {
	return -b.Support(s.n.Mul(-1)), b.Support(s.n)
}

func (s shapeBound[B]) overlap(b B) bool {
	if s.bounded {
		return b.Overlap(s.bound)
	}
	lo, hi := s.extent(b)
	if s.twoSided {
		return lo <= s.d && s.d <= hi
	}
	return lo <= s.d
}

func (s shapeBound[B]) distance(b B) float64 {
	if s.bounded {
		return b.Distance(s.bound)
	}
	lo, hi := s.extent(b)
	switch {
	case lo > s.d:
		return lo - s.d
	case s.twoSided && hi < s.d:
		return s.d - hi
	default:
		return 0
	}
}

// convexAABB returns the exact axis aligned box of a convex shape placed at pose.
func convexAABB(s narrowphase.ConvexShape, pose spatialmath.Pose) bv.AABB {
	rm := spatialmath.PoseRotationMatrix(pose)
	extreme := func(dir r3.Vector) r3.Vector {
		return rm.Mul(s.Support(rm.TransposeMul(dir))).Add(pose.Point())
	}
	return bv.AABB{
		Min: r3.Vector{X: extreme(r3.Vector{X: -1}).X, Y: extreme(r3.Vector{Y: -1}).Y, Z: extreme(r3.Vector{Z: -1}).Z},
		Max: r3.Vector{X: extreme(r3.Vector{X: 1}).X, Y: extreme(r3.Vector{Y: 1}).Y, Z: extreme(r3.Vector{Z: 1}).Z},
	}
}

// worldAABB returns the world box of any shape. Unbounded shapes cover everything.
func worldAABB(s narrowphase.Shape, pose spatialmath.Pose) bv.AABB {
	if c, ok := s.(narrowphase.ConvexShape); ok {
		return convexAABB(c, pose)
	}
	inf := r3.Vector{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	return bv.AABB{Min: inf.Mul(-1), Max: inf}
}

func isBounded(s narrowphase.Shape) bool {
	_, ok := s.(narrowphase.ConvexShape)
	return ok
}

// modelShape holds what traversals of a hierarchy against a single shape share.
type modelShape[B bv.BoundingVolume[B]] struct {
	model     *bvh.Model[B]
	tf        spatialmath.Pose
	shape     narrowphase.Shape
	shapePose spatialmath.Pose
	bound     shapeBound[B]

	enableStatistics bool
	stats            Statistics
	err              error
}

func newModelShape[B bv.BoundingVolume[B]](
	m *bvh.Model[B], tf spatialmath.Pose,
	shape narrowphase.Shape, shapePose spatialmath.Pose,
	enableStatistics bool,
) (modelShape[B], error) {
	bound, err := newShapeBound(m, shape, spatialmath.PoseBetween(tf, shapePose))
	if err != nil {
		return modelShape[B]{}, err
	}
	return modelShape[B]{
		model:            m,
		tf:               tf,
		shape:            shape,
		shapePose:        shapePose,
		bound:            bound,
		enableStatistics: enableStatistics,
	}, nil
}

func (p *modelShape[B]) isFirstNodeLeaf(b int) bool { return p.model.IsLeaf(b) }
func (p *modelShape[B]) isSecondNodeLeaf(int) bool  { return true }

func (p *modelShape[B]) firstChildren(b int) (int, int) {
	return p.model.Left(b), p.model.Right(b)
}

func (p *modelShape[B]) secondChildren(int) (int, int) {
	return shapeNode, shapeNode
}

func (p *modelShape[B]) firstOverSecond(int, int) bool { return true }

func (p *modelShape[B]) countBVTest() {
	if p.enableStatistics {
		p.stats.NumBVTests++
	}
}

func (p *modelShape[B]) countLeafTest() {
	if p.enableStatistics {
		p.stats.NumLeafTests++
	}
}

// primitive returns triangle i of the model as a narrow phase shape in the model frame.
func (p *modelShape[B]) primitive(i int) *narrowphase.Triangle {
	v := p.model.Triangle(i).Vertices()
	return narrowphase.NewTriangle(v[0], v[1], v[2])
}

type meshShapeCollisionNode[B bv.BoundingVolume[B]] struct {
	modelShape[B]
	req      *CollisionRequest
	prec     spatialmath.Precision
	result   *CollisionResult
	shapeBox bv.AABB
}

func (n *meshShapeCollisionNode[B]) bvTesting(b1, _ int) bool {
	n.countBVTest()
	return !n.bound.overlap(n.model.Bound(b1))
}

func (n *meshShapeCollisionNode[B]) leafTesting(b1, _ int) {
	n.countLeafTest()
	for _, p := range n.model.Primitives(b1) {
		if n.canStop() {
			return
		}
		n.primitiveTesting(p)
	}
}

func (n *meshShapeCollisionNode[B]) primitiveTesting(p int) {
	var contacts []narrowphase.ContactPoint
	var out *[]narrowphase.ContactPoint
	if n.req.EnableContact {
		out = &contacts
	}
	hit, err := narrowphase.ShapeIntersect(n.primitive(p), n.tf, n.shape, n.shapePose, n.prec, out)
	if err != nil {
		n.err = err
		return
	}
	if !hit {
		return
	}
	if n.result.NumContacts() < n.req.maxContacts() {
		c := Contact{B1: p, B2: -1}
		if len(contacts) > 0 {
			c.ContactPoint = contacts[0]
		}
		n.result.AddContact(c)
	}
	if n.req.EnableCost {
		triBox := bv.FitAABB(n.model.Triangle(p).Transform(n.tf).Points())
		if box, ok := triBox.Intersection(n.shapeBox); ok {
			n.result.AddCostSource(NewCostSource(box.Min, box.Max, n.model.CostDensity()), n.req.NumMaxCostSources)
		}
	}
}

func (n *meshShapeCollisionNode[B]) canStop() bool {
	if n.err != nil {
		return true
	}
	return n.result.IsCollision() && !n.req.EnableCost && n.result.NumContacts() >= n.req.maxContacts()
}

type meshShapeDistanceNode[B bv.BoundingVolume[B]] struct {
	modelShape[B]
	req    *DistanceRequest
	result *DistanceResult
}

func (n *meshShapeDistanceNode[B]) bvTesting(b1, _ int) float64 {
	n.countBVTest()
	return n.bound.distance(n.model.Bound(b1))
}

func (n *meshShapeDistanceNode[B]) leafTesting(b1, _ int) {
	n.countLeafTest()
	for _, p := range n.model.Primitives(b1) {
		if n.err != nil {
			return
		}
		n.primitiveDistance(p)
	}
}

func (n *meshShapeDistanceNode[B]) primitiveDistance(p int) {
	dist, pts, err := narrowphase.ShapeDistance(n.primitive(p), n.tf, n.shape, n.shapePose)
	if err != nil {
		n.err = err
		return
	}
	if !n.req.EnableNearestPoints {
		pts = [2]r3.Vector{}
	}
	n.result.Update(dist, p, -1, pts[0], pts[1])
}

func (n *meshShapeDistanceNode[B]) canStop(bound float64) bool {
	return n.err != nil || canStopDistance(bound, n.result.MinDistance, n.req)
}
