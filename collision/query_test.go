package collision

import (
	"math"
	"math/rand"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"go.viam.com/test"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/bvh"
	"go.viam.com/proximity/logging"
	"go.viam.com/proximity/narrowphase"
	"go.viam.com/proximity/spatialmath"
)

func randomVector(rnd *rand.Rand, scale float64) r3.Vector {
	return r3.Vector{
		X: (2*rnd.Float64() - 1) * scale,
		Y: (2*rnd.Float64() - 1) * scale,
		Z: (2*rnd.Float64() - 1) * scale,
	}
}

func randomPose(rnd *rand.Rand, scale float64) spatialmath.Pose {
	axis := randomVector(rnd, 1)
	return spatialmath.NewPose(randomVector(rnd, scale), &spatialmath.R4AA{
		Theta: rnd.Float64() * math.Pi,
		RX:    axis.X,
		RY:    axis.Y,
		RZ:    axis.Z,
	})
}

// randomSoup returns n unconnected triangles with vertices within spread+0.5 of the origin.
func randomSoup(rnd *rand.Rand, n int, spread float64) ([]r3.Vector, [][3]int) {
	vertices := make([]r3.Vector, 0, 3*n)
	triangles := make([][3]int, 0, n)
	for i := 0; i < n; i++ {
		c := randomVector(rnd, spread)
		for j := 0; j < 3; j++ {
			vertices = append(vertices, c.Add(randomVector(rnd, 0.5)))
		}
		triangles = append(triangles, [3]int{3 * i, 3*i + 1, 3*i + 2})
	}
	return vertices, triangles
}

func boxModel[B bv.BoundingVolume[B]](t *testing.T, fit bv.Fitter[B], dims r3.Vector) *bvh.Model[B] {
	t.Helper()
	m, err := bvh.NewModelFromMesh(spatialmath.NewBoxMesh(spatialmath.NewZeroPose(), dims), fit, nil)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func soupModel[B bv.BoundingVolume[B]](t *testing.T, rnd *rand.Rand, fit bv.Fitter[B], n int) *bvh.Model[B] {
	t.Helper()
	vertices, triangles := randomSoup(rnd, n, 1.5)
	cfg := bvh.NewBuildConfig()
	cfg.MaxLeafSize = 1 + rnd.Intn(3)
	m, err := bvh.NewModel(vertices, triangles, fit, cfg)
	test.That(t, err, test.ShouldBeNil)
	return m
}

func bruteForceCollide[B bv.BoundingVolume[B]](
	m1 *bvh.Model[B], tf1 spatialmath.Pose,
	m2 *bvh.Model[B], tf2 spatialmath.Pose,
	maxCostSources int,
) (map[[2]int]bool, *CollisionResult) {
	touching := make(map[[2]int]bool)
	costs := &CollisionResult{}
	for i := 0; i < m1.NumTriangles(); i++ {
		t1 := m1.Triangle(i).Transform(tf1)
		for j := 0; j < m2.NumTriangles(); j++ {
			t2 := m2.Triangle(j).Transform(tf2)
			if _, _, d := t1.ClosestPointsToTriangle(t2); d > triangleContactTolerance {
				continue
			}
			touching[[2]int{i, j}] = true
			if box, ok := bv.FitAABB(t1.Points()).Intersection(bv.FitAABB(t2.Points())); ok {
				density := m1.CostDensity() * m2.CostDensity()
				costs.AddCostSource(NewCostSource(box.Min, box.Max, density), maxCostSources)
			}
		}
	}
	return touching, costs
}

func bruteForceDistance[B bv.BoundingVolume[B]](
	m1 *bvh.Model[B], tf1 spatialmath.Pose,
	m2 *bvh.Model[B], tf2 spatialmath.Pose,
) float64 {
	best := math.Inf(1)
	for i := 0; i < m1.NumTriangles(); i++ {
		t1 := m1.Triangle(i).Transform(tf1)
		for j := 0; j < m2.NumTriangles(); j++ {
			_, _, d := t1.ClosestPointsToTriangle(m2.Triangle(j).Transform(tf2))
			best = math.Min(best, d)
		}
	}
	return best
}

func checkCollideMatchesBruteForce[B bv.BoundingVolume[B]](t *testing.T, fit bv.Fitter[B]) {
	t.Helper()
	rnd := rand.New(rand.NewSource(1))
	for trial := 0; trial < 20; trial++ {
		m1 := soupModel(t, rnd, fit, 25)
		m2 := soupModel(t, rnd, fit, 25)
		tf1 := randomPose(rnd, 1)
		tf2 := randomPose(rnd, 2.5)

		touching, costs := bruteForceCollide(m1, tf1, m2, tf2, 4)

		req := NewCollisionRequest()
		req.NumMaxContacts = m1.NumTriangles() * m2.NumTriangles()
		req.EnableCost = true
		req.NumMaxCostSources = 4
		result, _ := Collide(m1, tf1, m2, tf2, req)

		test.That(t, result.IsCollision(), test.ShouldEqual, len(touching) > 0)
		test.That(t, result.NumContacts(), test.ShouldEqual, len(touching))
		for _, c := range result.Contacts() {
			test.That(t, touching[[2]int{c.B1, c.B2}], test.ShouldBeTrue)
		}
		test.That(t, cmp.Diff(costs.CostSources(), result.CostSources()), test.ShouldBeEmpty)

		// a single requested contact is found whenever any exists
		first, _ := Collide(m1, tf1, m2, tf2, nil)
		test.That(t, first.IsCollision(), test.ShouldEqual, len(touching) > 0)
		test.That(t, first.NumContacts(), test.ShouldBeLessThanOrEqualTo, 1)
	}
}

func checkDistanceMatchesBruteForce[B bv.BoundingVolume[B]](t *testing.T, fit bv.Fitter[B]) {
	t.Helper()
	rnd := rand.New(rand.NewSource(2))
	for trial := 0; trial < 20; trial++ {
		m1 := soupModel(t, rnd, fit, 20)
		m2 := soupModel(t, rnd, fit, 20)
		tf1 := randomPose(rnd, 1)
		tf2 := randomPose(rnd, 6)
		want := bruteForceDistance(m1, tf1, m2, tf2)

		req := NewDistanceRequest()
		req.EnableNearestPoints = true
		result, _ := Distance(m1, tf1, m2, tf2, req)
		test.That(t, result.MinDistance, test.ShouldAlmostEqual, want, 1e-9)
		gap := result.NearestPoints[1].Sub(result.NearestPoints[0]).Norm()
		test.That(t, gap, test.ShouldAlmostEqual, result.MinDistance, 1e-9)
		test.That(t, result.B1, test.ShouldBeBetweenOrEqual, 0, m1.NumTriangles()-1)
		test.That(t, result.B2, test.ShouldBeBetweenOrEqual, 0, m2.NumTriangles()-1)

		// tolerances allow an answer above the minimum, never below it
		req = NewDistanceRequest()
		req.RelErr = 0.2
		req.AbsErr = 0.05
		loose, _ := Distance(m1, tf1, m2, tf2, req)
		test.That(t, loose.MinDistance, test.ShouldBeGreaterThanOrEqualTo, want-1e-12)
		test.That(t, loose.MinDistance, test.ShouldBeLessThanOrEqualTo, want*(1+req.RelErr)+req.AbsErr+1e-12)
		test.That(t, loose.NearestPoints, test.ShouldResemble, [2]r3.Vector{})
	}
}

func TestCollideMatchesBruteForce(t *testing.T) {
	t.Run("AABB", func(t *testing.T) { checkCollideMatchesBruteForce[bv.AABB](t, bv.FitAABB) })
	t.Run("OBB", func(t *testing.T) { checkCollideMatchesBruteForce[bv.OBB](t, bv.FitOBB) })
	t.Run("RSS", func(t *testing.T) { checkCollideMatchesBruteForce[bv.RSS](t, bv.FitRSS) })
}

func TestDistanceMatchesBruteForce(t *testing.T) {
	t.Run("AABB", func(t *testing.T) { checkDistanceMatchesBruteForce[bv.AABB](t, bv.FitAABB) })
	t.Run("OBB", func(t *testing.T) { checkDistanceMatchesBruteForce[bv.OBB](t, bv.FitOBB) })
	t.Run("RSS", func(t *testing.T) { checkDistanceMatchesBruteForce[bv.RSS](t, bv.FitRSS) })
}

func TestCollideBoxes(t *testing.T) {
	m1 := boxModel[bv.OBB](t, bv.FitOBB, r3.Vector{X: 2, Y: 2, Z: 2})
	m2 := boxModel[bv.OBB](t, bv.FitOBB, r3.Vector{X: 2, Y: 2, Z: 2})
	origin := spatialmath.NewZeroPose()

	t.Run("overlapping boxes report contacts in the overlap", func(t *testing.T) {
		req := NewCollisionRequest()
		req.NumMaxContacts = 10
		req.EnableContact = true
		result, _ := Collide(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), req)
		test.That(t, result.IsCollision(), test.ShouldBeTrue)
		test.That(t, result.NumContacts(), test.ShouldEqual, 10)
		overlap := bv.AABB{Min: r3.Vector{X: 0.5, Y: -1, Z: -1}, Max: r3.Vector{X: 1, Y: 1, Z: 1}}
		for _, c := range result.Contacts() {
			test.That(t, c.Normal.Norm(), test.ShouldAlmostEqual, 1.)
			test.That(t, c.PenetrationDepth, test.ShouldBeGreaterThanOrEqualTo, 0.)
			grown := bv.AABB{Min: overlap.Min.Sub(r3.Vector{X: 1e-6, Y: 1e-6, Z: 1e-6}), Max: overlap.Max.Add(r3.Vector{X: 1e-6, Y: 1e-6, Z: 1e-6})}
			test.That(t, grown.Contains(c.Point), test.ShouldBeTrue)
		}
	})

	t.Run("contacts without details only name triangles", func(t *testing.T) {
		result, _ := Collide(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), nil)
		test.That(t, result.NumContacts(), test.ShouldEqual, 1)
		test.That(t, result.Contact(0).ContactPoint, test.ShouldResemble, narrowphase.ContactPoint{})
	})

	t.Run("separated boxes are pruned at the root", func(t *testing.T) {
		req := NewCollisionRequest()
		req.EnableStatistics = true
		req.Clock = clock.NewMock()
		result, stats := Collide(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 10}), req)
		test.That(t, result.IsCollision(), test.ShouldBeFalse)
		test.That(t, stats, test.ShouldResemble, Statistics{NumBVTests: 1})
	})

	t.Run("statistics are zero unless enabled", func(t *testing.T) {
		_, stats := Collide(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), nil)
		test.That(t, stats, test.ShouldResemble, Statistics{})

		req := NewCollisionRequest()
		req.EnableStatistics = true
		_, stats = Collide(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), req)
		test.That(t, stats.NumBVTests, test.ShouldBeGreaterThan, 0)
		test.That(t, stats.NumLeafTests, test.ShouldBeGreaterThan, 0)
	})

	t.Run("cost sources are weighted by both densities", func(t *testing.T) {
		cfg := bvh.NewBuildConfig()
		cfg.CostDensity = 3
		dense, err := bvh.NewModelFromMesh[bv.OBB](spatialmath.NewBoxMesh(origin, r3.Vector{X: 2, Y: 2, Z: 2}), bv.FitOBB, cfg)
		test.That(t, err, test.ShouldBeNil)
		req := NewCollisionRequest()
		req.EnableCost = true
		req.NumMaxCostSources = 5
		result, _ := Collide(m1, origin, dense, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), req)
		test.That(t, result.NumCostSources(), test.ShouldBeBetweenOrEqual, 1, 5)
		// cost ignores the contact limit
		test.That(t, result.NumContacts(), test.ShouldEqual, 1)
		costs := result.CostSources()
		for i, c := range costs {
			test.That(t, c.CostDensity, test.ShouldEqual, 3.)
			if i > 0 {
				test.That(t, c.TotalCost, test.ShouldBeGreaterThanOrEqualTo, costs[i-1].TotalCost)
			}
		}
	})
}

func TestZeroValueCollisionRequest(t *testing.T) {
	m1 := boxModel[bv.OBB](t, bv.FitOBB, r3.Vector{X: 2, Y: 2, Z: 2})
	m2 := boxModel[bv.OBB](t, bv.FitOBB, r3.Vector{X: 2, Y: 2, Z: 2})
	sphere, err := narrowphase.NewSphere(1.5)
	test.That(t, err, test.ShouldBeNil)
	origin := spatialmath.NewZeroPose()
	req := &CollisionRequest{EnableContact: true}

	result, _ := Collide(m1, origin, m2, origin, req)
	test.That(t, result.IsCollision(), test.ShouldBeTrue)
	test.That(t, result.NumContacts(), test.ShouldEqual, 1)

	result, _, err = CollideShape(m1, origin, sphere, origin, req)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.IsCollision(), test.ShouldBeTrue)
	test.That(t, result.NumContacts(), test.ShouldEqual, 1)

	result, _, err = CollideShapes(sphere, origin, sphere, origin, req)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.IsCollision(), test.ShouldBeTrue)
}

func TestDistanceBoxes(t *testing.T) {
	m1 := boxModel[bv.RSS](t, bv.FitRSS, r3.Vector{X: 2, Y: 2, Z: 2})
	m2 := boxModel[bv.RSS](t, bv.FitRSS, r3.Vector{X: 2, Y: 2, Z: 2})
	origin := spatialmath.NewZeroPose()
	req := NewDistanceRequest()
	req.EnableNearestPoints = true

	t.Run("facing boxes", func(t *testing.T) {
		result, _ := Distance(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), req)
		test.That(t, result.MinDistance, test.ShouldAlmostEqual, 1.)
		test.That(t, result.NearestPoints[0].X, test.ShouldAlmostEqual, 1.)
		test.That(t, result.NearestPoints[1].X, test.ShouldAlmostEqual, 2.)
	})

	t.Run("edge facing a face", func(t *testing.T) {
		tf2 := spatialmath.NewPose(r3.Vector{X: 1 + math.Sqrt2 + 0.5}, &spatialmath.R4AA{Theta: math.Pi / 4, RZ: 1})
		result, _ := Distance(m1, origin, m2, tf2, req)
		test.That(t, result.MinDistance, test.ShouldAlmostEqual, 0.5)
	})

	t.Run("overlapping boxes are at zero", func(t *testing.T) {
		result, _ := Distance(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), nil)
		test.That(t, result.MinDistance, test.ShouldAlmostEqual, 0.)
	})

	t.Run("query is logged", func(t *testing.T) {
		logger, logs := logging.NewObservedTestLogger(t)
		logReq := NewDistanceRequest()
		logReq.Logger = logger
		logReq.EnableStatistics = true
		_, stats := Distance(m1, origin, m2, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), logReq)
		entries := logs.FilterMessage("distance query").All()
		test.That(t, len(entries), test.ShouldEqual, 1)
		test.That(t, entries[0].ContextMap()["min_distance"], test.ShouldAlmostEqual, 1.)
		test.That(t, entries[0].ContextMap()["leaf_tests"], test.ShouldEqual, int64(stats.NumLeafTests))
	})
}

type oddConvex struct {
	*narrowphase.Sphere
}

func (oddConvex) Kind() narrowphase.Kind { return narrowphase.Kind(99) }

type oddShape struct{}

func (oddShape) Kind() narrowphase.Kind { return narrowphase.Kind(98) }

func TestCollideShape(t *testing.T) {
	origin := spatialmath.NewZeroPose()
	sphere, err := narrowphase.NewSphere(1)
	test.That(t, err, test.ShouldBeNil)

	families := map[string]func(t *testing.T) (
		func(narrowphase.Shape, spatialmath.Pose, *CollisionRequest) (*CollisionResult, error),
		func(narrowphase.Shape, spatialmath.Pose, *DistanceRequest) (*DistanceResult, error),
	){
		"AABB": shapeQueries[bv.AABB](bv.FitAABB),
		"OBB":  shapeQueries[bv.OBB](bv.FitOBB),
		"RSS":  shapeQueries[bv.RSS](bv.FitRSS),
	}
	for name, family := range families {
		t.Run(name, func(t *testing.T) {
			collide, distance := family(t)

			t.Run("half-space cutting the bottom", func(t *testing.T) {
				req := NewCollisionRequest()
				req.NumMaxContacts = 20
				req.EnableContact = true
				result, err := collide(narrowphase.NewHalfspace(r3.Vector{Z: 1}, -0.5), origin, req)
				test.That(t, err, test.ShouldBeNil)
				// every triangle but the two on top reaches z = -1
				test.That(t, result.NumContacts(), test.ShouldEqual, 10)
				for _, c := range result.Contacts() {
					test.That(t, c.B2, test.ShouldEqual, -1)
					test.That(t, spatialmath.R3VectorAlmostEqual(c.Normal, r3.Vector{Z: -1}, 1e-9), test.ShouldBeTrue)
					test.That(t, c.PenetrationDepth, test.ShouldAlmostEqual, 0.5)
				}
			})

			t.Run("plane through the middle", func(t *testing.T) {
				result, err := collide(narrowphase.NewPlane(r3.Vector{X: 1}, 0.25), origin, nil)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.IsCollision(), test.ShouldBeTrue)
				result, err = collide(narrowphase.NewPlane(r3.Vector{X: 1}, 1.25), origin, nil)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.IsCollision(), test.ShouldBeFalse)
			})

			t.Run("sphere", func(t *testing.T) {
				result, err := collide(sphere, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.5}), nil)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.IsCollision(), test.ShouldBeTrue)
				result, err = collide(sphere, spatialmath.NewPoseFromPoint(r3.Vector{X: 2.5}), nil)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.IsCollision(), test.ShouldBeFalse)
			})

			t.Run("distances", func(t *testing.T) {
				req := NewDistanceRequest()
				req.EnableNearestPoints = true
				result, err := distance(narrowphase.NewHalfspace(r3.Vector{Z: 1}, -3), origin, req)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.MinDistance, test.ShouldAlmostEqual, 2.)
				test.That(t, result.B2, test.ShouldEqual, -1)

				result, err = distance(narrowphase.NewPlane(r3.Vector{Z: 1}, 3), origin, req)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.MinDistance, test.ShouldAlmostEqual, 2.)
				test.That(t, result.NearestPoints[1].Z, test.ShouldAlmostEqual, 3.)

				result, err = distance(sphere, spatialmath.NewPoseFromPoint(r3.Vector{Z: 4}), req)
				test.That(t, err, test.ShouldBeNil)
				test.That(t, result.MinDistance, test.ShouldAlmostEqual, 2., 1e-6)
			})

			t.Run("unsupported shapes fail", func(t *testing.T) {
				_, err := collide(oddShape{}, origin, nil)
				test.That(t, err, test.ShouldNotBeNil)
				_, err = distance(oddShape{}, origin, nil)
				test.That(t, err, test.ShouldNotBeNil)

				_, err = collide(oddConvex{sphere}, origin, nil)
				test.That(t, err, test.ShouldNotBeNil)
				test.That(t, err.Error(), test.ShouldContainSubstring, "not supported")
				_, err = distance(oddConvex{sphere}, origin, nil)
				test.That(t, err, test.ShouldNotBeNil)
			})
		})
	}
}

// shapeQueries binds the shape queries to a unit-half-size box model of one bound family at the origin.
func shapeQueries[B bv.BoundingVolume[B]](fit bv.Fitter[B]) func(t *testing.T) (
	func(narrowphase.Shape, spatialmath.Pose, *CollisionRequest) (*CollisionResult, error),
	func(narrowphase.Shape, spatialmath.Pose, *DistanceRequest) (*DistanceResult, error),
) {
	return func(t *testing.T) (
		func(narrowphase.Shape, spatialmath.Pose, *CollisionRequest) (*CollisionResult, error),
		func(narrowphase.Shape, spatialmath.Pose, *DistanceRequest) (*DistanceResult, error),
	) {
		m := boxModel(t, fit, r3.Vector{X: 2, Y: 2, Z: 2})
		origin := spatialmath.NewZeroPose()
		collide := func(s narrowphase.Shape, pose spatialmath.Pose, req *CollisionRequest) (*CollisionResult, error) {
			result, _, err := CollideShape(m, origin, s, pose, req)
			return result, err
		}
		distance := func(s narrowphase.Shape, pose spatialmath.Pose, req *DistanceRequest) (*DistanceResult, error) {
			result, _, err := DistanceToShape(m, origin, s, pose, req)
			return result, err
		}
		return collide, distance
	}
}

func TestShapeCostSources(t *testing.T) {
	m := boxModel[bv.AABB](t, bv.FitAABB, r3.Vector{X: 2, Y: 2, Z: 2})
	box, err := narrowphase.NewBox(r3.Vector{X: 1, Y: 1, Z: 1})
	test.That(t, err, test.ShouldBeNil)

	req := NewCollisionRequest()
	req.EnableCost = true
	req.NumMaxCostSources = 20
	result, _, err := CollideShape(m, spatialmath.NewZeroPose(), box, spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), req)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.NumCostSources(), test.ShouldBeGreaterThan, 0)
	for _, c := range result.CostSources() {
		// every region lies in the shape's box
		test.That(t, c.AABBMin.X, test.ShouldBeGreaterThanOrEqualTo, 0.5-1e-9)
		test.That(t, c.AABBMax.X, test.ShouldBeLessThanOrEqualTo, 1.5+1e-9)
	}
}

func TestShapePairs(t *testing.T) {
	s1, err := narrowphase.NewSphere(1)
	test.That(t, err, test.ShouldBeNil)
	s2, err := narrowphase.NewSphere(0.5)
	test.That(t, err, test.ShouldBeNil)
	origin := spatialmath.NewZeroPose()

	t.Run("spheres", func(t *testing.T) {
		req := NewCollisionRequest()
		req.EnableContact = true
		req.EnableCost = true
		req.EnableStatistics = true
		result, stats, err := CollideShapes(s1, origin, s2, spatialmath.NewPoseFromPoint(r3.Vector{X: 1.25}), req)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, result.IsCollision(), test.ShouldBeTrue)
		c := result.Contact(0)
		test.That(t, c.B1, test.ShouldEqual, -1)
		test.That(t, c.B2, test.ShouldEqual, -1)
		test.That(t, spatialmath.R3VectorAlmostEqual(c.Normal, r3.Vector{X: 1}, 1e-12), test.ShouldBeTrue)
		test.That(t, c.PenetrationDepth, test.ShouldAlmostEqual, 0.25)
		test.That(t, stats.NumLeafTests, test.ShouldEqual, 1)

		test.That(t, result.NumCostSources(), test.ShouldEqual, 1)
		cost := result.CostSources()[0]
		test.That(t, cost.AABBMin.X, test.ShouldAlmostEqual, 0.75)
		test.That(t, cost.AABBMax.X, test.ShouldAlmostEqual, 1.)

		dist, _, err := DistanceShapes(s1, origin, s2, spatialmath.NewPoseFromPoint(r3.Vector{X: 3}), nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, dist.MinDistance, test.ShouldAlmostEqual, 1.5, 1e-6)
		test.That(t, dist.NearestPoints, test.ShouldResemble, [2]r3.Vector{})
	})

	t.Run("unbounded pairs have no cost", func(t *testing.T) {
		req := NewCollisionRequest()
		req.EnableCost = true
		h1 := narrowphase.NewHalfspace(r3.Vector{Z: 1}, 0)
		h2 := narrowphase.NewHalfspace(r3.Vector{X: 1}, 0)
		result, _, err := CollideShapes(h1, origin, h2, origin, req)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, result.IsCollision(), test.ShouldBeTrue)
		test.That(t, result.NumCostSources(), test.ShouldEqual, 0)
	})

	t.Run("unsupported pair", func(t *testing.T) {
		_, _, err := CollideShapes(oddShape{}, origin, s1, origin, nil)
		test.That(t, err, test.ShouldNotBeNil)
		_, _, err = DistanceShapes(oddShape{}, origin, s1, origin, nil)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
