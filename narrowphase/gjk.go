package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

const (
	gjkMaxIterations = 64
	gjkEpsilon       = 1e-10
)

// convexBody is a convex shape placed in the world.
type convexBody struct {
	shape ConvexShape
	rm    *spatialmath.RotationMatrix
	pos   r3.Vector
}

func newConvexBody(s ConvexShape, tf spatialmath.Pose) convexBody {
	return convexBody{shape: s, rm: spatialmath.PoseRotationMatrix(tf), pos: tf.Point()}
}

// support returns the world frame point of the body farthest along the world direction dir.
func (c convexBody) support(dir r3.Vector) r3.Vector {
	return c.rm.Mul(c.shape.Support(c.rm.TransposeMul(dir))).Add(c.pos)
}

// supportPoint is a vertex of the Minkowski difference A - B along with the points of A and B it
// was built from, so closest points can be recovered from simplex weights.
type supportPoint struct {
	w, a, b r3.Vector
}

// minkowskiSupport returns support_A(d) - support_B(-d), a support point of A - B in direction d.
func minkowskiSupport(a, b convexBody, d r3.Vector) supportPoint {
	pa := a.support(d)
	pb := b.support(d.Mul(-1))
	return supportPoint{w: pa.Sub(pb), a: pa, b: pb}
}

type gjkResult struct {
	intersect bool
	distance  float64
	// closest points on each body, valid when intersect is false
	pointA, pointB r3.Vector
	simplex        []supportPoint
}

// gjk runs the Gilbert-Johnson-Keerthi distance algorithm on two convex bodies.
func gjk(a, b convexBody) gjkResult {
	d := b.pos.Sub(a.pos)
	if d.Norm2() < gjkEpsilon {
		d = r3.Vector{X: 1}
	}

	w := minkowskiSupport(a, b, d)
	simplex := []supportPoint{w}
	weights := []float64{1}
	v := w.w

	for iter := 0; iter < gjkMaxIterations; iter++ {
		vv := v.Norm2()
		if vv < 1e-20 {
			return gjkResult{intersect: true, simplex: simplex}
		}

		w = minkowskiSupport(a, b, v.Mul(-1))
		if vv-v.Dot(w.w) <= gjkEpsilon*vv {
			break
		}

		simplex = append(simplex, w)
		switch len(simplex) {
		case 2:
			v, simplex, weights = gjkClosestOnSegment(simplex[0], simplex[1])
		case 3:
			v, simplex, weights = gjkClosestOnTriangle(simplex[0], simplex[1], simplex[2])
		case 4:
			v, simplex, weights = gjkClosestOnTetrahedron(simplex)
			if weights == nil {
				return gjkResult{intersect: true, simplex: simplex}
			}
		}
	}

	var pa, pb r3.Vector
	for i, s := range simplex {
		pa = pa.Add(s.a.Mul(weights[i]))
		pb = pb.Add(s.b.Mul(weights[i]))
	}
	return gjkResult{distance: v.Norm(), pointA: pa, pointB: pb, simplex: simplex}
}

// gjkClosestOnSegment returns the closest point on segment [a,b] to the origin,
// along with the reduced simplex and the barycentric weights of its vertices.
func gjkClosestOnSegment(a, b supportPoint) (r3.Vector, []supportPoint, []float64) {
	ab := b.w.Sub(a.w)
	denom := ab.Norm2()
	if denom < 1e-30 {
		return a.w, []supportPoint{a}, []float64{1}
	}
	t := a.w.Mul(-1).Dot(ab) / denom
	if t <= 0 {
		return a.w, []supportPoint{a}, []float64{1}
	}
	if t >= 1 {
		return b.w, []supportPoint{b}, []float64{1}
	}
	return a.w.Add(ab.Mul(t)), []supportPoint{a, b}, []float64{1 - t, t}
}

// gjkClosestOnTriangle returns the closest point on triangle [a,b,c] to the origin,
// along with the reduced simplex and its weights, using Ericson's Voronoi region method.
func gjkClosestOnTriangle(a, b, c supportPoint) (r3.Vector, []supportPoint, []float64) {
	ab := b.w.Sub(a.w)
	ac := c.w.Sub(a.w)
	ao := a.w.Mul(-1)

	d1 := ab.Dot(ao)
	d2 := ac.Dot(ao)
	if d1 <= 0 && d2 <= 0 {
		return a.w, []supportPoint{a}, []float64{1}
	}

	bo := b.w.Mul(-1)
	d3 := ab.Dot(bo)
	d4 := ac.Dot(bo)
	if d3 >= 0 && d4 <= d3 {
		return b.w, []supportPoint{b}, []float64{1}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.w.Add(ab.Mul(v)), []supportPoint{a, b}, []float64{1 - v, v}
	}

	co := c.w.Mul(-1)
	d5 := ab.Dot(co)
	d6 := ac.Dot(co)
	if d6 >= 0 && d5 <= d6 {
		return c.w, []supportPoint{c}, []float64{1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.w.Add(ac.Mul(w)), []supportPoint{a, c}, []float64{1 - w, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.w.Add(c.w.Sub(b.w).Mul(w)), []supportPoint{b, c}, []float64{1 - w, w}
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.w.Add(ab.Mul(v)).Add(ac.Mul(w)), []supportPoint{a, b, c}, []float64{1 - v - w, v, w}
}

// gjkOriginInTetrahedron checks whether the origin is on the interior side of every face.
func gjkOriginInTetrahedron(pts []supportPoint) bool {
	type face struct{ v0, v1, v2, opp int }
	faces := [4]face{
		{0, 1, 2, 3},
		{0, 1, 3, 2},
		{0, 2, 3, 1},
		{1, 2, 3, 0},
	}
	for _, f := range faces {
		p0, p1, p2 := pts[f.v0].w, pts[f.v1].w, pts[f.v2].w
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		dOrigin := normal.Dot(p0.Mul(-1))
		dOpp := normal.Dot(pts[f.opp].w.Sub(p0))
		if dOrigin*dOpp < 0 {
			return false
		}
	}
	return true
}

// gjkClosestOnTetrahedron returns the closest point on the tetrahedron to the origin. If the
// origin is inside, it returns the full simplex and nil weights.
func gjkClosestOnTetrahedron(pts []supportPoint) (r3.Vector, []supportPoint, []float64) {
	if gjkOriginInTetrahedron(pts) {
		return r3.Vector{}, pts, nil
	}
	faces := [4][3]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	bestDist := math.Inf(1)
	var bestV r3.Vector
	var bestS []supportPoint
	var bestW []float64

	for _, f := range faces {
		v, s, w := gjkClosestOnTriangle(pts[f[0]], pts[f[1]], pts[f[2]])
		if d := v.Norm2(); d < bestDist {
			bestDist = d
			bestV = v
			bestS = s
			bestW = w
		}
	}
	return bestV, bestS, bestW
}

// completeSimplex grows a simplex containing the origin into a tetrahedron by adding support
// points along directions that leave its affine hull. It stops early for flat Minkowski
// differences, which have no such direction.
func completeSimplex(a, b convexBody, simplex []supportPoint) []supportPoint {
	simplex = append([]supportPoint(nil), simplex...)
	axes := []r3.Vector{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, {Y: -1}, {Z: -1}}
	for len(simplex) < 4 {
		var dirs []r3.Vector
		switch len(simplex) {
		case 1:
			dirs = axes
		case 2:
			u, v := spatialmath.GenerateCoordinateSystem(simplex[1].w.Sub(simplex[0].w).Normalize())
			dirs = []r3.Vector{u, v, u.Mul(-1), v.Mul(-1)}
		case 3:
			n := simplex[1].w.Sub(simplex[0].w).Cross(simplex[2].w.Sub(simplex[0].w))
			dirs = []r3.Vector{n, n.Mul(-1)}
		}
		grown := false
		for _, d := range dirs {
			p := minkowskiSupport(a, b, d)
			if offAffineHull(simplex, p.w) {
				simplex = append(simplex, p)
				grown = true
				break
			}
		}
		if !grown {
			return simplex
		}
	}
	return simplex
}

func offAffineHull(simplex []supportPoint, p r3.Vector) bool {
	const tol = 1e-9
	switch len(simplex) {
	case 1:
		return p.Sub(simplex[0].w).Norm() > tol
	case 2:
		line := simplex[1].w.Sub(simplex[0].w).Normalize()
		return p.Sub(simplex[0].w).Cross(line).Norm() > tol
	default:
		n := simplex[1].w.Sub(simplex[0].w).Cross(simplex[2].w.Sub(simplex[0].w)).Normalize()
		return math.Abs(n.Dot(p.Sub(simplex[0].w))) > tol
	}
}
