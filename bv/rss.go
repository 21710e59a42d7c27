package bv

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
	"go.viam.com/proximity/utils"
)

const containsTolerance = 1e-9

// containsSlack is the Contains tolerance for coordinates of the given magnitude.
func containsSlack(scale float64) float64 {
	return containsTolerance * math.Max(1, scale)
}

// RSS is a rectangle swept sphere: the set of points within R of the rectangle spanned from To
// by L[0] along Axis[0] and L[1] along Axis[1]. Axis[2] is the rectangle normal.
type RSS struct {
	Axis [3]r3.Vector
	To   r3.Vector
	L    [2]float64
	R    float64
}

// Size returns the rectangle diagonal plus the sphere diameter.
func (r RSS) Size() float64 {
	return math.Sqrt(r.L[0]*r.L[0]+r.L[1]*r.L[1]) + 2*r.R
}

// Center returns the center of the rectangle.
func (r RSS) Center() r3.Vector {
	return r.To.Add(r.Axis[0].Mul(0.5 * r.L[0])).Add(r.Axis[1].Mul(0.5 * r.L[1]))
}

// Corners returns the four rectangle vertices.
func (r RSS) Corners() [4]r3.Vector {
	e0 := r.Axis[0].Mul(r.L[0])
	e1 := r.Axis[1].Mul(r.L[1])
	return [4]r3.Vector{r.To, r.To.Add(e0), r.To.Add(e0).Add(e1), r.To.Add(e1)}
}

// Contains reports whether the point lies within R of the rectangle, up to a tolerance relative to
// the coordinates involved.
func (r RSS) Contains(pt r3.Vector) bool {
	scale := math.Max(pt.Norm(), r.To.Norm()+r.Size())
	return r.rectDistanceToPoint(pt) <= r.R+containsSlack(scale)
}

// Support returns the maximum of dir·x over the swept volume.
func (r RSS) Support(dir r3.Vector) float64 {
	return r.To.Dot(dir) +
		math.Max(0, r.L[0]*r.Axis[0].Dot(dir)) +
		math.Max(0, r.L[1]*r.Axis[1].Dot(dir)) +
		r.R*dir.Norm()
}

// Overlap reports whether the swept volumes intersect.
func (r RSS) Overlap(other RSS) bool {
	return r.rectDistance(other) <= r.R+other.R
}

// Distance returns the distance between the swept volumes, zero if they overlap.
func (r RSS) Distance(other RSS) float64 {
	return math.Max(0, r.rectDistance(other)-r.R-other.R)
}

// Merge fits a rectangle through both rectangles' corners and grows its radius by the larger of
// the two input radii, which keeps both volumes inside.
func (r RSS) Merge(other RSS) RSS {
	a, b := r.Corners(), other.Corners()
	merged := FitRSS(append(a[:], b[:]...))
	merged.R += math.Max(r.R, other.R)
	return merged
}

// Transform returns the volume moved by the pose.
func (r RSS) Transform(pose spatialmath.Pose) RSS {
	rm := spatialmath.PoseRotationMatrix(pose)
	return RSS{
		Axis: [3]r3.Vector{rm.Mul(r.Axis[0]), rm.Mul(r.Axis[1]), rm.Mul(r.Axis[2])},
		To:   spatialmath.TransformPoint(pose, r.To),
		L:    r.L,
		R:    r.R,
	}
}

// rectLocal returns the point in rectangle coordinates.
func (r RSS) rectLocal(pt r3.Vector) (float64, float64, float64) {
	d := pt.Sub(r.To)
	return r.Axis[0].Dot(d), r.Axis[1].Dot(d), r.Axis[2].Dot(d)
}

func (r RSS) rectDistanceToPoint(pt r3.Vector) float64 {
	x, y, z := r.rectLocal(pt)
	dx := x - utils.Clamp(x, 0, r.L[0])
	dy := y - utils.Clamp(y, 0, r.L[1])
	return math.Sqrt(dx*dx + dy*dy + z*z)
}

func (r RSS) edges() [4][2]r3.Vector {
	c := r.Corners()
	return [4][2]r3.Vector{{c[0], c[1]}, {c[1], c[2]}, {c[2], c[3]}, {c[3], c[0]}}
}

// rectDistance is the distance between the two rectangles. When the rectangles are apart, the
// closest pair always has a point on the boundary of one of them, so checking every edge of
// each against the other rectangle is exact.
func (r RSS) rectDistance(other RSS) float64 {
	best := math.Inf(1)
	for _, e := range r.edges() {
		best = math.Min(best, other.segmentDistance(e[0], e[1]))
		if best == 0 {
			return 0
		}
	}
	for _, e := range other.edges() {
		best = math.Min(best, r.segmentDistance(e[0], e[1]))
		if best == 0 {
			return 0
		}
	}
	return best
}

// segmentDistance is the distance between the segment [p, q] and the rectangle.
func (r RSS) segmentDistance(p, q r3.Vector) float64 {
	_, _, hp := r.rectLocal(p)
	_, _, hq := r.rectLocal(q)
	if hp != hq && hp*hq <= 0 {
		cross := p.Add(q.Sub(p).Mul(hp / (hp - hq)))
		x, y, _ := r.rectLocal(cross)
		if x >= 0 && x <= r.L[0] && y >= 0 && y <= r.L[1] {
			return 0
		}
	}
	best := math.Min(r.rectDistanceToPoint(p), r.rectDistanceToPoint(q))
	for _, e := range r.edges() {
		best = math.Min(best, spatialmath.SegmentDistanceToSegment(p, q, e[0], e[1]))
	}
	return best
}
