package narrowphase

import (
	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// Halfspace is the set {x : N·x <= D}.
type Halfspace struct {
	N r3.Vector
	D float64
}

// NewHalfspace creates the half-space n·x <= d. The normal is normalized and d scaled with it; a
// zero normal yields the half-space x <= 0.
func NewHalfspace(n r3.Vector, d float64) *Halfspace {
	n, d = unitNormal(n, d)
	return &Halfspace{N: n, D: d}
}

// Kind returns KindHalfspace.
func (h *Halfspace) Kind() Kind { return KindHalfspace }

// SignedDistance is negative inside the half-space.
func (h *Halfspace) SignedDistance(p r3.Vector) float64 {
	return h.N.Dot(p) - h.D
}

// Distance returns how far p lies outside the half-space, zero for points inside.
func (h *Halfspace) Distance(p r3.Vector) float64 {
	return max(0, h.SignedDistance(p))
}

// Transform returns the half-space moved by pose.
func (h *Halfspace) Transform(pose spatialmath.Pose) *Halfspace {
	n, d := transformPlane(h.N, h.D, pose)
	return &Halfspace{N: n, D: d}
}

// Plane is the set {x : N·x = D}.
type Plane struct {
	N r3.Vector
	D float64
}

// NewPlane creates the plane n·x = d, normalized the same way as NewHalfspace.
func NewPlane(n r3.Vector, d float64) *Plane {
	n, d = unitNormal(n, d)
	return &Plane{N: n, D: d}
}

// Kind returns KindPlane.
func (p *Plane) Kind() Kind { return KindPlane }

// SignedDistance is positive on the side N points to.
func (p *Plane) SignedDistance(pt r3.Vector) float64 {
	return p.N.Dot(pt) - p.D
}

// Distance returns the unsigned distance from pt to the plane.
func (p *Plane) Distance(pt r3.Vector) float64 {
	d := p.SignedDistance(pt)
	if d < 0 {
		return -d
	}
	return d
}

// Transform returns the plane moved by pose.
func (p *Plane) Transform(pose spatialmath.Pose) *Plane {
	n, d := transformPlane(p.N, p.D, pose)
	return &Plane{N: n, D: d}
}

func unitNormal(n r3.Vector, d float64) (r3.Vector, float64) {
	l := n.Norm()
	if l == 0 {
		return r3.Vector{X: 1}, 0
	}
	return n.Mul(1 / l), d / l
}

func transformPlane(n r3.Vector, d float64, pose spatialmath.Pose) (r3.Vector, float64) {
	rn := spatialmath.PoseRotationMatrix(pose).Mul(n)
	return rn, d + rn.Dot(pose.Point())
}
