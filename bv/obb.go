package bv

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// OBB is an oriented bounding box. Axis holds the box's orthonormal local axes and Extent its
// half side lengths along them.
type OBB struct {
	Pos    r3.Vector
	Axis   [3]r3.Vector
	Extent r3.Vector
}

// FitOBB encloses the points in a box aligned with their principal axes.
func FitOBB(pts []r3.Vector) OBB {
	if len(pts) == 0 {
		return OBB{Axis: identityAxes()}
	}
	axes := principalAxes(pts)
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := lo.Mul(-1)
	for _, pt := range pts {
		local := r3.Vector{X: axes[0].Dot(pt), Y: axes[1].Dot(pt), Z: axes[2].Dot(pt)}
		lo = minVector(lo, local)
		hi = maxVector(hi, local)
	}
	mid := lo.Add(hi).Mul(0.5)
	return OBB{
		Pos:    axes[0].Mul(mid.X).Add(axes[1].Mul(mid.Y)).Add(axes[2].Mul(mid.Z)),
		Axis:   axes,
		Extent: hi.Sub(lo).Mul(0.5),
	}
}

// Overlap is the separating axis test over the 15 candidate axes.
func (o OBB) Overlap(other OBB) bool {
	return satMaxGap(o, other) <= 0
}

// Distance returns the largest separation found along the candidate axes. This is exact for
// face separated boxes and a lower bound otherwise.
func (o OBB) Distance(other OBB) float64 {
	return math.Max(0, satMaxGap(o, other))
}

// Size returns the squared norm of the half extents.
func (o OBB) Size() float64 {
	return o.Extent.Norm2()
}

// Merge fits a new box around the corners of both boxes.
func (o OBB) Merge(other OBB) OBB {
	a, b := o.Corners(), other.Corners()
	return FitOBB(append(a[:], b[:]...))
}

// Center returns the center of the box.
func (o OBB) Center() r3.Vector {
	return o.Pos
}

// Contains reports whether the point lies in the box, up to a tolerance relative to the
// coordinates involved.
func (o OBB) Contains(pt r3.Vector) bool {
	d := pt.Sub(o.Pos)
	ext := [3]float64{o.Extent.X, o.Extent.Y, o.Extent.Z}
	tol := containsSlack(math.Max(pt.Norm(), o.Pos.Norm()+o.Extent.Norm()))
	for i := 0; i < 3; i++ {
		if math.Abs(o.Axis[i].Dot(d)) > ext[i]+tol {
			return false
		}
	}
	return true
}

// Support returns the maximum of dir·x over the box.
func (o OBB) Support(dir r3.Vector) float64 {
	return o.Pos.Dot(dir) +
		o.Extent.X*math.Abs(o.Axis[0].Dot(dir)) +
		o.Extent.Y*math.Abs(o.Axis[1].Dot(dir)) +
		o.Extent.Z*math.Abs(o.Axis[2].Dot(dir))
}

// Transform returns the box moved by the pose.
func (o OBB) Transform(pose spatialmath.Pose) OBB {
	rm := spatialmath.PoseRotationMatrix(pose)
	return OBB{
		Pos:    spatialmath.TransformPoint(pose, o.Pos),
		Axis:   [3]r3.Vector{rm.Mul(o.Axis[0]), rm.Mul(o.Axis[1]), rm.Mul(o.Axis[2])},
		Extent: o.Extent,
	}
}

// Corners returns the eight vertices of the box.
func (o OBB) Corners() [8]r3.Vector {
	var out [8]r3.Vector
	ex := o.Axis[0].Mul(o.Extent.X)
	ey := o.Axis[1].Mul(o.Extent.Y)
	ez := o.Axis[2].Mul(o.Extent.Z)
	for i := 0; i < 8; i++ {
		pt := o.Pos
		for bit, e := range [3]r3.Vector{ex, ey, ez} {
			if i&(1<<bit) != 0 {
				pt = pt.Add(e)
			} else {
				pt = pt.Sub(e)
			}
		}
		out[i] = pt
	}
	return out
}

// satMaxGap computes the maximum separation gap across all 15 separating axis candidates for two
// oriented boxes using Ericson's precomputed R-matrix formulation ("Real-Time Collision Detection"
// Ch. 4.4). A positive result means the boxes are separated by at least that distance; otherwise
// they overlap.
func satMaxGap(a, b OBB) float64 {
	const eps = 1e-10

	centerDist := b.Pos.Sub(a.Pos)
	hA := [3]float64{a.Extent.X, a.Extent.Y, a.Extent.Z}
	hB := [3]float64{b.Extent.X, b.Extent.Y, b.Extent.Z}

	// t is the center distance in a's frame, r the rotation of b relative to a.
	var t [3]float64
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		t[i] = a.Axis[i].Dot(centerDist)
		for j := 0; j < 3; j++ {
			r[i][j] = a.Axis[i].Dot(b.Axis[j])
			// epsilon prevents issues with near-parallel edges
			absR[i][j] = math.Abs(r[i][j]) + eps
		}
	}

	best := math.Inf(-1)

	// face axes of a
	for i := 0; i < 3; i++ {
		best = math.Max(best, math.Abs(t[i])-hA[i]-(hB[0]*absR[i][0]+hB[1]*absR[i][1]+hB[2]*absR[i][2]))
	}
	// face axes of b
	for j := 0; j < 3; j++ {
		tb := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		best = math.Max(best, math.Abs(tb)-hB[j]-(hA[0]*absR[0][j]+hA[1]*absR[1][j]+hA[2]*absR[2][j]))
	}
	// edge axes a_i x b_j, normalized by sqrt(1 - r_ij^2). Near-parallel edges are covered by
	// the face axes.
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			l2 := 1 - r[i][j]*r[i][j]
			if l2 <= eps {
				continue
			}
			raw := math.Abs(t[i2]*r[i1][j]-t[i1]*r[i2][j]) -
				(hA[i1]*absR[i2][j] + hA[i2]*absR[i1][j]) -
				(hB[j1]*absR[i][j2] + hB[j2]*absR[i][j1])
			best = math.Max(best, raw/math.Sqrt(l2))
		}
	}
	return best
}
