package bv

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/spatialmath"
)

// AABB is an axis aligned bounding box.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// FitAABB returns the smallest axis aligned box containing the points.
func FitAABB(pts []r3.Vector) AABB {
	if len(pts) == 0 {
		return AABB{}
	}
	box := AABB{Min: pts[0], Max: pts[0]}
	for _, pt := range pts[1:] {
		box.Min = minVector(box.Min, pt)
		box.Max = maxVector(box.Max, pt)
	}
	return box
}

// Overlap returns true if the boxes touch or intersect.
func (a AABB) Overlap(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Distance returns the exact distance between the two boxes, zero if they overlap.
func (a AABB) Distance(b AABB) float64 {
	gap := func(minA, maxA, minB, maxB float64) float64 {
		switch {
		case maxA < minB:
			return minB - maxA
		case maxB < minA:
			return minA - maxB
		default:
			return 0
		}
	}
	dx := gap(a.Min.X, a.Max.X, b.Min.X, b.Max.X)
	dy := gap(a.Min.Y, a.Max.Y, b.Min.Y, b.Max.Y)
	dz := gap(a.Min.Z, a.Max.Z, b.Min.Z, b.Max.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Size returns the squared length of the diagonal.
func (a AABB) Size() float64 {
	return a.Max.Sub(a.Min).Norm2()
}

// Merge returns the box containing both boxes.
func (a AABB) Merge(b AABB) AABB {
	return AABB{Min: minVector(a.Min, b.Min), Max: maxVector(a.Max, b.Max)}
}

// Center returns the center of the box.
func (a AABB) Center() r3.Vector {
	return a.Min.Add(a.Max).Mul(0.5)
}

// HalfExtents returns half the side lengths of the box.
func (a AABB) HalfExtents() r3.Vector {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// Volume returns the volume of the box.
func (a AABB) Volume() float64 {
	d := a.Max.Sub(a.Min)
	return d.X * d.Y * d.Z
}

// Contains reports whether the point lies in the closed box.
func (a AABB) Contains(pt r3.Vector) bool {
	return pt.X >= a.Min.X && pt.X <= a.Max.X &&
		pt.Y >= a.Min.Y && pt.Y <= a.Max.Y &&
		pt.Z >= a.Min.Z && pt.Z <= a.Max.Z
}

// Intersection returns the overlapping region of the two boxes and whether it is non-empty.
func (a AABB) Intersection(b AABB) (AABB, bool) {
	if !a.Overlap(b) {
		return AABB{}, false
	}
	return AABB{Min: maxVector(a.Min, b.Min), Max: minVector(a.Max, b.Max)}, true
}

// Support returns the maximum of dir·x over the box.
func (a AABB) Support(dir r3.Vector) float64 {
	return math.Max(dir.X*a.Min.X, dir.X*a.Max.X) +
		math.Max(dir.Y*a.Min.Y, dir.Y*a.Max.Y) +
		math.Max(dir.Z*a.Min.Z, dir.Z*a.Max.Z)
}

// Transform returns the axis aligned box enclosing this box after it is moved by the pose.
func (a AABB) Transform(pose spatialmath.Pose) AABB {
	rm := spatialmath.PoseRotationMatrix(pose)
	c := spatialmath.TransformPoint(pose, a.Center())
	e := a.HalfExtents()
	var half [3]float64
	for i := 0; i < 3; i++ {
		row := rm.Row(i)
		half[i] = math.Abs(row.X)*e.X + math.Abs(row.Y)*e.Y + math.Abs(row.Z)*e.Z
	}
	h := r3.Vector{X: half[0], Y: half[1], Z: half[2]}
	return AABB{Min: c.Sub(h), Max: c.Add(h)}
}

// Corners returns the eight vertices of the box.
func (a AABB) Corners() [8]r3.Vector {
	var out [8]r3.Vector
	for i := 0; i < 8; i++ {
		pick := func(bit int, lo, hi float64) float64 {
			if i&bit != 0 {
				return hi
			}
			return lo
		}
		out[i] = r3.Vector{
			X: pick(1, a.Min.X, a.Max.X),
			Y: pick(2, a.Min.Y, a.Max.Y),
			Z: pick(4, a.Min.Z, a.Max.Z),
		}
	}
	return out
}

func minVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

func maxVector(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}
