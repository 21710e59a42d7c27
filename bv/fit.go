package bv

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/proximity/spatialmath"
)

// FitRSS encloses the points in a rectangle swept sphere. One, two, three and six points take
// closed form paths; every other count is fit along the principal axes of the point set.
func FitRSS(pts []r3.Vector) RSS {
	switch len(pts) {
	case 0:
		return RSS{Axis: identityAxes()}
	case 1:
		return RSS{Axis: identityAxes(), To: pts[0]}
	case 2:
		return fitRSS2(pts[0], pts[1])
	case 3:
		return fitRSS3(pts[0], pts[1], pts[2])
	case 6:
		return fitRSS3(pts[0], pts[1], pts[2]).Merge(fitRSS3(pts[3], pts[4], pts[5]))
	default:
		return fitRSSAlong(principalAxes(pts), pts)
	}
}

func fitRSS2(p1, p2 r3.Vector) RSS {
	seg := p1.Sub(p2)
	length := seg.Norm()
	if length == 0 {
		return RSS{Axis: identityAxes(), To: p2}
	}
	a0 := seg.Mul(1 / length)
	a1, a2 := spatialmath.GenerateCoordinateSystem(a0)
	return RSS{Axis: [3]r3.Vector{a0, a1, a2}, To: p2, L: [2]float64{length, 0}}
}

func fitRSS3(p1, p2, p3 r3.Vector) RSS {
	e := [3]r3.Vector{p1.Sub(p2), p2.Sub(p3), p3.Sub(p1)}
	imax := 0
	longest := e[0].Norm2()
	for i := 1; i < 3; i++ {
		if l := e[i].Norm2(); l > longest {
			imax, longest = i, l
		}
	}
	pts := []r3.Vector{p1, p2, p3}
	if longest == 0 {
		return RSS{Axis: identityAxes(), To: p1}
	}
	a0 := e[imax].Normalize()
	normal := e[0].Cross(e[1])
	if normal.Norm2() <= 1e-20*e[0].Norm2()*e[1].Norm2() {
		// collinear points
		a1, a2 := spatialmath.GenerateCoordinateSystem(a0)
		return fitRSSAlong([3]r3.Vector{a0, a1, a2}, pts)
	}
	a1 := normal.Normalize().Cross(a0).Normalize()
	return fitRSSAlong([3]r3.Vector{a0, a1, a0.Cross(a1)}, pts)
}

// fitRSSAlong chooses the radius and rectangle for a fixed frame. The radius is half the spread
// along the normal, which leaves each point a horizontal slack s = sqrt(r^2 - dz^2). The x and y
// ranges are first shrunk by the full slack of every point. A point then left in a corner region
// farther than s from the rectangle is brought back by growing both ranges toward it equally.
func fitRSSAlong(axes [3]r3.Vector, pts []r3.Vector) RSS {
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	zs := make([]float64, len(pts))
	minZ, maxZ := math.Inf(1), math.Inf(-1)
	for i, pt := range pts {
		xs[i], ys[i], zs[i] = axes[0].Dot(pt), axes[1].Dot(pt), axes[2].Dot(pt)
		minZ = math.Min(minZ, zs[i])
		maxZ = math.Max(maxZ, zs[i])
	}
	radius := 0.5 * (maxZ - minZ)
	cz := 0.5 * (maxZ + minZ)

	slack := make([]float64, len(pts))
	loX, hiX := math.Inf(1), math.Inf(-1)
	loY, hiY := math.Inf(1), math.Inf(-1)
	for i := range pts {
		dz := zs[i] - cz
		slack[i] = math.Sqrt(math.Max(0, radius*radius-dz*dz))
		loX = math.Min(loX, xs[i]+slack[i])
		hiX = math.Max(hiX, xs[i]-slack[i])
		loY = math.Min(loY, ys[i]+slack[i])
		hiY = math.Max(hiY, ys[i]-slack[i])
	}
	if loX > hiX {
		loX = 0.5 * (loX + hiX)
		hiX = loX
	}
	if loY > hiY {
		loY = 0.5 * (loY + hiY)
		hiY = loY
	}

	// growing the rectangle never moves it away from points already inside
	for i := range pts {
		dx := math.Max(0, math.Max(xs[i]-hiX, loX-xs[i]))
		dy := math.Max(0, math.Max(ys[i]-hiY, loY-ys[i]))
		if dx*dx+dy*dy <= slack[i]*slack[i] {
			continue
		}
		// smallest t with (dx-t)^2 + (dy-t)^2 = s^2; dx, dy <= s keeps the root real
		t := 0.5 * (dx + dy - math.Sqrt(math.Max(0, 2*slack[i]*slack[i]-(dx-dy)*(dx-dy))))
		if xs[i] > hiX {
			hiX += t
		} else {
			loX -= t
		}
		if ys[i] > hiY {
			hiY += t
		} else {
			loY -= t
		}
	}

	return RSS{
		Axis: axes,
		To:   axes[0].Mul(loX).Add(axes[1].Mul(loY)).Add(axes[2].Mul(cz)),
		L:    [2]float64{hiX - loX, hiY - loY},
		R:    radius,
	}
}

// principalAxes returns a right handed orthonormal frame whose first axis follows the direction
// of largest variance of the points and whose last axis follows the smallest.
func principalAxes(pts []r3.Vector) [3]r3.Vector {
	if len(pts) < 2 {
		return identityAxes()
	}
	data := make([]float64, 0, 3*len(pts))
	for _, pt := range pts {
		data = append(data, pt.X, pt.Y, pt.Z)
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, mat.NewDense(len(pts), 3, data), nil)

	var eig mat.EigenSym
	if ok := eig.Factorize(&cov, true); !ok {
		return identityAxes()
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// eigenvalues come back in ascending order
	col := func(j int) r3.Vector {
		return r3.Vector{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)}
	}
	a0 := col(2).Normalize()
	a1 := col(1)
	a1 = a1.Sub(a0.Mul(a0.Dot(a1))).Normalize()
	if a0.Norm2() == 0 || a1.Norm2() == 0 {
		return identityAxes()
	}
	return [3]r3.Vector{a0, a1, a0.Cross(a1)}
}

func identityAxes() [3]r3.Vector {
	return [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
}
