package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"
)

const (
	epaMaxIterations = 64
	epaTolerance     = 1e-8
)

type epaFace struct {
	v        [3]int
	normal   r3.Vector
	distance float64
}

// newEPAFace builds the face (i, j, k) wound so its normal points away from interior.
func newEPAFace(verts []supportPoint, i, j, k int, interior r3.Vector) (epaFace, bool) {
	a := verts[i].w
	n := verts[j].w.Sub(a).Cross(verts[k].w.Sub(a))
	l := n.Norm()
	if l < 1e-12 {
		return epaFace{}, false
	}
	n = n.Mul(1 / l)
	if n.Dot(a.Sub(interior)) < 0 {
		n = n.Mul(-1)
		j, k = k, j
	}
	return epaFace{v: [3]int{i, j, k}, normal: n, distance: max(0, n.Dot(a))}, true
}

type epaResult struct {
	normal         r3.Vector
	depth          float64
	pointA, pointB r3.Vector
}

// epa runs the expanding polytope algorithm from a GJK simplex enclosing the origin and returns
// the minimum translation along which B must move to separate from A.
func epa(a, b convexBody, simplex []supportPoint) epaResult {
	verts := completeSimplex(a, b, simplex)
	if len(verts) < 4 {
		return epaFallback(a, b)
	}
	var interior r3.Vector
	for _, v := range verts {
		interior = interior.Add(v.w.Mul(0.25))
	}

	faces := make([]epaFace, 0, 16)
	for _, idx := range [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}} {
		f, ok := newEPAFace(verts, idx[0], idx[1], idx[2], interior)
		if !ok {
			return epaFallback(a, b)
		}
		faces = append(faces, f)
	}

	var closest epaFace
	for iter := 0; iter < epaMaxIterations; iter++ {
		closest = faces[0]
		for _, f := range faces[1:] {
			if f.distance < closest.distance {
				closest = f
			}
		}

		p := minkowskiSupport(a, b, closest.normal)
		if p.w.Dot(closest.normal)-closest.distance < epaTolerance {
			break
		}

		verts = append(verts, p)
		idx := len(verts) - 1
		next, horizon := removeVisibleFaces(faces, verts, p.w)
		for _, e := range horizon {
			if f, ok := newEPAFace(verts, e[0], e[1], idx, interior); ok {
				next = append(next, f)
			}
		}
		if len(next) == 0 {
			break
		}
		faces = next
	}
	return epaContact(verts, closest)
}

// removeVisibleFaces drops the faces that p can see and returns the boundary of the hole they
// leave. Edges shared by two visible faces cancel out.
func removeVisibleFaces(faces []epaFace, verts []supportPoint, p r3.Vector) ([]epaFace, [][2]int) {
	kept := make([]epaFace, 0, len(faces)+4)
	var horizon [][2]int
	for _, f := range faces {
		if f.normal.Dot(p.Sub(verts[f.v[0]].w)) <= 0 {
			kept = append(kept, f)
			continue
		}
		for i := 0; i < 3; i++ {
			e := [2]int{f.v[i], f.v[(i+1)%3]}
			found := -1
			for j, h := range horizon {
				if h[0] == e[1] && h[1] == e[0] {
					found = j
					break
				}
			}
			if found >= 0 {
				horizon = append(horizon[:found], horizon[found+1:]...)
			} else {
				horizon = append(horizon, e)
			}
		}
	}
	return kept, horizon
}

// epaContact recovers the witness points from the projection of the origin onto the face.
func epaContact(verts []supportPoint, f epaFace) epaResult {
	a, b, c := verts[f.v[0]], verts[f.v[1]], verts[f.v[2]]
	u, v, w := barycentric(f.normal.Mul(f.distance), a.w, b.w, c.w)
	return epaResult{
		normal: f.normal,
		depth:  f.distance,
		pointA: a.a.Mul(u).Add(b.a.Mul(v)).Add(c.a.Mul(w)),
		pointB: a.b.Mul(u).Add(b.b.Mul(v)).Add(c.b.Mul(w)),
	}
}

// epaFallback handles touching bodies whose Minkowski difference is flat: zero depth along the
// line between the centers.
func epaFallback(a, b convexBody) epaResult {
	n := b.pos.Sub(a.pos)
	if n.Norm2() < gjkEpsilon {
		n = r3.Vector{Z: 1}
	}
	n = n.Normalize()
	return epaResult{normal: n, pointA: a.support(n), pointB: b.support(n.Mul(-1))}
}

func barycentric(p, a, b, c r3.Vector) (float64, float64, float64) {
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)
	d00, d01, d11 := v0.Dot(v0), v0.Dot(v1), v1.Dot(v1)
	d20, d21 := v2.Dot(v0), v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-20 {
		return 1, 0, 0
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return 1 - v - w, v, w
}
