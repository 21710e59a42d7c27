// Package narrowphase contains the primitive shapes and the exact intersection and distance tests
// between them.
package narrowphase

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/proximity/utils"
)

// Kind identifies a shape type.
type Kind int

// The shape kinds.
const (
	KindSphere Kind = iota
	KindEllipsoid
	KindBox
	KindCapsule
	KindCylinder
	KindCone
	KindConvex
	KindTriangle
	KindHalfspace
	KindPlane
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindEllipsoid:
		return "ellipsoid"
	case KindBox:
		return "box"
	case KindCapsule:
		return "capsule"
	case KindCylinder:
		return "cylinder"
	case KindCone:
		return "cone"
	case KindConvex:
		return "convex"
	case KindTriangle:
		return "triangle"
	case KindHalfspace:
		return "halfspace"
	case KindPlane:
		return "plane"
	default:
		return "unknown"
	}
}

// Shape is any primitive a narrow phase test can take. Shapes are described in their own local
// frame and placed by a pose at query time.
type Shape interface {
	Kind() Kind
}

// ConvexShape is a bounded convex shape.
type ConvexShape interface {
	Shape
	// Support returns a point of the shape, in its local frame, maximizing dir·x.
	Support(dir r3.Vector) r3.Vector
}

// Sphere is centered at the origin.
type Sphere struct {
	Radius float64
}

// NewSphere creates a sphere with the given radius.
func NewSphere(radius float64) (*Sphere, error) {
	s := &Sphere{Radius: radius}
	if radius <= 0 {
		return nil, newBadGeometryDimensionsError(s)
	}
	return s, nil
}

// Kind returns KindSphere.
func (s *Sphere) Kind() Kind { return KindSphere }

// Support returns the surface point in the direction dir.
func (s *Sphere) Support(dir r3.Vector) r3.Vector {
	n := dir.Norm()
	if n == 0 {
		return r3.Vector{X: s.Radius}
	}
	return dir.Mul(s.Radius / n)
}

// Ellipsoid is centered at the origin with semi-axes along the local axes.
type Ellipsoid struct {
	Radii r3.Vector
}

// NewEllipsoid creates an ellipsoid with the given semi-axis lengths.
func NewEllipsoid(radii r3.Vector) (*Ellipsoid, error) {
	e := &Ellipsoid{Radii: radii}
	if radii.X <= 0 || radii.Y <= 0 || radii.Z <= 0 {
		return nil, newBadGeometryDimensionsError(e)
	}
	return e, nil
}

// Kind returns KindEllipsoid.
func (e *Ellipsoid) Kind() Kind { return KindEllipsoid }

// Support returns the surface point whose normal is dir.
func (e *Ellipsoid) Support(dir r3.Vector) r3.Vector {
	r2 := r3.Vector{X: e.Radii.X * e.Radii.X, Y: e.Radii.Y * e.Radii.Y, Z: e.Radii.Z * e.Radii.Z}
	scaled := r3.Vector{X: r2.X * dir.X, Y: r2.Y * dir.Y, Z: r2.Z * dir.Z}
	c := math.Sqrt(scaled.Dot(dir))
	if c == 0 {
		return r3.Vector{X: e.Radii.X}
	}
	return scaled.Mul(1 / c)
}

// Box is centered at the origin. Side holds the full side lengths.
type Box struct {
	Side r3.Vector
}

// NewBox creates a box with the given full side lengths.
func NewBox(side r3.Vector) (*Box, error) {
	b := &Box{Side: side}
	if side.X <= 0 || side.Y <= 0 || side.Z <= 0 {
		return nil, newBadGeometryDimensionsError(b)
	}
	return b, nil
}

// Kind returns KindBox.
func (b *Box) Kind() Kind { return KindBox }

// Support returns the vertex farthest in the direction dir.
func (b *Box) Support(dir r3.Vector) r3.Vector {
	half := b.Side.Mul(0.5)
	return r3.Vector{X: utils.SignOrOne(dir.X) * half.X, Y: utils.SignOrOne(dir.Y) * half.Y, Z: utils.SignOrOne(dir.Z) * half.Z}
}

// Capsule is a segment of length Lz along the local z axis, centered at the origin, swept by a
// sphere of the given radius.
type Capsule struct {
	Radius float64
	Lz     float64
}

// NewCapsule creates a capsule. lz is the length of the inner segment.
func NewCapsule(radius, lz float64) (*Capsule, error) {
	c := &Capsule{Radius: radius, Lz: lz}
	if radius <= 0 || lz < 0 {
		return nil, newBadGeometryDimensionsError(c)
	}
	return c, nil
}

// Kind returns KindCapsule.
func (c *Capsule) Kind() Kind { return KindCapsule }

// Support returns the surface point farthest in the direction dir.
func (c *Capsule) Support(dir r3.Vector) r3.Vector {
	s := (&Sphere{Radius: c.Radius}).Support(dir)
	s.Z += utils.SignOrOne(dir.Z) * c.Lz / 2
	return s
}

// Cylinder has its axis along the local z axis, centered at the origin.
type Cylinder struct {
	Radius float64
	Lz     float64
}

// NewCylinder creates a cylinder with the given radius and height.
func NewCylinder(radius, lz float64) (*Cylinder, error) {
	c := &Cylinder{Radius: radius, Lz: lz}
	if radius <= 0 || lz <= 0 {
		return nil, newBadGeometryDimensionsError(c)
	}
	return c, nil
}

// Kind returns KindCylinder.
func (c *Cylinder) Kind() Kind { return KindCylinder }

// Support returns the rim point farthest in the direction dir.
func (c *Cylinder) Support(dir r3.Vector) r3.Vector {
	return radial(dir, c.Radius).Add(r3.Vector{Z: utils.SignOrOne(dir.Z) * c.Lz / 2})
}

// Cone has its apex at z = Lz/2 and its base disc at z = -Lz/2.
type Cone struct {
	Radius float64
	Lz     float64
}

// NewCone creates a cone with the given base radius and height.
func NewCone(radius, lz float64) (*Cone, error) {
	c := &Cone{Radius: radius, Lz: lz}
	if radius <= 0 || lz <= 0 {
		return nil, newBadGeometryDimensionsError(c)
	}
	return c, nil
}

// Kind returns KindCone.
func (c *Cone) Kind() Kind { return KindCone }

// Support returns the apex or the base rim point, whichever is farther along dir.
func (c *Cone) Support(dir r3.Vector) r3.Vector {
	apex := r3.Vector{Z: c.Lz / 2}
	rim := radial(dir, c.Radius).Add(r3.Vector{Z: -c.Lz / 2})
	if apex.Dot(dir) >= rim.Dot(dir) {
		return apex
	}
	return rim
}

// Convex is the convex hull of its vertices.
type Convex struct {
	Vertices []r3.Vector
}

// NewConvex creates a convex polytope from its vertices.
func NewConvex(vertices []r3.Vector) (*Convex, error) {
	c := &Convex{Vertices: vertices}
	if len(vertices) == 0 {
		return nil, newBadGeometryDimensionsError(c)
	}
	return c, nil
}

// Kind returns KindConvex.
func (c *Convex) Kind() Kind { return KindConvex }

// Support returns the first vertex maximizing dir·x.
func (c *Convex) Support(dir r3.Vector) r3.Vector {
	return maxVertex(c.Vertices, dir)
}

// Triangle is a single triangle given by its vertices in the local frame.
type Triangle struct {
	P0, P1, P2 r3.Vector
}

// NewTriangle creates a triangle.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{P0: p0, P1: p1, P2: p2}
}

// Kind returns KindTriangle.
func (t *Triangle) Kind() Kind { return KindTriangle }

// Support returns the vertex farthest in the direction dir.
func (t *Triangle) Support(dir r3.Vector) r3.Vector {
	return maxVertex([]r3.Vector{t.P0, t.P1, t.P2}, dir)
}

// Vertices returns the three vertices.
func (t *Triangle) Vertices() [3]r3.Vector {
	return [3]r3.Vector{t.P0, t.P1, t.P2}
}

// radial returns the point at distance r from the z axis in the xy-direction of dir.
func radial(dir r3.Vector, r float64) r3.Vector {
	xy := math.Hypot(dir.X, dir.Y)
	if xy == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: dir.X * r / xy, Y: dir.Y * r / xy}
}

func maxVertex(vertices []r3.Vector, dir r3.Vector) r3.Vector {
	best := vertices[0]
	bestDot := best.Dot(dir)
	for _, v := range vertices[1:] {
		if d := v.Dot(dir); d > bestDot {
			best, bestDot = v, d
		}
	}
	return best
}
