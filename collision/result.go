package collision

import (
	"cmp"
	"math"

	"github.com/golang/geo/r3"
	"golang.org/x/exp/slices"

	"go.viam.com/proximity/narrowphase"
)

// Contact is one contact between primitive B1 of the first object and primitive B2 of the second.
// Primitive indices are -1 for objects that are single shapes. The embedded contact point is only
// filled in when the request enables contacts.
type Contact struct {
	narrowphase.ContactPoint
	B1, B2 int
}

// CostSource is an axis aligned region where two objects overlap, weighted by the product of
// their cost densities.
type CostSource struct {
	AABBMin     r3.Vector
	AABBMax     r3.Vector
	CostDensity float64
	TotalCost   float64
}

// NewCostSource returns the cost source for the box [aabbMin, aabbMax].
func NewCostSource(aabbMin, aabbMax r3.Vector, costDensity float64) CostSource {
	d := aabbMax.Sub(aabbMin)
	return CostSource{
		AABBMin:     aabbMin,
		AABBMax:     aabbMax,
		CostDensity: costDensity,
		TotalCost:   d.X * d.Y * d.Z * costDensity,
	}
}

func compareCostSources(a, b CostSource) int {
	if c := cmp.Compare(a.TotalCost, b.TotalCost); c != 0 {
		return c
	}
	if c := compareVectors(a.AABBMin, b.AABBMin); c != 0 {
		return c
	}
	if c := compareVectors(a.AABBMax, b.AABBMax); c != 0 {
		return c
	}
	return cmp.Compare(a.CostDensity, b.CostDensity)
}

func compareVectors(a, b r3.Vector) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}

// CollisionResult collects the contacts and cost sources found by a collision query.
// The zero value is an empty result.
type CollisionResult struct {
	contacts []Contact
	// sorted by compareCostSources, no duplicates
	costSources []CostSource
}

// AddContact appends a contact.
func (r *CollisionResult) AddContact(c Contact) {
	r.contacts = append(r.contacts, c)
}

// AddCostSource inserts a cost source, keeping only the maxCostSources cheapest ones.
func (r *CollisionResult) AddCostSource(c CostSource, maxCostSources int) {
	i, found := slices.BinarySearchFunc(r.costSources, c, compareCostSources)
	if !found {
		r.costSources = slices.Insert(r.costSources, i, c)
	}
	for len(r.costSources) > max(maxCostSources, 0) {
		r.costSources = r.costSources[:len(r.costSources)-1]
	}
}

// IsCollision reports whether any contact was found.
func (r *CollisionResult) IsCollision() bool {
	return len(r.contacts) > 0
}

// NumContacts returns the number of contacts.
func (r *CollisionResult) NumContacts() int {
	return len(r.contacts)
}

// NumCostSources returns the number of cost sources.
func (r *CollisionResult) NumCostSources() int {
	return len(r.costSources)
}

// Contact returns contact i. An index out of range returns the last contact, and the zero Contact
// when there are none; check NumContacts first.
func (r *CollisionResult) Contact(i int) Contact {
	if len(r.contacts) == 0 {
		return Contact{}
	}
	if i < 0 || i >= len(r.contacts) {
		return r.contacts[len(r.contacts)-1]
	}
	return r.contacts[i]
}

// Contacts returns a copy of the contacts in insertion order.
func (r *CollisionResult) Contacts() []Contact {
	return slices.Clone(r.contacts)
}

// CostSources returns a copy of the cost sources, cheapest first.
func (r *CollisionResult) CostSources() []CostSource {
	return slices.Clone(r.costSources)
}

// Clear removes all contacts and cost sources.
func (r *CollisionResult) Clear() {
	r.contacts = r.contacts[:0]
	r.costSources = r.costSources[:0]
}

// DistanceResult holds the smallest distance found by a distance query.
type DistanceResult struct {
	MinDistance float64
	// NearestPoints are in the world frame and only set when the request enables them.
	NearestPoints [2]r3.Vector
	// B1 and B2 are the primitives realizing MinDistance, -1 for single shapes.
	B1, B2 int
}

// NewDistanceResult returns a result with no distance recorded yet.
func NewDistanceResult() *DistanceResult {
	return &DistanceResult{MinDistance: math.Inf(1), B1: -1, B2: -1}
}

// Update records the distance if it is smaller than the current one.
func (r *DistanceResult) Update(distance float64, b1, b2 int, p1, p2 r3.Vector) {
	if distance >= r.MinDistance {
		return
	}
	r.MinDistance = distance
	r.B1, r.B2 = b1, b2
	r.NearestPoints = [2]r3.Vector{p1, p2}
}
