// Package bvh holds triangle models organized as bounding volume hierarchies.
package bvh

import (
	"cmp"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"go.viam.com/proximity/bv"
	"go.viam.com/proximity/spatialmath"
)

// Root is the index of the root node of every model.
const Root = 0

// Node is one node of the hierarchy. A node either has two children or is a leaf owning a
// contiguous run of the model's primitive indices.
type Node[B bv.BoundingVolume[B]] struct {
	Bound B

	left, right         int
	firstPrim, numPrims int
}

// Model is a triangle mesh together with a bounding volume hierarchy over its triangles. It is
// read only once built and may be shared by concurrent queries.
type Model[B bv.BoundingVolume[B]] struct {
	vertices    []r3.Vector
	triangles   [][3]int
	tris        []*spatialmath.Triangle
	nodes       []Node[B]
	primIndices []int
	costDensity float64
	fit         bv.Fitter[B]
}

// NewModel builds a hierarchy over the indexed triangles, enclosing each node's triangles with fit.
func NewModel[B bv.BoundingVolume[B]](
	vertices []r3.Vector,
	triangles [][3]int,
	fit bv.Fitter[B],
	cfg *BuildConfig,
) (*Model[B], error) {
	if cfg == nil {
		cfg = NewBuildConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(triangles) == 0 {
		return nil, errors.New("cannot build a model without triangles")
	}
	tris := make([]*spatialmath.Triangle, 0, len(triangles))
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("triangle %d references vertex %d, model has %d vertices", i, idx, len(vertices))
			}
		}
		tris = append(tris, spatialmath.NewTriangle(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]))
	}

	m := &Model[B]{
		vertices:    vertices,
		triangles:   triangles,
		tris:        tris,
		nodes:       make([]Node[B], 0, 2*len(triangles)-1),
		primIndices: lo.Range(len(triangles)),
		costDensity: cfg.CostDensity,
		fit:         fit,
	}
	b := &builder[B]{
		model:       m,
		fit:         fit,
		maxLeafSize: cfg.MaxLeafSize,
		centroids:   lo.Map(tris, func(t *spatialmath.Triangle, _ int) r3.Vector { return t.Centroid() }),
	}
	b.build(0, len(triangles))

	if cfg.Logger != nil {
		cfg.Logger.Debugw("built bounding volume hierarchy",
			"triangles", len(triangles), "nodes", len(m.nodes), "depth", m.Depth())
	}
	return m, nil
}

// NewModelFromMesh builds a model over the triangles of the mesh, in the mesh frame. Queries
// should be given the mesh pose.
func NewModelFromMesh[B bv.BoundingVolume[B]](mesh *spatialmath.Mesh, fit bv.Fitter[B], cfg *BuildConfig) (*Model[B], error) {
	vertices := lo.FlatMap(mesh.Triangles(), func(t *spatialmath.Triangle, _ int) []r3.Vector {
		return t.Points()
	})
	triangles := lo.Map(mesh.Triangles(), func(_ *spatialmath.Triangle, i int) [3]int {
		return [3]int{3 * i, 3*i + 1, 3*i + 2}
	})
	return NewModel(vertices, triangles, fit, cfg)
}

// NumNodes returns the number of nodes in the hierarchy.
func (m *Model[B]) NumNodes() int {
	return len(m.nodes)
}

// NumTriangles returns the number of triangles in the model.
func (m *Model[B]) NumTriangles() int {
	return len(m.tris)
}

// Bound returns the bound of node i.
func (m *Model[B]) Bound(i int) B {
	return m.nodes[i].Bound
}

// IsLeaf reports whether node i is a leaf.
func (m *Model[B]) IsLeaf(i int) bool {
	return m.nodes[i].left < 0
}

// Left returns the first child of node i.
func (m *Model[B]) Left(i int) int {
	return m.nodes[i].left
}

// Right returns the second child of node i.
func (m *Model[B]) Right(i int) int {
	return m.nodes[i].right
}

// Primitives returns the triangle indices owned by leaf i. The slice must not be modified.
func (m *Model[B]) Primitives(i int) []int {
	n := m.nodes[i]
	return m.primIndices[n.firstPrim : n.firstPrim+n.numPrims]
}

// Triangle returns triangle i in the model frame.
func (m *Model[B]) Triangle(i int) *spatialmath.Triangle {
	return m.tris[i]
}

// TriangleIndices returns the vertex indices of triangle i.
func (m *Model[B]) TriangleIndices(i int) [3]int {
	return m.triangles[i]
}

// Vertices returns the model vertices. The slice must not be modified.
func (m *Model[B]) Vertices() []r3.Vector {
	return m.vertices
}

// CostDensity returns the cost density of the model.
func (m *Model[B]) CostDensity() float64 {
	return m.costDensity
}

// Fit encloses points in a bound of the model's family, using the model's fitter.
func (m *Model[B]) Fit(pts []r3.Vector) B {
	return m.fit(pts)
}

// Depth returns the number of levels of the hierarchy.
func (m *Model[B]) Depth() int {
	var depth func(i int) int
	depth = func(i int) int {
		if m.IsLeaf(i) {
			return 1
		}
		return 1 + max(depth(m.Left(i)), depth(m.Right(i)))
	}
	return depth(Root)
}

type builder[B bv.BoundingVolume[B]] struct {
	model       *Model[B]
	fit         bv.Fitter[B]
	maxLeafSize int
	centroids   []r3.Vector
}

// build creates the node for primitives [start, end) and returns its index. Nodes are split at the
// median centroid along the longest axis of their centroids' bounding box.
func (b *builder[B]) build(start, end int) int {
	m := b.model
	prims := m.primIndices[start:end]
	idx := len(m.nodes)
	m.nodes = append(m.nodes, Node[B]{
		Bound:     b.fit(lo.FlatMap(prims, func(p, _ int) []r3.Vector { return m.tris[p].Points() })),
		left:      -1,
		right:     -1,
		firstPrim: start,
		numPrims:  end - start,
	})
	if end-start <= b.maxLeafSize {
		return idx
	}

	spread := bv.FitAABB(lo.Map(prims, func(p, _ int) r3.Vector { return b.centroids[p] }))
	extent := spread.Max.Sub(spread.Min)
	axis := func(v r3.Vector) float64 { return v.X }
	switch {
	case extent.Y >= extent.X && extent.Y >= extent.Z:
		axis = func(v r3.Vector) float64 { return v.Y }
	case extent.Z >= extent.X && extent.Z >= extent.Y:
		axis = func(v r3.Vector) float64 { return v.Z }
	}
	slices.SortStableFunc(prims, func(p, q int) int {
		return cmp.Compare(axis(b.centroids[p]), axis(b.centroids[q]))
	})

	mid := start + (end-start)/2
	left := b.build(start, mid)
	right := b.build(mid, end)
	m.nodes[idx].left = left
	m.nodes[idx].right = right
	m.nodes[idx].numPrims = 0
	return idx
}
