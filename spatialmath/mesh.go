package spatialmath

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ordered list of unit box vertices.
var boxVertices = [8]r3.Vector{
	{1, 1, 1},
	{1, 1, -1},
	{1, -1, 1},
	{1, -1, -1},
	{-1, 1, 1},
	{-1, 1, -1},
	{-1, -1, 1},
	{-1, -1, -1},
}

// The sets of indices of the box vertices that tile the box exterior.
var boxTriangles = [12][3]int{
	{0, 1, 3},
	{0, 2, 3},
	{0, 1, 5},
	{0, 4, 5},
	{0, 2, 6},
	{0, 4, 6},
	{7, 1, 3},
	{7, 2, 3},
	{7, 1, 5},
	{7, 4, 5},
	{7, 2, 6},
	{7, 4, 6},
}

// Mesh is a set of triangles expressed in the frame of its pose.
type Mesh struct {
	pose      Pose
	triangles []*Triangle
}

// NewMesh creates a mesh from triangles given in the mesh frame.
func NewMesh(pose Pose, triangles []*Triangle) *Mesh {
	return &Mesh{
		pose:      pose,
		triangles: triangles,
	}
}

// NewMeshFromIndexed creates a mesh from a vertex list and triangles indexing into it.
func NewMeshFromIndexed(pose Pose, vertices []r3.Vector, indices [][3]int) (*Mesh, error) {
	triangles := make([]*Triangle, 0, len(indices))
	for i, tri := range indices {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, errors.Errorf("triangle %d references vertex %d, mesh has %d vertices", i, idx, len(vertices))
			}
		}
		triangles = append(triangles, NewTriangle(vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]))
	}
	return NewMesh(pose, triangles), nil
}

// NewBoxMesh returns a 12-triangle mesh of a box with the given full side lengths, 2 right
// triangles for each face.
func NewBoxMesh(pose Pose, dims r3.Vector) *Mesh {
	half := dims.Mul(0.5)
	verts := make([]r3.Vector, 0, len(boxVertices))
	for _, vert := range boxVertices {
		verts = append(verts, r3.Vector{X: vert.X * half.X, Y: vert.Y * half.Y, Z: vert.Z * half.Z})
	}
	triangles := make([]*Triangle, 0, len(boxTriangles))
	for _, tri := range boxTriangles {
		triangles = append(triangles, NewTriangle(verts[tri[0]], verts[tri[1]], verts[tri[2]]))
	}
	return NewMesh(pose, triangles)
}

// Pose returns the pose of the mesh.
func (m *Mesh) Pose() Pose {
	return m.pose
}

// Triangles returns the triangles of the mesh in the mesh frame.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Transform premultiplies the mesh pose by the given pose.
func (m *Mesh) Transform(pose Pose) *Mesh {
	// Triangle points are in frame of mesh, like the corners of a box, so no need to transform them
	return &Mesh{
		pose:      Compose(pose, m.pose),
		triangles: m.triangles,
	}
}
