package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func makeSimpleTriangleMesh() *Mesh {
	p0 := r3.Vector{0, 0, 0}
	p1 := r3.Vector{1, 0, 0}
	p2 := r3.Vector{0, 1, 0}
	tri := NewTriangle(p0, p1, p2)
	return NewMesh(NewZeroPose(), []*Triangle{tri})
}

func TestNewMesh(t *testing.T) {
	mesh := makeSimpleTriangleMesh()
	test.That(t, len(mesh.Triangles()), test.ShouldEqual, 1)
	test.That(t, PoseAlmostEqual(mesh.Pose(), NewZeroPose()), test.ShouldBeTrue)

	moved := mesh.Transform(NewPoseFromPoint(r3.Vector{0, 0, 5}))
	test.That(t, moved.Pose().Point(), test.ShouldResemble, r3.Vector{0, 0, 5})
	// triangles stay in the mesh frame
	test.That(t, moved.Triangles()[0], test.ShouldEqual, mesh.Triangles()[0])
}

func TestNewMeshFromIndexed(t *testing.T) {
	verts := []r3.Vector{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	mesh, err := NewMeshFromIndexed(NewZeroPose(), verts, [][3]int{{0, 1, 2}, {0, 1, 3}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(mesh.Triangles()), test.ShouldEqual, 2)
	test.That(t, mesh.Triangles()[1].Points(), test.ShouldResemble, []r3.Vector{verts[0], verts[1], verts[3]})

	_, err = NewMeshFromIndexed(NewZeroPose(), verts, [][3]int{{0, 1, 4}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "vertex 4")

	_, err = NewMeshFromIndexed(NewZeroPose(), verts, [][3]int{{-1, 1, 2}})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewBoxMesh(t *testing.T) {
	dims := r3.Vector{2, 4, 6}
	mesh := NewBoxMesh(NewZeroPose(), dims)
	test.That(t, len(mesh.Triangles()), test.ShouldEqual, 12)

	area := 0.
	for _, tri := range mesh.Triangles() {
		area += tri.Area()
		for _, pt := range tri.Points() {
			test.That(t, math.Abs(pt.X), test.ShouldEqual, 1.)
			test.That(t, math.Abs(pt.Y), test.ShouldEqual, 2.)
			test.That(t, math.Abs(pt.Z), test.ShouldEqual, 3.)
		}
	}
	test.That(t, area, test.ShouldAlmostEqual, 2*(2*4+4*6+2*6.))
}
