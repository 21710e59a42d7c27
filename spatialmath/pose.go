package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a 6dof pose, position and orientation, with respect to the origin.
// The Point() method returns the position in (x,y,z) and Orientation() returns the orientation.
// Applying a pose to a point rotates it by the orientation, then translates it by the position.
type Pose interface {
	Point() r3.Vector
	Orientation() Orientation
}

// pose caches its rotation matrix since every point transform needs it.
type pose struct {
	point       r3.Vector
	orientation quat.Number
	rm          *RotationMatrix
}

func newPose(pt r3.Vector, q quat.Number) *pose {
	q = Normalize(q)
	return &pose{point: pt, orientation: q, rm: QuatToRotationMatrix(q)}
}

// NewZeroPose returns a pose at (0,0,0) with same orientation as whatever frame it is placed in.
func NewZeroPose() Pose {
	return newPose(r3.Vector{}, quat.Number{Real: 1})
}

// NewPose takes in a position and orientation and returns a Pose.
func NewPose(pt r3.Vector, o Orientation) Pose {
	if o == nil {
		return NewPoseFromPoint(pt)
	}
	return newPose(pt, o.Quaternion())
}

// NewPoseFromPoint takes in a cartesian (x,y,z) and stores it as a vector.
// It will have the same orientation as the frame it is in.
func NewPoseFromPoint(pt r3.Vector) Pose {
	return newPose(pt, quat.Number{Real: 1})
}

// NewPoseFromOrientation takes in an orientation and returns a pose at the origin.
func NewPoseFromOrientation(o Orientation) Pose {
	return NewPose(r3.Vector{}, o)
}

func (p *pose) Point() r3.Vector {
	return p.point
}

func (p *pose) Orientation() Orientation {
	q := quaternion(p.orientation)
	return &q
}

func (p *pose) String() string {
	aa := QuatToR4AA(p.orientation)
	return fmt.Sprintf("{X:%.3f Y:%.3f Z:%.3f Theta:%.3f RX:%.3f RY:%.3f RZ:%.3f}",
		p.point.X, p.point.Y, p.point.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)
}

// PoseRotationMatrix returns the rotation matrix of the pose, reusing the cached matrix of poses
// created by this package.
func PoseRotationMatrix(p Pose) *RotationMatrix {
	if cached, ok := p.(*pose); ok {
		return cached.rm
	}
	return p.Orientation().RotationMatrix()
}

// Compose returns a Pose which is the result of applying b in the frame of a.
func Compose(a, b Pose) Pose {
	pt := a.Point().Add(PoseRotationMatrix(a).Mul(b.Point()))
	return newPose(pt, quat.Mul(a.Orientation().Quaternion(), b.Orientation().Quaternion()))
}

// PoseInverse returns a Pose that, when composed with the given one, yields the zero pose.
func PoseInverse(p Pose) Pose {
	inv := quat.Conj(p.Orientation().Quaternion())
	pt := PoseRotationMatrix(p).TransposeMul(p.Point()).Mul(-1)
	return newPose(pt, inv)
}

// PoseBetween returns the pose of b expressed in the frame of a.
func PoseBetween(a, b Pose) Pose {
	return Compose(PoseInverse(a), b)
}

// TransformPoint applies the pose to a point: rotation then translation.
func TransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return PoseRotationMatrix(p).Mul(pt).Add(p.Point())
}

// InverseTransformPoint expresses a point given in the parent frame in the frame of the pose.
func InverseTransformPoint(p Pose, pt r3.Vector) r3.Vector {
	return PoseRotationMatrix(p).TransposeMul(pt.Sub(p.Point()))
}

// RotateVector applies only the rotation of the pose to a direction vector.
func RotateVector(p Pose, v r3.Vector) r3.Vector {
	return PoseRotationMatrix(p).Mul(v)
}

// PoseAlmostEqual will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqual(a, b Pose) bool {
	return PoseAlmostEqualEps(a, b, 1e-6)
}

// PoseAlmostEqualEps will return a bool describing whether 2 poses are approximately the same.
func PoseAlmostEqualEps(a, b Pose, epsilon float64) bool {
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) && OrientationAlmostEqual(a.Orientation(), b.Orientation())
}
