package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/utils"
)

// Pose is a rigid transform over a generic scalar: a unit rotation
// quaternion plus a translation vector. A Pose expresses coordinates of its
// own frame in the parent frame: x_parent = R x + t.
type Pose[T scalar.Scalar[T]] struct {
	Rot   Quaternion[T]
	Trans Vector[T]
}

// NewZeroPose returns the identity transform.
func NewZeroPose[T scalar.Scalar[T]]() Pose[T] {
	zero := scalar.Const[T](0)
	return Pose[T]{NewZeroQuaternion[T](), Vector[T]{zero, zero, zero}}
}

// NewPoseFromPoint returns a pure translation.
func NewPoseFromPoint[T scalar.Scalar[T]](t Vector[T]) Pose[T] {
	return Pose[T]{NewZeroQuaternion[T](), t}
}

// NewPoseFromAxisAngle returns a pure rotation of angle about a fixed axis.
func NewPoseFromAxisAngle[T scalar.Scalar[T]](axis r3.Vector, angle T) Pose[T] {
	zero := scalar.Const[T](0)
	return Pose[T]{NewQuaternionFromAxisAngle(axis, angle), Vector[T]{zero, zero, zero}}
}

// Compose returns the transform that applies o first, then p:
// (p ∘ o)(x) = p(o(x)). This matches left-multiplying o's pose by p when
// walking a kinematic chain from a frame toward the root.
func Compose[T scalar.Scalar[T]](p, o Pose[T]) Pose[T] {
	return Pose[T]{
		Rot:   p.Rot.Mul(o.Rot),
		Trans: p.Rot.Rotate(o.Trans).Add(p.Trans),
	}
}

// Invert returns the inverse transform.
func (p Pose[T]) Invert() Pose[T] {
	rInv := p.Rot.Conj()
	return Pose[T]{
		Rot:   rInv,
		Trans: rInv.Rotate(p.Trans).Scale(scalar.Const[T](-1)),
	}
}

// TransformPoint expresses a point of p's frame in the parent frame.
func (p Pose[T]) TransformPoint(v Vector[T]) Vector[T] {
	return p.Rot.Rotate(v).Add(p.Trans)
}

// FloatPose is the plain float64 instantiation; it is what the concrete,
// non-generic Frame API traffics in.
type FloatPose = Pose[scalar.Float]

// NewFloatPose assembles a float64 pose from a translation and a rotation.
func NewFloatPose(point r3.Vector, rot quat.Number) FloatPose {
	return FloatPose{
		Rot:   LiftQuaternion[scalar.Float](rot),
		Trans: LiftVector[scalar.Float](point),
	}
}

// NewFloatPoseFromPoint returns a float64 pure translation.
func NewFloatPoseFromPoint(point r3.Vector) FloatPose {
	return NewFloatPose(point, quat.Number{Real: 1})
}

// Point returns the translation component of a float64 pose.
func Point(p FloatPose) r3.Vector {
	return FloatVectorToR3(p.Trans)
}

// LiftPose lifts a float64 pose into any scalar type as constants. Static
// mechanism segments go through here once per evaluation state.
func LiftPose[T scalar.Scalar[T]](p FloatPose) Pose[T] {
	return Pose[T]{
		Rot: Quaternion[T]{
			scalar.Const[T](p.Rot.W.V),
			scalar.Const[T](p.Rot.X.V),
			scalar.Const[T](p.Rot.Y.V),
			scalar.Const[T](p.Rot.Z.V),
		},
		Trans: LiftVector[T](FloatVectorToR3(p.Trans)),
	}
}

// EulerAngles are fixed-axis roll, pitch, yaw in radians, the convention
// URDF uses for origin rpy attributes.
type EulerAngles struct {
	Roll, Pitch, Yaw float64
}

// Quaternion converts the Euler angles to a rotation quaternion.
func (ea EulerAngles) Quaternion() quat.Number {
	cr, sr := math.Cos(ea.Roll/2), math.Sin(ea.Roll/2)
	cp, sp := math.Cos(ea.Pitch/2), math.Sin(ea.Pitch/2)
	cy, sy := math.Cos(ea.Yaw/2), math.Sin(ea.Yaw/2)
	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// R3VectorAlmostEqual compares two r3.Vectors within epsilon per component.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return utils.Float64AlmostEqual(a.X, b.X, epsilon) &&
		utils.Float64AlmostEqual(a.Y, b.Y, epsilon) &&
		utils.Float64AlmostEqual(a.Z, b.Z, epsilon)
}

// PoseAlmostEqual compares two float64 poses within a fixed tolerance,
// treating q and -q as the same rotation.
func PoseAlmostEqual(a, b FloatPose) bool {
	const epsilon = 1e-8
	if !R3VectorAlmostEqual(Point(a), Point(b), epsilon) {
		return false
	}
	qa, qb := FloatQuaternionToGonum(a.Rot), FloatQuaternionToGonum(b.Rot)
	dot := qa.Real*qb.Real + qa.Imag*qb.Imag + qa.Jmag*qb.Jmag + qa.Kmag*qb.Kmag
	return math.Abs(math.Abs(dot)-1) < epsilon
}
