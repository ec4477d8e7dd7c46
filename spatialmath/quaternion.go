package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
)

// Quaternion is a rotation quaternion over a generic scalar. Hamilton
// convention, w + xi + yj + zk. Rotations built by this package keep unit
// norm, so Conj doubles as the inverse.
type Quaternion[T scalar.Scalar[T]] struct {
	W, X, Y, Z T
}

// NewZeroQuaternion returns the identity rotation.
func NewZeroQuaternion[T scalar.Scalar[T]]() Quaternion[T] {
	one := scalar.Const[T](1)
	zero := scalar.Const[T](0)
	return Quaternion[T]{one, zero, zero, zero}
}

// LiftQuaternion lifts a concrete gonum quaternion into any scalar type.
func LiftQuaternion[T scalar.Scalar[T]](q quat.Number) Quaternion[T] {
	return Quaternion[T]{
		scalar.Const[T](q.Real),
		scalar.Const[T](q.Imag),
		scalar.Const[T](q.Jmag),
		scalar.Const[T](q.Kmag),
	}
}

// NewQuaternionFromAxisAngle builds the rotation of the given angle about a
// fixed unit axis. The axis is a mechanism constant; the angle is the
// generic joint variable.
func NewQuaternionFromAxisAngle[T scalar.Scalar[T]](axis r3.Vector, angle T) Quaternion[T] {
	half := angle.Mul(scalar.Const[T](0.5))
	s := half.Sin()
	return Quaternion[T]{
		W: half.Cos(),
		X: s.Mul(scalar.Const[T](axis.X)),
		Y: s.Mul(scalar.Const[T](axis.Y)),
		Z: s.Mul(scalar.Const[T](axis.Z)),
	}
}

// Mul returns the Hamilton product q * o.
func (q Quaternion[T]) Mul(o Quaternion[T]) Quaternion[T] {
	return Quaternion[T]{
		W: q.W.Mul(o.W).Sub(q.X.Mul(o.X)).Sub(q.Y.Mul(o.Y)).Sub(q.Z.Mul(o.Z)),
		X: q.W.Mul(o.X).Add(q.X.Mul(o.W)).Add(q.Y.Mul(o.Z)).Sub(q.Z.Mul(o.Y)),
		Y: q.W.Mul(o.Y).Sub(q.X.Mul(o.Z)).Add(q.Y.Mul(o.W)).Add(q.Z.Mul(o.X)),
		Z: q.W.Mul(o.Z).Add(q.X.Mul(o.Y)).Sub(q.Y.Mul(o.X)).Add(q.Z.Mul(o.W)),
	}
}

// Conj returns the conjugate, which inverts a unit rotation.
func (q Quaternion[T]) Conj() Quaternion[T] {
	return Quaternion[T]{q.W, q.X.Neg(), q.Y.Neg(), q.Z.Neg()}
}

// Rotate applies the rotation to a vector via q v q*.
func (q Quaternion[T]) Rotate(v Vector[T]) Vector[T] {
	p := Quaternion[T]{scalar.Const[T](0), v.X, v.Y, v.Z}
	r := q.Mul(p).Mul(q.Conj())
	return Vector[T]{r.X, r.Y, r.Z}
}

// FloatQuaternion is the plain float64 instantiation.
type FloatQuaternion = Quaternion[scalar.Float]

// FloatQuaternionToGonum converts to a gonum quat.Number.
func FloatQuaternionToGonum(q FloatQuaternion) quat.Number {
	return quat.Number{Real: q.W.V, Imag: q.X.V, Jmag: q.Y.V, Kmag: q.Z.V}
}
