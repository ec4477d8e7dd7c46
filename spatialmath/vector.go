// Package spatialmath implements rigid transforms generic over the scalar
// type used for evaluation. The same pose arithmetic runs under plain
// floats, dual numbers, intervals, and symbolic expressions.
package spatialmath

import (
	"github.com/golang/geo/r3"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
)

// Vector is a 3-vector over a generic scalar.
type Vector[T scalar.Scalar[T]] struct {
	X, Y, Z T
}

// LiftVector lifts a concrete r3.Vector into any scalar type as constants.
func LiftVector[T scalar.Scalar[T]](v r3.Vector) Vector[T] {
	return Vector[T]{scalar.Const[T](v.X), scalar.Const[T](v.Y), scalar.Const[T](v.Z)}
}

// Add returns v + o componentwise.
func (v Vector[T]) Add(o Vector[T]) Vector[T] {
	return Vector[T]{v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z)}
}

// Sub returns v - o componentwise.
func (v Vector[T]) Sub(o Vector[T]) Vector[T] {
	return Vector[T]{v.X.Sub(o.X), v.Y.Sub(o.Y), v.Z.Sub(o.Z)}
}

// Scale returns v scaled by s.
func (v Vector[T]) Scale(s T) Vector[T] {
	return Vector[T]{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s)}
}

// Norm returns the Euclidean 2-norm of v.
func (v Vector[T]) Norm() T {
	return v.X.Sqr().Add(v.Y.Sqr()).Add(v.Z.Sqr()).Sqrt()
}

// Norm2 returns the squared Euclidean norm of v.
func (v Vector[T]) Norm2() T {
	return v.X.Sqr().Add(v.Y.Sqr()).Add(v.Z.Sqr())
}

// FloatVector is the plain float64 instantiation.
type FloatVector = Vector[scalar.Float]

// FloatVectorToR3 converts the float64 instantiation to an r3.Vector.
func FloatVectorToR3(v FloatVector) r3.Vector {
	return r3.Vector{X: v.X.V, Y: v.Y.V, Z: v.Z.V}
}
