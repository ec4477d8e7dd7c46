// Package scalar defines the numeric capability contract shared by every
// evaluation mode of the kinematics code. A single forward-kinematics
// closure, written once against this contract, can be instantiated with
// plain floats for evaluation, dual numbers for gradients, intervals for
// guaranteed global bounds, or symbolic expressions for a closed form.
package scalar

// Scalar is the set of operations a transform computation needs from its
// number type. Const must be callable on the zero value of T and lifts a
// float64 constant into T. Sqr is x*x; implementations that track
// dependency (intervals) use it to return tighter ranges than Mul(x, x).
type Scalar[T any] interface {
	Const(float64) T
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T
	Sqr() T
	Sqrt() T
	Sin() T
	Cos() T
}

// Const lifts a float64 constant into any Scalar type.
func Const[T Scalar[T]](v float64) T {
	var zero T
	return zero.Const(v)
}

// Consts lifts a slice of float64 constants into any Scalar type.
func Consts[T Scalar[T]](vs []float64) []T {
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = Const[T](v)
	}
	return out
}
