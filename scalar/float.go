package scalar

import "math"

// Float is the plain float64 scalar. It is the fast path used for direct
// residual evaluation and for the objective value inside local solvers.
type Float struct {
	V float64
}

// NewFloat wraps a float64.
func NewFloat(v float64) Float {
	return Float{v}
}

// Floats wraps a slice of float64 values.
func Floats(vs []float64) []Float {
	out := make([]Float, len(vs))
	for i, v := range vs {
		out[i] = Float{v}
	}
	return out
}

// Const implements the Scalar contract.
func (f Float) Const(v float64) Float { return Float{v} }

// Add returns f + o.
func (f Float) Add(o Float) Float { return Float{f.V + o.V} }

// Sub returns f - o.
func (f Float) Sub(o Float) Float { return Float{f.V - o.V} }

// Mul returns f * o.
func (f Float) Mul(o Float) Float { return Float{f.V * o.V} }

// Neg returns -f.
func (f Float) Neg() Float { return Float{-f.V} }

// Sqr returns f * f.
func (f Float) Sqr() Float { return Float{f.V * f.V} }

// Sqrt returns the square root of f.
func (f Float) Sqrt() Float { return Float{math.Sqrt(f.V)} }

// Sin returns the sine of f.
func (f Float) Sin() Float { return Float{math.Sin(f.V)} }

// Cos returns the cosine of f.
func (f Float) Cos() Float { return Float{math.Cos(f.V)} }
