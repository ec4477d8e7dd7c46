package scalar

import "math"

// Dual is a forward-mode automatic differentiation scalar: a value plus the
// gradient of that value with respect to a fixed set of variables. Constants
// carry a nil gradient, which every operation treats as all zeros, so lifted
// mechanism constants cost no gradient arithmetic.
type Dual struct {
	V float64
	G []float64
}

// Vars seeds one Dual per entry of vs, with unit derivative with respect to
// itself. The returned slice is what a gradient evaluation passes as a
// configuration.
func Vars(vs []float64) []Dual {
	out := make([]Dual, len(vs))
	for i, v := range vs {
		g := make([]float64, len(vs))
		g[i] = 1
		out[i] = Dual{V: v, G: g}
	}
	return out
}

// Const implements the Scalar contract.
func (d Dual) Const(v float64) Dual { return Dual{V: v} }

func addGrads(a, b []float64, ca, cb float64) []float64 {
	if a == nil && b == nil {
		return nil
	}
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	g := make([]float64, n)
	for i := range a {
		g[i] += ca * a[i]
	}
	for i := range b {
		g[i] += cb * b[i]
	}
	return g
}

func scaleGrad(a []float64, c float64) []float64 {
	if a == nil {
		return nil
	}
	g := make([]float64, len(a))
	for i, v := range a {
		g[i] = c * v
	}
	return g
}

// Add returns d + o.
func (d Dual) Add(o Dual) Dual {
	return Dual{V: d.V + o.V, G: addGrads(d.G, o.G, 1, 1)}
}

// Sub returns d - o.
func (d Dual) Sub(o Dual) Dual {
	return Dual{V: d.V - o.V, G: addGrads(d.G, o.G, 1, -1)}
}

// Mul returns d * o with the product rule applied to the gradients.
func (d Dual) Mul(o Dual) Dual {
	return Dual{V: d.V * o.V, G: addGrads(d.G, o.G, o.V, d.V)}
}

// Neg returns -d.
func (d Dual) Neg() Dual {
	return Dual{V: -d.V, G: scaleGrad(d.G, -1)}
}

// Sqr returns d * d.
func (d Dual) Sqr() Dual {
	return Dual{V: d.V * d.V, G: scaleGrad(d.G, 2*d.V)}
}

// Sqrt returns the square root of d. The derivative is undefined at zero;
// there it degenerates to zero so that an exactly-on-target residual does
// not poison the solver with infinities.
func (d Dual) Sqrt() Dual {
	r := math.Sqrt(d.V)
	if r == 0 {
		return Dual{V: 0, G: scaleGrad(d.G, 0)}
	}
	return Dual{V: r, G: scaleGrad(d.G, 1/(2*r))}
}

// Sin returns the sine of d.
func (d Dual) Sin() Dual {
	return Dual{V: math.Sin(d.V), G: scaleGrad(d.G, math.Cos(d.V))}
}

// Cos returns the cosine of d.
func (d Dual) Cos() Dual {
	return Dual{V: math.Cos(d.V), G: scaleGrad(d.G, -math.Sin(d.V))}
}

// Gradient returns the gradient with length n, padding the tail with zeros
// for constants whose gradient slices were never materialized.
func (d Dual) Gradient(n int) []float64 {
	g := make([]float64, n)
	copy(g, d.G)
	return g
}
