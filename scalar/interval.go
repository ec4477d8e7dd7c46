package scalar

import "math"

// Interval is a closed interval scalar. Running the forward-kinematics
// closure over Interval configurations yields a guaranteed enclosure of the
// residual over the whole configuration box, which is what the global
// branch-and-bound solver prunes with.
type Interval struct {
	Lo, Hi float64
}

// NewInterval returns the interval [lo, hi].
func NewInterval(lo, hi float64) Interval {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Interval{lo, hi}
}

// Intervals wraps parallel bound slices into intervals.
func Intervals(lo, hi []float64) []Interval {
	out := make([]Interval, len(lo))
	for i := range lo {
		out[i] = NewInterval(lo[i], hi[i])
	}
	return out
}

// Width returns hi - lo.
func (x Interval) Width() float64 { return x.Hi - x.Lo }

// Mid returns the midpoint of the interval.
func (x Interval) Mid() float64 { return x.Lo + (x.Hi-x.Lo)/2 }

// Contains reports whether v lies in the interval.
func (x Interval) Contains(v float64) bool { return v >= x.Lo && v <= x.Hi }

// Const implements the Scalar contract with a degenerate interval.
func (x Interval) Const(v float64) Interval { return Interval{v, v} }

// Add returns x + o.
func (x Interval) Add(o Interval) Interval {
	return Interval{x.Lo + o.Lo, x.Hi + o.Hi}
}

// Sub returns x - o.
func (x Interval) Sub(o Interval) Interval {
	return Interval{x.Lo - o.Hi, x.Hi - o.Lo}
}

// Mul returns x * o, the hull of the four endpoint products.
func (x Interval) Mul(o Interval) Interval {
	p1, p2, p3, p4 := x.Lo*o.Lo, x.Lo*o.Hi, x.Hi*o.Lo, x.Hi*o.Hi
	return Interval{
		math.Min(math.Min(p1, p2), math.Min(p3, p4)),
		math.Max(math.Max(p1, p2), math.Max(p3, p4)),
	}
}

// Neg returns -x.
func (x Interval) Neg() Interval { return Interval{-x.Hi, -x.Lo} }

// Sqr returns the range of x*x. Unlike Mul(x, x) it accounts for the two
// factors being the same variable, so an interval straddling zero squares
// to a range with lower bound zero.
func (x Interval) Sqr() Interval {
	a, b := x.Lo*x.Lo, x.Hi*x.Hi
	lo := math.Min(a, b)
	if x.Contains(0) {
		lo = 0
	}
	return Interval{lo, math.Max(a, b)}
}

// Sqrt returns the range of the square root over the non-negative part of
// x. Negative lower bounds, which arise from conservative enclosures of
// quantities that are mathematically non-negative, clamp to zero.
func (x Interval) Sqrt() Interval {
	return Interval{math.Sqrt(math.Max(x.Lo, 0)), math.Sqrt(math.Max(x.Hi, 0))}
}

// containsShiftedMultiple reports whether k*period + offset lies in [lo, hi]
// for some integer k.
func containsShiftedMultiple(lo, hi, period, offset float64) bool {
	return math.Ceil((lo-offset)/period) <= math.Floor((hi-offset)/period)
}

// Cos returns the exact range of cosine over the interval.
func (x Interval) Cos() Interval {
	if x.Width() >= 2*math.Pi {
		return Interval{-1, 1}
	}
	lo := math.Min(math.Cos(x.Lo), math.Cos(x.Hi))
	hi := math.Max(math.Cos(x.Lo), math.Cos(x.Hi))
	if containsShiftedMultiple(x.Lo, x.Hi, 2*math.Pi, 0) {
		hi = 1
	}
	if containsShiftedMultiple(x.Lo, x.Hi, 2*math.Pi, math.Pi) {
		lo = -1
	}
	return Interval{lo, hi}
}

// Sin returns the exact range of sine over the interval.
func (x Interval) Sin() Interval {
	if x.Width() >= 2*math.Pi {
		return Interval{-1, 1}
	}
	lo := math.Min(math.Sin(x.Lo), math.Sin(x.Hi))
	hi := math.Max(math.Sin(x.Lo), math.Sin(x.Hi))
	if containsShiftedMultiple(x.Lo, x.Hi, 2*math.Pi, math.Pi/2) {
		hi = 1
	}
	if containsShiftedMultiple(x.Lo, x.Hi, 2*math.Pi, -math.Pi/2) {
		lo = -1
	}
	return Interval{lo, hi}
}

// Bisect splits the interval at its midpoint.
func (x Interval) Bisect() (Interval, Interval) {
	m := x.Mid()
	return Interval{x.Lo, m}, Interval{m, x.Hi}
}
