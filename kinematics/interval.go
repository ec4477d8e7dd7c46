package kinematics

import (
	"container/heap"
	"context"
	"math"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/scalar"
)

// Enclosure is the certified outcome of a branch-and-bound minimization:
// the global minimum of the cost over the joint box is guaranteed to lie
// in [Lower, Upper], and every global minimizer lies inside one of Boxes.
type Enclosure struct {
	Lower float64
	Upper float64
	// Best is the sample achieving Upper.
	Best  []float64
	Boxes [][]scalar.Interval
}

// Contains reports whether the configuration lies within the certified
// minimizer region.
func (e *Enclosure) Contains(configuration []float64) bool {
	for _, box := range e.Boxes {
		if len(box) != len(configuration) {
			continue
		}
		inside := true
		for i, iv := range box {
			if !iv.Contains(configuration[i]) {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}

// intervalBox pairs a joint box with the interval lower bound of the cost
// over it.
type intervalBox struct {
	x     []scalar.Interval
	lower float64
}

// boxQueue is a min-heap on the cost lower bound, so the box most likely
// to contain the global minimum is explored first.
type boxQueue []*intervalBox

func (q boxQueue) Len() int            { return len(q) }
func (q boxQueue) Less(i, j int) bool  { return q[i].lower < q[j].lower }
func (q boxQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *boxQueue) Push(x interface{}) { *q = append(*q, x.(*intervalBox)) }
func (q *boxQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// IntervalIK is a global inverse kinematics solver. Rather than descending
// from a seed, it bisects the joint box and bounds the cost over each
// sub-box with interval arithmetic, discarding sub-boxes whose lower bound
// exceeds the best point sample seen. What survives is a guaranteed
// enclosure of the global minimum, local minima notwithstanding.
type IntervalIK struct {
	costInterval  CostFunc[scalar.Interval]
	costFloat     CostFunc[scalar.Float]
	bounds        []referenceframe.Limit
	tolerance     float64
	maxIterations int
	logger        golog.Logger
}

// NewIntervalIK creates a global solver over the given joint bounds. All
// bounds must be finite; the search cannot cover an unbounded box.
func NewIntervalIK(
	fs *referenceframe.FrameSystem,
	pointOnBody, target *referenceframe.PointInFrame,
	tolerance float64,
	logger golog.Logger,
) (*IntervalIK, error) {
	bounds := fs.DoF()
	for i, limit := range bounds {
		if math.IsInf(limit.Min, 0) || math.IsInf(limit.Max, 0) {
			return nil, errors.Errorf("joint %d is unbounded, cannot run global search", i)
		}
	}
	costInterval, err := NewDistanceCost[scalar.Interval](fs, pointOnBody, target)
	if err != nil {
		return nil, err
	}
	costFloat, err := NewDistanceCost[scalar.Float](fs, pointOnBody, target)
	if err != nil {
		return nil, err
	}
	return &IntervalIK{
		costInterval:  costInterval,
		costFloat:     costFloat,
		bounds:        bounds,
		tolerance:     tolerance,
		maxIterations: 100000,
		logger:        logger,
	}, nil
}

// SetMaxIterations caps the number of boxes processed before the solver
// returns the (still valid, just looser) enclosure it has.
func (ik *IntervalIK) SetMaxIterations(n int) {
	ik.maxIterations = n
}

// Minimize runs best-first branch and bound until the gap between the
// certified lower bound and the best sampled cost is within tolerance, the
// iteration budget runs out, or the context is cancelled. The returned
// enclosure is valid in all three cases.
func (ik *IntervalIK) Minimize(ctx context.Context) (*Enclosure, error) {
	root := make([]scalar.Interval, len(ik.bounds))
	for i, limit := range ik.bounds {
		root[i] = scalar.NewInterval(limit.Min, limit.Max)
	}

	lower, err := ik.costInterval(root)
	if err != nil {
		return nil, err
	}
	upper, best, err := ik.sample(midpoint(root))
	if err != nil {
		return nil, err
	}

	queue := &boxQueue{{x: root, lower: lower.Lo}}
	heap.Init(queue)

	iterations := 0
	certifiedLower := lower.Lo
	for queue.Len() > 0 && iterations < ik.maxIterations {
		select {
		case <-ctx.Done():
			return ik.enclosure(queue, certifiedLower, upper, best), ctx.Err()
		default:
		}
		iterations++

		// The heap minimum is the global lower bound over all live boxes.
		top := (*queue)[0].lower
		certifiedLower = math.Min(top, upper)
		if upper-top <= ik.tolerance {
			break
		}
		box := heap.Pop(queue).(*intervalBox)

		left, right := bisect(box.x)
		for _, child := range [][]scalar.Interval{left, right} {
			childLower, err := ik.costInterval(child)
			if err != nil {
				return nil, err
			}
			sampled, at, err := ik.sample(midpoint(child))
			if err != nil {
				return nil, err
			}
			if sampled < upper {
				upper = sampled
				best = at
			}
			// Anything above the best sample cannot contain the minimum.
			if childLower.Lo <= upper {
				heap.Push(queue, &intervalBox{x: child, lower: childLower.Lo})
			}
		}
	}
	if queue.Len() == 0 {
		certifiedLower = upper
	}
	ik.logger.Debugw("branch and bound finished",
		"iterations", iterations,
		"lower", certifiedLower,
		"upper", upper,
		"boxes", queue.Len(),
	)
	return ik.enclosure(queue, certifiedLower, upper, best), nil
}

// sample evaluates the cost at a point configuration.
func (ik *IntervalIK) sample(configuration []float64) (float64, []float64, error) {
	cost, err := ik.costFloat(scalar.Floats(configuration))
	if err != nil {
		return 0, nil, err
	}
	return cost.V, configuration, nil
}

func (ik *IntervalIK) enclosure(queue *boxQueue, lower, upper float64, best []float64) *Enclosure {
	boxes := make([][]scalar.Interval, 0, queue.Len())
	for _, b := range *queue {
		if b.lower <= upper {
			boxes = append(boxes, b.x)
		}
	}
	return &Enclosure{Lower: lower, Upper: upper, Best: best, Boxes: boxes}
}

// midpoint returns the center configuration of a box.
func midpoint(box []scalar.Interval) []float64 {
	mid := make([]float64, len(box))
	for i, iv := range box {
		mid[i] = iv.Mid()
	}
	return mid
}

// bisect splits a box across its widest dimension.
func bisect(box []scalar.Interval) ([]scalar.Interval, []scalar.Interval) {
	widest := 0
	for i, iv := range box {
		if iv.Width() > box[widest].Width() {
			widest = i
		}
	}
	left := append([]scalar.Interval{}, box...)
	right := append([]scalar.Interval{}, box...)
	left[widest], right[widest] = box[widest].Bisect()
	return left, right
}
