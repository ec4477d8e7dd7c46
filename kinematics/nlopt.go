package kinematics

import (
	"context"
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/scalar"
)

const (
	good = 1e-6

	// floats within this are considered equal for optimizer termination
	floatEpsilon = 1e-14

	// stand-in bound for limitless joints
	defaultJointLimit = 999
)

// NloptIK is a local gradient-descent inverse kinematics solver. The
// objective is a distance cost over the frame system, and its exact
// gradient comes from a dual-number instantiation of the same cost.
type NloptIK struct {
	costFloat     CostFunc[scalar.Float]
	costDual      CostFunc[scalar.Dual]
	dof           int
	lowerBound    []float64
	upperBound    []float64
	maxIterations int
	iterations    int
	epsilon       float64
	logger        golog.Logger
	randSeed      *rand.Rand
	history       []float64
}

// NewNloptIK creates a solver for driving pointOnBody onto target within
// the given frame system.
func NewNloptIK(
	fs *referenceframe.FrameSystem,
	pointOnBody, target *referenceframe.PointInFrame,
	logger golog.Logger,
) (*NloptIK, error) {
	costFloat, err := NewDistanceCost[scalar.Float](fs, pointOnBody, target)
	if err != nil {
		return nil, err
	}
	costDual, err := NewDistanceCost[scalar.Dual](fs, pointOnBody, target)
	if err != nil {
		return nil, err
	}
	ik := &NloptIK{
		costFloat: costFloat,
		costDual:  costDual,
		logger:    logger,
		// Stop optimizing when the residual is this small.
		epsilon:       good,
		maxIterations: 5000,
		randSeed:      rand.New(rand.NewSource(1)),
	}
	ik.lowerBound, ik.upperBound = limitsToArrays(fs.DoF())
	ik.dof = len(ik.lowerBound)
	return ik, nil
}

// SetSeed sets the random number generator used for restarts.
func (ik *NloptIK) SetSeed(seed int64) {
	ik.randSeed = rand.New(rand.NewSource(seed))
}

// History returns the residual recorded at each objective evaluation of
// the most recent Solve, oldest first.
func (ik *NloptIK) History() []float64 {
	return ik.history
}

// Solve searches for a configuration placing the body point within epsilon
// of the target, restarting from random configurations until the iteration
// budget runs out. It returns the best configuration found and its
// residual; the error is non-nil if no configuration reached epsilon.
func (ik *NloptIK) Solve(ctx context.Context, seed []float64) ([]float64, float64, error) {
	if len(seed) != ik.dof {
		return nil, 0, referenceframe.NewConfigurationLengthError(len(seed), ik.dof)
	}
	ik.iterations = 0
	ik.history = ik.history[:0]

	opt, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(ik.dof))
	if err != nil {
		return nil, 0, errors.Wrap(err, "nlopt creation error")
	}
	defer opt.Destroy()

	// A cost evaluation failure force-stops the optimizer; the objective
	// has no way to report errors, so the zero it returns after a stop must
	// never be mistaken for a residual.
	var evalErr error
	jointFuncJacobian := func(x, gradient []float64) float64 {
		ik.iterations++
		dist, err := ik.costFloat(scalar.Floats(x))
		if err != nil {
			ik.logger.Errorw("error during optimization", "error", err)
			evalErr = err
			opt.ForceStop()
			return 0
		}
		ik.history = append(ik.history, dist.V)
		if len(gradient) > 0 {
			distDual, err := ik.costDual(scalar.Vars(x))
			if err != nil {
				ik.logger.Errorw("error during gradient computation", "error", err)
				evalErr = err
				opt.ForceStop()
				return 0
			}
			copy(gradient, distDual.Gradient(ik.dof))
		}
		return dist.V
	}

	err = multierr.Combine(
		opt.SetFtolAbs(floatEpsilon),
		opt.SetFtolRel(floatEpsilon),
		opt.SetLowerBounds(ik.lowerBound),
		opt.SetUpperBounds(ik.upperBound),
		opt.SetStopVal(ik.epsilon),
		opt.SetMaxEval(ik.maxIterations),
		opt.SetMinObjective(jointFuncJacobian),
		opt.SetXtolAbs1(floatEpsilon),
		opt.SetXtolRel(floatEpsilon),
	)
	if err != nil {
		return nil, 0, errors.Wrap(err, "nlopt setup error")
	}

	startingPos := make([]float64, ik.dof)
	copy(startingPos, seed)
	best := append([]float64{}, seed...)
	bestDist := math.Inf(1)
	var solveErr error

	for ik.iterations < ik.maxIterations {
		select {
		case <-ctx.Done():
			return best, bestDist, ctx.Err()
		default:
		}
		solved, result, nloptErr := opt.Optimize(startingPos)
		if evalErr != nil {
			return best, bestDist, evalErr
		}
		if nloptErr != nil {
			// This just *happens* sometimes due to weirdnesses in nonlinear
			// randomized problems. Ignore it, a later restart may succeed.
			solveErr = multierr.Combine(solveErr, nloptErr)
		}
		if solved != nil && result < bestDist {
			bestDist = result
			copy(best, solved)
		}
		if bestDist < ik.epsilon {
			return best, bestDist, nil
		}
		startingPos = ik.randomConfiguration()
	}
	return best, bestDist, multierr.Combine(
		errors.Errorf("residual %f did not converge below %f", bestDist, ik.epsilon),
		solveErr,
	)
}

// randomConfiguration draws a uniform sample from the joint bounds.
func (ik *NloptIK) randomConfiguration() []float64 {
	pos := make([]float64, ik.dof)
	for i := range pos {
		pos[i] = ik.lowerBound[i] + ik.randSeed.Float64()*(ik.upperBound[i]-ik.lowerBound[i])
	}
	return pos
}

// limitsToArrays converts limits to nlopt-friendly slices, substituting
// finite stand-ins for unbounded joints.
func limitsToArrays(limits []referenceframe.Limit) ([]float64, []float64) {
	var min, max []float64
	for _, limit := range limits {
		if math.IsInf(limit.Min, -1) {
			min = append(min, -defaultJointLimit)
		} else {
			min = append(min, limit.Min)
		}
		if math.IsInf(limit.Max, 1) {
			max = append(max, defaultJointLimit)
		} else {
			max = append(max, limit.Max)
		}
	}
	return min, max
}
