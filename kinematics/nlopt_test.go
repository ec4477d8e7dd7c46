package kinematics

import (
	"context"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

func TestNloptSolvePlanar(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fs := planarArm(t)
	target := r3.Vector{X: 1, Y: 1}

	ik, err := NewNloptIK(
		fs,
		referenceframe.NewPointInFrame("tool", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, target),
		logger,
	)
	test.That(t, err, test.ShouldBeNil)

	solution, residual, err := ik.Solve(context.Background(), []float64{0.1, 0.1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, residual, test.ShouldBeLessThan, 1e-3)

	cost := planarCost[scalar.Float](t, fs, target)
	d, err := cost(scalar.Floats(solution))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, d.V, test.ShouldBeLessThan, 1e-3)
	test.That(t, len(ik.History()), test.ShouldBeGreaterThan, 0)
}

func TestNloptSolve7DoF(t *testing.T) {
	logger := golog.NewTestLogger(t)
	model, err := referenceframe.ParseURDFFile("../referenceframe/testdata/arm7.urdf", "arm")
	test.That(t, err, test.ShouldBeNil)

	fs := referenceframe.NewEmptyFrameSystem("test")
	test.That(t, fs.AddFrame(model, fs.World()), test.ShouldBeNil)

	ik, err := NewNloptIK(
		fs,
		referenceframe.NewPointInFrame("arm", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5}),
		logger,
	)
	test.That(t, err, test.ShouldBeNil)

	seed := make([]float64, len(fs.DoF()))
	_, residual, err := ik.Solve(context.Background(), seed)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, residual, test.ShouldBeLessThan, 1e-3)
}

func TestNloptWrongSeedLength(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fs := planarArm(t)
	ik, err := NewNloptIK(
		fs,
		referenceframe.NewPointInFrame("tool", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 1}),
		logger,
	)
	test.That(t, err, test.ShouldBeNil)

	_, _, err = ik.Solve(context.Background(), []float64{0})
	test.That(t, err, test.ShouldNotBeNil)
}

// opaqueFrame is a mobile frame the generic evaluation path does not know,
// so cost closures over it fail at call time rather than construction.
type opaqueFrame struct {
	name string
}

func (f *opaqueFrame) Name() string { return f.name }

func (f *opaqueFrame) Transform([]referenceframe.Input) (spatialmath.FloatPose, error) {
	return spatialmath.NewZeroPose[scalar.Float](), nil
}

func (f *opaqueFrame) DoF() []referenceframe.Limit {
	return []referenceframe.Limit{{Min: -1, Max: 1}}
}

func (f *opaqueFrame) AlmostEquals(referenceframe.Frame) bool { return false }

func TestNloptEvaluationFailure(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fs := referenceframe.NewEmptyFrameSystem("opaque")
	test.That(t, fs.AddFrame(&opaqueFrame{name: "j1"}, fs.World()), test.ShouldBeNil)

	ik, err := NewNloptIK(
		fs,
		referenceframe.NewPointInFrame("j1", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 1}),
		logger,
	)
	test.That(t, err, test.ShouldBeNil)

	// the failed evaluation must surface as an error, never as a perfect
	// residual
	_, residual, err := ik.Solve(context.Background(), []float64{0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not supported for generic evaluation")
	test.That(t, residual, test.ShouldBeGreaterThan, 0)
}

func TestNloptCancelledContext(t *testing.T) {
	logger := golog.NewTestLogger(t)
	fs := planarArm(t)
	ik, err := NewNloptIK(
		fs,
		referenceframe.NewPointInFrame("tool", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 1}),
		logger,
	)
	test.That(t, err, test.ShouldBeNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ik.Solve(ctx, []float64{0, 0})
	test.That(t, err, test.ShouldNotBeNil)
}
