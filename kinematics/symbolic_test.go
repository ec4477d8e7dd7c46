package kinematics

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/scalar"
)

func TestSymbolicResidualMatchesNumeric(t *testing.T) {
	fs := planarArm(t)
	target := r3.Vector{X: 0.4, Y: 0.9}
	pointOnBody := referenceframe.NewPointInFrame("tool", r3.Vector{})
	targetPoint := referenceframe.NewPointInFrame(referenceframe.World, target)

	residual, vars, err := SymbolicResidual(fs, pointOnBody, targetPoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(vars), test.ShouldEqual, 2)

	cost := planarCost[scalar.Float](t, fs, target)
	seed := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		q := []float64{seed.Float64() * 3, seed.Float64()*4 - 2}
		env := map[string]float64{"q0": q[0], "q1": q[1]}
		d, err := cost(scalar.Floats(q))
		test.That(t, err, test.ShouldBeNil)
		test.That(t, residual.Eval(env), test.ShouldAlmostEqual, d.V, 1e-12)
	}
}

func TestSymbolicResidualString(t *testing.T) {
	fs := planarArm(t)
	residual, _, err := SymbolicResidual(
		fs,
		referenceframe.NewPointInFrame("tool", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 1, Y: 1}),
	)
	test.That(t, err, test.ShouldBeNil)

	rendered := residual.String()
	test.That(t, strings.Contains(rendered, "q0"), test.ShouldBeTrue)
	test.That(t, strings.Contains(rendered, "q1"), test.ShouldBeTrue)
	test.That(t, strings.Contains(rendered, "sqrt"), test.ShouldBeTrue)
}

func TestSymbolicGradientMatchesDual(t *testing.T) {
	fs := planarArm(t)
	target := r3.Vector{X: 0.4, Y: 0.9}
	pointOnBody := referenceframe.NewPointInFrame("tool", r3.Vector{})
	targetPoint := referenceframe.NewPointInFrame(referenceframe.World, target)

	grad, err := SymbolicGradient(fs, pointOnBody, targetPoint)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(grad), test.ShouldEqual, 2)

	costD := planarCost[scalar.Dual](t, fs, target)
	q := []float64{0.6, -0.3}
	env := map[string]float64{"q0": q[0], "q1": q[1]}
	d, err := costD(scalar.Vars(q))
	test.That(t, err, test.ShouldBeNil)
	dualGrad := d.Gradient(len(q))
	for i := range grad {
		test.That(t, grad[i].Eval(env), test.ShouldAlmostEqual, dualGrad[i], 1e-9)
	}
}

func TestSymbolicWrongConfigurationLength(t *testing.T) {
	fs := planarArm(t)
	cost, err := NewDistanceCost[scalar.Float](
		fs,
		referenceframe.NewPointInFrame("tool", r3.Vector{}),
		referenceframe.NewPointInFrame(referenceframe.World, r3.Vector{X: 1}),
	)
	test.That(t, err, test.ShouldBeNil)
	_, err = cost(scalar.Floats([]float64{1}))
	test.That(t, err, test.ShouldNotBeNil)
}
