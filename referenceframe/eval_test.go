package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

func TestFrameTransformMatchesFloatPath(t *testing.T) {
	m := twoLinkPlanar(t)
	inputs := []Input{{0.3}, {-1.1}}

	want, err := m.Transform(inputs)
	test.That(t, err, test.ShouldBeNil)

	got, err := FrameTransform(m, scalar.Floats(InputsToFloats(inputs)))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.PoseAlmostEqual(got, want), test.ShouldBeTrue)
}

func TestFrameTransformDualRealPart(t *testing.T) {
	m := twoLinkPlanar(t)
	x := []float64{0.3, -1.1}

	want, err := FrameTransform(m, scalar.Floats(x))
	test.That(t, err, test.ShouldBeNil)

	got, err := FrameTransform(m, scalar.Vars(x))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Trans.X.V, test.ShouldAlmostEqual, want.Trans.X.V)
	test.That(t, got.Trans.Y.V, test.ShouldAlmostEqual, want.Trans.Y.V)
	test.That(t, got.Trans.Z.V, test.ShouldAlmostEqual, want.Trans.Z.V)
}

func TestFrameTransformIntervalEnclosure(t *testing.T) {
	m := twoLinkPlanar(t)
	box := []scalar.Interval{scalar.NewInterval(-0.5, 0.5), scalar.NewInterval(0, 1)}

	enc, err := FrameTransform(m, box)
	test.That(t, err, test.ShouldBeNil)

	// every point sample must land inside the interval enclosure
	for _, q1 := range []float64{-0.5, -0.2, 0, 0.4, 0.5} {
		for _, q2 := range []float64{0, 0.3, 0.7, 1} {
			p, err := FrameTransform(m, scalar.Floats([]float64{q1, q2}))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, enc.Trans.X.Contains(p.Trans.X.V), test.ShouldBeTrue)
			test.That(t, enc.Trans.Y.Contains(p.Trans.Y.V), test.ShouldBeTrue)
			test.That(t, enc.Trans.Z.Contains(p.Trans.Z.V), test.ShouldBeTrue)
		}
	}
}

func TestFrameTransformWrongLength(t *testing.T) {
	m := twoLinkPlanar(t)
	_, err := FrameTransform(m, scalar.Floats([]float64{0}))
	test.That(t, err, test.ShouldNotBeNil)
	_, err = FrameTransform(m, scalar.Floats([]float64{0, 0, 0}))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFrameTransformRotational(t *testing.T) {
	j, err := NewRotationalFrame("j", r3.Vector{Z: 1}, Limit{-math.Pi, math.Pi})
	test.That(t, err, test.ShouldBeNil)

	p, err := FrameTransform(j, []scalar.Float{scalar.NewFloat(math.Pi / 2)})
	test.That(t, err, test.ShouldBeNil)
	rotated := p.TransformPoint(spatialmath.LiftVector[scalar.Float](r3.Vector{X: 1}))
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.FloatVectorToR3(rotated), r3.Vector{Y: 1}, 1e-9), test.ShouldBeTrue)
}

func TestFrameTransformTranslational(t *testing.T) {
	j, err := NewTranslationalFrame("j", r3.Vector{X: 1}, Limit{-1, 1})
	test.That(t, err, test.ShouldBeNil)

	p, err := FrameTransform(j, []scalar.Float{scalar.NewFloat(0.25)})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.Point(p), r3.Vector{X: 0.25}, 1e-9), test.ShouldBeTrue)
}
