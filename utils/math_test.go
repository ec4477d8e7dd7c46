package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestDegRadConversion(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, math.Pi)
	test.That(t, RadToDeg(math.Pi/2), test.ShouldAlmostEqual, 90)
	test.That(t, RadToDeg(DegToRad(57.3)), test.ShouldAlmostEqual, 57.3)
}

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1.0, 1.0+1e-10, 1e-9), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1.0, 1.1, 1e-9), test.ShouldBeFalse)
}

func TestSpaceDelimitedStringToFloatSlice(t *testing.T) {
	test.That(t, SpaceDelimitedStringToFloatSlice("0 1.57 -0.5"), test.ShouldResemble, []float64{0, 1.57, -0.5})
	test.That(t, SpaceDelimitedStringToFloatSlice("  1   2 "), test.ShouldResemble, []float64{1, 2})
	test.That(t, SpaceDelimitedStringToFloatSlice("a 2"), test.ShouldResemble, []float64{0, 2})
	test.That(t, SpaceDelimitedStringToFloatSlice(""), test.ShouldBeNil)
}
