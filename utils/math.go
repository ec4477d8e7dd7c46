// Package utils contains shared helpers for math and parsing.
package utils

import (
	"math"
	"strconv"
	"strings"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s within the given epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// SpaceDelimitedStringToFloatSlice parses a URDF-style space delimited number
// list, e.g. "0 1.57 0". Unparseable fields become zero.
func SpaceDelimitedStringToFloatSlice(s string) []float64 {
	var floats []float64
	for _, field := range strings.Fields(s) {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			f = 0
		}
		floats = append(floats, f)
	}
	return floats
}
