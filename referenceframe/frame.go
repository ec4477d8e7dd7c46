// Package referenceframe models a mechanism as a tree of reference frames
// and does the math of translating between them. A frame may be static or
// carry degrees of freedom (a revolute or prismatic joint); a frame system
// ties frames together so that points fixed on one body can be expressed in
// the frame of another.
package referenceframe

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
	"github.com/phelipe/interval-inverse-kinematics/utils"
)

// OOBErrString is contained in every out-of-bounds input error so they can
// be told apart from other transform errors.
const OOBErrString = "input out of bounds"

// Limit represents the limits of motion for one degree of freedom.
type Limit struct {
	Min float64
	Max float64
}

func limitsAlmostEqual(a, b []Limit) bool {
	if len(a) != len(b) {
		return false
	}
	const epsilon = 1e-5
	for idx, x := range a {
		if !utils.Float64AlmostEqual(x.Min, b[idx].Min, epsilon) ||
			!utils.Float64AlmostEqual(x.Max, b[idx].Max, epsilon) {
			return false
		}
	}
	return true
}

// RandomFrameInputs produces a list of valid, in-bounds inputs for the frame.
func RandomFrameInputs(m Frame, rSeed *rand.Rand) []Input {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	dof := m.DoF()
	pos := make([]Input, 0, len(dof))
	for _, lim := range dof {
		l, u := lim.Min, lim.Max

		// Default to [-999,999] as range if limits are infinite
		if l == math.Inf(-1) {
			l = -999
		}
		if u == math.Inf(1) {
			u = 999
		}
		jRange := math.Abs(u - l)
		pos = append(pos, Input{rSeed.Float64()*jRange + l})
	}
	return pos
}

// Frame represents a single reference frame, e.g. a joint or a link of an
// arm.
type Frame interface {
	// Name returns the name of the frame.
	Name() string

	// Transform is the pose (rotation and translation) that goes FROM the
	// current frame TO the parent frame, under the given inputs.
	Transform([]Input) (spatialmath.FloatPose, error)

	// DoF returns a slice with length equal to the number of degrees of
	// freedom, each element the movement limit of that degree of freedom.
	// Frames that don't move return an empty slice.
	DoF() []Limit

	// AlmostEquals returns whether the other frame only differs by floating
	// point imprecision.
	AlmostEquals(otherFrame Frame) bool
}

// a static frame encodes a fixed translation and rotation from the current
// frame to the parent frame.
type staticFrame struct {
	name      string
	transform spatialmath.FloatPose
}

// NewStaticFrame creates a frame with a pose relative to its parent that is
// fixed for all time.
func NewStaticFrame(name string, pose spatialmath.FloatPose) Frame {
	return &staticFrame{name, pose}
}

// NewZeroStaticFrame creates a frame with no translation or orientation
// change from its parent.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatialmath.NewZeroPose[scalar.Float]()}
}

// FrameFromPoint creates a new static Frame from a 3D point.
func FrameFromPoint(name string, point r3.Vector) Frame {
	return &staticFrame{name, spatialmath.NewFloatPoseFromPoint(point)}
}

// Name returns the name of the frame.
func (sf *staticFrame) Name() string {
	return sf.name
}

// Transform returns the fixed pose associated with this static frame.
func (sf *staticFrame) Transform(input []Input) (spatialmath.FloatPose, error) {
	if len(input) != 0 {
		return spatialmath.FloatPose{}, NewConfigurationLengthError(len(input), 0)
	}
	return sf.transform, nil
}

// DoF is always empty for a static frame.
func (sf *staticFrame) DoF() []Limit {
	return []Limit{}
}

func (sf *staticFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*staticFrame)
	return ok && sf.name == other.name && spatialmath.PoseAlmostEqual(sf.transform, other.transform)
}

// a rotational frame rotates about a fixed axis by the amount given in its
// single input. A standard revolute joint.
type rotationalFrame struct {
	name    string
	rotAxis r3.Vector
	limit   []Limit
}

// NewRotationalFrame creates a frame that rotates about the given axis. The
// axis is normalized; a zero axis is rejected.
func NewRotationalFrame(name string, axis r3.Vector, limit Limit) (Frame, error) {
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as rotation axis")
	}
	return &rotationalFrame{name: name, rotAxis: axis.Normalize(), limit: []Limit{limit}}, nil
}

// Name returns the name of the frame.
func (rf *rotationalFrame) Name() string {
	return rf.name
}

// Transform returns the pose of the frame rotated by the single input, in
// radians. Out-of-bounds inputs still compute, but return a non-nil error.
func (rf *rotationalFrame) Transform(input []Input) (spatialmath.FloatPose, error) {
	var err error
	if len(input) != 1 {
		return spatialmath.FloatPose{}, NewConfigurationLengthError(len(input), 1)
	}
	if input[0].Value < rf.limit[0].Min || input[0].Value > rf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %v", input[0].Value, OOBErrString, rf.limit[0])
	}
	return spatialmath.NewPoseFromAxisAngle(rf.rotAxis, scalar.NewFloat(input[0].Value)), err
}

// DoF returns the limits of the single rotational degree of freedom.
func (rf *rotationalFrame) DoF() []Limit {
	return rf.limit
}

func (rf *rotationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*rotationalFrame)
	return ok && rf.name == other.name &&
		spatialmath.R3VectorAlmostEqual(rf.rotAxis, other.rotAxis, 1e-8) &&
		limitsAlmostEqual(rf.DoF(), other.DoF())
}

// a translational frame translates along a fixed axis without rotation. A
// prismatic joint.
type translationalFrame struct {
	name      string
	transAxis r3.Vector
	limit     []Limit
}

// NewTranslationalFrame creates a frame that translates along the given
// axis. The axis is normalized; a zero axis is rejected.
func NewTranslationalFrame(name string, axis r3.Vector, limit Limit) (Frame, error) {
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	return &translationalFrame{name: name, transAxis: axis.Normalize(), limit: []Limit{limit}}, nil
}

// Name returns the name of the frame.
func (pf *translationalFrame) Name() string {
	return pf.name
}

// Transform returns a pose translated along the axis by the single input.
// Out-of-bounds inputs still compute, but return a non-nil error.
func (pf *translationalFrame) Transform(input []Input) (spatialmath.FloatPose, error) {
	var err error
	if len(input) != 1 {
		return spatialmath.FloatPose{}, NewConfigurationLengthError(len(input), 1)
	}
	if input[0].Value < pf.limit[0].Min || input[0].Value > pf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %v", input[0].Value, OOBErrString, pf.limit[0])
	}
	return spatialmath.NewFloatPoseFromPoint(pf.transAxis.Mul(input[0].Value)), err
}

// DoF returns the limits of the single translational degree of freedom.
func (pf *translationalFrame) DoF() []Limit {
	return pf.limit
}

func (pf *translationalFrame) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*translationalFrame)
	return ok && pf.name == other.name &&
		spatialmath.R3VectorAlmostEqual(pf.transAxis, other.transAxis, 1e-8) &&
		limitsAlmostEqual(pf.DoF(), other.DoF())
}
