package referenceframe

import (
	"math"
	"math/rand"
	"sync"

	"go.uber.org/multierr"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

// SimpleModel is a serial kinematic chain: an ordered list of frames from
// the base to the end effector. It is itself a Frame, so a whole arm can be
// inserted into a FrameSystem as a single node.
type SimpleModel struct {
	name string
	// OrdTransforms is the list of transforms ordered from base to end
	// effector.
	OrdTransforms []Frame
	limits        []Limit
	lock          sync.RWMutex
}

// NewSimpleModel constructs a new model with the given name.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

// Name returns the name of the model.
func (m *SimpleModel) Name() string {
	return m.name
}

// ChangeName changes the name of the model, necessary when building frame
// systems holding several instances of the same arm.
func (m *SimpleModel) ChangeName(name string) {
	m.name = name
}

// Transform takes a list of joint positions and computes the pose of the
// end effector relative to the base. Out-of-bounds positions still compute
// but surface a non-nil error alongside the result.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.FloatPose, error) {
	poses, err := m.linkPoses(inputs, false)
	if err != nil && poses == nil {
		return spatialmath.FloatPose{}, err
	}
	return poses[len(poses)-1], err
}

// LinkPoses returns the cumulative pose of every link of the chain relative
// to the base, ending with the end effector. Useful for rendering the arm.
func (m *SimpleModel) LinkPoses(inputs []Input) ([]spatialmath.FloatPose, error) {
	return m.linkPoses(inputs, true)
}

func (m *SimpleModel) linkPoses(inputs []Input, collectAll bool) ([]spatialmath.FloatPose, error) {
	if len(inputs) != len(m.DoF()) {
		return nil, NewConfigurationLengthError(len(inputs), len(m.DoF()))
	}
	var errAll error
	poses := make([]spatialmath.FloatPose, 0, len(m.OrdTransforms))
	composed := spatialmath.NewZeroPose[scalar.Float]()
	posIdx := 0
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		pose, err := transform.Transform(inputs[posIdx:dof])
		posIdx = dof
		multierr.AppendInto(&errAll, err)
		composed = spatialmath.Compose(composed, pose)
		if collectAll {
			poses = append(poses, composed)
		}
	}
	if !collectAll {
		poses = append(poses, composed)
	}
	return poses, errAll
}

// AreJointPositionsValid checks whether the given joint positions violate
// any joint limits.
func (m *SimpleModel) AreJointPositionsValid(pos []float64) bool {
	limits := m.DoF()
	if len(pos) != len(limits) {
		return false
	}
	for i := range limits {
		if pos[i] < limits[i].Min || pos[i] > limits[i].Max {
			return false
		}
	}
	return true
}

// DoF returns the limits of each degree of freedom of the chain, in order.
func (m *SimpleModel) DoF() []Limit {
	m.lock.RLock()
	if len(m.limits) > 0 {
		defer m.lock.RUnlock()
		return m.limits
	}
	m.lock.RUnlock()

	limits := make([]Limit, 0)
	for _, transform := range m.OrdTransforms {
		limits = append(limits, transform.DoF()...)
	}
	m.lock.Lock()
	m.limits = limits
	m.lock.Unlock()
	return limits
}

// AlmostEquals returns true if the only difference between this model and
// another is floating point imprecision.
func (m *SimpleModel) AlmostEquals(otherFrame Frame) bool {
	other, ok := otherFrame.(*SimpleModel)
	if !ok || m.name != other.name || len(m.OrdTransforms) != len(other.OrdTransforms) {
		return false
	}
	for idx, f := range m.OrdTransforms {
		if !f.AlmostEquals(other.OrdTransforms[idx]) {
			return false
		}
	}
	return true
}

// GenerateRandomJointPositions generates a list of joint positions that are
// random but valid for each joint of the model.
func GenerateRandomJointPositions(m *SimpleModel, randSeed *rand.Rand) []float64 {
	limits := m.DoF()
	jointPos := make([]float64, 0, len(limits))
	for i := 0; i < len(limits); i++ {
		l, u := limits[i].Min, limits[i].Max
		if l == math.Inf(-1) {
			l = -999
		}
		if u == math.Inf(1) {
			u = 999
		}
		jointPos = append(jointPos, randSeed.Float64()*(u-l)+l)
	}
	return jointPos
}
