package referenceframe

import (
	"errors"
	"strings"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"

	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

// World is the name of the root frame of every FrameSystem.
const World = "world"

// FrameSystem represents a tree of frames connected to each other, allowing
// for transformations between any two frames. Frames are kept in insertion
// order; that order is the canonical ordering of the system's degrees of
// freedom. A FrameSystem is read-only once built.
type FrameSystem struct {
	name    string
	world   Frame
	frames  map[string]Frame
	parents map[string]string
	order   []string
}

// NewEmptyFrameSystem creates a FrameSystem with only a world frame.
func NewEmptyFrameSystem(name string) *FrameSystem {
	return &FrameSystem{
		name:    name,
		world:   NewZeroStaticFrame(World),
		frames:  map[string]Frame{},
		parents: map[string]string{},
	}
}

// Name returns the name of the FrameSystem.
func (fs *FrameSystem) Name() string {
	return fs.name
}

// World returns the root frame of the FrameSystem.
func (fs *FrameSystem) World() Frame {
	return fs.world
}

func (fs *FrameSystem) frameExists(name string) bool {
	if name == World {
		return true
	}
	_, ok := fs.frames[name]
	return ok
}

// GetFrame returns the frame with the given name, or nil if absent.
func (fs *FrameSystem) GetFrame(name string) Frame {
	if name == World {
		return fs.world
	}
	return fs.frames[name]
}

// FrameNames returns the names of all frames in the system, in insertion
// order, excluding world.
func (fs *FrameSystem) FrameNames() []string {
	names := make([]string, len(fs.order))
	copy(names, fs.order)
	return names
}

// AddFrame inserts a Frame into the system as a child of the parent frame.
func (fs *FrameSystem) AddFrame(frame, parent Frame) error {
	if parent == nil {
		return NewParentFrameMissingError()
	}
	if !fs.frameExists(parent.Name()) {
		return NewFrameMissingError(parent.Name())
	}
	if fs.frameExists(frame.Name()) {
		return NewFrameAlreadyExistsError(frame.Name())
	}
	fs.frames[frame.Name()] = frame
	fs.parents[frame.Name()] = parent.Name()
	fs.order = append(fs.order, frame.Name())
	return nil
}

var errNoParent = errors.New("no parent")

// Parent returns the parent frame of the given frame. World has no parent.
func (fs *FrameSystem) Parent(frame Frame) (Frame, error) {
	if !fs.frameExists(frame.Name()) {
		return nil, NewFrameMissingError(frame.Name())
	}
	if frame.Name() == World {
		return nil, errNoParent
	}
	return fs.GetFrame(fs.parents[frame.Name()]), nil
}

// TracebackFrame traces the parentage of the given frame up to the world,
// and returns the full list of frames in between, query frame and world
// included.
func (fs *FrameSystem) TracebackFrame(query Frame) ([]Frame, error) {
	if !fs.frameExists(query.Name()) {
		return nil, NewFrameMissingError(query.Name())
	}
	if query.Name() == World {
		return []Frame{query}, nil
	}
	parents, err := fs.TracebackFrame(fs.GetFrame(fs.parents[query.Name()]))
	if err != nil {
		return nil, err
	}
	return append([]Frame{query}, parents...), nil
}

// DoF returns the limits of every degree of freedom in the system, in
// canonical (insertion) order.
func (fs *FrameSystem) DoF() []Limit {
	var limits []Limit
	for _, name := range fs.order {
		limits = append(limits, fs.frames[name].DoF()...)
	}
	return limits
}

// MobileFrames returns the frames with nonzero degrees of freedom, in
// canonical order.
func (fs *FrameSystem) MobileFrames() []Frame {
	var mobile []Frame
	for _, name := range fs.order {
		if f := fs.frames[name]; len(f.DoF()) > 0 {
			mobile = append(mobile, f)
		}
	}
	return mobile
}

// StartPositions returns a zeroed input map ensuring all frames have inputs.
func StartPositions(fs *FrameSystem) map[string][]Input {
	positions := make(map[string][]Input)
	for _, fn := range fs.FrameNames() {
		if frame := fs.GetFrame(fn); frame != nil {
			positions[fn] = make([]Input, len(frame.DoF()))
		}
	}
	return positions
}

// GetFrameInputs returns the inputs in positions corresponding to the given
// frame. Immobile frames need no entry.
func GetFrameInputs(frame Frame, positions map[string][]Input) ([]Input, error) {
	if len(frame.DoF()) == 0 {
		return []Input{}, nil
	}
	inputs, ok := positions[frame.Name()]
	if !ok {
		return nil, NewFrameMissingError(frame.Name())
	}
	return inputs, nil
}

// TransformPoint expresses a point in the coordinates of the dst frame,
// using the given joint positions. Out-of-bounds positions still compute
// but surface a non-nil error alongside the result.
func (fs *FrameSystem) TransformPoint(positions map[string][]Input, point *PointInFrame, dst string) (r3.Vector, error) {
	if !fs.frameExists(point.FrameName()) {
		return r3.Vector{}, NewFrameMismatchError(point.FrameName(), fs.name)
	}
	if !fs.frameExists(dst) {
		return r3.Vector{}, NewFrameMismatchError(dst, fs.name)
	}

	var errAll error
	srcToWorld, err := fs.composeTransforms(fs.GetFrame(point.FrameName()), positions)
	multierr.AppendInto(&errAll, err)
	dstToWorld, err := fs.composeTransforms(fs.GetFrame(dst), positions)
	multierr.AppendInto(&errAll, err)

	relative := spatialmath.Compose(dstToWorld.Invert(), srcToWorld)
	out := relative.TransformPoint(spatialmath.LiftVector[scalar.Float](point.Point()))
	return spatialmath.FloatVectorToR3(out), errAll
}

// composeTransforms walks from the input frame to the world frame,
// composing transforms along the way.
func (fs *FrameSystem) composeTransforms(frame Frame, positions map[string][]Input) (spatialmath.FloatPose, error) {
	q := spatialmath.NewZeroPose[scalar.Float]()
	var errAll error
	for frame.Name() != World {
		inputs, err := GetFrameInputs(frame, positions)
		if err != nil {
			return spatialmath.FloatPose{}, err
		}
		// Transform() gives FROM the frame TO its parent; add new
		// transforms to the left.
		pose, err := frame.Transform(inputs)
		if err != nil && !strings.Contains(err.Error(), OOBErrString) {
			return spatialmath.FloatPose{}, err
		}
		multierr.AppendInto(&errAll, err)
		q = spatialmath.Compose(pose, q)
		frame = fs.GetFrame(fs.parents[frame.Name()])
	}
	return q, errAll
}
