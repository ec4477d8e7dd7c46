// Package kinematics formulates inverse kinematics as scalar cost
// minimization. The central piece is a distance cost closure produced by
// NewDistanceCost: a pure function from joint configurations to the
// Euclidean distance between a point on the mechanism and a target point.
// Because the closure is generic over the scalar type, the same function
// body serves plain evaluation, gradient evaluation via dual numbers,
// guaranteed global bounds via intervals, and symbolic extraction.
package kinematics

import (
	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

// CostFunc maps a configuration of N scalars to a non-negative residual.
// The configuration is read, never retained; each call is independent.
type CostFunc[T scalar.Scalar[T]] func(configuration []T) (T, error)

// frameChunk assigns a mobile frame its slice of the flat configuration
// vector, following the frame system's canonical ordering.
type frameChunk struct {
	name   string
	lo, hi int
}

// evalState is the reusable per-scalar-type evaluation context: mechanism
// constants lifted into T once, then reused on every call of the owning
// closure. One closure instantiation owns exactly one state, so scalar
// types can never cross-contaminate; a state must not be shared across
// evaluations in flight at once.
type evalState[T scalar.Scalar[T]] struct {
	static map[string]spatialmath.Pose[T]
	point  spatialmath.Vector[T]
	target spatialmath.Vector[T]
}

// NewDistanceCost returns the scalar cost of a configuration: the Euclidean
// distance between pointOnBody and target, both expressed in target's
// frame. The frame system is read-only and may back any number of cost
// closures; each returned closure owns its own evaluation state and must
// not be called concurrently with itself.
func NewDistanceCost[T scalar.Scalar[T]](
	fs *referenceframe.FrameSystem,
	pointOnBody, target *referenceframe.PointInFrame,
) (CostFunc[T], error) {
	srcChain, err := chainToWorld(fs, pointOnBody.FrameName())
	if err != nil {
		return nil, err
	}
	dstChain, err := chainToWorld(fs, target.FrameName())
	if err != nil {
		return nil, err
	}

	// canonical configuration ordering: insertion order of mobile frames
	var chunks []frameChunk
	n := 0
	for _, f := range fs.MobileFrames() {
		dof := len(f.DoF())
		chunks = append(chunks, frameChunk{f.Name(), n, n + dof})
		n += dof
	}

	state := &evalState[T]{
		static: map[string]spatialmath.Pose[T]{},
		point:  spatialmath.LiftVector[T](pointOnBody.Point()),
		target: spatialmath.LiftVector[T](target.Point()),
	}

	return func(configuration []T) (T, error) {
		var zero T
		if len(configuration) != n {
			return zero, referenceframe.NewConfigurationLengthError(len(configuration), n)
		}
		inputs := make(map[string][]T, len(chunks))
		for _, c := range chunks {
			inputs[c.name] = configuration[c.lo:c.hi]
		}

		srcToWorld, err := composeChain(state, srcChain, inputs)
		if err != nil {
			return zero, err
		}
		dstToWorld, err := composeChain(state, dstChain, inputs)
		if err != nil {
			return zero, err
		}

		// express the body point in the target's frame, then measure
		relative := spatialmath.Compose(dstToWorld.Invert(), srcToWorld)
		displaced := relative.TransformPoint(state.point).Sub(state.target)
		return displaced.Norm(), nil
	}, nil
}

// chainToWorld resolves a frame name to its parentage chain, query first,
// world last.
func chainToWorld(fs *referenceframe.FrameSystem, name string) ([]referenceframe.Frame, error) {
	frame := fs.GetFrame(name)
	if frame == nil {
		return nil, referenceframe.NewFrameMismatchError(name, fs.Name())
	}
	return fs.TracebackFrame(frame)
}

// composeChain multiplies the transforms along a parentage chain, leaf to
// world, yielding the pose of the leaf frame in world coordinates. Static
// segments are lifted into T once and memoized in the state.
func composeChain[T scalar.Scalar[T]](
	state *evalState[T],
	chain []referenceframe.Frame,
	inputs map[string][]T,
) (spatialmath.Pose[T], error) {
	q := spatialmath.NewZeroPose[T]()
	for _, frame := range chain {
		if frame.Name() == referenceframe.World {
			break
		}
		var pose spatialmath.Pose[T]
		if len(frame.DoF()) == 0 {
			cached, ok := state.static[frame.Name()]
			if !ok {
				var err error
				cached, err = referenceframe.FrameTransform(frame, []T{})
				if err != nil {
					return spatialmath.Pose[T]{}, err
				}
				state.static[frame.Name()] = cached
			}
			pose = cached
		} else {
			var err error
			pose, err = referenceframe.FrameTransform(frame, inputs[frame.Name()])
			if err != nil {
				return spatialmath.Pose[T]{}, err
			}
		}
		// Transform goes FROM the frame TO its parent; add new transforms
		// to the left.
		q = spatialmath.Compose(pose, q)
	}
	return q, nil
}
