package referenceframe

import (
	"github.com/phelipe/interval-inverse-kinematics/scalar"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

// FrameTransform computes the pose FROM the frame TO its parent under a
// configuration of any scalar type. It is the generic counterpart of
// Frame.Transform: the float64 path checks joint limits, this path does
// not, because bounded-but-exploratory inputs (interval boxes, symbolic
// placeholders) are the optimizer's concern, not the mechanism's.
func FrameTransform[T scalar.Scalar[T]](f Frame, q []T) (spatialmath.Pose[T], error) {
	if len(q) != len(f.DoF()) {
		return spatialmath.Pose[T]{}, NewConfigurationLengthError(len(q), len(f.DoF()))
	}
	switch fr := f.(type) {
	case *staticFrame:
		return spatialmath.LiftPose[T](fr.transform), nil
	case *rotationalFrame:
		return spatialmath.NewPoseFromAxisAngle(fr.rotAxis, q[0]), nil
	case *translationalFrame:
		axis := spatialmath.LiftVector[T](fr.transAxis)
		return spatialmath.NewPoseFromPoint(axis.Scale(q[0])), nil
	case *SimpleModel:
		return modelTransform(fr, q)
	default:
		return spatialmath.Pose[T]{}, NewUnsupportedFrameTypeError(f)
	}
}

// modelTransform composes a model's ordered frames under a generic
// configuration, splitting the flat vector by each frame's degrees of
// freedom in order.
func modelTransform[T scalar.Scalar[T]](m *SimpleModel, q []T) (spatialmath.Pose[T], error) {
	composed := spatialmath.NewZeroPose[T]()
	posIdx := 0
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		if dof > len(q) {
			return spatialmath.Pose[T]{}, NewConfigurationLengthError(len(q), len(m.DoF()))
		}
		pose, err := FrameTransform(transform, q[posIdx:dof])
		if err != nil {
			return spatialmath.Pose[T]{}, err
		}
		posIdx = dof
		composed = spatialmath.Compose(composed, pose)
	}
	if posIdx != len(q) {
		return spatialmath.Pose[T]{}, NewConfigurationLengthError(len(q), posIdx)
	}
	return composed, nil
}
