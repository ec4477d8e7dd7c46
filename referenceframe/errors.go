package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoModelInformation is returned when a model description holds nothing
// actionable, e.g. an empty URDF file.
var ErrNoModelInformation = errors.New("no model information found")

// NewConfigurationLengthError returns an error for a configuration vector
// whose length does not match the mechanism's degrees of freedom. The
// configuration is never truncated or padded.
func NewConfigurationLengthError(actual, expected int) error {
	return fmt.Errorf("configuration has length %d, mechanism has %d degrees of freedom", actual, expected)
}

// NewFrameMismatchError returns an error for a point whose frame is not
// reachable from the root of the given frame system.
func NewFrameMismatchError(frameName, systemName string) error {
	return fmt.Errorf("frame %q is not part of frame system %q", frameName, systemName)
}

// NewFrameMissingError returns an error for a frame name with no
// corresponding frame.
func NewFrameMissingError(frameName string) error {
	return fmt.Errorf("frame with name %q not in frame system", frameName)
}

// NewFrameAlreadyExistsError returns an error for adding a frame whose name
// is already taken.
func NewFrameAlreadyExistsError(frameName string) error {
	return fmt.Errorf("frame with name %q already in frame system", frameName)
}

// NewParentFrameMissingError returns an error indicating that a frame is
// missing a parent.
func NewParentFrameMissingError() error {
	return errors.New("parent frame is nil")
}

// NewUnsupportedFrameTypeError returns an error for a Frame implementation
// the generic transform path does not know how to evaluate.
func NewUnsupportedFrameTypeError(f Frame) error {
	return fmt.Errorf("frame type %T not supported for generic evaluation", f)
}

// NewUnsupportedJointTypeError returns an error for an unsupported URDF
// joint type.
func NewUnsupportedJointTypeError(jointType string) error {
	return fmt.Errorf("unsupported joint type %q", jointType)
}
