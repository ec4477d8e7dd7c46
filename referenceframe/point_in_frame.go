package referenceframe

import "github.com/golang/geo/r3"

// PointInFrame is a 3D point tagged with the frame its coordinates are
// expressed in. A point in the World frame is fixed; a point in a moving
// frame rides along with that body as the configuration changes.
type PointInFrame struct {
	frame string
	point r3.Vector
}

// NewPointInFrame generates a new PointInFrame.
func NewPointInFrame(frame string, point r3.Vector) *PointInFrame {
	return &PointInFrame{frame: frame, point: point}
}

// FrameName returns the name of the frame in which the point is expressed.
func (pf *PointInFrame) FrameName() string {
	return pf.frame
}

// Point returns the 3D point.
func (pf *PointInFrame) Point() r3.Vector {
	return pf.point
}
