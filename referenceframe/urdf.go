package referenceframe

import (
	"encoding/xml"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
	"github.com/phelipe/interval-inverse-kinematics/utils"
)

// Supported URDF joint types.
const (
	ContinuousJoint = "continuous"
	RevoluteJoint   = "revolute"
	PrismaticJoint  = "prismatic"
	FixedJoint      = "fixed"
)

// URDFConfig represents all supported fields in a Universal Robot
// Description Format (URDF) file.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Links   []URDFLink  `xml:"link"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLink details the XML used in a URDF link element.
type URDFLink struct {
	XMLName xml.Name `xml:"link"`
	Name    string   `xml:"name,attr"`
}

// URDFJoint details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Parent  URDFFrame  `xml:"parent"`
	Child   URDFFrame  `xml:"child"`
	Origin  *URDFPose  `xml:"origin,omitempty"`
	Axis    *URDFAxis  `xml:"axis,omitempty"`
	Limit   *URDFLimit `xml:"limit,omitempty"`
}

// URDFFrame references a link by name within a joint element.
type URDFFrame struct {
	Link string `xml:"link,attr"`
}

// URDFPose is a URDF origin element: xyz in meters, rpy in radians.
type URDFPose struct {
	XMLName xml.Name `xml:"origin"`
	XYZ     string   `xml:"xyz,attr"`
	RPY     string   `xml:"rpy,attr"`
}

// URDFAxis is a URDF axis element, a space delimited unit vector.
type URDFAxis struct {
	XMLName xml.Name `xml:"axis"`
	XYZ     string   `xml:"xyz,attr"`
}

// Parse returns the axis as a vector.
func (ua *URDFAxis) Parse() r3.Vector {
	jointAxes := utils.SpaceDelimitedStringToFloatSlice(ua.XYZ)
	return r3.Vector{X: jointAxes[0], Y: jointAxes[1], Z: jointAxes[2]}
}

// URDFLimit is a URDF limit element. Translation limits are in meters,
// revolute limits are in radians.
type URDFLimit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"`
	Upper   float64  `xml:"upper,attr"`
}

func (up *URDFPose) pose() spatialmath.FloatPose {
	if up == nil {
		return spatialmath.NewFloatPoseFromPoint(r3.Vector{})
	}
	xyz := utils.SpaceDelimitedStringToFloatSlice(up.XYZ)
	rpy := utils.SpaceDelimitedStringToFloatSlice(up.RPY)
	point := r3.Vector{}
	if len(xyz) == 3 {
		point = r3.Vector{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	}
	ea := spatialmath.EulerAngles{}
	if len(rpy) == 3 {
		ea = spatialmath.EulerAngles{Roll: rpy[0], Pitch: rpy[1], Yaw: rpy[2]}
	}
	return spatialmath.NewFloatPose(point, ea.Quaternion())
}

// ParseURDFFile reads a given file and parses the contained URDF XML data
// into a model. An empty modelName keeps the robot name from the file.
func ParseURDFFile(filename, modelName string) (*SimpleModel, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return UnmarshalModelXML(xmlData, modelName)
}

// orderJoints sorts joints into serial chain order by walking the
// parent/child link graph from the root link. URDF imposes no ordering on
// joint elements, so document order cannot be trusted. Branching trees and
// disconnected graphs are rejected.
func orderJoints(joints []URDFJoint) ([]URDFJoint, error) {
	byParent := map[string]URDFJoint{}
	isChild := map[string]bool{}
	for _, joint := range joints {
		if _, ok := byParent[joint.Parent.Link]; ok {
			return nil, errors.Errorf("link %q is the parent of multiple joints, only serial chains are supported", joint.Parent.Link)
		}
		byParent[joint.Parent.Link] = joint
		if isChild[joint.Child.Link] {
			return nil, errors.Errorf("link %q is the child of multiple joints", joint.Child.Link)
		}
		isChild[joint.Child.Link] = true
	}

	root := ""
	for _, joint := range joints {
		if isChild[joint.Parent.Link] {
			continue
		}
		if root != "" && root != joint.Parent.Link {
			return nil, errors.Errorf("links %q and %q are both roots, joint graph is disconnected", root, joint.Parent.Link)
		}
		root = joint.Parent.Link
	}
	if root == "" && len(joints) > 0 {
		return nil, errors.New("no root link found, joint graph contains a cycle")
	}

	ordered := make([]URDFJoint, 0, len(joints))
	for link := root; ; {
		joint, ok := byParent[link]
		if !ok {
			break
		}
		ordered = append(ordered, joint)
		link = joint.Child.Link
	}
	if len(ordered) != len(joints) {
		return nil, errors.Errorf("joint graph is disconnected, chained %d of %d joints", len(ordered), len(joints))
	}
	return ordered, nil
}

// UnmarshalModelXML converts URDF XML data into a serial chain model.
// Joints are ordered by walking the parent/child link graph from the root;
// each joint contributes its origin as a static segment followed by the
// moving segment itself. Fixed joints contribute only the static segment.
func UnmarshalModelXML(xmlData []byte, modelName string) (*SimpleModel, error) {
	// empty data probably means the URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "failed to convert URDF data to equivalent URDFConfig struct")
	}
	if modelName == "" {
		modelName = urdf.Name
	}

	joints, err := orderJoints(urdf.Joints)
	if err != nil {
		return nil, err
	}

	model := NewSimpleModel(modelName)
	for _, jointElem := range joints {
		if jointElem.Name == World {
			return nil, errors.New("joints with the name 'world' are not supported")
		}

		// The transform from the parent link to this joint's frame is
		// static regardless of joint type.
		model.OrdTransforms = append(model.OrdTransforms,
			NewStaticFrame(jointElem.Name+"_origin", jointElem.Origin.pose()))

		axis := r3.Vector{Z: 1}
		if jointElem.Axis != nil {
			axis = jointElem.Axis.Parse()
		}

		var limit Limit
		switch jointElem.Type {
		case ContinuousJoint:
			limit = Limit{Min: math.Inf(-1), Max: math.Inf(1)}
		case RevoluteJoint, PrismaticJoint:
			if jointElem.Limit == nil {
				return nil, errors.Errorf("joint %q of type %q has no limit element", jointElem.Name, jointElem.Type)
			}
			limit = Limit{Min: jointElem.Limit.Lower, Max: jointElem.Limit.Upper}
		}

		switch jointElem.Type {
		case ContinuousJoint, RevoluteJoint:
			frame, err := NewRotationalFrame(jointElem.Name, axis, limit)
			if err != nil {
				return nil, err
			}
			model.OrdTransforms = append(model.OrdTransforms, frame)
		case PrismaticJoint:
			frame, err := NewTranslationalFrame(jointElem.Name, axis, limit)
			if err != nil {
				return nil, err
			}
			model.OrdTransforms = append(model.OrdTransforms, frame)
		case FixedJoint:
			// static origin already appended above
		default:
			return nil, NewUnsupportedJointTypeError(jointElem.Type)
		}
	}

	if len(model.OrdTransforms) == 0 {
		return nil, ErrNoModelInformation
	}
	return model, nil
}
