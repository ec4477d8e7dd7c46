package referenceframe

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

func TestParseURDFFile(t *testing.T) {
	model, err := ParseURDFFile("testdata/arm7.urdf", "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "example_arm7")
	test.That(t, len(model.DoF()), test.ShouldEqual, 7)

	dof := model.DoF()
	test.That(t, dof[0], test.ShouldResemble, Limit{-2.9, 2.9})
	test.That(t, dof[1], test.ShouldResemble, Limit{-2.0, 2.0})

	// at the zero configuration the arm points straight up; total link
	// lengths sum to 1.35
	pose, err := model.Transform(make([]Input, 7))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.Point(pose), r3.Vector{Z: 1.35}, 1e-9), test.ShouldBeTrue)
}

func TestParseURDFFileErrors(t *testing.T) {
	_, err := ParseURDFFile("testdata/does_not_exist.urdf", "")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = UnmarshalModelXML([]byte{}, "")
	test.That(t, err, test.ShouldEqual, ErrNoModelInformation)

	_, err = UnmarshalModelXML([]byte("not xml at all"), "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnmarshalJointTypes(t *testing.T) {
	const urdf = `<?xml version="1.0"?>
<robot name="mixed">
  <link name="base"/><link name="l1"/><link name="l2"/><link name="l3"/>
  <joint name="spin" type="continuous">
    <parent link="base"/><child link="l1"/>
    <origin xyz="0 0 0.5" rpy="0 0 0"/>
    <axis xyz="0 0 1"/>
  </joint>
  <joint name="slide" type="prismatic">
    <parent link="l1"/><child link="l2"/>
    <origin xyz="0 0 0" rpy="0 0 0"/>
    <axis xyz="1 0 0"/>
    <limit lower="-0.3" upper="0.3"/>
  </joint>
  <joint name="mount" type="fixed">
    <parent link="l2"/><child link="l3"/>
    <origin xyz="0 0 0.1" rpy="0 0 0"/>
  </joint>
</robot>`
	model, err := UnmarshalModelXML([]byte(urdf), "")
	test.That(t, err, test.ShouldBeNil)

	dof := model.DoF()
	test.That(t, len(dof), test.ShouldEqual, 2)
	test.That(t, math.IsInf(dof[0].Min, -1), test.ShouldBeTrue)
	test.That(t, math.IsInf(dof[0].Max, 1), test.ShouldBeTrue)
	test.That(t, dof[1], test.ShouldResemble, Limit{-0.3, 0.3})

	// slide 0.2 along x, fixed mount adds 0.1 z
	pose, err := model.Transform([]Input{{0}, {0.2}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.Point(pose), r3.Vector{X: 0.2, Z: 0.6}, 1e-9), test.ShouldBeTrue)
}

func TestUnmarshalRejectsUnknownJointType(t *testing.T) {
	const urdf = `<?xml version="1.0"?>
<robot name="bad">
  <link name="base"/><link name="l1"/>
  <joint name="j" type="floating">
    <parent link="base"/><child link="l1"/>
    <origin xyz="0 0 0" rpy="0 0 0"/>
  </joint>
</robot>`
	_, err := UnmarshalModelXML([]byte(urdf), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported joint type")
}

func TestUnmarshalRevoluteMissingLimit(t *testing.T) {
	const urdf = `<?xml version="1.0"?>
<robot name="bad">
  <link name="base"/><link name="l1"/>
  <joint name="j" type="revolute">
    <parent link="base"/><child link="l1"/>
    <origin xyz="0 0 0" rpy="0 0 0"/>
    <axis xyz="0 0 1"/>
  </joint>
</robot>`
	_, err := UnmarshalModelXML([]byte(urdf), "")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnmarshalJointDocumentOrder(t *testing.T) {
	// the same two-revolute arm twice, once with joints listed root first
	// and once with the elbow listed before the shoulder
	const ordered = `<?xml version="1.0"?>
<robot name="arm2">
  <link name="base"/><link name="l1"/><link name="l2"/><link name="tip"/>
  <joint name="shoulder" type="revolute">
    <parent link="base"/><child link="l1"/>
    <origin xyz="0 0 0" rpy="0 0 0"/>
    <axis xyz="0 1 0"/>
    <limit lower="-3.1" upper="3.1"/>
  </joint>
  <joint name="elbow" type="revolute">
    <parent link="l1"/><child link="l2"/>
    <origin xyz="0 0 0.5" rpy="0 0 0"/>
    <axis xyz="0 1 0"/>
    <limit lower="-3.1" upper="3.1"/>
  </joint>
  <joint name="tip_mount" type="fixed">
    <parent link="l2"/><child link="tip"/>
    <origin xyz="0 0 0.5" rpy="0 0 0"/>
  </joint>
</robot>`
	const shuffled = `<?xml version="1.0"?>
<robot name="arm2">
  <link name="base"/><link name="l1"/><link name="l2"/><link name="tip"/>
  <joint name="tip_mount" type="fixed">
    <parent link="l2"/><child link="tip"/>
    <origin xyz="0 0 0.5" rpy="0 0 0"/>
  </joint>
  <joint name="elbow" type="revolute">
    <parent link="l1"/><child link="l2"/>
    <origin xyz="0 0 0.5" rpy="0 0 0"/>
    <axis xyz="0 1 0"/>
    <limit lower="-3.1" upper="3.1"/>
  </joint>
  <joint name="shoulder" type="revolute">
    <parent link="base"/><child link="l1"/>
    <origin xyz="0 0 0" rpy="0 0 0"/>
    <axis xyz="0 1 0"/>
    <limit lower="-3.1" upper="3.1"/>
  </joint>
</robot>`

	modelOrdered, err := UnmarshalModelXML([]byte(ordered), "")
	test.That(t, err, test.ShouldBeNil)
	modelShuffled, err := UnmarshalModelXML([]byte(shuffled), "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, modelOrdered.AlmostEquals(modelShuffled), test.ShouldBeTrue)

	// shoulder bent ninety degrees swings the whole arm from +z to +x
	bent := []Input{{math.Pi / 2}, {0}}
	poseOrdered, err := modelOrdered.Transform(bent)
	test.That(t, err, test.ShouldBeNil)
	poseShuffled, err := modelShuffled.Transform(bent)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.R3VectorAlmostEqual(spatialmath.Point(poseOrdered), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	test.That(t, spatialmath.PoseAlmostEqual(poseShuffled, poseOrdered), test.ShouldBeTrue)
}

func TestUnmarshalRejectsBranchingTree(t *testing.T) {
	const urdf = `<?xml version="1.0"?>
<robot name="branching">
  <link name="base"/><link name="left"/><link name="right"/>
  <joint name="j_left" type="fixed">
    <parent link="base"/><child link="left"/>
    <origin xyz="0 0 0.1" rpy="0 0 0"/>
  </joint>
  <joint name="j_right" type="fixed">
    <parent link="base"/><child link="right"/>
    <origin xyz="0 0.1 0" rpy="0 0 0"/>
  </joint>
</robot>`
	_, err := UnmarshalModelXML([]byte(urdf), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "parent of multiple joints")
}

func TestUnmarshalRejectsDisconnectedChains(t *testing.T) {
	const urdf = `<?xml version="1.0"?>
<robot name="disconnected">
  <link name="a0"/><link name="a1"/><link name="b0"/><link name="b1"/>
  <joint name="ja" type="fixed">
    <parent link="a0"/><child link="a1"/>
    <origin xyz="0 0 0.1" rpy="0 0 0"/>
  </joint>
  <joint name="jb" type="fixed">
    <parent link="b0"/><child link="b1"/>
    <origin xyz="0 0 0.2" rpy="0 0 0"/>
  </joint>
</robot>`
	_, err := UnmarshalModelXML([]byte(urdf), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "disconnected")
}

func TestModelNameOverride(t *testing.T) {
	model, err := ParseURDFFile("testdata/arm7.urdf", "lefty")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "lefty")
}
