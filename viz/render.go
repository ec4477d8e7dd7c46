// Package viz renders arm configurations and solver diagnostics to PNG
// files.
package viz

import (
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/spatialmath"
)

// Projection selects which two world axes map to the image plane.
type Projection int

const (
	// ProjectionXY is a top-down view.
	ProjectionXY Projection = iota
	// ProjectionXZ is a side view.
	ProjectionXZ
)

// RenderOptions control the output image.
type RenderOptions struct {
	Width      int
	Height     int
	Scale      float64 // pixels per meter
	Projection Projection
}

// DefaultRenderOptions is a side view sized for arms with roughly a meter
// of reach.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: 800, Height: 800, Scale: 250, Projection: ProjectionXZ}
}

func (o RenderOptions) project(v r3.Vector) (float64, float64) {
	x, y := v.X, v.Y
	if o.Projection == ProjectionXZ {
		y = v.Z
	}
	// image y grows downward
	return float64(o.Width)/2 + x*o.Scale, float64(o.Height)/2 - y*o.Scale
}

// RenderArm draws the arm's skeleton at the given configuration together
// with the target point and writes a PNG to outPath. Links are drawn as
// segments between consecutive link origins, joints as filled circles, and
// the target as a crosshair.
func RenderArm(
	model *referenceframe.SimpleModel,
	inputs []referenceframe.Input,
	target r3.Vector,
	opts RenderOptions,
	outPath string,
) error {
	poses, err := model.LinkPoses(inputs)
	if err != nil {
		return errors.Wrap(err, "cannot render arm")
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	points := make([]r3.Vector, 0, len(poses)+1)
	points = append(points, r3.Vector{})
	for _, pose := range poses {
		points = append(points, spatialmath.Point(pose))
	}

	dc.SetColor(color.RGBA{R: 60, G: 60, B: 200, A: 255})
	dc.SetLineWidth(4)
	for i := 1; i < len(points); i++ {
		x0, y0 := opts.project(points[i-1])
		x1, y1 := opts.project(points[i])
		dc.DrawLine(x0, y0, x1, y1)
		dc.Stroke()
	}

	dc.SetColor(color.RGBA{R: 40, G: 40, B: 40, A: 255})
	for _, p := range points {
		x, y := opts.project(p)
		dc.DrawCircle(x, y, 6)
		dc.Fill()
	}

	dc.SetColor(color.RGBA{R: 220, G: 40, B: 40, A: 255})
	dc.SetLineWidth(2)
	tx, ty := opts.project(target)
	dc.DrawLine(tx-10, ty, tx+10, ty)
	dc.Stroke()
	dc.DrawLine(tx, ty-10, tx, ty+10)
	dc.Stroke()
	dc.DrawCircle(tx, ty, 8)
	dc.Stroke()

	if err := dc.SavePNG(outPath); err != nil {
		return errors.Wrap(err, "cannot save render")
	}
	return nil
}
