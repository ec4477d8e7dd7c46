// Package main is a command line tool for solving inverse kinematics over
// URDF arm descriptions: a local gradient solve, a certified global solve,
// symbolic residual extraction, and rendering.
package main

import (
	"fmt"
	"os"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/phelipe/interval-inverse-kinematics/kinematics"
	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/utils"
	"github.com/phelipe/interval-inverse-kinematics/viz"
)

var logger = golog.NewDevelopmentLogger("ikdemo")

func main() {
	app := &cli.App{
		Name:            "ikdemo",
		Usage:           "solve inverse kinematics for URDF arms",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "urdf",
				Usage:    "load the arm description from `FILE`",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "target",
				Usage: "target point in world coordinates as \"X Y Z\" in meters",
				Value: "0.5 0.5 0.5",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "solve",
				Usage:  "run the local gradient solver",
				Action: solveAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "render",
						Usage: "write a PNG of the solved arm to `FILE`",
					},
					&cli.StringFlag{
						Name:  "plot",
						Usage: "write a PNG convergence plot to `FILE`",
					},
				},
			},
			{
				Name:   "global",
				Usage:  "run the global interval solver and print the certified enclosure",
				Action: globalAction,
				Flags: []cli.Flag{
					&cli.Float64Flag{
						Name:  "tolerance",
						Usage: "stop once the enclosure width is below this",
						Value: 1e-3,
					},
				},
			},
			{
				Name:   "symbolic",
				Usage:  "print the closed-form residual expression",
				Action: symbolicAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "gradient",
						Usage: "also print the partial derivatives",
					},
				},
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}

// problem bundles everything the solver commands share.
type problem struct {
	fs     *referenceframe.FrameSystem
	model  *referenceframe.SimpleModel
	point  *referenceframe.PointInFrame
	target *referenceframe.PointInFrame
}

func loadProblem(c *cli.Context) (*problem, error) {
	model, err := referenceframe.ParseURDFFile(c.String("urdf"), "arm")
	if err != nil {
		return nil, err
	}
	fs := referenceframe.NewEmptyFrameSystem("ikdemo")
	if err := fs.AddFrame(model, fs.World()); err != nil {
		return nil, err
	}

	coords := utils.SpaceDelimitedStringToFloatSlice(c.String("target"))
	if len(coords) != 3 {
		return nil, errors.Errorf("target needs 3 coordinates, got %d", len(coords))
	}
	return &problem{
		fs:    fs,
		model: model,
		point: referenceframe.NewPointInFrame(model.Name(), r3.Vector{}),
		target: referenceframe.NewPointInFrame(
			referenceframe.World,
			r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]},
		),
	}, nil
}

func solveAction(c *cli.Context) error {
	prob, err := loadProblem(c)
	if err != nil {
		return err
	}
	ik, err := kinematics.NewNloptIK(prob.fs, prob.point, prob.target, logger)
	if err != nil {
		return err
	}

	seed := make([]float64, len(prob.fs.DoF()))
	solution, residual, err := ik.Solve(c.Context, seed)
	if err != nil {
		return err
	}
	logger.Infow("solved", "residual", residual)
	for i, q := range solution {
		fmt.Printf("q%d = %+.6f rad\n", i, q)
	}

	if out := c.String("render"); out != "" {
		inputs := referenceframe.FloatsToInputs(solution)
		if err := viz.RenderArm(prob.model, inputs, prob.target.Point(), viz.DefaultRenderOptions(), out); err != nil {
			return err
		}
		logger.Infow("wrote render", "file", out)
	}
	if out := c.String("plot"); out != "" {
		if err := viz.PlotConvergence(ik.History(), out); err != nil {
			return err
		}
		logger.Infow("wrote convergence plot", "file", out)
	}
	return nil
}

func globalAction(c *cli.Context) error {
	prob, err := loadProblem(c)
	if err != nil {
		return err
	}
	ik, err := kinematics.NewIntervalIK(prob.fs, prob.point, prob.target, c.Float64("tolerance"), logger)
	if err != nil {
		return err
	}

	enclosure, err := ik.Minimize(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("certified minimum distance in [%.6f, %.6f] m\n", enclosure.Lower, enclosure.Upper)
	fmt.Printf("minimizer region: %d boxes\n", len(enclosure.Boxes))
	for i, q := range enclosure.Best {
		fmt.Printf("q%d = %+.6f rad\n", i, q)
	}
	return nil
}

func symbolicAction(c *cli.Context) error {
	prob, err := loadProblem(c)
	if err != nil {
		return err
	}
	residual, vars, err := kinematics.SymbolicResidual(prob.fs, prob.point, prob.target)
	if err != nil {
		return err
	}
	fmt.Printf("residual(%d joints) = %s\n", len(vars), residual)

	if c.Bool("gradient") {
		grad, err := kinematics.SymbolicGradient(prob.fs, prob.point, prob.target)
		if err != nil {
			return err
		}
		for i, g := range grad {
			fmt.Printf("d/dq%d = %s\n", i, g)
		}
	}
	return nil
}
