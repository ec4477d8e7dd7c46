package kinematics

import (
	"github.com/phelipe/interval-inverse-kinematics/referenceframe"
	"github.com/phelipe/interval-inverse-kinematics/sym"
)

// SymbolicResidual builds the closed-form distance residual of the frame
// system as an expression tree over joint variables q0..qN-1. The same
// cost closure that numeric solvers evaluate is run once over symbolic
// scalars; what falls out is the formula itself, ready for printing,
// differentiation, or export.
func SymbolicResidual(
	fs *referenceframe.FrameSystem,
	pointOnBody, target *referenceframe.PointInFrame,
) (sym.Expr, []sym.Expr, error) {
	cost, err := NewDistanceCost[sym.Expr](fs, pointOnBody, target)
	if err != nil {
		return sym.Expr{}, nil, err
	}
	vars := sym.Vars("q", len(fs.DoF()))
	residual, err := cost(vars)
	if err != nil {
		return sym.Expr{}, nil, err
	}
	return residual, vars, nil
}

// SymbolicGradient differentiates the residual with respect to each joint
// variable, returning one expression per degree of freedom.
func SymbolicGradient(
	fs *referenceframe.FrameSystem,
	pointOnBody, target *referenceframe.PointInFrame,
) ([]sym.Expr, error) {
	residual, vars, err := SymbolicResidual(fs, pointOnBody, target)
	if err != nil {
		return nil, err
	}
	grad := make([]sym.Expr, len(vars))
	for i := range vars {
		name, _ := vars[i].VarName()
		grad[i] = residual.Diff(name)
	}
	return grad, nil
}
