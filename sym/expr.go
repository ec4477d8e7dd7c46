// Package sym is a small symbolic expression kernel. Its Expr type
// satisfies the scalar capability contract, so the same forward-kinematics
// closure that evaluates residuals numerically can be run once over
// symbolic joint variables to produce a closed-form residual expression.
package sym

import (
	"fmt"
	"math"
	"strings"
)

// Expr is an immutable symbolic expression. The zero value is the constant
// zero. Smart constructors fold constants and strip arithmetic identities,
// so mechanically generated expressions stay readable.
type Expr struct {
	n node
}

type node interface {
	eval(env map[string]float64) float64
	diff(name string) Expr
	write(sb *strings.Builder, parentPrec int)
}

const (
	precAdd = 1
	precMul = 2
	precNeg = 3
)

// Var returns a symbolic variable.
func Var(name string) Expr {
	return Expr{varNode(name)}
}

// Vars returns n variables named prefix0 ... prefix<n-1>.
func Vars(prefix string, n int) []Expr {
	out := make([]Expr, n)
	for i := range out {
		out[i] = Var(fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

// NewConst returns a constant expression.
func NewConst(v float64) Expr {
	return Expr{constNode(v)}
}

func (e Expr) norm() node {
	if e.n == nil {
		return constNode(0)
	}
	return e.n
}

func (e Expr) constValue() (float64, bool) {
	c, ok := e.norm().(constNode)
	return float64(c), ok
}

// VarName returns the variable name if the expression is a bare variable.
func (e Expr) VarName() (string, bool) {
	v, ok := e.norm().(varNode)
	return string(v), ok
}

// IsZero reports whether the expression is the constant zero.
func (e Expr) IsZero() bool {
	v, ok := e.constValue()
	return ok && v == 0
}

// Const implements the scalar contract.
func (e Expr) Const(v float64) Expr { return NewConst(v) }

// Add returns e + o.
func (e Expr) Add(o Expr) Expr {
	if a, ok := e.constValue(); ok {
		if b, ok := o.constValue(); ok {
			return NewConst(a + b)
		}
		if a == 0 {
			return o
		}
	}
	if o.IsZero() {
		return e
	}
	return Expr{binNode{opAdd, e, o}}
}

// Sub returns e - o.
func (e Expr) Sub(o Expr) Expr {
	if a, ok := e.constValue(); ok {
		if b, ok := o.constValue(); ok {
			return NewConst(a - b)
		}
	}
	if o.IsZero() {
		return e
	}
	if e.IsZero() {
		return o.Neg()
	}
	return Expr{binNode{opSub, e, o}}
}

// Mul returns e * o.
func (e Expr) Mul(o Expr) Expr {
	if a, ok := e.constValue(); ok {
		if b, ok := o.constValue(); ok {
			return NewConst(a * b)
		}
		switch a {
		case 0:
			return NewConst(0)
		case 1:
			return o
		}
	}
	if b, ok := o.constValue(); ok {
		switch b {
		case 0:
			return NewConst(0)
		case 1:
			return e
		}
	}
	return Expr{binNode{opMul, e, o}}
}

// Neg returns -e.
func (e Expr) Neg() Expr {
	if v, ok := e.constValue(); ok {
		return NewConst(-v)
	}
	return Expr{negNode{e}}
}

// Sqr returns e * e.
func (e Expr) Sqr() Expr {
	if v, ok := e.constValue(); ok {
		return NewConst(v * v)
	}
	return Expr{fnNode{"sqr", e}}
}

// Sqrt returns the square root of e.
func (e Expr) Sqrt() Expr {
	if v, ok := e.constValue(); ok && v >= 0 {
		return NewConst(math.Sqrt(v))
	}
	return Expr{fnNode{"sqrt", e}}
}

// Sin returns the sine of e.
func (e Expr) Sin() Expr {
	if v, ok := e.constValue(); ok {
		return NewConst(math.Sin(v))
	}
	return Expr{fnNode{"sin", e}}
}

// Cos returns the cosine of e.
func (e Expr) Cos() Expr {
	if v, ok := e.constValue(); ok {
		return NewConst(math.Cos(v))
	}
	return Expr{fnNode{"cos", e}}
}

// Eval substitutes variable values and evaluates numerically. Unbound
// variables evaluate to zero.
func (e Expr) Eval(env map[string]float64) float64 {
	return e.norm().eval(env)
}

// Diff returns the partial derivative of e with respect to the named
// variable.
func (e Expr) Diff(name string) Expr {
	return e.norm().diff(name)
}

// String renders the expression with minimal parenthesization.
func (e Expr) String() string {
	var sb strings.Builder
	e.norm().write(&sb, 0)
	return sb.String()
}

type constNode float64

func (c constNode) eval(map[string]float64) float64 { return float64(c) }
func (c constNode) diff(string) Expr                { return NewConst(0) }
func (c constNode) write(sb *strings.Builder, parentPrec int) {
	if c < 0 && parentPrec >= precMul {
		fmt.Fprintf(sb, "(%v)", float64(c))
		return
	}
	fmt.Fprintf(sb, "%v", float64(c))
}

type varNode string

func (v varNode) eval(env map[string]float64) float64 { return env[string(v)] }
func (v varNode) diff(name string) Expr {
	if string(v) == name {
		return NewConst(1)
	}
	return NewConst(0)
}
func (v varNode) write(sb *strings.Builder, _ int) { sb.WriteString(string(v)) }

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
)

type binNode struct {
	op   binOp
	l, r Expr
}

func (b binNode) eval(env map[string]float64) float64 {
	l, r := b.l.Eval(env), b.r.Eval(env)
	switch b.op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	default:
		return l * r
	}
}

func (b binNode) diff(name string) Expr {
	dl, dr := b.l.Diff(name), b.r.Diff(name)
	switch b.op {
	case opAdd:
		return dl.Add(dr)
	case opSub:
		return dl.Sub(dr)
	default:
		return dl.Mul(b.r).Add(b.l.Mul(dr))
	}
}

func (b binNode) write(sb *strings.Builder, parentPrec int) {
	prec, symbol := precAdd, " + "
	switch b.op {
	case opSub:
		symbol = " - "
	case opMul:
		prec, symbol = precMul, "*"
	}
	paren := prec < parentPrec
	if paren {
		sb.WriteByte('(')
	}
	b.l.norm().write(sb, prec)
	sb.WriteString(symbol)
	// right operand of subtraction binds one level tighter
	rightPrec := prec
	if b.op == opSub {
		rightPrec = prec + 1
	}
	b.r.norm().write(sb, rightPrec)
	if paren {
		sb.WriteByte(')')
	}
}

type negNode struct {
	x Expr
}

func (n negNode) eval(env map[string]float64) float64 { return -n.x.Eval(env) }
func (n negNode) diff(name string) Expr               { return n.x.Diff(name).Neg() }
func (n negNode) write(sb *strings.Builder, parentPrec int) {
	paren := precNeg < parentPrec
	if paren {
		sb.WriteByte('(')
	}
	sb.WriteByte('-')
	n.x.norm().write(sb, precNeg)
	if paren {
		sb.WriteByte(')')
	}
}

type fnNode struct {
	name string
	x    Expr
}

func (f fnNode) eval(env map[string]float64) float64 {
	v := f.x.Eval(env)
	switch f.name {
	case "sin":
		return math.Sin(v)
	case "cos":
		return math.Cos(v)
	case "sqrt":
		return math.Sqrt(v)
	default: // sqr
		return v * v
	}
}

func (f fnNode) diff(name string) Expr {
	dx := f.x.Diff(name)
	switch f.name {
	case "sin":
		return f.x.Cos().Mul(dx)
	case "cos":
		return f.x.Sin().Neg().Mul(dx)
	case "sqrt":
		// d sqrt(u) = u' / (2 sqrt(u)); written as 0.5 * u' * u^-1/2 is
		// not expressible without division, so keep the quotient form.
		return Expr{quotNode{dx, NewConst(2).Mul(f.x.Sqrt())}}
	default: // sqr
		return NewConst(2).Mul(f.x).Mul(dx)
	}
}

func (f fnNode) write(sb *strings.Builder, _ int) {
	if f.name == "sqr" {
		f.x.norm().write(sb, precNeg)
		sb.WriteString("^2")
		return
	}
	sb.WriteString(f.name)
	sb.WriteByte('(')
	f.x.norm().write(sb, 0)
	sb.WriteByte(')')
}

// quotNode only ever appears in derivatives of sqrt; the scalar contract
// itself has no division.
type quotNode struct {
	num, den Expr
}

func (q quotNode) eval(env map[string]float64) float64 {
	den := q.den.Eval(env)
	// sqrt derivatives are taken as zero at the singular point, the same
	// convention the dual number scalar uses
	if den == 0 {
		return 0
	}
	return q.num.Eval(env) / den
}

func (q quotNode) diff(name string) Expr {
	dn := q.num.Diff(name).Mul(q.den)
	nd := q.num.Mul(q.den.Diff(name))
	return Expr{quotNode{dn.Sub(nd), q.den.Sqr()}}
}

func (q quotNode) write(sb *strings.Builder, parentPrec int) {
	paren := precMul < parentPrec
	if paren {
		sb.WriteByte('(')
	}
	q.num.norm().write(sb, precMul)
	sb.WriteByte('/')
	q.den.norm().write(sb, precMul+1)
	if paren {
		sb.WriteByte(')')
	}
}
