package bandmath

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// value is either a scalar or a whole band. Bands bound to the environment
// are shared between references, so operations always write to a fresh
// slice.
type value struct {
	grid   []float64
	scalar float64
}

func (v *value) isGrid() bool {
	return v.grid != nil
}

func (l Literal) eval([]*value) (*value, error) {
	return &value{scalar: float64(l)}, nil
}

func (b BandRef) eval(env []*value) (*value, error) {
	if int(b) > len(env) {
		return nil, fmt.Errorf("%s is not bound, only %d band(s) supplied", b, len(env))
	}
	return env[b-1], nil
}

func (n Neg) eval(env []*value) (*value, error) {
	x, err := n.X.eval(env)
	if err != nil {
		return nil, err
	}
	if !x.isGrid() {
		return &value{scalar: -x.scalar}, nil
	}
	dst := make([]float64, len(x.grid))
	floats.ScaleTo(dst, -1, x.grid)
	return &value{grid: dst}, nil
}

func (b Binary) eval(env []*value) (*value, error) {
	l, err := b.L.eval(env)
	if err != nil {
		return nil, err
	}
	r, err := b.R.eval(env)
	if err != nil {
		return nil, err
	}
	if !l.isGrid() && !r.isGrid() {
		return &value{scalar: apply(b.Op, l.scalar, r.scalar)}, nil
	}

	n := len(l.grid)
	if n == 0 {
		n = len(r.grid)
	}
	dst := make([]float64, n)

	switch {
	case l.isGrid() && r.isGrid():
		switch b.Op {
		case Add:
			floats.AddTo(dst, l.grid, r.grid)
		case Sub:
			floats.SubTo(dst, l.grid, r.grid)
		case Mul:
			floats.MulTo(dst, l.grid, r.grid)
		case Div:
			floats.DivTo(dst, l.grid, r.grid)
		default:
			for i := range dst {
				dst[i] = apply(b.Op, l.grid[i], r.grid[i])
			}
		}
	case l.isGrid():
		switch b.Op {
		case Add:
			copy(dst, l.grid)
			floats.AddConst(r.scalar, dst)
		case Sub:
			copy(dst, l.grid)
			floats.AddConst(-r.scalar, dst)
		case Mul:
			floats.ScaleTo(dst, r.scalar, l.grid)
		default:
			for i := range dst {
				dst[i] = apply(b.Op, l.grid[i], r.scalar)
			}
		}
	default:
		switch b.Op {
		case Add:
			copy(dst, r.grid)
			floats.AddConst(l.scalar, dst)
		case Mul:
			floats.ScaleTo(dst, l.scalar, r.grid)
		default:
			for i := range dst {
				dst[i] = apply(b.Op, l.scalar, r.grid[i])
			}
		}
	}
	return &value{grid: dst}, nil
}

// apply evaluates op on two samples. Comparisons involving NaN are false,
// and division by zero follows IEEE 754.
func apply(op Op, a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Sub:
		return a - b
	case Mul:
		return a * b
	case Div:
		return a / b
	case Less:
		return truth(a < b)
	case LessEq:
		return truth(a <= b)
	case Greater:
		return truth(a > b)
	case GreaterEq:
		return truth(a >= b)
	case Equal:
		return truth(a == b)
	case NotEqual:
		return truth(a != b)
	case And:
		return truth(a != 0 && b != 0)
	case Or:
		return truth(a != 0 || b != 0)
	}
	panic(fmt.Sprintf("bandmath: unknown operator %d", int(op)))
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
