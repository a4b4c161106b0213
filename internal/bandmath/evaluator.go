// Package bandmath evaluates arithmetic formulas over whole raster bands.
//
// Bands are bound to the positional names B1..Bn in the order their codes are
// supplied, after being scaled from stored digital numbers to reflectance.
package bandmath

import (
	"fmt"

	"github.com/Quason/scene-classification/internal/raster"
	"gonum.org/v1/gonum/floats"
)

// DefaultScale converts Sentinel-2 L1C digital numbers to reflectance.
const DefaultScale = 1e-4

// BandSet maps a band code such as "B04" to the raster holding it.
type BandSet map[string]raster.Source

// Missing returns the codes in want that have no source, in order.
func (s BandSet) Missing(want ...string) []string {
	var missing []string
	for _, code := range want {
		if _, ok := s[code]; !ok {
			missing = append(missing, code)
		}
	}
	return missing
}

// UnresolvedBandError is returned when a requested band code has no source.
type UnresolvedBandError struct {
	Code string
}

func (e *UnresolvedBandError) Error() string {
	return fmt.Sprintf("bandmath: band %s has no source", e.Code)
}

// ExpressionError is returned for malformed formulas and for references to
// unbound band names.
type ExpressionError struct {
	Expression string
	Reason     string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("bandmath: expression %q: %s", e.Expression, e.Reason)
}

type Evaluator struct {
	// Scale multiplies every band before it is bound.
	Scale float64
}

// NewEvaluator returns an evaluator using scale, or DefaultScale when scale
// is zero.
func NewEvaluator(scale float64) *Evaluator {
	if scale == 0 {
		scale = DefaultScale
	}
	return &Evaluator{Scale: scale}
}

// Evaluate parses expression and evaluates it with codes[i] bound to B{i+1}.
func (e *Evaluator) Evaluate(bands BandSet, codes []string, expression string) (*raster.Grid, error) {
	expr, err := Parse(expression)
	if err != nil {
		return nil, err
	}
	return e.EvaluateExpr(bands, codes, expr)
}

// EvaluateExpr evaluates a parsed expression with codes[i] bound to B{i+1}.
// The result has the shape of the bound bands; a formula that reduces to a
// constant is broadcast to that shape.
func (e *Evaluator) EvaluateExpr(bands BandSet, codes []string, expr Expr) (*raster.Grid, error) {
	if len(codes) == 0 {
		return nil, &ExpressionError{Expression: expr.String(), Reason: "no bands supplied"}
	}
	if n := MaxBand(expr); n > len(codes) {
		return nil, &ExpressionError{
			Expression: expr.String(),
			Reason:     fmt.Sprintf("B%d is not bound, only %d band(s) supplied", n, len(codes)),
		}
	}
	for _, code := range codes {
		if _, ok := bands[code]; !ok {
			return nil, &UnresolvedBandError{Code: code}
		}
	}

	grids := make([]*raster.Grid, len(codes))
	env := make([]*value, len(codes))
	for i, code := range codes {
		g, err := bands[code].ReadBand()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", code, err)
		}
		if e.Scale != 1 {
			floats.Scale(e.Scale, g.Data)
		}
		grids[i] = g
		env[i] = &value{grid: g.Data}
	}
	if err := raster.CheckShapes(grids...); err != nil {
		return nil, fmt.Errorf("binding %v: %w", codes, err)
	}

	v, err := expr.eval(env)
	if err != nil {
		return nil, &ExpressionError{Expression: expr.String(), Reason: err.Error()}
	}

	out := &raster.Grid{Rows: grids[0].Rows, Cols: grids[0].Cols}
	if v.isGrid() {
		out.Data = v.grid
	} else {
		out.Data = make([]float64, out.Rows*out.Cols)
		for i := range out.Data {
			out.Data[i] = v.scalar
		}
	}
	return out, nil
}
