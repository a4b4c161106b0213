package bandmath

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBuildsTree(t *testing.T) {
	e, err := Parse("(B1-B2)/(B1+B2)")
	require.NoError(t, err)
	assert.Equal(t, Binary{
		Op: Div,
		L:  Binary{Op: Sub, L: BandRef(1), R: BandRef(2)},
		R:  Binary{Op: Add, L: BandRef(1), R: BandRef(2)},
	}, e)
	assert.Equal(t, "((B1 - B2) / (B1 + B2))", e.String())
	assert.Equal(t, 2, MaxBand(e))
}

func TestParseLiteralsAndUnary(t *testing.T) {
	e, err := Parse("-b3 * 1e-4 + +2")
	require.NoError(t, err)
	assert.Equal(t, Binary{
		Op: Add,
		L:  Binary{Op: Mul, L: Neg{X: BandRef(3)}, R: Literal(1e-4)},
		R:  Literal(2),
	}, e)
	assert.Equal(t, 3, MaxBand(e))
}

func TestParseRejects(t *testing.T) {
	for _, expr := range []string{
		"",
		"B1 +",
		"B0",
		"B02",
		"red",
		"sqrt(B1)",
		"B1 % 2",
		"B1[0]",
		`"B1"`,
		"!B1",
		"B1.x",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Parse(expr)
			var exprErr *ExpressionError
			require.Error(t, err)
			assert.True(t, errors.As(err, &exprErr))
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	assert.Panics(t, func() { MustParse("B1 +") })
	assert.NotPanics(t, func() { MustParse("B1/B2") })
}
