package raster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPixelTypeNoData(t *testing.T) {
	tests := []struct {
		pt   PixelType
		want float64
	}{
		{Uint8, 255},
		{Uint16, 65535},
		{Int16, -999},
		{Float32, -999},
	}
	for _, tt := range tests {
		t.Run(tt.pt.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pt.NoData())
		})
	}
}

func TestParsePixelType(t *testing.T) {
	for _, name := range []string{"uint8", "uint16", "int16", "float32"} {
		pt, err := ParsePixelType(name)
		require.NoError(t, err)
		assert.Equal(t, name, pt.String())
	}
	_, err := ParsePixelType("complex64")
	assert.Error(t, err)
}

func TestFromRowsRejectsRaggedInput(t *testing.T) {
	_, err := FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
