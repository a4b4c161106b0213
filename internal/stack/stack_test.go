package stack

import (
	"path/filepath"
	"testing"

	"github.com/Quason/scene-classification/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var meta = raster.GeoMetadata{GeoTransform: [6]float64{300000, 10, 0, 5200000, 0, -10}}

func writeBand(t *testing.T, dir, name string, g *raster.Grid) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, raster.Write(path, meta, raster.Float32, g))
	return path
}

func TestStackKeepsOrderAndCastsToUint16(t *testing.T) {
	dir := t.TempDir()
	b1, err := raster.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	b2, err := raster.FromRows([][]float64{{1000.4, 2000.6}, {0, 65535}})
	require.NoError(t, err)
	b3 := raster.Filled(2, 2, 42)

	paths := []string{
		writeBand(t, dir, "T31_B04.tif", b1),
		writeBand(t, dir, "T31_B03.tif", b2),
		writeBand(t, dir, "T31_B02.tif", b3),
	}

	dst, err := Stack(paths)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), dst)

	got, gotMeta, err := raster.ReadAll(dst)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, b1.Data, got[0].Data)
	assert.Equal(t, []float64{1000, 2001, 0, 65535}, got[1].Data)
	assert.Equal(t, b3.Data, got[2].Data)
	assert.Equal(t, meta.GeoTransform, gotMeta.GeoTransform)
}

func TestStackRejectsShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeBand(t, dir, "a.tif", raster.Filled(2, 2, 1)),
		writeBand(t, dir, "b.tif", raster.Filled(3, 2, 1)),
	}

	_, err := Stack(paths)
	assert.ErrorIs(t, err, raster.ErrShapeMismatch)
}

func TestStackNoInputs(t *testing.T) {
	_, err := Stack(nil)
	assert.Error(t, err)
}
