package raster

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMeta = GeoMetadata{
	GeoTransform: [6]float64{399960, 10, 0, 5000040, 0, -10},
}

func wgs84(t *testing.T) string {
	t.Helper()
	registerDrivers()
	sr, err := godal.NewSpatialRefFromEPSG(4326)
	require.NoError(t, err)
	defer sr.Close()
	wkt, err := sr.WKT()
	require.NoError(t, err)
	return wkt
}

func noDataOf(t *testing.T, path string) []float64 {
	t.Helper()
	ds, err := godal.Open(path)
	require.NoError(t, err)
	defer ds.Close()
	var values []float64
	for _, b := range ds.Bands() {
		nd, ok := b.NoData()
		require.True(t, ok)
		values = append(values, nd)
	}
	return values
}

func TestWriteReadClassCodesRoundTrip(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "classes.tif")
	codes, err := FromRows([][]float64{
		{0, 4, 5, 6},
		{7, 8, 9, 10},
		{11, 11, 7, 0},
	})
	require.NoError(t, err)

	meta := testMeta
	meta.Projection = wgs84(t)
	require.NoError(t, Write(dst, meta, Uint8, codes))

	got, gotMeta, err := Read(dst)
	require.NoError(t, err)
	assert.Equal(t, codes.Rows, got.Rows)
	assert.Equal(t, codes.Cols, got.Cols)
	assert.Equal(t, codes.Data, got.Data)
	assert.Equal(t, meta.GeoTransform, gotMeta.GeoTransform)
	assert.Contains(t, gotMeta.Projection, "WGS")
	assert.Equal(t, []float64{255}, noDataOf(t, dst))
}

func TestWriteMultiBandKeepsOrderAndNoData(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "stack.tif")
	bands := []*Grid{Filled(3, 2, 100), Filled(3, 2, 2000), Filled(3, 2, 65535)}
	require.NoError(t, Write(dst, testMeta, Uint16, bands...))

	got, _, err := ReadAll(dst)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range bands {
		assert.Equal(t, bands[i].Data, got[i].Data, "band %d", i+1)
	}
	assert.Equal(t, []float64{65535, 65535, 65535}, noDataOf(t, dst))
}

func TestWriteConvertsOutOfRangeValues(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "int16.tif")
	g, err := FromRows([][]float64{{math.NaN(), 1e6, -1e6, 12.6}})
	require.NoError(t, err)
	require.NoError(t, Write(dst, testMeta, Int16, g))

	got, _, err := Read(dst)
	require.NoError(t, err)
	assert.Equal(t, []float64{-999, math.MaxInt16, math.MinInt16, 13}, got.Data)
	assert.Equal(t, []float64{-999}, noDataOf(t, dst))
}

func TestWriteFloat32KeepsFractions(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "float.tif")
	g := Filled(2, 2, 0.25)
	require.NoError(t, Write(dst, testMeta, Float32, g))

	got, _, err := Read(dst)
	require.NoError(t, err)
	assert.InDeltaSlice(t, g.Data, got.Data, 1e-7)
}

func TestWriteRejectsMismatchedBands(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "bad.tif")
	err := Write(dst, testMeta, Uint16, Filled(2, 2, 1), Filled(3, 2, 1))

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, dst, ioErr.Path)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestReadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.tif")
	_, _, err := Read(path)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestFileSource(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "b04.tif")
	require.NoError(t, Write(dst, testMeta, Uint16, Filled(2, 3, 1234)))

	src := FileSource(dst)
	g, err := src.ReadBand()
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 3, g.Cols)
	assert.Equal(t, 1234.0, g.At(1, 2))

	meta, err := src.Metadata()
	require.NoError(t, err)
	assert.Equal(t, testMeta.GeoTransform, meta.GeoTransform)
}
