package delivery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/raster"
	"github.com/Quason/scene-classification/internal/sentinel"
	"github.com/Quason/scene-classification/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vegetationDN is a pixel, in digital numbers, that only the vegetation
// rule claims and that has no cloud probability.
var vegetationDN = map[string]float64{
	"B02": 2000,
	"B03": 1000,
	"B04": 1000,
	"B08": 4000,
	"B10": 500,
	"B11": 1000,
	"B12": 1000,
}

// fakeProduct writes a 10 m L1C product of uniform bands. The tiles are
// GeoTIFFs with the JPEG 2000 file names of a real granule.
func fakeProduct(t *testing.T, dir string, values map[string]float64) string {
	t.Helper()
	safe := filepath.Join(dir, "S2B_MSIL1C_20200101T105441.SAFE")
	imgData := filepath.Join(safe, "GRANULE", "L1C_T31TCJ_A014", "IMG_DATA")
	require.NoError(t, os.MkdirAll(imgData, 0o755))

	meta := raster.GeoMetadata{GeoTransform: [6]float64{399960, 10, 0, 4800000, 0, -10}}
	for code, v := range values {
		p := filepath.Join(imgData, "T31TCJ_20200101T105441_"+code+".jp2")
		require.NoError(t, raster.Write(p, meta, raster.Uint16, raster.Filled(4, 4, v)))
	}
	// a band the classifier does not read
	p := filepath.Join(imgData, "T31TCJ_20200101T105441_B05.jp2")
	require.NoError(t, raster.Write(p, meta, raster.Uint16, raster.Filled(4, 4, 1)))
	return safe
}

func TestClassifyScene(t *testing.T) {
	dir := t.TempDir()
	safe := fakeProduct(t, dir, vegetationDN)
	dst := filepath.Join(dir, "out", "SC.tif")

	report, err := ClassifyScene(context.Background(), SceneOptions{
		Src:        safe,
		Dst:        dst,
		Resolution: 20,
		Workers:    3,
		Products:   output.Options{Quicklook: true},
	}, nil)
	require.NoError(t, err)

	g, meta, err := raster.Read(dst)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows)
	assert.Equal(t, 2, g.Cols)
	assert.Equal(t, 20.0, meta.GeoTransform[1])
	for _, v := range g.Data {
		assert.Equal(t, float64(classification.Vegetation), v)
	}

	assert.FileExists(t, report.Products.Stats)
	assert.FileExists(t, report.Products.Footprint)
	assert.FileExists(t, report.Products.Quicklook)
	assert.Empty(t, report.Products.CloudProbability)
	assert.Empty(t, report.Resampled)
	assert.NoDirExists(t, ScratchDir(dst))
}

func TestClassifySceneKeepsResampledBands(t *testing.T) {
	dir := t.TempDir()
	safe := fakeProduct(t, dir, vegetationDN)
	dst := filepath.Join(dir, "SC.tif")

	report, err := ClassifyScene(context.Background(), SceneOptions{Src: safe, Dst: dst, KeepResampled: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, ScratchDir(dst), report.Resampled)

	bands, err := sentinel.FindBands(report.Resampled)
	require.NoError(t, err)
	assert.Empty(t, bands.Missing(classification.RequiredBands...))
}

func TestClassifySceneMissingBand(t *testing.T) {
	dir := t.TempDir()
	values := map[string]float64{}
	for code, v := range vegetationDN {
		if code != "B10" {
			values[code] = v
		}
	}
	safe := fakeProduct(t, dir, values)
	dst := filepath.Join(dir, "SC.tif")

	_, err := ClassifyScene(context.Background(), SceneOptions{Src: safe, Dst: dst}, nil)
	var missing *classification.MissingBandError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"B10"}, missing.Codes)
	assert.NoFileExists(t, dst)
	assert.NoDirExists(t, ScratchDir(dst))
}

func TestClassifySceneCancelled(t *testing.T) {
	dir := t.TempDir()
	safe := fakeProduct(t, dir, vegetationDN)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ClassifyScene(ctx, SceneOptions{Src: safe, Dst: filepath.Join(dir, "SC.tif")}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScratchDir(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "SC_resample"), ScratchDir(filepath.Join("out", "SC.tiff")))
}
