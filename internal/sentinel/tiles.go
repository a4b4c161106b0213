// Package sentinel locates and prepares the band rasters of a Sentinel-2
// L1C product for classification.
package sentinel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Quason/scene-classification/internal/bandmath"
	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/raster"
)

// ErrNoGranule is returned when a product has no GRANULE/*/IMG_DATA directory.
var ErrNoGranule = errors.New("sentinel: no granule with IMG_DATA found")

// bandPattern matches the band code at the end of a tile name, as in
// T31TCJ_20200101T105441_B04.jp2 or T31TCJ_20200101T105441_B8A.tiff.
var bandPattern = regexp.MustCompile(`_(B\d[0-9A])\.(?:jp2|tiff?)$`)

// Tile is one band file of a product.
type Tile struct {
	Band string
	Path string
}

// BandCode returns the band code encoded in a tile file name.
func BandCode(name string) (string, bool) {
	m := bandPattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DiscoverTiles lists the JPEG 2000 tiles of the first granule of the L1C
// product at safeDir, keeping only the bands the classifier reads. Tiles are
// ordered by band code.
func DiscoverTiles(safeDir string) ([]Tile, error) {
	granules, err := filepath.Glob(filepath.Join(safeDir, "GRANULE", "*", "IMG_DATA"))
	if err != nil {
		return nil, err
	}
	if len(granules) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoGranule, safeDir)
	}

	files, err := filepath.Glob(filepath.Join(granules[0], "*.jp2"))
	if err != nil {
		return nil, err
	}
	var tiles []Tile
	for _, f := range files {
		code, ok := BandCode(f)
		if !ok || !slices.Contains(classification.RequiredBands, code) {
			continue
		}
		tiles = append(tiles, Tile{Band: code, Path: f})
	}
	slices.SortFunc(tiles, func(a, b Tile) int { return strings.Compare(a.Band, b.Band) })
	return tiles, nil
}

// FindBands collects the resampled band rasters in dir into a band set.
func FindBands(dir string) (bandmath.BandSet, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*_B*.tif*"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no band rasters in %s: %w", dir, os.ErrNotExist)
	}
	bands := bandmath.BandSet{}
	for _, f := range files {
		if code, ok := BandCode(f); ok {
			bands[code] = raster.FileSource(f)
		}
	}
	return bands, nil
}
