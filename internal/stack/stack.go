// Package stack merges single-band rasters into one multi-band raster.
package stack

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Quason/scene-classification/internal/raster"
	"github.com/schollz/progressbar/v3"
)

// FileName is the name of the stacked raster written beside the first input.
const FileName = "stack.tif"

// Stack writes paths, in order, as the bands of FileName in the directory of
// the first path and returns the output path.
func Stack(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", errors.New("stack: no input rasters")
	}
	dst := filepath.Join(filepath.Dir(paths[0]), FileName)
	return dst, StackTo(paths, dst)
}

// StackTo reads band 1 of every path and writes them as a uint16 raster at
// dst with the georeferencing of the first input. Inputs must share a
// shape; nothing is resampled.
func StackTo(paths []string, dst string) error {
	if len(paths) == 0 {
		return errors.New("stack: no input rasters")
	}

	bar := progressbar.Default(int64(len(paths)), "Stacking bands")
	bands := make([]*raster.Grid, len(paths))
	var meta raster.GeoMetadata
	for i, path := range paths {
		g, m, err := raster.Read(path)
		if err != nil {
			return err
		}
		if i == 0 {
			meta = m
		} else if !g.SameShape(bands[0]) {
			return fmt.Errorf("stack: %s is %dx%d, %s is %dx%d: %w",
				path, g.Rows, g.Cols, paths[0], bands[0].Rows, bands[0].Cols, raster.ErrShapeMismatch)
		}
		bands[i] = g
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	return raster.Write(dst, meta, raster.Uint16, bands...)
}
