package sentinel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/Quason/scene-classification/internal/log"
	"github.com/Quason/scene-classification/internal/raster"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ResampleAlgorithm picks the GDAL resampling method for a target
// resolution in metres.
func ResampleAlgorithm(resolution int) string {
	if resolution == 20 || resolution == 60 {
		return "average"
	}
	return "bilinear"
}

// ResampledPath is where Resample writes tile inside dstDir.
func ResampledPath(dstDir string, tile Tile) string {
	name := strings.TrimSuffix(filepath.Base(tile.Path), filepath.Ext(tile.Path))
	return filepath.Join(dstDir, name+".tiff")
}

type Resampler struct {
	Resolution int
	Workers    int
	log        *zap.SugaredLogger
}

func NewResampler(resolution, workers int, logger *zap.SugaredLogger) *Resampler {
	if workers < 1 {
		workers = 1
	}
	return &Resampler{Resolution: resolution, Workers: workers, log: log.OrNop(logger)}
}

// Resample warps every tile to the resampler's resolution as a GeoTIFF in
// dstDir, which is created if needed. It returns the written paths in tile
// order and stops at the first failure.
func (r *Resampler) Resample(tiles []Tile, dstDir string) ([]string, error) {
	if r.Resolution <= 0 {
		return nil, fmt.Errorf("invalid resolution %d", r.Resolution)
	}
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dstDir, err)
	}

	res := strconv.Itoa(r.Resolution)
	switches := []string{"-of", "GTiff", "-tr", res, res, "-r", ResampleAlgorithm(r.Resolution)}

	var (
		out         = make([]string, len(tiles))
		mu          sync.Mutex
		firstErr    error
		progressBar = progressbar.Default(int64(len(tiles)), "Resampling bands")
	)

	wp := workerpool.New(r.Workers)
	for i, tile := range tiles {
		wp.Submit(func() {
			dst := ResampledPath(dstDir, tile)
			err := raster.Warp(tile.Path, dst, switches...)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("resampling %s: %w", tile.Band, err)
				}
				return
			}
			out[i] = dst
			_ = progressBar.Add(1)
			r.log.Debugw("band resampled", "band", tile.Band, "path", dst)
		})
	}
	wp.StopWait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}
