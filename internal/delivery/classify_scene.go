package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Quason/scene-classification/internal/bandmath"
	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/log"
	"github.com/Quason/scene-classification/internal/sentinel"
	"github.com/Quason/scene-classification/output"
	"go.uber.org/zap"
)

const DefaultResolution = 20

// SceneOptions describes one classification run.
type SceneOptions struct {
	// Src is the L1C .SAFE directory.
	Src string
	// Dst is the class map GeoTIFF to write.
	Dst        string
	Resolution int
	// Workers bounds the number of bands resampled at once.
	Workers int
	// Scale converts digital numbers to reflectance; 0 means the default.
	Scale         float64
	KeepResampled bool
	Products      output.Options
}

// SceneReport is what a successful run produced.
type SceneReport struct {
	Src       string
	ClassMap  string
	Resampled string
	Products  output.Paths
	Stats     []classification.ClassCount
	Duration  time.Duration
}

// ScratchDir is where the resampled bands of a run are written.
func ScratchDir(dst string) string {
	return strings.TrimSuffix(dst, filepath.Ext(dst)) + "_resample"
}

// ClassifyScene resamples the bands of opts.Src, classifies them into
// opts.Dst and writes the requested products. The resampled bands are
// removed afterwards unless opts.KeepResampled is set.
func ClassifyScene(ctx context.Context, opts SceneOptions, logger *zap.SugaredLogger) (report *SceneReport, err error) {
	logger = log.OrNop(logger).With("scene", filepath.Base(opts.Src))
	start := time.Now()

	if opts.Resolution == 0 {
		opts.Resolution = DefaultResolution
	}
	if opts.Dst == "" {
		return nil, errors.New("no destination given")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Dst), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tiles, err := sentinel.DiscoverTiles(opts.Src)
	if err != nil {
		return nil, err
	}
	logger.Infow("tiles discovered", "count", len(tiles))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	scratch := ScratchDir(opts.Dst)
	if !opts.KeepResampled {
		defer func() {
			if rerr := os.RemoveAll(scratch); rerr != nil && err == nil {
				err = fmt.Errorf("removing %s: %w", scratch, rerr)
			}
		}()
	}

	logger.Infow("resampling", "resolution", opts.Resolution, "algorithm", sentinel.ResampleAlgorithm(opts.Resolution))
	if _, err := sentinel.NewResampler(opts.Resolution, opts.Workers, logger).Resample(tiles, scratch); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bands, err := sentinel.FindBands(scratch)
	if err != nil {
		return nil, err
	}

	logger.Info("classifying")
	engine := classification.NewEngine(bandmath.NewEvaluator(opts.Scale), logger)
	res, err := engine.Run(bands, opts.Dst)
	if err != nil {
		return nil, err
	}

	paths, err := output.Write(opts.Dst, res, opts.Products)
	if err != nil {
		return nil, err
	}

	report = &SceneReport{
		Src:      opts.Src,
		ClassMap: opts.Dst,
		Products: paths,
		Stats:    res.Map.Stats(),
		Duration: time.Since(start),
	}
	if opts.KeepResampled {
		report.Resampled = scratch
	}
	logger.Infow("scene classified", "class_map", opts.Dst, "duration", report.Duration)
	return report, nil
}
