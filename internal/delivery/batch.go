package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Quason/scene-classification/internal/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PlanScenes builds one SceneOptions per source. With a single source dst is
// the class map path; with several it is a directory receiving
// <product>_SC.tif per scene. base supplies every other option.
func PlanScenes(srcs []string, dst string, base SceneOptions) []SceneOptions {
	scenes := make([]SceneOptions, 0, len(srcs))
	for _, src := range srcs {
		opts := base
		opts.Src = src
		if len(srcs) == 1 {
			opts.Dst = dst
		} else {
			name := strings.TrimSuffix(filepath.Base(filepath.Clean(src)), ".SAFE")
			opts.Dst = filepath.Join(dst, name+"_SC.tif")
		}
		scenes = append(scenes, opts)
	}
	return scenes
}

// ClassifyScenes runs up to limit scenes at a time. A failed scene does not
// stop the others; the reports of failed scenes are nil and the first error
// is returned.
func ClassifyScenes(ctx context.Context, scenes []SceneOptions, limit int, logger *zap.SugaredLogger) ([]*SceneReport, error) {
	logger = log.OrNop(logger)
	if limit < 1 {
		limit = 1
	}

	reports := make([]*SceneReport, len(scenes))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, opts := range scenes {
		g.Go(func() error {
			report, err := ClassifyScene(ctx, opts, logger)
			if err != nil {
				logger.Errorw("scene failed", "scene", opts.Src, "error", err)
				return fmt.Errorf("%s: %w", opts.Src, err)
			}
			reports[i] = report
			return nil
		})
	}
	return reports, g.Wait()
}
