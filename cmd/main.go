package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"

	"github.com/Quason/scene-classification/internal/delivery"
	"github.com/Quason/scene-classification/internal/log"
	"github.com/Quason/scene-classification/internal/notification"
	"github.com/Quason/scene-classification/internal/properties"
	"github.com/Quason/scene-classification/internal/stack"
	"github.com/Quason/scene-classification/internal/ui"
	"github.com/Quason/scene-classification/output"
)

type config struct {
	src           string
	dst           string
	resolution    int
	stack         bool
	workers       int
	debug         bool
	quicklook     bool
	cloudProb     bool
	keepResampled bool
}

func parseFlags() config {
	var c config
	flag.StringVar(&c.src, "src", "", "L1C .SAFE directory; several may be given separated by commas")
	flag.StringVar(&c.dst, "dst", "./SC.tiff", "class map path, or output directory when several scenes are given")
	flag.IntVar(&c.resolution, "resolution", delivery.DefaultResolution, "target resolution in metres")
	flag.BoolVar(&c.stack, "stack", false, "stack the rasters given as arguments into stack.tif instead of classifying")
	flag.IntVar(&c.workers, "workers", 4, "scenes processed at once, and bands resampled at once per scene")
	flag.BoolVar(&c.debug, "debug", false, "enable debug logging")
	flag.BoolVar(&c.quicklook, "quicklook", false, "write a PNG quicklook of the class map")
	flag.BoolVar(&c.cloudProb, "cloud-prob", false, "write the cloud probability raster")
	flag.BoolVar(&c.keepResampled, "keep-resampled", false, "keep the resampled bands")
	flag.Parse()
	return c
}

func splitSources(s string) []string {
	var srcs []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			srcs = append(srcs, p)
		}
	}
	return srcs
}

func runStack(paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("-stack needs the rasters to stack as arguments")
	}
	dst, err := stack.Stack(paths)
	if err != nil {
		return err
	}
	ui.PrintSuccess(fmt.Sprintf("Stacked %d bands into %s", len(paths), dst))
	return nil
}

func runClassification(ctx context.Context, c config) error {
	srcs := splitSources(c.src)
	if len(srcs) == 0 {
		return fmt.Errorf("-src is required")
	}

	logger := log.GetLogger()
	scenes := delivery.PlanScenes(srcs, c.dst, delivery.SceneOptions{
		Resolution:    c.resolution,
		Workers:       c.workers,
		Scale:         properties.ReflectanceScale(),
		KeepResampled: c.keepResampled,
		Products:      output.Options{Quicklook: c.quicklook, CloudProbability: c.cloudProb},
	})

	reports, err := delivery.ClassifyScenes(ctx, scenes, c.workers, logger)
	for _, r := range reports {
		if r == nil {
			continue
		}
		ui.PrintReport(r)
		if nerr := notification.SendDiscordSuccessNotification(ui.Summary(r)); nerr != nil {
			logger.Warnw("failed to send notification", "error", nerr)
		}
	}
	return err
}

func run(c config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n\nStack trace:\n%s", r, debug.Stack())
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if c.stack {
		return runStack(flag.Args())
	}
	return runClassification(ctx, c)
}

func main() {
	c := parseFlags()

	if err := log.Init(c.debug); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ui.PrintBanner()
	if env := properties.LoadEnv("../../.env", "../.env", ".env"); env != "" {
		log.GetLogger().Debugw("environment loaded", "path", env)
	}

	if err := run(c); err != nil {
		ui.PrintError(err.Error())
		log.GetLogger().Errorw("run failed", "error", err)
		if nerr := notification.SendDiscordErrorNotification(fmt.Sprintf("Scene classification\n\n%s", err)); nerr != nil {
			ui.PrintError(fmt.Sprintf("Failed to send notification: %s", nerr))
		}
		log.Sync()
		os.Exit(1)
	}
}
