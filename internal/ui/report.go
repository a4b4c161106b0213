package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/delivery"
)

// FormatStats renders class statistics as an aligned table, skipping
// classes with no pixels.
func FormatStats(stats []classification.ClassCount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-4s %-26s %10s %8s\n", "code", "class", "pixels", "share")
	for _, s := range stats {
		if s.Pixels == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-4d %-26s %10d %7.2f%%\n", s.Code, s.Name, s.Pixels, s.Fraction*100)
	}
	return b.String()
}

// Summary is the plain-text outcome of a scene, used for the terminal and
// for notifications.
func Summary(r *delivery.SceneReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scene: %s\nClass map: %s\n", r.Src, r.ClassMap)
	for _, p := range []struct{ label, path string }{
		{"Statistics", r.Products.Stats},
		{"Footprint", r.Products.Footprint},
		{"Quicklook", r.Products.Quicklook},
		{"Cloud probability", r.Products.CloudProbability},
		{"Resampled bands", r.Resampled},
	} {
		if p.path != "" {
			fmt.Fprintf(&b, "%s: %s\n", p.label, p.path)
		}
	}
	fmt.Fprintf(&b, "Duration: %s\n", r.Duration.Round(time.Millisecond))
	return b.String()
}

func PrintReport(r *delivery.SceneReport) {
	PrintSuccess("Scene classified!")
	fmt.Print(Summary(r))
	fmt.Println()
	fmt.Print(FormatStats(r.Stats))
}
