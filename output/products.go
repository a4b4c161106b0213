// Package output writes the side products of a classified scene next to
// its class map.
package output

import (
	"path/filepath"
	"strings"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/raster"
)

type Options struct {
	Quicklook        bool
	CloudProbability bool
}

// Paths lists the files written for one scene. Optional products that were
// not requested are empty.
type Paths struct {
	Stats            string
	Footprint        string
	Quicklook        string
	CloudProbability string
}

// productPath derives a product name from the class map path, so SC.tif
// gives SC_stats.csv for suffix "_stats.csv".
func productPath(classMap, suffix string) string {
	return strings.TrimSuffix(classMap, filepath.Ext(classMap)) + suffix
}

// WriteCloudProbability writes the 0-100 cloud probability as a uint8
// raster with the class map georeferencing.
func WriteCloudProbability(path string, res *classification.Result) error {
	return raster.Write(path, res.Meta, raster.Uint8, res.ProbabilityGrid())
}

// Write emits the products of res for the class map written at classMap.
func Write(classMap string, res *classification.Result, opts Options) (Paths, error) {
	p := Paths{
		Stats:     productPath(classMap, "_stats.csv"),
		Footprint: productPath(classMap, "_footprint.geojson"),
	}
	if err := WriteStatsCSV(p.Stats, res.Map.Stats()); err != nil {
		return Paths{}, err
	}
	if err := WriteFootprint(p.Footprint, res.Meta, res.Map); err != nil {
		return Paths{}, err
	}
	if opts.Quicklook {
		p.Quicklook = productPath(classMap, "_quicklook.png")
		if err := WriteQuicklook(p.Quicklook, res.Map); err != nil {
			return Paths{}, err
		}
	}
	if opts.CloudProbability {
		p.CloudProbability = productPath(classMap, "_cloud_prob.tif")
		if err := WriteCloudProbability(p.CloudProbability, res); err != nil {
			return Paths{}, err
		}
	}
	return p, nil
}
