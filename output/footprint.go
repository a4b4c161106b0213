package output

import (
	"fmt"
	"os"

	"github.com/Quason/scene-classification/internal/classification"
	"github.com/Quason/scene-classification/internal/raster"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Footprint is the outline of a rows x cols raster in the coordinates of its
// geotransform, as a closed ring starting at the upper-left corner.
func Footprint(gt [6]float64, rows, cols int) orb.Polygon {
	at := func(col, row int) orb.Point {
		x, y := float64(col), float64(row)
		return orb.Point{gt[0] + x*gt[1] + y*gt[2], gt[3] + x*gt[4] + y*gt[5]}
	}
	ring := orb.Ring{at(0, 0), at(cols, 0), at(cols, rows), at(0, rows), at(0, 0)}
	return orb.Polygon{ring}
}

// FootprintFeature builds the footprint of a class map with its class
// fractions as properties.
func FootprintFeature(meta raster.GeoMetadata, m *classification.ClassMap) *geojson.Feature {
	poly := Footprint(meta.GeoTransform, m.Rows, m.Cols)

	f := geojson.NewFeature(poly)
	f.Properties["rows"] = m.Rows
	f.Properties["cols"] = m.Cols
	f.Properties["area"] = planar.Area(poly)
	if meta.Projection != "" {
		f.Properties["projection"] = meta.Projection
	}
	for _, s := range m.Stats() {
		f.Properties[s.Name] = s.Fraction
	}
	return f
}

// WriteFootprint writes FootprintFeature as a one-feature collection.
func WriteFootprint(path string, meta raster.GeoMetadata, m *classification.ClassMap) error {
	fc := geojson.NewFeatureCollection()
	fc.Append(FootprintFeature(meta, m))

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode footprint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write footprint: %w", err)
	}
	return nil
}
