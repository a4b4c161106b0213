// Package classification turns the seven Sentinel-2 classification bands
// into a land-cover class map.
//
// The map is built in two passes. The first pass applies the land-cover
// rules in priority order; a pixel belongs to the first rule that claims it
// and later rules only see the unresolved residue. The second pass overlays
// the cloud-probability classes on every pixel regardless of what the first
// pass decided, so a cloud flag always replaces a land-cover label.
package classification

import (
	"fmt"
	"math"
	"strings"

	"github.com/Quason/scene-classification/internal/bandmath"
	"github.com/Quason/scene-classification/internal/log"
	"github.com/Quason/scene-classification/internal/raster"
	"go.uber.org/zap"
)

// RequiredBands are the band codes a scene must provide.
var RequiredBands = []string{"B02", "B03", "B04", "B08", "B10", "B11", "B12"}

// RedBand is the band whose georeferencing is copied to the class map.
const RedBand = "B04"

// MissingBandError is returned when required band codes have no source.
type MissingBandError struct {
	Codes []string
}

func (e *MissingBandError) Error() string {
	return fmt.Sprintf("classification: missing band(s) %s", strings.Join(e.Codes, ", "))
}

type spectralIndex struct {
	expr  bandmath.Expr
	bands []string
}

var (
	identity             = bandmath.MustParse("B1")
	ratio                = bandmath.MustParse("B1/B2")
	normalizedDifference = bandmath.MustParse("(B1-B2)/(B1+B2)")
)

var indices = map[string]spectralIndex{
	"red":      {identity, []string{"B04"}},
	"ndsi":     {normalizedDifference, []string{"B03", "B11"}},
	"nir":      {identity, []string{"B08"}},
	"blue":     {identity, []string{"B02"}},
	"b2r":      {ratio, []string{"B02", "B04"}},
	"swir2":    {identity, []string{"B12"}},
	"ndvi":     {normalizedDifference, []string{"B08", "B04"}},
	"nir2g":    {ratio, []string{"B08", "B03"}},
	"b2swir":   {ratio, []string{"B02", "B11"}},
	"nir2swir": {ratio, []string{"B08", "B11"}},
	"b_cirrus": {identity, []string{"B10"}},
}

// Rule thresholds, in reflectance.
const (
	cloudRedMin  = 0.06
	cloudRedMax  = 0.25
	cloudNdsiMin = -0.24
	cloudNdsiMax = -0.16

	cloudMediumProbability = 35
	cloudHighProbability   = 65

	snowNdsiMin  = 0.2
	snowNirMin   = 0.15
	snowBlueMin  = 0.18
	snowB2rMin   = 0.85
	snowSwir2Max = 0.12

	vegetationNdviMin  = 0.36
	vegetationNir2gMin = 0.4

	soilB2swirMax   = 1.5
	waterNdsiMin    = 0
	rockNir2swirMax = 0.9
	cirrusMin       = 0.012
	cirrusMax       = 0.035
)

// Result is the outcome of classifying one scene.
type Result struct {
	// Map is the final class map.
	Map *ClassMap
	// Provisional is the map after the land-cover rules, before the cloud
	// overlay.
	Provisional *ClassMap
	// CloudProbability is 0-100 per pixel.
	CloudProbability []uint8
	// Meta is the georeferencing of the red band.
	Meta raster.GeoMetadata
}

// ProbabilityGrid returns the cloud probability in raster form.
func (r *Result) ProbabilityGrid() *raster.Grid {
	g := raster.NewGrid(r.Map.Rows, r.Map.Cols)
	for i, p := range r.CloudProbability {
		g.Data[i] = float64(p)
	}
	return g
}

type Engine struct {
	eval *bandmath.Evaluator
	log  *zap.SugaredLogger
}

func NewEngine(eval *bandmath.Evaluator, logger *zap.SugaredLogger) *Engine {
	if eval == nil {
		eval = bandmath.NewEvaluator(bandmath.DefaultScale)
	}
	return &Engine{eval: eval, log: log.OrNop(logger)}
}

// Run classifies bands and writes the class map to dst as a uint8 GeoTIFF
// carrying the red band's geotransform and projection.
func (e *Engine) Run(bands bandmath.BandSet, dst string) (*Result, error) {
	res, err := e.Classify(bands)
	if err != nil {
		return nil, err
	}
	if err := raster.Write(dst, res.Meta, raster.Uint8, res.Map.Grid()); err != nil {
		return nil, fmt.Errorf("writing class map: %w", err)
	}
	e.log.Infow("class map written", "path", dst, "rows", res.Map.Rows, "cols", res.Map.Cols)
	return res, nil
}

// deriver evaluates indices for one scene. The first index fixes the scene
// shape and every later one must match it.
type deriver struct {
	eval       *bandmath.Evaluator
	bands      bandmath.BandSet
	rows, cols int
	shaped     bool
}

func (d *deriver) derive(names ...string) ([][]float64, error) {
	out := make([][]float64, len(names))
	for i, name := range names {
		idx := indices[name]
		g, err := d.eval.EvaluateExpr(d.bands, idx.bands, idx.expr)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", name, err)
		}
		if !d.shaped {
			d.rows, d.cols, d.shaped = g.Rows, g.Cols, true
		} else if g.Rows != d.rows || g.Cols != d.cols {
			return nil, fmt.Errorf("deriving %s: %dx%d, scene is %dx%d: %w",
				name, g.Rows, g.Cols, d.rows, d.cols, raster.ErrShapeMismatch)
		}
		out[i] = g.Data
	}
	return out, nil
}

// Classify builds the class map of a scene without writing it.
func (e *Engine) Classify(bands bandmath.BandSet) (*Result, error) {
	if missing := bands.Missing(RequiredBands...); len(missing) > 0 {
		return nil, &MissingBandError{Codes: missing}
	}
	meta, err := bands[RedBand].Metadata()
	if err != nil {
		return nil, fmt.Errorf("reading %s metadata: %w", RedBand, err)
	}

	dv := &deriver{eval: e.eval, bands: bands}
	d, err := dv.derive("red", "ndsi")
	if err != nil {
		return nil, err
	}
	rows, cols := dv.rows, dv.cols
	red, ndsi := d[0], d[1]

	prob := cloudProbability(red, ndsi)
	s := newState(rows * cols)

	// These two are not gated by the residue: they are the first
	// assignments and their pixel sets are disjoint.
	e.applied("no_data", s.force(NoData, func(i int) bool { return red[i] == 0 }))
	e.applied("saturated_cloud", s.hold(func(i int) bool { return red[i] > cloudRedMax }))

	d, err = dv.derive("nir", "blue", "b2r", "swir2")
	if err != nil {
		return nil, err
	}
	nir, blue, b2r, swir2 := d[0], d[1], d[2], d[3]
	e.applied("snow", s.claim(Snow, func(i int) bool {
		return ndsi[i] > snowNdsiMin && nir[i] > snowNirMin && blue[i] > snowBlueMin &&
			b2r[i] > snowB2rMin && swir2[i] < snowSwir2Max
	}))
	// Each stage drops its indices once folded into the map.
	nir, blue, b2r, swir2 = nil, nil, nil, nil

	d, err = dv.derive("ndvi", "nir2g")
	if err != nil {
		return nil, err
	}
	ndvi, nir2g := d[0], d[1]
	e.applied("vegetation", s.claim(Vegetation, func(i int) bool {
		return ndvi[i] > vegetationNdviMin && nir2g[i] > vegetationNir2gMin
	}))
	ndvi, nir2g = nil, nil

	d, err = dv.derive("b2swir", "nir2swir")
	if err != nil {
		return nil, err
	}
	b2swir, nir2swir := d[0], d[1]
	e.applied("soil", s.claim(SoilRock, func(i int) bool { return b2swir[i] < soilB2swirMax }))
	e.applied("water", s.claim(Water, func(i int) bool { return ndsi[i] > waterNdsiMin }))
	e.applied("rock_sand", s.claim(SoilRock, func(i int) bool { return nir2swir[i] < rockNir2swirMax }))
	b2swir, nir2swir, ndsi, red = nil, nil, nil, nil

	d, err = dv.derive("b_cirrus")
	if err != nil {
		return nil, err
	}
	cirrus := d[0]
	e.applied("cirrus", s.claim(Cirrus, func(i int) bool { return cirrus[i] > cirrusMin && cirrus[i] < cirrusMax }))

	provisional := &ClassMap{Rows: rows, Cols: cols, Codes: s.codes}
	final := &ClassMap{Rows: rows, Cols: cols, Codes: overlayClouds(s.codes, prob)}
	e.applied("cloud_overlay", countChanged(provisional.Codes, final.Codes))

	return &Result{Map: final, Provisional: provisional, CloudProbability: prob, Meta: meta}, nil
}

func (e *Engine) applied(rule string, pixels int) {
	e.log.Debugw("rule applied", "rule", rule, "pixels", pixels)
}

// ramp clips v to [lo, hi] and rescales it to [0, 1]. NaN stays NaN.
func ramp(v, lo, hi float64) float64 {
	return (math.Min(math.Max(v, lo), hi) - lo) / (hi - lo)
}

// cloudProbability combines a red brightness ramp and an NDSI ramp into a
// 0-100 score. Dark pixels score 0 and saturated ones 100.
func cloudProbability(red, ndsi []float64) []uint8 {
	prob := make([]uint8, len(red))
	for i := range red {
		switch {
		case red[i] < cloudRedMin:
			prob[i] = 0
		case red[i] > cloudRedMax:
			prob[i] = 100
		default:
			p := ramp(red[i], cloudRedMin, cloudRedMax) * ramp(ndsi[i], cloudNdsiMin, cloudNdsiMax) * 100
			if !math.IsNaN(p) {
				prob[i] = uint8(p)
			}
		}
	}
	return prob
}

// overlayClouds returns a copy of codes with the cloud-probability classes
// written over every pixel that qualifies.
func overlayClouds(codes []uint8, prob []uint8) []uint8 {
	out := make([]uint8, len(codes))
	copy(out, codes)
	for i, p := range prob {
		switch {
		case p > cloudHighProbability:
			out[i] = CloudHigh
		case p > cloudMediumProbability:
			out[i] = CloudMedium
		}
	}
	return out
}

func countChanged(a, b []uint8) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}
