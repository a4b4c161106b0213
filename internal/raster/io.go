package raster

import (
	"errors"
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(godal.RegisterAll)
}

// IOError reports a raster read or write failure on Path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("raster %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// GeoMetadata is the georeferencing carried from an input band to outputs.
type GeoMetadata struct {
	GeoTransform [6]float64
	Projection   string
}

// defaultGeoTransform is what GDAL reports for rasters without one.
var defaultGeoTransform = [6]float64{0, 1, 0, 0, 0, 1}

// quietErrors drops GDAL warnings so that only failures surface as errors.
func quietErrors(ec godal.ErrorCategory, code int, msg string) error {
	if ec < godal.CE_Failure {
		return nil
	}
	return errors.New(msg)
}

func open(path string) (*godal.Dataset, error) {
	registerDrivers()
	ds, err := godal.Open(path, godal.ErrLogger(quietErrors))
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	return ds, nil
}

func metadataOf(ds *godal.Dataset) GeoMetadata {
	gt, err := ds.GeoTransform()
	if err != nil {
		gt = defaultGeoTransform
	}
	return GeoMetadata{GeoTransform: gt, Projection: ds.Projection()}
}

func readBand(path string, band godal.Band) (*Grid, error) {
	st := band.Structure()
	g := NewGrid(st.SizeY, st.SizeX)
	if err := band.Read(0, 0, g.Data, st.SizeX, st.SizeY); err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return g, nil
}

// Read returns the first band of the raster at path with its metadata.
func Read(path string) (*Grid, GeoMetadata, error) {
	ds, err := open(path)
	if err != nil {
		return nil, GeoMetadata{}, err
	}
	defer ds.Close()

	bands := ds.Bands()
	if len(bands) == 0 {
		return nil, GeoMetadata{}, &IOError{Op: "read", Path: path, Err: errors.New("no bands")}
	}
	g, err := readBand(path, bands[0])
	if err != nil {
		return nil, GeoMetadata{}, err
	}
	return g, metadataOf(ds), nil
}

// ReadAll returns every band of the raster at path, in band order.
func ReadAll(path string) ([]*Grid, GeoMetadata, error) {
	ds, err := open(path)
	if err != nil {
		return nil, GeoMetadata{}, err
	}
	defer ds.Close()

	var grids []*Grid
	for _, band := range ds.Bands() {
		g, err := readBand(path, band)
		if err != nil {
			return nil, GeoMetadata{}, err
		}
		grids = append(grids, g)
	}
	return grids, metadataOf(ds), nil
}

// ReadMetadata opens path only for its geotransform and projection.
func ReadMetadata(path string) (GeoMetadata, error) {
	ds, err := open(path)
	if err != nil {
		return GeoMetadata{}, err
	}
	defer ds.Close()
	return metadataOf(ds), nil
}

// Write encodes bands into a GeoTIFF at dst, one raster band per grid and in
// the given order. Every band gets the no-data sentinel of pt. The
// geotransform and projection are written as they are. An existing file at
// dst is overwritten.
func Write(dst string, meta GeoMetadata, pt PixelType, bands ...*Grid) (err error) {
	if len(bands) == 0 {
		return &IOError{Op: "write", Path: dst, Err: errors.New("no bands to write")}
	}
	if err := CheckShapes(bands...); err != nil {
		return &IOError{Op: "write", Path: dst, Err: err}
	}
	rows, cols := bands[0].Rows, bands[0].Cols

	registerDrivers()
	ds, err := godal.Create(godal.GTiff, dst, len(bands), pt.dataType(), cols, rows)
	if err != nil {
		return &IOError{Op: "create", Path: dst, Err: err}
	}
	defer func() {
		if cerr := ds.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: dst, Err: cerr}
		}
	}()

	if err := ds.SetGeoTransform(meta.GeoTransform); err != nil {
		return &IOError{Op: "set geotransform", Path: dst, Err: err}
	}
	if meta.Projection != "" {
		if err := ds.SetProjection(meta.Projection); err != nil {
			return &IOError{Op: "set projection", Path: dst, Err: err}
		}
	}

	for i, band := range ds.Bands() {
		if err := band.Write(0, 0, pt.encode(bands[i].Data), cols, rows); err != nil {
			return &IOError{Op: "write", Path: dst, Err: fmt.Errorf("band %d: %w", i+1, err)}
		}
		if err := band.SetNoData(pt.NoData()); err != nil {
			return &IOError{Op: "set nodata", Path: dst, Err: fmt.Errorf("band %d: %w", i+1, err)}
		}
	}
	return nil
}

// Warp runs a GDAL warp of the raster at src into dst with the given
// gdalwarp switches.
func Warp(src, dst string, switches ...string) error {
	ds, err := open(src)
	if err != nil {
		return err
	}
	defer ds.Close()

	out, err := ds.Warp(dst, switches, godal.ErrLogger(quietErrors))
	if err != nil {
		return &IOError{Op: "warp", Path: src, Err: err}
	}
	if cerr := out.Close(); cerr != nil {
		return &IOError{Op: "close", Path: dst, Err: cerr}
	}
	return nil
}
