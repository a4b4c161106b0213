package raster

import (
	"fmt"
	"math"
	"strings"

	"github.com/airbusgeo/godal"
)

// PixelType is the on-disk sample type of a written raster.
type PixelType int

const (
	Uint8 PixelType = iota
	Uint16
	Int16
	Float32
)

func (p PixelType) String() string {
	switch p {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("PixelType(%d)", int(p))
}

// NoData is the sentinel written to every band of a raster of this type.
func (p PixelType) NoData() float64 {
	switch p {
	case Uint8:
		return 255
	case Uint16:
		return 65535
	default:
		return -999
	}
}

func ParsePixelType(s string) (PixelType, error) {
	switch strings.ToLower(s) {
	case "uint8", "byte":
		return Uint8, nil
	case "uint16":
		return Uint16, nil
	case "int16", "int":
		return Int16, nil
	case "float32", "float":
		return Float32, nil
	}
	return 0, fmt.Errorf("unknown pixel type %q", s)
}

func (p PixelType) dataType() godal.DataType {
	switch p {
	case Uint8:
		return godal.Byte
	case Uint16:
		return godal.UInt16
	case Int16:
		return godal.Int16
	default:
		return godal.Float32
	}
}

func (p PixelType) bounds() (float64, float64) {
	switch p {
	case Uint8:
		return 0, math.MaxUint8
	case Uint16:
		return 0, math.MaxUint16
	case Int16:
		return math.MinInt16, math.MaxInt16
	default:
		return -math.MaxFloat32, math.MaxFloat32
	}
}

// convert maps v into the range of p. NaN becomes the no-data sentinel,
// integer types are rounded and clamped.
func (p PixelType) convert(v float64) float64 {
	if math.IsNaN(v) {
		return p.NoData()
	}
	lo, hi := p.bounds()
	if p != Float32 {
		v = math.Round(v)
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// encode returns a buffer of the Go type godal expects for p.
func (p PixelType) encode(data []float64) interface{} {
	switch p {
	case Uint8:
		buf := make([]uint8, len(data))
		for i, v := range data {
			buf[i] = uint8(p.convert(v))
		}
		return buf
	case Uint16:
		buf := make([]uint16, len(data))
		for i, v := range data {
			buf[i] = uint16(p.convert(v))
		}
		return buf
	case Int16:
		buf := make([]int16, len(data))
		for i, v := range data {
			buf[i] = int16(p.convert(v))
		}
		return buf
	default:
		buf := make([]float32, len(data))
		for i, v := range data {
			buf[i] = float32(p.convert(v))
		}
		return buf
	}
}
