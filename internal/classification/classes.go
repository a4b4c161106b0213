package classification

import (
	"fmt"
	"strings"

	"github.com/Quason/scene-classification/internal/raster"
)

// Class codes written to the class map. Codes 1-3 are unused.
const (
	NoData       uint8 = 0
	Vegetation   uint8 = 4
	SoilRock     uint8 = 5
	Water        uint8 = 6
	Unclassified uint8 = 7
	CloudMedium  uint8 = 8
	CloudHigh    uint8 = 9
	Cirrus       uint8 = 10
	Snow         uint8 = 11
)

// Classes lists every code in map order.
var Classes = []uint8{NoData, Vegetation, SoilRock, Water, Unclassified, CloudMedium, CloudHigh, Cirrus, Snow}

var classNames = map[uint8]string{
	NoData:       "no_data",
	Vegetation:   "vegetation",
	SoilRock:     "soil_rock_sand",
	Water:        "water",
	Unclassified: "unclassified",
	CloudMedium:  "cloud_medium_probability",
	CloudHigh:    "cloud_high_probability",
	Cirrus:       "cirrus",
	Snow:         "snow",
}

func ClassName(code uint8) string {
	if name, ok := classNames[code]; ok {
		return name
	}
	return "reserved"
}

// ClassMap holds one class code per pixel, row-major.
type ClassMap struct {
	Rows  int
	Cols  int
	Codes []uint8
}

func (m *ClassMap) At(row, col int) uint8 {
	return m.Codes[row*m.Cols+col]
}

// Grid converts the map for raster.Write.
func (m *ClassMap) Grid() *raster.Grid {
	g := raster.NewGrid(m.Rows, m.Cols)
	for i, c := range m.Codes {
		g.Data[i] = float64(c)
	}
	return g
}

func (m *ClassMap) String() string {
	var b strings.Builder
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%2d", m.At(r, c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ClassCount is the pixel tally of one class.
type ClassCount struct {
	Code     uint8   `csv:"code" json:"code"`
	Name     string  `csv:"name" json:"name"`
	Pixels   int     `csv:"pixels" json:"pixels"`
	Fraction float64 `csv:"fraction" json:"fraction"`
}

// Stats counts the pixels of every class in Classes, including empty ones.
func (m *ClassMap) Stats() []ClassCount {
	counts := make(map[uint8]int)
	for _, c := range m.Codes {
		counts[c]++
	}
	total := len(m.Codes)
	stats := make([]ClassCount, 0, len(Classes))
	for _, code := range Classes {
		cc := ClassCount{Code: code, Name: ClassName(code), Pixels: counts[code]}
		if total > 0 {
			cc.Fraction = float64(cc.Pixels) / float64(total)
		}
		stats = append(stats, cc)
	}
	return stats
}
