package raster

// Source resolves to exactly one band array and the georeferencing it
// carries.
type Source interface {
	ReadBand() (*Grid, error)
	Metadata() (GeoMetadata, error)
}

// FileSource is band 1 of a raster file on disk.
type FileSource string

func (f FileSource) ReadBand() (*Grid, error) {
	g, _, err := Read(string(f))
	return g, err
}

func (f FileSource) Metadata() (GeoMetadata, error) {
	return ReadMetadata(string(f))
}

func (f FileSource) String() string {
	return string(f)
}

// MemorySource serves an in-memory grid. ReadBand hands out a copy so that
// callers may scale it in place.
type MemorySource struct {
	Grid *Grid
	Meta GeoMetadata
}

func (m MemorySource) ReadBand() (*Grid, error) {
	return m.Grid.Clone(), nil
}

func (m MemorySource) Metadata() (GeoMetadata, error) {
	return m.Meta, nil
}
