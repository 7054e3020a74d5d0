package sensor

import "context"

// Sample is one raw particulate-matter measurement pair in µg/m³.
type Sample struct {
	PM25 float64
	PM10 float64
}

// Source abstracts a particulate-matter sensor for the polling loop.
type Source interface {
	Read(ctx context.Context) (Sample, error)
}
