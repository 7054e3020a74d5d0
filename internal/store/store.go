package store

import (
	"errors"
	"time"
)

var (
	// ErrNoData is returned when no readings exist for the requested window.
	ErrNoData = errors.New("no sensor data available")
)

// Reading is a single particulate-matter measurement. Values are µg/m³.
// Readings are immutable once recorded.
type Reading struct {
	Timestamp time.Time `json:"timestamp"` // always UTC
	PM25      float64   `json:"pm25"`
	PM10      float64   `json:"pm10"`
}

// Settings holds the user-adjustable alert thresholds and per-channel
// calibration factors applied to raw sensor values.
type Settings struct {
	PM25Warning     float64 `json:"pm25_warning" validate:"gt=0"`
	PM25Critical    float64 `json:"pm25_critical" validate:"gtfield=PM25Warning"`
	PM10Warning     float64 `json:"pm10_warning" validate:"gt=0"`
	PM10Critical    float64 `json:"pm10_critical" validate:"gtfield=PM10Warning"`
	PM25Calibration float64 `json:"pm25_calibration" validate:"gt=0"`
	PM10Calibration float64 `json:"pm10_calibration" validate:"gt=0"`
}

// DefaultSettings mirrors the EPA breakpoints the dashboard ships with.
func DefaultSettings() Settings {
	return Settings{
		PM25Warning:     12.0,
		PM25Critical:    35.0,
		PM10Warning:     54.0,
		PM10Critical:    154.0,
		PM25Calibration: 1.0,
		PM10Calibration: 1.0,
	}
}

// ReadingStore is the contract the assistant engine and the poller depend on.
// Implementations must allow concurrent inserts interleaved with range reads.
type ReadingStore interface {
	Insert(r Reading) error
	// Latest returns the most recent reading, or ErrNoData.
	Latest() (Reading, error)
	// Range returns readings with from <= ts <= to in ascending timestamp
	// order, or ErrNoData when the window is empty.
	Range(from, to time.Time) ([]Reading, error)
}

// SettingsStore is implemented by stores that persist dashboard settings.
type SettingsStore interface {
	GetSettings() (Settings, error)
	SaveSettings(s Settings) error
}
