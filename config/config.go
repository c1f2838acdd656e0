// Package config loads ApplicationConfig from TOML, grounded on
// cogentcore-core's tomlx.Open(v any, filename string) error shape,
// trimmed to this library's single config struct rather than the
// teacher pack's generic encoder/decoder pair.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ApplicationConfig is the set of values an application injects at
// startup: window title, total frame count, target frame rate,
// clear-color, and scheduling period.
type ApplicationConfig struct {
	Title           string     `toml:"title"`
	FrameCount      int        `toml:"frameCount"`
	FrameRate       float64    `toml:"frameRate"`
	BackgroundColor [4]float32 `toml:"backgroundColor"`
	PeriodMS        int        `toml:"period"`
}

// DefaultApplicationConfig returns sane defaults: 60 FPS, opaque black
// clear color, unbounded frame count.
func DefaultApplicationConfig() ApplicationConfig {
	return ApplicationConfig{
		Title:           "vkforge",
		FrameCount:      0,
		FrameRate:       60,
		BackgroundColor: [4]float32{0, 0, 0, 1},
		PeriodMS:        0,
	}
}

// Open reads an ApplicationConfig from filename, starting from
// DefaultApplicationConfig and overwriting only the fields the file
// declares.
func Open(filename string) (ApplicationConfig, error) {
	cfg := DefaultApplicationConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return ApplicationConfig{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return ApplicationConfig{}, err
	}
	return cfg, nil
}

// Period returns the scheduling period as a time.Duration-compatible
// millisecond count derived from FrameRate when PeriodMS is unset.
func (c ApplicationConfig) Period() int {
	if c.PeriodMS > 0 {
		return c.PeriodMS
	}
	if c.FrameRate > 0 {
		return int(1000 / c.FrameRate)
	}
	return 0
}
