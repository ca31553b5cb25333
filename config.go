package umbra

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every Config validation failure.
var ErrInvalidConfig = errors.New("umbra: invalid config")

// VolumetricConfig describes light scattering through fog. The fields are
// carried to the post-processor but no kernel reads them yet.
type VolumetricConfig struct {
	Density    float64 `json:"density"`
	Scattering float64 `json:"scattering"`
	Samples    int     `json:"samples"`
	Color      Color   `json:"color"`
}

// Config controls the lighting system. Capacities are fixed by the
// MaxPointLights, MaxAmbientLights and MaxOccluders constants.
type Config struct {
	// BufferMargin is how far, in world units, beyond the camera view an
	// entity may sit and still be lit or cast shadows.
	BufferMargin float64 `json:"bufferMargin"`
	// RayStepSize is forwarded to the kernel as RayStepSize.
	RayStepSize float64 `json:"rayStepSize"`
	// OcclusionRolloff is forwarded to the kernel as OcclusionRolloff. The
	// shadow march is binary and does not apply it.
	OcclusionRolloff float64 `json:"occlusionRolloff"`
	// QualityThreshold is reserved for adaptive kernel quality.
	QualityThreshold float64          `json:"qualityThreshold"`
	Volumetric       VolumetricConfig `json:"volumetric"`
	// Workers bounds the CPU renderer's parallelism. Zero means one worker
	// per CPU.
	Workers int `json:"workers"`
	// Debug enables debug logging on the default logger.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		BufferMargin:     100,
		RayStepSize:      1.0,
		OcclusionRolloff: 0.0,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.BufferMargin < 0 || math.IsNaN(c.BufferMargin):
		return fmt.Errorf("%w: bufferMargin %v must be >= 0", ErrInvalidConfig, c.BufferMargin)
	case !(c.RayStepSize > 0):
		return fmt.Errorf("%w: rayStepSize %v must be > 0", ErrInvalidConfig, c.RayStepSize)
	case c.OcclusionRolloff < 0 || math.IsNaN(c.OcclusionRolloff):
		return fmt.Errorf("%w: occlusionRolloff %v must be >= 0", ErrInvalidConfig, c.OcclusionRolloff)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d must be >= 0", ErrInvalidConfig, c.Workers)
	case c.Volumetric.Samples < 0:
		return fmt.Errorf("%w: volumetric samples %d must be >= 0", ErrInvalidConfig, c.Volumetric.Samples)
	}
	return nil
}

// LoadConfig parses a JSON config. Missing fields keep DefaultConfig values.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("umbra: failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
