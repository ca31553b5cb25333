package umbra

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.BufferMargin != 100 {
		t.Errorf("BufferMargin = %v, want 100", cfg.BufferMargin)
	}
	if cfg.RayStepSize != 1 {
		t.Errorf("RayStepSize = %v, want 1", cfg.RayStepSize)
	}
	if cfg.OcclusionRolloff != 0 {
		t.Errorf("OcclusionRolloff = %v, want 0", cfg.OcclusionRolloff)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative margin", func(c *Config) { c.BufferMargin = -1 }},
		{"NaN margin", func(c *Config) { c.BufferMargin = math.NaN() }},
		{"zero step", func(c *Config) { c.RayStepSize = 0 }},
		{"NaN step", func(c *Config) { c.RayStepSize = math.NaN() }},
		{"negative rolloff", func(c *Config) { c.OcclusionRolloff = -0.1 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"negative samples", func(c *Config) { c.Volumetric.Samples = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"bufferMargin": 250,
		"occlusionRolloff": 0.5,
		"workers": 4,
		"volumetric": {"density": 0.2, "samples": 16, "color": {"R": 1, "G": 0.9, "B": 0.8, "A": 1}}
	}`))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BufferMargin != 250 {
		t.Errorf("BufferMargin = %v, want 250", cfg.BufferMargin)
	}
	if cfg.RayStepSize != 1 {
		t.Errorf("RayStepSize = %v, want default 1", cfg.RayStepSize)
	}
	if cfg.OcclusionRolloff != 0.5 {
		t.Errorf("OcclusionRolloff = %v, want 0.5", cfg.OcclusionRolloff)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Workers)
	}
	if cfg.Volumetric.Samples != 16 || cfg.Volumetric.Color.G != 0.9 {
		t.Errorf("Volumetric = %+v", cfg.Volumetric)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	if _, err := LoadConfig([]byte(`{not json`)); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadConfig([]byte(`{"rayStepSize": -3}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("LoadConfig = %v, want ErrInvalidConfig", err)
	}
}
