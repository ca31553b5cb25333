package umbra

import (
	"fmt"
	"time"
)

// Stats describes the most recent Update.
type Stats struct {
	Frame   uint64
	Elapsed float64 // accumulated seconds across all updates

	PointLights, VisiblePointLights     int
	AmbientLights, VisibleAmbientLights int
	Occluders, VisibleOccluders         int
}

// LightingSystem turns a scene snapshot into packed kernel parameters once
// per frame: it culls every category against the camera view, checks
// capacities and packs the survivors. It is not safe for concurrent use;
// call Update from the game's update step and read Frame from the draw step.
type LightingSystem struct {
	cfg    Config
	logger Logger

	frame FrameBuffers
	valid bool
	stats Stats

	// Reused cull scratch.
	pls  []PointLight
	als  []AmbientLight
	occs []Occluder
}

// NewLightingSystem validates cfg and creates a system. A nil logger gets a
// DefaultLogger honoring cfg.Debug.
func NewLightingSystem(cfg Config, logger Logger) (*LightingSystem, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewDefaultLogger("umbra", cfg.Debug)
	}
	return &LightingSystem{
		cfg:    cfg,
		logger: logger,
		pls:    make([]PointLight, 0, MaxPointLights),
		als:    make([]AmbientLight, 0, MaxAmbientLights),
		occs:   make([]Occluder, 0, MaxOccluders),
	}, nil
}

// Config returns the current configuration.
func (s *LightingSystem) Config() Config { return s.cfg }

// Logger returns the system's logger.
func (s *LightingSystem) Logger() Logger { return s.logger }

// SetBufferMargin changes the cull margin from the next Update on.
func (s *LightingSystem) SetBufferMargin(m float64) error {
	c := s.cfg
	c.BufferMargin = m
	return s.setConfig(c)
}

// SetRayStepSize changes the RayStepSize forwarded to the kernel.
func (s *LightingSystem) SetRayStepSize(v float64) error {
	c := s.cfg
	c.RayStepSize = v
	return s.setConfig(c)
}

// SetOcclusionRolloff changes the OcclusionRolloff forwarded to the kernel.
func (s *LightingSystem) SetOcclusionRolloff(v float64) error {
	c := s.cfg
	c.OcclusionRolloff = v
	return s.setConfig(c)
}

func (s *LightingSystem) setConfig(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.cfg = c
	return nil
}

// Update culls the snapshot against cam, packs the visible entities and
// publishes them as the current frame. If any category has more visible
// entities than its capacity, Update returns a *CapacityError, the frame is
// marked invalid and Frame reports false until a later Update succeeds.
func (s *LightingSystem) Update(elapsed float64, scene Snapshot, cam *Camera) error {
	s.stats.Frame++
	s.stats.Elapsed += elapsed

	if cam == nil {
		s.valid = false
		return fmt.Errorf("umbra: update frame %d: nil camera", s.stats.Frame)
	}

	debug := s.logger.DebugEnabled()
	var timing frameTiming
	var t0 time.Time
	if debug {
		t0 = time.Now()
	}

	r := CullRect(cam, s.cfg.BufferMargin)
	s.pls = Cull(s.pls[:0], scene.PointLights, r)
	s.als = Cull(s.als[:0], scene.AmbientLights, r)
	s.occs = Cull(s.occs[:0], scene.Occluders, r)

	s.stats.PointLights, s.stats.VisiblePointLights = len(scene.PointLights), len(s.pls)
	s.stats.AmbientLights, s.stats.VisibleAmbientLights = len(scene.AmbientLights), len(s.als)
	s.stats.Occluders, s.stats.VisibleOccluders = len(scene.Occluders), len(s.occs)

	if debug {
		now := time.Now()
		timing.cull = now.Sub(t0)
		t0 = now
	}

	if err := Pack(&s.frame, s.pls, s.als, s.occs); err != nil {
		s.valid = false
		s.logger.Errorf("frame %d: %v", s.stats.Frame, err)
		return fmt.Errorf("umbra: update frame %d: %w", s.stats.Frame, err)
	}

	vb := cam.VisibleBounds()
	s.frame.RayStepSize = float32(s.cfg.RayStepSize)
	s.frame.OcclusionRolloff = float32(s.cfg.OcclusionRolloff)
	s.frame.Resolution = [2]float32{float32(cam.Viewport.Width), float32(cam.Viewport.Height)}
	s.frame.ViewOrigin = [2]float32{float32(vb.X), float32(vb.Y)}
	s.frame.Zoom = float32(cam.zoom())
	s.valid = true

	if debug {
		timing.pack = time.Since(t0)
		s.debugLog(timing)
		s.debugCheckOccluders(s.occs)
	}
	return nil
}

// Frame returns the packed buffers of the last successful Update. ok is false
// before the first success and after a failed Update; renderers must not
// dispatch in that case.
func (s *LightingSystem) Frame() (fb *FrameBuffers, ok bool) {
	if !s.valid {
		return nil, false
	}
	return &s.frame, true
}

// Stats returns counters from the most recent Update.
func (s *LightingSystem) Stats() Stats { return s.stats }
