package umbra

import "time"

// frameTiming holds per-Update timings. Only measured when debug logging is
// enabled.
type frameTiming struct {
	cull time.Duration
	pack time.Duration
}

// debugLog logs timings and counts for the frame just packed.
func (s *LightingSystem) debugLog(t frameTiming) {
	s.logger.Debugf("frame %d: cull %v | pack %v | total %v",
		s.stats.Frame, t.cull, t.pack, t.cull+t.pack)
	s.logger.Debugf("frame %d: %d/%d point, %d/%d ambient, %d/%d occluders visible",
		s.stats.Frame,
		s.stats.VisiblePointLights, s.stats.PointLights,
		s.stats.VisibleAmbientLights, s.stats.AmbientLights,
		s.stats.VisibleOccluders, s.stats.Occluders)
}

// debugCheckOccluders warns about visible occluders the kernel will ignore.
func (s *LightingSystem) debugCheckOccluders(occs []Occluder) {
	for i, o := range occs {
		if !o.Shape.Valid() {
			s.logger.Warnf("frame %d: occluder %d at (%g, %g) has unknown shape %v and casts no shadow",
				s.stats.Frame, i, o.X, o.Y, o.Shape)
		}
	}
}
