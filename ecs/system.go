package ecs

import (
	"github.com/phanxgames/umbra"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FrameError describes a frame the lighting system refused to pack.
type FrameError struct {
	Frame uint64
	Err   error
}

// FrameErrorEventType is published when System.Update fails. Subscribe to it
// to react to capacity overflows, e.g. by disabling distant lights.
var FrameErrorEventType = events.NewEventType[FrameError]()

// System drives an umbra.LightingSystem from a Donburi world.
type System struct {
	lighting *umbra.LightingSystem
	snapshot umbra.Snapshot
}

// NewSystem wraps lighting.
func NewSystem(lighting *umbra.LightingSystem) *System {
	return &System{lighting: lighting}
}

// Lighting returns the wrapped lighting system.
func (s *System) Lighting() *umbra.LightingSystem { return s.lighting }

// Snapshot returns the entities gathered by the last Update. The slices are
// reused by the next Update.
func (s *System) Snapshot() umbra.Snapshot { return s.snapshot }

// Update collects the world and packs a frame for cam. On failure the error
// is returned and also published as a FrameError.
func (s *System) Update(world donburi.World, elapsed float64, cam *umbra.Camera) error {
	Collect(world, &s.snapshot)
	if err := s.lighting.Update(elapsed, s.snapshot, cam); err != nil {
		FrameErrorEventType.Publish(world, FrameError{Frame: s.lighting.Stats().Frame, Err: err})
		return err
	}
	return nil
}
