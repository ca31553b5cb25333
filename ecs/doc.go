// Package ecs feeds umbra's lighting system from a [Donburi] world.
//
// Attach [PointLight], [AmbientLight] or [Occluder] to an entity to make it
// take part in lighting. An optional [Transform] overrides the entity's
// position and, for occluders, adds to its rotation, so lights and occluders
// can follow whatever moves the entity. Entities tagged [Disabled] are
// skipped.
//
// Each frame, [System.Update] collects a snapshot of the world and hands it
// to an [umbra.LightingSystem]. A failed frame is published as a
// [FrameError] on [FrameErrorEventType]:
//
//	sys := ecs.NewSystem(lighting)
//	ecs.FrameErrorEventType.Subscribe(world, onFrameError)
//	// every tick:
//	sys.Update(world, dt, camera)
//	ecs.FrameErrorEventType.ProcessEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
