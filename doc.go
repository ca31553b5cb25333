// Package umbra computes 2D dynamic lighting with ray-marched shadows for
// [Ebitengine] games.
//
// A scene is described each frame as a [Snapshot] of point lights, ambient
// lights and occluders. Occluders are analytic signed distance field shapes
// ([ShapeKind]): circles, boxes, capsules, ellipses, segments, trapezoids,
// hollow boxes and three-sided spotlight housings.
//
// # Frame flow
//
// [LightingSystem.Update] culls every entity against the [Camera] view
// expanded by [Config.BufferMargin], then packs the survivors into
// [FrameBuffers]: fixed-length, zero-padded arrays that a kernel reads by
// index. Each category holds at most 50 entities; more visible entities is
// an error ([CapacityError]), never a silent truncation.
//
// The packed frame is shaded per pixel, either on the GPU by the Kage kernel
// behind [LightingFilter] (usually through [PostProcessor]) or on the CPU by
// [Renderer]. Both follow [ShadePixel]:
//
//	lit = min((sum(point) + sum(ambient)) * surface.rgb, 1)
//	point = color * intensity * shadow / (1 + distance*falloff)
//	ambient = color * intensity
//
// where shadow is the product of [Shadow] over every occluder.
//
// # Quick start
//
//	pp, err := umbra.NewPostProcessor(800, 600, umbra.DefaultConfig(), nil)
//	// Update:
//	err = pp.Update(dt, snapshot, camera)
//	// Draw, with the unlit scene rendered into sceneImg:
//	err = pp.Draw(screen, sceneImg)
//
// ECS integration via [Donburi] lives in the umbra/ecs module.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package umbra
