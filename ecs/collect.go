package ecs

import (
	"github.com/phanxgames/umbra"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

var (
	pointLightQuery   = donburi.NewQuery(filter.And(filter.Contains(PointLight), filter.Not(filter.Contains(Disabled))))
	ambientLightQuery = donburi.NewQuery(filter.And(filter.Contains(AmbientLight), filter.Not(filter.Contains(Disabled))))
	occluderQuery     = donburi.NewQuery(filter.And(filter.Contains(Occluder), filter.Not(filter.Contains(Disabled))))
)

// Collect gathers every enabled light and occluder in world into dst,
// reusing dst's slices. Entities with a Transform take their position from
// it; an occluder's rotation is the sum of both rotations.
func Collect(world donburi.World, dst *umbra.Snapshot) {
	dst.PointLights = dst.PointLights[:0]
	dst.AmbientLights = dst.AmbientLights[:0]
	dst.Occluders = dst.Occluders[:0]

	pointLightQuery.Each(world, func(e *donburi.Entry) {
		l := *PointLight.Get(e)
		if e.HasComponent(Transform) {
			t := Transform.Get(e)
			l.X, l.Y = t.X, t.Y
		}
		dst.PointLights = append(dst.PointLights, l)
	})
	ambientLightQuery.Each(world, func(e *donburi.Entry) {
		l := *AmbientLight.Get(e)
		if e.HasComponent(Transform) {
			t := Transform.Get(e)
			l.X, l.Y = t.X, t.Y
		}
		dst.AmbientLights = append(dst.AmbientLights, l)
	})
	occluderQuery.Each(world, func(e *donburi.Entry) {
		o := *Occluder.Get(e)
		if e.HasComponent(Transform) {
			t := Transform.Get(e)
			o.X, o.Y = t.X, t.Y
			o.Rotation += t.Rotation
		}
		dst.Occluders = append(dst.Occluders, o)
	})
}
