package ecs

import (
	"github.com/phanxgames/umbra"
	"github.com/yohamta/donburi"
)

// TransformData places an entity in world space.
type TransformData struct {
	X, Y     float64
	Rotation float64 // radians
}

// Transform overrides the position of an entity's light or occluder.
var Transform = donburi.NewComponentType[TransformData]()

// PointLight makes an entity emit a point light.
var PointLight = donburi.NewComponentType[umbra.PointLight]()

// AmbientLight makes an entity emit an ambient light.
var AmbientLight = donburi.NewComponentType[umbra.AmbientLight]()

// Occluder makes an entity cast shadows.
var Occluder = donburi.NewComponentType[umbra.Occluder]()

// Disabled excludes an entity from lighting without removing its components.
var Disabled = donburi.NewTag()
