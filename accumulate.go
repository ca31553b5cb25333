package umbra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// frameKernel is FrameBuffers decoded once per frame for per-pixel
// evaluation. It is read-only after construction and safe to share between
// goroutines.
type frameKernel struct {
	origin  mgl64.Vec2
	invZoom float64
	lights  []PointLight
	ambient [3]float64
	casters []shadowCaster
}

func newFrameKernel(fb *FrameBuffers) *frameKernel {
	k := &frameKernel{
		origin:  mgl64.Vec2{float64(fb.ViewOrigin[0]), float64(fb.ViewOrigin[1])},
		invZoom: 1,
	}
	if fb.Zoom > 0 {
		k.invZoom = 1 / float64(fb.Zoom)
	}

	pl := &fb.PointLights
	k.lights = make([]PointLight, pl.Count)
	for i := range k.lights {
		k.lights[i] = pl.PointLightAt(i)
	}

	// Ambient terms do not depend on the pixel, so they collapse to one sum.
	al := &fb.AmbientLights
	for i := 0; i < int(al.Count); i++ {
		a := al.AmbientLightAt(i)
		k.ambient[0] += a.Color.R * a.Intensity
		k.ambient[1] += a.Color.G * a.Intensity
		k.ambient[2] += a.Color.B * a.Intensity
	}

	oc := &fb.Occluders
	k.casters = make([]shadowCaster, oc.Count)
	for i := range k.casters {
		k.casters[i] = newShadowCaster(oc.OccluderAt(i))
	}
	return k
}

// toWorld maps a destination pixel to world space.
func (k *frameKernel) toWorld(px, py float64) mgl64.Vec2 {
	return k.origin.Add(mgl64.Vec2{px, py}.Mul(k.invZoom))
}

// light returns the summed light reaching world point p, before it is
// multiplied with the surface color.
func (k *frameKernel) light(p mgl64.Vec2) [3]float64 {
	total := k.ambient
	for i := range k.lights {
		l := &k.lights[i]
		lp := mgl64.Vec2{l.X, l.Y}

		shadow := 1.0
		for j := range k.casters {
			shadow *= k.casters[j].shadow(p, lp)
			if shadow == 0 {
				break
			}
		}
		if shadow == 0 {
			continue
		}

		d := p.Sub(lp).Len()
		f := 1 / (1 + d*l.Falloff)
		s := f * shadow * l.Intensity
		total[0] += l.Color.R * s
		total[1] += l.Color.G * s
		total[2] += l.Color.B * s
	}
	return total
}

// shade lights a surface color at destination pixel (px, py).
func (k *frameKernel) shade(px, py float64, src Color) Color {
	t := k.light(k.toWorld(px, py))
	return Color{
		R: math.Min(t[0]*src.R, 1),
		G: math.Min(t[1]*src.G, 1),
		B: math.Min(t[2]*src.B, 1),
		A: src.A,
	}
}

// ShadePixel returns the lit color of destination pixel (px, py) whose
// unlit surface color is src. Point lights contribute
// color*intensity*shadow/(1+distance*falloff), ambient lights contribute
// color*intensity, and the sum multiplies src per channel, clamped to 1.
// Alpha passes through unchanged.
//
// ShadePixel is a pure function of its arguments. Renderers shading many
// pixels of one frame decode fb once instead; see Renderer.
func ShadePixel(px, py float64, fb *FrameBuffers, src Color) Color {
	return newFrameKernel(fb).shade(px, py, src)
}
