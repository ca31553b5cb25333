package umbra

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Filter is the interface for full-screen passes applied to a rendered frame.
type Filter interface {
	// Apply renders src into dst with the filter effect.
	Apply(src, dst *ebiten.Image)
}

// lightingShaderSrc is the GPU realization of ShadePixel. Uniform names and
// array lengths mirror FrameBuffers field for field. Ebitengine uses
// premultiplied alpha, so the source is un-premultiplied before lighting and
// re-premultiplied on output.
const lightingShaderSrc = `//kage:unit pixels
package main

var Resolution vec2
var ViewOrigin vec2
var Zoom float
var RayStepSize float
var OcclusionRolloff float

var PointLightCount int
var PointLightPositions [100]float
var PointLightColors [150]float
var PointLightIntensities [50]float
var PointLightFalloffs [50]float

var AmbientLightCount int
var AmbientLightPositions [100]float
var AmbientLightColors [150]float
var AmbientLightIntensities [50]float

var OccluderCount int
var OccluderShapes [50]float
var OccluderPositions [100]float
var OccluderSizes [100]float
var OccluderAngles [50]float
var OccluderRadiuses [50]float

func sdCircle(p vec2, r float) float {
	return length(p) - r
}

func sdBox(p vec2, b vec2) float {
	d := abs(p) - abs(b)
	return length(max(d, vec2(0))) + min(max(d.x, d.y), 0)
}

func sdSegment(p vec2, a vec2, b vec2) float {
	pa := p - a
	ba := b - a
	l2 := dot(ba, ba)
	if l2 == 0 {
		return length(pa)
	}
	h := clamp(dot(pa, ba)/l2, 0, 1)
	return length(pa - ba*h)
}

func sdCapsule(p vec2, r1 float, r2 float, h float) float {
	if h <= 0 {
		return length(p) - max(r1, r2)
	}
	b := (r1 - r2) / h
	if abs(b) >= 1 {
		return min(length(p)-r1, length(p-vec2(0, h))-r2)
	}
	a := sqrt(1 - b*b)
	q := vec2(abs(p.x), p.y)
	k := dot(q, vec2(-b, a))
	if k < 0 {
		return length(q) - r1
	}
	if k > a*h {
		return length(q-vec2(0, h)) - r2
	}
	return dot(q, vec2(a, b)) - r1
}

func sdSpotLight(p vec2, size vec2) float {
	hs := size * 0.5
	bl := vec2(-hs.x, -hs.y)
	br := vec2(hs.x, -hs.y)
	tl := vec2(-hs.x, hs.y)
	tr := vec2(hs.x, hs.y)
	d := min(sdSegment(p, bl, tl), sdSegment(p, br, tr))
	return min(d, sdSegment(p, tl, tr))
}

func sdEmptyBox(p vec2, size vec2) float {
	hs := size * 0.5
	bl := vec2(-hs.x, -hs.y)
	br := vec2(hs.x, -hs.y)
	tl := vec2(-hs.x, hs.y)
	tr := vec2(hs.x, hs.y)
	d := min(sdSegment(p, bl, tl), sdSegment(p, br, tr))
	d = min(d, sdSegment(p, bl, br))
	return min(d, sdSegment(p, tl, tr))
}

func sdTrapezoid(p vec2, r1 float, r2 float, he float) float {
	k1 := vec2(r2, he)
	k2 := vec2(r2-r1, 2*he)
	q := vec2(abs(p.x), p.y)
	w := r2
	if q.y < 0 {
		w = r1
	}
	ca := vec2(q.x-min(q.x, w), abs(q.y)-he)
	t := 0.0
	l2 := dot(k2, k2)
	if l2 > 0 {
		t = clamp(dot(k1-q, k2)/l2, 0, 1)
	}
	cb := q - k1 + k2*t
	s := 1.0
	if cb.x < 0 && ca.y < 0 {
		s = -1.0
	}
	return s * sqrt(min(dot(ca, ca), dot(cb, cb)))
}

func cbrt(x float) float {
	return sign(x) * pow(abs(x), 1.0/3.0)
}

func sdEllipse(p vec2, ab vec2) float {
	a := abs(ab.x)
	b := abs(ab.y)
	if a == 0 && b == 0 {
		return length(p)
	}
	if a == 0 {
		return sdSegment(p, vec2(0, -b), vec2(0, b))
	}
	if b == 0 {
		return sdSegment(p, vec2(-a, 0), vec2(a, 0))
	}
	big := max(a, b)
	if abs(a*a-b*b) < 0.001*big*big {
		return length(p) - big
	}
	q := abs(p)
	if q.x > q.y {
		q = q.yx
		t := a
		a = b
		b = t
	}
	l := b*b - a*a
	m := a * q.x / l
	m2 := m * m
	n := b * q.y / l
	n2 := n * n
	c := (m2 + n2 - 1) / 3
	c3 := c * c * c
	qq := c3 + m2*n2*2
	d := c3 + m2*n2
	g := m + m*n2
	co := 0.0
	if d < 0 {
		h := acos(clamp(qq/c3, -1, 1)) / 3
		s := cos(h)
		t := sin(h) * sqrt(3.0)
		rx := sqrt(max(-c*(s+t+2)+m2, 0))
		ry := sqrt(max(-c*(s-t+2)+m2, 0))
		co = ry + sign(l)*rx - m
		if rx*ry > 0 {
			co += abs(g) / (rx * ry)
		}
		co /= 2
	} else {
		h := 2 * m * n * sqrt(d)
		s := cbrt(qq + h)
		u := cbrt(qq - h)
		rx := -s - u - c*4 + 2*m2
		ry := (s - u) * sqrt(3.0)
		rm := sqrt(rx*rx + ry*ry)
		den := sqrt(max(rm-rx, 0))
		if den > 0 && rm > 0 {
			co = (ry/den + 2*g/rm - m) / 2
		}
	}
	co = clamp(co, 0, 1)
	r := vec2(a*co, b*sqrt(1-co*co))
	dist := length(r - q)
	if q.y < r.y {
		return -dist
	}
	return dist
}

func occluderDistance(world vec2, j int) float {
	o := vec2(OccluderPositions[j*2], OccluderPositions[j*2+1])
	size := vec2(OccluderSizes[j*2], OccluderSizes[j*2+1])
	radius := OccluderRadiuses[j]
	ang := -OccluderAngles[j]
	c := cos(ang)
	s := sin(ang)
	rel := world - o
	p := vec2(c*rel.x-s*rel.y, s*rel.x+c*rel.y)
	shape := int(OccluderShapes[j] + 0.5)
	if shape == 0 {
		return sdCircle(p, radius)
	}
	if shape == 1 {
		return sdBox(p, size)
	}
	if shape == 2 {
		r2 := size.x
		if r2 == 0 {
			r2 = radius
		}
		return sdCapsule(p, radius, r2, size.y)
	}
	if shape == 3 {
		return sdEllipse(p, size)
	}
	if shape == 4 {
		return sdSpotLight(p, size)
	}
	if shape == 5 {
		return sdSegment(p, vec2(0), size)
	}
	if shape == 6 {
		return sdTrapezoid(p, size.x, radius, size.y)
	}
	if shape == 7 {
		return sdEmptyBox(p, size)
	}
	return 1e20
}

func shadowOf(p vec2, lp vec2, j int) float {
	ray := p - lp
	rayLength := length(ray)
	if rayLength == 0 {
		return 1
	}
	dir := ray / rayLength
	pos := lp
	traveled := 0.0
	for step := 0; step < 4096; step++ {
		if traveled >= rayLength {
			break
		}
		d := occluderDistance(pos, j)
		if d > rayLength-traveled {
			return 1
		}
		if d <= 1.0 {
			return 0
		}
		pos += dir * (d * 0.9)
		traveled = length(pos - lp)
	}
	return 1
}

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	pixel := dstPos.xy - imageDstOrigin()
	z := Zoom
	if z <= 0 {
		z = 1
	}
	p := ViewOrigin + pixel/z

	total := vec3(0)
	for i := 0; i < 50; i++ {
		if i >= PointLightCount {
			break
		}
		lp := vec2(PointLightPositions[i*2], PointLightPositions[i*2+1])
		shadow := 1.0
		for j := 0; j < 50; j++ {
			if j >= OccluderCount || shadow == 0 {
				break
			}
			shadow *= shadowOf(p, lp, j)
		}
		col := vec3(PointLightColors[i*3], PointLightColors[i*3+1], PointLightColors[i*3+2])
		falloff := 1 / (1 + length(p-lp)*PointLightFalloffs[i])
		total += col * falloff * shadow * PointLightIntensities[i]
	}
	for i := 0; i < 50; i++ {
		if i >= AmbientLightCount {
			break
		}
		col := vec3(AmbientLightColors[i*3], AmbientLightColors[i*3+1], AmbientLightColors[i*3+2])
		total += col * AmbientLightIntensities[i]
	}

	c := imageSrc0At(srcPos)
	if c.a > 0 {
		c.rgb /= c.a
	}
	lit := min(total*c.rgb, vec3(1))
	return vec4(lit*c.a, c.a)
}
`

// Uniform names shared by the Kage kernel and LightingFilter.
const (
	uniformResolution        = "Resolution"
	uniformViewOrigin        = "ViewOrigin"
	uniformZoom              = "Zoom"
	uniformRayStepSize       = "RayStepSize"
	uniformOcclusionRolloff  = "OcclusionRolloff"
	uniformPointLightCount   = "PointLightCount"
	uniformPointLightPos     = "PointLightPositions"
	uniformPointLightColors  = "PointLightColors"
	uniformPointLightInten   = "PointLightIntensities"
	uniformPointLightFalloff = "PointLightFalloffs"
	uniformAmbientCount      = "AmbientLightCount"
	uniformAmbientPos        = "AmbientLightPositions"
	uniformAmbientColors     = "AmbientLightColors"
	uniformAmbientInten      = "AmbientLightIntensities"
	uniformOccluderCount     = "OccluderCount"
	uniformOccluderShapes    = "OccluderShapes"
	uniformOccluderPos       = "OccluderPositions"
	uniformOccluderSizes     = "OccluderSizes"
	uniformOccluderAngles    = "OccluderAngles"
	uniformOccluderRadiuses  = "OccluderRadiuses"
)

// --- Lazy shader compilation (no sync.Once, dispatch is single-threaded) ---

var lightingShader *ebiten.Shader

func ensureLightingShader() *ebiten.Shader {
	if lightingShader == nil {
		s, err := ebiten.NewShader([]byte(lightingShaderSrc))
		if err != nil {
			panic("umbra: failed to compile lighting shader: " + err.Error())
		}
		lightingShader = s
	}
	return lightingShader
}

// LightingFilter runs the lighting kernel on the GPU. SetFrame copies a packed
// frame into the filter's uniform buffers; Apply then lights src into dst.
// The uniform map and its backing arrays are allocated once and rewritten in
// place every frame.
type LightingFilter struct {
	frame    FrameBuffers
	hasFrame bool
	shapes   [MaxOccluders]float32 // OccluderShapes as floats for the kernel
	masks    [MaxMasks]*ebiten.Image
	uniforms map[string]any
	shaderOp ebiten.DrawRectShaderOptions
}

// NewLightingFilter creates a filter with no frame; Apply is a plain copy
// until SetFrame is called.
func NewLightingFilter() *LightingFilter {
	f := &LightingFilter{uniforms: make(map[string]any, 20)}
	fb := &f.frame
	f.uniforms[uniformPointLightPos] = fb.PointLights.Positions[:]
	f.uniforms[uniformPointLightColors] = fb.PointLights.Colors[:]
	f.uniforms[uniformPointLightInten] = fb.PointLights.Intensities[:]
	f.uniforms[uniformPointLightFalloff] = fb.PointLights.Falloffs[:]
	f.uniforms[uniformAmbientPos] = fb.AmbientLights.Positions[:]
	f.uniforms[uniformAmbientColors] = fb.AmbientLights.Colors[:]
	f.uniforms[uniformAmbientInten] = fb.AmbientLights.Intensities[:]
	f.uniforms[uniformOccluderShapes] = f.shapes[:]
	f.uniforms[uniformOccluderPos] = fb.Occluders.Positions[:]
	f.uniforms[uniformOccluderSizes] = fb.Occluders.Sizes[:]
	f.uniforms[uniformOccluderAngles] = fb.Occluders.Angles[:]
	f.uniforms[uniformOccluderRadiuses] = fb.Occluders.Radiuses[:]
	f.uniforms[uniformResolution] = fb.Resolution[:]
	f.uniforms[uniformViewOrigin] = fb.ViewOrigin[:]
	return f
}

// SetFrame copies fb into the filter. A nil fb clears the frame.
func (f *LightingFilter) SetFrame(fb *FrameBuffers) {
	if fb == nil {
		f.hasFrame = false
		return
	}
	// Array fields copy in place, so the slices stored in uniforms stay valid.
	f.frame = *fb
	for i, s := range fb.Occluders.Shapes {
		f.shapes[i] = float32(s)
	}
	// Scalar float32/int boxing is unavoidable with Ebitengine's uniform API.
	f.uniforms[uniformPointLightCount] = int(fb.PointLights.Count)
	f.uniforms[uniformAmbientCount] = int(fb.AmbientLights.Count)
	f.uniforms[uniformOccluderCount] = int(fb.Occluders.Count)
	f.uniforms[uniformZoom] = fb.Zoom
	f.uniforms[uniformRayStepSize] = fb.RayStepSize
	f.uniforms[uniformOcclusionRolloff] = fb.OcclusionRolloff
	f.hasFrame = true
}

// BindMask stores the mask resident in slot. Used as a MaskTable.Rebind callback.
func (f *LightingFilter) BindMask(slot int, img *ebiten.Image) {
	if slot >= 0 && slot < len(f.masks) {
		f.masks[slot] = img
	}
}

// Mask returns the image bound to slot, or nil.
func (f *LightingFilter) Mask(slot int) *ebiten.Image {
	if slot < 0 || slot >= len(f.masks) {
		return nil
	}
	return f.masks[slot]
}

// Uniforms exposes the uniform map handed to the kernel. It MUST NOT be mutated.
func (f *LightingFilter) Uniforms() map[string]any {
	return f.uniforms
}

// Apply lights src into dst. Without a frame, src is copied unchanged.
func (f *LightingFilter) Apply(src, dst *ebiten.Image) {
	bounds := src.Bounds()
	if !f.hasFrame {
		var op ebiten.DrawImageOptions
		op.Blend = ebiten.BlendCopy
		dst.DrawImage(src, &op)
		return
	}
	shader := ensureLightingShader()
	f.shaderOp.Images[0] = src
	f.shaderOp.Uniforms = f.uniforms
	dst.DrawRectShader(bounds.Dx(), bounds.Dy(), shader, &f.shaderOp)
}
