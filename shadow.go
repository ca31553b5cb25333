package umbra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ContactThreshold is the SDF distance at or below which a march counts
	// as touching an occluder.
	ContactThreshold = 1.0
	// MarchSafety scales each sphere-tracing step to avoid overshooting
	// curved and concave surfaces.
	MarchSafety = 0.9
	// MaxMarchSteps is the hard ceiling on a single march. Below it the
	// step count follows the ray length, see marchSteps. A march that runs
	// out of steps without contact is treated as lit.
	MaxMarchSteps = 1 << 16
)

// marchSteps is the number of steps a ray of the given length may take.
// Every step taken out of contact advances at least
// MarchSafety*ContactThreshold, so this many steps always reach the pixel.
func marchSteps(rayLength float64) int {
	n := math.Ceil(rayLength/(MarchSafety*ContactThreshold)) + 1
	if n >= MaxMarchSteps || math.IsNaN(n) {
		return MaxMarchSteps
	}
	return int(n)
}

// shadowCaster is an occluder prepared for repeated marching: the inverse
// rotation is computed once instead of per step.
type shadowCaster struct {
	pos    mgl64.Vec2
	size   mgl64.Vec2
	radius float64
	shape  ShapeKind
	inv    mgl64.Mat2
}

func newShadowCaster(o Occluder) shadowCaster {
	return shadowCaster{
		pos:    mgl64.Vec2{o.X, o.Y},
		size:   mgl64.Vec2{o.Width, o.Height},
		radius: o.Radius,
		shape:  o.Shape,
		inv:    mgl64.Rotate2D(-o.Rotation),
	}
}

// distance evaluates the caster's SDF at a world-space point.
func (c *shadowCaster) distance(world mgl64.Vec2) float64 {
	local := c.inv.Mul2x1(world.Sub(c.pos))
	return SignedDistance(c.shape, local, c.size, c.radius)
}

// Shadow marches from light toward pixel and reports whether occ blocks the
// ray: 1 when the pixel is lit, 0 when occluded. Identical inputs always give
// identical results.
func Shadow(pixel, light mgl64.Vec2, occ Occluder) float64 {
	c := newShadowCaster(occ)
	return c.shadow(pixel, light)
}

func (c *shadowCaster) shadow(pixel, light mgl64.Vec2) float64 {
	ray := pixel.Sub(light)
	rayLength := ray.Len()
	if rayLength == 0 {
		return 1
	}
	dir := ray.Mul(1 / rayLength)

	pos := light
	traveled := 0.0
	steps := marchSteps(rayLength)
	for step := 0; step < steps && traveled < rayLength; step++ {
		d := c.distance(pos)
		if d > rayLength-traveled {
			return 1
		}
		if d <= ContactThreshold {
			// Once in contact the rest of the ray stays in shadow.
			return 0
		}
		pos = pos.Add(dir.Mul(d * MarchSafety))
		traveled = pos.Sub(light).Len()
	}
	return 1
}

// CombinedShadow multiplies the shadow of every occluder for one
// (pixel, light) pair. Overlapping occluders attenuate independently.
func CombinedShadow(pixel, light mgl64.Vec2, occluders []Occluder) float64 {
	s := 1.0
	for _, o := range occluders {
		c := newShadowCaster(o)
		s *= c.shadow(pixel, light)
		if s == 0 {
			break
		}
	}
	return s
}
