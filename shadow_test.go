package umbra

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestShadowZeroLengthRay(t *testing.T) {
	occ := Occluder{X: 0, Y: 0, Shape: ShapeCircle, Radius: 50}
	// Even inside the occluder, a pixel at the light position is lit.
	if s := Shadow(v2(10, 10), v2(10, 10), occ); s != 1 {
		t.Errorf("Shadow = %v, want 1", s)
	}
}

func TestShadowCircleBlocks(t *testing.T) {
	occ := Occluder{X: 50, Y: 0, Shape: ShapeCircle, Radius: 10}
	if s := Shadow(v2(100, 0), v2(0, 0), occ); s != 0 {
		t.Errorf("blocked Shadow = %v, want 0", s)
	}
	if s := Shadow(v2(100, 40), v2(0, 40), occ); s != 1 {
		t.Errorf("clear Shadow = %v, want 1", s)
	}
}

func TestShadowPixelBeforeOccluder(t *testing.T) {
	occ := Occluder{X: 50, Y: 0, Shape: ShapeCircle, Radius: 10}
	// The occluder lies beyond the pixel, not between it and the light.
	if s := Shadow(v2(30, 0), v2(0, 0), occ); s != 1 {
		t.Errorf("Shadow = %v, want 1", s)
	}
}

func TestShadowLightInsideOccluder(t *testing.T) {
	occ := Occluder{X: 0, Y: 0, Shape: ShapeRectangle, Width: 20, Height: 20}
	if s := Shadow(v2(100, 0), v2(0, 0), occ); s != 0 {
		t.Errorf("Shadow = %v, want 0", s)
	}
}

func TestShadowRotation(t *testing.T) {
	// A thin horizontal bar; rotated a quarter turn it becomes vertical and
	// crosses a horizontal ray at y=40.
	bar := Occluder{X: 0, Y: 0, Shape: ShapeRectangle, Width: 50, Height: 2}
	light, pixel := v2(-20, 40), v2(20, 40)

	if s := Shadow(pixel, light, bar); s != 1 {
		t.Errorf("unrotated Shadow = %v, want 1", s)
	}
	bar.Rotation = math.Pi / 2
	if s := Shadow(pixel, light, bar); s != 0 {
		t.Errorf("rotated Shadow = %v, want 0", s)
	}
}

func TestShadowEmptyBoxRoom(t *testing.T) {
	room := Occluder{X: 100, Y: 100, Shape: ShapeEmptyBox, Width: 200, Height: 200}
	light := v2(100, 100)

	tests := []struct {
		name  string
		pixel [2]float64
		want  float64
	}{
		{"inside near", [2]float64{150, 100}, 1},
		{"inside corner", [2]float64{180, 180}, 1},
		{"outside right", [2]float64{300, 100}, 0},
		{"outside below", [2]float64{100, 260}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := Shadow(v2(tt.pixel[0], tt.pixel[1]), light, room); s != tt.want {
				t.Errorf("Shadow = %v, want %v", s, tt.want)
			}
		})
	}
}

func TestShadowLongGrazingRay(t *testing.T) {
	// A long hallway with the ray running 1.5 units above the floor wall.
	// Every step is short, so the march needs far more steps than a short
	// ray before it reaches the far wall.
	hall := Occluder{X: 1200, Y: 50, Shape: ShapeEmptyBox, Width: 2400, Height: 100}
	light := v2(5, 1.5)

	if s := Shadow(v2(2300, 1.5), light, hall); s != 1 {
		t.Errorf("inside hallway Shadow = %v, want 1", s)
	}
	if s := Shadow(v2(2500, 1.5), light, hall); s != 0 {
		t.Errorf("past far wall Shadow = %v, want 0", s)
	}
}

func TestMarchSteps(t *testing.T) {
	for _, l := range []float64{0.5, 1, 100, 2495, 40000} {
		n := marchSteps(l)
		if float64(n)*MarchSafety*ContactThreshold < l {
			t.Errorf("marchSteps(%v) = %d, too few to cover the ray", l, n)
		}
	}
	if n := marchSteps(1e12); n != MaxMarchSteps {
		t.Errorf("marchSteps(1e12) = %d, want %d", n, MaxMarchSteps)
	}
	if n := marchSteps(math.NaN()); n != MaxMarchSteps {
		t.Errorf("marchSteps(NaN) = %d, want %d", n, MaxMarchSteps)
	}
}

func TestShadowSpotLightHousing(t *testing.T) {
	// Housing open toward -Y with the light inside: light escapes downward
	// but not upward through the closed edge.
	housing := Occluder{X: 0, Y: 0, Shape: ShapeSpotLight, Width: 40, Height: 40}
	light := v2(0, 0)
	if s := Shadow(v2(0, -100), light, housing); s != 1 {
		t.Errorf("open side Shadow = %v, want 1", s)
	}
	if s := Shadow(v2(0, 100), light, housing); s != 0 {
		t.Errorf("closed side Shadow = %v, want 0", s)
	}
	if s := Shadow(v2(100, 0), light, housing); s != 0 {
		t.Errorf("wall Shadow = %v, want 0", s)
	}
}

func TestShadowFarOccluderNeverShadows(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 8))
	kinds := []ShapeKind{ShapeCircle, ShapeRectangle, ShapeCapsule, ShapeEllipse,
		ShapeSpotLight, ShapeSegment, ShapeTrapezoid, ShapeEmptyBox}
	for i := 0; i < 400; i++ {
		occ := Occluder{
			X:        rng.Float64()*200 - 100,
			Y:        rng.Float64()*200 - 100,
			Rotation: rng.Float64() * 2 * math.Pi,
			Shape:    kinds[i%len(kinds)],
			Width:    rng.Float64()*20 + 1,
			Height:   rng.Float64()*20 + 1,
			Radius:   rng.Float64()*10 + 1,
		}
		light := v2(rng.Float64()*200-100, rng.Float64()*200-100)
		// Pixel within a short distance of the light, occluder entirely
		// farther away than the whole ray.
		pixel := light.Add(v2(rng.Float64()*10-5, rng.Float64()*10-5))
		ray := pixel.Sub(light).Len()
		centre := v2(occ.X, occ.Y).Sub(light).Len()
		if centre <= ray+occ.MaxExtent() {
			continue
		}
		if s := Shadow(pixel, light, occ); s != 1 {
			t.Errorf("occluder %+v at %v > ray %v + extent %v shadowed: %v", occ, centre, ray, occ.MaxExtent(), s)
		}
	}
}

func TestShadowDeterministic(t *testing.T) {
	occ := Occluder{X: 40, Y: 12, Rotation: 0.7, Shape: ShapeEllipse, Width: 30, Height: 9}
	rng := rand.New(rand.NewPCG(4, 4))
	for i := 0; i < 100; i++ {
		pixel := v2(rng.Float64()*200-100, rng.Float64()*200-100)
		light := v2(rng.Float64()*200-100, rng.Float64()*200-100)
		a := Shadow(pixel, light, occ)
		b := Shadow(pixel, light, occ)
		if a != b {
			t.Fatalf("Shadow(%v, %v) not deterministic: %v then %v", pixel, light, a, b)
		}
		if a != 0 && a != 1 {
			t.Fatalf("Shadow = %v, want 0 or 1", a)
		}
	}
}

func TestShadowUnknownShapeNeverOccludes(t *testing.T) {
	occ := Occluder{X: 50, Y: 0, Shape: ShapeKind(77), Width: 100, Height: 100, Radius: 100}
	if s := Shadow(v2(100, 0), v2(0, 0), occ); s != 1 {
		t.Errorf("Shadow = %v, want 1", s)
	}
}

func TestCombinedShadow(t *testing.T) {
	light, pixel := v2(0, 0), v2(200, 0)
	blocker := Occluder{X: 100, Y: 0, Shape: ShapeCircle, Radius: 10}
	bystander := Occluder{X: 100, Y: 100, Shape: ShapeCircle, Radius: 10}

	if s := CombinedShadow(pixel, light, nil); s != 1 {
		t.Errorf("no occluders = %v, want 1", s)
	}
	if s := CombinedShadow(pixel, light, []Occluder{bystander}); s != 1 {
		t.Errorf("bystander only = %v, want 1", s)
	}
	if s := CombinedShadow(pixel, light, []Occluder{bystander, blocker}); s != 0 {
		t.Errorf("with blocker = %v, want 0", s)
	}
}

func BenchmarkShadowEllipse(b *testing.B) {
	c := newShadowCaster(Occluder{X: 100, Y: 40, Rotation: 0.3, Shape: ShapeEllipse, Width: 30, Height: 12})
	light, pixel := v2(0, 0), v2(400, 90)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.shadow(pixel, light)
	}
}
