package umbra

import "testing"

func testCamera() *Camera {
	// 800x600 view centred on (400, 300): visible world rect (0,0)-(800,600).
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.X, cam.Y = 400, 300
	return cam
}

func TestCullRect(t *testing.T) {
	r := CullRect(testCamera(), 100)
	want := Rect{X: -100, Y: -100, Width: 1000, Height: 800}
	if r != want {
		t.Errorf("CullRect = %+v, want %+v", r, want)
	}
}

func TestCullRectNegativeMargin(t *testing.T) {
	r := CullRect(testCamera(), -50)
	want := Rect{X: 0, Y: 0, Width: 800, Height: 600}
	if r != want {
		t.Errorf("CullRect = %+v, want %+v", r, want)
	}
}

func TestIsVisibleBoundaryInclusive(t *testing.T) {
	cam := testCamera()
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"left edge", -100, 300, true},
		{"right edge", 900, 300, true},
		{"top edge", 400, -100, true},
		{"bottom edge", 400, 700, true},
		{"corner", 900, 700, true},
		{"one past left", -101, 300, false},
		{"one past right", 901, 300, false},
		{"one past top", 400, -101, false},
		{"one past bottom", 400, 701, false},
		{"centre", 400, 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsVisible(tt.x, tt.y, cam, 100); got != tt.want {
				t.Errorf("IsVisible(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestIsVisibleZoom(t *testing.T) {
	cam := testCamera()
	cam.Zoom = 2 // visible rect (200,150)-(600,450)
	if !IsVisible(200, 150, cam, 0) {
		t.Error("corner of zoomed view should be visible")
	}
	if IsVisible(150, 300, cam, 0) {
		t.Error("point outside zoomed view should not be visible")
	}
	if !IsVisible(150, 300, cam, 50) {
		t.Error("point within margin of zoomed view should be visible")
	}
}

func TestIsVisibleZeroZoom(t *testing.T) {
	cam := testCamera()
	cam.Zoom = 0
	if !IsVisible(800, 600, cam, 0) {
		t.Error("zero zoom should behave as zoom 1")
	}
}

func TestCullPreservesOrder(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	src := []Occluder{
		{X: 10, Y: 10, Radius: 1},
		{X: 500, Y: 10, Radius: 2},
		{X: 50, Y: 50, Radius: 3},
		{X: -1, Y: 50, Radius: 4},
		{X: 100, Y: 100, Radius: 5},
	}
	got := Cull(nil, src, r)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{1, 3, 5} {
		if got[i].Radius != want {
			t.Errorf("got[%d].Radius = %v, want %v", i, got[i].Radius, want)
		}
	}
}

func TestCullReusesDst(t *testing.T) {
	r := Rect{Width: 10, Height: 10}
	dst := make([]PointLight, 0, 4)
	dst = Cull(dst, []PointLight{{X: 1, Y: 1}, {X: 2, Y: 2}}, r)
	dst = Cull(dst[:0], []PointLight{{X: 3, Y: 3}}, r)
	if len(dst) != 1 || dst[0].X != 3 {
		t.Errorf("Cull = %+v, want one light at x=3", dst)
	}
}

func BenchmarkCull(b *testing.B) {
	src := makeOccluders(200)
	r := Rect{X: 0, Y: 0, Width: 300, Height: 700}
	dst := make([]Occluder, 0, len(src))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dst = Cull(dst[:0], src, r)
	}
}
