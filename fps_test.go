package umbra

import (
	"strings"
	"testing"
)

func TestFormatStats(t *testing.T) {
	s := Stats{Frame: 12, PointLights: 60, VisiblePointLights: 40, Occluders: 3, VisibleOccluders: 1}
	got := formatStats(s, 59.94, 60)
	for _, want := range []string{"FPS: 59.9", "TPS: 60.0", "frame 12", "40/60", " 1/3"} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStats = %q, missing %q", got, want)
		}
	}
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("line breaks = %d, want 4", n)
	}
}

func TestStatsOverlayRefresh(t *testing.T) {
	o := NewStatsOverlay()
	o.Update(0.1, Stats{Frame: 1})
	if !strings.Contains(o.Text(), "frame 1") {
		t.Fatalf("first Update should draw, got %q", o.Text())
	}
	o.Update(0.1, Stats{Frame: 2})
	if !strings.Contains(o.Text(), "frame 1") {
		t.Errorf("refresh before half a second: %q", o.Text())
	}
	o.Update(0.5, Stats{Frame: 3})
	if !strings.Contains(o.Text(), "frame 3") {
		t.Errorf("no refresh after half a second: %q", o.Text())
	}
}
