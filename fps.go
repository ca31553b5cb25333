package umbra

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// StatsOverlay draws FPS, TPS and the lighting system's per-frame entity
// counts in a corner of the screen. The text is refreshed every half second.
type StatsOverlay struct {
	img      *ebiten.Image
	sinceRef float64
	text     string
	op       ebiten.DrawImageOptions
}

// NewStatsOverlay creates an overlay. 180x64 fits the five text lines.
func NewStatsOverlay() *StatsOverlay {
	return &StatsOverlay{img: ebiten.NewImage(180, 64)}
}

// Update advances the refresh timer by dt seconds and redraws the text from
// s when it is due.
func (o *StatsOverlay) Update(dt float64, s Stats) {
	o.sinceRef += dt
	if o.sinceRef < 0.5 && o.text != "" {
		return
	}
	o.sinceRef = 0
	o.text = formatStats(s, ebiten.ActualFPS(), ebiten.ActualTPS())

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

// Text returns the text last drawn.
func (o *StatsOverlay) Text() string { return o.text }

// Draw draws the overlay onto dst at (x, y).
func (o *StatsOverlay) Draw(dst *ebiten.Image, x, y float64) {
	o.op.GeoM.Reset()
	o.op.GeoM.Translate(x, y)
	dst.DrawImage(o.img, &o.op)
}

func formatStats(s Stats, fps, tps float64) string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nframe %d\npoint   %2d/%d\nambient %2d/%d\noccl.   %2d/%d",
		fps, tps, s.Frame,
		s.VisiblePointLights, s.PointLights,
		s.VisibleAmbientLights, s.AmbientLights,
		s.VisibleOccluders, s.Occluders)
}
