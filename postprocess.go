package umbra

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// PostProcessor is the per-frame lighting pass for an Ebitengine game. It
// owns the LightingSystem that packs each frame, the GPU LightingFilter, the
// occlusion MaskTable and an offscreen target the lit composite is rendered
// into.
//
// Call Update from the game's Update after the world has moved, then Draw
// from the game's Draw with the unlit scene as src.
type PostProcessor struct {
	system *LightingSystem
	filter *LightingFilter
	masks  *MaskTable
	target *ebiten.Image
	w, h   int
	imgOp  ebiten.DrawImageOptions
}

// NewPostProcessor creates a post-processor rendering at w x h pixels.
func NewPostProcessor(w, h int, cfg Config, logger Logger) (*PostProcessor, error) {
	sys, err := NewLightingSystem(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &PostProcessor{
		system: sys,
		filter: NewLightingFilter(),
		masks:  NewMaskTable(sys.Logger()),
		target: ebiten.NewImage(w, h),
		w:      w,
		h:      h,
	}, nil
}

// System returns the underlying LightingSystem.
func (pp *PostProcessor) System() *LightingSystem { return pp.system }

// Filter returns the GPU lighting filter.
func (pp *PostProcessor) Filter() *LightingFilter { return pp.filter }

// Masks returns the occlusion mask table.
func (pp *PostProcessor) Masks() *MaskTable { return pp.masks }

// Image returns the offscreen target holding the last lit composite.
func (pp *PostProcessor) Image() *ebiten.Image { return pp.target }

// Update packs the frame for cam. On a capacity error the filter is cleared
// so the next Draw refuses to run with stale or partial parameters.
func (pp *PostProcessor) Update(elapsed float64, scene Snapshot, cam *Camera) error {
	if err := pp.system.Update(elapsed, scene, cam); err != nil {
		pp.filter.SetFrame(nil)
		return err
	}
	fb, _ := pp.system.Frame()
	pp.filter.SetFrame(fb)
	return nil
}

// Draw lights src and draws the result onto dst. It returns ErrNoFrame and
// draws nothing when the last Update failed.
func (pp *PostProcessor) Draw(dst, src *ebiten.Image) error {
	if _, ok := pp.system.Frame(); !ok {
		return ErrNoFrame
	}
	pp.masks.Rebind(pp.filter.BindMask)

	pp.target.Clear()
	pp.filter.Apply(src, pp.target)

	op := &pp.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.Blend = ebiten.BlendCopy
	dst.DrawImage(pp.target, op)
	return nil
}

// Resize reallocates the offscreen target when the screen size changes.
func (pp *PostProcessor) Resize(w, h int) {
	if w == pp.w && h == pp.h {
		return
	}
	if pp.target != nil {
		pp.target.Deallocate()
	}
	pp.target = ebiten.NewImage(w, h)
	pp.w, pp.h = w, h
}

// Dispose releases the offscreen target.
func (pp *PostProcessor) Dispose() {
	if pp.target != nil {
		pp.target.Deallocate()
		pp.target = nil
	}
}
