package umbra

import (
	"fmt"
	"image"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// Renderer evaluates the lighting kernel on the CPU. Rows are shaded in
// parallel bands; each pixel depends only on the packed frame and its own
// source color.
type Renderer struct {
	workers int
	src     *image.NRGBA // src converted or resampled to the destination size
}

// NewRenderer creates a CPU renderer using up to workers goroutines.
// workers <= 0 uses one per CPU.
func NewRenderer(workers int) *Renderer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Renderer{workers: workers}
}

// Workers returns the renderer's parallelism.
func (r *Renderer) Workers() int { return r.workers }

// Render writes the lit composite of src into dst. src is resampled when its
// size differs from dst. fb must not change until Render returns.
func (r *Renderer) Render(dst *image.NRGBA, src image.Image, fb *FrameBuffers) error {
	if fb == nil {
		return ErrNoFrame
	}
	if dst == nil || src == nil {
		return fmt.Errorf("umbra: render needs both a destination and a source image")
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	surface := r.prepareSource(src, w, h)
	k := newFrameKernel(fb)

	bands := r.workers * 4
	if bands > h {
		bands = h
	}
	rowsPerBand := (h + bands - 1) / bands

	var g errgroup.Group
	g.SetLimit(r.workers)
	for y0 := 0; y0 < h; y0 += rowsPerBand {
		y1 := min(y0+rowsPerBand, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					c := ColorFromNRGBA(surface.NRGBAAt(x, y))
					lit := k.shade(float64(x)+0.5, float64(y)+0.5, c)
					dst.SetNRGBA(b.Min.X+x, b.Min.Y+y, lit.RGBA8())
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// prepareSource returns src as a w x h NRGBA image anchored at the origin,
// reusing the renderer's scratch buffer.
func (r *Renderer) prepareSource(src image.Image, w, h int) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect == image.Rect(0, 0, w, h) {
		return n
	}
	if r.src == nil || r.src.Rect.Dx() != w || r.src.Rect.Dy() != h {
		r.src = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	sb := src.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		xdraw.Draw(r.src, r.src.Rect, src, sb.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(r.src, r.src.Rect, src, sb, xdraw.Src, nil)
	}
	return r.src
}
