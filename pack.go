package umbra

import (
	"errors"
	"fmt"
)

// Per-category capacities. Array lengths in FrameBuffers derive from these
// and are part of the kernel parameter layout.
const (
	MaxPointLights   = 50
	MaxAmbientLights = 50
	MaxOccluders     = 50
)

// Category names used in CapacityError.
const (
	CategoryPointLights   = "point lights"
	CategoryAmbientLights = "ambient lights"
	CategoryOccluders     = "occluders"
)

var (
	// ErrCapacityExceeded is wrapped by every CapacityError.
	ErrCapacityExceeded = errors.New("umbra: capacity exceeded")
	// ErrNoFrame is returned when a renderer is asked to draw without a
	// successfully packed frame.
	ErrNoFrame = errors.New("umbra: no packed frame")
)

// CapacityError reports a category whose visible entity count exceeds its
// fixed capacity.
type CapacityError struct {
	Category string
	Count    int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("umbra: too many %s: %d visible, capacity %d", e.Category, e.Count, e.Capacity)
}

// Unwrap makes errors.Is(err, ErrCapacityExceeded) hold.
func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }

// PointLightBuffer is the packed point light block.
type PointLightBuffer struct {
	Count       int32
	Positions   [MaxPointLights * 2]float32
	Colors      [MaxPointLights * 3]float32
	Intensities [MaxPointLights]float32
	Falloffs    [MaxPointLights]float32
}

// AmbientLightBuffer is the packed ambient light block.
type AmbientLightBuffer struct {
	Count       int32
	Positions   [MaxAmbientLights * 2]float32
	Colors      [MaxAmbientLights * 3]float32
	Intensities [MaxAmbientLights]float32
}

// OccluderBuffer is the packed occluder block. Sizes hold (Width, Height)
// pairs.
type OccluderBuffer struct {
	Count     int32
	Shapes    [MaxOccluders]int32
	Positions [MaxOccluders * 2]float32
	Sizes     [MaxOccluders * 2]float32
	Angles    [MaxOccluders]float32
	Radiuses  [MaxOccluders]float32
}

// FrameBuffers is the complete parameter set consumed by a lighting kernel
// for one frame. Entity positions are in world units; ViewOrigin and Zoom map
// a destination pixel p to world space as ViewOrigin + p/Zoom.
type FrameBuffers struct {
	PointLights   PointLightBuffer
	AmbientLights AmbientLightBuffer
	Occluders     OccluderBuffer

	RayStepSize      float32
	OcclusionRolloff float32
	Resolution       [2]float32
	ViewOrigin       [2]float32
	Zoom             float32
}

// slotWriter fills one fixed-length array category by category. Writes past
// the declared capacity fail instead of indexing out of range.
type slotWriter struct {
	dst    []float32
	stride int
	n      int
}

func (w *slotWriter) put(vals ...float32) error {
	if len(vals) != w.stride {
		return fmt.Errorf("umbra: slot stride %d, got %d values", w.stride, len(vals))
	}
	off := w.n * w.stride
	if off+w.stride > len(w.dst) {
		return fmt.Errorf("umbra: slot %d beyond buffer of %d: %w", w.n, len(w.dst)/w.stride, ErrCapacityExceeded)
	}
	copy(w.dst[off:], vals)
	w.n++
	return nil
}

// zeroTail clears every slot from the current write position to the end.
func (w *slotWriter) zeroTail() {
	clear(w.dst[w.n*w.stride:])
}

func checkCapacity(category string, n, capacity int) error {
	if n > capacity {
		return &CapacityError{Category: category, Count: n, Capacity: capacity}
	}
	return nil
}

// Pack serializes the culled entity lists into fb in input order and
// zero-fills every slot past each count. All capacities are checked before
// anything is written, so a failed Pack leaves fb untouched.
func Pack(fb *FrameBuffers, pls []PointLight, als []AmbientLight, occs []Occluder) error {
	if err := errors.Join(
		checkCapacity(CategoryPointLights, len(pls), MaxPointLights),
		checkCapacity(CategoryAmbientLights, len(als), MaxAmbientLights),
		checkCapacity(CategoryOccluders, len(occs), MaxOccluders),
	); err != nil {
		return err
	}
	if err := packPointLights(&fb.PointLights, pls); err != nil {
		return err
	}
	if err := packAmbientLights(&fb.AmbientLights, als); err != nil {
		return err
	}
	return packOccluders(&fb.Occluders, occs)
}

func packPointLights(b *PointLightBuffer, pls []PointLight) error {
	pos := slotWriter{dst: b.Positions[:], stride: 2}
	col := slotWriter{dst: b.Colors[:], stride: 3}
	inten := slotWriter{dst: b.Intensities[:], stride: 1}
	fall := slotWriter{dst: b.Falloffs[:], stride: 1}
	for _, l := range pls {
		if err := errors.Join(
			pos.put(float32(l.X), float32(l.Y)),
			col.put(float32(l.Color.R), float32(l.Color.G), float32(l.Color.B)),
			inten.put(float32(l.Intensity)),
			fall.put(float32(l.Falloff)),
		); err != nil {
			return err
		}
	}
	pos.zeroTail()
	col.zeroTail()
	inten.zeroTail()
	fall.zeroTail()
	b.Count = int32(len(pls))
	return nil
}

func packAmbientLights(b *AmbientLightBuffer, als []AmbientLight) error {
	pos := slotWriter{dst: b.Positions[:], stride: 2}
	col := slotWriter{dst: b.Colors[:], stride: 3}
	inten := slotWriter{dst: b.Intensities[:], stride: 1}
	for _, l := range als {
		if err := errors.Join(
			pos.put(float32(l.X), float32(l.Y)),
			col.put(float32(l.Color.R), float32(l.Color.G), float32(l.Color.B)),
			inten.put(float32(l.Intensity)),
		); err != nil {
			return err
		}
	}
	pos.zeroTail()
	col.zeroTail()
	inten.zeroTail()
	b.Count = int32(len(als))
	return nil
}

func packOccluders(b *OccluderBuffer, occs []Occluder) error {
	if len(occs) > len(b.Shapes) {
		return checkCapacity(CategoryOccluders, len(occs), len(b.Shapes))
	}
	pos := slotWriter{dst: b.Positions[:], stride: 2}
	size := slotWriter{dst: b.Sizes[:], stride: 2}
	ang := slotWriter{dst: b.Angles[:], stride: 1}
	rad := slotWriter{dst: b.Radiuses[:], stride: 1}
	for i, o := range occs {
		b.Shapes[i] = int32(o.Shape)
		if err := errors.Join(
			pos.put(float32(o.X), float32(o.Y)),
			size.put(float32(o.Width), float32(o.Height)),
			ang.put(float32(o.Rotation)),
			rad.put(float32(o.Radius)),
		); err != nil {
			return err
		}
	}
	clear(b.Shapes[len(occs):])
	pos.zeroTail()
	size.zeroTail()
	ang.zeroTail()
	rad.zeroTail()
	b.Count = int32(len(occs))
	return nil
}

// PointLightAt unpacks slot i. i must be below the buffer's Count.
func (b *PointLightBuffer) PointLightAt(i int) PointLight {
	return PointLight{
		X:         float64(b.Positions[i*2]),
		Y:         float64(b.Positions[i*2+1]),
		Color:     Color{float64(b.Colors[i*3]), float64(b.Colors[i*3+1]), float64(b.Colors[i*3+2]), 1},
		Intensity: float64(b.Intensities[i]),
		Falloff:   float64(b.Falloffs[i]),
	}
}

// AmbientLightAt unpacks slot i. i must be below the buffer's Count.
func (b *AmbientLightBuffer) AmbientLightAt(i int) AmbientLight {
	return AmbientLight{
		X:         float64(b.Positions[i*2]),
		Y:         float64(b.Positions[i*2+1]),
		Color:     Color{float64(b.Colors[i*3]), float64(b.Colors[i*3+1]), float64(b.Colors[i*3+2]), 1},
		Intensity: float64(b.Intensities[i]),
	}
}

// OccluderAt unpacks slot i. i must be below the buffer's Count.
func (b *OccluderBuffer) OccluderAt(i int) Occluder {
	return Occluder{
		X:        float64(b.Positions[i*2]),
		Y:        float64(b.Positions[i*2+1]),
		Rotation: float64(b.Angles[i]),
		Shape:    ShapeKind(b.Shapes[i]),
		Width:    float64(b.Sizes[i*2]),
		Height:   float64(b.Sizes[i*2+1]),
		Radius:   float64(b.Radiuses[i]),
	}
}
