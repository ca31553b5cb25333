package umbra

import (
	"errors"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
)

// MaxMasks is the number of occlusion mask textures a MaskTable keeps resident.
const MaxMasks = 15

// ErrMaskTableFull is returned by MaskTable.Add when every slot is taken.
var ErrMaskTableFull = errors.New("umbra: mask table full")

// MaskHandle identifies a registered occlusion mask.
type MaskHandle uuid.UUID

// String returns the handle's UUID text.
func (h MaskHandle) String() string { return uuid.UUID(h).String() }

type maskEntry struct {
	handle MaskHandle
	image  *ebiten.Image
}

// MaskTable holds the occlusion mask textures referenced by index from the
// kernel. Uploading the textures is the caller's job; the table only tracks
// which image sits in which slot. Any change sets a dirty flag, and the next
// Rebind pushes the full slot list to the kernel once and clears it.
type MaskTable struct {
	entries []maskEntry
	dirty   bool
	logger  Logger
}

// NewMaskTable creates an empty table. A nil logger discards output.
func NewMaskTable(logger Logger) *MaskTable {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &MaskTable{logger: logger}
}

// Add registers img in the next free slot.
func (t *MaskTable) Add(img *ebiten.Image) (MaskHandle, error) {
	if len(t.entries) >= MaxMasks {
		return MaskHandle{}, ErrMaskTableFull
	}
	h := MaskHandle(uuid.New())
	t.entries = append(t.entries, maskEntry{handle: h, image: img})
	t.dirty = true
	return h, nil
}

// Remove unregisters h. Later masks shift down one slot.
func (t *MaskTable) Remove(h MaskHandle) bool {
	for i, e := range t.entries {
		if e.handle == h {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			t.dirty = true
			return true
		}
	}
	return false
}

// Index returns the kernel slot of h.
func (t *MaskTable) Index(h MaskHandle) (int, bool) {
	for i, e := range t.entries {
		if e.handle == h {
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of registered masks.
func (t *MaskTable) Len() int { return len(t.entries) }

// Dirty reports whether the slot list changed since the last Rebind.
func (t *MaskTable) Dirty() bool { return t.dirty }

// MarkDirty forces the next Rebind to run, e.g. after a mask's pixels changed.
func (t *MaskTable) MarkDirty() { t.dirty = true }

// Rebind calls bind for every slot when the table is dirty, then clears the
// flag. Slots past Len are bound to nil. It returns whether a rebind happened.
func (t *MaskTable) Rebind(bind func(slot int, img *ebiten.Image)) bool {
	if !t.dirty {
		return false
	}
	for i := 0; i < MaxMasks; i++ {
		var img *ebiten.Image
		if i < len(t.entries) {
			img = t.entries[i].image
		}
		bind(i, img)
	}
	t.dirty = false
	t.logger.Debugf("rebound %d occlusion masks", len(t.entries))
	return true
}
