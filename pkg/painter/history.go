package painter

import (
	"errors"

	"github.com/google/uuid"

	"github.com/taigrr/splat/pkg/splat"
)

// ErrGestureOpen is returned by Begin when a gesture is already recording.
var ErrGestureOpen = errors.New("gesture already in progress")

// Gesture is one press-drag-release stroke with snapshots of the splat map
// on either side. Before is nil when the surface had no map yet.
type Gesture struct {
	ID      uuid.UUID
	Surface *Surface
	Before  *splat.Map
	After   *splat.Map
}

// History records gestures as undoable snapshots.
type History struct {
	limit int
	undo  []Gesture
	redo  []Gesture

	open    bool
	current Gesture
}

// NewHistory creates a history keeping at most limit gestures. A limit of
// zero or less keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Begin snapshots s before a gesture.
func (h *History) Begin(s *Surface) error {
	if h.open {
		return ErrGestureOpen
	}
	h.open = true
	h.current = Gesture{
		ID:      uuid.New(),
		Surface: s,
		Before:  s.Texture(),
	}
	return nil
}

// End closes the gesture started by Begin. Gestures that left the map
// unchanged are dropped and reported as false.
func (h *History) End() (Gesture, bool) {
	if !h.open {
		return Gesture{}, false
	}
	h.open = false

	g := h.current
	h.current = Gesture{}
	g.After = g.Surface.Texture()
	if g.After == nil {
		return Gesture{}, false
	}
	before := g.Before
	if before == nil {
		before = splat.NewMap(g.After.Size)
	}
	if before.Equal(g.After) {
		return Gesture{}, false
	}

	h.undo = append(h.undo, g)
	if h.limit > 0 && len(h.undo) > h.limit {
		h.undo = h.undo[len(h.undo)-h.limit:]
	}
	h.redo = h.redo[:0]
	return g, true
}

// Undo restores the map from before the most recent gesture.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	g := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	g.Surface.SetTexture(g.Before)
	h.redo = append(h.redo, g)
	return true
}

// Redo reapplies the most recently undone gesture.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	g := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	g.Surface.SetTexture(g.After)
	h.undo = append(h.undo, g)
	return true
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
