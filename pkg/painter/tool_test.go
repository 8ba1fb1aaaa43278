package painter

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/splat"
)

func TestToolSelectToggles(t *testing.T) {
	tool := NewTool()
	if tool.Channel != splat.ChannelR {
		t.Fatalf("Expected red selected by default, got %v", tool.Channel)
	}

	if got := tool.Select(splat.ChannelG); got != splat.ChannelG {
		t.Errorf("Expected green, got %v", got)
	}
	if got := tool.Select(splat.ChannelG); got != splat.ChannelNone {
		t.Errorf("Expected reselect to deselect, got %v", got)
	}
	if !tool.Mask().IsZero() {
		t.Error("Expected zero mask after deselect")
	}
	if got := tool.Select(splat.ChannelB); got != splat.ChannelB {
		t.Errorf("Expected blue, got %v", got)
	}
}

func TestToolClamps(t *testing.T) {
	tool := NewTool()

	tests := []struct {
		name string
		set  func(float64)
		get  func() float64
		in   float64
		want float64
	}{
		{"force low", tool.SetForce, func() float64 { return tool.Force }, -5, 0},
		{"force high", tool.SetForce, func() float64 { return tool.Force }, 150, 100},
		{"force mid", tool.SetForce, func() float64 { return tool.Force }, 42, 42},
		{"size low", tool.SetSize, func() float64 { return tool.Size }, 0, DefaultMinSize},
		{"size high", tool.SetSize, func() float64 { return tool.Size }, 99, DefaultMaxSize},
		{"size mid", tool.SetSize, func() float64 { return tool.Size }, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.set(tt.in)
			if got := tt.get(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToolSelectorRadiusMatchesStamp(t *testing.T) {
	tool := NewTool()
	c := splat.NewCompositor()

	// 10 / 1.8 / 2
	if got := tool.SelectorRadius(c); math.Abs(got-10/3.6) > 1e-12 {
		t.Errorf("Expected radius %v, got %v", 10/3.6, got)
	}

	// On a 10-unit plane with a 512px map the stamp is BrushPixels wide, so
	// its half-width in world units must equal the cursor radius.
	const res, axis = 512, 10.0
	bp := c.BrushPixels(tool.Size, res, axis)
	world := float64(bp) / 2 / res * axis
	if math.Abs(world-tool.SelectorRadius(c)) > axis/res {
		t.Errorf("Expected cursor radius %v to match stamp half-width %v", tool.SelectorRadius(c), world)
	}

	tool.SetSize(DefaultMaxSize)
	if got := tool.SelectorRadius(c); math.Abs(got-20/3.6) > 1e-12 {
		t.Errorf("Expected radius to follow size, got %v", got)
	}
}

func TestToolApplySkipsZeroMask(t *testing.T) {
	s := newPlaneSurface(t)
	tool := NewTool()
	tool.Select(splat.ChannelR)

	if tool.Apply(s, math3d.V3(0.1, 0, 0.1), up) {
		t.Error("Expected no stroke without a channel")
	}
	if s.Texture() != nil {
		t.Error("Expected no texture to be created")
	}

	tool.Select(splat.ChannelR)
	tool.SetSize(2)
	if !tool.Apply(s, math3d.V3(0.1, 0, 0.1), up) {
		t.Error("Expected stroke with red selected")
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	s := newPlaneSurface(t)
	tool := NewTool()
	tool.SetSize(2)
	h := NewHistory(0)

	if err := h.Begin(s); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := h.Begin(s); !errors.Is(err, ErrGestureOpen) {
		t.Errorf("Expected ErrGestureOpen, got %v", err)
	}
	tool.Apply(s, math3d.V3(0.1, 0, 0.1), up)
	tool.Apply(s, math3d.V3(0.6, 0, 0.1), up)

	g, ok := h.End()
	if !ok {
		t.Fatal("Expected gesture to be recorded")
	}
	if g.Before != nil {
		t.Error("Expected no before snapshot for a fresh surface")
	}
	painted := s.Texture()
	if !g.After.Equal(painted) {
		t.Error("Expected after snapshot to match the surface")
	}

	if !h.Undo() {
		t.Fatal("Expected undo")
	}
	if s.Texture() != nil {
		t.Error("Expected undo to clear the texture")
	}
	if h.Undo() {
		t.Error("Expected nothing left to undo")
	}

	if !h.Redo() {
		t.Fatal("Expected redo")
	}
	if !s.Texture().Equal(painted) {
		t.Error("Expected redo to restore the painted texture")
	}
	if h.CanRedo() || !h.CanUndo() {
		t.Error("Unexpected stack state after redo")
	}
}

func TestHistoryDropsEmptyGestures(t *testing.T) {
	s := newPlaneSurface(t)
	h := NewHistory(0)

	h.Begin(s)
	s.Paint(math3d.V3(50, 0, 50), up, splat.ChannelR.Mask(), 100, 2)
	if _, ok := h.End(); ok {
		t.Error("Expected gesture with only misses to be dropped")
	}
	if h.CanUndo() {
		t.Error("Expected empty undo stack")
	}
	if _, ok := h.End(); ok {
		t.Error("Expected End without Begin to do nothing")
	}
}

func TestHistoryLimit(t *testing.T) {
	s := newPlaneSurface(t)
	h := NewHistory(2)

	for i := range 3 {
		h.Begin(s)
		s.Paint(math3d.V3(float64(i), 0, 0.1), up, splat.ChannelR.Mask(), 100, 2)
		if _, ok := h.End(); !ok {
			t.Fatalf("Expected gesture %d to be recorded", i)
		}
	}

	undone := 0
	for h.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("Expected 2 undoable gestures, got %d", undone)
	}
	if s.Texture() == nil {
		t.Error("Expected the first gesture's paint to remain")
	}
}

func TestNewGestureClearsRedo(t *testing.T) {
	s := newPlaneSurface(t)
	h := NewHistory(0)

	h.Begin(s)
	s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2)
	h.End()
	h.Undo()

	h.Begin(s)
	s.Paint(math3d.V3(1.1, 0, 0.1), up, splat.ChannelG.Mask(), 100, 2)
	h.End()

	if h.CanRedo() {
		t.Error("Expected a new gesture to clear redo")
	}
}
