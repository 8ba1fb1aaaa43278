package painter

import (
	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/splat"
)

// Brush defaults, matching the paint toolbar.
const (
	DefaultForce   = 30
	DefaultSize    = 10
	DefaultMinSize = 0.5
	DefaultMaxSize = 20
)

// Tool is the host-side brush state: the selected channel, force and size,
// and the physics layers the cursor ray should collide with.
type Tool struct {
	Channel       splat.Channel
	Force         float64 // 0 to 100
	Size          float64 // World units, within [MinSize, MaxSize]
	MinSize       float64
	MaxSize       float64
	CollisionMask uint32
}

// NewTool returns a tool with the red channel selected and default brush.
func NewTool() *Tool {
	return &Tool{
		Channel:       splat.ChannelR,
		Force:         DefaultForce,
		Size:          DefaultSize,
		MinSize:       DefaultMinSize,
		MaxSize:       DefaultMaxSize,
		CollisionMask: 1,
	}
}

// Select makes ch the active channel. Selecting the active channel again
// deselects it, leaving the zero mask. It returns the new active channel.
func (t *Tool) Select(ch splat.Channel) splat.Channel {
	if ch == t.Channel {
		t.Channel = splat.ChannelNone
	} else {
		t.Channel = ch
	}
	return t.Channel
}

// Mask returns the paint mask for the active channel.
func (t *Tool) Mask() splat.Mask {
	return t.Channel.Mask()
}

// SetForce sets the brush force, clamped to [0, 100].
func (t *Tool) SetForce(force float64) {
	t.Force = max(0, min(100, force))
}

// SetSize sets the brush size, clamped to [MinSize, MaxSize].
func (t *Tool) SetSize(size float64) {
	t.Size = max(t.MinSize, min(t.MaxSize, size))
}

// SelectorRadius is the radius of the cursor sphere drawn at the hit point.
// It matches the world footprint of a stamp made with c.
func (t *Tool) SelectorRadius(c splat.Compositor) float64 {
	return c.Radius(t.Size)
}

// Apply paints one stamp on s at the hit point. Nothing happens while no
// channel is selected.
func (t *Tool) Apply(s *Surface, point, normal math3d.Vec3) bool {
	mask := t.Mask()
	if mask.IsZero() {
		return false
	}
	return s.Paint(point, normal, mask, t.Force, t.Size)
}
