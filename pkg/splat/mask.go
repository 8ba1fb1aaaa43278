package splat

import (
	"fmt"
	"strings"

	"github.com/taigrr/splat/pkg/math3d"
)

// Mask is the color a stroke blends toward, as (R, G, B, A) in [0, 1].
// A one-hot mask paints a single material channel. The zero mask is the
// "no channel selected" sentinel; deciding to skip it is up to the caller,
// the compositor blends toward whatever mask it is given.
type Mask = math3d.Vec4

// Channel identifies one splat map channel.
type Channel int

const (
	ChannelNone Channel = iota - 1
	ChannelR
	ChannelG
	ChannelB
	ChannelA
)

var channelNames = [...]string{"r", "g", "b", "a"}

// String returns the channel's single-letter name.
func (c Channel) String() string {
	if c < ChannelR || c > ChannelA {
		return "none"
	}
	return channelNames[c]
}

// ParseChannel parses "r", "g", "b", "a" (any case) or "none".
func ParseChannel(s string) (Channel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" || s == "" {
		return ChannelNone, nil
	}
	for i, name := range channelNames {
		if s == name {
			return Channel(i), nil
		}
	}
	return ChannelNone, fmt.Errorf("unknown channel %q", s)
}

// Mask returns the one-hot mask for the channel, or the zero mask for
// ChannelNone.
func (c Channel) Mask() Mask {
	switch c {
	case ChannelR:
		return math3d.V4(1, 0, 0, 0)
	case ChannelG:
		return math3d.V4(0, 1, 0, 0)
	case ChannelB:
		return math3d.V4(0, 0, 1, 0)
	case ChannelA:
		return math3d.V4(0, 0, 0, 1)
	default:
		return Mask{}
	}
}

// MaskAll returns the mask with every channel set.
func MaskAll() Mask {
	return math3d.V4(1, 1, 1, 1)
}
