package preview

import (
	"image"
	"image/color"

	"github.com/taigrr/splat/pkg/splat"
)

// Mode selects how splat maps are drawn.
type Mode int

const (
	// ModeShaded blends the palette's layers by channel weight.
	ModeShaded Mode = iota
	// ModeWeights shows R, G and B weights as color, ignoring A.
	ModeWeights
	// ModeRed through ModeAlpha show one channel as grayscale.
	ModeRed
	ModeGreen
	ModeBlue
	ModeAlpha
)

var modeNames = [...]string{"shaded", "weights", "r", "g", "b", "a"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	return (m + 1) % Mode(len(modeNames))
}

// Palette holds the terrain layers a splat map blends between.
type Palette struct {
	Base   color.RGBA
	Layers [4]color.RGBA // Painted by R, G, B and A
}

// DefaultPalette is dirt under grass, rock, sand and snow.
func DefaultPalette() Palette {
	return Palette{
		Base: RGB(120, 96, 72),
		Layers: [4]color.RGBA{
			RGB(34, 139, 34),
			RGB(128, 128, 128),
			RGB(194, 178, 128),
			RGB(240, 240, 250),
		},
	}
}

// Shade layers each palette color over the base by its channel weight, in
// channel order.
func (pal Palette) Shade(p splat.Pixel) color.RGBA {
	c := pal.Base
	for i, w := range [4]uint8{p.R, p.G, p.B, p.A} {
		c = mix(c, pal.Layers[i], w)
	}
	return c
}

func mix(a, b color.RGBA, w uint8) color.RGBA {
	ch := func(x, y uint8) uint8 {
		return uint8((uint32(x)*uint32(255-w) + uint32(y)*uint32(w) + 127) / 255)
	}
	return color.RGBA{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), 255}
}

// Color returns the display color of a splat pixel in mode m.
func (pal Palette) Color(p splat.Pixel, m Mode) color.RGBA {
	switch m {
	case ModeWeights:
		return RGB(p.R, p.G, p.B)
	case ModeRed:
		return RGB(p.R, p.R, p.R)
	case ModeGreen:
		return RGB(p.G, p.G, p.G)
	case ModeBlue:
		return RGB(p.B, p.B, p.B)
	case ModeAlpha:
		return RGB(p.A, p.A, p.A)
	default:
		return pal.Shade(p)
	}
}

// Fit returns the largest square that fits the framebuffer, centered.
func (fb *Framebuffer) Fit() image.Rectangle {
	side := min(fb.Width, fb.Height)
	x := (fb.Width - side) / 2
	y := (fb.Height - side) / 2
	return image.Rect(x, y, x+side, y+side)
}

// DrawSplat samples m into dst, one sample per framebuffer pixel.
func (fb *Framebuffer) DrawSplat(m *splat.Map, dst image.Rectangle, pal Palette, mode Mode, filter splat.FilterMode) {
	w, h := dst.Dx(), dst.Dy()
	if m == nil || w <= 0 || h <= 0 {
		return
	}
	for y := 0; y < h; y++ {
		v := (float64(y) + 0.5) / float64(h)
		for x := 0; x < w; x++ {
			u := (float64(x) + 0.5) / float64(w)
			fb.SetPixel(dst.Min.X+x, dst.Min.Y+y, pal.Color(m.Sample(u, v, filter), mode))
		}
	}
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
