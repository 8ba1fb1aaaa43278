// Package splat holds the painted splat map and the brush that stamps into it.
//
// A splat map is a square 4-channel weight texture: each channel selects a
// terrain material. Channels are independent weights and are never
// premultiplied by alpha.
package splat

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	xdraw "golang.org/x/image/draw"
)

// MinResolution is the smallest accepted side length of a splat map.
const MinResolution = 32

// Pixel is one splat map texel.
type Pixel = color.NRGBA

// FilterMode determines how the map is sampled for display.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Map is a square splat texture.
type Map struct {
	Size   int     // Side length in pixels, always >= MinResolution
	Pixels []Pixel // Row-major pixel data, origin top-left
}

// ClampResolution raises res to MinResolution if it is smaller.
func ClampResolution(res int) int {
	return max(res, MinResolution)
}

// NewMap creates a fully transparent map. Resolutions below MinResolution
// are clamped.
func NewMap(res int) *Map {
	res = ClampResolution(res)
	return &Map{
		Size:   res,
		Pixels: make([]Pixel, res*res),
	}
}

// FromImage builds a map from any image. Square images at least
// MinResolution wide keep their size; anything else is resampled to res.
//
// NRGBA images are copied byte for byte. Other formats go through a color
// conversion, which loses channel data wherever alpha is zero.
func FromImage(img image.Image, res int) *Map {
	b := img.Bounds()
	if b.Empty() {
		return NewMap(res)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(nrgba, image.Point{}, img, b, xdraw.Src, nil)
	}

	m := &Map{Size: b.Dx(), Pixels: pixelsFromNRGBA(nrgba)}
	if b.Dx() != b.Dy() || b.Dx() < MinResolution {
		m.resample(ClampResolution(res), b.Dx(), b.Dy())
	}
	return m
}

// SetPixel sets a pixel in the map.
func (m *Map) SetPixel(x, y int, c Pixel) {
	if x < 0 || x >= m.Size || y < 0 || y >= m.Size {
		return
	}
	m.Pixels[y*m.Size+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (m *Map) GetPixel(x, y int) Pixel {
	if x < 0 || x >= m.Size || y < 0 || y >= m.Size {
		return Pixel{}
	}
	return m.Pixels[y*m.Size+x]
}

// Fill sets every pixel to c.
func (m *Map) Fill(c Pixel) {
	for i := range m.Pixels {
		m.Pixels[i] = c
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := &Map{Size: m.Size, Pixels: make([]Pixel, len(m.Pixels))}
	copy(c.Pixels, m.Pixels)
	return c
}

// Equal reports whether both maps have the same size and pixels.
func (m *Map) Equal(o *Map) bool {
	if m.Size != o.Size {
		return false
	}
	for i := range m.Pixels {
		if m.Pixels[i] != o.Pixels[i] {
			return false
		}
	}
	return true
}

// Resize resamples the map in place to res x res, keeping prior paint.
// Resolutions below MinResolution are clamped. It reports whether the size
// changed.
func (m *Map) Resize(res int) bool {
	res = ClampResolution(res)
	if res == m.Size {
		return false
	}
	m.resample(res, m.Size, m.Size)
	return true
}

// resample scales the current w x h pixel grid to a res x res square.
func (m *Map) resample(res, w, h int) {
	// Hand bild the raw bytes as image.RGBA so each channel is filtered on
	// its own without any alpha conversion.
	src := &image.RGBA{
		Pix:    pixBytes(m.Pixels),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
	dst := transform.Resize(src, res, res, transform.Linear)

	m.Size = res
	m.Pixels = make([]Pixel, res*res)
	for i := range m.Pixels {
		p := dst.Pix[i*4 : i*4+4 : i*4+4]
		m.Pixels[i] = Pixel{R: p[0], G: p[1], B: p[2], A: p[3]}
	}
}

// Image returns a copy of the map as a non-premultiplied image.
func (m *Map) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, m.Size, m.Size))
	copy(img.Pix, pixBytes(m.Pixels))
	return img
}

// Sample samples the map at UV coordinates (0-1 range, clamped).
func (m *Map) Sample(u, v float64, filter FilterMode) Pixel {
	u = math.Max(0, math.Min(1, u))
	v = math.Max(0, math.Min(1, v))

	if filter == FilterBilinear {
		return m.sampleBilinear(u, v)
	}
	x := min(int(u*float64(m.Size)), m.Size-1)
	y := min(int(v*float64(m.Size)), m.Size-1)
	return m.GetPixel(x, y)
}

// sampleBilinear returns bilinearly interpolated weights.
func (m *Map) sampleBilinear(u, v float64) Pixel {
	fx := u*float64(m.Size) - 0.5
	fy := v*float64(m.Size) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	clampPx := func(x int) int { return max(0, min(x, m.Size-1)) }
	x1, y1 := clampPx(x0+1), clampPx(y0+1)
	x0, y0 = clampPx(x0), clampPx(y0)

	top := lerpPixel(m.GetPixel(x0, y0), m.GetPixel(x1, y0), tx)
	bot := lerpPixel(m.GetPixel(x0, y1), m.GetPixel(x1, y1), tx)
	return lerpPixel(top, bot, ty)
}

func lerpPixel(a, b Pixel, t float64) Pixel {
	l := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return Pixel{R: l(a.R, b.R), G: l(a.G, b.G), B: l(a.B, b.B), A: l(a.A, b.A)}
}

func pixBytes(px []Pixel) []uint8 {
	b := make([]uint8, len(px)*4)
	for i, p := range px {
		b[i*4], b[i*4+1], b[i*4+2], b[i*4+3] = p.R, p.G, p.B, p.A
	}
	return b
}

func pixelsFromNRGBA(img *image.NRGBA) []Pixel {
	b := img.Bounds()
	px := make([]Pixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := range b.Dx() {
			px = append(px, Pixel{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]})
		}
	}
	return px
}
