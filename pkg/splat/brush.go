package splat

import (
	"image"
	"math"

	"github.com/taigrr/splat/pkg/math3d"
)

const (
	// DefaultScaleConstant converts a world-space brush size into pixels so
	// that the stamp visually matches the cursor sphere. It was tuned by eye.
	DefaultScaleConstant = 1.8

	// DefaultEaseExponent biases low force values toward gentle blends.
	DefaultEaseExponent = 2.5
)

// Compositor stamps circular falloff brushes into a Map.
//
// It holds no state besides its calibration and does no locking; callers
// must serialize Paint calls per map.
type Compositor struct {
	ScaleConstant float64 // World size to pixel divisor
	EaseExponent  float64 // Force easing exponent
}

// NewCompositor returns a compositor with the default calibration.
func NewCompositor() Compositor {
	return Compositor{
		ScaleConstant: DefaultScaleConstant,
		EaseExponent:  DefaultEaseExponent,
	}
}

// Ease maps t in [0, 1] through t^exponent. Values outside [0, 1] are
// clamped first, so Ease(0)=0 and Ease(1)=1 for any positive exponent.
func Ease(t, exponent float64) float64 {
	t = math.Max(0, math.Min(1, t))
	return math.Pow(t, exponent)
}

// MaxFactor converts a brush force in [0, 100] to the largest blend factor a
// stamp may apply.
func (c Compositor) MaxFactor(force float64) float64 {
	return Ease(force/100, c.EaseExponent)
}

// BrushPixels converts a world-space brush size to the stamp's side length
// in pixels. Non-positive results mean nothing will be painted.
func (c Compositor) BrushPixels(size float64, res int, longestAxis float64) int {
	if longestAxis <= 0 || c.ScaleConstant <= 0 {
		return 0
	}
	return int(math.Round(size * float64(res) / longestAxis / c.ScaleConstant))
}

// Radius returns the world-space radius of the square a stamp of the given
// size covers. Falloff reaches zero at Radius/√2.
func (c Compositor) Radius(size float64) float64 {
	if c.ScaleConstant <= 0 {
		return 0
	}
	return size / c.ScaleConstant / 2
}

// Destination returns the top-left pixel of a stamp centered on uv.
func Destination(uv math3d.Vec2, res, brushPixels int) image.Point {
	half := float64(brushPixels) / 2
	return image.Point{
		X: int(math.Floor(uv.X*float64(res) - half)),
		Y: int(math.Floor(uv.Y*float64(res) - half)),
	}
}

// Paint blends one brush stamp centered on uv into m and returns the number
// of pixels blended. Blending can round back to a pixel's old value, so the
// count is an upper bound on the pixels that changed.
func (c Compositor) Paint(m *Map, uv math3d.Vec2, mask Mask, force, size, longestAxis float64) int {
	bp := c.BrushPixels(size, m.Size, longestAxis)
	if bp <= 0 {
		return 0
	}
	return Stamp(m, Destination(uv, m.Size, bp), bp, mask, c.MaxFactor(force))
}

// Stamp blends a brushPixels x brushPixels square with top-left dst into m.
//
// Each pixel's factor is 1 - d²/(r²/2) clamped to [0, maxFactor], where d is
// the distance to the square's center and r is half the side. Pixels with a
// zero factor and pixels outside the map are left untouched.
func Stamp(m *Map, dst image.Point, brushPixels int, mask Mask, maxFactor float64) int {
	if brushPixels <= 0 || maxFactor <= 0 {
		return 0
	}

	radius := float64(brushPixels) / 2
	limit := radius * radius / 2
	target := mask.Components()

	// Only the intersection of the square with the map can change.
	x0, x1 := max(0, -dst.X), min(brushPixels, m.Size-dst.X)
	y0, y1 := max(0, -dst.Y), min(brushPixels, m.Size-dst.Y)

	written := 0
	for y := y0; y < y1; y++ {
		dy := float64(y) - radius
		row := (dst.Y + y) * m.Size
		for x := x0; x < x1; x++ {
			dx := float64(x) - radius
			factor := math.Max(0, math.Min(1-(dx*dx+dy*dy)/limit, maxFactor))
			if factor == 0 {
				continue
			}
			p := &m.Pixels[row+dst.X+x]
			*p = blend(*p, target, factor)
			written++
		}
	}
	return written
}

// blend lerps each channel of p toward target by factor.
func blend(p Pixel, target [4]float64, factor float64) Pixel {
	ch := func(old uint8, want float64) uint8 {
		v := want*factor + float64(old)/255*(1-factor)
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return Pixel{
		R: ch(p.R, target[0]),
		G: ch(p.G, target[1]),
		B: ch(p.B, target[2]),
		A: ch(p.A, target[3]),
	}
}
