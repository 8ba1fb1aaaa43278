// Package stroke smooths and resamples brush input before it reaches a
// surface.
package stroke

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/splat/pkg/math3d"
)

// Defaults for a critically damped follower at 60 samples per second.
const (
	DefaultFPS       = 60
	DefaultFrequency = 12.0
	DefaultDamping   = 1.0
)

// Axis follows a target value along one dimension with spring physics.
type Axis struct {
	Position float64
	Velocity float64
	spring   harmonica.Spring
}

// NewAxis creates an axis sampled fps times per second.
func NewAxis(fps int, frequency, damping float64) Axis {
	return Axis{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Update advances the axis one sample toward target.
func (a *Axis) Update(target float64) {
	a.Position, a.Velocity = a.spring.Update(a.Position, a.Velocity, target)
}

// Stabilizer trails raw hit points so that jittery input paints a smooth
// line. The first sample after a reset is passed through unchanged.
type Stabilizer struct {
	X, Y, Z Axis
	started bool

	fps                int
	frequency, damping float64
}

// NewStabilizer creates a stabilizer. Higher frequency follows input more
// tightly; damping 1 is critically damped with no overshoot.
func NewStabilizer(fps int, frequency, damping float64) *Stabilizer {
	s := &Stabilizer{fps: fps, frequency: frequency, damping: damping}
	s.Reset()
	return s
}

// Reset forgets the previous stroke.
func (s *Stabilizer) Reset() {
	s.X = NewAxis(s.fps, s.frequency, s.damping)
	s.Y = NewAxis(s.fps, s.frequency, s.damping)
	s.Z = NewAxis(s.fps, s.frequency, s.damping)
	s.started = false
}

// Step feeds one raw sample and returns the smoothed position.
func (s *Stabilizer) Step(target math3d.Vec3) math3d.Vec3 {
	if !s.started {
		s.X.Position, s.Y.Position, s.Z.Position = target.X, target.Y, target.Z
		s.started = true
		return target
	}
	s.X.Update(target.X)
	s.Y.Update(target.Y)
	s.Z.Update(target.Z)
	return s.Position()
}

// Position returns the current smoothed position.
func (s *Stabilizer) Position() math3d.Vec3 {
	return math3d.V3(s.X.Position, s.Y.Position, s.Z.Position)
}

// Resample returns points along the polyline spaced at most spacing apart,
// always including both ends. A non-positive spacing returns a copy of
// points.
func Resample(points []math3d.Vec3, spacing float64) []math3d.Vec3 {
	if len(points) < 2 || spacing <= 0 {
		return append([]math3d.Vec3(nil), points...)
	}

	out := []math3d.Vec3{points[0]}
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		steps := int(math.Ceil(a.Distance(b) / spacing))
		for j := 1; j <= steps; j++ {
			out = append(out, a.Lerp(b, float64(j)/float64(steps)))
		}
	}
	return out
}
