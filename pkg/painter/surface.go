// Package painter binds a mesh, its surface locator and its splat texture
// into a paintable surface, plus the host-side brush tool and stroke history.
package painter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taigrr/splat/pkg/locator"
	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/models"
	"github.com/taigrr/splat/pkg/splat"
)

// DefaultResolution is the splat map side length used when none is given.
const DefaultResolution = 512

// ShaderKind describes what a surface's material can sample.
type ShaderKind int

const (
	// ShaderNone means no material is assigned.
	ShaderNone ShaderKind = iota
	// ShaderStandard is a plain material with no splat map slot.
	ShaderStandard
	// ShaderSplat blends terrain layers by a splat map.
	ShaderSplat
)

func (k ShaderKind) String() string {
	switch k {
	case ShaderStandard:
		return "standard"
	case ShaderSplat:
		return "splat"
	default:
		return "none"
	}
}

// Material is the render-side view of a surface. Renderers read Splat and
// re-upload it whenever Revision changes.
type Material struct {
	Shader   ShaderKind
	Splat    *splat.Map
	Revision uint64
}

// Footprint is where the last applied stamp landed, in UV space.
type Footprint struct {
	UV     math3d.Vec2
	Radius float64 // Half the stamp width as a fraction of the map side
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Surface) {
		if log != nil {
			s.log = log
		}
	}
}

// WithResolution sets the splat map resolution. Values below
// splat.MinResolution are clamped.
func WithResolution(res int) Option {
	return func(s *Surface) {
		s.resolution = splat.ClampResolution(res)
	}
}

// WithCompositor replaces the default brush calibration.
func WithCompositor(c splat.Compositor) Option {
	return func(s *Surface) {
		s.compositor = c
	}
}

// WithNormalEpsilon sets the face normal tolerance used when locating hits.
func WithNormalEpsilon(eps float64) Option {
	return func(s *Surface) {
		s.normalEpsilon = eps
	}
}

// WithMaterial assigns an existing material. A material that cannot hold a
// splat map is upgraded on the first stroke.
func WithMaterial(m *Material) Option {
	return func(s *Surface) {
		s.material = m
	}
}

// Surface is one paintable mesh instance. It owns a lazily built locator and
// a lazily created splat map. It is not safe for concurrent use.
type Surface struct {
	ID   uuid.UUID
	Name string

	shape     models.Shape
	transform math3d.Mat4

	resolution    int
	normalEpsilon float64
	compositor    splat.Compositor

	loc    *locator.Locator
	locErr error

	texture  *splat.Map
	material *Material
	last     *Footprint

	log *zap.Logger
}

// NewSurface creates a surface for shape placed by transform. A nil shape is
// allowed; painting is then disabled and reported through
// ConfigurationWarnings.
func NewSurface(name string, shape models.Shape, transform math3d.Mat4, opts ...Option) *Surface {
	s := &Surface{
		ID:            uuid.New(),
		Name:          name,
		shape:         shape,
		transform:     transform,
		resolution:    DefaultResolution,
		normalEpsilon: locator.DefaultNormalEpsilon,
		compositor:    splat.NewCompositor(),
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("surface", name), zap.Stringer("id", s.ID))
	return s
}

// Shape returns the surface geometry.
func (s *Surface) Shape() models.Shape {
	return s.shape
}

// SetShape replaces the geometry. The locator is rebuilt on next use.
func (s *Surface) SetShape(shape models.Shape) {
	s.shape = shape
	s.invalidate()
}

// Transform returns the local-to-world transform.
func (s *Surface) Transform() math3d.Mat4 {
	return s.transform
}

// SetTransform moves the surface. The locator is rebuilt on next use.
func (s *Surface) SetTransform(m math3d.Mat4) {
	s.transform = m
	s.invalidate()
}

func (s *Surface) invalidate() {
	s.loc = nil
	s.locErr = nil
}

// Locator returns the surface locator, building it on first use.
func (s *Surface) Locator() (*locator.Locator, error) {
	if s.loc != nil || s.locErr != nil {
		return s.loc, s.locErr
	}
	if s.shape == nil {
		return nil, errNoMesh
	}

	s.loc, s.locErr = locator.New(s.shape, s.transform)
	if s.locErr != nil {
		s.log.Warn("surface cannot be painted", zap.Error(s.locErr))
		return nil, s.locErr
	}
	s.log.Debug("built locator",
		zap.Int("faces", s.loc.FaceCount()),
		zap.Float64("longest_axis", s.loc.LongestAxis()))
	return s.loc, nil
}

var errNoMesh = errors.New("no mesh assigned")

// ConfigurationWarnings lists reasons the surface cannot be painted. An empty
// result means strokes will be applied.
func (s *Surface) ConfigurationWarnings() []string {
	var warnings []string
	if s.shape == nil {
		warnings = append(warnings, "Surface has no mesh to paint on. Assign a mesh or primitive shape.")
		return warnings
	}
	if _, err := s.Locator(); err != nil {
		warnings = append(warnings, fmt.Sprintf("Mesh %q cannot be painted: %v", s.Name, err))
	}
	return warnings
}

// Resolution returns the configured splat map resolution.
func (s *Surface) Resolution() int {
	return s.resolution
}

// SetResolution changes the splat map resolution, resampling existing paint.
// It reports whether the stored map changed size.
func (s *Surface) SetResolution(res int) bool {
	s.resolution = splat.ClampResolution(res)
	if s.texture == nil || !s.texture.Resize(s.resolution) {
		return false
	}
	s.log.Info("resized splat map", zap.Int("resolution", s.resolution))
	s.commit()
	return true
}

// Compositor returns the brush calibration used by Paint.
func (s *Surface) Compositor() splat.Compositor {
	return s.compositor
}

// LastFootprint reports where the most recent stroke was applied.
func (s *Surface) LastFootprint() (Footprint, bool) {
	if s.last == nil {
		return Footprint{}, false
	}
	return *s.last, true
}

// Material returns the surface's material, or nil before the first stroke
// when none was assigned.
func (s *Surface) Material() *Material {
	return s.material
}

// Texture returns a copy of the splat map, or nil if nothing was painted yet.
func (s *Surface) Texture() *splat.Map {
	if s.texture == nil {
		return nil
	}
	return s.texture.Clone()
}

// SetTexture replaces the splat map with a copy of m, resampled to the
// configured resolution. A nil map clears the texture.
func (s *Surface) SetTexture(m *splat.Map) {
	if m == nil {
		s.texture = nil
		s.last = nil
		if s.material != nil && s.material.Splat != nil {
			s.material.Splat = nil
			s.material.Revision++
		}
		return
	}

	s.texture = m.Clone()
	s.texture.Resize(s.resolution)
	s.ensureMaterial()
	s.commit()
}

// Paint stamps one brush at the world-space hit point. It returns false when
// the surface has no usable geometry or the point is not on the surface.
func (s *Surface) Paint(point, normal math3d.Vec3, mask splat.Mask, force, size float64) bool {
	loc, err := s.Locator()
	if err != nil {
		return false
	}

	tex := s.ensureTexture()

	hit, ok := loc.LocateEpsilon(point, normal, s.normalEpsilon)
	if !ok {
		s.log.Debug("stroke missed surface",
			zap.Float64s("point", []float64{point.X, point.Y, point.Z}))
		return false
	}

	uv := loc.Interpolate(hit)
	n := s.compositor.Paint(tex, uv, mask, force, size, loc.LongestAxis())
	if n == 0 {
		return false
	}
	bp := s.compositor.BrushPixels(size, tex.Size, loc.LongestAxis())
	s.last = &Footprint{UV: uv, Radius: float64(bp) / 2 / float64(tex.Size)}
	s.commit()
	return true
}

// ensureTexture creates the splat map and binds it to the material, so an
// upgraded material always points at the buffer even if the stroke misses.
func (s *Surface) ensureTexture() *splat.Map {
	if s.texture == nil {
		s.texture = splat.NewMap(s.resolution)
		s.log.Info("created splat map", zap.Int("resolution", s.resolution))
	}
	s.ensureMaterial()
	if s.material.Splat != s.texture {
		s.commit()
	}
	return s.texture
}

func (s *Surface) ensureMaterial() {
	if s.material == nil {
		s.material = &Material{}
	}
	if s.material.Shader == ShaderSplat {
		return
	}
	s.log.Info("switched material to splat shader", zap.Stringer("from", s.material.Shader))
	s.material.Shader = ShaderSplat
}

// commit publishes the current splat map to the material.
func (s *Surface) commit() {
	s.material.Splat = s.texture
	s.material.Revision++
}
