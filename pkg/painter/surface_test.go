package painter

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/models"
	"github.com/taigrr/splat/pkg/splat"
)

var up = math3d.V3(0, 1, 0)

// newPlaneSurface returns a 10x10 plane whose UV (u, v) sits at world
// ((u-0.5)*10, 0, (v-0.5)*10).
func newPlaneSurface(t *testing.T, opts ...Option) *Surface {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithResolution(64)}, opts...)
	return NewSurface("ground", models.PlaneShape{Width: 10, Depth: 10}, math3d.Identity(), opts...)
}

func TestPaintCreatesTextureLazily(t *testing.T) {
	s := newPlaneSurface(t)
	if s.Texture() != nil {
		t.Fatal("Expected no texture before the first stroke")
	}
	if s.Material() != nil {
		t.Fatal("Expected no material before the first stroke")
	}

	if !s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2) {
		t.Fatal("Expected stroke to be applied")
	}

	tex := s.Texture()
	if tex == nil || tex.Size != 64 {
		t.Fatalf("Expected a 64px texture, got %+v", tex)
	}
	if got := tex.GetPixel(32, 32); got.R == 0 || got.G != 0 {
		t.Errorf("Expected red paint at the stroke, got %+v", got)
	}
	if got := tex.GetPixel(0, 0); got != (splat.Pixel{}) {
		t.Errorf("Expected untouched corner to stay transparent, got %+v", got)
	}

	mat := s.Material()
	if mat.Shader != ShaderSplat {
		t.Errorf("Expected splat shader, got %v", mat.Shader)
	}
	if mat.Splat == nil || mat.Revision == 0 {
		t.Errorf("Expected written-back splat map, got revision %d", mat.Revision)
	}
}

func TestPaintWithoutMeshIsNoop(t *testing.T) {
	s := NewSurface("empty", nil, math3d.Identity())

	if s.Paint(math3d.V3(0, 0, 0), up, splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected no-op without a mesh")
	}
	if s.Texture() != nil || s.Material() != nil {
		t.Error("Expected no texture or material to be created")
	}
	if w := s.ConfigurationWarnings(); len(w) != 1 {
		t.Errorf("Expected one configuration warning, got %v", w)
	}
}

func TestPaintUnsupportedMeshIsNoop(t *testing.T) {
	s := NewSurface("bad", models.NewMesh("bad"), math3d.Identity())

	if s.Paint(math3d.V3(0, 0, 0), up, splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected no-op for a mesh without faces")
	}
	if _, err := s.Locator(); err == nil {
		t.Error("Expected locator error")
	}
	if w := s.ConfigurationWarnings(); len(w) != 1 {
		t.Errorf("Expected one configuration warning, got %v", w)
	}
}

func TestConfiguredSurfaceHasNoWarnings(t *testing.T) {
	s := newPlaneSurface(t)
	if w := s.ConfigurationWarnings(); len(w) != 0 {
		t.Errorf("Expected no warnings, got %v", w)
	}
}

func TestPaintMissLeavesTextureBlank(t *testing.T) {
	s := newPlaneSurface(t)

	if s.Paint(math3d.V3(50, 0, 50), up, splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected miss off the plane")
	}
	if s.Paint(math3d.V3(0.1, 0, 0.1), math3d.V3(0, -1, 0), splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected miss with a flipped normal")
	}
	if tex := s.Texture(); tex != nil && !tex.Equal(splat.NewMap(64)) {
		t.Error("Expected blank texture after misses")
	}
}

func TestMissedFirstStrokeBindsMaterial(t *testing.T) {
	mat := &Material{Shader: ShaderStandard}
	s := newPlaneSurface(t, WithMaterial(mat))

	if s.Paint(math3d.V3(50, 0, 50), up, splat.ChannelR.Mask(), 100, 2) {
		t.Fatal("Expected miss off the plane")
	}
	if s.Texture() == nil {
		t.Fatal("Expected the map to be created on the first attempted stroke")
	}
	if mat.Shader != ShaderSplat {
		t.Errorf("Expected splat shader, got %v", mat.Shader)
	}
	if mat.Splat == nil || !mat.Splat.Equal(splat.NewMap(64)) {
		t.Error("Expected the material to reference the blank map")
	}
	if mat.Revision == 0 {
		t.Error("Expected binding the map to bump the revision")
	}

	rev := mat.Revision
	s.Paint(math3d.V3(50, 0, 50), up, splat.ChannelR.Mask(), 100, 2)
	if mat.Revision != rev {
		t.Errorf("Expected a second miss to leave revision %d, got %d", rev, mat.Revision)
	}
}

func TestPaintUpgradesAssignedMaterial(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	mat := &Material{Shader: ShaderStandard}
	s := newPlaneSurface(t, WithMaterial(mat), WithLogger(zap.New(core)))

	s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelG.Mask(), 100, 2)

	if mat.Shader != ShaderSplat {
		t.Errorf("Expected assigned material to be upgraded, got %v", mat.Shader)
	}
	if s.Material() != mat {
		t.Error("Expected the assigned material to be kept")
	}
	if n := logs.FilterMessage("switched material to splat shader").Len(); n != 1 {
		t.Errorf("Expected one upgrade log entry, got %d", n)
	}
}

func TestEachStrokeBumpsRevision(t *testing.T) {
	s := newPlaneSurface(t)
	p := math3d.V3(0.1, 0, 0.1)

	s.Paint(p, up, splat.ChannelR.Mask(), 50, 2)
	first := s.Material().Revision
	s.Paint(p, up, splat.ChannelR.Mask(), 50, 2)

	if s.Material().Revision != first+1 {
		t.Errorf("Expected revision %d, got %d", first+1, s.Material().Revision)
	}
}

func TestSetResolution(t *testing.T) {
	s := newPlaneSurface(t)

	if s.SetResolution(128) {
		t.Error("Expected no resize before a texture exists")
	}
	if s.Resolution() != 128 {
		t.Errorf("Expected resolution 128, got %d", s.Resolution())
	}

	s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2)
	if !s.SetResolution(256) {
		t.Error("Expected resize")
	}
	if got := s.Texture().Size; got != 256 {
		t.Errorf("Expected 256px texture, got %d", got)
	}
	if s.SetResolution(256) {
		t.Error("Expected same-size resize to be a no-op")
	}

	s.SetResolution(8)
	if got := s.Texture().Size; got != splat.MinResolution {
		t.Errorf("Expected clamp to %d, got %d", splat.MinResolution, got)
	}
}

func TestSetTransformRebuildsLocator(t *testing.T) {
	s := newPlaneSurface(t)
	if !s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2) {
		t.Fatal("Expected stroke at origin")
	}

	s.SetTransform(math3d.Translate(math3d.V3(100, 0, 0)))
	if s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected miss at the old position")
	}
	if !s.Paint(math3d.V3(100.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2) {
		t.Error("Expected stroke at the new position")
	}
}

func TestSetShapeRebuildsLocator(t *testing.T) {
	s := NewSurface("late", nil, math3d.Identity())
	if len(s.ConfigurationWarnings()) == 0 {
		t.Fatal("Expected a warning without a mesh")
	}

	s.SetShape(models.PlaneShape{Width: 2, Depth: 2})
	if w := s.ConfigurationWarnings(); len(w) != 0 {
		t.Errorf("Expected no warnings after assigning a mesh, got %v", w)
	}
	if !s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelA.Mask(), 100, 0.5) {
		t.Error("Expected stroke after assigning a mesh")
	}
}

func TestLastFootprint(t *testing.T) {
	s := newPlaneSurface(t)
	if _, ok := s.LastFootprint(); ok {
		t.Fatal("Expected no footprint before painting")
	}

	s.Paint(math3d.V3(50, 0, 50), up, splat.ChannelR.Mask(), 100, 2)
	if _, ok := s.LastFootprint(); ok {
		t.Error("Expected a miss to leave no footprint")
	}

	// World (2.5, 0, -2.5) is UV (0.75, 0.25) on the 10x10 plane.
	s.Paint(math3d.V3(2.5, 0, -2.5), up, splat.ChannelR.Mask(), 100, 2)
	fp, ok := s.LastFootprint()
	if !ok {
		t.Fatal("Expected a footprint after a stroke")
	}
	if !fp.UV.ApproxEqual(math3d.V2(0.75, 0.25), 1e-9) {
		t.Errorf("Expected UV (0.75, 0.25), got %+v", fp.UV)
	}
	// round(2*64/10/1.8) = 7 pixels wide on a 64px map.
	if want := 3.5 / 64; fp.Radius != want {
		t.Errorf("Expected radius %v, got %v", want, fp.Radius)
	}

	s.SetTexture(nil)
	if _, ok := s.LastFootprint(); ok {
		t.Error("Expected clearing the texture to drop the footprint")
	}
}

func TestTextureIsASnapshot(t *testing.T) {
	s := newPlaneSurface(t)
	s.Paint(math3d.V3(0.1, 0, 0.1), up, splat.ChannelR.Mask(), 100, 2)

	snap := s.Texture()
	snap.Fill(splat.Pixel{B: 255})
	if s.Texture().Equal(snap) {
		t.Error("Expected Texture to return an independent copy")
	}
}

func TestSetTexture(t *testing.T) {
	s := newPlaneSurface(t)

	m := splat.NewMap(32)
	m.Fill(splat.Pixel{G: 255, A: 255})
	s.SetTexture(m)

	tex := s.Texture()
	if tex.Size != 64 {
		t.Errorf("Expected texture resampled to 64, got %d", tex.Size)
	}
	if s.Material().Shader != ShaderSplat || s.Material().Splat == nil {
		t.Error("Expected material to reference the texture")
	}

	s.SetTexture(nil)
	if s.Texture() != nil || s.Material().Splat != nil {
		t.Error("Expected texture to be cleared")
	}
}
