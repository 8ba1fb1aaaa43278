package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/taigrr/splat/internal/config"
	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/painter"
	"github.com/taigrr/splat/pkg/splat"
	"github.com/taigrr/splat/pkg/stroke"
)

// ScriptStroke is one scripted gesture. Either Point or Points is set; the
// brush fields fall back to the configured defaults.
type ScriptStroke struct {
	Point   []float64   `yaml:"point"`
	Points  [][]float64 `yaml:"points"`
	Normal  []float64   `yaml:"normal"`
	Channel string      `yaml:"channel"`
	Force   *float64    `yaml:"force"`
	Size    *float64    `yaml:"size"`
}

// LoadScript reads a YAML list of strokes.
func LoadScript(path string) ([]ScriptStroke, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var strokes []ScriptStroke
	if err := yaml.Unmarshal(data, &strokes); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return strokes, nil
}

func vec3(v []float64) (math3d.Vec3, error) {
	if len(v) != 3 {
		return math3d.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}

// path returns the stroke's world-space points.
func (s ScriptStroke) path() ([]math3d.Vec3, error) {
	raw := s.Points
	if s.Point != nil {
		raw = append([][]float64{s.Point}, raw...)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("stroke has no points")
	}
	pts := make([]math3d.Vec3, 0, len(raw))
	for i, p := range raw {
		v, err := vec3(p)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		pts = append(pts, v)
	}
	return pts, nil
}

// tool returns base with the stroke's overrides applied.
func (s ScriptStroke) tool(base *painter.Tool) (*painter.Tool, error) {
	t := *base
	if s.Channel != "" {
		ch, err := splat.ParseChannel(s.Channel)
		if err != nil {
			return nil, err
		}
		t.Channel = ch
	}
	if s.Force != nil {
		t.SetForce(*s.Force)
	}
	if s.Size != nil {
		t.SetSize(*s.Size)
	}
	return &t, nil
}

type replayStats struct {
	Gestures int
	Stamps   int
	Missed   int
}

// replay paints each stroke as one gesture.
func replay(surface *painter.Surface, base *painter.Tool, history *painter.History, strokes []ScriptStroke, sc config.StrokeConfig, log *zap.Logger) (replayStats, error) {
	var stats replayStats
	stab := stroke.NewStabilizer(sc.FPS, sc.Frequency, sc.Damping)

	for i, spec := range strokes {
		pts, err := spec.path()
		if err != nil {
			return stats, fmt.Errorf("stroke %d: %w", i, err)
		}
		normal, err := vec3(spec.Normal)
		if err != nil {
			return stats, fmt.Errorf("stroke %d normal: %w", i, err)
		}
		normal = normal.Normalize()
		tool, err := spec.tool(base)
		if err != nil {
			return stats, fmt.Errorf("stroke %d: %w", i, err)
		}
		if tool.Mask().IsZero() {
			log.Debug("skipping stroke with no channel selected", zap.Int("stroke", i))
			continue
		}

		if err := history.Begin(surface); err != nil {
			return stats, err
		}
		stab.Reset()
		for _, p := range stroke.Resample(pts, sc.Spacing) {
			if sc.Stabilize {
				p = stab.Step(p)
			}
			if tool.Apply(surface, p, normal) {
				stats.Stamps++
			} else {
				stats.Missed++
			}
		}
		if g, ok := history.End(); ok {
			stats.Gestures++
			log.Debug("recorded gesture",
				zap.Stringer("gesture", g.ID),
				zap.Int("stroke", i),
				zap.Stringer("channel", tool.Channel))
		}
	}
	return stats, nil
}
