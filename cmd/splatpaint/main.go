// Command splatpaint paints splat maps onto meshes from scripted strokes.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/splat/internal/config"
	"github.com/taigrr/splat/internal/logger"
	"github.com/taigrr/splat/pkg/math3d"
	"github.com/taigrr/splat/pkg/models"
	"github.com/taigrr/splat/pkg/painter"
	"github.com/taigrr/splat/pkg/preview"
	"github.com/taigrr/splat/pkg/splat"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: splatpaint [options] <model.glb|plane|box|sphere>\n\n")
		fmt.Fprintf(os.Stderr, "Paints a splat map onto a mesh by replaying a stroke script.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nStroke script (YAML):\n")
		fmt.Fprintf(os.Stderr, "  - points: [[0, 0, 0], [2, 0, 1]]\n")
		fmt.Fprintf(os.Stderr, "    normal: [0, 1, 0]\n")
		fmt.Fprintf(os.Stderr, "    channel: g\n")
		fmt.Fprintf(os.Stderr, "    force: 60\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The preview owns the terminal, so console logs are off while it runs.
	if flags.Preview {
		err = logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(cfg.Logging.LogFile), false)
	} else {
		err = logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flags, flag.Arg(0)); err != nil {
		logger.Error("splatpaint failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, flags *config.Flags, model string) error {
	surface, err := paint(cfg, flags, model)
	if err != nil {
		return err
	}
	if !flags.Watch && !flags.Preview {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	updates := make(chan *painter.Surface, 1)

	if flags.Watch {
		w, err := newWatcher(model, flags.StrokesPath)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Close()
		logger.Info("watching for changes", zap.String("model", model), zap.String("strokes", flags.StrokesPath))

		g.Go(func() error {
			w.Run(ctx, func() {
				s, err := paint(cfg, flags, model)
				if err != nil {
					logger.Warn("repaint failed", zap.Error(err))
					return
				}
				publish(updates, s)
			})
			return nil
		})
	}

	if flags.Preview {
		v := preview.NewViewer(surface)
		v.Updates = updates
		v.Log = logger.Named("preview")
		if v.Filter, err = cfg.FilterMode(); err != nil {
			return err
		}
		g.Go(func() error {
			if err := v.Run(ctx); err != nil {
				return err
			}
			// Quitting the preview ends the watcher too.
			return errQuit
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}

var errQuit = errors.New("preview closed")

// publish replaces any pending surface in updates with s.
func publish(updates chan *painter.Surface, s *painter.Surface) {
	for {
		select {
		case updates <- s:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
	}
}

// paint builds a surface for model, replays the stroke script and saves the
// result.
func paint(cfg *config.Config, flags *config.Flags, model string) (*painter.Surface, error) {
	shape, name, err := loadShape(model)
	if err != nil {
		return nil, err
	}

	surface := painter.NewSurface(name, shape, math3d.Identity(),
		painter.WithLogger(logger.Named("painter")),
		painter.WithResolution(cfg.Texture.Resolution),
		painter.WithCompositor(cfg.Compositor()),
		painter.WithNormalEpsilon(cfg.Locator.NormalEpsilon),
	)
	for _, w := range surface.ConfigurationWarnings() {
		logger.Warn(w)
	}

	if flags.BasePath != "" {
		base, err := splat.Load(flags.BasePath, cfg.Texture.Resolution)
		if err != nil {
			return nil, fmt.Errorf("load base map: %w", err)
		}
		surface.SetTexture(base)
	}

	tool, err := newTool(cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("brush",
		zap.Stringer("channel", tool.Channel),
		zap.Float64("force", tool.Force),
		zap.Float64("size", tool.Size),
		zap.Float64("selector_radius", tool.SelectorRadius(surface.Compositor())),
		zap.Uint32("collision_mask", tool.CollisionMask))

	if flags.StrokesPath != "" {
		strokes, err := LoadScript(flags.StrokesPath)
		if err != nil {
			return nil, fmt.Errorf("load strokes: %w", err)
		}
		stats, err := replay(surface, tool, painter.NewHistory(0), strokes, cfg.Stroke, logger.Named("stroke"))
		if err != nil {
			return nil, err
		}
		logger.Info("replayed strokes",
			zap.Int("gestures", stats.Gestures),
			zap.Int("stamps", stats.Stamps),
			zap.Int("missed", stats.Missed))
	}

	tex := surface.Texture()
	if tex == nil {
		tex = splat.NewMap(surface.Resolution())
	}
	if err := splat.Save(tex, cfg.Output.Path); err != nil {
		return nil, fmt.Errorf("save splat map: %w", err)
	}
	logger.Info("saved splat map", zap.String("path", cfg.Output.Path), zap.Int("resolution", tex.Size))

	if flags.Snapshot != "" {
		v := preview.NewViewer(surface)
		if v.Filter, err = cfg.FilterMode(); err != nil {
			return nil, err
		}
		if err := splat.SaveImage(v.Snapshot(tex.Size), flags.Snapshot); err != nil {
			return nil, fmt.Errorf("save snapshot: %w", err)
		}
		logger.Info("saved preview snapshot", zap.String("path", flags.Snapshot))
	}
	return surface, nil
}

func newTool(cfg *config.Config) (*painter.Tool, error) {
	ch, err := cfg.Channel()
	if err != nil {
		return nil, err
	}
	tool := painter.NewTool()
	tool.Channel = ch
	tool.MinSize = cfg.Brush.MinSize
	tool.MaxSize = cfg.Brush.MaxSize
	tool.CollisionMask = cfg.Layers.CollisionMask
	tool.SetForce(cfg.Brush.Force)
	tool.SetSize(cfg.Brush.Size)
	return tool, nil
}

var errUnknownModel = errors.New("unknown model")

// loadShape resolves a built-in primitive name or loads a glTF file.
func loadShape(model string) (models.Shape, string, error) {
	switch strings.ToLower(model) {
	case "plane":
		return models.PlaneShape{Width: 10, Depth: 10, SubdivideW: 8, SubdivideD: 8}, "plane", nil
	case "box":
		return models.BoxShape{Size: math3d.V3(2, 2, 2)}, "box", nil
	case "sphere":
		return models.SphereShape{Radius: 1, RadialSegments: 32, Rings: 16}, "sphere", nil
	}

	switch ext := strings.ToLower(filepath.Ext(model)); ext {
	case ".glb", ".gltf":
		mesh, err := models.NewGLTFLoader().Load(model)
		if err != nil {
			return nil, "", fmt.Errorf("load model: %w", err)
		}
		logger.Info("loaded model",
			zap.String("file", filepath.Base(model)),
			zap.Int("vertices", mesh.VertexCount()),
			zap.Int("triangles", mesh.TriangleCount()),
			zap.Int("skipped_primitives", mesh.SkippedPrimitives))
		return mesh, filepath.Base(model), nil
	default:
		return nil, "", fmt.Errorf("%w %q (use .glb, .gltf, plane, box or sphere)", errUnknownModel, model)
	}
}
