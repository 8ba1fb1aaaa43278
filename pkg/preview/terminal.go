package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/splat/pkg/painter"
	"github.com/taigrr/splat/pkg/splat"
)

// Draw converts the framebuffer to terminal cells on scr. Each terminal row
// shows two framebuffer rows.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			scr.SetCell(col, row, fb.Cell(col-area.Min.X, row-area.Min.Y))
		}
	}
}

// Cell returns the half-block cell for terminal position (col, row), with
// the upper pixel as foreground and the lower as background.
func (fb *Framebuffer) Cell(col, row int) *uv.Cell {
	return &uv.Cell{
		Content: "▀",
		Width:   1,
		Style: uv.Style{
			Fg: rgbaToColor(fb.GetPixel(col, row*2)),
			Bg: rgbaToColor(fb.GetPixel(col, row*2+1)),
		},
	}
}

func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Viewer shows a surface's splat map in the terminal until ctx is canceled
// or the user quits.
type Viewer struct {
	Surface    *painter.Surface
	Palette    Palette
	Mode       Mode
	Filter     splat.FilterMode
	Background color.RGBA
	Frame      color.RGBA // Outline around the map; zero alpha hides it
	Cursor     color.RGBA // Last stroke footprint; zero alpha hides it
	FPS        int

	// Updates delivers replacement surfaces, for example after a reload.
	Updates <-chan *painter.Surface

	Log *zap.Logger

	showCursor bool
}

// NewViewer creates a viewer with the default palette.
func NewViewer(s *painter.Surface) *Viewer {
	return &Viewer{
		Surface:    s,
		Palette:    DefaultPalette(),
		Filter:     splat.FilterBilinear,
		Background: RGB(30, 30, 40),
		Frame:      RGB(90, 90, 110),
		Cursor:     RGB(255, 255, 255),
		FPS:        30,
		Log:        zap.NewNop(),
		showCursor: true,
	}
}

// Run takes over the terminal. Keys: tab or m cycles the view mode, 1-4
// solo a channel, 0 returns to shaded, c toggles the brush cursor, q or esc
// quits.
func (v *Viewer) Run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fb := NewFramebuffer(width, height*2)
	ticker := time.NewTicker(time.Second / time.Duration(max(v.FPS, 1)))
	defer ticker.Stop()

	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = NewFramebuffer(width, height*2)
			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("q", "escape", "ctrl+c"):
					return nil
				case ev.MatchString("tab", "m"):
					v.Mode = v.Mode.Next()
				case ev.MatchString("0"):
					v.Mode = ModeShaded
				case ev.MatchString("1"):
					v.Mode = ModeRed
				case ev.MatchString("2"):
					v.Mode = ModeGreen
				case ev.MatchString("3"):
					v.Mode = ModeBlue
				case ev.MatchString("4"):
					v.Mode = ModeAlpha
				case ev.MatchString("c"):
					v.showCursor = !v.showCursor
				}
				v.Log.Debug("preview mode", zap.Stringer("mode", v.Mode))
			}

		case s := <-v.Updates:
			if s != nil {
				v.Surface = s
				v.Log.Info("preview reloaded", zap.String("surface", s.Name))
			}

		case <-ticker.C:
			v.Render(fb)
			fb.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}

// Render draws the current splat map into fb, framed, with the footprint of
// the last stroke on top. Surfaces that have not been painted show the bare
// base layer.
func (v *Viewer) Render(fb *Framebuffer) {
	fb.Clear(v.Background)
	area := fb.Fit()

	var m *splat.Map
	if v.Surface != nil {
		if mat := v.Surface.Material(); mat != nil {
			m = mat.Splat
		}
	}
	if m == nil {
		m = splat.NewMap(splat.MinResolution)
	}
	fb.DrawSplat(m, area, v.Palette, v.Mode, v.Filter)

	if v.Frame.A != 0 {
		fb.DrawRectOutline(area.Min.X-1, area.Min.Y-1, area.Dx()+2, area.Dy()+2, v.Frame)
	}
	if v.showCursor && v.Cursor.A != 0 && v.Surface != nil {
		if fp, ok := v.Surface.LastFootprint(); ok {
			side := float64(area.Dx())
			fb.DrawCircle(
				area.Min.X+int(fp.UV.X*side),
				area.Min.Y+int(fp.UV.Y*side),
				int(math.Round(fp.Radius*side)),
				v.Cursor)
		}
	}
}

// Snapshot renders the preview into a size x size image without a terminal.
func (v *Viewer) Snapshot(size int) *image.RGBA {
	fb := NewFramebuffer(size, size)
	v.Render(fb)
	return fb.ToImage()
}
