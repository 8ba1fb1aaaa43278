package config

import "flag"

// Flags holds command-line settings. Empty strings, zero numbers and a
// negative Force leave the config alone.
type Flags struct {
	ConfigPath  string
	StrokesPath string
	OutPath     string
	BasePath    string
	Snapshot    string
	Resolution  int
	Force       float64
	Size        float64
	Channel     string
	Preview     bool
	Watch       bool
	Debug       bool
}

// RegisterFlags defines the splatpaint flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "Path to config file")
	fs.StringVar(&f.StrokesPath, "strokes", "", "YAML stroke script to replay")
	fs.StringVar(&f.OutPath, "out", "", "Splat map output path (.png, .bmp, .tif)")
	fs.StringVar(&f.BasePath, "base", "", "Existing splat map to paint over")
	fs.StringVar(&f.Snapshot, "snapshot", "", "Write the shaded preview to an image file")
	fs.IntVar(&f.Resolution, "resolution", 0, "Splat map resolution in pixels")
	fs.Float64Var(&f.Force, "force", -1, "Brush force (0-100)")
	fs.Float64Var(&f.Size, "size", 0, "Brush size in world units")
	fs.StringVar(&f.Channel, "channel", "", "Brush channel: r, g, b, a or none")
	fs.BoolVar(&f.Preview, "preview", false, "Show the splat map in the terminal")
	fs.BoolVar(&f.Watch, "watch", false, "Repaint when the model or stroke script changes")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	return f
}

// Apply overrides cfg with every flag that was set.
func (f *Flags) Apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.OutPath != "" {
		cfg.Output.Path = f.OutPath
	}
	if f.Resolution > 0 {
		cfg.Texture.Resolution = f.Resolution
	}
	if f.Force >= 0 {
		cfg.Brush.Force = f.Force
	}
	if f.Size > 0 {
		cfg.Brush.Size = f.Size
	}
	if f.Channel != "" {
		cfg.Brush.Channel = f.Channel
	}
}
