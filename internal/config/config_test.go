package config

import (
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/taigrr/splat/pkg/splat"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config should validate: %v", err)
	}
	if cfg.Texture.Resolution != 512 || cfg.Brush.Force != 30 || cfg.Brush.Size != 10 {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if cfg.Locator.NormalEpsilon != 0.2 || cfg.Texture.ScaleConstant != 1.8 {
		t.Errorf("Unexpected calibration defaults: %+v", cfg)
	}
}

func TestValidateClamps(t *testing.T) {
	cfg := Default()
	cfg.Texture.Resolution = 4
	cfg.Brush.Force = 250
	cfg.Brush.Size = 100
	cfg.Stroke.Spacing = -1

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Texture.Resolution != splat.MinResolution {
		t.Errorf("Expected resolution %d, got %d", splat.MinResolution, cfg.Texture.Resolution)
	}
	if cfg.Brush.Force != 100 {
		t.Errorf("Expected force 100, got %v", cfg.Brush.Force)
	}
	if cfg.Brush.Size != cfg.Brush.MaxSize {
		t.Errorf("Expected size %v, got %v", cfg.Brush.MaxSize, cfg.Brush.Size)
	}
	if cfg.Stroke.Spacing != 0 {
		t.Errorf("Expected spacing 0, got %v", cfg.Stroke.Spacing)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"channel", func(c *Config) { c.Brush.Channel = "x" }, "brush channel"},
		{"filter", func(c *Config) { c.Texture.Filter = "cubic" }, "texture filter"},
		{"size range", func(c *Config) { c.Brush.MinSize = 5; c.Brush.MaxSize = 1 }, "size range"},
		{"scale", func(c *Config) { c.Texture.ScaleConstant = 0 }, "scale_constant"},
		{"epsilon", func(c *Config) { c.Locator.NormalEpsilon = 0 }, "normal_epsilon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "brush:\n  channel: b\n  force: 80\ntexture:\n  resolution: 1024\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Brush.Channel != "b" || cfg.Brush.Force != 80 || cfg.Texture.Resolution != 1024 {
		t.Errorf("File values not applied: %+v", cfg)
	}
	if cfg.Brush.Size != 10 || cfg.Texture.Filter != "linear" {
		t.Errorf("Expected defaults for missing keys: %+v", cfg)
	}
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "splatpaint.yaml")
	if err := os.WriteFile(path, []byte("brush:\n  force: 80\n  size: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse([]string{"-config", path, "-force", "55", "-resolution", "64", "-debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Brush.Force != 55 {
		t.Errorf("Expected flag force 55, got %v", cfg.Brush.Force)
	}
	if cfg.Brush.Size != 4 {
		t.Errorf("Expected file size 4, got %v", cfg.Brush.Size)
	}
	if cfg.Texture.Resolution != 64 {
		t.Errorf("Expected flag resolution 64, got %d", cfg.Texture.Resolution)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug logging, got %q", cfg.Logging.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(&Flags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"), Force: -1})
	if err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
}

func TestUnsetFlagsKeepConfig(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	flags.Apply(cfg)
	if cfg.Brush.Force != 30 || cfg.Output.Path != "splat.png" || cfg.Brush.Channel != "r" {
		t.Errorf("Unset flags changed the config: %+v", cfg)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Brush.Channel = "g"
	cfg.Layers.CollisionMask = 6

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := &Config{}
	if err := LoadFile(loaded, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME only applies on unix-like systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if got := ConfigDir(); got != filepath.Join(dir, "splatpaint") {
		t.Errorf("Expected config dir under XDG_CONFIG_HOME, got %s", got)
	}
}

func TestCompositorFromConfig(t *testing.T) {
	cfg := Default()
	cfg.Texture.ScaleConstant = 2
	c := cfg.Compositor()
	if c.ScaleConstant != 2 || c.EaseExponent != splat.DefaultEaseExponent {
		t.Errorf("Unexpected compositor %+v", c)
	}
}

func TestTOMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Brush.Channel = "a"
	cfg.Texture.Resolution = 2048
	cfg.Stroke.Stabilize = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := LoadFile(loaded, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadFileTOMLPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splatpaint.toml")
	data := "[brush]\nforce = 12.5\n\n[locator]\nnormal_epsilon = 0.1\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Brush.Force != 12.5 || cfg.Locator.NormalEpsilon != 0.1 {
		t.Errorf("TOML values not applied: %+v", cfg)
	}
	if cfg.Brush.Size != 10 {
		t.Errorf("Expected default size for missing key, got %v", cfg.Brush.Size)
	}
}
