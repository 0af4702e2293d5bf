package app

import (
	"flag"

	"voxel-flyer/internal/config"
)

// Flags are the command-line overrides shared by every flyer binary.
type Flags struct {
	ConfigPath string
	Backend    string
	Generate   bool
	Seed       int64
	FPSLimit   int
	ShowHUD    bool
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.ConfigPath, "config", "", "path to a YAML config file (default: built-in settings)")
	fs.StringVar(&f.Backend, "backend", "", "renderer backend override: depth, column or frustum")
	fs.BoolVar(&f.Generate, "generate", false, "fly over a generated map instead of the bitmap files")
	fs.Int64Var(&f.Seed, "seed", 0, "seed for -generate (0 keeps the configured seed)")
	fs.IntVar(&f.FPSLimit, "fps", -1, "FPS cap override, 0 = uncapped")
	fs.BoolVar(&f.ShowHUD, "hud", false, "start with the heading/FPS overlay shown")
	return f
}

// Settings loads the config file, applies the overrides and publishes the
// runtime knobs.
func (f *Flags) Settings() (config.Settings, error) {
	return f.SettingsOver(config.Default())
}

// SettingsOver is Settings with a binary-specific base in place of the
// built-in defaults, so the config file and flags can still override it.
func (f *Flags) SettingsOver(base config.Settings) (config.Settings, error) {
	s, err := config.LoadOver(f.ConfigPath, base)
	if err != nil {
		return s, err
	}
	if f.Backend != "" {
		s.Render.Backend = f.Backend
	}
	if f.Generate {
		s.Map.Source = config.MapSourceGenerated
	}
	if f.Seed != 0 {
		s.Map.Seed = f.Seed
	}
	if f.FPSLimit >= 0 {
		s.Loop.FPSLimit = f.FPSLimit
	}
	if f.ShowHUD {
		s.Loop.ShowHUD = true
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	config.Apply(s)
	return s, nil
}
