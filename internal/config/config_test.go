package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxel-flyer/internal/terrain"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	if err := s.Validate(); err != nil {
		t.Fatalf("Default settings invalid: %v", err)
	}
	sky, err := s.Render.Sky()
	if err != nil {
		t.Fatal(err)
	}
	if sky != terrain.CornflowerBlue {
		t.Errorf("Expected cornflower blue sky, got %#04x", uint16(sky))
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s != Default() {
		t.Errorf("Expected defaults, got %+v", s)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flyer.yaml")
	doc := `
display:
  width: 320
map:
  source: generated
  seed: 7
camera:
  fov: 60
  wrap_heading: false
render:
  backend: column
  sky_color: "000000"
loop:
  fps_limit: 60
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Display.Width != 320 || s.Display.Height != 240 {
		t.Errorf("display = %+v", s.Display)
	}
	if s.Map.Source != MapSourceGenerated || s.Map.Seed != 7 || s.Map.Width != 1024 {
		t.Errorf("map = %+v", s.Map)
	}
	if s.Camera.FOV != 60 || s.Camera.WrapHeading || s.Camera.VisibleDistance != 300 {
		t.Errorf("camera = %+v", s.Camera)
	}
	if s.Render.Backend != "column" || s.Loop.FPSLimit != 60 {
		t.Errorf("render/loop = %+v %+v", s.Render, s.Loop)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown section", doc: "audio:\n  volume: 3\n"},
		{name: "unknown field", doc: "camera:\n  zoom: 2\n"},
		{name: "unknown backend", doc: "render:\n  backend: raytrace\n"},
		{name: "negative fps", doc: "loop:\n  fps_limit: -1\n"},
		{name: "fov out of range", doc: "camera:\n  fov: 180\n"},
		{name: "wrong type", doc: "display:\n  width: wide\n"},
		{name: "bad sky", doc: "render:\n  sky_color: blue\n"},
		{name: "not yaml", doc: "display: [\n"},
		{name: "too many workers", doc: "render:\n  workers: 300\n"},
		{name: "fractional width", doc: "display:\n  width: 2.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			err := Parse([]byte(tt.doc), &s)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParseSchemaBounds(t *testing.T) {
	s := Default()
	doc := "display:\n  width: 4096\n  height: 1\nrender:\n  workers: 256\n  depth_step_growth: 0.5\ncamera:\n  direction: -45.5\n"
	if err := Parse([]byte(doc), &s); err != nil {
		t.Fatalf("Expected bounds to be accepted, got %v", err)
	}
	if s.Display.Width != 4096 || s.Render.Workers != 256 || s.Camera.Direction != -45.5 {
		t.Errorf("unexpected settings %+v %+v %+v", s.Display, s.Render, s.Camera)
	}
}

func TestLoadOverKeepsExplicitZero(t *testing.T) {
	base := Default()
	base.Loop.FPSLimit = 30

	s, err := LoadOver("", base)
	if err != nil || s.Loop.FPSLimit != 30 {
		t.Fatalf("LoadOver(\"\") = %d, %v; want base", s.Loop.FPSLimit, err)
	}

	path := filepath.Join(t.TempDir(), "flyer.yaml")
	if err := os.WriteFile(path, []byte("loop:\n  fps_limit: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = LoadOver(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if s.Loop.FPSLimit != 0 {
		t.Errorf("Expected explicit 0 to win over base, got %d", s.Loop.FPSLimit)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	s := Default()
	if err := Parse([]byte("# nothing here\n"), &s); err != nil {
		t.Errorf("Expected empty document to keep defaults, got %v", err)
	}
}

func TestValidateCrossField(t *testing.T) {
	s := Default()
	s.Map.Source = MapSourceGenerated
	s.Map.Width = 0
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected zero-size generated map to be rejected, got %v", err)
	}

	s = Default()
	s.Map.HeightFile = ""
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected missing height file to be rejected, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#FF0000")
	if err != nil || c != terrain.RGB565(255, 0, 0) {
		t.Errorf("ParseHexColor(#FF0000) = %#04x, %v", uint16(c), err)
	}
	if _, err := ParseHexColor("#12345"); err == nil {
		t.Error("Expected short color to fail")
	}
	if _, err := ParseHexColor("zzzzzz"); err == nil {
		t.Error("Expected non-hex color to fail")
	}
}

func TestRuntimeSettings(t *testing.T) {
	defer Apply(Default())

	SetFPSLimit(-5)
	if got := GetFPSLimit(); got != 0 {
		t.Errorf("Expected negative limit clamped to 0, got %d", got)
	}
	SetFPSLimit(5000)
	if got := GetFPSLimit(); got != 1000 {
		t.Errorf("Expected limit clamped to 1000, got %d", got)
	}

	s := Default()
	s.Loop = LoopSettings{FPSLimit: 30, ShowHUD: true}
	Apply(s)
	if GetFPSLimit() != 30 || !GetShowHUD() {
		t.Errorf("Apply did not copy loop settings: %d %v", GetFPSLimit(), GetShowHUD())
	}
	if ToggleHUD() || GetShowHUD() {
		t.Error("Expected ToggleHUD to hide the HUD")
	}
}
