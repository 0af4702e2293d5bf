package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxel-flyer/internal/terrain"
)

var ErrInvalidConfig = errors.New("invalid config")

const (
	MapSourceFiles     = "files"
	MapSourceGenerated = "generated"
)

//go:embed settings.schema.json
var schemaSource string

const schemaURL = "settings.schema.json"

var settingsSchema = jsonschema.MustCompileString(schemaURL, schemaSource)

// Settings is the on-disk configuration of the flyer.
type Settings struct {
	Display DisplaySettings `yaml:"display"`
	Map     MapSettings     `yaml:"map"`
	Camera  CameraSettings  `yaml:"camera"`
	Render  RenderSettings  `yaml:"render"`
	Loop    LoopSettings    `yaml:"loop"`
	Capture CaptureSettings `yaml:"capture"`
}

type DisplaySettings struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"` // window pixels per frame pixel
	Title  string `yaml:"title"`
}

type MapSettings struct {
	Source     string `yaml:"source"`
	Dir        string `yaml:"dir"`
	ColorFile  string `yaml:"color_file"`
	HeightFile string `yaml:"height_file"`

	// generated maps only
	Width  int   `yaml:"width"`
	Height int   `yaml:"height"`
	Seed   int64 `yaml:"seed"`
}

type CameraSettings struct {
	FOV             int     `yaml:"fov"`
	VisibleDistance int     `yaml:"visible_distance"`
	Direction       float64 `yaml:"direction"`
	RotateRate      float64 `yaml:"rotate_rate"`  // degrees per second while held
	TapStep         float64 `yaml:"tap_step"`     // degrees per tap
	FlightSpeed     float64 `yaml:"flight_speed"` // map cells per second, 0 keeps the camera still
	WrapHeading     bool    `yaml:"wrap_heading"`
}

type RenderSettings struct {
	Backend         string  `yaml:"backend"`
	DepthStepGrowth float64 `yaml:"depth_step_growth"`
	UseCameraFOV    bool    `yaml:"use_camera_fov"`
	SkyColor        string  `yaml:"sky_color"`
	Workers         int     `yaml:"workers"` // column backend; 0 = GOMAXPROCS, 1 = serial
}

type LoopSettings struct {
	FPSLimit int  `yaml:"fps_limit"` // 0 = uncapped
	ShowHUD  bool `yaml:"show_hud"`
}

type CaptureSettings struct {
	Frames int    `yaml:"frames"`
	Path   string `yaml:"path"`
	PNG    string `yaml:"png"`
}

// Default returns the settings used when no config file is given.
func Default() Settings {
	return Settings{
		Display: DisplaySettings{Width: 240, Height: 240, Scale: 3, Title: "voxel-flyer"},
		Map: MapSettings{
			Source:     MapSourceFiles,
			Dir:        "maps",
			ColorFile:  "C1W.bmp",
			HeightFile: "D1.bmp",
			Width:      1024,
			Height:     1024,
			Seed:       1,
		},
		Camera: CameraSettings{
			FOV:             90,
			VisibleDistance: 300,
			Direction:       180,
			RotateRate:      90,
			TapStep:         5,
			WrapHeading:     true,
		},
		Render: RenderSettings{
			Backend:         "depth",
			DepthStepGrowth: 0.2,
			SkyColor:        "#6495ED",
		},
		Capture: CaptureSettings{Frames: 120, Path: "frames.vxf.zst"},
	}
}

// Load reads a YAML config file on top of Default. An empty path returns
// the defaults. The document is checked against the embedded schema before
// it is decoded.
func Load(path string) (Settings, error) {
	return LoadOver(path, Default())
}

// LoadOver is Load with base in place of Default. Keys the file sets win,
// including explicit zero values.
func LoadOver(path string, base Settings) (Settings, error) {
	s := base
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read config: %w", err)
	}
	if err := Parse(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse validates raw YAML and decodes it over s.
func Parse(raw []byte, s *Settings) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if doc == nil {
		return s.Validate()
	}
	if err := validateSchema(doc); err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return s.Validate()
}

func validateSchema(doc any) error {
	// round trip through JSON so numbers and maps have the shapes the
	// validator expects
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := settingsSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Validate checks the rules the schema cannot express, and the ones that
// matter when Settings are built in code rather than loaded.
func (s Settings) Validate() error {
	var problems []string
	if s.Display.Width <= 0 || s.Display.Height <= 0 {
		problems = append(problems, "display size must be positive")
	}
	if s.Display.Scale < 1 {
		problems = append(problems, "display scale must be at least 1")
	}
	switch s.Map.Source {
	case MapSourceFiles:
		if s.Map.ColorFile == "" || s.Map.HeightFile == "" {
			problems = append(problems, "map files need color_file and height_file")
		}
	case MapSourceGenerated:
		if s.Map.Width <= 0 || s.Map.Height <= 0 {
			problems = append(problems, "generated map size must be positive")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown map source %q", s.Map.Source))
	}
	if s.Camera.FOV <= 0 || s.Camera.FOV >= 180 {
		problems = append(problems, "camera fov must be between 0 and 180")
	}
	if s.Camera.VisibleDistance <= 0 {
		problems = append(problems, "camera visible_distance must be positive")
	}
	if s.Camera.RotateRate < 0 || s.Camera.TapStep < 0 || s.Camera.FlightSpeed < 0 {
		problems = append(problems, "camera rates must not be negative")
	}
	switch s.Render.Backend {
	case "depth", "column", "frustum":
	default:
		problems = append(problems, fmt.Sprintf("unknown render backend %q", s.Render.Backend))
	}
	if s.Render.Workers < 0 {
		problems = append(problems, "render workers must not be negative")
	}
	if s.Render.DepthStepGrowth < 0 {
		problems = append(problems, "render depth_step_growth must not be negative")
	}
	if _, err := s.Render.Sky(); err != nil {
		problems = append(problems, err.Error())
	}
	if s.Loop.FPSLimit < 0 {
		problems = append(problems, "loop fps_limit must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Sky parses SkyColor as an RGB hex triplet.
func (r RenderSettings) Sky() (terrain.Color565, error) {
	return ParseHexColor(r.SkyColor)
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (terrain.Color565, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad color %q", s)
	}
	return terrain.RGB565(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}
