// Command flyer-capture renders frames without a window and records them to
// a zstd capture, optionally saving the last frame as a PNG.
package main

import (
	"flag"
	"log"

	"github.com/xlab/closer"

	"voxel-flyer/internal/app"
	"voxel-flyer/internal/capture"
	"voxel-flyer/internal/input"
	"voxel-flyer/internal/render"
)

// headless satisfies app.Window for a sink with no events
type headless struct {
	render.Sink
}

func (headless) PollEvents()       {}
func (headless) ShouldClose() bool { return false }

func main() {
	defer closer.Close()

	flags := app.RegisterFlags(flag.CommandLine)
	frames := flag.Int("frames", 0, "frames to record (0 keeps the configured count)")
	out := flag.String("out", "", "capture file (default from config)")
	pngPath := flag.String("png", "", "also save the last frame as PNG")
	fps := flag.Float64("step-fps", 30, "simulated frame rate of the scripted flight")
	flag.Parse()

	s, err := flags.Settings()
	if err != nil {
		closer.Fatalln("config:", err)
	}
	if *frames > 0 {
		s.Capture.Frames = *frames
	}
	if *out != "" {
		s.Capture.Path = *out
	}
	if *pngPath != "" {
		s.Capture.PNG = *pngPath
	}
	if *fps <= 0 {
		closer.Fatalln("step-fps must be positive")
	}

	field, err := app.LoadField(s.Map)
	if err != nil {
		closer.Fatalln("map:", err)
	}

	sink := render.NewMemorySink(s.Display.Width, s.Display.Height)
	rec, err := capture.Create(s.Capture.Path, sink)
	if err != nil {
		closer.Fatalln("capture:", err)
	}
	closer.Bind(func() {
		if err := rec.Close(); err != nil {
			log.Printf("close capture: %v", err)
		}
	})

	im := input.NewInputManager()
	flyer, err := app.New(s, headless{rec}, im, field)
	if err != nil {
		closer.Fatalln("app:", err)
	}
	closer.Bind(func() { _ = flyer.Close() })

	// scripted flight: hold right for the whole capture
	im.Push(input.ButtonRight)
	dt := 1 / *fps
	for i := 0; i < s.Capture.Frames; i++ {
		if err := flyer.Step(dt); err != nil {
			closer.Fatalln("frame", i, err)
		}
	}

	if s.Capture.PNG != "" {
		if err := capture.WritePNG(sink.Buffer(), s.Capture.PNG); err != nil {
			closer.Fatalln("png:", err)
		}
		log.Printf("Saved last frame to %s", s.Capture.PNG)
	}
	log.Printf("Recorded %d frames (%dx%d) to %s", rec.Frames(), s.Display.Width, s.Display.Height, s.Capture.Path)
}
