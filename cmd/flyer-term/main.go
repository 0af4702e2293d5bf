package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/xlab/closer"

	"voxel-flyer/internal/app"
	"voxel-flyer/internal/config"
	"voxel-flyer/internal/display/termdisplay"
	"voxel-flyer/internal/input"
)

// terminals redraw slowly; -fps 0 or loop.fps_limit: 0 still uncaps
const defaultTermFPS = 30

func main() {
	defer closer.Close()

	flags := app.RegisterFlags(flag.CommandLine)
	logPath := flag.String("log", "", "write logs to this file (the terminal is busy drawing)")
	flag.Parse()

	base := config.Default()
	base.Loop.FPSLimit = defaultTermFPS
	s, err := flags.SettingsOver(base)
	if err != nil {
		closer.Fatalln("config:", err)
	}

	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			closer.Fatalln("log:", err)
		}
		closer.Bind(func() { _ = f.Close() })
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	field, err := app.LoadField(s.Map)
	if err != nil {
		closer.Fatalln("map:", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		closer.Fatalln("terminal:", err)
	}
	if err := screen.Init(); err != nil {
		closer.Fatalln("terminal:", err)
	}

	im := input.NewInputManager()
	display := termdisplay.New(screen, im)
	closer.Bind(display.Close)

	// the frame follows the terminal, not the configured window size
	s.Display.Width = display.Buffer().Width()
	s.Display.Height = display.Buffer().Height()

	flyer, err := app.New(s, display, im, field)
	if err != nil {
		closer.Fatalln("app:", err)
	}
	closer.Bind(func() { _ = flyer.Close() })
	if err := flyer.Run(context.Background()); err != nil {
		log.Printf("run: %v", err)
	}
}
