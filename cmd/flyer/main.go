package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"voxel-flyer/internal/app"
	"voxel-flyer/internal/display/gldisplay"
	"voxel-flyer/internal/input"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	flags := app.RegisterFlags(flag.CommandLine)
	flag.Parse()

	s, err := flags.Settings()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	field, err := app.LoadField(s.Map)
	if err != nil {
		log.Fatalf("map: %v", err)
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	im := input.NewInputManager()
	window, err := gldisplay.Open(s.Display, im)
	if err != nil {
		panic(err)
	}
	defer window.Close()

	flyer, err := app.New(s, window, im, field)
	if err != nil {
		panic(err)
	}
	defer flyer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Flying %s over %dx%d map", flyer.Renderer().Name(), field.Width(), field.Height())
	if err := flyer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("run: %v", err)
	}
}
