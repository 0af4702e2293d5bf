package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"voxel-flyer/internal/app"
	"voxel-flyer/internal/display/ebitendisplay"
	"voxel-flyer/internal/input"
)

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

	im := input.NewInputManager()
	display := ebitendisplay.New(s.Display, im)
	flyer, err := app.New(s, display, im, field)
	if err != nil {
		log.Fatalf("app: %v", err)
	}
	defer flyer.Close()

	err = display.Run(func() error {
		if err := flyer.Frame(); err != nil {
			return err
		}
		if flyer.Stopped() {
			return ebiten.Termination
		}
		return nil
	})
	if err != nil {
		log.Fatalf("run: %v", err)
	}
}
