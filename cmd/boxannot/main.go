package main

import (
	"flag"
	"os"
	"time"

	"github.com/gekko3d/boxannot"
	"github.com/gekko3d/boxannot/gpu"
	"github.com/gekko3d/boxannot/hud"
	"github.com/gekko3d/boxannot/platform"
)

const fontSize = 16

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := boxannot.NewDefaultLogger("boxannot", boxannot.LevelInfo)

	cfg := boxannot.DefaultConfig()
	if *configPath != "" {
		loaded, err := boxannot.LoadConfig(*configPath)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	log.SetLevel(cfg.Level())
	if *debug {
		log.SetDebug(true)
	}

	if err := run(cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg boxannot.Config, log boxannot.Logger) error {
	win, err := platform.Open(cfg.Width, cfg.Height, cfg.Title)
	if err != nil {
		return err
	}
	defer win.Close()

	atlas, err := hud.NewAtlas(cfg.FontPath, fontSize)
	if err != nil {
		log.Warnf("font %q unavailable, using built-in face: %v", cfg.FontPath, err)
		atlas = hud.NewBasicAtlas()
	}

	width, height := win.FramebufferSize()
	renderer, err := gpu.NewRenderer(win.SurfaceDescriptor(), width, height, atlas, log.Named("gpu"))
	if err != nil {
		return err
	}
	defer renderer.Release()

	app, err := boxannot.NewApp(cfg, log, renderer)
	if err != nil {
		return err
	}
	app.Resize(width, height)
	win.Attach(app.Dispatcher(), app.Resize)

	for !win.ShouldClose() {
		win.PollEvents()
		// A lost or outdated surface recovers on the next configure.
		if err := app.Frame(time.Now()); err != nil {
			log.Debugf("frame skipped: %v", err)
		}
	}
	return nil
}
