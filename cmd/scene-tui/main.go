// Command scene-tui draws the demo scene into the terminal. Tab pauses, ESC or
// Ctrl+C quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/internal/demo"
	"github.com/plus3/scene2d/render/terminal"
)

type app struct {
	screen   tcell.Screen
	scene    *ecs.Scene
	renderer *terminal.Renderer
	settings *ecs.Resource[demo.Settings]
}

// fit scales the renderer so the whole demo world is visible.
func (a *app) fit() {
	w, h := a.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	a.renderer.CellWidth = float32(demo.Width) / float32(w)
	a.renderer.CellHeight = float32(demo.Height) / float32(h)
}

// handle reports false once the app should exit.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			settings := a.settings.Get()
			settings.Paused = !settings.Paused
		}
	case *tcell.EventResize:
		a.screen.Sync()
		a.fit()
	}
	return true
}

func (a *app) run(fps int) {
	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handle(ev) {
				return
			}

		case <-ticker.C:
			a.scene.Update(interval.Seconds())
			a.renderer.Draw(a.screen, a.scene)
			a.screen.Show()
		}
	}
}

func run() error {
	sprites := flag.Int("sprites", 12, "Number of bouncing sprites.")
	seed := flag.Int64("seed", 1, "Seed for sprite placement.")
	fps := flag.Int("fps", 30, "Frames per second.")
	logPath := flag.String("log", "", "Write scene log output to this file.")
	flag.Parse()

	if *fps <= 0 {
		return fmt.Errorf("-fps must be positive, got %d", *fps)
	}

	// The terminal is owned by tcell, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			return fmt.Errorf("opening log: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.New(out, "scene: ", log.LstdFlags)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	scene := ecs.NewScene(nil, ecs.WithLogger(logger))
	demo.Build(scene, demo.Config{Sprites: *sprites, Seed: *seed, SpinRects: true})
	defer scene.Shutdown()

	renderer := terminal.NewRenderer(1, 1)
	renderer.Background = demo.Background

	a := &app{
		screen:   screen,
		scene:    scene,
		renderer: renderer,
		settings: ecs.NewResource[demo.Settings](scene),
	}
	a.fit()
	a.run(*fps)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("scene-tui: %v", err)
	}
}
