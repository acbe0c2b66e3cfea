// Command scene-demo opens a window showing the demo scene drawn by the Ebiten
// renderer, optionally with the Dear ImGui debug windows on top.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/ecs/debugui"
	debugui_ebiten "github.com/plus3/scene2d/ecs/debugui/ebiten"
	"github.com/plus3/scene2d/internal/demo"
	render_ebiten "github.com/plus3/scene2d/render/ebiten"
)

type Game struct {
	scene    *ecs.Scene
	renderer *render_ebiten.Renderer
	imgui    *ecs.Resource[debugui_ebiten.ImguiBackend]
	clear    color.Color
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	backend := g.backend()
	if backend != nil {
		backend.BeginFrame()
	}
	g.scene.Update(1.0 / float64(ebiten.TPS()))
	if backend != nil {
		backend.EndFrame()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.clear)
	g.renderer.Draw(screen, g.scene)

	if backend := g.backend(); backend != nil {
		backend.Draw(screen)
		return
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("entities: %d  fps: %.0f", g.scene.EntityCount(), ebiten.ActualFPS()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if backend := g.backend(); backend != nil {
		backend.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return demo.Width, demo.Height
}

func (g *Game) backend() *debugui_ebiten.ImguiBackend {
	if g.imgui == nil {
		return nil
	}
	return g.imgui.Get()
}

func spriteTexture() *ebiten.Image {
	img := ebiten.NewImage(32, 32)
	vector.DrawFilledCircle(img, 16, 16, 14, color.White, true)
	vector.DrawFilledRect(img, 14, 2, 4, 14, color.RGBA{R: 40, G: 40, B: 40, A: 255}, false)
	return img
}

func run() error {
	sprites := flag.Int("sprites", 24, "Number of bouncing sprites.")
	seed := flag.Int64("seed", 1, "Seed for sprite placement.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui debug windows.")
	quiet := flag.Bool("quiet", false, "Discard scene log output.")
	flag.Parse()

	logger := log.New(os.Stderr, "scene: ", log.LstdFlags)
	if *quiet {
		logger.SetOutput(io.Discard)
	}

	scene := ecs.NewScene(nil, ecs.WithLogger(logger))
	demo.Build(scene, demo.Config{Sprites: *sprites, Seed: *seed, SpinRects: true})

	bg := demo.Background
	game := &Game{
		scene:    scene,
		renderer: render_ebiten.NewRenderer(logger),
		clear:    color.NRGBA{R: uint8(bg.R * 255), G: uint8(bg.G * 255), B: uint8(bg.B * 255), A: 255},
	}
	game.renderer.SetTexture(demo.SpriteTexture, spriteTexture())

	if *debug {
		debugui_ebiten.Install(scene, "Scene Demo", demo.Width+600, demo.Height+200)
		scene.AddSystem(&debugui.ImguiSystem{})
		debugui.SpawnDebugUI(scene)
		spawnDemoWindow(scene)
		game.imgui = ecs.NewResource[debugui_ebiten.ImguiBackend](scene)
	} else {
		ebiten.SetWindowTitle("Scene Demo")
		ebiten.SetWindowSize(demo.Width, demo.Height)
	}
	defer scene.Shutdown()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("scene-demo: %v", err)
	}
}
