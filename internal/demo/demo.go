// Package demo builds the sample scene shared by the demo commands: the six
// rounded rects of the original layout plus a swarm of bouncing sprites.
package demo

import (
	"math/rand"

	"github.com/plus3/scene2d/ecs"
)

// World size the layout was designed for.
const (
	Width  = 800
	Height = 600
)

// SpriteTexture is the texture id that bouncing sprites draw with.
const SpriteTexture = 1

// Background is the clear color of the demos.
var Background = ecs.RGBA{R: 0.15, G: 0.15, B: 0.15, A: 1}

type rectSpec struct {
	x, y, w, h, radius float32
	color              ecs.RGBA
}

var layout = []rectSpec{
	{400, 300, 200, 150, 20, ecs.RGBA{R: 0.2, G: 0.4, B: 0.8, A: 1}},
	{150, 100, 120, 80, 15, ecs.RGBA{R: 0.9, G: 0.2, B: 0.2, A: 1}},
	{650, 100, 120, 80, 15, ecs.RGBA{R: 0.2, G: 0.9, B: 0.3, A: 1}},
	{150, 500, 100, 60, 10, ecs.RGBA{R: 0.9, G: 0.9, B: 0.2, A: 1}},
	{650, 500, 100, 60, 10, ecs.RGBA{R: 0.7, G: 0.2, B: 0.9, A: 1}},
	{300, 250, 80, 50, 12, ecs.RGBA{R: 1, G: 0.6, B: 0.2, A: 1}},
}

// Bounds is the resource bouncing entities are kept inside.
type Bounds struct {
	Width, Height float32
}

// Velocity moves an entity in world units per second.
type Velocity struct {
	DX, DY float32
}

// Spin rotates an entity in radians per second.
type Spin struct {
	Speed float32
}

// Settings is the resource the demo systems and controls share.
type Settings struct {
	Paused bool
	// Speed scales the simulation step.
	Speed  float32
	Random *rand.Rand
}

func step(settings *Settings, dt float64) float32 {
	if settings == nil {
		return float32(dt)
	}
	if settings.Paused {
		return 0
	}
	return float32(dt) * settings.Speed
}

// Config selects what Build adds to a scene.
type Config struct {
	Sprites int
	Seed    int64
	// SpinRects makes the smallest rect of the layout rotate.
	SpinRects bool
}

// Register registers the demo kinds with registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Spin](registry)
}

// Build populates scene and registers the demo systems. It returns the rect entities in layout order.
func Build(scene *ecs.Scene, cfg Config) []ecs.Entity {
	Register(scene.Registry())
	ecs.SetResource(scene, Bounds{Width: Width, Height: Height})

	rects := make([]ecs.Entity, 0, len(layout))
	for _, r := range layout {
		e := ecs.CreateEntity2D(scene, r.x, r.y)
		ecs.AddComponent(scene, e, ecs.NewRoundedRect2DColor(r.w, r.h, r.radius, r.color))
		rects = append(rects, e)
	}
	if cfg.SpinRects {
		ecs.AddComponent(scene, rects[len(rects)-1], Spin{Speed: 0.8})
	}

	ecs.SetResource(scene, Settings{Speed: 1, Random: rand.New(rand.NewSource(cfg.Seed))})
	AddSprites(scene, cfg.Sprites)

	scene.AddSystem(&BounceSystem{})
	scene.AddSystem(&SpinSystem{})
	return rects
}

// AddSprites spawns n bouncing sprites at random positions on layer 1.
func AddSprites(scene *ecs.Scene, n int) []ecs.Entity {
	settings := ecs.GetResource[Settings](scene)
	if settings == nil || settings.Random == nil {
		return nil
	}
	r := settings.Random

	added := make([]ecs.Entity, 0, n)
	for i := range n {
		e := ecs.CreateSpriteEntity(scene, "", r.Float32()*Width, r.Float32()*Height, 24, 24)
		if !e.IsValid() {
			break
		}
		sprite := ecs.GetComponent[ecs.Sprite2D](scene, e)
		sprite.SetTextureID(SpriteTexture)

		renderable := ecs.GetComponent[ecs.Renderable2D](scene, e)
		renderable.SetLayer(1)
		renderable.SetTintRGBA(uint8(128+r.Intn(128)), uint8(128+r.Intn(128)), uint8(128+r.Intn(128)), 255)
		if i%2 == 1 {
			sprite.SetFlip(true, false)
		}

		ecs.AddComponent(scene, e, Velocity{DX: r.Float32()*240 - 120, DY: r.Float32()*240 - 120})
		ecs.AddComponent(scene, e, Spin{Speed: r.Float32()*2 - 1})
		added = append(added, e)
	}
	return added
}

// RemoveSprites destroys every bouncing sprite and returns how many there were.
func RemoveSprites(scene *ecs.Scene) int {
	var doomed []ecs.Entity
	ecs.Each(scene, func(e ecs.Entity, _ *Velocity) bool {
		if ecs.HasComponent[ecs.Sprite2D](scene, e) {
			doomed = append(doomed, e)
		}
		return true
	})
	for _, e := range doomed {
		scene.DestroyEntity(e)
	}
	return len(doomed)
}

// BounceSystem integrates velocities and reflects entities off the Bounds edges.
type BounceSystem struct {
	ecs.BaseSystem
	Movers ecs.View[struct {
		*ecs.Transform2D
		*Velocity
	}]
	Bounds   ecs.Resource[Bounds]
	Settings ecs.Resource[Settings]
}

func (s *BounceSystem) Update(frame *ecs.UpdateFrame) {
	bounds := s.Bounds.Get()
	if bounds == nil {
		return
	}
	transforms := frame.Scene.Transforms()
	dt := step(s.Settings.Get(), frame.DeltaTime)

	for m := range s.Movers.Values() {
		ref := m.Transform2D.Ref(transforms)
		ref.Translate(m.DX*dt, m.DY*dt)

		x, y := ref.Position()
		if x < 0 && m.DX < 0 || x > bounds.Width && m.DX > 0 {
			m.DX = -m.DX
		}
		if y < 0 && m.DY < 0 || y > bounds.Height && m.DY > 0 {
			m.DY = -m.DY
		}
	}
}

type SpinSystem struct {
	ecs.BaseSystem
	Spinners ecs.View[struct {
		*ecs.Transform2D
		*Spin
	}]
	Settings ecs.Resource[Settings]
}

func (s *SpinSystem) Update(frame *ecs.UpdateFrame) {
	transforms := frame.Scene.Transforms()
	dt := step(s.Settings.Get(), frame.DeltaTime)
	for sp := range s.Spinners.Values() {
		transforms.Rotate(sp.Handle, sp.Speed*dt)
	}
}
