package main

import (
	"math"
	"math/rand"

	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/render"
)

const worldSize = 1000

type Velocity struct {
	DX, DY float32
}

type Spin struct {
	Speed float32
}

// Lifetime destroys its entity once Remaining drops below zero; a replacement
// is spawned in its place so the population stays constant.
type Lifetime struct {
	Remaining float64
}

type Pulse struct {
	Phase float64
}

func RegisterStressComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Pulse](registry)
}

// rng is stored as a resource so the respawn path stays deterministic.
type rng struct {
	*rand.Rand
}

func RegisterStressSystems(scene *ecs.Scene) {
	scene.AddSystem(&MovementSystem{})
	scene.AddSystem(&SpinSystem{})
	scene.AddSystem(&PulseSystem{})
	scene.AddSystem(&LifetimeSystem{})
	scene.AddSystem(&CollectSystem{})
}

// SpawnRandomEntity spawns a transform plus a random mix of the other kinds.
func SpawnRandomEntity(scene *ecs.Scene, r *rand.Rand) ecs.Entity {
	if ecs.GetResource[rng](scene) == nil {
		ecs.SetResource(scene, rng{r})
	}

	e := ecs.CreateEntity2D(scene, r.Float32()*worldSize, r.Float32()*worldSize)

	if r.Intn(4) > 0 {
		ecs.AddComponent(scene, e, Velocity{DX: r.Float32()*200 - 100, DY: r.Float32()*200 - 100})
	}
	if r.Intn(3) == 0 {
		ecs.AddComponent(scene, e, Spin{Speed: r.Float32()*4 - 2})
	}

	switch r.Intn(3) {
	case 0:
		size := 4 + r.Float32()*28
		ecs.AddComponent(scene, e, ecs.NewRoundedRect2DColor(size, size, size/4, ecs.RGBA{R: r.Float32(), G: r.Float32(), B: r.Float32(), A: 1}))
	case 1:
		sprite := ecs.NewSprite2DTexture(uint32(r.Intn(8) + 1))
		sprite.SetSize(16, 16)
		ecs.AddComponent(scene, e, sprite)
	}

	renderable := ecs.NewRenderable2D(r.Intn(10) > 0, int32(r.Intn(4)))
	ecs.AddComponent(scene, e, renderable)
	if r.Intn(2) == 0 {
		ecs.AddComponent(scene, e, Pulse{Phase: r.Float64() * math.Pi})
	}
	if r.Intn(5) == 0 {
		ecs.AddComponent(scene, e, Lifetime{Remaining: r.Float64() * 2})
	}
	return e
}

type MovementSystem struct {
	ecs.BaseSystem
	Movers ecs.Query[struct {
		*ecs.Transform2D
		*Velocity
	}]
}

// Update moves every entity and bounces it off the world edges.
func (s *MovementSystem) Update(frame *ecs.UpdateFrame) {
	transforms := frame.Scene.Transforms()
	dt := float32(frame.DeltaTime)
	for m := range s.Movers.Values() {
		ref := m.Transform2D.Ref(transforms)
		ref.Translate(m.DX*dt, m.DY*dt)
		x, y := ref.Position()
		if x < 0 || x > worldSize {
			m.DX = -m.DX
		}
		if y < 0 || y > worldSize {
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
}

func (s *SpinSystem) Update(frame *ecs.UpdateFrame) {
	transforms := frame.Scene.Transforms()
	for sp := range s.Spinners.Values() {
		transforms.Rotate(sp.Handle, sp.Speed*float32(frame.DeltaTime))
	}
}

type PulseSystem struct {
	ecs.BaseSystem
	Pulsing ecs.View[struct {
		*ecs.Renderable2D
		*Pulse
	}]
}

func (s *PulseSystem) Update(frame *ecs.UpdateFrame) {
	for p := range s.Pulsing.Values() {
		p.Phase += frame.DeltaTime * 2
		p.SetOpacity(float32(0.5 + 0.5*math.Sin(p.Phase)))
	}
}

type LifetimeSystem struct {
	ecs.BaseSystem
	Mortal ecs.View[struct {
		ecs.Entity
		*Lifetime
	}]
	Random ecs.Resource[rng]
}

func (s *LifetimeSystem) Update(frame *ecs.UpdateFrame) {
	for m := range s.Mortal.Values() {
		m.Remaining -= frame.DeltaTime
		if m.Remaining >= 0 {
			continue
		}
		frame.Commands.Destroy(m.Entity)
		frame.Commands.Defer(func() {
			SpawnRandomEntity(frame.Scene, s.Random.Get().Rand)
		})
	}
}

// CollectSystem builds the draw list every frame, standing in for a renderer.
type CollectSystem struct {
	ecs.BaseSystem
	cmds []render.DrawCmd
}

func (s *CollectSystem) Update(frame *ecs.UpdateFrame) {
	s.cmds = render.Collect(frame.Scene, s.cmds)
}
