package ecs

// System is a unit of per-frame logic. Systems keep no authoritative per-entity
// state; anything tied to an entity belongs in its components so that destroying
// the entity removes it.
//
// Exported View, Query and Resource fields of a system struct are initialized
// against the scene when the system is added.
type System interface {
	// Initialize is called exactly once, when the system is added to a scene.
	Initialize(scene *Scene)
	// Update is called once per frame, in registration order.
	Update(frame *UpdateFrame)
	// Shutdown releases resources owned by the system itself.
	Shutdown()
}

// BaseSystem provides the default Initialize and Shutdown.
// Embed it and implement Update.
type BaseSystem struct {
	Scene *Scene
}

func (b *BaseSystem) Initialize(scene *Scene) {
	b.Scene = scene
}

func (b *BaseSystem) Shutdown() {}

// SystemFunc adapts a function to a System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Initialize(*Scene)         {}
func (f SystemFunc) Update(frame *UpdateFrame) { f(frame) }
func (f SystemFunc) Shutdown()                 {}
