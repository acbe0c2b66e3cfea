package ecs

import (
	"context"
	"io"
	"log"
	"reflect"
	"slices"
	"time"
)

// Scene owns the entities of one world together with their components, the
// transform storage and the ordered list of systems.
// A Scene is not safe for concurrent use.
type Scene struct {
	registry   *ComponentRegistry
	components *ComponentManager
	transforms *TransformStorage2D
	scheduler  *Scheduler
	queries    []queryExecutor
	resources  map[reflect.Type]any

	// entities is sorted because ids are issued in increasing order
	entities   []Entity
	nextEntity Entity
	exhausted  bool

	logger *log.Logger
}

type sceneConfig struct {
	logger            *log.Logger
	entityCapacity    int
	transformCapacity int
	firstEntity       Entity
}

// Option configures a Scene.
type Option func(*sceneConfig)

// WithLogger sets the logger used for lifecycle anomalies. The default discards.
func WithLogger(logger *log.Logger) Option {
	return func(c *sceneConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEntityCapacity preallocates room for n live entities.
func WithEntityCapacity(n int) Option {
	return func(c *sceneConfig) {
		c.entityCapacity = max(n, 0)
	}
}

// WithTransformCapacity preallocates n transform slots.
func WithTransformCapacity(n int) Option {
	return func(c *sceneConfig) {
		c.transformCapacity = max(n, 0)
	}
}

// WithFirstEntity makes the scene issue ids starting at first, which keeps the
// ids of several scenes apart.
func WithFirstEntity(first Entity) Option {
	return func(c *sceneConfig) {
		c.firstEntity = first
	}
}

// NewScene creates an empty scene whose kinds come from registry, which may be
// shared with other scenes. A nil registry gets a fresh one. The built-in kinds
// are registered either way.
func NewScene(registry *ComponentRegistry, opts ...Option) *Scene {
	cfg := sceneConfig{
		logger:            log.New(io.Discard, "", 0),
		entityCapacity:    256,
		transformCapacity: 256,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if registry == nil {
		registry = NewComponentRegistry()
	}
	registerBuiltinComponents(registry)

	s := &Scene{
		registry:   registry,
		components: NewComponentManager(registry),
		transforms: NewTransformStorage2D(cfg.transformCapacity),
		resources:  make(map[reflect.Type]any),
		entities:   make([]Entity, 0, cfg.entityCapacity),
		nextEntity: cfg.firstEntity,
		logger:     cfg.logger,
	}
	s.components.admit = s.IsAlive
	s.components.logger = cfg.logger
	s.scheduler = newScheduler(s)

	OnAttach(s, func(e Entity, t *Transform2D) bool {
		return s.transforms.Attach(t.Handle, e)
	})
	OnDiscard(s, func(e Entity, t *Transform2D) {
		s.releaseTransform(e, t.Handle)
	})
	return s
}

// releaseTransform frees h when a Transform2D holding it leaves e, unless the
// slot still backs a stored component: e's own, or another entity's.
func (s *Scene) releaseTransform(e Entity, h TransformHandle) {
	if !s.transforms.Valid(h) {
		return
	}
	owner := s.transforms.Owner(h.Slot)
	if owner != NullEntity && owner != e {
		return
	}
	if owner == e {
		if kept := GetComponent[Transform2D](s, e); kept != nil && kept.Handle == h {
			return
		}
	}
	s.transforms.Free(h)
}

func (s *Scene) componentManager() *ComponentManager {
	return s.components
}

// Registry returns the registry kinds are resolved against.
func (s *Scene) Registry() *ComponentRegistry {
	return s.registry
}

// Components returns the scene's component manager.
func (s *Scene) Components() *ComponentManager {
	return s.components
}

// Transforms returns the storage backing every Transform2D of the scene.
func (s *Scene) Transforms() *TransformStorage2D {
	return s.transforms
}

func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// CreateEntity returns a fresh id that has never been issued by this scene.
// Once the id space is used up it returns NullEntity.
func (s *Scene) CreateEntity() Entity {
	if s.nextEntity == NullEntity {
		if !s.exhausted {
			s.exhausted = true
			s.logger.Printf("ecs: entity ids exhausted after %d entities", uint64(NullEntity))
		}
		return NullEntity
	}

	e := s.nextEntity
	s.nextEntity++
	s.entities = append(s.entities, e)
	return e
}

// Spawn creates an entity and attaches components to it. Component types must be
// registered; unknown or duplicate components are dropped.
func (s *Scene) Spawn(components ...any) Entity {
	e := s.CreateEntity()
	for _, c := range components {
		s.components.Add(e, c)
	}
	return e
}

// IsAlive reports whether e was created by this scene and not yet destroyed.
func (s *Scene) IsAlive(e Entity) bool {
	_, found := slices.BinarySearch(s.entities, e)
	return found
}

// DestroyEntity removes every component of e, freeing its transform slot, and
// retires the id. It reports false if e is not alive.
func (s *Scene) DestroyEntity(e Entity) bool {
	i, found := slices.BinarySearch(s.entities, e)
	if !found {
		return false
	}
	s.components.RemoveAllComponents(e)
	s.entities = slices.Delete(s.entities, i, i+1)
	return true
}

// GetAllEntities returns the live entities in creation order.
func (s *Scene) GetAllEntities() []Entity {
	return slices.Clone(s.entities)
}

// EntityCount returns the number of live entities.
func (s *Scene) EntityCount() int {
	return len(s.entities)
}

// NewTransform2D allocates a transform slot at (x, y) with no rotation and unit scale.
// The returned component owns the slot once it is attached to an entity; a
// component that is never attached must be given back with ReleaseTransform2D.
func (s *Scene) NewTransform2D(x, y float32) Transform2D {
	return Transform2D{Handle: s.transforms.AllocateAt(x, y)}
}

// NewTransform2DWith allocates a transform slot with every field given.
func (s *Scene) NewTransform2DWith(x, y, rotation, scaleX, scaleY float32) Transform2D {
	return Transform2D{Handle: s.transforms.AllocateWith(x, y, rotation, scaleX, scaleY)}
}

// ReleaseTransform2D frees the slot of a transform that was never attached.
// It reports false for a stale or attached transform.
func (s *Scene) ReleaseTransform2D(t Transform2D) bool {
	if s.transforms.Owner(t.Handle.Slot) != NullEntity {
		return false
	}
	return s.transforms.Free(t.Handle)
}

// Transform returns an accessor for e's transform. The accessor is invalid when
// e has no Transform2D.
func (s *Scene) Transform(e Entity) TransformRef {
	t := GetComponent[Transform2D](s, e)
	if t == nil {
		return TransformRef{}
	}
	return t.Ref(s.transforms)
}

// Translate moves e by (dx, dy). It reports false if e has no live transform.
func (s *Scene) Translate(e Entity, dx, dy float32) bool {
	return s.Transform(e).Translate(dx, dy)
}

// AddSystem initializes system and appends it to the update order.
func (s *Scene) AddSystem(system System) {
	s.scheduler.Register(system)
}

// Systems returns the registered systems in update order.
func (s *Scene) Systems() []System {
	return s.scheduler.Systems()
}

// Update runs one frame: every bound Query is executed, every system is
// updated in registration order and the queued commands are flushed.
func (s *Scene) Update(dt float64) {
	for _, q := range s.queries {
		q.Execute()
	}
	s.scheduler.Once(dt)
}

// Run calls Update at the given interval until the context is cancelled.
func (s *Scene) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Update(dt)
		}
	}
}

// Shutdown shuts every system down in reverse registration order. Later calls do nothing.
func (s *Scene) Shutdown() {
	s.scheduler.Shutdown()
}

// SchedulerStats returns execution statistics for the scene's systems.
func (s *Scene) SchedulerStats() *SchedulerStats {
	return s.scheduler.GetStats()
}
