package ecs

// Commands provides a buffer for deferred ECS operations that are executed at the end of a frame.
// This keeps entity and component sets stable while systems iterate them.
type Commands struct {
	spawns   []spawnCommand
	destroys []Entity
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []deferCommand
}

func newCommands() *Commands {
	return &Commands{}
}

type deferCommand struct {
	fn func()
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity Entity
	kind   Kind
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, deferCommand{fn: fn})
}

// Spawn queues the creation of an entity with the given components.
// Component types must be registered.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity Entity) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component addition. The component's type must be registered.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues the removal of the entity's component of kind.
func (c *Commands) RemoveComponent(entity Entity, kind Kind) {
	c.removes = append(c.removes, removeComponentCommand{
		entity: entity,
		kind:   kind,
	})
}

// Len returns the number of queued operations.
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.destroys) + len(c.adds) + len(c.removes) + len(c.defers)
}

// maxFlushPasses bounds how often Flush reruns for commands queued while it runs.
const maxFlushPasses = 16

// Flush applies every queued operation to scene, resetting the buffer state.
// Destroys run first; removes and adds aimed at an entity destroyed in the same
// pass are dropped, the dropped components going through their discard hook.
// Commands queued during the flush, typically by a deferred function, are
// applied in a further pass.
func (c *Commands) Flush(scene *Scene) {
	for pass := 0; c.Len() > 0; pass++ {
		if pass == maxFlushPasses {
			scene.logger.Printf("ecs: dropping %d commands still queued after %d flush passes", c.Len(), maxFlushPasses)
			c.reset()
			return
		}
		c.flushPass(scene)
	}
}

func (c *Commands) flushPass(scene *Scene) {
	spawns, destroys, adds, removes, defers := c.spawns, c.destroys, c.adds, c.removes, c.defers
	c.spawns, c.destroys, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil

	destroyed := make(map[Entity]bool, len(destroys))

	for _, entity := range destroys {
		scene.DestroyEntity(entity)
		destroyed[entity] = true
	}

	for _, cmd := range removes {
		if destroyed[cmd.entity] {
			continue
		}
		scene.components.Remove(cmd.kind, cmd.entity)
	}

	for _, cmd := range adds {
		if destroyed[cmd.entity] {
			scene.logger.Printf("ecs: dropping %T queued for destroyed entity %d", cmd.component, cmd.entity)
			scene.components.discardComponent(cmd.entity, cmd.component)
			continue
		}
		scene.components.Add(cmd.entity, cmd.component)
	}

	for _, cmd := range spawns {
		scene.Spawn(cmd.components...)
	}

	for _, df := range defers {
		df.fn()
	}

	// Keep the backing arrays when nothing new was queued
	if c.Len() == 0 {
		clear(spawns)
		clear(adds)
		clear(defers)
		c.spawns = spawns[:0]
		c.destroys = destroys[:0]
		c.adds = adds[:0]
		c.removes = removes[:0]
		c.defers = defers[:0]
	}
}

func (c *Commands) reset() {
	clear(c.spawns)
	clear(c.adds)
	clear(c.defers)
	c.spawns = c.spawns[:0]
	c.destroys = c.destroys[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
