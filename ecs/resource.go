package ecs

import "reflect"

// Resource provides access to a scene-scoped value that is not attached to any
// entity. Use it for viewport size, backends, configuration and similar
// process-wide state of one scene.
type Resource[T any] struct {
	scene *Scene
	ptr   *T
}

// NewResource returns an accessor for the T resource of scene.
// If initializer is provided and the resource doesn't exist yet, it is created
// with the initializer value. Otherwise, a zero value is used.
// The resource is guaranteed to exist after the call.
func NewResource[T any](scene *Scene, initializer ...T) *Resource[T] {
	ptr := GetResource[T](scene)
	if ptr == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		ptr = SetResource(scene, value)
	}
	return &Resource[T]{scene: scene, ptr: ptr}
}

// SetResource stores value as the T resource of scene, replacing any previous value,
// and returns a pointer to the stored copy.
func SetResource[T any](scene *Scene, value T) *T {
	ptr := &value
	scene.resources[reflect.TypeFor[T]()] = ptr
	return ptr
}

// GetResource returns the T resource of scene, or nil.
func GetResource[T any](scene *Scene) *T {
	v, ok := scene.resources[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return v.(*T)
}

// RemoveResource drops the T resource of scene.
func RemoveResource[T any](scene *Scene) bool {
	t := reflect.TypeFor[T]()
	if _, ok := scene.resources[t]; !ok {
		return false
	}
	delete(scene.resources, t)
	return true
}

// Init binds the accessor to scene.
// This is called automatically by the Scheduler during system registration.
func (r *Resource[T]) Init(scene *Scene) {
	r.scene = scene
	r.ptr = nil
}

// Get returns a pointer to the resource, or nil if it has not been set.
func (r *Resource[T]) Get() *T {
	if r.scene == nil {
		return nil
	}
	// SetResource may have replaced the value since the last call
	r.ptr = GetResource[T](r.scene)
	return r.ptr
}

// Exists returns true if the resource has been set on the scene.
func (r *Resource[T]) Exists() bool {
	return r.Get() != nil
}
