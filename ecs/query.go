package ecs

import "iter"

// Query wraps a View with a per-frame snapshot of its matches.
// Queries bound to a scene are executed by the scheduler before the first system
// of every frame, so all systems see the entity set as it was at frame start.
type Query[T any] struct {
	view *View[T]

	cachedEntities   []Entity
	cachedComponents []T
	cacheValid       bool
}

type queryExecutor interface {
	Execute()
}

// NewQuery creates a new Query over h. It is not executed automatically.
func NewQuery[T any](h ComponentHost) *Query[T] {
	return &Query[T]{
		view: NewView[T](h),
	}
}

// Init initializes or re-initializes the Query with a scene and enrolls it in the
// scene's per-frame execution. Called by the Scheduler during system registration.
func (q *Query[T]) Init(scene *Scene) {
	q.view = NewView[T](scene)
	q.cacheValid = false
	scene.queries = append(scene.queries, q)
}

// Execute builds the entity and component caches for this frame.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	clear(q.cachedComponents)
	q.cachedComponents = q.cachedComponents[:0]

	for id, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cacheValid = true
}

// Iter returns an iterator over entity IDs and component data.
// Panics if Execute() has not been called.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute() has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Len returns the number of matches captured by the last Execute.
func (q *Query[T]) Len() int {
	return len(q.cachedEntities)
}
