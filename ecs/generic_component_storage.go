package ecs

import (
	"fmt"
	"math"
	"reflect"

	"github.com/kamstrup/intmap"
)

// Kind is the stable tag identifying one component type within a ComponentRegistry.
type Kind uint16

// InvalidKind is returned for types that have no registered kind.
const InvalidKind Kind = math.MaxUint16

const defaultStorageCapacity = 64

// ComponentRegistry assigns kinds to component types.
// A registry may be shared by several scenes; each Scene builds its own stores from it.
type ComponentRegistry struct {
	kinds     map[reflect.Type]Kind
	types     []reflect.Type
	factories []func() iComponentStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		kinds: make(map[reflect.Type]Kind),
	}
}

// RegisterComponent registers T with the registry and returns its kind.
// Registering an already known type returns the existing kind.
func RegisterComponent[T any](r *ComponentRegistry) Kind {
	t := reflect.TypeFor[T]()
	if kind, ok := r.kinds[t]; ok {
		return kind
	}

	// Components are values; reference kinds would alias storage between entities
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	if len(r.types) >= int(InvalidKind) {
		panic(fmt.Sprintf("cannot register component %s: maximum number of kinds (%d) reached", t, InvalidKind))
	}

	kind := Kind(len(r.types))
	r.kinds[t] = kind
	r.types = append(r.types, t)
	r.factories = append(r.factories, func() iComponentStorage {
		return newGenericComponentStorage[T](defaultStorageCapacity)
	})
	return kind
}

// KindOf returns the kind of T, registering T if needed.
func KindOf[T any](r *ComponentRegistry) Kind {
	return RegisterComponent[T](r)
}

// KindOfType returns the kind registered for t. Pointer types resolve to their element type.
func (r *ComponentRegistry) KindOfType(t reflect.Type) (Kind, bool) {
	if t == nil {
		return InvalidKind, false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	kind, ok := r.kinds[t]
	if !ok {
		return InvalidKind, false
	}
	return kind, true
}

// Type returns the Go type for kind, or nil if the kind is unknown.
func (r *ComponentRegistry) Type(kind Kind) reflect.Type {
	if int(kind) >= len(r.types) {
		return nil
	}
	return r.types[kind]
}

// Name returns a readable name for kind.
func (r *ComponentRegistry) Name(kind Kind) string {
	t := r.Type(kind)
	if t == nil {
		return fmt.Sprintf("Kind(%d)", kind)
	}
	return t.String()
}

// Kinds returns every registered kind in registration order.
func (r *ComponentRegistry) Kinds() []Kind {
	kinds := make([]Kind, len(r.types))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Len returns the number of registered kinds.
func (r *ComponentRegistry) Len() int {
	return len(r.types)
}

func (r *ComponentRegistry) newStorage(kind Kind) iComponentStorage {
	if int(kind) >= len(r.factories) {
		return nil
	}
	return r.factories[kind]()
}

// genericComponentStorage keeps the components of one kind keyed by entity.
// Each component lives behind its own pointer, so pointers handed out stay put
// until the component is removed.
type genericComponentStorage[T any] struct {
	items     *intmap.Map[Entity, *T]
	onAttach  func(Entity, *T) bool
	onDiscard func(Entity, *T)
}

func newGenericComponentStorage[T any](capacity int) *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		items: intmap.New[Entity, *T](capacity),
	}
}

func (cs *genericComponentStorage[T]) discard(entity Entity, item *T) {
	if cs.onDiscard != nil {
		cs.onDiscard(entity, item)
	}
}

// put inserts item for entity. A duplicate, or an item the attach hook refuses,
// is handed to the discard hook and rejected.
func (cs *genericComponentStorage[T]) put(entity Entity, item T) bool {
	if cs.items.Has(entity) || (cs.onAttach != nil && !cs.onAttach(entity, &item)) {
		cs.discard(entity, &item)
		return false
	}
	cs.items.Put(entity, &item)
	return true
}

// Put adds a component given as T or *T.
func (cs *genericComponentStorage[T]) Put(entity Entity, item any) bool {
	switch v := item.(type) {
	case T:
		return cs.put(entity, v)
	case *T:
		if v == nil {
			return false
		}
		return cs.put(entity, *v)
	default:
		return false
	}
}

// Reject hands an item that will not be stored to the discard hook.
func (cs *genericComponentStorage[T]) Reject(entity Entity, item any) {
	switch v := item.(type) {
	case T:
		cs.discard(entity, &v)
	case *T:
		if v != nil {
			cs.discard(entity, v)
		}
	}
}

func (cs *genericComponentStorage[T]) get(entity Entity) *T {
	item, ok := cs.items.Get(entity)
	if !ok {
		return nil
	}
	return item
}

// Get returns a *T for entity, or an untyped nil.
func (cs *genericComponentStorage[T]) Get(entity Entity) any {
	item := cs.get(entity)
	if item == nil {
		return nil
	}
	return item
}

func (cs *genericComponentStorage[T]) Has(entity Entity) bool {
	return cs.items.Has(entity)
}

// Delete removes the component for entity and hands it to the discard hook.
func (cs *genericComponentStorage[T]) Delete(entity Entity) bool {
	item, ok := cs.items.Get(entity)
	if !ok {
		return false
	}
	cs.items.Del(entity)
	cs.discard(entity, item)
	return true
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.items.Len()
}

func (cs *genericComponentStorage[T]) AppendEntities(dst []Entity) []Entity {
	cs.items.ForEach(func(entity Entity, _ *T) bool {
		dst = append(dst, entity)
		return true
	})
	return dst
}

func (cs *genericComponentStorage[T]) EachEntity(fn func(Entity) bool) {
	cs.items.ForEach(func(entity Entity, _ *T) bool {
		return fn(entity)
	})
}

func (cs *genericComponentStorage[T]) each(fn func(Entity, *T) bool) {
	cs.items.ForEach(fn)
}

// Clear discards every component in the store. The store is already empty when
// the discard hook runs, as it is for Delete.
func (cs *genericComponentStorage[T]) Clear() {
	if cs.onDiscard == nil {
		cs.items.Clear()
		return
	}

	entities := make([]Entity, 0, cs.items.Len())
	items := make([]*T, 0, cs.items.Len())
	cs.items.ForEach(func(entity Entity, item *T) bool {
		entities = append(entities, entity)
		items = append(items, item)
		return true
	})
	cs.items.Clear()

	for i, entity := range entities {
		cs.onDiscard(entity, items[i])
	}
}
