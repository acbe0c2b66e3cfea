package ecs

import (
	"io"
	"log"
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

// ComponentHost is anything the generic component functions can operate on.
// Both *Scene and *ComponentManager satisfy it.
type ComponentHost interface {
	componentManager() *ComponentManager
}

// ComponentManager stores, for every kind, a map from entity to the component of
// that kind, plus a reverse index from entity to the kinds it currently holds.
// An entity appears in the reverse index iff it has at least one component.
type ComponentManager struct {
	registry    *ComponentRegistry
	stores      []iComponentStorage
	entityKinds *intmap.Map[Entity, []Kind]
	admit       func(Entity) bool
	logger      *log.Logger
}

// NewComponentManager creates a manager whose kinds come from registry.
// A nil registry gets a fresh one.
func NewComponentManager(registry *ComponentRegistry) *ComponentManager {
	if registry == nil {
		registry = NewComponentRegistry()
	}
	return &ComponentManager{
		registry:    registry,
		entityKinds: intmap.New[Entity, []Kind](256),
		logger:      log.New(io.Discard, "", 0),
	}
}

func (cm *ComponentManager) componentManager() *ComponentManager {
	return cm
}

// Registry returns the registry kinds are resolved against.
func (cm *ComponentManager) Registry() *ComponentRegistry {
	return cm.registry
}

func (cm *ComponentManager) admits(entity Entity) bool {
	if !entity.IsValid() {
		return false
	}
	return cm.admit == nil || cm.admit(entity)
}

// storage returns the store for kind, creating it when create is set.
func (cm *ComponentManager) storage(kind Kind, create bool) iComponentStorage {
	if int(kind) < len(cm.stores) && cm.stores[kind] != nil {
		return cm.stores[kind]
	}
	if !create {
		return nil
	}
	store := cm.registry.newStorage(kind)
	if store == nil {
		return nil
	}
	if int(kind) >= len(cm.stores) {
		cm.stores = append(cm.stores, make([]iComponentStorage, int(kind)+1-len(cm.stores))...)
	}
	cm.stores[kind] = store
	return store
}

func typedStorage[T any](cm *ComponentManager, create bool) (*genericComponentStorage[T], Kind) {
	var kind Kind
	if create {
		kind = RegisterComponent[T](cm.registry)
	} else {
		var ok bool
		kind, ok = cm.registry.KindOfType(reflect.TypeFor[T]())
		if !ok {
			return nil, InvalidKind
		}
	}
	store := cm.storage(kind, create)
	if store == nil {
		return nil, kind
	}
	return store.(*genericComponentStorage[T]), kind
}

func (cm *ComponentManager) indexKind(entity Entity, kind Kind) {
	kinds, _ := cm.entityKinds.Get(entity)
	cm.entityKinds.Put(entity, append(kinds, kind))
}

func (cm *ComponentManager) unindexKind(entity Entity, kind Kind) {
	kinds, ok := cm.entityKinds.Get(entity)
	if !ok {
		return
	}
	if i := slices.Index(kinds, kind); i >= 0 {
		kinds = slices.Delete(kinds, i, i+1)
	}
	if len(kinds) == 0 {
		cm.entityKinds.Del(entity)
		return
	}
	cm.entityKinds.Put(entity, kinds)
}

// AddComponent attaches component to entity unless the entity already has one of kind T.
// A rejected component is passed to the kind's discard hook and nothing else changes.
func AddComponent[T any](h ComponentHost, entity Entity, component T) bool {
	cm := h.componentManager()
	store, kind := typedStorage[T](cm, true)

	if !cm.admits(entity) {
		store.discard(entity, &component)
		return false
	}

	if store.Has(entity) {
		cm.logger.Printf("ecs: entity %d already has a %s component", entity, cm.registry.Name(kind))
	}
	if !store.put(entity, component) {
		return false
	}

	cm.indexKind(entity, kind)
	return true
}

// GetComponent returns the entity's component of kind T, or nil.
func GetComponent[T any](h ComponentHost, entity Entity) *T {
	store, _ := typedStorage[T](h.componentManager(), false)
	if store == nil {
		return nil
	}
	return store.get(entity)
}

// HasComponent reports whether entity has a component of kind T.
func HasComponent[T any](h ComponentHost, entity Entity) bool {
	store, _ := typedStorage[T](h.componentManager(), false)
	return store != nil && store.Has(entity)
}

// RemoveComponent detaches and discards the entity's component of kind T.
func RemoveComponent[T any](h ComponentHost, entity Entity) bool {
	cm := h.componentManager()
	store, kind := typedStorage[T](cm, false)
	if store == nil || !store.Delete(entity) {
		return false
	}
	cm.unindexKind(entity, kind)
	return true
}

// GetEntitiesWithComponent returns every entity holding a component of kind T.
// The order is unspecified.
func GetEntitiesWithComponent[T any](h ComponentHost) []Entity {
	store, _ := typedStorage[T](h.componentManager(), false)
	if store == nil {
		return nil
	}
	return store.AppendEntities(make([]Entity, 0, store.Len()))
}

// Each calls fn for every component of kind T until fn returns false.
// fn must not add or remove components of kind T.
func Each[T any](h ComponentHost, fn func(Entity, *T) bool) {
	store, _ := typedStorage[T](h.componentManager(), false)
	if store == nil {
		return
	}
	store.each(fn)
}

// CountComponents returns the number of entities holding a component of kind T.
func CountComponents[T any](h ComponentHost) int {
	store, _ := typedStorage[T](h.componentManager(), false)
	if store == nil {
		return 0
	}
	return store.Len()
}

// OnDiscard installs fn as the hook called whenever a component of kind T leaves
// the manager: removal, entity destruction, Clear, or rejection by AddComponent.
// On removal the component is no longer stored when fn runs.
func OnDiscard[T any](h ComponentHost, fn func(Entity, *T)) {
	store, _ := typedStorage[T](h.componentManager(), true)
	store.onDiscard = fn
}

// OnAttach installs fn as a check run before a component of kind T is stored.
// When fn returns false the add is rejected and the component is discarded.
func OnAttach[T any](h ComponentHost, fn func(Entity, *T) bool) {
	store, _ := typedStorage[T](h.componentManager(), true)
	store.onAttach = fn
}

// Add attaches a component whose kind is resolved from its dynamic type.
// The type must already be registered.
func (cm *ComponentManager) Add(entity Entity, component any) bool {
	kind, ok := cm.registry.KindOfType(reflect.TypeOf(component))
	if !ok {
		cm.logger.Printf("ecs: component type %T is not registered", component)
		return false
	}
	store := cm.storage(kind, true)

	if !cm.admits(entity) {
		store.Reject(entity, component)
		return false
	}
	if store.Has(entity) {
		cm.logger.Printf("ecs: entity %d already has a %s component", entity, cm.registry.Name(kind))
	}
	if !store.Put(entity, component) {
		return false
	}
	cm.indexKind(entity, kind)
	return true
}

// discardComponent hands a component that will never be stored to its kind's discard hook.
func (cm *ComponentManager) discardComponent(entity Entity, component any) {
	kind, ok := cm.registry.KindOfType(reflect.TypeOf(component))
	if !ok {
		return
	}
	if store := cm.storage(kind, true); store != nil {
		store.Reject(entity, component)
	}
}

// Get returns a pointer to the entity's component of kind, or nil.
func (cm *ComponentManager) Get(kind Kind, entity Entity) any {
	store := cm.storage(kind, false)
	if store == nil {
		return nil
	}
	return store.Get(entity)
}

// Has reports whether entity has a component of kind.
func (cm *ComponentManager) Has(kind Kind, entity Entity) bool {
	store := cm.storage(kind, false)
	return store != nil && store.Has(entity)
}

// Remove detaches and discards the entity's component of kind.
func (cm *ComponentManager) Remove(kind Kind, entity Entity) bool {
	store := cm.storage(kind, false)
	if store == nil || !store.Delete(entity) {
		return false
	}
	cm.unindexKind(entity, kind)
	return true
}

// RemoveAllComponents discards every component of entity and drops its reverse index entry.
func (cm *ComponentManager) RemoveAllComponents(entity Entity) {
	kinds, ok := cm.entityKinds.Get(entity)
	if !ok {
		return
	}

	for _, kind := range kinds {
		if store := cm.storage(kind, false); store != nil {
			store.Delete(entity)
		}
	}

	cm.entityKinds.Del(entity)
}

// KindsOf returns the kinds attached to entity in attachment order.
func (cm *ComponentManager) KindsOf(entity Entity) []Kind {
	kinds, _ := cm.entityKinds.Get(entity)
	return slices.Clone(kinds)
}

// HasAny reports whether entity has at least one component.
func (cm *ComponentManager) HasAny(entity Entity) bool {
	return cm.entityKinds.Has(entity)
}

// EntitiesWith returns every entity holding a component of kind, in unspecified order.
func (cm *ComponentManager) EntitiesWith(kind Kind) []Entity {
	store := cm.storage(kind, false)
	if store == nil {
		return nil
	}
	return store.AppendEntities(make([]Entity, 0, store.Len()))
}

// Count returns the number of entities holding a component of kind.
func (cm *ComponentManager) Count(kind Kind) int {
	store := cm.storage(kind, false)
	if store == nil {
		return 0
	}
	return store.Len()
}

// EntityCount returns the number of entities with at least one component.
func (cm *ComponentManager) EntityCount() int {
	return cm.entityKinds.Len()
}

// Clear discards every component of every kind.
func (cm *ComponentManager) Clear() {
	for _, store := range cm.stores {
		if store != nil {
			store.Clear()
		}
	}
	cm.entityKinds.Clear()
}
