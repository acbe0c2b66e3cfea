package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

var entityType = reflect.TypeFor[Entity]()

// iface mirrors the runtime layout of an interface value.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
// A field of type Entity, if present, receives the matched entity
type View[T any] struct {
	components  *ComponentManager
	types       []reflect.Type
	kinds       []Kind
	optional    []bool
	fieldOffset []uintptr

	hasEntity    bool
	entityOffset uintptr
}

// NewView creates a new view for the given struct type
// The struct T should have embedded or named fields that are pointers to component types
// Embedded fields are always required
// Named fields can be marked as optional using the `ecs:"optional"` struct tag
func NewView[T any](h ComponentHost) *View[T] {
	v := &View[T]{}
	v.parse()
	v.components = h.componentManager()
	return v
}

// Init binds the view to scene. Called by the scheduler for View fields of a system.
func (v *View[T]) Init(scene *Scene) {
	if v.types == nil {
		v.parse()
	}
	v.components = scene.components
	for i := range v.kinds {
		v.kinds[i] = InvalidKind
	}
}

func (v *View[T]) parse() {
	structType := reflect.TypeFor[T]()

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v.types = make([]reflect.Type, 0, structType.NumField())
	v.kinds = make([]Kind, 0, structType.NumField())
	v.optional = make([]bool, 0, structType.NumField())
	v.fieldOffset = make([]uintptr, 0, structType.NumField())

	required := 0
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityType {
			if v.hasEntity {
				panic("View struct may have at most one Entity field")
			}
			v.hasEntity = true
			v.entityOffset = field.Offset
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		// Parse struct tag to check if component is optional
		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		if !isOptional {
			required++
		}

		v.types = append(v.types, fieldType.Elem())
		v.kinds = append(v.kinds, InvalidKind)
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}

	if required == 0 {
		panic("View struct needs at least one required component")
	}
}

// resolve looks up kinds for component types registered since the last call.
func (v *View[T]) resolve() {
	for i, kind := range v.kinds {
		if kind != InvalidKind {
			continue
		}
		if k, ok := v.components.registry.KindOfType(v.types[i]); ok {
			v.kinds[i] = k
		}
	}
}

// populate writes the entity's components into the struct at structPtr.
func (v *View[T]) populate(structPtr unsafe.Pointer, entity Entity) bool {
	for i, kind := range v.kinds {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])

		var component any
		if kind != InvalidKind {
			if store := v.components.storage(kind, false); store != nil {
				component = store.Get(entity)
			}
		}

		if component == nil {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// Stores hand out *T boxed in an interface; take the data word directly
		// to avoid reflection in the hot path
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}

	if v.hasEntity {
		*(*Entity)(unsafe.Pointer(uintptr(structPtr) + v.entityOffset)) = entity
	}
	return true
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(entity Entity, ptr *T) bool {
	v.resolve()
	return v.populate(unsafe.Pointer(ptr), entity)
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(entity Entity) *T {
	var result T
	if !v.Fill(entity, &result) {
		return nil
	}
	return &result
}

// driver returns the smallest store among the required kinds, or nil when
// some required kind has no components at all.
func (v *View[T]) driver() iComponentStorage {
	var smallest iComponentStorage
	for i, kind := range v.kinds {
		if v.optional[i] {
			continue
		}
		if kind == InvalidKind {
			return nil
		}
		store := v.components.storage(kind, false)
		if store == nil || store.Len() == 0 {
			return nil
		}
		if smallest == nil || store.Len() < smallest.Len() {
			smallest = store
		}
	}
	return smallest
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (Entity, T) pairs where T is the populated view struct
// Optional components are set to nil if not present
// Components of the required kinds must not be added or removed while iterating; queue such
// changes on the frame's Commands instead
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		v.resolve()
		store := v.driver()
		if store == nil {
			return
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		store.EachEntity(func(entity Entity) bool {
			if !v.populate(resultPtr, entity) {
				return true
			}
			return yield(entity, result)
		})
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
// This is useful when you only care about the component data, not which entity it belongs to
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of entities currently matching the view.
func (v *View[T]) Count() int {
	n := 0
	for range v.Iter() {
		n++
	}
	return n
}
