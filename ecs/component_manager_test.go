package ecs_test

import (
	"reflect"
	"slices"
	"testing"

	"github.com/plus3/scene2d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKinds(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	pos := ecs.RegisterComponent[Position](registry)
	vel := ecs.RegisterComponent[Velocity](registry)

	assert.Equal(t, ecs.Kind(0), pos)
	assert.Equal(t, ecs.Kind(1), vel)
	assert.Equal(t, pos, ecs.RegisterComponent[Position](registry), "re-registering returns the same kind")
	assert.Equal(t, vel, ecs.KindOf[Velocity](registry))
	assert.Equal(t, 2, registry.Len())
	assert.Equal(t, []ecs.Kind{pos, vel}, registry.Kinds())

	kind, ok := registry.KindOfType(reflect.TypeOf(&Position{}))
	assert.True(t, ok, "pointer types resolve to their element")
	assert.Equal(t, pos, kind)

	_, ok = registry.KindOfType(reflect.TypeOf(Health{}))
	assert.False(t, ok)

	assert.Equal(t, "ecs_test.Position", registry.Name(pos))
	assert.Equal(t, reflect.TypeOf(Velocity{}), registry.Type(vel))
	assert.Nil(t, registry.Type(ecs.Kind(99)))
	assert.Equal(t, "Kind(99)", registry.Name(ecs.Kind(99)))
}

func TestRegistryRejectsReferenceKinds(t *testing.T) {
	registry := ecs.NewComponentRegistry()

	assert.Panics(t, func() { ecs.RegisterComponent[*Position](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[map[string]int](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[func()](registry) })
	assert.Panics(t, func() { ecs.RegisterComponent[any](registry) })
}

func TestAddAndGetComponent(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())

	assert.True(t, ecs.AddComponent(cm, 1, Position{X: 3, Y: 4}))
	assert.True(t, ecs.AddComponent(cm, 1, Name{Value: "Test Entity"}))

	pos := ecs.GetComponent[Position](cm, 1)
	require.NotNil(t, pos)
	assert.Equal(t, Position{X: 3, Y: 4}, *pos)

	assert.True(t, ecs.HasComponent[Name](cm, 1))
	assert.False(t, ecs.HasComponent[Velocity](cm, 1))
	assert.Nil(t, ecs.GetComponent[Velocity](cm, 1))
	assert.Nil(t, ecs.GetComponent[Position](cm, 2))
}

func TestGetComponentReturnsStablePointer(t *testing.T) {
	cm := ecs.NewComponentManager(nil)
	ecs.AddComponent(cm, 7, Health{Current: 10, Max: 10})

	h := ecs.GetComponent[Health](cm, 7)
	h.Current = 3

	// Growing the store must not move existing components
	for e := ecs.Entity(100); e < 1100; e++ {
		ecs.AddComponent(cm, e, Health{})
	}

	assert.Same(t, h, ecs.GetComponent[Health](cm, 7))
	assert.Equal(t, 3, ecs.GetComponent[Health](cm, 7).Current)
}

func TestDuplicateComponentRejected(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())

	assert.True(t, ecs.AddComponent(cm, 1, Position{X: 1, Y: 1}))
	assert.False(t, ecs.AddComponent(cm, 1, Position{X: 9, Y: 9}))

	assert.Equal(t, Position{X: 1, Y: 1}, *ecs.GetComponent[Position](cm, 1))
	assert.Equal(t, 1, ecs.CountComponents[Position](cm))
	assert.Len(t, cm.KindsOf(1), 1)
}

func TestNullEntityIsNeverStored(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())

	assert.False(t, ecs.AddComponent(cm, ecs.NullEntity, Position{}))
	assert.False(t, ecs.HasComponent[Position](cm, ecs.NullEntity))
	assert.Nil(t, ecs.GetComponent[Position](cm, ecs.NullEntity))
	assert.False(t, ecs.RemoveComponent[Position](cm, ecs.NullEntity))
	assert.False(t, cm.HasAny(ecs.NullEntity))
	assert.Equal(t, 0, cm.EntityCount())
}

func TestRemoveComponent(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	ecs.AddComponent(cm, 1, Position{})
	ecs.AddComponent(cm, 1, Velocity{})

	assert.True(t, ecs.RemoveComponent[Position](cm, 1))
	assert.False(t, ecs.RemoveComponent[Position](cm, 1), "second removal reports absence")
	assert.False(t, ecs.HasComponent[Position](cm, 1))
	assert.True(t, ecs.HasComponent[Velocity](cm, 1))

	posKind := ecs.KindOf[Position](cm.Registry())
	velKind := ecs.KindOf[Velocity](cm.Registry())
	assert.Equal(t, []ecs.Kind{velKind}, cm.KindsOf(1))
	assert.NotContains(t, cm.KindsOf(1), posKind)

	assert.True(t, ecs.RemoveComponent[Velocity](cm, 1))
	assert.False(t, cm.HasAny(1), "entity leaves the reverse index with its last component")
	assert.Empty(t, cm.KindsOf(1))
}

func TestRemoveUnknownKind(t *testing.T) {
	cm := ecs.NewComponentManager(ecs.NewComponentRegistry())

	assert.False(t, ecs.RemoveComponent[Health](cm, 1))
	assert.False(t, ecs.HasComponent[Health](cm, 1))
	assert.Zero(t, ecs.CountComponents[Health](cm))
	assert.Nil(t, ecs.GetEntitiesWithComponent[Health](cm))
	assert.Zero(t, cm.Registry().Len(), "read-only lookups do not register kinds")
}

func TestRemoveAllComponents(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	ecs.AddComponent(cm, 1, Position{})
	ecs.AddComponent(cm, 1, Velocity{})
	ecs.AddComponent(cm, 1, Score(5))
	ecs.AddComponent(cm, 2, Position{})

	cm.RemoveAllComponents(1)

	assert.False(t, ecs.HasComponent[Position](cm, 1))
	assert.False(t, ecs.HasComponent[Velocity](cm, 1))
	assert.False(t, ecs.HasComponent[Score](cm, 1))
	assert.False(t, cm.HasAny(1))
	assert.True(t, ecs.HasComponent[Position](cm, 2))
	assert.Equal(t, 1, cm.EntityCount())

	// No-op on an entity without components
	cm.RemoveAllComponents(42)
	assert.Equal(t, 1, cm.EntityCount())
}

func TestGetEntitiesWithComponent(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	for e := ecs.Entity(0); e < 5; e++ {
		ecs.AddComponent(cm, e, Position{X: float32(e)})
		if e%2 == 0 {
			ecs.AddComponent(cm, e, Tag("even"))
		}
	}

	tagged := ecs.GetEntitiesWithComponent[Tag](cm)
	slices.Sort(tagged)
	assert.Equal(t, []ecs.Entity{0, 2, 4}, tagged)
	assert.ElementsMatch(t, []ecs.Entity{0, 1, 2, 3, 4}, ecs.GetEntitiesWithComponent[Position](cm))
	assert.ElementsMatch(t, tagged, cm.EntitiesWith(ecs.KindOf[Tag](cm.Registry())))
}

func TestEachComponent(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	for e := ecs.Entity(0); e < 4; e++ {
		ecs.AddComponent(cm, e, Velocity{DX: 1})
	}

	ecs.Each(cm, func(_ ecs.Entity, v *Velocity) bool {
		v.DX *= 2
		return true
	})

	visited := 0
	ecs.Each(cm, func(_ ecs.Entity, v *Velocity) bool {
		assert.Equal(t, float32(2), v.DX)
		visited++
		return visited < 2
	})
	assert.Equal(t, 2, visited, "returning false stops iteration")
}

func TestReverseIndexMatchesStores(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	registry := cm.Registry()

	ecs.AddComponent(cm, 1, Position{})
	ecs.AddComponent(cm, 1, Health{})
	ecs.AddComponent(cm, 2, Health{})
	ecs.RemoveComponent[Health](cm, 1)
	ecs.AddComponent(cm, 1, Name{})

	for _, e := range []ecs.Entity{1, 2} {
		for _, kind := range registry.Kinds() {
			assert.Equal(t, cm.Has(kind, e), slices.Contains(cm.KindsOf(e), kind),
				"entity %d kind %s", e, registry.Name(kind))
		}
	}
}

func TestTypeErasedAccess(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())
	posKind := ecs.KindOf[Position](cm.Registry())

	assert.True(t, cm.Add(1, Position{X: 2}))
	assert.True(t, cm.Add(1, &Velocity{DX: 3}), "pointers are stored by value")
	assert.False(t, cm.Add(1, Position{X: 5}))
	assert.False(t, cm.Add(1, struct{ Unknown int }{}), "unregistered types are refused")

	got, ok := cm.Get(posKind, 1).(*Position)
	require.True(t, ok)
	assert.Equal(t, float32(2), got.X)
	assert.Equal(t, float32(3), ecs.GetComponent[Velocity](cm, 1).DX)

	assert.True(t, cm.Has(posKind, 1))
	assert.Equal(t, 1, cm.Count(posKind))
	assert.True(t, cm.Remove(posKind, 1))
	assert.Nil(t, cm.Get(posKind, 1))
	assert.False(t, cm.Remove(posKind, 1))
}

func TestDiscardHook(t *testing.T) {
	cm := ecs.NewComponentManager(newTestRegistry())

	var discarded []Name
	ecs.OnDiscard(cm, func(_ ecs.Entity, n *Name) {
		discarded = append(discarded, *n)
	})

	ecs.AddComponent(cm, 1, Name{Value: "kept"})
	ecs.AddComponent(cm, 1, Name{Value: "duplicate"})
	ecs.AddComponent(cm, 2, Name{Value: "removed"})
	ecs.RemoveComponent[Name](cm, 2)
	ecs.AddComponent(cm, 3, Name{Value: "destroyed"})
	cm.RemoveAllComponents(3)

	assert.Equal(t, []Name{{"duplicate"}, {"removed"}, {"destroyed"}}, discarded)

	cm.Clear()
	assert.Equal(t, Name{"kept"}, discarded[len(discarded)-1])
	assert.Zero(t, cm.EntityCount())
	assert.Zero(t, ecs.CountComponents[Name](cm))
}
