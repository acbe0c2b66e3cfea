package ecs_test

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/plus3/scene2d/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntityUnique(t *testing.T) {
	scene := newTestScene()

	seen := make(map[ecs.Entity]bool)
	for i := 0; i < 1000; i++ {
		e := scene.CreateEntity()
		require.True(t, e.IsValid())
		require.NotEqual(t, ecs.NullEntity, e)
		require.False(t, seen[e], "id %d issued twice", e)
		seen[e] = true

		// Destroying must not let an id come back
		if i%3 == 0 {
			scene.DestroyEntity(e)
		}
	}
	assert.Len(t, seen, 1000)
}

func TestEntityValidity(t *testing.T) {
	assert.False(t, ecs.NullEntity.IsValid())
	assert.False(t, ecs.IsValidEntity(ecs.Entity(math.MaxUint32)))
	assert.True(t, ecs.IsValidEntity(0))

	scene := newTestScene()
	e := scene.CreateEntity()
	scene.DestroyEntity(e)
	assert.True(t, e.IsValid(), "validity does not imply liveness")
	assert.False(t, scene.IsAlive(e))
}

func TestDestroyEntityRemovesEverything(t *testing.T) {
	scene := newTestScene()
	e := scene.CreateEntity()
	other := scene.CreateEntity()

	ecs.AddComponent(scene, e, scene.NewTransform2D(1, 2))
	ecs.AddComponent(scene, e, ecs.NewSprite2D("a.png"))
	ecs.AddComponent(scene, e, Health{Current: 1})
	ecs.AddComponent(scene, e, Tag("doomed"))
	ecs.AddComponent(scene, other, Health{Current: 2})

	assert.True(t, scene.DestroyEntity(e))
	assert.False(t, scene.DestroyEntity(e), "destroying twice reports false")

	assert.NotContains(t, scene.GetAllEntities(), e)
	assert.Contains(t, scene.GetAllEntities(), other)
	assert.False(t, ecs.HasComponent[ecs.Transform2D](scene, e))
	assert.False(t, ecs.HasComponent[ecs.Sprite2D](scene, e))
	assert.False(t, ecs.HasComponent[Health](scene, e))
	assert.False(t, ecs.HasComponent[Tag](scene, e))
	assert.False(t, scene.Components().HasAny(e))
	for _, kind := range scene.Registry().Kinds() {
		assert.False(t, scene.Components().Has(kind, e), scene.Registry().Name(kind))
	}
	assert.Equal(t, 2, ecs.GetComponent[Health](scene, other).Current)
}

func TestAddComponentToDeadEntity(t *testing.T) {
	scene := newTestScene()
	e := scene.CreateEntity()
	scene.DestroyEntity(e)

	assert.False(t, ecs.AddComponent(scene, e, Health{}))
	assert.False(t, ecs.AddComponent(scene, ecs.Entity(12345), Health{}), "never issued")
	assert.Zero(t, ecs.CountComponents[Health](scene))

	tr := scene.NewTransform2D(0, 0)
	assert.False(t, ecs.AddComponent(scene, e, tr))
	assert.False(t, scene.Transforms().Valid(tr.Handle), "rejected transform gives its slot back")
}

func TestGetAllEntitiesIsACopy(t *testing.T) {
	scene := newTestScene()
	a := scene.CreateEntity()
	b := scene.CreateEntity()

	all := scene.GetAllEntities()
	assert.Equal(t, []ecs.Entity{a, b}, all)
	all[0] = 99

	assert.Equal(t, []ecs.Entity{a, b}, scene.GetAllEntities())
	assert.Equal(t, 2, scene.EntityCount())
}

func TestSpriteEntityLifecycle(t *testing.T) {
	scene := newTestScene()

	e := scene.CreateEntity()
	require.True(t, ecs.AddComponent(scene, e, scene.NewTransform2D(100, 200)))
	require.True(t, ecs.AddComponent(scene, e, ecs.NewSprite2D("a.png")))
	require.True(t, ecs.AddComponent(scene, e, ecs.NewRenderable2D(true, 1)))

	assert.Contains(t, ecs.GetEntitiesWithComponent[ecs.Transform2D](scene), e)

	assert.True(t, scene.Translate(e, 10, -5))
	x, y := scene.Transform(e).Position()
	assert.Equal(t, float32(110), x)
	assert.Equal(t, float32(195), y)

	handle := ecs.GetComponent[ecs.Transform2D](scene, e).Handle
	scene.DestroyEntity(e)

	assert.NotContains(t, scene.GetAllEntities(), e)
	assert.False(t, ecs.HasComponent[ecs.Transform2D](scene, e))
	assert.False(t, scene.Transforms().Valid(handle), "destroy frees the transform slot")
	assert.Equal(t, 1, scene.Transforms().FreeCount())
	assert.False(t, scene.Translate(e, 1, 1))
}

func TestQueryCorrectness(t *testing.T) {
	scene := newTestScene()
	a := scene.CreateEntity()
	b := scene.CreateEntity()
	c := scene.CreateEntity()

	for _, e := range []ecs.Entity{a, b, c} {
		ecs.AddComponent(scene, e, scene.NewTransform2D(0, 0))
	}
	ecs.AddComponent(scene, a, ecs.NewSprite2D("a.png"))
	ecs.AddComponent(scene, c, ecs.NewSprite2D("c.png"))

	assert.ElementsMatch(t, []ecs.Entity{a, c}, ecs.GetEntitiesWithComponent[ecs.Sprite2D](scene))
	assert.ElementsMatch(t, []ecs.Entity{a, b, c}, ecs.GetEntitiesWithComponent[ecs.Transform2D](scene))
}

func TestTransformSlotOwnership(t *testing.T) {
	scene := newTestScene()
	slots := scene.Transforms()
	e := scene.CreateEntity()

	first := scene.NewTransform2D(1, 1)
	require.True(t, ecs.AddComponent(scene, e, first))

	dup := scene.NewTransform2D(2, 2)
	assert.False(t, ecs.AddComponent(scene, e, dup))
	assert.False(t, slots.Valid(dup.Handle), "duplicate is freed")
	assert.True(t, slots.Valid(first.Handle))
	assert.Equal(t, float32(1), scene.Transform(e).X())

	assert.True(t, ecs.RemoveComponent[ecs.Transform2D](scene, e))
	assert.False(t, slots.Valid(first.Handle), "removal frees the slot")
	assert.Equal(t, 2, slots.FreeCount(), "each slot is freed exactly once")

	unattached := scene.NewTransform2D(0, 0)
	assert.True(t, scene.ReleaseTransform2D(unattached))
	assert.False(t, scene.ReleaseTransform2D(unattached))
	assert.Equal(t, 2, slots.FreeCount())
}

func TestReaddingOwnTransformKeepsSlot(t *testing.T) {
	scene := newTestScene()
	slots := scene.Transforms()
	e := ecs.CreateEntity2D(scene, 7, 9)

	own := *ecs.GetComponent[ecs.Transform2D](scene, e)
	assert.False(t, ecs.AddComponent(scene, e, own))
	assert.False(t, scene.Components().Add(e, own))

	assert.True(t, slots.Valid(own.Handle))
	assert.Equal(t, e, slots.Owner(own.Handle.Slot))
	assert.Equal(t, float32(7), scene.Transform(e).X())
	assert.Zero(t, slots.FreeCount())
}

func TestTransformOfLiveEntityNotFreedByDeadAdd(t *testing.T) {
	scene := newTestScene()
	slots := scene.Transforms()
	b := ecs.CreateEntity2D(scene, 3, 4)
	dead := scene.CreateEntity()
	scene.DestroyEntity(dead)

	owned := *ecs.GetComponent[ecs.Transform2D](scene, b)
	assert.False(t, ecs.AddComponent(scene, dead, owned))

	ref := scene.Transform(b)
	assert.True(t, ref.Valid())
	assert.Equal(t, float32(3), ref.X())
	assert.Zero(t, slots.FreeCount())
}

func TestTransformAttachesToOneEntity(t *testing.T) {
	scene := newTestScene()
	slots := scene.Transforms()
	a := scene.CreateEntity()
	b := scene.CreateEntity()

	shared := scene.NewTransform2D(10, 0)
	require.True(t, ecs.AddComponent(scene, a, shared))
	assert.False(t, ecs.AddComponent(scene, b, shared))
	assert.False(t, ecs.HasComponent[ecs.Transform2D](scene, b))
	assert.Empty(t, scene.Components().KindsOf(b))
	assert.Equal(t, a, slots.Owner(shared.Handle.Slot))

	// b gets its own slot and the two move independently
	require.True(t, ecs.AddComponent(scene, b, scene.NewTransform2D(10, 0)))
	scene.Translate(a, 5, 0)
	assert.Equal(t, float32(15), scene.Transform(a).X())
	assert.Equal(t, float32(10), scene.Transform(b).X())

	scene.DestroyEntity(a)
	assert.True(t, scene.Transform(b).Valid())
	assert.False(t, slots.Valid(shared.Handle))
	assert.False(t, scene.ReleaseTransform2D(*ecs.GetComponent[ecs.Transform2D](scene, b)), "attached transform cannot be released")
}

func TestStaleTransformRejected(t *testing.T) {
	scene := newTestScene()
	slots := scene.Transforms()
	a := ecs.CreateEntity2D(scene, 1, 1)
	stale := *ecs.GetComponent[ecs.Transform2D](scene, a)
	scene.DestroyEntity(a)

	b := ecs.CreateEntity2D(scene, 2, 2)
	c := scene.CreateEntity()
	assert.False(t, ecs.AddComponent(scene, c, stale))
	assert.False(t, ecs.HasComponent[ecs.Transform2D](scene, c))
	assert.Equal(t, float32(2), scene.Transform(b).X(), "recycled slot stays with its new owner")
	assert.Equal(t, b, slots.Owner(stale.Handle.Slot))
}

func TestClearComponentsFreesTransforms(t *testing.T) {
	scene := newTestScene()
	for range 3 {
		ecs.CreateEntity2D(scene, 0, 0)
	}
	scene.Components().Clear()
	assert.Equal(t, 3, scene.Transforms().FreeCount())
}

func TestStaleTransformDoesNotReadNewOwner(t *testing.T) {
	scene := newTestScene()
	a := ecs.CreateEntity2D(scene, 5, 5)
	staleRef := scene.Transform(a)
	scene.DestroyEntity(a)

	b := ecs.CreateEntity2D(scene, 70, 80)
	require.Equal(t, staleRef.Handle().Slot, scene.Transform(b).Handle().Slot, "slot is recycled")

	assert.False(t, staleRef.Valid())
	assert.Zero(t, staleRef.X())
	assert.False(t, staleRef.SetX(1))
	assert.Equal(t, float32(70), scene.Transform(b).X())
}

func TestTransformRef(t *testing.T) {
	scene := newTestScene()
	e := scene.CreateEntity()
	ecs.AddComponent(scene, e, scene.NewTransform2DWith(1, 2, 0, 2, 3))

	ref := scene.Transform(e)
	require.True(t, ref.Valid())
	assert.Equal(t, float32(2), ref.ScaleX())
	assert.Equal(t, float32(3), ref.ScaleY())

	assert.True(t, ref.SetRotationDegrees(90))
	assert.InDelta(t, math.Pi/2, ref.Rotation(), 1e-6)
	assert.InDelta(t, 90, ref.RotationDegrees(), 1e-4)
	assert.True(t, ref.Rotate(math.Pi/2))
	assert.InDelta(t, math.Pi, ref.Rotation(), 1e-6)

	assert.True(t, ref.SetScale(4))
	assert.Equal(t, float32(4), ref.ScaleY())
	assert.True(t, ref.SetScaleXY(1, 0.5))
	assert.Equal(t, float32(0.5), ref.ScaleY())

	assert.True(t, ref.SetPosition(9, 8))
	assert.True(t, ref.SetY(7))
	assert.Equal(t, float32(9), ref.X())
	assert.Equal(t, float32(7), ref.Y())

	none := scene.Transform(scene.CreateEntity())
	assert.False(t, none.Valid())
	assert.Equal(t, float32(1), none.ScaleX())
	assert.Zero(t, none.Rotation())
	assert.False(t, none.Translate(1, 1))
}

func TestCreateSpriteEntity(t *testing.T) {
	scene := newTestScene()
	e := ecs.CreateSpriteEntity(scene, "ship.png", 10, 20, 32, 16)

	x, y := scene.Transform(e).Position()
	assert.Equal(t, float32(10), x)
	assert.Equal(t, float32(20), y)

	sprite := ecs.GetComponent[ecs.Sprite2D](scene, e)
	require.NotNil(t, sprite)
	assert.Equal(t, "ship.png", sprite.TexturePath)
	assert.Equal(t, float32(32), sprite.Width)
	assert.Equal(t, float32(16), sprite.Height)

	r := ecs.GetComponent[ecs.Renderable2D](scene, e)
	require.NotNil(t, r)
	assert.True(t, r.Visible)
	assert.Equal(t, float32(1), r.Opacity())
}

func TestSceneRegistersBuiltinKinds(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	ecs.NewScene(registry)

	for _, name := range []string{"ecs.Transform2D", "ecs.Sprite2D", "ecs.Renderable2D", "ecs.RoundedRect2D"} {
		found := false
		for _, kind := range registry.Kinds() {
			if registry.Name(kind) == name {
				found = true
			}
		}
		assert.True(t, found, name)
	}

	// A shared registry keeps kinds but not components
	a := ecs.NewScene(registry)
	b := ecs.NewScene(registry)
	ecs.CreateEntity2D(a, 0, 0)
	assert.Equal(t, 1, ecs.CountComponents[ecs.Transform2D](a))
	assert.Zero(t, ecs.CountComponents[ecs.Transform2D](b))
}

func TestSpawnTypeErased(t *testing.T) {
	scene := newTestScene()
	e := scene.Spawn(Position{X: 1}, &Health{Current: 3}, struct{ Unregistered bool }{})

	assert.True(t, scene.IsAlive(e))
	assert.True(t, ecs.HasComponent[Position](scene, e))
	assert.Equal(t, 3, ecs.GetComponent[Health](scene, e).Current)
	assert.Len(t, scene.Components().KindsOf(e), 2)
}

func TestSceneLogsAnomalies(t *testing.T) {
	var buf bytes.Buffer
	scene := ecs.NewScene(newTestRegistry(), ecs.WithLogger(log.New(&buf, "", 0)))
	assert.Same(t, scene.Logger(), scene.Logger())

	e := scene.CreateEntity()
	ecs.AddComponent(scene, e, Health{})
	ecs.AddComponent(scene, e, Health{})
	assert.Contains(t, buf.String(), "already has a ecs_test.Health component")

	buf.Reset()
	scene.Spawn(struct{ Unregistered bool }{})
	assert.Contains(t, buf.String(), "is not registered")
}

func TestEntityIDsExhausted(t *testing.T) {
	var buf bytes.Buffer
	scene := ecs.NewScene(newTestRegistry(), ecs.WithFirstEntity(ecs.NullEntity-2), ecs.WithLogger(log.New(&buf, "", 0)))

	assert.Equal(t, ecs.NullEntity-2, scene.CreateEntity())
	assert.Equal(t, ecs.NullEntity-1, scene.CreateEntity())
	assert.Equal(t, ecs.NullEntity, scene.CreateEntity())

	e := ecs.CreateEntity2D(scene, 1, 1)
	assert.Equal(t, ecs.NullEntity, e)
	assert.Equal(t, scene.Transforms().Len(), scene.Transforms().FreeCount(), "rejected transform is freed")
	assert.Equal(t, 2, scene.EntityCount())
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("exhausted")), "logged once")
}
