package demo_test

import (
	"testing"

	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/internal/demo"
	"github.com/plus3/scene2d/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLayout(t *testing.T) {
	scene := ecs.NewScene(nil)
	rects := demo.Build(scene, demo.Config{Sprites: 4, Seed: 1})
	require.Len(t, rects, 6)

	x, y := scene.Transform(rects[0]).Position()
	assert.Equal(t, float32(400), x)
	assert.Equal(t, float32(300), y)

	rect := ecs.GetComponent[ecs.RoundedRect2D](scene, rects[0])
	require.NotNil(t, rect)
	assert.Equal(t, float32(200), rect.Width)
	assert.Equal(t, float32(20), rect.CornerRadius)

	assert.Equal(t, 10, scene.EntityCount())
	assert.Equal(t, 4, ecs.CountComponents[ecs.Sprite2D](scene))

	cmds := render.Collect(scene, nil)
	require.Len(t, cmds, 10)
	// Sprites sit on layer 1, above every rect
	for _, cmd := range cmds[:6] {
		assert.Equal(t, render.ShapeRoundedRect, cmd.Shape)
	}
	for _, cmd := range cmds[6:] {
		assert.Equal(t, render.ShapeSprite, cmd.Shape)
		assert.Equal(t, uint32(demo.SpriteTexture), cmd.TextureID)
	}
}

func TestBounceKeepsSpritesInside(t *testing.T) {
	scene := ecs.NewScene(nil)
	demo.Build(scene, demo.Config{Sprites: 20, Seed: 3})

	for range 600 {
		scene.Update(1.0 / 60.0)
	}

	// One frame of travel past an edge is allowed before the bounce
	const slack = 130.0 / 60.0
	ecs.Each(scene, func(e ecs.Entity, _ *demo.Velocity) bool {
		x, y := scene.Transform(e).Position()
		assert.GreaterOrEqual(t, x, float32(-slack))
		assert.LessOrEqual(t, x, float32(demo.Width+slack))
		assert.GreaterOrEqual(t, y, float32(-slack))
		assert.LessOrEqual(t, y, float32(demo.Height+slack))
		return true
	})
}

func TestSpinRects(t *testing.T) {
	scene := ecs.NewScene(nil)
	rects := demo.Build(scene, demo.Config{SpinRects: true})

	scene.Update(0.5)
	assert.InDelta(t, 0.4, scene.Transform(rects[5]).Rotation(), 1e-5)
	assert.Zero(t, scene.Transform(rects[0]).Rotation())
}

func TestPauseFreezesMotion(t *testing.T) {
	scene := ecs.NewScene(nil)
	demo.Build(scene, demo.Config{Sprites: 3, Seed: 5, SpinRects: true})
	ecs.GetResource[demo.Settings](scene).Paused = true

	before := render.Collect(scene, nil)
	scene.Update(1)
	assert.Equal(t, before, render.Collect(scene, nil))

	ecs.GetResource[demo.Settings](scene).Paused = false
	scene.Update(1)
	assert.NotEqual(t, before, render.Collect(scene, nil))
}

func TestAddAndRemoveSprites(t *testing.T) {
	scene := ecs.NewScene(nil)
	rects := demo.Build(scene, demo.Config{Sprites: 2})

	added := demo.AddSprites(scene, 5)
	assert.Len(t, added, 5)
	assert.Equal(t, 7, ecs.CountComponents[ecs.Sprite2D](scene))
	liveSlots := scene.CollectStats().LiveTransformSlots

	assert.Equal(t, 7, demo.RemoveSprites(scene))
	assert.Zero(t, ecs.CountComponents[ecs.Sprite2D](scene))
	assert.Equal(t, liveSlots-7, scene.CollectStats().LiveTransformSlots)
	for _, e := range rects {
		assert.True(t, scene.IsAlive(e))
	}

	assert.Nil(t, demo.AddSprites(ecs.NewScene(nil), 3))
}

func TestAddSpritesStopsWhenIDsRunOut(t *testing.T) {
	scene := ecs.NewScene(nil, ecs.WithFirstEntity(ecs.NullEntity-8))
	demo.Build(scene, demo.Config{})

	added := demo.AddSprites(scene, 5)
	assert.Len(t, added, 2)
	assert.Equal(t, 8, scene.EntityCount())
}
