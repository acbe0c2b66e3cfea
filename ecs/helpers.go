package ecs

// CreateEntity2D creates an entity with a Transform2D at (x, y).
func CreateEntity2D(scene *Scene, x, y float32) Entity {
	e := scene.CreateEntity()
	AddComponent(scene, e, scene.NewTransform2D(x, y))
	return e
}

// CreateSpriteEntity creates a visible sprite of size w by h at (x, y) on layer 0.
func CreateSpriteEntity(scene *Scene, path string, x, y, w, h float32) Entity {
	e := CreateEntity2D(scene, x, y)

	sprite := NewSprite2D(path)
	sprite.SetSize(w, h)
	AddComponent(scene, e, sprite)
	AddComponent(scene, e, NewRenderable2D(true, 0))
	return e
}
