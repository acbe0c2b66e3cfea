// Package render turns scene components into a renderer-neutral draw list.
// Collect only reads components; backends under render/ draw the list.
package render

import (
	"cmp"
	"slices"

	"github.com/plus3/scene2d/ecs"
)

// Shape selects how a DrawCmd is drawn.
type Shape uint8

const (
	ShapeRoundedRect Shape = iota
	ShapeSprite
)

func (s Shape) String() string {
	switch s {
	case ShapeRoundedRect:
		return "rounded-rect"
	case ShapeSprite:
		return "sprite"
	default:
		return "unknown"
	}
}

// DrawCmd is one draw call. It holds copies of component values only and stays
// valid after the scene changes.
type DrawCmd struct {
	Entity ecs.Entity
	Shape  Shape
	Layer  int32

	// X, Y is the anchor point in world units. The pivot places the anchor
	// inside the shape; rounded rects are always anchored at their center.
	X, Y           float32
	Rotation       float32
	ScaleX, ScaleY float32
	PivotX, PivotY float32

	// Width and Height are unscaled. A sprite of size zero takes its size from
	// the texture region at draw time.
	Width, Height float32

	// Color is the rect fill, or the sprite tint, with opacity folded into alpha.
	Color ecs.RGBA

	CornerRadius float32

	TexturePath                     string
	TextureID                       uint32
	SrcX, SrcY, SrcWidth, SrcHeight float32
	FlipX, FlipY                    bool
}

// Size returns the scaled width and height.
func (c DrawCmd) Size() (float32, float32) {
	return c.Width * abs(c.ScaleX), c.Height * abs(c.ScaleY)
}

// Bounds returns the axis-aligned box covered by the command, ignoring rotation.
func (c DrawCmd) Bounds() (minX, minY, maxX, maxY float32) {
	w, h := c.Size()
	minX = c.X - w*c.PivotX
	minY = c.Y - h*c.PivotY
	return minX, minY, minX + w, minY + h
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Collect appends the draw commands for every entity of scene that has a
// Transform2D to buf[:0] and returns it, ordered by layer and then by entity.
//
// A RoundedRect2D is drawn unless the entity's Renderable2D hides it. A Sprite2D
// is drawn only when the entity also has a visible Renderable2D. A Renderable2D
// with zero opacity hides the entity.
func Collect(scene *ecs.Scene, buf []DrawCmd) []DrawCmd {
	buf = buf[:0]
	transforms := scene.Transforms()

	ecs.Each(scene, func(e ecs.Entity, t *ecs.Transform2D) bool {
		ref := t.Ref(transforms)
		if !ref.Valid() {
			return true
		}

		renderable := ecs.GetComponent[ecs.Renderable2D](scene, e)
		if renderable != nil && (!renderable.Visible || renderable.Opacity() <= 0) {
			return true
		}

		base := DrawCmd{
			Entity:   e,
			Rotation: ref.Rotation(),
			ScaleX:   ref.ScaleX(),
			ScaleY:   ref.ScaleY(),
			Color:    ecs.White,
		}
		base.X, base.Y = ref.Position()
		if renderable != nil {
			base.Layer = renderable.Layer
			base.Color = tint(renderable)
		}

		if rect := ecs.GetComponent[ecs.RoundedRect2D](scene, e); rect != nil {
			cmd := base
			cmd.Shape = ShapeRoundedRect
			cmd.Width, cmd.Height = rect.Width, rect.Height
			cmd.PivotX, cmd.PivotY = 0.5, 0.5
			cmd.CornerRadius = rect.CornerRadius
			cmd.Color = multiply(rect.Color, base.Color)
			buf = append(buf, cmd)
		}

		if sprite := ecs.GetComponent[ecs.Sprite2D](scene, e); sprite != nil && renderable != nil {
			cmd := base
			cmd.Shape = ShapeSprite
			cmd.Width, cmd.Height = sprite.Width, sprite.Height
			if cmd.Width == 0 && cmd.Height == 0 {
				cmd.Width, cmd.Height = sprite.SrcWidth, sprite.SrcHeight
			}
			cmd.PivotX, cmd.PivotY = sprite.PivotX, sprite.PivotY
			cmd.TexturePath = sprite.TexturePath
			cmd.TextureID = sprite.TextureID
			cmd.SrcX, cmd.SrcY = sprite.SrcX, sprite.SrcY
			cmd.SrcWidth, cmd.SrcHeight = sprite.SrcWidth, sprite.SrcHeight
			cmd.FlipX, cmd.FlipY = sprite.FlipX, sprite.FlipY
			buf = append(buf, cmd)
		}
		return true
	})

	// Stable so a rect stays under the sprite of the same entity
	slices.SortStableFunc(buf, func(a, b DrawCmd) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Entity, b.Entity)
	})
	return buf
}

func tint(r *ecs.Renderable2D) ecs.RGBA {
	red, green, blue, alpha := r.Tint()
	return ecs.RGBA{
		R: float32(red) / 255,
		G: float32(green) / 255,
		B: float32(blue) / 255,
		A: float32(alpha) / 255 * r.Opacity(),
	}
}

func multiply(a, b ecs.RGBA) ecs.RGBA {
	return ecs.RGBA{R: a.R * b.R, G: a.G * b.G, B: a.B * b.B, A: a.A * b.A}
}
