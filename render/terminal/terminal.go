// Package terminal rasterizes render draw lists into a tcell screen, one world
// sample per character cell.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/render"
)

// SpriteGlyph is drawn for every cell covered by a sprite; terminals have no textures.
const SpriteGlyph = '▓'

// Renderer maps world units to cells. Cell (0, 0) covers the world box starting
// at (OriginX, OriginY) and spanning CellWidth by CellHeight.
type Renderer struct {
	CellWidth, CellHeight float32
	OriginX, OriginY      float32
	Background            ecs.RGBA

	cmds []render.DrawCmd
}

// NewRenderer creates a renderer with the given cell size in world units.
// Terminal cells are roughly twice as tall as wide, so a square world usually
// wants cellHeight = 2 * cellWidth.
func NewRenderer(cellWidth, cellHeight float32) *Renderer {
	return &Renderer{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Background: ecs.RGBA{A: 1},
	}
}

// Draw clears screen and rasterizes the scene's draw list onto it. The caller
// shows the screen.
func (r *Renderer) Draw(screen tcell.Screen, scene *ecs.Scene) {
	r.cmds = render.Collect(scene, r.cmds)
	r.DrawList(screen, r.cmds)
}

// DrawList clears screen and rasterizes cmds in order.
func (r *Renderer) DrawList(screen tcell.Screen, cmds []render.DrawCmd) {
	width, height := screen.Size()
	background := r.style(r.Background)
	for y := range height {
		for x := range width {
			screen.SetContent(x, y, ' ', nil, background)
		}
	}

	if r.CellWidth <= 0 || r.CellHeight <= 0 {
		return
	}

	for i := range cmds {
		r.drawCmd(screen, width, height, &cmds[i])
	}
}

func (r *Renderer) drawCmd(screen tcell.Screen, width, height int, cmd *render.DrawCmd) {
	if cmd.Color.A <= 0 {
		return
	}

	minX, minY, maxX, maxY := cmd.WorldBounds()
	x0 := max(0, int(math.Floor(float64((minX-r.OriginX)/r.CellWidth))))
	y0 := max(0, int(math.Floor(float64((minY-r.OriginY)/r.CellHeight))))
	x1 := min(width-1, int(math.Ceil(float64((maxX-r.OriginX)/r.CellWidth))))
	y1 := min(height-1, int(math.Ceil(float64((maxY-r.OriginY)/r.CellHeight))))

	for cy := y0; cy <= y1; cy++ {
		wy := r.OriginY + (float32(cy)+0.5)*r.CellHeight
		for cx := x0; cx <= x1; cx++ {
			wx := r.OriginX + (float32(cx)+0.5)*r.CellWidth
			if !cmd.Contains(wx, wy) {
				continue
			}

			if cmd.Shape == render.ShapeSprite {
				// Keep whatever background is already in the cell
				_, _, under, _ := screen.GetContent(cx, cy)
				screen.SetContent(cx, cy, SpriteGlyph, nil, under.Foreground(r.color(cmd.Color)))
				continue
			}
			screen.SetContent(cx, cy, ' ', nil, r.style(cmd.Color))
		}
	}
}

// CellStyle returns the style a rect of color c leaves in its cells.
func (r *Renderer) CellStyle(c ecs.RGBA) tcell.Style {
	return r.style(c)
}

// SpriteColor returns the glyph color a sprite tinted c is drawn with.
func (r *Renderer) SpriteColor(c ecs.RGBA) tcell.Color {
	return r.color(c)
}

func (r *Renderer) style(c ecs.RGBA) tcell.Style {
	return tcell.StyleDefault.Background(r.color(c))
}

// color blends c over the background, since cells cannot be translucent.
func (r *Renderer) color(c ecs.RGBA) tcell.Color {
	a := min(max(c.A, 0), 1)
	blend := func(fg, bg float32) int32 {
		v := fg*a + bg*(1-a)
		return int32(min(max(v, 0), 1)*255 + 0.5)
	}
	return tcell.NewRGBColor(
		blend(c.R, r.Background.R),
		blend(c.G, r.Background.G),
		blend(c.B, r.Background.B),
	)
}
