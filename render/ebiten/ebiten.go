// Package ebiten draws render draw lists onto Ebiten images.
package ebiten

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/scene2d/ecs"
	"github.com/plus3/scene2d/render"
)

const cornerSegments = 8

// Renderer draws the visual kinds of a scene. Textures are resolved by id first,
// then by path; paths are loaded from disk on first use and cached.
type Renderer struct {
	// Missing is drawn in place of a texture that cannot be loaded.
	Missing color.Color
	Logger  *log.Logger

	byID   map[uint32]*ebiten.Image
	byPath map[string]*ebiten.Image
	failed map[string]bool

	white *ebiten.Image
	cmds  []render.DrawCmd
	vs    []ebiten.Vertex
	is    []uint16
}

// NewRenderer creates a renderer with an empty texture cache.
func NewRenderer(logger *log.Logger) *Renderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &Renderer{
		Missing: color.RGBA{R: 255, B: 255, A: 255},
		Logger:  logger,
		byID:    make(map[uint32]*ebiten.Image),
		byPath:  make(map[string]*ebiten.Image),
		failed:  make(map[string]bool),
		white:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
	}
}

// SetTexture binds img to a texture id used by Sprite2D.TextureID.
func (r *Renderer) SetTexture(id uint32, img *ebiten.Image) {
	r.byID[id] = img
}

// SetTexturePath preloads img for a Sprite2D.TexturePath.
func (r *Renderer) SetTexturePath(path string, img *ebiten.Image) {
	r.byPath[path] = img
	delete(r.failed, path)
}

func (r *Renderer) texture(cmd *render.DrawCmd) *ebiten.Image {
	if cmd.TextureID != 0 {
		if img, ok := r.byID[cmd.TextureID]; ok {
			return img
		}
	}
	if cmd.TexturePath == "" || r.failed[cmd.TexturePath] {
		return nil
	}
	if img, ok := r.byPath[cmd.TexturePath]; ok {
		return img
	}

	img, _, err := ebitenutil.NewImageFromFile(cmd.TexturePath)
	if err != nil {
		r.failed[cmd.TexturePath] = true
		if r.Logger != nil {
			r.Logger.Printf("render: %v", fmt.Errorf("loading texture %q: %w", cmd.TexturePath, err))
		}
		return nil
	}
	r.byPath[cmd.TexturePath] = img
	return img
}

// Draw collects the draw list of scene and draws it onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, scene *ecs.Scene) {
	r.cmds = render.Collect(scene, r.cmds)
	for i := range r.cmds {
		r.DrawCmd(screen, &r.cmds[i])
	}
}

// DrawCmd draws a single command.
func (r *Renderer) DrawCmd(screen *ebiten.Image, cmd *render.DrawCmd) {
	switch cmd.Shape {
	case render.ShapeRoundedRect:
		r.fillOutline(screen, cmd, toColor(cmd.Color))
	case render.ShapeSprite:
		r.drawSprite(screen, cmd)
	}
}

func (r *Renderer) fillOutline(screen *ebiten.Image, cmd *render.DrawCmd, c color.Color) {
	points := cmd.Outline(cornerSegments)
	if len(points) < 3 {
		return
	}

	var path vector.Path
	path.MoveTo(points[0][0], points[0][1])
	for _, p := range points[1:] {
		path.LineTo(p[0], p[1])
	}
	path.Close()

	r.vs, r.is = path.AppendVerticesAndIndicesForFilling(r.vs[:0], r.is[:0])
	cr, cg, cb, ca := c.RGBA()
	for i := range r.vs {
		r.vs[i].SrcX = 1
		r.vs[i].SrcY = 1
		r.vs[i].ColorR = float32(cr) / 0xffff
		r.vs[i].ColorG = float32(cg) / 0xffff
		r.vs[i].ColorB = float32(cb) / 0xffff
		r.vs[i].ColorA = float32(ca) / 0xffff
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	screen.DrawTriangles(r.vs, r.is, r.white, op)
}

func (r *Renderer) drawSprite(screen *ebiten.Image, cmd *render.DrawCmd) {
	img := r.texture(cmd)
	if img == nil {
		missing := *cmd
		if missing.Width == 0 || missing.Height == 0 {
			missing.Width, missing.Height = 16, 16
		}
		r.fillOutline(screen, &missing, r.Missing)
		return
	}

	if cmd.SrcWidth != 0 || cmd.SrcHeight != 0 {
		x0, y0 := int(cmd.SrcX), int(cmd.SrcY)
		img = img.SubImage(image.Rect(x0, y0, x0+int(cmd.SrcWidth), y0+int(cmd.SrcHeight))).(*ebiten.Image)
	}
	bounds := img.Bounds()
	srcW, srcH := float64(bounds.Dx()), float64(bounds.Dy())
	if srcW == 0 || srcH == 0 {
		return
	}

	w, h := float64(cmd.Width), float64(cmd.Height)
	if w == 0 || h == 0 {
		w, h = srcW, srcH
	}

	op := &ebiten.DrawImageOptions{}
	sx, sy := w/srcW, h/srcH
	if cmd.FlipX {
		sx = -sx
	}
	if cmd.FlipY {
		sy = -sy
	}
	op.GeoM.Scale(sx, sy)
	if cmd.FlipX {
		op.GeoM.Translate(w, 0)
	}
	if cmd.FlipY {
		op.GeoM.Translate(0, h)
	}
	op.GeoM.Translate(-float64(cmd.PivotX)*w, -float64(cmd.PivotY)*h)
	op.GeoM.Scale(float64(cmd.ScaleX), float64(cmd.ScaleY))
	op.GeoM.Rotate(float64(cmd.Rotation))
	op.GeoM.Translate(float64(cmd.X), float64(cmd.Y))

	// Color scales are premultiplied
	a := cmd.Color.A
	op.ColorScale.Scale(cmd.Color.R*a, cmd.Color.G*a, cmd.Color.B*a, a)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func toColor(c ecs.RGBA) color.Color {
	clamp := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	// color.NRGBA is not premultiplied, matching component colors
	return color.NRGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
