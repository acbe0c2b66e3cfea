package ecs

//go:generate go run ../cmd/kindgen -pkg . -out zz_generated_kinds.go -func registerBuiltinComponents

// Sprite2D describes a textured quad. A texture is named either by path or by
// an id assigned by the renderer; setting one clears the other.
//
//ecs:component
type Sprite2D struct {
	TexturePath string
	TextureID   uint32

	// Source rectangle in texture pixels. All zeros selects the whole texture.
	SrcX, SrcY, SrcWidth, SrcHeight float32

	// Display size in world units. Zero falls back to the source size.
	Width, Height float32

	// Pivot in [0,1] relative to the sprite bounds; (0.5, 0.5) is the center.
	PivotX, PivotY float32

	FlipX, FlipY bool
}

// NewSprite2D returns a centered sprite drawn from the texture at path.
func NewSprite2D(path string) Sprite2D {
	return Sprite2D{TexturePath: path, PivotX: 0.5, PivotY: 0.5}
}

// NewSprite2DTexture returns a centered sprite drawn from texture id.
func NewSprite2DTexture(id uint32) Sprite2D {
	return Sprite2D{TextureID: id, PivotX: 0.5, PivotY: 0.5}
}

func (s *Sprite2D) SetTexture(path string) {
	s.TexturePath = path
	s.TextureID = 0
}

func (s *Sprite2D) SetTextureID(id uint32) {
	s.TextureID = id
	s.TexturePath = ""
}

func (s *Sprite2D) SetSourceRect(x, y, w, h float32) {
	s.SrcX, s.SrcY, s.SrcWidth, s.SrcHeight = x, y, w, h
}

func (s *Sprite2D) SetSize(w, h float32) {
	s.Width, s.Height = w, h
}

func (s *Sprite2D) SetPivot(x, y float32) {
	s.PivotX, s.PivotY = x, y
}

func (s *Sprite2D) SetCenterPivot() {
	s.PivotX, s.PivotY = 0.5, 0.5
}

func (s *Sprite2D) SetFlip(horizontal, vertical bool) {
	s.FlipX, s.FlipY = horizontal, vertical
}

// UsesFullTexture reports whether the source rectangle is unset.
func (s *Sprite2D) UsesFullTexture() bool {
	return s.SrcX == 0 && s.SrcY == 0 && s.SrcWidth == 0 && s.SrcHeight == 0
}

// Renderable2D carries draw state shared by every visual kind.
// Higher layers draw on top. Apart from Visible, the zero value draws fully
// opaque and untinted, so Renderable2D{Visible: true} is ready to use.
//
//ecs:component
type Renderable2D struct {
	Visible bool
	Layer   int32

	// Transparency is one minus the opacity.
	Transparency float32

	// The tint channels apply only when Tinted is set; otherwise the tint is white.
	Tinted                     bool
	TintR, TintG, TintB, TintA uint8
}

// NewRenderable2D returns a fully opaque, untinted renderable.
func NewRenderable2D(visible bool, layer int32) Renderable2D {
	return Renderable2D{
		Visible: visible,
		Layer:   layer,
		TintR:   255,
		TintG:   255,
		TintB:   255,
		TintA:   255,
	}
}

func (r *Renderable2D) SetVisible(visible bool) {
	r.Visible = visible
}

func (r *Renderable2D) SetLayer(layer int32) {
	r.Layer = layer
}

// Opacity returns the opacity in [0, 1].
func (r *Renderable2D) Opacity() float32 {
	return 1 - min(max(r.Transparency, 0), 1)
}

// SetOpacity clamps op into [0, 1].
func (r *Renderable2D) SetOpacity(op float32) {
	r.Transparency = 1 - min(max(op, 0), 1)
}

// Tint returns the effective tint, white when none is set.
func (r *Renderable2D) Tint() (red, green, blue, alpha uint8) {
	if !r.Tinted {
		return 255, 255, 255, 255
	}
	return r.TintR, r.TintG, r.TintB, r.TintA
}

// SetTint sets the RGB tint, leaving alpha alone.
func (r *Renderable2D) SetTint(red, green, blue uint8) {
	if !r.Tinted {
		r.TintA = 255
	}
	r.Tinted = true
	r.TintR, r.TintG, r.TintB = red, green, blue
}

func (r *Renderable2D) SetTintRGBA(red, green, blue, alpha uint8) {
	r.Tinted = true
	r.TintR, r.TintG, r.TintB, r.TintA = red, green, blue, alpha
}

// ResetTint restores the white tint.
func (r *Renderable2D) ResetTint() {
	r.Tinted = false
	r.TintR, r.TintG, r.TintB, r.TintA = 255, 255, 255, 255
}

// RGBA is a color with channels in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// White is the default fill color.
var White = RGBA{1, 1, 1, 1}

// RoundedRect2D is a filled rectangle with one corner radius for all corners.
//
//ecs:component
type RoundedRect2D struct {
	Width, Height float32
	CornerRadius  float32
	Color         RGBA
}

// DefaultRoundedRect2D returns a white 100x100 rectangle with radius 10.
func DefaultRoundedRect2D() RoundedRect2D {
	return RoundedRect2D{Width: 100, Height: 100, CornerRadius: 10, Color: White}
}

func NewRoundedRect2D(w, h, radius float32) RoundedRect2D {
	return RoundedRect2D{Width: w, Height: h, CornerRadius: radius, Color: White}
}

func NewRoundedRect2DColor(w, h, radius float32, color RGBA) RoundedRect2D {
	return RoundedRect2D{Width: w, Height: h, CornerRadius: radius, Color: color}
}

func (r *RoundedRect2D) SetSize(w, h float32) {
	r.Width, r.Height = w, h
}

func (r *RoundedRect2D) SetCornerRadius(radius float32) {
	r.CornerRadius = radius
}

func (r *RoundedRect2D) SetColor(red, green, blue, alpha float32) {
	r.Color = RGBA{red, green, blue, alpha}
}
