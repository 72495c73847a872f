package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Bounds is an axis-aligned rectangle in world pixels.
type Bounds struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// Right returns the x-coordinate of the right edge.
func (b Bounds) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Bounds) Bottom() float64 {
	return b.Y + b.H
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() (float64, float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Image is a textured display-list node positioned by its origin.
// The default origin (0.5, 0.5) places X, Y at the center of the texture.
type Image struct {
	ID      uuid.UUID
	X, Y    float64
	ScaleX  float64
	ScaleY  float64
	OriginX float64
	OriginY float64
	Frame   int
	Visible bool
	Texture *Texture
}

func newImage(x, y float64, tex *Texture) Image {
	return Image{
		ID:      uuid.New(),
		X:       x,
		Y:       y,
		ScaleX:  1,
		ScaleY:  1,
		OriginX: 0.5,
		OriginY: 0.5,
		Visible: true,
		Texture: tex,
	}
}

// SetScale applies a uniform scale.
func (i *Image) SetScale(s float64) *Image {
	i.ScaleX, i.ScaleY = s, s
	return i
}

// SetOrigin moves the anchor point, in fractions of the frame size.
func (i *Image) SetOrigin(x, y float64) *Image {
	i.OriginX, i.OriginY = x, y
	return i
}

// SetPosition moves the image.
func (i *Image) SetPosition(x, y float64) *Image {
	i.X, i.Y = x, y
	return i
}

// Width returns the unscaled frame width.
func (i *Image) Width() float64 {
	w, _ := i.Texture.FrameSize()
	return float64(w)
}

// Height returns the unscaled frame height.
func (i *Image) Height() float64 {
	_, h := i.Texture.FrameSize()
	return float64(h)
}

// DisplayWidth returns the width after scaling.
func (i *Image) DisplayWidth() float64 {
	return i.Width() * math.Abs(i.ScaleX)
}

// DisplayHeight returns the height after scaling.
func (i *Image) DisplayHeight() float64 {
	return i.Height() * math.Abs(i.ScaleY)
}

// Bounds returns the scaled on-screen rectangle of the image.
func (i *Image) Bounds() Bounds {
	w, h := i.DisplayWidth(), i.DisplayHeight()
	return Bounds{
		X: i.X - i.OriginX*w,
		Y: i.Y - i.OriginY*h,
		W: w,
		H: h,
	}
}

// Sprite is an Image that may carry a physics body.
type Sprite struct {
	Image
	Body *Body
}

// SetScale applies a uniform scale. A static body keeps its old size until
// RefreshBody is called.
func (s *Sprite) SetScale(v float64) *Sprite {
	s.Image.SetScale(v)
	return s
}

// RefreshBody resizes and repositions the body to match the sprite's
// current scaled bounds.
func (s *Sprite) RefreshBody() *Sprite {
	if s.Body != nil {
		s.Body.UpdateFromGameObject()
	}
	return s
}

// DisplayList holds scene nodes in draw order.
type DisplayList struct {
	items []*Image
}

// Add appends a node on top of the existing ones.
func (d *DisplayList) Add(img *Image) {
	d.items = append(d.items, img)
}

// Items returns the nodes in draw order.
func (d *DisplayList) Items() []*Image {
	out := make([]*Image, len(d.items))
	copy(out, d.items)
	return out
}

// Len returns the number of nodes.
func (d *DisplayList) Len() int {
	return len(d.items)
}

// GameObjectFactory creates display-list nodes from loaded textures.
type GameObjectFactory struct {
	textures *TextureManager
	display  *DisplayList
}

// Image places a non-physics image at (x, y).
func (f *GameObjectFactory) Image(x, y float64, key string) (*Image, error) {
	tex, err := f.texture(key)
	if err != nil {
		return nil, err
	}
	img := newImage(x, y, tex)
	f.display.Add(&img)
	return &img, nil
}

// Sprite places a sprite without a body at (x, y).
func (f *GameObjectFactory) Sprite(x, y float64, key string) (*Sprite, error) {
	tex, err := f.texture(key)
	if err != nil {
		return nil, err
	}
	s := &Sprite{Image: newImage(x, y, tex)}
	f.display.Add(&s.Image)
	return s, nil
}

func (f *GameObjectFactory) texture(key string) (*Texture, error) {
	tex, ok := f.textures.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTexture, key)
	}
	return tex, nil
}
