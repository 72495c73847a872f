package engine

import (
	"image"
	"math"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
)

// Body outline colors used in debug mode.
const (
	StaticBodyColor  = core.ColorBrightBlue
	DynamicBodyColor = core.ColorBrightMagenta
)

// shades maps increasing luminance to increasingly dense runes.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// scaledKey identifies one texture frame resampled to a cell size.
type scaledKey struct {
	texture uuid.UUID
	frame   int
	w, h    int
}

// Renderer rasterises the display list into a character grid. World
// coordinates are stretched so the whole canvas fills the screen.
type Renderer struct {
	mode   config.RendererType
	worldW float64
	worldH float64
	cache  map[scaledKey]*image.RGBA
}

// NewRenderer creates a renderer for the configured canvas.
func NewRenderer(cfg config.GameConfig) *Renderer {
	return &Renderer{
		mode:   cfg.Type,
		worldW: float64(cfg.Width),
		worldH: float64(cfg.Height),
		cache:  make(map[scaledKey]*image.RGBA),
	}
}

// Reset drops every cached resample.
func (r *Renderer) Reset() {
	r.cache = make(map[scaledKey]*image.RGBA)
}

// Render clears dst and draws items in order, then outlines bodies.
func (r *Renderer) Render(dst *core.Screen, items []*Image, bodies []*Body) {
	dst.Clear()
	if dst.Width() == 0 || dst.Height() == 0 || r.worldW <= 0 || r.worldH <= 0 {
		return
	}

	for _, img := range items {
		if img.Visible && img.Texture != nil {
			r.drawImage(dst, img)
		}
	}
	for _, b := range bodies {
		c := DynamicBodyColor
		if b.Static {
			c = StaticBodyColor
		}
		dst.DrawBox(r.cellRect(dst, b.Bounds()), c)
	}
}

// cellRect converts world bounds to the covering cell rectangle.
func (r *Renderer) cellRect(dst *core.Screen, b Bounds) core.Rect {
	sw, sh := float64(dst.Width()), float64(dst.Height())

	x0 := int(math.Floor(b.X * sw / r.worldW))
	y0 := int(math.Floor(b.Y * sh / r.worldH))
	x1 := int(math.Ceil(b.Right() * sw / r.worldW))
	y1 := int(math.Ceil(b.Bottom() * sh / r.worldH))
	return core.NewRect(x0, y0, x1-x0, y1-y0)
}

func (r *Renderer) drawImage(dst *core.Screen, img *Image) {
	cell := r.cellRect(dst, img.Bounds())
	if cell.W <= 0 || cell.H <= 0 {
		return
	}
	scaled := r.scaled(img, cell.W, cell.H)
	if scaled == nil {
		return
	}

	for y := 0; y < cell.H; y++ {
		for x := 0; x < cell.W; x++ {
			px := scaled.RGBAAt(x, y)
			if px.A < 0x80 {
				continue
			}
			lum := (0.2126*float64(px.R) + 0.7152*float64(px.G) + 0.0722*float64(px.B)) / 255
			ch := shadeRune(lum)
			color := core.ColorDefault
			if r.mode != config.RendererMono {
				color = core.NearestColor(px.R, px.G, px.B)
			}
			dst.SetCell(cell.X+x, cell.Y+y, ch, color)
		}
	}
}

// scaled returns the image's frame resampled to w x h, caching the result.
func (r *Renderer) scaled(img *Image, w, h int) *image.RGBA {
	key := scaledKey{texture: img.Texture.ID, frame: img.Frame, w: w, h: h}
	if out, ok := r.cache[key]; ok {
		return out
	}

	src, ok := img.Texture.Frame(img.Frame)
	if !ok {
		return nil
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img.Texture.Image, src, xdraw.Src, nil)
	r.cache[key] = out
	return out
}

// shadeRune picks a block rune for a luminance in [0, 1].
func shadeRune(lum float64) rune {
	i := int(core.ClampF(lum, 0, 0.999) * float64(len(shades)))
	return shades[i]
}
