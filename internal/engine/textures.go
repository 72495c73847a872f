package engine

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Texture is a decoded image registered under a key. Spritesheets carry a
// fixed frame size; plain images are a single frame covering the whole image.
type Texture struct {
	ID          uuid.UUID
	Key         string
	Source      string
	Image       image.Image
	FrameWidth  int
	FrameHeight int
}

// Width returns the full image width in pixels.
func (t *Texture) Width() int {
	return t.Image.Bounds().Dx()
}

// Height returns the full image height in pixels.
func (t *Texture) Height() int {
	return t.Image.Bounds().Dy()
}

// IsSpritesheet reports whether the texture was loaded with a frame size.
func (t *Texture) IsSpritesheet() bool {
	return t.FrameWidth > 0 && t.FrameHeight > 0
}

// FrameCount returns how many whole frames the texture holds.
func (t *Texture) FrameCount() int {
	if !t.IsSpritesheet() {
		return 1
	}
	return (t.Width() / t.FrameWidth) * (t.Height() / t.FrameHeight)
}

// Frame returns the source rectangle of frame i, numbered left to right and
// top to bottom.
func (t *Texture) Frame(i int) (image.Rectangle, bool) {
	b := t.Image.Bounds()
	if !t.IsSpritesheet() {
		return b, i == 0
	}
	if i < 0 || i >= t.FrameCount() {
		return image.Rectangle{}, false
	}
	cols := t.Width() / t.FrameWidth
	x := b.Min.X + (i%cols)*t.FrameWidth
	y := b.Min.Y + (i/cols)*t.FrameHeight
	return image.Rect(x, y, x+t.FrameWidth, y+t.FrameHeight), true
}

// FrameSize returns the size of a single frame.
func (t *Texture) FrameSize() (w, h int) {
	if t.IsSpritesheet() {
		return t.FrameWidth, t.FrameHeight
	}
	return t.Width(), t.Height()
}

// TextureManager owns every texture of a running game, keyed by asset key.
// Textures outlive scene restarts and are dropped on Destroy.
type TextureManager struct {
	mu       sync.RWMutex
	textures map[string]*Texture
}

// NewTextureManager creates an empty texture manager.
func NewTextureManager() *TextureManager {
	return &TextureManager{
		textures: make(map[string]*Texture),
	}
}

// Add registers a texture. Keys are never overwritten.
func (m *TextureManager) Add(t *Texture) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.textures[t.Key]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, t.Key)
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.textures[t.Key] = t
	return nil
}

// Get returns the texture registered under key.
func (m *TextureManager) Get(key string) (*Texture, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.textures[key]
	return t, ok
}

// Exists reports whether key is registered.
func (m *TextureManager) Exists(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns all registered keys in sorted order.
func (m *TextureManager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.textures))
	for k := range m.textures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of registered textures.
func (m *TextureManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.textures)
}

// Clear drops every texture.
func (m *TextureManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textures = make(map[string]*Texture)
}
