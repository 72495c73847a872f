package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	// Decoders for the formats the loader accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxParallel is the number of assets fetched at once.
const DefaultMaxParallel = 4

// AssetType distinguishes plain images from spritesheets.
type AssetType int

const (
	AssetImage AssetType = iota
	AssetSpritesheet
)

func (t AssetType) String() string {
	switch t {
	case AssetImage:
		return "image"
	case AssetSpritesheet:
		return "spritesheet"
	default:
		return "unknown"
	}
}

// FrameConfig is the fixed frame size used to slice a spritesheet.
type FrameConfig struct {
	FrameWidth  int
	FrameHeight int
}

// AssetEntry is one queued asset: a key, its source and optional frame size.
type AssetEntry struct {
	Key   string
	Type  AssetType
	URI   string
	Frame FrameConfig
}

// ProgressFunc is called after each asset finishes loading.
type ProgressFunc func(loaded, total int, key string)

// Loader queues assets during preload and fetches them all in Start.
// Keys whose texture already exists are skipped, so a restarted scene
// reuses what the first boot downloaded.
type Loader struct {
	textures    *TextureManager
	fetcher     Fetcher
	logger      *log.Logger
	maxParallel int
	onProgress  ProgressFunc

	queue []AssetEntry
	keys  map[string]bool
}

func newLoader(textures *TextureManager, fetcher Fetcher, logger *log.Logger) *Loader {
	return &Loader{
		textures:    textures,
		fetcher:     fetcher,
		logger:      orDiscard(logger),
		maxParallel: DefaultMaxParallel,
		keys:        make(map[string]bool),
	}
}

// Image queues a single-frame image.
func (l *Loader) Image(key, uri string) error {
	return l.enqueue(AssetEntry{Key: key, Type: AssetImage, URI: uri})
}

// Spritesheet queues an image that will be sliced into fixed-size frames.
func (l *Loader) Spritesheet(key, uri string, frame FrameConfig) error {
	if frame.FrameWidth <= 0 || frame.FrameHeight <= 0 {
		return fmt.Errorf("%w: %q needs positive frame size, got %dx%d",
			ErrBadFrame, key, frame.FrameWidth, frame.FrameHeight)
	}
	return l.enqueue(AssetEntry{Key: key, Type: AssetSpritesheet, URI: uri, Frame: frame})
}

func (l *Loader) enqueue(e AssetEntry) error {
	if e.Key == "" {
		return errors.New("engine: asset key is required")
	}
	if l.keys[e.Key] {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, e.Key)
	}
	if l.textures.Exists(e.Key) {
		l.logger.Debug("texture already loaded, skipping", "key", e.Key)
		return nil
	}
	l.keys[e.Key] = true
	l.queue = append(l.queue, e)
	return nil
}

// Queue returns a copy of the pending entries in registration order.
func (l *Loader) Queue() []AssetEntry {
	out := make([]AssetEntry, len(l.queue))
	copy(out, l.queue)
	return out
}

// TotalToLoad returns the number of pending entries.
func (l *Loader) TotalToLoad() int {
	return len(l.queue)
}

// Start fetches and decodes every queued entry in parallel. Textures are
// registered only if all entries succeed; the queue is emptied either way.
func (l *Loader) Start(ctx context.Context) error {
	queue := l.queue
	l.queue = nil
	l.keys = make(map[string]bool)

	total := len(queue)
	if total == 0 {
		return nil
	}
	l.logger.Info("loading assets", "count", total)

	results := make([]*Texture, total)
	var (
		mu     sync.Mutex
		loaded int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.maxParallel, 1))
	for i, entry := range queue {
		g.Go(func() error {
			tex, err := l.load(gctx, entry)
			if err != nil {
				return &LoadError{Key: entry.Key, URI: entry.URI, Err: err}
			}
			results[i] = tex

			mu.Lock()
			loaded++
			n := loaded
			mu.Unlock()

			l.logger.Debug("asset loaded", "key", entry.Key, "type", entry.Type, "progress", fmt.Sprintf("%d/%d", n, total))
			if l.onProgress != nil {
				l.onProgress(n, total, entry.Key)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, tex := range results {
		if err := l.textures.Add(tex); err != nil {
			return err
		}
	}
	l.logger.Info("assets ready", "count", total)
	return nil
}

// load fetches and decodes a single entry.
func (l *Loader) load(ctx context.Context, e AssetEntry) (*Texture, error) {
	data, err := l.fetcher.Fetch(ctx, e.URI)
	if err != nil {
		return nil, err
	}

	tex, err := l.decode(e, data)
	if err != nil {
		// A stored copy that does not decode would fail every later boot.
		if inv, ok := l.fetcher.(Invalidator); ok {
			if invErr := inv.Invalidate(context.WithoutCancel(ctx), e.URI); invErr != nil {
				l.logger.Warn("cannot drop cached asset", "key", e.Key, "uri", e.URI, "error", invErr)
			}
		}
		return nil, err
	}
	return tex, nil
}

// decode turns fetched bytes into a texture and validates spritesheet frames.
func (l *Loader) decode(e AssetEntry, data []byte) (*Texture, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	tex := &Texture{
		Key:    e.Key,
		Source: e.URI,
		Image:  img,
	}
	if e.Type == AssetSpritesheet {
		tex.FrameWidth = e.Frame.FrameWidth
		tex.FrameHeight = e.Frame.FrameHeight
		if tex.FrameWidth > tex.Width() || tex.FrameHeight > tex.Height() {
			return nil, fmt.Errorf("%w: %dx%d frame exceeds %dx%d image",
				ErrBadFrame, tex.FrameWidth, tex.FrameHeight, tex.Width(), tex.Height())
		}
	}
	l.logger.Debug("decoded", "key", e.Key, "format", format, "size", fmt.Sprintf("%dx%d", tex.Width(), tex.Height()))
	return tex, nil
}
