package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"
)

// pngBytes encodes a solid w x h PNG.
func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// memFetcher serves assets from memory and counts requests per URI.
type memFetcher struct {
	mu    sync.Mutex
	files map[string][]byte
	calls map[string]int
}

func newMemFetcher() *memFetcher {
	return &memFetcher{
		files: make(map[string][]byte),
		calls: make(map[string]int),
	}
}

func (f *memFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[uri]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := f.files[uri]
	if !ok {
		return nil, fmt.Errorf("404 %s", uri)
	}
	return data, nil
}

func (f *memFetcher) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}
