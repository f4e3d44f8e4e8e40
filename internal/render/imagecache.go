package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"sync"
)

// Loader decodes one raster source. The default reads a file path; the
// shell may inject its own (data URIs, remote fetch, test stubs).
type Loader func(src string) (image.Image, error)

// FileLoader decodes an image file from disk.
func FileLoader(src string) (image.Image, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open image source: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image source: %w", err)
	}
	return img, nil
}

type cacheState int

const (
	cachePending cacheState = iota
	cacheReady
	cacheFailed
)

type cacheEntry struct {
	state cacheState
	img   image.Image
}

// ImageCache decodes each unique raster source exactly once. Decoding is
// the engine's only asynchrony: Request returns immediately, and exactly
// one onReady callback fires when a decode completes. onReady runs on
// the decode goroutine, so owners schedule a repaint from it rather
// than painting directly. Repeated requests for a still-loading or
// failed source never re-issue the decode; a failed source stays
// permanently unpainted.
type ImageCache struct {
	mu      sync.Mutex
	loader  Loader
	entries map[string]*cacheEntry
	onReady func(src string)
}

// NewImageCache builds a cache around the loader (FileLoader when nil).
// onReady is invoked once per successfully decoded source.
func NewImageCache(loader Loader, onReady func(src string)) *ImageCache {
	if loader == nil {
		loader = FileLoader
	}
	return &ImageCache{
		loader:  loader,
		entries: make(map[string]*cacheEntry),
		onReady: onReady,
	}
}

// Request schedules an async decode of src unless one is already
// pending, done or failed.
func (c *ImageCache) Request(src string) {
	if src == "" {
		return
	}
	c.mu.Lock()
	if _, ok := c.entries[src]; ok {
		c.mu.Unlock()
		return
	}
	c.entries[src] = &cacheEntry{state: cachePending}
	c.mu.Unlock()

	go func() {
		img, err := c.loader(src)
		c.mu.Lock()
		e := c.entries[src]
		if e == nil { // cache was cleared mid-decode
			c.mu.Unlock()
			return
		}
		if err != nil {
			log.Printf("[render] image decode failed for %q: %v", src, err)
			e.state = cacheFailed
			c.mu.Unlock()
			return
		}
		e.state = cacheReady
		e.img = img
		c.mu.Unlock()
		if c.onReady != nil {
			c.onReady(src)
		}
	}()
}

// Get returns the decoded image when ready.
func (c *ImageCache) Get(src string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[src]; ok && e.state == cacheReady {
		return e.img, true
	}
	return nil, false
}

// Clear drops every entry; used on history clear and sheet teardown.
// In-flight decodes complete harmlessly and are discarded.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
