package render

import (
	"image"
	"sync"
)

// ImageState tracks the decode lifecycle of an image source.
type ImageState int

const (
	ImageUnknown ImageState = iota
	ImagePending
	ImageReady
	ImageFailed
)

func (s ImageState) String() string {
	switch s {
	case ImagePending:
		return "pending"
	case ImageReady:
		return "ready"
	case ImageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type imageEntry struct {
	state ImageState
	img   image.Image
}

// ImageCache holds decoded bitmaps keyed by source (data URL or remote URL).
// Only ready sources are drawn; pending and failed ones render nothing.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*imageEntry
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]*imageEntry)}
}

// Request marks src as pending. It returns true when the caller should
// start a decode, false when src is already pending, ready or failed.
func (c *ImageCache) Request(src string) bool {
	if src == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[src]; ok {
		return false
	}
	c.entries[src] = &imageEntry{state: ImagePending}
	return true
}

// Resolve stores the decoded bitmap for src.
func (c *ImageCache) Resolve(src string, img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[src] = &imageEntry{state: ImageReady, img: img}
}

// Fail records a decode failure. The source is not retried.
func (c *ImageCache) Fail(src string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[src] = &imageEntry{state: ImageFailed}
}

// State returns the lifecycle state of src.
func (c *ImageCache) State(src string) ImageState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[src]; ok {
		return e.state
	}
	return ImageUnknown
}

// Image returns the decoded bitmap for src if it is ready.
func (c *ImageCache) Image(src string) (image.Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[src]
	if !ok || e.state != ImageReady {
		return nil, false
	}
	return e.img, true
}

// Retain drops every entry whose source is not in keep.
func (c *ImageCache) Retain(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for src := range c.entries {
		if !keep[src] {
			delete(c.entries, src)
		}
	}
}

// Len returns the number of tracked sources.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
