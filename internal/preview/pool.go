package preview

import (
	"image"
	"sync"
)

// canvasPool reuses RGBA canvases keyed by their bounds.
type canvasPool struct {
	mu    sync.RWMutex
	pools map[image.Rectangle]*sync.Pool
}

func newCanvasPool() *canvasPool {
	return &canvasPool{pools: make(map[image.Rectangle]*sync.Pool)}
}

// Get returns a canvas with the given bounds. Its contents are undefined.
func (p *canvasPool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, ok := p.pools[rect]
	p.mu.RUnlock()

	if !ok {
		p.mu.Lock()
		pool, ok = p.pools[rect]
		if !ok {
			pool = &sync.Pool{
				New: func() any { return image.NewRGBA(rect) },
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}
	return pool.Get().(*image.RGBA)
}

// Put hands a canvas back. Canvases of unknown size are dropped.
func (p *canvasPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, ok := p.pools[img.Rect]
	p.mu.RUnlock()
	if ok {
		pool.Put(img)
	}
}
