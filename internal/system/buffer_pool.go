package system

import (
	"image"
	"sync"
	"sync/atomic"
)

// ImagePool переиспользует буферы *image.RGBA одного размера,
// чтобы пакетный рендер превью не нагружал GC.
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex

	allocated atomic.Int64
	gets      atomic.Int64
}

// NewImagePool создает пустой пул.
func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var globalPool = NewImagePool()

// GetImage возвращает очищенный буфер из общего пула.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage возвращает буфер в общий пул.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

// Get возвращает буфер размера rect. Буфер всегда обнулен,
// так что вызывающий получает прозрачное изображение.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					p.allocated.Add(1)
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	p.gets.Add(1)
	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put отдает буфер обратно. Буферы неизвестного размера отбрасываются.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Stats возвращает число созданных и переиспользованных буферов.
func (p *ImagePool) Stats() (allocated, reused int64) {
	allocated = p.allocated.Load()
	return allocated, p.gets.Load() - allocated
}

// PoolStats статистика общего пула.
func PoolStats() (allocated, reused int64) {
	return globalPool.Stats()
}
