package image

import "sync"

// DefaultPoolBytes is the retention limit of the default pool: two
// 1920x1080 RGB16 frames.
const DefaultPoolBytes = 2 * 1920 * 1080 * 6

// Pool keeps full-image buffers for reuse across renders of the same size.
//
// Buffers are grouped by dimensions and format. The pool retains at most
// maxBytes of pixel data in total; a Put that would exceed the limit drops
// the buffer. Reused buffers are not cleared, since a render overwrites
// every row.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	buckets  map[poolKey][]*ImageBuf
	held     int
	maxBytes int
}

type poolKey struct {
	width, height int
	format        Format
}

func keyOf(b *ImageBuf) poolKey {
	return poolKey{width: b.width, height: b.height, format: b.format}
}

// NewPool returns a pool retaining up to maxBytes of pixel data. A limit
// of 0 or less means unlimited.
func NewPool(maxBytes int) *Pool {
	return &Pool{
		buckets:  make(map[poolKey][]*ImageBuf),
		maxBytes: maxBytes,
	}
}

// Get returns a pooled buffer of the given size and format, or a new one.
func (p *Pool) Get(width, height int, format Format) (*ImageBuf, error) {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	if bucket := p.buckets[key]; len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		bucket[len(bucket)-1] = nil
		p.buckets[key] = bucket[:len(bucket)-1]
		p.held -= buf.ByteSize()
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return NewImageBuf(width, height, format)
}

// Put offers buf for reuse. nil is ignored.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil {
		return
	}
	size := buf.ByteSize()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxBytes > 0 && p.held+size > p.maxBytes {
		return
	}
	key := keyOf(buf)
	p.buckets[key] = append(p.buckets[key], buf)
	p.held += size
}

// Len returns the number of pooled buffers of the given size and format.
func (p *Pool) Len(width, height int, format Format) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[poolKey{width: width, height: height, format: format}])
}

// Held returns the pixel bytes currently retained.
func (p *Pool) Held() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.held
}

var defaultPool = NewPool(DefaultPoolBytes)

// GetFromDefault retrieves an image buffer from the shared pool used by
// file sinks.
func GetFromDefault(width, height int, format Format) (*ImageBuf, error) {
	return defaultPool.Get(width, height, format)
}

// PutToDefault returns an image buffer to the shared pool.
func PutToDefault(buf *ImageBuf) {
	defaultPool.Put(buf)
}
