package parallel

import "sync"

// RowBufferPool reuses row buffers of one fixed size via sync.Pool.
//
// Workers take a buffer per row; the writer returns it once the row has
// been emitted. Buffers are not cleared: every byte is overwritten by the
// next render.
//
// Thread safety: RowBufferPool is safe for concurrent use.
type RowBufferPool struct {
	size int
	pool sync.Pool
}

// NewRowBufferPool creates a pool of buffers of size bytes.
func NewRowBufferPool(size int) *RowBufferPool {
	p := &RowBufferPool{size: size}
	p.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return p
}

// Size returns the length of the buffers handed out by the pool.
func (p *RowBufferPool) Size() int {
	return p.size
}

// Get returns a buffer of Size bytes.
func (p *RowBufferPool) Get() []byte {
	return *p.pool.Get().(*[]byte)
}

// Put returns buf to the pool. Buffers of another size and nil are dropped.
func (p *RowBufferPool) Put(buf []byte) {
	if len(buf) != p.size {
		return
	}
	p.pool.Put(&buf)
}
