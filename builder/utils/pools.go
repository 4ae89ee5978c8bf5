package utils

import (
	"bytes"
	"sync"
)

// MaxBufferSize is the largest buffer returned to a pool.
const MaxBufferSize = 64 * 1024

// BufferPool manages a pool of reusable bytes.Buffer objects
// to reduce memory allocations during post-processing.
type BufferPool struct {
	pool sync.Pool
}

// SharedBufferPool is used by the minify and compress helpers.
var SharedBufferPool = NewBufferPool()

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

func (p *BufferPool) Get() *bytes.Buffer {
	return p.pool.Get().(*bytes.Buffer)
}

// Put returns a buffer to the pool, resetting it for reuse.
// If the buffer is too large, it is discarded to prevent memory hoarding.
func (p *BufferPool) Put(buf *bytes.Buffer) {
	if buf.Cap() > MaxBufferSize {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}
