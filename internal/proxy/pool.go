package proxy

import "sync"

// relayBufferSize is the per-direction copy buffer used when neither leg
// supports splice or sendfile.
const relayBufferSize = 32 * 1024

var relayBuffers = newBufferPool(relayBufferSize)

// bufferPool hands out fixed-size buffers by pointer so that returning one
// to the pool does not allocate.
type bufferPool struct {
	size int
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	bp := &bufferPool{size: size}
	bp.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}

	return bp
}

func (p *bufferPool) Get() *[]byte {
	return p.pool.Get().(*[]byte)
}

// Put returns b to the pool. Buffers of the wrong size are dropped.
func (p *bufferPool) Put(b *[]byte) {
	if b == nil || len(*b) != p.size {
		return
	}
	p.pool.Put(b)
}
