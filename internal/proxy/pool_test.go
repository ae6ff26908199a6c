package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferPool(t *testing.T) {
	p := newBufferPool(64)

	b := p.Get()
	require.Len(t, *b, 64)
	p.Put(b)

	short := make([]byte, 8)
	p.Put(&short)
	p.Put(nil)

	for range 4 {
		got := p.Get()
		require.Len(t, *got, 64)
		p.Put(got)
	}
}
