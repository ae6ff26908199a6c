package proxy

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Stream is one leg of a relay: the accepted client connection or the
// outbound connection to the target.
type Stream interface {
	io.ReadWriteCloser
	LocalAddr() net.Addr
}

// CopyBidirectional forwards bytes between left and right until either
// direction ends. The first direction to hit EOF or an error closes both
// legs, which unblocks the other direction; canceling ctx does the same.
//
// Errors caused by the teardown itself are not reported.
func CopyBidirectional(ctx context.Context, left, right Stream) error {
	var closeOnce sync.Once
	closeBoth := func() {
		closeOnce.Do(func() {
			_ = left.Close()
			_ = right.Close()
		})
	}
	defer closeBoth()

	stop := context.AfterFunc(ctx, closeBoth)
	defer stop()

	var g errgroup.Group

	g.Go(func() error {
		defer closeBoth()
		return copyStream(left, right)
	})

	g.Go(func() error {
		defer closeBoth()
		return copyStream(right, left)
	})

	return g.Wait()
}

func copyStream(dst io.Writer, src io.Reader) error {
	buf := relayBuffers.Get()
	defer relayBuffers.Put(buf)

	_, err := io.CopyBuffer(dst, src, *buf)
	if errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		return nil
	}
	return err
}
