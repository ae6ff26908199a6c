package proxy

import (
	"context"
	"io"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/net/nettest"

	"github.com/die-net/socksd/internal/dialer"
	"github.com/die-net/socksd/internal/socks5"
)

// tcpPair returns both ends of a loopback TCP connection.
func tcpPair(t *testing.T) (client *net.TCPConn, server net.Conn) {
	t.Helper()

	ln, err := nettest.NewLocalListener("tcp")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	s, ok := <-accepted
	require.True(t, ok, "accept failed")

	t.Cleanup(func() {
		_ = c.Close()
		_ = s.Close()
	})
	return c.(*net.TCPConn), s
}

// countingDialer records every dial and hands out the server ends of pipes
// whose client ends are delivered on conns.
type countingDialer struct {
	calls atomic.Int32

	mu    sync.Mutex
	addrs []string
	conns chan net.Conn
}

func newCountingDialer() *countingDialer {
	return &countingDialer{conns: make(chan net.Conn, 16)}
}

func (d *countingDialer) DialContext(_ context.Context, _, address string) (net.Conn, error) {
	d.calls.Add(1)
	d.mu.Lock()
	d.addrs = append(d.addrs, address)
	d.mu.Unlock()

	near, far := net.Pipe()
	d.conns <- far
	return near, nil
}

func (d *countingDialer) dialed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.addrs...)
}

// blockingDialer never connects; it returns once ctx is done.
var blockingDialer = dialer.DialerFunc(func(ctx context.Context, _, _ string) (net.Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
})

// serveClient runs a clientConn on server and returns a channel that
// receives serve's result.
func serveClient(t *testing.T, server net.Conn, cfg Config) <-chan error {
	t.Helper()

	if cfg.Logger == nil {
		cfg.Logger = zaptest.NewLogger(t)
	}
	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		done <- newClientConn(server, cfg, cfg.Logger).serve(context.Background())
	}()
	t.Cleanup(func() {
		_ = server.Close()
		<-finished
	})
	return done
}

func waitErr(t *testing.T, done <-chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for connection to finish")
		return nil
	}
}

// negotiate performs a no-auth method selection from the client side.
func negotiate(t *testing.T, c net.Conn) {
	t.Helper()

	_, err := c.Write([]byte{0x05, 0x01, 0x00})
	require.NoError(t, err)

	buf := make([]byte, 2)
	_, err = io.ReadFull(c, buf)
	require.NoError(t, err)
	require.Equal(t, []byte{0x05, 0x00}, buf)
}

func readReply(t *testing.T, r io.Reader) socks5.CommandReply {
	t.Helper()

	buf := make([]byte, 10)
	_, err := io.ReadFull(r, buf)
	require.NoError(t, err)

	rep, n, err := socks5.ParseCommandReply(buf)
	require.NoError(t, err)
	require.Equal(t, 10, n)
	return rep
}

func requireClosed(t *testing.T, c net.Conn) {
	t.Helper()

	_ = c.SetReadDeadline(time.Now().Add(5 * time.Second))
	n, err := c.Read(make([]byte, 1))
	require.Zero(t, n)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrDeadlineExceeded)
}
