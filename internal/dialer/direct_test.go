package dialer

import (
	"context"
	"errors"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/die-net/socksd/internal/testutil"
)

func TestDirectDialerDialSuccess(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	echoLn := testutil.StartEchoTCPServer(t, ctx)
	defer echoLn.Close()

	d := NewDirectDialer(Config{DialTimeout: 2 * time.Second, KeepAlive: net.KeepAliveConfig{Enable: true}})

	conn, err := d.DialContext(ctx, "tcp", echoLn.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	testutil.AssertEcho(t, conn, conn, []byte("hello"))
}

func TestDirectDialerDialRefused(t *testing.T) {
	d := NewDirectDialer(Config{DialTimeout: 2 * time.Second})

	addr := testutil.ClosedPort(t)
	_, err := d.DialContext(context.Background(), "tcp", addr)
	require.Error(t, err)
	require.True(t, errors.Is(err, syscall.ECONNREFUSED), "err=%v", err)
	require.Contains(t, err.Error(), addr)
}

func TestDirectDialerContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDirectDialer(Config{})
	_, err := d.DialContext(ctx, "tcp", "127.0.0.1:1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestDialerFunc(t *testing.T) {
	called := 0
	var d Dialer = DialerFunc(func(_ context.Context, network, address string) (net.Conn, error) {
		called++
		require.Equal(t, "tcp", network)
		require.Equal(t, "example.com:80", address)
		return nil, errors.New("nope")
	})

	_, err := d.DialContext(context.Background(), "tcp", "example.com:80")
	require.EqualError(t, err, "nope")
	require.Equal(t, 1, called)
}
