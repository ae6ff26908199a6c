package proxy

import (
	"bytes"
	"context"
	"crypto/rand"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func startCopy(t *testing.T, ctx context.Context, left, right Stream) <-chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- CopyBidirectional(ctx, left, right) }()
	return done
}

func TestCopyBidirectionalLargePayload(t *testing.T) {
	aClient, aServer := tcpPair(t)
	bClient, bServer := tcpPair(t)

	done := startCopy(t, t.Context(), aServer, bServer)

	up := make([]byte, 3*relayBufferSize+17)
	down := make([]byte, 5*relayBufferSize+3)
	_, _ = rand.Read(up)
	_, _ = rand.Read(down)

	var g errgroup.Group
	g.Go(func() error {
		_, err := aClient.Write(up)
		return err
	})
	g.Go(func() error {
		_, err := bClient.Write(down)
		return err
	})

	gotUp := make([]byte, len(up))
	_, err := io.ReadFull(bClient, gotUp)
	require.NoError(t, err)
	gotDown := make([]byte, len(down))
	_, err = io.ReadFull(aClient, gotDown)
	require.NoError(t, err)
	require.NoError(t, g.Wait())

	require.True(t, bytes.Equal(up, gotUp), "client to target payload differs")
	require.True(t, bytes.Equal(down, gotDown), "target to client payload differs")

	_ = aClient.Close()
	require.NoError(t, waitErr(t, done))
	requireClosed(t, bClient)
}

func TestCopyBidirectionalEitherSideCloses(t *testing.T) {
	for _, closeLeft := range []bool{true, false} {
		aClient, aServer := tcpPair(t)
		bClient, bServer := tcpPair(t)

		done := startCopy(t, t.Context(), aServer, bServer)

		if closeLeft {
			_ = aClient.Close()
			requireClosed(t, bClient)
		} else {
			_ = bClient.Close()
			requireClosed(t, aClient)
		}
		require.NoError(t, waitErr(t, done))
	}
}

func TestCopyBidirectionalHalfCloseEndsRelay(t *testing.T) {
	aClient, aServer := tcpPair(t)
	bClient, bServer := tcpPair(t)

	done := startCopy(t, t.Context(), aServer, bServer)

	require.NoError(t, aClient.CloseWrite())
	requireClosed(t, bClient)
	requireClosed(t, aClient)
	require.NoError(t, waitErr(t, done))
}

func TestCopyBidirectionalContextCancel(t *testing.T) {
	aClient, aServer := tcpPair(t)
	bClient, bServer := tcpPair(t)

	ctx, cancel := context.WithCancel(t.Context())
	done := startCopy(t, ctx, aServer, bServer)

	time.Sleep(10 * time.Millisecond)
	cancel()

	requireClosed(t, aClient)
	requireClosed(t, bClient)
	require.NoError(t, waitErr(t, done))
}
