package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/die-net/socksd/internal/socks5"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestReplyForDialError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want socks5.Reply
	}{
		{"nil", nil, socks5.RepSucceeded},
		{"deadline", fmt.Errorf("dial tcp x: %w", context.DeadlineExceeded), socks5.RepTTLExpired},
		{"net_timeout", &net.OpError{Op: "dial", Net: "tcp", Err: timeoutError{}}, socks5.RepTTLExpired},
		{"dns", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "nx.invalid", IsNotFound: true}}, socks5.RepHostUnreachable},
		{"canceled", context.Canceled, socks5.RepGeneralFailure},
		{"other", errors.New("boom"), socks5.RepGeneralFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, replyForDialError(tt.err))
		})
	}
}
