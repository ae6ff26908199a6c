package proxy

import (
	"context"
	"errors"
	"net"

	"github.com/die-net/socksd/internal/socks5"
)

// replyForDialError maps an outbound connect failure to the closest reply
// code.
func replyForDialError(err error) socks5.Reply {
	if err == nil {
		return socks5.RepSucceeded
	}

	var (
		netErr net.Error
		dnsErr *net.DNSError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return socks5.RepTTLExpired
	case errors.As(err, &dnsErr):
		return socks5.RepHostUnreachable
	default:
		return replyForErrno(err)
	}
}
