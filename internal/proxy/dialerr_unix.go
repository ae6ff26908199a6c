//go:build linux || darwin || freebsd || netbsd || openbsd

package proxy

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/die-net/socksd/internal/socks5"
)

func replyForErrno(err error) socks5.Reply {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return socks5.RepGeneralFailure
	}

	switch errno {
	case unix.ECONNREFUSED:
		return socks5.RepConnectionRefused
	case unix.ENETUNREACH, unix.ENETDOWN:
		return socks5.RepNetworkUnreachable
	case unix.EHOSTUNREACH, unix.EHOSTDOWN:
		return socks5.RepHostUnreachable
	case unix.ETIMEDOUT:
		return socks5.RepTTLExpired
	case unix.EACCES, unix.EPERM:
		return socks5.RepNotAllowed
	default:
		return socks5.RepGeneralFailure
	}
}
