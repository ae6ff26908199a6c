//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package proxy

import (
	"errors"
	"syscall"

	"github.com/die-net/socksd/internal/socks5"
)

func replyForErrno(err error) socks5.Reply {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return socks5.RepConnectionRefused
	}
	return socks5.RepGeneralFailure
}
