package socks5

import "errors"

var (
	// ErrMalformedMessage is returned when a buffer is shorter than the
	// length its own fields declare, or a field is structurally invalid.
	ErrMalformedMessage = errors.New("socks5: malformed message")

	// ErrReplyAddrType is returned when a command reply is asked to carry
	// an address other than IPv4.
	ErrReplyAddrType = errors.New("socks5: reply address must be IPv4")

	// ErrVersion is returned by callers that reject a non-5 VER field.
	ErrVersion = errors.New("socks5: unsupported version")
)
