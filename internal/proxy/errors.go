package proxy

import "errors"

// Connection-level failure classes. Handlers wrap the underlying cause with
// one of these so callers can use errors.Is.
var (
	// ErrProtocolViolation is a malformed frame or a version mismatch.
	ErrProtocolViolation = errors.New("protocol violation")

	// ErrNoAcceptableMethods means the client offered no method the server
	// supports.
	ErrNoAcceptableMethods = errors.New("no acceptable authentication method")

	// ErrUnsupportedCommand is BIND, UDP ASSOCIATE or an unknown command.
	ErrUnsupportedCommand = errors.New("unsupported command")

	// ErrUnsupportedAddrType is an ATYP other than IPv4, domain or IPv6.
	ErrUnsupportedAddrType = errors.New("unsupported address type")

	// ErrUpstreamConnect means the outbound connect failed or timed out.
	ErrUpstreamConnect = errors.New("upstream connect")

	// ErrTransport is a socket error on either leg.
	ErrTransport = errors.New("transport error")
)
