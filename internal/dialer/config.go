package dialer

import (
	"net"
	"time"
)

type Config struct {
	// DialTimeout bounds DNS lookup plus TCP connect. Zero means no limit
	// beyond the caller's context.
	DialTimeout time.Duration

	KeepAlive net.KeepAliveConfig
}
