package proxy

import (
	"time"

	"go.uber.org/zap"

	"github.com/die-net/socksd/internal/dialer"
)

type Config struct {
	// NegotiationTimeout bounds method selection plus the command request.
	// Zero disables the deadline.
	NegotiationTimeout time.Duration

	// ConnectTimeout bounds the outbound connect of a CONNECT request.
	// Zero leaves it to the Dialer.
	ConnectTimeout time.Duration

	Dialer dialer.Dialer

	// Logger receives per-connection logs. Nil discards them.
	Logger *zap.Logger
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
