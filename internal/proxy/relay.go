package proxy

import (
	"context"
	"fmt"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/die-net/socksd/internal/socks5"
)

// Relay connects one CONNECT request to its target and forwards bytes in
// both directions.
type Relay struct {
	cfg Config
	log *zap.Logger
}

// NewRelay returns a Relay that dials with cfg.Dialer and logs to log.
func NewRelay(cfg Config, log *zap.Logger) *Relay {
	if log == nil {
		log = cfg.logger()
	}
	return &Relay{cfg: cfg, log: log}
}

// Open dials target, reports the outcome to client as a command reply and,
// on success, relays until either leg ends. client is closed before Open
// returns.
//
// A failed connect is answered with the reply code closest to the cause.
// The success reply carries the local address of the outbound connection.
func (r *Relay) Open(ctx context.Context, client Stream, target socks5.Addr) error {
	defer client.Close()

	up, err := r.dial(ctx, target)
	if err != nil {
		rep := replyForDialError(err)
		_ = writeCommandReply(client, rep, socks5.ZeroAddr)
		r.log.Debug("connect failed", zap.Stringer("target", target), zap.Stringer("reply", rep), zap.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUpstreamConnect, target, err)
	}

	bound := boundAddr(up.LocalAddr())
	if err := writeCommandReply(client, socks5.RepSucceeded, bound); err != nil {
		_ = up.Close()
		return fmt.Errorf("%w: success reply: %w", ErrTransport, err)
	}

	r.log.Debug("relay started", zap.Stringer("target", target), zap.Stringer("bound", bound))

	if err := CopyBidirectional(ctx, client, up); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}

	r.log.Debug("relay finished", zap.Stringer("target", target))
	return nil
}

func (r *Relay) dial(ctx context.Context, target socks5.Addr) (net.Conn, error) {
	if r.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.ConnectTimeout)
		defer cancel()
	}
	return r.cfg.Dialer.DialContext(ctx, "tcp", target.String())
}

// boundAddr returns the IPv4 form of a local address for the success reply.
// Replies only carry IPv4, so an IPv6 local address is reported as the
// unspecified address with its port.
func boundAddr(local net.Addr) socks5.Addr {
	a, err := socks5.AddrFromNetAddr(local)
	if err != nil {
		return socks5.ZeroAddr
	}
	if a.Type != socks5.AddrIPv4 {
		return socks5.Addr{Type: socks5.AddrIPv4, Host: socks5.ZeroAddr.Host, Port: a.Port}
	}
	return a
}

// writeCommandReply encodes and writes a version 5 reply in one Write.
func writeCommandReply(w io.Writer, rep socks5.Reply, addr socks5.Addr) error {
	msg, err := socks5.NewCommandReply(rep, addr)
	if err != nil {
		return err
	}
	b, err := msg.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
