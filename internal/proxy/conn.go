package proxy

import (
	"bufio"
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/die-net/socksd/internal/socks5"
)

// clientConn drives one accepted connection through method selection and
// the command request. A CONNECT hands the connection to a Relay, after
// which no protocol reads or writes happen here.
type clientConn struct {
	conn  net.Conn
	br    *bufio.Reader
	cfg   Config
	log   *zap.Logger
	state State

	target socks5.Addr
}

func newClientConn(conn net.Conn, cfg Config, log *zap.Logger) *clientConn {
	return &clientConn{
		conn:  conn,
		br:    bufio.NewReader(conn),
		cfg:   cfg,
		log:   log,
		state: StateHandshake,
	}
}

// serve runs the state machine until the connection closes or the relay
// ends. The connection is always closed on return.
func (c *clientConn) serve(ctx context.Context) error {
	defer c.conn.Close()

	if c.cfg.NegotiationTimeout > 0 {
		_ = c.conn.SetDeadline(time.Now().Add(c.cfg.NegotiationTimeout))
	}

	for {
		var err error
		switch c.state {
		case StateHandshake:
			err = c.handshake()
		case StateAuthenticate:
			err = fmt.Errorf("%w: no sub-negotiation for selected method", ErrProtocolViolation)
		case StateProcessCommand:
			err = c.processCommand()
		case StateTransmitting:
			return c.transmit(ctx)
		default:
			return nil
		}
		if err != nil {
			c.setState(StateClosed)
			return err
		}
	}
}

func (c *clientConn) setState(s State) {
	if ce := c.log.Check(zap.DebugLevel, "state transition"); ce != nil {
		ce.Write(zap.Stringer("from", c.state), zap.Stringer("to", s))
	}
	c.state = s
}

func (c *clientConn) handshake() error {
	frame, err := c.readFrame(2, socks5.MethodSelectRequestLen)
	if err != nil {
		return fmt.Errorf("%w: method selection: %w", ErrProtocolViolation, err)
	}
	req, _, err := socks5.ParseMethodSelectRequest(frame)
	if err != nil {
		return fmt.Errorf("%w: method selection: %w", ErrProtocolViolation, err)
	}

	if !req.Accepts(socks5.MethodNoAuth) {
		_ = c.write(socks5.MethodSelectReply{Version: socks5.Version, Method: socks5.MethodNoAcceptable})
		return fmt.Errorf("%w: offered % x", ErrNoAcceptableMethods, req.Methods)
	}

	if err := c.write(socks5.MethodSelectReply{Version: socks5.Version, Method: socks5.MethodNoAuth}); err != nil {
		return fmt.Errorf("%w: method selection reply: %w", ErrTransport, err)
	}

	c.setState(StateProcessCommand)
	return nil
}

func (c *clientConn) processCommand() error {
	frame, err := c.readFrame(4, socks5.CommandRequestLen)
	if err != nil {
		// A wrong version gets no reply. A truncated version 5 request does.
		if len(frame) > 0 && errors.Is(err, socks5.ErrMalformedMessage) {
			_ = c.reply(socks5.RepGeneralFailure)
		}
		return fmt.Errorf("%w: request: %w", ErrProtocolViolation, err)
	}

	req, _, err := socks5.ParseCommandRequest(frame)
	if err != nil {
		_ = c.reply(socks5.RepGeneralFailure)
		return fmt.Errorf("%w: request: %w", ErrProtocolViolation, err)
	}

	if req.Command != socks5.CmdConnect {
		_ = c.reply(socks5.RepCommandNotSupported)
		return fmt.Errorf("%w: %s", ErrUnsupportedCommand, req.Command)
	}

	switch req.Addr.Type {
	case socks5.AddrIPv4, socks5.AddrDomain, socks5.AddrIPv6:
	default:
		_ = c.reply(socks5.RepAddrTypeNotSupported)
		return fmt.Errorf("%w: %s", ErrUnsupportedAddrType, req.Addr.Type)
	}

	c.target = req.Addr
	c.setState(StateTransmitting)
	return nil
}

func (c *clientConn) transmit(ctx context.Context) error {
	_ = c.conn.SetDeadline(time.Time{})

	r := NewRelay(c.cfg, c.log)
	return r.Open(ctx, &bufferedConn{Conn: c.conn, r: c.br}, c.target)
}

// readFrame reads exactly one message. It checks the version byte first,
// so a client speaking another protocol is rejected without waiting for a
// frame it will never send. It then peeks minLen bytes, asks frameLen for
// the full size and reads that many bytes. frameLen may return
// io.ErrShortBuffer with the prefix length it needs to decide.
//
// On a short read it returns the bytes received so far along with an error
// wrapping socks5.ErrMalformedMessage.
func (c *clientConn) readFrame(minLen int, frameLen func([]byte) (int, error)) ([]byte, error) {
	ver, err := c.br.Peek(1)
	if err != nil {
		return nil, err
	}
	if ver[0] != socks5.Version {
		return nil, fmt.Errorf("%w %d", socks5.ErrVersion, ver[0])
	}

	var size int
	for {
		hdr, err := c.br.Peek(minLen)
		if err != nil {
			return hdr, fmt.Errorf("%w: %w", socks5.ErrMalformedMessage, err)
		}

		size, err = frameLen(hdr)
		if errors.Is(err, io.ErrShortBuffer) && size > minLen {
			minLen = size
			continue
		}
		if err != nil {
			return hdr, err
		}
		break
	}

	frame := make([]byte, size)
	n, err := io.ReadFull(c.br, frame)
	if err != nil {
		return frame[:n], fmt.Errorf("%w: %w", socks5.ErrMalformedMessage, err)
	}

	if ce := c.log.Check(zap.DebugLevel, "frame received"); ce != nil {
		ce.Write(zap.Stringer("state", c.state), zap.String("bytes", fmt.Sprintf("% x", frame)))
	}
	return frame, nil
}

func (c *clientConn) reply(rep socks5.Reply) error {
	return writeCommandReply(c.conn, rep, socks5.ZeroAddr)
}

func (c *clientConn) write(m encoding.BinaryMarshaler) error {
	b, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	_, err = c.conn.Write(b)
	return err
}

// bufferedConn reads through the negotiation reader so that bytes a client
// pipelined after its request reach the target.
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) {
	return c.r.Read(p)
}
