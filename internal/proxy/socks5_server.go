package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
)

// SOCKS5Server accepts client connections and runs one protocol state
// machine per connection.
type SOCKS5Server struct {
	ctx      context.Context
	cfg      Config
	log      *zap.Logger
	sessions *SessionCounter

	mu     sync.Mutex
	closed bool
	conns  map[net.Conn]struct{}
	wg     sync.WaitGroup
}

// NewSOCKS5Server constructs a server. Canceling ctx tears down every relay
// it started.
func NewSOCKS5Server(ctx context.Context, cfg Config) *SOCKS5Server {
	if ctx == nil {
		ctx = context.Background()
	}
	return &SOCKS5Server{
		ctx:      ctx,
		cfg:      cfg,
		log:      cfg.logger(),
		sessions: NewSessionCounter(0),
		conns:    make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections on ln until it fails. An accept error caused by
// closing ln after ctx is done or Close is called yields nil.
func (s *SOCKS5Server) Serve(ln net.Listener) error {
	for {
		c, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) && s.isShutdown() {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		if !s.track(c) {
			_ = c.Close()
			continue
		}
		go s.serveConn(c)
	}
}

// Close closes every tracked client connection and waits for their
// handlers to return. Connections accepted afterwards are closed at once.
func (s *SOCKS5Server) Close() error {
	s.mu.Lock()
	s.closed = true
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// ActiveConns returns the number of connections currently being served.
func (s *SOCKS5Server) ActiveConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *SOCKS5Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || s.ctx.Err() != nil
}

func (s *SOCKS5Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *SOCKS5Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	s.wg.Done()
}

func (s *SOCKS5Server) serveConn(c net.Conn) {
	defer s.untrack(c)

	log := s.log.With(
		zap.Uint64("session", s.sessions.Next()),
		zap.Stringer("client", c.RemoteAddr()),
	)

	defer func() {
		if r := recover(); r != nil {
			_ = c.Close()
			log.Error("connection handler panic", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	cc := newClientConn(c, s.cfg, log)
	err := cc.serve(s.ctx)
	switch {
	case err == nil:
		log.Debug("connection closed")
	case errors.Is(err, ErrUpstreamConnect), errors.Is(err, ErrTransport):
		log.Info("connection closed", zap.Error(err))
	default:
		log.Debug("connection rejected", zap.Error(err))
	}
}
