// Package proxy implements the SOCKS5 server side: the accept loop, the
// per-connection protocol state machine and the CONNECT relay.
//
// Each accepted connection is served on its own goroutine. After a
// successful CONNECT the connection and the outbound connection are paired
// by CopyBidirectional until either side ends, at which point both are
// closed.
package proxy
