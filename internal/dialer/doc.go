// Package dialer provides the outbound dialer used by the SOCKS5 relay to
// reach CONNECT targets.
//
// Dialers implement a small interface (DialContext) so tests can substitute
// a dialer that counts, blocks or fails on demand.
package dialer
