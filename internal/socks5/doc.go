// Package socks5 encodes and decodes the SOCKS5 handshake and command
// messages of RFC 1928.
//
// The functions here are pure: they work on byte slices and never touch a
// connection. Enumerated fields (command, address type, reply) that fall
// outside the known values are passed through unchanged so that the caller
// decides whether they are unsupported or malformed.
//
// Wire constants are taken from github.com/txthinking/socks5.
package socks5
