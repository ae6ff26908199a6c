package socks5

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// Addr is a SOCKS address: DST.ADDR/DST.PORT in a request or
// BND.ADDR/BND.PORT in a reply.
//
// For an unknown Type, Host is empty and Port is zero.
type Addr struct {
	Type AddrType
	Host string
	Port uint16
}

// String returns Host and Port joined for use with net.Dial.
func (a Addr) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(int(a.Port)))
}

// addrLen returns the encoded length of DST.ADDR+DST.PORT for atyp, given
// the first byte of DST.ADDR. ok is false for an unknown atyp.
func addrLen(atyp AddrType, first byte) (n int, ok bool) {
	switch atyp {
	case AddrIPv4:
		return net.IPv4len + 2, true
	case AddrDomain:
		return 1 + int(first) + 2, true
	case AddrIPv6:
		return net.IPv6len + 2, true
	default:
		return 0, false
	}
}

// ParseAddr decodes an address of type atyp from the start of b and returns
// it with the number of bytes consumed.
//
// An unknown atyp is not an error: the Addr carries the raw type and nothing
// is consumed, leaving the policy decision to the caller.
func ParseAddr(atyp AddrType, b []byte) (Addr, int, error) {
	a := Addr{Type: atyp}
	if len(b) == 0 {
		if _, ok := addrLen(atyp, 0); !ok {
			return a, 0, nil
		}
		return a, 0, fmt.Errorf("%w: missing %s address", ErrMalformedMessage, atyp)
	}

	n, ok := addrLen(atyp, b[0])
	if !ok {
		return a, 0, nil
	}
	if len(b) < n {
		return a, 0, fmt.Errorf("%w: %s address needs %d bytes, have %d", ErrMalformedMessage, atyp, n, len(b))
	}

	switch atyp {
	case AddrIPv4:
		a.Host = netip.AddrFrom4([4]byte(b[:4])).String()
	case AddrDomain:
		if b[0] == 0 {
			return a, 0, fmt.Errorf("%w: empty domain name", ErrMalformedMessage)
		}
		a.Host = string(b[1 : 1+b[0]])
	case AddrIPv6:
		a.Host = netip.AddrFrom16([16]byte(b[:16])).String()
	}
	a.Port = binary.BigEndian.Uint16(b[n-2 : n])

	return a, n, nil
}

// AppendTo appends the wire form of a (without the ATYP byte) to b.
func (a Addr) AppendTo(b []byte) ([]byte, error) {
	switch a.Type {
	case AddrIPv4:
		ip, err := netip.ParseAddr(a.Host)
		if err != nil || !ip.Unmap().Is4() {
			return b, fmt.Errorf("socks5: invalid IPv4 address %q", a.Host)
		}
		v4 := ip.Unmap().As4()
		b = append(b, v4[:]...)
	case AddrDomain:
		if len(a.Host) == 0 || len(a.Host) > 255 {
			return b, fmt.Errorf("socks5: domain name length %d out of range", len(a.Host))
		}
		b = append(b, byte(len(a.Host)))
		b = append(b, a.Host...)
	case AddrIPv6:
		ip, err := netip.ParseAddr(a.Host)
		if err != nil || !ip.Is6() {
			return b, fmt.Errorf("socks5: invalid IPv6 address %q", a.Host)
		}
		v6 := ip.As16()
		b = append(b, v6[:]...)
	default:
		return b, fmt.Errorf("socks5: cannot encode %s", a.Type)
	}

	return binary.BigEndian.AppendUint16(b, a.Port), nil
}

// AddrFromNetAddr converts a TCP address to an Addr, choosing IPv4 when the
// IP has a 4-byte form.
func AddrFromNetAddr(na net.Addr) (Addr, error) {
	ta, ok := na.(*net.TCPAddr)
	if !ok {
		return Addr{}, fmt.Errorf("socks5: unsupported address %T", na)
	}

	ap := ta.AddrPort()
	ip := ap.Addr().Unmap()
	if ip.Is4() {
		return Addr{Type: AddrIPv4, Host: ip.String(), Port: ap.Port()}, nil
	}
	return Addr{Type: AddrIPv6, Host: ip.WithZone("").String(), Port: ap.Port()}, nil
}
