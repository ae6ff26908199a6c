package socks5

import (
	"strconv"

	txsocks5 "github.com/txthinking/socks5"
)

// Version is the only protocol version this package speaks.
const Version = txsocks5.Ver

// Authentication methods (RFC 1928 section 3).
const (
	MethodNoAuth           = txsocks5.MethodNone
	MethodGSSAPI           = txsocks5.MethodGSSAPI
	MethodUsernamePassword = txsocks5.MethodUsernamePassword
	// MethodNoAcceptable tells the client none of its methods were accepted.
	MethodNoAcceptable = txsocks5.MethodUnsupportAll
)

// Command is the CMD field of a request.
type Command byte

const (
	CmdConnect      Command = Command(txsocks5.CmdConnect)
	CmdBind         Command = Command(txsocks5.CmdBind)
	CmdUDPAssociate Command = Command(txsocks5.CmdUDP)
)

func (c Command) String() string {
	switch c {
	case CmdConnect:
		return "CONNECT"
	case CmdBind:
		return "BIND"
	case CmdUDPAssociate:
		return "UDP ASSOCIATE"
	default:
		return "command(" + strconv.Itoa(int(c)) + ")"
	}
}

// AddrType is the ATYP field of a request or reply.
type AddrType byte

const (
	AddrIPv4   AddrType = AddrType(txsocks5.ATYPIPv4)
	AddrDomain AddrType = AddrType(txsocks5.ATYPDomain)
	AddrIPv6   AddrType = AddrType(txsocks5.ATYPIPv6)
)

func (a AddrType) String() string {
	switch a {
	case AddrIPv4:
		return "IPv4"
	case AddrDomain:
		return "domain"
	case AddrIPv6:
		return "IPv6"
	default:
		return "atyp(" + strconv.Itoa(int(a)) + ")"
	}
}

// Reply is the REP field of a command reply.
//
// A non-success Reply can be used as an error.
type Reply byte

const (
	RepSucceeded            Reply = Reply(txsocks5.RepSuccess)
	RepGeneralFailure       Reply = Reply(txsocks5.RepServerFailure)
	RepNotAllowed           Reply = Reply(txsocks5.RepNotAllowed)
	RepNetworkUnreachable   Reply = Reply(txsocks5.RepNetworkUnreachable)
	RepHostUnreachable      Reply = Reply(txsocks5.RepHostUnreachable)
	RepConnectionRefused    Reply = Reply(txsocks5.RepConnectionRefused)
	RepTTLExpired           Reply = Reply(txsocks5.RepTTLExpired)
	RepCommandNotSupported  Reply = Reply(txsocks5.RepCommandNotSupported)
	RepAddrTypeNotSupported Reply = Reply(txsocks5.RepAddressNotSupported)
)

func (r Reply) String() string {
	switch r {
	case RepSucceeded:
		return "succeeded"
	case RepGeneralFailure:
		return "general SOCKS server failure"
	case RepNotAllowed:
		return "connection not allowed by ruleset"
	case RepNetworkUnreachable:
		return "network unreachable"
	case RepHostUnreachable:
		return "host unreachable"
	case RepConnectionRefused:
		return "connection refused"
	case RepTTLExpired:
		return "TTL expired"
	case RepCommandNotSupported:
		return "command not supported"
	case RepAddrTypeNotSupported:
		return "address type not supported"
	default:
		return "reply(" + strconv.Itoa(int(r)) + ")"
	}
}

func (r Reply) Error() string {
	return "socks5: " + r.String()
}
