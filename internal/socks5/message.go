package socks5

import (
	"fmt"
	"io"
	"slices"
)

// MethodSelectRequest is the client's version identifier/method selection
// message:
//
//	+----+----------+----------+
//	|VER | NMETHODS | METHODS  |
//	+----+----------+----------+
//	| 1  |    1     | 1 to 255 |
//	+----+----------+----------+
type MethodSelectRequest struct {
	Version byte
	// Methods in client preference order. Duplicates are kept.
	Methods []byte
}

// Accepts reports whether the client offered method m.
func (r MethodSelectRequest) Accepts(m byte) bool {
	return slices.Index(r.Methods, m) >= 0
}

// MethodSelectRequestLen returns the full length of the method selection
// message that starts with prefix. prefix must hold at least 2 bytes.
func MethodSelectRequestLen(prefix []byte) (int, error) {
	if len(prefix) < 2 {
		return 0, fmt.Errorf("%w: method selection header needs 2 bytes, have %d", ErrMalformedMessage, len(prefix))
	}
	return 2 + int(prefix[1]), nil
}

// ParseMethodSelectRequest decodes a method selection message from the start
// of b and returns it with the number of bytes consumed.
func ParseMethodSelectRequest(b []byte) (MethodSelectRequest, int, error) {
	n, err := MethodSelectRequestLen(b)
	if err != nil {
		return MethodSelectRequest{}, 0, err
	}
	if len(b) < n {
		return MethodSelectRequest{}, 0, fmt.Errorf("%w: NMETHODS is %d but only %d methods present", ErrMalformedMessage, b[1], len(b)-2)
	}
	return MethodSelectRequest{
		Version: b[0],
		Methods: slices.Clone(b[2:n]),
	}, n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r MethodSelectRequest) MarshalBinary() ([]byte, error) {
	if len(r.Methods) > 255 {
		return nil, fmt.Errorf("socks5: %d methods exceeds 255", len(r.Methods))
	}
	b := make([]byte, 0, 2+len(r.Methods))
	b = append(b, r.Version, byte(len(r.Methods)))
	return append(b, r.Methods...), nil
}

// MethodSelectReply is the server's METHOD selection message. It is always
// two bytes.
type MethodSelectReply struct {
	Version byte
	Method  byte
}

// ParseMethodSelectReply decodes a method selection reply from the start of b.
func ParseMethodSelectReply(b []byte) (MethodSelectReply, int, error) {
	if len(b) < 2 {
		return MethodSelectReply{}, 0, fmt.Errorf("%w: method selection reply needs 2 bytes, have %d", ErrMalformedMessage, len(b))
	}
	return MethodSelectReply{Version: b[0], Method: b[1]}, 2, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r MethodSelectReply) MarshalBinary() ([]byte, error) {
	return []byte{r.Version, r.Method}, nil
}

// CommandRequest is a SOCKS request:
//
//	+----+-----+-------+------+----------+----------+
//	|VER | CMD |  RSV  | ATYP | DST.ADDR | DST.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+
//
// Unknown CMD and ATYP values are kept as-is.
type CommandRequest struct {
	Version byte
	Command Command
	Addr    Addr
}

// CommandRequestLen returns the full length of the request that starts with
// prefix. prefix must hold at least the 4-byte header. For an unknown ATYP
// only the header is counted. A domain address is sized by its first byte,
// so with only the header present CommandRequestLen returns 5 and
// io.ErrShortBuffer to ask for one more byte.
func CommandRequestLen(prefix []byte) (int, error) {
	if len(prefix) < 4 {
		return 0, fmt.Errorf("%w: request header needs 4 bytes, have %d", ErrMalformedMessage, len(prefix))
	}
	atyp := AddrType(prefix[3])
	if _, ok := addrLen(atyp, 0); !ok {
		return 4, nil
	}
	if len(prefix) < 5 {
		return 5, io.ErrShortBuffer
	}
	n, _ := addrLen(atyp, prefix[4])
	return 4 + n, nil
}

// ParseCommandRequest decodes a request from the start of b and returns it
// with the number of bytes consumed.
func ParseCommandRequest(b []byte) (CommandRequest, int, error) {
	if len(b) < 4 {
		return CommandRequest{}, 0, fmt.Errorf("%w: request header needs 4 bytes, have %d", ErrMalformedMessage, len(b))
	}
	req := CommandRequest{Version: b[0], Command: Command(b[1])}

	addr, n, err := ParseAddr(AddrType(b[3]), b[4:])
	if err != nil {
		return CommandRequest{}, 0, err
	}
	req.Addr = addr

	return req, 4 + n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (r CommandRequest) MarshalBinary() ([]byte, error) {
	b := []byte{r.Version, byte(r.Command), 0x00, byte(r.Addr.Type)}
	return r.Addr.AppendTo(b)
}

// CommandReply is the server's reply to a request:
//
//	+----+-----+-------+------+----------+----------+
//	|VER | REP |  RSV  | ATYP | BND.ADDR | BND.PORT |
//	+----+-----+-------+------+----------+----------+
//	| 1  |  1  | X'00' |  1   | Variable |    2     |
//	+----+-----+-------+------+----------+----------+
//
// Only IPv4 bound addresses are supported.
type CommandReply struct {
	Version byte
	Reply   Reply
	Addr    Addr
}

// NewCommandReply builds a version 5 reply. It fails if addr is not IPv4.
func NewCommandReply(rep Reply, addr Addr) (CommandReply, error) {
	if addr.Type != AddrIPv4 {
		return CommandReply{}, fmt.Errorf("%w: got %s", ErrReplyAddrType, addr.Type)
	}
	return CommandReply{Version: Version, Reply: rep, Addr: addr}, nil
}

// ZeroAddr is the IPv4 unspecified address, reported in failure replies.
var ZeroAddr = Addr{Type: AddrIPv4, Host: "0.0.0.0"}

// ParseCommandReply decodes a reply from the start of b.
func ParseCommandReply(b []byte) (CommandReply, int, error) {
	if len(b) < 4 {
		return CommandReply{}, 0, fmt.Errorf("%w: reply header needs 4 bytes, have %d", ErrMalformedMessage, len(b))
	}
	rep := CommandReply{Version: b[0], Reply: Reply(b[1])}

	addr, n, err := ParseAddr(AddrType(b[3]), b[4:])
	if err != nil {
		return CommandReply{}, 0, err
	}
	rep.Addr = addr

	return rep, 4 + n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler. An IPv4 reply is
// always 10 bytes.
func (r CommandReply) MarshalBinary() ([]byte, error) {
	if r.Addr.Type != AddrIPv4 {
		return nil, fmt.Errorf("%w: got %s", ErrReplyAddrType, r.Addr.Type)
	}
	b := make([]byte, 0, 10)
	b = append(b, r.Version, byte(r.Reply), 0x00, byte(AddrIPv4))
	return r.Addr.AppendTo(b)
}
