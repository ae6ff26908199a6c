package proxy

import "strconv"

// State is the protocol state of one client connection.
type State int

const (
	StateHandshake State = iota
	// StateAuthenticate is reserved for sub-negotiation methods such as
	// username/password. Only "no authentication" is offered, so no
	// transition leads here.
	StateAuthenticate
	StateProcessCommand
	StateTransmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "handshake"
	case StateAuthenticate:
		return "authenticate"
	case StateProcessCommand:
		return "process-command"
	case StateTransmitting:
		return "transmitting"
	case StateClosed:
		return "closed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}
