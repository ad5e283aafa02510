package vpn

import "strconv"

// StatusKind identifies which connection status variant is active.
type StatusKind int

const (
	// StatusInactive means no state has been reported yet.
	StatusInactive StatusKind = iota
	// StatusConnecting indicates a tunnel is being established.
	StatusConnecting
	// StatusConnected indicates an established tunnel.
	StatusConnected
	// StatusDisconnecting indicates the tunnel is being torn down.
	StatusDisconnecting
	// StatusDisconnected indicates no tunnel.
	StatusDisconnected
	// StatusError indicates the daemon reported an error state.
	StatusError
)

// String returns a human-readable representation of the status kind.
func (k StatusKind) String() string {
	switch k {
	case StatusInactive:
		return "Inactive"
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusDisconnecting:
		return "Disconnecting"
	case StatusDisconnected:
		return "Disconnected"
	case StatusError:
		return "Error"
	default:
		return "Unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// RelayInfo describes the relay in use. Fields are display only and may be
// empty.
type RelayInfo struct {
	Hostname string
	Country  string
	City     string
}

// ErrorDetail is the daemon-reported cause of an error state.
type ErrorDetail struct {
	Cause string
}

// Status is one connection status variant. Relay is only set for
// Connecting and Connected, Err only for Error. A Status is never modified
// after construction; a new status replaces the old one as a whole.
type Status struct {
	Kind  StatusKind
	Relay *RelayInfo
	Err   *ErrorDetail
}

// Inactive returns the status used before the daemon reported anything.
func Inactive() Status { return Status{Kind: StatusInactive} }

// Connecting returns a connecting status. relay may be nil.
func Connecting(relay *RelayInfo) Status {
	return Status{Kind: StatusConnecting, Relay: copyRelay(relay)}
}

// Connected returns a connected status. relay may be nil.
func Connected(relay *RelayInfo) Status {
	return Status{Kind: StatusConnected, Relay: copyRelay(relay)}
}

// Disconnecting returns a disconnecting status.
func Disconnecting() Status { return Status{Kind: StatusDisconnecting} }

// Disconnected returns a disconnected status.
func Disconnected() Status { return Status{Kind: StatusDisconnected} }

// ErrorStatus returns an error status. detail may be nil.
func ErrorStatus(detail *ErrorDetail) Status {
	return Status{Kind: StatusError, Err: detail}.Clone()
}

func copyRelay(relay *RelayInfo) *RelayInfo {
	if relay == nil {
		return nil
	}
	r := *relay
	return &r
}

// Clone returns a copy of s that shares no payload with it.
func (s Status) Clone() Status {
	c := Status{Kind: s.Kind, Relay: copyRelay(s.Relay)}
	if s.Err != nil {
		d := *s.Err
		c.Err = &d
	}
	return c
}

// Hostname returns the relay hostname, or "" when unknown.
func (s Status) Hostname() string {
	if s.Relay == nil {
		return ""
	}
	return s.Relay.Hostname
}

// Cause returns the error cause, or "" when unspecified.
func (s Status) Cause() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Cause
}

// Equal reports whether s and o describe the same status.
func (s Status) Equal(o Status) bool {
	if s.Kind != o.Kind {
		return false
	}
	if (s.Relay == nil) != (o.Relay == nil) || (s.Err == nil) != (o.Err == nil) {
		return false
	}
	if s.Relay != nil && *s.Relay != *o.Relay {
		return false
	}
	return s.Err == nil || *s.Err == *o.Err
}
