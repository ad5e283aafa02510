package daemon

import "strconv"

// TunnelStateKind identifies which state payload, if any, a raw tunnel
// state notification carried.
type TunnelStateKind int

const (
	// StateUnset means the notification carried no state payload.
	StateUnset TunnelStateKind = iota
	StateDisconnected
	StateConnecting
	StateConnected
	StateDisconnecting
	StateError
)

// String returns the protocol name of the state payload.
func (k TunnelStateKind) String() string {
	switch k {
	case StateUnset:
		return "unset"
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateError:
		return "error"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// TunnelState is a raw tunnel state notification as reported by the daemon.
// RelayInfo is only meaningful for connecting/connected and ErrorState only
// for error; either may be nil.
type TunnelState struct {
	Kind       TunnelStateKind
	RelayInfo  *RelayInfo
	ErrorState *ErrorState
}

// RelayInfo describes the relay the tunnel is using.
type RelayInfo struct {
	Location *GeoIPLocation
}

// GeoIPLocation is the daemon's view of where the exit relay is. Empty
// strings mean the daemon did not report the value.
type GeoIPLocation struct {
	Country  string
	City     string
	Hostname string
}

// ErrorState carries the daemon-reported reason for an error state.
type ErrorState struct {
	Cause string
}

// EventKind identifies the payload of a daemon event.
type EventKind int

const (
	// EventUnset means the event carried no payload.
	EventUnset EventKind = iota
	EventTunnelState
	EventSettings
	EventRelayList
	EventVersionInfo
	EventDevice
	EventRemoveDevice
	EventNewAccessMethod
)

// String returns the protocol name of the event payload.
func (k EventKind) String() string {
	switch k {
	case EventUnset:
		return "unset"
	case EventTunnelState:
		return "tunnel_state"
	case EventSettings:
		return "settings"
	case EventRelayList:
		return "relay_list"
	case EventVersionInfo:
		return "version_info"
	case EventDevice:
		return "device"
	case EventRemoveDevice:
		return "remove_device"
	case EventNewAccessMethod:
		return "new_access_method"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// Event is one item of the daemon event stream. TunnelState is set only for
// EventTunnelState.
type Event struct {
	Kind        EventKind
	TunnelState *TunnelState
}

// RelayType is the endpoint protocol a relay serves.
type RelayType int

const (
	RelayTypeOpenVPN RelayType = iota
	RelayTypeBridge
	RelayTypeWireGuard
)

// String returns the protocol name of the relay type.
func (t RelayType) String() string {
	switch t {
	case RelayTypeOpenVPN:
		return "openvpn"
	case RelayTypeBridge:
		return "bridge"
	case RelayTypeWireGuard:
		return "wireguard"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// RelayList is the daemon's full location tree, in the order it was sent.
type RelayList struct {
	Countries []Country
}

// Country is a top-level location.
type Country struct {
	Name   string
	Code   string
	Cities []City
}

// City groups the relays hosted in one city.
type City struct {
	Name   string
	Code   string
	Relays []Relay
}

// Relay is a single server.
type Relay struct {
	Hostname     string
	EndpointType RelayType
}

// LocationConstraint selects where the daemon should connect. City and
// Hostname are optional; empty means "any".
type LocationConstraint struct {
	Country  string
	City     string
	Hostname string
}
