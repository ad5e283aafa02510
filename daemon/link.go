// Package daemon talks to the VPN daemon's management interface.
//
// The Link interface covers the four capabilities the tray needs: querying
// the current tunnel state, querying the relay locations, subscribing to the
// event stream, and issuing connect/disconnect/set-location commands.
// GRPCLink implements it over the daemon's unix socket.
package daemon

import "context"

// Link is a connection to the daemon.
type Link interface {
	// GetTunnelState returns the current tunnel state.
	GetTunnelState(ctx context.Context) (*TunnelState, error)
	// GetRelayLocations returns the relay location tree.
	GetRelayLocations(ctx context.Context) (*RelayList, error)
	// EventsListen subscribes to daemon events. The stream lives until ctx
	// is cancelled or the daemon closes it.
	EventsListen(ctx context.Context) (EventStream, error)
	// ConnectTunnel asks the daemon to connect.
	ConnectTunnel(ctx context.Context) error
	// DisconnectTunnel asks the daemon to disconnect.
	DisconnectTunnel(ctx context.Context) error
	// SetLocation replaces the location constraint of the relay settings.
	SetLocation(ctx context.Context, location LocationConstraint) error
	// Close releases the connection.
	Close() error
}

// EventStream is a single-consumer sequence of daemon events.
type EventStream interface {
	// Recv blocks until the next event arrives. It returns io.EOF when the
	// daemon ends the stream.
	Recv() (*Event, error)
}
