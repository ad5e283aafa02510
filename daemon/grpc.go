package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/yllada/mulltray/common"
)

var eventsListenDesc = &grpc.StreamDesc{
	StreamName:    "EventsListen",
	ServerStreams: true,
}

// GRPCLink is a Link over the daemon's gRPC management interface.
type GRPCLink struct {
	conn *grpc.ClientConn
}

// Dial creates a link to the daemon listening on the unix socket at
// socketPath. The connection is established lazily by the first call.
func Dial(socketPath string) (*GRPCLink, error) {
	target := "unix:" + socketPath
	if filepath.IsAbs(socketPath) {
		target = "unix://" + socketPath
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDaemonUnavailable, err)
	}
	return NewLink(conn), nil
}

// NewLink wraps an existing client connection.
func NewLink(conn *grpc.ClientConn) *GRPCLink {
	return &GRPCLink{conn: conn}
}

// GetTunnelState returns the current tunnel state.
func (l *GRPCLink) GetTunnelState(ctx context.Context) (*TunnelState, error) {
	out := dynamicpb.NewMessage(tunnelStateDesc)
	if err := l.invoke(ctx, "GetTunnelState", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decodeTunnelState(out), nil
}

// GetRelayLocations returns the relay location tree.
func (l *GRPCLink) GetRelayLocations(ctx context.Context) (*RelayList, error) {
	out := dynamicpb.NewMessage(relayListDesc)
	if err := l.invoke(ctx, "GetRelayLocations", &emptypb.Empty{}, out); err != nil {
		return nil, err
	}
	return decodeRelayList(out), nil
}

// EventsListen subscribes to the daemon event stream.
func (l *GRPCLink) EventsListen(ctx context.Context) (EventStream, error) {
	stream, err := l.conn.NewStream(ctx, eventsListenDesc, servicePrefix+"EventsListen")
	if err != nil {
		return nil, wrapRPCError("EventsListen", err)
	}
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil {
		return nil, wrapRPCError("EventsListen", err)
	}
	if err := stream.CloseSend(); err != nil {
		return nil, wrapRPCError("EventsListen", err)
	}
	return &grpcEventStream{stream: stream}, nil
}

// ConnectTunnel asks the daemon to connect.
func (l *GRPCLink) ConnectTunnel(ctx context.Context) error {
	out := &wrapperspb.BoolValue{}
	if err := l.invoke(ctx, "ConnectTunnel", &emptypb.Empty{}, out); err != nil {
		return err
	}
	common.LogDebug("ConnectTunnel accepted (state changed: %t)", out.GetValue())
	return nil
}

// DisconnectTunnel asks the daemon to disconnect.
func (l *GRPCLink) DisconnectTunnel(ctx context.Context) error {
	out := &wrapperspb.BoolValue{}
	if err := l.invoke(ctx, "DisconnectTunnel", &emptypb.Empty{}, out); err != nil {
		return err
	}
	common.LogDebug("DisconnectTunnel accepted (state changed: %t)", out.GetValue())
	return nil
}

// SetLocation reads the daemon settings, replaces the location constraint of
// the normal relay settings and writes the relay settings back. Custom relay
// settings are rejected with common.ErrUnsupportedRelaySettings.
func (l *GRPCLink) SetLocation(ctx context.Context, location LocationConstraint) error {
	settings := dynamicpb.NewMessage(settingsDesc)
	if err := l.invoke(ctx, "GetSettings", &emptypb.Empty{}, settings); err != nil {
		return err
	}

	relaySettings, err := withLocation(settings, location)
	if err != nil {
		return err
	}
	return l.invoke(ctx, "SetRelaySettings", relaySettings.Interface(), &emptypb.Empty{})
}

// Close releases the connection.
func (l *GRPCLink) Close() error {
	return l.conn.Close()
}

func (l *GRPCLink) invoke(ctx context.Context, method string, in, out proto.Message) error {
	if err := l.conn.Invoke(ctx, servicePrefix+method, in, out); err != nil {
		return wrapRPCError(method, err)
	}
	return nil
}

func wrapRPCError(method string, err error) error {
	if status.Code(err) == codes.Unavailable {
		return fmt.Errorf("%s: %w: %w", method, common.ErrDaemonUnavailable, err)
	}
	return fmt.Errorf("%s: %w", method, err)
}

// ErrorMessage renders err for logs, using the gRPC status message when err
// carries one.
func ErrorMessage(err error) string {
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		return s.Code().String() + ": " + s.Message()
	}
	return err.Error()
}

type grpcEventStream struct {
	stream grpc.ClientStream
}

// Recv returns the next event. io.EOF is returned unwrapped.
func (s *grpcEventStream) Recv() (*Event, error) {
	msg := dynamicpb.NewMessage(daemonEventDesc)
	if err := s.stream.RecvMsg(msg); err != nil {
		return nil, err
	}
	return decodeEvent(msg), nil
}

var eventKinds = map[protoreflect.Name]EventKind{
	"tunnel_state":      EventTunnelState,
	"settings":          EventSettings,
	"relay_list":        EventRelayList,
	"version_info":      EventVersionInfo,
	"device":            EventDevice,
	"remove_device":     EventRemoveDevice,
	"new_access_method": EventNewAccessMethod,
}

var stateKinds = map[protoreflect.Name]TunnelStateKind{
	"disconnected":  StateDisconnected,
	"connecting":    StateConnecting,
	"connected":     StateConnected,
	"disconnecting": StateDisconnecting,
	"error":         StateError,
}

func decodeEvent(m protoreflect.Message) *Event {
	fd := m.WhichOneof(m.Descriptor().Oneofs().ByName("event"))
	if fd == nil {
		return &Event{Kind: EventUnset}
	}
	ev := &Event{Kind: eventKinds[fd.Name()]}
	if ev.Kind == EventTunnelState {
		ev.TunnelState = decodeTunnelState(m.Get(fd).Message())
	}
	return ev
}

func decodeTunnelState(m protoreflect.Message) *TunnelState {
	fd := m.WhichOneof(m.Descriptor().Oneofs().ByName("state"))
	if fd == nil {
		return &TunnelState{Kind: StateUnset}
	}

	ts := &TunnelState{Kind: stateKinds[fd.Name()]}
	payload := m.Get(fd).Message()
	switch ts.Kind {
	case StateConnecting, StateConnected:
		if info, ok := getMessage(payload, "relay_info"); ok {
			ts.RelayInfo = &RelayInfo{}
			if loc, ok := getMessage(info, "location"); ok {
				ts.RelayInfo.Location = &GeoIPLocation{
					Country:  getString(loc, "country"),
					City:     getString(loc, "city"),
					Hostname: getString(loc, "hostname"),
				}
			}
		}
	case StateError:
		if es, ok := getMessage(payload, "error_state"); ok {
			ts.ErrorState = &ErrorState{Cause: causeName(es)}
		}
	}
	return ts
}

// causeName renders the error cause as its enum number, declared or not.
func causeName(errorState protoreflect.Message) string {
	return strconv.Itoa(int(errorState.Get(field(errorState, "cause")).Enum()))
}

func decodeRelayList(m protoreflect.Message) *RelayList {
	list := &RelayList{}
	countries := m.Get(field(m, "countries")).List()
	for i := 0; i < countries.Len(); i++ {
		c := countries.Get(i).Message()
		country := Country{Name: getString(c, "name"), Code: getString(c, "code")}

		cities := c.Get(field(c, "cities")).List()
		for j := 0; j < cities.Len(); j++ {
			ct := cities.Get(j).Message()
			city := City{Name: getString(ct, "name"), Code: getString(ct, "code")}

			relays := ct.Get(field(ct, "relays")).List()
			for k := 0; k < relays.Len(); k++ {
				r := relays.Get(k).Message()
				city.Relays = append(city.Relays, Relay{
					Hostname:     getString(r, "hostname"),
					EndpointType: RelayType(r.Get(field(r, "endpoint_type")).Enum()),
				})
			}
			country.Cities = append(country.Cities, city)
		}
		list.Countries = append(list.Countries, country)
	}
	return list
}

// withLocation returns the relay settings held by settings with their
// location constraint replaced. Unknown fields are left untouched.
func withLocation(settings protoreflect.Message, location LocationConstraint) (protoreflect.Message, error) {
	rsField := field(settings, "relay_settings")
	if !settings.Has(rsField) {
		return nil, common.ErrNoRelaySettings
	}

	relaySettings := settings.Mutable(rsField).Message()
	endpoint := relaySettings.WhichOneof(relaySettings.Descriptor().Oneofs().ByName("endpoint"))
	if endpoint == nil || endpoint.Name() != "normal" {
		return nil, common.ErrUnsupportedRelaySettings
	}

	normal := relaySettings.Mutable(endpoint).Message()
	normal.Set(field(normal, "location"), protoreflect.ValueOfMessage(encodeLocation(location)))
	return relaySettings, nil
}

func encodeLocation(location LocationConstraint) protoreflect.Message {
	geo := dynamicpb.NewMessage(geoConstraintDesc)
	geo.Set(field(geo, "country"), protoreflect.ValueOfString(location.Country))
	if location.City != "" {
		geo.Set(field(geo, "city"), protoreflect.ValueOfString(location.City))
	}
	if location.Hostname != "" {
		geo.Set(field(geo, "hostname"), protoreflect.ValueOfString(location.Hostname))
	}

	constraint := dynamicpb.NewMessage(locationConstraintDesc)
	constraint.Set(field(constraint, "location"), protoreflect.ValueOfMessage(geo))
	return constraint
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(field(m, name)).String()
}

func getMessage(m protoreflect.Message, name protoreflect.Name) (protoreflect.Message, bool) {
	fd := field(m, name)
	if !m.Has(fd) {
		return nil, false
	}
	return m.Get(fd).Message(), true
}
