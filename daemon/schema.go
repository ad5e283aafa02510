package daemon

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// The daemon's management interface is a protobuf service. Only the messages
// and fields the tray reads or writes are declared here; everything else is
// carried as unknown fields, which protobuf preserves on re-encoding. This
// matters for SetRelaySettings, which writes back settings it only partly
// understands.
const (
	protoPackage  = "mullvad_daemon.management_interface"
	servicePrefix = "/" + protoPackage + ".ManagementService/"
)

var (
	tunnelStateDesc        protoreflect.MessageDescriptor
	daemonEventDesc        protoreflect.MessageDescriptor
	relayListDesc          protoreflect.MessageDescriptor
	settingsDesc           protoreflect.MessageDescriptor
	relaySettingsDesc      protoreflect.MessageDescriptor
	locationConstraintDesc protoreflect.MessageDescriptor
	geoConstraintDesc      protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(schemaFile(), nil)
	if err != nil {
		panic(fmt.Sprintf("daemon: invalid management interface schema: %v", err))
	}
	msgs := fd.Messages()
	tunnelStateDesc = msgs.ByName("TunnelState")
	daemonEventDesc = msgs.ByName("DaemonEvent")
	relayListDesc = msgs.ByName("RelayList")
	settingsDesc = msgs.ByName("Settings")
	relaySettingsDesc = msgs.ByName("RelaySettings")
	locationConstraintDesc = msgs.ByName("LocationConstraint")
	geoConstraintDesc = msgs.ByName("GeographicLocationConstraint")
}

func schemaFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("mulltray/management_interface.proto"),
		Package: proto.String(protoPackage),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("TunnelState"),
				NestedType: []*descriptorpb.DescriptorProto{
					message("Disconnected"),
					message("Connecting", messageField("relay_info", 1, "TunnelStateRelayInfo")),
					message("Connected", messageField("relay_info", 1, "TunnelStateRelayInfo")),
					message("Disconnecting"),
					message("Error", messageField("error_state", 1, "ErrorState")),
				},
				Field: []*descriptorpb.FieldDescriptorProto{
					inOneof(messageField("disconnected", 1, "TunnelState.Disconnected"), 0),
					inOneof(messageField("connecting", 2, "TunnelState.Connecting"), 0),
					inOneof(messageField("connected", 3, "TunnelState.Connected"), 0),
					inOneof(messageField("disconnecting", 4, "TunnelState.Disconnecting"), 0),
					inOneof(messageField("error", 5, "TunnelState.Error"), 0),
				},
				OneofDecl: oneofs("state"),
			},
			message("TunnelStateRelayInfo", messageField("location", 2, "GeoIpLocation")),
			message("GeoIpLocation",
				scalarField("ipv4", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("country", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("city", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("hostname", 8, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			{
				Name:  proto.String("ErrorState"),
				Field: []*descriptorpb.FieldDescriptorProto{enumField("cause", 1, "ErrorState.Cause")},
				EnumType: []*descriptorpb.EnumDescriptorProto{
					enum("Cause",
						"AUTH_FAILED",
						"IPV6_UNAVAILABLE",
						"SET_FIREWALL_POLICY_ERROR",
						"SET_DNS_ERROR",
						"START_TUNNEL_ERROR",
						"CREATE_TUNNEL_DEVICE",
						"TUNNEL_PARAMETER_ERROR",
						"IS_OFFLINE",
					),
				},
			},
			{
				Name: proto.String("DaemonEvent"),
				Field: []*descriptorpb.FieldDescriptorProto{
					inOneof(messageField("tunnel_state", 1, "TunnelState"), 0),
					inOneof(messageField("settings", 2, "Settings"), 0),
					inOneof(messageField("relay_list", 3, "RelayList"), 0),
					inOneof(messageField("version_info", 4, "AppVersionInfo"), 0),
					inOneof(messageField("device", 5, "DeviceEvent"), 0),
					inOneof(messageField("remove_device", 6, "RemoveDeviceEvent"), 0),
					inOneof(messageField("new_access_method", 7, "AccessMethodSetting"), 0),
				},
				OneofDecl: oneofs("event"),
			},
			message("AppVersionInfo"),
			message("DeviceEvent"),
			message("RemoveDeviceEvent"),
			message("AccessMethodSetting"),
			message("Settings", messageField("relay_settings", 1, "RelaySettings")),
			{
				Name: proto.String("RelaySettings"),
				Field: []*descriptorpb.FieldDescriptorProto{
					inOneof(messageField("custom", 1, "CustomRelaySettings"), 0),
					inOneof(messageField("normal", 2, "NormalRelaySettings"), 0),
				},
				OneofDecl: oneofs("endpoint"),
			},
			message("CustomRelaySettings"),
			message("NormalRelaySettings", messageField("location", 1, "LocationConstraint")),
			{
				Name: proto.String("LocationConstraint"),
				Field: []*descriptorpb.FieldDescriptorProto{
					inOneof(scalarField("custom_list", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING), 0),
					inOneof(messageField("location", 2, "GeographicLocationConstraint"), 0),
				},
				OneofDecl: oneofs("type"),
			},
			message("GeographicLocationConstraint",
				scalarField("country", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("city", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("hostname", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("RelayList", repeated(messageField("countries", 1, "RelayListCountry"))),
			message("RelayListCountry",
				scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("code", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				repeated(messageField("cities", 3, "RelayListCity")),
			),
			message("RelayListCity",
				scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("code", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				repeated(messageField("relays", 5, "Relay")),
			),
			{
				Name: proto.String("Relay"),
				Field: []*descriptorpb.FieldDescriptorProto{
					scalarField("hostname", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					scalarField("active", 5, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
					enumField("endpoint_type", 9, "Relay.RelayType"),
				},
				EnumType: []*descriptorpb.EnumDescriptorProto{
					enum("RelayType", "OPENVPN", "BRIDGE", "WIREGUARD"),
				},
			},
		},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String("." + protoPackage + "." + typeName)
	return f
}

func enumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	f.TypeName = proto.String("." + protoPackage + "." + typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func inOneof(f *descriptorpb.FieldDescriptorProto, index int32) *descriptorpb.FieldDescriptorProto {
	f.OneofIndex = proto.Int32(index)
	return f
}

func oneofs(names ...string) []*descriptorpb.OneofDescriptorProto {
	decls := make([]*descriptorpb.OneofDescriptorProto, 0, len(names))
	for _, name := range names {
		decls = append(decls, &descriptorpb.OneofDescriptorProto{Name: proto.String(name)})
	}
	return decls
}

// enum numbers values from zero in declaration order.
func enum(name string, values ...string) *descriptorpb.EnumDescriptorProto {
	e := &descriptorpb.EnumDescriptorProto{Name: proto.String(name)}
	for i, v := range values {
		e.Value = append(e.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(v),
			Number: proto.Int32(int32(i)),
		})
	}
	return e
}
