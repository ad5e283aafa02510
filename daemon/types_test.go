package daemon

import "testing"

func TestKindNames(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{StateUnset.String(), "unset"},
		{StateDisconnecting.String(), "disconnecting"},
		{TunnelStateKind(99).String(), "unknown(99)"},
		{EventTunnelState.String(), "tunnel_state"},
		{EventNewAccessMethod.String(), "new_access_method"},
		{EventKind(-1).String(), "unknown(-1)"},
		{RelayTypeWireGuard.String(), "wireguard"},
		{RelayType(7).String(), "unknown(7)"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("String() = %q, want %q", tt.got, tt.want)
		}
	}
}
