package vpn

import "github.com/yllada/mulltray/daemon"

// Project maps a raw tunnel state notification to a Status. It never fails:
// a nil notification, an unset payload or an unknown payload kind all map to
// Inactive. Missing relay info or error state is not an error either.
func Project(raw *daemon.TunnelState) Status {
	if raw == nil {
		return Inactive()
	}

	switch raw.Kind {
	case daemon.StateConnecting:
		return Connecting(relayInfo(raw.RelayInfo))
	case daemon.StateConnected:
		return Connected(relayInfo(raw.RelayInfo))
	case daemon.StateDisconnecting:
		return Disconnecting()
	case daemon.StateDisconnected:
		return Disconnected()
	case daemon.StateError:
		if raw.ErrorState == nil {
			return ErrorStatus(nil)
		}
		return ErrorStatus(&ErrorDetail{Cause: raw.ErrorState.Cause})
	default:
		return Inactive()
	}
}

func relayInfo(info *daemon.RelayInfo) *RelayInfo {
	if info == nil || info.Location == nil {
		return nil
	}
	loc := info.Location
	return &RelayInfo{
		Hostname: loc.Hostname,
		Country:  loc.Country,
		City:     loc.City,
	}
}
