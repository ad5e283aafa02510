package ui

import "github.com/yllada/mulltray/vpn"

// IconID is a freedesktop symbolic icon name.
type IconID string

// Icon identifiers, one per status. Connecting and Disconnecting share one.
const (
	IconOffline      IconID = "network-vpn-offline-symbolic"
	IconError        IconID = "network-vpn-error-symbolic"
	IconAcquiring    IconID = "network-vpn-acquiring-symbolic"
	IconDisconnected IconID = "network-vpn-disconnected-symbolic"
	IconConnected    IconID = "network-vpn-symbolic"
)

// IconFor returns the icon for a status. Kinds outside the variant set use
// the offline icon, same as Inactive.
func IconFor(s vpn.Status) IconID {
	switch s.Kind {
	case vpn.StatusError:
		return IconError
	case vpn.StatusConnecting, vpn.StatusDisconnecting:
		return IconAcquiring
	case vpn.StatusDisconnected:
		return IconDisconnected
	case vpn.StatusConnected:
		return IconConnected
	default:
		return IconOffline
	}
}

// StatusText describes a status without the application prefix.
func StatusText(s vpn.Status) string {
	switch s.Kind {
	case vpn.StatusConnected:
		if h := s.Hostname(); h != "" {
			return "connected to " + h
		}
		return "connected to an unknown server"
	case vpn.StatusConnecting:
		if h := s.Hostname(); h != "" {
			return "connecting to " + h + ".."
		}
		return "connecting.."
	case vpn.StatusDisconnecting:
		return "disconnecting.."
	case vpn.StatusDisconnected:
		return "disconnected"
	case vpn.StatusError:
		if c := s.Cause(); c != "" {
			return "error " + c
		}
		return "error"
	default:
		return "inactive"
	}
}

// TitleFor returns the full tray title for a status.
func TitleFor(appName string, s vpn.Status) string {
	return appName + " - " + StatusText(s)
}

// CanConnect reports whether Connect is enabled in status s.
func CanConnect(s vpn.Status) bool {
	return s.Kind == vpn.StatusDisconnected
}

// CanDisconnect reports whether Disconnect is enabled in status s.
func CanDisconnect(s vpn.Status) bool {
	return s.Kind == vpn.StatusConnected || s.Kind == vpn.StatusConnecting
}
