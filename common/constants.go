// Package common provides shared constants, types, and utilities
// used across the mulltray application.
package common

import "time"

// Application metadata.
const (
	// AppID is the unique identifier for the application.
	AppID = "net.mullvad.mulltray"
	// AppName is the display name of the application. It prefixes every tray title.
	AppName = "mulltray"
	// ConfigDirName is the name of the configuration directory.
	ConfigDirName = "mulltray"
)

// File names used by the application.
const (
	ConfigFileName = "config.yaml"
	LogFileName    = "mulltray.log"
)

// Daemon connection defaults.
const (
	// DefaultSocketPath is where the VPN daemon exposes its management interface.
	DefaultSocketPath = "/var/run/mullvad-vpn"
	// CommandTimeout bounds a single fire-and-forget command sent to the daemon.
	CommandTimeout = 10 * time.Second
	// StartupTimeout bounds each synchronous query made while the tray starts.
	StartupTimeout = 5 * time.Second
)

// UI constants.
const (
	// TrayIconSize is the size of generated fallback tray icons.
	TrayIconSize = 22
	// NotificationTimeout is how long desktop notifications stay visible.
	NotificationTimeout = 5 * time.Second
)

// Log level names accepted in the configuration file.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)
