// Package common provides shared constants, types, utilities, and interfaces
// used throughout mulltray.
//
// This package serves as the foundation for cross-cutting concerns:
//
//   - Constants: application name, socket path, timeouts and file names
//   - Errors: sentinel errors for daemon, relay settings and configuration failures
//   - Interfaces: abstractions for notifications and logging
//   - Logger: levelled logging on zap with an optional rotating file
//   - Utils: config and log directory helpers
//
// # Usage
//
//	common.LogInfo("Connected to daemon at %s", socketPath)
//
//	if errors.Is(err, common.ErrStreamClosed) {
//	    // The daemon ended the event stream
//	}
package common
