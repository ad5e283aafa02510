// Package vpn turns the daemon's raw tunnel state into connection statuses
// and drives commands back to the daemon.
//
// # Status
//
// Status is a closed set of six variants (Inactive, Connecting, Connected,
// Disconnecting, Disconnected, Error). Project maps a raw daemon state to a
// Status; it is total and deterministic, so malformed input degrades to
// Inactive or an unlabelled error instead of failing.
//
// # Event flow
//
//  1. The daemon sends a DaemonEvent on the EventsListen stream
//  2. Reconciler.Run receives it and ignores everything but tunnel state
//  3. Project computes the new Status
//  4. The StatusSink (the tray model) replaces its status in one step
//
// Commands issued through Dispatcher never touch the status directly. Their
// effect, if any, arrives later as an event.
//
// # Locations
//
// LocationCatalog is built once from the daemon's relay list, filtered to a
// single tunnel protocol and sorted by region name.
package vpn
