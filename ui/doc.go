// Package ui presents the VPN connection status in the system tray.
//
// Model is the core: it holds the current vpn.Status and the location
// catalog, and derives the tray title, the symbolic icon name and the menu
// tree from them. Status replacement is atomic, so a reader never sees the
// title of one status next to the icon of another. View derives all three
// from a single read.
//
// # Shells
//
//   - TrayIndicator: fyne.io/systray tray, re-rendered on every status change
//   - DesktopNotifier: freedesktop notifications over D-Bus
//
// Both only read the Model; menu actions go through a Commander and never
// change the status themselves.
//
// # File Organization
//
//   - model.go: Model, View and change subscriptions
//   - presentation.go: title and icon tables, menu enablement
//   - menu.go: menu tree derivation
//   - tray.go: system tray shell
//   - icons.go: icon theme lookup and generated fallback icons
//   - notifications.go: desktop notifications on status transitions
//   - app.go: startup wiring
package ui
