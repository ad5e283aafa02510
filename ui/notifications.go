package ui

import (
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/vpn"
)

const (
	notificationsName   = "org.freedesktop.Notifications"
	notificationsPath   = "/org/freedesktop/Notifications"
	notificationsNotify = notificationsName + ".Notify"
)

// DesktopNotifier sends freedesktop notifications over the session bus.
// Consecutive notifications replace each other.
type DesktopNotifier struct {
	appName string

	mu        sync.Mutex
	conn      *dbus.Conn
	replaceID uint32
}

// NewDesktopNotifier creates a notifier. The session bus is connected on
// first use.
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{appName: common.AppName}
}

// NotifyWithIcon sends a notification with the given icon name.
func (n *DesktopNotifier) NotifyWithIcon(title, message, icon string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		conn, err := dbus.SessionBus()
		if err != nil {
			return common.WrapError(err, "failed to connect to session bus")
		}
		n.conn = conn
	}

	obj := n.conn.Object(notificationsName, dbus.ObjectPath(notificationsPath))
	call := obj.Call(notificationsNotify, 0,
		n.appName,
		n.replaceID,
		icon,
		title,
		message,
		[]string{},
		map[string]dbus.Variant{"desktop-entry": dbus.MakeVariant(common.AppID)},
		int32(common.NotificationTimeout.Milliseconds()),
	)
	if call.Err != nil {
		return common.WrapError(call.Err, "failed to send notification")
	}
	return call.Store(&n.replaceID)
}

// transitionMessage returns the notification for a status change, or false
// when the change is not worth a notification.
func transitionMessage(prev, next vpn.Status) (title, body string, ok bool) {
	switch next.Kind {
	case vpn.StatusConnected:
		if prev.Kind == vpn.StatusConnected && prev.Hostname() == next.Hostname() {
			return "", "", false
		}
		return "VPN Connected", StatusText(next), true
	case vpn.StatusError:
		if prev.Equal(next) {
			return "", "", false
		}
		return "VPN Error", StatusText(next), true
	case vpn.StatusDisconnected:
		if prev.Kind != vpn.StatusConnected && prev.Kind != vpn.StatusDisconnecting {
			return "", "", false
		}
		return "VPN Disconnected", StatusText(next), true
	default:
		return "", "", false
	}
}

// watchTransitions sends a notification for every notable status change of
// model until stop is closed. Failures are logged only.
func watchTransitions(model *Model, notifier common.Notifier, stop <-chan struct{}) {
	changed, unsubscribe := model.Subscribe()
	defer unsubscribe()

	prev := model.Status()
	for {
		select {
		case <-stop:
			return
		case <-changed:
		}

		next := model.Status()
		if title, body, ok := transitionMessage(prev, next); ok {
			if err := notifier.NotifyWithIcon(title, body, string(IconFor(next))); err != nil {
				common.LogWarn("Notification failed: %v", err)
			}
		}
		prev = next
	}
}
