package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yllada/mulltray/vpn"
)

func TestTransitionMessage(t *testing.T) {
	helsinki := vpn.Connected(&vpn.RelayInfo{Hostname: "fi-hel-wg-101"})

	tests := []struct {
		name      string
		prev      vpn.Status
		next      vpn.Status
		wantTitle string
		wantBody  string
	}{
		{"connected", vpn.Connecting(nil), helsinki, "VPN Connected", "connected to fi-hel-wg-101"},
		{"relay changed", vpn.Connected(&vpn.RelayInfo{Hostname: "se-got-wg-001"}), helsinki, "VPN Connected", "connected to fi-hel-wg-101"},
		{"same relay", helsinki, helsinki, "", ""},
		{"error", vpn.Connecting(nil), vpn.ErrorStatus(&vpn.ErrorDetail{Cause: "7"}), "VPN Error", "error 7"},
		{"repeated error", vpn.ErrorStatus(nil), vpn.ErrorStatus(nil), "", ""},
		{"disconnected after connected", helsinki, vpn.Disconnected(), "VPN Disconnected", "disconnected"},
		{"disconnected after disconnecting", vpn.Disconnecting(), vpn.Disconnected(), "VPN Disconnected", "disconnected"},
		{"disconnected at startup", vpn.Inactive(), vpn.Disconnected(), "", ""},
		{"connecting", vpn.Disconnected(), vpn.Connecting(nil), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body, ok := transitionMessage(tt.prev, tt.next)
			assert.Equal(t, tt.wantTitle != "", ok)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	icons []string
	err   error
}

func (n *fakeNotifier) NotifyWithIcon(title, message, icon string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, title+": "+message)
	n.icons = append(n.icons, icon)
	return n.err
}

func (n *fakeNotifier) snapshot() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

func TestWatchTransitions(t *testing.T) {
	m := NewModel(vpn.Connecting(nil), testCatalog(), &recordingCommander{})
	notifier := &fakeNotifier{err: errors.New("no notification daemon")}
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		watchTransitions(m, notifier, stop)
		close(done)
	}()

	// Wait for the watcher to subscribe before changing the status.
	assert.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return len(m.subscribers) == 1
	}, time.Second, 5*time.Millisecond)

	m.ApplyStatus(vpn.Connected(&vpn.RelayInfo{Hostname: "fi-hel-wg-101"}))
	assert.Eventually(t, func() bool {
		return len(notifier.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	close(stop)
	<-done

	assert.Equal(t, []string{"VPN Connected: connected to fi-hel-wg-101"}, notifier.snapshot())
	assert.Equal(t, []string{string(IconConnected)}, notifier.icons)
}
