package ui

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/config"
	"github.com/yllada/mulltray/daemon"
	"github.com/yllada/mulltray/vpn"
)

type chanStream struct {
	events chan *daemon.Event
}

func (s *chanStream) Recv() (*daemon.Event, error) {
	ev, ok := <-s.events
	if !ok {
		return nil, io.EOF
	}
	return ev, nil
}

type fakeLink struct {
	mu        sync.Mutex
	state     *daemon.TunnelState
	relays    *daemon.RelayList
	stream    *chanStream
	stateErr  error
	locations []daemon.LocationConstraint
	closed    bool
}

func (l *fakeLink) GetTunnelState(context.Context) (*daemon.TunnelState, error) {
	return l.state, l.stateErr
}

func (l *fakeLink) GetRelayLocations(context.Context) (*daemon.RelayList, error) {
	return l.relays, nil
}

func (l *fakeLink) EventsListen(context.Context) (daemon.EventStream, error) {
	return l.stream, nil
}

func (l *fakeLink) ConnectTunnel(context.Context) error    { return nil }
func (l *fakeLink) DisconnectTunnel(context.Context) error { return nil }

func (l *fakeLink) SetLocation(_ context.Context, location daemon.LocationConstraint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locations = append(l.locations, location)
	return nil
}

func (l *fakeLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

func newFakeLink() *fakeLink {
	return &fakeLink{
		state: &daemon.TunnelState{Kind: daemon.StateDisconnected},
		relays: &daemon.RelayList{Countries: []daemon.Country{
			{Name: "Sweden", Code: "se", Cities: []daemon.City{
				{Name: "Gothenburg", Code: "got", Relays: []daemon.Relay{
					{Hostname: "se-got-wg-001", EndpointType: daemon.RelayTypeWireGuard},
				}},
			}},
		}},
		stream: &chanStream{events: make(chan *daemon.Event, 4)},
	}
}

func TestApplicationStartupAndEvents(t *testing.T) {
	link := newFakeLink()
	app, err := NewApplication(context.Background(), config.DefaultConfig(), link)
	require.NoError(t, err)

	m := app.Model()
	assert.Equal(t, "mulltray - disconnected", m.Title())
	assert.Equal(t, 1, m.Catalog().Len())

	errCh := app.StartReconciler()
	link.stream.events <- &daemon.Event{
		Kind: daemon.EventTunnelState,
		TunnelState: &daemon.TunnelState{
			Kind:      daemon.StateConnected,
			RelayInfo: &daemon.RelayInfo{Location: &daemon.GeoIPLocation{Hostname: "se-got-wg-001"}},
		},
	}
	assert.Eventually(t, func() bool {
		return m.Title() == "mulltray - connected to se-got-wg-001"
	}, time.Second, 5*time.Millisecond)

	close(link.stream.events)
	assert.ErrorIs(t, <-errCh, common.ErrStreamClosed)

	app.Close()
	assert.True(t, link.closed)
}

func TestApplicationSetLocationLeavesStatus(t *testing.T) {
	link := newFakeLink()
	app, err := NewApplication(context.Background(), config.DefaultConfig(), link)
	require.NoError(t, err)

	m := app.Model()
	before := m.Status()
	m.BuildMenu().Find("se-got-wg-001").Trigger()
	app.Close()

	assert.Equal(t, []daemon.LocationConstraint{{Country: "se", City: "got", Hostname: "se-got-wg-001"}}, link.locations)
	assert.True(t, before.Equal(m.Status()))
}

func TestApplicationStartupFailure(t *testing.T) {
	link := newFakeLink()
	link.stateErr = common.ErrDaemonUnavailable

	_, err := NewApplication(context.Background(), config.DefaultConfig(), link)
	assert.True(t, errors.Is(err, common.ErrDaemonUnavailable))
}

func TestApplicationNotificationsDisabled(t *testing.T) {
	link := newFakeLink()
	cfg := config.DefaultConfig()
	cfg.ShowNotifications = false

	app, err := NewApplication(context.Background(), cfg, link)
	require.NoError(t, err)
	notifier := &fakeNotifier{}
	app.SetNotifier(notifier)
	app.WatchNotifications()

	app.Model().ApplyStatus(vpn.Connected(nil))
	app.Close()
	assert.Empty(t, notifier.snapshot())
}
