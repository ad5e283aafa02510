package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/daemon"
	"github.com/yllada/mulltray/ui"
	"github.com/yllada/mulltray/vpn"
)

type fakeLink struct {
	mu          sync.Mutex
	state       *daemon.TunnelState
	relays      *daemon.RelayList
	err         error
	connects    int
	disconnects int
	locations   []daemon.LocationConstraint
}

func (l *fakeLink) GetTunnelState(context.Context) (*daemon.TunnelState, error) {
	return l.state, l.err
}

func (l *fakeLink) GetRelayLocations(context.Context) (*daemon.RelayList, error) {
	return l.relays, l.err
}

func (l *fakeLink) EventsListen(context.Context) (daemon.EventStream, error) {
	return nil, errors.New("not supported")
}

func (l *fakeLink) ConnectTunnel(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.connects++
	return l.err
}

func (l *fakeLink) DisconnectTunnel(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disconnects++
	return l.err
}

func (l *fakeLink) SetLocation(_ context.Context, location daemon.LocationConstraint) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locations = append(l.locations, location)
	return l.err
}

func (l *fakeLink) Close() error { return nil }

func TestStatus(t *testing.T) {
	var out bytes.Buffer
	link := &fakeLink{state: &daemon.TunnelState{
		Kind: daemon.StateConnected,
		RelayInfo: &daemon.RelayInfo{Location: &daemon.GeoIPLocation{
			Hostname: "fi-hel-wg-101", Country: "Finland", City: "Helsinki",
		}},
	}}

	require.NoError(t, New(link, &out).Status(context.Background()))

	assert.Contains(t, out.String(), "mulltray")
	assert.Contains(t, out.String(), "connected to fi-hel-wg-101")
	assert.Contains(t, out.String(), "network-vpn-symbolic")
	assert.Contains(t, out.String(), "Helsinki, Finland")
}

func TestStatusError(t *testing.T) {
	link := &fakeLink{err: common.ErrDaemonUnavailable}
	err := New(link, &bytes.Buffer{}).Status(context.Background())
	assert.ErrorIs(t, err, common.ErrDaemonUnavailable)
}

func TestLocations(t *testing.T) {
	var out bytes.Buffer
	link := &fakeLink{relays: &daemon.RelayList{Countries: []daemon.Country{
		{Name: "Sweden", Code: "se", Cities: []daemon.City{{Code: "got", Relays: []daemon.Relay{
			{Hostname: "se-got-wg-001", EndpointType: daemon.RelayTypeWireGuard},
			{Hostname: "se-got-ovpn-001", EndpointType: daemon.RelayTypeOpenVPN},
		}}}},
		{Name: "Finland", Code: "fi", Cities: []daemon.City{{Code: "hel", Relays: []daemon.Relay{
			{Hostname: "fi-hel-wg-101", EndpointType: daemon.RelayTypeWireGuard},
		}}}},
	}}}

	require.NoError(t, New(link, &out).Locations(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"REGION", "CODE", "CITY", "HOSTNAME"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Finland", "fi", "hel", "fi-hel-wg-101"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Sweden", "se", "got", "se-got-wg-001"}, strings.Fields(lines[3]))
}

func TestLocationsEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, New(&fakeLink{relays: &daemon.RelayList{}}, &out).Locations(context.Background()))
	assert.Equal(t, "No locations available.\n", out.String())
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	link := &fakeLink{}
	c := New(link, &out)

	require.NoError(t, c.Connect(context.Background()))
	require.NoError(t, c.Disconnect(context.Background()))
	require.NoError(t, c.SetLocation(context.Background(), vpn.Target{Country: "se", City: "got"}))

	assert.Equal(t, 1, link.connects)
	assert.Equal(t, 1, link.disconnects)
	assert.Equal(t, []daemon.LocationConstraint{{Country: "se", City: "got"}}, link.locations)
	assert.Contains(t, out.String(), "Location set to se/got")

	assert.Error(t, c.SetLocation(context.Background(), vpn.Target{}))
}

func TestCommandFailure(t *testing.T) {
	link := &fakeLink{err: common.ErrUnsupportedRelaySettings}
	err := New(link, &bytes.Buffer{}).SetLocation(context.Background(), vpn.Target{Country: "se"})
	assert.ErrorIs(t, err, common.ErrUnsupportedRelaySettings)
}

type recordingCommander struct {
	connects, disconnects int
}

func (c *recordingCommander) Connect()               { c.connects++ }
func (c *recordingCommander) Disconnect()            { c.disconnects++ }
func (c *recordingCommander) SetLocation(vpn.Target) {}

func TestWatchModel(t *testing.T) {
	cmd := &recordingCommander{}
	model := ui.NewModel(vpn.Disconnected(), vpn.NewCatalog(nil, daemon.RelayTypeWireGuard), cmd)
	changed := make(chan struct{}, 1)
	ended := make(chan error, 1)

	var m tea.Model = newWatchModel(model, changed, ended)
	assert.Contains(t, m.View(), "mulltray - disconnected")

	// Disconnect is disabled while disconnected.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Equal(t, 1, cmd.connects)
	assert.Equal(t, 0, cmd.disconnects)

	model.ApplyStatus(vpn.Connected(&vpn.RelayInfo{Hostname: "fi-hel-wg-101"}))
	m, next := m.Update(statusChangedMsg{})
	assert.NotNil(t, next)
	assert.Contains(t, m.View(), "mulltray - connected to fi-hel-wg-101")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	assert.Equal(t, 1, cmd.disconnects)

	m, quit := m.Update(streamEndedMsg{err: common.ErrStreamClosed})
	require.NotNil(t, quit)
	assert.Equal(t, tea.QuitMsg{}, quit())
	assert.Contains(t, m.View(), common.ErrStreamClosed.Error())
}
