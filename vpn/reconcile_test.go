package vpn

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/daemon"
)

type fakeStream struct {
	events []*daemon.Event
	err    error
}

func (s *fakeStream) Recv() (*daemon.Event, error) {
	if len(s.events) == 0 {
		return nil, s.err
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

type recordingSink struct {
	applied []Status
}

func (s *recordingSink) ApplyStatus(status Status) {
	s.applied = append(s.applied, status)
}

func tunnelEvent(state *daemon.TunnelState) *daemon.Event {
	return &daemon.Event{Kind: daemon.EventTunnelState, TunnelState: state}
}

func TestReconcilerAppliesTunnelStates(t *testing.T) {
	stream := &fakeStream{
		events: []*daemon.Event{
			tunnelEvent(&daemon.TunnelState{Kind: daemon.StateConnecting}),
			{Kind: daemon.EventSettings},
			{Kind: daemon.EventRelayList},
			{Kind: daemon.EventVersionInfo},
			{Kind: daemon.EventDevice},
			{Kind: daemon.EventRemoveDevice},
			{Kind: daemon.EventNewAccessMethod},
			{Kind: daemon.EventUnset},
			nil,
			tunnelEvent(&daemon.TunnelState{
				Kind:      daemon.StateConnected,
				RelayInfo: &daemon.RelayInfo{Location: &daemon.GeoIPLocation{Hostname: "fi-hel-wg-101"}},
			}),
			tunnelEvent(nil),
		},
		err: io.EOF,
	}
	sink := &recordingSink{}

	err := NewReconciler(stream, sink).Run()
	assert.ErrorIs(t, err, common.ErrStreamClosed)

	require.Len(t, sink.applied, 3)
	assert.Equal(t, StatusConnecting, sink.applied[0].Kind)
	assert.Equal(t, StatusConnected, sink.applied[1].Kind)
	assert.Equal(t, "fi-hel-wg-101", sink.applied[1].Hostname())
	assert.Equal(t, StatusInactive, sink.applied[2].Kind)
}

func TestReconcilerTransportFailure(t *testing.T) {
	transport := errors.New("connection reset")
	stream := &fakeStream{err: transport}

	err := NewReconciler(stream, &recordingSink{}).Run()
	assert.ErrorIs(t, err, transport)
	assert.False(t, errors.Is(err, common.ErrStreamClosed))
}
