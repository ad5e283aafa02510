package vpn

import (
	"errors"
	"io"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/daemon"
)

// StatusSink receives every projected status.
type StatusSink interface {
	ApplyStatus(status Status)
}

// Reconciler consumes the daemon event stream and applies tunnel state
// events to a StatusSink. It owns the stream and is not restartable.
type Reconciler struct {
	events daemon.EventStream
	sink   StatusSink
}

// NewReconciler creates a reconciler over events.
func NewReconciler(events daemon.EventStream, sink StatusSink) *Reconciler {
	return &Reconciler{events: events, sink: sink}
}

// Run processes events until the stream ends or fails. It always returns a
// non-nil error: common.ErrStreamClosed when the daemon ended the stream,
// otherwise the wrapped transport error. Cancel the context the stream was
// opened with to stop it.
func (r *Reconciler) Run() error {
	common.LogInfo("Listening for daemon events")

	for {
		ev, err := r.events.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return common.ErrStreamClosed
			}
			return common.WrapError(err, "daemon event stream failed")
		}
		r.handle(ev)
	}
}

func (r *Reconciler) handle(ev *daemon.Event) {
	if ev == nil || ev.Kind != daemon.EventTunnelState {
		kind := daemon.EventUnset
		if ev != nil {
			kind = ev.Kind
		}
		common.LogDebug("Ignoring daemon event: %s", kind)
		return
	}

	status := Project(ev.TunnelState)
	common.LogDebug("Tunnel state: %s", status.Kind)
	r.sink.ApplyStatus(status)
}
