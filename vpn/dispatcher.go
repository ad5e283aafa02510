package vpn

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/daemon"
)

// CommandLink is the subset of the daemon link used to issue commands.
type CommandLink interface {
	ConnectTunnel(ctx context.Context) error
	DisconnectTunnel(ctx context.Context) error
	SetLocation(ctx context.Context, location daemon.LocationConstraint) error
}

// Dispatcher issues daemon commands without waiting for them. Each command
// runs in its own goroutine with a timeout; failures are logged and dropped.
// The outcome of a command is only ever observed through later daemon events.
type Dispatcher struct {
	link    CommandLink
	timeout time.Duration
	log     common.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A non-positive timeout uses
// common.CommandTimeout.
func NewDispatcher(link CommandLink, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = common.CommandTimeout
	}
	return &Dispatcher{link: link, timeout: timeout, log: common.GetLogger()}
}

// SetLogger replaces the logger command outcomes are reported to.
func (d *Dispatcher) SetLogger(log common.Logger) {
	d.log = log
}

// Connect asks the daemon to connect.
func (d *Dispatcher) Connect() {
	d.dispatch("connect", d.link.ConnectTunnel)
}

// Disconnect asks the daemon to disconnect.
func (d *Dispatcher) Disconnect() {
	d.dispatch("disconnect", d.link.DisconnectTunnel)
}

// SetLocation asks the daemon to use the given location.
func (d *Dispatcher) SetLocation(target Target) {
	d.dispatch("set-location", func(ctx context.Context) error {
		return d.link.SetLocation(ctx, target.Constraint())
	})
}

// Wait blocks until all dispatched commands have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(name string, command func(ctx context.Context) error) {
	id := uuid.NewString()
	d.log.Debug("Dispatching %s [%s]", name, id)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := command(ctx); err != nil {
			d.log.Error("Command %s [%s] failed: %s", name, id, daemon.ErrorMessage(err))
			return
		}
		d.log.Debug("Command %s [%s] completed", name, id)
	}()
}
