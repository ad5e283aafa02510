package ui

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/config"
	"github.com/yllada/mulltray/daemon"
	"github.com/yllada/mulltray/vpn"
)

// Application wires the daemon link, the tray model and its shells.
type Application struct {
	cfg  *config.Config
	link daemon.Link

	ctx    context.Context
	cancel context.CancelFunc

	model      *Model
	dispatcher *vpn.Dispatcher
	reconciler *vpn.Reconciler
	notifier   common.Notifier

	quitting  atomic.Bool
	closeOnce sync.Once
}

// NewApplication fetches the initial status and the relay list, subscribes
// to daemon events and builds the model. Any failure here is fatal to the
// caller.
func NewApplication(ctx context.Context, cfg *config.Config, link daemon.Link) (*Application, error) {
	ctx, cancel := context.WithCancel(ctx)

	// Subscribe before reading the state so no change is lost in between.
	events, err := link.EventsListen(ctx)
	if err != nil {
		cancel()
		return nil, common.WrapError(err, "failed to subscribe to daemon events")
	}

	queryCtx, queryCancel := context.WithTimeout(ctx, common.StartupTimeout)
	defer queryCancel()

	state, err := link.GetTunnelState(queryCtx)
	if err != nil {
		cancel()
		return nil, common.WrapError(err, "failed to get tunnel state")
	}
	relays, err := link.GetRelayLocations(queryCtx)
	if err != nil {
		cancel()
		return nil, common.WrapError(err, "failed to get relay locations")
	}

	catalog := vpn.NewCatalog(relays, daemon.RelayTypeWireGuard)
	common.LogInfo("Loaded %d locations", catalog.Len())

	dispatcher := vpn.NewDispatcher(link, cfg.CommandTimeout)
	model := NewModel(vpn.Project(state), catalog, dispatcher)

	return &Application{
		cfg:        cfg,
		link:       link,
		ctx:        ctx,
		cancel:     cancel,
		model:      model,
		dispatcher: dispatcher,
		reconciler: vpn.NewReconciler(events, model),
		notifier:   NewDesktopNotifier(),
	}, nil
}

// Model returns the tray model.
func (a *Application) Model() *Model {
	return a.model
}

// SetNotifier replaces the desktop notifier.
func (a *Application) SetNotifier(n common.Notifier) {
	a.notifier = n
}

// StartReconciler runs the event loop in the background. The returned
// channel receives the loop's terminal error.
func (a *Application) StartReconciler() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.reconciler.Run()
	}()
	return errCh
}

// WatchNotifications raises desktop notifications for status transitions
// until the application is closed. It does nothing when notifications are
// disabled in the configuration.
func (a *Application) WatchNotifications() {
	if !a.cfg.ShowNotifications {
		return
	}
	go watchTransitions(a.model, a.notifier, a.ctx.Done())
}

// Run shows the tray until the user quits, the context passed to
// NewApplication is cancelled, or the event stream ends. It returns nil in
// the first two cases and the event loop's error otherwise.
func (a *Application) Run() error {
	defer a.Close()

	tray := NewTrayIndicator(a.model, NewIconResolver(), func() {
		a.quitting.Store(true)
	})

	done := make(chan error, 1)
	errCh := a.StartReconciler()
	go func() {
		err := <-errCh
		if a.ctx.Err() != nil {
			// Shut down from outside, e.g. by a signal.
			a.quitting.Store(true)
		}
		done <- err
		if !a.quitting.Load() {
			common.LogError("Daemon event loop stopped: %v", err)
		}
		tray.Quit()
	}()
	a.WatchNotifications()

	tray.Run()

	if a.quitting.Load() {
		return nil
	}
	return <-done
}

// Close stops the event stream, waits for pending commands and closes the
// daemon link.
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.dispatcher.Wait()
		if err := a.link.Close(); err != nil {
			common.LogWarn("Failed to close daemon link: %v", err)
		}
	})
}
