package ui

import (
	"sync"

	"fyne.io/systray"

	"github.com/yllada/mulltray/common"
)

// TrayIndicator shows a Model in the system tray. The menu is rebuilt from
// Model.View on every status change, so it always matches the title and icon
// shown next to it.
type TrayIndicator struct {
	model *Model
	icons *IconResolver

	mu     sync.Mutex
	stop   chan struct{}
	onQuit func()
}

// NewTrayIndicator creates a tray for model. onQuit runs when the user picks
// Quit, before the tray loop ends.
func NewTrayIndicator(model *Model, icons *IconResolver, onQuit func()) *TrayIndicator {
	return &TrayIndicator{model: model, icons: icons, onQuit: onQuit}
}

// Run starts the tray and blocks until Quit is called.
func (t *TrayIndicator) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit ends the tray loop.
func (t *TrayIndicator) Quit() {
	systray.Quit()
}

func (t *TrayIndicator) onReady() {
	changed, unsubscribe := t.model.Subscribe()
	t.render()

	go func() {
		defer unsubscribe()
		for range changed {
			t.render()
		}
	}()
}

func (t *TrayIndicator) onExit() {
	t.mu.Lock()
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
	t.mu.Unlock()

	common.LogInfo("Tray indicator cleanup completed")
}

// render replaces icon, title and menu with a fresh view of the model.
func (t *TrayIndicator) render() {
	view := t.model.View()
	common.LogInfo("Tray: %s", view.Title)

	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetIcon(t.icons.Resolve(view.Icon))
	systray.SetTitle(view.Title)
	systray.SetTooltip(view.Title)

	if t.stop != nil {
		close(t.stop)
	}
	t.stop = make(chan struct{})

	systray.ResetMenu()
	for _, item := range view.Menu.Items {
		t.addItem(nil, item, t.stop)
	}

	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "Quit "+common.AppName)
	go t.watchClicks(quit, t.stop, func() {
		if t.onQuit != nil {
			t.onQuit()
		}
		systray.Quit()
	})
}

func (t *TrayIndicator) addItem(parent *systray.MenuItem, item *MenuItem, stop chan struct{}) {
	var entry *systray.MenuItem
	if parent == nil {
		entry = systray.AddMenuItem(item.Label, item.Label)
	} else {
		entry = parent.AddSubMenuItem(item.Label, item.Label)
	}
	if !item.Enabled {
		entry.Disable()
	}

	if item.Submenu {
		for _, child := range item.Children {
			t.addItem(entry, child, stop)
		}
		return
	}
	go t.watchClicks(entry, stop, item.Trigger)
}

// watchClicks runs action for each click until the menu it belongs to is
// replaced.
func (t *TrayIndicator) watchClicks(entry *systray.MenuItem, stop <-chan struct{}, action func()) {
	for {
		select {
		case <-stop:
			return
		case <-entry.ClickedCh:
			action()
		}
	}
}
