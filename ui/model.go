package ui

import (
	"sync"
	"sync/atomic"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/vpn"
)

// Model holds the current connection status and the location catalog and
// derives everything the tray shows from them. ApplyStatus may be called
// from any goroutine; readers always see one complete status.
type Model struct {
	appName string
	catalog *vpn.LocationCatalog
	cmd     Commander
	status  atomic.Pointer[vpn.Status]

	mu          sync.Mutex
	subscribers map[int]chan struct{}
	nextID      int
}

// View is a consistent snapshot of everything derived from one status.
type View struct {
	Status vpn.Status
	Title  string
	Icon   IconID
	Menu   MenuTree
}

// NewModel creates a model showing initial.
func NewModel(initial vpn.Status, catalog *vpn.LocationCatalog, cmd Commander) *Model {
	m := &Model{
		appName:     common.AppName,
		catalog:     catalog,
		cmd:         cmd,
		subscribers: make(map[int]chan struct{}),
	}
	initial = initial.Clone()
	m.status.Store(&initial)
	return m
}

// Status returns the current status.
func (m *Model) Status() vpn.Status {
	return m.status.Load().Clone()
}

// ApplyStatus replaces the current status and wakes subscribers. The model
// keeps its own copy of the payload.
func (m *Model) ApplyStatus(status vpn.Status) {
	status = status.Clone()
	m.status.Store(&status)
	common.LogDebug("Tray status: %s", StatusText(status))
	m.notify()
}

// Catalog returns the location catalog.
func (m *Model) Catalog() *vpn.LocationCatalog {
	return m.catalog
}

// Title returns the full tray title.
func (m *Model) Title() string {
	return TitleFor(m.appName, m.Status())
}

// Icon returns the tray icon identifier.
func (m *Model) Icon() IconID {
	return IconFor(m.Status())
}

// BuildMenu builds the menu for the current status.
func (m *Model) BuildMenu() MenuTree {
	return buildMenu(m.Status(), m.catalog, guardedCommander{m})
}

// View derives title, icon and menu from a single read of the status.
func (m *Model) View() View {
	s := m.Status()
	return View{
		Status: s,
		Title:  TitleFor(m.appName, s),
		Icon:   IconFor(s),
		Menu:   buildMenu(s, m.catalog, guardedCommander{m}),
	}
}

// Subscribe returns a channel that receives a value after status changes.
// Signals coalesce: a slow reader sees one pending signal, never a backlog.
// The returned function unsubscribes.
func (m *Model) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subscribers[id] = ch
	m.mu.Unlock()

	return ch, func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

func (m *Model) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ch := range m.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// guardedCommander checks the status current when an item is clicked, which
// may be newer than the one its menu was rendered from.
type guardedCommander struct {
	m *Model
}

func (g guardedCommander) Connect() {
	if s := g.m.Status(); !CanConnect(s) {
		common.LogDebug("Ignoring connect while %s", s.Kind)
		return
	}
	g.m.cmd.Connect()
}

func (g guardedCommander) Disconnect() {
	if s := g.m.Status(); !CanDisconnect(s) {
		common.LogDebug("Ignoring disconnect while %s", s.Kind)
		return
	}
	g.m.cmd.Disconnect()
}

func (g guardedCommander) SetLocation(target vpn.Target) {
	g.m.cmd.SetLocation(target)
}
