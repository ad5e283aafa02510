package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yllada/mulltray/common"
	"github.com/yllada/mulltray/ui"
)

type watchKeys struct {
	Connect    key.Binding
	Disconnect key.Binding
	Quit       key.Binding
}

var defaultWatchKeys = watchKeys{
	Connect: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "connect"),
	),
	Disconnect: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disconnect"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	styleKey      = lipgloss.NewStyle().Bold(true)
	styleDisabled = lipgloss.NewStyle().Faint(true)
)

type statusChangedMsg struct{}

type streamEndedMsg struct{ err error }

// watchModel is a terminal rendition of the tray: the same title and the
// same Connect/Disconnect enablement, driven by the same ui.Model.
type watchModel struct {
	model   *ui.Model
	changed <-chan struct{}
	ended   <-chan error
	keys    watchKeys
	spinner spinner.Model
	view    ui.View
	err     error
}

func newWatchModel(model *ui.Model, changed <-chan struct{}, ended <-chan error) watchModel {
	return watchModel{
		model:   model,
		changed: changed,
		ended:   ended,
		keys:    defaultWatchKeys,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		view:    model.View(),
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return statusChangedMsg{}
	}
}

func waitForEnd(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return streamEndedMsg{err: <-ch}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.changed), waitForEnd(m.ended), m.spinner.Tick)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Connect):
			m.view.Menu.Find(ui.LabelConnect).Trigger()
		case key.Matches(msg, m.keys.Disconnect):
			m.view.Menu.Find(ui.LabelDisconnect).Trigger()
		}
		return m, nil

	case statusChangedMsg:
		m.view = m.model.View()
		return m, waitForChange(m.changed)

	case streamEndedMsg:
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	line := statusStyle(m.view.Icon).Render(m.view.Title)
	if m.view.Icon == ui.IconAcquiring {
		line = m.spinner.View() + " " + line
	}
	b.WriteString(line + "\n")
	b.WriteString(styleLabel.Render(string(m.view.Icon)) + "\n\n")

	hints := []string{
		hint(m.keys.Connect, m.view.Menu.Find(ui.LabelConnect).Enabled),
		hint(m.keys.Disconnect, m.view.Menu.Find(ui.LabelDisconnect).Enabled),
		hint(m.keys.Quit, true),
	}
	b.WriteString(strings.Join(hints, "  •  ") + "\n")

	if m.err != nil {
		b.WriteString("\n" + styleError.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func hint(binding key.Binding, enabled bool) string {
	h := binding.Help()
	if !enabled {
		return styleDisabled.Render(h.Key + " " + h.Desc)
	}
	return styleKey.Render(h.Key) + " " + h.Desc
}

// Watch shows the live status of app in the terminal until the user quits
// or the daemon event stream ends. The event stream ending is returned as
// an error.
func Watch(app *ui.Application) error {
	changed, unsubscribe := app.Model().Subscribe()
	defer unsubscribe()

	ended := app.StartReconciler()
	common.LogDebug("Starting terminal watch")

	final, err := tea.NewProgram(newWatchModel(app.Model(), changed, ended)).Run()
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	if m, ok := final.(watchModel); ok && m.err != nil {
		return m.err
	}
	return nil
}
