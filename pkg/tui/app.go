package tui

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metacols/metacols/pkg/models"
	"github.com/metacols/metacols/pkg/transport"
)

// RecordSource is the connection the app edits records from.
// *transport.Client satisfies it.
type RecordSource interface {
	Events() <-chan transport.Event
	Submit(payload []byte) error
	URL() string
}

// Messages for communication with the program
type StatusMsg string

type eventMsg struct {
	event transport.Event
}

type sourceClosedMsg struct{}

// App is the bubbletea model: it waits for records from the source,
// builds the column layout for each one and routes input to the focused
// view.
type App struct {
	source   RecordSource
	settings *models.Settings
	builder  *ViewBuilder
	layout   *Layout

	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	preview     viewport.Model
	showPreview bool
	confirm     *ConfirmationModel

	connected bool
	width     int
	height    int
	statusMsg string
	statusErr bool

	// last payload sent, so quitting right after a submit does not ask
	submitted string
	copyText  func(string) error
}

// NewApp creates the editor for records arriving from source
func NewApp(source RecordSource, settings *models.Settings) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = WaitingStyle

	return &App{
		source:   source,
		settings: settings,
		builder:  NewViewBuilder(settings.Editor),
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  s,
		preview:  viewport.New(0, 0),
		confirm:  NewConfirmation(),
		copyText: clipboard.WriteAll,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.listen())
}

// listen waits for the next transport event
func (a *App) listen() tea.Cmd {
	events := a.source.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return sourceClosedMsg{}
		}
		return eventMsg{event: ev}
	}
}

// Layout returns the layout of the current record, or nil while waiting
func (a *App) Layout() *Layout {
	return a.layout
}

// Status returns the status bar text
func (a *App) Status() string {
	return a.statusMsg
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case spinner.TickMsg:
		if a.layout != nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case eventMsg:
		a.handleEvent(msg.event)
		return a, a.listen()

	case sourceClosedMsg:
		a.connected = false
		a.setStatus("Connection shut down", true)
		return a, nil

	case StatusMsg:
		a.setStatus(string(msg), false)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.MouseMsg:
		if a.layout == nil {
			return a, nil
		}
		if a.showPreview {
			var cmd tea.Cmd
			a.preview, cmd = a.preview.Update(msg)
			return a, cmd
		}
		if ed := a.layout.FocusedEditor(); ed != nil {
			ed.Update(msg)
		}
	}

	return a, nil
}

func (a *App) handleEvent(ev transport.Event) {
	switch ev := ev.(type) {
	case transport.OpenedEvent:
		a.connected = true
		a.setStatus(fmt.Sprintf("Connected to %s", ev.URL), false)

	case transport.RecordEvent:
		a.load(ev.Record)

	case transport.EmptyRecordEvent:
		a.setStatus("Received an empty record, nothing to edit", true)

	case transport.DecodeErrorEvent:
		a.setStatus(ev.Err.Error(), true)

	case transport.ClosedEvent:
		a.connected = false
		a.setStatus(fmt.Sprintf("Connection closed, retrying in %s", ev.RetryIn), true)
	}
}

func (a *App) load(rec models.Record) {
	layout, err := a.builder.Build(rec)
	if err != nil {
		a.setStatus(fmt.Sprintf("Failed to build editor: %v", err), true)
		return
	}

	a.layout = layout
	a.submitted = ""
	a.showPreview = false
	a.resize()
	a.setStatus(fmt.Sprintf("Loaded %d rows, %d fields", rec.Len(), len(rec.Fields)), false)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.confirm.Active() {
		return a.confirm.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()
	case key.Matches(msg, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		a.resize()
		return nil
	}

	if a.layout == nil {
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Submit):
		a.submit()
	case key.Matches(msg, a.keys.Preview):
		a.togglePreview()
	case key.Matches(msg, a.keys.Copy):
		a.copyPayload()
	case a.showPreview:
		if msg.Type == tea.KeyEsc {
			a.showPreview = false
			return nil
		}
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return cmd
	case key.Matches(msg, a.keys.Revert):
		a.revert()
	case key.Matches(msg, a.keys.NextField):
		a.layout.Coordinator.NextField()
	case key.Matches(msg, a.keys.PrevField):
		a.layout.Coordinator.PrevField()
	default:
		col := a.layout.FocusedColumn()
		ed := a.layout.FocusedEditor()
		if col == nil || ed == nil {
			return nil
		}
		if ed.Update(msg) {
			a.layout.RefreshMarks(col.Field)
		}
	}
	return nil
}

func (a *App) quit() tea.Cmd {
	if !a.unsubmitted() {
		return tea.Quit
	}
	a.confirm.ShowInline("Discard unsubmitted edits and quit?", true,
		func() tea.Cmd { return tea.Quit },
		nil,
	)
	return nil
}

func (a *App) unsubmitted() bool {
	if a.layout == nil || !a.layout.Coordinator.Dirty() {
		return false
	}
	payload, err := a.layout.Payload()
	if err != nil {
		return true
	}
	return string(payload) != a.submitted
}

func (a *App) submit() {
	payload, err := a.layout.Payload()
	if err != nil {
		a.setStatus(fmt.Sprintf("Failed to encode record: %v", err), true)
		return
	}
	if err := a.source.Submit(payload); err != nil {
		a.setStatus(fmt.Sprintf("Submit failed: %v", err), true)
		return
	}
	a.submitted = string(payload)
	a.setStatus(fmt.Sprintf("Submitted %d bytes to %s", len(payload), a.source.URL()), false)
}

func (a *App) togglePreview() {
	if a.showPreview {
		a.showPreview = false
		return
	}

	payload, err := a.layout.Payload()
	if err != nil {
		a.setStatus(fmt.Sprintf("Failed to encode record: %v", err), true)
		return
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		buf.Reset()
		buf.Write(payload)
	}
	a.preview.SetContent(buf.String())
	a.preview.GotoTop()
	a.showPreview = true
}

func (a *App) copyPayload() {
	payload, err := a.layout.Payload()
	if err != nil {
		a.setStatus(fmt.Sprintf("Failed to encode record: %v", err), true)
		return
	}
	if err := a.copyText(string(payload)); err != nil {
		a.setStatus(fmt.Sprintf("Failed to copy to clipboard: %v", err), true)
		return
	}
	a.setStatus("✓ Payload copied to clipboard", false)
}

func (a *App) revert() {
	col := a.layout.FocusedColumn()
	if col == nil {
		return
	}
	if a.layout.Coordinator.Revert(col.Field) {
		a.layout.RefreshMarks(col.Field)
		a.setStatus(fmt.Sprintf("Reverted %s", col.Field), false)
	}
}

func (a *App) setStatus(msg string, isErr bool) {
	a.statusMsg = msg
	a.statusErr = isErr
}

// bodyHeight is what is left after the header, prompt line, status bar
// and help.
func (a *App) bodyHeight() int {
	helpHeight := 1
	if a.help.ShowAll {
		helpHeight = 4
	}
	return max(a.height-3-helpHeight, 1)
}

func (a *App) resize() {
	if a.width == 0 || a.height == 0 {
		return
	}
	a.help.Width = a.width
	a.preview.Width = a.width
	a.preview.Height = a.bodyHeight()
	if a.layout != nil {
		a.layout.SetSize(a.width, a.bodyHeight())
	}
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var body string
	switch {
	case a.layout == nil:
		body = a.waitingView()
	case a.showPreview:
		body = a.preview.View()
	default:
		body = a.layout.View()
	}
	body = lipgloss.NewStyle().Height(a.bodyHeight()).MaxHeight(a.bodyHeight()).Render(body)

	parts := []string{renderHeader(a.width, a.source.URL()), body}
	parts = append(parts, a.confirm.ViewWithWidth(a.width))

	if a.statusMsg != "" {
		style := StatusBarStyle
		if a.statusErr {
			style = StatusErrorStyle
		}
		parts = append(parts, style.Width(a.width).MaxWidth(a.width).Render(a.statusMsg))
	} else {
		parts = append(parts, "")
	}

	parts = append(parts, a.help.View(a.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) waitingView() string {
	msg := fmt.Sprintf("%s Waiting for a record from %s", a.spinner.View(), a.source.URL())
	if !a.connected {
		msg = fmt.Sprintf("%s Connecting to %s", a.spinner.View(), a.source.URL())
	}
	return ContentPaddingStyle.Render(WaitingStyle.Render(msg))
}
