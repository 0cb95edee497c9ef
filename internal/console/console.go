// Package console is the terminal front end: a bubbletea program that renders
// the orchestrator snapshot and turns key presses into session actions.
package console

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/koscakluka/ema-console/core"
	"github.com/koscakluka/ema-console/core/events"
	"github.com/koscakluka/ema-console/core/styles"
)

// Session is the part of the orchestrator the console drives.
type Session interface {
	Snapshot() orchestration.Snapshot
	Can(action orchestration.Action) bool

	BeginCapture(ctx context.Context) orchestration.Result
	EndCapture(ctx context.Context) orchestration.Result
	Transcribe(ctx context.Context) orchestration.Result
	Forward(ctx context.Context) orchestration.Result
	SubmitManual(ctx context.Context) orchestration.Result
	ApplyStyle(ctx context.Context) orchestration.Result
	Decide(ctx context.Context, confirm bool) orchestration.Result

	CycleStyle() styles.Style
	SetManualText(text string)
	SetTranscript(text string) error
	Close(ctx context.Context) error
}

type mode int

const (
	modeBrowse mode = iota
	modeManual
	modeEditTranscript
)

const (
	defaultWidth     = 80
	activityHeight   = 6
	minActivityLines = 3
)

type resultMsg struct{ result orchestration.Result }

type Model struct {
	ctx     context.Context
	session Session
	relay   *EventRelay

	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	input    textinput.Model
	activity viewport.Model

	mode     mode
	showDiff bool
	status   string
	width    int
	height   int
}

func New(ctx context.Context, session Session, relay *EventRelay) Model {
	input := textinput.New()
	input.CharLimit = 2000

	activity := viewport.New(defaultWidth, activityHeight)
	activity.SetContent(renderActivity(session.Snapshot().Activity))

	return Model{
		ctx:      ctx,
		session:  session,
		relay:    relay,
		keys:     newKeyMap(),
		help:     help.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		input:    input,
		activity: activity,
		width:    defaultWidth,
	}
}

// Run blocks until the operator quits or ctx is cancelled.
func Run(ctx context.Context, session Session, relay *EventRelay, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, session, relay), opts...).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	if m.relay == nil {
		return nil
	}
	return m.relay.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = msg.Width - 4
		m.activity.Width = msg.Width
		m.activity.Height = max(minActivityLines, msg.Height/4)
		return m, nil

	case eventMsg:
		return m.handleEvent(msg.event)

	case resultMsg:
		m.status = renderStatus(msg.result)
		m.activity.SetContent(renderActivity(m.session.Snapshot().Activity))
		return m, nil

	case spinner.TickMsg:
		if !m.session.Snapshot().Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.activity, cmd = m.activity.Update(msg)
	return m, cmd
}

func (m Model) handleEvent(event events.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.relay.wait()}
	switch event := event.(type) {
	case events.ActivityLogged:
		m.activity.SetContent(renderActivity(m.session.Snapshot().Activity))
		m.activity.GotoTop()
	case events.BusyChanged:
		if event.Busy {
			cmds = append(cmds, m.spinner.Tick)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keys.enabledFor(m.session)
	switch {
	case key.Matches(msg, keys.Quit):
		_ = m.session.Close(m.ctx)
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, keys.Diff):
		m.showDiff = !m.showDiff

	case key.Matches(msg, keys.Style):
		style := m.session.CycleStyle()
		m.status = mutedStyle.Render("style: " + style.String())

	case key.Matches(msg, keys.Record):
		if m.session.Snapshot().State == orchestration.StateRecording {
			return m, m.run(m.session.EndCapture)
		}
		return m, m.run(m.session.BeginCapture)

	case key.Matches(msg, keys.Transcribe):
		return m, tea.Batch(m.run(m.session.Transcribe), m.spinner.Tick)

	case key.Matches(msg, keys.Forward):
		return m, tea.Batch(m.run(m.session.Forward), m.spinner.Tick)

	case key.Matches(msg, keys.Apply):
		return m, tea.Batch(m.run(m.session.ApplyStyle), m.spinner.Tick)

	case key.Matches(msg, keys.Confirm):
		return m, tea.Batch(m.run(m.decide(true)), m.spinner.Tick)

	case key.Matches(msg, keys.Cancel):
		return m, tea.Batch(m.run(m.decide(false)), m.spinner.Tick)

	case key.Matches(msg, keys.Manual):
		m.mode = modeManual
		m.input.Placeholder = "message to send"
		m.input.SetValue(m.session.Snapshot().ManualText)
		focus := m.input.Focus()
		return m, focus

	case key.Matches(msg, keys.Edit):
		m.mode = modeEditTranscript
		m.input.Placeholder = "transcript"
		m.input.SetValue(m.session.Snapshot().Transcript)
		focus := m.input.Focus()
		return m, focus
	}
	return m, nil
}

// updateInput routes keys to the text input; only ctrl+c quits from here so
// that "q" can be typed.
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		_ = m.session.Close(m.ctx)
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.mode == modeManual {
			m.session.SetManualText(m.input.Value())
		}
		return m.leaveInput(), nil

	case key.Matches(msg, m.keys.Submit):
		value := m.input.Value()
		editing := m.mode == modeEditTranscript
		m = m.leaveInput()
		if editing {
			if err := m.session.SetTranscript(value); err != nil {
				m.status = errorStyle.Render(err.Error())
			}
			return m, nil
		}
		m.session.SetManualText(value)
		return m, tea.Batch(m.run(m.session.SubmitManual), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) leaveInput() Model {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.Reset()
	return m
}

func (m Model) decide(confirm bool) func(context.Context) orchestration.Result {
	return func(ctx context.Context) orchestration.Result {
		return m.session.Decide(ctx, confirm)
	}
}

// run performs action off the update loop and reports its result.
func (m Model) run(action func(context.Context) orchestration.Result) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return resultMsg{result: action(ctx)}
	}
}

func (m Model) View() string {
	snapshot := m.session.Snapshot()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		renderHeader(snapshot, m.spinner.View()),
		renderTranscript(snapshot, width),
		renderDraft(snapshot.PendingDraft, m.showDiff, width),
		sectionStyle.Render("Activity"),
		m.activity.View(),
	}
	if m.status != "" {
		sections = append(sections, "", m.status)
	}

	switch m.mode {
	case modeBrowse:
		sections = append(sections, "", m.help.View(m.keys.enabledFor(m.session)))
	default:
		sections = append(sections, "", m.input.View(),
			m.help.View(inputKeyMap{Submit: m.keys.Submit, Back: m.keys.Back}))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
