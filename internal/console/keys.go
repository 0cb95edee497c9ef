package console

import (
	"github.com/charmbracelet/bubbles/key"
	orchestration "github.com/koscakluka/ema-console/core"
)

type keyMap struct {
	Record     key.Binding
	Transcribe key.Binding
	Forward    key.Binding
	Manual     key.Binding
	Edit       key.Binding
	Style      key.Binding
	Apply      key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Diff       key.Binding
	Help       key.Binding
	Quit       key.Binding

	Submit    key.Binding
	Back      key.Binding
	ForceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Record:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record/stop")),
		Transcribe: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "transcribe")),
		Forward:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "forward")),
		Manual:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "type message")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit transcript")),
		Style:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next style")),
		Apply:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "apply style")),
		Confirm:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "send draft")),
		Cancel:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "discard draft")),
		Diff:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "toggle diff")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// enabledFor disables the bindings whose action the session would reject.
func (k keyMap) enabledFor(session Session) keyMap {
	recording := session.Snapshot().State == orchestration.StateRecording
	k.Record.SetEnabled(session.Can(orchestration.ActionBeginCapture) ||
		(recording && session.Can(orchestration.ActionEndCapture)))
	k.Transcribe.SetEnabled(session.Can(orchestration.ActionTranscribe))
	k.Forward.SetEnabled(session.Can(orchestration.ActionForward))
	k.Edit.SetEnabled(session.Can(orchestration.ActionEditTranscript))
	k.Apply.SetEnabled(session.Can(orchestration.ActionApplyStyle))
	k.Confirm.SetEnabled(session.Can(orchestration.ActionDecide))
	k.Cancel.SetEnabled(session.Can(orchestration.ActionDecide))
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Transcribe, k.Forward, k.Confirm, k.Cancel, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Transcribe, k.Forward},
		{k.Manual, k.Edit},
		{k.Style, k.Apply, k.Diff},
		{k.Confirm, k.Cancel},
		{k.Help, k.Quit},
	}
}

type inputKeyMap struct {
	Submit key.Binding
	Back   key.Binding
}

func (k inputKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Submit, k.Back} }

func (k inputKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
