package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	orchestration "github.com/koscakluka/ema-console/core"
	"github.com/koscakluka/ema-console/core/activitylog"
	"github.com/koscakluka/ema-console/core/diff"
	"github.com/koscakluka/ema-console/core/replies"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginTop(1)

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Underline(true)

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

const timestampLayout = "15:04:05"

func renderHeader(snapshot orchestration.Snapshot, busy string) string {
	header := fmt.Sprintf("%s  state %s  style %s",
		titleStyle.Render("ema-console"),
		stateStyle.Render(snapshot.State.String()),
		stateStyle.Render(snapshot.SelectedStyle.String()),
	)
	if snapshot.Busy {
		header += "  " + busy + " " + mutedStyle.Render(snapshot.InFlight.String())
	}
	return header
}

func renderTranscript(snapshot orchestration.Snapshot, width int) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Transcript"))
	b.WriteString("\n")
	switch {
	case snapshot.Transcript != "":
		b.WriteString(wordwrap.String(snapshot.Transcript, width))
		if snapshot.TranscriptEdited() {
			b.WriteString("\n")
			b.WriteString(mutedStyle.Render(wordwrap.String("edited, was: "+snapshot.OriginalTranscript, width)))
		}
	case snapshot.HasAudio:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s of audio captured", snapshot.AudioDuration.Round(100*time.Millisecond))))
	default:
		b.WriteString(mutedStyle.Render("nothing yet"))
	}
	return b.String()
}

func renderDraft(draft *replies.Draft, showDiff bool, width int) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Draft"))
	b.WriteString("\n")
	if draft == nil {
		b.WriteString(mutedStyle.Render("no pending draft"))
		return b.String()
	}

	fmt.Fprintf(&b, "To:      %s\n", strings.Join(draft.Recipients, ", "))
	if len(draft.Cc) > 0 {
		fmt.Fprintf(&b, "Cc:      %s\n", strings.Join(draft.Cc, ", "))
	}
	fmt.Fprintf(&b, "Subject: %s\n", draft.Subject)
	if len(draft.AppliedStyles) > 0 {
		fmt.Fprintf(&b, "Styles:  %s\n", strings.Join(draft.AppliedStyles, ", "))
	}
	b.WriteString("\n")

	if showDiff {
		b.WriteString(renderDiff(draft, width))
	} else {
		b.WriteString(wordwrap.String(draft.Body(), width))
	}
	return b.String()
}

func renderDiff(draft *replies.Draft, width int) string {
	if draft.StyledBody == "" {
		return mutedStyle.Render("apply a style to compare")
	}

	result := diff.Compute(draft.RawBody, draft.StyledBody)
	rendered := wordwrap.String(result.Text(func(token string) string { return addedStyle.Render(token) }), width)
	if len(result.Removed) == 0 {
		return rendered
	}
	removed := make([]string, len(result.Removed))
	for i, token := range result.Removed {
		removed[i] = removedStyle.Render(token)
	}
	return rendered + "\n\n" + mutedStyle.Render("removed: ") + strings.Join(removed, " ")
}

func renderActivity(entries []activitylog.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		line := entry.Timestamp.Format(timestampLayout) + " " + entry.Message
		switch entry.Level {
		case activitylog.LevelError:
			line = errorStyle.Render(line)
		case activitylog.LevelWarn:
			line = warnStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderStatus(result orchestration.Result) string {
	if result.OK() {
		return mutedStyle.Render(fmt.Sprintf("%s: %s → %s", result.Action, result.From, result.To))
	}
	if result.Kind == orchestration.KindRejected {
		return warnStyle.Render(result.Err.Error())
	}
	return errorStyle.Render(result.Err.Error())
}
