package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/ema-console/core/diff"
	"github.com/spf13/cobra"
)

var (
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Underline(true)

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Strikethrough(true)
)

type diffOptions struct {
	files bool
	plain bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}
	cmd := &cobra.Command{
		Use:   "diff <raw> <styled>",
		Short: "Show which words a styling pass added or removed",
		Long: `Compare a raw draft body with its styled rewrite, word by word.

Words present in the styled text but not in the raw text are highlighted;
words that disappeared are listed afterwards. Matching is by word count, not
by position, so reordered text shows no difference.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.OutOrStdout(), opts, args[0], args[1])
		},
	}

	cmd.Flags().BoolVar(&opts.files, "files", false, "Treat the arguments as file paths")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Mark added words as {+word+} instead of colouring them")

	return cmd
}

func runDiff(w io.Writer, opts *diffOptions, raw, styled string) error {
	if opts.files {
		var err error
		if raw, err = readText(raw); err != nil {
			return err
		}
		if styled, err = readText(styled); err != nil {
			return err
		}
	}

	markAdded := func(token string) string { return addedStyle.Render(token) }
	markRemoved := func(token string) string { return removedStyle.Render(token) }
	if opts.plain {
		markAdded = func(token string) string { return "{+" + token + "+}" }
		markRemoved = func(token string) string { return "[-" + token + "-]" }
	}

	result := diff.Compute(raw, styled)
	fmt.Fprintln(w, result.Text(markAdded))
	if len(result.Removed) > 0 {
		removed := make([]string, len(result.Removed))
		for i, token := range result.Removed {
			removed[i] = markRemoved(token)
		}
		fmt.Fprintf(w, "removed: %s\n", strings.Join(removed, " "))
	}
	fmt.Fprintf(w, "%d added, %d removed\n", result.AddedCount(), len(result.Removed))
	return nil
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
