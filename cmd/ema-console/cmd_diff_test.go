package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiffCommand_RequiresTwoArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", []string{"diff"}},
		{"one arg", []string{"diff", "a b c"}},
		{"three args", []string{"diff", "a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCommand(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestDiffCommand_Identical(t *testing.T) {
	out, err := runCommand(t, "diff", "--plain", "a b c", "a b c")
	require.NoError(t, err)
	assert.Equal(t, "a b c\n0 added, 0 removed\n", out)
}

func TestDiffCommand_RepeatedWordsMatchByCount(t *testing.T) {
	out, err := runCommand(t, "diff", "--plain", "a a b", "a b b")
	require.NoError(t, err)
	assert.Equal(t, "a b {+b+}\nremoved: [-a-]\n1 added, 1 removed\n", out)
}

func TestDiffCommand_Styled(t *testing.T) {
	out, err := runCommand(t, "diff", "hey bob", "dear bob")
	require.NoError(t, err)
	assert.Contains(t, out, "dear")
	assert.Contains(t, out, "removed: ")
	assert.Contains(t, out, "hey")
	assert.Contains(t, out, "1 added, 1 removed\n")
	assert.NotContains(t, out, "{+")
}

func TestDiffCommand_Files(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "raw.txt")
	styled := filepath.Join(dir, "styled.txt")
	require.NoError(t, os.WriteFile(raw, []byte("hey bob lunch tomorrow\n"), 0o644))
	require.NoError(t, os.WriteFile(styled, []byte("Dear Bob,\nlunch tomorrow?\n"), 0o644))

	out, err := runCommand(t, "diff", "--plain", "--files", raw, styled)
	require.NoError(t, err)
	assert.Contains(t, out, "{+Dear+} {+Bob,+} lunch {+tomorrow?+}")
	assert.Contains(t, out, "removed: [-hey-] [-bob-] [-tomorrow-]")
}

func TestDiffCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, "diff", "--files", "missing-raw.txt", "missing-styled.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}
