package activitylog

import (
	"fmt"
	"testing"
	"time"
)

func TestEntriesAreNewestFirst(t *testing.T) {
	l := New(10)
	l.Infof("first")
	l.Warnf("second")
	l.Errorf("third %d", 3)

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	got := []string{entries[0].Message, entries[1].Message, entries[2].Message}
	want := []string{"third 3", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if entries[0].Level != LevelError || entries[1].Level != LevelWarn || entries[2].Level != LevelInfo {
		t.Fatalf("unexpected levels %v %v %v", entries[0].Level, entries[1].Level, entries[2].Level)
	}
}

func TestOldestEntriesAreDroppedPastCapacity(t *testing.T) {
	l := New(3)
	for i := range 5 {
		l.Infof("entry %d", i)
	}

	entries := l.Entries()
	if len(entries) != 3 || l.Len() != 3 {
		t.Fatalf("expected 3 retained entries, got %d", len(entries))
	}
	for i, want := range []string{"entry 4", "entry 3", "entry 2"} {
		if entries[i].Message != want {
			t.Fatalf("expected entry %d to be %q, got %q", i, want, entries[i].Message)
		}
	}
}

func TestEntriesHaveTimestampsAndUniqueIDs(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	l := New(0, WithClock(func() time.Time { return at }))
	if l.Capacity() != DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", DefaultCapacity, l.Capacity())
	}

	seen := map[string]bool{}
	for i := range 20 {
		entry := l.Append(LevelInfo, fmt.Sprint(i))
		if !entry.Timestamp.Equal(at) {
			t.Fatalf("expected timestamp %v, got %v", at, entry.Timestamp)
		}
		if entry.ID == "" || seen[entry.ID] {
			t.Fatalf("expected unique entry id, got %q", entry.ID)
		}
		seen[entry.ID] = true
	}
}

func TestEntriesReturnsACopy(t *testing.T) {
	l := New(2)
	l.Infof("kept")

	entries := l.Entries()
	entries[0].Message = "mutated"

	if got := l.Entries()[0].Message; got != "kept" {
		t.Fatalf("expected log to be unaffected, got %q", got)
	}
}
