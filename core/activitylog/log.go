// Package activitylog keeps a bounded, ordered record of operator-visible
// events.
package activitylog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultCapacity = 200

type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is immutable once appended.
type Entry struct {
	ID        string
	Timestamp time.Time
	Level     Level
	Message   string
}

// Log is a fixed-capacity ring: once full, appending drops the oldest entry.
type Log struct {
	mu       sync.Mutex
	entries  []Entry
	next     int
	size     int
	capacity int

	now func() time.Time
}

type Option func(*Log)

func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func New(capacity int, opts ...Option) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l := &Log{
		entries:  make([]Entry, capacity),
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Log) Append(level Level, message string) Entry {
	entry := Entry{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Level:     level,
		Message:   message,
	}

	l.mu.Lock()
	l.entries[l.next] = entry
	l.next = (l.next + 1) % l.capacity
	if l.size < l.capacity {
		l.size++
	}
	l.mu.Unlock()

	logger.Log(context.Background(), level.slogLevel(), message, "entry_id", entry.ID)
	return entry
}

func (l *Log) Infof(format string, args ...any) Entry {
	return l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Log) Warnf(format string, args ...any) Entry {
	return l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Log) Errorf(format string, args ...any) Entry {
	return l.Append(LevelError, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the retained entries, newest first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, 0, l.size)
	for i := 1; i <= l.size; i++ {
		out = append(out, l.entries[(l.next-i+l.capacity)%l.capacity])
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}

func (l *Log) Capacity() int { return l.capacity }

func (level Level) slogLevel() slog.Level {
	switch level {
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}
