package logbook

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// tailCapacity bounds the entries kept in memory for Tail.
const tailCapacity = 64

// Logbook appends diagnostics to a plain text file so users can inspect what
// the menu did after the host has exited. A nil *Logbook discards everything.
type Logbook struct {
	path  string
	mu    sync.Mutex
	clock func() time.Time
	echo  io.Writer

	recent []string
	total  int
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithClock overrides the timestamp source.
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithEcho mirrors every entry to w (the CLI passes stderr with --verbose).
func WithEcho(w io.Writer) Option {
	return func(l *Logbook) {
		l.echo = w
	}
}

// New creates a logbook that writes to the provided path.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	l := &Logbook{path: path, clock: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.load()
	return l, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s %-5s %s\n",
		l.clock().UTC().Format(time.RFC3339),
		string(level),
		strings.TrimSpace(message),
	)
	if l.echo != nil {
		_, _ = io.WriteString(l.echo, line)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		l.remember(strings.TrimSuffix(line, "\n"))
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
	l.remember(strings.TrimSuffix(line, "\n"))
}

// Tail returns up to maxLines of the most recent entries and the total
// number of entries in the file. Entries come from memory; the file is read
// once, when the logbook is opened.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.total == 0 {
		return nil, 0
	}
	n := min(maxLines, len(l.recent))
	return append([]string(nil), l.recent[len(l.recent)-n:]...), l.total
}

// remember keeps line in the bounded tail. Callers hold mu.
func (l *Logbook) remember(line string) {
	l.total++
	l.recent = append(l.recent, line)
	if over := len(l.recent) - tailCapacity; over > 0 {
		l.recent = append(l.recent[:0], l.recent[over:]...)
	}
}

// load reads the existing file into the tail.
func (l *Logbook) load() {
	file, err := os.Open(l.path)
	if err != nil {
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		l.remember(scanner.Text())
	}
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
