package logbook

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "support.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestAppendFormatsLevelAndTimestamp(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var echo bytes.Buffer
	book, err := New(filepath.Join(t.TempDir(), "logs", "support.log"), WithClock(func() time.Time { return fixed }), WithEcho(&echo))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Warn("Support · could not open %s", "https://example.com")
	want := "2024-03-01T12:00:00Z WARN  Support · could not open https://example.com\n"
	if echo.String() != want {
		t.Fatalf("echo = %q, want %q", echo.String(), want)
	}
	lines, total := book.Tail(10)
	if total != 1 || lines[0]+"\n" != want {
		t.Fatalf("unexpected file contents %v (%d)", lines, total)
	}
}

func TestNilLogbookIsNoop(t *testing.T) {
	var book *Logbook
	book.Info("ignored")
	book.Warn("ignored")
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("nil logbook returned %v %d", lines, total)
	}
	if book.Path() != "" {
		t.Fatalf("nil logbook has a path")
	}
}

func TestTailMissingFile(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "missing.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v %d", lines, total)
	}
}

func TestTailLoadsExistingFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support.log")
	var existing strings.Builder
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&existing, "2024-03-01T12:00:00Z INFO  old-%d\n", i)
	}
	if err := os.WriteFile(path, []byte(existing.String()), 0o644); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("fresh")

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("truncate log: %v", err)
	}
	lines, total := book.Tail(2)
	if total != 201 {
		t.Fatalf("total = %d, want 201", total)
	}
	if len(lines) != 2 || !strings.HasSuffix(lines[0], "old-199") || !strings.HasSuffix(lines[1], "fresh") {
		t.Fatalf("unexpected tail %v", lines)
	}
	if all, _ := book.Tail(1000); len(all) != tailCapacity {
		t.Fatalf("expected tail bounded to %d entries, got %d", tailCapacity, len(all))
	}
}
