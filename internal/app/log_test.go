package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLineHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 6, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "info",
			level:   slog.LevelInfo,
			message: "post created",
			want:    "2024-06-15T14:30:45Z\tINFO\tinv-1\tpost created\n",
		},
		{
			name:    "warn with attrs",
			level:   slog.LevelWarn,
			message: "publishing events failed",
			attrs:   []slog.Attr{slog.Int("count", 2), slog.String("error", "broker down")},
			want:    "2024-06-15T14:30:45Z\tWARN\tinv-1\tpublishing events failed\tcount=2\terror=broker down\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &lineHandler{w: &buf, invID: "inv-1"}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			r.AddAttrs(tt.attrs...)

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestLineHandler_Enabled(t *testing.T) {
	h := &lineHandler{level: slog.LevelWarn}

	tests := map[slog.Level]bool{
		slog.LevelDebug: false,
		slog.LevelInfo:  false,
		slog.LevelWarn:  true,
		slog.LevelError: true,
	}
	for level, want := range tests {
		if got := h.Enabled(context.Background(), level); got != want {
			t.Errorf("Enabled(%v) = %v, want %v", level, got, want)
		}
	}
}

func TestLineHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &lineHandler{w: &buf, invID: "inv-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("component", "token")}).(*lineHandler)
	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "transfer", 0)
	r.AddAttrs(slog.Int("amount", 5))
	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := buf.String(); !strings.Contains(got, "\ta=1\tcomponent=token\tamount=5\n") {
		t.Errorf("Handle() output = %q, want pre-set attrs before record attrs", got)
	}
}

func TestFanoutHandler(t *testing.T) {
	var all, warn bytes.Buffer
	logger := slog.New(fanoutHandler{
		&lineHandler{w: &all, level: slog.LevelDebug, invID: "x"},
		&lineHandler{w: &warn, level: slog.LevelWarn, invID: "x"},
	})

	logger.Debug("fetching post", "id", 1)
	logger.Warn("publishing events failed")

	if n := strings.Count(all.String(), "\n"); n != 2 {
		t.Errorf("debug handler wrote %d lines, want 2", n)
	}
	if got := warn.String(); strings.Contains(got, "fetching post") || !strings.Contains(got, "publishing events failed") {
		t.Errorf("warn handler output = %q", got)
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "inv-9")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debug("hello", "k", "v")
	f.Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "\tDEBUG\tinv-9\thello\tk=v") {
		t.Errorf("log file = %q, want the debug line", data)
	}
}
