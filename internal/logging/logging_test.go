package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromCtx(t *testing.T) {
	l := Discard()
	ctx := WithCtx(context.Background(), l)
	if FromCtx(ctx) != l {
		t.Error("expected logger stored in context")
	}
	if FromCtx(context.Background()) == nil {
		t.Error("expected fallback logger")
	}
}

func TestNewLogger_OneComponentKey(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, Options{App: "shop", Level: "debug"}).With("component", "sync")
	l.Debug("cart synced", "lines", 2)

	line := buf.String()
	if n := strings.Count(line, `"component"`); n != 1 {
		t.Fatalf("expected one component key, got %d: %s", n, line)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["app"] != "shop" || rec["component"] != "sync" || rec["msg"] != "cart synced" {
		t.Errorf("unexpected record: %v", rec)
	}
}

func TestNewLogger_DefaultsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, Options{Level: "warn"})
	l.Info("hidden")
	l.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info must be filtered at warn level")
	}
	if !strings.Contains(buf.String(), `"app":"storefront"`) {
		t.Errorf("expected default app name: %s", buf.String())
	}
}
