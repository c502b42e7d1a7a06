package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitializeWriterJSON(t *testing.T) {
	prev := Logger
	defer Set(prev)

	var buf bytes.Buffer
	InitializeWriter(Config{Level: "debug", Format: "json"}, &buf)
	Debug("check resolved", zap.String("country", "china"))
	Sync()

	out := buf.String()
	if !strings.Contains(out, `"country":"china"`) {
		t.Errorf("expected json field in output, got %q", out)
	}
	if !strings.Contains(out, `"timestamp"`) {
		t.Errorf("expected timestamp key in output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	prev := Logger
	defer Set(prev)

	var buf bytes.Buffer
	InitializeWriter(Config{Level: "warn", Format: "json"}, &buf)
	Info("dropped")
	Warn("kept")
	Sync()

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("expected info to be filtered at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("expected warn to be written")
	}
}

func TestSetNilInstallsNop(t *testing.T) {
	prev := Logger
	defer Set(prev)

	Set(nil)
	if Logger == nil {
		t.Fatal("expected a nop logger")
	}
	Info("no panic")
}

func TestNamedLogger(t *testing.T) {
	prev := Logger
	defer Set(prev)

	var buf bytes.Buffer
	InitializeWriter(Config{Level: "info", Format: "json"}, &buf)
	Named("http").Info("request")
	Sync()

	if !strings.Contains(buf.String(), `"http"`) {
		t.Errorf("expected logger name in output, got %q", buf.String())
	}
}
