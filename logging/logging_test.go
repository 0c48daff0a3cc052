package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = level.Info(logger).Log("msg", "hidden")
	_ = level.Warn(logger).Log("msg", "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line passed a warn filter: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "level=warn") {
		t.Fatalf("missing warn line: %q", out)
	}
	if !strings.Contains(out, "ts=") {
		t.Fatalf("missing timestamp: %q", out)
	}
}

func TestNew_UnknownLevel(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = level.Debug(Component(logger, "trainer")).Log("msg", "tick")
	if !strings.Contains(buf.String(), "component=trainer") {
		t.Fatalf("missing component: %q", buf.String())
	}

	// A nil logger must be usable.
	if err := Component(nil, "x").Log("msg", "dropped"); err != nil {
		t.Fatalf("nop logger returned %v", err)
	}
}
