package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{
		Component: ComponentApp,
		Handler:   slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
}

func TestLoggerComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf).WithComponent(ComponentUpload)
	l.Info("hello", FieldRows, 3)

	out := buf.String()
	if !strings.Contains(out, "component=upload") || !strings.Contains(out, "rows=3") {
		t.Fatalf("unexpected output %q", out)
	}
	if strings.Contains(out, "component=app") {
		t.Fatalf("replaced component still logged: %q", out)
	}
	if l.Component() != ComponentUpload {
		t.Fatalf("Component() = %q", l.Component())
	}
}

func TestLoggerComponentLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	l := newBufferLogger(&buf).
		WithComponent(ComponentEmployee).
		With(FieldRequestID, "req_1").
		WithComponent(ComponentEmployee)

	sl := NewStructuredLogger(l)
	sl.LogEmployeeAdded(context.Background(), "Anna Rossi", "IT", "Mid", 3)
	l.InfoContext(context.Background(), "plain")

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if n := strings.Count(line, "component="); n != 1 {
			t.Errorf("component appears %d times in %q", n, line)
		}
		if !strings.Contains(line, "request_id=req_1") {
			t.Errorf("request id lost in %q", line)
		}
	}
}

func TestLogUploadWarnsOnMissingColumns(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf).WithComponent(ComponentEmployee))

	sl.LogUpload(context.Background(), "people.csv", "csv", 4, []string{"Age"})
	out := buf.String()
	if !strings.Contains(out, "level=WARN") {
		t.Fatalf("expected warning, got %q", out)
	}
	if strings.Count(out, "component=") != 1 || !strings.Contains(out, "component=upload") {
		t.Fatalf("expected a single upload component, got %q", out)
	}

	buf.Reset()
	sl.LogUpload(context.Background(), "people.csv", "csv", 4, nil)
	if !strings.Contains(buf.String(), "level=INFO") {
		t.Fatalf("expected info, got %q", buf.String())
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := NewContext(context.Background(), newBufferLogger(&buf).With(FieldRequestID, "req_1"))

	FromContext(ctx).Info("inside")
	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Fatalf("request id missing from %q", buf.String())
	}
	if FromContext(context.Background()).Component() != "unknown" {
		t.Fatal("missing logger should fall back to the default")
	}
}
