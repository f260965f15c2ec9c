package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestDecodeLines(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewHandler(nil, buf)
	h.colorize = false

	input := `{"time":"2026-07-31T10:00:00Z","level":"INFO","msg":"daemon started","socket":"/tmp/bockd.sock"}` + "\n"
	decodeLines(context.Background(), h, bufio.NewScanner(strings.NewReader(input)))

	out := buf.String()
	if !strings.Contains(out, "daemon started") {
		t.Errorf("output = %q, want it to contain the message", out)
	}
	if !strings.Contains(out, "/tmp/bockd.sock") {
		t.Errorf("output = %q, want it to contain the remaining attrs", out)
	}
}

func TestHandlerRejectsNonStringLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewHandler(nil, buf)
	if err := h.Handle(context.Background(), map[string]any{"level": 1}); err == nil {
		t.Fatal("expected an error for a non-string level")
	}
}
