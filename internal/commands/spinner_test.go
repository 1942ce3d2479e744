package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Waiting")

	if s.message != "Waiting" {
		t.Errorf("Expected message Waiting, got %s", s.message)
	}
	if s.stopped {
		t.Error("spinner should not start stopped")
	}
}

func TestSpinnerLifecycle_StopWithSuccess(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Waiting")
	s.start()
	time.Sleep(200 * time.Millisecond)
	s.stopWithSuccess("done")

	out := buf.String()
	if !strings.Contains(out, "Waiting") {
		t.Errorf("expected at least one frame, got %q", out)
	}
	if !strings.Contains(out, "✓") || !strings.Contains(out, "done") {
		t.Errorf("expected the success line, got %q", out)
	}
}

func TestSpinnerLifecycle_StopWithError(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(&buf, "Waiting")
	s.start()
	time.Sleep(30 * time.Millisecond)
	s.stopWithError()
	// a second stop must not panic
	s.stopOnce()

	if strings.Contains(buf.String(), "✓") {
		t.Error("an error stop should not print success")
	}
}
