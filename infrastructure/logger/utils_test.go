package logger

import (
	"bytes"
	"strings"
	"testing"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error {
	return nil
}

func TestLogAndMeasureExecutionTime(t *testing.T) {
	buffer := &bufferCloser{}
	backend := NewBackend()
	if err := backend.AddLogWriter(buffer, LevelDebug); err != nil {
		t.Fatalf("AddLogWriter: %v", err)
	}
	if err := backend.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	log := backend.Logger("TEST")
	log.SetLevel(LevelDebug)

	onEnd := LogAndMeasureExecutionTime(log, "testFunction")
	onEnd()
	backend.Close()

	output := buffer.String()
	if !strings.Contains(output, "testFunction start") {
		t.Errorf("expected a start entry, got output %q", output)
	}
	if !strings.Contains(output, "testFunction end. Took:") {
		t.Errorf("expected an end entry with a duration, got output %q", output)
	}
}
