package base

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.SetShowCategory(true)
	category := NewLogCategory("LogTest")

	previousColor := IsAnsiColorEnabled()
	SetEnableAnsiColor(false)
	defer SetEnableAnsiColor(previousColor)

	logger.SetLevel(LOG_WARNING)
	logger.Log(category, LOG_INFO, "hidden %d", 1)
	logger.Log(category, LOG_ERROR, "visible %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected info message to be filtered, got %q", out)
	}
	if !strings.Contains(out, "LogTest: visible 2") {
		t.Errorf("expected error message with category, got %q", out)
	}
}

func TestLoggerSetWriter(t *testing.T) {
	var first, second bytes.Buffer
	logger := NewLogger(&first)
	logger.SetWriter(&second)
	logger.Forwardln("forwarded")

	if first.Len() != 0 {
		t.Errorf("expected nothing in previous writer, got %q", first.String())
	}
	if second.String() != "forwarded\n" {
		t.Errorf("got %q", second.String())
	}
}

func TestLogLevelSet(t *testing.T) {
	var level LogLevel
	if err := level.Set("verbose"); err != nil || level != LOG_VERBOSE {
		t.Errorf("Set(\"verbose\") = %v, %v", level, err)
	}
	if err := level.Set("loud"); err == nil {
		t.Error("expected an error for unknown level")
	}
	if !LOG_INFO.IsVisible(LOG_ERROR) || LOG_ERROR.IsVisible(LOG_INFO) {
		t.Error("unexpected visibility")
	}
}
