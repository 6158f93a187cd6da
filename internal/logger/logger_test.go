package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func fixedClock(t *testing.T) {
	t.Helper()
	now = func() time.Time { return time.Date(2024, 11, 2, 10, 30, 0, 0, time.UTC) }
	t.Cleanup(func() {
		now = time.Now
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
}

func TestSetVerbose(t *testing.T) {
	fixedClock(t)

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "2024-11-02T10:30:00Z DEBUG test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestLevels_WhenNotVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("debug")
	Info("info")
	Warn("warn")
	Section("section")

	if buf.Len() != 0 {
		t.Errorf("expected no output when not verbose, got %q", buf.String())
	}
}

func TestError_AlwaysPrinted(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Error("boom: %d", 42)

	if got := buf.String(); got != "2024-11-02T10:30:00Z ERROR boom: 42\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestInfoAndWarn_WhenVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("fetched %d docs", 3)
	Warn("slow")

	out := buf.String()
	if !strings.Contains(out, "INFO fetched 3 docs") {
		t.Errorf("missing info line: %q", out)
	}
	if !strings.Contains(out, "WARN slow") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestSection_WhenVerbose(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Retrieval")

	if got := buf.String(); got != "\n=== Retrieval ===\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestRequestLogger_PrefixesLines(t *testing.T) {
	fixedClock(t)

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	log := Request("req-1")
	log.Info("stage %s", "retrieved")
	log.Error("failed")

	out := buf.String()
	if !strings.Contains(out, "INFO [req-1] stage retrieved") {
		t.Errorf("missing prefixed info: %q", out)
	}
	if !strings.Contains(out, "ERROR [req-1] failed") {
		t.Errorf("missing prefixed error: %q", out)
	}
}
