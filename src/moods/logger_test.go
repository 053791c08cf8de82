package moods

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	savedLevel := GetLogLevel()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLogLevel(savedLevel.String())
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("info")

	msg := "[lines] tooltip Threat: 1.00 (25.0% of total)"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(25.0% of total)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "(MISSING)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("WARNING")
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warnf("warn %d", 3)
	Errorf("error %d", 4)
	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("expected debug/info suppressed at warn level: %s", out)
	}
	if !strings.Contains(out, "[WARN] warn 3") || !strings.Contains(out, "[ERROR] error 4") {
		t.Fatalf("expected warn and error lines: %s", out)
	}
	SetLogLevel("bogus")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level name must not change the level, got %s", GetLogLevel())
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{"debug": LevelDebug, " Info ": LevelInfo, "warning": LevelWarn, "ERROR": LevelError} {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLogLevel(%q) = %s, %v", in, got, err)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if LogLevel(9).String() != "LogLevel(9)" {
		t.Fatalf("out of range level string %q", LogLevel(9).String())
	}
}

func TestTimeTrack_DebugOnly(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel("info")
	TimeTrack(time.Now(), "load")
	if buf.Len() != 0 {
		t.Fatalf("TimeTrack should be silent at info: %s", buf.String())
	}
	SetLogLevel("debug")
	TimeTrack(time.Now(), "load")
	if !strings.Contains(buf.String(), "[DEBUG] load took") {
		t.Fatalf("missing timing line: %s", buf.String())
	}
}
