package shared

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogging(t *testing.T) {
	t.Run("ParseLogLevel", func(t *testing.T) {
		tc := []struct {
			in   string
			want log.Level
		}{
			{"", log.InfoLevel},
			{"debug", log.DebugLevel},
			{"WARN", log.WarnLevel},
			{"error", log.ErrorLevel},
			{"chatty", log.InfoLevel},
		}

		for _, tt := range tc {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})

	t.Run("WithLogger Adds Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "store")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=store") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := t.TempDir() + "/nested/topten.log"
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("written")
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Error("expected log line in file")
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected uuid string, got %q", a)
	}
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"rank": 1}, false)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(compact) != `{"rank":1}` {
		t.Errorf("compact = %s", compact)
	}

	pretty, _ := MarshalJSON(map[string]int{"rank": 1}, true)
	if !strings.Contains(string(pretty), "\n  \"rank\": 1") {
		t.Errorf("pretty = %s", pretty)
	}
}

func TestOpenBrowser(t *testing.T) {
	t.Run("Empty URL", func(t *testing.T) {
		if err := OpenBrowser(""); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		defer func() { getRuntime = orig }()

		err := OpenBrowser("https://example.com/cover.jpg")
		if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
			t.Errorf("expected unsupported platform error, got %v", err)
		}
	})
}
