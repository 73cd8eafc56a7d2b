package shared

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestHelpers(t *testing.T) {
	t.Run("NewLogger", func(t *testing.T) {
		t.Run("Defaults To Stderr", func(t *testing.T) {
			logger := NewLogger(nil)
			if logger == nil {
				t.Fatal("expected logger to be created")
			}
		})

		t.Run("Writes To Provided Writer", func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf)
			logger.Error("boom")

			if !strings.Contains(buf.String(), "boom") {
				t.Errorf("expected log output to contain message, got %q", buf.String())
			}
		})
	})

	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		child := WithLogger(logger, "component", "export")
		child.Error("failed")

		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "export") {
			t.Errorf("expected child logger fields in output, got %q", out)
		}
	})

	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)

		logger.Info("quiet")
		if strings.Contains(buf.String(), "quiet") {
			t.Error("expected info message to be suppressed at error level")
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		first := GenerateID()
		second := GenerateID()

		if first == "" {
			t.Error("expected non-empty ID")
		}
		if first == second {
			t.Error("expected unique IDs")
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data := map[string]int{"rank": -1}

		compact, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("compact marshal failed: %v", err)
		}
		if strings.Contains(string(compact), "\n") {
			t.Error("expected compact output without newlines")
		}

		pretty, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("pretty marshal failed: %v", err)
		}
		if !strings.Contains(string(pretty), "  ") {
			t.Error("expected indented output")
		}
	})

	t.Run("NormalizeTrackKey", func(t *testing.T) {
		cases := []struct {
			name          string
			title, artist string
			other         [2]string
			equal         bool
		}{
			{"Case Insensitive", "MAX 300", "Sharpnel", [2]string{"max 300", "SHARPNEL"}, true},
			{"Whitespace Collapsed", "Spin   the Disc", "DJ  Simon", [2]string{"Spin the Disc", "DJ Simon"}, true},
			{"Different Artists Differ", "Era", "Tatsh", [2]string{"Era", "NAOKI"}, false},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				a := NormalizeTrackKey(tc.title, tc.artist)
				b := NormalizeTrackKey(tc.other[0], tc.other[1])
				if (a == b) != tc.equal {
					t.Errorf("NormalizeTrackKey(%q,%q)=%q vs %q, equal=%v, want %v", tc.title, tc.artist, a, b, a == b, tc.equal)
				}
			})
		}
	})
}
